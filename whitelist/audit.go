package whitelist

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/types"
)

// MemberLister fetches the full current membership of the configured guild
type MemberLister interface {
	MemberIDs() ([]string, error)
}

// RunAudit reconciles the whitelist against guild membership on an interval.
// It is the backstop for member-leave events missed while the bot was offline
func (s *Service) RunAudit(ctx context.Context, lister MemberLister, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := s.Audit(ctx, lister); err != nil {
			s.logger.WithFields(logrus.Fields{
				"err": err.Error(),
			}).Error("Whitelist audit pass aborted")
		}
	}
}

// Audit performs one reconciliation pass: every entry whose owner is no
// longer a guild member is deleted by identity. A failed membership fetch
// aborts the pass; the next tick retries independently
func (s *Service) Audit(ctx context.Context, lister MemberLister) error {
	ids, err := lister.MemberIDs()
	if err != nil {
		return &TransientNetworkError{Op: "guild member fetch", Err: err}
	}
	members := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}

	var removed int64
	err = s.store.Each(ctx, db.All(), func(entry types.WhitelistEntry) error {
		if _, ok := members[entry.DiscordID]; ok {
			return nil
		}
		res, err := s.store.DeleteByID(ctx, entry.ID)
		if err != nil {
			return &StoreError{Op: "delete", Err: err}
		}
		// A zero-count delete means a command beat us to it; fine
		removed += res.DeletedCount
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		s.markDirty()
		s.logger.WithFields(logrus.Fields{
			"count": removed,
		}).Info("Removed whitelist entries for users no longer in the guild")
	}
	return nil
}
