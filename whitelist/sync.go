package whitelist

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/types"
)

// RunSync flushes the whitelist file on an interval for the lifetime of ctx.
// Flush failures are logged and retried on the next tick, never fatal
func (s *Service) RunSync(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if err := s.Flush(ctx); err != nil {
			s.logger.WithFields(logrus.Fields{
				"err": err.Error(),
			}).Error("Unable to sync whitelist to disk")
		}
	}
}

// Flush writes the {name, uuid} projection of all entries to the whitelist
// file if there are unflushed changes. The dirty flag is cleared only after
// the full file write succeeded
func (s *Service) Flush(ctx context.Context) error {
	if !s.dirty.Load() {
		return nil
	}

	entries, err := s.store.Find(ctx, db.All())
	if err != nil {
		return &StoreError{Op: "read", Err: err}
	}
	projection := make([]types.SyncEntry, 0, len(entries))
	for _, entry := range entries {
		projection = append(projection, entry.Projection())
	}

	data, err := json.MarshalIndent(projection, "", "  ")
	if err != nil {
		return err
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return err
	}
	s.takeDirtyAndClear()
	s.logger.WithFields(logrus.Fields{
		"count": len(projection),
		"path":  s.path,
	}).Info("Synced whitelist to disk")

	if s.reloader != nil {
		if err := s.reloader.Reload(); err != nil {
			s.logger.WithFields(logrus.Fields{
				"err": err.Error(),
			}).Warn("Unable to reload whitelist on the game server")
		}
	}
	return nil
}

// Full-file overwrite through a rename so the game server never observes a
// partially written whitelist
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".whitelist-*.json")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
