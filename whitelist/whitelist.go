package whitelist

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/playerdb"
	"github.com/HavenSelph/NamelessBot/types"
)

// Store is the persistence surface the engine mutates and queries
type Store interface {
	Insert(ctx context.Context, entry types.WhitelistEntry) (types.WhitelistEntry, error)
	FindOne(ctx context.Context, filter db.Filter) (*types.WhitelistEntry, error)
	Find(ctx context.Context, filter db.Filter) ([]types.WhitelistEntry, error)
	FindPaginated(ctx context.Context, filter db.Filter, skip, limit int64) ([]types.WhitelistEntry, error)
	Each(ctx context.Context, filter db.Filter, fn func(types.WhitelistEntry) error) error
	Count(ctx context.Context, filter db.Filter) (int64, error)
	DeleteOne(ctx context.Context, filter db.Filter) (db.DeleteResult, error)
	DeleteMany(ctx context.Context, filter db.Filter) (db.DeleteResult, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) (db.DeleteResult, error)
}

// Resolver turns a player handle into a canonical profile
type Resolver interface {
	Resolve(ctx context.Context, handle string, accountType types.AccountType) (playerdb.Profile, error)
}

// Reloader tells the game server to re-read its whitelist file after a flush
type Reloader interface {
	Reload() error
}

// Service is the whitelist engine. It owns the authoritative entry collection
// and the dirty flag coordinating mutations with the file sync loop
type Service struct {
	store    Store
	resolver Resolver
	reloader Reloader
	path     string
	dirty    atomic.Bool
	logger   *logrus.Entry
}

// NewService creates the engine. reloader may be nil when RCON is not
// configured. The dirty flag starts set so the first sync tick rewrites the
// file and repairs any divergence from before a restart
func NewService(store Store, resolver Resolver, reloader Reloader, path string, logger *logrus.Entry) *Service {
	svc := &Service{
		store:    store,
		resolver: resolver,
		reloader: reloader,
		path:     path,
		logger:   logger,
	}
	svc.markDirty()
	return svc
}

// The dirty flag is set on every successful mutation and cleared only after a
// confirmed complete flush. Nothing else may touch it
func (s *Service) markDirty() {
	s.dirty.Store(true)
}

func (s *Service) takeDirtyAndClear() bool {
	return s.dirty.CompareAndSwap(true, false)
}

// Add resolves the handle, enforces username uniqueness and inserts a new
// entry stamped with the current time. Resolver errors propagate verbatim;
// they carry the user-facing message
func (s *Service) Add(ctx context.Context, discordID, handle string, accountType types.AccountType) (types.WhitelistEntry, error) {
	profile, err := s.resolver.Resolve(ctx, handle, accountType)
	if err != nil {
		return types.WhitelistEntry{}, err
	}

	// Pre-check, not a store constraint. Two concurrent adds for the same
	// username can both pass; accepted for human-issued commands
	existing, err := s.store.FindOne(ctx, db.ByUsername(profile.Username))
	if err != nil {
		return types.WhitelistEntry{}, &StoreError{Op: "lookup", Err: err}
	}
	if existing != nil {
		return types.WhitelistEntry{}, &ConflictError{Existing: *existing}
	}

	entry := types.WhitelistEntry{
		AddedOn:           time.Now(),
		DiscordID:         discordID,
		Type:              accountType,
		MinecraftUsername: profile.Username,
		MinecraftUUID:     profile.UUID,
		MinecraftAvatar:   profile.Avatar,
	}
	inserted, err := s.store.Insert(ctx, entry)
	if err != nil {
		return types.WhitelistEntry{}, &StoreError{Op: "insert", Err: err}
	}
	s.markDirty()
	s.logger.WithFields(logrus.Fields{
		"username": inserted.MinecraftUsername,
		"uuid":     inserted.MinecraftUUID,
		"discord":  inserted.DiscordID,
	}).Info("Added entry to the whitelist")
	return inserted, nil
}

// RemoveOne deletes the first matching entry. A zero-match delete is reported
// to the caller, not treated as an error
func (s *Service) RemoveOne(ctx context.Context, filter db.Filter) (db.DeleteResult, error) {
	res, err := s.store.DeleteOne(ctx, filter)
	if err != nil {
		return db.DeleteResult{}, &StoreError{Op: "delete", Err: err}
	}
	s.noteRemoved(res)
	return res, nil
}

// RemoveMany deletes every matching entry
func (s *Service) RemoveMany(ctx context.Context, filter db.Filter) (db.DeleteResult, error) {
	res, err := s.store.DeleteMany(ctx, filter)
	if err != nil {
		return db.DeleteResult{}, &StoreError{Op: "delete", Err: err}
	}
	s.noteRemoved(res)
	return res, nil
}

// RemoveForUser deletes all entries bound to one discord user. Used by the
// member-leave listener and available to commands
func (s *Service) RemoveForUser(ctx context.Context, discordID string) (db.DeleteResult, error) {
	return s.RemoveMany(ctx, db.ByDiscordID(discordID))
}

func (s *Service) noteRemoved(res db.DeleteResult) {
	if res.Acknowledged && res.DeletedCount > 0 {
		s.markDirty()
	}
}

// QueryOne returns the first matching entry, or nil when none matches
func (s *Service) QueryOne(ctx context.Context, filter db.Filter) (*types.WhitelistEntry, error) {
	return s.store.FindOne(ctx, filter)
}

// QueryMany returns all matching entries
func (s *Service) QueryMany(ctx context.Context, filter db.Filter) ([]types.WhitelistEntry, error) {
	return s.store.Find(ctx, filter)
}

// QueryManyPaginated returns one offset-based page of matching entries
func (s *Service) QueryManyPaginated(ctx context.Context, filter db.Filter, skip, limit int64) ([]types.WhitelistEntry, error) {
	return s.store.FindPaginated(ctx, filter, skip, limit)
}

// Count returns how many entries match the filter
func (s *Service) Count(ctx context.Context, filter db.Filter) (int64, error) {
	return s.store.Count(ctx, filter)
}
