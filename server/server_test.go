package server_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HavenSelph/NamelessBot/db"
	"github.com/HavenSelph/NamelessBot/playerdb"
	"github.com/HavenSelph/NamelessBot/server"
	"github.com/HavenSelph/NamelessBot/types"
	"github.com/HavenSelph/NamelessBot/whitelist"
)

type fakeStore struct {
	entries []types.WhitelistEntry
}

func (f *fakeStore) Insert(_ context.Context, entry types.WhitelistEntry) (types.WhitelistEntry, error) {
	entry.ID = primitive.NewObjectID()
	f.entries = append(f.entries, entry)
	return entry, nil
}

func (f *fakeStore) FindOne(_ context.Context, filter db.Filter) (*types.WhitelistEntry, error) {
	for _, e := range f.entries {
		if matches(filter, e) {
			return &e, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) Find(_ context.Context, filter db.Filter) ([]types.WhitelistEntry, error) {
	var out []types.WhitelistEntry
	for _, e := range f.entries {
		if matches(filter, e) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) FindPaginated(ctx context.Context, filter db.Filter, skip, limit int64) ([]types.WhitelistEntry, error) {
	all, err := f.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	if skip >= int64(len(all)) {
		return nil, nil
	}
	all = all[skip:]
	if limit > 0 && limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (f *fakeStore) Each(ctx context.Context, filter db.Filter, fn func(types.WhitelistEntry) error) error {
	all, err := f.Find(ctx, filter)
	if err != nil {
		return err
	}
	for _, e := range all {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (f *fakeStore) Count(ctx context.Context, filter db.Filter) (int64, error) {
	all, err := f.Find(ctx, filter)
	return int64(len(all)), err
}

func (f *fakeStore) DeleteOne(_ context.Context, filter db.Filter) (db.DeleteResult, error) {
	for i, e := range f.entries {
		if matches(filter, e) {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return db.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return db.DeleteResult{Acknowledged: true}, nil
}

func (f *fakeStore) DeleteMany(_ context.Context, filter db.Filter) (db.DeleteResult, error) {
	var kept []types.WhitelistEntry
	var removed int64
	for _, e := range f.entries {
		if matches(filter, e) {
			removed++
		} else {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return db.DeleteResult{Acknowledged: true, DeletedCount: removed}, nil
}

func (f *fakeStore) DeleteByID(_ context.Context, id primitive.ObjectID) (db.DeleteResult, error) {
	for i, e := range f.entries {
		if e.ID == id {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return db.DeleteResult{Acknowledged: true, DeletedCount: 1}, nil
		}
	}
	return db.DeleteResult{Acknowledged: true}, nil
}

func matches(filter db.Filter, e types.WhitelistEntry) bool {
	for _, c := range filter {
		var field string
		switch c.Field {
		case "discord_id":
			field = e.DiscordID
		case "minecraft_username":
			field = e.MinecraftUsername
		case "type":
			field = string(e.Type)
		default:
			return false
		}
		switch c.Op {
		case db.IEq:
			if !strings.EqualFold(field, c.Value) {
				return false
			}
		case db.IContains:
			if !strings.Contains(strings.ToLower(field), strings.ToLower(c.Value)) {
				return false
			}
		default:
			if field != c.Value {
				return false
			}
		}
	}
	return true
}

type fakeResolver struct{}

func (fakeResolver) Resolve(_ context.Context, handle string, accountType types.AccountType) (playerdb.Profile, error) {
	return playerdb.Profile{Username: handle, UUID: "00000000-0000-0000-0000-000000000000"}, nil
}

func newTestServer(t *testing.T, store *fakeStore) *httptest.Server {
	t.Helper()
	logger := log.New()
	logger.SetOutput(io.Discard)
	wl := whitelist.NewService(store, fakeResolver{}, nil, filepath.Join(t.TempDir(), "whitelist.json"), logger.WithField("origin", "whitelist"))
	svc := server.NewService(wl, logger.WithField("origin", "server"))
	ts := httptest.NewServer(svc.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func seedEntries() *fakeStore {
	return &fakeStore{entries: []types.WhitelistEntry{
		{
			ID:                primitive.NewObjectID(),
			AddedOn:           time.Now(),
			DiscordID:         "100",
			Type:              types.AccountTypeJava,
			MinecraftUsername: "Alice",
		},
		{
			ID:                primitive.NewObjectID(),
			AddedOn:           time.Now(),
			DiscordID:         "100",
			Type:              types.AccountTypeBedrock,
			MinecraftUsername: ".AliceXbox",
		},
		{
			ID:                primitive.NewObjectID(),
			AddedOn:           time.Now(),
			DiscordID:         "200",
			Type:              types.AccountTypeJava,
			MinecraftUsername: "Bob",
		},
	}}
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, seedEntries())
	var body map[string]string
	code := getJSON(t, ts.URL+"/api/v1/health", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestGetEntries(t *testing.T) {
	ts := newTestServer(t, seedEntries())
	var body struct {
		Entries []types.WhitelistEntry `json:"entries"`
	}
	code := getJSON(t, ts.URL+"/api/v1/entries", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Entries, 3)
}

func TestGetEntriesByUser(t *testing.T) {
	ts := newTestServer(t, seedEntries())
	var body struct {
		Entries []types.WhitelistEntry `json:"entries"`
	}
	code := getJSON(t, ts.URL+"/api/v1/entries?user=100", &body)
	assert.Equal(t, http.StatusOK, code)
	require.Len(t, body.Entries, 2)
	for _, e := range body.Entries {
		assert.Equal(t, "100", e.DiscordID)
	}
}

func TestGetEntriesPaginated(t *testing.T) {
	ts := newTestServer(t, seedEntries())
	var body struct {
		Entries []types.WhitelistEntry `json:"entries"`
	}
	code := getJSON(t, ts.URL+"/api/v1/entries?skip=1&limit=1", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Len(t, body.Entries, 1)

	code = getJSON(t, ts.URL+"/api/v1/entries?skip=-1", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = getJSON(t, ts.URL+"/api/v1/entries?limit=abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestGetStats(t *testing.T) {
	ts := newTestServer(t, seedEntries())
	var body struct {
		Stats map[string]int64 `json:"stats"`
	}
	code := getJSON(t, ts.URL+"/api/v1/stats", &body)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, int64(3), body.Stats["total"])
	assert.Equal(t, int64(2), body.Stats["java"])
	assert.Equal(t, int64(1), body.Stats["bedrock"])
}
