package playerdb_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HavenSelph/NamelessBot/playerdb"
	"github.com/HavenSelph/NamelessBot/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log.WithField("origin", "test")
}

func TestResolveJava(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/player/minecraft/Steve", r.URL.Path)
		fmt.Fprint(w, `{
			"success": true,
			"data": {
				"player": {
					"username": "Steve",
					"id": "c06f8906-4c8a-4911-9c29-ea1dbd1aab82",
					"avatar": "https://crafthead.net/avatar/c06f89064c8a49119c29ea1dbd1aab82"
				}
			}
		}`)
	}))
	defer server.Close()

	client := playerdb.NewClient(server.URL, nil, testLogger())
	profile, err := client.Resolve(context.Background(), "Steve", types.AccountTypeJava)
	require.NoError(t, err)
	assert.Equal(t, "Steve", profile.Username)
	assert.Equal(t, "c06f8906-4c8a-4911-9c29-ea1dbd1aab82", profile.UUID)
	assert.Equal(t, "https://crafthead.net/avatar/c06f89064c8a49119c29ea1dbd1aab82", profile.Avatar)
}

func TestResolveBedrock(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/player/xbox/SomeGamertag", r.URL.Path)
		fmt.Fprint(w, `{
			"success": true,
			"data": {
				"player": {
					"username": "SomeGamertag",
					"id": "291747152008589768269192857668598363758"
				}
			}
		}`)
	}))
	defer server.Close()

	client := playerdb.NewClient(server.URL, nil, testLogger())
	profile, err := client.Resolve(context.Background(), "SomeGamertag", types.AccountTypeBedrock)
	require.NoError(t, err)
	assert.Equal(t, ".SomeGamertag", profile.Username)
	assert.Equal(t, "db7c7526-ddca-901a-2ebf-b0808e17f66e", profile.UUID)
	assert.Empty(t, profile.Avatar)
}

func TestResolveUnknownAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"success": false}`)
	}))
	defer server.Close()

	client := playerdb.NewClient(server.URL, nil, testLogger())
	_, err := client.Resolve(context.Background(), "NoSuchPlayer", types.AccountTypeJava)
	var notFound *playerdb.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Contains(t, notFound.Error(), "NoSuchPlayer")
}

func TestResolveTransportErrorIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := playerdb.NewClient(server.URL, nil, testLogger())
	_, err := client.Resolve(context.Background(), "Steve", types.AccountTypeJava)
	var notFound *playerdb.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

type fakeCache struct {
	profiles map[string]playerdb.Profile
	gets     int
	sets     int
}

func (c *fakeCache) GetProfile(key string) (*playerdb.Profile, error) {
	c.gets++
	if p, ok := c.profiles[key]; ok {
		return &p, nil
	}
	return nil, nil
}

func (c *fakeCache) SetProfile(key string, profile playerdb.Profile) error {
	c.sets++
	c.profiles[key] = profile
	return nil
}

func TestResolveUsesCache(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, `{
			"success": true,
			"data": {
				"player": {
					"username": "Steve",
					"id": "c06f8906-4c8a-4911-9c29-ea1dbd1aab82"
				}
			}
		}`)
	}))
	defer server.Close()

	cache := &fakeCache{profiles: map[string]playerdb.Profile{}}
	client := playerdb.NewClient(server.URL, cache, testLogger())

	first, err := client.Resolve(context.Background(), "Steve", types.AccountTypeJava)
	require.NoError(t, err)
	second, err := client.Resolve(context.Background(), "steve", types.AccountTypeJava)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, requests, "second resolve should be served from cache")
	assert.Equal(t, 1, cache.sets)
}
