package playerdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/HavenSelph/NamelessBot/types"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultBaseURL points at the public playerdb.co player identity API
const DefaultBaseURL = "https://playerdb.co"

// Profile is the canonical result of resolving a player handle
type Profile struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
	Avatar   string `json:"avatar,omitempty"`
}

// NotFoundError is returned when a handle does not correspond to a real
// account. Lookup transport failures map to it as well: the API is a best
// effort collaborator and an unreachable service must not crash a command
type NotFoundError struct {
	Handle string
	Type   types.AccountType
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("No %s account exists with username `%s`!", e.Type, e.Handle)
}

// ProfileCache is an optional read-through cache for resolved profiles
type ProfileCache interface {
	GetProfile(key string) (*Profile, error)
	SetProfile(key string, profile Profile) error
}

// Client resolves player handles against the identity lookup API
type Client struct {
	httpClient *http.Client
	baseURL    string
	cache      ProfileCache
	logger     *logrus.Entry
}

// NewClient creates a resolver client. cache may be nil to disable caching
func NewClient(baseURL string, cache ProfileCache, logger *logrus.Entry) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		cache:      cache,
		logger:     logger,
	}
}

type lookupResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Player struct {
			Username string `json:"username"`
			ID       string `json:"id"`
			Avatar   string `json:"avatar"`
		} `json:"player"`
	} `json:"data"`
}

// Resolve turns a human-entered handle into a canonical profile. Java handles
// are looked up by username; Bedrock handles go through the cross-platform
// endpoint and come back with a numeric id that is converted to UUID form
func (c *Client) Resolve(ctx context.Context, handle string, accountType types.AccountType) (Profile, error) {
	cacheKey := string(accountType) + ":" + strings.ToLower(handle)
	if c.cache != nil {
		if cached, err := c.cache.GetProfile(cacheKey); err == nil && cached != nil {
			return *cached, nil
		}
	}

	var route string
	switch accountType {
	case types.AccountTypeBedrock:
		route = "/api/player/xbox/" + url.PathEscape(handle)
	default:
		route = "/api/player/minecraft/" + url.PathEscape(handle)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+route, nil)
	if err != nil {
		return Profile{}, err
	}
	// Add user-agent to prevent CDN 403 responses
	req.Header.Set("User-Agent", "NamelessBot")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"handle": handle,
			"err":    err.Error(),
		}).Warn("Player lookup request failed")
		return Profile{}, &NotFoundError{Handle: handle, Type: accountType}
	}
	defer resp.Body.Close()

	var decoded lookupResponse
	if resp.StatusCode != http.StatusOK {
		return Profile{}, &NotFoundError{Handle: handle, Type: accountType}
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || !decoded.Success {
		return Profile{}, &NotFoundError{Handle: handle, Type: accountType}
	}

	player := decoded.Data.Player
	var profile Profile
	switch accountType {
	case types.AccountTypeBedrock:
		converted, err := XUIDToUUID(player.ID)
		if err != nil {
			return Profile{}, err
		}
		profile = Profile{
			Username: types.StoredUsername(player.Username, accountType),
			UUID:     converted,
		}
	default:
		parsed, err := uuid.Parse(player.ID)
		if err != nil {
			return Profile{}, &ValidationError{Value: player.ID}
		}
		profile = Profile{
			Username: player.Username,
			UUID:     parsed.String(),
			Avatar:   player.Avatar,
		}
	}

	if c.cache != nil {
		if err := c.cache.SetProfile(cacheKey, profile); err != nil {
			c.logger.WithFields(logrus.Fields{
				"key": cacheKey,
				"err": err.Error(),
			}).Warn("Unable to cache resolved profile")
		}
	}
	return profile, nil
}
