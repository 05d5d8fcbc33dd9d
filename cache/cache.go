package cache

import (
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/sirupsen/logrus"

	"github.com/HavenSelph/NamelessBot/playerdb"
)

const profileKeyPrefix = "profile:"

// Service is a redis cache in front of the player identity API so repeated
// add/query commands for the same handle do not hammer the lookup service
type Service struct {
	pool   *redis.Pool
	ttl    time.Duration
	logger *logrus.Entry
}

// NewService creates and verifies a redis-backed profile cache
func NewService(addr string, ttl time.Duration, logger *logrus.Entry) (*Service, error) {
	pool := &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr)
		},
	}
	// Ping the cache first to verify connection
	conn := pool.Get()
	defer conn.Close()
	if _, err := conn.Do("PING"); err != nil {
		pool.Close()
		return nil, err
	}
	logger.Info("Redis cache connection established")
	return &Service{
		pool:   pool,
		ttl:    ttl,
		logger: logger,
	}, nil
}

// GetProfile returns the cached profile for key, or nil on a miss
func (s *Service) GetProfile(key string) (*playerdb.Profile, error) {
	conn := s.pool.Get()
	defer conn.Close()

	raw, err := redis.Bytes(conn.Do("GET", profileKeyPrefix+key))
	if err == redis.ErrNil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var profile playerdb.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// SetProfile caches a resolved profile for the configured TTL
func (s *Service) SetProfile(key string, profile playerdb.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	conn := s.pool.Get()
	defer conn.Close()
	_, err = conn.Do("SETEX", profileKeyPrefix+key, int(s.ttl.Seconds()), raw)
	return err
}

// Close releases the connection pool
func (s *Service) Close() error {
	return s.pool.Close()
}
