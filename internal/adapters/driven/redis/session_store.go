package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/custodia-labs/resumelens/internal/core/domain"
	"github.com/custodia-labs/resumelens/internal/core/ports/driven"
	"github.com/custodia-labs/resumelens/internal/sweeper"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ driven.SessionStore = (*SessionStore)(nil)

const (
	// Key layout
	sessionPrefix = "resumelens:session:"
	sessionIndex  = "resumelens:sessions" // ZSET of session IDs scored by expiry (unix ms)

	DefaultTTL         = 25 * time.Minute
	DefaultMaxSessions = 100
)

// Config holds configuration for the Redis store.
type Config struct {
	TTL           time.Duration // default: 25m
	MaxSessions   int           // default: 100
	SweepInterval time.Duration // default: 60s
	Logger        *slog.Logger
	Clock         func() time.Time // default: time.Now
}

// SessionStore implements driven.SessionStore on Redis so several replicas
// can serve the same sessions. Every key carries the session TTL; expiry is
// additionally enforced on read against the store clock.
type SessionStore struct {
	client      *redis.Client
	ttl         time.Duration
	maxSessions int
	now         func() time.Time
	logger      *slog.Logger
	sweeper     *sweeper.Sweeper
}

// NewSessionStore creates a new Redis-backed SessionStore.
// The sweep loop coordinates across replicas through a Redis lock.
func NewSessionStore(client *redis.Client, cfg Config) *SessionStore {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.MaxSessions <= 0 {
		cfg.MaxSessions = DefaultMaxSessions
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	s := &SessionStore{
		client:      client,
		ttl:         cfg.TTL,
		maxSessions: cfg.MaxSessions,
		now:         cfg.Clock,
		logger:      logger.With("component", "redis_session_store"),
	}
	s.sweeper = sweeper.New(sweeper.Config{
		Sweep:    s.Sweep,
		Lock:     NewLock(client),
		Logger:   logger,
		Interval: cfg.SweepInterval,
	})
	return s
}

// createScript inserts a session unless the index is at capacity after
// dropping expired members.
// KEYS: index, session key. ARGV: now ms, max, payload, ttl ms, expiry ms, id.
var createScript = redis.NewScript(`
	local max = tonumber(ARGV[2])
	if redis.call("zcard", KEYS[1]) >= max then
		redis.call("zremrangebyscore", KEYS[1], "-inf", "(" .. ARGV[1])
		if redis.call("zcard", KEYS[1]) >= max then
			return 0
		end
	end
	redis.call("set", KEYS[2], ARGV[3], "PX", ARGV[4])
	redis.call("zadd", KEYS[1], ARGV[5], ARGV[6])
	return 1
`)

// replaceScript overwrites an existing session, keeping its remaining TTL.
// KEYS: session key. ARGV: payload.
var replaceScript = redis.NewScript(`
	local ttl = redis.call("pttl", KEYS[1])
	if ttl <= 0 then
		return 0
	end
	redis.call("set", KEYS[1], ARGV[1], "PX", ttl)
	return 1
`)

// deleteScript removes a session and its index entry.
// KEYS: session key, index. ARGV: id.
var deleteScript = redis.NewScript(`
	local n = redis.call("del", KEYS[1])
	redis.call("zrem", KEYS[2], ARGV[1])
	return n
`)

// Create inserts a new empty session.
func (s *SessionStore) Create(ctx context.Context, sourceType domain.SourceType) (*domain.Session, error) {
	now := s.now()
	session := &domain.Session{
		ID:         uuid.NewString(),
		SourceType: sourceType,
		Chunks:     []domain.Chunk{},
		Embeddings: [][]float32{},
		CreatedAt:  now,
		UpdatedAt:  now,
		ExpiresAt:  now.Add(s.ttl),
	}

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	created, err := createScript.Run(ctx, s.client,
		[]string{sessionIndex, sessionPrefix + session.ID},
		now.UnixMilli(), s.maxSessions, data, s.ttl.Milliseconds(), session.ExpiresAt.UnixMilli(), session.ID,
	).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	if created == 0 {
		return nil, domain.ErrCapacityExceeded
	}

	return session, nil
}

// Get retrieves a live session by ID, evicting it if expired.
func (s *SessionStore) Get(ctx context.Context, id string) (*domain.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		s.client.ZRem(ctx, sessionIndex, id)
		return nil, domain.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session domain.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	if session.IsExpired(s.now()) {
		if _, err := s.Delete(ctx, id); err != nil {
			s.logger.Warn("failed to evict expired session", "session_id", id, "error", err)
		}
		return nil, domain.ErrSessionNotFound
	}

	return &session, nil
}

// Delete removes a session and its index entry.
func (s *SessionStore) Delete(ctx context.Context, id string) (bool, error) {
	n, err := deleteScript.Run(ctx, s.client, []string{sessionPrefix + id, sessionIndex}, id).Int()
	if err != nil {
		return false, fmt.Errorf("failed to delete session: %w", err)
	}
	return n > 0, nil
}

// UpdateEmbeddings replaces chunks, embeddings and digest in one write.
func (s *SessionStore) UpdateEmbeddings(ctx context.Context, id string, chunks []domain.Chunk, embeddings [][]float32) (*domain.Session, error) {
	if len(chunks) != len(embeddings) {
		return nil, fmt.Errorf("%w: %d embeddings for %d chunks", domain.ErrDimensionMismatch, len(embeddings), len(chunks))
	}

	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	session.Chunks = domain.CloneChunks(chunks)
	session.Embeddings = domain.CloneEmbeddings(embeddings)
	session.DocumentDigest = domain.DocumentDigest(chunks)
	session.UpdatedAt = s.now()

	data, err := json.Marshal(session)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal session: %w", err)
	}

	replaced, err := replaceScript.Run(ctx, s.client, []string{sessionPrefix + id}, data).Int()
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if replaced == 0 {
		// Deleted or expired between read and write.
		return nil, domain.ErrSessionNotFound
	}

	return session, nil
}

// List returns all live sessions ordered by expiry.
func (s *SessionStore) List(ctx context.Context) ([]*domain.Session, error) {
	ids, err := s.client.ZRangeByScore(ctx, sessionIndex, &redis.ZRangeBy{
		Min: "(" + strconv.FormatInt(s.now().UnixMilli(), 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Session{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionPrefix + id
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	now := s.now()
	sessions := make([]*domain.Session, 0, len(values))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue // Expired between the range and the load
		}
		var session domain.Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			s.logger.Warn("skipping unreadable session", "session_id", ids[i], "error", err)
			continue
		}
		if session.IsExpired(now) {
			continue
		}
		sessions = append(sessions, &session)
	}

	return sessions, nil
}

// Count returns the number of live sessions.
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	n, err := s.client.ZCount(ctx, sessionIndex, "("+strconv.FormatInt(s.now().UnixMilli(), 10), "+inf").Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return int(n), nil
}

// Sweep evicts every session whose expiry has passed.
func (s *SessionStore) Sweep(ctx context.Context) (int, error) {
	cutoff := "(" + strconv.FormatInt(s.now().UnixMilli(), 10)

	ids, err := s.client.ZRangeByScore(ctx, sessionIndex, &redis.ZRangeBy{Min: "-inf", Max: cutoff}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to find expired sessions: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, len(ids))
	members := make([]interface{}, len(ids))
	for i, id := range ids {
		keys[i] = sessionPrefix + id
		members[i] = id
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keys...)
	pipe.ZRem(ctx, sessionIndex, members...)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("failed to evict expired sessions: %w", err)
	}

	return len(ids), nil
}

// MaxSessions returns the configured capacity.
func (s *SessionStore) MaxSessions() int {
	return s.maxSessions
}

// Start launches the background sweep loop.
func (s *SessionStore) Start(ctx context.Context) {
	s.sweeper.Start(ctx)
}

// Close stops the sweep loop. The Redis client is owned by the caller.
func (s *SessionStore) Close() error {
	s.sweeper.Stop()
	return nil
}
