// internal/history/history.go
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "car-sales-assistant/internal/common/errors"
	"car-sales-assistant/internal/common/logger"
)

const (
	conversationKeyPrefix = "assistant:conversation:"
	activityKeyPrefix     = "assistant:activity:"
)

// Turn is one completed user/agent exchange.
type Turn struct {
	TurnID    string    `json:"turn_id"`
	User      string    `json:"user"`
	Agent     string    `json:"agent"`
	Timestamp time.Time `json:"timestamp"`
}

// Store keeps per-session conversation history. Implementations must return
// turns in chronological order and treat an unknown session as empty.
type Store interface {
	Get(ctx context.Context, sessionID string) ([]Turn, error)
	Put(ctx context.Context, sessionID string, turn Turn) error
	Delete(ctx context.Context, sessionID string) error
	ActiveSessions(ctx context.Context) ([]string, error)
}

// ==========================================
// REDIS-BACKED STORE
// ==========================================

// RedisStore persists conversation history in Redis. Each session holds one
// JSON-encoded turn list plus an activity marker; both expire together after
// the configured TTL of inactivity, so abandoned sessions clean themselves up.
type RedisStore struct {
	client   *redis.Client
	maxTurns int
	ttl      time.Duration
	logger   logger.Logger
}

func NewRedisStore(client *redis.Client, maxTurns int, ttl time.Duration, log logger.Logger) *RedisStore {
	return &RedisStore{
		client:   client,
		maxTurns: maxTurns,
		ttl:      ttl,
		logger:   log.WithFields(map[string]interface{}{"component": "history"}),
	}
}

// Get returns the stored turns for a session, oldest first. A session with
// no history yields an empty slice, not an error.
func (s *RedisStore) Get(ctx context.Context, sessionID string) ([]Turn, error) {
	raw, err := s.client.Get(ctx, conversationKeyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewHistoryUnavailableError(fmt.Sprintf("get %s: %v", sessionID, err))
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		// A corrupt record is unrecoverable; drop it rather than poison
		// every later read of this session.
		s.logger.Warn("corrupt history record dropped", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
		s.client.Del(ctx, conversationKeyPrefix+sessionID)
		return nil, nil
	}
	return turns, nil
}

// Put appends a turn, trims the session to the newest maxTurns entries and
// refreshes the TTL on both session keys.
func (s *RedisStore) Put(ctx context.Context, sessionID string, turn Turn) error {
	turns, err := s.Get(ctx, sessionID)
	if err != nil {
		return err
	}

	turns = append(turns, turn)
	if len(turns) > s.maxTurns {
		turns = turns[len(turns)-s.maxTurns:]
	}

	encoded, err := json.Marshal(turns)
	if err != nil {
		return apperrors.NewHistoryUnavailableError(fmt.Sprintf("encode %s: %v", sessionID, err))
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, conversationKeyPrefix+sessionID, encoded, s.ttl)
	pipe.Set(ctx, activityKeyPrefix+sessionID, time.Now().UTC().Format(time.RFC3339), s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewHistoryUnavailableError(fmt.Sprintf("put %s: %v", sessionID, err))
	}

	s.logger.Debug("turn stored", map[string]interface{}{
		"session_id": sessionID,
		"turns":      len(turns),
	})
	return nil
}

// Delete removes all state for a session.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	keys := []string{conversationKeyPrefix + sessionID, activityKeyPrefix + sessionID}
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return apperrors.NewHistoryUnavailableError(fmt.Sprintf("delete %s: %v", sessionID, err))
	}
	return nil
}

// ActiveSessions lists the session IDs with unexpired activity markers.
func (s *RedisStore) ActiveSessions(ctx context.Context) ([]string, error) {
	var sessions []string
	iter := s.client.Scan(ctx, 0, activityKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		sessions = append(sessions, strings.TrimPrefix(iter.Val(), activityKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, apperrors.NewHistoryUnavailableError(fmt.Sprintf("scan sessions: %v", err))
	}
	return sessions, nil
}
