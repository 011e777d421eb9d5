package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"geoquiz-service/internal/domain"
)

var errMalformedSession = errors.New("malformed session hash")

// SessionStore keeps session cursors in Redis so a reconnecting shell, or a
// restarted process, resumes where the player left off.
// Layout: HSET quiz:session:{id} bank {bankID} index {n} updated {unix}
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) Load(ctx context.Context, sessionID string) (domain.SessionState, error) {
	fields, err := s.client.HGetAll(ctx, s.key(sessionID)).Result()
	if err != nil {
		return domain.SessionState{}, fmt.Errorf("load session %s: %w", sessionID, err)
	}
	if len(fields) == 0 {
		return domain.SessionState{}, domain.ErrSessionNotFound
	}

	index, err := strconv.Atoi(fields["index"])
	if err != nil || fields["bank"] == "" {
		return domain.SessionState{}, fmt.Errorf("session %s: %w", sessionID, errMalformedSession)
	}
	state := domain.SessionState{
		ID:     sessionID,
		BankID: fields["bank"],
		Index:  index,
	}
	if unix, err := strconv.ParseInt(fields["updated"], 10, 64); err == nil {
		state.UpdatedAt = time.Unix(unix, 0).UTC()
	}
	return state, nil
}

func (s *SessionStore) Save(ctx context.Context, state domain.SessionState) error {
	key := s.key(state.ID)
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		"bank", state.BankID,
		"index", state.Index,
		"updated", state.UpdatedAt.Unix(),
	)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("save session %s: %w", state.ID, err)
	}
	return nil
}

func (s *SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Del(ctx, s.key(sessionID)).Err()
}

func (s *SessionStore) key(sessionID string) string {
	return "quiz:session:" + sessionID
}
