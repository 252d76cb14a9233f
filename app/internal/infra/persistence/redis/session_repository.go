package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	domsession "example.com/storefront/app/internal/domain/session"
)

func sessionKey(storefrontID string) string {
	return "storefront:session:" + storefrontID
}

type storedSession struct {
	Credential string          `json:"credential"`
	User       domsession.User `json:"user"`
	ExpiresAt  time.Time       `json:"expires_at,omitempty"`
}

type SessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) *SessionRepository {
	return &SessionRepository{client: client}
}

func (r *SessionRepository) Save(ctx context.Context, rec domsession.Record, ttl time.Duration) error {
	payload, err := json.Marshal(storedSession{
		Credential: rec.Credential,
		User:       rec.User,
		ExpiresAt:  rec.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(rec.StorefrontID), payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) Load(ctx context.Context, storefrontID string) (*domsession.Record, error) {
	data, err := r.client.Get(ctx, sessionKey(storefrontID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domsession.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stored storedSession
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &domsession.Record{
		StorefrontID: storefrontID,
		Credential:   stored.Credential,
		User:         stored.User,
		ExpiresAt:    stored.ExpiresAt,
	}, nil
}

func (r *SessionRepository) Delete(ctx context.Context, storefrontID string) error {
	if err := r.client.Del(ctx, sessionKey(storefrontID)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	return nil
}
