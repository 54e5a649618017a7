package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const tokenKeyPrefix = "whatsapp:token:"

var _ TokenProvider = (*RedisTokenStore)(nil)

// RedisTokenStore serves provider tokens that an external refresher keeps in
// Redis. Expiry is carried by the key TTL.
type RedisTokenStore struct {
	client *goredis.Client
}

func NewRedisTokenStore(client *goredis.Client) (*RedisTokenStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	return &RedisTokenStore{client: client}, nil
}

func TokenKey(organisationID uint) string {
	return fmt.Sprintf("%s%d", tokenKeyPrefix, organisationID)
}

func (s *RedisTokenStore) Token(ctx context.Context, organisationID uint) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("token store is not initialized")
	}

	token, err := s.client.Get(ctx, TokenKey(organisationID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", fmt.Errorf("%w for organisation %d", ErrTokenUnavailable, organisationID)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read provider token: %w", err)
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return "", fmt.Errorf("%w for organisation %d", ErrTokenUnavailable, organisationID)
	}
	return token, nil
}

// SetToken stores a token. A zero ttl keeps it until overwritten.
func (s *RedisTokenStore) SetToken(ctx context.Context, organisationID uint, token string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("token store is not initialized")
	}
	if organisationID == 0 {
		return fmt.Errorf("organisation id is required")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("token is required")
	}
	if ttl < 0 {
		return fmt.Errorf("ttl must not be negative")
	}

	if err := s.client.Set(ctx, TokenKey(organisationID), strings.TrimSpace(token), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store provider token: %w", err)
	}
	return nil
}
