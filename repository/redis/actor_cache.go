package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/repository"
)

type actorCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// cachedUser keeps the fields the middleware needs; the password hash never
// enters the cache.
type cachedUser struct {
	ID     string      `json:"id"`
	Name   string      `json:"name"`
	Email  string      `json:"email"`
	Role   domain.Role `json:"role"`
	Avatar string      `json:"avatar,omitempty"`
}

// NewActorCache creates a Redis-backed cache of resolved users for the auth
// middleware. A cache miss returns (nil, nil).
func NewActorCache(client *redislib.Client, ttl time.Duration) repository.ActorCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &actorCache{
		client: client,
		prefix: "actor:",
		ttl:    ttl,
	}
}

func (c *actorCache) Get(ctx context.Context, userID string) (*domain.User, error) {
	result, err := c.client.Get(ctx, c.key(userID)).Result()
	if err != nil {
		if err == redislib.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cached cachedUser
	if err := json.Unmarshal([]byte(result), &cached); err != nil {
		// A corrupt entry behaves like a miss; the next Set overwrites it.
		return nil, nil
	}
	return &domain.User{
		ID:     cached.ID,
		Name:   cached.Name,
		Email:  cached.Email,
		Role:   cached.Role,
		Avatar: cached.Avatar,
	}, nil
}

func (c *actorCache) Set(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(cachedUser{
		ID:     user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		Avatar: user.Avatar,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(user.ID), payload, c.ttl).Err()
}

func (c *actorCache) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, c.key(userID)).Err()
}

func (c *actorCache) key(id string) string {
	return fmt.Sprintf("%s%s", c.prefix, id)
}
