package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/deskflow/helpdesk-service/internal/domain"
	"github.com/deskflow/helpdesk-service/internal/repository"
)

const displayNameKeyPrefix = "helpdesk:user:name:"

// NameCache stores display names by user id.
type NameCache interface {
	Get(ctx context.Context, userID string) (string, bool, error)
	Set(ctx context.Context, userID, name string, ttl time.Duration) error
}

type redisNameCache struct {
	client *redis.Client
}

// NewRedisNameCache backs the directory cache with Redis. A nil client yields nil.
func NewRedisNameCache(client *redis.Client) NameCache {
	if client == nil {
		return nil
	}
	return &redisNameCache{client: client}
}

func (c *redisNameCache) Get(ctx context.Context, userID string) (string, bool, error) {
	name, err := c.client.Get(ctx, displayNameKeyPrefix+userID).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (c *redisNameCache) Set(ctx context.Context, userID, name string, ttl time.Duration) error {
	return c.client.Set(ctx, displayNameKeyPrefix+userID, name, ttl).Err()
}

// UserRef is the expanded view of a user reference.
type UserRef struct {
	ID    string
	Name  string
	Email string
}

// UserDirectory resolves user ids for display. Lookups never fail the caller.
type UserDirectory struct {
	users  repository.UserRepository
	cache  NameCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewUserDirectory builds a directory. cache may be nil.
func NewUserDirectory(users repository.UserRepository, cache NameCache, ttl time.Duration, logger *zap.Logger) *UserDirectory {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &UserDirectory{users: users, cache: cache, ttl: ttl, logger: orNop(logger)}
}

// DisplayName returns the user's name, or userID itself when it cannot be found.
func (d *UserDirectory) DisplayName(ctx context.Context, userID string) string {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ""
	}
	if d.cache != nil {
		name, ok, err := d.cache.Get(ctx, userID)
		if err != nil {
			d.logger.Debug("display name cache read failed", zap.String("user_id", userID), zap.Error(err))
		} else if ok {
			return name
		}
	}

	user, err := d.users.GetByID(ctx, userID)
	if err != nil {
		d.logger.Debug("display name lookup failed, using id", zap.String("user_id", userID), zap.Error(err))
		return userID
	}
	if d.cache != nil {
		if err := d.cache.Set(ctx, userID, user.Name, d.ttl); err != nil {
			d.logger.Debug("display name cache write failed", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return user.Name
}

// Expand returns one ref per id, in order. Unknown ids keep only the id.
func (d *UserDirectory) Expand(ctx context.Context, ids []string) []UserRef {
	refs := make([]UserRef, 0, len(ids))
	if len(ids) == 0 {
		return refs
	}
	found := map[string]domain.User{}
	users, err := d.users.GetByIDs(ctx, ids)
	if err != nil {
		d.logger.Warn("user expansion failed", zap.Strings("user_ids", ids), zap.Error(err))
	}
	for _, u := range users {
		found[u.ID] = u
	}
	for _, id := range ids {
		ref := UserRef{ID: id}
		if u, ok := found[id]; ok {
			ref.Name, ref.Email = u.Name, u.Email
		}
		refs = append(refs, ref)
	}
	return refs
}
