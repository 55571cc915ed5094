package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type mapCache struct {
	names   map[string]string
	readErr error
	writes  int
}

func (c *mapCache) Get(_ context.Context, id string) (string, bool, error) {
	if c.readErr != nil {
		return "", false, c.readErr
	}
	name, ok := c.names[id]
	return name, ok, nil
}

func (c *mapCache) Set(_ context.Context, id, name string, _ time.Duration) error {
	c.writes++
	c.names[id] = name
	return nil
}

func TestDisplayNameUsesCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cache := &mapCache{names: map[string]string{"cached": "Cached Person"}}
	dir := NewUserDirectory(f.repos.Users, cache, time.Minute, nil)

	assert.Equal(t, "Cached Person", dir.DisplayName(ctx, "cached"))
	assert.Equal(t, 0, cache.writes)

	assert.Equal(t, "Walt Worker", dir.DisplayName(ctx, f.worker.UserID))
	assert.Equal(t, 1, cache.writes)
	assert.Equal(t, "Walt Worker", cache.names[f.worker.UserID])

	assert.Equal(t, "nobody", dir.DisplayName(ctx, "nobody"))
	assert.Equal(t, 1, cache.writes)
	assert.Empty(t, dir.DisplayName(ctx, " "))
}

func TestDisplayNameSurvivesCacheErrors(t *testing.T) {
	f := newFixture(t)
	cache := &mapCache{names: map[string]string{}, readErr: errors.New("redis down")}
	dir := NewUserDirectory(f.repos.Users, cache, 0, nil)

	assert.Equal(t, "Mona Manager", dir.DisplayName(context.Background(), f.manager.UserID))
}

func TestExpandKeepsOrder(t *testing.T) {
	f := newFixture(t)
	refs := f.directory.Expand(context.Background(), []string{"ghost", f.manager.UserID, f.worker.UserID})

	assert.Equal(t, []UserRef{
		{ID: "ghost"},
		{ID: f.manager.UserID, Name: "Mona Manager", Email: "mona@example.com"},
		{ID: f.worker.UserID, Name: "Walt Worker", Email: "walt@example.com"},
	}, refs)
	assert.Empty(t, f.directory.Expand(context.Background(), nil))
}
