package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreSavesImage(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads/", 1024)
	require.NoError(t, err)

	path, err := store.Save(context.Background(), Upload{
		Filename:    "evidence.PNG",
		ContentType: "image/png",
		Size:        4,
		Body:        strings.NewReader("data"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "/uploads/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	content, err := os.ReadFile(filepath.Join(dir, filepath.Base(path)))
	require.NoError(t, err)
	assert.Equal(t, "data", string(content))
}

func TestLocalStoreGeneratesUniqueNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	upload := func() Upload {
		return Upload{Filename: "a.jpg", ContentType: "image/jpeg", Size: 1, Body: strings.NewReader("x")}
	}
	first, err := store.Save(context.Background(), upload())
	require.NoError(t, err)
	second, err := store.Save(context.Background(), upload())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestLocalStoreRejectsUnsupportedType(t *testing.T) {
	store, err := NewLocalStore(t.TempDir(), "/uploads", 0)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), Upload{Filename: "a.gif", ContentType: "image/gif", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.Save(context.Background(), Upload{Filename: "a.exe", ContentType: "image/png", Body: strings.NewReader("x")})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestLocalStoreEnforcesSizeCeiling(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads", 3)
	require.NoError(t, err)

	_, err = store.Save(context.Background(), Upload{Filename: "a.png", ContentType: "image/png", Size: 10, Body: strings.NewReader("0123456789")})
	assert.ErrorIs(t, err, ErrTooLarge)

	// understated size is caught while copying
	_, err = store.Save(context.Background(), Upload{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("0123456789")})
	assert.ErrorIs(t, err, ErrTooLarge)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalStoreDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "/uploads", 0)
	require.NoError(t, err)
	ctx := context.Background()

	path, err := store.Save(ctx, Upload{Filename: "a.png", ContentType: "image/png", Size: 1, Body: strings.NewReader("x")})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, path))

	_, err = os.Stat(filepath.Join(dir, filepath.Base(path)))
	assert.True(t, os.IsNotExist(err))

	// already gone
	assert.NoError(t, store.Delete(ctx, path))
	assert.ErrorIs(t, store.Delete(ctx, "/elsewhere/a.png"), ErrForeignPath)
	assert.ErrorIs(t, store.Delete(ctx, "/uploads/../secret.png"), ErrForeignPath)
}
