package app_test

import (
	"context"
	"testing"

	"dreamdesign/internal/app"
	"dreamdesign/internal/config"
	"dreamdesign/internal/lib/logger/handlers/slogdiscard"
	"dreamdesign/internal/providers/mock"
	"dreamdesign/internal/providers/remote"
	studio "dreamdesign/internal/services/studio_service"
	"dreamdesign/internal/storage/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStorage(t *testing.T) {
	ctx := context.Background()

	kv, closeFn, err := app.NewStorage(ctx, config.StorageConfig{Driver: "memory", Quota: 1024})
	require.NoError(t, err)
	assert.IsType(t, &memory.Storage{}, kv)
	assert.NoError(t, closeFn())

	kv, closeFn, err = app.NewStorage(ctx, config.StorageConfig{Driver: "file", Quota: 1024, File: config.FileStorageConfig{BaseDir: t.TempDir()}})
	require.NoError(t, err)
	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	assert.NoError(t, closeFn())

	_, _, err = app.NewStorage(ctx, config.StorageConfig{Driver: "sqlite"})
	assert.ErrorIs(t, err, app.ErrUnknownStorageDriver)
}

func TestNewGenerator(t *testing.T) {
	ctx := context.Background()

	g, closeFn, err := app.NewGenerator(ctx, config.GenerationConfig{Provider: "mock"})
	require.NoError(t, err)
	assert.IsType(t, &mock.Generator{}, g)
	assert.NoError(t, closeFn())

	g, _, err = app.NewGenerator(ctx, config.GenerationConfig{Provider: "remote", Endpoint: "http://localhost"})
	require.NoError(t, err)
	assert.IsType(t, &remote.Remote{}, g)

	g, closeFn, err = app.NewGenerator(ctx, config.GenerationConfig{Provider: "gemini"})
	require.NoError(t, err)
	assert.Implements(t, (*studio.SourceValidator)(nil), g, "gemini needs inline images")
	assert.NoError(t, closeFn())

	_, _, err = app.NewGenerator(ctx, config.GenerationConfig{Provider: "dalle"})
	assert.ErrorIs(t, err, app.ErrUnknownProvider)
}

func TestNew_Memory(t *testing.T) {
	cfg := &config.Config{
		Env:        "local",
		HTTP:       config.HTTPConfig{Port: "0"},
		Storage:    config.StorageConfig{Driver: "memory", Quota: 5 << 20},
		Generation: config.GenerationConfig{Provider: "mock", MaxStyles: 4},
		Credits:    config.CreditsConfig{Packs: []int{5, 15, 40}},
	}

	a, err := app.New(context.Background(), slogdiscard.NewDiscardLogger(), cfg)
	require.NoError(t, err)

	assert.Len(t, a.Catalog.GetAll(), 51)
	assert.Empty(t, a.Accounts.List())
	assert.False(t, a.Studio.InProgress())
	assert.NoError(t, a.Close())
}
