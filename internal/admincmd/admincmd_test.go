package admincmd_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"dreamdesign/internal/admincmd"
	"dreamdesign/internal/app"
	"dreamdesign/internal/config"
	"dreamdesign/internal/domain/seed"
	"dreamdesign/internal/lib/logger/handlers/slogdiscard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupConfig(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	body := fmt.Sprintf(`
env: "local"
storage:
  driver: "file"
  file:
    base_dir: %q
accounts:
  latency: 1ms
  google_latency: 1ms
`, filepath.Join(dir, "data"))

	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := admincmd.NewRootCmd()

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())

	return out.String(), err
}

func TestCatalogCommands(t *testing.T) {
	cfgPath := setupConfig(t)

	out, err := run(t, "--config", cfgPath, "catalog", "set-url", "gallery_2", "https://cdn.example.com/zen.jpg")
	require.NoError(t, err)
	assert.Contains(t, out, "gallery_2 -> https://cdn.example.com/zen.jpg")

	out, err = run(t, "--config", cfgPath, "catalog", "set-label", "gallery_2", "Zen Retreat")
	require.NoError(t, err)
	assert.Contains(t, out, `labeled "Zen Retreat"`)

	_, err = run(t, "--config", cfgPath, "catalog", "set-label", "gallery_99", "x")
	assert.ErrorContains(t, err, "not found")

	out, err = run(t, "--config", cfgPath, "catalog", "list", "--section", "gallery")
	require.NoError(t, err)
	assert.Contains(t, out, "Zen Retreat")
	assert.Contains(t, out, "https://cdn.example.com/zen.jpg")
	assert.NotContains(t, out, "hero_0_before")

	seedPath := filepath.Join(t.TempDir(), "seed.yaml")
	out, err = run(t, "--config", cfgPath, "catalog", "export", "-o", seedPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 51 images")

	records, err := seed.LoadFile(seedPath)
	require.NoError(t, err)
	assert.Len(t, records, 51)

	out, err = run(t, "--config", cfgPath, "catalog", "reset", "gallery_2")
	require.NoError(t, err)
	assert.Contains(t, out, "gallery_2 reset")

	out, err = run(t, "--config", cfgPath, "catalog", "list", "-s", "gallery")
	require.NoError(t, err)
	assert.Contains(t, out, "Zen Sanctuary")

	_, err = run(t, "--config", cfgPath, "catalog", "reset")
	assert.Error(t, err)

	out, err = run(t, "--config", cfgPath, "catalog", "reset", "--all")
	require.NoError(t, err)
	assert.Contains(t, out, "catalog reset to defaults")
}

func TestAccountsCommands(t *testing.T) {
	cfgPath := setupConfig(t)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)

	core, err := app.NewCore(context.Background(), slogdiscard.NewDiscardLogger(), cfg)
	require.NoError(t, err)

	_, err = core.Accounts.Signup(context.Background(), "Grace", "Hopper", "grace@example.com", "pw")
	require.NoError(t, err)
	require.NoError(t, core.Close())

	out, err := run(t, "--config", cfgPath, "accounts", "grant", "Grace@Example.com", "10")
	require.NoError(t, err)
	assert.Contains(t, out, "grace@example.com now has 11 credits")

	out, err = run(t, "--config", cfgPath, "accounts", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "grace@example.com")
	assert.Contains(t, out, "Grace Hopper")
	assert.Contains(t, out, "11")

	_, err = run(t, "--config", cfgPath, "accounts", "grant", "nobody@example.com", "1")
	assert.Error(t, err)

	_, err = run(t, "--config", cfgPath, "accounts", "grant", "grace@example.com", "ten")
	assert.ErrorContains(t, err, "must be a number")
}

func TestMissingConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	_, err := run(t, "catalog", "list")
	assert.ErrorContains(t, err, "config path is empty")
}
