package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Path(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ConfigFile), store.Path())
	assert.Empty(t, store.Keys())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("source.kind", "gviz"))
	require.NoError(t, store.Set("limits.retries", 3))
	require.NoError(t, store.Set("tui.mouse", true))
	require.NoError(t, store.Set("refresh.interval", "90s"))

	assert.Equal(t, "gviz", store.GetString("source.kind"))
	assert.Equal(t, 3, store.GetInt("limits.retries"))
	assert.True(t, store.GetBool("tui.mouse"))
	assert.Equal(t, 90*time.Second, store.GetDuration("refresh.interval"))

	assert.Empty(t, store.GetString("missing"))
	assert.Zero(t, store.GetInt("source.kind"))
	assert.False(t, store.GetBool("source.kind"))
	assert.Zero(t, store.GetDuration("source.kind"))

	assert.Equal(t, []string{"limits.retries", "refresh.interval", "source.kind", "tui.mouse"}, store.Keys())
}

func TestConfigStore_PersistsNestedTables(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	require.NoError(t, store.Set("source.kind", "file"))
	require.NoError(t, store.Set("source.file_path", "/data/birds.csv"))
	require.NoError(t, store.Set("timezone", "Europe/Madrid"))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)
	assert.Contains(t, string(raw), "[source]")
	assert.Regexp(t, `kind = ['"]file['"]`, string(raw))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "file", reopened.GetString("source.kind"))
	assert.Equal(t, "/data/birds.csv", reopened.GetString("source.file_path"))
	assert.Equal(t, "Europe/Madrid", reopened.GetString("timezone"))
}

func TestConfigStore_LoadHandwrittenFile(t *testing.T) {
	dir := t.TempDir()
	content := `
timezone = "UTC"

[refresh]
interval = 600

[storage]
snapshot = "redis"
redis_url = "redis://localhost:6379/0"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "redis", store.GetString("storage.snapshot"))
	assert.Equal(t, 10*time.Minute, store.GetDuration("refresh.interval"))
	assert.Equal(t, "UTC", store.GetString("timezone"))
}

func TestConfigStore_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte("not = [valid"), 0600))

	_, err := NewConfigStore(dir)
	assert.Error(t, err)
}

func TestConfigStore_ConflictingKeys(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("source", "gviz"))
	assert.Error(t, store.Set("source.kind", "file"))
}

func TestNestMap(t *testing.T) {
	nested, err := nestMap(map[string]any{"a.b": 1, "a.c": "x", "d": true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": map[string]any{"b": 1, "c": "x"},
		"d": true,
	}, nested)
	assert.Equal(t, map[string]any{"a.b": 1, "a.c": "x", "d": true}, flattenMap(nested, ""))
}
