package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readConfig(t *testing.T, path string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestKeys(t *testing.T) {
	keys := Keys()
	assert.Contains(t, keys, "highlight.palette")
	assert.Contains(t, keys, "autoformat.renumber")
	assert.Contains(t, keys, "tracing.exporter")
	assert.IsIncreasing(t, keys)
}

func TestSetValue_CreatesNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")

	require.NoError(t, SetValue(path, "highlight.palette", "light"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "highlight:\n  palette: light\n", string(data))
}

func TestSetValue_PreservesCommentsAndOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	require.NoError(t, SetValue(path, "highlight.delay", "150ms"))
	require.NoError(t, SetValue(path, "autoformat.continue_empty_items", "true"))
	require.NoError(t, SetValue(path, "todo.default_sort", "[-due, line]"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "# Quill Configuration")
	assert.Contains(t, content, "# Quiet period after the last edit")
	assert.Contains(t, content, "delay: 150ms")
	assert.Contains(t, content, "default_sort: [-due, line]")

	cfg := readConfig(t, path)
	assert.Equal(t, 150*time.Millisecond, cfg.Highlight.Delay)
	assert.True(t, cfg.AutoFormat.ContinueEmptyItems)
	assert.Equal(t, []string{"-due", "line"}, cfg.Todo.DefaultSort)
	assert.True(t, cfg.Highlight.BiggerHeadings)
}

func TestSetValue_AddsMissingSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("editor:\n  tab_size: 2\n"), 0o600))

	require.NoError(t, SetValue(path, "tracing.enabled", "true"))

	cfg := readConfig(t, path)
	assert.Equal(t, 2, cfg.Editor.TabSize)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestSetValue_UnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := SetValue(path, "highlight.colour", "red")
	require.ErrorIs(t, err, ErrUnknownKey)

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr), "nothing is written")
}

func TestSetValue_InvalidValueLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	err := SetValue(path, "highlight.palette", "neon")
	require.ErrorIs(t, err, ErrInvalidConfig)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigTemplate(), string(data))
}

func TestSetValue_AtomicWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, SetValue(path, "editor.tab_size", "8"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.yaml", entries[0].Name())
}
