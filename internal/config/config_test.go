package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/quill/internal/editor"
	"github.com/zjrosen/quill/internal/highlight"
	"github.com/zjrosen/quill/internal/tracing"
)

func loadConfigFromYAML(t *testing.T, content string) Config {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(content)))
	cfg, err := Load(v)
	require.NoError(t, err)
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(cfg))
	assert.True(t, cfg.Highlight.Enabled)
	assert.Equal(t, editor.DefaultDelay, cfg.Highlight.Delay)
	assert.Equal(t, highlight.PaletteDark, cfg.Highlight.Palette)
	assert.Equal(t, 4, cfg.Editor.TabSize)
	assert.Equal(t, editor.DefaultPolicy(), cfg.AutoFormat.Policy())
}

func TestLoad_EmptyConfigUsesDefaults(t *testing.T) {
	assert.Equal(t, Defaults(), loadConfigFromYAML(t, ""))
}

func TestLoad_OverridesAndDurations(t *testing.T) {
	cfg := loadConfigFromYAML(t, `
highlight:
  delay: 150ms
  palette: light
autoformat:
  continue_empty_items: true
todo:
  default_sort: [-due, description]
`)
	assert.Equal(t, 150*time.Millisecond, cfg.Highlight.Delay)
	assert.Equal(t, highlight.PaletteLight, cfg.Highlight.Palette)
	assert.True(t, cfg.AutoFormat.ContinueEmptyItems)
	assert.True(t, cfg.AutoFormat.ContinueNumbered, "unset keys keep their defaults")
	assert.Equal(t, []string{"-due", "description"}, cfg.Todo.DefaultSort)
	require.NoError(t, Validate(cfg))
}

func TestConfig_HighlightOptions(t *testing.T) {
	cfg := Defaults()
	cfg.Highlight.Palette = highlight.PaletteLight
	cfg.Highlight.LineEnding = true
	cfg.Editor.TabSize = 8

	opts, err := cfg.HighlightOptions()
	require.NoError(t, err)
	assert.Equal(t, highlight.LightPalette(), opts.Palette)
	assert.True(t, opts.LineEnding)
	assert.Equal(t, 8, opts.TabSize)

	cfg.Highlight.Palette = "neon"
	_, err = cfg.HighlightOptions()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"tab size", func(c *Config) { c.Editor.TabSize = 0 }, "editor.tab_size"},
		{"font size", func(c *Config) { c.Editor.FontSize = -1 }, "editor.font_size"},
		{"negative delay", func(c *Config) { c.Highlight.Delay = -time.Second }, "highlight.delay"},
		{"zero delay", func(c *Config) { c.Highlight.Delay = 0 }, "highlight.delay"},
		{"huge delay", func(c *Config) { c.Highlight.Delay = time.Minute }, "highlight.delay"},
		{"palette", func(c *Config) { c.Highlight.Palette = "neon" }, "highlight.palette"},
		{"cache ttl", func(c *Config) { c.Highlight.CacheTTL = -time.Second }, "highlight.cache_ttl"},
		{"sort key", func(c *Config) { c.Todo.DefaultSort = []string{"colour"} }, "todo.default_sort"},
		{"exporter", func(c *Config) { c.Tracing.Exporter = "jaeger" }, "tracing.exporter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := Validate(cfg)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidateTracing(t *testing.T) {
	require.NoError(t, ValidateTracing(tracing.Config{}))
	require.Error(t, ValidateTracing(tracing.Config{SampleRate: 1.5}))
	require.Error(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: tracing.ExporterOTLP}))
	require.NoError(t, ValidateTracing(tracing.Config{Enabled: true, Exporter: tracing.ExporterOTLP, OTLPEndpoint: "localhost:4317"}))
}

func TestDefaultConfigTemplate_MatchesDefaults(t *testing.T) {
	cfg := loadConfigFromYAML(t, DefaultConfigTemplate())
	assert.Equal(t, Defaults(), cfg)
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, WriteDefaultConfig(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfigTemplate(), string(data))
}
