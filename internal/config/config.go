// Package config provides configuration types and defaults for quill.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/zjrosen/quill/internal/editor"
	"github.com/zjrosen/quill/internal/highlight"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/todotxt"
	"github.com/zjrosen/quill/internal/tracing"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all configuration options for quill.
type Config struct {
	Editor     EditorConfig     `mapstructure:"editor"`
	Highlight  HighlightConfig  `mapstructure:"highlight"`
	AutoFormat AutoFormatConfig `mapstructure:"autoformat"`
	Todo       TodoConfig       `mapstructure:"todo"`
	Tracing    tracing.Config   `mapstructure:"tracing"`
}

// EditorConfig holds the settings a host editor reads for its text view.
type EditorConfig struct {
	FontFamily string `mapstructure:"font_family"`
	FontSize   int    `mapstructure:"font_size"`
	TabSize    int    `mapstructure:"tab_size"`
}

// HighlightConfig controls the highlight passes.
type HighlightConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	Delay          time.Duration `mapstructure:"delay"`   // debounce after the last edit
	Palette        string        `mapstructure:"palette"` // "dark" (default) or "light"
	HexColors      bool          `mapstructure:"hex_colors"`
	LineEnding     bool          `mapstructure:"line_ending"` // mark markdown double-space line breaks
	BiggerHeadings bool          `mapstructure:"bigger_headings"`
	MonospaceCode  bool          `mapstructure:"monospace_code"`
	Cache          bool          `mapstructure:"cache"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// AutoFormatConfig controls list continuation on newline.
type AutoFormatConfig struct {
	Enabled                 bool `mapstructure:"enabled"`
	RequireSpaceAfterMarker bool `mapstructure:"require_space_after_marker"`
	ContinueEmptyItems      bool `mapstructure:"continue_empty_items"`
	ContinueNumbered        bool `mapstructure:"continue_numbered"`
	ContinueChecklists      bool `mapstructure:"continue_checklists"`
	Renumber                bool `mapstructure:"renumber"`
}

// TodoConfig holds todo.txt defaults used by the todo commands.
type TodoConfig struct {
	DefaultSort []string `mapstructure:"default_sort"`
	Query       string   `mapstructure:"query"`
}

// HighlightOptions converts the highlight section into highlighter options.
func (c Config) HighlightOptions() (highlight.Options, error) {
	palette, err := highlight.PaletteByName(c.Highlight.Palette)
	if err != nil {
		return highlight.Options{}, err
	}
	return highlight.Options{
		Palette:        palette,
		TabSize:        c.Editor.TabSize,
		HexColors:      c.Highlight.HexColors,
		LineEnding:     c.Highlight.LineEnding,
		BiggerHeadings: c.Highlight.BiggerHeadings,
		MonospaceCode:  c.Highlight.MonospaceCode,
	}, nil
}

// Policy converts the autoformat section into a continuation policy.
func (a AutoFormatConfig) Policy() editor.Policy {
	return editor.Policy{
		RequireSpaceAfterMarker: a.RequireSpaceAfterMarker,
		ContinueEmptyItems:      a.ContinueEmptyItems,
		ContinueNumbered:        a.ContinueNumbered,
		ContinueChecklists:      a.ContinueChecklists,
	}
}

// DefaultTracesFilePath returns the default path for trace file export.
// Returns ~/.config/quill/traces/traces.jsonl or empty string if home dir unavailable.
func DefaultTracesFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "quill", "traces", "traces.jsonl")
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			FontFamily: "monospace",
			FontSize:   15,
			TabSize:    4,
		},
		Highlight: HighlightConfig{
			Enabled:        true,
			Delay:          editor.DefaultDelay,
			Palette:        highlight.PaletteDark,
			HexColors:      true,
			BiggerHeadings: true,
			MonospaceCode:  true,
			Cache:          true,
			CacheTTL:       5 * time.Minute,
		},
		AutoFormat: AutoFormatConfig{
			Enabled:                 true,
			RequireSpaceAfterMarker: true,
			ContinueNumbered:        true,
			ContinueChecklists:      true,
			Renumber:                true,
		},
		Todo: TodoConfig{
			DefaultSort: []string{string(todotxt.ByPriority), string(todotxt.ByDueDate)},
		},
		Tracing: tracing.Config{
			Enabled:      false,
			Exporter:     tracing.ExporterFile,
			FilePath:     "", // Derived from config dir at runtime
			OTLPEndpoint: "localhost:4317",
			SampleRate:   1.0,
			ServiceName:  "quill",
		},
	}
}

// SetDefaults registers every default value on v, so that unset keys fall
// back to Defaults and IsSet reports known keys.
func SetDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("editor.font_family", d.Editor.FontFamily)
	v.SetDefault("editor.font_size", d.Editor.FontSize)
	v.SetDefault("editor.tab_size", d.Editor.TabSize)

	v.SetDefault("highlight.enabled", d.Highlight.Enabled)
	v.SetDefault("highlight.delay", d.Highlight.Delay)
	v.SetDefault("highlight.palette", d.Highlight.Palette)
	v.SetDefault("highlight.hex_colors", d.Highlight.HexColors)
	v.SetDefault("highlight.line_ending", d.Highlight.LineEnding)
	v.SetDefault("highlight.bigger_headings", d.Highlight.BiggerHeadings)
	v.SetDefault("highlight.monospace_code", d.Highlight.MonospaceCode)
	v.SetDefault("highlight.cache", d.Highlight.Cache)
	v.SetDefault("highlight.cache_ttl", d.Highlight.CacheTTL)

	v.SetDefault("autoformat.enabled", d.AutoFormat.Enabled)
	v.SetDefault("autoformat.require_space_after_marker", d.AutoFormat.RequireSpaceAfterMarker)
	v.SetDefault("autoformat.continue_empty_items", d.AutoFormat.ContinueEmptyItems)
	v.SetDefault("autoformat.continue_numbered", d.AutoFormat.ContinueNumbered)
	v.SetDefault("autoformat.continue_checklists", d.AutoFormat.ContinueChecklists)
	v.SetDefault("autoformat.renumber", d.AutoFormat.Renumber)

	v.SetDefault("todo.default_sort", d.Todo.DefaultSort)
	v.SetDefault("todo.query", d.Todo.Query)

	v.SetDefault("tracing.enabled", d.Tracing.Enabled)
	v.SetDefault("tracing.exporter", d.Tracing.Exporter)
	v.SetDefault("tracing.file_path", d.Tracing.FilePath)
	v.SetDefault("tracing.otlp_endpoint", d.Tracing.OTLPEndpoint)
	v.SetDefault("tracing.sample_rate", d.Tracing.SampleRate)
	v.SetDefault("tracing.service_name", d.Tracing.ServiceName)
}

// Load registers the defaults on v and decodes it. Values read by v from a
// config file or the environment take precedence.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// Validate checks the whole configuration. Every error wraps
// ErrInvalidConfig.
func Validate(c Config) error {
	var errs []error
	if c.Editor.TabSize < 1 || c.Editor.TabSize > 16 {
		errs = append(errs, fmt.Errorf("editor.tab_size must be between 1 and 16, got %d", c.Editor.TabSize))
	}
	if c.Editor.FontSize < 0 {
		errs = append(errs, fmt.Errorf("editor.font_size must not be negative, got %d", c.Editor.FontSize))
	}
	if c.Highlight.Delay <= 0 || c.Highlight.Delay > 10*time.Second {
		errs = append(errs, fmt.Errorf("highlight.delay must be above 0s and at most 10s, got %s", c.Highlight.Delay))
	}
	if c.Highlight.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("highlight.cache_ttl must not be negative, got %s", c.Highlight.CacheTTL))
	}
	if _, err := highlight.PaletteByName(c.Highlight.Palette); err != nil {
		errs = append(errs, fmt.Errorf("highlight.palette: %w", err))
	}
	for _, term := range c.Todo.DefaultSort {
		if _, _, err := todotxt.ParseSortKey(term); err != nil {
			errs = append(errs, fmt.Errorf("todo.default_sort: %w", err))
		}
	}
	if err := ValidateTracing(c.Tracing); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// ValidateTracing checks tracing configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateTracing(t tracing.Config) error {
	if t.SampleRate < 0.0 || t.SampleRate > 1.0 {
		return fmt.Errorf("tracing.sample_rate must be between 0.0 and 1.0, got %v", t.SampleRate)
	}

	if t.Exporter != "" {
		switch t.Exporter {
		case tracing.ExporterNone, tracing.ExporterFile, tracing.ExporterStdout, tracing.ExporterOTLP:
		default:
			return fmt.Errorf("tracing.exporter must be \"none\", \"file\", \"stdout\", or \"otlp\", got %q", t.Exporter)
		}
	}

	// Only validate path requirements when tracing is enabled
	if t.Enabled && t.Exporter == tracing.ExporterOTLP && t.OTLPEndpoint == "" {
		return fmt.Errorf("tracing.otlp_endpoint is required when exporter is \"otlp\"")
	}

	return nil
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# Quill Configuration

# Text view settings read by the host editor
editor:
  font_family: monospace
  font_size: 15
  tab_size: 4             # Width of a tab character in cells

# Syntax highlighting
highlight:
  enabled: true
  delay: 300ms            # Quiet period after the last edit before a pass runs
  palette: dark           # "dark" (default) or "light"
  hex_colors: true        # Underline #RRGGBB colors in their own color
  line_ending: false      # Mark markdown double-space line breaks
  bigger_headings: true   # Scale headings instead of coloring them
  monospace_code: true    # Render inline code in a monospace face
  cache: true             # Reuse results for unchanged buffers
  cache_ttl: 5m

# List auto-continuation when pressing enter
autoformat:
  enabled: true
  require_space_after_marker: true  # "-item" is not a list item
  continue_empty_items: false       # Enter on "- " ends the list instead
  continue_numbered: true
  continue_checklists: true
  renumber: true                    # Renumber ordered lists after edits

# todo.txt defaults
todo:
  # Sort keys: priority, context, project, date, duedate, description, line
  # Prefix a key with "-" to reverse it.
  default_sort: [priority, duedate]
  # Filter applied by 'quill todo filter' when no query is given, e.g.
  #   query: "(A | B) & !done"
  #   query: "+work and due"
  # query: "!done"

# Tracing of highlight passes, query evaluation and file reloads
# tracing:
#   enabled: false                 # Enable/disable tracing (default: false)
#   exporter: file                 # Export backend: none, file, stdout, otlp (default: file)
#   file_path: ~/.config/quill/traces/traces.jsonl  # Output file for file exporter
#   otlp_endpoint: localhost:4317  # OTLP collector endpoint (for otlp exporter)
#   sample_rate: 1.0               # Trace sampling rate 0.0-1.0 (default: 1.0)
`
}

// WriteDefaultConfig creates a config file at the given path with default settings and comments.
// Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	log.Debug(log.CatConfig, "Writing default config", "path", configPath)

	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to create config directory", err, "dir", dir)
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0o600); err != nil {
		log.ErrorErr(log.CatConfig, "Failed to write config file", err, "path", configPath)
		return fmt.Errorf("writing config file: %w", err)
	}

	log.Info(log.CatConfig, "Created default config", "path", configPath)
	return nil
}
