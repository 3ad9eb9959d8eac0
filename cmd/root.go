package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/quill/internal/config"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/tracing"
)

const defaultConfigPath = ".quill/config.yaml"

var (
	version   = "dev"
	cfgFile   string
	debugFlag bool
	cfg       config.Config
	cfgErr    error

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Regex highlighting, list continuation and todo.txt tools for plain text",
	Long: `quill annotates plain-text documents (Markdown, todo.txt, key/value
and CSV files) with styling ranges, continues lists while typing and
parses, filters and sorts todo.txt files.`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: preRun,
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .quill/config.yaml or ~/.config/quill/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&debugFlag, "debug", "d", false,
		"write debug logs (also enabled by QUILL_DEBUG)")
}

func initConfig() {
	v := viper.GetViper()
	config.SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .quill/config.yaml (current directory)
		// 2. ~/.config/quill/config.yaml (user config)
		if _, err := os.Stat(defaultConfigPath); err == nil {
			v.SetConfigFile(defaultConfigPath)
		} else {
			home, _ := os.UserHomeDir()
			v.AddConfigPath(filepath.Join(home, ".config", "quill"))
			v.SetConfigName("config")
			v.SetConfigType("yaml")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			// No config file found anywhere - create default at .quill/config.yaml
			if writeErr := config.WriteDefaultConfig(defaultConfigPath); writeErr == nil {
				v.SetConfigFile(defaultConfigPath)
				_ = v.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		} else {
			cfgErr = fmt.Errorf("reading config: %w", err)
			return
		}
	}

	cfg, cfgErr = config.Load(v)
}

func preRun(cmd *cobra.Command, _ []string) error {
	if log.Enabled(debugFlag) {
		cleanup, err := log.Init(log.LogPath())
		if err != nil {
			return fmt.Errorf("initializing logging: %w", err)
		}
		logCleanup = cleanup
		log.Info(log.CatConfig, "quill starting", "command", cmd.CommandPath(), "config", viper.ConfigFileUsed())
	}

	// config subcommands must stay usable with a broken file so it can be
	// repaired with `quill config set`.
	if skipsValidation(cmd) {
		return nil
	}
	if cfgErr != nil {
		return cfgErr
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}
	return nil
}

const skipValidation = "skip-validation"

func skipsValidation(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[skipValidation] == "true" {
			return true
		}
	}
	return false
}

// configPath returns the file config writes go to.
func configPath() string {
	if p := viper.ConfigFileUsed(); p != "" {
		return p
	}
	if cfgFile != "" {
		return cfgFile
	}
	return defaultConfigPath
}

// startTracing creates the tracing provider for one command run. The
// returned shutdown flushes pending spans.
func startTracing() (*tracing.Provider, func(), error) {
	provider, err := tracing.NewProvider(cfg.Tracing)
	if err != nil {
		return nil, nil, fmt.Errorf("starting tracing: %w", err)
	}
	return provider, func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			log.ErrorErr(log.CatTrace, "Tracing shutdown failed", err)
		}
	}, nil
}

// readInput reads the named file, or stdin for "" and "-".
func readInput(cmd *cobra.Command, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // G304: user-supplied document path
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", displayName(path), err)
	}
	return string(data), nil
}

func displayName(path string) string {
	if path == "" || path == "-" {
		return "stdin"
	}
	return path
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
