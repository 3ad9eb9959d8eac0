package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/quill/internal/config"
	"github.com/zjrosen/quill/internal/log"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and edit the quill configuration",
	Annotations: map[string]string{
		skipValidation: "true",
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as YAML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if cfgErr != nil {
			return cfgErr
		}
		if p := viper.ConfigFileUsed(); p != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "# %s\n", p)
		}
		return writeYAML(cmd.OutOrStdout(), viper.AllSettings())
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Set one dotted key in the config file, keeping its comments",
	Long: `Set one dotted key, e.g. highlight.palette, in the config file.

The file is only written when the resulting configuration is valid.

Examples:
  quill config set highlight.palette light
  quill config set highlight.delay 500ms
  quill config set todo.default_sort '[priority, -duedate]'`,
	Args: cobra.ExactArgs(2),
	ValidArgsFunction: func(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return config.Keys(), cobra.ShellCompDirectiveNoFileComp
		}
		return nil, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath()
		if err := config.SetValue(path, args[0], args[1]); err != nil {
			return err
		}
		log.Info(log.CatConfig, "Config updated", "path", path, "key", args[0])
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
		return err
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the commented default configuration",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		if _, err := os.Stat(path); err == nil && !configForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := config.WriteDefaultConfig(path); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
		return err
	},
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List every configuration key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		for _, k := range config.Keys() {
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), k); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configShowCmd, configSetCmd, configInitCmd, configKeysCmd)
	rootCmd.AddCommand(configCmd)
}
