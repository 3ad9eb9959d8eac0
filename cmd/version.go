package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the quill version",
	Args:  cobra.NoArgs,
	Annotations: map[string]string{
		skipValidation: "true",
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "quill", version)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
