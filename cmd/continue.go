package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zjrosen/quill/internal/editor"
)

var (
	continueCursor int
	continueInsert string
)

var continueCmd = &cobra.Command{
	Use:   "continue [file]",
	Short: "Type into a document with list auto-formatting and print the result",
	Long: `Insert text at a rune offset the way an editor would, with the
autoformat settings applied: pressing Enter on a list item continues the
list, and ordered lists are renumbered when autoformat.renumber is set.

The default insertion is a single newline at the end of the document.

Examples:
  printf -- '- milk' | quill continue
  quill continue plan.md --cursor 12 --insert $'\n'`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, argOr(args, 0))
		if err != nil {
			return err
		}

		buf := editor.NewBuffer(text)
		defer buf.Close()

		if cfg.AutoFormat.Enabled {
			af := &editor.AutoFormat{Policy: cfg.AutoFormat.Policy(), Renumber: cfg.AutoFormat.Renumber}
			detach := af.Attach(buf)
			defer detach()
		}

		cursor := continueCursor
		if cursor < 0 {
			cursor = buf.Len()
		}
		if _, err := buf.Insert(cursor, continueInsert); err != nil {
			return fmt.Errorf("inserting at %d: %w", cursor, err)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), buf.Text())
		return err
	},
}

func init() {
	continueCmd.Flags().IntVar(&continueCursor, "cursor", -1, "rune offset to insert at (default: end of document)")
	continueCmd.Flags().StringVar(&continueInsert, "insert", "\n", "text to insert")
	rootCmd.AddCommand(continueCmd)
}
