package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/quill/internal/editor"
	"github.com/zjrosen/quill/internal/highlight"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/render"
)

var (
	hlDialect string
	hlTable   bool
	hlOnly    []string
)

var highlightCmd = &cobra.Command{
	Use:   "highlight [file]",
	Short: "Print a file with its highlight annotations applied",
	Long: `Run one highlight pass over a file (or stdin) and print the result.

The dialect is picked from the file name unless --dialect is given; stdin
is treated as plain text. With --table the annotations are listed instead
of painted.

Examples:
  quill highlight notes.md
  quill highlight todo.txt --table
  quill highlight notes.md --only heading,bold
  cat list.csv | quill highlight --dialect csv`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHighlight,
}

func init() {
	highlightCmd.Flags().StringVar(&hlDialect, "dialect", "", "markdown, todotxt, keyvalue, csv, orgmode or plain (default: from file name)")
	highlightCmd.Flags().BoolVar(&hlTable, "table", false, "list annotations instead of rendering them")
	highlightCmd.Flags().StringSliceVar(&hlOnly, "only", nil, "run only the named patterns")
	rootCmd.AddCommand(highlightCmd)
}

func runHighlight(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	}

	dialect, err := resolveDialect(hlDialect, path)
	if err != nil {
		return err
	}
	text, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	provider, shutdown, err := startTracing()
	if err != nil {
		return err
	}
	defer shutdown()

	hl, err := newHighlighter(dialect, provider.Tracer(), hlOnly...)
	if err != nil {
		return err
	}

	buf := editor.NewBuffer(text)
	defer buf.Close()

	res := hl.Highlight(cmd.Context(), buf)
	if res.Err != nil {
		log.Warn(log.CatHighlight, "Highlight pass incomplete", "file", displayName(path), "error", res.Err)
	}
	return writeAnnotated(cmd.OutOrStdout(), buf, hlTable)
}

// resolveDialect honours an explicit dialect name and otherwise detects one
// from path.
func resolveDialect(name, path string) (highlight.Dialect, error) {
	if name != "" {
		return highlight.ParseDialect(name)
	}
	if path == "" || path == "-" {
		return highlight.Plain, nil
	}
	return highlight.Detect(path), nil
}

// newHighlighter builds a highlighter from the loaded configuration. Naming
// patterns restricts the pass to them.
func newHighlighter(dialect highlight.Dialect, tracer trace.Tracer, only ...string) (*highlight.Highlighter, error) {
	opts, err := cfg.HighlightOptions()
	if err != nil {
		return nil, fmt.Errorf("highlight options: %w", err)
	}
	options := []highlight.Option{highlight.WithTracer(tracer)}
	if cfg.Highlight.Cache {
		options = append(options, highlight.WithCache(highlight.NewPassCache(cfg.Highlight.CacheTTL), cfg.Highlight.CacheTTL))
	}
	switch {
	case !cfg.Highlight.Enabled:
		options = append(options, highlight.WithRegistry(highlight.NewRegistry()))
	case len(only) > 0:
		reg, err := highlight.RegistryFor(dialect, opts).Select(only...)
		if err != nil {
			return nil, err
		}
		options = append(options, highlight.WithRegistry(reg))
	}
	return highlight.New(dialect, opts, options...), nil
}

func writeAnnotated(w io.Writer, buf *editor.Buffer, table bool) error {
	if table {
		return render.Table(w, buf.Text(), buf.Annotations().All())
	}
	r := render.New(w, render.WithTabSize(cfg.Editor.TabSize))
	_, err := fmt.Fprintln(w, r.Render(buf.Text(), buf.Annotations().All()))
	return err
}
