package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/quill/internal/editor"
	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/pubsub"
	"github.com/zjrosen/quill/internal/render"
	"github.com/zjrosen/quill/internal/tracing"
	"github.com/zjrosen/quill/internal/watcher"
)

var (
	watchDialect string
	watchLog     bool
)

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Re-render a file with highlighting every time it is saved",
	Long: `Watch FILE and repaint it whenever it changes on disk.

Each save is diffed against the previous contents and applied to an
in-memory buffer as edits, so existing annotations shift with the text
until the debounced highlight pass replaces them.

With --log, log entries are streamed to stderr as they are written.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDialect, "dialect", "", "markdown, todotxt, keyvalue, csv, orgmode or plain (default: from file name)")
	watchCmd.Flags().BoolVar(&watchLog, "log", false, "stream log entries to stderr")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := args[0]
	dialect, err := resolveDialect(watchDialect, path)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watchLog {
		restore := log.InitWriter(io.Discard)
		defer restore()
		go tailLog(ctx, cmd.ErrOrStderr())
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

	hl, err := newHighlighter(dialect, provider.Tracer())
	if err != nil {
		return err
	}

	buf := editor.NewBuffer(text)
	defer buf.Close()

	trig := editor.NewTrigger(ctx, buf, hl, editor.TriggerConfig{Delay: cfg.Highlight.Delay})
	defer trig.Stop()
	passes := trig.Events().Subscribe(ctx, pubsub.HighlightedEvent)

	w, err := watcher.New(watcher.DefaultConfig(path))
	if err != nil {
		return err
	}
	onChange, err := w.Start()
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	out := termenv.NewOutput(cmd.OutOrStdout())
	r := render.New(cmd.OutOrStdout(), render.WithTabSize(cfg.Editor.TabSize))

	trig.RunNow()

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-onChange:
			if err := reload(ctx, provider.Tracer(), buf, path); err != nil {
				log.ErrorErr(log.CatWatcher, "Reload failed", err, "path", path)
			}

		case ev, ok := <-passes:
			if !ok {
				return nil
			}
			out.ClearScreen()
			out.MoveCursor(1, 1)
			if _, err := fmt.Fprintln(out, r.Render(buf.Text(), buf.Annotations().All())); err != nil {
				return err
			}
			log.Debug(log.CatRender, "Repainted", "path", path,
				"annotations", buf.Annotations().Len(), "cacheHit", ev.Payload.Result.CacheHit)
		}
	}
}

// reload applies the on-disk contents of path to buf as a minimal set of
// edits.
func reload(ctx context.Context, tracer trace.Tracer, buf *editor.Buffer, path string) error {
	_, span := tracer.Start(ctx, tracing.SpanReload, trace.WithAttributes(attribute.String(tracing.AttrPath, path)))
	defer span.End()

	data, err := os.ReadFile(path) //nolint:gosec // G304: watched document path
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("reading %s: %w", path, err)
	}
	changes, err := buf.Replace(string(data))
	if err != nil {
		span.RecordError(err)
		return err
	}
	log.Debug(log.CatWatcher, "Reloaded", "path", path, "changes", len(changes))
	return nil
}

// tailLog copies log entries to w until ctx is done.
func tailLog(ctx context.Context, w io.Writer) {
	l := log.NewListener(ctx)
	if l == nil {
		return
	}
	l.Each(func(ev log.LogEvent) bool {
		_, err := io.WriteString(w, ev.Payload)
		return err == nil
	})
}
