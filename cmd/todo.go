package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"gopkg.in/yaml.v3"

	"github.com/zjrosen/quill/internal/log"
	"github.com/zjrosen/quill/internal/todotxt"
	"github.com/zjrosen/quill/internal/todotxt/query"
	"github.com/zjrosen/quill/internal/tracing"
)

// now is the reference time for dates written by the todo commands.
var now = time.Now

var (
	todoOutput   string
	todoProjects []string
	todoContexts []string
	todoSortBy   []string
	todoKeyKind  string
	todoUndo     bool
)

var todoCmd = &cobra.Command{
	Use:   "todo",
	Short: "Parse, edit, filter and sort todo.txt files",
}

var todoParseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Print the parsed fields of every task",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, argOr(args, 0))
		if err != nil {
			return err
		}
		tasks := parseTasks(text)
		switch todoOutput {
		case "yaml":
			return writeYAML(cmd.OutOrStdout(), taskViews(tasks))
		case "text":
			for _, t := range tasks {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), t.Regenerate(now())); err != nil {
					return err
				}
			}
			return nil
		default:
			return fmt.Errorf("unknown output format %q (want yaml or text)", todoOutput)
		}
	},
}

var todoDoneCmd = &cobra.Command{
	Use:   "done FILE LINE",
	Short: "Mark the task on a 1-based line as done (or open again with --undo)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		line, err := strconv.Atoi(args[1])
		if err != nil || line < 1 {
			return fmt.Errorf("invalid line number %q", args[1])
		}
		text, err := readInput(cmd, path)
		if err != nil {
			return err
		}

		offset, ok := lineOffset(text, line)
		if !ok {
			return fmt.Errorf("%s has no line %d", path, line)
		}
		task := todotxt.TaskAt(text, offset)
		task.SetDone(!todoUndo, now())
		log.Debug(log.CatTodo, "Toggled task", "file", path, "line", line, "done", task.Done)

		if err := writeFile(path, todotxt.RegenerateText(text, task, now())); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), task.Line)
		return err
	},
}

var todoAddCmd = &cobra.Command{
	Use:   "add FILE TASK",
	Short: "Append a task, stamped with today's creation date",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		task := todotxt.Parse(args[1])
		if task.CreationDate == "" && !task.Done {
			task.CreationDate = now().Format(todotxt.DateLayout)
		}
		task.Line = task.Regenerate(now())
		for _, p := range todoProjects {
			task = todotxt.InsertProject(task, p, len([]rune(task.Line)))
		}
		for _, c := range todoContexts {
			task = todotxt.InsertContext(task, c, len([]rune(task.Line)))
		}

		text, err := os.ReadFile(path) //nolint:gosec // G304: user-supplied todo file
		if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		content := string(text)
		if content != "" && !strings.HasSuffix(content, "\n") {
			content += "\n"
		}
		if err := writeFile(path, content+task.Line+"\n"); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), task.Line)
		return err
	},
}

var todoFilterCmd = &cobra.Command{
	Use:   "filter FILE [QUERY]",
	Short: "Print the tasks matching a query",
	Long: `Print the tasks of FILE matching QUERY, or the configured todo.query
when QUERY is omitted.

Queries combine predicates with and/&, or/|, not/! and parentheses:
  +project  @context  A  pri:A  today  overdue  future  nodue
  done  noproject  nocontext  key:value

Examples:
  quill todo filter todo.txt '+work and not done'
  quill todo filter todo.txt '(pri:A or pri:B) & overdue'`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, args[0])
		if err != nil {
			return err
		}
		q := cfg.Todo.Query
		if len(args) == 2 {
			q = args[1]
		}

		provider, shutdown, err := startTracing()
		if err != nil {
			return err
		}
		defer shutdown()

		_, span := provider.Tracer().Start(cmd.Context(), tracing.SpanQueryEval)
		span.SetAttributes(attribute.String(tracing.AttrQuery, q), attribute.String(tracing.AttrPath, args[0]))
		tasks := parseTasks(text)
		matched := query.Evaluator{Now: now}.Filter(tasks, q)
		span.End()
		log.Debug(log.CatQuery, "Filtered tasks", "query", q, "tasks", len(tasks), "matched", len(matched))

		return writeLines(cmd.OutOrStdout(), matched)
	},
}

var todoSortCmd = &cobra.Command{
	Use:   "sort [file]",
	Short: "Print tasks ordered by one or more keys",
	Long: `Print the tasks ordered by --by keys, or by todo.default_sort.

Keys: priority, context, project, date, duedate, description, line.
Prefix a key with "-" to sort descending.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, argOr(args, 0))
		if err != nil {
			return err
		}
		keys := cfg.Todo.DefaultSort
		if len(todoSortBy) > 0 {
			keys = todoSortBy
		}
		tasks := parseTasks(text)
		if err := todotxt.Sort(tasks, keys...); err != nil {
			return err
		}
		return writeLines(cmd.OutOrStdout(), tasks)
	},
}

var todoKeysCmd = &cobra.Command{
	Use:   "keys [file]",
	Short: "Count tasks per project, context, priority or due state",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readInput(cmd, argOr(args, 0))
		if err != nil {
			return err
		}
		kind := query.KeyKind(todoKeyKind)
		switch kind {
		case query.KindProject, query.KindContext, query.KindPriority, query.KindDue:
		default:
			return fmt.Errorf("unknown key kind %q (want project, context, priority or due)", todoKeyKind)
		}
		for _, k := range query.Keys(parseTasks(text), kind, now()) {
			if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%s\n", k.Value, k.Count, k.Query); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	todoParseCmd.Flags().StringVarP(&todoOutput, "output", "o", "yaml", "output format: yaml or text")
	todoDoneCmd.Flags().BoolVar(&todoUndo, "undo", false, "mark the task open again")
	todoAddCmd.Flags().StringArrayVarP(&todoProjects, "project", "p", nil, "add +project (repeatable)")
	todoAddCmd.Flags().StringArrayVarP(&todoContexts, "context", "x", nil, "add @context (repeatable)")
	todoSortCmd.Flags().StringSliceVar(&todoSortBy, "by", nil, "sort keys, e.g. --by priority,-duedate")
	todoKeysCmd.Flags().StringVarP(&todoKeyKind, "kind", "k", string(query.KindProject), "project, context, priority or due")

	todoCmd.AddCommand(todoParseCmd, todoDoneCmd, todoAddCmd, todoFilterCmd, todoSortCmd, todoKeysCmd)
	rootCmd.AddCommand(todoCmd)
}

// taskView is the YAML shape of a parsed task.
type taskView struct {
	Line        int               `yaml:"line"`
	Done        bool              `yaml:"done,omitempty"`
	Priority    string            `yaml:"priority,omitempty"`
	Completed   string            `yaml:"completed,omitempty"`
	Created     string            `yaml:"created,omitempty"`
	Due         string            `yaml:"due,omitempty"`
	Description string            `yaml:"description"`
	Projects    []string          `yaml:"projects,omitempty"`
	Contexts    []string          `yaml:"contexts,omitempty"`
	Tags        map[string]string `yaml:"tags,omitempty"`
}

func taskViews(tasks []todotxt.Task) []taskView {
	views := make([]taskView, 0, len(tasks))
	for i, t := range tasks {
		views = append(views, taskView{
			Line:        i + 1,
			Done:        t.Done,
			Priority:    t.PriorityString(),
			Completed:   t.CompletionDate,
			Created:     t.CreationDate,
			Due:         t.DueDate,
			Description: t.Description,
			Projects:    t.Projects,
			Contexts:    t.Contexts,
			Tags:        t.Tags,
		})
	}
	return views
}

// parseTasks parses every non-blank line of text.
func parseTasks(text string) []todotxt.Task {
	var tasks []todotxt.Task
	offset := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) != "" {
			t := todotxt.Parse(line)
			t.LineOffset = offset
			tasks = append(tasks, t)
		}
		offset += len([]rune(line)) + 1
	}
	return tasks
}

// lineOffset returns the rune offset where the 1-based line n starts.
func lineOffset(text string, n int) (int, bool) {
	lines := strings.Split(text, "\n")
	if n > len(lines) {
		return 0, false
	}
	offset := 0
	for _, l := range lines[:n-1] {
		offset += len([]rune(l)) + 1
	}
	return offset, true
}

func writeLines(w io.Writer, tasks []todotxt.Task) error {
	for _, t := range tasks {
		if _, err := fmt.Fprintln(w, t.Line); err != nil {
			return err
		}
	}
	return nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // G306: user document
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func argOr(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}

