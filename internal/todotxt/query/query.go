package query

import (
	"strings"
	"time"
	"unicode"

	"github.com/zjrosen/quill/internal/todotxt"
)

// Evaluator matches tasks against queries. Now supplies the reference day for
// due-date predicates; a nil Now uses the wall clock.
type Evaluator struct {
	Now func() time.Time
}

func (e Evaluator) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// ParseQuery substitutes each predicate of query with T or F for task and
// returns the resulting truth expression without whitespace, e.g.
// "pri:A & !+work" becomes "T&!F".
func (e Evaluator) ParseQuery(task todotxt.Task, query string) (string, error) {
	var sb strings.Builder
	for _, tok := range NewLexer(query).Tokens() {
		switch tok.Type {
		case TokenElement:
			if e.element(task, tok.Literal) {
				sb.WriteByte('T')
			} else {
				sb.WriteByte('F')
			}
		case TokenIllegal:
			return "", malformed(tok, "unexpected character")
		default:
			sb.WriteString(tok.Type.symbol())
		}
	}
	return sb.String(), nil
}

// Matches reports whether task satisfies query. Malformed queries match
// nothing.
func (e Evaluator) Matches(task todotxt.Task, query string) bool {
	expr, err := e.ParseQuery(task, query)
	if err != nil {
		return false
	}
	ok, err := ShuntingYard(expr)
	return err == nil && ok
}

// Filter returns the tasks matching query, in their original order.
func (e Evaluator) Filter(tasks []todotxt.Task, query string) []todotxt.Task {
	var out []todotxt.Task
	for _, t := range tasks {
		if e.Matches(t, query) {
			out = append(out, t)
		}
	}
	return out
}

// ParseQuery evaluates predicates against the current day.
func ParseQuery(task todotxt.Task, query string) (string, error) {
	return Evaluator{}.ParseQuery(task, query)
}

// Matches reports whether task satisfies query against the current day.
func Matches(task todotxt.Task, query string) bool {
	return Evaluator{}.Matches(task, query)
}

// Preprocess rewrites word operators (and, or, not, &&, ||) to their
// symbols and drops whitespace. Predicates are kept verbatim.
func Preprocess(query string) string {
	var sb strings.Builder
	for _, tok := range NewLexer(query).Tokens() {
		if tok.Type == TokenElement || tok.Type == TokenIllegal {
			sb.WriteString(tok.Literal)
			continue
		}
		sb.WriteString(tok.Type.symbol())
	}
	return sb.String()
}

// element evaluates a single predicate. Unknown predicates are false.
func (e Evaluator) element(t todotxt.Task, el string) bool {
	lower := strings.ToLower(el)
	switch lower {
	case "nopriority", "nopri":
		return !t.HasPriority()
	case "today", "due", "due=":
		return t.DueState(e.now()) == todotxt.DueToday
	case "overdue", "past", "due<":
		return t.DueState(e.now()) == todotxt.DueOverdue
	case "future", "due>":
		return t.DueState(e.now()) == todotxt.DueFuture
	case "nodue":
		return t.DueDate == ""
	case "done":
		return t.Done
	case "nocontext", "nocontexts":
		return len(t.Contexts) == 0
	case "noproject", "noprojects":
		return len(t.Projects) == 0
	case "@":
		return len(t.Contexts) > 0
	case "+":
		return len(t.Projects) > 0
	}

	switch {
	case isPriorityLetter(el):
		return strings.EqualFold(t.PriorityString(), el)
	case strings.HasPrefix(el, "@"):
		return t.HasContext(el[1:])
	case strings.HasPrefix(el, "+"):
		return t.HasProject(el[1:])
	case strings.HasPrefix(lower, "pri:"):
		return strings.EqualFold(t.PriorityString(), el[len("pri:"):]) && t.HasPriority()
	}

	if key, value, ok := strings.Cut(el, ":"); ok && key != "" && value != "" {
		v, found := t.Tags[strings.ToLower(key)]
		return found && v == value
	}
	return false
}

func isPriorityLetter(el string) bool {
	r := []rune(el)
	return len(r) == 1 && unicode.IsUpper(r[0]) && r[0] <= 'Z'
}
