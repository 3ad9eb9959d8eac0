// Package highlight finds syntactic constructs in a text buffer with ordered
// regular-expression passes and turns them into annotations.
package highlight

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dlclark/regexp2"

	"github.com/zjrosen/quill/internal/annotation"
)

// matchTimeout bounds a single pattern scan. Backtracking patterns such as
// bold/italics can otherwise stall on adversarial input.
const matchTimeout = 250 * time.Millisecond

// ErrUnknownPattern is returned when a pattern name is not in a registry.
var ErrUnknownPattern = errors.New("unknown pattern")

// Group is one capture group of a match, in rune offsets.
type Group struct {
	Start   int
	End     int
	Text    string
	Matched bool
}

// Match is a single regexp hit. Start, End and Text describe the group the
// pattern annotates; Groups holds every group with Groups[0] the whole match.
type Match struct {
	Start  int
	End    int
	Text   string
	Groups []Group
}

// Span is a decoration over [Start, End) produced for a match.
type Span struct {
	Start      int
	End        int
	Decoration annotation.Decoration
}

// Decorator turns a match into spans.
type Decorator func(m Match) []Span

// Decorate applies each decoration to the annotated group of the match.
func Decorate(decs ...annotation.Decoration) Decorator {
	return func(m Match) []Span {
		spans := make([]Span, 0, len(decs))
		for _, d := range decs {
			spans = append(spans, Span{Start: m.Start, End: m.End, Decoration: d})
		}
		return spans
	}
}

// Pattern is one registry entry: a named expression, the capture group that
// receives the annotation (0 for the whole match) and a decoration factory.
//
// Prepare, when set, is called once per scan with the buffer text and
// replaces Decorate for that scan. Dialects that need per-pass state (CSV
// column counting, delimiter inference) use it.
type Pattern struct {
	Name     string
	Regexp   *regexp2.Regexp
	Group    int
	Decorate Decorator
	Prepare  func(text string) Decorator
}

// NewPattern compiles expr. Pattern expressions are program constants, so a
// compile failure panics.
func NewPattern(name, expr string, group int, decorate Decorator) Pattern {
	re := regexp2.MustCompile(expr, regexp2.None)
	re.MatchTimeout = matchTimeout
	return Pattern{
		Name:     name,
		Regexp:   re,
		Group:    group,
		Decorate: decorate,
	}
}

// Matches returns every non-overlapping, leftmost-first match in text.
// Matches whose annotated group did not participate are skipped.
func (p Pattern) Matches(text string) ([]Match, error) {
	var out []Match
	m, err := p.Regexp.FindStringMatch(text)
	for m != nil && err == nil {
		if match, ok := p.convert(m); ok {
			out = append(out, match)
		}
		m, err = p.Regexp.FindNextMatch(m)
	}
	if err != nil {
		return out, fmt.Errorf("pattern %s: %w", p.Name, err)
	}
	return out, nil
}

// Scan runs the pattern over text and returns the spans its decorator
// produced, in match order.
func (p Pattern) Scan(text string) ([]Span, error) {
	decorate := p.Decorate
	if p.Prepare != nil {
		decorate = p.Prepare(text)
	}
	matches, err := p.Matches(text)
	var spans []Span
	for _, m := range matches {
		for _, s := range decorate(m) {
			if s.End > s.Start {
				spans = append(spans, s)
			}
		}
	}
	return spans, err
}

func (p Pattern) convert(m *regexp2.Match) (Match, bool) {
	raw := m.Groups()
	groups := make([]Group, len(raw))
	for i, g := range raw {
		groups[i] = Group{
			Start:   g.Index,
			End:     g.Index + g.Length,
			Text:    g.String(),
			Matched: len(g.Captures) > 0,
		}
	}
	if p.Group >= len(groups) || !groups[p.Group].Matched {
		return Match{}, false
	}
	target := groups[p.Group]
	return Match{
		Start:  target.Start,
		End:    target.End,
		Text:   target.Text,
		Groups: groups,
	}, true
}

// Registry is the ordered list of patterns of a dialect. Passes run in
// declaration order and later spans render on top of earlier ones.
type Registry struct {
	patterns []Pattern
}

// NewRegistry returns a registry holding patterns in the given order.
func NewRegistry(patterns ...Pattern) Registry {
	return Registry{patterns: patterns}
}

// Append returns a new registry with patterns added after the existing ones.
func (r Registry) Append(patterns ...Pattern) Registry {
	out := make([]Pattern, 0, len(r.patterns)+len(patterns))
	out = append(out, r.patterns...)
	out = append(out, patterns...)
	return Registry{patterns: out}
}

// Patterns returns the patterns in pass order.
func (r Registry) Patterns() []Pattern {
	return r.patterns
}

// Names returns pattern names in pass order.
func (r Registry) Names() []string {
	names := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		names[i] = p.Name
	}
	return names
}

// Lookup returns the first pattern named name.
func (r Registry) Lookup(name string) (Pattern, bool) {
	for _, p := range r.patterns {
		if p.Name == name {
			return p, true
		}
	}
	return Pattern{}, false
}

// Select returns a registry holding only the named patterns, kept in pass
// order.
func (r Registry) Select(names ...string) (Registry, error) {
	for _, name := range names {
		if _, ok := r.Lookup(name); !ok {
			return Registry{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
		}
	}
	var out []Pattern
	for _, p := range r.patterns {
		if slices.Contains(names, p.Name) {
			out = append(out, p)
		}
	}
	return Registry{patterns: out}, nil
}
