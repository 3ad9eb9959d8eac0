package todotxt

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownSortKey is returned for an order-by key Sort does not know.
var ErrUnknownSortKey = errors.New("unknown sort key")

// SortKey names a task field to order by.
type SortKey string

const (
	ByPriority     SortKey = "priority"
	ByContext      SortKey = "context"
	ByProject      SortKey = "project"
	ByCreationDate SortKey = "date"
	ByDueDate      SortKey = "duedate"
	ByDescription  SortKey = "description"
	ByLine         SortKey = "line"
)

// SortKeys lists the keys accepted by Sort.
var SortKeys = []SortKey{ByPriority, ByContext, ByProject, ByCreationDate, ByDueDate, ByDescription, ByLine}

var sortKeyAliases = map[string]SortKey{
	"creation_date": ByCreationDate,
	"created":       ByCreationDate,
	"due_date":      ByDueDate,
	"due":           ByDueDate,
	"pri":           ByPriority,
}

// ParseSortKey resolves an order-by term. A leading "-" requests descending
// order.
func ParseSortKey(term string) (SortKey, bool, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	descending := strings.HasPrefix(term, "-")
	term = strings.TrimPrefix(term, "-")
	if alias, ok := sortKeyAliases[term]; ok {
		return alias, descending, nil
	}
	key := SortKey(term)
	if !slices.Contains(SortKeys, key) {
		return "", false, fmt.Errorf("%w: %q", ErrUnknownSortKey, term)
	}
	return key, descending, nil
}

type sortTerm struct {
	key        SortKey
	descending bool
}

// Sort orders tasks in place by the given terms, e.g. Sort(tasks, "-priority",
// "duedate"). Remaining ties are resolved by due date and then priority.
// Tasks with an empty value for a key sort after tasks that have one, in
// either direction.
func Sort(tasks []Task, orderBy ...string) error {
	terms := make([]sortTerm, 0, len(orderBy)+2)
	for _, o := range orderBy {
		key, desc, err := ParseSortKey(o)
		if err != nil {
			return err
		}
		terms = append(terms, sortTerm{key: key, descending: desc})
	}
	terms = append(terms, sortTerm{key: ByDueDate}, sortTerm{key: ByPriority})

	slices.SortStableFunc(tasks, func(a, b Task) int {
		for _, term := range terms {
			if c := compareField(sortValue(a, term.key), sortValue(b, term.key), term.descending); c != 0 {
				return c
			}
		}
		return 0
	})
	return nil
}

func sortValue(t Task, key SortKey) string {
	switch key {
	case ByPriority:
		return t.PriorityString()
	case ByContext:
		return joinSorted(t.Contexts)
	case ByProject:
		return joinSorted(t.Projects)
	case ByCreationDate:
		return t.CreationDate
	case ByDueDate:
		return t.DueDate
	case ByDescription:
		return t.Description
	case ByLine:
		return t.Line
	}
	return ""
}

func joinSorted(values []string) string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return strings.Join(sorted, "")
}

func compareField(x, y string, descending bool) int {
	x = strings.ToLower(strings.TrimSpace(x))
	y = strings.ToLower(strings.TrimSpace(y))
	switch {
	case x == "" && y == "":
		return 0
	case x == "":
		return 1
	case y == "":
		return -1
	}
	c := cmp.Compare(x, y)
	if descending {
		return -c
	}
	return c
}
