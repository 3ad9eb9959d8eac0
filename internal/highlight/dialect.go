package highlight

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zjrosen/quill/internal/todotxt"
)

// ErrUnknownDialect is returned when a dialect name is not recognised.
var ErrUnknownDialect = errors.New("unknown dialect")

// Dialect selects the pattern registry.
type Dialect string

const (
	Markdown Dialect = "markdown"
	TodoTxt  Dialect = "todotxt"
	KeyValue Dialect = "keyvalue"
	CSV      Dialect = "csv"
	Orgmode  Dialect = "orgmode"
	Plain    Dialect = "plain"
)

// Dialects lists every supported dialect.
var Dialects = []Dialect{Markdown, TodoTxt, KeyValue, CSV, Orgmode, Plain}

// ParseDialect resolves a dialect name, case-insensitively.
func ParseDialect(name string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range Dialects {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
}

// Detect picks a dialect from a file name. Unknown extensions fall back to
// Plain.
func Detect(path string) Dialect {
	if todotxt.IsTodoFile(path) {
		return TodoTxt
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mkd", ".mdown", ".mkdn", ".mdwn", ".rmd":
		return Markdown
	case ".ini", ".cfg", ".conf", ".properties", ".vcf", ".vcard", ".yaml", ".yml", ".toml", ".env", ".json":
		return KeyValue
	case ".csv":
		return CSV
	case ".org":
		return Orgmode
	default:
		return Plain
	}
}
