package highlight

import "github.com/zjrosen/quill/internal/annotation"

// Key-value expressions, covering .properties, INI, vCard and YAML-like
// files.
const (
	ExprKeyValue       = `(?im)^([a-z_0-9]+)[-:=]`
	ExprKeyValueQuoted = `(?i)(["'][a-z_0-9\- ]+["']\s*[-:=])`
	ExprVCardKey       = `(?im)^(?<field>[^\s:;]+)(;(?<param>[^=:;]+)="?(?<value>[^:;]+)"?)*:`
	ExprINIHeader      = `(?im)^(\[.*\])$`
	ExprINIKey         = `(?im)^([a-z_0-9]+)\s*[=]`
	ExprINIComment     = `(?im)^(;.*)$`
	ExprComment        = `(?im)^((#|//)\s+.*)$`
)

const sectionScale = 1.25

func keyValuePatterns(opts Options) []Pattern {
	pal := opts.Palette
	return []Pattern{
		NewPattern("key", ExprKeyValue, 0, Decorate(annotation.Bold())),
		NewPattern("quoted-key", ExprKeyValueQuoted, 0, Decorate(annotation.Bold())),
		NewPattern("list", ExprList, 1, Decorate(annotation.Foreground(pal.Section))),
		NewPattern("vcard-key", ExprVCardKey, 0, Decorate(annotation.Bold())),
		NewPattern("ini-key", ExprINIKey, 0, Decorate(annotation.Bold())),
		NewPattern("ini-header", ExprINIHeader, 0, Decorate(
			annotation.RelativeSize(sectionScale),
			annotation.Foreground(pal.Section),
		)),
		NewPattern("ini-comment", ExprINIComment, 0, Decorate(annotation.Foreground(pal.Comment))),
		NewPattern("comment", ExprComment, 0, Decorate(annotation.Foreground(pal.Comment))),
	}
}
