package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/quill/internal/annotation"
)

// SnippetWidth is the cell width snippets are truncated to in Table.
const SnippetWidth = 32

var tableHeader = []string{"START", "END", "DECORATION", "OWNER", "TEXT"}

// Table writes one row per annotation: its range, decoration, owner and
// the covered text. Columns are aligned by display width, so wide runes
// in snippets do not break the layout.
func Table(w io.Writer, text string, anns []annotation.Annotation) error {
	runes := []rune(text)
	rows := [][]string{tableHeader}
	for _, a := range anns {
		rows = append(rows, []string{
			strconv.Itoa(a.Start),
			strconv.Itoa(a.End),
			a.Decoration.String(),
			string(a.Owner),
			snippet(runes, a),
		})
	}

	widths := make([]int, len(tableHeader))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}
	return nil
}

func snippet(runes []rune, a annotation.Annotation) string {
	start := min(max(a.Start, 0), len(runes))
	end := min(max(a.End, start), len(runes))
	s := strings.NewReplacer("\n", `\n`, "\t", `\t`).Replace(string(runes[start:end]))
	return runewidth.Truncate(s, SnippetWidth, "…")
}
