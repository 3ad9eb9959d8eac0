package render

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/quill/internal/annotation"
)

func newTestRenderer(opts ...Option) *Renderer {
	return New(&bytes.Buffer{}, append([]Option{WithColorProfile(termenv.ANSI256)}, opts...)...)
}

func ann(start, end int, d annotation.Decoration) annotation.Annotation {
	return annotation.Annotation{Start: start, End: end, Decoration: d, Owner: "test"}
}

func TestRender_NoAnnotationsIsPlain(t *testing.T) {
	r := newTestRenderer()
	assert.Equal(t, "hello\nworld", r.Render("hello\nworld", nil))
	assert.Equal(t, "", r.Render("", []annotation.Annotation{ann(0, 1, annotation.Bold())}))
}

func TestRender_StylesOnlyAnnotatedRanges(t *testing.T) {
	r := newTestRenderer()
	text := "say **hi** now"
	out := r.Render(text, []annotation.Annotation{
		ann(4, 10, annotation.Bold()),
		ann(6, 8, annotation.Foreground(0xFFEF6D00)),
	})

	assert.NotEqual(t, text, out)
	assert.Equal(t, text, ansi.Strip(out))
	assert.True(t, strings.HasPrefix(out, "say "), "leading text is unstyled")
	assert.True(t, strings.HasSuffix(out, " now"), "trailing text is unstyled")
}

func TestRender_LineBreaksAreNotStyled(t *testing.T) {
	r := newTestRenderer()
	out := r.Render("ab\ncd", []annotation.Annotation{ann(0, 5, annotation.Strikethrough())})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ab", ansi.Strip(lines[0]))
	assert.Equal(t, "cd", ansi.Strip(lines[1]))
}

func TestRender_TabWidth(t *testing.T) {
	r := newTestRenderer(WithTabSize(3))
	out := r.Render("\tx\ty", []annotation.Annotation{ann(0, 1, annotation.TabWidth(2))})
	assert.Equal(t, "  x   y", ansi.Strip(out))
}

func TestRender_IgnoresOutOfRangeAnnotations(t *testing.T) {
	r := newTestRenderer()
	out := r.Render("abc", []annotation.Annotation{
		ann(1, 99, annotation.Italic()),
		ann(7, 9, annotation.Bold()),
	})
	assert.Equal(t, "abc", ansi.Strip(out))
}

func TestTable(t *testing.T) {
	text := "# 見出し\n" + strings.Repeat("x", 40)
	anns := []annotation.Annotation{
		ann(0, 5, annotation.HeaderScale(1.6)),
		ann(6, 46, annotation.Bold()),
	}

	var buf bytes.Buffer
	require.NoError(t, Table(&buf, text, anns))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "START"))
	assert.Contains(t, lines[1], "header-scale(1.60)")
	assert.True(t, strings.HasSuffix(lines[1], "# 見出し"))
	assert.True(t, strings.HasSuffix(lines[2], "…"))
	assert.LessOrEqual(t, runewidth.StringWidth(lines[2][strings.Index(lines[2], "x"):]), SnippetWidth)

	textCol := strings.Index(lines[0], "TEXT")
	assert.Equal(t, textCol, strings.Index(lines[1], "#"), "columns align")
}
