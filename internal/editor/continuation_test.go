package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContinue(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
		ok       bool
	}{
		{"dash bullet", "- item", "\n- ", true},
		{"indented star", "  * item", "\n  * ", true},
		{"plus bullet", "+ item", "\n+ ", true},
		{"checked box continues unchecked", "- [x] done", "\n- [ ] ", true},
		{"unchecked box", "\t* [ ] todo", "\n\t* [ ] ", true},
		{"numbered dot", "1. one", "\n2. ", true},
		{"numbered paren grows a digit", "9) nine", "\n10) ", true},
		{"letter", "a. alpha", "\nb. ", true},
		{"letter wraps", "z) last", "\na) ", true},
		{"upper letter wraps", "Z. last", "\nA. ", true},
		{"previous lines ignored", "para\n- item", "\n- ", true},
		{"marker needs a space", "-item", "", false},
		{"empty item ends list", "- ", "", false},
		{"plain text", "hello", "", false},
		{"bold is not a bullet", "**bold**", "", false},
		{"empty buffer", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Continue(tt.text, len([]rune(tt.text)), "\n")
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestContinue_OnlySingleNewline(t *testing.T) {
	_, ok := Continue("- item", 6, "\n\n")
	assert.False(t, ok)
	_, ok = Continue("- item", 6, "x")
	assert.False(t, ok)
}

func TestContinue_CursorAtStart(t *testing.T) {
	_, ok := Continue("- item", 0, "\n")
	assert.False(t, ok)
}

func TestContinue_LooksOnlyBeforeCursor(t *testing.T) {
	got, ok := Continue("- item\n1. next", 3, "\n")
	require.True(t, ok)
	assert.Equal(t, "\n- ", got)
}

func TestPolicy_Continue(t *testing.T) {
	loose := DefaultPolicy()
	loose.RequireSpaceAfterMarker = false
	got, ok := loose.Continue("-item", 5, "\n")
	require.True(t, ok)
	assert.Equal(t, "\n- ", got)

	keepEmpty := DefaultPolicy()
	keepEmpty.ContinueEmptyItems = true
	got, ok = keepEmpty.Continue("3. ", 3, "\n")
	require.True(t, ok)
	assert.Equal(t, "\n4. ", got)

	noNumbers := DefaultPolicy()
	noNumbers.ContinueNumbered = false
	_, ok = noNumbers.Continue("1. one", 6, "\n")
	assert.False(t, ok)
	_, ok = noNumbers.Continue("- one", 5, "\n")
	assert.True(t, ok)

	noChecklists := DefaultPolicy()
	noChecklists.ContinueChecklists = false
	_, ok = noChecklists.Continue("- [ ] one", 9, "\n")
	assert.False(t, ok)
}

func TestPolicy_Filter(t *testing.T) {
	p := DefaultPolicy()

	c := p.Filter("- a", Change{Offset: 3, Text: "\n", NewLen: 1})
	assert.Equal(t, "\n- ", c.Text)

	c = p.Filter("- a\n- ", Change{Offset: 6, Text: "\n", NewLen: 1})
	assert.Equal(t, Change{Offset: 4, OldLen: 2}, c, "empty item is cleared")

	typed := Change{Offset: 3, Text: "x", NewLen: 1}
	assert.Equal(t, typed, p.Filter("- a", typed))

	replaced := Change{Offset: 2, OldLen: 1, Text: "\n", NewLen: 1}
	assert.Equal(t, replaced, p.Filter("- a", replaced))
}

func TestAutoFormat_ContinuesAndEndsLists(t *testing.T) {
	buf := NewBuffer("- a")
	af := &AutoFormat{Policy: DefaultPolicy()}
	detach := af.Attach(buf)

	_, err := buf.Insert(3, "\n")
	require.NoError(t, err)
	assert.Equal(t, "- a\n- ", buf.Text())

	_, err = buf.Insert(buf.Len(), "\n")
	require.NoError(t, err)
	assert.Equal(t, "- a\n", buf.Text())

	detach()
	_, err = buf.Insert(0, "- b")
	require.NoError(t, err)
	_, err = buf.Insert(3, "\n")
	require.NoError(t, err)
	assert.Equal(t, "- b\n- a\n", buf.Text())
}

func TestAutoFormat_Renumbers(t *testing.T) {
	buf := NewBuffer("1. a\n2. b")
	af := &AutoFormat{Policy: DefaultPolicy(), Renumber: true}
	defer af.Attach(buf)()

	_, err := buf.Insert(0, "1. z\n")
	require.NoError(t, err)
	assert.Equal(t, "1. z\n2. a\n3. b", buf.Text())

	_, err = buf.Insert(4, "\n")
	require.NoError(t, err)
	assert.Equal(t, "1. z\n2. \n3. a\n4. b", buf.Text())
}

func TestRenumberOrderedList(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		cursor   int
		expected string
	}{
		{"flat", "1. a\n1. b\n1. c", 0, "1. a\n2. b\n3. c"},
		{"keeps start value", "3. a\n7. b", 0, "3. a\n4. b"},
		{
			"nested levels count separately",
			"1. a\n2. b\n   1. x\n   5. y\n7. c",
			0,
			"1. a\n2. b\n   1. x\n   2. y\n3. c",
		},
		{"letters", "a) one\nc) two\nq) three", 0, "a) one\nb) two\nc) three"},
		{"delimiter change restarts", "1. a\n5) b\n9) c", 0, "1. a\n5) b\n6) c"},
		{"blank lines stay in the list", "1. a\n\n1. b", 0, "1. a\n\n2. b"},
		{"paragraph ends the list", "1. a\npara\n1. b", 0, "1. a\npara\n1. b"},
		{"cursor on paragraph", "para\n1. a\n1. b", 2, "para\n1. a\n1. b"},
		{"bullet item pops the level", "1. a\n- b\n5. c", 0, "1. a\n- b\n5. c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := RenumberOrderedList(tt.text, tt.cursor)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestRenumberOrderedList_MovesCursor(t *testing.T) {
	text := "8. a\n1. b\n1. c\n1. d"
	got, cursor := RenumberOrderedList(text, len(text))
	assert.Equal(t, "8. a\n9. b\n10. c\n11. d", got)
	assert.Equal(t, len(got), cursor)

	got, cursor = RenumberOrderedList(text, 2)
	assert.Equal(t, 2, cursor, "edits after the cursor leave it in place")
	assert.NotEqual(t, text, got)
}
