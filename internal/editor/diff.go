package editor

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffChanges returns the changes that turn old into updated. Applied in
// order, each change's Offset refers to the text produced by the changes
// before it. A deletion directly followed by an insertion is merged into a
// single replacement.
func DiffChanges(old, updated string) []Change {
	if old == updated {
		return nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(old, updated, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var changes []Change
	offset := 0
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		n := utf8.RuneCountInString(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			offset += n
		case diffmatchpatch.DiffDelete:
			c := Change{Offset: offset, OldLen: n}
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				c.Text = diffs[i+1].Text
				c.NewLen = utf8.RuneCountInString(c.Text)
				i++
			}
			changes = append(changes, c)
			offset += c.NewLen
		case diffmatchpatch.DiffInsert:
			changes = append(changes, Change{Offset: offset, NewLen: n, Text: d.Text})
			offset += n
		}
	}
	return changes
}
