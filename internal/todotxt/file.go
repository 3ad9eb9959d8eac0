package todotxt

import (
	"path/filepath"
	"strings"
)

var rxTodoFileName = mustCompile(`(?i)(^todo[-.]?.*)|(.*[-.]todo\.((txt)|(text))$)`)

// IsTodoFile reports whether a file name follows the todo.txt naming
// convention, e.g. "todo.txt", "todo-work.txt" or "work.todo.txt".
func IsTodoFile(path string) bool {
	name := filepath.Base(path)
	ext := strings.ToLower(filepath.Ext(name))
	if ext != ".txt" && ext != ".text" {
		return false
	}
	ok, err := rxTodoFileName.MatchString(name)
	return err == nil && ok
}
