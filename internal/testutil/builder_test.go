package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_WithTask(t *testing.T) {
	doc := NewBuilder(t).
		WithTask("call mom", Priority('A'), Created(ReferenceDate), Contexts("phone")).
		Build()

	assert.Equal(t, "(A) 2024-03-15 call mom @phone\n", doc)
}

func TestBuilder_WithTask_AllOptions(t *testing.T) {
	line := NewBuilder(t).
		WithTask("ship it",
			Done(ReferenceDate), Created(ReferenceDate.AddDate(0, 0, -2)),
			Projects("release"), Contexts("work"), Due(ReferenceDate),
			Tag("z", "1"), Tag("a", "2")).
		Lines()[0]

	assert.Equal(t, "x 2024-03-15 2024-03-13 ship it +release @work due:2024-03-15 a:2 z:1", line)
}

func TestBuilder_DonePrecedesPriority(t *testing.T) {
	line := NewBuilder(t).WithTask("a", Priority('B'), Done(ReferenceDate)).Lines()[0]
	assert.Equal(t, "x 2024-03-15 a", line)
}

func TestBuilder_TasksParseBack(t *testing.T) {
	tasks := NewBuilder(t).WithStandardTestData().Tasks()
	require.Len(t, tasks, 6)

	assert.Equal(t, 'A', tasks[0].Priority)
	assert.Equal(t, []string{"auth"}, tasks[0].Projects)
	assert.Equal(t, "2024-03-14", tasks[0].DueDate)
	assert.True(t, tasks[3].Done)
	assert.Equal(t, []string{"family", "travel"}, tasks[5].Projects)
	assert.Equal(t, "1200", tasks[5].Tags["budget"])
}

func TestBuilder_WithLineAndEmpty(t *testing.T) {
	assert.Empty(t, NewBuilder(t).Build())
	assert.Equal(t, "\n  \n", NewBuilder(t).WithLine("").WithLine("  ").Build())
}

func TestBuilder_WriteFile(t *testing.T) {
	b := NewBuilder(t).WithTask("a")
	path := b.WriteFile("todo.txt")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, b.Build(), string(data))
}
