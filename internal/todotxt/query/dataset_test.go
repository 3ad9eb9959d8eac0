package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/zjrosen/quill/internal/testutil"
	"github.com/zjrosen/quill/internal/todotxt"
)

func descriptions(tasks []todotxt.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Description)
	}
	return out
}

func TestFilter_StandardData(t *testing.T) {
	tasks := testutil.NewBuilder(t).WithStandardTestData().Tasks()
	e := Evaluator{Now: func() time.Time { return testutil.ReferenceDate }}

	tests := []struct {
		query string
		want  []string
	}{
		{"@work & !done", []string{"Fix login bug +auth @work due:2024-03-14", "Add search feature +search @work due:2024-03-22"}},
		{"overdue | today", []string{"Fix login bug +auth @work due:2024-03-14", "Call mom @phone due:2024-03-15"}},
		{"+auth", []string{"Fix login bug +auth @work due:2024-03-14", "Update docs +auth @work"}},
		{"nocontext", []string{"Plan holiday +family +travel budget:1200"}},
		{"budget:1200", []string{"Plan holiday +family +travel budget:1200"}},
		{"(pri:A | pri:C) & !@phone", []string{"Fix login bug +auth @work due:2024-03-14", "Plan holiday +family +travel budget:1200"}},
		{"noproject and not done", []string{"Call mom @phone due:2024-03-15", "Water plants @home"}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptions(e.Filter(tasks, tt.query)))
		})
	}
}

func TestKeys_StandardData(t *testing.T) {
	tasks := testutil.NewBuilder(t).WithStandardTestData().Tasks()

	assert.Equal(t, []Key{
		{Value: "auth", Count: 2, Query: "+auth"},
		{Value: "family", Count: 1, Query: "+family"},
		{Value: "search", Count: 1, Query: "+search"},
		{Value: "travel", Count: 1, Query: "+travel"},
		{Value: NoneKey, Count: 2, Query: "noproject"},
	}, Keys(tasks, KindProject, testutil.ReferenceDate))

	assert.Equal(t, []Key{
		{Value: "future", Count: 1, Query: "future"},
		{Value: "overdue", Count: 1, Query: "overdue"},
		{Value: "today", Count: 1, Query: "today"},
		{Value: NoneKey, Count: 3, Query: "nodue"},
	}, Keys(tasks, KindDue, testutil.ReferenceDate))
}
