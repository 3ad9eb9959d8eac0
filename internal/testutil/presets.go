package testutil

import "time"

// ReferenceDate is the "today" the standard dataset is built around.
var ReferenceDate = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// WithStandardTestData adds the standard dataset: a mix of priorities,
// projects, contexts, due states and one completed task.
func (b *Builder) WithStandardTestData() *Builder {
	today := ReferenceDate
	yesterday := today.AddDate(0, 0, -1)
	lastWeek := today.AddDate(0, 0, -7)
	nextWeek := today.AddDate(0, 0, 7)

	return b.
		WithTask("Fix login bug",
			Priority('A'), Created(lastWeek), Projects("auth"), Contexts("work"), Due(yesterday)).
		WithTask("Add search feature",
			Priority('B'), Created(yesterday), Projects("search"), Contexts("work"), Due(nextWeek)).
		WithTask("Call mom",
			Priority('A'), Contexts("phone"), Due(today)).
		WithTask("Update docs",
			Done(yesterday), Created(lastWeek), Projects("auth"), Contexts("work")).
		WithTask("Water plants",
			Contexts("home")).
		WithTask("Plan holiday",
			Priority('C'), Projects("family", "travel"), Tag("budget", "1200"))
}
