package todotxt

import "time"

// DueState classifies a task's due date against a reference day.
type DueState int

const (
	DueNone DueState = iota
	DueOverdue
	DueToday
	DueFuture
)

// String returns the state name used in filters and key listings.
func (s DueState) String() string {
	switch s {
	case DueOverdue:
		return "overdue"
	case DueToday:
		return "today"
	case DueFuture:
		return "future"
	default:
		return "none"
	}
}

// DueState compares the due date with the calendar day of now.
func (t Task) DueState(now time.Time) DueState {
	if t.DueDate == "" {
		return DueNone
	}
	today := now.Format(DateLayout)
	switch {
	case t.DueDate < today:
		return DueOverdue
	case t.DueDate == today:
		return DueToday
	default:
		return DueFuture
	}
}
