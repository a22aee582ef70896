// Package overdue turns "how late is this" into a task priority.
package overdue

import (
	"math"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
)

// Thresholds are day counts at which an overdue item escalates.
type Thresholds struct {
	HighAfterDays   int
	UrgentAfterDays int
}

func DefaultThresholds() Thresholds {
	return Thresholds{HighAfterDays: 7, UrgentAfterDays: 14}
}

// DaysOverdue returns whole UTC calendar days between due and asOf. Zero or
// negative means the item is not overdue yet.
func DaysOverdue(due, asOf time.Time) int {
	d := truncateDay(asOf).Sub(truncateDay(due)).Hours() / 24
	return int(math.Round(d))
}

// Classify maps days overdue to a priority: not overdue → none, then medium,
// high from HighAfterDays, urgent from UrgentAfterDays.
func Classify(days int, th Thresholds) domain.TaskPriority {
	switch {
	case days <= 0:
		return domain.PriorityNone
	case days >= th.UrgentAfterDays:
		return domain.PriorityUrgent
	case days >= th.HighAfterDays:
		return domain.PriorityHigh
	default:
		return domain.PriorityMedium
	}
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
