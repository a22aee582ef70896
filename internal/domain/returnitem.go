package domain

import "time"

// Return is a vendor return the studio must chase: an item sent back and
// awaiting shipment confirmation or refund.
type Return struct {
	ID          string
	ProjectID   string
	Item        string
	Vendor      string
	AmountCents int64
	Status      ReturnStatus
	DueDate     time.Time
	// TaskID is set once the overdue sweep has promoted this return to a task.
	TaskID    *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Return) IsOpen() bool { return r.Status == ReturnOpen }

// NeedsPromotion reports whether the return is open, past due as of asOf
// (compared by UTC calendar day) and not yet linked to a task.
func (r *Return) NeedsPromotion(asOf time.Time) bool {
	if !r.IsOpen() || r.TaskID != nil {
		return false
	}
	return truncateDay(r.DueDate).Before(truncateDay(asOf))
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
