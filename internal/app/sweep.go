package app

import (
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
)

type SweepRequest struct {
	// AsOf defaults to now when zero.
	AsOf   time.Time
	DryRun bool
}

// PromotedReturn records one overdue return turned into a chase task.
type PromotedReturn struct {
	ReturnID    string
	ProjectID   string
	Item        string
	Vendor      string
	DaysOverdue int
	Priority    domain.TaskPriority
	// TaskID is empty on a dry run.
	TaskID string
}

type SweepResult struct {
	AsOf     time.Time
	DryRun   bool
	Promoted []PromotedReturn
	Warnings []string
}
