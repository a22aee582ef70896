package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/google/uuid"
)

var testShortIDCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithStage(s domain.PipelineStage) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithShortID(id string) ProjectOption {
	return func(p *domain.Project) {
		p.ShortID = id
	}
}

func WithClient(name string) ProjectOption {
	return func(p *domain.Project) {
		p.ClientName = name
	}
}

func WithProgress(pct int) ProjectOption {
	return func(p *domain.Project) {
		p.Progress = pct
	}
}

func defaultShortID(name string) string {
	upper := strings.ToUpper(name)
	var letters []byte
	for i := 0; i < len(upper) && len(letters) < 3; i++ {
		if upper[i] >= 'A' && upper[i] <= 'Z' {
			letters = append(letters, upper[i])
		}
	}
	for len(letters) < 3 {
		letters = append(letters, 'X')
	}
	n := testShortIDCounter.Add(1)
	return fmt.Sprintf("%s%02d", string(letters), n)
}

func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC()
	p := &domain.Project{
		ID:         uuid.New().String(),
		ShortID:    defaultShortID(name),
		Name:       name,
		ClientName: "Test Client",
		Status:     domain.StageConsultation,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Task options
type TaskOption func(*domain.Task)

func WithCategory(c domain.TaskCategory) TaskOption {
	return func(t *domain.Task) {
		t.Category = c
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.Task) {
		t.Status = s
		if s == domain.TaskCompleted {
			now := time.Now().UTC()
			t.CompletedAt = &now
		}
	}
}

func WithPriority(p domain.TaskPriority) TaskOption {
	return func(t *domain.Task) {
		t.Priority = p
	}
}

func WithTaskDueDate(d time.Time) TaskOption {
	return func(t *domain.Task) {
		t.DueDate = &d
	}
}

func NewTestTask(projectID, title string, opts ...TaskOption) *domain.Task {
	now := time.Now().UTC()
	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     title,
		Category:  domain.CategoryConsultation,
		Status:    domain.TaskPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Return options
type ReturnOption func(*domain.Return)

func WithReturnDue(d time.Time) ReturnOption {
	return func(r *domain.Return) {
		r.DueDate = d
	}
}

func WithReturnStatus(s domain.ReturnStatus) ReturnOption {
	return func(r *domain.Return) {
		r.Status = s
	}
}

func WithVendor(v string) ReturnOption {
	return func(r *domain.Return) {
		r.Vendor = v
	}
}

func NewTestReturn(projectID, item string, opts ...ReturnOption) *domain.Return {
	now := time.Now().UTC()
	r := &domain.Return{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Item:        item,
		Vendor:      "Test Vendor",
		AmountCents: 12999,
		Status:      domain.ReturnOpen,
		DueDate:     now.AddDate(0, 0, 7),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
