package importer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
	"github.com/google/uuid"
)

// GeneratedStudio holds domain objects ready for persistence, in insert order.
type GeneratedStudio struct {
	Projects []*domain.Project
	Tasks    []*domain.Task
	Returns  []*domain.Return
}

// Convert transforms a validated ImportSchema into domain objects. Call
// Validate first; Convert assumes the schema is valid. Each project's
// progress is computed from its stage and imported tasks.
func Convert(schema *ImportSchema) (*GeneratedStudio, error) {
	now := time.Now().UTC()
	out := &GeneratedStudio{}

	for i, pi := range schema.Projects {
		stage := domain.StageConsultation
		if pi.Stage != "" {
			s, err := domain.ParsePipelineStage(pi.Stage)
			if err != nil {
				return nil, fmt.Errorf("projects[%d]: %w", i, err)
			}
			stage = s
		}

		p := &domain.Project{
			ID:         uuid.New().String(),
			ShortID:    strings.ToUpper(pi.ShortID),
			Name:       pi.Name,
			ClientName: pi.Client,
			Status:     stage,
			CreatedAt:  now,
			UpdatedAt:  now,
		}

		tasks := make([]*domain.Task, 0, len(pi.Tasks))
		for j, ti := range pi.Tasks {
			t, err := convertTask(p.ID, ti, now)
			if err != nil {
				return nil, fmt.Errorf("projects[%d].tasks[%d]: %w", i, j, err)
			}
			tasks = append(tasks, t)
		}

		pct, err := progress.CalculateProjectProgress(p.Status, tasks)
		if err != nil {
			return nil, fmt.Errorf("projects[%d]: %w", i, err)
		}
		p.Progress = pct

		out.Projects = append(out.Projects, p)
		out.Tasks = append(out.Tasks, tasks...)

		for j, ri := range pi.Returns {
			r, err := convertReturn(p.ID, ri, now)
			if err != nil {
				return nil, fmt.Errorf("projects[%d].returns[%d]: %w", i, j, err)
			}
			out.Returns = append(out.Returns, r)
		}
	}

	return out, nil
}

func convertTask(projectID string, ti TaskImport, now time.Time) (*domain.Task, error) {
	category, err := domain.ParseTaskCategory(ti.Category)
	if err != nil {
		return nil, err
	}
	status := domain.TaskPending
	if ti.Status != "" {
		if status, err = domain.ParseTaskStatus(ti.Status); err != nil {
			return nil, err
		}
	}
	priority, err := domain.ParseTaskPriority(ti.Priority)
	if err != nil {
		return nil, err
	}

	t := &domain.Task{
		ID:        uuid.New().String(),
		ProjectID: projectID,
		Title:     ti.Title,
		Notes:     ti.Notes,
		Category:  category,
		Status:    status,
		Priority:  priority,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if status == domain.TaskCompleted {
		completedAt := now
		t.CompletedAt = &completedAt
	}
	if ti.DueDate != nil && *ti.DueDate != "" {
		d, err := time.Parse(dateLayout, *ti.DueDate)
		if err != nil {
			return nil, fmt.Errorf("parsing due_date: %w", err)
		}
		t.DueDate = &d
	}
	return t, nil
}

func convertReturn(projectID string, ri ReturnImport, now time.Time) (*domain.Return, error) {
	due, err := time.Parse(dateLayout, ri.DueDate)
	if err != nil {
		return nil, fmt.Errorf("parsing due_date: %w", err)
	}
	status := domain.ReturnOpen
	if ri.Status != "" {
		if status, err = domain.ParseReturnStatus(ri.Status); err != nil {
			return nil, err
		}
	}
	return &domain.Return{
		ID:          uuid.New().String(),
		ProjectID:   projectID,
		Item:        ri.Item,
		Vendor:      ri.Vendor,
		AmountCents: int64(math.Round(ri.Amount * 100)),
		Status:      status,
		DueDate:     due,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}
