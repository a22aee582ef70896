package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/atelier/internal/app"
	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/overdue"
	"github.com/alexanderramin/atelier/internal/progress"
	"github.com/alexanderramin/atelier/internal/repository"
)

// statusFanOut bounds concurrent task loads in GetStatus.
const statusFanOut = 4

type statusService struct {
	projects repository.ProjectRepo
	tasks    repository.TaskRepo
	returns  repository.ReturnRepo
}

func NewStatusService(
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	returns repository.ReturnRepo,
) StatusService {
	return &statusService{
		projects: projects,
		tasks:    tasks,
		returns:  returns,
	}
}

func (s *statusService) GetStatus(ctx context.Context, req app.StatusRequest) (*app.StatusResponse, error) {
	now := time.Now().UTC()
	if req.Now != nil {
		now = req.Now.UTC()
	}

	projects, err := s.projects.List(ctx, req.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("loading projects: %w", err)
	}

	scoped := filterProjectsByScope(projects, req.ProjectScope)
	if len(req.ProjectScope) > 0 && len(scoped) == 0 {
		return nil, &app.StatusError{
			Code:    app.StatusErrInvalidScope,
			Message: fmt.Sprintf("no projects match scope %v", req.ProjectScope),
		}
	}

	returns, err := s.returns.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("loading returns: %w", err)
	}

	views, warnings, err := s.buildProjectViews(ctx, scoped, returns, now)
	if err != nil {
		return nil, err
	}

	sortStatusViews(views)

	return &app.StatusResponse{
		Summary:  buildStatusSummary(views, now),
		Projects: views,
		Warnings: warnings,
	}, nil
}

// buildProjectViews loads each project's tasks concurrently and derives its
// view. Views keep the order of projects.
func (s *statusService) buildProjectViews(
	ctx context.Context,
	projects []*domain.Project,
	openReturns []*domain.Return,
	now time.Time,
) ([]app.ProjectStatusView, []string, error) {
	views := make([]app.ProjectStatusView, len(projects))
	warnings := make([]string, len(projects))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(statusFanOut)
	for i, p := range projects {
		g.Go(func() error {
			tasks, err := s.tasks.ListByProject(gctx, p.ID)
			if err != nil {
				return fmt.Errorf("loading tasks for %s: %w", p.DisplayID(), err)
			}
			views[i], warnings[i] = projectView(p, tasks)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	byProject := make(map[string]int, len(views))
	for i := range views {
		byProject[views[i].ProjectID] = i
	}
	for _, r := range openReturns {
		i, ok := byProject[r.ProjectID]
		if !ok {
			continue
		}
		views[i].OpenReturnCount++
		if overdue.DaysOverdue(r.DueDate, now) > 0 {
			views[i].OverdueReturns++
		}
	}

	var out []string
	for i, w := range warnings {
		if w != "" {
			out = append(out, w)
		}
		if views[i].Drift {
			out = append(out, fmt.Sprintf("%s: stored progress %d%% differs from computed %d%% (run `atelier project recompute %s`)",
				views[i].ShortID, views[i].StoredProgress, views[i].ComputedProgress, views[i].ShortID))
		}
	}
	return views, out, nil
}

func projectView(p *domain.Project, tasks []*domain.Task) (app.ProjectStatusView, string) {
	var warning string
	computed, err := progress.CalculateProjectProgress(p.Status, tasks)
	if errors.Is(err, progress.ErrUnknownStage) {
		warning = fmt.Sprintf("%s: %v %q", p.DisplayID(), err, p.Status)
	}

	v := app.ProjectStatusView{
		ProjectID:        p.ID,
		ShortID:          p.DisplayID(),
		ProjectName:      p.Name,
		ClientName:       p.ClientName,
		Stage:            p.Status,
		StoredProgress:   p.Progress,
		ComputedProgress: computed,
		Drift:            computed != p.Progress,
		Archived:         p.IsArchived(),
	}
	for _, t := range tasks {
		if !t.IsCompleted() {
			v.OpenTaskCount++
		}
		if progress.StageForCategory(t.Category) != p.Status {
			continue
		}
		v.StageTaskCount++
		if t.IsCompleted() {
			v.StageTaskDone++
		}
	}
	return v, warning
}

// sortStatusViews orders projects furthest from completion first, then by
// name.
func sortStatusViews(views []app.ProjectStatusView) {
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].ComputedProgress != views[j].ComputedProgress {
			return views[i].ComputedProgress < views[j].ComputedProgress
		}
		return views[i].ProjectName < views[j].ProjectName
	})
}

func buildStatusSummary(views []app.ProjectStatusView, now time.Time) app.GlobalStatusSummary {
	counts := make(map[domain.PipelineStage]int)
	var drifted, total int
	for _, v := range views {
		counts[v.Stage]++
		total += v.ComputedProgress
		if v.Drift {
			drifted++
		}
	}

	var byStage []app.StageSummary
	for _, stage := range domain.AllStages() {
		byStage = append(byStage, app.StageSummary{
			Stage:        stage,
			DisplayName:  progress.StageDisplayName(stage),
			ProjectCount: counts[stage],
		})
	}

	var avg int
	if len(views) > 0 {
		avg = int(math.Round(float64(total) / float64(len(views))))
	}

	return app.GlobalStatusSummary{
		GeneratedAt:     now,
		CountsTotal:     len(views),
		CountsDrifted:   drifted,
		AverageProgress: avg,
		ByStage:         byStage,
	}
}
