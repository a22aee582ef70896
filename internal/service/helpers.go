package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/alexanderramin/atelier/internal/progress"
	"github.com/alexanderramin/atelier/internal/repository"
)

// recomputeProgress reruns the progress engine for a project and persists
// the result together with stage. Pass tx-scoped repositories so the write
// lands in the caller's transaction. An unknown stage is stored as 0 and
// reported as a warning.
func recomputeProgress(
	ctx context.Context,
	projects repository.ProjectRepo,
	tasks repository.TaskRepo,
	p *domain.Project,
	stage domain.PipelineStage,
) (warning string, err error) {
	list, err := tasks.ListByProject(ctx, p.ID)
	if err != nil {
		return "", fmt.Errorf("loading tasks: %w", err)
	}

	pct, calcErr := progress.CalculateProjectProgress(stage, list)
	if calcErr != nil {
		if !errors.Is(calcErr, progress.ErrUnknownStage) {
			return "", calcErr
		}
		warning = fmt.Sprintf("project %s: %v %q, progress set to 0", p.DisplayID(), calcErr, stage)
	}

	if err := projects.UpdateProgress(ctx, p.ID, stage, pct); err != nil {
		return "", err
	}
	p.Status = stage
	p.Progress = pct
	return warning, nil
}

func appendWarning(warnings []string, w string) []string {
	if w == "" {
		return warnings
	}
	return append(warnings, w)
}

// filterProjectsByScope returns only projects whose ID or short ID is in
// scope. Short IDs match case-insensitively. If scope is empty, all
// projects are returned unchanged.
func filterProjectsByScope(projects []*domain.Project, scope []string) []*domain.Project {
	if len(scope) == 0 {
		return projects
	}
	scopeSet := make(map[string]bool, len(scope))
	for _, id := range scope {
		scopeSet[id] = true
		scopeSet[strings.ToUpper(strings.TrimSpace(id))] = true
	}
	var filtered []*domain.Project
	for _, p := range projects {
		if scopeSet[p.ID] || scopeSet[p.ShortID] {
			filtered = append(filtered, p)
		}
	}
	return filtered
}
