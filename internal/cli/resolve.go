package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/atelier/internal/repository"
)

// resolveProjectID resolves a project identifier which can be a short ID
// (case-insensitive), a full UUID, or a unique UUID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if strings.EqualFold(p.ShortID, input) || p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	return pickMatch("project", input, matches)
}

// resolveTaskID resolves a full task UUID or a unique prefix of one, as
// printed in task lists.
func resolveTaskID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("task ID is required")
	}
	if t, err := app.Tasks.GetByID(ctx, input); err == nil {
		return t.ID, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", err
	}

	projects, err := app.Projects.List(ctx, true)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, p := range projects {
		tasks, err := app.Tasks.ListByProject(ctx, p.ID)
		if err != nil {
			return "", err
		}
		for _, t := range tasks {
			if strings.HasPrefix(t.ID, input) {
				matches = append(matches, t.ID)
			}
		}
	}
	return pickMatch("task", input, matches)
}

// resolveReturnID resolves a full return UUID or a unique prefix of one.
func resolveReturnID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("return ID is required")
	}
	returns, err := app.Returns.List(ctx, false)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, r := range returns {
		if r.ID == input {
			return r.ID, nil
		}
		if strings.HasPrefix(r.ID, input) {
			matches = append(matches, r.ID)
		}
	}
	return pickMatch("return", input, matches)
}

func pickMatch(entity, input string, matches []string) (string, error) {
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%s not found: %q", entity, input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%s ID prefix %q is ambiguous (%d matches)", entity, input, len(matches))
	}
}
