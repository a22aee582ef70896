package importer

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
)

const dateLayout = "2006-01-02"

var shortIDPattern = regexp.MustCompile(`^[A-Z]{3,6}[0-9]{2,4}$`)

// Validate checks the schema before conversion and returns every problem
// found, not just the first.
func Validate(schema *ImportSchema) []error {
	var errs []error

	if len(schema.Projects) == 0 {
		return []error{fmt.Errorf("projects: at least one project is required")}
	}

	seen := make(map[string]int)
	for i := range schema.Projects {
		p := &schema.Projects[i]
		prefix := fmt.Sprintf("projects[%d]", i)

		id := strings.ToUpper(p.ShortID)
		switch {
		case p.ShortID == "":
			errs = append(errs, fmt.Errorf("%s.short_id is required", prefix))
		case !shortIDPattern.MatchString(id):
			errs = append(errs, fmt.Errorf("%s.short_id: %q must be 3-6 letters followed by 2-4 digits", prefix, p.ShortID))
		default:
			if first, dup := seen[id]; dup {
				errs = append(errs, fmt.Errorf("%s.short_id: duplicate %q (first used by projects[%d])", prefix, p.ShortID, first))
			} else {
				seen[id] = i
			}
		}

		if strings.TrimSpace(p.Name) == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}
		if p.Stage != "" {
			if _, err := domain.ParsePipelineStage(p.Stage); err != nil {
				errs = append(errs, fmt.Errorf("%s.stage: invalid value %q", prefix, p.Stage))
			}
		}

		errs = append(errs, validateTasks(prefix, p.Tasks)...)
		errs = append(errs, validateReturns(prefix, p.Returns)...)
	}

	return errs
}

func validateTasks(parent string, tasks []TaskImport) []error {
	var errs []error
	for i, t := range tasks {
		prefix := fmt.Sprintf("%s.tasks[%d]", parent, i)

		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Errorf("%s.title is required", prefix))
		}
		if t.Category == "" {
			errs = append(errs, fmt.Errorf("%s.category is required", prefix))
		} else if _, err := domain.ParseTaskCategory(t.Category); err != nil {
			errs = append(errs, fmt.Errorf("%s.category: invalid value %q", prefix, t.Category))
		}
		if t.Status != "" {
			if _, err := domain.ParseTaskStatus(t.Status); err != nil {
				errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, t.Status))
			}
		}
		if t.Priority != "" {
			if _, err := domain.ParseTaskPriority(t.Priority); err != nil {
				errs = append(errs, fmt.Errorf("%s.priority: invalid value %q", prefix, t.Priority))
			}
		}
		errs = append(errs, validateOptionalDate(prefix+".due_date", t.DueDate)...)
	}
	return errs
}

func validateReturns(parent string, returns []ReturnImport) []error {
	var errs []error
	for i, r := range returns {
		prefix := fmt.Sprintf("%s.returns[%d]", parent, i)

		if strings.TrimSpace(r.Item) == "" {
			errs = append(errs, fmt.Errorf("%s.item is required", prefix))
		}
		if r.DueDate == "" {
			errs = append(errs, fmt.Errorf("%s.due_date is required", prefix))
		} else {
			errs = append(errs, validateOptionalDate(prefix+".due_date", &r.DueDate)...)
		}
		if r.Amount < 0 {
			errs = append(errs, fmt.Errorf("%s.amount must not be negative", prefix))
		}
		if r.Status != "" {
			if _, err := domain.ParseReturnStatus(r.Status); err != nil {
				errs = append(errs, fmt.Errorf("%s.status: invalid value %q", prefix, r.Status))
			}
		}
	}
	return errs
}

func validateOptionalDate(field string, value *string) []error {
	if value == nil || *value == "" {
		return nil
	}
	if _, err := time.Parse(dateLayout, *value); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, *value)}
	}
	return nil
}
