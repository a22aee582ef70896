package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/atelier/internal/domain"
	"github.com/spf13/pflag"
)

const dateLayout = "2006-01-02"

var (
	_ pflag.Value = (*stageValue)(nil)
	_ pflag.Value = (*categoryValue)(nil)
	_ pflag.Value = (*priorityValue)(nil)
	_ pflag.Value = (*dateValue)(nil)
)

// stageValue is a --stage flag that only accepts pipeline stages.
type stageValue struct{ dst *domain.PipelineStage }

func newStageValue(dst *domain.PipelineStage) *stageValue { return &stageValue{dst: dst} }

func (v *stageValue) String() string { return string(*v.dst) }
func (v *stageValue) Type() string   { return "stage" }

func (v *stageValue) Set(s string) error {
	st, err := domain.ParsePipelineStage(s)
	if err != nil {
		return fmt.Errorf("%w (one of %s)", err, stageChoices())
	}
	*v.dst = st
	return nil
}

type categoryValue struct{ dst *domain.TaskCategory }

func newCategoryValue(dst *domain.TaskCategory) *categoryValue { return &categoryValue{dst: dst} }

func (v *categoryValue) String() string { return string(*v.dst) }
func (v *categoryValue) Type() string   { return "category" }

func (v *categoryValue) Set(s string) error {
	c, err := domain.ParseTaskCategory(s)
	if err != nil {
		return err
	}
	*v.dst = c
	return nil
}

type priorityValue struct{ dst *domain.TaskPriority }

func newPriorityValue(dst *domain.TaskPriority) *priorityValue { return &priorityValue{dst: dst} }

func (v *priorityValue) String() string { return string(*v.dst) }
func (v *priorityValue) Type() string   { return "priority" }

func (v *priorityValue) Set(s string) error {
	p, err := domain.ParseTaskPriority(s)
	if err != nil {
		return err
	}
	*v.dst = p
	return nil
}

// dateValue is an optional YYYY-MM-DD flag; unset leaves dst nil.
type dateValue struct{ dst **time.Time }

func newDateValue(dst **time.Time) *dateValue { return &dateValue{dst: dst} }

func (v *dateValue) Type() string { return "date" }

func (v *dateValue) String() string {
	if *v.dst == nil {
		return ""
	}
	return (*v.dst).Format(dateLayout)
}

func (v *dateValue) Set(s string) error {
	d, err := parseDate(s)
	if err != nil {
		return err
	}
	*v.dst = &d
	return nil
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", s)
	}
	return d, nil
}

func stageChoices() string {
	stages := domain.AllStages()
	names := make([]string, len(stages))
	for i, s := range stages {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func categoryChoices() []domain.TaskCategory {
	return domain.AllTaskCategories()
}
