// Package progress computes project completion from a pipeline stage and the
// project's tasks. Every function is pure and safe for concurrent use.
package progress

import (
	"errors"
	"math"

	"github.com/alexanderramin/atelier/internal/domain"
)

// ErrUnknownStage is returned alongside a zero percentage when the stage is
// not part of the pipeline. It is a warning, not a failure: callers log it
// and carry on with the zero value.
var ErrUnknownStage = errors.New("unknown pipeline stage")

// currentStageDefaultPct is shown on the timeline for a current stage with no
// mapped tasks. CalculateProjectProgress deliberately uses 0 in the same
// situation.
const currentStageDefaultPct = 50

// StageProgress is one row of the stage timeline.
type StageProgress struct {
	Stage       domain.PipelineStage
	DisplayName string
	Progress    int
	IsCompleted bool
	IsCurrent   bool
	TaskCount   int
}

// CalculateProjectProgress returns the overall completion percentage in
// [0, 100] for a project in stage with the given tasks.
//
// A complete project is 100 regardless of tasks. Otherwise the result is the
// stage's base progress plus its weight scaled by the share of completed tasks
// whose category maps to that stage; a stage with no mapped tasks adds
// nothing. Rounding happens once, on the final sum.
func CalculateProjectProgress(stage domain.PipelineStage, tasks []*domain.Task) (int, error) {
	if stage == domain.StageComplete {
		return 100, nil
	}
	cfg, ok := ConfigFor(stage)
	if !ok {
		return 0, ErrUnknownStage
	}

	completed, total := countForStage(stage, tasks)
	var stageProgress float64
	if total > 0 {
		ratio := float64(completed) / float64(total)
		stageProgress = ratio * float64(cfg.StageWeight)
	}

	return int(math.Round(math.Min(100, float64(cfg.BaseProgress)+stageProgress))), nil
}

// AllStageProgress returns one record per non-terminal stage in pipeline
// order. Stages before the current one (all of them once the project is
// complete) are completed at 100; the current stage shows the share of its
// mapped tasks that are completed, or 50 when it has none; later stages are 0.
// An unrecognized stage marks nothing completed or current.
func AllStageProgress(stage domain.PipelineStage, tasks []*domain.Task) []StageProgress {
	stages := domain.NonTerminalStages()
	currentIndex := stage.Index()
	isComplete := stage == domain.StageComplete

	out := make([]StageProgress, 0, len(stages))
	for i, s := range stages {
		completed, total := countForStage(s, tasks)
		sp := StageProgress{
			Stage:       s,
			DisplayName: StageDisplayName(s),
			TaskCount:   total,
		}
		switch {
		case isComplete || (currentIndex >= 0 && i < currentIndex):
			sp.IsCompleted = true
			sp.Progress = 100
		case i == currentIndex:
			sp.IsCurrent = true
			sp.Progress = currentStageDefaultPct
			if total > 0 {
				sp.Progress = int(math.Round(float64(completed) / float64(total) * 100))
			}
		}
		out = append(out, sp)
	}
	return out
}

func countForStage(stage domain.PipelineStage, tasks []*domain.Task) (completed, total int) {
	for _, t := range tasks {
		if t == nil || StageForCategory(t.Category) != stage {
			continue
		}
		total++
		if t.Status == domain.TaskCompleted {
			completed++
		}
	}
	return completed, total
}
