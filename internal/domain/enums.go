package domain

import (
	"fmt"
	"strings"
)

// PipelineStage is a project's position in the studio pipeline. Declaration
// order is significant: it is both the order a project moves through and the
// order of the progress bands.
type PipelineStage string

const (
	StageConsultation PipelineStage = "consultation"
	StageVisionBoard  PipelineStage = "vision_board"
	StageOrdering     PipelineStage = "ordering"
	StageInstallation PipelineStage = "installation"
	StageStyling      PipelineStage = "styling"
	StageComplete     PipelineStage = "complete"
)

var pipeline = [...]PipelineStage{
	StageConsultation,
	StageVisionBoard,
	StageOrdering,
	StageInstallation,
	StageStyling,
	StageComplete,
}

// AllStages returns every pipeline stage in order, including complete.
func AllStages() []PipelineStage {
	out := make([]PipelineStage, len(pipeline))
	copy(out, pipeline[:])
	return out
}

// NonTerminalStages returns the five stages that carry task-driven progress.
func NonTerminalStages() []PipelineStage {
	out := make([]PipelineStage, len(pipeline)-1)
	copy(out, pipeline[:len(pipeline)-1])
	return out
}

// Index returns the stage's position in the pipeline, or -1 if unknown.
func (s PipelineStage) Index() int {
	for i, st := range pipeline {
		if st == s {
			return i
		}
	}
	return -1
}

func (s PipelineStage) Valid() bool { return s.Index() >= 0 }

func (s PipelineStage) IsTerminal() bool { return s == StageComplete }

// Next returns the following stage. Complete and unknown stages have no successor.
func (s PipelineStage) Next() (PipelineStage, error) {
	idx := s.Index()
	switch {
	case idx < 0:
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	case s.IsTerminal():
		return "", ErrStageTerminal
	}
	return pipeline[idx+1], nil
}

// ParsePipelineStage accepts the canonical identifier, case-insensitively,
// with either underscores or hyphens ("vision-board").
func ParsePipelineStage(s string) (PipelineStage, error) {
	norm := PipelineStage(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	if !norm.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStage, s)
	}
	return norm, nil
}

// TaskCategory classifies a task. The type is open: values outside the known
// set can arrive from imported data and are attributed to consultation.
type TaskCategory string

const (
	CategoryConsultation   TaskCategory = "consultation"
	CategoryDesign         TaskCategory = "design"
	CategoryOrdering       TaskCategory = "ordering"
	CategoryInstallation   TaskCategory = "installation"
	CategoryCommunication  TaskCategory = "communication"
	CategoryAdministrative TaskCategory = "administrative"
)

// AllTaskCategories returns the accepted categories in pipeline order.
func AllTaskCategories() []TaskCategory {
	return []TaskCategory{
		CategoryConsultation,
		CategoryDesign,
		CategoryOrdering,
		CategoryInstallation,
		CategoryCommunication,
		CategoryAdministrative,
	}
}

func (c TaskCategory) Valid() bool {
	switch c {
	case CategoryConsultation, CategoryDesign, CategoryOrdering,
		CategoryInstallation, CategoryCommunication, CategoryAdministrative:
		return true
	}
	return false
}

func ParseTaskCategory(s string) (TaskCategory, error) {
	c := TaskCategory(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	st := TaskStatus(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch st {
	case TaskPending, TaskInProgress, TaskCompleted:
		return st, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTaskStatus, s)
}

type TaskPriority string

const (
	PriorityNone   TaskPriority = ""
	PriorityLow    TaskPriority = "low"
	PriorityMedium TaskPriority = "medium"
	PriorityHigh   TaskPriority = "high"
	PriorityUrgent TaskPriority = "urgent"
)

// Rank orders priorities for sorting; higher is more pressing.
func (p TaskPriority) Rank() int {
	switch p {
	case PriorityLow:
		return 1
	case PriorityMedium:
		return 2
	case PriorityHigh:
		return 3
	case PriorityUrgent:
		return 4
	default:
		return 0
	}
}

func ParseTaskPriority(s string) (TaskPriority, error) {
	p := TaskPriority(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PriorityNone, PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return p, nil
	}
	return "", fmt.Errorf("invalid task priority %q", s)
}

type ReturnStatus string

const (
	ReturnOpen      ReturnStatus = "open"
	ReturnShipped   ReturnStatus = "shipped"
	ReturnRefunded  ReturnStatus = "refunded"
	ReturnCancelled ReturnStatus = "cancelled"
)

func ParseReturnStatus(s string) (ReturnStatus, error) {
	st := ReturnStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case ReturnOpen, ReturnShipped, ReturnRefunded, ReturnCancelled:
		return st, nil
	}
	return "", fmt.Errorf("invalid return status %q", s)
}
