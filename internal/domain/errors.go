package domain

import "errors"

var (
	ErrInvalidStage      = errors.New("invalid pipeline stage")
	ErrStageTerminal     = errors.New("project is already complete")
	ErrInvalidCategory   = errors.New("invalid task category")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidTransition = errors.New("invalid status transition")
)
