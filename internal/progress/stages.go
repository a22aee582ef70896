package progress

import "github.com/alexanderramin/atelier/internal/domain"

// StageConfig is a stage's band on the 0-100 scale. Bands are contiguous:
// each non-terminal stage starts where the previous one ends and the five
// weights sum to 100.
type StageConfig struct {
	BaseProgress int
	StageWeight  int
}

// ConfigFor returns the progress band for stage.
func ConfigFor(stage domain.PipelineStage) (StageConfig, bool) {
	switch stage {
	case domain.StageConsultation:
		return StageConfig{BaseProgress: 0, StageWeight: 20}, true
	case domain.StageVisionBoard:
		return StageConfig{BaseProgress: 20, StageWeight: 20}, true
	case domain.StageOrdering:
		return StageConfig{BaseProgress: 40, StageWeight: 20}, true
	case domain.StageInstallation:
		return StageConfig{BaseProgress: 60, StageWeight: 20}, true
	case domain.StageStyling:
		return StageConfig{BaseProgress: 80, StageWeight: 20}, true
	case domain.StageComplete:
		return StageConfig{BaseProgress: 100, StageWeight: 0}, true
	default:
		return StageConfig{}, false
	}
}

// StageForCategory returns the pipeline stage a task of the given category
// contributes to. This is independent of the stage the project is in.
// Unknown categories are attributed to consultation.
func StageForCategory(category domain.TaskCategory) domain.PipelineStage {
	switch category {
	case domain.CategoryDesign:
		return domain.StageVisionBoard
	case domain.CategoryOrdering:
		return domain.StageOrdering
	case domain.CategoryInstallation:
		return domain.StageInstallation
	case domain.CategoryCommunication:
		return domain.StageStyling
	case domain.CategoryConsultation, domain.CategoryAdministrative:
		return domain.StageConsultation
	default:
		return domain.StageConsultation
	}
}

// StageDisplayName returns the human-readable label for stage.
func StageDisplayName(stage domain.PipelineStage) string {
	switch stage {
	case domain.StageConsultation:
		return "Initial Consultation"
	case domain.StageVisionBoard:
		return "Vision Board Creation"
	case domain.StageOrdering:
		return "Ordering & Procurement"
	case domain.StageInstallation:
		return "Installation"
	case domain.StageStyling:
		return "Final Styling"
	case domain.StageComplete:
		return "Project Complete"
	default:
		return UnknownStageName
	}
}

// UnknownStageName is the label for stage values outside the pipeline.
const UnknownStageName = "Unknown Stage"
