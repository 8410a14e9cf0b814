package models

// PipelineState is a state of the analysis pipeline.
type PipelineState string

const (
	StateIdle                PipelineState = "idle"
	StateFetchingContent     PipelineState = "fetching_content"
	StateAnalyzingDimensions PipelineState = "analyzing_dimensions"
	StateGeneratingOutputs   PipelineState = "generating_outputs"
	StateAssembled           PipelineState = "assembled"
	StateFailed              PipelineState = "failed"
)

// Terminal reports whether no transition leaves the state.
func (s PipelineState) Terminal() bool {
	return s == StateAssembled || s == StateFailed
}

type ProgressEvent struct {
	Type    PipelineState
	Message string
	Data    map[string]interface{}
}
