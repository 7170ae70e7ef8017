package pipeline

import "time"

// Result is the single build-result flag of one pipeline run.
type Result int

const (
	ResultUnset Result = iota
	ResultSuccess
	ResultFailure
)

func (r Result) String() string {
	switch r {
	case ResultSuccess:
		return "SUCCESS"
	case ResultFailure:
		return "FAILURE"
	default:
		return "UNSET"
	}
}

// StageStatus is the per-stage outcome tag.
type StageStatus string

const (
	StatusSuccess StageStatus = "success"
	StatusFailed  StageStatus = "failed"
	StatusSkipped StageStatus = "skipped"
)

// StageResult captures the outcome of a single stage.
type StageResult struct {
	Name     string
	Status   StageStatus
	Detail   string
	Duration time.Duration
	Err      error
}
