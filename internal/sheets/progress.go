package sheets

import "github.com/unikonkon/ceasflow/internal/common"

// Stage names a step of an export or import.
type Stage string

// Export stages.
const (
	StagePreparing  Stage = "preparing"
	StageWriting    Stage = "writing"
	StageFinalizing Stage = "finalizing"
)

// Import stages.
const (
	StageReading   Stage = "reading"
	StageParsing   Stage = "parsing"
	StageImporting Stage = "importing"
)

// Terminal stages shared by both operations.
const (
	StageComplete Stage = "complete"
	StageError    Stage = "error"
)

// Progress is one status update. Percent never decreases within one run.
type Progress struct {
	Stage   Stage
	Message string
	Percent int
}

// ProgressFunc receives status updates. It may be nil.
type ProgressFunc func(Progress)

type reporter struct {
	fn   ProgressFunc
	last int
}

func newReporter(fn ProgressFunc) *reporter {
	return &reporter{fn: fn}
}

func (r *reporter) report(stage Stage, percent int, message string) {
	if percent < r.last {
		percent = r.last
	}
	if percent > 100 {
		percent = 100
	}
	r.last = percent
	if r.fn != nil {
		r.fn(Progress{Stage: stage, Percent: percent, Message: message})
	}
}

// fail reports err at the last reached percentage.
func (r *reporter) fail(err error) {
	r.report(StageError, r.last, common.UserMessage(err))
}
