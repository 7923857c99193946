package judge

import (
	"strings"

	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

// Verdict is the coarse classification of a status snapshot. The judge's
// own taxonomy is much finer (accepted, wrong answer, compile error, ...);
// for lifecycle purposes only these three buckets matter.
type Verdict int

const (
	// VerdictNotYetQueued: the judge has ingested the submission but has
	// not queued it for execution. Ingest and execution are decoupled on
	// the backend, so this is a first-class outcome, not a failure.
	VerdictNotYetQueued Verdict = iota
	VerdictProcessing
	VerdictJudged
)

func (v Verdict) String() string {
	switch v {
	case VerdictNotYetQueued:
		return "not yet queued"
	case VerdictProcessing:
		return "processing"
	case VerdictJudged:
		return "judged"
	}
	return "unknown"
}

// Judge0-style status ids: 1 is "In Queue", 2 is "Processing", and every
// id from 3 up is a finished verdict. Id 0 never comes from the judge
// itself; the backend uses it for submissions it has not handed over yet.
const (
	statusNotProcessed = 0
	statusInQueue      = 1
	statusProcessing   = 2
)

// Classify maps a status snapshot onto a verdict. The not-yet-queued case
// is matched on the description as well because the backend spells it out
// ("Not processed yet") rather than relying on the id alone.
func Classify(st subm.ExecutionStatus) Verdict {
	if st.StatusID == statusNotProcessed ||
		strings.Contains(strings.ToLower(st.StatusDesc), "not processed") {
		return VerdictNotYetQueued
	}
	if st.StatusID == statusInQueue || st.StatusID == statusProcessing {
		return VerdictProcessing
	}
	return VerdictJudged
}
