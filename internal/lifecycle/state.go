package lifecycle

// State is the client-side view of one inspected submission. It is derived
// per inspection and never persisted.
type State int

const (
	// StateIdle: the submission has not been checked yet.
	StateIdle State = iota
	// StateChecking: a status request is in flight.
	StateChecking
	// StateNotYetQueued: the judge has the submission but has not queued
	// it for execution. The user may trigger a run from here.
	StateNotYetQueued
	// StateProcessing: the judge is executing the submission.
	StateProcessing
	// StateJudged: execution finished; the snapshot carries the outcome.
	StateJudged
	// StateEnqueuing: a run trigger is in flight.
	StateEnqueuing
	// StateJudgeUnavailable: the judge could not be asked. A fresh check
	// may always be issued by the user.
	StateJudgeUnavailable
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateChecking:
		return "checking"
	case StateNotYetQueued:
		return "not yet queued"
	case StateProcessing:
		return "processing"
	case StateJudged:
		return "judged"
	case StateEnqueuing:
		return "enqueuing"
	case StateJudgeUnavailable:
		return "judge unavailable"
	}
	return "unknown"
}
