// Package lifecycle owns the state of submissions under inspection: how a
// single status check moves a submission from idle through checking into
// one of the resolved states, and when a run trigger is allowed.
//
// There is no polling loop and no automatic retry anywhere in here. Every
// remote operation is one attempt tied to one explicit user action.
package lifecycle

import (
	"context"
	"errors"
	"sync"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/pvcodes/tuf-judge-cli/internal/judge"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

// ErrNotTriggerable is returned when a run trigger is requested for a
// submission whose last observed state is not "not yet queued". Triggers
// are not idempotent on the judge side, so the tracker refuses anything
// that could queue a duplicate execution.
var ErrNotTriggerable = errors.New("submission is not awaiting a run trigger")

// Poller is the tracker's view of the judge client.
type Poller interface {
	CheckStatus(ctx context.Context, submissionID string) (subm.ExecutionStatus, error)
	TriggerRun(ctx context.Context, submissionID string) error
}

// Snapshot is the observable state of one submission at one instant.
type Snapshot struct {
	State State
	// Status is the last successfully fetched execution status, nil
	// before the first resolved check.
	Status *subm.ExecutionStatus
	// Err is set while State is StateJudgeUnavailable and carries the
	// user-facing reason.
	Err error
}

type entry struct {
	mu       sync.Mutex
	state    State
	status   *subm.ExecutionStatus
	lastErr  error
	inFlight bool
}

func (e *entry) snapshotLocked() Snapshot {
	return Snapshot{State: e.state, Status: e.status, Err: e.lastErr}
}

// Tracker keeps one lifecycle entry per inspected submission id. Entries
// are created lazily in the idle state the first time an id is looked at.
// Operations on different ids are independent; operations on the same id
// are de-duplicated while a request is in flight.
type Tracker struct {
	poller  Poller
	entries *xsync.MapOf[string, *entry]
}

func NewTracker(p Poller) *Tracker {
	return &Tracker{
		poller:  p,
		entries: xsync.NewMapOf[string, *entry](),
	}
}

func (t *Tracker) entry(id string) *entry {
	e, _ := t.entries.LoadOrStore(id, &entry{state: StateIdle})
	return e
}

// Snapshot returns the current state of a submission without touching the
// judge.
func (t *Tracker) Snapshot(id string) Snapshot {
	e := t.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Check performs one status check for a submission and resolves its state
// to not-yet-queued, processing, judged or judge-unavailable.
//
// A second Check for the same id while one is in flight is ignored and
// returns the in-flight snapshot; checks for other ids run concurrently.
// If ctx is canceled before the response arrives the response is discarded
// and the entry keeps the state it had before the check.
func (t *Tracker) Check(ctx context.Context, id string) Snapshot {
	e := t.entry(id)

	e.mu.Lock()
	if e.inFlight {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap
	}
	prev := e.state
	e.state = StateChecking
	e.inFlight = true
	e.mu.Unlock()

	status, err := t.poller.CheckStatus(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false

	if ctx.Err() != nil {
		// The inspection was torn down; the response is stale.
		e.state = prev
		return e.snapshotLocked()
	}

	if err != nil {
		e.state = StateJudgeUnavailable
		e.lastErr = err
		return e.snapshotLocked()
	}

	e.status = &status
	e.lastErr = nil
	switch judge.Classify(status) {
	case judge.VerdictNotYetQueued:
		e.state = StateNotYetQueued
	case judge.VerdictProcessing:
		e.state = StateProcessing
	case judge.VerdictJudged:
		e.state = StateJudged
	}
	return e.snapshotLocked()
}

// TriggerRun asks the judge to queue a submission for execution. It is
// allowed only when the last observed state is StateNotYetQueued; anything
// else, including an id with a request already in flight, returns
// ErrNotTriggerable so the refusal is observable to the caller. On success
// the state returns to not-yet-queued and the user re-checks manually.
func (t *Tracker) TriggerRun(ctx context.Context, id string) (Snapshot, error) {
	e := t.entry(id)

	e.mu.Lock()
	if e.inFlight || e.state != StateNotYetQueued {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap, ErrNotTriggerable
	}
	e.state = StateEnqueuing
	e.inFlight = true
	e.mu.Unlock()

	err := t.poller.TriggerRun(ctx, id)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.inFlight = false

	if ctx.Err() != nil {
		e.state = StateNotYetQueued
		return e.snapshotLocked(), nil
	}

	if err != nil {
		e.state = StateJudgeUnavailable
		e.lastErr = err
		return e.snapshotLocked(), nil
	}

	e.state = StateNotYetQueued
	e.lastErr = nil
	return e.snapshotLocked(), nil
}
