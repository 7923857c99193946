package lifecycle_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pvcodes/tuf-judge-cli/internal/judge"
	"github.com/pvcodes/tuf-judge-cli/internal/lifecycle"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

type fakePoller struct {
	mu         sync.Mutex
	checks     int
	triggers   int
	statusFn   func(ctx context.Context, id string) (subm.ExecutionStatus, error)
	triggerFn  func(ctx context.Context, id string) error
	triggerErr error
}

func (f *fakePoller) CheckStatus(ctx context.Context, id string) (subm.ExecutionStatus, error) {
	f.mu.Lock()
	f.checks++
	fn := f.statusFn
	f.mu.Unlock()
	return fn(ctx, id)
}

func (f *fakePoller) TriggerRun(ctx context.Context, id string) error {
	f.mu.Lock()
	f.triggers++
	fn := f.triggerFn
	err := f.triggerErr
	f.mu.Unlock()
	if fn != nil {
		return fn(ctx, id)
	}
	return err
}

func (f *fakePoller) triggerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.triggers
}

func (f *fakePoller) checkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checks
}

func status(id int, desc string) subm.ExecutionStatus {
	return subm.ExecutionStatus{StatusID: id, StatusDesc: desc}
}

func fixedStatus(st subm.ExecutionStatus) func(context.Context, string) (subm.ExecutionStatus, error) {
	return func(context.Context, string) (subm.ExecutionStatus, error) { return st, nil }
}

func TestFirstCheckResolvesToExactlyOneState(t *testing.T) {
	cases := []struct {
		name  string
		fn    func(context.Context, string) (subm.ExecutionStatus, error)
		state lifecycle.State
	}{
		{"not yet queued", fixedStatus(status(0, "Not processed yet")), lifecycle.StateNotYetQueued},
		{"processing", fixedStatus(status(2, "Processing")), lifecycle.StateProcessing},
		{"judged", fixedStatus(status(3, "Accepted")), lifecycle.StateJudged},
		{
			"judge unavailable",
			func(context.Context, string) (subm.ExecutionStatus, error) {
				return subm.ExecutionStatus{}, &judge.UnavailableError{Op: "check status", Cause: errors.New("boom")}
			},
			lifecycle.StateJudgeUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tracker := lifecycle.NewTracker(&fakePoller{statusFn: tc.fn})
			require.Equal(t, lifecycle.StateIdle, tracker.Snapshot("S1").State)

			snap := tracker.Check(context.Background(), "S1")
			require.Equal(t, tc.state, snap.State)
			require.NotEqual(t, lifecycle.StateChecking, snap.State)
			require.Equal(t, tc.state, tracker.Snapshot("S1").State)
		})
	}
}

func TestJudgeUnavailableCarriesUserMessage(t *testing.T) {
	poller := &fakePoller{statusFn: func(context.Context, string) (subm.ExecutionStatus, error) {
		return subm.ExecutionStatus{}, &judge.UnavailableError{Op: "check status", Cause: errors.New("429")}
	}}
	tracker := lifecycle.NewTracker(poller)

	snap := tracker.Check(context.Background(), "S1")
	require.Equal(t, lifecycle.StateJudgeUnavailable, snap.State)
	require.ErrorContains(t, snap.Err, "busy")
}

func TestSecondCheckWhileInFlightIsIgnored(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	poller := &fakePoller{statusFn: func(context.Context, string) (subm.ExecutionStatus, error) {
		close(entered)
		<-release
		return status(3, "Accepted"), nil
	}}
	tracker := lifecycle.NewTracker(poller)

	done := make(chan lifecycle.Snapshot)
	go func() { done <- tracker.Check(context.Background(), "S1") }()
	<-entered

	snap := tracker.Check(context.Background(), "S1")
	require.Equal(t, lifecycle.StateChecking, snap.State)
	require.Equal(t, 1, poller.checkCount(), "second check must not reach the judge")

	close(release)
	first := <-done
	require.Equal(t, lifecycle.StateJudged, first.State)
}

func TestChecksOnDistinctIdsRunConcurrently(t *testing.T) {
	var entered sync.WaitGroup
	entered.Add(2)
	release := make(chan struct{})
	poller := &fakePoller{statusFn: func(_ context.Context, id string) (subm.ExecutionStatus, error) {
		entered.Done()
		<-release
		return status(2, "Processing"), nil
	}}
	tracker := lifecycle.NewTracker(poller)

	var wg sync.WaitGroup
	for _, id := range []string{"A", "B"} {
		id := id
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Check(context.Background(), id)
		}()
	}

	// both requests must be in flight at the same time
	entered.Wait()
	close(release)
	wg.Wait()

	require.Equal(t, lifecycle.StateProcessing, tracker.Snapshot("A").State)
	require.Equal(t, lifecycle.StateProcessing, tracker.Snapshot("B").State)
}

func TestCancelledCheckDiscardsResponse(t *testing.T) {
	poller := &fakePoller{statusFn: func(ctx context.Context, _ string) (subm.ExecutionStatus, error) {
		<-ctx.Done()
		// the response "arrives" after the inspection is torn down
		return status(3, "Accepted"), nil
	}}
	tracker := lifecycle.NewTracker(poller)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	snap := tracker.Check(ctx, "S2")
	require.Equal(t, lifecycle.StateIdle, snap.State)
	require.Nil(t, snap.Status)

	after := tracker.Snapshot("S2")
	require.Equal(t, lifecycle.StateIdle, after.State)
	require.Nil(t, after.Status)
}

func TestTriggerRunRefusedOutsideNotYetQueued(t *testing.T) {
	poller := &fakePoller{statusFn: fixedStatus(status(3, "Accepted"))}
	tracker := lifecycle.NewTracker(poller)

	// never checked: nothing known about the submission
	_, err := tracker.TriggerRun(context.Background(), "S1")
	require.ErrorIs(t, err, lifecycle.ErrNotTriggerable)

	// judged: too late to trigger
	tracker.Check(context.Background(), "S1")
	_, err = tracker.TriggerRun(context.Background(), "S1")
	require.ErrorIs(t, err, lifecycle.ErrNotTriggerable)
	require.Equal(t, 0, poller.triggers)
}

func TestTriggerRunFromNotYetQueued(t *testing.T) {
	poller := &fakePoller{statusFn: fixedStatus(status(0, "Not processed yet"))}
	tracker := lifecycle.NewTracker(poller)

	tracker.Check(context.Background(), "S1")
	snap, err := tracker.TriggerRun(context.Background(), "S1")
	require.NoError(t, err)
	require.Equal(t, lifecycle.StateNotYetQueued, snap.State, "user must re-check manually after a trigger")
	require.Equal(t, 1, poller.triggers)
}

func TestTriggerRunWhileInFlightIsRefused(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	poller := &fakePoller{
		statusFn: fixedStatus(status(0, "Not processed yet")),
		triggerFn: func(context.Context, string) error {
			close(entered)
			<-release
			return nil
		},
	}
	tracker := lifecycle.NewTracker(poller)
	tracker.Check(context.Background(), "S1")

	done := make(chan struct{})
	go func() {
		tracker.TriggerRun(context.Background(), "S1")
		close(done)
	}()
	<-entered

	snap, err := tracker.TriggerRun(context.Background(), "S1")
	require.ErrorIs(t, err, lifecycle.ErrNotTriggerable)
	require.Equal(t, lifecycle.StateEnqueuing, snap.State)
	require.Equal(t, 1, poller.triggerCount(), "second trigger must not reach the judge")

	close(release)
	<-done
	require.Equal(t, lifecycle.StateNotYetQueued, tracker.Snapshot("S1").State)
}

func TestTriggerRunFailureBecomesJudgeUnavailable(t *testing.T) {
	poller := &fakePoller{
		statusFn:   fixedStatus(status(0, "Not processed yet")),
		triggerErr: &judge.UnavailableError{Op: "trigger run", Cause: errors.New("transport down")},
	}
	tracker := lifecycle.NewTracker(poller)

	tracker.Check(context.Background(), "S1")
	snap, err := tracker.TriggerRun(context.Background(), "S1")
	require.NoError(t, err)
	require.Equal(t, lifecycle.StateJudgeUnavailable, snap.State)
	require.ErrorContains(t, snap.Err, "busy")
}

func TestRecheckAllowedFromEveryResolvedState(t *testing.T) {
	failing := func(context.Context, string) (subm.ExecutionStatus, error) {
		return subm.ExecutionStatus{}, &judge.UnavailableError{Op: "check status", Cause: errors.New("down")}
	}
	poller := &fakePoller{statusFn: failing}
	tracker := lifecycle.NewTracker(poller)

	snap := tracker.Check(context.Background(), "S1")
	require.Equal(t, lifecycle.StateJudgeUnavailable, snap.State)

	poller.mu.Lock()
	poller.statusFn = fixedStatus(status(3, "Accepted"))
	poller.mu.Unlock()

	snap = tracker.Check(context.Background(), "S1")
	require.Equal(t, lifecycle.StateJudged, snap.State)
	require.Nil(t, snap.Err)
}

func TestHappyPathSubmitCheckTriggerJudged(t *testing.T) {
	stdout := "1\n"
	judged := subm.ExecutionStatus{Stdout: &stdout, StatusID: 3, StatusDesc: "Accepted"}

	poller := &fakePoller{}
	poller.statusFn = func(context.Context, string) (subm.ExecutionStatus, error) {
		poller.mu.Lock()
		triggered := poller.triggers > 0
		poller.mu.Unlock()
		if !triggered {
			return status(0, "Not processed yet"), nil
		}
		return judged, nil
	}
	tracker := lifecycle.NewTracker(poller)

	snap := tracker.Check(context.Background(), "S1")
	require.Equal(t, lifecycle.StateNotYetQueued, snap.State)

	snap, err := tracker.TriggerRun(context.Background(), "S1")
	require.NoError(t, err)
	require.Equal(t, lifecycle.StateNotYetQueued, snap.State)

	snap = tracker.Check(context.Background(), "S1")
	require.Equal(t, lifecycle.StateJudged, snap.State)
	require.NotNil(t, snap.Status)
	require.NotNil(t, snap.Status.Stdout)
	require.Equal(t, "1\n", *snap.Status.Stdout)
	require.Equal(t, 1, poller.triggers)
}
