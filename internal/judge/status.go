package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pvcodes/tuf-judge-cli/api"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

// CheckStatus queries the judge's current view of one submission. It is an
// idempotent read and safe to repeat. "Not queued yet", "still processing"
// and "finished" are all ordinary outcomes, told apart via Classify; only a
// judge that cannot be asked at all is an error (*UnavailableError).
func (c *Client) CheckStatus(ctx context.Context, submissionID string) (subm.ExecutionStatus, error) {
	var zero subm.ExecutionStatus

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/status/"+submissionID, nil)
	if err != nil {
		return zero, &UnavailableError{Op: "check status", Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, &UnavailableError{Op: "check status", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return zero, &UnavailableError{Op: "check status", Cause: fmt.Errorf("unexpected http status %d", resp.StatusCode)}
	}

	var sr api.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return zero, &UnavailableError{Op: "check status", Cause: fmt.Errorf("malformed status response: %w", err)}
	}

	d := sr.Data
	status := subm.ExecutionStatus{
		Stdout:        d.Stdout,
		Stderr:        d.Stderr,
		CompileOutput: d.CompileOutput,
		Message:       d.Message,
		StatusID:      d.Status.ID,
		StatusDesc:    d.Status.Description,
	}
	if d.Time != nil {
		status.ExecutionTime = *d.Time
	}
	if d.Memory != nil {
		status.MemoryKiB = *d.Memory
	}

	c.log.Debug("checked status",
		"submission_id", submissionID,
		"status_id", status.StatusID,
		"status", status.StatusDesc)
	return status, nil
}

// TriggerRun asks the judge to begin executing a submission it has ingested
// but not queued yet. The judge does not de-duplicate triggers, so this is
// only ever called on an explicit user action, never from a timer.
func (c *Client) TriggerRun(ctx context.Context, submissionID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/run/"+submissionID, nil)
	if err != nil {
		return &UnavailableError{Op: "trigger run", Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &UnavailableError{Op: "trigger run", Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &UnavailableError{Op: "trigger run", Cause: fmt.Errorf("unexpected http status %d", resp.StatusCode)}
	}

	c.log.Info("triggered run", "submission_id", submissionID)
	return nil
}
