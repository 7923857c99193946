package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/pvcodes/tuf-judge-cli/api"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

const genericRejection = "something went wrong"

// Submit sends one validated draft to the backend and returns the id the
// judge assigned to it. Exactly one request is made per call; on any
// failure path zero submissions exist on the backend.
//
// Backend-reported rejections (success=false) come back as *SubmitRejected.
// Anything transport-shaped wraps ErrUnreachable.
func (c *Client) Submit(ctx context.Context, d subm.Draft) (string, error) {
	reqID := uuid.NewString()
	body := api.SubmitRequest{
		Username:   d.Username,
		Language:   d.Language,
		LanguageID: d.LanguageID,
		SourceCode: d.SourceCode,
		StdInput:   d.StdInputOrNil(),
	}
	b, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submit request: %w", err)
	}

	c.log.Debug("submitting draft",
		"req_id", reqID, "username", d.Username, "language", d.Language)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/submit", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected http status %d", ErrUnreachable, resp.StatusCode)
	}

	var sr api.SubmitResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return "", fmt.Errorf("%w: malformed submit response: %v", ErrUnreachable, err)
	}

	if !sr.Success {
		reason := genericRejection
		if sr.Error != nil && *sr.Error != "" {
			reason = *sr.Error
		}
		return "", &SubmitRejected{Reason: reason}
	}
	if sr.Data == nil || sr.Data.SubmissionID == "" {
		return "", fmt.Errorf("%w: submit response is missing a submission id", ErrUnreachable)
	}

	c.log.Info("draft submitted", "req_id", reqID, "submission_id", sr.Data.SubmissionID)
	return sr.Data.SubmissionID, nil
}
