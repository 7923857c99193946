package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pvcodes/tuf-judge-cli/api"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

// ListAll fetches every historical submission, most recent first. An empty
// backend yields an empty slice, not an error. Failures come back as
// *FetchError; the client never retries on its own.
func (c *Client) ListAll(ctx context.Context) ([]subm.Submission, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/all", nil)
	if err != nil {
		return nil, &FetchError{Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &FetchError{Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Cause: fmt.Errorf("unexpected http status %d", resp.StatusCode)}
	}

	var lr api.ListResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return nil, &FetchError{Cause: fmt.Errorf("malformed listing response: %w", err)}
	}

	subs := make([]subm.Submission, 0, len(lr.Data.Response))
	for _, row := range lr.Data.Response {
		subs = append(subs, subm.Submission{
			ID:         row.ID,
			Username:   row.Username,
			Language:   row.Language,
			Timestamp:  parseTimestamp(row.Timestamp),
			SourceCode: row.SourceCode,
		})
	}
	subm.SortByNewest(subs)

	c.log.Debug("fetched submissions", "count", len(subs))
	return subs, nil
}

// parseTimestamp parses the backend's ISO-8601 timestamps. Rows with an
// unparseable timestamp get the zero time and therefore sort last.
func parseTimestamp(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
