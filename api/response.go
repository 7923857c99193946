package api

// SubmitResponse is the envelope of POST /submit.
type SubmitResponse struct {
	Success bool        `json:"success"`
	Data    *SubmitData `json:"data"`
	Error   *string     `json:"error"`
}

type SubmitData struct {
	SubmissionID string `json:"submissionId"`
}

// Submission is one historical submission row returned by GET /all.
// Timestamp is an ISO-8601 string; parsing is up to the caller.
type Submission struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Language   string `json:"language"`
	Timestamp  string `json:"timestamp"`
	SourceCode string `json:"sourceCode"`
}

// ListResponse is the envelope of GET /all.
type ListResponse struct {
	Data ListData `json:"data"`
}

type ListData struct {
	Response []Submission `json:"response"`
}
