package api

// SubmitRequest is the body of POST /submit.
//
// StdInput is a pointer so that an empty standard input is omitted from the
// body entirely; the backend treats a missing field and an empty string the
// same way, and we never send the empty-string form.
type SubmitRequest struct {
	Username   string  `json:"username"`
	Language   string  `json:"language"`
	LanguageID int     `json:"languageId"`
	SourceCode string  `json:"sourceCode"`
	StdInput   *string `json:"stdInput,omitempty"`
}
