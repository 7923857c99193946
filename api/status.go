package api

// StatusResponse is the envelope of POST /status/{submissionId}.
type StatusResponse struct {
	Data StatusData `json:"data"`
}

// StatusData is the judge's point-in-time view of one submission.
// Output fields are pointers because the judge reports null for streams it
// has not produced (e.g. stdout before execution, compile_output for
// interpreted languages).
type StatusData struct {
	Stdout        *string    `json:"stdout"`
	Stderr        *string    `json:"stderr"`
	Time          *string    `json:"time"`
	Memory        *int64     `json:"memory"`
	Token         string     `json:"token"`
	CompileOutput *string    `json:"compile_output"`
	Message       *string    `json:"message"`
	Status        StatusInfo `json:"status"`
}

// StatusInfo carries the judge-defined status code and its description.
type StatusInfo struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}
