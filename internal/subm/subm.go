package subm

import (
	"sort"
	"time"
)

// Draft is a user-authored submission that has not been sent yet.
type Draft struct {
	Username   string
	Language   string
	LanguageID int
	SourceCode string
	StdInput   string
}

// StdInputOrNil returns the draft's standard input, or nil when it is empty.
// An empty standard input must never travel as an empty-string field.
func (d Draft) StdInputOrNil() *string {
	if d.StdInput == "" {
		return nil
	}
	s := d.StdInput
	return &s
}

// Submission is an immutable record of a transmitted draft plus the
// metadata the judge assigned to it. Execution status is fetched
// separately and never merged into this record.
type Submission struct {
	ID         string
	Username   string
	Language   string
	Timestamp  time.Time
	SourceCode string
}

// ExecutionStatus is a point-in-time snapshot of the judge's evaluation of
// one submission. It is superseded by the next fetch for the same id.
type ExecutionStatus struct {
	Stdout        *string
	Stderr        *string
	CompileOutput *string
	Message       *string
	ExecutionTime string
	MemoryKiB     int64
	StatusID      int
	StatusDesc    string
}

// SortByNewest orders submissions most recent first. The sort is stable so
// that equal timestamps keep their original response order.
func SortByNewest(subs []Submission) {
	sort.SliceStable(subs, func(i, j int) bool {
		return subs[i].Timestamp.After(subs[j].Timestamp)
	})
}
