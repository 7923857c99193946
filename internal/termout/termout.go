// Package termout renders submissions and status snapshots for the
// terminal. It is purely presentational: it receives data and prints it,
// nothing in here talks to the judge.
package termout

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	pretty_table "github.com/jedib0t/go-pretty/v6/table"

	"github.com/pvcodes/tuf-judge-cli/internal/langs"
	"github.com/pvcodes/tuf-judge-cli/internal/lifecycle"
	"github.com/pvcodes/tuf-judge-cli/internal/subm"
)

// SubmissionTable prints submissions in listing order. When statuses is
// non-nil a STATUS column is added, filled from the map by submission id.
func SubmissionTable(w io.Writer, subs []subm.Submission, statuses map[string]string) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)

	header := pretty_table.Row{"ID", "USERNAME", "LANGUAGE", "SUBMITTED"}
	if statuses != nil {
		header = append(header, "STATUS")
	}
	t.AppendHeader(header)

	for _, s := range subs {
		row := pretty_table.Row{s.ID, s.Username, s.Language, formatTimestamp(s.Timestamp)}
		if statuses != nil {
			row = append(row, statuses[s.ID])
		}
		t.AppendRow(row)
	}
	t.Render()
}

// LanguageTable prints the language catalog.
func LanguageTable(w io.Writer, catalog []langs.Language) {
	t := pretty_table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(pretty_table.Row{"NAME", "LABEL", "JUDGE ID"})
	for _, l := range catalog {
		t.AppendRow(pretty_table.Row{l.Name, l.Label, l.ID})
	}
	t.Render()
}

// PrintSubmission renders one submission's metadata followed by its stored
// source code, as plain text.
func PrintSubmission(w io.Writer, s subm.Submission) {
	fmt.Fprintf(w, "submission %s by %s (%s, %s)\n",
		s.ID, s.Username, s.Language, formatTimestamp(s.Timestamp))

	if s.SourceCode == "" {
		return
	}
	fmt.Fprint(w, s.SourceCode)
	if s.SourceCode[len(s.SourceCode)-1] != '\n' {
		fmt.Fprintln(w)
	}
}

func formatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return "-"
	}
	return ts.Local().Format("2006-01-02 15:04:05")
}

var (
	stateGood    = color.New(color.FgGreen)
	stateWorking = color.New(color.FgYellow)
	stateBad     = color.New(color.FgRed)
)

func stateColor(s lifecycle.State) *color.Color {
	switch s {
	case lifecycle.StateJudged:
		return stateGood
	case lifecycle.StateJudgeUnavailable:
		return stateBad
	default:
		return stateWorking
	}
}

// PrintStatus renders one lifecycle snapshot: the resolved state line
// followed by whatever output streams the judge has produced.
func PrintStatus(w io.Writer, submissionID string, snap lifecycle.Snapshot) {
	fmt.Fprintf(w, "submission %s: %s\n", submissionID, stateColor(snap.State).Sprint(snap.State))

	if snap.State == lifecycle.StateJudgeUnavailable && snap.Err != nil {
		fmt.Fprintf(w, "  %s\n", snap.Err)
		return
	}

	st := snap.Status
	if st == nil {
		return
	}

	fmt.Fprintf(w, "  verdict: %s\n", st.StatusDesc)
	if st.ExecutionTime != "" {
		fmt.Fprintf(w, "  time: %ss  memory: %dKiB\n", st.ExecutionTime, st.MemoryKiB)
	}
	printStream(w, "compile output", st.CompileOutput)
	printStream(w, "stdout", st.Stdout)
	printStream(w, "stderr", st.Stderr)
	printStream(w, "message", st.Message)

	if snap.State == lifecycle.StateNotYetQueued {
		fmt.Fprintf(w, "  the judge has not queued this submission yet; trigger a run to start it\n")
	}
}

func printStream(w io.Writer, name string, s *string) {
	if s == nil || *s == "" {
		return
	}
	fmt.Fprintf(w, "  %s:\n%s", name, *s)
	if (*s)[len(*s)-1] != '\n' {
		fmt.Fprintln(w)
	}
}
