package runner

import "bytes"

// Outcome classifies a finished fd or rg run.
type Outcome int

const (
	// OutcomeOK is a zero exit.
	OutcomeOK Outcome = iota
	// OutcomeNoMatches is a non-zero exit with nothing on either stream;
	// both tools exit 1 for an empty result set.
	OutcomeNoMatches
	// OutcomePartial is a non-zero exit that still produced records, e.g. rg
	// exiting 2 after skipping an unreadable file.
	OutcomePartial
	// OutcomeFailed is a non-zero exit with diagnostics and no records.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNoMatches:
		return "no_matches"
	case OutcomePartial:
		return "partial"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Classify decides what a search tool's exit status means.
func Classify(res *Result) Outcome {
	if res.ExitCode == 0 {
		return OutcomeOK
	}
	hasOut := len(bytes.TrimSpace(res.Stdout)) > 0
	hasErr := len(bytes.TrimSpace(res.Stderr)) > 0
	switch {
	case hasOut:
		return OutcomePartial
	case hasErr:
		return OutcomeFailed
	default:
		return OutcomeNoMatches
	}
}
