package resolution

import (
	"fmt"
	"strings"
)

// ConflictError blocks a single queue item whose remediation target has
// diverged since the report was generated, e.g. the destination layer
// already declares a same-named type. The session continues with the next
// item; resolving the conflict needs a merge, rename, or abort decision from
// the reviewer.
type ConflictError struct {
	Target string
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("action conflict on %s: %s", e.Target, e.Reason)
}

// WriteFailure reports an I/O failure inside a planned transaction with the
// exact per-file outcome: which files were written before the failure, which
// file failed, and which were never attempted. Nothing about the failure is
// silent or undetectable.
type WriteFailure struct {
	Failed       string
	Err          error
	Succeeded    []string
	NotAttempted []string
}

func (e *WriteFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "write failed on %s: %v", e.Failed, e.Err)
	if len(e.Succeeded) > 0 {
		fmt.Fprintf(&b, " (written: %s)", strings.Join(e.Succeeded, ", "))
	}
	if len(e.NotAttempted) > 0 {
		fmt.Fprintf(&b, " (not attempted: %s)", strings.Join(e.NotAttempted, ", "))
	}
	return b.String()
}

func (e *WriteFailure) Unwrap() error { return e.Err }
