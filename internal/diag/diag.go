// Package diag accumulates the non-fatal diagnostics of one build run.
package diag

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Omission records one construct that was dropped from the model.
type Omission struct {
	FullName string // qualified name of the offending declaration
	Reason   string
}

// Report collects the recoverable diagnostics of a single build pass. A run
// id ties log lines and generated artifacts back to the build that produced
// them.
type Report struct {
	RunID     uuid.UUID
	Omissions []Omission
}

// NewReport creates an empty report with a fresh run id.
func NewReport() *Report {
	return &Report{RunID: uuid.New()}
}

// Omit records a dropped construct.
func (r *Report) Omit(fullName, reason string) {
	r.Omissions = append(r.Omissions, Omission{FullName: fullName, Reason: reason})
}

// Summary returns a human-readable account of everything that was omitted.
func (r *Report) Summary() string {
	if len(r.Omissions) == 0 {
		return fmt.Sprintf("run %s: no constructs omitted", r.RunID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "run %s: %d construct(s) omitted:\n", r.RunID, len(r.Omissions))
	for _, o := range r.Omissions {
		fmt.Fprintf(&b, "  - %s: %s\n", o.FullName, o.Reason)
	}
	return strings.TrimRight(b.String(), "\n")
}
