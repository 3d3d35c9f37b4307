// Package audit collects non-fatal issues encountered during a build pass
// and persists per-run summaries.
package audit

import (
	"fmt"
	"strings"
)

// Kind classifies a warning.
type Kind string

const (
	// MalformedGeometry marks a feature whose coordinate data could not be
	// parsed. The feature's geometry is dropped; the run continues.
	MalformedGeometry Kind = "malformed_geometry"
	// UnresolvedStyle marks a style or style-map reference that could not be
	// resolved. The default style is substituted.
	UnresolvedStyle Kind = "unresolved_style"
	// StructuralCycle marks a folder that references an ancestor. Descent
	// into that branch is halted.
	StructuralCycle Kind = "structural_cycle"
	// PrunedFolder marks an archival folder skipped before classification.
	// Recorded once per pruned subtree, with the number of placemarks skipped.
	PrunedFolder Kind = "pruned_folder"
	// MissingDataset marks a supplementary dataset (events, stats, borders)
	// that could not be loaded. The artifact is still produced.
	MissingDataset Kind = "missing_dataset"
)

// Warning is a single non-fatal issue.
type Warning struct {
	Kind    Kind
	Subject string // feature or folder name, style id, dataset path
	Detail  string
	Count   int // affected items (pruned placemarks); 0 when not applicable
}

func (w Warning) String() string {
	s := fmt.Sprintf("%s: %s", w.Kind, w.Subject)
	if w.Detail != "" {
		s += " (" + w.Detail + ")"
	}
	if w.Count > 0 {
		s += fmt.Sprintf(" [%d]", w.Count)
	}
	return s
}

// Log accumulates warnings for one build pass. Not safe for concurrent use;
// the core pipeline is single-threaded by design.
type Log struct {
	warnings []Warning
}

// NewLog creates an empty warning log.
func NewLog() *Log {
	return &Log{}
}

// Add records a warning.
func (l *Log) Add(kind Kind, subject, detail string) {
	l.warnings = append(l.warnings, Warning{Kind: kind, Subject: subject, Detail: detail})
}

// AddCount records a warning covering multiple items.
func (l *Log) AddCount(kind Kind, subject, detail string, count int) {
	l.warnings = append(l.warnings, Warning{Kind: kind, Subject: subject, Detail: detail, Count: count})
}

// Warnings returns the recorded warnings in insertion order.
func (l *Log) Warnings() []Warning {
	return l.warnings
}

// CountKind returns the number of warnings of the given kind.
func (l *Log) CountKind(kind Kind) int {
	n := 0
	for _, w := range l.warnings {
		if w.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of warnings.
func (l *Log) Len() int {
	return len(l.warnings)
}

// Summary returns a one-line per-kind summary for log output.
func (l *Log) Summary() string {
	if len(l.warnings) == 0 {
		return "no warnings"
	}
	counts := make(map[Kind]int)
	order := []Kind{}
	for _, w := range l.warnings {
		if counts[w.Kind] == 0 {
			order = append(order, w.Kind)
		}
		counts[w.Kind]++
	}
	parts := make([]string, 0, len(order))
	for _, k := range order {
		parts = append(parts, fmt.Sprintf("%s: %d", k, counts[k]))
	}
	return strings.Join(parts, ", ")
}
