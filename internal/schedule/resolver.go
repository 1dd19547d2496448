// Package schedule turns sparse lists of dated breakpoints into dense
// per-age lookups, reporting degenerate, overlapping, and gapped intervals.
package schedule

import (
	"fmt"
	"sort"
	"strings"
)

// Row is any breakpoint shape carrying a start age and an optional explicit
// duration in years. Window returns (fromAge, years, ok) where ok reports
// whether the duration was set.
type Row interface {
	Window() (int, int, bool)
}

// Severity classifies a resolution issue.
type Severity int

const (
	// Warning means the schedule is usable but may surprise the user.
	Warning Severity = iota
	// Error means the schedule cannot be projected faithfully.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Issue describes one problem found while resolving a breakpoint list.
// Index is the breakpoint's position in the caller's original list.
type Issue struct {
	Severity Severity
	Index    int
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: breakpoint %d: %s", i.Severity, i.Index, i.Message)
}

// ResolveError aggregates the error-severity issues of one schedule.
type ResolveError struct {
	Label  string
	Issues []Issue
}

func (e *ResolveError) Error() string {
	msgs := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		msgs[i] = issue.String()
	}
	return fmt.Sprintf("%s schedule: %s", e.Label, strings.Join(msgs, "; "))
}

type interval[T Row] struct {
	start int // inclusive
	end   int // exclusive
	index int // position in the caller's original list
	row   T
}

// Schedule is the dense resolution of one breakpoint list. ActiveAt is a
// pure lookup; the schedule is never mutated after Resolve returns it.
type Schedule[T Row] struct {
	intervals []interval[T]
}

// ActiveAt returns the row covering age, along with the number of whole
// years since that row began. The second value is meaningful for
// contribution stepping: base * (1+growth)^k with k = age - fromAge.
func (s Schedule[T]) ActiveAt(age int) (T, int, bool) {
	for _, iv := range s.intervals {
		if iv.start <= age && age < iv.end {
			return iv.row, age - iv.start, true
		}
	}
	var zero T
	return zero, 0, false
}

// Empty reports whether the schedule has no intervals.
func (s Schedule[T]) Empty() bool { return len(s.intervals) == 0 }

// Resolve sorts rows by start age (stable, so ties keep input order) and
// assigns each an end age: fromAge+years when an explicit positive duration
// is present, else the next row's start, else fallbackEnd. It reports a
// degenerate interval (end <= start) or an overlap as an error and a gap
// between consecutive intervals as a warning. Issues reference rows by
// their position in the caller's original list.
func Resolve[T Row](rows []T, fallbackEnd int, label string) (Schedule[T], []Issue) {
	type indexed struct {
		row   T
		index int
		start int
		years int
		ok    bool
	}
	sorted := make([]indexed, len(rows))
	for i, r := range rows {
		start, years, ok := r.Window()
		sorted[i] = indexed{row: r, index: i, start: start, years: years, ok: ok}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].start < sorted[j].start })

	var issues []Issue
	intervals := make([]interval[T], 0, len(sorted))
	prevEnd := -1

	for i, r := range sorted {
		end := fallbackEnd
		if i+1 < len(sorted) {
			end = sorted[i+1].start
		}
		if r.ok && r.years > 0 {
			end = r.start + r.years
		}
		if end > fallbackEnd {
			end = fallbackEnd
		}

		if end <= r.start {
			issues = append(issues, Issue{
				Severity: Error,
				Index:    r.index,
				Message:  fmt.Sprintf("%s interval at age %d is degenerate or fully overlapped", label, r.start),
			})
		}
		if prevEnd >= 0 {
			if r.start < prevEnd {
				issues = append(issues, Issue{
					Severity: Error,
					Index:    r.index,
					Message:  fmt.Sprintf("%s interval starting at age %d overlaps the previous interval ending at %d", label, r.start, prevEnd),
				})
			} else if r.start > prevEnd {
				issues = append(issues, Issue{
					Severity: Warning,
					Index:    r.index,
					Message:  fmt.Sprintf("%s gap between ages %d and %d", label, prevEnd, r.start),
				})
			}
		}

		intervals = append(intervals, interval[T]{start: r.start, end: end, index: r.index, row: r.row})
		prevEnd = end
	}

	return Schedule[T]{intervals: intervals}, issues
}

// Errs filters issues down to the error severity.
func Errs(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == Error {
			out = append(out, i)
		}
	}
	return out
}

// Warnings filters issues down to the warning severity.
func Warnings(issues []Issue) []Issue {
	var out []Issue
	for _, i := range issues {
		if i.Severity == Warning {
			out = append(out, i)
		}
	}
	return out
}
