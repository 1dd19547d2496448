package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// span is a minimal Row for exercising the resolver without dragging in
// the domain types.
type span struct {
	from  int
	years *int
	tag   string
}

func (s span) Window() (int, int, bool) {
	if s.years != nil {
		return s.from, *s.years, true
	}
	return s.from, 0, false
}

func intPtr(v int) *int { return &v }

func TestResolveCoverageIsTotalAndExclusive(t *testing.T) {
	rows := []span{
		{from: 30, years: intPtr(10), tag: "a"},
		{from: 40, tag: "b"},
		{from: 50, tag: "c"},
	}

	sched, issues := Resolve(rows, 65, "contribution")
	assert.Empty(t, Errs(issues), "Should resolve without errors")
	assert.Empty(t, Warnings(issues), "Should resolve without gaps")

	for age := 30; age < 65; age++ {
		row, _, ok := sched.ActiveAt(age)
		require.True(t, ok, "age %d should be covered", age)
		switch {
		case age < 40:
			assert.Equal(t, "a", row.tag, "age %d", age)
		case age < 50:
			assert.Equal(t, "b", row.tag, "age %d", age)
		default:
			assert.Equal(t, "c", row.tag, "age %d", age)
		}
	}

	_, _, ok := sched.ActiveAt(65)
	assert.False(t, ok, "fallback end is exclusive")
	_, _, ok = sched.ActiveAt(29)
	assert.False(t, ok, "ages before the first row are uncovered")
}

func TestResolveOffsetCountsFromRowStart(t *testing.T) {
	rows := []span{{from: 35, years: intPtr(5)}}
	sched, _ := Resolve(rows, 65, "contribution")

	_, k, ok := sched.ActiveAt(35)
	require.True(t, ok)
	assert.Equal(t, 0, k)

	_, k, ok = sched.ActiveAt(39)
	require.True(t, ok)
	assert.Equal(t, 4, k)
}

func TestResolveReportsOverlapWithOriginalIndex(t *testing.T) {
	// Input deliberately unsorted: the overlapping row sits at index 0.
	rows := []span{
		{from: 40, years: intPtr(10), tag: "late"},
		{from: 30, years: intPtr(15), tag: "early"},
	}

	_, issues := Resolve(rows, 65, "contribution")
	errs := Errs(issues)
	require.Len(t, errs, 1)
	assert.Equal(t, Error, errs[0].Severity)
	assert.Equal(t, 0, errs[0].Index, "Should reference the row's position in the input list")
	assert.Contains(t, errs[0].Message, "overlap")
}

func TestResolveReportsDegenerateInterval(t *testing.T) {
	// Two rows starting at the same age: the first resolves to a
	// zero-length interval.
	rows := []span{
		{from: 40, tag: "first"},
		{from: 40, years: intPtr(5), tag: "second"},
	}

	_, issues := Resolve(rows, 65, "spending")
	errs := Errs(issues)
	require.NotEmpty(t, errs)
	assert.Contains(t, errs[0].Message, "degenerate")
}

func TestResolveReportsGapAsWarning(t *testing.T) {
	rows := []span{
		{from: 30, years: intPtr(5)},
		{from: 40, years: intPtr(5)},
	}

	sched, issues := Resolve(rows, 65, "contribution")
	assert.Empty(t, Errs(issues))

	warns := Warnings(issues)
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0].Message, "gap between ages 35 and 40")

	// The gap itself resolves to "nothing scheduled".
	_, _, ok := sched.ActiveAt(37)
	assert.False(t, ok)
}

func TestResolveClampsExplicitYearsToFallback(t *testing.T) {
	rows := []span{{from: 30, years: intPtr(50)}}
	sched, issues := Resolve(rows, 65, "contribution")
	assert.Empty(t, Errs(issues))

	_, _, ok := sched.ActiveAt(64)
	assert.True(t, ok)
	_, _, ok = sched.ActiveAt(65)
	assert.False(t, ok, "explicit duration clamps at the fallback end")
}

func TestResolveTieOrderIsDeterministic(t *testing.T) {
	rows := []span{
		{from: 40, tag: "first"},
		{from: 40, tag: "second"},
	}

	// Run twice; stable sort keeps input order for ties both times.
	for run := 0; run < 2; run++ {
		sched, _ := Resolve(rows, 65, "contribution")
		row, _, ok := sched.ActiveAt(40)
		require.True(t, ok)
		assert.Equal(t, "second", row.tag, "run %d: later interval wins only past the first's end", run)
	}
}

func TestResolveEmptyInput(t *testing.T) {
	sched, issues := Resolve([]span(nil), 65, "spending")
	assert.True(t, sched.Empty())
	assert.Empty(t, issues)

	_, _, ok := sched.ActiveAt(40)
	assert.False(t, ok)
}
