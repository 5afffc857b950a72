package borrowing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/folio/internal/library"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func ids(entries []Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Record.ID)
	}
	return out
}

func TestParseDue(t *testing.T) {
	want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		raw   string
		want  time.Time
		valid bool
	}{
		{"date only", "2024-05-01", want, true},
		{"space separated", "2024 05 01", want, true},
		{"extra whitespace", "  2024   05\t01 ", want, true},
		{"unpadded", "2024-5-1", want, true},
		{"unpadded space separated", "2024 5 1", want, true},
		{"rfc3339", "2024-05-01T00:00:00Z", want, true},
		{"rfc3339 offset", "2024-05-01T02:00:00+02:00", want, true},
		{"fractional", "2024-05-01T00:00:00.000Z", want, true},
		{"zoneless", "2024-05-01T00:00:00", want, true},
		{"empty", "", time.Time{}, false},
		{"garbage", "next tuesday", time.Time{}, false},
		{"wrong order", "01 05 2024", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDue(tt.raw)
			require.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.True(t, got.Equal(tt.want), "ParseDue(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseDue_SpaceSeparatedMatchesDashed(t *testing.T) {
	spaced, ok := ParseDue("2024 05 01")
	require.True(t, ok)
	dashed, ok := ParseDue("2024-05-01")
	require.True(t, ok)
	assert.True(t, spaced.Equal(dashed))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		rec  library.Borrowing
		want Status
	}{
		{"returned with past due", library.Borrowing{DueAt: "2020-01-01", ReturnedAt: "2020-01-02"}, StatusReturned},
		{"returned with future due", library.Borrowing{DueAt: "2030-01-01", ReturnedAt: "2024-01-02"}, StatusReturned},
		{"returned with malformed due", library.Borrowing{DueAt: "soon", ReturnedAt: "2024-01-02"}, StatusReturned},
		{"past due", library.Borrowing{DueAt: "2024-05-31"}, StatusOverdue},
		{"past due via due_date", library.Borrowing{DueDate: "2024 05 31"}, StatusOverdue},
		{"future due", library.Borrowing{DueAt: "2024-06-02"}, StatusActive},
		{"due exactly now", library.Borrowing{DueAt: "2024-06-01T12:00:00Z"}, StatusActive},
		{"no due date", library.Borrowing{}, StatusActive},
		{"malformed due date", library.Borrowing{DueAt: "whenever"}, StatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.rec, now))
		})
	}
}

func TestView_SortsByDueWithMissingLast(t *testing.T) {
	records := []library.Borrowing{
		{ID: 1, DueAt: "2024-05-01"},
		{ID: 2},
		{ID: 3, DueAt: "2024-01-01"},
	}

	got := View(records, ScopeAll, now)
	assert.Equal(t, []int64{3, 1, 2}, ids(got))
	assert.False(t, got[2].HasDue)
}

func TestView_StableAmongMissingAndEqualDates(t *testing.T) {
	records := []library.Borrowing{
		{ID: 1, DueAt: "garbage"},
		{ID: 2, DueAt: "2024-03-01"},
		{ID: 3},
		{ID: 4, DueDate: "2024 03 01"},
		{ID: 5, DueAt: "   "},
	}

	got := View(records, ScopeAll, now)
	assert.Equal(t, []int64{2, 4, 1, 3, 5}, ids(got))
}

func TestView_ReturnedScopeKeepsSortedOrder(t *testing.T) {
	records := []library.Borrowing{
		{ID: 1, DueAt: "2030-01-01"},
		{ID: 2, DueAt: "2024-01-01"},
		{ID: 3, DueAt: "2024-04-01", ReturnedAt: "2024-03-01"},
		{ID: 4, DueAt: "2024-02-01", ReturnedAt: "2024-01-20"},
	}

	all := View(records, ScopeAll, now)
	statuses := make([]Status, 0, len(all))
	for _, e := range all {
		statuses = append(statuses, e.Status)
	}
	assert.Equal(t, []Status{StatusOverdue, StatusReturned, StatusReturned, StatusActive}, statuses)

	got := View(records, ScopeReturned, now)
	assert.Equal(t, []int64{4, 3}, ids(got))
}

func TestView_ScopeFilters(t *testing.T) {
	records := []library.Borrowing{
		{ID: 1, DueAt: "2030-01-01"},
		{ID: 2, DueAt: "2024-01-01"},
		{ID: 3, DueAt: "2024-04-01", ReturnedAt: "2024-03-01"},
	}

	assert.Equal(t, []int64{2, 3, 1}, ids(View(records, ScopeAll, now)))
	assert.Equal(t, []int64{2, 1}, ids(View(records, ScopeActive, now)))
	assert.Equal(t, []int64{2}, ids(View(records, ScopeOverdue, now)))
	assert.Equal(t, []int64{3}, ids(View(records, ScopeReturned, now)))
}

func TestView_DoesNotMutateInput(t *testing.T) {
	records := []library.Borrowing{
		{ID: 1, DueAt: "2024-05-01"},
		{ID: 2},
		{ID: 3, DueAt: "2024-01-01"},
	}
	snapshot := append([]library.Borrowing(nil), records...)

	_ = View(records, ScopeOverdue, now)
	assert.Equal(t, snapshot, records)
}

func TestView_RecomputesAgainstClock(t *testing.T) {
	records := []library.Borrowing{{ID: 1, DueAt: "2024-06-01T13:00:00Z"}}

	assert.Equal(t, StatusActive, View(records, ScopeAll, now)[0].Status)
	assert.Equal(t, StatusOverdue, View(records, ScopeAll, now.Add(2*time.Hour))[0].Status)
}

func TestSummarize(t *testing.T) {
	records := []library.Borrowing{
		{DueAt: "2030-01-01"},
		{DueAt: "2024-01-01"},
		{DueAt: "2024-01-01"},
		{ReturnedAt: "2024-01-01"},
	}
	assert.Equal(t, Summary{Total: 4, Active: 1, Overdue: 2, Returned: 1}, Summarize(records, now))
}

func TestScope(t *testing.T) {
	s, err := ParseScope(" Overdue ")
	require.NoError(t, err)
	assert.Equal(t, ScopeOverdue, s)

	s, err = ParseScope("")
	require.NoError(t, err)
	assert.Equal(t, ScopeAll, s)

	_, err = ParseScope("late")
	assert.Error(t, err)

	var flagValue Scope
	require.NoError(t, flagValue.Set("returned"))
	assert.Equal(t, "returned", flagValue.String())
	assert.Equal(t, "scope", flagValue.Type())

	assert.Equal(t, ScopeActive, ScopeAll.Next())
	assert.Equal(t, ScopeAll, ScopeReturned.Next())
	assert.Equal(t, "all", Scope("").String())
}
