package refdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeRow struct {
	id    string
	eff   time.Time
	term  time.Time
}

func (f fakeRow) EffectiveDate() time.Time    { return f.eff }
func (f fakeRow) TerminationDate() time.Time  { return f.term }

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestSelectEffectivePicksGreatestEffectiveDate(t *testing.T) {
	rows := []fakeRow{
		{id: "old", eff: d(2020, 1, 1), term: d(2022, 12, 31)},
		{id: "current", eff: d(2023, 1, 1), term: time.Time{}},
	}
	got, ok := SelectEffective(rows, d(2026, 7, 30))
	assert.True(t, ok)
	assert.Equal(t, "current", got.id)
}

func TestSelectEffectiveBlankTerminationTreatedAsOpen(t *testing.T) {
	rows := []fakeRow{
		{id: "open", eff: d(2023, 1, 1), term: time.Time{}},
	}
	got, ok := SelectEffective(rows, d(2099, 12, 31))
	assert.True(t, ok)
	assert.Equal(t, "open", got.id)
}

func TestSelectEffectiveNoMatch(t *testing.T) {
	rows := []fakeRow{
		{id: "expired", eff: d(2020, 1, 1), term: d(2021, 1, 1)},
	}
	_, ok := SelectEffective(rows, d(2026, 1, 1))
	assert.False(t, ok)
}

func TestSelectEffectiveExcludesFutureRow(t *testing.T) {
	rows := []fakeRow{
		{id: "future", eff: d(2030, 1, 1), term: time.Time{}},
	}
	_, ok := SelectEffective(rows, d(2026, 1, 1))
	assert.False(t, ok)
}
