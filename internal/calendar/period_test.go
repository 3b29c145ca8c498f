package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	for _, s := range []string{"day", "3days", "week", "month"} {
		mode, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), mode)
	}

	_, err := ParseMode("fortnight")
	assert.Error(t, err)
	_, err = ParseMode("")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	// Mercredi 12 mars 2025
	cursor := time.Date(2025, time.March, 12, 14, 30, 0, 0, time.Local)

	tests := []struct {
		name      string
		mode      Mode
		wantStart time.Time
		wantEnd   time.Time
		wantDays  int
	}{
		{"jour", ModeDay, date(2025, time.March, 12), date(2025, time.March, 12), 1},
		{"trois jours", ModeThreeDays, date(2025, time.March, 12), date(2025, time.March, 14), 3},
		{"semaine", ModeWeek, date(2025, time.March, 10), date(2025, time.March, 16), 7},
		{"mois", ModeMonth, date(2025, time.March, 1), date(2025, time.March, 31), 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Resolve(tt.mode, cursor)
			assert.Equal(t, tt.wantStart, p.Start)
			assert.Equal(t, tt.wantEnd, p.End)

			days := p.Days()
			require.Len(t, days, tt.wantDays)
			assert.Equal(t, tt.wantStart, days[0])
			assert.Equal(t, tt.wantEnd, days[len(days)-1])
		})
	}
}

func TestResolveWeekAlwaysStartsMonday(t *testing.T) {
	// Chaque jour de la semaine du 10 mars donne la même période
	for i := 0; i < 7; i++ {
		p := Resolve(ModeWeek, date(2025, time.March, 10+i))
		assert.Equal(t, date(2025, time.March, 10), p.Start)
		assert.Equal(t, date(2025, time.March, 16), p.End)
	}
}

func TestResolveMonthFebruary(t *testing.T) {
	p := Resolve(ModeMonth, date(2025, time.February, 14))
	assert.Equal(t, date(2025, time.February, 1), p.Start)
	assert.Equal(t, date(2025, time.February, 28), p.End)
	assert.Len(t, p.Days(), 28)

	leap := Resolve(ModeMonth, date(2024, time.February, 14))
	assert.Len(t, leap.Days(), 29)
}

func TestPrevNextCursor(t *testing.T) {
	cursor := date(2025, time.March, 12)

	tests := []struct {
		name     string
		mode     Mode
		wantPrev time.Time
		wantNext time.Time
	}{
		{"jour", ModeDay, date(2025, time.March, 11), date(2025, time.March, 13)},
		{"trois jours", ModeThreeDays, date(2025, time.March, 9), date(2025, time.March, 15)},
		{"semaine", ModeWeek, date(2025, time.March, 5), date(2025, time.March, 19)},
		{"mois", ModeMonth, date(2025, time.February, 12), date(2025, time.April, 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantPrev, PrevCursor(tt.mode, cursor))
			assert.Equal(t, tt.wantNext, NextCursor(tt.mode, cursor))
		})
	}
}

func TestNextCursorMonthOverflow(t *testing.T) {
	// 31 janvier + 1 mois déborde sur mars, comme AddDate
	assert.Equal(t, date(2025, time.March, 3), NextCursor(ModeMonth, date(2025, time.January, 31)))
}
