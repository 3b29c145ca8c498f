package calendar

import (
	"fmt"
	"time"
)

type Mode string

const (
	ModeDay       Mode = "day"
	ModeThreeDays Mode = "3days"
	ModeWeek      Mode = "week"
	ModeMonth     Mode = "month"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeDay, ModeThreeDays, ModeWeek, ModeMonth:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("mode d'affichage inconnu : %q", s)
	}
}

// Period est la plage de dates visible dans la vue calendrier, bornes incluses.
type Period struct {
	Start time.Time
	End   time.Time
}

// Resolve calcule la période visible à partir du mode et de la date curseur.
func Resolve(mode Mode, cursor time.Time) Period {
	switch mode {
	case ModeDay:
		start := StartOfDay(cursor)
		return Period{Start: start, End: start}
	case ModeThreeDays:
		start := StartOfDay(cursor)
		return Period{Start: start, End: AddDays(start, 2)}
	case ModeWeek:
		start := StartOfWeekMonday(cursor)
		return Period{Start: start, End: AddDays(start, 6)}
	default: // ModeMonth
		return Period{Start: StartOfMonth(cursor), End: EndOfMonth(cursor)}
	}
}

// Days énumère tous les jours de la période, du début à la fin incluse.
// Bornée par un mois au plus, donc au plus 31 itérations.
func (p Period) Days() []time.Time {
	days := make([]time.Time, 0, 31)
	for d := p.Start; !d.After(p.End); d = AddDays(d, 1) {
		days = append(days, d)
	}
	return days
}

// PrevCursor décale le curseur d'une fenêtre en arrière selon le mode.
func PrevCursor(mode Mode, cursor time.Time) time.Time {
	switch mode {
	case ModeDay:
		return AddDays(cursor, -1)
	case ModeThreeDays:
		return AddDays(cursor, -3)
	case ModeWeek:
		return AddDays(cursor, -7)
	default:
		return AddMonths(cursor, -1)
	}
}

// NextCursor décale le curseur d'une fenêtre en avant selon le mode.
func NextCursor(mode Mode, cursor time.Time) time.Time {
	switch mode {
	case ModeDay:
		return AddDays(cursor, 1)
	case ModeThreeDays:
		return AddDays(cursor, 3)
	case ModeWeek:
		return AddDays(cursor, 7)
	default:
		return AddMonths(cursor, 1)
	}
}
