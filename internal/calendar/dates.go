package calendar

import (
	"fmt"
	"slices"
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

// Toutes les fonctions de ce paquet travaillent sur des dates calendaires
// locales : l'heure est ignorée, tout est ramené à minuit local.

func StartOfDay(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location())
}

func AddDays(d time.Time, days int) time.Time {
	return d.AddDate(0, 0, days)
}

// AddMonths hérite de la normalisation de AddDate : si le mois cible est plus
// court, la date déborde sur le mois suivant (31 janvier + 1 mois = 2/3 mars).
func AddMonths(d time.Time, months int) time.Time {
	return d.AddDate(0, months, 0)
}

func StartOfWeekMonday(d time.Time) time.Time {
	x := StartOfDay(d)
	dayIndex := (int(x.Weekday()) + 6) % 7 // dim(0)->6, lun(1)->0, mar(2)->1...
	return AddDays(x, -dayIndex)
}

func StartOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

func EndOfMonth(d time.Time) time.Time {
	return AddDays(StartOfMonth(d).AddDate(0, 1, 0), -1)
}

func IsSameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

var frWeekdays = [...]string{
	"dimanche", "lundi", "mardi", "mercredi", "jeudi", "vendredi", "samedi",
}

var frShortMonths = [...]string{
	"janv.", "févr.", "mars", "avr.", "mai", "juin",
	"juil.", "août", "sept.", "oct.", "nov.", "déc.",
}

func FormatShortFR(d time.Time) string {
	return d.Format("02/01/2006")
}

func FormatDayLabelFR(d time.Time) string {
	return fmt.Sprintf("%s %02d %s", frWeekdays[d.Weekday()], d.Day(), frShortMonths[d.Month()-1])
}

// daysUntil compte les jours calendaires entre deux dates, en passant par UTC
// pour ne pas fausser la division lors des changements d'heure.
func daysUntil(from, to time.Time) int {
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// FormatRemainingDays construit le libellé "jours restants" affiché à côté des
// publications à la une.
func FormatRemainingDays(start time.Time, end *time.Time, today time.Time) string {
	endDay := StartOfDay(start)
	if end != nil {
		endDay = StartOfDay(*end)
	}

	remaining := daysUntil(StartOfDay(today), endDay) + 1
	if remaining < 0 {
		remaining = 0
	}

	if remaining == 1 {
		return "Dernier jour d'affichage"
	}
	return fmt.Sprintf("%d jours restants", remaining)
}

// SortByCreatedDesc renvoie une copie triée par date de création décroissante.
// Le tri est stable : les vues "afficher N de plus" dépendent d'un ordre
// constant entre deux rendus.
func SortByCreatedDesc(posts []domain.Post) []domain.Post {
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(a, b domain.Post) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return sorted
}
