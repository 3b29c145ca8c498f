package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

func TestPostsForDay(t *testing.T) {
	single := domain.Post{ID: "single", StartAt: date(2025, time.March, 11)}
	ranged := domain.Post{
		ID:      "ranged",
		StartAt: date(2025, time.March, 9),
		EndAt:   ptr(date(2025, time.March, 13)),
	}
	posts := []domain.Post{single, ranged}

	tests := []struct {
		name    string
		day     time.Time
		wantIDs []string
	}{
		{"jour de la publication simple", date(2025, time.March, 11), []string{"single", "ranged"}},
		{"veille de la publication simple", date(2025, time.March, 10), []string{"ranged"}},
		{"premier jour de la période", date(2025, time.March, 9), []string{"ranged"}},
		{"dernier jour de la période", date(2025, time.March, 13), []string{"ranged"}},
		{"hors période", date(2025, time.March, 14), []string{}},
		{"avant tout", date(2025, time.March, 8), []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PostsForDay(posts, tt.day)

			ids := make([]string, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestPostsForDayIgnoresTime(t *testing.T) {
	// L'heure de début et l'heure du jour demandé ne comptent pas
	post := domain.Post{
		ID:      "late",
		StartAt: time.Date(2025, time.March, 11, 23, 45, 0, 0, time.Local),
	}

	got := PostsForDay([]domain.Post{post}, time.Date(2025, time.March, 11, 0, 15, 0, 0, time.Local))
	require.Len(t, got, 1)
	assert.Equal(t, "late", got[0].ID)
}

func TestPostsForDayEmptyInput(t *testing.T) {
	got := PostsForDay(nil, date(2025, time.March, 11))
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestPostsForDayIdempotent(t *testing.T) {
	posts := []domain.Post{
		{ID: "single", StartAt: date(2025, time.March, 11)},
		{ID: "ranged", StartAt: date(2025, time.March, 9), EndAt: ptr(date(2025, time.March, 13))},
		{ID: "outside", StartAt: date(2025, time.March, 20)},
	}

	// Refiltrer un résultat déjà filtré par le même jour ne change rien
	for _, day := range []time.Time{
		date(2025, time.March, 9),
		date(2025, time.March, 11),
		date(2025, time.March, 20),
		date(2025, time.March, 25),
	} {
		once := PostsForDay(posts, day)
		assert.Equal(t, once, PostsForDay(once, day), day.Format("2006-01-02"))
	}
}

func TestPostsForDayRangeMembership(t *testing.T) {
	// Une période du 09 au 13 couvre exactement cinq jours
	post := domain.Post{
		ID:      "week-range",
		StartAt: date(2025, time.March, 9),
		EndAt:   ptr(date(2025, time.March, 13)),
	}

	matched := 0
	for _, day := range (Period{Start: date(2025, time.March, 1), End: date(2025, time.March, 31)}).Days() {
		if len(PostsForDay([]domain.Post{post}, day)) > 0 {
			matched++
		}
	}
	assert.Equal(t, 5, matched)
}
