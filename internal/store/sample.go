package store

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/calendar"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

var sampleTypeCycle = []domain.PostType{
	domain.PostTypeALaUne,
	domain.PostTypeInfo,
	domain.PostTypeAbsence,
	domain.PostTypeEvent,
}

var sampleAuthorCycle = []string{"PL", "ZA", "Admin", "CG", "JD", "MB", "LM", "AN"}

var sampleTitleBase = map[domain.PostType]string{
	domain.PostTypeALaUne:  "À la une",
	domain.PostTypeInfo:    "Info",
	domain.PostTypeAbsence: "Absence",
	domain.PostTypeEvent:   "Évènement",
}

func randomInt(rnd *rand.Rand, min, max int) int {
	return rnd.Intn(max-min+1) + min
}

// SamplePosts génère un jeu de publications de démonstration. La graine est
// fixe : deux appels avec le même compte et la même date de référence donnent
// exactement les mêmes données.
func SamplePosts(count int, now time.Time) []domain.Post {
	rnd := rand.New(rand.NewSource(12345))
	today := calendar.StartOfDay(now)
	posts := make([]domain.Post, 0, count)

	for i := 0; i < count; i++ {
		postType := sampleTypeCycle[i%len(sampleTypeCycle)]
		authorName := sampleAuthorCycle[i%len(sampleAuthorCycle)]

		// Répartir les dates entre -15 et +30 jours
		startAt := calendar.AddDays(today, randomInt(rnd, -15, 30))

		// Les publications à la une et les évènements s'étalent sur quelques jours
		var endAt *time.Time
		if postType == domain.PostTypeALaUne || postType == domain.PostTypeEvent {
			if rangeDays := randomInt(rnd, 0, 6); rangeDays > 0 {
				end := calendar.AddDays(startAt, rangeDays)
				endAt = &end
			}
		}

		posts = append(posts, domain.Post{
			ID:         fmt.Sprintf("p%d", i+1),
			Title:      fmt.Sprintf("%s #%d", sampleTitleBase[postType], i+1),
			Type:       postType,
			StartAt:    startAt,
			EndAt:      endAt,
			AuthorName: authorName,
			CreatedAt:  calendar.AddDays(today, randomInt(rnd, -20, 0)),
		})
	}

	return posts
}
