package calendar

import (
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

// PostsForDay renvoie les publications pertinentes pour un jour donné.
// Une publication sans date de fin ne compte que le jour J ; avec une date de
// fin, la plage [startAt, endAt] est inclusive.
func PostsForDay(posts []domain.Post, day time.Time) []domain.Post {
	kept := make([]domain.Post, 0)
	if len(posts) == 0 {
		return kept
	}

	target := StartOfDay(day)

	for _, post := range posts {
		start := StartOfDay(post.StartAt)

		// Cas "jour J"
		if post.EndAt == nil {
			if IsSameDay(start, target) {
				kept = append(kept, post)
			}
			continue
		}

		// Cas "période"
		end := StartOfDay(*post.EndAt)
		if !start.After(target) && !target.After(end) {
			kept = append(kept, post)
		}
	}

	return kept
}
