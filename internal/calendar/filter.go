package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

type FilterMode string

const (
	FilterAll            FilterMode = "all"
	FilterToday          FilterMode = "today"
	FilterSinceYesterday FilterMode = "sinceYesterday"
	FilterSinceWeek      FilterMode = "sinceWeek"
	FilterOnDate         FilterMode = "onDate"
)

func ParseFilterMode(s string) (FilterMode, error) {
	switch FilterMode(s) {
	case FilterAll, FilterToday, FilterSinceYesterday, FilterSinceWeek, FilterOnDate:
		return FilterMode(s), nil
	default:
		return "", fmt.Errorf("filtre inconnu : %q", s)
	}
}

func keep(posts []domain.Post, pred func(domain.Post) bool) []domain.Post {
	kept := make([]domain.Post, 0)
	for _, post := range posts {
		if pred(post) {
			kept = append(kept, post)
		}
	}
	return kept
}

// Filter applique un filtre de flux sur une liste déjà triée par création
// décroissante. "today" regarde la date d'affichage (startAt), les fenêtres
// glissantes et "onDate" regardent la date de création.
func Filter(posts []domain.Post, mode FilterMode, target, today time.Time) []domain.Post {
	todayStart := StartOfDay(today)

	switch mode {
	case FilterToday:
		return keep(posts, func(p domain.Post) bool {
			return IsSameDay(p.StartAt, todayStart)
		})
	case FilterSinceYesterday:
		from := AddDays(todayStart, -1)
		return keep(posts, func(p domain.Post) bool {
			return !StartOfDay(p.CreatedAt).Before(from)
		})
	case FilterSinceWeek:
		from := AddDays(todayStart, -7)
		return keep(posts, func(p domain.Post) bool {
			return !StartOfDay(p.CreatedAt).Before(from)
		})
	case FilterOnDate:
		return keep(posts, func(p domain.Post) bool {
			return IsSameDay(p.CreatedAt, target)
		})
	default:
		return posts
	}
}

type ArchiveFilterMode string

const (
	ArchiveAll       ArchiveFilterMode = "all"
	ArchivePast      ArchiveFilterMode = "past"
	ArchiveScheduled ArchiveFilterMode = "scheduled"
)

func ParseArchiveFilterMode(s string) (ArchiveFilterMode, error) {
	switch ArchiveFilterMode(s) {
	case ArchiveAll, ArchivePast, ArchiveScheduled:
		return ArchiveFilterMode(s), nil
	default:
		return "", fmt.Errorf("filtre d'archives inconnu : %q", s)
	}
}

// effectiveEnd renvoie le dernier jour d'affichage : endAt si présent, sinon startAt.
func effectiveEnd(p domain.Post) time.Time {
	if p.EndAt != nil {
		return StartOfDay(*p.EndAt)
	}
	return StartOfDay(p.StartAt)
}

// ArchiveFilter sépare les publications passées des publications programmées.
// Une publication qui démarre aujourd'hui sans date de fin n'est ni passée ni
// programmée : elle est "du jour", exclue des deux filtres. Les inégalités
// strictes sont voulues.
func ArchiveFilter(posts []domain.Post, mode ArchiveFilterMode, today time.Time) []domain.Post {
	todayStart := StartOfDay(today)

	switch mode {
	case ArchivePast:
		return keep(posts, func(p domain.Post) bool {
			return effectiveEnd(p).Before(todayStart)
		})
	case ArchiveScheduled:
		return keep(posts, func(p domain.Post) bool {
			return StartOfDay(p.StartAt).After(todayStart)
		})
	default:
		return posts
	}
}

// OwnedBy rattache une publication à un compte. L'auteur n'est pas une clé
// étrangère : on compare l'email quand il existe, sinon le nom d'auteur contre
// la partie locale de l'email, le nom d'affichage, puis la sentinelle "vous".
func OwnedBy(post domain.Post, email, displayName string) bool {
	userEmail := strings.ToLower(strings.TrimSpace(email))
	if userEmail == "" {
		return false
	}

	if postEmail := strings.ToLower(strings.TrimSpace(post.AuthorEmail)); postEmail != "" {
		return postEmail == userEmail
	}

	name := strings.ToLower(strings.TrimSpace(post.AuthorName))
	handle, _, _ := strings.Cut(userEmail, "@")
	if name == handle {
		return true
	}
	if dn := strings.ToLower(strings.TrimSpace(displayName)); dn != "" && name == dn {
		return true
	}
	return name == "vous"
}

// OwnPosts garde les publications appartenant au compte donné.
func OwnPosts(posts []domain.Post, email, displayName string) []domain.Post {
	return keep(posts, func(p domain.Post) bool {
		return OwnedBy(p, email, displayName)
	})
}

// Featured renvoie les publications à la une dont la période couvre aujourd'hui.
func Featured(posts []domain.Post, today time.Time) []domain.Post {
	target := StartOfDay(today)
	return keep(posts, func(p domain.Post) bool {
		if p.Type != domain.PostTypeALaUne {
			return false
		}
		return !StartOfDay(p.StartAt).After(target) && !target.After(effectiveEnd(p))
	})
}
