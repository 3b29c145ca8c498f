// Package store est le magasin local de secours : la collection complète des
// publications vit en mémoire, sérialisée en JSON dans un fichier unique. Il
// remplace le dépôt Postgres quand le service tourne sans base partagée.
package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/la-clef-asso/laclef-news/backend/internal/calendar"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

// Store détient l'unique source de vérité et notifie ses abonnés après chaque
// mutation. Chaque mutation remplace et retrie la liste entière, protégée par
// un mutex : le modèle mono-thread de l'application d'origine ne tient plus ici.
type Store struct {
	mu    sync.Mutex
	path  string
	posts []domain.Post
	subs  map[chan []domain.Post]struct{}
}

// Open charge le fichier s'il existe. Données absentes ou corrompues : on
// repart sur le jeu de démonstration plutôt que d'échouer.
func Open(path string, sampleSize int) *Store {
	s := &Store{
		path: path,
		subs: make(map[chan []domain.Post]struct{}),
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var posts []domain.Post
		if err := json.Unmarshal(raw, &posts); err == nil {
			s.posts = calendar.SortByCreatedDesc(posts)
			return s
		}
		slog.Warn("fichier de publications illisible, retour aux données de démonstration", "path", path)
	}

	s.posts = calendar.SortByCreatedDesc(SamplePosts(sampleSize, time.Now()))
	return s
}

// Subscribe renvoie un canal recevant la liste complète après chaque mutation,
// et la fonction de désabonnement associée.
func (s *Store) Subscribe() (<-chan []domain.Post, func()) {
	ch := make(chan []domain.Post, 1)

	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	unsubscribe := func() {
		s.mu.Lock()
		if _, ok := s.subs[ch]; ok {
			delete(s.subs, ch)
			close(ch)
		}
		s.mu.Unlock()
	}

	return ch, unsubscribe
}

// replace retrie, persiste et notifie. Appelé mutex tenu.
func (s *Store) replace(posts []domain.Post) {
	s.posts = calendar.SortByCreatedDesc(posts)

	if raw, err := json.Marshal(s.posts); err == nil {
		if err := os.WriteFile(s.path, raw, 0o644); err != nil {
			slog.Error("impossible d'écrire le fichier de publications", "path", s.path, "error", err)
		}
	}

	for ch := range s.subs {
		// Un abonné en retard perd une notification intermédiaire, jamais la dernière liste
		select {
		case ch <- s.posts:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- s.posts
		}
	}
}

func (s *Store) FetchPosts() ([]domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := make([]domain.Post, len(s.posts))
	copy(posts, s.posts)
	return posts, nil
}

func (s *Store) GetPostByID(id string) (*domain.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, post := range s.posts {
		if post.ID == id {
			found := post
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (s *Store) CreatePost(post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if post.ID == "" {
		post.ID = uuid.NewString()
	}
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	post.Version = 1

	s.replace(append(s.posts, *post))
	return nil
}

func (s *Store) UpdatePost(post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.posts {
		if existing.ID != post.ID {
			continue
		}
		if existing.Version != post.Version {
			return sql.ErrNoRows
		}

		now := time.Now()
		post.CreatedAt = existing.CreatedAt
		post.LastEditedAt = &now
		post.Version = existing.Version + 1

		next := make([]domain.Post, len(s.posts))
		copy(next, s.posts)
		next[i] = *post
		s.replace(next)
		return nil
	}

	return sql.ErrNoRows
}

func (s *Store) DeletePost(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Post, 0, len(s.posts))
	for _, post := range s.posts {
		if post.ID != id {
			next = append(next, post)
		}
	}
	s.replace(next)
	return nil
}

// Close persiste une dernière fois et ferme tous les canaux d'abonnement.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if raw, err := json.Marshal(s.posts); err == nil {
		if err := os.WriteFile(s.path, raw, 0o644); err != nil {
			slog.Error("impossible d'écrire le fichier de publications", "path", s.path, "error", err)
		}
	}

	for ch := range s.subs {
		delete(s.subs, ch)
		close(ch)
	}
}
