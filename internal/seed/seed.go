package seed

import (
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
	"github.com/la-clef-asso/laclef-news/backend/internal/repository"
	"github.com/la-clef-asso/laclef-news/backend/internal/store"
	"github.com/la-clef-asso/laclef-news/backend/internal/utils"
)

// SeedUsers insère n comptes de démonstration avec des identités générées.
// Les collisions d'email sont simplement ignorées : deux noms générés peuvent
// produire le même identifiant.
func SeedUsers(repo *repository.Repository, n int, password string, emailDomain string) {
	inserted := 0

	for i := 0; i < n; i++ {
		user, err := utils.GenerateRandomUser(password, emailDomain)
		if err != nil {
			slog.Error("impossible de générer un utilisateur", "error", err)
			return
		}

		if err := repo.CreateUser(user); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key" {
				continue
			}
			slog.Error("impossible d'insérer l'utilisateur", "email", user.Email, "error", err)
			return
		}
		inserted++
	}

	slog.Info("utilisateurs de démonstration insérés", "count", inserted)
}

// PostsRepository est la partie du dépôt utilisée pour insérer les
// publications de démonstration.
type PostsRepository interface {
	CreatePost(post *domain.Post) error
}

// SeedSamplePosts insère le jeu de publications de démonstration. Les
// identifiants et dates de création sont laissés au stockage.
func SeedSamplePosts(repo PostsRepository, count int) {
	inserted := 0

	for _, post := range store.SamplePosts(count, time.Now()) {
		post.ID = ""
		post.CreatedAt = time.Time{}

		if err := repo.CreatePost(&post); err != nil {
			slog.Error("impossible d'insérer la publication", "title", post.Title, "error", err)
			return
		}
		inserted++
	}

	slog.Info("publications de démonstration insérées", "count", inserted)
}
