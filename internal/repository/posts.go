package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
)

// La table posts garde le vocabulaire historique : content correspond au titre
// affiché et updated_at à lastEditedAt.

func scanPost(scan func(dst ...any) error) (domain.Post, error) {
	var post domain.Post
	var endAt sql.NullTime
	var authorEmail sql.NullString
	var updatedAt sql.NullTime

	dst := []any{&post.ID, &post.Title, &post.Type, &post.StartAt, &endAt, &post.AuthorName, &authorEmail, &post.CreatedAt, &updatedAt, &post.Version}
	if err := scan(dst...); err != nil {
		return domain.Post{}, err
	}

	if endAt.Valid {
		post.EndAt = &endAt.Time
	}
	if authorEmail.Valid {
		post.AuthorEmail = authorEmail.String
	}
	if updatedAt.Valid {
		post.LastEditedAt = &updatedAt.Time
	}

	return post, nil
}

func (r *Repository) FetchPosts() ([]domain.Post, error) {
	query := `
		SELECT id, content, type, start_at, end_at, author_name, author_email, created_at, updated_at, version
		FROM posts
		ORDER BY created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows.Scan)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *Repository) GetPostByID(id string) (*domain.Post, error) {
	query := `
		SELECT id, content, type, start_at, end_at, author_name, author_email, created_at, updated_at, version
		FROM posts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	post, err := scanPost(r.dbpool.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *Repository) CreatePost(post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO posts (content, type, start_at, end_at, author_name, author_email)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at, version
	`

	var endAt any
	if post.EndAt != nil {
		endAt = *post.EndAt
	}
	var authorEmail any
	if post.AuthorEmail != "" {
		authorEmail = post.AuthorEmail
	}

	var updatedAt sql.NullTime
	args := []any{post.Title, post.Type, post.StartAt, endAt, post.AuthorName, authorEmail}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&post.ID, &post.CreatedAt, &updatedAt, &post.Version); err != nil {
		return err
	}
	if updatedAt.Valid {
		post.LastEditedAt = &updatedAt.Time
	}

	return nil
}

func (r *Repository) UpdatePost(post *domain.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE posts
		SET
			content = $1,
			type = $2,
			start_at = $3,
			end_at = $4,
			author_name = $5,
			author_email = $6,
			updated_at = now(),
			version = version + 1
		WHERE id = $7 AND version = $8
		RETURNING created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	var endAt any
	if post.EndAt != nil {
		endAt = *post.EndAt
	}
	var authorEmail any
	if post.AuthorEmail != "" {
		authorEmail = post.AuthorEmail
	}

	var updatedAt sql.NullTime
	args := []any{post.Title, post.Type, post.StartAt, endAt, post.AuthorName, authorEmail, post.ID, post.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&post.CreatedAt, &updatedAt, &post.Version); err != nil {
		return err
	}
	if updatedAt.Valid {
		post.LastEditedAt = &updatedAt.Time
	}

	return nil
}

func (r *Repository) DeletePost(id string) error {
	query := `
		DELETE FROM posts WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
