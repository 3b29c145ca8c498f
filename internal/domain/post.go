package domain

import (
	"errors"
	"strings"
	"time"
)

type PostType string

const (
	PostTypeALaUne       PostType = "A_LA_UNE"
	PostTypeInfo         PostType = "INFO"
	PostTypeAbsence      PostType = "ABSENCE"
	PostTypeEvent        PostType = "EVENT"
	PostTypeRetard       PostType = "RETARD"
	PostTypeRemplacement PostType = "REMPLACEMENT"
)

func (t PostType) Valid() bool {
	switch t {
	case PostTypeALaUne, PostTypeInfo, PostTypeAbsence, PostTypeEvent, PostTypeRetard, PostTypeRemplacement:
		return true
	default:
		return false
	}
}

var (
	ErrEmptyTitle     = errors.New("le titre ne peut pas être vide")
	ErrInvalidType    = errors.New("type de publication invalide")
	ErrEndBeforeStart = errors.New("la date de fin ne peut pas précéder la date de début")
)

// Affichage sur une date (jour J) quand EndAt est nil, sinon sur une période inclusive.
type Post struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Type         PostType   `json:"type"`
	StartAt      time.Time  `json:"startAt"`
	EndAt        *time.Time `json:"endAt,omitempty"`
	AuthorName   string     `json:"authorName"`
	AuthorEmail  string     `json:"authorEmail,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastEditedAt *time.Time `json:"lastEditedAt,omitempty"`
	Version      int32      `json:"-"`
}

// Validate vérifie les invariants d'une publication avant tout appel au stockage.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if !p.Type.Valid() {
		return ErrInvalidType
	}
	if p.EndAt != nil && p.EndAt.Before(p.StartAt) {
		return ErrEndBeforeStart
	}
	return nil
}
