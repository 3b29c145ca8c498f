package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/fr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	fr_translations "github.com/go-playground/validator/v10/translations/fr"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/la-clef-asso/laclef-news/backend/internal/config"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
	"github.com/la-clef-asso/laclef-news/backend/internal/repository"
)

// PostsRepository est le contrat consommé par les handlers de publications,
// rempli par le dépôt Postgres ou par le magasin local selon la configuration.
type PostsRepository interface {
	FetchPosts() ([]domain.Post, error)
	GetPostByID(id string) (*domain.Post, error)
	CreatePost(post *domain.Post) error
	UpdatePost(post *domain.Post) error
	DeletePost(id string) error
}

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	posts       PostsRepository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, posts PostsRepository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	fr := fr.New()
	uni := ut.New(fr, fr)
	trans, _ := uni.GetTranslator("fr")
	if err := fr_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		posts:       posts,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)
	h.Mux.Use(h.metrics)
	h.Mux.Use(h.cors())

	h.Mux.Get("/health", h.Health)
	h.Mux.Handle("/metrics", metricsHandler())

	// Authentification
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// Les API suivantes exigent un utilisateur connecté
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		// Tout utilisateur connecté peut publier, modifier et supprimer —
		// l'auteur n'est qu'une métadonnée, pas un contrôle d'accès
		r.Route("/posts", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetPosts)
			r.Post("/", h.CreatePost)
			r.Get("/calendar", h.GetCalendar)
			r.Get("/featured", h.GetFeaturedPosts)
			r.Get("/mine", h.GetMyPosts)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.postCtx)
				r.Get("/", h.GetPost)
				r.Patch("/", h.UpdatePost)
				r.Delete("/", h.DeletePost)
			})
		})

		adminOnly := []domain.Role{domain.RoleAdmin, domain.RoleSuperAdmin}
		r.Route("/users", func(r chi.Router) {
			r.With(h.RequiredRole(adminOnly)).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole(adminOnly)).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(h.RequiredRole(adminOnly)).Delete("/", h.DeleteUser)
				r.With(h.RequiredRole(adminOnly)).Patch("/password", h.UpdateUserPassword)
			})
		})
	})
}
