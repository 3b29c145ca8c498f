package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/la-clef-asso/laclef-news/backend/internal/config"
	"github.com/la-clef-asso/laclef-news/backend/internal/domain"
	"github.com/la-clef-asso/laclef-news/backend/internal/handler"
	"github.com/la-clef-asso/laclef-news/backend/internal/repository"
	"github.com/la-clef-asso/laclef-news/backend/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	/**********************************************
	 * Créer le logger
	 **********************************************/
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	/**********************************************
	 * Charger la configuration
	 **********************************************/
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de charger la configuration", "error", err)
		return
	}

	/**********************************************
	 * Connexion à la base de données
	 **********************************************/
	dbpool, err := sql.Open("pgx", cfg.Database.DSN)
	if err != nil {
		logger.Error("impossible de créer le pool de connexions", "error", err)
		return
	}
	defer dbpool.Close()

	dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
	defer cancel()

	// sql.Open ne fait que créer le pool, il faut un ping explicite
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("impossible de joindre la base de données", "error", err)
		return
	}

	/**********************************************
	 * Créer le repository
	 **********************************************/
	repo := repository.NewRepository(cfg, dbpool)

	/**********************************************
	 * Choisir le stockage des publications
	 **********************************************/
	var posts handler.PostsRepository = repo
	if cfg.Posts.Backend == "memory" {
		postStore := store.Open(cfg.Posts.StorePath, cfg.Posts.SampleSize)
		defer postStore.Close()
		posts = postStore
		logger.Info("publications servies depuis le magasin local", "path", cfg.Posts.StorePath)
	}

	/**********************************************
	 * Garantir l'existence de l'administrateur initial
	 **********************************************/
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(cfg.InitialAdmin.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("impossible de hacher le mot de passe de l'administrateur initial", "error", err)
		return
	}
	initialAdmin := &domain.User{
		Email:        cfg.InitialAdmin.Email,
		PasswordHash: string(passwordHash),
		DisplayName:  cfg.InitialAdmin.DisplayName,
		Role:         domain.RoleSuperAdmin,
	}
	if err := repo.CreateUser(initialAdmin); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "users_email_key":
				// L'administrateur initial existe déjà, rien à faire
			default:
				logger.Error("impossible de créer l'administrateur initial", "error", err)
				return
			}
		default:
			logger.Error("impossible de créer l'administrateur initial", "error", err)
			return
		}
	}

	/**********************************************
	 * Connexion à rabbitmq
	 **********************************************/
	conn, err := amqp.Dial(cfg.RabbitMQ.DSN)
	if err != nil {
		logger.Error("impossible de joindre rabbitmq", "error", err)
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		logger.Error("impossible d'ouvrir le canal", "error", err)
		return
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		"email_queue",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		logger.Error("impossible de déclarer la file", "error", err)
		return
	}

	/**********************************************
	 * Connexion à redis
	 **********************************************/
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	/**********************************************
	 * Créer le handler
	 **********************************************/
	handler, err := handler.NewHandler(cfg, repo, posts, ch, rdb)
	if err != nil {
		logger.Error("impossible de créer le handler", "error", err)
		return
	}
	handler.RegisterRoutes()

	/**********************************************
	 * Démarrer le serveur HTTP
	 **********************************************/
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      handler.Mux,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("démarrage du serveur...", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("impossible de démarrer le serveur", slog.String("error", err.Error()))
			return
		}
	}()

	<-quit
	logger.Info("arrêt du serveur...")

	ctx, cancel = context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("échec de l'arrêt du serveur", slog.String("error", err.Error()))
	}
	logger.Info("serveur arrêté")
}
