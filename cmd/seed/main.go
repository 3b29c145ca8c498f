package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/la-clef-asso/laclef-news/backend/internal/config"
	"github.com/la-clef-asso/laclef-news/backend/internal/repository"
	"github.com/la-clef-asso/laclef-news/backend/internal/seed"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int

	flag.IntVar(&op, "op", 0, "opération à exécuter (1 : insérer des utilisateurs de démonstration, 2 : insérer les publications de démonstration)")
	flag.IntVar(&n, "n", 5, "nombre d'enregistrements à insérer")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Lecture de la configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de lire la configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Création du pool de connexions
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

	// sql.Open ne fait que créer l'objet : il faut un ping explicite pour
	// vérifier la connexion
	if err := dbpool.PingContext(ctx); err != nil {
		logger.Error("impossible de se connecter à la base de données", "error", err)
		return
	}

	repo := repository.NewRepository(cfg, dbpool)

	switch op {
	case 0:
		slog.Error("aucune opération indiquée")
	case 1:
		if n <= 0 {
			slog.Error("veuillez indiquer un nombre d'utilisateurs valide")
		} else {
			seed.SeedUsers(repo, n, cfg.Seed.User.Password, cfg.Email.UserDomain)
		}
	case 2:
		if n <= 0 {
			slog.Error("veuillez indiquer un nombre de publications valide")
		} else {
			seed.SeedSamplePosts(repo, n)
		}
	default:
		slog.Error("opération inconnue", "op", op)
	}
}
