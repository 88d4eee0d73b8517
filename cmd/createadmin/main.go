// Command createadmin inserts an admin principal directly. Admin accounts
// are provisioned from the terminal only; the HTTP surface exposes no admin
// registration route.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/afriart/gallery-service/internal/auth"
	"github.com/afriart/gallery-service/internal/config"
	"github.com/afriart/gallery-service/internal/domain"
	"github.com/afriart/gallery-service/internal/persistence"
	"github.com/afriart/gallery-service/internal/repository"
)

func main() {
	name := flag.String("name", "", "admin display name")
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password")
	flag.Parse()

	if *name == "" || *email == "" || *password == "" {
		log.Fatal("usage: createadmin -name NAME -email EMAIL -password PASSWORD")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Postgres.DSN == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx := context.Background()
	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, zap.NewNop())
	if err != nil {
		log.Fatalf("failed to connect postgres: %v", err)
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	repo := repository.NewPrincipalRepository(pg.PoolHandle())

	if _, err := repo.GetByEmail(ctx, domain.RoleAdmin, *email); err == nil {
		log.Fatal("admin email already exists")
	} else if !errors.Is(err, pgx.ErrNoRows) {
		log.Fatalf("failed to check admin email: %v", err)
	}

	admin := &domain.Principal{
		Name:         *name,
		Email:        *email,
		PasswordHash: auth.HashPassword(*password),
	}
	if err := repo.Insert(ctx, domain.RoleAdmin, admin); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Printf("created admin %q with id %d\n", admin.Name, admin.ID)
}
