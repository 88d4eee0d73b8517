package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/afriart/gallery-service/internal/domain"
)

// PrincipalRepository defines persistence access for identity records. The
// role selects which table is queried; the queries themselves are shared.
type PrincipalRepository interface {
	GetByEmail(ctx context.Context, role domain.Role, email string) (*domain.Principal, error)
	Insert(ctx context.Context, role domain.Role, principal *domain.Principal) error
}

type principalRepository struct {
	pool *pgxpool.Pool
}

// NewPrincipalRepository returns a Postgres-backed implementation.
func NewPrincipalRepository(pool *pgxpool.Pool) PrincipalRepository {
	return &principalRepository{pool: pool}
}

func (r *principalRepository) GetByEmail(ctx context.Context, role domain.Role, email string) (*domain.Principal, error) {
	if !role.Valid() {
		return nil, domain.ErrUnknownRole
	}

	// role.Table() only ever yields one of the three fixed table names.
	query := fmt.Sprintf(`
        SELECT id, name, email, password_hash, phone, bio, created_at
        FROM %s WHERE email=$1`, role.Table())

	var p domain.Principal
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&p.ID,
		&p.Name,
		&p.Email,
		&p.PasswordHash,
		&p.Phone,
		&p.Bio,
		&p.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *principalRepository) Insert(ctx context.Context, role domain.Role, principal *domain.Principal) error {
	if !role.Valid() {
		return domain.ErrUnknownRole
	}

	query := fmt.Sprintf(`
        INSERT INTO %s (name, email, password_hash, phone, bio)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at`, role.Table())

	return r.pool.QueryRow(ctx, query,
		principal.Name,
		principal.Email,
		principal.PasswordHash,
		principal.Phone,
		principal.Bio,
	).Scan(&principal.ID, &principal.CreatedAt)
}
