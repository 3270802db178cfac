package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"skycast/internal/domain"
)

// ErrDuplicate señala una violación de unicidad sobre email o mobile.
var ErrDuplicate = errors.New("duplicate user")

// ErrNotFound señala que no existe usuario para el criterio dado.
var ErrNotFound = errors.New("user not found")

// UserRepository define el contrato de persistencia para usuarios.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
}

// PgUserRepository implementa UserRepository usando pgxpool.
type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

// Create inserta la fila y devuelve el id generado. Una carrera sobre el
// mismo email o mobile la resuelve el índice único: el perdedor recibe
// ErrDuplicate, nunca una sobreescritura.
func (r *PgUserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
		INSERT INTO users (email, mobile, password)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := r.pool.QueryRow(ctx, query,
		nullable(user.Email),
		nullable(user.Mobile),
		nullable(user.PasswordHash),
	).Scan(&user.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.User{}, ErrDuplicate
		}
		return domain.User{}, err
	}
	return user, nil
}

// GetByIdentifier busca por coincidencia en email o mobile.
func (r *PgUserRepository) GetByIdentifier(ctx context.Context, identifier string) (domain.User, error) {
	const query = `
		SELECT id, email, mobile, password
		FROM users
		WHERE email = $1 OR mobile = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, identifier))
}

// GetByEmail busca por email exacto.
func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
		SELECT id, email, mobile, password
		FROM users
		WHERE email = $1
	`
	return r.scanOne(r.pool.QueryRow(ctx, query, email))
}

func (r *PgUserRepository) scanOne(row pgx.Row) (domain.User, error) {
	var (
		u        domain.User
		email    *string
		mobile   *string
		password *string
	)
	err := row.Scan(&u.ID, &email, &mobile, &password)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, ErrNotFound
	}
	if err != nil {
		return domain.User{}, err
	}
	u.Email = deref(email)
	u.Mobile = deref(mobile)
	u.PasswordHash = deref(password)
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
