package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

const userColumns = `id, email, full_name, password_hash, is_active, is_superuser, created_at, updated_at`

type UserRepository struct {
	db
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db{pool}}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO users (email, full_name, password_hash, is_active, is_superuser, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		user.Email, user.FullName, user.PasswordHash, user.IsActive, user.IsSuperuser, user.CreatedAt, user.UpdatedAt,
	).Scan(&id)
	if code, _ := pgError(err); code == uniqueViolation {
		return domain.ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	user.ID = uint(id)
	return nil
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*entities.User, error) {
	rows, _ := r.q(ctx).Query(ctx, query, arg)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[userRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	u := userToDomain(row)
	return &u, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, int64(id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]entities.User, error) {
	rows, _ := r.q(ctx).Query(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id OFFSET $1 LIMIT NULLIF($2::int, 0)`, skip, limit)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[userRow])
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collect(list, userToDomain), nil
}
