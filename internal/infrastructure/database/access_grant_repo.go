package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var _ output.AccessGrantRepository = (*AccessGrantRepository)(nil)

type AccessGrantRepository struct {
	db
}

func NewAccessGrantRepository(pool *pgxpool.Pool) *AccessGrantRepository {
	return &AccessGrantRepository{db{pool}}
}

func (r *AccessGrantRepository) Create(ctx context.Context, grant *entities.AccessGrant) error {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO access_grants (event_id, given_by_id, received_by_id, granted_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		int64(grant.EventID), int64(grant.GivenByID), int64(grant.ReceivedByID), grant.GrantedAt,
	).Scan(&id)
	switch code, constraint := pgError(err); {
	case code == foreignKeyViolation && constraint == "access_grants_event_id_fkey":
		return domain.ErrEventNotFound
	case code == foreignKeyViolation:
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("create access grant: %w", err)
	}
	grant.ID = uint(id)
	return nil
}

// ListByEventID orders by grant time; zero filter IDs match everyone.
func (r *AccessGrantRepository) ListByEventID(ctx context.Context, eventID uint, filter entities.AccessGrantFilter) ([]entities.AccessGrant, error) {
	rows, _ := r.q(ctx).Query(ctx, `
		SELECT id, event_id, given_by_id, received_by_id, granted_at
		FROM access_grants
		WHERE event_id = $1
		  AND ($2::bigint = 0 OR given_by_id = $2)
		  AND ($3::bigint = 0 OR received_by_id = $3)
		ORDER BY granted_at, id
		OFFSET $4 LIMIT NULLIF($5::int, 0)`,
		int64(eventID), int64(filter.GivenByID), int64(filter.ReceivedByID), filter.Skip, filter.Limit)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[accessGrantRow])
	if err != nil {
		return nil, fmt.Errorf("list access grants: %w", err)
	}
	return collect(list, accessGrantToDomain), nil
}
