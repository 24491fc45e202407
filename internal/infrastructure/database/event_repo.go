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

var _ output.EventRepository = (*EventRepository)(nil)

const eventColumns = `id, name, description, owner_id, created_at, updated_at`

type EventRepository struct {
	db
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{db{pool}}
}

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO events (name, description, owner_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		event.Name, event.Description, int64(event.OwnerID), event.CreatedAt, event.UpdatedAt,
	).Scan(&id)
	if code, _ := pgError(err); code == foreignKeyViolation {
		return domain.ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}
	event.ID = uint(id)
	for _, role := range []entities.Role{entities.RoleParticipant, entities.RoleAccessModerator, entities.RoleVotingModerator} {
		for _, userID := range event.Members(role).IDs() {
			if err := r.AddMember(ctx, event.ID, userID, role); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *EventRepository) findOne(ctx context.Context, query string, id uint) (*entities.Event, error) {
	rows, _ := r.q(ctx).Query(ctx, query, int64(id))
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[eventRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	events := []entities.Event{eventToDomain(row)}
	if err := r.attachMembers(ctx, events); err != nil {
		return nil, err
	}
	return &events[0], nil
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	return r.findOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
}

func (r *EventRepository) FindByIDForUpdate(ctx context.Context, id uint) (*entities.Event, error) {
	return r.findOne(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1 FOR UPDATE`, id)
}

func (r *EventRepository) list(ctx context.Context, query string, args ...any) ([]entities.Event, error) {
	rows, _ := r.q(ctx).Query(ctx, query, args...)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[eventRow])
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	events := collect(list, eventToDomain)
	if err := r.attachMembers(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) List(ctx context.Context, skip, limit int) ([]entities.Event, error) {
	return r.list(ctx, `SELECT `+eventColumns+` FROM events ORDER BY id OFFSET $1 LIMIT NULLIF($2::int, 0)`, skip, limit)
}

func (r *EventRepository) ListForUser(ctx context.Context, userID uint, skip, limit int) ([]entities.Event, error) {
	return r.list(ctx, `
		SELECT `+eventColumns+` FROM events e
		WHERE e.owner_id = $1
		   OR EXISTS (SELECT 1 FROM event_members m WHERE m.event_id = e.id AND m.user_id = $1)
		ORDER BY e.id OFFSET $2 LIMIT NULLIF($3::int, 0)`,
		int64(userID), skip, limit)
}

// attachMembers loads the role sets of events with a single query.
func (r *EventRepository) attachMembers(ctx context.Context, events []entities.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]int64, len(events))
	index := make(map[uint]int, len(events))
	for i, e := range events {
		ids[i] = int64(e.ID)
		index[e.ID] = i
	}
	rows, _ := r.q(ctx).Query(ctx,
		`SELECT event_id, user_id, role FROM event_members WHERE event_id = ANY($1)`, ids)
	members, err := pgx.CollectRows(rows, pgx.RowToStructByName[memberRow])
	if err != nil {
		return fmt.Errorf("list event members: %w", err)
	}
	for _, m := range members {
		e := &events[index[uint(m.EventID)]]
		if set := e.Members(entities.Role(m.Role)); set != nil {
			set.Add(uint(m.UserID))
		}
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE events SET name = $2, description = $3, updated_at = $4 WHERE id = $1`,
		int64(event.ID), event.Name, event.Description, event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) AddMember(ctx context.Context, eventID, userID uint, role entities.Role) error {
	_, err := r.q(ctx).Exec(ctx,
		`INSERT INTO event_members (event_id, user_id, role) VALUES ($1, $2, $3)`,
		int64(eventID), int64(userID), string(role))
	switch code, constraint := pgError(err); {
	case code == uniqueViolation && role == entities.RoleParticipant:
		return domain.ErrAlreadyParticipant
	case code == uniqueViolation:
		return domain.ErrAlreadyModerator
	case code == foreignKeyViolation && constraint == "event_members_user_id_fkey":
		return domain.ErrUserNotFound
	case code == foreignKeyViolation:
		return domain.ErrEventNotFound
	case err != nil:
		return fmt.Errorf("add event member: %w", err)
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for polls, memberships and grants.
func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM events WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
