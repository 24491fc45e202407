package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var (
	_ output.PollRepository         = (*PollRepository)(nil)
	_ output.AnswerOptionRepository = (*AnswerOptionRepository)(nil)
)

const pollColumns = `id, event_id, owner_id, question, is_running, stop_at, started_at, created_at, updated_at`

type PollRepository struct {
	db
}

func NewPollRepository(pool *pgxpool.Pool) *PollRepository {
	return &PollRepository{db{pool}}
}

func (r *PollRepository) Create(ctx context.Context, poll *entities.Poll) error {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO polls (event_id, owner_id, question, is_running, stop_at, started_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		int64(poll.EventID), int64(poll.OwnerID), poll.Question, poll.IsRunning,
		timeToPgtypeTimestamptz(poll.StopAt), timeToPgtypeTimestamptz(poll.StartedAt),
		poll.CreatedAt, poll.UpdatedAt,
	).Scan(&id)
	switch code, constraint := pgError(err); {
	case code == foreignKeyViolation && constraint == "polls_event_id_fkey":
		return domain.ErrEventNotFound
	case code == foreignKeyViolation:
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("create poll: %w", err)
	}
	poll.ID = uint(id)
	return nil
}

func (r *PollRepository) findOne(ctx context.Context, query string, id uint) (*entities.Poll, error) {
	rows, _ := r.q(ctx).Query(ctx, query, int64(id))
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[pollRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPollNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get poll: %w", err)
	}
	p := pollToDomain(row)
	return &p, nil
}

func (r *PollRepository) FindByID(ctx context.Context, id uint) (*entities.Poll, error) {
	return r.findOne(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, id)
}

// FindByIDForUpdate serializes votes and option edits on the same poll.
func (r *PollRepository) FindByIDForUpdate(ctx context.Context, id uint) (*entities.Poll, error) {
	return r.findOne(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1 FOR UPDATE`, id)
}

func (r *PollRepository) list(ctx context.Context, query string, args ...any) ([]entities.Poll, error) {
	rows, _ := r.q(ctx).Query(ctx, query, args...)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[pollRow])
	if err != nil {
		return nil, fmt.Errorf("list polls: %w", err)
	}
	return collect(list, pollToDomain), nil
}

func (r *PollRepository) ListByEventID(ctx context.Context, eventID uint) ([]entities.Poll, error) {
	return r.list(ctx, `SELECT `+pollColumns+` FROM polls WHERE event_id = $1 ORDER BY id`, int64(eventID))
}

func (r *PollRepository) FindExpiredRunning(ctx context.Context, now time.Time) ([]entities.Poll, error) {
	return r.list(ctx, `SELECT `+pollColumns+` FROM polls WHERE is_running AND stop_at <= $1 ORDER BY id`, now)
}

func (r *PollRepository) Update(ctx context.Context, poll *entities.Poll) error {
	tag, err := r.q(ctx).Exec(ctx, `
		UPDATE polls
		SET question = $2, is_running = $3, stop_at = $4, started_at = $5, updated_at = $6
		WHERE id = $1`,
		int64(poll.ID), poll.Question, poll.IsRunning,
		timeToPgtypeTimestamptz(poll.StopAt), timeToPgtypeTimestamptz(poll.StartedAt), poll.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

func (r *PollRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM polls WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete poll: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPollNotFound
	}
	return nil
}

type AnswerOptionRepository struct {
	db
}

func NewAnswerOptionRepository(pool *pgxpool.Pool) *AnswerOptionRepository {
	return &AnswerOptionRepository{db{pool}}
}

func (r *AnswerOptionRepository) Create(ctx context.Context, option *entities.AnswerOption) error {
	var id int64
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO answer_options (poll_id, text) VALUES ($1, $2) RETURNING id`,
		int64(option.PollID), option.Text,
	).Scan(&id)
	if code, _ := pgError(err); code == foreignKeyViolation {
		return domain.ErrPollNotFound
	}
	if err != nil {
		return fmt.Errorf("create answer option: %w", err)
	}
	option.ID = uint(id)
	return nil
}

func (r *AnswerOptionRepository) FindByID(ctx context.Context, id uint) (*entities.AnswerOption, error) {
	rows, _ := r.q(ctx).Query(ctx, `SELECT id, poll_id, text FROM answer_options WHERE id = $1`, int64(id))
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[answerOptionRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnswerOptionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get answer option: %w", err)
	}
	o := answerOptionToDomain(row)
	return &o, nil
}

func (r *AnswerOptionRepository) list(ctx context.Context, query string, id uint) ([]entities.AnswerOption, error) {
	rows, _ := r.q(ctx).Query(ctx, query, int64(id))
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[answerOptionRow])
	if err != nil {
		return nil, fmt.Errorf("list answer options: %w", err)
	}
	return collect(list, answerOptionToDomain), nil
}

func (r *AnswerOptionRepository) ListByPollID(ctx context.Context, pollID uint) ([]entities.AnswerOption, error) {
	return r.list(ctx, `SELECT id, poll_id, text FROM answer_options WHERE poll_id = $1 ORDER BY id`, pollID)
}

func (r *AnswerOptionRepository) ListByEventID(ctx context.Context, eventID uint) ([]entities.AnswerOption, error) {
	return r.list(ctx, `
		SELECT o.id, o.poll_id, o.text
		FROM answer_options o JOIN polls p ON p.id = o.poll_id
		WHERE p.event_id = $1
		ORDER BY o.id`, eventID)
}

func (r *AnswerOptionRepository) Update(ctx context.Context, option *entities.AnswerOption) error {
	tag, err := r.q(ctx).Exec(ctx, `UPDATE answer_options SET text = $2 WHERE id = $1`, int64(option.ID), option.Text)
	if err != nil {
		return fmt.Errorf("update answer option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnswerOptionNotFound
	}
	return nil
}

func (r *AnswerOptionRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM answer_options WHERE id = $1`, int64(id))
	if code, _ := pgError(err); code == foreignKeyViolation {
		return domain.ErrAnswerOptionInUse
	}
	if err != nil {
		return fmt.Errorf("delete answer option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnswerOptionNotFound
	}
	return nil
}
