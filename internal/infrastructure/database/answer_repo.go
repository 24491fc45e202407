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

var _ output.AnswerRepository = (*AnswerRepository)(nil)

const answerColumns = `id, poll_id, owner_id, answer_option_id, created_at, updated_at`

type AnswerRepository struct {
	db
}

func NewAnswerRepository(pool *pgxpool.Pool) *AnswerRepository {
	return &AnswerRepository{db{pool}}
}

func (r *AnswerRepository) Create(ctx context.Context, answer *entities.Answer) error {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO answers (poll_id, owner_id, answer_option_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		int64(answer.PollID), int64(answer.OwnerID), int64(answer.AnswerOptionID), answer.CreatedAt, answer.UpdatedAt,
	).Scan(&id)
	switch code, constraint := pgError(err); {
	case code == uniqueViolation:
		return domain.ErrAnswerExists
	case code == foreignKeyViolation && constraint == "answers_answer_option_id_fkey":
		return domain.ErrAnswerOptionNotFound
	case code == foreignKeyViolation && constraint == "answers_poll_id_fkey":
		return domain.ErrPollNotFound
	case code == foreignKeyViolation:
		return domain.ErrUserNotFound
	case err != nil:
		return fmt.Errorf("create answer: %w", err)
	}
	answer.ID = uint(id)
	return nil
}

func (r *AnswerRepository) findOne(ctx context.Context, query string, args ...any) (*entities.Answer, error) {
	rows, _ := r.q(ctx).Query(ctx, query, args...)
	row, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[answerRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrAnswerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get answer: %w", err)
	}
	a := answerToDomain(row)
	return &a, nil
}

func (r *AnswerRepository) FindByID(ctx context.Context, id uint) (*entities.Answer, error) {
	return r.findOne(ctx, `SELECT `+answerColumns+` FROM answers WHERE id = $1`, int64(id))
}

func (r *AnswerRepository) FindLatest(ctx context.Context, pollID, ownerID uint) (*entities.Answer, error) {
	return r.findOne(ctx, `
		SELECT `+answerColumns+` FROM answers
		WHERE poll_id = $1 AND owner_id = $2
		ORDER BY created_at DESC, id DESC
		LIMIT 1`, int64(pollID), int64(ownerID))
}

func (r *AnswerRepository) list(ctx context.Context, query string, args ...any) ([]entities.Answer, error) {
	rows, _ := r.q(ctx).Query(ctx, query, args...)
	list, err := pgx.CollectRows(rows, pgx.RowToStructByName[answerRow])
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	return collect(list, answerToDomain), nil
}

func (r *AnswerRepository) ListByPollID(ctx context.Context, pollID uint) ([]entities.Answer, error) {
	return r.list(ctx, `SELECT `+answerColumns+` FROM answers WHERE poll_id = $1 ORDER BY id`, int64(pollID))
}

func (r *AnswerRepository) ListByEventID(ctx context.Context, eventID uint) ([]entities.Answer, error) {
	return r.list(ctx, `
		SELECT a.id, a.poll_id, a.owner_id, a.answer_option_id, a.created_at, a.updated_at
		FROM answers a JOIN polls p ON p.id = a.poll_id
		WHERE p.event_id = $1
		ORDER BY a.id`, int64(eventID))
}

func (r *AnswerRepository) List(ctx context.Context, skip, limit int) ([]entities.Answer, error) {
	return r.list(ctx, `SELECT `+answerColumns+` FROM answers ORDER BY id OFFSET $1 LIMIT NULLIF($2::int, 0)`, skip, limit)
}

func (r *AnswerRepository) CountByOptionID(ctx context.Context, optionID uint) (int64, error) {
	var n int64
	err := r.q(ctx).QueryRow(ctx, `SELECT count(*) FROM answers WHERE answer_option_id = $1`, int64(optionID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count answers: %w", err)
	}
	return n, nil
}

func (r *AnswerRepository) Update(ctx context.Context, answer *entities.Answer) error {
	tag, err := r.q(ctx).Exec(ctx,
		`UPDATE answers SET answer_option_id = $2, updated_at = $3 WHERE id = $1`,
		int64(answer.ID), int64(answer.AnswerOptionID), answer.UpdatedAt)
	if code, _ := pgError(err); code == foreignKeyViolation {
		return domain.ErrAnswerOptionNotFound
	}
	if err != nil {
		return fmt.Errorf("update answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}

func (r *AnswerRepository) Delete(ctx context.Context, id uint) error {
	tag, err := r.q(ctx).Exec(ctx, `DELETE FROM answers WHERE id = $1`, int64(id))
	if err != nil {
		return fmt.Errorf("delete answer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnswerNotFound
	}
	return nil
}
