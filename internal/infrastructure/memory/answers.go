package memory

import (
	"context"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var _ output.AnswerRepository = (*AnswerRepository)(nil)

type AnswerRepository struct{ s *Store }

// Create enforces the (poll_id, owner_id) unique index.
func (r *AnswerRepository) Create(ctx context.Context, answer *entities.Answer) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.options[answer.AnswerOptionID]; !ok {
			return domain.ErrAnswerOptionNotFound
		}
		for _, a := range st.answers {
			if a.PollID == answer.PollID && a.OwnerID == answer.OwnerID {
				return domain.ErrAnswerExists
			}
		}
		st.nextAnswer++
		answer.ID = st.nextAnswer
		st.answers[answer.ID] = *answer
		return nil
	})
}

func (r *AnswerRepository) FindByID(ctx context.Context, id uint) (*entities.Answer, error) {
	var out *entities.Answer
	err := r.s.read(ctx, func(st *state) error {
		a, ok := st.answers[id]
		if !ok {
			return domain.ErrAnswerNotFound
		}
		out = &a
		return nil
	})
	return out, err
}

func (r *AnswerRepository) FindLatest(ctx context.Context, pollID, ownerID uint) (*entities.Answer, error) {
	var latest *entities.Answer
	err := r.s.read(ctx, func(st *state) error {
		for _, id := range sortedKeys(st.answers) {
			a := st.answers[id]
			if a.PollID != pollID || a.OwnerID != ownerID {
				continue
			}
			if latest == nil || !a.CreatedAt.Before(latest.CreatedAt) {
				latest = &a
			}
		}
		if latest == nil {
			return domain.ErrAnswerNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return latest, nil
}

func (r *AnswerRepository) answers(ctx context.Context, keep func(*state, entities.Answer) bool) ([]entities.Answer, error) {
	out := []entities.Answer{}
	err := r.s.read(ctx, func(st *state) error {
		for _, id := range sortedKeys(st.answers) {
			if a := st.answers[id]; keep(st, a) {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

func (r *AnswerRepository) ListByPollID(ctx context.Context, pollID uint) ([]entities.Answer, error) {
	return r.answers(ctx, func(_ *state, a entities.Answer) bool { return a.PollID == pollID })
}

func (r *AnswerRepository) ListByEventID(ctx context.Context, eventID uint) ([]entities.Answer, error) {
	return r.answers(ctx, func(st *state, a entities.Answer) bool {
		return st.polls[a.PollID].EventID == eventID
	})
}

func (r *AnswerRepository) List(ctx context.Context, skip, limit int) ([]entities.Answer, error) {
	all, err := r.answers(ctx, func(*state, entities.Answer) bool { return true })
	if err != nil {
		return nil, err
	}
	return page(all, skip, limit), nil
}

func (r *AnswerRepository) CountByOptionID(ctx context.Context, optionID uint) (int64, error) {
	var n int64
	err := r.s.read(ctx, func(st *state) error {
		for _, a := range st.answers {
			if a.AnswerOptionID == optionID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *AnswerRepository) Update(ctx context.Context, answer *entities.Answer) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.answers[answer.ID]; !ok {
			return domain.ErrAnswerNotFound
		}
		if _, ok := st.options[answer.AnswerOptionID]; !ok {
			return domain.ErrAnswerOptionNotFound
		}
		st.answers[answer.ID] = *answer
		return nil
	})
}

func (r *AnswerRepository) Delete(ctx context.Context, id uint) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.answers[id]; !ok {
			return domain.ErrAnswerNotFound
		}
		delete(st.answers, id)
		return nil
	})
}
