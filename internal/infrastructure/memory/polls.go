package memory

import (
	"context"
	"time"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var (
	_ output.PollRepository         = (*PollRepository)(nil)
	_ output.AnswerOptionRepository = (*AnswerOptionRepository)(nil)
)

// deletePoll removes a poll with its options and answers.
func (st *state) deletePoll(id uint) {
	for aid, a := range st.answers {
		if a.PollID == id {
			delete(st.answers, aid)
		}
	}
	for oid, o := range st.options {
		if o.PollID == id {
			delete(st.options, oid)
		}
	}
	delete(st.polls, id)
}

type PollRepository struct{ s *Store }

func (r *PollRepository) Create(ctx context.Context, poll *entities.Poll) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.events[poll.EventID]; !ok {
			return domain.ErrEventNotFound
		}
		st.nextPoll++
		poll.ID = st.nextPoll
		st.polls[poll.ID] = *poll
		return nil
	})
}

func (r *PollRepository) FindByID(ctx context.Context, id uint) (*entities.Poll, error) {
	var out *entities.Poll
	err := r.s.read(ctx, func(st *state) error {
		p, ok := st.polls[id]
		if !ok {
			return domain.ErrPollNotFound
		}
		out = &p
		return nil
	})
	return out, err
}

// FindByIDForUpdate needs no extra locking: transactions are already serialized.
func (r *PollRepository) FindByIDForUpdate(ctx context.Context, id uint) (*entities.Poll, error) {
	return r.FindByID(ctx, id)
}

func (r *PollRepository) polls(ctx context.Context, keep func(entities.Poll) bool) ([]entities.Poll, error) {
	out := []entities.Poll{}
	err := r.s.read(ctx, func(st *state) error {
		for _, id := range sortedKeys(st.polls) {
			if p := st.polls[id]; keep(p) {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

func (r *PollRepository) ListByEventID(ctx context.Context, eventID uint) ([]entities.Poll, error) {
	return r.polls(ctx, func(p entities.Poll) bool { return p.EventID == eventID })
}

func (r *PollRepository) FindExpiredRunning(ctx context.Context, now time.Time) ([]entities.Poll, error) {
	return r.polls(ctx, func(p entities.Poll) bool {
		return p.IsRunning && !p.StopAt.IsZero() && !p.StopAt.After(now)
	})
}

func (r *PollRepository) Update(ctx context.Context, poll *entities.Poll) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.polls[poll.ID]; !ok {
			return domain.ErrPollNotFound
		}
		st.polls[poll.ID] = *poll
		return nil
	})
}

func (r *PollRepository) Delete(ctx context.Context, id uint) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.polls[id]; !ok {
			return domain.ErrPollNotFound
		}
		st.deletePoll(id)
		return nil
	})
}

type AnswerOptionRepository struct{ s *Store }

func (r *AnswerOptionRepository) Create(ctx context.Context, option *entities.AnswerOption) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.polls[option.PollID]; !ok {
			return domain.ErrPollNotFound
		}
		st.nextOption++
		option.ID = st.nextOption
		st.options[option.ID] = *option
		return nil
	})
}

func (r *AnswerOptionRepository) FindByID(ctx context.Context, id uint) (*entities.AnswerOption, error) {
	var out *entities.AnswerOption
	err := r.s.read(ctx, func(st *state) error {
		o, ok := st.options[id]
		if !ok {
			return domain.ErrAnswerOptionNotFound
		}
		out = &o
		return nil
	})
	return out, err
}

func (r *AnswerOptionRepository) options(ctx context.Context, keep func(*state, entities.AnswerOption) bool) ([]entities.AnswerOption, error) {
	out := []entities.AnswerOption{}
	err := r.s.read(ctx, func(st *state) error {
		for _, id := range sortedKeys(st.options) {
			if o := st.options[id]; keep(st, o) {
				out = append(out, o)
			}
		}
		return nil
	})
	return out, err
}

func (r *AnswerOptionRepository) ListByPollID(ctx context.Context, pollID uint) ([]entities.AnswerOption, error) {
	return r.options(ctx, func(_ *state, o entities.AnswerOption) bool { return o.PollID == pollID })
}

func (r *AnswerOptionRepository) ListByEventID(ctx context.Context, eventID uint) ([]entities.AnswerOption, error) {
	return r.options(ctx, func(st *state, o entities.AnswerOption) bool {
		return st.polls[o.PollID].EventID == eventID
	})
}

func (r *AnswerOptionRepository) Update(ctx context.Context, option *entities.AnswerOption) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.options[option.ID]; !ok {
			return domain.ErrAnswerOptionNotFound
		}
		st.options[option.ID] = *option
		return nil
	})
}

// Delete refuses options that answers still reference, like the ON DELETE RESTRICT key.
func (r *AnswerOptionRepository) Delete(ctx context.Context, id uint) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.options[id]; !ok {
			return domain.ErrAnswerOptionNotFound
		}
		for _, a := range st.answers {
			if a.AnswerOptionID == id {
				return domain.ErrAnswerOptionInUse
			}
		}
		delete(st.options, id)
		return nil
	})
}
