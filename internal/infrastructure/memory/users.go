package memory

import (
	"context"
	"strings"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var _ output.UserRepository = (*UserRepository)(nil)

type UserRepository struct{ s *Store }

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	return r.s.write(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return domain.ErrEmailTaken
			}
		}
		st.nextUser++
		user.ID = st.nextUser
		st.users[user.ID] = *user
		return nil
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id uint) (*entities.User, error) {
	var out *entities.User
	err := r.s.read(ctx, func(st *state) error {
		u, ok := st.users[id]
		if !ok {
			return domain.ErrUserNotFound
		}
		out = &u
		return nil
	})
	return out, err
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	var out *entities.User
	err := r.s.read(ctx, func(st *state) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				out = &u
				return nil
			}
		}
		return domain.ErrUserNotFound
	})
	return out, err
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]entities.User, error) {
	var out []entities.User
	err := r.s.read(ctx, func(st *state) error {
		out = make([]entities.User, 0, len(st.users))
		for _, id := range sortedKeys(st.users) {
			out = append(out, st.users[id])
		}
		out = page(out, skip, limit)
		return nil
	})
	return out, err
}
