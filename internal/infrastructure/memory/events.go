package memory

import (
	"context"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var (
	_ output.EventRepository       = (*EventRepository)(nil)
	_ output.AccessGrantRepository = (*AccessGrantRepository)(nil)
)

var eventRoles = []entities.Role{entities.RoleParticipant, entities.RoleAccessModerator, entities.RoleVotingModerator}

// loadEvent hydrates the role sets of a stored event.
func (st *state) loadEvent(id uint) (*entities.Event, bool) {
	e, ok := st.events[id]
	if !ok {
		return nil, false
	}
	e.Participants = entities.NewUserSet()
	e.AccessModerators = entities.NewUserSet()
	e.VotingModerators = entities.NewUserSet()
	for k := range st.members {
		if k.eventID == id {
			e.Members(k.role).Add(k.userID)
		}
	}
	return &e, true
}

type EventRepository struct{ s *Store }

func (r *EventRepository) Create(ctx context.Context, event *entities.Event) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.users[event.OwnerID]; !ok {
			return domain.ErrUserNotFound
		}
		st.nextEvent++
		event.ID = st.nextEvent
		stored := *event
		stored.Participants, stored.AccessModerators, stored.VotingModerators = nil, nil, nil
		st.events[event.ID] = stored
		for _, role := range eventRoles {
			for id := range event.Members(role) {
				st.members[memberKey{event.ID, id, role}] = struct{}{}
			}
		}
		return nil
	})
}

func (r *EventRepository) FindByID(ctx context.Context, id uint) (*entities.Event, error) {
	var out *entities.Event
	err := r.s.read(ctx, func(st *state) error {
		e, ok := st.loadEvent(id)
		if !ok {
			return domain.ErrEventNotFound
		}
		out = e
		return nil
	})
	return out, err
}

// FindByIDForUpdate needs no extra locking: transactions are already serialized.
func (r *EventRepository) FindByIDForUpdate(ctx context.Context, id uint) (*entities.Event, error) {
	return r.FindByID(ctx, id)
}

func (r *EventRepository) events(ctx context.Context, keep func(*entities.Event) bool, skip, limit int) ([]entities.Event, error) {
	out := []entities.Event{}
	err := r.s.read(ctx, func(st *state) error {
		for _, id := range sortedKeys(st.events) {
			if e, _ := st.loadEvent(id); keep(e) {
				out = append(out, *e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page(out, skip, limit), nil
}

func (r *EventRepository) List(ctx context.Context, skip, limit int) ([]entities.Event, error) {
	return r.events(ctx, func(*entities.Event) bool { return true }, skip, limit)
}

func (r *EventRepository) ListForUser(ctx context.Context, userID uint, skip, limit int) ([]entities.Event, error) {
	return r.events(ctx, func(e *entities.Event) bool {
		return e.OwnerID == userID || e.HasMember(userID)
	}, skip, limit)
}

func (r *EventRepository) Update(ctx context.Context, event *entities.Event) error {
	return r.s.write(ctx, func(st *state) error {
		cur, ok := st.events[event.ID]
		if !ok {
			return domain.ErrEventNotFound
		}
		cur.Name = event.Name
		cur.Description = event.Description
		cur.UpdatedAt = event.UpdatedAt
		st.events[event.ID] = cur
		return nil
	})
}

func (r *EventRepository) AddMember(ctx context.Context, eventID, userID uint, role entities.Role) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.events[eventID]; !ok {
			return domain.ErrEventNotFound
		}
		if _, ok := st.users[userID]; !ok {
			return domain.ErrUserNotFound
		}
		key := memberKey{eventID, userID, role}
		if _, dup := st.members[key]; dup {
			if role == entities.RoleParticipant {
				return domain.ErrAlreadyParticipant
			}
			return domain.ErrAlreadyModerator
		}
		st.members[key] = struct{}{}
		return nil
	})
}

func (r *EventRepository) Delete(ctx context.Context, id uint) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.events[id]; !ok {
			return domain.ErrEventNotFound
		}
		for pid, p := range st.polls {
			if p.EventID == id {
				st.deletePoll(pid)
			}
		}
		for k := range st.members {
			if k.eventID == id {
				delete(st.members, k)
			}
		}
		kept := make([]entities.AccessGrant, 0, len(st.grants))
		for _, g := range st.grants {
			if g.EventID != id {
				kept = append(kept, g)
			}
		}
		st.grants = kept
		delete(st.events, id)
		return nil
	})
}

type AccessGrantRepository struct{ s *Store }

func (r *AccessGrantRepository) Create(ctx context.Context, grant *entities.AccessGrant) error {
	return r.s.write(ctx, func(st *state) error {
		if _, ok := st.events[grant.EventID]; !ok {
			return domain.ErrEventNotFound
		}
		st.nextGrant++
		grant.ID = st.nextGrant
		st.grants = append(st.grants, *grant)
		return nil
	})
}

// ListByEventID returns grants in insertion order, which is grant time order.
func (r *AccessGrantRepository) ListByEventID(ctx context.Context, eventID uint, filter entities.AccessGrantFilter) ([]entities.AccessGrant, error) {
	out := []entities.AccessGrant{}
	err := r.s.read(ctx, func(st *state) error {
		for _, g := range st.grants {
			if g.EventID != eventID {
				continue
			}
			if filter.GivenByID != 0 && g.GivenByID != filter.GivenByID {
				continue
			}
			if filter.ReceivedByID != 0 && g.ReceivedByID != filter.ReceivedByID {
				continue
			}
			out = append(out, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return page(out, filter.Skip, filter.Limit), nil
}
