package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/input"
	"eventpoll/internal/ports/output"
)

var _ input.EventUseCase = (*EventService)(nil)

type EventService struct {
	repos  Repositories
	clock  output.Clock
	logger *slog.Logger
}

func NewEventService(repos Repositories, clock output.Clock, logger *slog.Logger) *EventService {
	return &EventService{
		repos:  repos,
		clock:  clockOrSystem(clock),
		logger: loggerOrDefault(logger),
	}
}

func (s *EventService) CreateEvent(ctx context.Context, actor *entities.User, name, description string) (*entities.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMissingField
	}
	now := s.clock.Now()
	event := &entities.Event{
		Name:        name,
		Description: description,
		OwnerID:     actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repos.Events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info("event created", "event_id", event.ID, "owner_id", actor.ID)
	return event, nil
}

// GetEvent is visible to the owner, superusers and anyone holding a role in the event.
func (s *EventService) GetEvent(ctx context.Context, actor *entities.User, id uint) (*entities.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event, err := s.repos.Events.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if domain.Resolve(actor, event).Empty() {
		return nil, domain.ErrNotEnoughPermissions
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, actor *entities.User, skip, limit int) ([]entities.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.IsSuperuser {
		return s.repos.Events.List(ctx, skip, pageLimit(limit))
	}
	return s.repos.Events.ListForUser(ctx, actor.ID, skip, pageLimit(limit))
}

// UpdateEvent changes metadata; an empty name keeps the current one.
func (s *EventService) UpdateEvent(ctx context.Context, actor *entities.User, id uint, name, description string) (*entities.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var event *entities.Event
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.repos.Events.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !domain.CanAdministerEvent(actor, event) {
			return domain.ErrNotEventAdmin
		}
		if name = strings.TrimSpace(name); name != "" {
			event.Name = name
		}
		event.Description = description
		event.UpdatedAt = s.clock.Now()
		return s.repos.Events.Update(ctx, event)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("event updated", "event_id", id, "actor_id", actor.ID)
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, actor *entities.User, id uint) error {
	if err := requireActor(actor); err != nil {
		return err
	}
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		event, err := s.repos.Events.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !domain.CanAdministerEvent(actor, event) {
			return domain.ErrNotEventAdmin
		}
		return s.repos.Events.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("event deleted", "event_id", id, "actor_id", actor.ID)
	return nil
}

// AddParticipant admits userID and records exactly one access grant in the same
// transaction. The owner already holds every role and is never listed.
func (s *EventService) AddParticipant(ctx context.Context, actor *entities.User, eventID, userID uint) (*entities.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	var event *entities.Event
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.repos.Events.FindByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if err := domain.Require(actor, event, domain.CanManageAccess); err != nil {
			return err
		}
		if _, err := s.repos.Users.FindByID(ctx, userID); err != nil {
			return err
		}
		if userID == event.OwnerID || !event.Members(entities.RoleParticipant).Add(userID) {
			return domain.ErrAlreadyParticipant
		}
		if err := s.repos.Events.AddMember(ctx, eventID, userID, entities.RoleParticipant); err != nil {
			return err
		}
		grant := &entities.AccessGrant{
			EventID:      eventID,
			GivenByID:    actor.ID,
			ReceivedByID: userID,
			GrantedAt:    s.clock.Now(),
		}
		if err := s.repos.AccessGrants.Create(ctx, grant); err != nil {
			return fmt.Errorf("record access grant: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("participant added", "event_id", eventID, "user_id", userID, "actor_id", actor.ID)
	return event, nil
}

// AddModerator is reserved to the owner and superusers; moderators cannot appoint moderators.
func (s *EventService) AddModerator(ctx context.Context, actor *entities.User, eventID, userID uint, kind entities.ModeratorKind) (*entities.Event, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	role, ok := kind.Role()
	if !ok {
		return nil, domain.ErrInvalidModeratorKind
	}
	var event *entities.Event
	err := s.repos.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.repos.Events.FindByIDForUpdate(ctx, eventID)
		if err != nil {
			return err
		}
		if !domain.CanAdministerEvent(actor, event) {
			return domain.ErrNotEventAdmin
		}
		if _, err := s.repos.Users.FindByID(ctx, userID); err != nil {
			return err
		}
		if userID == event.OwnerID || !event.Members(role).Add(userID) {
			return domain.ErrAlreadyModerator
		}
		return s.repos.Events.AddMember(ctx, eventID, userID, role)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("moderator added", "event_id", eventID, "user_id", userID, "role", string(role), "actor_id", actor.ID)
	return event, nil
}

// ListAccessLogs returns the grant ledger of an event in grant order.
func (s *EventService) ListAccessLogs(ctx context.Context, actor *entities.User, eventID uint, filter entities.AccessGrantFilter) ([]entities.AccessGrant, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	event, err := s.repos.Events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if err := domain.Require(actor, event, domain.CanManageAccess); err != nil {
		return nil, err
	}
	if err := s.checkFilterUser(ctx, filter.GivenByID, domain.ErrGivenByUserNotFound); err != nil {
		return nil, err
	}
	if err := s.checkFilterUser(ctx, filter.ReceivedByID, domain.ErrReceivedByNotFound); err != nil {
		return nil, err
	}
	filter.Limit = pageLimit(filter.Limit)
	return s.repos.AccessGrants.ListByEventID(ctx, eventID, filter)
}

func (s *EventService) checkFilterUser(ctx context.Context, id uint, missing error) error {
	if id == 0 {
		return nil
	}
	_, err := s.repos.Users.FindByID(ctx, id)
	if errors.Is(err, domain.ErrUserNotFound) {
		return missing
	}
	return err
}
