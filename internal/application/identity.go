package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/input"
	"eventpoll/internal/ports/output"
)

var _ input.IdentityUseCase = (*IdentityService)(nil)

type IdentityService struct {
	users    output.UserRepository
	hasher   output.PasswordHasher
	tokens   output.TokenIssuer
	notifier output.Notifier
	clock    output.Clock
	logger   *slog.Logger

	pending sync.WaitGroup
}

// NewIdentityService builds the identity store. notifier may be nil.
func NewIdentityService(
	users output.UserRepository,
	hasher output.PasswordHasher,
	tokens output.TokenIssuer,
	notifier output.Notifier,
	clock output.Clock,
	logger *slog.Logger,
) *IdentityService {
	return &IdentityService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		clock:    clockOrSystem(clock),
		logger:   loggerOrDefault(logger),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *IdentityService) create(ctx context.Context, in input.RegisterUser) (*entities.User, error) {
	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, domain.ErrMissingField
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := s.clock.Now()
	user := &entities.User{
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		IsActive:     true,
		IsSuperuser:  in.IsSuperuser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Register is open sign-up; the superuser flag is ignored.
func (s *IdentityService) Register(ctx context.Context, in input.RegisterUser) (*entities.User, error) {
	in.IsSuperuser = false
	user, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// CreateUser is the superuser path. The account notification is sent in the
// background and its failure never fails the call.
func (s *IdentityService) CreateUser(ctx context.Context, actor *entities.User, in input.RegisterUser) (*entities.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsSuperuser {
		return nil, domain.ErrSuperuserRequired
	}
	user, err := s.create(ctx, in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", user.ID, "actor_id", actor.ID, "superuser", user.IsSuperuser)

	if s.notifier != nil {
		notifyCtx := context.WithoutCancel(ctx)
		created := *user
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			if err := s.notifier.AccountCreated(notifyCtx, created); err != nil {
				s.logger.Warn("account notification failed", "user_id", created.ID, "error", err)
			}
		}()
	}
	return user, nil
}

// Wait blocks until background notifications have finished.
func (s *IdentityService) Wait() {
	s.pending.Wait()
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrUserNotFound) {
		return "", domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return "", domain.ErrInactiveUser
	}
	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

func (s *IdentityService) Authenticate(ctx context.Context, token string) (*entities.User, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, domain.ErrUserNotFound) {
		return nil, domain.ErrInvalidToken
	}
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, domain.ErrInactiveUser
	}
	return user, nil
}

func (s *IdentityService) GetUser(ctx context.Context, actor *entities.User, id uint) (*entities.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if actor.ID == id {
		return actor, nil
	}
	if !actor.IsSuperuser {
		return nil, domain.ErrNotEnoughPermissions
	}
	return s.users.FindByID(ctx, id)
}

func (s *IdentityService) ListUsers(ctx context.Context, actor *entities.User, skip, limit int) ([]entities.User, error) {
	if err := requireActor(actor); err != nil {
		return nil, err
	}
	if !actor.IsSuperuser {
		return nil, domain.ErrSuperuserRequired
	}
	return s.users.List(ctx, skip, pageLimit(limit))
}

// EnsureSuperuser seeds the first superuser once; an existing account is left untouched.
func (s *IdentityService) EnsureSuperuser(ctx context.Context, email, password string) error {
	_, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("find superuser: %w", err)
	}
	user, err := s.create(ctx, input.RegisterUser{Email: email, Password: password, IsSuperuser: true})
	if err != nil {
		return fmt.Errorf("create superuser: %w", err)
	}
	s.logger.Info("superuser seeded", "user_id", user.ID)
	return nil
}
