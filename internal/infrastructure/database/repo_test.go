package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"eventpoll/internal/domain"
	"eventpoll/internal/domain/entities"
)

// setupTestDB migrates TEST_DATABASE_URL and empties every table.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := RunMigrations(dsn, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	ctx := context.Background()
	pool, err := NewPool(ctx, dsn, logger)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, `TRUNCATE answers, answer_options, polls, access_grants, event_members, events, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

type fixture struct {
	users   *UserRepository
	events  *EventRepository
	grants  *AccessGrantRepository
	polls   *PollRepository
	options *AnswerOptionRepository
	answers *AnswerRepository
	tx      *Transactor
}

func newFixture(pool *pgxpool.Pool) fixture {
	return fixture{
		users:   NewUserRepository(pool),
		events:  NewEventRepository(pool),
		grants:  NewAccessGrantRepository(pool),
		polls:   NewPollRepository(pool),
		options: NewAnswerOptionRepository(pool),
		answers: NewAnswerRepository(pool),
		tx:      NewTransactor(pool),
	}
}

func (f fixture) user(t *testing.T, email string) *entities.User {
	t.Helper()
	now := time.Now().UTC()
	u := &entities.User{Email: email, PasswordHash: "x", IsActive: true, CreatedAt: now, UpdatedAt: now}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserEmailIsUniqueCaseInsensitive(t *testing.T) {
	f := newFixture(setupTestDB(t))
	f.user(t, "ann@example.com")
	err := f.users.Create(context.Background(), &entities.User{Email: "ANN@example.com", PasswordHash: "x"})
	if !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := f.users.FindByEmail(context.Background(), "Ann@Example.com"); err != nil {
		t.Fatalf("find by email: %v", err)
	}
}

func TestEventMembersAndGrants(t *testing.T) {
	f := newFixture(setupTestDB(t))
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	p := f.user(t, "p@example.com")
	now := time.Now().UTC()

	event := &entities.Event{Name: "E", OwnerID: owner.ID, CreatedAt: now, UpdatedAt: now}
	if err := f.events.Create(ctx, event); err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := f.events.AddMember(ctx, event.ID, p.ID, entities.RoleParticipant); err != nil {
		t.Fatalf("add member: %v", err)
	}
	if err := f.events.AddMember(ctx, event.ID, p.ID, entities.RoleParticipant); !errors.Is(err, domain.ErrAlreadyParticipant) {
		t.Fatalf("expected ErrAlreadyParticipant, got %v", err)
	}
	if err := f.events.AddMember(ctx, event.ID, 999, entities.RoleVotingModerator); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err := f.grants.Create(ctx, &entities.AccessGrant{EventID: event.ID, GivenByID: owner.ID, ReceivedByID: p.ID, GrantedAt: now}); err != nil {
		t.Fatalf("create grant: %v", err)
	}

	got, err := f.events.FindByID(ctx, event.ID)
	if err != nil {
		t.Fatalf("find event: %v", err)
	}
	if !got.Participants.Has(p.ID) || got.AccessModerators.Has(p.ID) {
		t.Fatalf("unexpected role sets %+v", got)
	}
	mine, _ := f.events.ListForUser(ctx, p.ID, 0, 0)
	if len(mine) != 1 {
		t.Fatalf("expected 1 event for member, got %d", len(mine))
	}
	grants, _ := f.grants.ListByEventID(ctx, event.ID, entities.AccessGrantFilter{GivenByID: owner.ID})
	if len(grants) != 1 || grants[0].ReceivedByID != p.ID {
		t.Fatalf("unexpected grants %+v", grants)
	}

	if err := f.events.Delete(ctx, event.ID); err != nil {
		t.Fatalf("delete event: %v", err)
	}
	grants, _ = f.grants.ListByEventID(ctx, event.ID, entities.AccessGrantFilter{})
	if len(grants) != 0 {
		t.Fatalf("grants should cascade, got %d", len(grants))
	}
}

func TestAnswerConstraints(t *testing.T) {
	f := newFixture(setupTestDB(t))
	ctx := context.Background()
	owner := f.user(t, "owner@example.com")
	now := time.Now().UTC()
	event := &entities.Event{Name: "E", OwnerID: owner.ID, CreatedAt: now, UpdatedAt: now}
	f.events.Create(ctx, event)
	poll := &entities.Poll{EventID: event.ID, OwnerID: owner.ID, Question: "Q", IsRunning: true, StopAt: now.Add(time.Hour), StartedAt: now, CreatedAt: now, UpdatedAt: now}
	if err := f.polls.Create(ctx, poll); err != nil {
		t.Fatalf("create poll: %v", err)
	}
	opt := &entities.AnswerOption{PollID: poll.ID, Text: "A"}
	if err := f.options.Create(ctx, opt); err != nil {
		t.Fatalf("create option: %v", err)
	}

	a := &entities.Answer{PollID: poll.ID, OwnerID: owner.ID, AnswerOptionID: opt.ID, CreatedAt: now, UpdatedAt: now}
	if err := f.answers.Create(ctx, a); err != nil {
		t.Fatalf("create answer: %v", err)
	}
	dup := &entities.Answer{PollID: poll.ID, OwnerID: owner.ID, AnswerOptionID: opt.ID, CreatedAt: now, UpdatedAt: now}
	if err := f.answers.Create(ctx, dup); !errors.Is(err, domain.ErrAnswerExists) {
		t.Fatalf("expected ErrAnswerExists, got %v", err)
	}
	if err := f.options.Delete(ctx, opt.ID); !errors.Is(err, domain.ErrAnswerOptionInUse) {
		t.Fatalf("expected ErrAnswerOptionInUse, got %v", err)
	}

	expired, err := f.polls.FindExpiredRunning(ctx, now.Add(2*time.Hour))
	if err != nil || len(expired) != 1 {
		t.Fatalf("expected 1 expired poll, got %d (%v)", len(expired), err)
	}
	got, _ := f.polls.FindByID(ctx, poll.ID)
	if !got.StopAt.Equal(poll.StopAt.Truncate(time.Microsecond)) || got.StartedAt.IsZero() {
		t.Fatalf("timestamps not round-tripped: %+v", got)
	}

	if err := f.polls.Delete(ctx, poll.ID); err != nil {
		t.Fatalf("delete poll: %v", err)
	}
	if _, err := f.answers.FindByID(ctx, a.ID); !errors.Is(err, domain.ErrAnswerNotFound) {
		t.Fatalf("answer should cascade, got %v", err)
	}
}

func TestTransactorRollsBack(t *testing.T) {
	f := newFixture(setupTestDB(t))
	ctx := context.Background()
	boom := errors.New("boom")

	err := f.tx.WithinTx(ctx, func(ctx context.Context) error {
		now := time.Now().UTC()
		if err := f.users.Create(ctx, &entities.User{Email: "tmp@example.com", PasswordHash: "x", CreatedAt: now, UpdatedAt: now}); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if _, err := f.users.FindByEmail(ctx, "tmp@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("insert should be rolled back, got %v", err)
	}
}
