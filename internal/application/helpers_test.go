package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"eventpoll/internal/domain/entities"
	"eventpoll/internal/infrastructure/memory"
	"eventpoll/internal/ports/input"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type plainHasher struct{}

func (plainHasher) Hash(plain string) (string, error) { return "h:" + plain, nil }
func (plainHasher) Verify(plain, hash string) bool { return hash == "h:"+plain }

type fakeTokens struct{}

func (fakeTokens) Issue(userID uint) (string, error) { return fmt.Sprintf("tok-%d", userID), nil }

func (fakeTokens) Parse(token string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimPrefix(token, "tok-"), 10, 64)
	if err != nil || !strings.HasPrefix(token, "tok-") {
		return 0, errors.New("bad token")
	}
	return uint(id), nil
}

type recordingNotifier struct {
	mu    sync.Mutex
	users []entities.User
	err   error
}

func (n *recordingNotifier) AccountCreated(_ context.Context, user entities.User) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, user)
	return n.err
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.users)
}

type testEnv struct {
	store    *memory.Store
	clock    *fakeClock
	notifier *recordingNotifier
	identity *IdentityService
	events   *EventService
	polls    *PollService
	answers  *AnswerService
	stopper  *AutoStopper
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store := memory.NewStore()
	clock := newFakeClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repos := Repositories{
		Users:         store.Users(),
		Events:        store.Events(),
		AccessGrants:  store.AccessGrants(),
		Polls:         store.Polls(),
		AnswerOptions: store.AnswerOptions(),
		Answers:       store.Answers(),
		Tx:            store,
	}
	notifier := &recordingNotifier{}
	return &testEnv{
		store:    store,
		clock:    clock,
		notifier: notifier,
		identity: NewIdentityService(store.Users(), plainHasher{}, fakeTokens{}, notifier, clock, logger),
		events:   NewEventService(repos, clock, logger),
		polls:    NewPollService(repos, clock, logger),
		answers:  NewAnswerService(repos, clock, logger),
		stopper:  NewAutoStopper(store.Polls(), store, store, clock, logger),
	}
}

func (e *testEnv) user(t *testing.T, name string) *entities.User {
	t.Helper()
	u, err := e.identity.Register(context.Background(), input.RegisterUser{
		Email:    name + "@example.com",
		Password: "secret-" + name,
		FullName: name,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

func (e *testEnv) superuser(t *testing.T) *entities.User {
	t.Helper()
	u := e.user(t, "root")
	u.IsSuperuser = true
	return u
}

// runningPoll builds an event owned by owner with a running poll and two options.
func (e *testEnv) runningPoll(t *testing.T, owner *entities.User) (*entities.Event, *entities.Poll, []*entities.AnswerOption) {
	t.Helper()
	ctx := context.Background()
	event, err := e.events.CreateEvent(ctx, owner, "Club Vote", "")
	if err != nil {
		t.Fatalf("create event: %v", err)
	}
	poll, err := e.polls.CreatePoll(ctx, owner, event.ID, "Pick a movie")
	if err != nil {
		t.Fatalf("create poll: %v", err)
	}
	var opts []*entities.AnswerOption
	for _, text := range []string{"A", "B"} {
		o, err := e.polls.CreateAnswerOption(ctx, owner, poll.ID, text)
		if err != nil {
			t.Fatalf("create option %s: %v", text, err)
		}
		opts = append(opts, o)
	}
	poll, err = e.polls.SetPollState(ctx, owner, poll.ID, true, e.clock.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("start poll: %v", err)
	}
	return event, poll, opts
}
