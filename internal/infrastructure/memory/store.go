// Package memory is an in-process implementation of every persistence port.
// It backs the test suite and STORAGE=memory local runs.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"eventpoll/internal/domain/entities"
	"eventpoll/internal/ports/output"
)

var (
	_ output.Transactor = (*Store)(nil)
	_ output.Locker     = (*Store)(nil)
)

// Store keeps every table in maps. Transactions are serialized by txMu and
// work on a private copy of the committed state that replaces it on commit.
// Writes outside a transaction run as single-statement transactions, and
// plain reads only ever see committed state.
type Store struct {
	txMu sync.Mutex
	mu   sync.RWMutex
	data *state

	leases map[string]time.Time
	now    func() time.Time
}

type memberKey struct {
	eventID uint
	userID  uint
	role    entities.Role
}

type state struct {
	users   map[uint]entities.User
	events  map[uint]entities.Event
	members map[memberKey]struct{}
	polls   map[uint]entities.Poll
	options map[uint]entities.AnswerOption
	answers map[uint]entities.Answer
	grants  []entities.AccessGrant

	nextUser, nextEvent, nextPoll, nextOption, nextAnswer, nextGrant uint
}

func newState() *state {
	return &state{
		users:   make(map[uint]entities.User),
		events:  make(map[uint]entities.Event),
		members: make(map[memberKey]struct{}),
		polls:   make(map[uint]entities.Poll),
		options: make(map[uint]entities.AnswerOption),
		answers: make(map[uint]entities.Answer),
	}
}

func (st *state) clone() *state {
	c := *st
	c.users = maps.Clone(st.users)
	c.events = maps.Clone(st.events)
	c.members = maps.Clone(st.members)
	c.polls = maps.Clone(st.polls)
	c.options = maps.Clone(st.options)
	c.answers = maps.Clone(st.answers)
	c.grants = slices.Clone(st.grants)
	return &c
}

func NewStore() *Store {
	return &Store{
		data:   newState(),
		leases: make(map[string]time.Time),
		now:    time.Now,
	}
}

type txKey struct{}

func txState(ctx context.Context) (*state, bool) {
	st, ok := ctx.Value(txKey{}).(*state)
	return st, ok
}

// WithinTx runs fn with exclusive write access to the store. A nested call
// joins the outer transaction. Nothing fn writes is visible outside until it
// returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txState(ctx); ok {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, work)); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

// read hands fn the transaction's state when ctx carries one, the committed
// state otherwise. fn must not modify st.
func (s *Store) read(ctx context.Context, fn func(st *state) error) error {
	if st, ok := txState(ctx); ok {
		return fn(st)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.data)
}

// write runs fn inside the caller's transaction, or in one of its own.
func (s *Store) write(ctx context.Context, fn func(st *state) error) error {
	return s.WithinTx(ctx, func(ctx context.Context) error {
		st, _ := txState(ctx)
		return fn(st)
	})
}

// TryLock hands out a lease on key until ttl elapses or unlock is called.
func (s *Store) TryLock(_ context.Context, key string, ttl time.Duration) (func(context.Context) error, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if until, held := s.leases[key]; held && now.Before(until) {
		return nil, false, nil
	}
	until := now.Add(ttl)
	s.leases[key] = until
	return func(context.Context) error {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.leases[key].Equal(until) {
			delete(s.leases, key)
		}
		return nil
	}, true, nil
}

func (s *Store) Users() *UserRepository { return &UserRepository{s} }
func (s *Store) Events() *EventRepository { return &EventRepository{s} }
func (s *Store) AccessGrants() *AccessGrantRepository { return &AccessGrantRepository{s} }
func (s *Store) Polls() *PollRepository { return &PollRepository{s} }
func (s *Store) AnswerOptions() *AnswerOptionRepository { return &AnswerOptionRepository{s} }
func (s *Store) Answers() *AnswerRepository { return &AnswerRepository{s} }

func page[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) {
		return []T{}
	}
	items = items[skip:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := slices.Collect(maps.Keys(m))
	slices.Sort(keys)
	return keys
}
