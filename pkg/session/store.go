package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/event_bus"
	"github.com/tripspend/tripspend/internal/utils"
)

// Store keeps session states in memory. Sessions idle for longer than the idle timeout are dropped.
type Store struct {
	mu          sync.Mutex
	sessions    map[string]*State
	clock       utils.Clock
	idleTimeout time.Duration
}

func NewStore(clock utils.Clock, idleTimeout time.Duration) *Store {
	return &Store{
		sessions:    make(map[string]*State),
		clock:       clock,
		idleTimeout: idleTimeout,
	}
}

// Get returns the live session with the given id and marks it as used.
func (s *Store) Get(id string) (*State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.clock.Now()
	if s.expired(state, now) {
		log.Debugf("session %s expired", id)
		delete(s.sessions, id)
		return nil, false
	}
	state.touch(now)
	return state, true
}

func (s *Store) Create() *State {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.sweep(now)
	state := newState(uuid.NewString(), now)
	s.sessions[state.id] = state
	log.Tracef("session %s created", state.id)
	return state
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *Store) sweep(now time.Time) {
	for id, state := range s.sessions {
		if s.expired(state, now) {
			delete(s.sessions, id)
		}
	}
}

func (s *Store) expired(state *State, now time.Time) bool {
	return s.idleTimeout > 0 && state.idleSince(now) > s.idleTimeout
}

// SubscribeFlashes turns successful expense writes into flash messages on the session
// found in the event context.
func SubscribeFlashes(bus *event_bus.EventBus) (unsubscribe func()) {
	unsubAdded := event_bus.SubscribeTyped(bus, event_bus.ExpenseAdded, func(ctx context.Context, data event_bus.ExpenseAddedData) error {
		return flash(ctx, FlashSuccess, "Expense added successfully!")
	})
	unsubReplaced := event_bus.SubscribeTyped(bus, event_bus.ExpensesReplaced, func(ctx context.Context, data event_bus.ExpensesReplacedData) error {
		return flash(ctx, FlashSuccess, "Changes saved successfully!")
	})
	return func() {
		unsubAdded()
		unsubReplaced()
	}
}

func flash(ctx context.Context, kind FlashKind, message string) error {
	state, err := Current(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			// API calls have no session to report to.
			return nil
		}
		return err
	}
	state.PushFlash(kind, message)
	return nil
}
