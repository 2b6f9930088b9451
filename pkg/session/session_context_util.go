package session

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const StateKey contextKey = "session"

var ErrNoSession = errors.New("session not found")

// Current retrieves the session state from the context. Returns ErrNoSession if not present.
func Current(ctx context.Context) (*State, error) {
	state, ok := ctx.Value(StateKey).(*State)
	if !ok || state == nil {
		log.Trace("session not found in context")
		return nil, ErrNoSession
	}
	return state, nil
}

func WithState(ctx context.Context, state *State) context.Context {
	return context.WithValue(ctx, StateKey, state)
}
