package expense

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// Store persists the complete list of records. Every write replaces the whole list.
type Store interface {
	FetchRecords(ctx context.Context) ([]Record, error)
	ReplaceRecords(ctx context.Context, records []Record) error
}

type contextKey string

const StoreKey contextKey = "expense-store"

var ErrNoStore = errors.New("no authenticated store")

// CurrentStore retrieves the authenticated store from the context. Returns ErrNoStore if not present.
func CurrentStore(ctx context.Context) (Store, error) {
	store, ok := ctx.Value(StoreKey).(Store)
	if !ok || store == nil {
		log.Trace("store not found in context")
		return nil, ErrNoStore
	}
	return store, nil
}

func WithStore(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, StoreKey, store)
}
