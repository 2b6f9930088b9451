package expense

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/tripspend/tripspend/internal/event_bus"
)

type Service interface {
	List(ctx context.Context) ([]Record, error)
	Add(ctx context.Context, record Record) error
	Replace(ctx context.Context, records []Record) error
	Delete(ctx context.Context, positions []int) error
	// Records returns the stored records, or nil when they cannot be read.
	Records(ctx context.Context) []Record
	// Save overwrites the stored records and reports whether it succeeded.
	Save(ctx context.Context, records []Record) bool
}

type ServiceImpl struct {
	eventBus *event_bus.EventBus
}

func NewService(eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{eventBus: eventBus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Record, error) {
	store, err := CurrentStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}
	records, err := store.FetchRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch records: %w", err)
	}
	return records, nil
}

// Add appends record to the stored list. Nothing is written when the current list
// cannot be read.
func (s *ServiceImpl) Add(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	records = append(records, record)
	if err := s.write(ctx, records); err != nil {
		return err
	}

	s.publish(event_bus.NewEvent(ctx, event_bus.ExpenseAdded, event_bus.ExpenseAddedData{
		Category:    string(record.Category),
		AmountCents: record.Amount.Cents,
		Date:        record.Date.Time,
		Count:       len(records),
	}))
	return nil
}

func (s *ServiceImpl) Replace(ctx context.Context, records []Record) error {
	for i, record := range records {
		if err := record.Validate(); err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
	}
	if records == nil {
		records = []Record{}
	}
	if err := s.write(ctx, records); err != nil {
		return err
	}

	s.publish(event_bus.NewEvent(ctx, event_bus.ExpensesReplaced, event_bus.ExpensesReplacedData{
		Count: len(records),
	}))
	return nil
}

// Delete removes the records at the given positions of the currently stored list.
func (s *ServiceImpl) Delete(ctx context.Context, positions []int) error {
	records, err := s.List(ctx)
	if err != nil {
		return err
	}
	toDelete := make(map[int]bool, len(positions))
	for _, position := range positions {
		if position < 0 || position >= len(records) {
			return fmt.Errorf("%w: %d", ErrInvalidPosition, position)
		}
		toDelete[position] = true
	}

	kept := make([]Record, 0, len(records)-len(toDelete))
	for i, record := range records {
		if !toDelete[i] {
			kept = append(kept, record)
		}
	}
	if err := s.write(ctx, kept); err != nil {
		return err
	}

	s.publish(event_bus.NewEvent(ctx, event_bus.ExpensesReplaced, event_bus.ExpensesReplacedData{
		Count: len(kept),
	}))
	return nil
}

func (s *ServiceImpl) Records(ctx context.Context) []Record {
	records, err := s.List(ctx)
	if err != nil {
		log.Errorf("unable to read expenses: %v", err)
		return nil
	}
	return records
}

func (s *ServiceImpl) Save(ctx context.Context, records []Record) bool {
	if err := s.Replace(ctx, records); err != nil {
		log.Errorf("unable to save expenses: %v", err)
		return false
	}
	return true
}

func (s *ServiceImpl) write(ctx context.Context, records []Record) error {
	store, err := CurrentStore(ctx)
	if err != nil {
		return fmt.Errorf("failed to get store: %w", err)
	}
	if err := store.ReplaceRecords(ctx, records); err != nil {
		return fmt.Errorf("failed to replace records: %w", err)
	}
	log.Debugf("stored %d expense records", len(records))
	return nil
}

func (s *ServiceImpl) publish(event event_bus.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Publish(event); err != nil {
		log.Warnf("failed to publish %s event: %v", event.Type, err)
	}
}
