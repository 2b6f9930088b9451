package expense

import (
	"context"
	"errors"
	"sync"
)

type StoreStub struct {
	mu           sync.RWMutex
	records      []Record
	fetchErr     error
	replaceErr   error
	replaceCalls int
}

func NewStoreStub(records ...Record) *StoreStub {
	return &StoreStub{records: append([]Record{}, records...)}
}

func (s *StoreStub) FetchRecords(ctx context.Context) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result, nil
}

func (s *StoreStub) ReplaceRecords(ctx context.Context, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replaceCalls++
	if s.replaceErr != nil {
		return s.replaceErr
	}
	s.records = make([]Record, len(records))
	copy(s.records, records)
	return nil
}

// Helper methods for test setup

func (s *StoreStub) Records() []Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]Record, len(s.records))
	copy(result, s.records)
	return result
}

func (s *StoreStub) ReplaceCalls() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.replaceCalls
}

func (s *StoreStub) SetFetchError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fetchErr = err
}

func (s *StoreStub) SetReplaceError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceErr = err
}

func (s *StoreStub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.fetchErr = nil
	s.replaceErr = nil
	s.replaceCalls = 0
}

var ErrStoreTestError = errors.New("store test error")
