package dashboard

import (
	"context"

	"github.com/tripspend/tripspend/pkg/expense"
)

type Service interface {
	GetSummary(ctx context.Context) (Summary, error)
}

type ServiceImpl struct {
	expenses expense.Service
}

func NewService(expenses expense.Service) *ServiceImpl {
	return &ServiceImpl{expenses: expenses}
}

// GetSummary reads the records and aggregates them. Nothing is cached.
func (s *ServiceImpl) GetSummary(ctx context.Context) (Summary, error) {
	records, err := s.expenses.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(records), nil
}
