package mocks

import (
	"context"

	"github.com/bnema/queuewatch/internal/domain"
	"github.com/bnema/queuewatch/internal/ports"
	"github.com/stretchr/testify/mock"
)

type AccountRepository struct {
	mock.Mock
}

var _ ports.AccountRepository = (*AccountRepository)(nil)

// NewAccountRepository returns a mock whose expectations are asserted on
// cleanup.
func NewAccountRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *AccountRepository {
	m := &AccountRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *AccountRepository) GetByID(ctx context.Context, id domain.AccountID) (domain.Account, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Account), args.Error(1)
}

func (m *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *AccountRepository) Save(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *AccountRepository) Delete(ctx context.Context, id domain.AccountID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
