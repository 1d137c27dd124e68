package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type SyncService struct {
	mock.Mock
}

func (m *SyncService) SyncState(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type CheckoutService struct {
	mock.Mock
}

func (m *CheckoutService) RunSweep(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
