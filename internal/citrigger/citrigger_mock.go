package citrigger

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/internal/contract"
	"github.com/vishal-mourya/Dynamic-Test-Identifier-And-Runner/schema"
)

// MockCITrigger is a mock implementation of CITrigger for testing.
type MockCITrigger struct {
	mock.Mock
}

var _ contract.CITrigger = &MockCITrigger{} // Compile-time check

// Name implements the CITrigger interface.
func (m *MockCITrigger) Name() string {
	ret := m.Called()
	return ret.String(0)
}

// Trigger implements the CITrigger interface.
func (m *MockCITrigger) Trigger(ctx context.Context, req schema.TriggerRequest) (schema.TriggerReceipt, error) {
	ret := m.Called(ctx, req)
	receipt, _ := ret.Get(0).(schema.TriggerReceipt)
	return receipt, ret.Error(1)
}
