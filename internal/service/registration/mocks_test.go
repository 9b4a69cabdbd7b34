package registration

import (
	"context"
	"sync/atomic"

	"github.com/jwalitptl/frontdesk-api/internal/model"
)

var _ Gateway = (*MockGateway)(nil)

// MockGateway is a Gateway whose behaviour is set per test.
type MockGateway struct {
	SubmitFunc func(ctx context.Context, payload *model.RegistrationPayload) (*model.RegistrationResult, error)

	SubmitCallCount int32
	LastPayload     *model.RegistrationPayload
}

func (m *MockGateway) Name() string { return "mock" }

func (m *MockGateway) Submit(ctx context.Context, payload *model.RegistrationPayload) (*model.RegistrationResult, error) {
	atomic.AddInt32(&m.SubmitCallCount, 1)
	m.LastPayload = payload
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, payload)
	}
	return &model.RegistrationResult{RegistrationID: "REG-MOCK0001"}, nil
}

var _ Listener = (*MockListener)(nil)

type MockListener struct {
	Err   error
	Calls int32
	// Block, when set, holds the call until it is closed.
	Block  chan struct{}
	OnCall func(ctx context.Context)
}

func (m *MockListener) Name() string { return "mock" }

func (m *MockListener) RegistrationSubmitted(ctx context.Context, _ *model.RegistrationPayload, _ *model.RegistrationResult) error {
	if m.Block != nil {
		<-m.Block
	}
	if m.OnCall != nil {
		m.OnCall(ctx)
	}
	atomic.AddInt32(&m.Calls, 1)
	return m.Err
}

// validInput is the desk's canonical happy-path form.
func validInput() *model.RegistrationInput {
	return &model.RegistrationInput{
		Patient: model.PatientInfo{
			FullName: "Nguyen Van A",
			DOB:      "1990-01-01",
			Phone:    "0900000000",
		},
		Appointment: model.AppointmentRequest{
			Department:    "Khoa Kham benh",
			PreferredDate: "2025-06-01",
			PreferredTime: "08:00",
		},
		Orders: []model.OrderRequest{
			{ID: "1", Name: "CBC", Category: "Xet nghiem", Priority: model.PriorityRoutine},
		},
	}
}
