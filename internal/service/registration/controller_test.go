package registration

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

func TestController_SimulatedHappyPath(t *testing.T) {
	c := NewController(NewMapper(nil), NewSimulatedGateway(time.Millisecond), nil, nil)

	res, err := c.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.NotEmpty(t, res.RegistrationID)
	assert.Regexp(t, registrationIDPattern, res.RegistrationID)

	state := c.State()
	assert.False(t, state.Submitting)
	assert.Empty(t, state.Error)
	assert.Equal(t, res.RegistrationID, state.LastRegistrationID)
}

func TestController_MissingNameNeverReachesGateway(t *testing.T) {
	gw := &MockGateway{}
	c := NewController(NewMapper(nil), gw, nil, nil)

	in := validInput()
	in.Patient.FullName = ""

	res, err := c.Submit(context.Background(), in)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Equal(t, apperrors.ErrPatientNameRequired, apperrors.Code(err))

	state := c.State()
	assert.Equal(t, "PATIENT_NAME_REQUIRED", state.Error)
	assert.False(t, state.Submitting)
	assert.Equal(t, int32(0), atomic.LoadInt32(&gw.SubmitCallCount))
}

func TestController_EveryValidationFailureSkipsGateway(t *testing.T) {
	mutations := map[apperrors.ErrorCode]func(*model.RegistrationInput){
		apperrors.ErrPatientNameRequired:   func(in *model.RegistrationInput) { in.Patient.FullName = " " },
		apperrors.ErrPatientDOBRequired:    func(in *model.RegistrationInput) { in.Patient.DOB = "" },
		apperrors.ErrPatientPhoneRequired:  func(in *model.RegistrationInput) { in.Patient.Phone = "" },
		apperrors.ErrDepartmentRequired:    func(in *model.RegistrationInput) { in.Appointment.Department = "" },
		apperrors.ErrPreferredDateRequired: func(in *model.RegistrationInput) { in.Appointment.PreferredDate = "" },
		apperrors.ErrPreferredTimeRequired: func(in *model.RegistrationInput) { in.Appointment.PreferredTime = "" },
		apperrors.ErrOrdersRequired:        func(in *model.RegistrationInput) { in.Orders = nil },
	}

	for code, mutate := range mutations {
		t.Run(string(code), func(t *testing.T) {
			gw := &MockGateway{}
			c := NewController(NewMapper(nil), gw, nil, nil)

			in := validInput()
			mutate(in)

			_, err := c.Submit(context.Background(), in)
			assert.Equal(t, code, apperrors.Code(err))
			assert.Equal(t, string(code), c.State().Error)
			assert.Zero(t, atomic.LoadInt32(&gw.SubmitCallCount))
		})
	}
}

func TestController_PayloadHandedToGateway(t *testing.T) {
	gw := &MockGateway{}
	c := NewController(NewMapper(nil), gw, nil, nil)

	start := time.Now()
	_, err := c.Submit(context.Background(), validInput())
	require.NoError(t, err)
	require.NotNil(t, gw.LastPayload)

	dob, _ := time.Parse(model.DateLayout, "1990-01-01")
	preferred, _ := time.Parse(model.DateLayout, "2025-06-01")
	assert.True(t, gw.LastPayload.Patient.DOB.Equal(dob))
	assert.True(t, gw.LastPayload.Appointment.PreferredDate.Equal(preferred))
	assert.False(t, gw.LastPayload.SubmittedAt.Before(start))
}

func TestController_SubmittingWhileInFlight(t *testing.T) {
	var c *Controller
	var during model.RegistrationState
	gw := &MockGateway{
		SubmitFunc: func(ctx context.Context, _ *model.RegistrationPayload) (*model.RegistrationResult, error) {
			during = c.State()
			return &model.RegistrationResult{RegistrationID: "REG-0000ABCD"}, nil
		},
	}
	c = NewController(NewMapper(nil), gw, nil, nil)

	_, err := c.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.True(t, during.Submitting)
	assert.False(t, c.State().Submitting)
}

func TestController_ClearsPreviousError(t *testing.T) {
	var during model.RegistrationState
	var c *Controller
	gw := &MockGateway{
		SubmitFunc: func(ctx context.Context, _ *model.RegistrationPayload) (*model.RegistrationResult, error) {
			during = c.State()
			return &model.RegistrationResult{RegistrationID: "REG-0000ABCD"}, nil
		},
	}
	c = NewController(NewMapper(nil), gw, nil, nil)

	bad := validInput()
	bad.Orders = nil
	_, _ = c.Submit(context.Background(), bad)
	require.Equal(t, "ORDERS_REQUIRED", c.State().Error)

	_, err := c.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Empty(t, during.Error)
	assert.Empty(t, c.State().Error)
	assert.Equal(t, "REG-0000ABCD", c.State().LastRegistrationID)
}

func TestController_GatewayErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http status", apperrors.HTTPStatus(500, "boom"), "HTTP_500"},
		{"transport", errors.New("dial tcp: connection refused"), "dial tcp: connection refused"},
		{"unknown", apperrors.Unknown(errors.New("eof")), "UNKNOWN_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := &MockGateway{
				SubmitFunc: func(context.Context, *model.RegistrationPayload) (*model.RegistrationResult, error) {
					return nil, tt.err
				},
			}
			c := NewController(NewMapper(nil), gw, nil, nil)

			res, err := c.Submit(context.Background(), validInput())
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.err)

			state := c.State()
			assert.Equal(t, tt.want, state.Error)
			assert.False(t, state.Submitting)
			assert.Empty(t, state.LastRegistrationID)
		})
	}
}

func TestController_ListenersAndMetrics(t *testing.T) {
	m := metrics.NewMetrics("test", nil)
	ok := &MockListener{}
	failing := &MockListener{Err: errors.New("smtp down")}
	c := NewController(NewMapper(nil), &MockGateway{}, nil, m, ok, failing)

	res, err := c.Submit(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "REG-MOCK0001", res.RegistrationID)
	c.Wait()
	assert.Equal(t, int32(1), ok.Calls)
	assert.Equal(t, int32(1), failing.Calls)
	assert.Empty(t, c.State().Error)

	bad := validInput()
	bad.Appointment.Department = ""
	_, _ = c.Submit(context.Background(), bad)
	c.Wait()
	assert.Equal(t, int32(1), ok.Calls)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("success", "")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("error", "DEPARTMENT_REQUIRED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ListenerFailures.WithLabelValues("mock")))
}

func TestController_SlowListenerDoesNotHoldSubmission(t *testing.T) {
	release := make(chan struct{})
	slow := &MockListener{Block: release}
	c := NewController(NewMapper(nil), &MockGateway{}, nil, nil, slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := c.Submit(context.Background(), validInput())
		assert.NoError(t, err)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Submit waited on a listener")
	}
	state := c.State()
	assert.False(t, state.Submitting)
	assert.Equal(t, "REG-MOCK0001", state.LastRegistrationID)

	close(release)
	c.Wait()
	assert.Equal(t, int32(1), atomic.LoadInt32(&slow.Calls))
}

func TestController_ListenerOutlivesRequestContext(t *testing.T) {
	ctxErr := make(chan error, 1)
	l := &MockListener{OnCall: func(ctx context.Context) { ctxErr <- ctx.Err() }}
	c := NewController(NewMapper(nil), &MockGateway{}, nil, nil, l)

	ctx, cancel := context.WithCancel(context.Background())
	_, err := c.Submit(ctx, validInput())
	require.NoError(t, err)
	cancel()
	c.Wait()

	assert.NoError(t, <-ctxErr)
}
