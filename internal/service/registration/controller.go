package registration

import (
	"context"
	"sync"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

// Listener is told about every successful registration. Listeners run in
// the background once the submission has completed; failures are logged
// and never change the outcome.
type Listener interface {
	Name() string
	RegistrationSubmitted(ctx context.Context, payload *model.RegistrationPayload, result *model.RegistrationResult) error
}

// Controller runs the validate -> submit pipeline and keeps the state the
// desk UI renders. Submissions are independent: a second call while one is
// in flight is neither blocked nor queued.
type Controller struct {
	mapper          *Mapper
	gateway         Gateway
	listeners       []Listener
	listenerTimeout time.Duration
	logger          *logger.Logger
	metrics         *metrics.Metrics

	mu    sync.Mutex
	state model.RegistrationState

	pending sync.WaitGroup
}

// DefaultListenerTimeout bounds one round of post-submission notifications.
const DefaultListenerTimeout = 30 * time.Second

func NewController(mapper *Mapper, gateway Gateway, log *logger.Logger, m *metrics.Metrics, listeners ...Listener) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	return &Controller{
		mapper:          mapper,
		gateway:         gateway,
		listeners:       listeners,
		listenerTimeout: DefaultListenerTimeout,
		logger:          log.With("registration"),
		metrics:         m,
	}
}

// Wait blocks until background notifications started so far have finished.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// State returns a snapshot of the controller's state.
func (c *Controller) State() model.RegistrationState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Submit(ctx context.Context, in *model.RegistrationInput) (*model.RegistrationResult, error) {
	c.mu.Lock()
	c.state.Submitting = true
	c.state.Error = ""
	c.mu.Unlock()

	payload, result, err := c.submit(ctx, in)

	c.mu.Lock()
	c.state.Submitting = false
	if err != nil {
		c.state.Error = errorMessage(err)
	} else {
		c.state.LastRegistrationID = result.RegistrationID
	}
	c.mu.Unlock()

	c.record(err)
	if err == nil && len(c.listeners) > 0 {
		c.pending.Add(1)
		go func() {
			defer c.pending.Done()
			nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.listenerTimeout)
			defer cancel()
			c.notify(nctx, payload, result)
		}()
	}
	return result, err
}

func (c *Controller) submit(ctx context.Context, in *model.RegistrationInput) (*model.RegistrationPayload, *model.RegistrationResult, error) {
	payload, err := c.mapper.Map(in)
	if err != nil {
		c.logger.Debug("registration rejected", "code", string(apperrors.Code(err)))
		return nil, nil, err
	}

	start := time.Now()
	result, err := c.gateway.Submit(ctx, payload)
	if c.metrics != nil {
		c.metrics.GatewayLatency.WithLabelValues(c.gateway.Name()).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		c.logger.Error(err, "registration submission failed", "gateway", c.gateway.Name())
		return nil, nil, err
	}

	c.logger.Info("registration submitted",
		"registration_id", result.RegistrationID,
		"department", payload.Appointment.Department,
		"orders", len(payload.Orders))
	return payload, result, nil
}

func (c *Controller) notify(ctx context.Context, payload *model.RegistrationPayload, result *model.RegistrationResult) {
	for _, l := range c.listeners {
		if err := l.RegistrationSubmitted(ctx, payload, result); err != nil {
			c.logger.Error(err, "registration listener failed",
				"listener", l.Name(),
				"registration_id", result.RegistrationID)
			if c.metrics != nil {
				c.metrics.ListenerFailures.WithLabelValues(l.Name()).Inc()
			}
		}
	}
}

func (c *Controller) record(err error) {
	if c.metrics == nil {
		return
	}
	if err == nil {
		c.metrics.RegistrationsTotal.WithLabelValues("success", "").Inc()
		return
	}
	c.metrics.RegistrationsTotal.WithLabelValues("error", string(apperrors.Code(err))).Inc()
}

// errorMessage is what the UI shows: the code for validation errors,
// HTTP_<status> for upstream rejections, the raw message otherwise.
func errorMessage(err error) string {
	if appErr, ok := apperrors.As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return string(apperrors.ErrUnknown)
}
