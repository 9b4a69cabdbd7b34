// Package notification tells other systems about registrations the
// gateway accepted. Every listener here satisfies registration.Listener.
package notification

import (
	"context"
	"time"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging"
)

const EventRegistrationSubmitted = "registration.submitted"

// RegistrationEvent is the payload published for every accepted registration.
type RegistrationEvent struct {
	RegistrationID string                     `json:"registrationId"`
	Registration   *model.RegistrationPayload `json:"registration"`
	PublishedAt    time.Time                  `json:"publishedAt"`
}

// BrokerListener publishes accepted registrations to a message broker channel.
type BrokerListener struct {
	broker  messaging.Broker
	channel string
	now     func() time.Time
}

func NewBrokerListener(broker messaging.Broker, channel string) *BrokerListener {
	return &BrokerListener{broker: broker, channel: channel, now: time.Now}
}

func (l *BrokerListener) Name() string {
	return "broker"
}

func (l *BrokerListener) RegistrationSubmitted(ctx context.Context, payload *model.RegistrationPayload, result *model.RegistrationResult) error {
	return l.broker.Publish(ctx, l.channel, messaging.Message{
		Type: EventRegistrationSubmitted,
		Payload: RegistrationEvent{
			RegistrationID: result.RegistrationID,
			Registration:   payload,
			PublishedAt:    l.now().UTC(),
		},
	})
}
