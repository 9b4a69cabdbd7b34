package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging"
)

type fakeBroker struct {
	channel string
	message interface{}
	err     error
}

func (b *fakeBroker) Publish(_ context.Context, channel string, message interface{}) error {
	b.channel = channel
	b.message = message
	return b.err
}

func (b *fakeBroker) Close() error { return nil }

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (s *fakeSender) DialAndSend(m ...*gomail.Message) error {
	s.sent = append(s.sent, m...)
	return s.err
}

func testPayload() *model.RegistrationPayload {
	return &model.RegistrationPayload{
		Patient: model.PatientPayload{
			FullName: "Nguyễn Văn A",
			DOB:      time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
			Phone:    "0900000000",
		},
		Appointment: model.AppointmentPayload{
			Department:    "Khoa Khám bệnh",
			PreferredDate: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
			PreferredTime: "08:30",
			Symptoms:      "sốt",
		},
		Orders: []model.OrderRequest{
			{ID: "XN001", Name: "Tổng phân tích tế bào máu", Priority: model.PriorityRoutine, Note: "nhịn ăn"},
		},
		SubmittedAt: time.Date(2025, 6, 14, 9, 0, 0, 0, time.UTC),
	}
}

func TestBrokerListener(t *testing.T) {
	broker := &fakeBroker{}
	l := NewBrokerListener(broker, "registrations")
	l.now = func() time.Time { return time.Date(2025, 6, 14, 9, 0, 1, 0, time.UTC) }

	err := l.RegistrationSubmitted(context.Background(), testPayload(), &model.RegistrationResult{RegistrationID: "REG-0A1B2C3D"})
	require.NoError(t, err)
	assert.Equal(t, "broker", l.Name())
	assert.Equal(t, "registrations", broker.channel)

	raw, err := json.Marshal(broker.message)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "registration.submitted",
		"payload": {
			"registrationId": "REG-0A1B2C3D",
			"publishedAt": "2025-06-14T09:00:01Z",
			"registration": {
				"patient": {"fullName": "Nguyễn Văn A", "dob": "1990-01-01T00:00:00Z", "phone": "0900000000"},
				"appointment": {"department": "Khoa Khám bệnh", "preferredDate": "2025-06-15T00:00:00Z", "preferredTime": "08:30", "symptoms": "sốt"},
				"orders": [{"id": "XN001", "name": "Tổng phân tích tế bào máu", "category": "", "priority": "routine", "note": "nhịn ăn"}],
				"submittedAt": "2025-06-14T09:00:00Z"
			}
		}
	}`, string(raw))
	_, ok := broker.message.(messaging.Message)
	assert.True(t, ok)
}

func TestBrokerListener_Error(t *testing.T) {
	l := NewBrokerListener(&fakeBroker{err: errors.New("redis down")}, "registrations")
	err := l.RegistrationSubmitted(context.Background(), testPayload(), &model.RegistrationResult{RegistrationID: "REG-0A1B2C3D"})
	assert.EqualError(t, err, "redis down")
}

func smtpConfig() config.SMTPConfig {
	return config.SMTPConfig{
		Host: "smtp.example.vn",
		From: "frontdesk@example.vn",
		DepartmentInboxes: []config.DepartmentInbox{
			{Department: "khoa khám bệnh ", Email: "khambenh@example.vn"},
		},
	}
}

func TestEmailListener_SendsToDepartmentInbox(t *testing.T) {
	sender := &fakeSender{}
	l := NewEmailListenerWithSender(sender, smtpConfig(), nil)

	err := l.RegistrationSubmitted(context.Background(), testPayload(), &model.RegistrationResult{RegistrationID: "REG-0A1B2C3D"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"khambenh@example.vn"}, m.GetHeader("To"))
	assert.Equal(t, []string{"frontdesk@example.vn"}, m.GetHeader("From"))

	var buf bytes.Buffer
	_, err = m.WriteTo(&buf)
	require.NoError(t, err)
	assert.NotEmpty(t, buf.String())
}

func TestEmailListener_Summary(t *testing.T) {
	body := summary(testPayload(), &model.RegistrationResult{RegistrationID: "REG-0A1B2C3D"})
	assert.Contains(t, body, "Mã đăng ký: REG-0A1B2C3D")
	assert.Contains(t, body, "Ngày sinh: 1990-01-01")
	assert.Contains(t, body, "Thời gian: 2025-06-15 08:30")
	assert.Contains(t, body, "  - Tổng phân tích tế bào máu (routine): nhịn ăn")
}

func TestEmailListener_SkipsUnknownDepartment(t *testing.T) {
	sender := &fakeSender{}
	l := NewEmailListenerWithSender(sender, smtpConfig(), nil)

	p := testPayload()
	p.Appointment.Department = "Khoa Nhi"
	require.NoError(t, l.RegistrationSubmitted(context.Background(), p, &model.RegistrationResult{RegistrationID: "REG-0A1B2C3D"}))
	assert.Empty(t, sender.sent)
}

func TestEmailListener_SendError(t *testing.T) {
	l := NewEmailListenerWithSender(&fakeSender{err: errors.New("connection refused")}, smtpConfig(), nil)

	err := l.RegistrationSubmitted(context.Background(), testPayload(), &model.RegistrationResult{RegistrationID: "REG-0A1B2C3D"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, "email", l.Name())
}
