package notification

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/jwalitptl/frontdesk-api/internal/config"
	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
)

// Sender delivers prepared messages; *gomail.Dialer satisfies it.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailListener mails a short summary of each registration to the inbox of
// the requested department. Departments without an inbox are skipped.
type EmailListener struct {
	sender  Sender
	from    string
	inboxes map[string]string
	logger  *logger.Logger
}

func NewEmailListener(cfg config.SMTPConfig, log *logger.Logger) *EmailListener {
	return NewEmailListenerWithSender(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), cfg, log)
}

func NewEmailListenerWithSender(sender Sender, cfg config.SMTPConfig, log *logger.Logger) *EmailListener {
	if log == nil {
		log = logger.Nop()
	}
	inboxes := make(map[string]string, len(cfg.DepartmentInboxes))
	for _, in := range cfg.DepartmentInboxes {
		inboxes[departmentKey(in.Department)] = in.Email
	}
	return &EmailListener{
		sender:  sender,
		from:    cfg.From,
		inboxes: inboxes,
		logger:  log.With("email"),
	}
}

func (l *EmailListener) Name() string {
	return "email"
}

func (l *EmailListener) RegistrationSubmitted(ctx context.Context, payload *model.RegistrationPayload, result *model.RegistrationResult) error {
	to, ok := l.inboxes[departmentKey(payload.Appointment.Department)]
	if !ok {
		l.logger.Debug("no inbox for department", "department", payload.Appointment.Department)
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", l.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("[%s] %s - %s", result.RegistrationID, payload.Patient.FullName, payload.Appointment.Department))
	m.SetBody("text/plain", summary(payload, result))

	if err := l.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send registration email: %w", err)
	}
	return nil
}

func departmentKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func summary(p *model.RegistrationPayload, r *model.RegistrationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Mã đăng ký: %s\n", r.RegistrationID)
	fmt.Fprintf(&b, "Bệnh nhân: %s\n", p.Patient.FullName)
	fmt.Fprintf(&b, "Ngày sinh: %s\n", p.Patient.DOB.Format(model.DateLayout))
	fmt.Fprintf(&b, "Điện thoại: %s\n", p.Patient.Phone)
	fmt.Fprintf(&b, "Khoa: %s\n", p.Appointment.Department)
	fmt.Fprintf(&b, "Thời gian: %s %s\n", p.Appointment.PreferredDate.Format(model.DateLayout), p.Appointment.PreferredTime)
	if p.Appointment.Symptoms != "" {
		fmt.Fprintf(&b, "Triệu chứng: %s\n", p.Appointment.Symptoms)
	}
	b.WriteString("Chỉ định:\n")
	for _, o := range p.Orders {
		fmt.Fprintf(&b, "  - %s (%s)", o.Name, o.Priority)
		if o.Note != "" {
			fmt.Fprintf(&b, ": %s", o.Note)
		}
		b.WriteString("\n")
	}
	return b.String()
}
