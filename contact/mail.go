package contact

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/wneessen/go-mail"
)

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       string
}

// MailSubmitter delivers contact forms to the salon inbox over SMTP.
type MailSubmitter struct {
	cfg MailConfig
}

func NewMailSubmitter(cfg MailConfig) *MailSubmitter {
	return &MailSubmitter{cfg: cfg}
}

func (m *MailSubmitter) buildMessage(f Form) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return nil, fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return nil, fmt.Errorf("set recipient: %w", err)
	}
	if err := msg.ReplyTo(f.Email); err != nil {
		return nil, fmt.Errorf("set reply-to: %w", err)
	}
	msg.Subject("פנייה חדשה מהאתר: " + f.Name)
	msg.SetBodyString(mail.TypeTextPlain, messageBody(f))
	return msg, nil
}

func messageBody(f Form) string {
	var b strings.Builder
	fmt.Fprintf(&b, "שם: %s\n", f.Name)
	fmt.Fprintf(&b, "אימייל: %s\n", f.Email)
	fmt.Fprintf(&b, "טלפון: %s\n\n", f.Phone)
	b.WriteString(f.Message)
	b.WriteString("\n")
	return b.String()
}

func (m *MailSubmitter) Submit(ctx context.Context, f Form) error {
	msg, err := m.buildMessage(f)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSubmit, err)
	}

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithTLSConfig(&tls.Config{ServerName: m.cfg.Host}),
	}
	if m.cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.User),
			mail.WithPassword(m.cfg.Password),
		)
	}
	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("%w: create smtp client (host=%s port=%d): %w", ErrSubmit, m.cfg.Host, m.cfg.Port, err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("%w: send (host=%s port=%d): %w", ErrSubmit, m.cfg.Host, m.cfg.Port, err)
	}
	return nil
}
