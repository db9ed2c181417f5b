// Package mail delivers outbound email over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/btran-developer/gmice-online-ecommerce-back-end/internal/usecase"

	gomail "github.com/wneessen/go-mail"
)

var _ usecase.Mailer = (*SMTPSender)(nil)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// Dialer sends prepared messages. *gomail.Client satisfies it.
type Dialer interface {
	DialAndSendWithContext(ctx context.Context, messages ...*gomail.Msg) error
}

type SMTPSender struct {
	dialer Dialer
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}
	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return &SMTPSender{dialer: client}, nil
}

// NewSender wraps an existing dialer.
func NewSender(d Dialer) *SMTPSender {
	return &SMTPSender{dialer: d}
}

func (s *SMTPSender) Send(ctx context.Context, m usecase.MailMessage) error {
	msg, err := build(m)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func build(m usecase.MailMessage) (*gomail.Msg, error) {
	if len(m.Recipients) == 0 {
		return nil, errors.New("mail has no recipients")
	}
	msg := gomail.NewMsg()
	if err := msg.From(m.Sender); err != nil {
		return nil, fmt.Errorf("sender %q: %w", m.Sender, err)
	}
	if err := msg.To(m.Recipients...); err != nil {
		return nil, fmt.Errorf("recipients: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(gomail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}
