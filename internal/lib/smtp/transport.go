package smtp

import (
	"context"
	"fmt"
	"log/slog"

	"gopkg.in/gomail.v2"

	"github.com/magabrotheeeer/storefront/internal/config"
	"github.com/magabrotheeeer/storefront/internal/lib/sl"
)

// Sender абстрагирует gomail.Dialer, чтобы транспорт можно было проверить без сервера.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Transport реализует Mailer поверх gomail.
type Transport struct {
	from   string
	dialer Sender
	log    *slog.Logger
}

// NewTransport создает транспорт по настройкам SMTP из конфига.
func NewTransport(cfg *config.Config, log *slog.Logger) *Transport {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	return NewTransportWithSender(cfg.SMTPUser, d, log)
}

// NewTransportWithSender создает транспорт с произвольным отправителем.
func NewTransportWithSender(from string, sender Sender, log *slog.Logger) *Transport {
	return &Transport{from: from, dialer: sender, log: log}
}

// Send отправляет письмо в формате text/plain.
func (t *Transport) Send(ctx context.Context, to, subject, body string) error {
	const op = "smtp.Send"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := t.dialer.DialAndSend(m); err != nil {
		t.log.Error("failed to send email", slog.String("to", to), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
