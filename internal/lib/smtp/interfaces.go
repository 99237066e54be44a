// Package smtp отправляет письма через SMTP-сервер.
package smtp

import "context"

// Mailer интерфейс отправки одного письма.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
