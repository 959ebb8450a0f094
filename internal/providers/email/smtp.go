package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/google/uuid"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPProvider sends each message of a batch over a single SMTP config.
// Individual delivery failures are folded into the per-recipient results
// so one bad mailbox cannot fail the whole batch.
type SMTPProvider struct {
	cfg Config
}

func NewSMTP(cfg Config) *SMTPProvider {
	return &SMTPProvider{cfg: cfg}
}

func (p *SMTPProvider) SendBatch(ctx context.Context, msgs []Message) ([]Result, error) {
	auth := smtp.PlainAuth("", p.cfg.Username, p.cfg.Password, p.cfg.Host)
	addr := fmt.Sprintf("%s:%d", p.cfg.Host, p.cfg.Port)

	results := make([]Result, 0, len(msgs))
	for _, msg := range msgs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body := buildMIME(msg)
		if err := smtp.SendMail(addr, auth, p.cfg.From, []string{msg.To}, body); err != nil {
			results = append(results, Result{
				Email: msg.To,
				Error: err.Error(),
			})
			continue
		}

		results = append(results, Result{
			Email:     msg.To,
			Success:   true,
			MessageID: uuid.NewString(),
		})
	}

	return results, nil
}

func buildMIME(msg Message) []byte {
	mime := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n\n"
	return []byte(fmt.Sprintf("To: %s\r\nSubject: %s\r\n%s\r\n%s", msg.To, msg.Subject, mime, msg.HTML))
}
