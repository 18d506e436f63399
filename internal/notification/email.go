package notification

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPSender sends plain-text mail through a relay host. No authentication:
// the relay is expected to be an internal submission host.
type SMTPSender struct {
	host     string
	port     int
	from     string
	fromName string
	logger   *slog.Logger
}

func NewSMTPSender(host string, port int, from, fromName string, logger *slog.Logger) *SMTPSender {
	return &SMTPSender{
		host:     host,
		port:     port,
		from:     from,
		fromName: fromName,
		logger:   logger,
	}
}

func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	if err := smtp.SendMail(addr, nil, s.from, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
