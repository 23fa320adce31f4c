package email

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"fitzone/internal/logger"

	"github.com/resend/resend-go/v2"
)

// Message is a fully rendered email ready for a transport.
type Message struct {
	To      string
	Name    string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a rendered message; implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

type SMTPSender struct {
	from     string
	fromName string
	host     string
	port     string
	user     string
	pass     string
}

func NewSMTPSender(from, fromName, host, port, user, pass string) *SMTPSender {
	return &SMTPSender{from: from, fromName: fromName, host: host, port: port, user: user, pass: pass}
}

func (s *SMTPSender) Send(_ context.Context, msg Message) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.fromName, s.from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)

	var auth smtp.Auth
	if s.user != "" && s.pass != "" {
		auth = smtp.PlainAuth("", s.user, s.pass, s.host)
	}

	return smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{msg.To}, []byte(b.String()))
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from, fromName string) *ResendSender {
	if fromName != "" {
		from = fmt.Sprintf("%s <%s>", fromName, from)
	}
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, msg Message) error {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send failed: %w", err)
	}

	logger.Debug("resend accepted email", "message_id", sent.Id, "to", msg.To)
	return nil
}

// NewSender prefers Resend when an API key is configured and falls back to SMTP.
func NewSender(resendKey, from, fromName, smtpHost, smtpPort, smtpUser, smtpPass string) Sender {
	if resendKey != "" {
		return NewResendSender(resendKey, from, fromName)
	}
	return NewSMTPSender(from, fromName, smtpHost, smtpPort, smtpUser, smtpPass)
}
