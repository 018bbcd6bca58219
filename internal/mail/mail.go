// Package mail delivers transactional emails.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/Rrens/teamspace/internal/config"
)

// Message is a rendered email
type Message struct {
	To        string
	Subject   string
	HTMLBody  string
	PlainBody string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender returns an SMTP sender when SMTP is configured, else one that only logs
func NewSender(cfg config.MailConfig) Sender {
	if !cfg.Enabled() {
		return LogSender{}
	}
	return NewSMTPSender(cfg)
}

// SMTPSender sends through an SMTP relay
type SMTPSender struct {
	dialer   *gomail.Dialer
	from     string
	fromName string
}

// NewSMTPSender creates a new SMTPSender
func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{
		dialer:   gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		from:     cfg.FromAddress,
		fromName: cfg.FromName,
	}
}

// Send delivers msg with both an HTML and a plain text part
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.from, s.fromName))
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.PlainBody)
	m.AddAlternative("text/html", msg.HTMLBody)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

// LogSender writes messages to the log instead of sending them
type LogSender struct{}

// Send logs msg
func (LogSender) Send(ctx context.Context, msg Message) error {
	log.Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Msg("SMTP disabled, email not sent")
	return nil
}

// Invitation describes a workspace invitation email
type Invitation struct {
	To            string
	InviteeName   string
	InviterName   string
	WorkspaceName string
	Role          string
	AcceptURL     string
}

var invitationHTML = template.Must(template.New("invitation").Parse(`<!DOCTYPE html>
<html>
<body style="margin:0;padding:0;font-family:Helvetica,Arial,sans-serif;background-color:#f7f9fc;">
	<table border="0" cellpadding="0" cellspacing="0" width="600" align="center" style="background-color:#ffffff;border-radius:8px;">
		<tr>
			<td style="padding:32px;color:#333333;font-size:16px;line-height:1.6;">
				<p style="margin-top:0;">Hi {{.InviteeName}},</p>
				<p><strong>{{.InviterName}}</strong> invited you to join <strong>{{.WorkspaceName}}</strong> as {{.Role}}.</p>
				<p style="text-align:center;padding:16px 0;">
					<a href="{{.AcceptURL}}" style="background-color:#5271ff;color:#ffffff;padding:12px 32px;border-radius:6px;text-decoration:none;">Accept invitation</a>
				</p>
				<p style="color:#666666;font-size:12px;">If you were not expecting this invitation, you can ignore this email.</p>
			</td>
		</tr>
	</table>
</body>
</html>`))

// InvitationMessage renders the invitation email
func InvitationMessage(inv Invitation) (Message, error) {
	var buf bytes.Buffer
	if err := invitationHTML.Execute(&buf, inv); err != nil {
		return Message{}, fmt.Errorf("failed to render invitation: %w", err)
	}

	plain := fmt.Sprintf("Hi %s,\n\n%s invited you to join %s as %s.\nAccept the invitation: %s\n",
		inv.InviteeName, inv.InviterName, inv.WorkspaceName, inv.Role, inv.AcceptURL)

	return Message{
		To:        inv.To,
		Subject:   fmt.Sprintf("You're invited to %s", inv.WorkspaceName),
		HTMLBody:  buf.String(),
		PlainBody: plain,
	}, nil
}
