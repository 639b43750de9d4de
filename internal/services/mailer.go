package services

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/hospitalcore/hospital-api/internal/config"
)

// Mailer delivers account emails. Handlers depend on this interface so
// tests can substitute a double.
type Mailer interface {
	SendVerificationEmail(to, fullname, code string) error
}

const verificationTemplate = `
<html>
  <body style="font-family: Arial, sans-serif;">
    <h2>Hi {{.Fullname}},</h2>
    <p>Your {{.AppName}} verification code is:</p>
    <p style="font-size: 28px; letter-spacing: 4px;"><strong>{{.Code}}</strong></p>
    <p>The code expires in 15 minutes. If you did not create an account, ignore this email.</p>
  </body>
</html>`

type verificationData struct {
	Fullname string
	Code     string
	AppName  string
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg  config.SMTPConfig
	tmpl *template.Template
}

func NewSMTPMailer(cfg config.SMTPConfig) (*SMTPMailer, error) {
	tmpl, err := template.New("verification").Parse(verificationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse email template: %w", err)
	}
	return &SMTPMailer{cfg: cfg, tmpl: tmpl}, nil
}

func (m *SMTPMailer) SendVerificationEmail(to, fullname, code string) error {
	var body bytes.Buffer
	data := verificationData{Fullname: fullname, Code: code, AppName: m.cfg.FromName}
	if err := m.tmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}
	return m.send(to, "Verify your email address", body.String())
}

func (m *SMTPMailer) send(to, subject, body string) error {
	from := m.cfg.From
	if m.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", m.cfg.FromName, m.cfg.From)
	}

	var msg strings.Builder
	msg.WriteString("From: " + from + "\r\n")
	msg.WriteString("To: " + to + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	var auth smtp.Auth
	if m.cfg.Username != "" && m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(m.cfg.Addr(), auth, m.cfg.From, []string{to}, []byte(msg.String())); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}
