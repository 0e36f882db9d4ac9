package notify

import (
	"fmt"
	"net/smtp"
	"strings"
	"time"

	"go.uber.org/zap"

	"jobradar/internal/match"
)

// Config carries the SMTP settings. The recipient defaults to To and can
// be redirected per run with RecipientOverride.
type Config struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	From              string `mapstructure:"from"`
	PasswordFile      string `mapstructure:"password-file"`
	To                string `mapstructure:"to"`
	RecipientOverride string `mapstructure:"recipient-override"`
}

// Recipient resolves the effective destination address.
func (c Config) Recipient() string {
	if c.RecipientOverride != "" {
		return c.RecipientOverride
	}
	return c.To
}

// Mailer sends digests over authenticated SMTP. sendMail is swappable
// for tests.
type Mailer struct {
	cfg      Config
	password string
	logger   *zap.Logger

	sendMail func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewMailer(cfg Config, password string, logger *zap.Logger) *Mailer {
	return &Mailer{
		cfg:      cfg,
		password: password,
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

// Send delivers the digest for the given matches. Any delivery error is
// returned to the caller; sending is a hard-fail step.
func (m *Mailer) Send(matches []*match.Match) error {
	recipient := m.cfg.Recipient()
	if recipient == "" {
		return fmt.Errorf("no recipient configured")
	}

	subject := fmt.Sprintf("Job Matches: %d openings ranked for you (%s)",
		len(matches), time.Now().Format("2006-01-02"))

	msg := message(m.cfg.From, recipient, subject, Body(matches))

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.password, m.cfg.Host)

	m.logger.Info("sending digest",
		zap.String("to", recipient),
		zap.Int("matches", len(matches)),
	)

	if err := m.sendMail(addr, auth, m.cfg.From, []string{recipient}, msg); err != nil {
		return fmt.Errorf("send digest to %s: %w", recipient, err)
	}

	return nil
}

// message assembles an RFC 5322 payload with CRLF line endings in the
// header section.
func message(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}
