// Package mail delivers the out-of-band recovery emails. Delivery is behind
// the Mailer interface so the service can run with a real SMTP relay or, in
// development and tests, a log-only sender.
package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/kbukum/todoapi/logger"
)

// Mailer sends a plain-text email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// Config holds SMTP settings. An empty Host selects the log-only mailer.
type Config struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	From     string `yaml:"from" mapstructure:"from"`
}

// ApplyDefaults sets sensible defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.Port == 0 {
		c.Port = 587
	}
	if c.From == "" {
		c.From = c.Username
	}
}

// New creates a Mailer from configuration: SMTP when a host is configured,
// otherwise log-only.
func New(cfg Config, log *logger.Logger) Mailer {
	cfg.ApplyDefaults()
	if cfg.Host == "" {
		return &LogMailer{log: log.WithComponent("mail")}
	}
	return &SMTPMailer{cfg: cfg, log: log.WithComponent("mail")}
}

// SMTPMailer sends mail through an SMTP relay.
type SMTPMailer struct {
	cfg Config
	log *logger.Logger
}

// Send sends a plain-text message. The context is honored only up to the
// synchronous SMTP round-trip; net/smtp has no native cancellation.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, to, subject, body))

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	m.log.Info("Mail sent", map[string]interface{}{
		logger.FieldEmail: to,
		"subject":         subject,
	})
	return nil
}

// LogMailer logs instead of sending. Used when SMTP is unconfigured.
type LogMailer struct {
	log *logger.Logger
}

// Send logs the message envelope. The body is logged too: it only ever
// carries recovery codes in development setups.
func (m *LogMailer) Send(_ context.Context, to, subject, body string) error {
	m.log.Info("Mail suppressed (no SMTP host configured)", map[string]interface{}{
		logger.FieldEmail: to,
		"subject":         subject,
		"body":            body,
	})
	return nil
}
