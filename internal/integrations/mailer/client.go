package mailer

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"
)

const defaultFrom = "no-reply@scheduling.local"

// Config параметры SMTP-relay
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Client отправляет письма через SMTP
// Без логина работает как неаутентифицированный relay (mailpit и т.п.)
type Client struct {
	addr    string
	host    string
	from    string
	auth    smtp.Auth
	timeout time.Duration
}

func NewClient(cfg Config) *Client {
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		from = defaultFrom
	}
	c := &Client{
		addr:    net.JoinHostPort(cfg.Host, fmt.Sprint(cfg.Port)),
		host:    cfg.Host,
		from:    from,
		timeout: cfg.Timeout,
	}
	if cfg.Username != "" {
		c.auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}
	return c
}

// Enabled false, если SMTP-хост не задан
func (c *Client) Enabled() bool {
	return c != nil && c.host != ""
}

// Send отправляет plain-text письмо одному получателю
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" || strings.ContainsAny(to, "\r\n") {
		return ErrInvalidRecipient
	}

	dialer := &net.Dialer{Timeout: c.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %v", ErrSend, c.addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else if c.timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(c.timeout))
	}

	client, err := smtp.NewClient(conn, c.host)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("%w: handshake: %v", ErrSend, err)
	}
	defer client.Close()

	if c.auth != nil {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(nil); err != nil {
				return fmt.Errorf("%w: starttls: %v", ErrSend, err)
			}
		}
		if err := client.Auth(c.auth); err != nil {
			return fmt.Errorf("%w: auth: %v", ErrSend, err)
		}
	}

	if err := client.Mail(c.from); err != nil {
		return fmt.Errorf("%w: MAIL FROM: %v", ErrSend, err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("%w: RCPT TO: %v", ErrSend, err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("%w: DATA: %v", ErrSend, err)
	}
	if _, err := w.Write([]byte(buildMessage(c.from, to, subject, body))); err != nil {
		_ = w.Close()
		return fmt.Errorf("%w: write body: %v", ErrSend, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("%w: close body: %v", ErrSend, err)
	}
	return client.Quit()
}

func buildMessage(from, to, subject, body string) string {
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		sanitizeHeader(subject),
		body,
	)
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
