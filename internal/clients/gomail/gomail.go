package gomail

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"
	"gopkg.in/gomail.v2"

	"github.com/samandr77/microservices/formrelay/internal/entity"
)

type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Client sends messages over SMTP.
type Client struct {
	dialer Dialer
}

func New(host string, port int, login, password string) *Client {
	dialer := gomail.NewDialer(host, port, login, password)

	dialer.TLSConfig = &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	return NewWithDialer(dialer)
}

func NewWithDialer(d Dialer) *Client {
	return &Client{dialer: d}
}

// Send returns the Message-ID header of the sent email. gomail has no context
// support, so on cancellation the dial is left to finish in the background.
func (c *Client) Send(ctx context.Context, msg entity.Message) (string, error) {
	m := gomail.NewMessage(
		gomail.SetCharset("UTF-8"),
		gomail.SetEncoding(gomail.Base64),
	)

	id := messageID(msg.From)

	m.SetAddressHeader("From", msg.From, msg.FromName)
	m.SetHeader("To", msg.To...)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", id)
	m.SetBody("text/html", msg.HTML)

	errCh := make(chan error, 1)

	go func() {
		errCh <- c.dialer.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return "", fmt.Errorf("failed to send email: %w", err)
		}

		return id, nil
	case <-ctx.Done():
		return "", fmt.Errorf("failed to send email: %w", ctx.Err())
	}
}

func messageID(from string) string {
	domain := "localhost"
	if _, d, ok := strings.Cut(from, "@"); ok && d != "" {
		domain = d
	}

	return fmt.Sprintf("<%s@%s>", uuid.Must(uuid.NewV4()), domain)
}
