package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/resend/resend-go/v3"

	"github.com/samandr77/microservices/formrelay/internal/entity"
)

// Client sends messages through the Resend HTTP API.
type Client struct {
	client *resend.Client
}

type Option func(*resend.Client)

// WithBaseURL points the client at another API endpoint.
func WithBaseURL(u *url.URL) Option {
	return func(c *resend.Client) {
		c.BaseURL = u
	}
}

func New(apiKey string, httpClient *http.Client, opts ...Option) *Client {
	c := resend.NewCustomClient(httpClient, apiKey)

	for _, opt := range opts {
		opt(c)
	}

	return &Client{client: c}
}

// Send returns the id Resend assigned to the email.
func (c *Client) Send(ctx context.Context, msg entity.Message) (string, error) {
	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	resp, err := c.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return "", fmt.Errorf("resend: send email: %w", err)
	}

	return resp.Id, nil
}
