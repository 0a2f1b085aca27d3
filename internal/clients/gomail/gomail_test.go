package gomail_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	client "github.com/samandr77/microservices/formrelay/internal/clients/gomail"
	"github.com/samandr77/microservices/formrelay/internal/entity"
)

type fakeDialer struct {
	sent  []*gomail.Message
	err   error
	block chan struct{}
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	if d.block != nil {
		<-d.block
	}

	d.sent = append(d.sent, m...)

	return d.err
}

var testMessage = entity.Message{
	FromName: "DPA Website Form",
	From:     "forms@example.com",
	To:       []string{"ops@example.com"},
	Subject:  "New PPR Submission: Jane Doe",
	HTML:     "<p>hi</p>",
}

func TestClient_Send(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{}
	c := client.NewWithDialer(d)

	id, err := c.Send(context.Background(), testMessage)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(id, "<"))
	require.True(t, strings.HasSuffix(id, "@example.com>"))

	require.Len(t, d.sent, 1)

	m := d.sent[0]
	require.Equal(t, []string{`"DPA Website Form" <forms@example.com>`}, m.GetHeader("From"))
	require.Equal(t, []string{"ops@example.com"}, m.GetHeader("To"))
	require.Equal(t, []string{"New PPR Submission: Jane Doe"}, m.GetHeader("Subject"))
	require.Equal(t, []string{id}, m.GetHeader("Message-ID"))
}

func TestClient_Send_Error(t *testing.T) {
	t.Parallel()

	errAuth := errors.New("535 authentication failed")
	c := client.NewWithDialer(&fakeDialer{err: errAuth})

	_, err := c.Send(context.Background(), testMessage)
	require.ErrorIs(t, err, errAuth)
}

func TestClient_Send_Timeout(t *testing.T) {
	t.Parallel()

	d := &fakeDialer{block: make(chan struct{})}
	t.Cleanup(func() { close(d.block) })

	c := client.NewWithDialer(d)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Send(ctx, testMessage)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
