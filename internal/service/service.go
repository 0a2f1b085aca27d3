package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/samandr77/microservices/formrelay/internal/entity"
	"github.com/samandr77/microservices/formrelay/pkg/config"
)

const defaultSendTimeout = 15 * time.Second

//go:generate go run go.uber.org/mock/mockgen@latest -source=service.go -destination=../mocks/service.go -package=mocks

type Sender interface {
	Send(ctx context.Context, msg entity.Message) (string, error)
}

type Service struct {
	cfg    config.Mail
	sender Sender
}

func New(cfg config.Mail, sender Sender) *Service {
	if cfg.SendTimeout <= 0 {
		cfg.SendTimeout = defaultSendTimeout
	}

	return &Service{
		cfg:    cfg,
		sender: sender,
	}
}

// Relay formats the submission and makes exactly one delivery attempt.
func (s *Service) Relay(ctx context.Context, sub entity.Submission) error {
	if sub.Len() == 0 {
		return entity.ErrEmptySubmission
	}

	if missing := s.cfg.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", entity.ErrConfiguration, strings.Join(missing, ", "))
	}

	msg := BuildMessage(s.cfg, sub)

	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.SendTimeout)
	defer cancel()

	id, err := s.sender.Send(sendCtx, msg)
	if err != nil {
		return fmt.Errorf("%w: %w", entity.ErrDelivery, err)
	}

	slog.InfoContext(ctx, "email sent", "id", id, "subject", msg.Subject, "fields", sub.Len())

	return nil
}
