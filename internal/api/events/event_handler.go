package events

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/samandr77/microservices/formrelay/internal/entity"
)

type Service interface {
	Relay(ctx context.Context, sub entity.Submission) error
}

type EventHandler struct {
	s Service
}

func NewEventHandler(s Service) *EventHandler {
	return &EventHandler{s: s}
}

// RelaySubmission relays a form submission published as a JSON object.
func (h *EventHandler) RelaySubmission(ctx context.Context, msg kafka.Message) error {
	sub, err := entity.ParseJSONSubmission(msg.Value)
	if err != nil {
		return fmt.Errorf("parse submission: %w", err)
	}

	err = h.s.Relay(ctx, sub)
	if err != nil {
		return fmt.Errorf("relay submission: %w", err)
	}

	return nil
}
