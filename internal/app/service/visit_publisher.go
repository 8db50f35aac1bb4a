package service

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"cardpress/internal/app/model"
)

// VisitPublisher publishes public-view visit events to NATS JetStream
type VisitPublisher struct {
	js nats.JetStreamContext
}

// NewVisitPublisher creates a new visit event publisher
func NewVisitPublisher(js nats.JetStreamContext) *VisitPublisher {
	return &VisitPublisher{js: js}
}

// Publish records one public view of a shared card
func (p *VisitPublisher) Publish(slug, cardID, ip, userAgent string) error {
	event := model.VisitEvent{
		ID:        uuid.New().String(),
		Slug:      slug,
		CardID:    cardID,
		IP:        ip,
		UserAgent: userAgent,
		Timestamp: time.Now(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	_, err = p.js.Publish(model.VisitStreamSubject, data)
	return err
}
