package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

const EventLeadCreated = "lead.created"

type LeadEvent struct {
	Event      string       `json:"event"`
	Lead       *entity.Lead `json:"lead"`
	OccurredAt time.Time    `json:"occurred_at"`
}

type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Producer publica cada lead criado; o Worker repassa para e-mail e planilha.
type Producer struct {
	Ch  publisher
	Now func() time.Time
}

func NewProducer(ch *amqp.Channel) *Producer {
	return &Producer{Ch: ch, Now: time.Now}
}

func (p *Producer) LeadCreated(ctx context.Context, lead *entity.Lead) error {
	body, err := json.Marshal(LeadEvent{
		Event:      EventLeadCreated,
		Lead:       lead,
		OccurredAt: p.Now(),
	})
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %w", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    uuid.NewString(),
			Type:         EventLeadCreated,
			Timestamp:    p.Now(),
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %w", err)
	}
	return nil
}
