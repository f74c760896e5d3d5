package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

type consumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

type Worker struct {
	Channel consumer
	Handler usecase.LeadNotifier
}

func NewWorker(ch *amqp.Channel, handler usecase.LeadNotifier) *Worker {
	return &Worker{Channel: ch, Handler: handler}
}

// Start consome a fila até o ctx acabar ou o canal fechar.
func (w *Worker) Start(ctx context.Context, queueName string) error {
	msgs, err := w.Channel.Consume(queueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("falha ao registrar consumidor RabbitMQ: %w", err)
	}

	log.Info().Str("queue", queueName).Msg("👷 Worker aguardando leads")

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-msgs:
			if !ok {
				return fmt.Errorf("canal do RabbitMQ fechado")
			}
			w.handleDelivery(ctx, d)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, d amqp.Delivery) {
	var evt LeadEvent
	if err := json.Unmarshal(d.Body, &evt); err != nil || evt.Lead == nil {
		log.Error().Err(err).Str("message_id", d.MessageId).Msg("❌ [WORKER] Evento inválido")
		d.Nack(false, false)
		return
	}

	if err := w.Handler.LeadCreated(ctx, evt.Lead); err != nil {
		log.Error().Err(err).Int64("lead_id", evt.Lead.ID).Msg("❌ [WORKER] Falha ao notificar lead")
		d.Nack(false, false)
		return
	}

	log.Info().Int64("lead_id", evt.Lead.ID).Msg("✅ [WORKER] Lead notificado")
	d.Ack(false)
}
