package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/metrics"
)

// Sink é um destino de aviso de lead novo (e-mail, planilha).
type Sink interface {
	Name() string
	LeadCreated(ctx context.Context, lead *entity.Lead) error
}

// Fanout entrega o lead a todos os sinks. Falha de um não impede os outros.
type Fanout struct {
	sinks []Sink
}

func NewFanout(sinks ...Sink) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) LeadCreated(ctx context.Context, lead *entity.Lead) error {
	var errs []error
	for _, s := range f.sinks {
		if err := s.LeadCreated(ctx, lead); err != nil {
			metrics.RecordIntegrationError(s.Name())
			log.Warn().Err(err).Str("sink", s.Name()).Int64("lead_id", lead.ID).Msg("⚠️ Falha ao notificar lead")
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		log.Debug().Str("sink", s.Name()).Int64("lead_id", lead.ID).Msg("📨 Lead notificado")
	}
	return errors.Join(errs...)
}

func (f *Fanout) Len() int {
	return len(f.sinks)
}
