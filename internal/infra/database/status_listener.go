package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

type StatusChange struct {
	ID     int64  `json:"id"`
	Status string `json:"status"`
}

func parseStatusNotification(payload string) (StatusChange, error) {
	var c StatusChange
	if err := json.Unmarshal([]byte(payload), &c); err != nil {
		return c, fmt.Errorf("payload de status inválido: %w", err)
	}
	if c.ID == 0 {
		return c, fmt.Errorf("payload de status sem id: %q", payload)
	}
	return c, nil
}

type LeadCanceler interface {
	CancelForLead(leadID int64) bool
}

// StatusListener escuta o NOTIFY do trigger de status e cancela os
// follow-ups de leads que saíram de "Novo" por fora do painel.
type StatusListener struct {
	dsn      string
	canceler LeadCanceler
}

func NewStatusListener(dsn string, canceler LeadCanceler) *StatusListener {
	return &StatusListener{dsn: dsn, canceler: canceler}
}

func (s *StatusListener) handle(payload string) {
	change, err := parseStatusNotification(payload)
	if err != nil {
		log.Warn().Err(err).Msg("⚠️ Notificação de status ignorada")
		return
	}

	lead := entity.Lead{Status: change.Status}
	if lead.IsNew() {
		return
	}
	if s.canceler.CancelForLead(change.ID) {
		log.Info().Int64("lead_id", change.ID).Str("status", change.Status).Msg("🛑 Follow-up cancelado por mudança de status")
	}
}

// Run bloqueia até ctx ser cancelado.
func (s *StatusListener) Run(ctx context.Context) error {
	listener := pq.NewListener(s.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Error().Err(err).Msg("❌ Erro no listener de status")
		}
		if ev == pq.ListenerEventReconnected {
			log.Info().Msg("🔄 Listener de status reconectado")
		}
	})
	defer listener.Close()

	if err := listener.Listen(StatusChannel); err != nil {
		return fmt.Errorf("erro ao escutar %s: %w", StatusChannel, err)
	}
	log.Info().Str("channel", StatusChannel).Msg("👂 Escutando mudanças de status dos leads")

	ping := time.NewTicker(90 * time.Second)
	defer ping.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n := <-listener.Notify:
			// nil vem depois de reconexão; notificações podem ter se perdido
			if n == nil {
				continue
			}
			s.handle(n.Extra)
		case <-ping.C:
			if err := listener.Ping(); err != nil {
				log.Warn().Err(err).Msg("⚠️ Ping do listener falhou")
			}
		}
	}
}
