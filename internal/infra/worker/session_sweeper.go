package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultIdleTTL      = 72 * time.Hour
	DefaultTickInterval = 10 * time.Minute
)

type SessionSweeper interface {
	Sweep(cutoff time.Time) []string
}

// SessionSweeperWorker descarta conversas abandonadas no meio do fluxo.
// O TTL fica acima do segundo lembrete para não mudar quando ele é enviado.
type SessionSweeperWorker struct {
	store        SessionSweeper
	idleTTL      time.Duration
	tickInterval time.Duration
	now          func() time.Time
}

func NewSessionSweeperWorker(store SessionSweeper, idleTTL time.Duration) *SessionSweeperWorker {
	if idleTTL <= 0 {
		idleTTL = DefaultIdleTTL
	}
	return &SessionSweeperWorker{
		store:        store,
		idleTTL:      idleTTL,
		tickInterval: DefaultTickInterval,
		now:          time.Now,
	}
}

func (w *SessionSweeperWorker) Start(ctx context.Context) {
	log.Info().Dur("idle_ttl", w.idleTTL).Msg("🕒 Limpeza de sessões iniciada")

	w.sweep()

	ticker := time.NewTicker(w.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("⚠️ Limpeza de sessões encerrada")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SessionSweeperWorker) sweep() int {
	removed := w.store.Sweep(w.now().Add(-w.idleTTL))
	if len(removed) > 0 {
		log.Info().Int("sessions", len(removed)).Msg("🧹 Sessões inativas removidas")
	}
	return len(removed)
}
