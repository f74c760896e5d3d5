package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/metrics"
)

const (
	DefaultFirstFollowUpDelay  = 30 * time.Minute
	DefaultSecondFollowUpDelay = 24 * time.Hour
)

type reminder int

const (
	reminderFirst reminder = iota
	reminderSecond
)

func (r reminder) String() string {
	if r == reminderFirst {
		return "first"
	}
	return "second"
}

func (r reminder) text() string {
	if r == reminderFirst {
		return msgFollowUpFirst
	}
	return msgFollowUpSecond
}

type followUpState struct {
	leadID int64
	timers [2]*time.Timer
	sent   [2]bool
}

func (st *followUpState) stop() {
	for _, t := range st.timers {
		if t != nil {
			t.Stop()
		}
	}
}

// FollowUpScheduler mantém no máximo um par de lembretes por cliente.
// O timer parado não é garantia: cada disparo confere de novo se o estado
// ainda é o mesmo antes de enviar.
type FollowUpScheduler struct {
	mu     sync.Mutex
	states map[string]*followUpState

	leads     LeadFinder
	sessions  SessionChecker
	transport Transport

	firstDelay  time.Duration
	secondDelay time.Duration
	SendTimeout time.Duration
}

func NewFollowUpScheduler(leads LeadFinder, sessions SessionChecker, transport Transport, firstDelay, secondDelay time.Duration) *FollowUpScheduler {
	if firstDelay <= 0 {
		firstDelay = DefaultFirstFollowUpDelay
	}
	if secondDelay <= 0 {
		secondDelay = DefaultSecondFollowUpDelay
	}

	return &FollowUpScheduler{
		states:      make(map[string]*followUpState),
		leads:       leads,
		sessions:    sessions,
		transport:   transport,
		firstDelay:  firstDelay,
		secondDelay: secondDelay,
		SendTimeout: DefaultSendTimeout,
	}
}

// Schedule substitui qualquer follow-up pendente do cliente. leadID 0 é ignorado.
func (s *FollowUpScheduler) Schedule(phone string, leadID int64) {
	if leadID == 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked(phone)

	st := &followUpState{leadID: leadID}
	// os callbacks precisam do lock, então só rodam depois do estado registrado
	st.timers[reminderFirst] = time.AfterFunc(s.firstDelay, func() { s.fire(phone, st, reminderFirst) })
	st.timers[reminderSecond] = time.AfterFunc(s.secondDelay, func() { s.fire(phone, st, reminderSecond) })
	s.states[phone] = st

	log.Debug().Str("phone", phone).Int64("lead_id", leadID).Msg("⏰ Follow-ups agendados")
}

func (s *FollowUpScheduler) Cancel(phone string) {
	s.mu.Lock()
	s.cancelLocked(phone)
	s.mu.Unlock()
}

func (s *FollowUpScheduler) cancelLocked(phone string) {
	st, ok := s.states[phone]
	if !ok {
		return
	}
	st.stop()
	delete(s.states, phone)
}

// CancelForLead remove o follow-up ligado ao lead, se houver.
func (s *FollowUpScheduler) CancelForLead(leadID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for phone, st := range s.states {
		if st.leadID == leadID {
			st.stop()
			delete(s.states, phone)
			return true
		}
	}
	return false
}

// Stop cancela tudo; usado no shutdown.
func (s *FollowUpScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for phone, st := range s.states {
		st.stop()
		delete(s.states, phone)
	}
}

// due informa se o lembrete r de st ainda deve sair.
func (s *FollowUpScheduler) due(phone string, st *followUpState, r reminder) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[phone] == st && !st.sent[r]
}

func (s *FollowUpScheduler) cancelIfCurrent(phone string, st *followUpState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[phone] == st {
		s.cancelLocked(phone)
	}
}

func (s *FollowUpScheduler) fire(phone string, st *followUpState, r reminder) {
	if !s.due(phone, st, r) {
		return
	}
	// depois do último lembrete não há mais nada a agendar
	if r == reminderSecond {
		defer s.cancelIfCurrent(phone, st)
	}

	if s.sessions.Active(phone) {
		metrics.RecordFollowUp(r.String(), "skipped_session")
		log.Info().Str("phone", phone).Str("reminder", r.String()).Msg("⏭️ Follow-up ignorado, cliente em atendimento")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.SendTimeout)
	defer cancel()

	lead, err := s.leads.FindByID(ctx, st.leadID)
	switch {
	case errors.Is(err, entity.ErrLeadNotFound), err == nil && !lead.IsNew():
		s.cancelIfCurrent(phone, st)
		metrics.RecordFollowUp(r.String(), "cancelled")
		log.Info().Str("phone", phone).Int64("lead_id", st.leadID).Msg("🛑 Follow-up cancelado, lead não está mais como Novo")
		return
	case err != nil:
		metrics.RecordFollowUp(r.String(), "error")
		log.Error().Err(err).Int64("lead_id", st.leadID).Msg("❌ Erro ao consultar lead do follow-up")
		return
	}

	// pode ter sido cancelado durante a consulta
	if !s.due(phone, st, r) {
		return
	}

	if err := s.transport.Send(ctx, phone, r.text()); err != nil {
		metrics.RecordFollowUp(r.String(), "error")
		log.Error().Err(err).Str("phone", phone).Str("reminder", r.String()).Msg("❌ Erro ao enviar follow-up")
		return
	}

	s.mu.Lock()
	if s.states[phone] == st {
		st.sent[r] = true
	}
	s.mu.Unlock()

	metrics.RecordFollowUp(r.String(), "sent")
	log.Info().Str("phone", phone).Str("reminder", r.String()).Msg("🔁 Follow-up enviado")
}
