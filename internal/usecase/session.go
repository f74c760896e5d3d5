package usecase

import (
	"sync"
	"time"
)

type Step int

const (
	StepMainMenu Step = 1

	StepQuoteTripType    Step = 10
	StepQuoteDestination Step = 11
	StepQuoteDeparture   Step = 12
	StepQuotePeriod      Step = 13
	StepQuoteFlexibility Step = 14
	StepQuotePassengers  Step = 15
	StepQuoteAges        Step = 16
	StepQuoteBudget      Step = 17
	StepQuotePreference  Step = 18
	StepQuoteConfirm     Step = 19

	StepPostPurchaseBought    Step = 20
	StepPostPurchaseAttendant Step = 21
	StepPostPurchaseIssue     Step = 22

	StepDirectContact Step = 30

	StepQuoteAttendant Step = 40
)

// Chaves dos campos coletados, gravadas como estão no lead.
const (
	FieldFlow        = "flow"
	FieldTripType    = "tipo_viagem"
	FieldDestination = "destino"
	FieldDeparture   = "cidade_saida"
	FieldPeriod      = "periodo"
	FieldFlexibility = "flexibilidade"
	FieldPassengers  = "num_passageiros"
	FieldAges        = "idades"
	FieldBudget      = "orcamento"
	FieldPreference  = "preferencia"
	FieldRequestedAt = "data_solicitacao"
	FieldTripInfo    = "info_viagem"
)

const (
	fieldAttendantID = "atendente_id"

	flowQuote         = "orcamento"
	flowPostPurchase  = "pos_compra"
	flowDirectContact = "contato_direto"

	// dd/mm/aaaa, hh:mm:ss
	requestedAtLayout = "02/01/2006, 15:04:05"

	sessionDataInitCap = 12
)

type Session struct {
	Step         Step
	Data         map[string]string
	LastActivity time.Time
}

func newSession(now time.Time) *Session {
	return &Session{
		Step:         StepMainMenu,
		Data:         make(map[string]string, sessionDataInitCap),
		LastActivity: now,
	}
}

// SessionStore guarda no máximo uma sessão por cliente.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[string]*Session)}
}

func (s *SessionStore) Get(phone string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[phone]
	return sess, ok
}

// Touch devolve a sessão e marca a atividade.
func (s *SessionStore) Touch(phone string, now time.Time) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[phone]
	if ok {
		sess.LastActivity = now
	}
	return sess, ok
}

// Reset substitui qualquer sessão existente por uma nova no menu principal.
func (s *SessionStore) Reset(phone string, now time.Time) *Session {
	sess := newSession(now)
	s.mu.Lock()
	s.sessions[phone] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Delete(phone string) {
	s.mu.Lock()
	delete(s.sessions, phone)
	s.mu.Unlock()
}

func (s *SessionStore) Active(phone string) bool {
	_, ok := s.Get(phone)
	return ok
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep remove as sessões sem atividade desde cutoff e devolve os telefones removidos.
func (s *SessionStore) Sweep(cutoff time.Time) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed []string
	for phone, sess := range s.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(s.sessions, phone)
			removed = append(removed, phone)
		}
	}
	return removed
}
