package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/metrics"
)

const DefaultSendTimeout = 15 * time.Second

var cancelTokens = map[string]bool{
	"cancelar": true,
	"cancela":  true,
	"sair":     true,
	"parar":    true,
	"encerrar": true,
	"0":        true,
}

var menuTokens = map[string]bool{
	"menu":      true,
	"inicio":    true,
	"início":    true,
	"reiniciar": true,
}

// Result é a resposta ao cliente. FollowUpLeadID != 0 pede o agendamento
// dos lembretes para esse lead.
type Result struct {
	Reply          string
	FollowUpLeadID int64
}

type StateMachine struct {
	sessions  *SessionStore
	leads     LeadWriter
	transport Transport
	notifier  LeadNotifier
	directory *entity.AttendantDirectory
	steps     map[Step]stepFunc

	SendTimeout time.Duration
	now         func() time.Time
	// async dispara efeitos colaterais sem bloquear a resposta
	async func(func())
}

// NewStateMachine aceita notifier nil (sem e-mail/planilha/fila).
func NewStateMachine(
	sessions *SessionStore,
	leads LeadWriter,
	transport Transport,
	notifier LeadNotifier,
	directory *entity.AttendantDirectory,
) *StateMachine {
	m := &StateMachine{
		sessions:    sessions,
		leads:       leads,
		transport:   transport,
		notifier:    notifier,
		directory:   directory,
		SendTimeout: DefaultSendTimeout,
		now:         time.Now,
		async:       func(fn func()) { go fn() },
	}
	m.steps = m.buildSteps()
	return m
}

func (m *StateMachine) Handle(ctx context.Context, phone, text string) Result {
	raw := strings.TrimSpace(text)
	in := input{raw: raw, cmd: strings.ToLower(raw)}

	if cancelTokens[in.cmd] {
		m.sessions.Delete(phone)
		return Result{Reply: msgCancelled}
	}

	if menuTokens[in.cmd] {
		m.sessions.Reset(phone, m.now())
		return Result{Reply: MainMenu()}
	}

	sess, ok := m.sessions.Touch(phone, m.now())
	if !ok {
		m.sessions.Reset(phone, m.now())
		return Result{Reply: MainMenu()}
	}

	step, ok := m.steps[sess.Step]
	if !ok {
		log.Warn().Str("phone", phone).Int("step", int(sess.Step)).Msg("⚠️ Passo desconhecido, voltando ao menu")
		m.sessions.Reset(phone, m.now())
		return Result{Reply: MainMenu()}
	}

	return step(ctx, phone, sess, in)
}

// completeLead persiste o lead e avisa a atendente. Falha ao salvar não
// interrompe o atendimento: o cliente recebe protocolo N/A e a atendente
// recebe o carimbo de hora como referência.
func (m *StateMachine) completeLead(ctx context.Context, lead *entity.Lead) bool {
	persisted := true
	if err := m.leads.Create(ctx, lead); err != nil {
		persisted = false
		lead.ID = 0
		metrics.RecordIntegrationError("lead_store")
		log.Error().Err(err).Str("phone", lead.Phone).Str("service", lead.ServiceType).Msg("❌ Erro ao salvar lead")
	} else {
		metrics.RecordLeadCreated(lead.ServiceType)
		log.Info().Int64("lead_id", lead.ID).Str("phone", lead.Phone).Str("service", lead.ServiceType).Msg("✅ Lead salvo")
	}

	ref := lead.Protocol()
	if !persisted {
		ref = strconv.FormatInt(m.now().Unix(), 10)
	}
	m.notifyAttendant(lead.Clone(), ref)

	if persisted && m.notifier != nil {
		m.emitLeadCreated(lead.Clone())
	}
	return persisted
}

func (m *StateMachine) notifyAttendant(lead *entity.Lead, ref string) {
	if lead.AttendantNumber == "" {
		return
	}

	m.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.SendTimeout)
		defer cancel()

		if err := m.transport.Send(ctx, lead.AttendantNumber, AttendantNotification(lead, ref)); err != nil {
			metrics.RecordIntegrationError("attendant_notification")
			log.Error().Err(err).Str("attendant", lead.AttendantName).Msg("❌ Erro ao enviar lead para atendente")
			return
		}
		log.Info().Str("attendant", lead.AttendantName).Str("protocol", ref).Msg("✅ Lead enviado para atendente")
	})
}

func (m *StateMachine) emitLeadCreated(lead *entity.Lead) {
	m.async(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.SendTimeout)
		defer cancel()

		if err := m.notifier.LeadCreated(ctx, lead); err != nil {
			log.Error().Err(err).Int64("lead_id", lead.ID).Msg("❌ Erro ao propagar lead criado")
		}
	})
}
