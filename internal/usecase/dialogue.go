package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/metrics"
)

// InboundMessage é o que o transporte entrega ao bot.
type InboundMessage struct {
	From       string
	Text       string
	FromMe     bool
	DirectChat bool
}

type FollowUps interface {
	Cancel(phone string)
	Schedule(phone string, leadID int64)
}

type DialogueEngine struct {
	machine   *StateMachine
	followUps FollowUps
	transport Transport
	locks     *keyedMutex
}

func NewDialogueEngine(machine *StateMachine, followUps FollowUps, transport Transport) *DialogueEngine {
	return &DialogueEngine{
		machine:   machine,
		followUps: followUps,
		transport: transport,
		locks:     newKeyedMutex(),
	}
}

// Handle processa uma mensagem do cliente e devolve a resposta. Mensagens do
// mesmo cliente são processadas uma de cada vez.
func (e *DialogueEngine) Handle(ctx context.Context, phone, text string) (reply string) {
	unlock := e.locks.Lock(phone)
	defer unlock()

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordMessage("panic")
			log.Error().Str("phone", phone).Str("panic", fmt.Sprint(r)).Msg("🔥 Erro inesperado no atendimento")
			reply = msgApology
		}
	}()

	// qualquer mensagem conta como atividade
	e.followUps.Cancel(phone)

	res := e.machine.Handle(ctx, phone, text)
	if res.FollowUpLeadID != 0 {
		e.followUps.Schedule(phone, res.FollowUpLeadID)
	}

	metrics.RecordMessage("handled")
	return res.Reply
}

// HandleInbound filtra mensagens que o bot não deve responder e envia a resposta.
func (e *DialogueEngine) HandleInbound(ctx context.Context, msg InboundMessage) {
	if msg.FromMe || !msg.DirectChat || msg.From == "" {
		metrics.RecordMessage("ignored")
		return
	}

	log.Info().Str("from", msg.From).Msg("📩 Mensagem recebida")

	reply := e.Handle(ctx, msg.From, msg.Text)
	if reply == "" {
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, e.machine.SendTimeout)
	defer cancel()

	if err := e.transport.Send(sendCtx, msg.From, reply); err != nil {
		metrics.RecordIntegrationError("whatsapp_send")
		log.Error().Err(err).Str("to", msg.From).Msg("❌ Erro ao enviar resposta")
	}
}
