package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

// ============ COMANDOS GLOBAIS ============

// TestFirstContactShowsMenu - cliente sem sessão sempre recebe o menu
func TestFirstContactShowsMenu(t *testing.T) {
	f := newMachineFixture(t)

	res := f.send("bom dia, quero viajar")

	assert.Equal(t, MainMenu(), res.Reply)
	sess, ok := f.sessions.Get(testPhone)
	require.True(t, ok)
	assert.Equal(t, StepMainMenu, sess.Step)
	assert.Empty(t, sess.Data)
}

// TestCancelTokenInAnyState - cancelar destrói a sessão em qualquer passo
func TestCancelTokenInAnyState(t *testing.T) {
	steps := []Step{
		StepMainMenu, StepQuoteTripType, StepQuotePassengers, StepQuoteConfirm,
		StepQuoteAttendant, StepPostPurchaseBought, StepPostPurchaseIssue, StepDirectContact,
	}

	for _, token := range []string{"cancelar", "cancela", "sair", "parar", "encerrar", "0", " CANCELAR "} {
		for _, step := range steps {
			f := newMachineFixture(t)
			sess := f.sessions.Reset(testPhone, fixedNow)
			sess.Step = step

			res := f.send(token)

			assert.Equal(t, msgCancelled, res.Reply, "token %q no passo %d", token, step)
			assert.False(t, f.sessions.Active(testPhone))
		}
	}
}

func TestCancelWithoutSession(t *testing.T) {
	f := newMachineFixture(t)

	res := f.send("sair")

	assert.Equal(t, msgCancelled, res.Reply)
	assert.Equal(t, 0, f.sessions.Len())
}

// TestMenuResetInAnyState - menu recria a sessão do zero, sem duplicar
func TestMenuResetInAnyState(t *testing.T) {
	for _, token := range []string{"menu", "inicio", "início", "reiniciar", "Menu", "INÍCIO"} {
		f := newMachineFixture(t)

		res := f.send(token)
		assert.Equal(t, MainMenu(), res.Reply)

		f.send("1", "2", "Paris")
		sess, _ := f.sessions.Get(testPhone)
		require.Equal(t, StepQuoteDeparture, sess.Step)

		res = f.send(token)
		assert.Equal(t, MainMenu(), res.Reply)
		f.send(token)

		assert.Equal(t, 1, f.sessions.Len())
		sess, _ = f.sessions.Get(testPhone)
		assert.Equal(t, StepMainMenu, sess.Step)
		assert.Empty(t, sess.Data)
	}
}

func TestMainMenuInvalidOption(t *testing.T) {
	f := newMachineFixture(t)
	f.send("oi")

	res := f.send("9")

	assert.Equal(t, msgInvalidMenu+MainMenu(), res.Reply)
	sess, _ := f.sessions.Get(testPhone)
	assert.Equal(t, StepMainMenu, sess.Step)
	assert.Empty(t, sess.Data)
}

func TestUnknownStepResetsToMenu(t *testing.T) {
	f := newMachineFixture(t)
	sess := f.sessions.Reset(testPhone, fixedNow)
	sess.Step = Step(99)
	sess.Data[FieldDestination] = "Paris"

	res := f.send("qualquer coisa")

	assert.Equal(t, MainMenu(), res.Reply)
	sess, _ = f.sessions.Get(testPhone)
	assert.Equal(t, StepMainMenu, sess.Step)
	assert.Empty(t, sess.Data)
}

func TestLastActivityUpdated(t *testing.T) {
	f := newMachineFixture(t)
	sess := f.sessions.Reset(testPhone, fixedNow.Add(-30*time.Minute))

	f.send("1")

	assert.Equal(t, fixedNow, sess.LastActivity)
}

// ============ FLUXO DE ORÇAMENTO ============

// TestQuoteFlowCreatesLead - fluxo completo gera um lead Novo com follow-up
func TestQuoteFlowCreatesLead(t *testing.T) {
	f := newMachineFixture(t)

	res := f.send(quoteAnswers...)
	assert.Contains(t, res.Reply, "Agora escolha a atendente")
	assert.Zero(t, res.FollowUpLeadID)

	res = f.send("1")

	leads, err := f.repo.List(context.Background(), entity.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, leads, 1)

	lead := leads[0]
	assert.Equal(t, testPhone, lead.Phone)
	assert.Equal(t, entity.StatusNew, lead.Status)
	assert.Equal(t, entity.ServiceQuote, lead.ServiceType)
	assert.Equal(t, "milene", lead.AttendantID)
	assert.Equal(t, "Milene", lead.AttendantName)
	assert.Equal(t, "Aéreo + Hotel", lead.Field(FieldTripType))
	assert.Equal(t, "Paris", lead.Field(FieldDestination))
	assert.Equal(t, "Goiânia", lead.Field(FieldDeparture))
	assert.Equal(t, "10/07 a 18/07", lead.Field(FieldPeriod))
	assert.Equal(t, "Pode flexibilizar (+/- 3 dias)", lead.Field(FieldFlexibility))
	assert.Equal(t, "2", lead.Field(FieldPassengers))
	assert.Equal(t, "2 adultos", lead.Field(FieldAges))
	assert.Equal(t, "R$ 15.000", lead.Field(FieldBudget))
	assert.Equal(t, "Econômica + hotel 5⭐ (com café)", lead.Field(FieldPreference))
	assert.Equal(t, "10/07/2025, 14:30:00", lead.Field(FieldRequestedAt))
	assert.Equal(t, flowQuote, lead.Field(FieldFlow))

	assert.Equal(t, lead.ID, res.FollowUpLeadID)
	assert.Contains(t, res.Reply, "✅ Solicitação enviada!")
	assert.Contains(t, res.Reply, "https://wa.me/5562991989622")
	assert.Contains(t, res.Reply, "🎯 *Protocolo:* #1")
	assert.False(t, f.sessions.Active(testPhone))

	f.transport.AssertCalled(t, "Send", mock.Anything, "5562991989622", mock.MatchedBy(func(text string) bool {
		return text == AttendantNotification(lead, "1")
	}))
}

func TestQuoteSummaryBeforeConfirm(t *testing.T) {
	f := newMachineFixture(t)

	res := f.send(quoteAnswers[:len(quoteAnswers)-1]...)

	assert.Contains(t, res.Reply, "📋 *RESUMO DO ORÇAMENTO*")
	assert.Contains(t, res.Reply, "🌍 *Destino:* Paris")
	assert.Contains(t, res.Reply, "👥 *Passageiros:* 2")
	assert.Contains(t, res.Reply, promptConfirm)
	sess, _ := f.sessions.Get(testPhone)
	assert.Equal(t, StepQuoteConfirm, sess.Step)
}

// TestPassengerValidation - número inválido não avança nem grava
func TestPassengerValidation(t *testing.T) {
	f := newMachineFixture(t)
	f.send("oi", "1", "1", "Lisboa", "Brasília", "Dezembro", "1")

	sess, _ := f.sessions.Get(testPhone)
	require.Equal(t, StepQuotePassengers, sess.Step)

	for _, bad := range []string{"51", "abc", "-1", "2 pessoas", "1.5", ""} {
		res := f.send(bad)
		assert.Equal(t, errPassengers, res.Reply, "entrada %q", bad)
		assert.Equal(t, StepQuotePassengers, sess.Step)
		_, ok := sess.Data[FieldPassengers]
		assert.False(t, ok)
	}

	res := f.send(" 50 ")
	assert.Equal(t, promptAges, res.Reply)
	assert.Equal(t, "50", sess.Data[FieldPassengers])
}

// TestPassengerZeroCancels - "0" é sempre o comando de cancelar
func TestPassengerZeroCancels(t *testing.T) {
	f := newMachineFixture(t)
	f.send("oi", "1", "1", "Lisboa", "Brasília", "Dezembro", "1")

	res := f.send("0")

	assert.Equal(t, msgCancelled, res.Reply)
	assert.False(t, f.sessions.Active(testPhone))
}

func TestInvalidChoiceDoesNotMutate(t *testing.T) {
	f := newMachineFixture(t)
	f.send("oi", "1")

	res := f.send("4")

	assert.Equal(t, errTripType, res.Reply)
	sess, _ := f.sessions.Get(testPhone)
	assert.Equal(t, StepQuoteTripType, sess.Step)
	_, ok := sess.Data[FieldTripType]
	assert.False(t, ok)
}

// TestMinLengthCountsRunes - "é" tem dois bytes mas é um caractere
func TestMinLengthCountsRunes(t *testing.T) {
	f := newMachineFixture(t)
	f.send("oi", "1", "1")

	assert.Equal(t, errDestination, f.send("é").Reply)
	assert.Equal(t, errDestination, f.send("   ").Reply)
	assert.Equal(t, promptDeparture, f.send("Rô").Reply)
}

func TestQuoteConfirmDeclineReturnsToMenu(t *testing.T) {
	f := newMachineFixture(t)
	f.send(quoteAnswers[:len(quoteAnswers)-1]...)

	assert.Equal(t, errYesNo, f.send("3").Reply)

	res := f.send("2")

	assert.Equal(t, MainMenu(), res.Reply)
	sess, _ := f.sessions.Get(testPhone)
	assert.Equal(t, StepMainMenu, sess.Step)
	assert.Empty(t, sess.Data)
}

func TestQuoteAttendantInvalid(t *testing.T) {
	f := newMachineFixture(t)
	f.send(quoteAnswers...)

	res := f.send("4")

	assert.Equal(t, msgInvalidMenu+attendantMenu(entity.DefaultAttendants()), res.Reply)
	sess, _ := f.sessions.Get(testPhone)
	assert.Equal(t, StepQuoteAttendant, sess.Step)
	leads, _ := f.repo.List(context.Background(), entity.LeadFilter{})
	assert.Empty(t, leads)
}

// TestPersistenceFailure - cliente vê N/A, atendente recebe o carimbo de hora, sem follow-up
func TestPersistenceFailure(t *testing.T) {
	f := newMachineFixture(t)
	writer := new(MockLeadWriter)
	writer.On("Create", mock.Anything, mock.Anything).Return(errors.New("conexão recusada"))
	f.machine.leads = writer

	f.send(quoteAnswers...)
	res := f.send("2")

	assert.Contains(t, res.Reply, "🎯 *Protocolo:* #N/A")
	assert.Contains(t, res.Reply, "https://wa.me/5562999646094")
	assert.Zero(t, res.FollowUpLeadID)
	assert.False(t, f.sessions.Active(testPhone))
	ref := strconv.FormatInt(fixedNow.Unix(), 10)
	f.transport.AssertCalled(t, "Send", mock.Anything, "5562999646094", mock.MatchedBy(func(text string) bool {
		return strings.Contains(text, "🎯 *Protocolo:* #"+ref) && !strings.Contains(text, "#N/A")
	}))
}

func TestNotifierReceivesPersistedLead(t *testing.T) {
	f := newMachineFixture(t)
	notifier := new(MockLeadNotifier)
	notifier.On("LeadCreated", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.ID == 1 && l.ServiceType == entity.ServiceDirectContact
	})).Return(errors.New("smtp fora do ar"))
	f.machine.notifier = notifier

	res := f.send("oi", "3", "3")

	assert.Contains(t, res.Reply, "#1")
	notifier.AssertNumberOfCalls(t, "LeadCreated", 1)
}

func TestAttendantNotificationFailureIsSwallowed(t *testing.T) {
	f := newMachineFixture(t)
	transport := new(MockTransport)
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("timeout"))
	f.machine.transport = transport

	res := f.send("oi", "3", "1")

	assert.Contains(t, res.Reply, "✅ Pronto! Registrei como *Contato direto*.")
	leads, _ := f.repo.List(context.Background(), entity.LeadFilter{})
	assert.Len(t, leads, 1)
}

// ============ PÓS-COMPRA ============

func TestPostPurchaseNotOurs(t *testing.T) {
	f := newMachineFixture(t)

	res := f.send("oi", "2", "2")

	assert.Equal(t, msgNotOurs, res.Reply)
	assert.Zero(t, res.FollowUpLeadID)
	assert.False(t, f.sessions.Active(testPhone))
	leads, _ := f.repo.List(context.Background(), entity.LeadFilter{})
	assert.Empty(t, leads)
	f.transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostPurchaseFlow(t *testing.T) {
	f := newMachineFixture(t)
	f.send("oi", "2", "1", "2")

	assert.Equal(t, errIssue, f.send("ok").Reply)

	res := f.send("alteração de data do voo")

	assert.Zero(t, res.FollowUpLeadID)
	assert.Contains(t, res.Reply, "✅ Encaminhado para *Leane*.")
	assert.Contains(t, res.Reply, "https://wa.me/5562999646094")
	assert.Contains(t, res.Reply, "#1")

	lead, err := f.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusInProgress, lead.Status)
	assert.Equal(t, entity.ServicePostPurchase, lead.ServiceType)
	assert.Equal(t, "leane", lead.AttendantID)
	assert.Equal(t, "alteração de data do voo", lead.Field(FieldTripInfo))
	assert.Equal(t, flowPostPurchase, lead.Field(FieldFlow))
	_, hasID := lead.Fields[fieldAttendantID]
	assert.False(t, hasID)
	assert.False(t, f.sessions.Active(testPhone))
}

// TestPostPurchaseUnknownAttendant - atendente fora do diretório vira desculpas, sessão mantida
func TestPostPurchaseUnknownAttendant(t *testing.T) {
	f := newMachineFixture(t)
	sess := f.sessions.Reset(testPhone, fixedNow)
	sess.Step = StepPostPurchaseIssue
	sess.Data[fieldAttendantID] = "desconhecida"

	var res Result
	assert.NotPanics(t, func() { res = f.send("preciso remarcar") })

	assert.Equal(t, msgApology, res.Reply)
	assert.Zero(t, res.FollowUpLeadID)
	got, ok := f.sessions.Get(testPhone)
	require.True(t, ok)
	assert.Equal(t, StepPostPurchaseIssue, got.Step)
	leads, _ := f.repo.List(context.Background(), entity.LeadFilter{})
	assert.Empty(t, leads)
	f.transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

// ============ CONTATO DIRETO ============

func TestDirectContactFlow(t *testing.T) {
	f := newMachineFixture(t)

	res := f.send("oi", "3")
	assert.Contains(t, res.Reply, "Claro 😊")
	assert.Contains(t, res.Reply, "2️⃣ Leane")

	res = f.send("2")

	assert.Zero(t, res.FollowUpLeadID)
	assert.Contains(t, res.Reply, "📱 Falar agora com *Leane*: https://wa.me/5562999646094")

	lead, err := f.repo.FindByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusDirectContact, lead.Status)
	assert.Equal(t, entity.ServiceDirectContact, lead.ServiceType)
	assert.Equal(t, directContactNote, lead.Field(FieldTripInfo))
	assert.False(t, f.sessions.Active(testPhone))
}

// ============ MENSAGENS ============

func TestAttendantNotificationByService(t *testing.T) {
	quote := &entity.Lead{
		ID: 7, Phone: testPhone, ServiceType: entity.ServiceQuote, AttendantName: "Milene",
		Fields: map[string]string{FieldDestination: "Paris", FieldRequestedAt: "10/07/2025, 14:30:00"},
	}
	text := AttendantNotification(quote, quote.Protocol())
	assert.Contains(t, text, "🔔 *NOVO LEAD - VIALE TURISMO*")
	assert.Contains(t, text, "🎯 *Protocolo:* #7")
	assert.Contains(t, text, "🌍 *Destino:* Paris")
	assert.Contains(t, text, "🛫 *Saída:* -")
	assert.NotContains(t, text, "📌 *Info:*")

	support := &entity.Lead{
		Phone: testPhone, ServiceType: entity.ServicePostPurchase, AttendantName: "Leane",
		Fields: map[string]string{FieldTripInfo: "bagagem extraviada"},
	}
	text = AttendantNotification(support, "1752157800")
	assert.Contains(t, text, "🎯 *Protocolo:* #1752157800")
	assert.Contains(t, text, "📌 *Info:* bagagem extraviada")
	assert.NotContains(t, text, "🌍 *Destino:*")
}
