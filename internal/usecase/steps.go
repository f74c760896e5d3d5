package usecase

import (
	"context"
	"strconv"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

type input struct {
	raw string // texto sem espaços nas pontas
	cmd string // raw em minúsculas, usado nas opções de menu
}

type stepFunc func(ctx context.Context, phone string, sess *Session, in input) Result

// acceptFunc valida a entrada e devolve o valor a gravar.
type acceptFunc func(in input) (string, bool)

// collect descreve um passo linear: valida, grava um campo e avança.
type collect struct {
	field   string
	accept  acceptFunc
	next    Step
	prompt  func(sess *Session) string
	invalid string
	// stamp roda depois de gravar o campo, antes do prompt
	stamp func(sess *Session)
}

func (c collect) run(_ context.Context, _ string, sess *Session, in input) Result {
	value, ok := c.accept(in)
	if !ok {
		return Result{Reply: c.invalid}
	}

	sess.Data[c.field] = value
	if c.stamp != nil {
		c.stamp(sess)
	}
	sess.Step = c.next
	return Result{Reply: c.prompt(sess)}
}

func minLength(n int) acceptFunc {
	return func(in input) (string, bool) {
		if utf8.RuneCountInString(in.raw) < n {
			return "", false
		}
		return in.raw, true
	}
}

func choice(options map[string]string) acceptFunc {
	return func(in input) (string, bool) {
		v, ok := options[in.cmd]
		return v, ok
	}
}

func intRange(lo, hi int) acceptFunc {
	return func(in input) (string, bool) {
		n, err := strconv.Atoi(in.raw)
		if err != nil || n < lo || n > hi {
			return "", false
		}
		return strconv.Itoa(n), true
	}
}

func attendantChoice(dir *entity.AttendantDirectory) acceptFunc {
	return func(in input) (string, bool) {
		a, ok := dir.ByOption(in.cmd)
		return a.ID, ok
	}
}

func static(text string) func(*Session) string {
	return func(*Session) string { return text }
}

func (m *StateMachine) buildSteps() map[Step]stepFunc {
	invalidAttendant := msgInvalidMenu + attendantMenu(m.directory.All())

	steps := map[Step]stepFunc{
		StepMainMenu:           m.mainMenu,
		StepQuoteConfirm:       m.quoteConfirm,
		StepQuoteAttendant:     m.quoteAttendant,
		StepPostPurchaseBought: m.postPurchaseBought,
		StepPostPurchaseIssue:  m.postPurchaseIssue,
		StepDirectContact:      m.directContact,
	}

	linear := map[Step]collect{
		StepQuoteTripType: {
			field: FieldTripType, accept: choice(tripTypes),
			next: StepQuoteDestination, prompt: static(promptDestination), invalid: errTripType,
		},
		StepQuoteDestination: {
			field: FieldDestination, accept: minLength(2),
			next: StepQuoteDeparture, prompt: static(promptDeparture), invalid: errDestination,
		},
		StepQuoteDeparture: {
			field: FieldDeparture, accept: minLength(2),
			next: StepQuotePeriod, prompt: static(promptPeriod), invalid: errDeparture,
		},
		StepQuotePeriod: {
			field: FieldPeriod, accept: minLength(2),
			next: StepQuoteFlexibility, prompt: static(promptFlexibility), invalid: errPeriod,
		},
		StepQuoteFlexibility: {
			field: FieldFlexibility, accept: choice(flexibilityOptions),
			next: StepQuotePassengers, prompt: static(promptPassengers), invalid: errFlexibility,
		},
		StepQuotePassengers: {
			field: FieldPassengers, accept: intRange(1, 50),
			next: StepQuoteAges, prompt: static(promptAges), invalid: errPassengers,
		},
		StepQuoteAges: {
			field: FieldAges, accept: minLength(2),
			next: StepQuoteBudget, prompt: static(promptBudget), invalid: errAges,
		},
		StepQuoteBudget: {
			field: FieldBudget, accept: minLength(2),
			next: StepQuotePreference, prompt: static(promptPreference), invalid: errBudget,
		},
		StepQuotePreference: {
			field: FieldPreference, accept: choice(preferenceOptions),
			next: StepQuoteConfirm, invalid: errPreference,
			stamp: func(sess *Session) {
				sess.Data[FieldRequestedAt] = m.now().Format(requestedAtLayout)
			},
			prompt: func(sess *Session) string {
				return QuoteSummary(sess.Data) + "\n\n" + promptConfirm
			},
		},
		StepPostPurchaseAttendant: {
			field: fieldAttendantID, accept: attendantChoice(m.directory),
			next: StepPostPurchaseIssue, prompt: static(promptIssue), invalid: invalidAttendant,
		},
	}
	for step, c := range linear {
		steps[step] = c.run
	}

	return steps
}

func (m *StateMachine) mainMenu(_ context.Context, _ string, sess *Session, in input) Result {
	switch in.cmd {
	case "1":
		sess.Data[FieldFlow] = flowQuote
		sess.Step = StepQuoteTripType
		return Result{Reply: promptTripType}
	case "2":
		sess.Data[FieldFlow] = flowPostPurchase
		sess.Step = StepPostPurchaseBought
		return Result{Reply: promptPostPurchase}
	case "3":
		sess.Data[FieldFlow] = flowDirectContact
		sess.Step = StepDirectContact
		return Result{Reply: "Claro 😊\n\n" + attendantMenu(m.directory.All())}
	}
	return Result{Reply: msgInvalidMenu + MainMenu()}
}

func (m *StateMachine) quoteConfirm(_ context.Context, phone string, sess *Session, in input) Result {
	switch in.cmd {
	case "1":
		sess.Step = StepQuoteAttendant
		return Result{Reply: "✅ Perfeito! Agora escolha a atendente:\n\n" + attendantMenu(m.directory.All())}
	case "2":
		m.sessions.Reset(phone, m.now())
		return Result{Reply: MainMenu()}
	}
	return Result{Reply: errYesNo}
}

func (m *StateMachine) quoteAttendant(ctx context.Context, phone string, sess *Session, in input) Result {
	attendant, ok := m.directory.ByOption(in.cmd)
	if !ok {
		return Result{Reply: msgInvalidMenu + attendantMenu(m.directory.All())}
	}

	lead := entity.NewLead(phone, entity.StatusNew, entity.ServiceQuote, attendant, sess.Data)
	persisted := m.completeLead(ctx, lead)
	m.sessions.Delete(phone)

	res := Result{Reply: quoteDoneReply(lead, attendant)}
	if persisted {
		res.FollowUpLeadID = lead.ID
	}
	return res
}

func (m *StateMachine) postPurchaseBought(_ context.Context, phone string, sess *Session, in input) Result {
	switch in.cmd {
	case "1":
		sess.Step = StepPostPurchaseAttendant
		return Result{Reply: "Com qual atendente você comprou?\n\n" + attendantMenu(m.directory.All())}
	case "2":
		m.sessions.Delete(phone)
		return Result{Reply: msgNotOurs}
	}
	return Result{Reply: errYesNo}
}

func (m *StateMachine) postPurchaseIssue(ctx context.Context, phone string, sess *Session, in input) Result {
	if utf8.RuneCountInString(in.raw) < 3 {
		return Result{Reply: errIssue}
	}

	attendant, ok := m.directory.ByID(sess.Data[fieldAttendantID])
	if !ok {
		log.Error().Str("phone", phone).Str("attendant_id", sess.Data[fieldAttendantID]).Msg("❌ Sessão de pós-compra sem atendente válida")
		return Result{Reply: msgApology}
	}

	lead := entity.NewLead(phone, entity.StatusInProgress, entity.ServicePostPurchase, attendant, sess.Data)
	delete(lead.Fields, fieldAttendantID)
	lead.Fields[FieldTripInfo] = in.raw
	lead.Fields[FieldRequestedAt] = m.now().Format(requestedAtLayout)

	m.completeLead(ctx, lead)
	m.sessions.Delete(phone)

	return Result{Reply: postPurchaseDoneReply(lead, attendant)}
}

func (m *StateMachine) directContact(ctx context.Context, phone string, _ *Session, in input) Result {
	attendant, ok := m.directory.ByOption(in.cmd)
	if !ok {
		return Result{Reply: msgInvalidMenu + attendantMenu(m.directory.All())}
	}

	lead := entity.NewLead(phone, entity.StatusDirectContact, entity.ServiceDirectContact, attendant, map[string]string{
		FieldRequestedAt: m.now().Format(requestedAtLayout),
		FieldTripInfo:    directContactNote,
	})

	m.completeLead(ctx, lead)
	m.sessions.Delete(phone)

	return Result{Reply: directContactDoneReply(lead, attendant)}
}
