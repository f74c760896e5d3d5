package usecase

import (
	"fmt"
	"strings"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

const AgencyName = "VIALE TURISMO"

const (
	msgCancelled   = "✅ Atendimento cancelado.\n\nSe precisar novamente, digite *menu*."
	msgApology     = "Desculpe, ocorreu um erro. Digite *menu* para voltar ao início."
	msgInvalidMenu = "❌ Opção inválida.\n\n"

	msgFollowUpFirst  = "Oi 😊 só passando para confirmar se você recebeu minha última mensagem.\n\nPosso te ajudar com mais alguma informação?\n\n(Se quiser, digite *menu*.)"
	msgFollowUpSecond = "Ainda quer receber opções para sua viagem? 😊\n\nPosso te enviar *2 sugestões personalizadas*.\n\n(Responda por aqui ou digite *menu*.)"

	directContactNote = "Cliente solicitou contato direto com a atendente."

	separator = "━━━━━━━━━━━━━━━━━━━━"
)

// Prompts do fluxo de orçamento
const (
	promptTripType    = "Perfeito ✅ Vamos solicitar seu orçamento.\n\n✈️ *Qual tipo de viagem você deseja?*\n1️⃣ Passagens (aéreo)\n2️⃣ Aéreo + Hotel\n3️⃣ Pacote completo (aéreo + hotel + passeios)\n\n0️⃣ Cancelar"
	promptDestination = "🌍 *Para qual destino você deseja viajar?*\n\nEx.: Itália, Paris, Maceió, Europa\n\n0️⃣ Cancelar"
	promptDeparture   = "🛫 *De qual cidade/aeroporto vocês saem?*\n\nEx.: Goiânia, Brasília, São Paulo (GRU)\n\n0️⃣ Cancelar"
	promptPeriod      = "📅 *Qual data ou período da viagem?*\n\nEx.: 10/07 a 18/07, Julho/2026, Dezembro\n\n0️⃣ Cancelar"
	promptFlexibility = "🗓️ Suas datas são fixas ou tem flexibilidade de *+/- 3 dias*?\n\n1️⃣ Datas fixas\n2️⃣ Pode flexibilizar\n\n0️⃣ Cancelar"
	promptPassengers  = "👥 *Quantas pessoas vão viajar?*\n\nDigite apenas o número (ex.: 2)\n\n0️⃣ Cancelar"
	promptAges        = "👶 *Idades dos passageiros?*\n\nEx.: 2 adultos / 2 adultos e 1 criança (5 anos)\n\n0️⃣ Cancelar"
	promptBudget      = "💰 *Qual orçamento total aproximado?*\n\nEx.: R$ 8.000 / Até R$ 15.000\n\n0️⃣ Cancelar"
	promptPreference  = "🏨 Preferência?\n\n1️⃣ Econômica + hotel 3⭐ (com café)\n2️⃣ Econômica + hotel 4⭐ (com café)\n3️⃣ Econômica + hotel 5⭐ (com café)\n4️⃣ Executiva + hotel 4/5⭐ (com café)\n5️⃣ Quero sugestões\n\n0️⃣ Cancelar"
	promptConfirm     = "✅ Deseja confirmar e escolher a atendente?\n1️⃣ Sim\n2️⃣ Não (voltar ao menu)\n\n0️⃣ Cancelar"

	errTripType    = "❌ Opção inválida. Digite 1, 2 ou 3 (ou 0)."
	errDestination = "❌ Informe um destino válido (ou 0)."
	errDeparture   = "❌ Informe a cidade/aeroporto de saída (ou 0)."
	errPeriod      = "❌ Informe um período válido (ou 0)."
	errFlexibility = "❌ Opção inválida. Digite 1 ou 2 (ou 0)."
	errPassengers  = "❌ Digite um número válido (1 a 50) ou 0."
	errAges        = "❌ Informe as idades (ou 0)."
	errBudget      = "❌ Informe o orçamento (ou 0)."
	errPreference  = "❌ Opção inválida. Digite 1 a 5 (ou 0)."
	errYesNo       = "❌ Opção inválida. Digite 1, 2 ou 0."
	errIssue       = "❌ Escreva um resumo (ou 0)."
)

var (
	promptPostPurchase = fmt.Sprintf("Certo ✅ Essa viagem foi comprada com a *%s*?\n\n1️⃣ Sim\n2️⃣ Não\n\n0️⃣ Cancelar", AgencyName)
	promptIssue        = "✅ Me diga rapidamente sua necessidade com a viagem já comprada.\n\nEx.: alteração de data, bagagem, check-in, hotel...\n\n0️⃣ Cancelar"
	msgNotOurs         = fmt.Sprintf("Entendi 😊\n\nNo momento, a *%s* presta suporte apenas para viagens adquiridas conosco.\n\nSe quiser, podemos te ajudar com um *novo orçamento* ✅\n\nDigite *menu* para voltar ao início.", AgencyName)
)

var tripTypes = map[string]string{
	"1": "Somente Aéreo",
	"2": "Aéreo + Hotel",
	"3": "Pacote Completo",
}

var flexibilityOptions = map[string]string{
	"1": "Datas fixas",
	"2": "Pode flexibilizar (+/- 3 dias)",
}

var preferenceOptions = map[string]string{
	"1": "Econômica + hotel 3⭐ (com café)",
	"2": "Econômica + hotel 4⭐ (com café)",
	"3": "Econômica + hotel 5⭐ (com café)",
	"4": "Executiva + hotel 4/5⭐ (com café)",
	"5": "Quero sugestões",
}

func MainMenu() string {
	return fmt.Sprintf(`👋 Olá! Seja bem-vindo(a) à *%s* ✨

Escolha uma opção:

1️⃣ *Solicitar orçamento*
2️⃣ *Ajuda com viagem já comprada*
3️⃣ *Falar direto com uma atendente*

0️⃣ *Cancelar atendimento*

_Digite 1, 2, 3 ou 0_`, AgencyName)
}

var optionEmojis = []string{"1️⃣", "2️⃣", "3️⃣"}

func attendantMenu(attendants []entity.Attendant) string {
	var b strings.Builder
	b.WriteString("👩‍💼 *Escolha a atendente:*\n")
	for i, a := range attendants {
		fmt.Fprintf(&b, "%s %s\n", optionEmojis[i], a.Name)
	}
	b.WriteString("\n0️⃣ Cancelar\n\n_Digite 1, 2, 3 ou 0_")
	return b.String()
}

func dash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func quoteDetails(data map[string]string) string {
	return fmt.Sprintf(`🌍 *Destino:* %s
🛫 *Saída:* %s
📅 *Datas/Período:* %s
🗓️ *Flexibilidade:* %s
👥 *Passageiros:* %s
👶 *Idades:* %s
💰 *Orçamento:* %s
🏨 *Preferência:* %s
✈️ *Tipo:* %s`,
		dash(data[FieldDestination]),
		dash(data[FieldDeparture]),
		dash(data[FieldPeriod]),
		dash(data[FieldFlexibility]),
		dash(data[FieldPassengers]),
		dash(data[FieldAges]),
		dash(data[FieldBudget]),
		dash(data[FieldPreference]),
		dash(data[FieldTripType]),
	)
}

func QuoteSummary(data map[string]string) string {
	return separator + "\n📋 *RESUMO DO ORÇAMENTO*\n" + separator + "\n\n" + quoteDetails(data) + "\n\n" + separator
}

func quoteDoneReply(lead *entity.Lead, a entity.Attendant) string {
	return fmt.Sprintf("✅ Solicitação enviada!\n\n%s\n\n👩‍💼 *Atendente:* %s\n📱 Falar agora: %s\n🎯 *Protocolo:* #%s\n\nSe precisar, digite *menu*.",
		QuoteSummary(lead.Fields), a.Name, a.ChatLink(), lead.Protocol())
}

func postPurchaseDoneReply(lead *entity.Lead, a entity.Attendant) string {
	return fmt.Sprintf("✅ Encaminhado para *%s*.\n\n📱 Falar agora: %s\n🎯 *Protocolo:* #%s\n\nDigite *menu* para voltar ao início.",
		a.Name, a.ChatLink(), lead.Protocol())
}

func directContactDoneReply(lead *entity.Lead, a entity.Attendant) string {
	return fmt.Sprintf("✅ Pronto! Registrei como *Contato direto*.\n\n📱 Falar agora com *%s*: %s\n🎯 *Protocolo:* #%s\n\nDigite *menu* para voltar ao início.",
		a.Name, a.ChatLink(), lead.Protocol())
}

// AttendantNotification é a mensagem enviada à atendente escolhida. ref é o
// protocolo do lead ou, se ele não foi salvo, um carimbo de hora.
func AttendantNotification(lead *entity.Lead, ref string) string {
	var body string
	if lead.ServiceType == entity.ServiceQuote {
		body = quoteDetails(lead.Fields)
	} else {
		body = "📌 *Info:* " + dash(lead.Field(FieldTripInfo))
	}

	return fmt.Sprintf(`🔔 *NOVO LEAD - %s*
%s
👩‍💼 *Atendente:* %s
📱 *Cliente:* %s
🎯 *Protocolo:* #%s
🧩 *Motivo:* %s

%s

🕐 *Data:* %s
%s`,
		AgencyName, separator,
		lead.AttendantName,
		lead.Phone,
		ref,
		lead.ServiceType,
		body,
		lead.Field(FieldRequestedAt),
		separator,
	)
}
