package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

//go:embed templates/*.html
var templatesFS embed.FS

var newLeadTemplate = template.Must(template.ParseFS(templatesFS, "templates/new_lead.html"))

// rótulos na ordem em que aparecem no e-mail
var fieldLabels = []struct{ key, label string }{
	{usecase.FieldTripType, "Tipo de viagem"},
	{usecase.FieldDestination, "Destino"},
	{usecase.FieldDeparture, "Cidade de saída"},
	{usecase.FieldPeriod, "Período"},
	{usecase.FieldFlexibility, "Flexibilidade"},
	{usecase.FieldPassengers, "Passageiros"},
	{usecase.FieldAges, "Idades"},
	{usecase.FieldBudget, "Orçamento"},
	{usecase.FieldPreference, "Preferência"},
	{usecase.FieldTripInfo, "Informações da viagem"},
	{usecase.FieldRequestedAt, "Data da solicitação"},
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from string, to []string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
		dialer:   gomail.NewDialer(host, port, user, password),
	}
}

// LeadCreated avisa a equipe por e-mail sobre um lead novo.
func (s *EmailSender) LeadCreated(_ context.Context, lead *entity.Lead) error {
	if len(s.To) == 0 {
		return nil
	}

	body, err := renderNewLead(lead)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To...)
	m.SetHeader("Subject", fmt.Sprintf("[%s] Novo lead #%s - %s", usecase.AgencyName, lead.Protocol(), lead.ServiceType))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *EmailSender) Name() string {
	return "email"
}

func renderNewLead(lead *entity.Lead) (string, error) {
	data := NewLeadEmailData{
		Agency:    usecase.AgencyName,
		Protocol:  lead.Protocol(),
		Lead:      lead,
		ChatLink:  "https://wa.me/" + lead.Phone,
		CreatedAt: lead.CreatedAt.Format("02/01/2006 15:04"),
	}
	for _, f := range fieldLabels {
		if v := lead.Field(f.key); v != "" {
			data.Fields = append(data.Fields, FieldRow{Label: f.label, Value: v})
		}
	}

	var body bytes.Buffer
	if err := newLeadTemplate.Execute(&body, data); err != nil {
		return "", fmt.Errorf("erro ao processar template: %w", err)
	}
	return body.String(), nil
}
