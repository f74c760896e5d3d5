package entity

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// Status do lead no pipeline do painel
const (
	StatusNew           = "Novo"
	StatusInProgress    = "Em atendimento"
	StatusDirectContact = "Contato direto"
)

// Tipo de atendimento
const (
	ServiceQuote         = "Orçamento"
	ServicePostPurchase  = "Pós-compra"
	ServiceDirectContact = "Contato direto"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

type Lead struct {
	ID              int64             `json:"id"`
	Phone           string            `json:"phone"`
	Status          string            `json:"status"`
	ServiceType     string            `json:"tipo_atendimento"`
	AttendantID     string            `json:"atendente_id"`
	AttendantName   string            `json:"atendente_nome"`
	AttendantNumber string            `json:"atendente_numero"`
	Fields          map[string]string `json:"fields"`
	Notes           string            `json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewLead monta o lead de um fluxo concluído. Os campos coletados são copiados.
func NewLead(phone, status, serviceType string, attendant Attendant, fields map[string]string) *Lead {
	copied := make(map[string]string, len(fields))
	for k, v := range fields {
		copied[k] = v
	}

	return &Lead{
		Phone:           phone,
		Status:          status,
		ServiceType:     serviceType,
		AttendantID:     attendant.ID,
		AttendantName:   attendant.Name,
		AttendantNumber: attendant.Number,
		Fields:          copied,
	}
}

// ApplyDefaults preenche o que o store atribui na criação.
func (l *Lead) ApplyDefaults(now time.Time) {
	if l.Status == "" {
		l.Status = StatusNew
	}
	if l.ServiceType == "" {
		l.ServiceType = ServiceQuote
	}
	if l.Fields == nil {
		l.Fields = map[string]string{}
	}
	l.CreatedAt = now
	l.UpdatedAt = now
}

// IsNew trata status vazio como "Novo", igual aos registros antigos.
func (l *Lead) IsNew() bool {
	return l.Status == "" || l.Status == StatusNew
}

// Protocol é o identificador exibido ao cliente.
func (l *Lead) Protocol() string {
	if l == nil || l.ID == 0 {
		return "N/A"
	}
	return strconv.FormatInt(l.ID, 10)
}

func (l *Lead) Field(key string) string {
	if l.Fields == nil {
		return ""
	}
	return l.Fields[key]
}

func (l *Lead) Assign(a Attendant) {
	l.AttendantID = a.ID
	l.AttendantName = a.Name
	l.AttendantNumber = a.Number
}

func (l *Lead) Clone() *Lead {
	c := *l
	c.Fields = make(map[string]string, len(l.Fields))
	for k, v := range l.Fields {
		c.Fields[k] = v
	}
	return &c
}

type LeadFilter struct {
	Status      string
	ServiceType string
	AttendantID string
	Phone       string
}

func (f LeadFilter) Match(l *Lead) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.ServiceType != "" && l.ServiceType != f.ServiceType {
		return false
	}
	if f.AttendantID != "" && l.AttendantID != f.AttendantID {
		return false
	}
	if f.Phone != "" && l.Phone != f.Phone {
		return false
	}
	return true
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id int64) (*Lead, error)
	FindByPhone(ctx context.Context, phone string) ([]*Lead, error)
	// List devolve do mais recente para o mais antigo.
	List(ctx context.Context, filter LeadFilter) ([]*Lead, error)
	UpdateStatus(ctx context.Context, id int64, status string) (*Lead, error)
	UpdateAssignment(ctx context.Context, id int64, attendant Attendant) (*Lead, error)
	UpdateNotes(ctx context.Context, id int64, notes string) (*Lead, error)
}
