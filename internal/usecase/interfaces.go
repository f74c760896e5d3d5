package usecase

import (
	"context"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

// Transport entrega texto a um endereço (cliente ou atendente).
type Transport interface {
	Send(ctx context.Context, to, text string) error
}

type LeadWriter interface {
	Create(ctx context.Context, lead *entity.Lead) error
}

type LeadFinder interface {
	FindByID(ctx context.Context, id int64) (*entity.Lead, error)
}

// LeadNotifier recebe cada lead persistido (e-mail, planilha, fila).
type LeadNotifier interface {
	LeadCreated(ctx context.Context, lead *entity.Lead) error
}

type SessionChecker interface {
	Active(phone string) bool
}

type FollowUpCanceler interface {
	CancelForLead(leadID int64) bool
}
