package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

type AssignInput struct {
	Name   string `json:"nome"`
	ID     string `json:"id_atendente"`
	Number string `json:"numero"`
}

// ManageLeadUseCase concentra as operações do painel sobre leads.
type ManageLeadUseCase struct {
	Repo      entity.LeadRepositoryInterface
	FollowUps FollowUpCanceler
}

func NewManageLeadUseCase(repo entity.LeadRepositoryInterface, followUps FollowUpCanceler) *ManageLeadUseCase {
	return &ManageLeadUseCase{Repo: repo, FollowUps: followUps}
}

func storeError(err error) error {
	if errors.Is(err, entity.ErrLeadNotFound) {
		return &DomainError{Code: CodeLeadNotFound, Message: "Lead não encontrado"}
	}
	return &TechnicalError{Code: CodeStoreFailure, Message: "erro ao acessar leads", Err: err}
}

func (uc *ManageLeadUseCase) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	leads, err := uc.Repo.List(ctx, filter)
	if err != nil {
		return nil, storeError(err)
	}
	return leads, nil
}

func (uc *ManageLeadUseCase) Get(ctx context.Context, id int64) (*entity.Lead, error) {
	lead, err := uc.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	return lead, nil
}

func (uc *ManageLeadUseCase) ByPhone(ctx context.Context, phone string) ([]*entity.Lead, error) {
	leads, err := uc.Repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, storeError(err)
	}
	return leads, nil
}

// UpdateStatus grava o novo status. Saindo de "Novo", os lembretes do lead
// deixam de fazer sentido e são cancelados.
func (uc *ManageLeadUseCase) UpdateStatus(ctx context.Context, id int64, status string) (*entity.Lead, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, &DomainError{Code: CodeInvalidStatus, Message: "Status inválido"}
	}

	lead, err := uc.Repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, storeError(err)
	}

	if !lead.IsNew() && uc.FollowUps != nil && uc.FollowUps.CancelForLead(id) {
		log.Info().Int64("lead_id", id).Str("status", status).Msg("🛑 Follow-up cancelado pelo painel")
	}
	return lead, nil
}

func (uc *ManageLeadUseCase) Assign(ctx context.Context, id int64, in AssignInput) (*entity.Lead, error) {
	name := strings.TrimSpace(in.Name)
	number := digitsOnly(in.Number)
	if name == "" || number == "" {
		return nil, &DomainError{Code: CodeInvalidAssignment, Message: "Nome e número da atendente são obrigatórios"}
	}

	lead, err := uc.Repo.UpdateAssignment(ctx, id, entity.Attendant{
		ID:     strings.TrimSpace(in.ID),
		Name:   name,
		Number: number,
	})
	if err != nil {
		return nil, storeError(err)
	}
	return lead, nil
}

func (uc *ManageLeadUseCase) UpdateNotes(ctx context.Context, id int64, notes string) (*entity.Lead, error) {
	lead, err := uc.Repo.UpdateNotes(ctx, id, notes)
	if err != nil {
		return nil, storeError(err)
	}
	return lead, nil
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
