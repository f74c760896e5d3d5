package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

type LeadHandler struct {
	Manage *usecase.ManageLeadUseCase
	Stats  *usecase.LeadStatsUseCase
}

func NewLeadHandler(manage *usecase.ManageLeadUseCase, stats *usecase.LeadStatsUseCase) *LeadHandler {
	return &LeadHandler{Manage: manage, Stats: stats}
}

// List aceita os filtros status, service, attendant e phone.
func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := entity.LeadFilter{
		Status:      q.Get("status"),
		ServiceType: q.Get("service"),
		AttendantID: q.Get("attendant"),
		Phone:       q.Get("phone"),
	}

	leads, err := h.Manage.List(r.Context(), filter)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "total": len(leads), "leads": nonNil(leads)})
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	lead, err := h.Manage.Get(r.Context(), id)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "lead": lead})
}

func (h *LeadHandler) ByPhone(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Manage.ByPhone(r.Context(), chi.URLParam(r, "phone"))
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "total": len(leads), "leads": nonNil(leads)})
}

type statsResponse struct {
	usecase.LeadStats
	TopDestinations []usecase.DestinationCount `json:"topDestinations"`
	TopTravelTypes  []usecase.TravelTypeCount  `json:"topTravelTypes"`
}

func (h *LeadHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	out, err := h.Stats.Execute(r.Context())
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "stats": statsResponse{
		LeadStats:       out.Stats,
		TopDestinations: out.TopDestinations,
		TopTravelTypes:  out.TopTravelTypes,
	}})
}

func (h *LeadHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Status inválido")
		return
	}

	lead, err := h.Manage.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "lead": lead})
}

func (h *LeadHandler) Assign(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var in usecase.AssignInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Dados da atendente inválidos")
		return
	}

	lead, err := h.Manage.Assign(r.Context(), id, in)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "lead": lead})
}

func (h *LeadHandler) UpdateNotes(w http.ResponseWriter, r *http.Request) {
	id, ok := leadID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "ID inválido")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	// corpo vazio limpa as notas
	_ = decode(r, &body)

	lead, err := h.Manage.UpdateNotes(r.Context(), id, body.Notes)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "lead": lead})
}

func nonNil(leads []*entity.Lead) []*entity.Lead {
	if leads == nil {
		return []*entity.Lead{}
	}
	return leads
}
