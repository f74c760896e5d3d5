package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/spreadsheet"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	Leads usecase.LeadLister
	now   func() time.Time
}

func NewExportHandler(leads usecase.LeadLister) *ExportHandler {
	return &ExportHandler{Leads: leads, now: time.Now}
}

func (h *ExportHandler) Excel(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.List(r.Context(), entity.LeadFilter{})
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	if len(leads) == 0 {
		writeError(w, http.StatusNotFound, "Nenhum lead encontrado para exportar")
		return
	}

	data, err := spreadsheet.BuildWorkbook(leads)
	if err != nil {
		log.Error().Err(err).Msg("❌ Erro ao exportar Excel")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	filename := spreadsheet.ExportFileName(h.now().Format("2006-01-02"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)

	log.Info().Str("file", filename).Int("leads", len(leads)).Msg("📥 Excel baixado")
}
