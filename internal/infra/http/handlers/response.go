package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

// envelope segue o formato {"success": bool, ...} do painel.
type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{"success": false, "error": msg})
}

// writeUseCaseError traduz DomainError/TechnicalError para status HTTP.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		status := http.StatusBadRequest
		if de.Code == usecase.CodeLeadNotFound {
			status = http.StatusNotFound
		}
		writeError(w, status, de.Message)
		return
	}

	if errors.Is(err, entity.ErrLeadNotFound) {
		writeError(w, http.StatusNotFound, "Lead não encontrado")
		return
	}

	log.Error().Err(err).Str("code", usecase.ErrorCode(err)).Msg("❌ Erro no painel")
	writeError(w, http.StatusInternalServerError, err.Error())
}

func leadID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

func decode(r *http.Request, v any) error {
	if r.Body == nil {
		return errors.New("corpo vazio")
	}
	return json.NewDecoder(r.Body).Decode(v)
}
