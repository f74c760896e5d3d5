package handlers

import (
	"context"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/integration/cloudapi"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/integration/twilio"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

type Engine interface {
	Handle(ctx context.Context, phone, text string) string
	HandleInbound(ctx context.Context, msg usecase.InboundMessage)
}

type SignatureValidator interface {
	ValidSignature(fullURL string, form url.Values, signature string) bool
}

type WebhookHandler struct {
	Engine Engine
	// Signatures nil desliga a checagem de assinatura da Twilio
	Signatures SignatureValidator
	// PublicURL é a URL externa do webhook, usada na assinatura da Twilio
	PublicURL   string
	VerifyToken string
}

func NewWebhookHandler(engine Engine) *WebhookHandler {
	return &WebhookHandler{Engine: engine}
}

// Twilio recebe o formulário de mensagem; a resposta sai pela API da Twilio.
func (h *WebhookHandler) Twilio(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Formulário inválido")
		return
	}

	if h.Signatures != nil {
		signature := r.Header.Get("X-Twilio-Signature")
		if signature == "" || !h.Signatures.ValidSignature(h.PublicURL+r.URL.Path, r.PostForm, signature) {
			log.Warn().Str("ip", getClientIP(r)).Msg("🔒 Assinatura da Twilio inválida")
			writeError(w, http.StatusUnauthorized, "Assinatura inválida")
			return
		}
	}

	if msg, ok := twilio.ParseInbound(r.PostForm); ok {
		h.Engine.HandleInbound(r.Context(), msg)
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, "<Response></Response>")
}

// CloudVerify responde ao desafio de verificação da Meta.
func (h *WebhookHandler) CloudVerify(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") != "subscribe" || h.VerifyToken == "" || q.Get("hub.verify_token") != h.VerifyToken {
		writeError(w, http.StatusForbidden, "Token de verificação inválido")
		return
	}
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, q.Get("hub.challenge"))
}

func (h *WebhookHandler) Cloud(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Corpo inválido")
		return
	}

	msgs, err := cloudapi.ParseWebhook(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	for _, msg := range msgs {
		h.Engine.HandleInbound(r.Context(), msg)
	}
	w.WriteHeader(http.StatusOK)
}

type testMessageRequest struct {
	From    string `json:"from"`
	Message string `json:"message"`
}

// Test roda o bot sem transporte e devolve a resposta no corpo.
func (h *WebhookHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req testMessageRequest
	if err := decode(r, &req); err != nil || req.From == "" {
		writeError(w, http.StatusBadRequest, "Informe from e message")
		return
	}

	log.Info().Str("from", req.From).Msg("🧪 Mensagem de teste")
	reply := h.Engine.Handle(r.Context(), req.From, req.Message)
	writeJSON(w, http.StatusOK, envelope{"success": true, "response": reply})
}
