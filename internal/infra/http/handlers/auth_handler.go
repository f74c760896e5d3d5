package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/http/middleware"
)

type AuthHandler struct {
	User        string
	Password    string
	Secret      []byte
	rateLimiter *RateLimiter
	now         func() time.Time
}

func NewAuthHandler(user, password string, secret []byte) *AuthHandler {
	return &AuthHandler{
		User:        user,
		Password:    password,
		Secret:      secret,
		rateLimiter: NewRateLimiter(10, time.Minute), // 10 tentativas/min por IP
		now:         time.Now,
	}
}

type loginRequest struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ip := getClientIP(r)
	if !h.rateLimiter.Allow(ip) {
		writeError(w, http.StatusTooManyRequests, "Muitas tentativas. Tente novamente em instantes.")
		return
	}

	var req loginRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	if h.User == "" || !equal(req.User, h.User) || !equal(req.Password, h.Password) {
		log.Warn().Str("ip", ip).Str("user", req.User).Msg("🔒 Login recusado no painel")
		writeError(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := middleware.IssueToken(h.Secret, req.User, h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Erro ao gerar token")
		return
	}
	writeJSON(w, http.StatusOK, envelope{"success": true, "token": token})
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
