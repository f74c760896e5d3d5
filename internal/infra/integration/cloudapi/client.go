package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

const DefaultBaseURL = "https://graph.facebook.com/v18.0"

// Client envia texto pela WhatsApp Cloud API (Graph).
type Client struct {
	accessToken string
	phoneID     string
	baseURL     string
	http        *http.Client
}

func NewClient(accessToken, phoneID, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		accessToken: accessToken,
		phoneID:     phoneID,
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        &http.Client{Timeout: 20 * time.Second},
	}
}

func (c *Client) Send(ctx context.Context, to, text string) error {
	if c.accessToken == "" || c.phoneID == "" {
		log.Warn().Msg("⚠️ Cloud API: ACCESS_TOKEN ou PHONE_ID não configurados")
		return fmt.Errorf("whatsapp cloud api não configurada")
	}

	payload := textMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: text},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao serializar payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", c.baseURL, c.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("erro ao criar requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro ao enviar mensagem: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	var result SendMessageResponse
	_ = json.Unmarshal(respBody, &result)

	if result.Error != nil {
		return fmt.Errorf("cloud api: %s (code %d)", result.Error.Message, result.Error.Code)
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("cloud api retornou status %d: %s", resp.StatusCode, string(respBody))
	}

	log.Debug().Str("to", to).Msg("✅ Cloud API: mensagem enviada")
	return nil
}

func (c *Client) Ping(context.Context) error {
	if c.accessToken == "" || c.phoneID == "" {
		return fmt.Errorf("whatsapp cloud api não configurada")
	}
	return nil
}

// ParseWebhook extrai as mensagens de texto do payload do webhook.
// Só chegam aqui conversas diretas com o número da empresa.
func ParseWebhook(body []byte) ([]usecase.InboundMessage, error) {
	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("payload inválido: %w", err)
	}

	var out []usecase.InboundMessage
	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, m := range change.Value.Messages {
				if m.Type != "text" || m.Text.Body == "" {
					continue
				}
				out = append(out, usecase.InboundMessage{
					From:       m.From,
					Text:       m.Text.Body,
					DirectChat: true,
				})
			}
		}
	}
	return out, nil
}
