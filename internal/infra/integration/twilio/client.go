package twilio

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

type messageCreator interface {
	CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error)
}

// Client envia WhatsApp pela API de mensagens da Twilio.
type Client struct {
	api       messageCreator
	from      string
	validator twclient.RequestValidator
}

// NewClient espera from no formato "whatsapp:+5562...".
func NewClient(accountSid, authToken, from string) (*Client, error) {
	if accountSid == "" || authToken == "" || from == "" {
		return nil, fmt.Errorf("credenciais da twilio incompletas")
	}

	rest := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})

	return &Client{
		api:       rest.Api,
		from:      withPrefix(from),
		validator: twclient.NewRequestValidator(authToken),
	}, nil
}

func (c *Client) Send(_ context.Context, to, text string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetFrom(c.from)
	params.SetTo(withPrefix(to))
	params.SetBody(text)

	resp, err := c.api.CreateMessage(params)
	if err != nil {
		return fmt.Errorf("erro ao enviar pela twilio: %w", err)
	}
	if resp.ErrorCode != nil && *resp.ErrorCode != 0 {
		msg := ""
		if resp.ErrorMessage != nil {
			msg = *resp.ErrorMessage
		}
		return fmt.Errorf("twilio erro %d: %s", *resp.ErrorCode, msg)
	}

	if resp.Sid != nil {
		log.Debug().Str("sid", *resp.Sid).Str("to", to).Msg("✅ Twilio: mensagem enviada")
	}
	return nil
}

func (c *Client) Ping(context.Context) error {
	return nil
}

// ValidSignature confere o header X-Twilio-Signature do webhook.
func (c *Client) ValidSignature(fullURL string, form url.Values, signature string) bool {
	params := make(map[string]string, len(form))
	for k := range form {
		params[k] = form.Get(k)
	}
	return c.validator.Validate(fullURL, params, signature)
}

// ParseInbound converte o formulário do webhook da Twilio.
func ParseInbound(form url.Values) (usecase.InboundMessage, bool) {
	from := stripPrefix(form.Get("From"))
	body := form.Get("Body")
	if from == "" || strings.TrimSpace(body) == "" {
		return usecase.InboundMessage{}, false
	}
	return usecase.InboundMessage{
		From:       from,
		Text:       body,
		DirectChat: true,
	}, true
}

func withPrefix(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:+" + strings.TrimPrefix(number, "+")
}

func stripPrefix(addr string) string {
	addr = strings.TrimPrefix(addr, "whatsapp:")
	return strings.TrimPrefix(addr, "+")
}
