package twilio

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"errors"
	"net/url"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	twclient "github.com/twilio/twilio-go/client"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

type MockCreator struct {
	mock.Mock
}

func (m *MockCreator) CreateMessage(params *twilioApi.CreateMessageParams) (*twilioApi.ApiV2010Message, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twilioApi.ApiV2010Message), args.Error(1)
}

func strPtr(s string) *string { return &s }

// TestSendAddsWhatsAppPrefix - destino e origem no formato whatsapp:+
func TestSendAddsWhatsAppPrefix(t *testing.T) {
	api := new(MockCreator)
	api.On("CreateMessage", mock.MatchedBy(func(p *twilioApi.CreateMessageParams) bool {
		return *p.To == "whatsapp:+5562900000000" && *p.From == "whatsapp:+14155238886" && *p.Body == "oi"
	})).Return(&twilioApi.ApiV2010Message{Sid: strPtr("SM1")}, nil)

	c := &Client{api: api, from: withPrefix("+14155238886")}
	err := c.Send(context.Background(), "5562900000000", "oi")

	require.NoError(t, err)
	api.AssertExpectations(t)
}

func TestSendError(t *testing.T) {
	api := new(MockCreator)
	api.On("CreateMessage", mock.Anything).Return(nil, errors.New("401"))

	c := &Client{api: api, from: "whatsapp:+1"}

	assert.Error(t, c.Send(context.Background(), "1", "x"))
}

func TestSendErrorCodeInResponse(t *testing.T) {
	code := 63016
	api := new(MockCreator)
	api.On("CreateMessage", mock.Anything).Return(&twilioApi.ApiV2010Message{ErrorCode: &code, ErrorMessage: strPtr("fora da janela")}, nil)

	c := &Client{api: api, from: "whatsapp:+1"}

	assert.ErrorContains(t, c.Send(context.Background(), "1", "x"), "fora da janela")
}

func TestNewClientRequiresCredentials(t *testing.T) {
	_, err := NewClient("", "token", "whatsapp:+1")
	assert.Error(t, err)
}

func TestParseInbound(t *testing.T) {
	msg, ok := ParseInbound(url.Values{"From": {"whatsapp:+5562900000000"}, "Body": {"1"}})

	assert.True(t, ok)
	assert.Equal(t, "5562900000000", msg.From)
	assert.Equal(t, "1", msg.Text)
	assert.True(t, msg.DirectChat)

	_, ok = ParseInbound(url.Values{"From": {"whatsapp:+5562900000000"}, "Body": {" "}})
	assert.False(t, ok)
}

func sign(token, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	data := fullURL
	for _, k := range keys {
		data += k + form.Get(k)
	}
	h := hmac.New(sha1.New, []byte(token))
	h.Write([]byte(data))
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

func TestValidSignature(t *testing.T) {
	c := &Client{validator: twclient.NewRequestValidator("segredo")}
	form := url.Values{"From": {"whatsapp:+5562900000000"}, "Body": {"oi"}}
	fullURL := "https://bot.viale.com.br/webhook/twilio"

	assert.True(t, c.ValidSignature(fullURL, form, sign("segredo", fullURL, form)))
	assert.False(t, c.ValidSignature(fullURL, form, "assinatura-falsa"))
}
