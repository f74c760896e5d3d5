package mail

import (
	"context"
	"errors"
	"mime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

type MockDialer struct {
	mock.Mock
}

func (m *MockDialer) DialAndSend(msgs ...*gomail.Message) error {
	args := m.Called(msgs)
	return args.Error(0)
}

func sampleLead() *entity.Lead {
	return &entity.Lead{
		ID:            42,
		Phone:         "5562900000000",
		Status:        entity.StatusNew,
		ServiceType:   entity.ServiceQuote,
		AttendantName: "Milene",
		Fields:        map[string]string{"destino": "Lisboa", "num_passageiros": "2"},
		CreatedAt:     time.Date(2025, 7, 10, 14, 30, 0, 0, time.UTC),
	}
}

func TestRenderNewLead(t *testing.T) {
	body, err := renderNewLead(sampleLead())

	require.NoError(t, err)
	assert.Contains(t, body, "novo lead #42")
	assert.Contains(t, body, "Lisboa")
	assert.Contains(t, body, "https://wa.me/5562900000000")
	assert.Contains(t, body, "10/07/2025 14:30")
	assert.NotContains(t, body, "Orçamento</strong></td>")
}

// TestLeadCreatedSendsOneMessage - um e-mail por lead
func TestLeadCreatedSendsOneMessage(t *testing.T) {
	d := new(MockDialer)
	// gomail grava o assunto em Q-encoding por causa do "ç"
	subject := mime.QEncoding.Encode("UTF-8", "[VIALE TURISMO] Novo lead #42 - Orçamento")
	d.On("DialAndSend", mock.MatchedBy(func(msgs []*gomail.Message) bool {
		return len(msgs) == 1 && msgs[0].GetHeader("Subject")[0] == subject
	})).Return(nil)

	s := &EmailSender{From: "bot@viale.com.br", To: []string{"equipe@viale.com.br"}, dialer: d}

	require.NoError(t, s.LeadCreated(context.Background(), sampleLead()))
	d.AssertExpectations(t)
}

func TestLeadCreatedWithoutRecipients(t *testing.T) {
	d := new(MockDialer)
	s := &EmailSender{dialer: d}

	assert.NoError(t, s.LeadCreated(context.Background(), sampleLead()))
	d.AssertNotCalled(t, "DialAndSend", mock.Anything)
}

func TestLeadCreatedSMTPError(t *testing.T) {
	d := new(MockDialer)
	d.On("DialAndSend", mock.Anything).Return(errors.New("conexão recusada"))
	s := &EmailSender{To: []string{"equipe@viale.com.br"}, dialer: d}

	assert.ErrorContains(t, s.LeadCreated(context.Background(), sampleLead()), "SMTP")
}
