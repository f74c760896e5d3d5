package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/database"
)

const testPhone = "5562988887777"

var fixedNow = time.Date(2025, 7, 10, 14, 30, 0, 0, time.UTC)

// MockTransport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Send(ctx context.Context, to, text string) error {
	args := m.Called(ctx, to, text)
	return args.Error(0)
}

// MockLeadWriter
type MockLeadWriter struct {
	mock.Mock
}

func (m *MockLeadWriter) Create(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockLeadFinder
type MockLeadFinder struct {
	mock.Mock
}

func (m *MockLeadFinder) FindByID(ctx context.Context, id int64) (*entity.Lead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Lead), args.Error(1)
}

// MockLeadNotifier
type MockLeadNotifier struct {
	mock.Mock
}

func (m *MockLeadNotifier) LeadCreated(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

// MockFollowUpCanceler
type MockFollowUpCanceler struct {
	mock.Mock
}

func (m *MockFollowUpCanceler) CancelForLead(leadID int64) bool {
	args := m.Called(leadID)
	return args.Bool(0)
}

type machineFixture struct {
	machine   *StateMachine
	sessions  *SessionStore
	repo      *database.MemoryLeadRepository
	transport *MockTransport
}

func newMachineFixture(t *testing.T) *machineFixture {
	t.Helper()

	sessions := NewSessionStore()
	repo := database.NewMemoryLeadRepository()
	repo.Now = func() time.Time { return fixedNow }

	transport := new(MockTransport)
	transport.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	m := NewStateMachine(sessions, repo, transport, nil, entity.DefaultAttendantDirectory())
	m.now = func() time.Time { return fixedNow }
	m.async = func(fn func()) { fn() }

	return &machineFixture{machine: m, sessions: sessions, repo: repo, transport: transport}
}

func (f *machineFixture) send(texts ...string) Result {
	var res Result
	for _, text := range texts {
		res = f.machine.Handle(context.Background(), testPhone, text)
	}
	return res
}

// respostas válidas do menu até a escolha da atendente (passo 40)
var quoteAnswers = []string{
	"oi",
	"1",
	"2",
	"Paris",
	"Goiânia",
	"10/07 a 18/07",
	"2",
	"2",
	"2 adultos",
	"R$ 15.000",
	"3",
	"1",
}

var entityFilterAll = entity.LeadFilter{}
