package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/mdp/qrterminal/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skip2/go-qrcode"
	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	waLog "go.mau.fi/whatsmeow/util/log"
	"google.golang.org/protobuf/proto"

	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

var (
	ErrNotConnected = errors.New("whatsapp não conectado")
	ErrNoQRCode     = errors.New("nenhum QR code pendente")
)

type InboundHandler func(ctx context.Context, msg usecase.InboundMessage)

// Client é o transporte via aparelho pareado (whatsmeow). A sessão do
// aparelho fica num sqlite local.
type Client struct {
	wa      *whatsmeow.Client
	handler InboundHandler
	// PrintQR desenha o QR no terminal além de expor em QRCodePNG
	PrintQR bool

	mu     sync.RWMutex
	qrCode string
}

func NewClient(deviceDBPath string, logger zerolog.Logger) (*Client, error) {
	if err := os.MkdirAll(filepath.Dir(deviceDBPath), 0o755); err != nil {
		return nil, fmt.Errorf("erro ao criar diretório do store: %w", err)
	}

	dbLog := waLog.Zerolog(logger.With().Str("module", "whatsmeow-db").Logger())

	container, err := sqlstore.New("sqlite3", fmt.Sprintf("file:%s?_foreign_keys=on", deviceDBPath), dbLog)
	if err != nil {
		return nil, fmt.Errorf("erro ao abrir store do whatsapp: %w", err)
	}

	device, err := container.GetFirstDevice()
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar aparelho: %w", err)
	}

	clientLog := waLog.Zerolog(logger.With().Str("module", "whatsmeow").Logger())
	c := &Client{
		wa:      whatsmeow.NewClient(device, clientLog),
		PrintQR: true,
	}
	c.wa.AddEventHandler(c.onEvent)
	return c, nil
}

// OnMessage registra quem trata as mensagens recebidas. Deve ser chamado antes de Connect.
func (c *Client) OnMessage(h InboundHandler) {
	c.handler = h
}

// Connect conecta e, sem sessão salva, inicia o pareamento por QR code.
func (c *Client) Connect(ctx context.Context) error {
	if c.wa.Store.ID != nil {
		if err := c.wa.Connect(); err != nil {
			return fmt.Errorf("erro ao conectar whatsapp: %w", err)
		}
		log.Info().Str("jid", c.wa.Store.ID.String()).Msg("✅ WhatsApp conectado")
		return nil
	}

	qrChan, err := c.wa.GetQRChannel(ctx)
	if err != nil {
		return fmt.Errorf("erro ao obter canal de QR: %w", err)
	}
	if err := c.wa.Connect(); err != nil {
		return fmt.Errorf("erro ao conectar whatsapp: %w", err)
	}

	go c.consumeQR(qrChan)
	return nil
}

func (c *Client) consumeQR(qrChan <-chan whatsmeow.QRChannelItem) {
	for evt := range qrChan {
		switch evt.Event {
		case "code":
			c.setQR(evt.Code)
			if c.PrintQR {
				qrterminal.GenerateHalfBlock(evt.Code, qrterminal.L, os.Stdout)
			}
			log.Info().Msg("📱 Escaneie o QR code para conectar o WhatsApp")
		case "success":
			c.setQR("")
			log.Info().Msg("✅ WhatsApp pareado com sucesso")
		default:
			c.setQR("")
			log.Warn().Str("event", evt.Event).Err(evt.Error).Msg("⚠️ Pareamento do WhatsApp encerrado")
		}
	}
}

func (c *Client) setQR(code string) {
	c.mu.Lock()
	c.qrCode = code
	c.mu.Unlock()
}

// QRCodePNG devolve o QR pendente como PNG, para o painel.
func (c *Client) QRCodePNG() ([]byte, error) {
	c.mu.RLock()
	code := c.qrCode
	c.mu.RUnlock()

	if code == "" {
		return nil, ErrNoQRCode
	}
	return qrcode.Encode(code, qrcode.Medium, 256)
}

func (c *Client) Connected() bool {
	return c.wa.IsConnected() && c.wa.IsLoggedIn()
}

// Ping atende o health check.
func (c *Client) Ping(_ context.Context) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	return nil
}

func (c *Client) Send(ctx context.Context, to, text string) error {
	if !c.wa.IsConnected() {
		return ErrNotConnected
	}

	number := digitsOnly(to)
	if number == "" {
		return fmt.Errorf("número inválido: %q", to)
	}

	jid := types.NewJID(number, types.DefaultUserServer)
	msg := &waProto.Message{Conversation: proto.String(text)}
	if _, err := c.wa.SendMessage(ctx, jid, msg); err != nil {
		return fmt.Errorf("erro ao enviar para %s: %w", number, err)
	}
	return nil
}

func (c *Client) Disconnect() {
	c.wa.Disconnect()
	log.Info().Msg("🔌 WhatsApp encerrado")
}

func (c *Client) onEvent(evt any) {
	switch v := evt.(type) {
	case *events.Message:
		msg, ok := toInbound(v)
		if !ok || c.handler == nil {
			return
		}
		c.handler(context.Background(), msg)
	case *events.Connected:
		log.Info().Msg("🔌 WhatsApp online")
	case *events.Disconnected:
		log.Warn().Msg("🔌 WhatsApp desconectado")
	case *events.LoggedOut:
		log.Error().Msg("🚪 Sessão do WhatsApp encerrada no aparelho, será preciso parear de novo")
	}
}

// toInbound extrai o texto da mensagem. Mensagens sem texto (mídia, reação) são descartadas.
func toInbound(evt *events.Message) (usecase.InboundMessage, bool) {
	if evt == nil || evt.Message == nil {
		return usecase.InboundMessage{}, false
	}

	text := evt.Message.GetConversation()
	if text == "" {
		text = evt.Message.GetExtendedTextMessage().GetText()
	}
	if strings.TrimSpace(text) == "" {
		return usecase.InboundMessage{}, false
	}

	info := evt.Info
	return usecase.InboundMessage{
		From:       info.Sender.User,
		Text:       text,
		FromMe:     info.IsFromMe,
		DirectChat: !info.IsGroup && info.Chat.Server == types.DefaultUserServer,
	}, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
