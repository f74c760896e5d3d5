package whatsapp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	waProto "go.mau.fi/whatsmeow/binary/proto"
	"go.mau.fi/whatsmeow/types"
	"go.mau.fi/whatsmeow/types/events"
	"google.golang.org/protobuf/proto"
)

func directMessage(from string, msg *waProto.Message) *events.Message {
	jid := types.NewJID(from, types.DefaultUserServer)
	return &events.Message{
		Info: types.MessageInfo{
			MessageSource: types.MessageSource{Chat: jid, Sender: jid},
		},
		Message: msg,
	}
}

// TestToInboundConversation - texto simples vira mensagem de conversa direta
func TestToInboundConversation(t *testing.T) {
	evt := directMessage("5562900000000", &waProto.Message{Conversation: proto.String("oi")})

	msg, ok := toInbound(evt)

	assert.True(t, ok)
	assert.Equal(t, "5562900000000", msg.From)
	assert.Equal(t, "oi", msg.Text)
	assert.True(t, msg.DirectChat)
	assert.False(t, msg.FromMe)
}

func TestToInboundExtendedText(t *testing.T) {
	evt := directMessage("5562900000000", &waProto.Message{
		ExtendedTextMessage: &waProto.ExtendedTextMessage{Text: proto.String("quero viajar")},
	})

	msg, ok := toInbound(evt)

	assert.True(t, ok)
	assert.Equal(t, "quero viajar", msg.Text)
}

// TestToInboundGroup - grupo não é conversa direta
func TestToInboundGroup(t *testing.T) {
	evt := directMessage("5562900000000", &waProto.Message{Conversation: proto.String("oi")})
	evt.Info.IsGroup = true
	evt.Info.Chat = types.NewJID("120363000000000000", types.GroupServer)

	msg, ok := toInbound(evt)

	assert.True(t, ok)
	assert.False(t, msg.DirectChat)
}

func TestToInboundStatusBroadcast(t *testing.T) {
	evt := directMessage("5562900000000", &waProto.Message{Conversation: proto.String("novidade")})
	evt.Info.Chat = types.StatusBroadcastJID

	msg, ok := toInbound(evt)

	assert.True(t, ok)
	assert.False(t, msg.DirectChat)
}

func TestToInboundFromMe(t *testing.T) {
	evt := directMessage("5562900000000", &waProto.Message{Conversation: proto.String("oi")})
	evt.Info.IsFromMe = true

	msg, _ := toInbound(evt)

	assert.True(t, msg.FromMe)
}

// TestToInboundWithoutText - mídia sem legenda é descartada
func TestToInboundWithoutText(t *testing.T) {
	_, ok := toInbound(directMessage("5562900000000", &waProto.Message{}))
	assert.False(t, ok)

	_, ok = toInbound(directMessage("5562900000000", nil))
	assert.False(t, ok)

	_, ok = toInbound(nil)
	assert.False(t, ok)
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "5562991989622", digitsOnly("+55 (62) 99198-9622"))
	assert.Equal(t, "", digitsOnly("abc"))
}

func TestConsoleSender(t *testing.T) {
	var s ConsoleSender
	assert.NoError(t, s.Send(context.Background(), "5562900000000", "oi"))
	assert.NoError(t, s.Ping(context.Background()))
}
