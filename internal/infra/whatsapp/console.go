package whatsapp

import (
	"context"

	"github.com/rs/zerolog/log"
)

// ConsoleSender só registra no log o que seria enviado. Usado com TRANSPORT=console.
type ConsoleSender struct{}

func (ConsoleSender) Send(_ context.Context, to, text string) error {
	log.Info().Str("to", to).Str("text", text).Msg("💬 [console] mensagem")
	return nil
}

func (ConsoleSender) Ping(context.Context) error {
	return nil
}
