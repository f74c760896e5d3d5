package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Magalhaexz/ChatBot-Viale/internal/config"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/database"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/http/handlers"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/integration/cloudapi"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/integration/twilio"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/mail"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/notify"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/queue"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/spreadsheet"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/whatsapp"
	"github.com/Magalhaexz/ChatBot-Viale/internal/infra/worker"
	"github.com/Magalhaexz/ChatBot-Viale/internal/logger"
	"github.com/Magalhaexz/ChatBot-Viale/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Sobe o bot, os lembretes e o painel HTTP",
	RunE:  runServe,
}

// transportSet agrupa o transporte escolhido e o que dele o painel usa.
type transportSet struct {
	sender  usecase.Transport
	health  handlers.Check
	device  *whatsapp.Client
	twilio  *twilio.Client
	qr      handlers.QRSource
	cleanup func()
}

func openTransport(cfg *config.Config, base zerolog.Logger) (*transportSet, error) {
	switch cfg.Transport {
	case config.TransportTwilio:
		c, err := twilio.NewClient(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFrom)
		if err != nil {
			return nil, err
		}
		return &transportSet{sender: c, health: c.Ping, twilio: c, cleanup: func() {}}, nil

	case config.TransportCloud:
		c := cloudapi.NewClient(cfg.CloudAccessToken, cfg.CloudPhoneID, cfg.CloudBaseURL)
		return &transportSet{sender: c, health: c.Ping, cleanup: func() {}}, nil

	case config.TransportConsole:
		c := whatsapp.ConsoleSender{}
		return &transportSet{sender: c, health: c.Ping, cleanup: func() {}}, nil

	default:
		c, err := whatsapp.NewClient(cfg.WhatsAppDB, base)
		if err != nil {
			return nil, err
		}
		return &transportSet{sender: c, health: c.Ping, device: c, qr: c, cleanup: c.Disconnect}, nil
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.NewLoadedConfig()
	if err != nil {
		return err
	}
	base := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	directory, err := cfg.Attendants()
	if err != nil {
		return err
	}

	repo, db, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	transport, err := openTransport(cfg, base)
	if err != nil {
		return err
	}
	defer transport.cleanup()

	// e-mail e planilha
	var sinks []notify.Sink
	if cfg.MailEnabled() {
		sinks = append(sinks, mail.NewEmailSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, cfg.MailTo))
	}
	if cfg.AppendSpreadsheet {
		sinks = append(sinks, spreadsheet.NewAppender(cfg.SpreadsheetPath()))
	}
	fanout := notify.NewFanout(sinks...)

	var notifier usecase.LeadNotifier
	if fanout.Len() > 0 {
		notifier = fanout
	}

	var mqCheck handlers.Check
	if cfg.AMQPURL != "" {
		mq, err := queue.NewRabbitMQ(cfg.AMQPURL)
		if err != nil {
			return err
		}
		defer mq.Close()

		consumerCh, err := mq.Conn.Channel()
		if err != nil {
			return err
		}
		w := queue.NewWorker(consumerCh, fanout)
		go func() {
			if err := w.Start(ctx, queue.QueueName); err != nil {
				log.Error().Err(err).Msg("❌ Worker de leads parou")
			}
		}()

		notifier = queue.NewProducer(mq.Ch)
		mqCheck = func(context.Context) error { return mq.Ping() }
		log.Info().Msg("🐇 RabbitMQ conectado, leads vão pela fila")
	}

	sessions := usecase.NewSessionStore()
	machine := usecase.NewStateMachine(sessions, repo, transport.sender, notifier, directory)
	scheduler := usecase.NewFollowUpScheduler(repo, sessions, transport.sender, cfg.FirstFollowUpDelay, cfg.SecondFollowUpDelay)
	defer scheduler.Stop()
	engine := usecase.NewDialogueEngine(machine, scheduler, transport.sender)

	if transport.device != nil {
		transport.device.OnMessage(engine.HandleInbound)
		if err := transport.device.Connect(ctx); err != nil {
			return err
		}
	}

	var dbCheck handlers.Check
	if db != nil {
		dbCheck = db.PingContext
		listener := database.NewStatusListener(cfg.DatabaseURL, scheduler)
		go func() {
			if err := listener.Run(ctx); err != nil {
				log.Error().Err(err).Msg("❌ Listener de status parou")
			}
		}()
	}

	go worker.NewSessionSweeperWorker(sessions, cfg.SessionIdleTTL).Start(ctx)

	secret := []byte(cfg.JWTSecret)
	if len(secret) == 0 {
		// painel sem VIALE_JWT_SECRET
		secret = []byte(uuid.NewString())
	}

	webhook := handlers.NewWebhookHandler(engine)
	webhook.PublicURL = cfg.PublicURL
	webhook.VerifyToken = cfg.CloudVerifyToken
	if transport.twilio != nil && cfg.PublicURL != "" {
		webhook.Signatures = transport.twilio
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Leads:  handlers.NewLeadHandler(usecase.NewManageLeadUseCase(repo, scheduler), usecase.NewLeadStatsUseCase(repo)),
		Export: handlers.NewExportHandler(repo),
		Auth:   handlers.NewAuthHandler(cfg.PanelUser, cfg.PanelPassword, secret),
		Health: handlers.NewHealthHandler(map[string]handlers.Check{
			"database": dbCheck,
			"rabbitmq": mqCheck,
			"whatsapp": transport.health,
		}),
		WhatsApp:          handlers.NewWhatsAppHandler(transport.qr),
		Webhook:           webhook,
		JWTSecret:         secret,
		AllowedOrigins:    cfg.AllowedOrigins,
		EnableTestWebhook: cfg.EnableTestWebhook,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Str("transport", cfg.Transport).Msgf("🔥 %s bot rodando", usecase.AgencyName)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	log.Info().Msg("👋 Encerrando")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
