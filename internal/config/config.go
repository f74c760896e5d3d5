package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

const Prefix = "viale"

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"

	TransportWhatsmeow = "whatsmeow"
	TransportTwilio    = "twilio"
	TransportCloud     = "cloud"
	TransportConsole   = "console"
)

type Config struct {
	HTTPPort  string `envconfig:"http_port" default:"3000"`
	LogLevel  string `envconfig:"log_level" default:"info"`
	LogFormat string `envconfig:"log_format" default:"console"`

	Store       string `envconfig:"store" default:"postgres"`
	DatabaseURL string `envconfig:"database_url"`

	Transport  string `envconfig:"transport" default:"whatsmeow"`
	WhatsAppDB string `envconfig:"whatsapp_db" default:"data/whatsapp.db"`

	TwilioAccountSID string `envconfig:"twilio_account_sid"`
	TwilioAuthToken  string `envconfig:"twilio_auth_token"`
	TwilioFrom       string `envconfig:"twilio_from"`
	PublicURL        string `envconfig:"public_url"`

	CloudAccessToken string `envconfig:"cloud_access_token"`
	CloudPhoneID     string `envconfig:"cloud_phone_id"`
	CloudVerifyToken string `envconfig:"cloud_verify_token"`
	CloudBaseURL     string `envconfig:"cloud_base_url"`

	AMQPURL string `envconfig:"amqp_url"`

	SMTPHost     string   `envconfig:"smtp_host"`
	SMTPPort     int      `envconfig:"smtp_port" default:"587"`
	SMTPUser     string   `envconfig:"smtp_user"`
	SMTPPassword string   `envconfig:"smtp_password"`
	MailFrom     string   `envconfig:"mail_from" default:"nao-responda@vialeturismo.com.br"`
	MailTo       []string `envconfig:"mail_to"`

	ExportDir         string `envconfig:"export_dir" default:"exports"`
	AppendSpreadsheet bool   `envconfig:"append_spreadsheet" default:"true"`

	FirstFollowUpDelay  time.Duration `envconfig:"first_followup_delay" default:"30m"`
	SecondFollowUpDelay time.Duration `envconfig:"second_followup_delay" default:"24h"`
	SessionIdleTTL      time.Duration `envconfig:"session_idle_ttl" default:"72h"`

	PanelUser         string   `envconfig:"panel_user"`
	PanelPassword     string   `envconfig:"panel_password"`
	JWTSecret         string   `envconfig:"jwt_secret"`
	AllowedOrigins    []string `envconfig:"allowed_origins"`
	EnableTestWebhook bool     `envconfig:"enable_test_webhook" default:"false"`

	AttendantsFile string `envconfig:"attendants_file"`
}

// NewLoadedConfig lê o .env (se existir) e as variáveis VIALE_*.
func NewLoadedConfig() (*Config, error) {
	godotenv.Load()

	var c Config
	if err := envconfig.Process(Prefix, &c); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("VIALE_DATABASE_URL é obrigatório com VIALE_STORE=postgres")
		}
	default:
		return errors.Errorf("VIALE_STORE inválido: %q", c.Store)
	}

	switch c.Transport {
	case TransportWhatsmeow, TransportConsole:
	case TransportTwilio:
		if c.TwilioAccountSID == "" || c.TwilioAuthToken == "" || c.TwilioFrom == "" {
			return errors.New("credenciais da Twilio incompletas")
		}
	case TransportCloud:
		if c.CloudAccessToken == "" || c.CloudPhoneID == "" {
			return errors.New("VIALE_CLOUD_ACCESS_TOKEN e VIALE_CLOUD_PHONE_ID são obrigatórios")
		}
	default:
		return errors.Errorf("VIALE_TRANSPORT inválido: %q", c.Transport)
	}

	if c.FirstFollowUpDelay <= 0 || c.SecondFollowUpDelay <= c.FirstFollowUpDelay {
		return errors.New("o segundo follow-up deve vir depois do primeiro")
	}

	if c.PanelUser != "" && c.JWTSecret == "" {
		return errors.New("VIALE_JWT_SECRET é obrigatório quando o painel tem usuário")
	}
	return nil
}

func (c *Config) SpreadsheetPath() string {
	return filepath.Join(c.ExportDir, "leads.xlsx")
}

func (c *Config) MailEnabled() bool {
	return c.SMTPHost != "" && len(c.MailTo) > 0
}

type attendantsFile struct {
	Attendants []entity.Attendant `yaml:"attendants"`
}

// Attendants carrega o diretório do arquivo YAML ou usa o padrão da agência.
func (c *Config) Attendants() (*entity.AttendantDirectory, error) {
	if c.AttendantsFile == "" {
		return entity.DefaultAttendantDirectory(), nil
	}

	data, err := os.ReadFile(c.AttendantsFile)
	if err != nil {
		return nil, errors.Wrapf(err, "lendo %s", c.AttendantsFile)
	}
	return ParseAttendants(data)
}

func ParseAttendants(data []byte) (*entity.AttendantDirectory, error) {
	var f attendantsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "arquivo de atendentes inválido")
	}

	dir, err := entity.NewAttendantDirectory(f.Attendants)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return dir, nil
}
