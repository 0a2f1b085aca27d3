package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	TransportResend = "resend"
	TransportSMTP   = "smtp"
)

type Config struct {
	HTTP   HTTP
	Logger Logger
	Mail   Mail
	Kafka  Kafka
	TLS    TLS
}

type HTTP struct {
	Port         int   `env:"PORT" envDefault:"10000"`
	MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" envDefault:"10485760"`
}

type Logger struct {
	Level             string `env:"LOG_LEVEL" envDefault:"info"`
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// Mail values are not required at parse time: the service starts without them
// and refuses submissions until they are set. See Missing.
type Mail struct {
	Transport    string        `env:"MAIL_TRANSPORT" envDefault:"resend"`
	User         string        `env:"EMAIL_USER"`
	Password     string        `env:"EMAIL_PASS"`
	Destination  string        `env:"DESTINATION_EMAIL"`
	ResendAPIKey string        `env:"RESEND_API_KEY"`
	SMTPHost     string        `env:"MAIL_SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int           `env:"MAIL_SMTP_PORT" envDefault:"587"`
	SendTimeout  time.Duration `env:"MAIL_SEND_TIMEOUT" envDefault:"15s"`
}

// Missing returns the names of the variables the selected transport needs but
// that are unset. An unknown transport is reported as MAIL_TRANSPORT.
func (m Mail) Missing() []string {
	var missing []string

	check := func(name, val string) {
		if val == "" {
			missing = append(missing, name)
		}
	}

	check("EMAIL_USER", m.User)
	check("DESTINATION_EMAIL", m.Destination)

	switch m.Transport {
	case TransportResend:
		check("RESEND_API_KEY", m.ResendAPIKey)
	case TransportSMTP:
		check("EMAIL_PASS", m.Password)
	default:
		missing = append(missing, "MAIL_TRANSPORT")
	}

	return missing
}

type Kafka struct {
	Brokers         []string `env:"KAFKA_BROKERS"`
	ConsumerID      string   `env:"KAFKA_CONSUMER_ID" envDefault:"form-relay"`
	SubmissionTopic string   `env:"KAFKA_SUBMISSION_TOPIC" envDefault:"ppr-form-submissions"`
}

func (k Kafka) Enabled() bool {
	return len(k.Brokers) > 0
}

type TLS struct {
	ServerCert  string `env:"TLS_SERVER_CERT"`
	ServerKey   string `env:"TLS_SERVER_KEY"`
	CACert      string `env:"TLS_CA_CERT"`
	MTLSEnabled bool   `env:"MTLS_ENABLED" envDefault:"false"`
}

func (t TLS) Enabled() bool {
	return t.ServerCert != "" && t.ServerKey != ""
}

func New(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	c, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, err
	}

	if !c.TLS.Enabled() {
		return c, nil
	}

	requiredFiles := []struct {
		name string
		val  string
	}{
		{"TLS_SERVER_CERT", c.TLS.ServerCert},
		{"TLS_SERVER_KEY", c.TLS.ServerKey},
	}

	if c.TLS.MTLSEnabled {
		requiredFiles = append(requiredFiles, struct{ name, val string }{"TLS_CA_CERT", c.TLS.CACert})
	}

	for _, path := range requiredFiles {
		if _, err := os.Stat(path.val); err != nil {
			return Config{}, fmt.Errorf("missing TLS file for %s: %s", path.name, path.val)
		}
	}

	return c, nil
}
