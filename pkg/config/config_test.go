package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/formrelay/pkg/config"
)

func setMailEnv(t *testing.T) {
	t.Helper()

	t.Setenv("EMAIL_USER", "forms@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("DESTINATION_EMAIL", "ops@example.com")
	t.Setenv("RESEND_API_KEY", "re_test")
}

//nolint:paralleltest
func TestNew_Defaults(t *testing.T) {
	setMailEnv(t)

	c, err := config.New(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	require.Equal(t, 10000, c.HTTP.Port)
	require.Equal(t, int64(10<<20), c.HTTP.MaxBodyBytes)
	require.Equal(t, config.TransportResend, c.Mail.Transport)
	require.Equal(t, 15*time.Second, c.Mail.SendTimeout)
	require.Equal(t, "smtp.gmail.com", c.Mail.SMTPHost)
	require.Equal(t, 587, c.Mail.SMTPPort)
	require.Equal(t, "info", c.Logger.Level)
	require.False(t, c.Kafka.Enabled())
	require.False(t, c.TLS.Enabled())
	require.Empty(t, c.Mail.Missing())
}

//nolint:paralleltest
func TestNew_MissingMailDoesNotFail(t *testing.T) {
	t.Setenv("EMAIL_USER", "")
	t.Setenv("EMAIL_PASS", "")
	t.Setenv("DESTINATION_EMAIL", "")
	t.Setenv("RESEND_API_KEY", "")

	c, err := config.New(filepath.Join(t.TempDir(), "absent.env"))
	require.NoError(t, err)

	require.Equal(t, []string{"EMAIL_USER", "DESTINATION_EMAIL", "RESEND_API_KEY"}, c.Mail.Missing())
}

//nolint:paralleltest
func TestNew_LoadsEnvFile(t *testing.T) {
	setMailEnv(t)

	const key = "KAFKA_BROKERS"

	_, existed := os.LookupEnv(key)
	require.False(t, existed)

	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(key+"=kafka-1:9092,kafka-2:9092\n"), 0o600))

	c, err := config.New(path)
	require.NoError(t, err)

	require.True(t, c.Kafka.Enabled())
	require.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, c.Kafka.Brokers)
	require.Equal(t, "ppr-form-submissions", c.Kafka.SubmissionTopic)
}

//nolint:paralleltest
func TestNew_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")

	_, err := config.New(filepath.Join(t.TempDir(), "absent.env"))
	require.Error(t, err)
}

//nolint:paralleltest
func TestNew_MissingTLSFiles(t *testing.T) {
	t.Setenv("TLS_SERVER_CERT", filepath.Join(t.TempDir(), "server.crt"))
	t.Setenv("TLS_SERVER_KEY", filepath.Join(t.TempDir(), "server.key"))

	_, err := config.New(filepath.Join(t.TempDir(), "absent.env"))
	require.ErrorContains(t, err, "TLS_SERVER_CERT")
}

func TestMail_Missing(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		mail config.Mail
		want []string
	}{
		{
			name: "resend complete",
			mail: config.Mail{Transport: config.TransportResend, User: "a@b.c", Destination: "d@e.f", ResendAPIKey: "re_x"},
		},
		{
			name: "smtp complete",
			mail: config.Mail{Transport: config.TransportSMTP, User: "a@b.c", Destination: "d@e.f", Password: "pw"},
		},
		{
			name: "smtp without password",
			mail: config.Mail{Transport: config.TransportSMTP, User: "a@b.c", Destination: "d@e.f", ResendAPIKey: "re_x"},
			want: []string{"EMAIL_PASS"},
		},
		{
			name: "unknown transport",
			mail: config.Mail{Transport: "pigeon", User: "a@b.c", Destination: "d@e.f"},
			want: []string{"MAIL_TRANSPORT"},
		},
		{
			name: "empty",
			mail: config.Mail{Transport: config.TransportResend},
			want: []string{"EMAIL_USER", "DESTINATION_EMAIL", "RESEND_API_KEY"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, tt.mail.Missing())
		})
	}
}
