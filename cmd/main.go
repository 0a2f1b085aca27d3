package main

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samandr77/microservices/formrelay/internal/api"
	"github.com/samandr77/microservices/formrelay/internal/api/events"
	"github.com/samandr77/microservices/formrelay/internal/clients/gomail"
	"github.com/samandr77/microservices/formrelay/internal/clients/resend"
	"github.com/samandr77/microservices/formrelay/internal/service"
	"github.com/samandr77/microservices/formrelay/pkg/broker"
	"github.com/samandr77/microservices/formrelay/pkg/config"
	"github.com/samandr77/microservices/formrelay/pkg/logger"
)

const (
	readTimeout       = 20 * time.Second
	readHeaderTimeout = time.Second
	shutdownTimeout   = 10 * time.Second
)

// @title PPR form relay API
// @version 1.0
// @description Relays PPR form submissions by email.
// @BasePath /
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.New(".env")
	panicOnErr("create config", err)

	l, err := logger.New(cfg.Logger.Level, logger.SentryConfig{
		DSN:         cfg.Logger.SentryDSN,
		Environment: cfg.Logger.SentryEnvironment,
	})
	panicOnErr("create logger", err)

	defer logger.Flush(2 * time.Second)

	// Keep serving /health so the process stays inspectable; submissions are refused.
	if missing := cfg.Mail.Missing(); len(missing) > 0 {
		l.Warn("fatal configuration: email environment variables are not set", "missing", missing)
	}

	s := service.New(cfg.Mail, newSender(cfg.Mail))

	if cfg.Kafka.Enabled() {
		consumer := broker.NewConsumer(l, cfg.Kafka.Brokers, cfg.Kafka.ConsumerID, cfg.Kafka.SubmissionTopic)
		defer consumer.Close()

		eventHandler := events.NewEventHandler(s)

		consumer.Handle(cfg.Kafka.SubmissionTopic, eventHandler.RelaySubmission)
		consumer.Consume(ctx)
	}

	h := api.NewHandler(s)
	mw := api.NewMiddleware(l)

	router := api.NewRouter(h, mw, cfg.HTTP.MaxBodyBytes)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      cfg.Mail.SendTimeout + readTimeout,
	}

	if cfg.TLS.Enabled() {
		server.TLSConfig = newTLSConfig(cfg.TLS)
	}

	go func() {
		var err error
		if cfg.TLS.Enabled() {
			err = server.ListenAndServeTLS(cfg.TLS.ServerCert, cfg.TLS.ServerKey)
		} else {
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Panic(err)
		}
	}()

	l.Info("server started", "port", cfg.HTTP.Port, "transport", cfg.Mail.Transport, "tls", cfg.TLS.Enabled())

	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGQUIT, syscall.SIGINT)
	sig := <-ch

	l.Info("got OS signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, shutdownTimeout)
	defer shutdownCancel()

	err = server.Shutdown(shutdownCtx)
	if err != nil {
		l.Error("shutdown", "error", err)
	}
}

func newSender(cfg config.Mail) service.Sender {
	if cfg.Transport == config.TransportSMTP {
		return gomail.New(cfg.SMTPHost, cfg.SMTPPort, cfg.User, cfg.Password)
	}

	return resend.New(cfg.ResendAPIKey, &http.Client{Timeout: cfg.SendTimeout})
}

func newTLSConfig(cfg config.TLS) *tls.Config {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ClientAuth: tls.NoClientCert,
	}

	if !cfg.MTLSEnabled {
		return tlsConfig
	}

	caCert, err := os.ReadFile(cfg.CACert)
	panicOnErr("load CA cert", err)

	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		log.Panic("failed to append CA cert to pool")
	}

	tlsConfig.ClientCAs = caCertPool
	tlsConfig.ClientAuth = tls.RequireAndVerifyClientCert

	return tlsConfig
}

func panicOnErr(msg string, err error) {
	if err != nil {
		log.Panicf("%s: %s", msg, err)
	}
}
