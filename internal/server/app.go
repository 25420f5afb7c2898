// Package server initializes and runs the portfolio server. It selects the
// storage backend, wires the services, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/chdeepakkumar/portfolio/internal/logging"
	"github.com/chdeepakkumar/portfolio/internal/mail"
	"github.com/chdeepakkumar/portfolio/internal/server/auth"
	"github.com/chdeepakkumar/portfolio/internal/server/config"
	"github.com/chdeepakkumar/portfolio/internal/server/httpapi"
	"github.com/chdeepakkumar/portfolio/internal/server/knowledge"
	"github.com/chdeepakkumar/portfolio/internal/server/portfolio"
	"github.com/chdeepakkumar/portfolio/internal/server/repository"
	"github.com/chdeepakkumar/portfolio/internal/server/resume"
	"github.com/chdeepakkumar/portfolio/internal/server/users"
	"github.com/chdeepakkumar/portfolio/internal/storage"
)

const (
	otpTTL        = 5 * time.Minute
	otpSweepEvery = time.Minute
)

type App struct {
	config *config.Config
	logger logging.Logger
	otp    *auth.OTPStore
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewDefault()

	store, err := storage.New(ctx, storage.Options{
		Kind:    cfg.StorageBackend,
		DataDir: cfg.DataDir,
		S3: storage.S3Options{
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
		},
		RetryMaxAttempts:    cfg.RetryMaxAttempts,
		RetryInitialBackoff: cfg.RetryInitialBackoff,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	mailer, err := mail.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword)
	if err != nil {
		return nil, err
	}

	repo := repository.New(store, cfg.AdminEmail, logger)
	otp := auth.NewOTPStore(otpTTL, otpSweepEvery)

	us := users.NewService(repo, otp, mailer, cfg, logger)
	ps := portfolio.NewService(repo, logger)
	ks := knowledge.NewService(repo, logger)
	rm := resume.NewManager(repo, logger)

	srv := httpapi.NewServer(cfg, logger, us, ps, ks, rm)

	return &App{config: cfg, logger: logger, otp: otp, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	app.otp.Start(ctx)
	defer app.otp.Stop()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
