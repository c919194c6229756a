package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Sanjeetkumar61/FormBuilder/internal/config"
	"github.com/Sanjeetkumar61/FormBuilder/internal/handler"
	"github.com/Sanjeetkumar61/FormBuilder/internal/logging"
	"github.com/Sanjeetkumar61/FormBuilder/internal/metrics"
	"github.com/Sanjeetkumar61/FormBuilder/internal/router"
	"github.com/Sanjeetkumar61/FormBuilder/internal/service"
)

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), *configPath)
		},
	}
}

func serve(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.New(cfg.LogLevel, cfg.GelfAddr)
	if err != nil {
		return err
	}
	defer closeLog()
	defer logger.Sync()

	if cfg.DevSecret() {
		logger.Warn("JWT_SECRET not set; using the development secret")
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	files, err := openFileStore(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("open upload storage: %w", err)
	}

	m := metrics.New()
	authSvc := service.NewAuthService(st.admins, cfg.JWTSecret, cfg.TokenTTL)
	formSvc := service.NewFormService(st.forms, st.responses)
	respSvc := service.NewResponseService(st.forms, st.responses, files, m)

	r := router.New(router.Options{
		JWTSecret:         cfg.JWTSecret,
		CORSOrigins:       cfg.CORSOrigins,
		AllowRegistration: cfg.AllowRegistration,
		Logger:            logger,
		Metrics:           m,
	}, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Forms:     handler.NewFormHandler(formSvc),
		Responses: handler.NewResponseHandler(respSvc, cfg.MaxUploadBytes),
		Dashboard: handler.NewDashboardHandler(formSvc),
		Health:    handler.NewHealthHandler(st.pinger),
	})

	// Serve immediately; indexes are built in the background.
	if cfg.Store == config.StoreMongo {
		go ensureIndexes(ctx, cfg, logger)
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("formbuilder server starting", zap.String("addr", cfg.HTTPAddr), zap.String("version", Version))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
