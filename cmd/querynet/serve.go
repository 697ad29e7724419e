package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/emilythestrangee/querynet/backend/internal/database"
	"github.com/emilythestrangee/querynet/backend/internal/notify"
	"github.com/emilythestrangee/querynet/backend/internal/qa"
	"github.com/emilythestrangee/querynet/backend/internal/server"
)

var (
	autoMigrate     bool
	shutdownTimeout time.Duration

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply schema migrations before serving")
	serveCmd.Flags().DurationVar(&shutdownTimeout, "shutdown-timeout", 5*time.Second, "grace period for in-flight requests")
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	db, err := database.New(cfg, log)
	if err != nil {
		return err
	}
	defer db.Close()

	if autoMigrate {
		if err := database.Migrate(db.GetDB()); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	shutdownTracing, err := server.SetupTracing(cfg.TraceStdout)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}

	dispatchCfg := qa.DispatcherConfig{Timeout: cfg.NotificationTimeout}
	if cfg.SMSEnabled() {
		dispatchCfg.Deliverer = notify.NewSMSSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
		log.Info("sms delivery enabled")
	}
	dispatcher := qa.NewDispatcher(db.GetDB(), log, dispatchCfg)
	svc := qa.NewService(db.GetDB(), log, dispatcher)

	srv := server.New(cfg, log, svc, db).HTTPServer()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server error: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}
	dispatcher.Wait()
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown", "error", err)
	}
	log.Info("server exiting")
	return nil
}
