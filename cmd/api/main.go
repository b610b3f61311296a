package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/BruksfildServices01/fila-atendimento/internal/audit"
	"github.com/BruksfildServices01/fila-atendimento/internal/config"
	"github.com/BruksfildServices01/fila-atendimento/internal/logger"
	"github.com/BruksfildServices01/fila-atendimento/internal/middleware"
	"github.com/BruksfildServices01/fila-atendimento/internal/routes"
	ucQueue "github.com/BruksfildServices01/fila-atendimento/internal/usecase/queue"
	"github.com/BruksfildServices01/fila-atendimento/internal/web"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fila",
		Short: "Painel da fila de atendimento",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(summaryCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func summaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Fetch the queue once and print the per-procedure summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(cmd.Context(), cmd.OutOrStdout())
		},
	}
}

// ======================================================
// SERVE
// ======================================================

func runServer() error {
	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	tmpl, err := web.Templates(cfg.ClinicTimezone)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(log))
	r.SetHTMLTemplate(tmpl)

	routes.RegisterRoutes(r, a.refresher, a.db, a.metrics, cfg)

	refreshDone := a.refresher.Start(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdownErr := srv.Shutdown(shutdownCtx)

	// o refresher ainda pode estar emitindo eventos; a.Close só depois dele
	<-refreshDone

	if shutdownErr != nil {
		log.Error().Err(shutdownErr).Msg("server shutdown failed")
		return shutdownErr
	}
	log.Info().Msg("server stopped")
	return nil
}

// ======================================================
// SUMMARY
// ======================================================

func runSummary(ctx context.Context, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)

	a, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	if _, err := a.refresher.Refresh(ctx, audit.TriggerCLI); err != nil {
		return fmt.Errorf("fetch queue: %w", err)
	}

	summary, err := ucQueue.NewGetSummary(a.refresher).Execute(ctx)
	if err != nil {
		return err
	}

	return printSummary(out, summary)
}

func printSummary(out io.Writer, s *ucQueue.SummaryOutput) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "PROCEDIMENTO\tQTD\t%")
	for _, item := range s.Items {
		fmt.Fprintf(w, "%s\t%d\t%.1f\n", item.Procedure, item.Count, item.Share)
	}
	fmt.Fprintf(w, "Total\t%d\t\n", s.Total)

	return w.Flush()
}
