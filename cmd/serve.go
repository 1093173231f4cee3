package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexiusacademia/rcbeam/internal/api"
	"github.com/alexiusacademia/rcbeam/internal/report"
)

// shutdownGrace bounds how long in-flight requests may finish
const shutdownGrace = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP design API",
	Long: `Serve the design engine over HTTP.

Endpoints:
  GET  /healthz
  GET  /metrics
  GET  /api/v1/codes[/{code}]
  GET  /api/v1/clauses[/{id}]?q=&category=&code=
  POST /api/v1/design
  POST /api/v1/trace
  POST /api/v1/batch
  POST /api/v1/batch/xlsx     (multipart field "file")
  POST /api/v1/report/pdf?project=

Requests under /api/v1 are rate limited per client address.

Examples:
  rcbeam serve --addr :8080
  RCBEAM_SERVER_RATE=50 rcbeam serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	f := serveCmd.Flags()
	f.String("addr", "", "Listen address (default :8080)")
	f.Float64("rate", 0, "Requests per second per client (default 10)")
	f.Int("burst", 0, "Rate limiter burst (default 20)")
	f.Int("max-batch", 0, "Largest batch accepted (default 500)")

	for key, flag := range map[string]string{
		"server.addr":      "addr",
		"server.rate":      "rate",
		"server.burst":     "burst",
		"server.max_batch": "max-batch",
	} {
		if err := v.BindPFlag(key, f.Lookup(flag)); err != nil {
			panic(err)
		}
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	e, err := newEngine()
	if err != nil {
		return err
	}
	s := api.New(e, api.Options{
		Rate:     cfg.Server.Rate,
		Burst:    cfg.Server.Burst,
		MaxBatch: cfg.Server.MaxBatch,
		Logger:   logger,
		Report:   report.Meta{Author: cfg.Report.Author},
	})
	srv := s.HTTPServer(cfg.Server.Addr, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Addr, "codes", e.Codes().Names(), "rate", cfg.Server.Rate)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
