package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/qri-io/jsondiff"
	"github.com/qri-io/jsondiff/live"
	"github.com/qri-io/jsondiff/schedule"
	"github.com/spf13/cobra"
)

func newServeCmd(g *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve interactive diff sessions over a websocket",
		Long: `Serve interactive diff sessions. Clients connect to /ws and send
{"type":"edit","base":"...","comparison":"..."} messages; the server replies
with a status message for every scheduling step.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = g.cfg.Serve.Addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, newServer(g.cfg, addr, g.logger), g.logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address, defaults to serve.addr from config")
	return cmd
}

func newServer(cfg *Config, addr string, logger *slog.Logger) *http.Server {
	differ := jsondiff.New(jsondiff.OptionMaxDepth(cfg.MaxDepth))
	mux := http.NewServeMux()
	mux.Handle("/ws", live.NewHandler(differ,
		live.OptionLogger(logger),
		live.OptionScheduler(schedule.OptionPolicy(cfg.Policy)),
	))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// serve runs srv until ctx is cancelled, then shuts it down
func serve(ctx context.Context, srv *http.Server, logger *slog.Logger) error {
	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
