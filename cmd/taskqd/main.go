// Command taskqd runs a task queue with its dispatcher behind an HTTP
// admin API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	lg "github.com/Andrej220/go-utils/zlog"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	tq "github.com/azargarov/taskqueue"
	"github.com/azargarov/taskqueue/httpapi"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "taskqd",
		Short: "In-memory task queue daemon",
	}

	cfg := LoadConfig()
	serveCmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the dispatcher and the HTTP admin API",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg)
		},
	}
	serveCmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP listen address")
	serveCmd.Flags().IntVar(&cfg.RetryAttempts, "retry-attempts", cfg.RetryAttempts, "Attempts per item before it is reported as failed")
	serveCmd.Flags().DurationVar(&cfg.RetryInitial, "retry-initial", cfg.RetryInitial, "First backoff between attempts")
	serveCmd.Flags().DurationVar(&cfg.RetryMax, "retry-max", cfg.RetryMax, "Backoff cap between attempts")
	serveCmd.Flags().DurationVar(&cfg.ItemTimeout, "item-timeout", cfg.ItemTimeout, "Per attempt timeout (0 disables)")
	serveCmd.Flags().IntVar(&cfg.PinCPU, "pin-cpu", cfg.PinCPU, "Pin the dispatcher to this CPU (-1 disables, linux only)")
	serveCmd.Flags().DurationVar(&cfg.ShutdownWait, "shutdown-wait", cfg.ShutdownWait, "Grace period for in-flight work on shutdown")
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return rootCmd
}

func serve(ctx context.Context, cfg Config) error {
	logger := lg.FromContext(ctx)

	q := tq.NewQueue(tq.Options{
		Metrics: &tq.AtomicMetrics{},
	})
	d := tq.NewDispatcher(q, cfg.DispatcherOptions())
	if err := d.Start(ctx); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	httpapi.New(q).RegisterRoutes(e)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", lg.String("addr", cfg.Addr))
		if err := e.Start(cfg.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		logger.Error("Server failed", lg.Any("error", serveErr))
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownWait)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown failed", lg.Any("error", err))
	}
	q.Close()
	if err := d.Stop(shutdownCtx); err != nil {
		logger.Warn("Dispatcher did not stop in time", lg.Any("error", err))
	}
	return serveErr
}
