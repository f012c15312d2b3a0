package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/medchron/internal/app"
	"github.com/rpggio/medchron/internal/config"
	"github.com/rpggio/medchron/internal/logging"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand(ctx *commandContext) *cobra.Command {
	var transportFlag string
	var portFlag int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over MCP (HTTP or stdio)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("transport") {
				cfg.Transport.Mode = transportFlag
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = portFlag
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, closeLog, err := newLogger(cfg, cmd.ErrOrStderr(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer closeLog()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(runCtx, cfg, logger)
		},
	}

	cmd.Flags().StringVar(&transportFlag, "transport", "", "Transport mode: http or stdio")
	cmd.Flags().IntVarP(&portFlag, "port", "p", 0, "HTTP listen port")
	return cmd
}

// newLogger logs to stderr in stdio mode so stdout carries only JSON-RPC.
func newLogger(cfg config.Config, stderr, stdout io.Writer) (*slog.Logger, func(), error) {
	w := stdout
	if cfg.Transport.Mode == "stdio" {
		w = stderr
	}
	closeFn := func() {}
	if cfg.Log.Path != "" {
		fw, err := logging.OpenFile(cfg.Log.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		w = fw
		closeFn = func() { _ = fw.Close() }
	}
	return logging.New(w, cfg.Log.Level), closeFn, nil
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return a.RunBackground(ctx) })

	if cfg.Transport.Mode == "stdio" {
		logger.Info("starting stdio transport")
		g.Go(func() error {
			// Run returns when stdin closes; that ends the process too.
			defer cancel()
			err := a.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		return g.Wait()
	}

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           a.HTTPHandler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	g.Go(func() error {
		logger.Info("server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
