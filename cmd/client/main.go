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
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/omochice/roomchat/internal/client"
	"github.com/omochice/roomchat/internal/config"
	"github.com/omochice/roomchat/internal/console"
	"github.com/omochice/roomchat/internal/transport/tcp"
	"github.com/omochice/roomchat/internal/transport/ws"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "roomchat",
		Short: "Terminal client for the room chat server",
		Long: `roomchat connects to a room chat server, prints what the room says and
sends every line typed on stdin. Server commands such as /nick, /join,
/leave, /list, /create and /delete are passed through as typed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (yaml, toml or json)")
	flags.String("host", d.Server.Host, "server host")
	flags.IntP("port", "p", d.Server.Port, "server port")
	flags.String("transport", d.Transport, "transport: tcp or ws")
	flags.String("ws-path", d.WSPath, "request path for the ws transport")
	flags.Int("chunk-size", d.ChunkSize, "maximum bytes per read")
	flags.String("decode", d.Decode, "malformed UTF-8 handling: strict or replace")
	flags.String("log-level", d.LogLevel, "log level (debug, info, warn, error)")
	flags.String("metrics-addr", d.MetricsAddr, "serve Prometheus metrics on this address")

	return cmd
}

func run(ctx context.Context, cfg *config.Config, in io.Reader, out io.Writer) error {
	if err := setupLogging(cfg.LogLevel); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	if cfg.MetricsAddr != "" {
		go serveMetrics(ctx, cfg.MetricsAddr, reg)
	}

	c := client.New(
		client.Settings{
			Address:  cfg.Address(),
			Triggers: cfg.TriggerSet(),
			Decode:   cfg.DecodePolicy(),
		},
		newDialer(cfg),
		console.NewSink(out),
		client.WithRegisterer(reg),
	)

	if err := c.Connect(ctx); err != nil {
		return err
	}
	log.Info().Str("addr", c.RemoteAddr()).Str("transport", cfg.Transport).Msg("Connected")

	err := c.Run(ctx, console.ReadCommands(ctx, in))
	var rerr *client.ReadError
	if errors.As(err, &rerr) {
		log.Info().Err(rerr).Msg("Disconnected by server")
		return nil
	}
	return err
}

func newDialer(cfg *config.Config) client.Dialer {
	if cfg.Transport == config.TransportWebSocket {
		return ws.Dialer{ChunkSize: cfg.ChunkSize, Path: cfg.WSPath}
	}
	return tcp.Dialer{ChunkSize: cfg.ChunkSize}
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(lvl)
	return nil
}

func serveMetrics(ctx context.Context, addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", addr).Msg("Serving metrics")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("metrics server error")
	}
}
