package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/jaminalder/codex-othello/internal/config"
	"github.com/jaminalder/codex-othello/internal/domain"
	"github.com/jaminalder/codex-othello/internal/web"
	"github.com/rs/zerolog"
)

// NewLogger builds the root logger from the log settings.
func NewLogger(conf *config.Config, w io.Writer) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(conf.LogLevel)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("log level: %w", err)
	}
	if conf.LogFormat == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger(), nil
}

// NewHandler builds the match service and the HTTP routes on top of it.
func NewHandler(logger zerolog.Logger, conf *config.Config) http.Handler {
	opts := []app.Option{app.WithLogger(logger)}
	if conf.Rules.AutoPass {
		opts = append(opts, app.WithRules(domain.WithAutoPass()))
	}
	return web.NewServer(app.NewService(opts...), logger, conf.Events.Heartbeat)
}

// RunApp - runs the application until SIGINT or SIGTERM arrives or ctx ends.
func RunApp(ctx context.Context, logger zerolog.Logger, conf *config.Config) error {
	log := logger.With().Str("component", "application").Logger()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", conf.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", conf.HTTP.Addr, err)
	}

	srv := &http.Server{
		Handler:      NewHandler(logger, conf),
		ReadTimeout:  conf.HTTP.ReadTimeout,
		WriteTimeout: conf.HTTP.WriteTimeout,
		IdleTimeout:  conf.HTTP.IdleTimeout,
	}
	log.Info().
		Str("addr", ln.Addr().String()).
		Bool("auto_pass", conf.Rules.AutoPass).
		Msg("Starting HTTP server")
	return serve(ctx, log, srv, ln, conf.HTTP.ShutdownTimeout)
}

// serve runs srv on ln and shuts it down gracefully once ctx is done.
func serve(ctx context.Context, log zerolog.Logger, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	// Streams watch their request context, so they end when ctx does.
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		_ = srv.Close()
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
