package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/proplist/config"
	"github.com/wippyai/proplist/internal/shell"
	"github.com/wippyai/proplist/metrics"
	"github.com/wippyai/proplist/plist"
	"github.com/wippyai/proplist/pool"
)

// app holds what every subcommand needs: settings, logger, root arena and
// the optional metrics endpoint.
type app struct {
	cfg     *config.Config
	log     *zap.Logger
	arena   *pool.Arena
	metrics *metrics.Collector
	server  *http.Server
}

func setup(path string) (*app, error) {
	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	log, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	plist.SetLogger(log.Named("plist"))
	pool.SetLogger(log.Named("pool"))

	a := &app{
		cfg:   cfg,
		log:   log,
		arena: cfg.NewArena(),
	}

	if cfg.Metrics.Enabled {
		a.metrics = metrics.New(nil, cfg.Metrics.Namespace)
		if cfg.Metrics.Addr != "" {
			a.serveMetrics(cfg.Metrics.Addr)
		}
	}
	return a, nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	a.server = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		a.log.Info("serving metrics", zap.String("addr", addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("metrics server failed", zap.Error(err))
		}
	}()
}

func (a *app) newShell(out io.Writer, strict bool) *shell.Shell {
	return shell.New(out, shell.Options{
		Arena:       a.arena,
		ListOptions: a.cfg.ListOptions(),
		Reserved:    a.cfg.List.Reserved,
		MaxCount:    a.cfg.List.MaxCount,
		Metrics:     a.metrics,
		Logger:      a.log.Named("shell"),
		Strict:      strict,
	})
}

func (a *app) Close() {
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.server.Shutdown(ctx); err != nil {
			a.log.Warn("metrics server shutdown", zap.Error(err))
		}
	}
	if used := a.arena.Used(); used != 0 {
		a.log.Warn("arena not empty at exit", zap.Int("bytes", used))
	}
	_ = a.log.Sync()
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func describe(a *app) string {
	st := a.arena.Stats()
	if st.Limit == 0 {
		return fmt.Sprintf("%s %dB", st.Name, st.Used)
	}
	return fmt.Sprintf("%s %d/%dB", st.Name, st.Used, st.Limit)
}
