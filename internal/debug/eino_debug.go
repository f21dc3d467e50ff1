// Package debug hosts the eino devops visual debugger for inspecting the
// orchestration graph at runtime.
package debug

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cloudwego/eino-ext/devops"

	"github.com/coincortex/coincortex/internal/config"
)

type EinoDebugger struct {
	config *config.Config
	ctx    context.Context
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{
		config: cfg,
		ctx:    context.Background(),
	}
}

// Initialize starts the devops debug plugin and a companion health endpoint.
// It is a no-op when debugging is disabled in the config.
func (d *EinoDebugger) Initialize() error {
	if !d.config.EinoDebugEnabled {
		return nil
	}

	if err := devops.Init(d.ctx); err != nil {
		return fmt.Errorf("initialize eino debug plugin: %w", err)
	}

	slog.Info("eino debug server started", "url", d.GetDebugURL())
	go d.serveHealth()

	return nil
}

func (d *EinoDebugger) serveHealth() {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("CoinCortex debug server is running"))
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", d.config.EinoDebugPort+1),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		slog.Warn("debug health server stopped", "error", err)
	}
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) GetDebugURL() string {
	if !d.config.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}
