// Package httpapi implements the HTTP frontend: a small JSON API over the
// core coordinator for status, library listing, and playback control.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"cadenza/internal/config"
	"cadenza/internal/core"
	"cadenza/internal/logging"
)

const className = "http"

// Class is the registrable HTTP frontend class.
type Class struct {
	// Logger is optional; a nop logger is used when unset.
	Logger *slog.Logger
}

func (Class) Name() string { return className }

// Start binds the configured address and begins serving.
func (c Class) Start(ctx context.Context, cfg *config.Config, coord *core.Coordinator) (*Frontend, error) {
	logger := c.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	srv := &Frontend{coord: coord, logger: logger}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.handleStatus)
	mux.HandleFunc("/api/library", srv.handleLibrary)
	mux.HandleFunc("/api/playback", srv.handlePlayback)
	mux.HandleFunc("/api/volume", srv.handleVolume)
	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	listener, err := net.Listen("tcp", cfg.HTTP.Bind)
	if err != nil {
		return nil, fmt.Errorf("http frontend listen: %w", err)
	}
	srv.listener = listener

	go func() {
		if err := srv.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http frontend error", logging.Error(err), logging.Component(className))
		}
	}()

	logger.Info("http frontend listening",
		logging.String("address", listener.Addr().String()),
		logging.Component(className),
	)
	return srv, nil
}

// Frontend is a running HTTP frontend instance.
type Frontend struct {
	coord    *core.Coordinator
	logger   *slog.Logger
	listener net.Listener
	server   *http.Server
}

// Addr returns the bound listen address.
func (f *Frontend) Addr() string {
	if f.listener == nil {
		return ""
	}
	return f.listener.Addr().String()
}

// Close drains in-flight requests and shuts the server down.
func (f *Frontend) Close() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := f.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http frontend shutdown: %w", err)
	}
	return nil
}

func (f *Frontend) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		f.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	f.writeJSON(w, http.StatusOK, f.coord.Status())
}

func (f *Frontend) handleLibrary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		f.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	tracks, err := f.coord.Library(r.Context())
	if err != nil {
		f.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if tracks == nil {
		tracks = []core.Track{}
	}
	f.writeJSON(w, http.StatusOK, map[string]any{"tracks": tracks})
}

func (f *Frontend) handlePlayback(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var body struct {
			URI string `json:"uri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.URI == "" {
			f.writeError(w, http.StatusBadRequest, "body must be {\"uri\": ...}")
			return
		}
		if err := f.coord.Play(r.Context(), body.URI); err != nil {
			f.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		f.writeJSON(w, http.StatusOK, f.coord.Status())
	case http.MethodDelete:
		f.coord.StopPlayback()
		f.writeJSON(w, http.StatusOK, f.coord.Status())
	default:
		f.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (f *Frontend) handleVolume(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		f.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var body struct {
		Volume *int `json:"volume"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Volume == nil {
		f.writeError(w, http.StatusBadRequest, "body must be {\"volume\": 0-100}")
		return
	}
	if err := f.coord.SetVolume(*body.Volume); err != nil {
		f.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	f.writeJSON(w, http.StatusOK, f.coord.Status())
}

func (f *Frontend) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		f.logger.Warn("http frontend response encode failed", logging.Error(err), logging.Component(className))
	}
}

func (f *Frontend) writeError(w http.ResponseWriter, status int, message string) {
	f.writeJSON(w, status, map[string]string{
		"error": message,
		"code":  strconv.Itoa(status),
	})
}
