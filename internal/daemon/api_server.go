package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"shelf/internal/config"
	"shelf/internal/logging"
	"shelf/internal/media"
	"shelf/internal/pipeline"
	"shelf/internal/services"
	"shelf/internal/validation"
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) (*apiServer, error) {
	bind := strings.TrimSpace(cfg.Paths.APIBind)
	if bind == "" {
		return nil, errors.New("api bind address required")
	}

	srv := &apiServer{
		bind:   bind,
		logger: logger,
		daemon: d,
	}

	token := cfg.Paths.APIToken
	mux := http.NewServeMux()
	mux.HandleFunc("/api/status", srv.withRequest(token, srv.handleStatus))
	mux.HandleFunc("/api/ingest", srv.withRequest(token, srv.handleIngest))
	mux.HandleFunc("/api/pending", srv.withRequest(token, srv.handlePending))
	mux.HandleFunc("/api/accepted", srv.withRequest(token, srv.handleAccepted))
	mux.HandleFunc("/api/rejected", srv.withRequest(token, srv.handleRejected))

	srv.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Ingestion runs block on sequential oracle calls; give them room.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return srv, nil
}

// withRequest wraps a handler with bearer auth and a per-request
// correlation ID carried through context into structured logs.
func (s *apiServer) withRequest(token string, next http.HandlerFunc) http.HandlerFunc {
	return authMiddleware(token, func(w http.ResponseWriter, r *http.Request) {
		ctx := services.WithRequestID(r.Context(), uuid.NewString())
		next(w, r.WithContext(ctx))
	})
}

func (s *apiServer) start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log().Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.log().Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *apiServer) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeJSON(w, http.StatusOK, s.daemon.Status())
}

type ingestRequest struct {
	Type string `json:"type"`
}

type ingestResponse struct {
	Results []pipeline.IngestResult `json:"results"`
}

func (s *apiServer) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	requested := strings.ToLower(strings.TrimSpace(req.Type))
	if requested == "" || requested == "all" {
		results, err := s.daemon.pipeline.IngestAll(r.Context())
		if err != nil {
			s.writeError(w, services.HTTPStatus(err), err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, ingestResponse{Results: results})
		return
	}

	result, err := s.daemon.pipeline.Ingest(r.Context(), media.ParseType(requested))
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, ingestResponse{Results: []pipeline.IngestResult{result}})
}

func (s *apiServer) handlePending(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	request, err := s.daemon.pipeline.Pending(r.Context())
	if err != nil {
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, request)
}

func (s *apiServer) handleAccepted(w http.ResponseWriter, r *http.Request) {
	s.handleResolution(w, r, s.daemon.pipeline.Accept, "promoted")
}

func (s *apiServer) handleRejected(w http.ResponseWriter, r *http.Request) {
	s.handleResolution(w, r, s.daemon.pipeline.Reject, "rejected")
}

func (s *apiServer) handleResolution(w http.ResponseWriter, r *http.Request, resolve func(context.Context, *validation.Response) error, outcome string) {
	if r.Method != http.MethodPost {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var resp validation.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid validation response: "+err.Error())
		return
	}
	if err := resolve(r.Context(), &resp); err != nil {
		s.writeError(w, services.HTTPStatus(err), err.Error())
		return
	}
	count := 0
	for _, records := range resp.Tables {
		count += len(records)
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"outcome": outcome, "records": count})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log().Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *apiServer) log() *slog.Logger {
	if s.logger != nil {
		return s.logger.With(logging.String(logging.FieldComponent, "api-server"))
	}
	return logging.NewNop()
}
