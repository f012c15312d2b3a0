package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rpggio/medchron/internal/mcp"
)

// MCPHandler handles tool dispatch.
type MCPHandler interface {
	Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error)
}

// Options selects the optional endpoints.
type Options struct {
	// MCP serves /mcp, normally the SDK's streamable HTTP handler.
	MCP http.Handler
	// Metrics serves /metrics.
	Metrics http.Handler
	// Middleware wraps every route, outermost first.
	Middleware []func(http.Handler) http.Handler
	Logger     *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	handler MCPHandler
	logger  *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(handler MCPHandler, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	for _, mw := range opts.Middleware {
		r.Use(mw)
	}
	r.Use(SessionMiddleware)

	srv := &Server{handler: handler, logger: opts.Logger}

	r.Post("/rpc", srv.handleRPC)
	r.Get("/health", srv.handleHealth)
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		if errors.Is(err, errParse) {
			WriteError(w, nil, ErrParseCode, "parse error", nil)
			return
		}
		WriteError(w, req.ID, ErrInvalidReq, "invalid request", nil)
		return
	}

	sessionID, _ := SessionIDFromContext(r.Context())
	if sessionID == "" {
		sessionID = mcp.DefaultSessionID
	}

	result, err := s.handler.Handle(r.Context(), sessionID, req.Method, req.Params)
	if err != nil {
		s.writeHandleError(w, req, err)
		return
	}

	WriteResult(w, req.ID, result)
}

func (s *Server) writeHandleError(w http.ResponseWriter, req Request, err error) {
	if errors.Is(err, mcp.ErrUnknownMethod) {
		WriteError(w, req.ID, ErrMethodNotFound, "method not found", req.Method)
		return
	}
	apiErr := mcp.MapError(err)
	switch {
	case apiErr == nil:
		if s.logger != nil {
			s.logger.Error("rpc call failed", "method", req.Method, "error", err)
		}
		WriteError(w, req.ID, ErrInternal, "internal error", nil)
	case apiErr.Code == "INVALID_PARAMS":
		WriteError(w, req.ID, ErrInvalidParams, "invalid params", apiErr)
	default:
		WriteError(w, req.ID, ErrToolCode, apiErr.Message, apiErr)
	}
}
