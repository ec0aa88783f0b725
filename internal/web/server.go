package web

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/akapur/autosplit/internal/payments"
	"github.com/akapur/autosplit/internal/service"
)

type Server struct {
	groups        *service.GroupService
	bills         *service.BillService
	splits        *service.SplitService
	stripe        *payments.StripeClient
	stripePubKey  string
	currency      string
	allowedOrigin string
	mux           *http.ServeMux
	logger        *slog.Logger
}

func NewServer(
	groups *service.GroupService,
	bills *service.BillService,
	splits *service.SplitService,
	stripe *payments.StripeClient,
	stripePubKey string,
	currency string,
	allowedOrigin string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		groups:        groups,
		bills:         bills,
		splits:        splits,
		stripe:        stripe,
		stripePubKey:  stripePubKey,
		currency:      currency,
		allowedOrigin: allowedOrigin,
		mux:           http.NewServeMux(),
		logger:        logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("POST /api/groups", s.handleCreateGroup)
	s.mux.HandleFunc("GET /api/groups/{id}", s.handleGetGroup)
	s.mux.HandleFunc("GET /api/groups/{id}/summary", s.handleGroupSummary)
	s.mux.HandleFunc("POST /api/upload", s.handleUploadBill)
	s.mux.HandleFunc("GET /api/bills/{id}/scan", s.handleGetScan)
	s.mux.HandleFunc("POST /api/assign", s.handleAssignItems)
	s.mux.HandleFunc("POST /api/pay/upi", s.handlePayUPI)
	s.mux.HandleFunc("POST /api/pay/venmo", s.handlePayVenmo)
	s.mux.HandleFunc("POST /api/pay/stripe", s.handlePayStripe)
}

// cors answers preflight requests and stamps the configured origin on every
// response. The API is consumed by a separately served frontend.
func cors(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", origin)
		h.Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestLogger(s.logger, cors(s.allowedOrigin, s.mux)).ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// closeWithLog closes c and logs any error, using label to identify the resource.
func closeWithLog(c io.Closer, label string, logger *slog.Logger) {
	if err := c.Close(); err != nil {
		logger.Error("failed to close resource", "label", label, "error", err)
	}
}
