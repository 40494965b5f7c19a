package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/webitel/group-chat-service/config"
	"github.com/webitel/group-chat-service/internal/handler/rest"
	"github.com/webitel/group-chat-service/internal/handler/ws"
)

// NewRouter assembles the full HTTP surface: REST API, WebSocket upgrade,
// health and metrics.
func NewRouter(
	cfg *config.Config,
	restHandler *rest.RESTHandler,
	wsHandler *ws.WSHandler,
	registry *prometheus.Registry,
) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", restHandler.Routes)
	r.Handle("/ws", wsHandler)

	return r
}

// NewServer builds the http.Server. Read/idle timeouts stay above the
// long-poll wait so the server never cuts a suspended poll short; there is
// deliberately no WriteTimeout for the same reason.
func NewServer(cfg *config.Config, mux *chi.Mux, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              cfg.HTTP.Address,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       2 * cfg.Poll.Wait,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
