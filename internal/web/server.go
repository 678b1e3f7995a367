package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/codex-othello/internal/app"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// DefaultHeartbeat is the keep-alive interval for event and WebSocket streams.
const DefaultHeartbeat = 15 * time.Second

// NewServer wires routes and returns an http.Handler. A non-positive
// heartbeat selects DefaultHeartbeat.
func NewServer(s *app.Service, log zerolog.Logger, heartbeat time.Duration) http.Handler {
	if heartbeat <= 0 {
		heartbeat = DefaultHeartbeat
	}
	log = log.With().Str("component", "web").Logger()
	h := &handlers{svc: s, tpl: loadTemplates(), heartbeat: heartbeat}

	r := chi.NewRouter()
	r.Use(hlog.NewHandler(log))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(accessLog)
	r.Use(middleware.Recoverer)

	r.Get("/ping", ping)
	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Get("/events", h.events)
	})
	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", h.apiCreate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/state", h.apiState)
			r.Post("/move", h.apiMove)
			r.Get("/ws", h.stream)
		})
	})
	return r
}

func ping(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("pong"))
}
