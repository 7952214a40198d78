package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v3"
	"github.com/rs/zerolog/log"

	"zk-detective-server/internal/config"
	"zk-detective-server/internal/game"
	"zk-detective-server/internal/logging"
	"zk-detective-server/internal/session"
	"zk-detective-server/internal/ws"
)

func main() {
	cfg, err := config.LoadApp()
	if err != nil {
		panic(err)
	}
	logging.Init(cfg.Log)

	store := session.NewStore(session.Config{
		TimeLimit:    time.Duration(cfg.Server.TimeLimitSecs) * time.Second,
		GracePeriod:  time.Duration(cfg.Server.GracePeriodSecs) * time.Second,
		CleanupDelay: time.Duration(cfg.Server.CleanupDelaySecs) * time.Second,
		StartingRoom: cfg.Case.StartingRoom,
		Solution: game.Solution{
			Suspect: cfg.Case.Suspect,
			Weapon:  cfg.Case.Weapon,
			Room:    cfg.Case.Room,
		},
	})
	store.StartScheduler(context.Background(), time.Duration(cfg.Server.SyncIntervalSecs)*time.Second)
	gateway := ws.NewGateway(store)

	server := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           newRouter(store, gateway),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Info().Str("addr", cfg.Server.HTTPAddr).Msg("http listening")
	log.Fatal().Err(server.ListenAndServe()).Msg("server stopped")
}

func newRouter(store *session.Store, gateway *ws.Gateway) *chi.Mux {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)

	r.With(apiLogMiddleware()).Get("/health", healthHandler(store, gateway))
	r.With(apiLogMiddleware()).Get("/", bannerHandler)

	// The websocket endpoint skips the request logger: an upgraded
	// connection lives for the whole match and would log as one
	// never-ending request.
	r.Get("/ws", gateway.HandleWS)
	return r
}

func apiLogMiddleware() func(http.Handler) http.Handler {
	return httplog.RequestLogger(
		slog.New(slog.NewJSONHandler(logging.Writer(), &slog.HandlerOptions{})),
		&httplog.Options{
			Level:  slog.LevelInfo,
			Schema: httplog.Schema{ResponseStatus: "status", ResponseDuration: "duration_ms"},
			LogExtraAttrs: func(req *http.Request, _ string, _ int) []slog.Attr {
				return []slog.Attr{
					slog.String("request_id", chimw.GetReqID(req.Context())),
					slog.String("method", req.Method),
					slog.String("path", req.URL.Path),
				}
			},
		},
	)
}

func healthHandler(store *session.Store, gateway *ws.Gateway) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":   "ok",
			"sessions": store.Count(),
			"queue":    gateway.QueueLen(),
		})
	}
}

func bannerHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ZK Detective PvP Server\n"))
}
