package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/loader"
)

func addRoutes(r chi.Router, logger *slog.Logger, sessions *Registry, datasets *loader.Holder, spaDir string) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Map Trivia API", "/openapi.json", "/docs"))

	r.Get("/api/status", handleStatus(datasets))
	r.Get("/api/locations", handleLocations(datasets))

	r.Post("/api/sessions", handleCreateSession(sessions, datasets))
	r.Route("/api/sessions/{id}", func(r chi.Router) {
		r.Use(sessionMiddleware(sessions))
		r.Get("/", handleGetSession())
		r.Delete("/", handleDeleteSession(sessions))

		r.Post("/start", handleAction(logger, "start", (*game.Session).StartGame))
		r.Post("/next", handleAction(logger, "next", (*game.Session).Advance))
		r.Post("/end", handleAction(logger, "end", (*game.Session).EndGame))
		r.Post("/show-all", handleAction(logger, "show-all", (*game.Session).ShowAllMarkers))
		r.Post("/hide-all", handleAction(logger, "hide-all", (*game.Session).HideAllMarkers))
		r.Post("/center", handleAction(logger, "center", (*game.Session).CenterOnCurrent))
		r.Post("/markers/{locationID}/activate", handleActivate())
		r.Post("/answer", handleAnswer())

		r.Get("/events", handleEvents(sessions))
		r.Get("/ws", handleWS(sessions, logger))
	})

	if spaDir != "" {
		if info, err := os.Stat(spaDir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", spaDir)
			r.NotFound(handleSPA(spaDir))
		}
	}
}
