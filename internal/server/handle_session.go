package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/loader"
)

// SessionResponse is returned by session reads and creation.
type SessionResponse struct {
	Session game.Snapshot `json:"session"`
	Map     MapView       `json:"map"`
}

// ActionResponse is returned by every player action. Applied is false when
// the action was not valid in the current phase; the session is unchanged.
type ActionResponse struct {
	Applied bool          `json:"applied"`
	Correct *bool         `json:"correct,omitempty"`
	Session game.Snapshot `json:"session"`
}

func handleCreateSession(sessions *Registry, datasets *loader.Holder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := sessions.Create()
		if errors.Is(err, loader.ErrNotLoaded) {
			writeError(w, http.StatusServiceUnavailable, datasets.Status().Message)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusCreated, s.State())
	}
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, sessionFrom(r).State())
	}
}

func handleDeleteSession(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := sessions.Remove(sessionFrom(r).ID()); err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleAction wraps a parameterless session operation.
func handleAction(logger *slog.Logger, name string, op func(*game.Session) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)
		applied := op(s.Session)
		if !applied {
			logger.Debug("action not applied", "session_id", s.ID(), "action", name)
		}
		writeJSON(w, http.StatusOK, ActionResponse{Applied: applied, Session: s.Snapshot()})
	}
}

func handleActivate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "locationID"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "location id must be an integer")
			return
		}
		s := sessionFrom(r)
		applied := s.ActivateMarker(id)
		writeJSON(w, http.StatusOK, ActionResponse{Applied: applied, Session: s.Snapshot()})
	}
}
