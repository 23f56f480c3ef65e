package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"nhooyr.io/websocket"
)

// PlayerEvent is a message sent by the client over the WebSocket.
type PlayerEvent struct {
	Type       string `json:"type" validate:"required,oneof=start next end activate answer show-all hide-all center"`
	LocationID int    `json:"locationId"`
	QuestionID int    `json:"questionId"`
	Answer     string `json:"answer"`
}

// resultEvent carries the outcome of a PlayerEvent back to its sender only.
type resultEvent struct {
	Type  string          `json:"type"`
	For   string          `json:"for,omitempty"`
	Data  *ActionResponse `json:"data,omitempty"`
	Error string          `json:"error,omitempty"`
}

func dispatch(s *LiveSession, ev PlayerEvent) ActionResponse {
	var applied bool
	switch ev.Type {
	case "start":
		applied = s.StartGame()
	case "next":
		applied = s.Advance()
	case "end":
		applied = s.EndGame()
	case "activate":
		applied = s.ActivateMarker(ev.LocationID)
	case "answer":
		return submitAnswer(s, ev.QuestionID, ev.Answer)
	case "show-all":
		applied = s.ShowAllMarkers()
	case "hide-all":
		applied = s.HideAllMarkers()
	case "center":
		applied = s.CenterOnCurrent()
	}
	return ActionResponse{Applied: applied, Session: s.Snapshot()}
}

func handleWS(sessions *Registry, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)

		ch, err := sessions.Subscribe(s.ID())
		if err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		defer sessions.Unsubscribe(s.ID(), ch)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Hour)
		defer cancel()

		replies := make(chan []byte, 8)
		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			defer close(replies)
			for {
				_, msg, err := conn.Read(gctx)
				if err != nil {
					return err
				}
				var reply resultEvent
				var ev PlayerEvent
				switch {
				case json.Unmarshal(msg, &ev) != nil:
					reply = resultEvent{Type: "error", Error: "invalid message"}
				case validate.Struct(ev) != nil:
					reply = resultEvent{Type: "error", For: ev.Type, Error: "unknown event type"}
				default:
					resp := dispatch(s, ev)
					reply = resultEvent{Type: "result", For: ev.Type, Data: &resp}
				}
				data, _ := json.Marshal(reply)
				select {
				case replies <- data:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
		})

		g.Go(func() error {
			if err := conn.Write(gctx, websocket.MessageText, syncEvent(s)); err != nil {
				return err
			}
			for {
				select {
				case <-gctx.Done():
					return gctx.Err()
				case data, ok := <-ch:
					if !ok {
						conn.Close(websocket.StatusNormalClosure, "session closed")
						return nil
					}
					if err := conn.Write(gctx, websocket.MessageText, data); err != nil {
						return err
					}
				case data, ok := <-replies:
					if !ok {
						return nil
					}
					if err := conn.Write(gctx, websocket.MessageText, data); err != nil {
						return err
					}
				}
			}
		})

		if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
			logger.Debug("websocket ended", "session_id", s.ID(), "error", err)
		}
	}
}
