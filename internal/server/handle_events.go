package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// syncEvent is the first event on every stream: the full map state plus
// the session snapshot, so a client can render without replaying history.
func syncEvent(s *LiveSession) []byte {
	data, _ := json.Marshal(Event{
		Type: EventSync,
		Data: s.State(),
	})
	return data
}

func handleEvents(sessions *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s := sessionFrom(r)

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming not supported")
			return
		}

		ch, err := sessions.Subscribe(s.ID())
		if err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		defer sessions.Unsubscribe(s.ID(), ch)

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")

		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", EventSync, syncEvent(s))
		flusher.Flush()

		ping := time.NewTicker(30 * time.Second)
		defer ping.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case data, ok := <-ch:
				if !ok {
					return
				}
				fmt.Fprintf(w, "event: message\ndata: %s\n\n", data)
				flusher.Flush()
			case <-ping.C:
				fmt.Fprintf(w, ": ping\n\n")
				flusher.Flush()
			}
		}
	}
}
