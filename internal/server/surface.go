package server

import (
	"sync"

	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/trivia"
)

type MarkerPayload struct {
	Marker   game.MarkerHandle `json:"marker"`
	Location LocationResponse  `json:"location"`
	Visible  bool              `json:"visible"`
}

type VisiblePayload struct {
	Marker  game.MarkerHandle `json:"marker"`
	Visible bool              `json:"visible"`
}

type CenterPayload struct {
	Marker game.MarkerHandle `json:"marker"`
	Lat    float64           `json:"lat"`
	Lng    float64           `json:"lng"`
}

type OverlayPayload struct {
	Marker  game.MarkerHandle `json:"marker"`
	Overlay game.Overlay      `json:"overlay"`
}

type TextPayload struct {
	Text string `json:"text"`
}

// MapView is the full map state a client needs to render from scratch.
type MapView struct {
	Markers []MarkerPayload `json:"markers"`
	Center  *CenterPayload  `json:"center,omitempty"`
	Overlay *OverlayPayload `json:"overlay,omitempty"`
	Score   string          `json:"score"`
	Time    string          `json:"time"`
}

// remoteSurface implements game.MapSurface and game.Display by publishing
// every command to the broker. It also mirrors the resulting map state so
// clients that subscribe late can be brought up to date.
type remoteSurface struct {
	broker    *Broker
	sessionID string

	mu   sync.Mutex
	view MapView
}

var (
	_ game.MapSurface = (*remoteSurface)(nil)
	_ game.Display    = (*remoteSurface)(nil)
)

func newRemoteSurface(broker *Broker, sessionID string) *remoteSurface {
	return &remoteSurface{broker: broker, sessionID: sessionID}
}

func (s *remoteSurface) PlaceMarker(loc trivia.Location) game.MarkerHandle {
	s.mu.Lock()
	h := game.MarkerHandle(len(s.view.Markers))
	m := MarkerPayload{Marker: h, Location: toLocationResponse(loc), Visible: true}
	s.view.Markers = append(s.view.Markers, m)
	s.mu.Unlock()

	s.publish(EventMarkerPlace, m)
	return h
}

func (s *remoteSurface) SetVisible(h game.MarkerHandle, visible bool) {
	s.mu.Lock()
	if !s.valid(h) {
		s.mu.Unlock()
		return
	}
	s.view.Markers[h].Visible = visible
	s.mu.Unlock()

	s.publish(EventMarkerToggle, VisiblePayload{Marker: h, Visible: visible})
}

func (s *remoteSurface) CenterOn(h game.MarkerHandle) {
	s.mu.Lock()
	if !s.valid(h) {
		s.mu.Unlock()
		return
	}
	loc := s.view.Markers[h].Location
	c := CenterPayload{Marker: h, Lat: loc.Lat, Lng: loc.Lng}
	s.view.Center = &c
	s.mu.Unlock()

	s.publish(EventCenter, c)
}

func (s *remoteSurface) OpenOverlay(h game.MarkerHandle, content game.Overlay) {
	o := OverlayPayload{Marker: h, Overlay: content}
	s.mu.Lock()
	s.view.Overlay = &o
	s.mu.Unlock()

	s.publish(EventOverlayOpen, o)
}

func (s *remoteSurface) CloseOverlay() {
	s.mu.Lock()
	s.view.Overlay = nil
	s.mu.Unlock()

	s.publish(EventOverlayClose, nil)
}

func (s *remoteSurface) ShowScore(text string) {
	s.mu.Lock()
	s.view.Score = text
	s.mu.Unlock()

	s.publish(EventScore, TextPayload{Text: text})
}

func (s *remoteSurface) ShowTime(text string) {
	s.mu.Lock()
	s.view.Time = text
	s.mu.Unlock()

	s.publish(EventTime, TextPayload{Text: text})
}

// View returns a deep copy of the mirrored map state.
func (s *remoteSurface) View() MapView {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.view
	v.Markers = append([]MarkerPayload(nil), s.view.Markers...)
	if s.view.Center != nil {
		c := *s.view.Center
		v.Center = &c
	}
	if s.view.Overlay != nil {
		o := *s.view.Overlay
		v.Overlay = &o
	}
	return v
}

func (s *remoteSurface) valid(h game.MarkerHandle) bool {
	return h >= 0 && int(h) < len(s.view.Markers)
}

func (s *remoteSurface) publish(typ string, data any) {
	s.broker.Publish(s.sessionID, Event{Type: typ, Data: data})
}
