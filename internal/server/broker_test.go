package server

import (
	"encoding/json"
	"testing"

	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/trivia"
)

func TestBrokerPublishAndClose(t *testing.T) {
	b := NewBroker()
	a := b.Subscribe("s1")
	other := b.Subscribe("s2")

	b.Publish("s1", Event{Type: EventScore, Data: TextPayload{Text: "Score: 1/3 points"}})

	var ev struct {
		Type string      `json:"type"`
		Data TextPayload `json:"data"`
	}
	if err := json.Unmarshal(<-a, &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Type != EventScore || ev.Data.Text != "Score: 1/3 points" {
		t.Errorf("event = %+v", ev)
	}
	select {
	case data := <-other:
		t.Errorf("other session received %s", data)
	default:
	}

	b.Close("s1")
	if data := <-a; !json.Valid(data) {
		t.Errorf("closing event = %s", data)
	}
	if _, ok := <-a; ok {
		t.Error("channel still open after Close")
	}
	b.Unsubscribe("s1", a)
	if n := b.Subscribers("s1"); n != 0 {
		t.Errorf("subscribers = %d after Close", n)
	}
	if n := b.Subscribers("s2"); n != 1 {
		t.Errorf("s2 subscribers = %d, want 1", n)
	}
}

func TestRemoteSurfaceMirrorsView(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe("s")
	s := newRemoteSurface(b, "s")

	h0 := s.PlaceMarker(trivia.Location{ID: 0, Name: "Home", Lat: 1, Lng: 2})
	h1 := s.PlaceMarker(trivia.Location{ID: 1, Name: "Ride", Lat: 3, Lng: 4})
	s.SetVisible(h0, false)
	s.CenterOn(h1)
	s.OpenOverlay(h1, game.Overlay{Kind: game.OverlayInfo, Title: "Ride"})
	s.ShowScore("Score: 0/2 points")
	s.ShowTime("Time: 0:07")
	s.SetVisible(game.MarkerHandle(42), true)

	v := s.View()
	if len(v.Markers) != 2 || v.Markers[0].Visible || !v.Markers[1].Visible {
		t.Errorf("markers = %+v", v.Markers)
	}
	if v.Center == nil || v.Center.Lat != 3 || v.Center.Lng != 4 {
		t.Errorf("center = %+v", v.Center)
	}
	if v.Overlay == nil || v.Overlay.Marker != h1 || v.Overlay.Overlay.Title != "Ride" {
		t.Errorf("overlay = %+v", v.Overlay)
	}
	if v.Score != "Score: 0/2 points" || v.Time != "Time: 0:07" {
		t.Errorf("hud = %q / %q", v.Score, v.Time)
	}

	s.CloseOverlay()
	if s.View().Overlay != nil {
		t.Error("overlay still set after CloseOverlay")
	}

	// Mutating a returned view does not leak back.
	v.Markers[1].Visible = false
	if !s.View().Markers[1].Visible {
		t.Error("View shares marker state")
	}

	// place, place, visible, center, open, score, time, close; the unknown
	// handle published nothing.
	if got := len(ch); got != 8 {
		t.Errorf("published %d events, want 8", got)
	}
}
