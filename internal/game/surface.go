package game

import "github.com/playperu/maptrivia/internal/trivia"

// MarkerHandle identifies a marker placed on a MapSurface.
type MarkerHandle int

// MapSurface is the map the session drives. It is write-only from the
// session's point of view; marker clicks come back through
// Session.ActivateMarker.
type MapSurface interface {
	PlaceMarker(loc trivia.Location) MarkerHandle
	SetVisible(h MarkerHandle, visible bool)
	CenterOn(h MarkerHandle)
	OpenOverlay(h MarkerHandle, content Overlay)
	CloseOverlay()
}

// Display receives HUD text updates.
type Display interface {
	ShowScore(text string)
	ShowTime(text string)
}

type OverlayKind string

const (
	OverlayInfo     OverlayKind = "info"
	OverlayQuestion OverlayKind = "question"
	OverlayFeedback OverlayKind = "feedback"
	OverlaySummary  OverlayKind = "summary"
)

// Overlay is the content of the info overlay. Only the fields relevant to
// Kind are set; rendering is up to the surface.
type Overlay struct {
	Kind     OverlayKind   `json:"kind"`
	Title    string        `json:"title"`
	Lat      float64       `json:"lat,omitempty"`
	Lng      float64       `json:"lng,omitempty"`
	Question *QuestionView `json:"question,omitempty"`
	Correct  bool          `json:"correct,omitempty"`
	Score    int           `json:"score,omitempty"`
	Message  string        `json:"message,omitempty"`
}

// QuestionView is the presentation payload of an open question. Choices
// are reshuffled on every open.
type QuestionView struct {
	ID      int      `json:"id"`
	Text    string   `json:"text"`
	Choices []string `json:"choices"`
}

type nopDisplay struct{}

func (nopDisplay) ShowScore(string) {}
func (nopDisplay) ShowTime(string)  {}
