package game

import "github.com/playperu/maptrivia/internal/trivia"

// Markers controls pin visibility. ShowAll and HideAll are refused while
// a round is active; Show and Hide always apply.
type Markers struct {
	surface MapSurface
	handles []MarkerHandle
	active  func() bool
}

// PlaceMarkers puts one marker per location on the surface, all visible.
func PlaceMarkers(surface MapSurface, locations []trivia.Location, active func() bool) *Markers {
	m := &Markers{
		surface: surface,
		handles: make([]MarkerHandle, len(locations)),
		active:  active,
	}
	for i, loc := range locations {
		m.handles[i] = surface.PlaceMarker(loc)
	}
	return m
}

// ShowAll reports whether it was applied.
func (m *Markers) ShowAll() bool { return m.setAll(true) }

// HideAll reports whether it was applied.
func (m *Markers) HideAll() bool { return m.setAll(false) }

func (m *Markers) Show(id int) { m.set(id, true) }
func (m *Markers) Hide(id int) { m.set(id, false) }

// Handle returns the marker handle of a location.
func (m *Markers) Handle(id int) (MarkerHandle, bool) {
	if id < 0 || id >= len(m.handles) {
		return 0, false
	}
	return m.handles[id], true
}

// Lookup maps a handle reported by the surface back to its location ID.
func (m *Markers) Lookup(h MarkerHandle) (int, bool) {
	for id, hh := range m.handles {
		if hh == h {
			return id, true
		}
	}
	return 0, false
}

func (m *Markers) setAll(visible bool) bool {
	if m.active() {
		return false
	}
	for _, h := range m.handles {
		m.surface.SetVisible(h, visible)
	}
	return true
}

func (m *Markers) set(id int, visible bool) {
	if h, ok := m.Handle(id); ok {
		m.surface.SetVisible(h, visible)
	}
}
