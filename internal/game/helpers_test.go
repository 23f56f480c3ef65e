package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/playperu/maptrivia/internal/trivia"
)

func seeded(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func testCatalog(t *testing.T, nLocations, nQuestions int) *trivia.Catalog {
	t.Helper()
	var p trivia.PlacesDoc
	for i := range nLocations {
		p.Places = append(p.Places, trivia.Place{
			Name:    fmt.Sprintf("Place %d", i),
			GeoLat:  33.81 + float64(i)/1000,
			GeoLong: -117.91 - float64(i)/1000,
		})
	}
	var q trivia.QuestionsDoc
	for i := range nQuestions {
		q.Questions = append(q.Questions, trivia.QuestionEntry{
			Question: fmt.Sprintf("Question %d?", i),
			Answers:  []string{fmt.Sprintf("right %d", i), "wrong a", "wrong b", "wrong c"},
		})
	}
	c, err := trivia.NewCatalog(p, q)
	if err != nil {
		t.Fatalf("building catalog: %v", err)
	}
	return c
}

type surfaceCall struct {
	Op      string
	Handle  MarkerHandle
	Visible bool
	Overlay Overlay
}

// recordingSurface implements MapSurface and Display.
type recordingSurface struct {
	mu      sync.Mutex
	next    MarkerHandle
	visible map[MarkerHandle]bool
	calls   []surfaceCall
	score   string
	time    string
}

func newRecordingSurface() *recordingSurface {
	return &recordingSurface{next: 100, visible: make(map[MarkerHandle]bool)}
}

func (r *recordingSurface) PlaceMarker(trivia.Location) MarkerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	h := r.next
	r.next++
	r.visible[h] = true
	r.calls = append(r.calls, surfaceCall{Op: "place", Handle: h})
	return h
}

func (r *recordingSurface) SetVisible(h MarkerHandle, visible bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.visible[h] = visible
	r.calls = append(r.calls, surfaceCall{Op: "visible", Handle: h, Visible: visible})
}

func (r *recordingSurface) CenterOn(h MarkerHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, surfaceCall{Op: "center", Handle: h})
}

func (r *recordingSurface) OpenOverlay(h MarkerHandle, content Overlay) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, surfaceCall{Op: "overlay", Handle: h, Overlay: content})
}

func (r *recordingSurface) CloseOverlay() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, surfaceCall{Op: "close"})
}

func (r *recordingSurface) ShowScore(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.score = text
}

func (r *recordingSurface) ShowTime(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.time = text
}

func (r *recordingSurface) visibleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, v := range r.visible {
		if v {
			n++
		}
	}
	return n
}

func (r *recordingSurface) lastOverlay() (Overlay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Op == "overlay" {
			return r.calls[i].Overlay, true
		}
	}
	return Overlay{}, false
}

func (r *recordingSurface) lastCenter() (MarkerHandle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.calls) - 1; i >= 0; i-- {
		if r.calls[i].Op == "center" {
			return r.calls[i].Handle, true
		}
	}
	return 0, false
}

// manualClock fires scheduled callbacks only when the test asks it to.
type manualClock struct {
	mu      sync.Mutex
	pending []*manualTimer
}

type manualTimer struct {
	f       func()
	stopped bool
}

func (m *manualTimer) Stop() bool {
	was := !m.stopped
	m.stopped = true
	return was
}

func (c *manualClock) AfterFunc(_ time.Duration, f func()) Stopper {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &manualTimer{f: f}
	c.pending = append(c.pending, t)
	return t
}

// fireAll runs every callback scheduled before the call, optionally
// including stopped ones to replay a tick that was already in flight.
func (c *manualClock) fireAll(includeStopped bool) int {
	c.mu.Lock()
	due := c.pending
	c.pending = nil
	c.mu.Unlock()

	n := 0
	for _, t := range due {
		if t.stopped && !includeStopped {
			continue
		}
		t.f()
		n++
	}
	return n
}

func (c *manualClock) Tick() int { return c.fireAll(false) }

func (c *manualClock) scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}
