// Package game runs a round of map trivia: it sequences markers and
// questions, grades answers, keeps score and paces the round with a timer.
//
// A Session is the only mutable state. Every public method and every timer
// tick runs to completion under the session lock, so events are processed
// one at a time in arrival order. Methods called in a phase that does not
// accept them leave the session unchanged and report false.
package game

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/playperu/maptrivia/internal/trivia"
)

type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseTraveling Phase = "traveling"
	PhaseQuestion  Phase = "question"
	PhaseFeedback  Phase = "feedback"
	PhaseCompleted Phase = "completed"
)

const (
	DefaultRoundLength = 20
	DefaultTickPeriod  = time.Second
)

// Snapshot is a read-only copy of the session state.
type Snapshot struct {
	ID                string `json:"id"`
	Phase             Phase  `json:"phase"`
	Active            bool   `json:"active"`
	CurrentLocationID int    `json:"currentLocationId"`
	CurrentQuestionID int    `json:"currentQuestionId"`
	QuestionOpen      bool   `json:"questionOpen"`
	Visited           int    `json:"visited"`
	RoundLength       int    `json:"roundLength"`
	Score             int    `json:"score"`
	ElapsedSeconds    int    `json:"elapsedSeconds"`
	Elapsed           string `json:"elapsed"`
	Summary           string `json:"summary,omitempty"`
}

type Option func(*Session)

// WithRoundLength sets the number of stops per round. It is capped by the
// catalog size.
func WithRoundLength(n int) Option { return func(s *Session) { s.roundLength = n } }

func WithClock(c Clock) Option { return func(s *Session) { s.clock = c } }

func WithTickPeriod(d time.Duration) Option { return func(s *Session) { s.period = d } }

func WithRand(r *rand.Rand) Option { return func(s *Session) { s.rng = r } }

func WithDisplay(d Display) Option { return func(s *Session) { s.display = d } }

func WithLogger(l *slog.Logger) Option { return func(s *Session) { s.logger = l } }

func WithID(id string) Option { return func(s *Session) { s.id = id } }

type Session struct {
	mu sync.Mutex

	id          string
	catalog     *trivia.Catalog
	surface     MapSurface
	display     Display
	logger      *slog.Logger
	clock       Clock
	period      time.Duration
	rng         *rand.Rand
	roundLength int

	pool    *Pool
	score   Scoreboard
	markers *Markers
	timer   *Timer

	phase           Phase
	active          bool
	currentLocation int
	currentQuestion int
	lastLocation    int
	questionOpen    bool
	visited         int
	summary         string
}

// NewSession places one marker per catalog location on the surface and
// returns an idle session.
func NewSession(catalog *trivia.Catalog, surface MapSurface, opts ...Option) *Session {
	s := &Session{
		catalog:     catalog,
		surface:     surface,
		display:     nopDisplay{},
		logger:      slog.Default(),
		clock:       SystemClock{},
		period:      DefaultTickPeriod,
		roundLength: DefaultRoundLength,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	s.roundLength = min(max(s.roundLength, 1), catalog.NumLocations(), catalog.NumQuestions())
	s.logger = s.logger.With("session_id", s.id)

	s.pool = NewPool(s.rng)
	s.markers = PlaceMarkers(surface, catalog.Locations(), s.isActive)
	s.timer = NewTimer(s.clock, s.period, &s.mu, s.isActive, s.tick)
	s.resetState()
	return s
}

func (s *Session) ID() string { return s.id }

// StartGame begins a round from Idle.
func (s *Session) StartGame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		return false
	}

	s.surface.CloseOverlay()
	s.markers.HideAll()
	s.score.Reset(s.roundLength)
	s.display.ShowScore(s.score.ScoreText())
	s.display.ShowTime(s.score.TimeText())
	s.pool.Reset(s.catalog.NumLocations(), s.catalog.NumQuestions(), s.roundLength)

	s.active = true
	s.questionOpen = false
	s.visited = 0
	s.currentLocation = Exhausted
	s.summary = ""

	s.timer.Start()
	s.advance()
	s.logger.Info("session started", "round_length", s.roundLength)
	return true
}

// Advance moves to the next stop of the round, or completes the round when
// the location queue is exhausted.
func (s *Session) Advance() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}
	s.advance()
	return true
}

func (s *Session) advance() {
	s.questionOpen = false
	if s.currentLocation != Exhausted {
		s.markers.Hide(s.currentLocation)
		s.lastLocation = s.currentLocation
	}

	s.currentLocation = s.pool.NextLocation()
	if s.currentLocation == Exhausted {
		s.complete()
		return
	}

	s.visited++
	s.currentQuestion = s.pool.NextQuestion()
	s.phase = PhaseTraveling

	s.surface.CloseOverlay()
	s.markers.Show(s.currentLocation)
	if h, ok := s.markers.Handle(s.currentLocation); ok {
		s.surface.CenterOn(h)
	}
	s.logger.Debug("advanced", "location_id", s.currentLocation, "question_id", s.currentQuestion, "visited", s.visited)
}

// complete leaves the timer running: the clock keeps counting until EndGame.
func (s *Session) complete() {
	if s.phase != PhaseCompleted {
		s.logger.Info("round completed", "score", s.score.Score(), "elapsed", s.score.Elapsed())
	}
	s.phase = PhaseCompleted
	s.summary = s.score.Summary()

	h, _ := s.markers.Handle(s.lastLocation)
	s.surface.OpenOverlay(h, Overlay{
		Kind:    OverlaySummary,
		Title:   "Congratulations!",
		Score:   s.score.Score(),
		Message: s.summary,
	})
}

// ActivateMarker handles a click on a location's marker. While idle it
// shows the location's details; during a round it opens the question of
// the current stop.
func (s *Session) ActivateMarker(locationID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, err := s.catalog.Location(locationID)
	if err != nil {
		return false
	}
	h, _ := s.markers.Handle(locationID)

	if !s.active {
		s.surface.OpenOverlay(h, Overlay{
			Kind:  OverlayInfo,
			Title: loc.Name,
			Lat:   loc.Lat,
			Lng:   loc.Lng,
		})
		return true
	}

	if s.phase != PhaseTraveling || s.questionOpen || locationID != s.currentLocation {
		return false
	}
	return s.openQuestion(loc, h)
}

func (s *Session) openQuestion(loc trivia.Location, h MarkerHandle) bool {
	q, err := s.catalog.Question(s.currentQuestion)
	if err != nil {
		return false
	}

	choices := q.Answers
	Shuffle(s.rng, choices)

	s.questionOpen = true
	s.phase = PhaseQuestion
	s.surface.OpenOverlay(h, Overlay{
		Kind:  OverlayQuestion,
		Title: fmt.Sprintf("%s (%d/%d)", loc.Name, s.visited, s.roundLength),
		Question: &QuestionView{
			ID:      q.ID,
			Text:    q.Text,
			Choices: choices,
		},
	})
	return true
}

// SubmitAnswer grades an answer to the open question. correct is only
// meaningful when applied is true.
func (s *Session) SubmitAnswer(questionID int, answer string) (correct, applied bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || !s.questionOpen || answer == "" || questionID != s.currentQuestion {
		return false, false
	}
	q, err := s.catalog.Question(questionID)
	if err != nil {
		return false, false
	}

	correct = Grade(q, answer)
	if correct {
		s.score.Increment()
		s.display.ShowScore(s.score.ScoreText())
	}
	s.questionOpen = false
	s.phase = PhaseFeedback

	loc, _ := s.catalog.Location(s.currentLocation)
	h, _ := s.markers.Handle(s.currentLocation)
	msg := "That answer was incorrect."
	if correct {
		msg = "Correct!"
	}
	s.surface.OpenOverlay(h, Overlay{
		Kind:    OverlayFeedback,
		Title:   loc.Name,
		Correct: correct,
		Message: msg,
	})
	s.logger.Debug("answer graded", "question_id", questionID, "correct", correct)
	return correct, true
}

// EndGame stops the round and returns to browsing with every marker
// visible. It is a no-op when already idle.
func (s *Session) EndGame() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}
	s.timer.Cancel()
	s.surface.CloseOverlay()
	s.active = false
	s.markers.ShowAll()
	s.resetState()
	s.logger.Info("session ended")
	return true
}

// ShowAllMarkers is refused during a round.
func (s *Session) ShowAllMarkers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.ShowAll()
}

// HideAllMarkers is refused during a round.
func (s *Session) HideAllMarkers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.markers.HideAll()
}

// CenterOnCurrent recenters the map on the current stop.
func (s *Session) CenterOnCurrent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return false
	}
	h, ok := s.markers.Handle(s.currentLocation)
	if !ok {
		return false
	}
	s.surface.CenterOn(h)
	return true
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Observe calls fn with the current snapshot while holding the session
// lock, so fn sees the surface exactly as of that snapshot. fn must not
// call back into the session.
func (s *Session) Observe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.snapshot())
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:                s.id,
		Phase:             s.phase,
		Active:            s.active,
		CurrentLocationID: s.currentLocation,
		CurrentQuestionID: s.currentQuestion,
		QuestionOpen:      s.questionOpen,
		Visited:           s.visited,
		RoundLength:       s.roundLength,
		Score:             s.score.Score(),
		ElapsedSeconds:    s.score.Elapsed(),
		Elapsed:           FormatElapsed(s.score.Elapsed()),
		Summary:           s.summary,
	}
}

// Close stops the timer without touching the surface.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timer.Cancel()
}

func (s *Session) resetState() {
	s.phase = PhaseIdle
	s.currentLocation = Exhausted
	s.currentQuestion = Exhausted
	s.lastLocation = trivia.HomeLocationID
	s.questionOpen = false
	s.visited = 0
	s.summary = ""
	s.score.Reset(s.roundLength)
	s.pool = NewPool(s.rng)
}

// isActive and tick run with s.mu held.
func (s *Session) isActive() bool { return s.active }

func (s *Session) tick() {
	s.score.Tick()
	s.display.ShowTime(s.score.TimeText())
}
