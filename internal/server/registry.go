package server

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/loader"
)

var ErrSessionNotFound = errors.New("session not found")

// LiveSession is a game session plus the surface mirroring its map.
type LiveSession struct {
	*game.Session
	surface *remoteSurface
}

// Registry owns the running game sessions. Each session gets its own
// remote surface publishing to the broker under the session ID.
type Registry struct {
	datasets *loader.Holder
	broker   *Broker
	logger   *slog.Logger
	opts     []game.Option

	mu       sync.RWMutex
	sessions map[string]*LiveSession
}

// State returns the session snapshot and the map view taken under the same
// session lock.
func (s *LiveSession) State() SessionResponse {
	var resp SessionResponse
	s.Observe(func(snap game.Snapshot) {
		resp = SessionResponse{Session: snap, Map: s.surface.View()}
	})
	return resp
}

func NewRegistry(datasets *loader.Holder, broker *Broker, logger *slog.Logger, opts ...game.Option) *Registry {
	return &Registry{
		datasets: datasets,
		broker:   broker,
		logger:   logger,
		opts:     opts,
		sessions: make(map[string]*LiveSession),
	}
}

// Create starts a new idle session. It fails with loader.ErrNotLoaded
// until the datasets are available.
func (r *Registry) Create() (*LiveSession, error) {
	catalog, err := r.datasets.Catalog()
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	surface := newRemoteSurface(r.broker, id)
	opts := append([]game.Option{
		game.WithID(id),
		game.WithDisplay(surface),
		game.WithLogger(r.logger),
	}, r.opts...)

	s := &LiveSession{Session: game.NewSession(catalog, surface, opts...), surface: surface}

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", id)
	return s, nil
}

func (r *Registry) Get(id string) (*LiveSession, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s, nil
}

// Remove ends the session's round, stops its timer and disconnects its
// subscribers.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}

	s.EndGame()
	s.Close()
	r.broker.Close(id)
	r.logger.Info("session removed", "session_id", id)
	return nil
}

// Subscribe returns the event channel of a live session. The registry is
// checked after subscribing: Remove deletes the session before closing its
// subscribers, so a stream either sees the session gone here or has its
// channel closed by Remove.
func (r *Registry) Subscribe(id string) (chan []byte, error) {
	ch := r.broker.Subscribe(id)
	if _, err := r.Get(id); err != nil {
		r.broker.Unsubscribe(id, ch)
		return nil, err
	}
	return ch, nil
}

func (r *Registry) Unsubscribe(id string, ch chan []byte) {
	r.broker.Unsubscribe(id, ch)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close stops every session.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, s := range r.sessions {
		s.Close()
		r.broker.Close(id)
		delete(r.sessions, id)
	}
	return nil
}
