// Package loader delivers the location and question datasets to the game
// and records whether they arrived.
package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/playperu/maptrivia/internal/trivia"
)

var ErrNotLoaded = errors.New("datasets not loaded")

// Source provides the raw datasets.
type Source interface {
	Places(ctx context.Context) (trivia.PlacesDoc, error)
	Questions(ctx context.Context) (trivia.QuestionsDoc, error)
}

// Load fetches locations, then questions, and builds the catalog.
func Load(ctx context.Context, src Source) (*trivia.Catalog, error) {
	places, err := src.Places(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading locations: %w", err)
	}
	questions, err := src.Questions(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading questions: %w", err)
	}
	return trivia.NewCatalog(places, questions)
}

// FileSource reads places.json and questions.json style documents from a
// file system.
type FileSource struct {
	FS            fs.FS
	PlacesPath    string
	QuestionsPath string
}

func (s FileSource) Places(_ context.Context) (trivia.PlacesDoc, error) {
	var doc trivia.PlacesDoc
	err := s.read(s.PlacesPath, &doc)
	return doc, err
}

func (s FileSource) Questions(_ context.Context) (trivia.QuestionsDoc, error) {
	var doc trivia.QuestionsDoc
	err := s.read(s.QuestionsPath, &doc)
	return doc, err
}

func (s FileSource) read(path string, v any) error {
	data, err := fs.ReadFile(s.FS, path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// HTTPSource fetches the documents from URLs.
type HTTPSource struct {
	Client       *http.Client
	PlacesURL    string
	QuestionsURL string
}

func (s HTTPSource) Places(ctx context.Context) (trivia.PlacesDoc, error) {
	var doc trivia.PlacesDoc
	err := s.get(ctx, s.PlacesURL, &doc)
	return doc, err
}

func (s HTTPSource) Questions(ctx context.Context) (trivia.QuestionsDoc, error) {
	var doc trivia.QuestionsDoc
	err := s.get(ctx, s.QuestionsURL, &doc)
	return doc, err
}

func (s HTTPSource) get(ctx context.Context, url string, v any) error {
	client := s.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("fetching %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}

type State string

const (
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateFailed  State = "failed"
)

// Status is the player-facing load status.
type Status struct {
	State     State  `json:"state"`
	Message   string `json:"message"`
	Locations int    `json:"locations"`
	Questions int    `json:"questions"`
}

// Holder keeps the loaded catalog and the status message shown while
// loading or after a failure. Games can only start once it is loaded.
type Holder struct {
	mu      sync.RWMutex
	status  Status
	catalog *trivia.Catalog
}

func NewHolder() *Holder {
	return &Holder{status: Status{State: StateLoading, Message: "Loading locations... please wait."}}
}

// Catalog returns the loaded catalog, or ErrNotLoaded carrying the status
// message.
func (h *Holder) Catalog() (*trivia.Catalog, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.catalog == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotLoaded, h.status.Message)
	}
	return h.catalog, nil
}

func (h *Holder) Status() Status {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status
}

func (h *Holder) set(c *trivia.Catalog) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.catalog = c
	h.status = Status{
		State:     StateLoaded,
		Message:   "Ready.",
		Locations: c.NumLocations(),
		Questions: c.NumQuestions(),
	}
}

func (h *Holder) fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.status = Status{
		State:   StateFailed,
		Message: "An error has occurred while loading game data: " + err.Error(),
	}
}

// Fill loads from src into h. Failures are recorded in the status, not
// just returned, so a server can keep running and show the message.
func (h *Holder) Fill(ctx context.Context, src Source, logger *slog.Logger) error {
	c, err := Load(ctx, src)
	if err != nil {
		logger.Error("loading datasets failed", "error", err)
		h.fail(err)
		return err
	}
	h.set(c)
	logger.Info("datasets loaded", "locations", c.NumLocations(), "questions", c.NumQuestions())
	return nil
}
