package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/playperu/maptrivia/internal/game"
	"github.com/playperu/maptrivia/internal/loader"
	"github.com/playperu/maptrivia/internal/trivia"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

// testSource serves nLocations places and nQuestions questions; question i
// has "right i" as its correct answer.
func testSource(nLocations, nQuestions int) loader.Source {
	var p trivia.PlacesDoc
	for i := range nLocations {
		p.Places = append(p.Places, trivia.Place{Name: fmt.Sprintf("Place %d", i), GeoLat: 33.81 + float64(i)/100, GeoLong: -117.91})
	}
	var q trivia.QuestionsDoc
	for i := range nQuestions {
		q.Questions = append(q.Questions, trivia.QuestionEntry{
			Question: fmt.Sprintf("Question %d?", i),
			Answers:  []string{fmt.Sprintf("right %d", i), "wrong a", "wrong b"},
		})
	}
	pd, _ := json.Marshal(p)
	qd, _ := json.Marshal(q)
	return loader.FileSource{
		FS:            fstest.MapFS{"places.json": {Data: pd}, "questions.json": {Data: qd}},
		PlacesPath:    "places.json",
		QuestionsPath: "questions.json",
	}
}

type testAPI struct {
	router   chi.Router
	sessions *Registry
	broker   *Broker
	datasets *loader.Holder
}

func newTestAPI(t *testing.T, loaded bool) *testAPI {
	t.Helper()
	logger := discardLogger()
	datasets := loader.NewHolder()
	if loaded {
		if err := datasets.Fill(context.Background(), testSource(3, 2), logger); err != nil {
			t.Fatalf("filling datasets: %v", err)
		}
	}
	broker := NewBroker()
	sessions := NewRegistry(datasets, broker, logger, game.WithTickPeriod(time.Hour))
	t.Cleanup(func() { sessions.Close() })

	return &testAPI{
		router:   NewRouter(logger, Deps{Sessions: sessions, Datasets: datasets}, nil),
		sessions: sessions,
		broker:   broker,
		datasets: datasets,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createSession(t *testing.T) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/sessions", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create session: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp SessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp.Session.ID
}

func (a *testAPI) action(t *testing.T, path string, body any) ActionResponse {
	t.Helper()
	rec := a.do(t, http.MethodPost, path, body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST %s: status = %d, body = %s", path, rec.Code, rec.Body.String())
	}
	var resp ActionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	return resp
}
