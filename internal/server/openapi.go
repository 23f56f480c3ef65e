package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/playperu/maptrivia/internal/handler/health"
	"github.com/playperu/maptrivia/internal/loader"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type sessionPath struct {
	ID string `path:"id" format:"uuid"`
}

type activatePath struct {
	ID         string `path:"id" format:"uuid"`
	LocationID int    `path:"locationID"`
}

type answerInput struct {
	ID string `path:"id" format:"uuid"`
	AnswerRequest
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Map Trivia API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Drives map trivia sessions for a browser map client.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies and datasets.")
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(map[string]health.Result{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /api/status
	getStatus, _ := r.NewOperationContext(http.MethodGet, "/api/status")
	getStatus.SetSummary("Dataset status")
	getStatus.SetDescription("Reports whether locations and questions are loaded. On failure the message is meant to be shown to players.")
	getStatus.AddRespStructure(loader.Status{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getStatus)

	// GET /api/locations
	getLocations, _ := r.NewOperationContext(http.MethodGet, "/api/locations")
	getLocations.SetSummary("List locations")
	getLocations.SetDescription("Returns every catalog location in catalog order. Location 0 is home.")
	getLocations.AddRespStructure([]LocationResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getLocations.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getLocations)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Creates an idle session with one marker per location, all visible.")
	createSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(createSession)

	// GET /api/sessions/{id}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns the session snapshot and the current map view.")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{id}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{id}")
	deleteSession.SetSummary("Delete session")
	deleteSession.SetDescription("Ends the round, stops the timer and closes all event streams.")
	deleteSession.AddReqStructure(sessionPath{})
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	actions := []struct{ path, summary, description string }{
		{"/api/sessions/{id}/start", "Start game", "Starts a round from idle: hides all markers, resets score and timer, travels to home."},
		{"/api/sessions/{id}/next", "Next location", "Travels to the next location, or finishes the round when none remain."},
		{"/api/sessions/{id}/end", "End game", "Stops the round, shows all markers and returns to idle."},
		{"/api/sessions/{id}/show-all", "Show all markers", "Shows every marker. Not applied during a round."},
		{"/api/sessions/{id}/hide-all", "Hide all markers", "Hides every marker. Not applied during a round."},
		{"/api/sessions/{id}/center", "Center on current", "Recenters the map on the current location."},
	}
	for _, a := range actions {
		op, _ := r.NewOperationContext(http.MethodPost, a.path)
		op.SetSummary(a.summary)
		op.SetDescription(a.description + " Invalid transitions answer 200 with applied=false.")
		op.AddReqStructure(sessionPath{})
		op.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
		_ = r.AddOperation(op)
	}

	// POST /api/sessions/{id}/markers/{locationID}/activate
	activate, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/markers/{locationID}/activate")
	activate.SetSummary("Activate marker")
	activate.SetDescription("Player clicked a marker. Opens the question at the current location, or an info overlay when no round is running.")
	activate.AddReqStructure(activatePath{})
	activate.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	activate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	activate.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(activate)

	// POST /api/sessions/{id}/answer
	answer, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{id}/answer")
	answer.SetSummary("Submit answer")
	answer.SetDescription("Grades the chosen answer to the open question. correct is present only when applied.")
	answer.AddReqStructure(answerInput{})
	answer.AddRespStructure(ActionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	answer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	answer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(answer)

	// GET /api/sessions/{id}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events: a sync event with the full view, then map commands and HUD updates.")
	getEvents.AddReqStructure(sessionPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/sessions/{id}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{id}/ws")
	getWS.SetSummary("WebSocket stream")
	getWS.SetDescription("Same stream as /events; the client sends player events (start, next, end, activate, answer, show-all, hide-all, center) and gets a result message for each.")
	getWS.AddReqStructure(sessionPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
