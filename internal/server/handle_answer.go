package server

import (
	"net/http"
)

// AnswerRequest submits an answer to the open question. An empty Answer is
// accepted here and ignored by the session.
type AnswerRequest struct {
	QuestionID *int   `json:"questionId" validate:"required,min=0"`
	Answer     string `json:"answer"`
}

func handleAnswer() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AnswerRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		s := sessionFrom(r)
		resp := submitAnswer(s, *req.QuestionID, req.Answer)
		writeJSON(w, http.StatusOK, resp)
	}
}

func submitAnswer(s *LiveSession, questionID int, answer string) ActionResponse {
	correct, applied := s.SubmitAnswer(questionID, answer)
	resp := ActionResponse{Applied: applied, Session: s.Snapshot()}
	if applied {
		resp.Correct = &correct
	}
	return resp
}
