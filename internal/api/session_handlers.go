package api

import (
	"net/http"

	"github.com/vytor/vocabflash/internal/drill"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

type wordResponse struct {
	Word *models.Word `json:"word"`
}

type advanceResponse struct {
	Word     *models.Word `json:"word"`
	Complete bool         `json:"complete"`
}

type answerRequest struct {
	Answer string        `json:"answer"`
	Phase  *models.Phase `json:"phase"`
}

type answerResponse struct {
	drill.Result
	Stats models.StatsView `json:"stats"`
}

type optionsResponse struct {
	Options []string `json:"options"`
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	word := s.Vocabulary.StartSession(r.Context())
	if word == nil {
		logger.FromContext(r.Context()).Debug("no words available for a new group")
	}
	writeJSON(w, r, http.StatusOK, wordResponse{Word: word})
}

func (s *Server) handleStartReviewSession(w http.ResponseWriter, r *http.Request) {
	word := s.Vocabulary.StartReviewSession(r.Context())
	if word == nil {
		logger.FromContext(r.Context()).Debug("no words due for review")
	}
	writeJSON(w, r, http.StatusOK, wordResponse{Word: word})
}

func (s *Server) handlePauseSession(w http.ResponseWriter, r *http.Request) {
	if !s.Vocabulary.Pause(r.Context()) {
		handleError(w, r, errors.NewConflictError("no active session to pause"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleResumeSession(w http.ResponseWriter, r *http.Request) {
	word := s.Vocabulary.Resume(r.Context())
	if word == nil {
		handleError(w, r, errors.NewNotFoundError("paused session", "current"))
		return
	}
	writeJSON(w, r, http.StatusOK, wordResponse{Word: word})
}

func (s *Server) handleExitSession(w http.ResponseWriter, r *http.Request) {
	s.Vocabulary.Exit(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCurrentProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Vocabulary.CurrentProgress(r.Context()))
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	options := s.Vocabulary.MultipleChoiceOptions(r.Context())
	if options == nil {
		handleError(w, r, errors.NewConflictError("no word on screen"))
		return
	}
	writeJSON(w, r, http.StatusOK, optionsResponse{Options: options})
}

// handleSubmitAnswer grades an answer. Without an explicit phase the answer
// is graded in the phase the current word is prompted in.
func (s *Server) handleSubmitAnswer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	var phase models.Phase
	if req.Phase != nil {
		phase = *req.Phase
	} else {
		phase = s.Vocabulary.CurrentProgress(r.Context()).PromptPhase
	}
	if !phase.Answerable() {
		handleError(w, r, errors.NewConflictError("no word to answer"))
		return
	}

	res, ok := s.Vocabulary.SubmitAnswer(r.Context(), req.Answer, phase)
	if !ok {
		handleError(w, r, errors.NewConflictError("no word to answer"))
		return
	}
	log.WithFields(logger.Fields{"word_id": res.WordID, "correct": res.Correct}).Debug("answer submitted")
	writeJSON(w, r, http.StatusOK, answerResponse{
		Result: res,
		Stats:  s.Vocabulary.SessionStats(r.Context()),
	})
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	next := s.Vocabulary.Advance(r.Context())
	writeJSON(w, r, http.StatusOK, advanceResponse{Word: next, Complete: next == nil})
}

func (s *Server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Vocabulary.SessionStats(r.Context()))
}

type directionRequest struct {
	Direction models.Direction `json:"direction"`
}

func (s *Server) handleSetDirection(w http.ResponseWriter, r *http.Request) {
	var req directionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Vocabulary.SetDirection(r.Context(), req.Direction); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, req)
}
