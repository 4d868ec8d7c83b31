package api

import (
	"net/http"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
)

const (
	defaultScheduleDays = 7
	maxScheduleDays     = 90
	maxWordsPerPage     = 200
)

type wordsResponse struct {
	Words  []models.Word `json:"words"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Vocabulary.Summary(r.Context()))
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		handleError(w, r, err)
		return
	}
	n := defaultScheduleDays
	if days != nil {
		if *days < 1 || *days > maxScheduleDays {
			handleError(w, r, errors.NewValidationError("days", "must be between 1 and 90"))
			return
		}
		n = *days
	}
	writeJSON(w, r, http.StatusOK, s.Vocabulary.Schedule(r.Context(), n))
}

func (s *Server) handleEfficiency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, s.Vocabulary.Efficiency(r.Context()))
}

func (s *Server) handleWords(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	q := r.URL.Query()

	filter := models.WordFilter{
		Category:     q.Get("category"),
		ReviewedOnly: q.Get("reviewed") == "true",
		OrderBy:      q.Get("order_by"),
		OrderDir:     q.Get("order_dir"),
		Limit:        50,
	}
	for name, dst := range map[string]**int{
		"min_proficiency": &filter.MinProficiency,
		"max_proficiency": &filter.MaxProficiency,
	} {
		v, err := queryInt(r, name)
		if err != nil {
			handleError(w, r, err)
			return
		}
		*dst = v
	}
	for name, dst := range map[string]*int{"limit": &filter.Limit, "offset": &filter.Offset} {
		v, err := queryInt(r, name)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if v != nil {
			*dst = *v
		}
	}
	if filter.Limit > maxWordsPerPage {
		filter.Limit = maxWordsPerPage
	}

	log.WithFields(logger.Fields{"category": filter.Category, "limit": filter.Limit, "offset": filter.Offset}).
		Debug("listing words")
	words, total, err := s.Vocabulary.Words(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, wordsResponse{
		Words:  words,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}
