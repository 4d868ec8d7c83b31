package api

import (
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/vytor/vocabflash/internal/transfer"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// handleExport downloads all learner data. With format=xlsx a spreadsheet
// report is returned instead of the JSON backup document.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	format := r.URL.Query().Get("format")
	if format != "" && format != "json" && format != "xlsx" {
		handleError(w, r, errors.NewValidationError("format", "must be json or xlsx"))
		return
	}

	doc, err := s.Vocabulary.Export(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	stamp := doc.ExportDate.Format("2006-01-02")

	if format == "xlsx" {
		words, _, err := s.Vocabulary.Words(r.Context(), models.WordFilter{})
		if err != nil {
			handleError(w, r, err)
			return
		}
		ptrs := make([]*models.Word, len(words))
		for i := range words {
			ptrs[i] = &words[i]
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vocabflash-progress-%s.xlsx"`, stamp))
		if err := transfer.WriteProgressWorkbook(w, ptrs, doc.SessionStats, doc.ExportDate); err != nil {
			log.Error("failed to write workbook: %v", err)
		}
		return
	}

	body, err := transfer.Encode(doc)
	if err != nil {
		handleError(w, r, errors.NewInternalError(err))
		return
	}
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="vocabflash-backup-%s.json"`, stamp))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Warn("failed to write export: %v", err)
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxImportBytes()))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			handleError(w, r, errors.NewBadRequestError(fmt.Sprintf("import document exceeds %d bytes", tooLarge.Limit)))
			return
		}
		handleError(w, r, errors.NewBadRequestError("failed to read request body"))
		return
	}

	report, err := s.Vocabulary.Import(r.Context(), raw)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, report)
}

func (s *Server) handleRestoreBackup(w http.ResponseWriter, r *http.Request) {
	if err := s.Vocabulary.RestoreBackup(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
