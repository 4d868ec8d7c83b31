package api

import (
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/vytor/vocabflash/internal/catalog"
	"github.com/vytor/vocabflash/internal/errors"
	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/worker"
)

type catalogImportRequest struct {
	Path       string `json:"path"`
	Sheet      string `json:"sheet"`
	SkipHeader bool   `json:"skipHeader"`
}

type queuedResponse struct {
	Status string `json:"status"`
	Path   string `json:"path"`
}

// handleCatalogImport queues a catalog file for import. The file is read on
// the server; the import runs in the background and reloads the catalog.
func (s *Server) handleCatalogImport(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req catalogImportRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	req.Path = strings.TrimSpace(req.Path)
	if req.Path == "" {
		handleError(w, r, errors.NewValidationError("path", "cannot be empty"))
		return
	}

	err := s.Jobs.EnqueueCatalogImport(catalog.ImportConfig{
		FilePath:   req.Path,
		SheetName:  req.Sheet,
		SkipHeader: req.SkipHeader,
	})
	switch {
	case stderrors.Is(err, worker.ErrQueueFull), stderrors.Is(err, worker.ErrPoolStopped):
		handleError(w, r, errors.NewUnavailableError("catalog import cannot be queued right now", err))
		return
	case err != nil:
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	log.WithField("path", req.Path).Info("catalog import queued")
	writeJSON(w, r, http.StatusAccepted, queuedResponse{Status: "queued", Path: req.Path})
}
