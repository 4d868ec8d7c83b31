package api

import (
	"database/sql"
	"time"

	"github.com/vytor/vocabflash/internal/jobs"
	"github.com/vytor/vocabflash/internal/services"
)

// DefaultMaxImportBytes caps the size of an uploaded export document.
const DefaultMaxImportBytes = 10 << 20

// Server exposes the vocabulary service over HTTP.
type Server struct {
	Vocabulary     services.VocabularyService
	Jobs           jobs.JobQueue
	DB             *sql.DB
	RequestTimeout time.Duration
	MaxImportBytes int64
}

func (s *Server) maxImportBytes() int64 {
	if s.MaxImportBytes > 0 {
		return s.MaxImportBytes
	}
	return DefaultMaxImportBytes
}
