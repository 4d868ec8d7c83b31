package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vytor/vocabflash/internal/logger"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are not .xlsx, .csv or .json.
var ErrUnsupportedFormat = errors.New("unsupported catalog format")

// ImportConfig defines where catalog rows are read from. Spreadsheet and CSV
// rows are laid out as term, primary translation, secondary translation,
// category and an optional id.
type ImportConfig struct {
	FilePath   string // Path to the .xlsx, .csv or .json file
	SheetName  string // Sheet to read; the first sheet when empty
	SkipHeader bool   // Skip the first row of spreadsheet and CSV files
}

// ImportResult holds the outcome of an import
type ImportResult struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// ImportFile reads catalog entries from a file. Rows that cannot be used are
// counted as skipped and described in the result.
func ImportFile(ctx context.Context, cfg ImportConfig) ([]models.Word, *ImportResult, error) {
	log := logger.FromContext(ctx).WithPrefix("catalog").WithField("path", cfg.FilePath)

	var (
		words  []models.Word
		result *ImportResult
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(cfg.FilePath)); ext {
	case ".xlsx":
		words, result, err = importFromExcel(cfg)
	case ".csv":
		words, result, err = importFromCSV(cfg)
	case ".json":
		words, result, err = importFromJSON(cfg)
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		log.Error("catalog import failed: %v", err)
		return nil, nil, err
	}

	log.Info("catalog file read: processed=%d, skipped=%d", result.Processed, result.Skipped)
	return words, result, nil
}

func importFromExcel(cfg ImportConfig) ([]models.Word, *ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get rows: %w", err)
	}

	words, result := processRows(rows, cfg.SkipHeader)
	return words, result, nil
}

func importFromCSV(cfg ImportConfig) ([]models.Word, *ImportResult, error) {
	file, err := os.Open(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}

	words, result := processRows(rows, cfg.SkipHeader)
	return words, result, nil
}

func importFromJSON(cfg ImportConfig) ([]models.Word, *ImportResult, error) {
	data, err := os.ReadFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read JSON file: %w", err)
	}
	var entries []models.Word
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to decode JSON catalog: %w", err)
	}

	result := &ImportResult{Errors: make([]string, 0)}
	words := make([]models.Word, 0, len(entries))
	for i, e := range entries {
		result.Processed++
		w := models.Word{
			ID:                   e.ID,
			Term:                 strings.TrimSpace(e.Term),
			TranslationPrimary:   strings.TrimSpace(e.TranslationPrimary),
			TranslationSecondary: strings.TrimSpace(e.TranslationSecondary),
			Category:             strings.TrimSpace(e.Category),
		}
		if field := w.MissingField(); field != "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Entry %d: %s cannot be empty", i+1, field))
			continue
		}
		words = append(words, w)
	}
	return words, result, nil
}

func processRows(rows [][]string, skipHeader bool) ([]models.Word, *ImportResult) {
	result := &ImportResult{Errors: make([]string, 0)}
	var words []models.Word
	seen := make(map[string]int)

	for i, row := range rows {
		if i == 0 && skipHeader {
			continue
		}
		rowNum := i + 1
		if blank(row) {
			continue
		}
		result.Processed++

		w, err := rowToWord(row)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		if first, dup := seen[w.Term]; dup {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: duplicate of row %d", rowNum, first))
			continue
		}
		seen[w.Term] = rowNum
		words = append(words, w)
	}
	return words, result
}

// ExcludeIDClashes drops entries whose explicit id already belongs to a
// different term, either in existing or earlier in words. Dropped entries are
// counted as skipped in result.
func ExcludeIDClashes(existing, words []models.Word, result *ImportResult) []models.Word {
	owners := make(map[int64]string, len(existing))
	for _, w := range existing {
		owners[w.ID] = w.Term
	}

	kept := make([]models.Word, 0, len(words))
	for _, w := range words {
		if w.ID > 0 {
			if term, ok := owners[w.ID]; ok && term != w.Term {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("%q: id %d already belongs to %q", w.Term, w.ID, term))
				continue
			}
			owners[w.ID] = w.Term
		}
		kept = append(kept, w)
	}
	return kept
}

func rowToWord(row []string) (models.Word, error) {
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	w := models.Word{
		Term:                 cell(0),
		TranslationPrimary:   cell(1),
		TranslationSecondary: cell(2),
		Category:             cell(3),
	}
	if field := w.MissingField(); field != "" {
		return w, fmt.Errorf("%s cannot be empty", field)
	}
	if raw := cell(4); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return w, fmt.Errorf("invalid id %q", raw)
		}
		w.ID = id
	}
	return w, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
