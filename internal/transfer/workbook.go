package transfer

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/vytor/vocabflash/internal/curve"
	"github.com/vytor/vocabflash/internal/models"
	"github.com/xuri/excelize/v2"
)

const (
	progressSheet = "Progress"
	sessionsSheet = "Sessions"
)

var progressHeader = []any{
	"ID", "Term", "Primary", "Secondary", "Category", "Proficiency", "Reviews",
	"Mistakes", "Streak", "Difficulty", "Last reviewed", "Retention %", "Next due",
}

var sessionsHeader = []any{"Date", "Kind", "Answers", "Correct", "Accuracy %", "Minutes"}

// WriteProgressWorkbook writes a spreadsheet with one row per word and one
// row per recorded session.
func WriteProgressWorkbook(w io.Writer, words []*models.Word, sessions []models.SessionRecord, now time.Time) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName(f.GetSheetName(0), progressSheet)
	if _, err := f.NewSheet(sessionsSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(words))
	for _, word := range words {
		if word == nil {
			continue
		}
		last, due := "", ""
		if word.LastReviewedAt != nil {
			last = word.LastReviewedAt.UTC().Format(time.DateTime)
			due = curve.DueAt(*word, now).UTC().Format(time.DateTime)
		}
		rows = append(rows, []any{
			word.ID, word.Term, word.TranslationPrimary, word.TranslationSecondary, word.Category,
			word.Proficiency, word.ReviewCount, word.MistakeCount, word.ConsecutiveCorrect,
			word.Difficulty.String(), last, math.Round(curve.RetentionRate(*word, now) * 100), due,
		})
	}
	if err := writeSheet(f, progressSheet, progressHeader, rows, bold); err != nil {
		return err
	}

	rows = rows[:0]
	for _, s := range sessions {
		rows = append(rows, []any{
			s.StudyDate, string(s.Kind), s.TotalAnswers, s.CorrectAnswers, s.Accuracy,
			math.Round(float64(s.DurationMs)/60000*10) / 10,
		})
	}
	if err := writeSheet(f, sessionsSheet, sessionsHeader, rows, bold); err != nil {
		return err
	}

	return f.Write(w)
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any, headerStyle int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+2, err)
		}
	}

	lastCol, _, err := excelize.SplitCellName(last)
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet, "A", lastCol, 14)
}
