package porter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/artem/quizbot/internal/models"
)

// ExcelOptions selects where cards live inside a workbook. The zero
// value reads the first sheet, column A questions, column B answers,
// skipping one header row.
type ExcelOptions struct {
	Sheet       string
	QuestionCol int // 0-based
	AnswerCol   int // 0-based
	SkipRows    int
}

func (o ExcelOptions) withDefaults() ExcelOptions {
	if o.AnswerCol == 0 && o.QuestionCol == 0 {
		o.AnswerCol = 1
	}
	if o.SkipRows == 0 {
		o.SkipRows = 1
	}
	return o
}

// ParseExcel reads question/answer pairs from an xlsx workbook. Rows
// shorter than the configured columns or with blank cells are skipped.
func ParseExcel(r io.Reader, opts ExcelOptions) (Result, error) {
	opts = opts.withDefaults()

	book, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheet = book.GetSheetName(0)
	}

	rows, err := book.GetRows(sheet)
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	var res Result
	for i, row := range rows {
		if i < opts.SkipRows {
			continue
		}
		if len(row) <= opts.QuestionCol || len(row) <= opts.AnswerCol {
			res.Skipped++
			continue
		}
		res.add(row[opts.QuestionCol], row[opts.AnswerCol], 1)
	}
	return res, nil
}

// ExportExcel writes cards to a single-sheet workbook with a header row.
func ExportExcel(w io.Writer, cards []models.Card) error {
	book := excelize.NewFile()
	defer book.Close()

	sheet := book.GetSheetName(0)
	if err := book.SetSheetRow(sheet, "A1", &[]string{"Question", "Answer", "Difficulty"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, c := range cards {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell for row %d: %w", i+2, err)
		}
		if err := book.SetSheetRow(sheet, cell, &[]any{c.Question, c.Answer, c.Difficulty}); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return book.Write(w)
}
