// Package porter imports and exports deck cards in CSV, JSON,
// pipe-separated text and Excel formats.
package porter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/artem/quizbot/internal/models"
)

// Format identifies a supported interchange format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatText  Format = "text"
	FormatExcel Format = "xlsx"
)

// FormatFromFilename guesses the format from a file extension. ok is
// false for unknown extensions.
func FormatFromFilename(name string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, true
	case ".json":
		return FormatJSON, true
	case ".txt":
		return FormatText, true
	case ".xlsx":
		return FormatExcel, true
	}
	return "", false
}

// Result is the outcome of one import parse. Skipped counts blank or
// malformed rows that were dropped.
type Result struct {
	Cards   []models.Card
	Skipped int
}

func (r *Result) add(question, answer string, difficulty int) {
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)
	if question == "" || answer == "" {
		r.Skipped++
		return
	}
	if difficulty < 1 || difficulty > 3 {
		difficulty = 1
	}
	r.Cards = append(r.Cards, models.Card{Question: question, Answer: answer, Difficulty: difficulty})
}

// Parse dispatches to the parser for the given format.
func Parse(format Format, r io.Reader) (Result, error) {
	switch format {
	case FormatCSV:
		return ParseCSV(r)
	case FormatJSON:
		return ParseJSON(r)
	case FormatText:
		return ParseText(r)
	case FormatExcel:
		return ParseExcel(r, ExcelOptions{})
	}
	return Result{}, fmt.Errorf("unsupported import format %q", format)
}

// ParseCSV reads question,answer[,difficulty] rows. Rows with fewer
// than two fields or blank question/answer are skipped, not fatal.
func ParseCSV(r io.Reader) (Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var res Result
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("read csv: %w", err)
		}
		if len(record) < 2 {
			res.Skipped++
			continue
		}
		difficulty := 1
		if len(record) >= 3 {
			if d, err := strconv.Atoi(strings.TrimSpace(record[2])); err == nil {
				difficulty = d
			}
		}
		res.add(record[0], record[1], difficulty)
	}
	return res, nil
}

type jsonCard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Difficulty int    `json:"difficulty,omitempty"`
}

// ParseJSON reads a [{"question", "answer"}] array.
func ParseJSON(r io.Reader) (Result, error) {
	var cards []jsonCard
	if err := json.NewDecoder(r).Decode(&cards); err != nil {
		return Result{}, fmt.Errorf("decode json: %w", err)
	}

	var res Result
	for _, c := range cards {
		res.add(c.Question, c.Answer, c.Difficulty)
	}
	return res, nil
}

// ParseText reads "question | answer" lines. Lines without a pipe or
// with a blank side are skipped; fully blank lines are ignored.
func ParseText(r io.Reader) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("read text: %w", err)
	}

	var res Result
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		question, answer, found := strings.Cut(line, "|")
		if !found {
			res.Skipped++
			continue
		}
		res.add(question, answer, 1)
	}
	return res, nil
}

// ExportCSV writes question,answer,difficulty rows.
func ExportCSV(w io.Writer, cards []models.Card) error {
	writer := csv.NewWriter(w)
	for _, c := range cards {
		if err := writer.Write([]string{c.Question, c.Answer, strconv.Itoa(c.Difficulty)}); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// ExportJSON writes the same array shape ParseJSON accepts.
func ExportJSON(w io.Writer, cards []models.Card) error {
	out := make([]jsonCard, len(cards))
	for i, c := range cards {
		out[i] = jsonCard{Question: c.Question, Answer: c.Answer, Difficulty: c.Difficulty}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// ExportText writes numbered "question | answer" lines.
func ExportText(w io.Writer, cards []models.Card) error {
	for i, c := range cards {
		if _, err := fmt.Fprintf(w, "%d. %s | %s\n", i+1, c.Question, c.Answer); err != nil {
			return fmt.Errorf("write text: %w", err)
		}
	}
	return nil
}

// Export dispatches to the writer for the given format.
func Export(format Format, w io.Writer, cards []models.Card) error {
	switch format {
	case FormatCSV:
		return ExportCSV(w, cards)
	case FormatJSON:
		return ExportJSON(w, cards)
	case FormatText:
		return ExportText(w, cards)
	}
	return fmt.Errorf("unsupported export format %q", format)
}
