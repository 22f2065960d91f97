package excel

import (
	"fmt"
	"strconv"
	"strings"

	"colmeia-quiz-service/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ImportConfig describes where the question bank lives inside the workbook.
type ImportConfig struct {
	FilePath       string
	SheetName      string // empty means the first sheet
	QuestionColumn int    // 0-based column indexes
	CategoryColumn int
	AnswerColumn   int
	WeightColumn   int
	StartRow       int // 1-based; rows before it are headers
}

func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:       path,
		QuestionColumn: 0,
		CategoryColumn: 1,
		AnswerColumn:   2,
		WeightColumn:   3,
		StartRow:       2,
	}
}

// ImportResult holds the questions read and the rows that were rejected.
type ImportResult struct {
	Questions []domain.Question
	Skipped   int
	Errors    []string
}

// ImportQuestions reads one option per row. A blank question cell continues the
// previous question, which is how merged cells come out of the spreadsheet.
func ImportQuestions(cfg ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets: %w", cfg.FilePath, domain.ErrMalformedData)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return parseRows(rows, cfg), nil
}

func parseRows(rows [][]string, cfg ImportConfig) *ImportResult {
	result := &ImportResult{Errors: make([]string, 0)}
	index := make(map[string]int)
	current := -1

	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow || isBlank(row) {
			continue
		}

		text := cell(row, cfg.QuestionColumn)
		category := cell(row, cfg.CategoryColumn)
		answer := cell(row, cfg.AnswerColumn)
		weightRaw := cell(row, cfg.WeightColumn)

		if text != "" {
			if pos, ok := index[text]; ok {
				current = pos
			} else {
				cat := domain.Category(category)
				if !cat.Valid() {
					result.Skipped++
					result.Errors = append(result.Errors, fmt.Sprintf("Row %d: unknown category %q", rowNum, category))
					current = -1
					continue
				}
				result.Questions = append(result.Questions, domain.Question{Text: text, Category: cat})
				current = len(result.Questions) - 1
				index[text] = current
			}
		}
		if current < 0 {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: option without a question", rowNum))
			continue
		}
		if answer == "" {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: empty answer", rowNum))
			continue
		}
		weight, err := parseWeight(weightRaw)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
			continue
		}
		q := &result.Questions[current]
		q.Options = append(q.Options, domain.Option{Answer: answer, Weight: weight})
	}
	return result
}

func parseWeight(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty weight")
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n, nil
	}
	// spreadsheets often store integers as "8.0"
	f, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid weight %q", raw)
	}
	return int(f), nil
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
