package qimport

import "strings"

// Column names recognized in the tabular formats (CSV and XLSX), matched
// case-insensitively against the header row.
const (
	colQuestionText  = "question_text"
	colQuestionType  = "question_type"
	colPoints        = "points"
	colCorrectAnswer = "correct_answer"
)

var optionCols = []string{"option_a", "option_b", "option_c", "option_d"}

// headerIndex maps lowercased, trimmed header names to column positions.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return cols
}

// cell returns the named column's value, or "" when the column is absent
// or the row is shorter than the header.
func cell(cols map[string]int, row []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// tableRecord extracts the untrusted record for one tabular data row.
// Options keep their declared a..d order; blanks are filtered later by
// the validator.
func tableRecord(cols map[string]int, row []string) record {
	rec := record{
		QuestionText:  cell(cols, row, colQuestionText),
		QuestionType:  cell(cols, row, colQuestionType),
		Points:        cell(cols, row, colPoints),
		CorrectAnswer: cell(cols, row, colCorrectAnswer),
	}
	for _, c := range optionCols {
		rec.Options = append(rec.Options, cell(cols, row, c))
	}
	return rec
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
