// Package qimport turns teacher-supplied question files (CSV, XLSX,
// freeform text, JSON) into validated question records. Each parser is a
// pure function: bad rows become entries in ParseResult.Errors, never
// partial output, and one bad row never blocks the rest of the file.
package qimport

import (
	"fmt"
	"strings"
)

type QuestionType string

const (
	TypeMCQ        QuestionType = "mcq"
	TypeOneWord    QuestionType = "one_word"
	TypeLongAnswer QuestionType = "long_answer"
)

// normalizeType maps a raw type cell onto the closed enum. Returns false
// for anything outside it.
func normalizeType(raw string) (QuestionType, bool) {
	switch QuestionType(strings.ToLower(strings.TrimSpace(raw))) {
	case TypeMCQ:
		return TypeMCQ, true
	case TypeOneWord:
		return TypeOneWord, true
	case TypeLongAnswer:
		return TypeLongAnswer, true
	}
	return "", false
}

// ParsedQuestion is one fully validated question. Options is set only for
// MCQ, where CorrectAnswer always equals one of its entries.
type ParsedQuestion struct {
	QuestionText  string       `json:"question_text"`
	QuestionType  QuestionType `json:"question_type"`
	Points        int          `json:"points"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer string       `json:"correct_answer,omitempty"`
	OrderIndex    int          `json:"order_index"`
}

// ParseResult is the contract every parser returns. Success holds exactly
// when Errors is empty; error strings carry the original row/question
// number so a user can fix the whole file in one pass.
type ParseResult struct {
	Success   bool             `json:"success"`
	Questions []ParsedQuestion `json:"questions"`
	Errors    []string         `json:"errors"`
}

func newResult() ParseResult {
	return ParseResult{Questions: []ParsedQuestion{}, Errors: []string{}}
}

// emit appends a validated question. OrderIndex counts survivors only, so
// indices stay contiguous even when earlier rows were rejected.
func (r *ParseResult) emit(q ParsedQuestion) {
	q.OrderIndex = len(r.Questions)
	r.Questions = append(r.Questions, q)
}

func (r *ParseResult) errorf(format string, args ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *ParseResult) finalize() {
	r.Success = len(r.Errors) == 0
}

// recoverFault converts a library-level panic into a trailing error entry,
// keeping whatever questions were accumulated before it.
func (r *ParseResult) recoverFault() {
	if p := recover(); p != nil {
		r.errorf("unexpected parser fault: %v", p)
	}
}
