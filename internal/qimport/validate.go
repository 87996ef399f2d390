package qimport

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// record is the untrusted intermediate every extractor produces: raw
// strings exactly as found in the source, before any validation. The
// format parsers only extract; all field rules live in validate.
type record struct {
	QuestionText  string
	QuestionType  string
	Points        string
	Options       []string
	CorrectAnswer string
}

// validate applies the shared field checks in a fixed order. The first
// failing check wins: a row with several defects reports only one reason.
func validate(rec record) (ParsedQuestion, error) {
	text := strings.TrimSpace(rec.QuestionText)
	typRaw := strings.TrimSpace(rec.QuestionType)
	ptsRaw := strings.TrimSpace(rec.Points)
	if text == "" || typRaw == "" || ptsRaw == "" {
		return ParsedQuestion{}, errors.New("missing required field (question_text, question_type, points)")
	}

	qt, ok := normalizeType(typRaw)
	if !ok {
		return ParsedQuestion{}, fmt.Errorf("unknown question_type %q (want mcq, one_word or long_answer)", typRaw)
	}

	pts, err := strconv.Atoi(ptsRaw)
	if err != nil || pts <= 0 {
		return ParsedQuestion{}, fmt.Errorf("points must be a positive integer, got %q", ptsRaw)
	}

	q := ParsedQuestion{
		QuestionText:  text,
		QuestionType:  qt,
		Points:        pts,
		CorrectAnswer: strings.TrimSpace(rec.CorrectAnswer),
	}
	if qt != TypeMCQ {
		// one_word carries an expected answer, long_answer is graded by
		// hand; an empty answer is fine for both.
		return q, nil
	}

	opts := make([]string, 0, len(rec.Options))
	for _, o := range rec.Options {
		if s := strings.TrimSpace(o); s != "" {
			opts = append(opts, s)
		}
	}
	if len(opts) < 2 {
		return ParsedQuestion{}, errors.New("multiple-choice needs at least 2 options")
	}
	matched := false
	for _, o := range opts {
		if o == q.CorrectAnswer {
			matched = true
			break
		}
	}
	if !matched {
		return ParsedQuestion{}, fmt.Errorf("correct_answer %q does not match any option", q.CorrectAnswer)
	}
	q.Options = opts
	return q, nil
}
