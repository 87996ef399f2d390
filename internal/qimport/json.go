package qimport

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ParseJSON parses a JSON document of the shape
//
//	{"questions": [{"question_text": ..., "question_type": ...,
//	                "points": ..., "options": [...], "correct_answer": ...}]}
//
// A document that fails to deserialize, or lacks the questions array,
// fails as a whole with a single error. Element values are loosely typed
// and treated as untrusted: anything of the wrong shape reads as missing
// and is caught by the shared validator. Unlike the tabular formats the
// options array has no fixed cap; any length of at least 2 is accepted.
func ParseJSON(content string) (res ParseResult) {
	res = newResult()
	defer res.finalize()
	defer res.recoverFault()

	if strings.TrimSpace(content) == "" {
		res.errorf(`empty input: expected a JSON object with a "questions" array`)
		return
	}

	var root interface{}
	if err := json.Unmarshal([]byte(content), &root); err != nil {
		res.errorf("invalid JSON: %v", err)
		return
	}
	// Any deserializable document that is not {"questions": [...]} counts
	// as missing the array, top-level arrays and scalars included.
	doc, _ := root.(map[string]interface{})
	raw, ok := doc["questions"].([]interface{})
	if !ok {
		res.errorf(`missing "questions" array`)
		return
	}

	for i, el := range raw {
		num := i + 1
		obj, ok := el.(map[string]interface{})
		if !ok {
			res.errorf("question %d: not an object", num)
			continue
		}
		rec := record{
			QuestionText:  asString(obj["question_text"]),
			QuestionType:  asString(obj["question_type"]),
			Points:        asIntString(obj["points"]),
			CorrectAnswer: asString(obj["correct_answer"]),
		}
		if opts, ok := obj["options"].([]interface{}); ok {
			for _, o := range opts {
				rec.Options = append(rec.Options, asString(o))
			}
		}
		q, verr := validate(rec)
		if verr != nil {
			res.errorf("question %d: %v", num, verr)
			continue
		}
		res.emit(q)
	}
	return
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

// asIntString renders a JSON points value for the shared positive-integer
// check. Whole floats pass through as their integer form; fractional ones
// keep their fraction so the check rejects them.
func asIntString(v interface{}) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		if n == math.Trunc(n) {
			return strconv.FormatInt(int64(n), 10)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}
