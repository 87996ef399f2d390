package qimport

import (
	"regexp"
	"strings"
)

// Freeform block grammar:
//
//	[MCQ] Points: 5
//	Which planet is largest?
//	A) Mars
//	B) Jupiter
//	Answer: B
//	---
//
// Blocks are separated by a literal "---" line. ONE_WORD and LONG_ANSWER
// blocks omit the option lines; their trailing "Answer:" line is optional.
var (
	blockHeaderRe = regexp.MustCompile(`(?i)^\[(MCQ|ONE_WORD|LONG_ANSWER)\]\s*Points:\s*(\d+)\s*$`)
	optionLineRe  = regexp.MustCompile(`^[A-Da-d]\)\s*(.*)$`)
	delimiterRe   = regexp.MustCompile(`(?m)^\s*---\s*$`)
)

// ParseText parses the freeform block format. Unlike the tabular formats
// there is no header flexibility here: the grammar is strictly positional,
// and a structurally broken block is skipped with an error while later
// blocks still parse.
func ParseText(content string) (res ParseResult) {
	res = newResult()
	defer res.finalize()
	defer res.recoverFault()

	if strings.TrimSpace(content) == "" {
		res.errorf("empty file: nothing to import")
		return
	}

	// The delimiter is a line of its own; "---" inside question text is
	// ordinary content.
	var blocks []string
	for _, raw := range delimiterRe.Split(content, -1) {
		if strings.TrimSpace(raw) != "" {
			blocks = append(blocks, raw)
		}
	}
	if len(blocks) == 0 {
		res.errorf("no question blocks found")
		return
	}

	for n, raw := range blocks {
		num := n + 1
		lines := nonEmptyLines(raw)

		m := blockHeaderRe.FindStringSubmatch(lines[0])
		if m == nil {
			res.errorf(`question %d: first line must look like "[MCQ] Points: 5"`, num)
			continue
		}
		typ := typeForToken(m[1])
		if len(lines) < 2 {
			res.errorf("question %d: missing question text", num)
			continue
		}

		rec := record{
			QuestionText: lines[1],
			QuestionType: string(typ),
			Points:       m[2],
		}
		if typ == TypeMCQ {
			var opts []string
			answer, hasAnswer := "", false
			for _, ln := range lines[2:] {
				if om := optionLineRe.FindStringSubmatch(ln); om != nil {
					opts = append(opts, strings.TrimSpace(om[1]))
					continue
				}
				if rest, ok := answerSuffix(ln); ok {
					answer, hasAnswer = rest, true
				}
			}
			if len(opts) < 2 {
				res.errorf("question %d: multiple-choice needs at least 2 options", num)
				continue
			}
			if !hasAnswer {
				res.errorf(`question %d: missing "Answer:" line`, num)
				continue
			}
			idx := letterIndex(answer)
			if idx < 0 || idx >= len(opts) {
				res.errorf("question %d: answer %q does not point at a listed option", num, answer)
				continue
			}
			rec.Options = opts
			rec.CorrectAnswer = opts[idx]
		} else {
			// Expected answer, if any, is the last line of the block.
			if rest, ok := answerSuffix(lines[len(lines)-1]); ok {
				rec.CorrectAnswer = rest
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

func typeForToken(token string) QuestionType {
	switch strings.ToUpper(token) {
	case "MCQ":
		return TypeMCQ
	case "ONE_WORD":
		return TypeOneWord
	default:
		return TypeLongAnswer
	}
}

func nonEmptyLines(block string) []string {
	var out []string
	for _, ln := range strings.Split(block, "\n") {
		if s := strings.TrimSpace(ln); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// answerSuffix reports whether the line is an "Answer:" line and returns
// the trimmed remainder.
func answerSuffix(line string) (string, bool) {
	const prefix = "answer:"
	if len(line) < len(prefix) || !strings.EqualFold(line[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(line[len(prefix):]), true
}

// letterIndex resolves an answer letter to an option position (A=0, B=1,
// ...). Anything that does not start with an ASCII letter yields -1.
func letterIndex(answer string) int {
	if answer == "" {
		return -1
	}
	c := answer[0]
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c - 'a')
	}
	return -1
}
