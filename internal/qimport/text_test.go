package qimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTextMCQBlock(t *testing.T) {
	res := ParseText("[MCQ] Points: 10\nCapital of France?\nA) London\nB) Paris\nAnswer: B\n---\n")

	require.True(t, res.Success)
	require.Len(t, res.Questions, 1)

	q := res.Questions[0]
	assert.Equal(t, "Capital of France?", q.QuestionText)
	assert.Equal(t, TypeMCQ, q.QuestionType)
	assert.Equal(t, 10, q.Points)
	assert.Equal(t, []string{"London", "Paris"}, q.Options)
	assert.Equal(t, "Paris", q.CorrectAnswer)
	assert.Equal(t, 0, q.OrderIndex)
}

func TestParseTextMultipleBlocks(t *testing.T) {
	in := "[ONE_WORD] Points: 2\nChemical symbol for iron?\nAnswer: Fe\n" +
		"---\n" +
		"[LONG_ANSWER] Points: 10\nExplain photosynthesis.\n" +
		"---\n" +
		"[mcq] points: 4\nSmallest prime?\nA) 1\nB) 2\nC) 3\nAnswer: b\n"
	res := ParseText(in)

	require.True(t, res.Success)
	require.Len(t, res.Questions, 3)
	assert.Equal(t, TypeOneWord, res.Questions[0].QuestionType)
	assert.Equal(t, "Fe", res.Questions[0].CorrectAnswer)
	assert.Equal(t, TypeLongAnswer, res.Questions[1].QuestionType)
	assert.Empty(t, res.Questions[1].CorrectAnswer)
	assert.Equal(t, "2", res.Questions[2].CorrectAnswer)
	for i, q := range res.Questions {
		assert.Equal(t, i, q.OrderIndex)
	}
}

// A "---" embedded in question text is content; only a delimiter line of
// its own separates blocks.
func TestParseTextInlineDashesAreContent(t *testing.T) {
	in := "[LONG_ANSWER] Points: 5\nCompare covalent --- ionic bonds.\n" +
		"---\n" +
		"[ONE_WORD] Points: 2\nH2O --- common name?\nAnswer: water\n"
	res := ParseText(in)

	require.True(t, res.Success, res.Errors)
	require.Len(t, res.Questions, 2)
	assert.Equal(t, "Compare covalent --- ionic bonds.", res.Questions[0].QuestionText)
	assert.Equal(t, "H2O --- common name?", res.Questions[1].QuestionText)
}

// LONG_ANSWER without an Answer line is legal; the answer stays empty.
func TestParseTextAnswerOptional(t *testing.T) {
	res := ParseText("[LONG_ANSWER] Points: 8\nDiscuss the causes of World War I.\n")

	require.True(t, res.Success)
	require.Len(t, res.Questions, 1)
	assert.Empty(t, res.Questions[0].CorrectAnswer)
}

func TestParseTextBadBlocks(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		errPart string
	}{
		{"bad header", "Points: 5\nNo type tag here\n", "first line"},
		{"unknown type tag", "[ESSAY] Points: 5\nSome question\n", "first line"},
		{"missing question text", "[ONE_WORD] Points: 5\n", "missing question text"},
		{"too few options", "[MCQ] Points: 5\nPick one\nA) only\nAnswer: A\n", "at least 2 options"},
		{"missing answer line", "[MCQ] Points: 5\nPick one\nA) yes\nB) no\n", `"Answer:" line`},
		{"answer out of range", "[MCQ] Points: 5\nPick one\nA) yes\nB) no\nAnswer: D\n", "does not point at a listed option"},
		{"answer not a letter", "[MCQ] Points: 5\nPick one\nA) yes\nB) no\nAnswer: 7\n", "does not point at a listed option"},
		{"zero points", "[ONE_WORD] Points: 0\nName a noble gas\nAnswer: Neon\n", "positive integer"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ParseText(tt.in)
			assert.False(t, res.Success)
			assert.Empty(t, res.Questions)
			require.Len(t, res.Errors, 1)
			assert.Contains(t, res.Errors[0], tt.errPart)
		})
	}
}

// A broken block is skipped with an error; later blocks still parse, and
// error numbering reflects the block's original position.
func TestParseTextBlockIndependence(t *testing.T) {
	in := "[ONE_WORD] Points: 2\nFirst?\nAnswer: one\n" +
		"---\n" +
		"[BROKEN header\nSecond?\n" +
		"---\n" +
		"[ONE_WORD] Points: 2\nThird?\nAnswer: three\n"
	res := ParseText(in)

	assert.False(t, res.Success)
	require.Len(t, res.Questions, 2)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "question 2")
	assert.Equal(t, "First?", res.Questions[0].QuestionText)
	assert.Equal(t, 0, res.Questions[0].OrderIndex)
	assert.Equal(t, "Third?", res.Questions[1].QuestionText)
	assert.Equal(t, 1, res.Questions[1].OrderIndex)
}

func TestParseTextEmptyInput(t *testing.T) {
	for _, in := range []string{"", "\n\n", "---\n---\n"} {
		res := ParseText(in)
		assert.False(t, res.Success)
		assert.Empty(t, res.Questions)
		require.Len(t, res.Errors, 1)
	}
}
