package qimport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

var xlsxHeader = []interface{}{"question_text", "question_type", "points", "option_a", "option_b", "option_c", "option_d", "correct_answer"}

func TestParseXLSXHappyPath(t *testing.T) {
	data := workbookBytes(t, "Sheet1", [][]interface{}{
		xlsxHeader,
		{"What is 2+2?", "mcq", 5, 3, 4, "", "", 4},
		{"Symbol for oxygen?", "one_word", 2, "", "", "", "", "O"},
	})
	res := ParseXLSX(data)

	require.True(t, res.Success)
	require.Len(t, res.Questions, 2)
	assert.Equal(t, []string{"3", "4"}, res.Questions[0].Options)
	assert.Equal(t, "4", res.Questions[0].CorrectAnswer)
	assert.Equal(t, 5, res.Questions[0].Points)
	assert.Equal(t, "O", res.Questions[1].CorrectAnswer)
}

// A sheet named "Questions" wins over the first sheet.
func TestParseXLSXPrefersQuestionsSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"unrelated", "columns"}))
	_, err := f.NewSheet("Questions")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Questions", "A1", &xlsxHeader))
	require.NoError(t, f.SetSheetRow("Questions", "A2",
		&[]interface{}{"Name a continent", "one_word", 1, "", "", "", "", "Asia"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	res := ParseXLSX(buf.Bytes())
	require.True(t, res.Success)
	require.Len(t, res.Questions, 1)
	assert.Equal(t, "Asia", res.Questions[0].CorrectAnswer)
}

func TestParseXLSXRowValidationMirrorsCSV(t *testing.T) {
	data := workbookBytes(t, "Sheet1", [][]interface{}{
		xlsxHeader,
		{"Fine", "one_word", 3, "", "", "", "", "ok"},
		{"Zero points", "one_word", 0, "", "", "", "", "no"},
		{"Bad type", "truefalse", 3, "", "", "", "", ""},
	})
	res := ParseXLSX(data)

	assert.False(t, res.Success)
	require.Len(t, res.Questions, 1)
	require.Len(t, res.Errors, 2)
	assert.Contains(t, res.Errors[0], "row 3")
	assert.Contains(t, res.Errors[0], "positive integer")
	assert.Contains(t, res.Errors[1], "row 4")
	assert.Contains(t, res.Errors[1], "question_type")
}

func TestParseXLSXEmptyInput(t *testing.T) {
	res := ParseXLSX(nil)
	assert.False(t, res.Success)
	assert.Empty(t, res.Questions)
	require.Len(t, res.Errors, 1)
}

func TestParseXLSXGarbageBytes(t *testing.T) {
	res := ParseXLSX([]byte("this is not a zip archive"))
	assert.False(t, res.Success)
	assert.Empty(t, res.Questions)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "workbook")
}
