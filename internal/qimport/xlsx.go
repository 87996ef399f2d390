package qimport

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"
)

const preferredSheet = "Questions"

// ParseXLSX parses a binary workbook. A sheet named "Questions" is used
// when present, otherwise the first sheet. Row validation and error
// numbering match ParseCSV exactly; fully blank rows are dropped before
// numbering, mirroring how spreadsheet rows read as row objects.
func ParseXLSX(data []byte) (res ParseResult) {
	res = newResult()
	defer res.finalize()
	defer res.recoverFault()

	if len(data) == 0 {
		res.errorf("empty file: nothing to import")
		return
	}

	wb, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		res.errorf("unreadable workbook: %v", err)
		return
	}
	defer wb.Close()

	sheets := wb.GetSheetList()
	if len(sheets) == 0 {
		res.errorf("workbook has no sheets")
		return
	}
	sheet := sheets[0]
	for _, s := range sheets {
		if strings.EqualFold(s, preferredSheet) {
			sheet = s
			break
		}
	}

	rows, err := wb.GetRows(sheet)
	if err != nil {
		res.errorf("read sheet %q: %v", sheet, err)
		return
	}
	kept := make([][]string, 0, len(rows))
	for _, row := range rows {
		if !blankRow(row) {
			kept = append(kept, row)
		}
	}
	if len(kept) == 0 {
		res.errorf("sheet %q has no rows", sheet)
		return
	}

	cols := headerIndex(kept[0])
	for i, row := range kept[1:] {
		q, verr := validate(tableRecord(cols, row))
		if verr != nil {
			res.errorf("row %d: %v", i+2, verr)
			continue
		}
		res.emit(q)
	}
	return
}
