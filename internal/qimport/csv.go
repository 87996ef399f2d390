package qimport

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"
)

// ParseCSV parses header-driven comma-separated content. Display row
// numbers in errors count the header as row 1, so the first data row is
// row 2. Quoting problems reported by the csv reader become one error per
// affected line and do not stop the remaining rows.
func ParseCSV(content string) (res ParseResult) {
	res = newResult()
	defer res.finalize()
	defer res.recoverFault()

	if strings.TrimSpace(content) == "" {
		res.errorf("empty file: nothing to import")
		return
	}

	rd := csv.NewReader(strings.NewReader(content))
	rd.FieldsPerRecord = -1 // ragged rows are a per-row concern, not fatal
	rd.TrimLeadingSpace = true

	header, err := rd.Read()
	if err != nil {
		res.errorf("unreadable CSV header: %v", err)
		return
	}
	cols := headerIndex(header)

	rowNum := 1 // header
	for {
		row, err := rd.Read()
		if errors.Is(err, io.EOF) {
			return
		}
		rowNum++
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				res.errorf("line %d, column %d: %v", pe.Line, pe.Column, pe.Err)
				continue
			}
			res.errorf("csv read failed: %v", err)
			return
		}
		q, verr := validate(tableRecord(cols, row))
		if verr != nil {
			res.errorf("row %d: %v", rowNum, verr)
			continue
		}
		res.emit(q)
	}
}
