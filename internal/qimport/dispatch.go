package qimport

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ParseFile dispatches on the uploaded file's extension. The error return
// covers only an unrecognized extension; everything else, including
// structurally broken files, is reported inside the ParseResult.
func ParseFile(filename string, data []byte) (ParseResult, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(string(data)), nil
	case ".xlsx", ".xlsm":
		return ParseXLSX(data), nil
	case ".txt":
		return ParseText(string(data)), nil
	case ".json":
		return ParseJSON(string(data)), nil
	}
	return ParseResult{}, fmt.Errorf("unsupported file type %q (want .csv, .xlsx, .txt or .json)", filepath.Ext(filename))
}
