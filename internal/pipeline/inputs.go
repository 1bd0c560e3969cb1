package pipeline

import (
	"fmt"
	"os"

	"menuforge/internal"
)

// ExtractRowsFromInput reads raw rows from a local file for one-shot runs.
func ExtractRowsFromInput(inputType, path string) ([]internal.RawRow, error) {
	switch inputType {
	case "csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ParseCSV(f)
	case "xlsx":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseXLSX(blob)
	case "pdf":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parsePDF(blob)
	case "html":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return parseHTMLTable(string(blob)), nil
	default:
		return nil, fmt.Errorf("unsupported input type: %s", inputType)
	}
}
