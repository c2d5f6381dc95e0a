package helpers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// decodeCSV splits CSV bytes into a header and data rows. Malformed rows
// are skipped.
func decodeCSV(data []byte) ([]string, [][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("helpers: read CSV header: %w", err)
	}
	var rows [][]string
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		rows = append(rows, row)
	}
	return header, rows, nil
}

// decodeXLSX reads a worksheet, the first one when sheet is empty. The
// first non-empty row is the header.
func decodeXLSX(data []byte, sheet string) ([]string, [][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("helpers: open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("helpers: workbook has no sheets")
		}
		sheet = sheets[0]
	}
	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("helpers: read sheet %s: %w", sheet, err)
	}

	var header []string
	var rows [][]string
	for _, row := range all {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		rows = append(rows, row)
	}
	if header == nil {
		return nil, nil, fmt.Errorf("helpers: sheet %s is empty", sheet)
	}
	return header, rows, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
