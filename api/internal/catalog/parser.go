package catalog

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoWorksheet is returned for workbooks without any sheet.
var ErrNoWorksheet = errors.New("workbook has no worksheet")

// ErrEmptyWorksheet is returned when the first worksheet holds no rows.
var ErrEmptyWorksheet = errors.New("worksheet is empty")

// ParseWorkbook reads the first worksheet of an xlsx workbook: the first
// non-empty row becomes the header set, every following row is padded or
// truncated to the header width. Cell values keep excelize's formatted
// string form.
func ParseWorkbook(r io.Reader) (headers []string, rows [][]string, err error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoWorksheet
	}

	raw, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, err
	}

	start := -1
	for i, row := range raw {
		if !rowEmpty(row) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil, ErrEmptyWorksheet
	}

	headers = make([]string, len(raw[start]))
	for i, cell := range raw[start] {
		headers[i] = strings.TrimSpace(cell)
	}

	rows = make([][]string, 0, len(raw)-start-1)
	for _, row := range raw[start+1:] {
		if rowEmpty(row) {
			continue
		}
		out := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				out[i] = row[i]
			}
		}
		rows = append(rows, out)
	}
	return headers, rows, nil
}

func rowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
