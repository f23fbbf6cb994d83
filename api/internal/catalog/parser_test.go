package catalog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, rows [][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestParseWorkbook(t *testing.T) {
	b := workbookBytes(t, [][]any{
		{"sku", "name", "qty"},
		{"A-1", "Box small", 4},
		{"A-2", "Box large"},
	})

	headers, rows, err := ParseWorkbook(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(headers) != 3 || headers[0] != "sku" || headers[2] != "qty" {
		t.Fatalf("unexpected headers: %#v", headers)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "4" {
		t.Fatalf("expected formatted cell value 4, got %q", rows[0][2])
	}
	// Short row padded to header width.
	if len(rows[1]) != 3 || rows[1][2] != "" {
		t.Fatalf("expected padded row, got %#v", rows[1])
	}
}

func TestParseWorkbookSkipsLeadingEmptyRows(t *testing.T) {
	b := workbookBytes(t, [][]any{
		{},
		{"col"},
		{"v1"},
	})
	headers, rows, err := ParseWorkbook(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(headers) != 1 || headers[0] != "col" || len(rows) != 1 {
		t.Fatalf("unexpected result: %#v %#v", headers, rows)
	}
}

func TestParseWorkbookEmpty(t *testing.T) {
	b := workbookBytes(t, nil)
	if _, _, err := ParseWorkbook(bytes.NewReader(b)); !errors.Is(err, ErrEmptyWorksheet) {
		t.Fatalf("expected ErrEmptyWorksheet, got %v", err)
	}
}

func TestParseWorkbookGarbage(t *testing.T) {
	if _, _, err := ParseWorkbook(bytes.NewReader([]byte("not a workbook"))); err == nil {
		t.Fatal("expected error for non-xlsx input")
	}
}
