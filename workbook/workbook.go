/*
workbook.go - Spreadsheet decoding

PURPOSE:
  Thin adapter between uploaded spreadsheet files and the attendance
  ingestion pipeline. Only the first sheet of a workbook is read; rows come
  back as ordered cell sequences with fully-empty rows dropped, ready for
  attendance.BuildRecords.

CELL VALUES:
  Cells are read raw, not formatted: a date cell yields its Excel serial
  number and a time cell its day fraction, both of which the attendance
  parsers understand. Text cells pass through unchanged, so sheets that
  store dates and times as plain strings work the same way.
*/
package workbook

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/warp/attendance-engine/attendance"
)

// ErrNoSheets means the workbook opened fine but contains no sheets.
var ErrNoSheets = errors.New("workbook: no sheets")

// Sheet is the first sheet of an uploaded workbook, reduced to rows of
// cells in sheet order.
type Sheet struct {
	Name string

	rows [][]attendance.Cell
}

// Read decodes a workbook from r and extracts its first sheet.
func Read(r io.Reader) (*Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	if len(names) == 0 {
		return nil, ErrNoSheets
	}
	name := names[0]

	raw, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", name, err)
	}

	rows := make([][]attendance.Cell, 0, len(raw))
	for _, rawRow := range raw {
		if emptyRow(rawRow) {
			continue
		}
		cells := make([]attendance.Cell, len(rawRow))
		for i, v := range rawRow {
			cells[i] = v
		}
		rows = append(rows, cells)
	}

	return &Sheet{Name: name, rows: rows}, nil
}

// Rows returns the sheet's non-empty rows, header first.
func (s *Sheet) Rows() [][]attendance.Cell {
	return s.rows
}

// RowCount returns the number of non-empty rows.
func (s *Sheet) RowCount() int {
	return len(s.rows)
}

func emptyRow(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
