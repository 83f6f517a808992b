/*
builder.go - Raw rows to typed attendance records

PURPOSE:
  Combines column inference and the field parsers to turn a sheet (header row
  plus data rows) into Records, filtered to a single target month. Rows whose
  date cell cannot be parsed are skipped; the month is taken from the first
  record and everything outside that (month, year) is dropped.
*/
package attendance

import (
	"log/slog"
)

// BuildRecords parses a sheet's rows into attendance records.
// rows[0] must be the header row. Blank rows are expected to have been
// dropped by the decoder already.
//
// Returns ErrNoUsableRows when there is no header plus at least one data row,
// and ErrNoRecords when no data row yielded a parseable date.
func BuildRecords(rows [][]Cell, log *slog.Logger) ([]Record, error) {
	if log == nil {
		log = slog.Default()
	}
	if len(rows) < 2 {
		return nil, ErrNoUsableRows
	}

	cm := InferColumns(rows[0])
	log.Debug("columns resolved",
		"date", cm.Date, "start", cm.Start, "end", cm.End,
		"note", cm.Note, "status", cm.Status, "leave_source", cm.LeaveSource)

	var records []Record
	for i, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}

		date, ok := ParseDate(cellAt(row, cm.Date))
		if !ok {
			log.Debug("row skipped: unparseable date", "row", i+1, "cell", CellText(cellAt(row, cm.Date)))
			continue
		}

		rec := Record{
			Date:            date,
			Note:            CellText(cellAt(row, cm.Note)),
			RawStatus:       CellText(cellAt(row, cm.Status)),
			LeaveSourceText: CellText(cellAt(row, cm.LeaveSource)),
		}
		if ct, ok := ParseTime(cellAt(row, cm.Start)); ok {
			rec.StartTime = &ct
		}
		if ct, ok := ParseTime(cellAt(row, cm.End)); ok {
			rec.EndTime = &ct
		}

		records = append(records, rec)
	}

	if len(records) == 0 {
		return nil, ErrNoRecords
	}

	// Keep only the first record's (month, year).
	target := records[0].Date
	filtered := records[:0]
	for _, rec := range records {
		if rec.Date.SameMonth(target) {
			filtered = append(filtered, rec)
		}
	}

	log.Debug("records built",
		"month", target.String()[:7], "count", len(filtered), "dropped", len(records)-len(filtered))
	return filtered, nil
}

// cellAt returns the cell at idx, or nil when the row is short or the role
// has no column.
func cellAt(row []Cell, idx int) Cell {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
