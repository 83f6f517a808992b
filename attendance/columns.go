/*
columns.go - Header-to-role column inference

PURPOSE:
  Maps a header row onto the semantic roles the record builder needs: date,
  start time, end time, note, and status. Matching is keyword containment on
  the lower-cased, trimmed header text; a header cell is assigned to at most
  one role and roles are tried in a fixed order.

  Roles left unassigned after the scan fall back to fixed positions
  (date=0, start=1, end=2, note=3, status=4), applied only when the sheet
  actually has that many columns.

  The leave-source column is NOT inferred. Exported sheets carry the leave
  annotation in column H regardless of header text, so it is pinned to
  index 7.
*/
package attendance

import (
	"regexp"
	"strings"
)

// LeaveSourceColumn is the fixed index of the leave-annotation column
// (column H), independent of header content.
const LeaveSourceColumn = 7

// ColumnMap holds the resolved column index per role. An index of -1 means
// the sheet has no such column; the builder then treats the field as empty.
type ColumnMap struct {
	Date        int
	Start       int
	End         int
	Note        int
	Status      int
	LeaveSource int
}

var yearPrefixRe = regexp.MustCompile(`^\d{4}`)

// role keyword sets, in match-priority order per header cell.
var (
	dateKeywords   = []string{"날짜", "date", "일", "day", "월", "년"}
	startKeywords  = []string{"출근", "시작", "start", "in", "체크인", "근무시작"}
	endKeywords    = []string{"퇴근", "종료", "end", "out", "체크아웃", "근무종료"}
	statusKeywords = []string{"상태", "status", "연차"}
	noteKeywords   = []string{"비고", "메모", "note", "remark", "comment"}
)

// InferColumns resolves the column map for a header row.
func InferColumns(header []Cell) ColumnMap {
	cm := ColumnMap{Date: -1, Start: -1, End: -1, Note: -1, Status: -1, LeaveSource: LeaveSourceColumn}

	for i, cell := range header {
		h := strings.ToLower(CellText(cell))
		if h == "" {
			continue
		}

		switch {
		case containsAny(h, dateKeywords) || yearPrefixRe.MatchString(h):
			cm.Date = i
		case containsAny(h, startKeywords):
			cm.Start = i
		case containsAny(h, endKeywords):
			cm.End = i
		case containsAny(h, statusKeywords):
			cm.Status = i
		case containsAny(h, noteKeywords):
			cm.Note = i
		}
	}

	// Positional fallback for anything the headers did not name.
	if cm.Date == -1 && len(header) > 0 {
		cm.Date = 0
	}
	if cm.Start == -1 && len(header) > 1 {
		cm.Start = 1
	}
	if cm.End == -1 && len(header) > 2 {
		cm.End = 2
	}
	if cm.Note == -1 && len(header) > 3 {
		cm.Note = 3
	}
	if cm.Status == -1 && len(header) > 4 {
		cm.Status = 4
	}

	return cm
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
