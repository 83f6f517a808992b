/*
dto.go - Request/response data structures

PURPOSE:
  JSON shapes for the attendance API. Keeps serialization concerns out of
  the handlers and the domain types out of the wire format.

CONVENTIONS:
  - Dates as YYYY-MM-DD strings
  - Clock times as HH:MM strings, null when absent
  - Hours as numbers rounded to two decimals, plus formatted Korean
    strings where the UI renders them directly
*/
package api

import (
	"github.com/warp/attendance-engine/attendance"
)

// =============================================================================
// REQUESTS
// =============================================================================

// EditTimeRequest edits one clock field of a record.
type EditTimeRequest struct {
	Field string `json:"field"` // "start_time" or "end_time"
	Value string `json:"value"` // strict H:MM
}

// EditLeaveRequest edits a record's annual-leave hours.
type EditLeaveRequest struct {
	Value string `json:"value"`
}

// SetHolidayRequest toggles a record date's holiday flag.
type SetHolidayRequest struct {
	Holiday bool `json:"holiday"`
}

// =============================================================================
// RESPONSES
// =============================================================================

// RecordDTO is one classified attendance record.
type RecordDTO struct {
	Index            int     `json:"index"`
	Date             string  `json:"date"`
	DateLabel        string  `json:"date_label"` // with Korean weekday
	StartTime        *string `json:"start_time"`
	EndTime          *string `json:"end_time"`
	WorkHours        float64 `json:"work_hours"`
	BreakHours       float64 `json:"break_hours"`
	ActualWorkHours  float64 `json:"actual_work_hours"`
	Status           string  `json:"status"`
	AnnualLeaveHours float64 `json:"annual_leave_hours"`
	LeaveDays        float64 `json:"leave_days"`
	Note             string  `json:"note"`
	Holiday          bool    `json:"holiday"`
	Protected        bool    `json:"protected"`
}

// SummaryDTO is the monthly aggregate.
type SummaryDTO struct {
	NormalWorkDays    int     `json:"normal_work_days"`
	RequiredWorkHours float64 `json:"required_work_hours"`
	TotalWorkHours    float64 `json:"total_work_hours"`
	TotalBreakHours   float64 `json:"total_break_hours"`
	RegularHours      float64 `json:"regular_hours"`
	OvertimeHours     float64 `json:"overtime_hours"`
	AnnualLeaveDays   float64 `json:"annual_leave_days"`
	ShortageHours     float64 `json:"shortage_hours"`
	ShortageLabel     string  `json:"shortage_label"` // "H시간 M분", signed
}

// UploadResponse acknowledges a processed workbook.
type UploadResponse struct {
	Sheet       string     `json:"sheet"`
	RecordCount int        `json:"record_count"`
	Summary     SummaryDTO `json:"summary"`
}

// RecordUpdateResponse returns an edited record plus the refreshed totals.
type RecordUpdateResponse struct {
	Record  RecordDTO  `json:"record"`
	Summary SummaryDTO `json:"summary"`
}

// HolidayDTO is one calendar date.
type HolidayDTO struct {
	Date      string `json:"date"`
	Protected bool   `json:"protected"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toRecordDTO(index int, rec attendance.ClassifiedRecord, cal *attendance.Calendar) RecordDTO {
	var start, end *string
	if rec.StartTime != nil {
		s := rec.StartTime.String()
		start = &s
	}
	if rec.EndTime != nil {
		s := rec.EndTime.String()
		end = &s
	}

	return RecordDTO{
		Index:            index,
		Date:             rec.Date.String(),
		DateLabel:        rec.Date.KoreanString(),
		StartTime:        start,
		EndTime:          end,
		WorkHours:        attendance.RoundHours(rec.WorkHours),
		BreakHours:       attendance.RoundHours(rec.BreakHours),
		ActualWorkHours:  attendance.RoundHours(rec.ActualWorkHours),
		Status:           string(rec.Status),
		AnnualLeaveHours: rec.AnnualLeaveHours,
		LeaveDays:        rec.LeaveDays,
		Note:             rec.Note,
		Holiday:          cal.IsHoliday(rec.Date),
		Protected:        cal.IsProtected(rec.Date),
	}
}

func toSummaryDTO(s attendance.MonthlySummary) SummaryDTO {
	return SummaryDTO{
		NormalWorkDays:    s.NormalWorkDays,
		RequiredWorkHours: s.RequiredWorkHours,
		TotalWorkHours:    s.TotalWorkHours,
		TotalBreakHours:   s.TotalBreakHours,
		RegularHours:      s.RegularHours,
		OvertimeHours:     s.OvertimeHours,
		AnnualLeaveDays:   s.AnnualLeaveDays,
		ShortageHours:     s.ShortageHours,
		ShortageLabel:     attendance.FormatHoursKorean(s.ShortageHours),
	}
}
