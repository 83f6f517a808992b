/*
handlers.go - HTTP API handlers for the attendance engine

PURPOSE:
  Exposes the attendance derivation engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Attendance:
    POST   /api/attendance/upload                  Upload a workbook
    GET    /api/attendance/summary                 Monthly summary
    GET    /api/attendance/records                 Classified records
    PUT    /api/attendance/records/{index}/time    Edit a clock time
    PUT    /api/attendance/records/{index}/leave   Edit leave hours
    PUT    /api/attendance/records/{index}/holiday Toggle holiday flag

  Holidays:
    GET    /api/holidays                           Holiday calendar

ARCHITECTURE:
  Handler holds the one live batch behind a mutex: uploading replaces it,
  edits mutate it, reads snapshot it. A failed upload leaves the previous
  batch untouched. The holiday calendar is shared across uploads so user
  toggles survive a re-upload.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, unusable workbooks, invalid time input
  - 404: No batch loaded, record index out of range
  - 409: Removing a protected holiday
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/warp/attendance-engine/attendance"
	"github.com/warp/attendance-engine/store/sqlite"
	"github.com/warp/attendance-engine/workbook"
)

const maxUploadBytes = 10 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	mu    sync.Mutex
	batch *attendance.Batch
	sheet string

	store    *sqlite.Store // nil disables persistence
	calendar *attendance.Calendar
	today    func() attendance.Date
	log      *slog.Logger
}

// NewHandler creates a new handler. The calendar is shared with every
// batch the handler creates; a nil store disables persistence.
func NewHandler(store *sqlite.Store, cal *attendance.Calendar, log *slog.Logger) *Handler {
	if cal == nil {
		cal = attendance.NewCalendar(nil, nil)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Handler{
		store:    store,
		calendar: cal,
		today:    attendance.Today,
		log:      log,
	}
}

// SetClock overrides the handler's notion of "today". Tests use this to
// anchor scheduled-day classification.
func (h *Handler) SetClock(today func() attendance.Date) {
	h.today = today
}

// Restore installs a previously persisted batch, applying any saved
// holiday overrides first. Called once at startup.
func (h *Handler) Restore(sheet string, records []attendance.Record, overrides map[attendance.Date]bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for date, holiday := range overrides {
		if holiday {
			h.calendar.Add(date)
		} else if err := h.calendar.Remove(date); err != nil {
			h.log.Warn("skipping invalid holiday override", "date", date, "error", err)
		}
	}

	if len(records) == 0 {
		return
	}
	h.batch = attendance.NewBatch(records, h.calendar, h.today(), h.log)
	h.sheet = sheet
	h.log.Info("restored persisted batch", "sheet", sheet, "records", len(records))
}

// =============================================================================
// UPLOAD
// =============================================================================

// UploadWorkbook ingests a spreadsheet and replaces the current batch.
func (h *Handler) UploadWorkbook(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Missing file upload", err)
		return
	}
	defer file.Close()

	sheet, err := workbook.Read(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Unreadable workbook", err)
		return
	}

	records, err := attendance.BuildRecords(sheet.Rows(), h.log)
	if err != nil {
		if attendance.IsIngestError(err) {
			writeError(w, http.StatusBadRequest, "No usable attendance rows", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to build records", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.batch = attendance.NewBatch(records, h.calendar, h.today(), h.log)
	h.sheet = sheet.Name
	h.persistBatch(r, records)

	h.log.Info("workbook ingested", "file", header.Filename, "sheet", sheet.Name,
		"records", len(records))

	writeJSON(w, http.StatusCreated, UploadResponse{
		Sheet:       sheet.Name,
		RecordCount: len(records),
		Summary:     toSummaryDTO(h.batch.Summary),
	})
}

// =============================================================================
// READS
// =============================================================================

// GetSummary returns the monthly aggregate for the current batch.
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.batch == nil {
		writeError(w, http.StatusNotFound, "No attendance data loaded", nil)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(h.batch.Summary))
}

// ListRecords returns the classified records for the current batch.
func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.batch == nil {
		writeError(w, http.StatusNotFound, "No attendance data loaded", nil)
		return
	}

	records := h.batch.Records()
	dtos := make([]RecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toRecordDTO(i, rec, h.batch.Calendar)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// EDITS
// =============================================================================

// EditTime edits one clock field of a record.
func (h *Handler) EditTime(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var req EditTimeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	field := attendance.TimeField(req.Field)
	if field != attendance.FieldStartTime && field != attendance.FieldEndTime {
		writeError(w, http.StatusBadRequest, "Field must be start_time or end_time", nil)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.batch == nil {
		writeError(w, http.StatusNotFound, "No attendance data loaded", nil)
		return
	}

	rec, err := h.batch.EditTime(index, field, req.Value)
	if err != nil {
		writeEditError(w, err)
		return
	}

	h.persistRecord(r, index, *rec)
	writeJSON(w, http.StatusOK, RecordUpdateResponse{
		Record:  toRecordDTO(index, *rec, h.batch.Calendar),
		Summary: toSummaryDTO(h.batch.Summary),
	})
}

// EditLeave edits a record's annual-leave hours.
func (h *Handler) EditLeave(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var req EditLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.batch == nil {
		writeError(w, http.StatusNotFound, "No attendance data loaded", nil)
		return
	}

	rec, err := h.batch.EditLeaveHours(index, req.Value)
	if err != nil {
		writeEditError(w, err)
		return
	}

	h.persistRecord(r, index, *rec)
	writeJSON(w, http.StatusOK, RecordUpdateResponse{
		Record:  toRecordDTO(index, *rec, h.batch.Calendar),
		Summary: toSummaryDTO(h.batch.Summary),
	})
}

// SetHoliday toggles the holiday flag for a record's date.
func (h *Handler) SetHoliday(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}

	var req SetHolidayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.batch == nil {
		writeError(w, http.StatusNotFound, "No attendance data loaded", nil)
		return
	}

	if err := h.batch.SetHoliday(index, req.Holiday); err != nil {
		writeEditError(w, err)
		return
	}

	rec := h.batch.Records()[index]
	if h.store != nil {
		if err := h.store.SaveHolidayOverride(r.Context(), rec.Date, req.Holiday); err != nil {
			h.log.Warn("failed to persist holiday override", "date", rec.Date, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, RecordUpdateResponse{
		Record:  toRecordDTO(index, rec, h.batch.Calendar),
		Summary: toSummaryDTO(h.batch.Summary),
	})
}

// =============================================================================
// HOLIDAYS
// =============================================================================

// ListHolidays returns the current holiday calendar.
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	dates := h.calendar.Dates()
	dtos := make([]HolidayDTO, len(dates))
	for i, d := range dates {
		dtos[i] = HolidayDTO{Date: d.String(), Protected: h.calendar.IsProtected(d)}
	}
	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) persistBatch(r *http.Request, records []attendance.Record) {
	if h.store == nil {
		return
	}
	if err := h.store.SaveBatch(r.Context(), h.sheet, records); err != nil {
		h.log.Warn("failed to persist batch", "sheet", h.sheet, "error", err)
	}
}

func (h *Handler) persistRecord(r *http.Request, index int, rec attendance.ClassifiedRecord) {
	if h.store == nil {
		return
	}
	if err := h.store.UpdateRecord(r.Context(), index, rec); err != nil {
		h.log.Warn("failed to persist record edit", "index", index, "error", err)
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid record index", err)
		return 0, false
	}
	return index, true
}

// writeEditError maps domain edit errors to HTTP statuses.
func writeEditError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrInvalidTime):
		writeError(w, http.StatusBadRequest, "Invalid time (use H:MM)", err)
	case errors.Is(err, attendance.ErrRecordIndex):
		writeError(w, http.StatusNotFound, "Record not found", err)
	case errors.Is(err, attendance.ErrProtectedHoliday):
		writeError(w, http.StatusConflict, "Default holidays cannot be removed", err)
	default:
		writeError(w, http.StatusBadRequest, "Edit rejected", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
