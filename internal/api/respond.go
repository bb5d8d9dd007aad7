package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/appointment"
	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/directory"
	"github.com/hackgods/dental-clinic-scheduling/internal/inventory"
	"github.com/hackgods/dental-clinic-scheduling/internal/records"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
	"github.com/hackgods/dental-clinic-scheduling/internal/schedule"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, details string) {
	writeJSON(w, status, ErrorResponse{Error: code, Details: details})
}

// decodeJSON reads a request body into dst and runs its validate tags.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request_body", fmt.Sprintf("could not parse JSON: %v", err))
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return false
	}
	return true
}

func urlID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+param, param+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}

func optionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// handleServiceError maps service sentinels onto the HTTP error contract.
func handleServiceError(w http.ResponseWriter, err error) {
	switch {
	// 404
	case errors.Is(err, clinic.ErrPatientNotFound), errors.Is(err, chart.ErrPatientNotFound):
		writeError(w, http.StatusNotFound, "patient_not_found", err.Error())
	case errors.Is(err, clinic.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, appointment.ErrDentistNotFound):
		writeError(w, http.StatusNotFound, "dentist_not_found", err.Error())
	case errors.Is(err, clinic.ErrRoomNotFound):
		writeError(w, http.StatusNotFound, "room_not_found", err.Error())
	case errors.Is(err, clinic.ErrAppointmentNotFound):
		writeError(w, http.StatusNotFound, "appointment_not_found", err.Error())
	case errors.Is(err, clinic.ErrHolidayNotFound):
		writeError(w, http.StatusNotFound, "holiday_not_found", err.Error())
	case errors.Is(err, clinic.ErrDayOffNotFound):
		writeError(w, http.StatusNotFound, "day_off_not_found", err.Error())
	case errors.Is(err, clinic.ErrItemNotFound):
		writeError(w, http.StatusNotFound, "item_not_found", err.Error())
	case errors.Is(err, clinic.ErrNoteNotFound):
		writeError(w, http.StatusNotFound, "note_not_found", err.Error())
	case errors.Is(err, clinic.ErrImageNotFound):
		writeError(w, http.StatusNotFound, "image_not_found", err.Error())

	// 409
	case errors.Is(err, appointment.ErrRoomConflict):
		writeError(w, http.StatusConflict, "room_conflict", err.Error())
	case errors.Is(err, appointment.ErrResourceBusy), errors.Is(err, redisclient.ErrLockNotAcquired):
		writeError(w, http.StatusConflict, "resource_busy", "resource is currently being modified, please retry shortly")
	case errors.Is(err, appointment.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, appointment.ErrRoomUnavailable):
		writeError(w, http.StatusConflict, "room_under_maintenance", err.Error())
	case errors.Is(err, appointment.ErrClinicClosed):
		writeError(w, http.StatusConflict, "clinic_closed", err.Error())
	case errors.Is(err, appointment.ErrDentistOff):
		writeError(w, http.StatusConflict, "dentist_day_off", err.Error())
	case errors.Is(err, appointment.ErrDuringBreak):
		writeError(w, http.StatusConflict, "during_break", err.Error())
	case errors.Is(err, appointment.ErrOutsideHours):
		writeError(w, http.StatusConflict, "outside_clinic_hours", err.Error())
	case errors.Is(err, appointment.ErrDayOffReviewed):
		writeError(w, http.StatusConflict, "day_off_already_reviewed", err.Error())
	case errors.Is(err, directory.ErrDuplicatePhone):
		writeError(w, http.StatusConflict, "duplicate_phone", err.Error())
	case errors.Is(err, directory.ErrDuplicateTelegram):
		writeError(w, http.StatusConflict, "duplicate_telegram", err.Error())
	case errors.Is(err, inventory.ErrInsufficientStock):
		writeError(w, http.StatusConflict, "insufficient_stock", err.Error())

	// 400
	case errors.Is(err, clinic.ErrInvalidDate), errors.Is(err, chart.ErrInvalidDate):
		writeError(w, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, clinic.ErrInvalidClock):
		writeError(w, http.StatusBadRequest, "invalid_time", err.Error())
	case errors.Is(err, appointment.ErrInvalidTimeRange):
		writeError(w, http.StatusBadRequest, "invalid_time_range", err.Error())
	case errors.Is(err, appointment.ErrNotADentist):
		writeError(w, http.StatusBadRequest, "not_a_dentist", err.Error())
	case errors.Is(err, appointment.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, appointment.ErrInvalidRoom), errors.Is(err, appointment.ErrInvalidRoomStatus),
		errors.Is(err, appointment.ErrInvalidHoliday):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, schedule.ErrInvalidDentist):
		writeError(w, http.StatusBadRequest, "invalid_dentist_filter", err.Error())
	case errors.Is(err, chart.ErrInvalidTooth):
		writeError(w, http.StatusBadRequest, "invalid_tooth", err.Error())
	case errors.Is(err, chart.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid_tooth_status", err.Error())
	case errors.Is(err, chart.ErrInvalidSurface):
		writeError(w, http.StatusBadRequest, "invalid_surface", err.Error())
	case errors.Is(err, chart.ErrUnknownTreatment):
		writeError(w, http.StatusBadRequest, "unknown_treatment", err.Error())
	case errors.Is(err, chart.ErrUnknownDentist):
		writeError(w, http.StatusBadRequest, "unknown_dentist", err.Error())
	case errors.Is(err, directory.ErrPasswordTooShort), errors.Is(err, directory.ErrPasswordMismatch):
		writeError(w, http.StatusBadRequest, "invalid_password", err.Error())
	case errors.Is(err, directory.ErrInvalidInput), errors.Is(err, inventory.ErrInvalidInput),
		errors.Is(err, records.ErrInvalidInput), errors.Is(err, records.ErrInvalidKind):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())

	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
