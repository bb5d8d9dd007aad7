package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/appointment"
	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/schedule"
)

func createAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateAppointmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		roomID, err := optionalID(req.RoomID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_room_id", "room_id must be a valid UUID")
			return
		}

		appt, err := svc.CreateAppointment(r.Context(), appointment.Input{
			PatientID: uuid.MustParse(req.PatientID),
			DentistID: uuid.MustParse(req.DentistID),
			RoomID:    roomID,
			Date:      req.Date,
			StartTime: *req.StartTime,
			EndTime:   *req.EndTime,
			Treatment: req.Treatment,
			Notes:     req.Notes,
		})
		if err != nil {
			handleServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, appt)
	}
}

func updateAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req UpdateAppointmentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		patch := appointment.Patch{
			Date:      req.Date,
			StartTime: req.StartTime,
			EndTime:   req.EndTime,
			Treatment: req.Treatment,
			Notes:     req.Notes,
		}
		if req.PatientID != nil {
			pid := uuid.MustParse(*req.PatientID)
			patch.PatientID = &pid
		}
		if req.DentistID != nil {
			did := uuid.MustParse(*req.DentistID)
			patch.DentistID = &did
		}
		if req.RoomID != nil {
			roomID, err := optionalID(*req.RoomID)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_room_id", "room_id must be a valid UUID or empty")
				return
			}
			patch.RoomID = roomID
			patch.ClearRoom = roomID == nil
		}

		appt, err := svc.UpdateAppointment(r.Context(), id, patch)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func changeStatusHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req ChangeStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		appt, err := svc.ChangeStatus(r.Context(), id, req.Status)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func getAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		appt, err := svc.GetAppointment(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}

func deleteAppointmentHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeleteAppointment(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// listAppointmentsHandler accepts date, dentist, patient, room and a comma separated status filter.
func listAppointmentsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		f := clinic.AppointmentFilter{Date: q.Get("date")}

		dentistID, err := schedule.ParseDentistFilter(q.Get("dentist"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		f.DentistID = dentistID

		for param, dst := range map[string]*uuid.UUID{"patient": &f.PatientID, "room": &f.RoomID} {
			id, err := optionalID(q.Get(param))
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_"+param, param+" must be a valid UUID")
				return
			}
			if id != nil {
				*dst = *id
			}
		}
		if raw := q.Get("status"); raw != "" {
			for _, st := range strings.Split(raw, ",") {
				f.Statuses = append(f.Statuses, clinic.AppointmentStatus(strings.TrimSpace(st)))
			}
		}

		list, err := svc.ListAppointments(r.Context(), f)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func listEventsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		events, err := svc.ListEvents(r.Context(), id)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, events)
	}
}

// Schedule

func timelineHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dentistID, err := schedule.ParseDentistFilter(r.URL.Query().Get("dentist"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		view, err := svc.DayTimeline(r.Context(), chi.URLParam(r, "date"), dentistID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func availabilityHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slot, err := clinic.ParseClock(r.URL.Query().Get("slot"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_slot", "slot must be HH:MM")
			return
		}
		report, err := svc.Availability(r.Context(), chi.URLParam(r, "date"), slot)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

// Rooms

func listRoomsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rooms, err := svc.ListRooms(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, rooms)
	}
}

func createRoomHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RoomRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		room, err := svc.CreateRoom(r.Context(), roomInput(req))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, room)
	}
}

func updateRoomHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req RoomRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		room, err := svc.UpdateRoom(r.Context(), id, roomInput(req))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)
	}
}

func setRoomStatusHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req RoomStatusRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		room, err := svc.SetRoomStatus(r.Context(), id, req.Status)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, room)
	}
}

func roomInput(req RoomRequest) appointment.RoomInput {
	return appointment.RoomInput{
		Name:        req.Name,
		ChairNumber: req.ChairNumber,
		Floor:       req.Floor,
		Equipment:   req.Equipment,
		Status:      req.Status,
	}
}

// Holidays and days off

func listHolidaysHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListHolidays(r.Context())
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func addHolidayHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req HolidayRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		h, err := svc.AddHoliday(r.Context(), req.Date, req.Name)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, h)
	}
}

func deleteHolidayHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		if err := svc.DeleteHoliday(r.Context(), id); err != nil {
			handleServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func listDayOffsHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListDayOffs(r.Context(), r.URL.Query().Get("date"))
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func requestDayOffHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DayOffRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		d, err := svc.RequestDayOff(r.Context(), uuid.MustParse(req.StaffID), req.Date, req.Reason)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, d)
	}
}

func reviewDayOffHandler(svc *appointment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := urlID(w, r, "id")
		if !ok {
			return
		}
		var req ReviewDayOffRequest
		if !decodeJSON(w, r, &req) {
			return
		}
		d, err := svc.ReviewDayOff(r.Context(), id, req.Approve)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}
