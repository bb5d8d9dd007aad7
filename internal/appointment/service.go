package appointment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/config"
	"github.com/hackgods/dental-clinic-scheduling/internal/metrics"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
	"github.com/hackgods/dental-clinic-scheduling/internal/schedule"
)

const (
	EventAppointmentCreated       = "APPOINTMENT_CREATED"
	EventAppointmentUpdated       = "APPOINTMENT_UPDATED"
	EventAppointmentStatusChanged = "APPOINTMENT_STATUS_CHANGED"
	EventAppointmentDeleted       = "APPOINTMENT_DELETED"
	EventAppointmentNoShow        = "APPOINTMENT_NO_SHOW"
)

var (
	ErrDentistNotFound         = errors.New("dentist not found")
	ErrNotADentist             = errors.New("staff member is not a dentist")
	ErrInvalidTimeRange        = errors.New("start time must be before end time")
	ErrRoomUnavailable         = errors.New("room is under maintenance")
	ErrRoomConflict            = errors.New("room is already booked for an overlapping time")
	ErrResourceBusy            = errors.New("resource is being modified, please retry")
	ErrOutsideHours            = errors.New("appointment is outside clinic hours")
	ErrClinicClosed            = errors.New("clinic is closed for a holiday")
	ErrDentistOff              = errors.New("dentist has an approved day off")
	ErrDuringBreak             = errors.New("appointment overlaps the break")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidRoom             = errors.New("room name is required")
	ErrInvalidRoomStatus       = errors.New("invalid room status")
	ErrInvalidHoliday          = errors.New("holiday name is required")
	ErrDayOffReviewed          = errors.New("day off was already reviewed")
)

type Service struct {
	repo    Repository
	locker  redisclient.Locker
	cfg     config.Config
	grid    schedule.Grid
	brk     *schedule.Break
	metrics *metrics.Metrics
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(repo Repository, locker redisclient.Locker, cfg config.Config, m *metrics.Metrics, log zerolog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if m == nil {
		m = metrics.Nop()
	}
	s := &Service{
		repo:    repo,
		locker:  locker,
		cfg:     cfg,
		grid:    schedule.Grid{Open: cfg.ClinicOpen, Close: cfg.ClinicClose, Interval: cfg.SlotInterval},
		metrics: m,
		log:     log.With().Str("component", "appointments").Logger(),
		now:     time.Now,
	}
	if cfg.BreakStart != nil && cfg.BreakEnd != nil {
		s.brk = &schedule.Break{Start: *cfg.BreakStart, End: *cfg.BreakEnd}
	}
	return s
}

func (s *Service) Grid() schedule.Grid { return s.grid }

// CreateAppointment books a new appointment in the scheduled state.
// When a room is given, the conflict check and the insert run under a lock on that room and day
// so two concurrent requests cannot both take the room.
func (s *Service) CreateAppointment(ctx context.Context, in Input) (*clinic.Appointment, error) {
	appt := clinic.Appointment{
		ID:        uuid.New(),
		PatientID: in.PatientID,
		DentistID: in.DentistID,
		RoomID:    in.RoomID,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		Status:    clinic.StatusScheduled,
		Treatment: in.Treatment,
		Notes:     in.Notes,
	}

	if err := s.validate(ctx, &appt); err != nil {
		s.recordAttempt(err)
		return nil, err
	}

	err := s.withRoomLock(ctx, appt, func(lockCtx context.Context) error {
		if err := s.checkRoomFree(lockCtx, appt); err != nil {
			return err
		}
		if err := s.repo.CreateAppointment(lockCtx, &appt); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	s.recordAttempt(err)
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, appt.ID, EventAppointmentCreated, map[string]any{
		"patient_id": appt.PatientID.String(),
		"dentist_id": appt.DentistID.String(),
		"room_id":    roomString(appt.RoomID),
		"date":       appt.Date,
		"start_time": appt.StartTime.String(),
		"end_time":   appt.EndTime.String(),
	})
	s.log.Info().
		Str("appointment_id", appt.ID.String()).
		Str("date", appt.Date).
		Str("start", appt.StartTime.String()).
		Msg("appointment created")

	return &appt, nil
}

// UpdateAppointment applies patch to an existing appointment. Fields the patch leaves nil keep their value.
// The row is re-read under the appointment lock so a concurrent write is never overwritten with stale fields.
// Calendar checks only run when the patch moves the appointment in time, dentist or room.
func (s *Service) UpdateAppointment(ctx context.Context, id uuid.UUID, patch Patch) (*clinic.Appointment, error) {
	var (
		appt        clinic.Appointment
		reschedules bool
		checked     bool
	)
	err := s.withAppointmentLock(ctx, id, func(lockCtx context.Context) error {
		current, err := s.repo.GetAppointmentByID(lockCtx, id)
		if err != nil {
			return err
		}
		appt = *current
		reschedules = patch.apply(&appt)
		if patch.PatientID == nil && !reschedules {
			return s.saveAppointment(lockCtx, &appt)
		}

		checked = true
		if err := s.validate(lockCtx, &appt); err != nil {
			return err
		}
		if !reschedules {
			return s.saveAppointment(lockCtx, &appt)
		}
		return s.withRoomLock(lockCtx, appt, func(roomCtx context.Context) error {
			if err := s.checkRoomFree(roomCtx, appt); err != nil {
				return err
			}
			return s.saveAppointment(roomCtx, &appt)
		})
	})
	if checked {
		s.recordAttempt(err)
	}
	if err != nil {
		return nil, err
	}

	s.logEvent(ctx, appt.ID, EventAppointmentUpdated, map[string]any{
		"rescheduled": reschedules,
		"room_id":     roomString(appt.RoomID),
		"date":        appt.Date,
		"start_time":  appt.StartTime.String(),
		"end_time":    appt.EndTime.String(),
	})
	return &appt, nil
}

// ChangeStatus moves an appointment along the status machine.
// Re-activating a cancelled appointment runs the booking checks again: the room must be free and
// usable and the day must still be open for the dentist.
func (s *Service) ChangeStatus(ctx context.Context, id uuid.UUID, to clinic.AppointmentStatus) (*clinic.Appointment, error) {
	if !to.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	var (
		appt clinic.Appointment
		from clinic.AppointmentStatus
	)
	err := s.withAppointmentLock(ctx, id, func(lockCtx context.Context) error {
		current, err := s.repo.GetAppointmentByID(lockCtx, id)
		if err != nil {
			return err
		}
		from = current.Status
		if !CanTransition(from, to) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, from, to)
		}

		appt = *current
		appt.Status = to
		if from.HoldsRoom() || !to.HoldsRoom() {
			return s.saveAppointment(lockCtx, &appt)
		}

		if err := s.validate(lockCtx, &appt); err != nil {
			return err
		}
		return s.withRoomLock(lockCtx, appt, func(roomCtx context.Context) error {
			if err := s.checkRoomFree(roomCtx, appt); err != nil {
				return err
			}
			return s.saveAppointment(roomCtx, &appt)
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.StatusChanges.WithLabelValues(string(to)).Inc()
	s.logEvent(ctx, appt.ID, EventAppointmentStatusChanged, map[string]any{
		"from": string(from),
		"to":   string(to),
	})
	return &appt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	err := s.withAppointmentLock(ctx, id, func(lockCtx context.Context) error {
		return s.repo.DeleteAppointment(lockCtx, id)
	})
	if err != nil {
		return err
	}
	s.logEvent(ctx, id, EventAppointmentDeleted, map[string]any{})
	return nil
}

func (s *Service) GetAppointment(ctx context.Context, id uuid.UUID) (*clinic.Appointment, error) {
	appt, err := s.repo.GetAppointmentByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// ListAppointments returns the filtered appointments in booking order.
func (s *Service) ListAppointments(ctx context.Context, f clinic.AppointmentFilter) ([]clinic.Appointment, error) {
	if f.Date != "" {
		date, err := clinic.ParseDate(f.Date)
		if err != nil {
			return nil, err
		}
		f.Date = date
	}
	for _, st := range f.Statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, st)
		}
	}

	list, err := s.repo.ListAppointments(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return list, nil
}

func (s *Service) ListEvents(ctx context.Context, appointmentID uuid.UUID) ([]clinic.EventLog, error) {
	if _, err := s.repo.GetAppointmentByID(ctx, appointmentID); err != nil {
		return nil, err
	}
	return s.repo.ListEvents(ctx, appointmentID)
}

// MarkNoShows moves scheduled and confirmed appointments whose end passed more than the grace period
// before now to no-show. It is meant to be called periodically by the worker.
func (s *Service) MarkNoShows(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.repo.ListAppointments(ctx, clinic.AppointmentFilter{
		Statuses: []clinic.AppointmentStatus{clinic.StatusScheduled, clinic.StatusConfirmed},
	})
	if err != nil {
		return 0, fmt.Errorf("find overdue appointments: %w", err)
	}

	marked := 0
	for _, candidate := range candidates {
		if !s.overdue(candidate, now) {
			continue
		}

		var from clinic.AppointmentStatus
		err := s.withAppointmentLock(ctx, candidate.ID, func(lockCtx context.Context) error {
			appt, err := s.repo.GetAppointmentByID(lockCtx, candidate.ID)
			if err != nil {
				return err
			}
			// The row may have moved on since the listing.
			if !CanTransition(appt.Status, clinic.StatusNoShow) || !s.overdue(*appt, now) {
				return errNotOverdue
			}
			from = appt.Status
			appt.Status = clinic.StatusNoShow
			return s.saveAppointment(lockCtx, appt)
		})
		switch {
		case errors.Is(err, errNotOverdue), errors.Is(err, clinic.ErrAppointmentNotFound):
			continue
		case err != nil:
			s.log.Error().Err(err).Str("appointment_id", candidate.ID.String()).Msg("failed to mark no-show")
			continue
		}

		marked++
		s.metrics.NoShowsMarked.Inc()
		s.metrics.StatusChanges.WithLabelValues(string(clinic.StatusNoShow)).Inc()
		s.logEvent(ctx, candidate.ID, EventAppointmentNoShow, map[string]any{
			"reason": "worker",
			"from":   string(from),
		})
	}
	return marked, nil
}

var errNotOverdue = errors.New("appointment is not overdue")

func (s *Service) overdue(a clinic.Appointment, now time.Time) bool {
	end, err := clinic.At(a.Date, a.EndTime, s.cfg.Location)
	if err != nil {
		s.log.Warn().Err(err).Str("appointment_id", a.ID.String()).Msg("skipping appointment with bad date")
		return false
	}
	return end.Add(s.cfg.NoShowGrace).Before(now)
}

// DayTimeline builds the day view for date, optionally for a single dentist.
func (s *Service) DayTimeline(ctx context.Context, date string, dentistID uuid.UUID) (*DayView, error) {
	date, err := clinic.ParseDate(date)
	if err != nil {
		return nil, err
	}

	all, err := s.repo.ListAppointments(ctx, clinic.AppointmentFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	blocks, err := s.blocksFor(ctx, date)
	if err != nil {
		return nil, err
	}
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	dentists := clinic.Dentists(staff)
	if dentistID != uuid.Nil {
		filtered := dentists[:0]
		for _, d := range dentists {
			if d.ID == dentistID {
				filtered = append(filtered, d)
			}
		}
		if len(filtered) == 0 {
			return nil, ErrDentistNotFound
		}
		dentists = filtered
	}

	day := schedule.AppointmentsForDay(all, date, dentistID)
	return &DayView{
		Timeline: schedule.BuildTimeline(date, s.grid, day, rooms, blocks),
		Dentists: dentists,
	}, nil
}

// Availability reports the appointments running at slot and the rooms still free.
// Rooms are shared, so every dentist's appointments count.
func (s *Service) Availability(ctx context.Context, date string, slot clinic.Clock) (*Availability, error) {
	date, err := clinic.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if !slot.Valid() {
		return nil, clinic.ErrInvalidClock
	}

	all, err := s.repo.ListAppointments(ctx, clinic.AppointmentFilter{Date: date})
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	rooms, err := s.repo.ListRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	blocks, err := s.blocksFor(ctx, date)
	if err != nil {
		return nil, err
	}

	day := schedule.AppointmentsForDay(all, date, uuid.Nil)
	free := schedule.AvailableRooms(slot, day, rooms)
	return &Availability{
		Date:           date,
		Slot:           slot,
		Active:         schedule.ActiveAt(slot, day),
		AvailableRooms: free,
		Available:      len(free) > 0,
		InBreak:        s.brk.Covers(slot),
		Holiday:        blocks.HolidayOn(date),
	}, nil
}

// Rooms

func (s *Service) CreateRoom(ctx context.Context, in RoomInput) (*clinic.Room, error) {
	room := clinic.Room{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(in.Name),
		ChairNumber: in.ChairNumber,
		Floor:       in.Floor,
		Equipment:   in.Equipment,
		Status:      in.Status,
	}
	if room.Status == "" {
		room.Status = clinic.RoomAvailable
	}
	if err := validateRoom(room); err != nil {
		return nil, err
	}
	if err := s.repo.CreateRoom(ctx, &room); err != nil {
		return nil, fmt.Errorf("create room: %w", err)
	}
	return &room, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id uuid.UUID, in RoomInput) (*clinic.Room, error) {
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Name = strings.TrimSpace(in.Name)
	room.ChairNumber = in.ChairNumber
	room.Floor = in.Floor
	room.Equipment = in.Equipment
	if in.Status != "" {
		room.Status = in.Status
	}
	if err := validateRoom(*room); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("update room: %w", err)
	}
	return room, nil
}

// SetRoomStatus switches a room between available, occupied and maintenance.
// Existing bookings stay; the room simply stops showing as free while under maintenance.
func (s *Service) SetRoomStatus(ctx context.Context, id uuid.UUID, status clinic.RoomStatus) (*clinic.Room, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoomStatus, status)
	}
	room, err := s.repo.GetRoomByID(ctx, id)
	if err != nil {
		return nil, err
	}
	room.Status = status
	if err := s.repo.UpdateRoom(ctx, room); err != nil {
		return nil, fmt.Errorf("update room status: %w", err)
	}
	s.log.Info().Str("room_id", id.String()).Str("status", string(status)).Msg("room status changed")
	return room, nil
}

func (s *Service) ListRooms(ctx context.Context) ([]clinic.Room, error) {
	return s.repo.ListRooms(ctx)
}

func validateRoom(r clinic.Room) error {
	if r.Name == "" {
		return ErrInvalidRoom
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRoomStatus, r.Status)
	}
	return nil
}

// Holidays and days off

func (s *Service) AddHoliday(ctx context.Context, date, name string) (*clinic.Holiday, error) {
	date, err := clinic.ParseDate(date)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidHoliday
	}
	h := clinic.Holiday{ID: uuid.New(), Date: date, Name: name}
	if err := s.repo.CreateHoliday(ctx, &h); err != nil {
		return nil, fmt.Errorf("create holiday: %w", err)
	}
	return &h, nil
}

func (s *Service) ListHolidays(ctx context.Context) ([]clinic.Holiday, error) {
	return s.repo.ListHolidays(ctx)
}

func (s *Service) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteHoliday(ctx, id)
}

// RequestDayOff files a pending day-off request for a staff member.
func (s *Service) RequestDayOff(ctx context.Context, staffID uuid.UUID, date string, reason *string) (*clinic.DayOff, error) {
	date, err := clinic.ParseDate(date)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStaffByID(ctx, staffID); err != nil {
		return nil, err
	}
	d := clinic.DayOff{
		ID:      uuid.New(),
		StaffID: staffID,
		Date:    date,
		Reason:  reason,
		Status:  clinic.DayOffPending,
	}
	if err := s.repo.CreateDayOff(ctx, &d); err != nil {
		return nil, fmt.Errorf("create day off: %w", err)
	}
	return &d, nil
}

// ReviewDayOff approves or rejects a pending request. Only approved days off block bookings.
func (s *Service) ReviewDayOff(ctx context.Context, id uuid.UUID, approve bool) (*clinic.DayOff, error) {
	d, err := s.repo.GetDayOffByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != clinic.DayOffPending {
		return nil, ErrDayOffReviewed
	}
	d.Status = clinic.DayOffRejected
	if approve {
		d.Status = clinic.DayOffApproved
	}
	if err := s.repo.UpdateDayOff(ctx, d); err != nil {
		return nil, fmt.Errorf("review day off: %w", err)
	}
	return d, nil
}

// ListDayOffs lists requests on date, or all of them when date is empty.
func (s *Service) ListDayOffs(ctx context.Context, date string) ([]clinic.DayOff, error) {
	if date != "" {
		var err error
		if date, err = clinic.ParseDate(date); err != nil {
			return nil, err
		}
	}
	return s.repo.ListDayOffs(ctx, date)
}

// validate checks the appointment's own fields and everything it references.
// The date is normalised in place.
func (s *Service) validate(ctx context.Context, a *clinic.Appointment) error {
	date, err := clinic.ParseDate(a.Date)
	if err != nil {
		return err
	}
	a.Date = date

	if !a.StartTime.Valid() || !a.EndTime.Valid() {
		return clinic.ErrInvalidClock
	}
	if a.StartTime >= a.EndTime {
		return ErrInvalidTimeRange
	}

	if _, err := s.repo.GetPatientByID(ctx, a.PatientID); err != nil {
		return err
	}

	dentist, err := s.repo.GetStaffByID(ctx, a.DentistID)
	if err != nil {
		if errors.Is(err, clinic.ErrStaffNotFound) {
			return ErrDentistNotFound
		}
		return fmt.Errorf("load dentist: %w", err)
	}
	if dentist.Role != clinic.RoleDentist || dentist.Status == clinic.StaffInactive {
		return ErrNotADentist
	}

	if a.RoomID != nil {
		room, err := s.repo.GetRoomByID(ctx, *a.RoomID)
		if err != nil {
			return err
		}
		if room.Status == clinic.RoomMaintenance {
			return ErrRoomUnavailable
		}
	}

	if !s.cfg.EnforceBlocks {
		return nil
	}
	if !s.grid.Contains(a.StartTime, a.EndTime) {
		return ErrOutsideHours
	}
	if s.brk.Overlaps(a.StartTime, a.EndTime) {
		return ErrDuringBreak
	}
	blocks, err := s.blocksFor(ctx, a.Date)
	if err != nil {
		return err
	}
	if h := blocks.HolidayOn(a.Date); h != nil {
		return fmt.Errorf("%w: %s", ErrClinicClosed, h.Name)
	}
	if blocks.StaffOff(a.DentistID, a.Date) {
		return ErrDentistOff
	}
	return nil
}

func (s *Service) blocksFor(ctx context.Context, date string) (schedule.Blocks, error) {
	holidays, err := s.repo.ListHolidays(ctx)
	if err != nil {
		return schedule.Blocks{}, fmt.Errorf("list holidays: %w", err)
	}
	dayOffs, err := s.repo.ListDayOffs(ctx, date)
	if err != nil {
		return schedule.Blocks{}, fmt.Errorf("list day offs: %w", err)
	}
	return schedule.Blocks{Break: s.brk, Holidays: holidays, DayOffs: dayOffs}, nil
}

// withAppointmentLock runs fn under the lock of one appointment. Every write path re-reads the row inside it.
func (s *Service) withAppointmentLock(ctx context.Context, id uuid.UUID, fn func(ctx context.Context) error) error {
	err := s.locker.WithLock(ctx, redisclient.AppointmentKey(id), fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrResourceBusy
	}
	return err
}

func (s *Service) saveAppointment(ctx context.Context, a *clinic.Appointment) error {
	if err := s.repo.UpdateAppointment(ctx, a); err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// withRoomLock runs fn under the lock of a's room and day. Appointments without a room need no lock.
func (s *Service) withRoomLock(ctx context.Context, a clinic.Appointment, fn func(ctx context.Context) error) error {
	if a.RoomID == nil || !s.cfg.EnforceRooms {
		return fn(ctx)
	}
	err := s.locker.WithLock(ctx, redisclient.RoomDayKey(*a.RoomID, a.Date), fn)
	if errors.Is(err, redisclient.ErrLockNotAcquired) {
		return ErrResourceBusy
	}
	return err
}

// checkRoomFree must run under the room lock.
func (s *Service) checkRoomFree(ctx context.Context, a clinic.Appointment) error {
	if a.RoomID == nil || !s.cfg.EnforceRooms || !a.Status.HoldsRoom() {
		return nil
	}
	day, err := s.repo.ListAppointments(ctx, clinic.AppointmentFilter{Date: a.Date, RoomID: *a.RoomID})
	if err != nil {
		return fmt.Errorf("check room bookings: %w", err)
	}
	if conflicts := schedule.RoomConflicts(a, day); len(conflicts) > 0 {
		c := conflicts[0]
		return fmt.Errorf("%w: %s %s-%s", ErrRoomConflict, c.ID, c.StartTime, c.EndTime)
	}
	return nil
}

func (s *Service) recordAttempt(err error) {
	result := "ok"
	switch {
	case err == nil:
	case errors.Is(err, ErrRoomConflict):
		result = "conflict"
	case errors.Is(err, ErrResourceBusy):
		result = "busy"
	case errors.Is(err, ErrOutsideHours), errors.Is(err, ErrClinicClosed),
		errors.Is(err, ErrDentistOff), errors.Is(err, ErrDuringBreak),
		errors.Is(err, ErrRoomUnavailable):
		result = "blocked"
	default:
		result = "rejected"
	}
	s.metrics.BookingAttempts.WithLabelValues(result).Inc()
}

func (s *Service) logEvent(ctx context.Context, appointmentID uuid.UUID, eventType string, payload map[string]any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.log.Error().Err(err).Str("event_type", eventType).Msg("failed to marshal event payload")
		data = nil
	}

	apptID := appointmentID

	ev := clinic.EventLog{
		EventType:     eventType,
		AppointmentID: &apptID,
		Payload:       data,
		CreatedAt:     s.now(),
	}

	if err := s.repo.InsertEvent(ctx, ev); err != nil {
		s.log.Error().Err(err).
			Str("event_type", eventType).
			Str("appointment_id", appointmentID.String()).
			Msg("failed to insert event log")
	}
}

func roomString(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}
