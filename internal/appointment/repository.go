package appointment

import (
	"context"

	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

// Repository contains the storage calls the booking service makes.
// clinic.MemoryStore and clinic.PgStore both satisfy it.
type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (*clinic.Staff, error)
	ListStaff(ctx context.Context) ([]clinic.Staff, error)

	// Rooms
	CreateRoom(ctx context.Context, r *clinic.Room) error
	UpdateRoom(ctx context.Context, r *clinic.Room) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (*clinic.Room, error)
	ListRooms(ctx context.Context) ([]clinic.Room, error)

	// Creation and updates
	CreateAppointment(ctx context.Context, a *clinic.Appointment) error
	UpdateAppointment(ctx context.Context, a *clinic.Appointment) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*clinic.Appointment, error)
	ListAppointments(ctx context.Context, f clinic.AppointmentFilter) ([]clinic.Appointment, error)

	// Calendar blocks
	CreateHoliday(ctx context.Context, h *clinic.Holiday) error
	DeleteHoliday(ctx context.Context, id uuid.UUID) error
	ListHolidays(ctx context.Context) ([]clinic.Holiday, error)
	CreateDayOff(ctx context.Context, d *clinic.DayOff) error
	UpdateDayOff(ctx context.Context, d *clinic.DayOff) error
	GetDayOffByID(ctx context.Context, id uuid.UUID) (*clinic.DayOff, error)
	ListDayOffs(ctx context.Context, date string) ([]clinic.DayOff, error)

	// Event logging
	InsertEvent(ctx context.Context, ev clinic.EventLog) error
	ListEvents(ctx context.Context, appointmentID uuid.UUID) ([]clinic.EventLog, error)
}
