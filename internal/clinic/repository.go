package clinic

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
)

var (
	ErrPatientNotFound     = errors.New("patient not found")
	ErrStaffNotFound       = errors.New("staff member not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrHolidayNotFound     = errors.New("holiday not found")
	ErrDayOffNotFound      = errors.New("day off not found")
	ErrItemNotFound        = errors.New("inventory item not found")
	ErrNoteNotFound        = errors.New("clinical note not found")
	ErrImageNotFound       = errors.New("dental image not found")

	ErrDuplicatePhone    = errors.New("phone number is already used by another staff member")
	ErrDuplicateTelegram = errors.New("telegram handle is already used by another staff member")
)

// Repository is the storage surface shared by the in-memory and Postgres backends.
// Create methods assign an id when the entity has none and stamp timestamps.
type Repository interface {
	Ping(ctx context.Context) error

	// Staff
	CreateStaff(ctx context.Context, s *Staff) error
	UpdateStaff(ctx context.Context, s *Staff) error
	DeleteStaff(ctx context.Context, id uuid.UUID) error
	GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	ListStaff(ctx context.Context) ([]Staff, error)
	IsPhoneUnique(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error)
	IsTelegramUnique(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error)

	// Patients
	CreatePatient(ctx context.Context, p *Patient) error
	UpdatePatient(ctx context.Context, p *Patient) error
	DeletePatient(ctx context.Context, id uuid.UUID) error
	GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	ListPatients(ctx context.Context) ([]Patient, error)

	// Appointments
	CreateAppointment(ctx context.Context, a *Appointment) error
	UpdateAppointment(ctx context.Context, a *Appointment) error
	DeleteAppointment(ctx context.Context, id uuid.UUID) error
	GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error)

	// Rooms
	CreateRoom(ctx context.Context, r *Room) error
	UpdateRoom(ctx context.Context, r *Room) error
	GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error)
	ListRooms(ctx context.Context) ([]Room, error)

	// Calendar blocks
	CreateHoliday(ctx context.Context, h *Holiday) error
	DeleteHoliday(ctx context.Context, id uuid.UUID) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
	CreateDayOff(ctx context.Context, d *DayOff) error
	UpdateDayOff(ctx context.Context, d *DayOff) error
	GetDayOffByID(ctx context.Context, id uuid.UUID) (*DayOff, error)
	ListDayOffs(ctx context.Context, date string) ([]DayOff, error)

	// Inventory
	CreateItem(ctx context.Context, it *InventoryItem) error
	UpdateItem(ctx context.Context, it *InventoryItem) error
	DeleteItem(ctx context.Context, id uuid.UUID) error
	GetItemByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)
	ListItems(ctx context.Context) ([]InventoryItem, error)

	// Clinical records
	CreateNote(ctx context.Context, n *ClinicalNote) error
	DeleteNote(ctx context.Context, patientID, id uuid.UUID) error
	ListNotes(ctx context.Context, patientID uuid.UUID) ([]ClinicalNote, error)
	CreateImage(ctx context.Context, img *DentalImage) error
	DeleteImage(ctx context.Context, patientID, id uuid.UUID) error
	ListImages(ctx context.Context, patientID uuid.UUID) ([]DentalImage, error)

	// Event logging
	InsertEvent(ctx context.Context, ev EventLog) error
	ListEvents(ctx context.Context, appointmentID uuid.UUID) ([]EventLog, error)
}

// Store is a Repository that also keeps tooth charts.
type Store interface {
	Repository
	chart.Store
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PgStore)(nil)
)
