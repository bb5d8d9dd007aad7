package clinic

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no-show"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusConfirmed, StatusInProgress, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// HoldsRoom reports whether an appointment in this status still blocks its room for new bookings.
func (s AppointmentStatus) HoldsRoom() bool {
	return s != StatusCancelled && s != StatusNoShow
}

type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
)

func (s RoomStatus) Valid() bool {
	return s == RoomAvailable || s == RoomOccupied || s == RoomMaintenance
}

type StaffRole string

const (
	RoleDentist      StaffRole = "dentist"
	RoleHygienist    StaffRole = "hygienist"
	RoleAssistant    StaffRole = "assistant"
	RoleReceptionist StaffRole = "receptionist"
	RoleAdmin        StaffRole = "admin"
)

type StaffStatus string

const (
	StaffActive   StaffStatus = "active"
	StaffOnLeave  StaffStatus = "on-leave"
	StaffInactive StaffStatus = "inactive"
)

type DayOffStatus string

const (
	DayOffPending  DayOffStatus = "pending"
	DayOffApproved DayOffStatus = "approved"
	DayOffRejected DayOffStatus = "rejected"
)

type ImageKind string

const (
	ImageXRay  ImageKind = "xray"
	ImagePhoto ImageKind = "photo"
	ImageScan  ImageKind = "scan"
)

type Patient struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Phone          string    `json:"phone"`
	Email          *string   `json:"email,omitempty"`
	DateOfBirth    *string   `json:"date_of_birth,omitempty"`
	Gender         *string   `json:"gender,omitempty"`
	Address        *string   `json:"address,omitempty"`
	Allergies      []string  `json:"allergies"`
	MedicalHistory *string   `json:"medical_history,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type Staff struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Role           StaffRole   `json:"role"`
	Specialization *string     `json:"specialization,omitempty"`
	Phone          string      `json:"phone"`
	Telegram       *string     `json:"telegram,omitempty"`
	Email          *string     `json:"email,omitempty"`
	Status         StaffStatus `json:"status"`
	PasswordHash   string      `json:"-"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Dentist is the read-only view of a staff member who can treat patients.
type Dentist struct {
	ID             uuid.UUID   `json:"id"`
	Name           string      `json:"name"`
	Specialization *string     `json:"specialization,omitempty"`
	Phone          string      `json:"phone"`
	Status         StaffStatus `json:"status"`
}

type Room struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	ChairNumber int        `json:"chair_number"`
	Floor       int        `json:"floor"`
	Equipment   []string   `json:"equipment"`
	Status      RoomStatus `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type Appointment struct {
	ID        uuid.UUID         `json:"id"`
	PatientID uuid.UUID         `json:"patient_id"`
	DentistID uuid.UUID         `json:"dentist_id"`
	RoomID    *uuid.UUID        `json:"room_id,omitempty"`
	Date      string            `json:"date"`
	StartTime Clock             `json:"start_time"`
	EndTime   Clock             `json:"end_time"`
	Status    AppointmentStatus `json:"status"`
	Treatment *string           `json:"treatment,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// HoldsRoom reports whether the appointment occupies roomID.
func (a Appointment) HoldsRoom(roomID uuid.UUID) bool {
	return a.RoomID != nil && *a.RoomID == roomID
}

type InventoryItem struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Quantity    int       `json:"quantity"`
	Unit        string    `json:"unit"`
	MinQuantity int       `json:"min_quantity"`
	Supplier    *string   `json:"supplier,omitempty"`
	ExpiryDate  *string   `json:"expiry_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ClinicalNote struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DentistID uuid.UUID `json:"dentist_id"`
	Date      string    `json:"date"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type DentalImage struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	Kind      ImageKind `json:"kind"`
	FileName  string    `json:"file_name"`
	TakenAt   string    `json:"taken_at"`
	Notes     *string   `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Holiday struct {
	ID   uuid.UUID `json:"id"`
	Date string    `json:"date"`
	Name string    `json:"name"`
}

type DayOff struct {
	ID        uuid.UUID    `json:"id"`
	StaffID   uuid.UUID    `json:"staff_id"`
	Date      string       `json:"date"`
	Reason    *string      `json:"reason,omitempty"`
	Status    DayOffStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type EventLog struct {
	ID            int64      `json:"id"`
	EventType     string     `json:"event_type"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	Payload       []byte     `json:"payload,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// AppointmentFilter narrows ListAppointments. Zero values match everything.
type AppointmentFilter struct {
	Date      string
	DentistID uuid.UUID
	PatientID uuid.UUID
	RoomID    uuid.UUID
	Statuses  []AppointmentStatus
}

func (f AppointmentFilter) Match(a Appointment) bool {
	if f.Date != "" && a.Date != f.Date {
		return false
	}
	if f.DentistID != uuid.Nil && a.DentistID != f.DentistID {
		return false
	}
	if f.PatientID != uuid.Nil && a.PatientID != f.PatientID {
		return false
	}
	if f.RoomID != uuid.Nil && !a.HoldsRoom(f.RoomID) {
		return false
	}
	if len(f.Statuses) > 0 {
		for _, s := range f.Statuses {
			if a.Status == s {
				return true
			}
		}
		return false
	}
	return true
}

// Dentists projects the staff list onto the dentists who can take appointments.
func Dentists(staff []Staff) []Dentist {
	out := make([]Dentist, 0, len(staff))
	for _, s := range staff {
		if s.Role != RoleDentist || s.Status == StaffInactive {
			continue
		}
		out = append(out, Dentist{
			ID:             s.ID,
			Name:           s.Name,
			Specialization: s.Specialization,
			Phone:          s.Phone,
			Status:         s.Status,
		})
	}
	return out
}
