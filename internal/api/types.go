package api

import (
	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Appointments

type CreateAppointmentRequest struct {
	PatientID string        `json:"patient_id" validate:"required,uuid"`
	DentistID string        `json:"dentist_id" validate:"required,uuid"`
	RoomID    string        `json:"room_id" validate:"omitempty,uuid"`
	Date      string        `json:"date" validate:"required"`
	StartTime *clinic.Clock `json:"start_time" validate:"required"`
	EndTime   *clinic.Clock `json:"end_time" validate:"required"`
	Treatment *string       `json:"treatment"`
	Notes     *string       `json:"notes"`
}

// UpdateAppointmentRequest is a partial update: omitted fields keep their value.
// An empty room_id string takes the appointment out of its room.
type UpdateAppointmentRequest struct {
	PatientID *string       `json:"patient_id" validate:"omitempty,uuid"`
	DentistID *string       `json:"dentist_id" validate:"omitempty,uuid"`
	RoomID    *string       `json:"room_id"`
	Date      *string       `json:"date"`
	StartTime *clinic.Clock `json:"start_time"`
	EndTime   *clinic.Clock `json:"end_time"`
	Treatment *string       `json:"treatment"`
	Notes     *string       `json:"notes"`
}

type ChangeStatusRequest struct {
	Status clinic.AppointmentStatus `json:"status" validate:"required"`
}

// Rooms, holidays, days off

type RoomRequest struct {
	Name        string            `json:"name" validate:"required"`
	ChairNumber int               `json:"chair_number" validate:"gte=0"`
	Floor       int               `json:"floor"`
	Equipment   []string          `json:"equipment"`
	Status      clinic.RoomStatus `json:"status"`
}

type RoomStatusRequest struct {
	Status clinic.RoomStatus `json:"status" validate:"required"`
}

type HolidayRequest struct {
	Date string `json:"date" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type DayOffRequest struct {
	StaffID string  `json:"staff_id" validate:"required,uuid"`
	Date    string  `json:"date" validate:"required"`
	Reason  *string `json:"reason"`
}

type ReviewDayOffRequest struct {
	Approve bool `json:"approve"`
}

// People

type StaffRequest struct {
	Name            string             `json:"name"`
	Role            clinic.StaffRole   `json:"role"`
	Specialization  *string            `json:"specialization"`
	Phone           string             `json:"phone"`
	Telegram        *string            `json:"telegram"`
	Email           *string            `json:"email"`
	Status          clinic.StaffStatus `json:"status"`
	Password        string             `json:"password"`
	ConfirmPassword string             `json:"confirm_password"`
}

type PatientRequest struct {
	Name           string   `json:"name"`
	Phone          string   `json:"phone"`
	Email          *string  `json:"email"`
	DateOfBirth    *string  `json:"date_of_birth"`
	Gender         *string  `json:"gender"`
	Address        *string  `json:"address"`
	Allergies      []string `json:"allergies"`
	MedicalHistory *string  `json:"medical_history"`
}

type UniqueResponse struct {
	Unique bool `json:"unique"`
}

// Tooth chart and records

type ToothStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type ToothNotesRequest struct {
	Notes *string `json:"notes"`
}

type TreatmentRequest struct {
	TreatmentType string  `json:"treatment_type" validate:"required"`
	DentistID     string  `json:"dentist_id" validate:"required,uuid"`
	Date          string  `json:"date"`
	Surface       *string `json:"surface"`
	Notes         *string `json:"notes"`
}

type NoteRequest struct {
	DentistID string `json:"dentist_id" validate:"required,uuid"`
	Date      string `json:"date"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

type ImageRequest struct {
	Kind     clinic.ImageKind `json:"kind"`
	FileName string           `json:"file_name"`
	TakenAt  string           `json:"taken_at"`
	Notes    *string          `json:"notes"`
}

// Inventory

type ItemRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Quantity    int     `json:"quantity"`
	Unit        string  `json:"unit"`
	MinQuantity int     `json:"min_quantity"`
	Supplier    *string `json:"supplier"`
	ExpiryDate  *string `json:"expiry_date"`
}

type AdjustRequest struct {
	Delta int `json:"delta" validate:"ne=0"`
}
