package appointment

import (
	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/schedule"
)

// transitions lists the statuses each status may move to.
var transitions = map[clinic.AppointmentStatus][]clinic.AppointmentStatus{
	clinic.StatusScheduled: {
		clinic.StatusConfirmed,
		clinic.StatusInProgress,
		clinic.StatusCancelled,
		clinic.StatusNoShow,
	},
	clinic.StatusConfirmed: {
		clinic.StatusScheduled,
		clinic.StatusInProgress,
		clinic.StatusCancelled,
		clinic.StatusNoShow,
	},
	clinic.StatusInProgress: {
		clinic.StatusCompleted,
	},
	clinic.StatusCancelled: {
		clinic.StatusScheduled,
	},
}

func CanTransition(from, to clinic.AppointmentStatus) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Input carries every field of a new appointment.
type Input struct {
	PatientID uuid.UUID
	DentistID uuid.UUID
	RoomID    *uuid.UUID
	Date      string
	StartTime clinic.Clock
	EndTime   clinic.Clock
	Treatment *string
	Notes     *string
}

// Patch carries the fields an update changes; nil means keep.
type Patch struct {
	PatientID *uuid.UUID
	DentistID *uuid.UUID
	RoomID    *uuid.UUID
	ClearRoom bool
	Date      *string
	StartTime *clinic.Clock
	EndTime   *clinic.Clock
	Treatment *string
	Notes     *string
}

func (p Patch) apply(a *clinic.Appointment) (reschedules bool) {
	if p.PatientID != nil {
		a.PatientID = *p.PatientID
	}
	if p.DentistID != nil && *p.DentistID != a.DentistID {
		a.DentistID = *p.DentistID
		reschedules = true
	}
	if p.ClearRoom && a.RoomID != nil {
		a.RoomID = nil
		reschedules = true
	} else if p.RoomID != nil && (a.RoomID == nil || *a.RoomID != *p.RoomID) {
		id := *p.RoomID
		a.RoomID = &id
		reschedules = true
	}
	if p.Date != nil && *p.Date != a.Date {
		a.Date = *p.Date
		reschedules = true
	}
	if p.StartTime != nil && *p.StartTime != a.StartTime {
		a.StartTime = *p.StartTime
		reschedules = true
	}
	if p.EndTime != nil && *p.EndTime != a.EndTime {
		a.EndTime = *p.EndTime
		reschedules = true
	}
	if p.Treatment != nil {
		a.Treatment = p.Treatment
	}
	if p.Notes != nil {
		a.Notes = p.Notes
	}
	return reschedules
}

type RoomInput struct {
	Name        string
	ChairNumber int
	Floor       int
	Equipment   []string
	Status      clinic.RoomStatus
}

// Availability answers "which rooms are free at this slot".
type Availability struct {
	Date           string               `json:"date"`
	Slot           clinic.Clock         `json:"slot"`
	Active         []clinic.Appointment `json:"active"`
	AvailableRooms []clinic.Room        `json:"available_rooms"`
	Available      bool                 `json:"available"`
	InBreak        bool                 `json:"in_break"`
	Holiday        *clinic.Holiday      `json:"holiday,omitempty"`
}

// DayView is the timeline plus the dentists it was drawn for.
type DayView struct {
	schedule.Timeline
	Dentists []clinic.Dentist `json:"dentists"`
}
