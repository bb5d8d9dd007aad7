// Package schedule derives slot availability from a day's appointments and the room list.
// Everything here is a pure function of its inputs; nothing is stored.
package schedule

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

// AllDentists is the dentist filter value that disables dentist filtering.
const AllDentists = "all"

var (
	ErrInvalidGrid    = errors.New("opening hours must satisfy open < close and a positive interval")
	ErrInvalidDentist = errors.New(`dentist filter must be "all" or a dentist id`)
)

// ParseDentistFilter maps "all" (or empty) to uuid.Nil.
func ParseDentistFilter(s string) (uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, AllDentists) {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q", ErrInvalidDentist, s)
	}
	return id, nil
}

// Grid is the slot raster shared by every room and dentist column.
type Grid struct {
	Open     clinic.Clock
	Close    clinic.Clock
	Interval time.Duration
}

func NewGrid(open, closeAt clinic.Clock, interval time.Duration) (Grid, error) {
	if !open.Valid() || closeAt <= open || closeAt > 24*60 || interval < time.Minute {
		return Grid{}, ErrInvalidGrid
	}
	return Grid{Open: open, Close: closeAt, Interval: interval}, nil
}

// Slots lists every slot start from Open while it is before Close.
func (g Grid) Slots() []clinic.Clock {
	if g.Interval < time.Minute {
		return nil
	}
	var out []clinic.Clock
	for t := g.Open; t < g.Close; t = t.Add(g.Interval) {
		out = append(out, t)
	}
	return out
}

// Contains reports whether [start, end) lies within opening hours.
func (g Grid) Contains(start, end clinic.Clock) bool {
	return start >= g.Open && end <= g.Close
}

// AppointmentsForDay keeps appointments on date, optionally only those of dentistID,
// ordered by start time. Equal start times keep their input order.
func AppointmentsForDay(all []clinic.Appointment, date string, dentistID uuid.UUID) []clinic.Appointment {
	out := make([]clinic.Appointment, 0)
	for _, a := range all {
		if a.Date != date {
			continue
		}
		if dentistID != uuid.Nil && a.DentistID != dentistID {
			continue
		}
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime < out[j].StartTime
	})
	return out
}

// IsActive reports whether slot falls inside the half-open [start, end) of a.
func IsActive(slot clinic.Clock, a clinic.Appointment) bool {
	return slot >= a.StartTime && slot < a.EndTime
}

// ActiveAt returns the appointments of day that are running at slot.
func ActiveAt(slot clinic.Clock, day []clinic.Appointment) []clinic.Appointment {
	out := make([]clinic.Appointment, 0)
	for _, a := range day {
		if IsActive(slot, a) {
			out = append(out, a)
		}
	}
	return out
}

// AvailableRooms returns the rooms not under maintenance and not held by an appointment active at slot.
func AvailableRooms(slot clinic.Clock, day []clinic.Appointment, rooms []clinic.Room) []clinic.Room {
	busy := make(map[uuid.UUID]struct{})
	for _, a := range ActiveAt(slot, day) {
		if a.RoomID != nil {
			busy[*a.RoomID] = struct{}{}
		}
	}

	out := make([]clinic.Room, 0, len(rooms))
	for _, r := range rooms {
		if r.Status == clinic.RoomMaintenance {
			continue
		}
		if _, taken := busy[r.ID]; taken {
			continue
		}
		out = append(out, r)
	}
	return out
}

func HasAvailability(slot clinic.Clock, day []clinic.Appointment, rooms []clinic.Room) bool {
	return len(AvailableRooms(slot, day, rooms)) > 0
}

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(aStart, aEnd, bStart, bEnd clinic.Clock) bool {
	return aStart < bEnd && bStart < aEnd
}

// RoomConflicts returns the appointments of day that would share candidate's room at the same time.
// Cancelled and no-show appointments release their room; candidate itself is skipped by id.
func RoomConflicts(candidate clinic.Appointment, day []clinic.Appointment) []clinic.Appointment {
	if candidate.RoomID == nil {
		return nil
	}

	var out []clinic.Appointment
	for _, a := range day {
		if a.ID == candidate.ID || a.Date != candidate.Date {
			continue
		}
		if !a.Status.HoldsRoom() || !a.HoldsRoom(*candidate.RoomID) {
			continue
		}
		if Overlaps(candidate.StartTime, candidate.EndTime, a.StartTime, a.EndTime) {
			out = append(out, a)
		}
	}
	return out
}
