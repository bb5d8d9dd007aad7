package schedule

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

// Break is a daily window when nobody is booked, such as lunch.
type Break struct {
	Start clinic.Clock `json:"start"`
	End   clinic.Clock `json:"end"`
}

func (b *Break) Covers(slot clinic.Clock) bool {
	return b != nil && slot >= b.Start && slot < b.End
}

func (b *Break) Overlaps(start, end clinic.Clock) bool {
	return b != nil && Overlaps(start, end, b.Start, b.End)
}

// Blocks are the calendar overlays drawn over a day.
type Blocks struct {
	Break    *Break
	Holidays []clinic.Holiday
	DayOffs  []clinic.DayOff
}

// HolidayOn returns the holiday falling on date, if any.
func (b Blocks) HolidayOn(date string) *clinic.Holiday {
	for _, h := range b.Holidays {
		if h.Date == date {
			return &h
		}
	}
	return nil
}

// StaffOff reports whether staffID has an approved day off on date.
func (b Blocks) StaffOff(staffID uuid.UUID, date string) bool {
	for _, d := range b.DayOffs {
		if d.StaffID == staffID && d.Date == date && d.Status == clinic.DayOffApproved {
			return true
		}
	}
	return false
}

// SlotView is one row of the day view. Starting appointments get a full card there;
// Continuing ones only cover the slot.
type SlotView struct {
	Time           clinic.Clock         `json:"time"`
	Starting       []clinic.Appointment `json:"starting"`
	Continuing     []clinic.Appointment `json:"continuing"`
	AvailableRooms []clinic.Room        `json:"available_rooms"`
	InBreak        bool                 `json:"in_break"`
}

func (v SlotView) Available() bool {
	return len(v.AvailableRooms) > 0
}

type Timeline struct {
	Date         string               `json:"date"`
	Holiday      *clinic.Holiday      `json:"holiday,omitempty"`
	StaffOff     []uuid.UUID          `json:"staff_off"`
	Break        *Break               `json:"break,omitempty"`
	Appointments []clinic.Appointment `json:"appointments"`
	Slots        []SlotView           `json:"slots"`
}

// BuildTimeline lays day (already filtered and sorted) over the grid.
// Overlays are reported alongside the slots and never change the room availability.
func BuildTimeline(date string, grid Grid, day []clinic.Appointment, rooms []clinic.Room, blocks Blocks) Timeline {
	tl := Timeline{
		Date:         date,
		Holiday:      blocks.HolidayOn(date),
		StaffOff:     []uuid.UUID{},
		Break:        blocks.Break,
		Appointments: day,
	}

	seen := make(map[uuid.UUID]bool)
	for _, d := range blocks.DayOffs {
		if d.Date == date && d.Status == clinic.DayOffApproved && !seen[d.StaffID] {
			seen[d.StaffID] = true
			tl.StaffOff = append(tl.StaffOff, d.StaffID)
		}
	}

	for _, slot := range grid.Slots() {
		view := SlotView{
			Time:           slot,
			Starting:       []clinic.Appointment{},
			Continuing:     []clinic.Appointment{},
			AvailableRooms: AvailableRooms(slot, day, rooms),
			InBreak:        blocks.Break.Covers(slot),
		}
		for _, a := range ActiveAt(slot, day) {
			if startsIn(a, slot, grid) {
				view.Starting = append(view.Starting, a)
			} else {
				view.Continuing = append(view.Continuing, a)
			}
		}
		tl.Slots = append(tl.Slots, view)
	}
	return tl
}

// startsIn reports whether slot is the first grid slot at which the active appointment a shows,
// so the card is drawn there even when its start is not aligned to the grid.
func startsIn(a clinic.Appointment, slot clinic.Clock, grid Grid) bool {
	if slot == grid.Open {
		return true
	}
	step := clinic.Clock(grid.Interval / time.Minute)
	return a.StartTime > slot-step
}
