package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

const day = "2024-12-10"

func clock(s string) clinic.Clock { return clinic.MustClock(s) }

func appt(room *uuid.UUID, start, end string) clinic.Appointment {
	return clinic.Appointment{
		ID:        uuid.New(),
		DentistID: uuid.New(),
		RoomID:    room,
		Date:      day,
		StartTime: clock(start),
		EndTime:   clock(end),
		Status:    clinic.StatusScheduled,
	}
}

func roomIDs(rooms []clinic.Room) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}

func TestAppointmentsForDay(t *testing.T) {
	dentist := uuid.New()
	late := appt(nil, "11:00", "11:30")
	early := appt(nil, "09:00", "09:30")
	tieA := appt(nil, "10:00", "10:30")
	tieB := appt(nil, "10:00", "11:00")
	other := appt(nil, "08:00", "08:30")
	other.Date = "2024-12-11"
	early.DentistID = dentist
	tieB.DentistID = dentist

	all := []clinic.Appointment{late, tieA, early, other, tieB}

	got := AppointmentsForDay(all, day, uuid.Nil)
	require.Len(t, got, 4)
	assert.Equal(t, []uuid.UUID{early.ID, tieA.ID, tieB.ID, late.ID},
		[]uuid.UUID{got[0].ID, got[1].ID, got[2].ID, got[3].ID})

	mine := AppointmentsForDay(all, day, dentist)
	require.Len(t, mine, 2)
	assert.Equal(t, early.ID, mine[0].ID)
	assert.Equal(t, tieB.ID, mine[1].ID)

	none := AppointmentsForDay(all, "2030-01-01", uuid.Nil)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestIsActiveIsHalfOpen(t *testing.T) {
	a := appt(nil, "09:00", "10:00")

	assert.False(t, IsActive(clock("08:30"), a))
	assert.True(t, IsActive(clock("09:00"), a))
	assert.True(t, IsActive(clock("09:30"), a))
	assert.True(t, IsActive(clock("09:59"), a))
	assert.False(t, IsActive(clock("10:00"), a), "an appointment has ended at its end time")
}

func TestAvailableRooms(t *testing.T) {
	r1 := clinic.Room{ID: uuid.New(), Name: "R1", Status: clinic.RoomAvailable}
	r2 := clinic.Room{ID: uuid.New(), Name: "R2", Status: clinic.RoomMaintenance}
	r3 := clinic.Room{ID: uuid.New(), Name: "R3", Status: clinic.RoomOccupied}
	dayAppts := []clinic.Appointment{appt(&r1.ID, "09:00", "10:00")}

	t.Run("maintenance room is never offered", func(t *testing.T) {
		rooms := []clinic.Room{r1, r2}
		got := AvailableRooms(clock("09:30"), dayAppts, rooms)
		assert.Empty(t, got)
		assert.False(t, HasAvailability(clock("09:30"), dayAppts, rooms))
	})

	t.Run("room frees up at the end time", func(t *testing.T) {
		got := AvailableRooms(clock("10:00"), dayAppts, []clinic.Room{r1, r2})
		assert.Equal(t, []uuid.UUID{r1.ID}, roomIDs(got))
	})

	t.Run("occupied status does not block the grid", func(t *testing.T) {
		got := AvailableRooms(clock("09:30"), dayAppts, []clinic.Room{r1, r3})
		assert.Equal(t, []uuid.UUID{r3.ID}, roomIDs(got))
	})

	t.Run("appointment without a room holds nothing", func(t *testing.T) {
		roomless := []clinic.Appointment{appt(nil, "09:00", "10:00")}
		got := AvailableRooms(clock("09:30"), roomless, []clinic.Room{r1})
		assert.Equal(t, []uuid.UUID{r1.ID}, roomIDs(got))
	})

	t.Run("room order is kept", func(t *testing.T) {
		got := AvailableRooms(clock("12:00"), dayAppts, []clinic.Room{r3, r1})
		assert.Equal(t, []uuid.UUID{r3.ID, r1.ID}, roomIDs(got))
	})

	t.Run("no rooms means no availability", func(t *testing.T) {
		assert.False(t, HasAvailability(clock("12:00"), nil, nil))
	})
}

func TestActiveAt(t *testing.T) {
	a := appt(nil, "09:00", "10:00")
	b := appt(nil, "09:30", "10:30")
	c := appt(nil, "10:00", "11:00")

	got := ActiveAt(clock("09:45"), []clinic.Appointment{a, b, c})
	require.Len(t, got, 2)
	assert.Equal(t, a.ID, got[0].ID)
	assert.Equal(t, b.ID, got[1].ID)
}

func TestRoomConflicts(t *testing.T) {
	room := uuid.New()
	other := uuid.New()

	existing := appt(&room, "09:00", "10:00")
	cancelled := appt(&room, "10:00", "11:00")
	cancelled.Status = clinic.StatusCancelled
	noShow := appt(&room, "10:00", "11:00")
	noShow.Status = clinic.StatusNoShow
	elsewhere := appt(&other, "09:00", "11:00")
	dayAppts := []clinic.Appointment{existing, cancelled, noShow, elsewhere}

	tests := []struct {
		name      string
		candidate clinic.Appointment
		want      int
	}{
		{name: "overlap", candidate: appt(&room, "09:30", "10:30"), want: 1},
		{name: "back to back", candidate: appt(&room, "10:00", "10:30"), want: 0},
		{name: "ends at start", candidate: appt(&room, "08:00", "09:00"), want: 0},
		{name: "no room", candidate: appt(nil, "09:00", "10:00"), want: 0},
		{name: "itself", candidate: existing, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, RoomConflicts(tt.candidate, dayAppts), tt.want)
		})
	}

	moved := existing
	moved.StartTime, moved.EndTime = clock("09:15"), clock("09:45")
	assert.Empty(t, RoomConflicts(moved, dayAppts), "rescheduling an appointment does not clash with its old slot")
}

func TestGrid(t *testing.T) {
	g, err := NewGrid(clock("09:00"), clock("11:00"), 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, []clinic.Clock{clock("09:00"), clock("09:30"), clock("10:00"), clock("10:30")}, g.Slots())

	assert.True(t, g.Contains(clock("09:00"), clock("11:00")))
	assert.False(t, g.Contains(clock("08:30"), clock("09:30")))
	assert.False(t, g.Contains(clock("10:30"), clock("11:30")))

	_, err = NewGrid(clock("11:00"), clock("09:00"), 30*time.Minute)
	assert.ErrorIs(t, err, ErrInvalidGrid)
	_, err = NewGrid(clock("09:00"), clock("11:00"), 0)
	assert.ErrorIs(t, err, ErrInvalidGrid)
}

func TestParseDentistFilter(t *testing.T) {
	for _, s := range []string{"", "all", "ALL", " all "} {
		id, err := ParseDentistFilter(s)
		require.NoError(t, err, s)
		assert.Equal(t, uuid.Nil, id)
	}

	want := uuid.New()
	id, err := ParseDentistFilter(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, id)

	_, err = ParseDentistFilter("dr-hart")
	assert.ErrorIs(t, err, ErrInvalidDentist)
}
