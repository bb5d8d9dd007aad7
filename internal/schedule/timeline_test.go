package schedule

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

func testGrid(t *testing.T) Grid {
	t.Helper()
	g, err := NewGrid(clock("09:00"), clock("12:00"), 30*time.Minute)
	require.NoError(t, err)
	return g
}

func slotAt(t *testing.T, tl Timeline, s string) SlotView {
	t.Helper()
	for _, v := range tl.Slots {
		if v.Time == clock(s) {
			return v
		}
	}
	t.Fatalf("no slot at %s", s)
	return SlotView{}
}

func TestBuildTimelineStartingAndContinuing(t *testing.T) {
	room := clinic.Room{ID: uuid.New(), Name: "R1", Status: clinic.RoomAvailable}
	long := appt(&room.ID, "09:00", "10:30")
	offGrid := appt(nil, "10:45", "11:15")

	tl := BuildTimeline(day, testGrid(t), []clinic.Appointment{long, offGrid}, []clinic.Room{room}, Blocks{})

	require.Len(t, tl.Slots, 6)
	assert.Equal(t, day, tl.Date)
	assert.Nil(t, tl.Holiday)
	assert.Empty(t, tl.StaffOff)

	first := slotAt(t, tl, "09:00")
	require.Len(t, first.Starting, 1)
	assert.Equal(t, long.ID, first.Starting[0].ID)
	assert.Empty(t, first.AvailableRooms)
	assert.False(t, first.Available())

	for _, s := range []string{"09:30", "10:00"} {
		v := slotAt(t, tl, s)
		assert.Empty(t, v.Starting, s)
		require.Len(t, v.Continuing, 1, s)
		assert.Equal(t, long.ID, v.Continuing[0].ID)
	}

	after := slotAt(t, tl, "10:30")
	assert.Empty(t, after.Starting)
	assert.Empty(t, after.Continuing)
	assert.True(t, after.Available())

	// 10:45 is first visible in the 11:00 slot
	eleven := slotAt(t, tl, "11:00")
	require.Len(t, eleven.Starting, 1)
	assert.Equal(t, offGrid.ID, eleven.Starting[0].ID)
}

func TestBuildTimelineOverlays(t *testing.T) {
	room := clinic.Room{ID: uuid.New(), Status: clinic.RoomAvailable}
	off := uuid.New()
	pending := uuid.New()

	blocks := Blocks{
		Break:    &Break{Start: clock("11:00"), End: clock("11:30")},
		Holidays: []clinic.Holiday{{ID: uuid.New(), Date: day, Name: "Founders day"}},
		DayOffs: []clinic.DayOff{
			{StaffID: off, Date: day, Status: clinic.DayOffApproved},
			{StaffID: off, Date: day, Status: clinic.DayOffApproved},
			{StaffID: pending, Date: day, Status: clinic.DayOffPending},
			{StaffID: uuid.New(), Date: "2024-12-11", Status: clinic.DayOffApproved},
		},
	}

	tl := BuildTimeline(day, testGrid(t), nil, []clinic.Room{room}, blocks)

	require.NotNil(t, tl.Holiday)
	assert.Equal(t, "Founders day", tl.Holiday.Name)
	assert.Equal(t, []uuid.UUID{off}, tl.StaffOff)
	assert.True(t, slotAt(t, tl, "11:00").InBreak)
	assert.False(t, slotAt(t, tl, "11:30").InBreak)
	assert.False(t, slotAt(t, tl, "10:30").InBreak)

	// overlays are informational; rooms stay bookable on the grid
	assert.True(t, slotAt(t, tl, "11:00").Available())
}

func TestBlocks(t *testing.T) {
	staff := uuid.New()
	b := Blocks{
		DayOffs: []clinic.DayOff{
			{StaffID: staff, Date: day, Status: clinic.DayOffRejected},
			{StaffID: staff, Date: "2024-12-11", Status: clinic.DayOffApproved},
		},
	}
	assert.False(t, b.StaffOff(staff, day))
	assert.True(t, b.StaffOff(staff, "2024-12-11"))
	assert.Nil(t, b.HolidayOn(day))

	var none *Break
	assert.False(t, none.Covers(clock("12:00")))
	assert.False(t, none.Overlaps(clock("12:00"), clock("13:00")))

	lunch := &Break{Start: clock("13:00"), End: clock("14:00")}
	assert.True(t, lunch.Overlaps(clock("12:30"), clock("13:30")))
	assert.False(t, lunch.Overlaps(clock("12:00"), clock("13:00")))
}
