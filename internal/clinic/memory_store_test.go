package clinic

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
)

func TestMemoryStoreAppointments(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	room := uuid.New()
	first := &Appointment{Date: "2024-12-10", StartTime: MustClock("10:00"), EndTime: MustClock("11:00"), RoomID: &room, Status: StatusScheduled}
	second := &Appointment{Date: "2024-12-10", StartTime: MustClock("09:00"), EndTime: MustClock("09:30"), Status: StatusCancelled}
	other := &Appointment{Date: "2024-12-11", StartTime: MustClock("09:00"), EndTime: MustClock("09:30"), Status: StatusScheduled}
	for _, a := range []*Appointment{first, second, other} {
		require.NoError(t, store.CreateAppointment(ctx, a))
		assert.NotEqual(t, uuid.Nil, a.ID)
		assert.False(t, a.CreatedAt.IsZero())
	}

	day, err := store.ListAppointments(ctx, AppointmentFilter{Date: "2024-12-10"})
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, first.ID, day[0].ID, "insertion order is kept")

	inRoom, err := store.ListAppointments(ctx, AppointmentFilter{RoomID: room})
	require.NoError(t, err)
	require.Len(t, inRoom, 1)

	active, err := store.ListAppointments(ctx, AppointmentFilter{Statuses: []AppointmentStatus{StatusScheduled}})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	none, err := store.ListAppointments(ctx, AppointmentFilter{Date: "2030-01-01"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	created := first.CreatedAt
	first.Status = StatusConfirmed
	first.CreatedAt = time.Time{}
	require.NoError(t, store.UpdateAppointment(ctx, first))
	assert.Equal(t, created, first.CreatedAt)

	got, err := store.GetAppointmentByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)

	require.NoError(t, store.DeleteAppointment(ctx, first.ID))
	_, err = store.GetAppointmentByID(ctx, first.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, store.DeleteAppointment(ctx, first.ID), ErrAppointmentNotFound)
}

func TestMemoryStoreStaffUniqueness(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	handle := "ahart"
	st := &Staff{Name: "Dr. Hart", Role: RoleDentist, Phone: "+1-555-0101", Telegram: &handle, Status: StaffActive}
	require.NoError(t, store.CreateStaff(ctx, st))

	ok, err := store.IsPhoneUnique(ctx, "+1-555-0101", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.IsPhoneUnique(ctx, "+1-555-0101", st.ID)
	require.NoError(t, err)
	assert.True(t, ok, "a staff member does not collide with itself")

	ok, err = store.IsTelegramUnique(ctx, "ahart", uuid.Nil)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = store.IsTelegramUnique(ctx, "someone_else", uuid.Nil)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreDeletePatientCascades(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	p := &Patient{Name: "Ana", Phone: "+1-555-0200"}
	require.NoError(t, store.CreatePatient(ctx, p))
	require.NoError(t, store.SaveChart(ctx, chart.New(p.ID)))
	require.NoError(t, store.CreateNote(ctx, &ClinicalNote{PatientID: p.ID, Title: "Intake"}))
	require.NoError(t, store.CreateImage(ctx, &DentalImage{PatientID: p.ID, Kind: ImageXRay}))
	room := uuid.New()
	appt := &Appointment{PatientID: p.ID, DentistID: uuid.New(), RoomID: &room, Date: "2024-12-10",
		StartTime: MustClock("09:00"), EndTime: MustClock("10:00"), Status: StatusScheduled}
	require.NoError(t, store.CreateAppointment(ctx, appt))
	other := &Appointment{PatientID: uuid.New(), DentistID: uuid.New(), Date: "2024-12-10",
		StartTime: MustClock("11:00"), EndTime: MustClock("12:00"), Status: StatusScheduled}
	require.NoError(t, store.CreateAppointment(ctx, other))

	require.NoError(t, store.DeletePatient(ctx, p.ID))

	_, err := store.GetAppointmentByID(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	left, err := store.ListAppointments(ctx, AppointmentFilter{Date: "2024-12-10"})
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, other.ID, left[0].ID)

	_, err = store.LoadChart(ctx, p.ID)
	assert.ErrorIs(t, err, chart.ErrChartNotFound)
	notes, err := store.ListNotes(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, notes)
	images, err := store.ListImages(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestMemoryStoreChartsAreCopied(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id := uuid.New()
	c := chart.New(id)
	require.NoError(t, store.SaveChart(ctx, c))

	require.NoError(t, c.SetStatus(11, chart.StatusMissing))

	loaded, err := store.LoadChart(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, chart.StatusHealthy, loaded.Teeth[11].Status, "mutating the caller's chart must not leak into the store")
}

func TestMemoryStoreEvents(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	id := uuid.New()
	require.NoError(t, store.InsertEvent(ctx, EventLog{EventType: "APPOINTMENT_CREATED", AppointmentID: &id}))
	require.NoError(t, store.InsertEvent(ctx, EventLog{EventType: "APPOINTMENT_DELETED", AppointmentID: &id}))
	other := uuid.New()
	require.NoError(t, store.InsertEvent(ctx, EventLog{EventType: "APPOINTMENT_CREATED", AppointmentID: &other}))

	events, err := store.ListEvents(ctx, id)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, int64(1), events[0].ID)
	assert.Equal(t, "APPOINTMENT_DELETED", events[1].EventType)
}

func TestDentists(t *testing.T) {
	staff := []Staff{
		{ID: uuid.New(), Name: "Dr. A", Role: RoleDentist, Status: StaffActive},
		{ID: uuid.New(), Name: "Dr. B", Role: RoleDentist, Status: StaffOnLeave},
		{ID: uuid.New(), Name: "Dr. C", Role: RoleDentist, Status: StaffInactive},
		{ID: uuid.New(), Name: "Nurse", Role: RoleAssistant, Status: StaffActive},
	}

	got := Dentists(staff)
	require.Len(t, got, 2)
	assert.Equal(t, "Dr. A", got[0].Name)
	assert.Equal(t, "Dr. B", got[1].Name)
}

func TestSeedDemo(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	day := time.Date(2024, 12, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, SeedDemo(ctx, store, day))

	appts, err := store.ListAppointments(ctx, AppointmentFilter{Date: "2024-12-10"})
	require.NoError(t, err)
	assert.NotEmpty(t, appts)

	rooms, err := store.ListRooms(ctx)
	require.NoError(t, err)
	var maintenance int
	for _, r := range rooms {
		if r.Status == RoomMaintenance {
			maintenance++
		}
	}
	assert.Equal(t, 1, maintenance)
}
