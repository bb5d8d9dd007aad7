package appointment

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

// interleavingStore lets a test run other requests right after the service has read a row.
type interleavingStore struct {
	*clinic.MemoryStore
	afterGet  func(id uuid.UUID)
	afterList func(f clinic.AppointmentFilter)
}

func (s *interleavingStore) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*clinic.Appointment, error) {
	a, err := s.MemoryStore.GetAppointmentByID(ctx, id)
	if s.afterGet != nil {
		s.afterGet(id)
	}
	return a, err
}

func (s *interleavingStore) ListAppointments(ctx context.Context, f clinic.AppointmentFilter) ([]clinic.Appointment, error) {
	list, err := s.MemoryStore.ListAppointments(ctx, f)
	if s.afterList != nil {
		s.afterList(f)
	}
	return list, err
}

func newInterleavedEnv(t *testing.T) (*env, *interleavingStore) {
	t.Helper()
	e := newEnv(t, testConfig())
	store := &interleavingStore{MemoryStore: e.store}
	e.svc = NewService(store, redisclient.NewLocalLocker(time.Second), testConfig(), nil, zerolog.Nop())
	return e, store
}

func liveInRoom(t *testing.T, e *env, room uuid.UUID) int {
	t.Helper()
	list, err := e.store.ListAppointments(context.Background(), clinic.AppointmentFilter{Date: testDate, RoomID: room})
	require.NoError(t, err)
	n := 0
	for _, a := range list {
		if a.Status.HoldsRoom() {
			n++
		}
	}
	return n
}

func TestUpdateNotesDoesNotUndoConcurrentCancel(t *testing.T) {
	e, store := newInterleavedEnv(t)
	ctx := context.Background()

	a := e.book(t, &e.room1, "09:00", "10:00")

	var (
		once               sync.Once
		wg                 sync.WaitGroup
		cancelErr, bookErr error
	)
	store.afterGet = func(id uuid.UUID) {
		if id != a.ID {
			return
		}
		once.Do(func() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, cancelErr = e.svc.ChangeStatus(ctx, a.ID, clinic.StatusCancelled); cancelErr != nil {
					return
				}
				_, bookErr = e.svc.CreateAppointment(ctx, e.input(&e.room1, "09:00", "10:00"))
			}()
			// give the cancel a chance to race the notes write
			time.Sleep(20 * time.Millisecond)
		})
	}

	notes := "bring previous x-rays"
	_, err := e.svc.UpdateAppointment(ctx, a.ID, Patch{Notes: &notes})
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, cancelErr)
	require.NoError(t, bookErr)

	got, err := e.svc.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusCancelled, got.Status)
	require.NotNil(t, got.Notes)
	assert.Equal(t, notes, *got.Notes)

	assert.Equal(t, 1, liveInRoom(t, e, e.room1))
}

func TestChangeStatusDoesNotUndoConcurrentMove(t *testing.T) {
	e, store := newInterleavedEnv(t)
	ctx := context.Background()

	a := e.book(t, &e.room1, "09:00", "10:00")

	var (
		once    sync.Once
		wg      sync.WaitGroup
		moveErr error
	)
	store.afterGet = func(id uuid.UUID) {
		if id != a.ID {
			return
		}
		once.Do(func() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, moveErr = e.svc.UpdateAppointment(ctx, a.ID, Patch{RoomID: &e.room2})
			}()
			time.Sleep(20 * time.Millisecond)
		})
	}

	_, err := e.svc.ChangeStatus(ctx, a.ID, clinic.StatusConfirmed)
	require.NoError(t, err)
	wg.Wait()
	require.NoError(t, moveErr)

	got, err := e.svc.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusConfirmed, got.Status)
	require.NotNil(t, got.RoomID)
	assert.Equal(t, e.room2, *got.RoomID)
}

func TestMarkNoShowsSkipsAppointmentsThatMovedOn(t *testing.T) {
	e, store := newInterleavedEnv(t)
	ctx := context.Background()

	started := e.book(t, &e.room1, "09:00", "10:00")
	missed := e.book(t, &e.room2, "09:00", "10:00")

	var once sync.Once
	store.afterList = func(f clinic.AppointmentFilter) {
		if len(f.Statuses) == 0 {
			return
		}
		once.Do(func() {
			_, err := e.svc.ChangeStatus(ctx, started.ID, clinic.StatusInProgress)
			require.NoError(t, err)
		})
	}

	n, err := e.svc.MarkNoShows(ctx, time.Date(2024, 12, 10, 10, 20, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := e.svc.GetAppointment(ctx, started.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusInProgress, got.Status)

	got, err = e.svc.GetAppointment(ctx, missed.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusNoShow, got.Status)
}

func TestReactivationRunsBookingChecks(t *testing.T) {
	e := newEnv(t, testConfig())
	ctx := context.Background()

	a := e.book(t, &e.room1, "09:00", "10:00")
	_, err := e.svc.ChangeStatus(ctx, a.ID, clinic.StatusCancelled)
	require.NoError(t, err)

	_, err = e.svc.SetRoomStatus(ctx, e.room1, clinic.RoomMaintenance)
	require.NoError(t, err)
	_, err = e.svc.ChangeStatus(ctx, a.ID, clinic.StatusScheduled)
	assert.ErrorIs(t, err, ErrRoomUnavailable)

	_, err = e.svc.SetRoomStatus(ctx, e.room1, clinic.RoomAvailable)
	require.NoError(t, err)
	h, err := e.svc.AddHoliday(ctx, testDate, "Staff training")
	require.NoError(t, err)
	_, err = e.svc.ChangeStatus(ctx, a.ID, clinic.StatusScheduled)
	assert.ErrorIs(t, err, ErrClinicClosed)

	require.NoError(t, e.svc.DeleteHoliday(ctx, h.ID))
	off, err := e.svc.RequestDayOff(ctx, e.dentist, testDate, nil)
	require.NoError(t, err)
	_, err = e.svc.ReviewDayOff(ctx, off.ID, true)
	require.NoError(t, err)
	_, err = e.svc.ChangeStatus(ctx, a.ID, clinic.StatusScheduled)
	assert.ErrorIs(t, err, ErrDentistOff)

	got, err := e.svc.GetAppointment(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, clinic.StatusCancelled, got.Status)
}
