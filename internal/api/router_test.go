package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/dental-clinic-scheduling/internal/appointment"
	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/config"
	"github.com/hackgods/dental-clinic-scheduling/internal/directory"
	"github.com/hackgods/dental-clinic-scheduling/internal/inventory"
	"github.com/hackgods/dental-clinic-scheduling/internal/metrics"
	"github.com/hackgods/dental-clinic-scheduling/internal/records"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

type testServer struct {
	handler http.Handler
	store   *clinic.MemoryStore
	patient uuid.UUID
	dentist uuid.UUID
	room1   uuid.UUID
	room2   uuid.UUID
	item    uuid.UUID
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	store := clinic.NewMemoryStore()
	log := zerolog.Nop()
	m := metrics.New("test")
	locker := redisclient.NewLocalLocker(time.Second)

	p := &clinic.Patient{Name: "John Carter", Phone: "+1-555-0201", Allergies: []string{}}
	require.NoError(t, store.CreatePatient(ctx, p))
	d := &clinic.Staff{Name: "Dr. Hart", Role: clinic.RoleDentist, Phone: "+1-555-0101", Status: clinic.StaffActive}
	require.NoError(t, store.CreateStaff(ctx, d))
	r1 := &clinic.Room{Name: "R1", ChairNumber: 1, Status: clinic.RoomAvailable}
	r2 := &clinic.Room{Name: "R2", ChairNumber: 2, Status: clinic.RoomMaintenance}
	require.NoError(t, store.CreateRoom(ctx, r1))
	require.NoError(t, store.CreateRoom(ctx, r2))
	it := &clinic.InventoryItem{Name: "Gloves", Category: "consumables", Quantity: 3, Unit: "box", MinQuantity: 5}
	require.NoError(t, store.CreateItem(ctx, it))

	brkStart, brkEnd := clinic.MustClock("13:00"), clinic.MustClock("14:00")
	cfg := config.Config{
		ClinicOpen:    clinic.MustClock("08:00"),
		ClinicClose:   clinic.MustClock("20:00"),
		SlotInterval:  30 * time.Minute,
		BreakStart:    &brkStart,
		BreakEnd:      &brkEnd,
		Location:      time.UTC,
		NoShowGrace:   15 * time.Minute,
		EnforceRooms:  true,
		EnforceBlocks: true,
	}

	dir := directory.NewService(store, locker, directory.NewBcryptHasher(4), log)
	handler := NewRouter(RouterConfig{
		Appointments: appointment.NewService(store, locker, cfg, m, log),
		Directory:    dir,
		Charts:       chart.NewService(store, dir, chart.DefaultCatalog(), locker, log),
		Inventory:    inventory.NewService(store, locker, log),
		Records:      records.NewService(store, log),
		Store:        store,
		StoreBackend: config.BackendMemory,
		Metrics:      m,
		Logger:       log,
		Env:          "test",
		Version:      "dev",
	})

	return &testServer{handler: handler, store: store, patient: p.ID, dentist: d.ID, room1: r1.ID, room2: r2.ID, item: it.ID}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (s *testServer) booking(room uuid.UUID, start, end string) map[string]any {
	return map[string]any{
		"patient_id": s.patient.String(),
		"dentist_id": s.dentist.String(),
		"room_id":    room.String(),
		"date":       "2024-12-10",
		"start_time": start,
		"end_time":   end,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/health/live", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = s.do(t, http.MethodGet, "/health/ready", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	ready := decode[ReadinessResponse](t, rec)
	assert.Equal(t, "ok", ready.Status)
	assert.Equal(t, "ok", ready.Dependencies["memory"])
	assert.NotContains(t, ready.Dependencies, "redis")

	rec = s.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAppointmentLifecycle(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/appointments", s.booking(s.room1, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[clinic.Appointment](t, rec)
	assert.Equal(t, clinic.StatusScheduled, created.Status)
	assert.Equal(t, clinic.MustClock("09:00"), created.StartTime)

	rec = s.do(t, http.MethodPost, "/appointments", s.booking(s.room1, "09:30", "10:30"))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "room_conflict", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/appointments/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/appointments/"+created.ID.String()+"/status", map[string]string{"status": "completed"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "invalid_status_transition", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, "/appointments/"+created.ID.String()+"/status", map[string]string{"status": "confirmed"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, clinic.StatusConfirmed, decode[clinic.Appointment](t, rec).Status)

	rec = s.do(t, http.MethodPut, "/appointments/"+created.ID.String(), map[string]any{"notes": "bring x-rays", "room_id": ""})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[clinic.Appointment](t, rec)
	assert.Nil(t, updated.RoomID)
	require.NotNil(t, updated.Notes)

	rec = s.do(t, http.MethodGet, "/appointments?date=2024-12-10&status=confirmed,scheduled", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]clinic.Appointment](t, rec), 1)

	rec = s.do(t, http.MethodGet, "/appointments/"+created.ID.String()+"/events", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]clinic.EventLog](t, rec), 3)

	rec = s.do(t, http.MethodDelete, "/appointments/"+created.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodGet, "/appointments/"+created.ID.String(), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "appointment_not_found", decode[ErrorResponse](t, rec).Error)
}

func TestCreateAppointmentBadRequests(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		modify func(b map[string]any)
		status int
		code   string
	}{
		{name: "bad date", modify: func(b map[string]any) { b["date"] = "10/12/2024" }, status: http.StatusBadRequest, code: "invalid_date"},
		{name: "bad clock", modify: func(b map[string]any) { b["start_time"] = "9:00" }, status: http.StatusBadRequest, code: "invalid_request_body"},
		{name: "missing end", modify: func(b map[string]any) { delete(b, "end_time") }, status: http.StatusBadRequest, code: "validation_failed"},
		{name: "unknown field", modify: func(b map[string]any) { b["chair"] = 3 }, status: http.StatusBadRequest, code: "invalid_request_body"},
		{name: "reversed", modify: func(b map[string]any) { b["start_time"], b["end_time"] = "10:00", "09:00" }, status: http.StatusBadRequest, code: "invalid_time_range"},
		{name: "unknown patient", modify: func(b map[string]any) { b["patient_id"] = uuid.NewString() }, status: http.StatusNotFound, code: "patient_not_found"},
		{name: "maintenance", modify: func(b map[string]any) { b["room_id"] = s.room2.String() }, status: http.StatusConflict, code: "room_under_maintenance"},
		{name: "lunch", modify: func(b map[string]any) { b["start_time"], b["end_time"] = "13:00", "13:30" }, status: http.StatusConflict, code: "during_break"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := s.booking(s.room1, "09:00", "10:00")
			tt.modify(body)
			rec := s.do(t, http.MethodPost, "/appointments", body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decode[ErrorResponse](t, rec).Error)
		})
	}

	rec := s.do(t, http.MethodGet, "/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScheduleEndpoints(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/appointments", s.booking(s.room1, "09:00", "10:00"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/schedule/2024-12-10/availability?slot=09:30", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	avail := decode[appointment.Availability](t, rec)
	assert.False(t, avail.Available)
	assert.Empty(t, avail.AvailableRooms)
	assert.Len(t, avail.Active, 1)

	rec = s.do(t, http.MethodGet, "/schedule/2024-12-10/availability?slot=10:00", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[appointment.Availability](t, rec).Available)

	rec = s.do(t, http.MethodGet, "/schedule/2024-12-10/availability?slot=9am", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/schedule/2024-12-10/timeline?dentist=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view struct {
		Date  string `json:"date"`
		Slots []struct {
			Time     string `json:"time"`
			Starting []any  `json:"starting"`
			InBreak  bool   `json:"in_break"`
		} `json:"slots"`
		Dentists []clinic.Dentist `json:"dentists"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "2024-12-10", view.Date)
	require.Len(t, view.Slots, 24)
	assert.Equal(t, "09:00", view.Slots[2].Time)
	assert.Len(t, view.Slots[2].Starting, 1)
	assert.True(t, view.Slots[10].InBreak)
	assert.Len(t, view.Dentists, 1)

	rec = s.do(t, http.MethodGet, "/schedule/2024-12-10/timeline?dentist=nobody", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_dentist_filter", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/schedule/2024-12-10/timeline?dentist="+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHolidayBlocksBooking(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/holidays", map[string]string{"date": "2024-12-10", "name": "Founders day"})
	require.Equal(t, http.StatusCreated, rec.Code)
	holiday := decode[clinic.Holiday](t, rec)

	rec = s.do(t, http.MethodPost, "/appointments", s.booking(s.room1, "09:00", "10:00"))
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "clinic_closed", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodDelete, "/holidays/"+holiday.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec = s.do(t, http.MethodPost, "/appointments", s.booking(s.room1, "09:00", "10:00"))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestChartTreatmentFlow(t *testing.T) {
	s := newTestServer(t)
	base := "/patients/" + s.patient.String() + "/chart"

	rec := s.do(t, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var c struct {
		Teeth map[string]struct {
			Status     string `json:"status"`
			Treatments []struct {
				ID string `json:"id"`
			} `json:"treatments"`
		} `json:"teeth"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Len(t, c.Teeth, 32)
	assert.Equal(t, "healthy", c.Teeth["14"].Status)

	rec = s.do(t, http.MethodPost, base+"/teeth/14/treatments", map[string]any{
		"treatment_type": "filling",
		"dentist_id":     s.dentist.String(),
		"date":           "2024-12-10",
		"surface":        "mo",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	entry := decode[chart.TreatmentEntry](t, rec)
	assert.Equal(t, "Dr. Hart", entry.Dentist)

	rec = s.do(t, http.MethodGet, base, nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &c))
	assert.Equal(t, "treated", c.Teeth["14"].Status)
	require.Len(t, c.Teeth["14"].Treatments, 1)

	rec = s.do(t, http.MethodPost, base+"/teeth/19/treatments", map[string]any{"treatment_type": "filling", "dentist_id": s.dentist.String()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = s.do(t, http.MethodPost, base+"/teeth/14/treatments", map[string]any{"treatment_type": "magic", "dentist_id": s.dentist.String()})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "unknown_treatment", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodDelete, base+"/teeth/14/treatments/"+entry.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodPut, base+"/teeth/14/status", map[string]string{"status": "crown"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/patients/"+uuid.NewString()+"/chart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/treatments", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStaffUniquenessEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/staff/check-phone?phone=%2B1-555-0101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, decode[UniqueResponse](t, rec).Unique)

	rec = s.do(t, http.MethodGet, "/staff/check-phone?phone=%2B1-555-0101&exclude="+s.dentist.String(), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[UniqueResponse](t, rec).Unique)

	rec = s.do(t, http.MethodGet, "/staff/check-phone", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/staff", map[string]any{
		"name": "Dr. New", "role": "dentist", "phone": "+1-555-0101",
		"password": "longenough", "confirm_password": "longenough",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate_phone", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodGet, "/staff/dentists", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]clinic.Dentist](t, rec), 1)
}

func TestInventoryEndpoints(t *testing.T) {
	s := newTestServer(t)
	path := "/inventory/" + s.item.String()

	rec := s.do(t, http.MethodGet, "/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]clinic.InventoryItem](t, rec), 1)

	rec = s.do(t, http.MethodPost, path+"/adjust", map[string]int{"delta": -5})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "insufficient_stock", decode[ErrorResponse](t, rec).Error)

	rec = s.do(t, http.MethodPost, path+"/adjust", map[string]int{"delta": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, path+"/adjust", map[string]int{"delta": 10})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 13, decode[clinic.InventoryItem](t, rec).Quantity)

	rec = s.do(t, http.MethodGet, "/inventory/low-stock", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]clinic.InventoryItem](t, rec))
}
