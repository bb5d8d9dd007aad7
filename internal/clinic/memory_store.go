package clinic

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
)

// MemoryStore keeps every entity in insertion-ordered slices, the way the dashboard held them.
type MemoryStore struct {
	mu sync.RWMutex

	staff        []Staff
	patients     []Patient
	appointments []Appointment
	rooms        []Room
	holidays     []Holiday
	dayOffs      []DayOff
	items        []InventoryItem
	notes        []ClinicalNote
	images       []DentalImage
	charts       map[uuid.UUID]*chart.Chart
	events       []EventLog
	nextEventID  int64

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		charts: make(map[uuid.UUID]*chart.Chart),
		now:    time.Now,
	}
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func indexByID[T any](items []T, id uuid.UUID, idOf func(*T) uuid.UUID) int {
	for i := range items {
		if idOf(&items[i]) == id {
			return i
		}
	}
	return -1
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// Staff

func staffID(s *Staff) uuid.UUID { return s.ID }

func (m *MemoryStore) CreateStaff(_ context.Context, s *Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&s.ID)
	s.CreatedAt = m.now()
	s.UpdatedAt = s.CreatedAt
	m.staff = append(m.staff, *s)
	return nil
}

func (m *MemoryStore) UpdateStaff(_ context.Context, s *Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.staff, s.ID, staffID)
	if i < 0 {
		return ErrStaffNotFound
	}
	s.CreatedAt = m.staff[i].CreatedAt
	s.UpdatedAt = m.now()
	m.staff[i] = *s
	return nil
}

func (m *MemoryStore) DeleteStaff(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.staff, id, staffID)
	if i < 0 {
		return ErrStaffNotFound
	}
	m.staff = slices.Delete(m.staff, i, i+1)
	return nil
}

func (m *MemoryStore) GetStaffByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := indexByID(m.staff, id, staffID)
	if i < 0 {
		return nil, ErrStaffNotFound
	}
	s := m.staff[i]
	return &s, nil
}

func (m *MemoryStore) ListStaff(context.Context) ([]Staff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(make([]Staff, 0, len(m.staff)), m.staff...), nil
}

func (m *MemoryStore) IsPhoneUnique(_ context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.staff {
		if s.ID != excludeID && s.Phone == phone {
			return false, nil
		}
	}
	return true, nil
}

func (m *MemoryStore) IsTelegramUnique(_ context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, s := range m.staff {
		if s.ID != excludeID && s.Telegram != nil && *s.Telegram == handle {
			return false, nil
		}
	}
	return true, nil
}

// Patients

func patientID(p *Patient) uuid.UUID { return p.ID }

func (m *MemoryStore) CreatePatient(_ context.Context, p *Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&p.ID)
	p.CreatedAt = m.now()
	p.UpdatedAt = p.CreatedAt
	m.patients = append(m.patients, *p)
	return nil
}

func (m *MemoryStore) UpdatePatient(_ context.Context, p *Patient) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.patients, p.ID, patientID)
	if i < 0 {
		return ErrPatientNotFound
	}
	p.CreatedAt = m.patients[i].CreatedAt
	p.UpdatedAt = m.now()
	m.patients[i] = *p
	return nil
}

// DeletePatient also drops the patient's appointments, chart and clinical records, like the
// cascading foreign keys of the Postgres schema.
func (m *MemoryStore) DeletePatient(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.patients, id, patientID)
	if i < 0 {
		return ErrPatientNotFound
	}
	m.patients = slices.Delete(m.patients, i, i+1)
	m.appointments = slices.DeleteFunc(m.appointments, func(a Appointment) bool { return a.PatientID == id })
	delete(m.charts, id)
	m.notes = slices.DeleteFunc(m.notes, func(n ClinicalNote) bool { return n.PatientID == id })
	m.images = slices.DeleteFunc(m.images, func(img DentalImage) bool { return img.PatientID == id })
	return nil
}

func (m *MemoryStore) GetPatientByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := indexByID(m.patients, id, patientID)
	if i < 0 {
		return nil, ErrPatientNotFound
	}
	p := m.patients[i]
	return &p, nil
}

func (m *MemoryStore) ListPatients(context.Context) ([]Patient, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(make([]Patient, 0, len(m.patients)), m.patients...), nil
}

// Appointments

func appointmentID(a *Appointment) uuid.UUID { return a.ID }

func (m *MemoryStore) CreateAppointment(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&a.ID)
	a.CreatedAt = m.now()
	a.UpdatedAt = a.CreatedAt
	m.appointments = append(m.appointments, *a)
	return nil
}

func (m *MemoryStore) UpdateAppointment(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.appointments, a.ID, appointmentID)
	if i < 0 {
		return ErrAppointmentNotFound
	}
	a.CreatedAt = m.appointments[i].CreatedAt
	a.UpdatedAt = m.now()
	m.appointments[i] = *a
	return nil
}

func (m *MemoryStore) DeleteAppointment(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.appointments, id, appointmentID)
	if i < 0 {
		return ErrAppointmentNotFound
	}
	m.appointments = slices.Delete(m.appointments, i, i+1)
	return nil
}

func (m *MemoryStore) GetAppointmentByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := indexByID(m.appointments, id, appointmentID)
	if i < 0 {
		return nil, ErrAppointmentNotFound
	}
	a := m.appointments[i]
	return &a, nil
}

// ListAppointments returns matches in insertion order.
func (m *MemoryStore) ListAppointments(_ context.Context, f AppointmentFilter) ([]Appointment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Appointment, 0)
	for _, a := range m.appointments {
		if f.Match(a) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Rooms

func roomID(r *Room) uuid.UUID { return r.ID }

func (m *MemoryStore) CreateRoom(_ context.Context, r *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&r.ID)
	r.CreatedAt = m.now()
	r.UpdatedAt = r.CreatedAt
	r.Equipment = slices.Clone(r.Equipment)
	m.rooms = append(m.rooms, *r)
	return nil
}

func (m *MemoryStore) UpdateRoom(_ context.Context, r *Room) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.rooms, r.ID, roomID)
	if i < 0 {
		return ErrRoomNotFound
	}
	r.CreatedAt = m.rooms[i].CreatedAt
	r.UpdatedAt = m.now()
	r.Equipment = slices.Clone(r.Equipment)
	m.rooms[i] = *r
	return nil
}

func (m *MemoryStore) GetRoomByID(_ context.Context, id uuid.UUID) (*Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := indexByID(m.rooms, id, roomID)
	if i < 0 {
		return nil, ErrRoomNotFound
	}
	r := m.rooms[i]
	r.Equipment = slices.Clone(r.Equipment)
	return &r, nil
}

func (m *MemoryStore) ListRooms(context.Context) ([]Room, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := append(make([]Room, 0, len(m.rooms)), m.rooms...)
	for i := range out {
		out[i].Equipment = slices.Clone(out[i].Equipment)
	}
	return out, nil
}

// Calendar blocks

func (m *MemoryStore) CreateHoliday(_ context.Context, h *Holiday) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&h.ID)
	m.holidays = append(m.holidays, *h)
	return nil
}

func (m *MemoryStore) DeleteHoliday(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.holidays, id, func(h *Holiday) uuid.UUID { return h.ID })
	if i < 0 {
		return ErrHolidayNotFound
	}
	m.holidays = slices.Delete(m.holidays, i, i+1)
	return nil
}

func (m *MemoryStore) ListHolidays(context.Context) ([]Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(make([]Holiday, 0, len(m.holidays)), m.holidays...), nil
}

func dayOffID(d *DayOff) uuid.UUID { return d.ID }

func (m *MemoryStore) CreateDayOff(_ context.Context, d *DayOff) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&d.ID)
	d.CreatedAt = m.now()
	d.UpdatedAt = d.CreatedAt
	m.dayOffs = append(m.dayOffs, *d)
	return nil
}

func (m *MemoryStore) UpdateDayOff(_ context.Context, d *DayOff) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.dayOffs, d.ID, dayOffID)
	if i < 0 {
		return ErrDayOffNotFound
	}
	d.CreatedAt = m.dayOffs[i].CreatedAt
	d.UpdatedAt = m.now()
	m.dayOffs[i] = *d
	return nil
}

func (m *MemoryStore) GetDayOffByID(_ context.Context, id uuid.UUID) (*DayOff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := indexByID(m.dayOffs, id, dayOffID)
	if i < 0 {
		return nil, ErrDayOffNotFound
	}
	d := m.dayOffs[i]
	return &d, nil
}

// ListDayOffs returns every day off, or only those on date when it is set.
func (m *MemoryStore) ListDayOffs(_ context.Context, date string) ([]DayOff, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]DayOff, 0)
	for _, d := range m.dayOffs {
		if date == "" || d.Date == date {
			out = append(out, d)
		}
	}
	return out, nil
}

// Inventory

func itemID(it *InventoryItem) uuid.UUID { return it.ID }

func (m *MemoryStore) CreateItem(_ context.Context, it *InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&it.ID)
	it.CreatedAt = m.now()
	it.UpdatedAt = it.CreatedAt
	m.items = append(m.items, *it)
	return nil
}

func (m *MemoryStore) UpdateItem(_ context.Context, it *InventoryItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.items, it.ID, itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	it.CreatedAt = m.items[i].CreatedAt
	it.UpdatedAt = m.now()
	m.items[i] = *it
	return nil
}

func (m *MemoryStore) DeleteItem(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := indexByID(m.items, id, itemID)
	if i < 0 {
		return ErrItemNotFound
	}
	m.items = slices.Delete(m.items, i, i+1)
	return nil
}

func (m *MemoryStore) GetItemByID(_ context.Context, id uuid.UUID) (*InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := indexByID(m.items, id, itemID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	it := m.items[i]
	return &it, nil
}

func (m *MemoryStore) ListItems(context.Context) ([]InventoryItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append(make([]InventoryItem, 0, len(m.items)), m.items...), nil
}

// Clinical records

func (m *MemoryStore) CreateNote(_ context.Context, n *ClinicalNote) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&n.ID)
	n.CreatedAt = m.now()
	m.notes = append(m.notes, *n)
	return nil
}

func (m *MemoryStore) DeleteNote(_ context.Context, patientID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, n := range m.notes {
		if n.ID == id && n.PatientID == patientID {
			m.notes = slices.Delete(m.notes, i, i+1)
			return nil
		}
	}
	return ErrNoteNotFound
}

func (m *MemoryStore) ListNotes(_ context.Context, patientID uuid.UUID) ([]ClinicalNote, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]ClinicalNote, 0)
	for _, n := range m.notes {
		if n.PatientID == patientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *MemoryStore) CreateImage(_ context.Context, img *DentalImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ensureID(&img.ID)
	img.CreatedAt = m.now()
	m.images = append(m.images, *img)
	return nil
}

func (m *MemoryStore) DeleteImage(_ context.Context, patientID, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, img := range m.images {
		if img.ID == id && img.PatientID == patientID {
			m.images = slices.Delete(m.images, i, i+1)
			return nil
		}
	}
	return ErrImageNotFound
}

func (m *MemoryStore) ListImages(_ context.Context, patientID uuid.UUID) ([]DentalImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]DentalImage, 0)
	for _, img := range m.images {
		if img.PatientID == patientID {
			out = append(out, img)
		}
	}
	return out, nil
}

// Tooth charts

func (m *MemoryStore) LoadChart(_ context.Context, patientID uuid.UUID) (*chart.Chart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.charts[patientID]
	if !ok {
		return nil, chart.ErrChartNotFound
	}
	return cloneChart(c), nil
}

func (m *MemoryStore) SaveChart(_ context.Context, c *chart.Chart) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.charts[c.PatientID] = cloneChart(c)
	return nil
}

func cloneChart(c *chart.Chart) *chart.Chart {
	out := &chart.Chart{
		PatientID: c.PatientID,
		Teeth:     make(map[chart.ToothNumber]*chart.ToothRecord, len(c.Teeth)),
		UpdatedAt: c.UpdatedAt,
	}
	for t, rec := range c.Teeth {
		cp := *rec
		cp.Treatments = slices.Clone(rec.Treatments)
		if cp.Treatments == nil {
			cp.Treatments = []chart.TreatmentEntry{}
		}
		out.Teeth[t] = &cp
	}
	return out
}

// Event logging

func (m *MemoryStore) InsertEvent(_ context.Context, ev EventLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextEventID++
	ev.ID = m.nextEventID
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = m.now()
	}
	m.events = append(m.events, ev)
	return nil
}

func (m *MemoryStore) ListEvents(_ context.Context, appointmentID uuid.UUID) ([]EventLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]EventLog, 0)
	for _, ev := range m.events {
		if ev.AppointmentID != nil && *ev.AppointmentID == appointmentID {
			out = append(out, ev)
		}
	}
	return out, nil
}
