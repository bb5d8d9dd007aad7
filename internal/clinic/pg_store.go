package clinic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackgods/dental-clinic-scheduling/internal/chart"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

func (r *PgStore) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Helpers

func notFound(err error, sentinel error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel
	}
	return err
}

const uniqueViolation = "23505"

// staffConflict turns a unique index violation on staff contacts into the matching sentinel.
func staffConflict(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch pgErr.ConstraintName {
	case "staff_phone_key":
		return ErrDuplicatePhone
	case "staff_telegram_key":
		return ErrDuplicateTelegram
	}
	return err
}

func execOne(ctx context.Context, pool *pgxpool.Pool, sentinel error, sql string, args ...any) error {
	tag, err := pool.Exec(ctx, sql, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return sentinel
	}
	return nil
}

func collect[T any](rows pgx.Rows, scan func(pgx.Row) (*T, error)) ([]T, error) {
	defer rows.Close()

	result := make([]T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

const staffColumns = `id, name, role, specialization, phone, telegram, email, status, password_hash, created_at, updated_at`

func scanStaff(row pgx.Row) (*Staff, error) {
	var s Staff
	err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Role,
		&s.Specialization,
		&s.Phone,
		&s.Telegram,
		&s.Email,
		&s.Status,
		&s.PasswordHash,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrStaffNotFound)
	}
	return &s, nil
}

const patientColumns = `id, name, phone, email, to_char(date_of_birth, 'YYYY-MM-DD'), gender, address, allergies, medical_history, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Phone,
		&p.Email,
		&p.DateOfBirth,
		&p.Gender,
		&p.Address,
		&p.Allergies,
		&p.MedicalHistory,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrPatientNotFound)
	}
	return &p, nil
}

const appointmentColumns = `id, patient_id, dentist_id, room_id, to_char(date, 'YYYY-MM-DD'), start_minute, end_minute, status, treatment, notes, created_at, updated_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var start, end int

	err := row.Scan(
		&a.ID,
		&a.PatientID,
		&a.DentistID,
		&a.RoomID,
		&a.Date,
		&start,
		&end,
		&a.Status,
		&a.Treatment,
		&a.Notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrAppointmentNotFound)
	}

	a.StartTime = Clock(start)
	a.EndTime = Clock(end)
	return &a, nil
}

const roomColumns = `id, name, chair_number, floor, equipment, status, created_at, updated_at`

func scanRoom(row pgx.Row) (*Room, error) {
	var rm Room
	err := row.Scan(
		&rm.ID,
		&rm.Name,
		&rm.ChairNumber,
		&rm.Floor,
		&rm.Equipment,
		&rm.Status,
		&rm.CreatedAt,
		&rm.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrRoomNotFound)
	}
	return &rm, nil
}

func scanHoliday(row pgx.Row) (*Holiday, error) {
	var h Holiday
	if err := row.Scan(&h.ID, &h.Date, &h.Name); err != nil {
		return nil, notFound(err, ErrHolidayNotFound)
	}
	return &h, nil
}

const dayOffColumns = `id, staff_id, to_char(date, 'YYYY-MM-DD'), reason, status, created_at, updated_at`

func scanDayOff(row pgx.Row) (*DayOff, error) {
	var d DayOff
	err := row.Scan(&d.ID, &d.StaffID, &d.Date, &d.Reason, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, notFound(err, ErrDayOffNotFound)
	}
	return &d, nil
}

const itemColumns = `id, name, category, quantity, unit, min_quantity, supplier, to_char(expiry_date, 'YYYY-MM-DD'), created_at, updated_at`

func scanItem(row pgx.Row) (*InventoryItem, error) {
	var it InventoryItem
	err := row.Scan(
		&it.ID,
		&it.Name,
		&it.Category,
		&it.Quantity,
		&it.Unit,
		&it.MinQuantity,
		&it.Supplier,
		&it.ExpiryDate,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err, ErrItemNotFound)
	}
	return &it, nil
}

func scanNote(row pgx.Row) (*ClinicalNote, error) {
	var n ClinicalNote
	err := row.Scan(&n.ID, &n.PatientID, &n.DentistID, &n.Date, &n.Title, &n.Content, &n.CreatedAt)
	if err != nil {
		return nil, notFound(err, ErrNoteNotFound)
	}
	return &n, nil
}

func scanImage(row pgx.Row) (*DentalImage, error) {
	var img DentalImage
	err := row.Scan(&img.ID, &img.PatientID, &img.Kind, &img.FileName, &img.TakenAt, &img.Notes, &img.CreatedAt)
	if err != nil {
		return nil, notFound(err, ErrImageNotFound)
	}
	return &img, nil
}

func scanEvent(row pgx.Row) (*EventLog, error) {
	var ev EventLog
	if err := row.Scan(&ev.ID, &ev.EventType, &ev.AppointmentID, &ev.Payload, &ev.CreatedAt); err != nil {
		return nil, err
	}
	return &ev, nil
}

// Staff

func (r *PgStore) CreateStaff(ctx context.Context, s *Staff) error {
	ensureID(&s.ID)
	created, err := scanStaff(r.pool.QueryRow(ctx, `
		INSERT INTO staff (id, name, role, specialization, phone, telegram, email, status, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+staffColumns,
		s.ID, s.Name, s.Role, s.Specialization, s.Phone, s.Telegram, s.Email, s.Status, s.PasswordHash))
	if err != nil {
		return fmt.Errorf("insert staff: %w", staffConflict(err))
	}
	*s = *created
	return nil
}

func (r *PgStore) UpdateStaff(ctx context.Context, s *Staff) error {
	updated, err := scanStaff(r.pool.QueryRow(ctx, `
		UPDATE staff
		SET name = $2, role = $3, specialization = $4, phone = $5, telegram = $6,
		    email = $7, status = $8, password_hash = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+staffColumns,
		s.ID, s.Name, s.Role, s.Specialization, s.Phone, s.Telegram, s.Email, s.Status, s.PasswordHash))
	if err != nil {
		return staffConflict(err)
	}
	*s = *updated
	return nil
}

func (r *PgStore) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrStaffNotFound, `DELETE FROM staff WHERE id = $1`, id)
}

func (r *PgStore) GetStaffByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
}

func (r *PgStore) ListStaff(ctx context.Context) ([]Staff, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+staffColumns+` FROM staff ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanStaff)
}

func (r *PgStore) IsPhoneUnique(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM staff WHERE phone = $1 AND id <> $2)
	`, phone, excludeID).Scan(&taken)
	return !taken, err
}

func (r *PgStore) IsTelegramUnique(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	var taken bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM staff WHERE telegram = $1 AND id <> $2)
	`, handle, excludeID).Scan(&taken)
	return !taken, err
}

// Patients

func (r *PgStore) CreatePatient(ctx context.Context, p *Patient) error {
	ensureID(&p.ID)
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	created, err := scanPatient(r.pool.QueryRow(ctx, `
		INSERT INTO patients (id, name, phone, email, date_of_birth, gender, address, allergies, medical_history)
		VALUES ($1, $2, $3, $4, $5::text::date, $6, $7, $8, $9)
		RETURNING `+patientColumns,
		p.ID, p.Name, p.Phone, p.Email, p.DateOfBirth, p.Gender, p.Address, p.Allergies, p.MedicalHistory))
	if err != nil {
		return fmt.Errorf("insert patient: %w", err)
	}
	*p = *created
	return nil
}

func (r *PgStore) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	updated, err := scanPatient(r.pool.QueryRow(ctx, `
		UPDATE patients
		SET name = $2, phone = $3, email = $4, date_of_birth = $5::text::date, gender = $6,
		    address = $7, allergies = $8, medical_history = $9, updated_at = now()
		WHERE id = $1
		RETURNING `+patientColumns,
		p.ID, p.Name, p.Phone, p.Email, p.DateOfBirth, p.Gender, p.Address, p.Allergies, p.MedicalHistory))
	if err != nil {
		return err
	}
	*p = *updated
	return nil
}

func (r *PgStore) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrPatientNotFound, `DELETE FROM patients WHERE id = $1`, id)
}

func (r *PgStore) GetPatientByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.pool.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
}

func (r *PgStore) ListPatients(ctx context.Context) ([]Patient, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+patientColumns+` FROM patients ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPatient)
}

// Appointments

func (r *PgStore) CreateAppointment(ctx context.Context, a *Appointment) error {
	ensureID(&a.ID)
	created, err := scanAppointment(r.pool.QueryRow(ctx, `
		INSERT INTO appointments (id, patient_id, dentist_id, room_id, date, start_minute, end_minute, status, treatment, notes)
		VALUES ($1, $2, $3, $4, $5::text::date, $6, $7, $8, $9, $10)
		RETURNING `+appointmentColumns,
		a.ID, a.PatientID, a.DentistID, a.RoomID, a.Date, int(a.StartTime), int(a.EndTime), a.Status, a.Treatment, a.Notes))
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	*a = *created
	return nil
}

func (r *PgStore) UpdateAppointment(ctx context.Context, a *Appointment) error {
	updated, err := scanAppointment(r.pool.QueryRow(ctx, `
		UPDATE appointments
		SET patient_id = $2, dentist_id = $3, room_id = $4, date = $5::text::date,
		    start_minute = $6, end_minute = $7, status = $8, treatment = $9, notes = $10,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+appointmentColumns,
		a.ID, a.PatientID, a.DentistID, a.RoomID, a.Date, int(a.StartTime), int(a.EndTime), a.Status, a.Treatment, a.Notes))
	if err != nil {
		return err
	}
	*a = *updated
	return nil
}

func (r *PgStore) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrAppointmentNotFound, `DELETE FROM appointments WHERE id = $1`, id)
}

func (r *PgStore) GetAppointmentByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.pool.QueryRow(ctx, `SELECT `+appointmentColumns+` FROM appointments WHERE id = $1`, id))
}

// ListAppointments returns matches in insertion order.
func (r *PgStore) ListAppointments(ctx context.Context, f AppointmentFilter) ([]Appointment, error) {
	statuses := make([]string, 0, len(f.Statuses))
	for _, s := range f.Statuses {
		statuses = append(statuses, string(s))
	}

	rows, err := r.pool.Query(ctx, `
		SELECT `+appointmentColumns+`
		FROM appointments
		WHERE ($1 = '' OR date = $1::text::date)
		  AND ($2 = '00000000-0000-0000-0000-000000000000'::uuid OR dentist_id = $2)
		  AND ($3 = '00000000-0000-0000-0000-000000000000'::uuid OR patient_id = $3)
		  AND ($4 = '00000000-0000-0000-0000-000000000000'::uuid OR room_id = $4)
		  AND (cardinality($5::text[]) = 0 OR status = ANY($5))
		ORDER BY seq
	`, f.Date, f.DentistID, f.PatientID, f.RoomID, statuses)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanAppointment)
}

// Rooms

func (r *PgStore) CreateRoom(ctx context.Context, rm *Room) error {
	ensureID(&rm.ID)
	if rm.Equipment == nil {
		rm.Equipment = []string{}
	}
	created, err := scanRoom(r.pool.QueryRow(ctx, `
		INSERT INTO rooms (id, name, chair_number, floor, equipment, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+roomColumns,
		rm.ID, rm.Name, rm.ChairNumber, rm.Floor, rm.Equipment, rm.Status))
	if err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	*rm = *created
	return nil
}

func (r *PgStore) UpdateRoom(ctx context.Context, rm *Room) error {
	if rm.Equipment == nil {
		rm.Equipment = []string{}
	}
	updated, err := scanRoom(r.pool.QueryRow(ctx, `
		UPDATE rooms
		SET name = $2, chair_number = $3, floor = $4, equipment = $5, status = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+roomColumns,
		rm.ID, rm.Name, rm.ChairNumber, rm.Floor, rm.Equipment, rm.Status))
	if err != nil {
		return err
	}
	*rm = *updated
	return nil
}

func (r *PgStore) GetRoomByID(ctx context.Context, id uuid.UUID) (*Room, error) {
	return scanRoom(r.pool.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = $1`, id))
}

func (r *PgStore) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanRoom)
}

// Calendar blocks

func (r *PgStore) CreateHoliday(ctx context.Context, h *Holiday) error {
	ensureID(&h.ID)
	_, err := r.pool.Exec(ctx, `
		INSERT INTO holidays (id, date, name) VALUES ($1, $2::text::date, $3)
	`, h.ID, h.Date, h.Name)
	if err != nil {
		return fmt.Errorf("insert holiday: %w", err)
	}
	return nil
}

func (r *PgStore) DeleteHoliday(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrHolidayNotFound, `DELETE FROM holidays WHERE id = $1`, id)
}

func (r *PgStore) ListHolidays(ctx context.Context) ([]Holiday, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, to_char(date, 'YYYY-MM-DD'), name FROM holidays ORDER BY date`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanHoliday)
}

func (r *PgStore) CreateDayOff(ctx context.Context, d *DayOff) error {
	ensureID(&d.ID)
	created, err := scanDayOff(r.pool.QueryRow(ctx, `
		INSERT INTO day_offs (id, staff_id, date, reason, status)
		VALUES ($1, $2, $3::text::date, $4, $5)
		RETURNING `+dayOffColumns,
		d.ID, d.StaffID, d.Date, d.Reason, d.Status))
	if err != nil {
		return fmt.Errorf("insert day off: %w", err)
	}
	*d = *created
	return nil
}

func (r *PgStore) UpdateDayOff(ctx context.Context, d *DayOff) error {
	updated, err := scanDayOff(r.pool.QueryRow(ctx, `
		UPDATE day_offs
		SET staff_id = $2, date = $3::text::date, reason = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+dayOffColumns,
		d.ID, d.StaffID, d.Date, d.Reason, d.Status))
	if err != nil {
		return err
	}
	*d = *updated
	return nil
}

func (r *PgStore) GetDayOffByID(ctx context.Context, id uuid.UUID) (*DayOff, error) {
	return scanDayOff(r.pool.QueryRow(ctx, `SELECT `+dayOffColumns+` FROM day_offs WHERE id = $1`, id))
}

func (r *PgStore) ListDayOffs(ctx context.Context, date string) ([]DayOff, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+dayOffColumns+`
		FROM day_offs
		WHERE ($1 = '' OR date = $1::text::date)
		ORDER BY seq
	`, date)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanDayOff)
}

// Inventory

func (r *PgStore) CreateItem(ctx context.Context, it *InventoryItem) error {
	ensureID(&it.ID)
	created, err := scanItem(r.pool.QueryRow(ctx, `
		INSERT INTO inventory_items (id, name, category, quantity, unit, min_quantity, supplier, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8::text::date)
		RETURNING `+itemColumns,
		it.ID, it.Name, it.Category, it.Quantity, it.Unit, it.MinQuantity, it.Supplier, it.ExpiryDate))
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	*it = *created
	return nil
}

func (r *PgStore) UpdateItem(ctx context.Context, it *InventoryItem) error {
	updated, err := scanItem(r.pool.QueryRow(ctx, `
		UPDATE inventory_items
		SET name = $2, category = $3, quantity = $4, unit = $5, min_quantity = $6,
		    supplier = $7, expiry_date = $8::text::date, updated_at = now()
		WHERE id = $1
		RETURNING `+itemColumns,
		it.ID, it.Name, it.Category, it.Quantity, it.Unit, it.MinQuantity, it.Supplier, it.ExpiryDate))
	if err != nil {
		return err
	}
	*it = *updated
	return nil
}

func (r *PgStore) DeleteItem(ctx context.Context, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrItemNotFound, `DELETE FROM inventory_items WHERE id = $1`, id)
}

func (r *PgStore) GetItemByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error) {
	return scanItem(r.pool.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
}

func (r *PgStore) ListItems(ctx context.Context) ([]InventoryItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+itemColumns+` FROM inventory_items ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanItem)
}

// Clinical records

func (r *PgStore) CreateNote(ctx context.Context, n *ClinicalNote) error {
	ensureID(&n.ID)
	created, err := scanNote(r.pool.QueryRow(ctx, `
		INSERT INTO clinical_notes (id, patient_id, dentist_id, date, title, content)
		VALUES ($1, $2, $3, $4::text::date, $5, $6)
		RETURNING id, patient_id, dentist_id, to_char(date, 'YYYY-MM-DD'), title, content, created_at
	`, n.ID, n.PatientID, n.DentistID, n.Date, n.Title, n.Content))
	if err != nil {
		return fmt.Errorf("insert clinical note: %w", err)
	}
	*n = *created
	return nil
}

func (r *PgStore) DeleteNote(ctx context.Context, patientID, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrNoteNotFound,
		`DELETE FROM clinical_notes WHERE id = $1 AND patient_id = $2`, id, patientID)
}

func (r *PgStore) ListNotes(ctx context.Context, patientID uuid.UUID) ([]ClinicalNote, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, dentist_id, to_char(date, 'YYYY-MM-DD'), title, content, created_at
		FROM clinical_notes
		WHERE patient_id = $1
		ORDER BY created_at
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanNote)
}

func (r *PgStore) CreateImage(ctx context.Context, img *DentalImage) error {
	ensureID(&img.ID)
	created, err := scanImage(r.pool.QueryRow(ctx, `
		INSERT INTO dental_images (id, patient_id, kind, file_name, taken_at, notes)
		VALUES ($1, $2, $3, $4, $5::text::date, $6)
		RETURNING id, patient_id, kind, file_name, to_char(taken_at, 'YYYY-MM-DD'), notes, created_at
	`, img.ID, img.PatientID, img.Kind, img.FileName, img.TakenAt, img.Notes))
	if err != nil {
		return fmt.Errorf("insert dental image: %w", err)
	}
	*img = *created
	return nil
}

func (r *PgStore) DeleteImage(ctx context.Context, patientID, id uuid.UUID) error {
	return execOne(ctx, r.pool, ErrImageNotFound,
		`DELETE FROM dental_images WHERE id = $1 AND patient_id = $2`, id, patientID)
}

func (r *PgStore) ListImages(ctx context.Context, patientID uuid.UUID) ([]DentalImage, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, patient_id, kind, file_name, to_char(taken_at, 'YYYY-MM-DD'), notes, created_at
		FROM dental_images
		WHERE patient_id = $1
		ORDER BY created_at
	`, patientID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanImage)
}

// Tooth charts

func (r *PgStore) LoadChart(ctx context.Context, patientID uuid.UUID) (*chart.Chart, error) {
	var raw []byte
	var updatedAt time.Time

	err := r.pool.QueryRow(ctx, `
		SELECT teeth, updated_at FROM tooth_charts WHERE patient_id = $1
	`, patientID).Scan(&raw, &updatedAt)
	if err != nil {
		return nil, notFound(err, chart.ErrChartNotFound)
	}

	c := &chart.Chart{PatientID: patientID, UpdatedAt: updatedAt}
	if err := json.Unmarshal(raw, &c.Teeth); err != nil {
		return nil, fmt.Errorf("decode chart: %w", err)
	}
	return c, nil
}

func (r *PgStore) SaveChart(ctx context.Context, c *chart.Chart) error {
	raw, err := json.Marshal(c.Teeth)
	if err != nil {
		return fmt.Errorf("encode chart: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO tooth_charts (patient_id, teeth, updated_at)
		VALUES ($1, $2, COALESCE($3, now()))
		ON CONFLICT (patient_id) DO UPDATE
		SET teeth = EXCLUDED.teeth, updated_at = EXCLUDED.updated_at
	`, c.PatientID, raw, nullableTime(c.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert chart: %w", err)
	}
	return nil
}

// Event logging

func (r *PgStore) InsertEvent(ctx context.Context, ev EventLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO event_logs (event_type, appointment_id, payload, created_at)
		VALUES ($1, $2, $3, COALESCE($4, now()))
	`, ev.EventType, ev.AppointmentID, ev.Payload, nullableTime(ev.CreatedAt))
	if err != nil {
		return fmt.Errorf("insert event log: %w", err)
	}

	return nil
}

func (r *PgStore) ListEvents(ctx context.Context, appointmentID uuid.UUID) ([]EventLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, event_type, appointment_id, payload, created_at
		FROM event_logs
		WHERE appointment_id = $1
		ORDER BY id
	`, appointmentID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanEvent)
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
