package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is idempotent so every process can apply it on startup.
const Schema = `
CREATE TABLE IF NOT EXISTS staff (
	id             uuid PRIMARY KEY,
	name           text NOT NULL,
	role           text NOT NULL,
	specialization text,
	phone          text NOT NULL,
	telegram       text,
	email          text,
	status         text NOT NULL DEFAULT 'active',
	password_hash  text NOT NULL DEFAULT '',
	seq            bigserial,
	created_at     timestamptz NOT NULL DEFAULT now(),
	updated_at     timestamptz NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS staff_phone_key ON staff (phone);
CREATE UNIQUE INDEX IF NOT EXISTS staff_telegram_key ON staff (telegram) WHERE telegram IS NOT NULL;

CREATE TABLE IF NOT EXISTS patients (
	id              uuid PRIMARY KEY,
	name            text NOT NULL,
	phone           text NOT NULL,
	email           text,
	date_of_birth   date,
	gender          text,
	address         text,
	allergies       text[] NOT NULL DEFAULT '{}',
	medical_history text,
	seq             bigserial,
	created_at      timestamptz NOT NULL DEFAULT now(),
	updated_at      timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS rooms (
	id           uuid PRIMARY KEY,
	name         text NOT NULL,
	chair_number int NOT NULL DEFAULT 0,
	floor        int NOT NULL DEFAULT 0,
	equipment    text[] NOT NULL DEFAULT '{}',
	status       text NOT NULL DEFAULT 'available',
	seq          bigserial,
	created_at   timestamptz NOT NULL DEFAULT now(),
	updated_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS appointments (
	id           uuid PRIMARY KEY,
	patient_id   uuid NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
	dentist_id   uuid NOT NULL,
	room_id      uuid REFERENCES rooms (id) ON DELETE SET NULL,
	date         date NOT NULL,
	start_minute smallint NOT NULL,
	end_minute   smallint NOT NULL,
	status       text NOT NULL DEFAULT 'scheduled',
	treatment    text,
	notes        text,
	seq          bigserial,
	created_at   timestamptz NOT NULL DEFAULT now(),
	updated_at   timestamptz NOT NULL DEFAULT now(),
	CHECK (start_minute < end_minute)
);
CREATE INDEX IF NOT EXISTS appointments_date_idx ON appointments (date, dentist_id);

CREATE TABLE IF NOT EXISTS holidays (
	id   uuid PRIMARY KEY,
	date date NOT NULL,
	name text NOT NULL
);

CREATE TABLE IF NOT EXISTS day_offs (
	id         uuid PRIMARY KEY,
	staff_id   uuid NOT NULL REFERENCES staff (id) ON DELETE CASCADE,
	date       date NOT NULL,
	reason     text,
	status     text NOT NULL DEFAULT 'pending',
	seq        bigserial,
	created_at timestamptz NOT NULL DEFAULT now(),
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS inventory_items (
	id           uuid PRIMARY KEY,
	name         text NOT NULL,
	category     text NOT NULL,
	quantity     int NOT NULL CHECK (quantity >= 0),
	unit         text NOT NULL,
	min_quantity int NOT NULL DEFAULT 0,
	supplier     text,
	expiry_date  date,
	seq          bigserial,
	created_at   timestamptz NOT NULL DEFAULT now(),
	updated_at   timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS clinical_notes (
	id         uuid PRIMARY KEY,
	patient_id uuid NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
	dentist_id uuid NOT NULL,
	date       date NOT NULL,
	title      text NOT NULL,
	content    text NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS dental_images (
	id         uuid PRIMARY KEY,
	patient_id uuid NOT NULL REFERENCES patients (id) ON DELETE CASCADE,
	kind       text NOT NULL,
	file_name  text NOT NULL,
	taken_at   date NOT NULL,
	notes      text,
	created_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tooth_charts (
	patient_id uuid PRIMARY KEY REFERENCES patients (id) ON DELETE CASCADE,
	teeth      jsonb NOT NULL,
	updated_at timestamptz NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS event_logs (
	id             bigserial PRIMARY KEY,
	event_type     text NOT NULL,
	appointment_id uuid,
	payload        jsonb,
	created_at     timestamptz NOT NULL DEFAULT now()
);
`

func ApplySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
