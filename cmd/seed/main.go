package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	"github.com/hackgods/dental-clinic-scheduling/internal/db"
	"github.com/hackgods/dental-clinic-scheduling/internal/directory"
	"github.com/hackgods/dental-clinic-scheduling/internal/logging"
)

func main() {
	dentists := flag.Int("dentists", 8, "number of dentists")
	patients := flag.Int("patients", 500, "number of patients")
	rooms := flag.Int("rooms", 5, "number of treatment rooms")
	days := flag.Int("days", 14, "days of appointments starting today")
	flag.Parse()

	log := logging.New(os.Getenv("APP_ENV"), "info", os.Stdout).With().Str("service", "seed").Logger()
	log.Info().Msg("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal().Msg("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn, true)
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	store := clinic.NewPgStore(pool)
	faker := gofakeit.New(uint64(time.Now().UnixNano()))
	s := seeder{store: store, faker: faker, log: log}

	bg := context.Background()
	dentistIDs, err := s.seedDentists(bg, *dentists)
	if err != nil {
		log.Fatal().Err(err).Msg("seed dentists")
	}
	patientIDs, err := s.seedPatients(bg, *patients)
	if err != nil {
		log.Fatal().Err(err).Msg("seed patients")
	}
	roomIDs, err := s.seedRooms(bg, *rooms)
	if err != nil {
		log.Fatal().Err(err).Msg("seed rooms")
	}
	if err := s.seedAppointments(bg, time.Now(), *days, dentistIDs, patientIDs, roomIDs); err != nil {
		log.Fatal().Err(err).Msg("seed appointments")
	}

	log.Info().Msg("seed complete")
}

type seeder struct {
	store *clinic.PgStore
	faker *gofakeit.Faker
	log   zerolog.Logger
}

func (s seeder) seedDentists(ctx context.Context, count int) ([]uuid.UUID, error) {
	s.log.Info().Int("count", count).Msg("seeding dentists")

	specialties := []string{
		"General dentistry",
		"Orthodontics",
		"Endodontics",
		"Periodontics",
		"Prosthodontics",
		"Oral surgery",
		"Pediatric dentistry",
	}

	hasher := directory.NewBcryptHasher(0)
	hash, err := hasher.Hash("changeme123")
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		spec := specialties[s.faker.Number(0, len(specialties)-1)]
		email := s.faker.Email()
		st := &clinic.Staff{
			ID:             uuid.New(),
			Name:           "Dr. " + s.faker.Name(),
			Role:           clinic.RoleDentist,
			Specialization: &spec,
			Phone:          fmt.Sprintf("+1-555-%04d", 1000+i),
			Email:          &email,
			Status:         clinic.StaffActive,
			PasswordHash:   hash,
		}
		if err := s.store.CreateStaff(ctx, st); err != nil {
			return nil, err
		}
		ids = append(ids, st.ID)
	}
	return ids, nil
}

func (s seeder) seedPatients(ctx context.Context, count int) ([]uuid.UUID, error) {
	s.log.Info().Int("count", count).Msg("seeding patients")

	allergies := []string{"penicillin", "latex", "lidocaine", "ibuprofen"}

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		email := s.faker.Email()
		dob := s.faker.DateRange(time.Now().AddDate(-90, 0, 0), time.Now().AddDate(-3, 0, 0)).Format(clinic.DateLayout)
		gender := s.faker.RandomString([]string{"male", "female", "other"})
		address := s.faker.Address().Address

		p := &clinic.Patient{
			ID:          uuid.New(),
			Name:        s.faker.Name(),
			Phone:       s.faker.Phone(),
			Email:       &email,
			DateOfBirth: &dob,
			Gender:      &gender,
			Address:     &address,
			Allergies:   []string{},
		}
		if s.faker.Number(1, 10) == 1 {
			p.Allergies = append(p.Allergies, allergies[s.faker.Number(0, len(allergies)-1)])
		}
		if err := s.store.CreatePatient(ctx, p); err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (s seeder) seedRooms(ctx context.Context, count int) ([]uuid.UUID, error) {
	s.log.Info().Int("count", count).Msg("seeding rooms")

	ids := make([]uuid.UUID, 0, count)
	for i := 1; i <= count; i++ {
		r := &clinic.Room{
			ID:          uuid.New(),
			Name:        fmt.Sprintf("Room %d", i),
			ChairNumber: i,
			Floor:       1 + (i-1)/3,
			Equipment:   []string{"dental chair", "x-ray sensor"},
			Status:      clinic.RoomAvailable,
		}
		if err := s.store.CreateRoom(ctx, r); err != nil {
			return nil, err
		}
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// seedAppointments fills each room back to back from 09:00 with 30 to 90 minute visits,
// so the generated roster never double-books a room.
func (s seeder) seedAppointments(ctx context.Context, from time.Time, days int, dentists, patients, rooms []uuid.UUID) error {
	if len(dentists) == 0 || len(patients) == 0 {
		return nil
	}
	s.log.Info().Int("days", days).Msg("seeding appointments")

	treatments := []string{"Cleaning", "Filling", "Check-up", "Root canal", "Crown fitting", "Extraction"}
	open, closeAt := clinic.MustClock("09:00"), clinic.MustClock("18:00")
	lunchStart, lunchEnd := clinic.MustClock("13:00"), clinic.MustClock("14:00")

	total := 0
	for d := 0; d < days; d++ {
		date := from.AddDate(0, 0, d).Format(clinic.DateLayout)
		for i, roomID := range rooms {
			roomID := roomID
			dentistID := dentists[i%len(dentists)]
			start := open
			for {
				end := start.Add(time.Duration(30*s.faker.Number(1, 3)) * time.Minute)
				if end > closeAt {
					break
				}
				if start < lunchEnd && end > lunchStart {
					start = lunchEnd
					continue
				}
				treatment := treatments[s.faker.Number(0, len(treatments)-1)]
				a := &clinic.Appointment{
					ID:        uuid.New(),
					PatientID: patients[s.faker.Number(0, len(patients)-1)],
					DentistID: dentistID,
					RoomID:    &roomID,
					Date:      date,
					StartTime: start,
					EndTime:   end,
					Status:    clinic.StatusScheduled,
					Treatment: &treatment,
				}
				if err := s.store.CreateAppointment(ctx, a); err != nil {
					return err
				}
				total++
				start = end.Add(time.Duration(30*s.faker.Number(0, 1)) * time.Minute)
			}
		}
	}

	s.log.Info().Int("count", total).Msg("appointments seeded")
	return nil
}
