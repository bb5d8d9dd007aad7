package chart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

var (
	ErrChartNotFound    = errors.New("chart not found")
	ErrPatientNotFound  = errors.New("patient not found")
	ErrUnknownTreatment = errors.New("treatment type is not in the catalog")
	ErrUnknownDentist   = errors.New("dentist not found")
	ErrInvalidDate      = errors.New("date must be YYYY-MM-DD")
)

// Store persists one chart per patient.
type Store interface {
	LoadChart(ctx context.Context, patientID uuid.UUID) (*Chart, error)
	SaveChart(ctx context.Context, c *Chart) error
}

// People resolves the patient and dentist references a chart edit carries.
type People interface {
	PatientExists(ctx context.Context, id uuid.UUID) (bool, error)
	DentistName(ctx context.Context, id uuid.UUID) (string, bool, error)
}

type AddTreatmentInput struct {
	TreatmentType string
	DentistID     uuid.UUID
	Date          string // defaults to today
	Surface       *string
	Notes         *string
}

type Service struct {
	store   Store
	people  People
	catalog *Catalog
	locker  redisclient.Locker
	log     zerolog.Logger
	now     func() time.Time
}

func NewService(store Store, people People, catalog *Catalog, locker redisclient.Locker, log zerolog.Logger) *Service {
	return &Service{
		store:   store,
		people:  people,
		catalog: catalog,
		locker:  locker,
		log:     log.With().Str("component", "chart").Logger(),
		now:     time.Now,
	}
}

func (s *Service) Catalog() *Catalog { return s.catalog }

// GetChart returns the patient's chart, or a fresh all-healthy chart if none was saved yet.
func (s *Service) GetChart(ctx context.Context, patientID uuid.UUID) (*Chart, error) {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return nil, err
	}
	return s.load(ctx, patientID)
}

func (s *Service) SetStatus(ctx context.Context, patientID uuid.UUID, tooth ToothNumber, status Status) (*ToothRecord, error) {
	var rec *ToothRecord
	err := s.mutate(ctx, patientID, func(c *Chart) error {
		if err := c.SetStatus(tooth, status); err != nil {
			return err
		}
		rec = c.Teeth[tooth]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Service) SetNotes(ctx context.Context, patientID uuid.UUID, tooth ToothNumber, notes *string) (*ToothRecord, error) {
	var rec *ToothRecord
	err := s.mutate(ctx, patientID, func(c *Chart) error {
		if err := c.SetNotes(tooth, notes); err != nil {
			return err
		}
		rec = c.Teeth[tooth]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// AddTreatment records a treatment on a tooth after resolving its catalog and dentist references.
func (s *Service) AddTreatment(ctx context.Context, patientID uuid.UUID, tooth ToothNumber, in AddTreatmentInput) (*TreatmentEntry, error) {
	if !tooth.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTooth, int(tooth))
	}

	tt, ok := s.catalog.Lookup(in.TreatmentType)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTreatment, in.TreatmentType)
	}

	if in.DentistID == uuid.Nil {
		return nil, ErrUnknownDentist
	}
	dentist, found, err := s.people.DentistName(ctx, in.DentistID)
	if err != nil {
		return nil, fmt.Errorf("resolve dentist: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDentist, in.DentistID)
	}

	date := in.Date
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}

	entry := TreatmentEntry{
		ID:            uuid.New(),
		Date:          date,
		TreatmentType: tt.Code,
		Treatment:     tt.Name,
		DentistID:     in.DentistID,
		Dentist:       dentist,
		Notes:         in.Notes,
	}
	if in.Surface != nil {
		surface, err := normalizeSurface(*in.Surface)
		if err != nil {
			return nil, err
		}
		entry.Surface = &surface
	}

	err = s.mutate(ctx, patientID, func(c *Chart) error {
		return c.AddTreatment(tooth, entry)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("patient_id", patientID.String()).
		Int("tooth", int(tooth)).
		Str("treatment", tt.Code).
		Msg("treatment recorded")

	return &entry, nil
}

// DeleteTreatment removes one history entry. Unknown ids are a no-op.
func (s *Service) DeleteTreatment(ctx context.Context, patientID uuid.UUID, tooth ToothNumber, treatmentID uuid.UUID) error {
	return s.mutate(ctx, patientID, func(c *Chart) error {
		removed, err := c.DeleteTreatment(tooth, treatmentID)
		if err != nil {
			return err
		}
		if !removed {
			return errNothingChanged
		}
		return nil
	})
}

var errNothingChanged = errors.New("nothing changed")

func (s *Service) mutate(ctx context.Context, patientID uuid.UUID, fn func(c *Chart) error) error {
	if err := s.requirePatient(ctx, patientID); err != nil {
		return err
	}

	return s.locker.WithLock(ctx, redisclient.ChartKey(patientID), func(lockCtx context.Context) error {
		c, err := s.load(lockCtx, patientID)
		if err != nil {
			return err
		}

		if err := fn(c); err != nil {
			if errors.Is(err, errNothingChanged) {
				return nil
			}
			return err
		}

		c.UpdatedAt = s.now()
		if err := s.store.SaveChart(lockCtx, c); err != nil {
			return fmt.Errorf("save chart: %w", err)
		}
		return nil
	})
}

func (s *Service) load(ctx context.Context, patientID uuid.UUID) (*Chart, error) {
	c, err := s.store.LoadChart(ctx, patientID)
	if errors.Is(err, ErrChartNotFound) {
		return New(patientID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chart: %w", err)
	}
	return c, nil
}

func (s *Service) requirePatient(ctx context.Context, patientID uuid.UUID) error {
	ok, err := s.people.PatientExists(ctx, patientID)
	if err != nil {
		return fmt.Errorf("load patient: %w", err)
	}
	if !ok {
		return ErrPatientNotFound
	}
	return nil
}
