// Package records keeps clinical notes and dental image metadata per patient.
package records

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidKind  = errors.New("image kind must be xray, photo or scan")
)

type Repository interface {
	GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error)
	GetStaffByID(ctx context.Context, id uuid.UUID) (*clinic.Staff, error)

	CreateNote(ctx context.Context, n *clinic.ClinicalNote) error
	DeleteNote(ctx context.Context, patientID, id uuid.UUID) error
	ListNotes(ctx context.Context, patientID uuid.UUID) ([]clinic.ClinicalNote, error)
	CreateImage(ctx context.Context, img *clinic.DentalImage) error
	DeleteImage(ctx context.Context, patientID, id uuid.UUID) error
	ListImages(ctx context.Context, patientID uuid.UUID) ([]clinic.DentalImage, error)
}

type NoteInput struct {
	DentistID uuid.UUID `validate:"required"`
	Date      string    `validate:"required,datetime=2006-01-02"`
	Title     string    `validate:"required,max=200"`
	Content   string    `validate:"required"`
}

type ImageInput struct {
	Kind     clinic.ImageKind `validate:"required"`
	FileName string           `validate:"required,max=255"`
	TakenAt  string           `validate:"required,datetime=2006-01-02"`
	Notes    *string
}

type Service struct {
	repo     Repository
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo Repository, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
		log:      log.With().Str("component", "records").Logger(),
	}
}

func (s *Service) AddNote(ctx context.Context, patientID uuid.UUID, in NoteInput) (*clinic.ClinicalNote, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	in.Title = strings.TrimSpace(in.Title)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if _, err := s.repo.GetStaffByID(ctx, in.DentistID); err != nil {
		return nil, err
	}

	n := clinic.ClinicalNote{
		ID:        uuid.New(),
		PatientID: patientID,
		DentistID: in.DentistID,
		Date:      in.Date,
		Title:     in.Title,
		Content:   in.Content,
	}
	if err := s.repo.CreateNote(ctx, &n); err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}
	return &n, nil
}

func (s *Service) ListNotes(ctx context.Context, patientID uuid.UUID) ([]clinic.ClinicalNote, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListNotes(ctx, patientID)
}

func (s *Service) DeleteNote(ctx context.Context, patientID, id uuid.UUID) error {
	return s.repo.DeleteNote(ctx, patientID, id)
}

// AddImage records an image's metadata. The file itself lives outside this service.
func (s *Service) AddImage(ctx context.Context, patientID uuid.UUID, in ImageInput) (*clinic.DentalImage, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	in.FileName = strings.TrimSpace(in.FileName)
	if err := s.check(in); err != nil {
		return nil, err
	}
	switch in.Kind {
	case clinic.ImageXRay, clinic.ImagePhoto, clinic.ImageScan:
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, in.Kind)
	}

	img := clinic.DentalImage{
		ID:        uuid.New(),
		PatientID: patientID,
		Kind:      in.Kind,
		FileName:  in.FileName,
		TakenAt:   in.TakenAt,
		Notes:     in.Notes,
	}
	if err := s.repo.CreateImage(ctx, &img); err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	s.log.Debug().Str("patient_id", patientID.String()).Str("kind", string(img.Kind)).Msg("image recorded")
	return &img, nil
}

func (s *Service) ListImages(ctx context.Context, patientID uuid.UUID) ([]clinic.DentalImage, error) {
	if _, err := s.repo.GetPatientByID(ctx, patientID); err != nil {
		return nil, err
	}
	return s.repo.ListImages(ctx, patientID)
}

func (s *Service) DeleteImage(ctx context.Context, patientID, id uuid.UUID) error {
	return s.repo.DeleteImage(ctx, patientID, id)
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
