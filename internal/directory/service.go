// Package directory manages staff members and patients.
package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hackgods/dental-clinic-scheduling/internal/clinic"
	redisclient "github.com/hackgods/dental-clinic-scheduling/internal/redis"
)

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDuplicatePhone    = clinic.ErrDuplicatePhone
	ErrDuplicateTelegram = clinic.ErrDuplicateTelegram
)

type Repository interface {
	CreateStaff(ctx context.Context, s *clinic.Staff) error
	UpdateStaff(ctx context.Context, s *clinic.Staff) error
	DeleteStaff(ctx context.Context, id uuid.UUID) error
	GetStaffByID(ctx context.Context, id uuid.UUID) (*clinic.Staff, error)
	ListStaff(ctx context.Context) ([]clinic.Staff, error)
	IsPhoneUnique(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error)
	IsTelegramUnique(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error)

	CreatePatient(ctx context.Context, p *clinic.Patient) error
	UpdatePatient(ctx context.Context, p *clinic.Patient) error
	DeletePatient(ctx context.Context, id uuid.UUID) error
	GetPatientByID(ctx context.Context, id uuid.UUID) (*clinic.Patient, error)
	ListPatients(ctx context.Context) ([]clinic.Patient, error)
}

// StaffInput is the staff form. Password is required on create and optional on update.
type StaffInput struct {
	Name            string             `validate:"required,max=120"`
	Role            clinic.StaffRole   `validate:"required,oneof=dentist hygienist assistant receptionist admin"`
	Specialization  *string            `validate:"omitempty,max=120"`
	Phone           string             `validate:"required,min=5,max=32"`
	Telegram        *string            `validate:"omitempty,max=64"`
	Email           *string            `validate:"omitempty,email"`
	Status          clinic.StaffStatus `validate:"omitempty,oneof=active on-leave inactive"`
	Password        string
	ConfirmPassword string
}

type PatientInput struct {
	Name           string   `validate:"required,max=120"`
	Phone          string   `validate:"required,min=5,max=32"`
	Email          *string  `validate:"omitempty,email"`
	DateOfBirth    *string  `validate:"omitempty,datetime=2006-01-02"`
	Gender         *string  `validate:"omitempty,oneof=male female other"`
	Address        *string  `validate:"omitempty,max=255"`
	Allergies      []string `validate:"dive,required"`
	MedicalHistory *string
}

type Service struct {
	repo     Repository
	locker   redisclient.Locker
	hasher   PasswordHasher
	validate *validator.Validate
	log      zerolog.Logger
}

func NewService(repo Repository, locker redisclient.Locker, hasher PasswordHasher, log zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		locker:   locker,
		hasher:   hasher,
		validate: validator.New(),
		log:      log.With().Str("component", "directory").Logger(),
	}
}

// Staff

func (s *Service) CreateStaff(ctx context.Context, in StaffInput) (*clinic.Staff, error) {
	in = normalizeStaff(in)
	if err := s.check(in); err != nil {
		return nil, err
	}
	if err := checkPassword(in.Password, in.ConfirmPassword); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	st := clinic.Staff{
		ID:             uuid.New(),
		Name:           in.Name,
		Role:           in.Role,
		Specialization: in.Specialization,
		Phone:          in.Phone,
		Telegram:       in.Telegram,
		Email:          in.Email,
		Status:         in.Status,
		PasswordHash:   hash,
	}
	if st.Status == "" {
		st.Status = clinic.StaffActive
	}
	err = s.withContactsLock(ctx, func(lockCtx context.Context) error {
		if err := s.checkUnique(lockCtx, in, uuid.Nil); err != nil {
			return err
		}
		if err := s.repo.CreateStaff(lockCtx, &st); err != nil {
			return fmt.Errorf("create staff: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("staff_id", st.ID.String()).Str("role", string(st.Role)).Msg("staff member added")
	return &st, nil
}

func (s *Service) UpdateStaff(ctx context.Context, id uuid.UUID, in StaffInput) (*clinic.Staff, error) {
	in = normalizeStaff(in)
	if err := s.check(in); err != nil {
		return nil, err
	}
	var hash string
	if in.Password != "" || in.ConfirmPassword != "" {
		if err := checkPassword(in.Password, in.ConfirmPassword); err != nil {
			return nil, err
		}
		var err error
		if hash, err = s.hasher.Hash(in.Password); err != nil {
			return nil, err
		}
	}

	var st *clinic.Staff
	err := s.withContactsLock(ctx, func(lockCtx context.Context) error {
		var err error
		if st, err = s.repo.GetStaffByID(lockCtx, id); err != nil {
			return err
		}
		if err := s.checkUnique(lockCtx, in, id); err != nil {
			return err
		}

		st.Name = in.Name
		st.Role = in.Role
		st.Specialization = in.Specialization
		st.Phone = in.Phone
		st.Telegram = in.Telegram
		st.Email = in.Email
		if in.Status != "" {
			st.Status = in.Status
		}
		if hash != "" {
			st.PasswordHash = hash
		}
		if err := s.repo.UpdateStaff(lockCtx, st); err != nil {
			return fmt.Errorf("update staff: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func (s *Service) DeleteStaff(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteStaff(ctx, id)
}

func (s *Service) GetStaff(ctx context.Context, id uuid.UUID) (*clinic.Staff, error) {
	return s.repo.GetStaffByID(ctx, id)
}

func (s *Service) ListStaff(ctx context.Context) ([]clinic.Staff, error) {
	return s.repo.ListStaff(ctx)
}

// Dentists lists staff who can be booked, leaving out inactive ones.
func (s *Service) Dentists(ctx context.Context) ([]clinic.Dentist, error) {
	staff, err := s.repo.ListStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return clinic.Dentists(staff), nil
}

// IsPhoneUnique reports whether no other staff member uses phone. excludeID lets a form keep its own number.
func (s *Service) IsPhoneUnique(ctx context.Context, phone string, excludeID uuid.UUID) (bool, error) {
	return s.repo.IsPhoneUnique(ctx, strings.TrimSpace(phone), excludeID)
}

func (s *Service) IsTelegramUnique(ctx context.Context, handle string, excludeID uuid.UUID) (bool, error) {
	return s.repo.IsTelegramUnique(ctx, normalizeHandle(handle), excludeID)
}

// withContactsLock serialises staff writes so the uniqueness check still holds when the row is written.
func (s *Service) withContactsLock(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.locker.WithLock(ctx, redisclient.StaffContactsKey, fn)
}

// checkUnique must run under the contacts lock.
func (s *Service) checkUnique(ctx context.Context, in StaffInput, excludeID uuid.UUID) error {
	ok, err := s.repo.IsPhoneUnique(ctx, in.Phone, excludeID)
	if err != nil {
		return fmt.Errorf("check phone: %w", err)
	}
	if !ok {
		return ErrDuplicatePhone
	}
	if in.Telegram == nil {
		return nil
	}
	ok, err = s.repo.IsTelegramUnique(ctx, *in.Telegram, excludeID)
	if err != nil {
		return fmt.Errorf("check telegram: %w", err)
	}
	if !ok {
		return ErrDuplicateTelegram
	}
	return nil
}

func normalizeStaff(in StaffInput) StaffInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Telegram != nil {
		h := normalizeHandle(*in.Telegram)
		if h == "" {
			in.Telegram = nil
		} else {
			in.Telegram = &h
		}
	}
	return in
}

// normalizeHandle stores telegram handles without the leading @.
func normalizeHandle(h string) string {
	return strings.TrimPrefix(strings.TrimSpace(h), "@")
}

// Patients

func (s *Service) CreatePatient(ctx context.Context, in PatientInput) (*clinic.Patient, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.check(in); err != nil {
		return nil, err
	}

	p := clinic.Patient{ID: uuid.New()}
	applyPatient(&p, in)
	if err := s.repo.CreatePatient(ctx, &p); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	return &p, nil
}

func (s *Service) UpdatePatient(ctx context.Context, id uuid.UUID, in PatientInput) (*clinic.Patient, error) {
	p, err := s.repo.GetPatientByID(ctx, id)
	if err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if err := s.check(in); err != nil {
		return nil, err
	}

	applyPatient(p, in)
	if err := s.repo.UpdatePatient(ctx, p); err != nil {
		return nil, fmt.Errorf("update patient: %w", err)
	}
	return p, nil
}

// DeletePatient also drops the patient's chart, notes and images.
func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeletePatient(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("patient_id", id.String()).Msg("patient deleted")
	return nil
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*clinic.Patient, error) {
	return s.repo.GetPatientByID(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context) ([]clinic.Patient, error) {
	return s.repo.ListPatients(ctx)
}

func applyPatient(p *clinic.Patient, in PatientInput) {
	p.Name = in.Name
	p.Phone = in.Phone
	p.Email = in.Email
	p.DateOfBirth = in.DateOfBirth
	p.Gender = in.Gender
	p.Address = in.Address
	p.Allergies = in.Allergies
	if p.Allergies == nil {
		p.Allergies = []string{}
	}
	p.MedicalHistory = in.MedicalHistory
}

// The tooth chart looks people up through these two.

func (s *Service) PatientExists(ctx context.Context, id uuid.UUID) (bool, error) {
	_, err := s.repo.GetPatientByID(ctx, id)
	if errors.Is(err, clinic.ErrPatientNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DentistName resolves id to a dentist's display name; ok is false for unknown ids and non-dentists.
func (s *Service) DentistName(ctx context.Context, id uuid.UUID) (string, bool, error) {
	st, err := s.repo.GetStaffByID(ctx, id)
	if errors.Is(err, clinic.ErrStaffNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if st.Role != clinic.RoleDentist {
		return "", false, nil
	}
	return st.Name, true, nil
}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
