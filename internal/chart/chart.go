package chart

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type TreatmentEntry struct {
	ID            uuid.UUID `json:"id"`
	Date          string    `json:"date"`
	TreatmentType string    `json:"treatment_type"`
	Treatment     string    `json:"treatment"`
	DentistID     uuid.UUID `json:"dentist_id"`
	Dentist       string    `json:"dentist"`
	Surface       *string   `json:"surface,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
}

type ToothRecord struct {
	Status     Status           `json:"status"`
	Treatments []TreatmentEntry `json:"treatments"`
	Notes      *string          `json:"notes,omitempty"`
}

// Chart holds one record per permanent tooth of a patient.
type Chart struct {
	PatientID uuid.UUID                    `json:"patient_id"`
	Teeth     map[ToothNumber]*ToothRecord `json:"teeth"`
	UpdatedAt time.Time                    `json:"updated_at"`
}

// New returns a chart with every tooth healthy and no history.
func New(patientID uuid.UUID) *Chart {
	c := &Chart{
		PatientID: patientID,
		Teeth:     make(map[ToothNumber]*ToothRecord, 32),
	}
	for _, t := range AllTeeth() {
		c.Teeth[t] = &ToothRecord{Status: StatusHealthy, Treatments: []TreatmentEntry{}}
	}
	return c
}

// Tooth returns the record for t, creating a healthy one if the chart predates it.
func (c *Chart) Tooth(t ToothNumber) (*ToothRecord, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTooth, int(t))
	}
	if c.Teeth == nil {
		c.Teeth = make(map[ToothNumber]*ToothRecord, 32)
	}
	rec, ok := c.Teeth[t]
	if !ok {
		rec = &ToothRecord{Status: StatusHealthy, Treatments: []TreatmentEntry{}}
		c.Teeth[t] = rec
	}
	return rec, nil
}

// SetStatus overwrites the status only; the treatment history is left alone.
func (c *Chart) SetStatus(t ToothNumber, s Status) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	rec, err := c.Tooth(t)
	if err != nil {
		return err
	}
	rec.Status = s
	return nil
}

func (c *Chart) SetNotes(t ToothNumber, notes *string) error {
	rec, err := c.Tooth(t)
	if err != nil {
		return err
	}
	rec.Notes = notes
	return nil
}

// AddTreatment prepends entry and marks the tooth treated.
func (c *Chart) AddTreatment(t ToothNumber, entry TreatmentEntry) error {
	rec, err := c.Tooth(t)
	if err != nil {
		return err
	}
	rec.Treatments = append([]TreatmentEntry{entry}, rec.Treatments...)
	rec.Status = StatusTreated
	return nil
}

// DeleteTreatment removes the entry with id and reports whether one was found.
// The tooth status is not recomputed.
func (c *Chart) DeleteTreatment(t ToothNumber, id uuid.UUID) (bool, error) {
	rec, err := c.Tooth(t)
	if err != nil {
		return false, err
	}
	for i, e := range rec.Treatments {
		if e.ID == id {
			rec.Treatments = append(rec.Treatments[:i:i], rec.Treatments[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}
