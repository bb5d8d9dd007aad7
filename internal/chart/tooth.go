package chart

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidTooth   = errors.New("tooth number must be an FDI code 11-18, 21-28, 31-38 or 41-48")
	ErrInvalidStatus  = errors.New("invalid tooth status")
	ErrInvalidSurface = errors.New("surface must combine M, O, D, B, L, I without repeats")
)

// ToothNumber is a two-digit FDI code: quadrant digit then position digit.
type ToothNumber int

func (t ToothNumber) Quadrant() int { return int(t) / 10 }
func (t ToothNumber) Position() int { return int(t) % 10 }

func (t ToothNumber) Valid() bool {
	q, p := t.Quadrant(), t.Position()
	return q >= 1 && q <= 4 && p >= 1 && p <= 8
}

func ParseTooth(s string) (ToothNumber, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTooth, s)
	}
	t := ToothNumber(n)
	if !t.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTooth, n)
	}
	return t, nil
}

// AllTeeth lists the 32 permanent teeth in quadrant order.
func AllTeeth() []ToothNumber {
	out := make([]ToothNumber, 0, 32)
	for q := 1; q <= 4; q++ {
		for p := 1; p <= 8; p++ {
			out = append(out, ToothNumber(q*10+p))
		}
	}
	return out
}

type Status string

const (
	StatusHealthy    Status = "healthy"
	StatusTreated    Status = "treated"
	StatusFilling    Status = "filling"
	StatusCavity     Status = "cavity"
	StatusCrown      Status = "crown"
	StatusMissing    Status = "missing"
	StatusExtraction Status = "extraction"
	StatusImplant    Status = "implant"
	StatusBridge     Status = "bridge"
)

func (s Status) Valid() bool {
	switch s {
	case StatusHealthy, StatusTreated, StatusFilling, StatusCavity, StatusCrown,
		StatusMissing, StatusExtraction, StatusImplant, StatusBridge:
		return true
	}
	return false
}

// normalizeSurface upper-cases a surface code such as "mod" and rejects unknown letters.
func normalizeSurface(s string) (string, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return "", ErrInvalidSurface
	}
	seen := make(map[rune]bool, len(s))
	for _, r := range s {
		if !strings.ContainsRune("MODBLI", r) || seen[r] {
			return "", fmt.Errorf("%w: %q", ErrInvalidSurface, s)
		}
		seen[r] = true
	}
	return s, nil
}
