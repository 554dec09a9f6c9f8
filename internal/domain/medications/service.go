package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

// maxDosesCap limita max_doses_per_day a un rango sano.
const maxDosesCap = 20

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	PersonID       string
	Name           string
	Dosage         string
	Frequency      string
	MaxDosesPerDay int
	Instructions   string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Medication, error) {
	if strings.TrimSpace(in.PersonID) == "" {
		return Medication{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, ErrInvalidInput
	}

	maxDoses := in.MaxDosesPerDay
	if maxDoses == 0 {
		maxDoses = 1
	}
	if maxDoses < 1 || maxDoses > maxDosesCap {
		return Medication{}, ErrInvalidInput
	}

	now := s.now()
	m := Medication{
		ID:             uuid.NewString(),
		PersonID:       strings.TrimSpace(in.PersonID),
		Name:           strings.TrimSpace(in.Name),
		Dosage:         strings.TrimSpace(in.Dosage),
		Frequency:      strings.TrimSpace(in.Frequency),
		MaxDosesPerDay: maxDoses,
		Instructions:   strings.TrimSpace(in.Instructions),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	return s.repo.GetByID(ctx, id)
}

// List devuelve medicamentos, opcionalmente filtrados por persona.
func (s *Service) List(ctx context.Context, personID string) ([]Medication, error) {
	return s.repo.List(ctx, strings.TrimSpace(personID))
}

// CountByPerson implementa persons.MedicationCounter.
func (s *Service) CountByPerson(ctx context.Context, personID string) (int, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(personID))
	if err != nil {
		return 0, err
	}
	return len(items), nil
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	Name           *string
	Dosage         *string
	Frequency      *string
	MaxDosesPerDay *int
	Instructions   *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.Frequency != nil {
		m.Frequency = strings.TrimSpace(*in.Frequency)
	}
	if in.MaxDosesPerDay != nil {
		if *in.MaxDosesPerDay < 1 || *in.MaxDosesPerDay > maxDosesCap {
			return Medication{}, ErrInvalidInput
		}
		m.MaxDosesPerDay = *in.MaxDosesPerDay
	}
	if in.Instructions != nil {
		m.Instructions = strings.TrimSpace(*in.Instructions)
	}
	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

// Delete borra el medicamento. El desacople del historial de dosis (que
// conserva el nombre y pierde el id) lo orquesta el handler antes de llamar
// acá, para que las filas de dosis sobrevivan al medicamento.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
