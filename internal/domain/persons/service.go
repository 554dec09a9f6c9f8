package persons

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrDefaultInUse: no se puede borrar la default mientras existan otras
	// personas; primero hay que marcar otra como default.
	ErrDefaultInUse = errors.New("cannot delete the default person while others exist")
)

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
	FirstName   string
	LastName    string
	DateOfBirth *time.Time
	Notes       string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Person, error) {
	if strings.TrimSpace(in.FirstName) == "" {
		return Person{}, ErrInvalidInput
	}

	// La primera persona creada queda como default automáticamente.
	isDefault := false
	if _, err := s.repo.GetDefault(ctx); err != nil {
		isDefault = true
	}

	now := s.now()
	p := Person{
		ID:          uuid.NewString(),
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		DateOfBirth: in.DateOfBirth,
		Notes:       strings.TrimSpace(in.Notes),
		IsDefault:   isDefault,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Person{}, err
	}
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Person, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Person{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Person, error) {
	return s.repo.List(ctx)
}

type UpdateInput struct {
	FirstName   *string
	LastName    *string
	DateOfBirth *time.Time
	ClearBirth  bool
	Notes       *string
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Person{}, err
	}

	if in.FirstName != nil {
		if strings.TrimSpace(*in.FirstName) == "" {
			return Person{}, ErrInvalidInput
		}
		p.FirstName = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		p.LastName = strings.TrimSpace(*in.LastName)
	}
	if in.ClearBirth {
		p.DateOfBirth = nil
	} else if in.DateOfBirth != nil {
		p.DateOfBirth = in.DateOfBirth
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Person{}, err
	}
	return p, nil
}

// Delete borra una persona. Si es la default y quedan otras, se rechaza:
// el caller debe promover otra primero (SetDefault).
func (s *Service) Delete(ctx context.Context, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if p.IsDefault {
		all, err := s.repo.List(ctx)
		if err != nil {
			return err
		}
		if len(all) > 1 {
			return ErrDefaultInUse
		}
	}

	return s.repo.Delete(ctx, id)
}

// SetDefault marca a la persona como default y desmarca la anterior en la
// misma operación, así nunca hay cero ni dos defaults visibles.
func (s *Service) SetDefault(ctx context.Context, id string) (Person, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Person{}, err
	}
	if p.IsDefault {
		return p, nil
	}

	if err := s.repo.ClearDefault(ctx); err != nil {
		return Person{}, err
	}

	p.IsDefault = true
	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Person{}, err
	}
	return p, nil
}

// Default expone la persona default vigente (scope inicial del tracker).
func (s *Service) Default(ctx context.Context) (Person, error) {
	return s.repo.GetDefault(ctx)
}
