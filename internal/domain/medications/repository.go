package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Medication, error)
	// List devuelve todos los medicamentos; personID vacío = sin filtro.
	List(ctx context.Context, personID string) ([]Medication, error)
}
