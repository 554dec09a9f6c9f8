package persons

import "context"

type Repository interface {
	Create(ctx context.Context, p Person) error
	Update(ctx context.Context, p Person) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Person, error)
	List(ctx context.Context) ([]Person, error)

	// GetDefault devuelve la persona default actual (error si no hay).
	GetDefault(ctx context.Context) (Person, error)
	// ClearDefault desmarca cualquier default vigente.
	ClearDefault(ctx context.Context) error
}
