package doses

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, d Dose) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Dose, error)

	// ListByMedication devuelve las dosis de un medicamento activo,
	// ordenadas de más reciente a más antigua.
	ListByMedication(ctx context.Context, medicationID string) ([]Dose, error)

	// ListByMedicationBetween devuelve las dosis de un medicamento con
	// TakenAt en [from, to), ascendente.
	ListByMedicationBetween(ctx context.Context, medicationID string, from, to time.Time) ([]Dose, error)

	// ListBetween devuelve todas las dosis (activas y desacopladas) con
	// TakenAt en [from, to), ascendente.
	ListBetween(ctx context.Context, from, to time.Time) ([]Dose, error)

	// ListByDeletedName devuelve las dosis desacopladas (MedicationID nil)
	// cuyo nombre guardado coincide, de más reciente a más antigua.
	ListByDeletedName(ctx context.Context, medicationName string) ([]Dose, error)

	// DetachMedication desacopla todas las filas del medicamento: pone
	// MedicationID en nil y fija MedicationName.
	DetachMedication(ctx context.Context, medicationID, medicationName string) error
}
