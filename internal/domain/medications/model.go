package medications

import "time"

// Medication es un medicamento activo de una persona. El historial de dosis
// vive en el módulo doses y sobrevive al borrado del medicamento.
type Medication struct {
	ID             string
	PersonID       string
	Name           string
	Dosage         string
	Frequency      string
	MaxDosesPerDay int
	Instructions   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
