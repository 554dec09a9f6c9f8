package store

import "time"

// Medication es la vista de un medicamento que entrega el store remoto,
// decorada con la información de dosis del día consultado.
type Medication struct {
	ID       string
	PersonID string

	Name      string
	Dosage    string
	Frequency string

	MaxDosesPerDay  int
	DosesTakenToday int
	LastTakenAt     *time.Time

	Instructions string
}

// Dose es un registro individual del log de dosis.
// MedicationID es nil cuando el medicamento dueño fue eliminado;
// en ese caso MedicationName conserva el nombre original.
type Dose struct {
	ID             string
	MedicationID   *string
	MedicationName *string
	TakenAt        time.Time
}

// MedicationDaily es el agregado por medicamento dentro de un resumen diario.
// Para medicamentos eliminados: MedicationID nil, Deleted true y el nombre
// ya viene marcado por el store (no hay que re-decorarlo).
type MedicationDaily struct {
	MedicationID   *string
	MedicationName string
	DosesTaken     int
	MaxDoses       int
	DoseTimes      []time.Time
	Deleted        bool
}

// DailySummary es el resumen autoritativo de un día calendario local.
// Se deriva en el store, nunca se persiste.
type DailySummary struct {
	Date        string
	Medications []MedicationDaily
}
