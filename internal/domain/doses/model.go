package doses

import "time"

// Dose es una toma registrada. Las filas sobreviven al borrado del
// medicamento: al desacoplar, MedicationID queda en nil y MedicationName
// conserva el nombre para que el historial siga siendo legible.
type Dose struct {
	ID             string
	MedicationID   *string
	MedicationName *string
	TakenAt        time.Time // instante UTC
}

// MedicationRef es lo mínimo que el módulo doses necesita saber de un
// medicamento. Lo arma el handler desde medications.Service; doses no
// importa ese paquete para evitar ciclos.
type MedicationRef struct {
	ID             string
	Name           string
	MaxDosesPerDay int
}

// MedicationDaily es el agregado por medicamento dentro del resumen diario.
// Para medicamentos borrados MedicationID es nil, el nombre lleva el sufijo
// " (deleted)" y Deleted es true.
type MedicationDaily struct {
	MedicationID *string
	Name         string
	DosesTaken   int
	MaxDoses     int
	DoseTimes    []time.Time // ascendente
	Deleted      bool
}

// DaySummary es el resumen de un día local: la suma de DosesTaken de todas
// las entradas es igual al total de filas de dosis cuyo día local (según el
// offset) es Date.
type DaySummary struct {
	Date        string
	Medications []MedicationDaily
}
