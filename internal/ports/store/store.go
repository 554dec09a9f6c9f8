package store

import "context"

// Store es el colaborador remoto que persiste medicamentos y dosis.
// offsetMinutes viaja en minutos al ESTE de UTC, con signo (UTC-5 => -300);
// nil significa "no enviar offset" (el par fecha+hora explícito ya es inequívoco).
type Store interface {
	// ListMedications devuelve los medicamentos (opcionalmente filtrados por
	// persona) con sus contadores para el día indicado. dayKey vacío = hoy.
	ListMedications(ctx context.Context, personID string, dayKey string, offsetMinutes *int) ([]Medication, error)

	// RecordDose registra una dosis "ahora"; el store estampa el instante.
	RecordDose(ctx context.Context, medicationID string, offsetMinutes *int) (Dose, error)

	// RecordDoseForDay registra una dosis con fecha + hora explícitas (HH:MM).
	// El offset se adjunta solo cuando dayKey es el día de hoy del viewer.
	RecordDoseForDay(ctx context.Context, medicationID, dayKey, timeHHMM string, offsetMinutes *int) (Dose, error)

	// GetDailySummary trae agregados activos + de medicamentos eliminados
	// para un día local. personID vacío = todas las personas.
	GetDailySummary(ctx context.Context, dayKey string, offsetMinutes *int, personID string) (DailySummary, error)

	// GetDoseHistory devuelve el log completo de dosis de un medicamento.
	GetDoseHistory(ctx context.Context, medicationID string) ([]Dose, error)

	// GetDeletedMedicationDoseHistory devuelve las dosis huérfanas que
	// pertenecieron a un medicamento ya eliminado, por nombre.
	GetDeletedMedicationDoseHistory(ctx context.Context, medicationName string) ([]Dose, error)

	// DeleteDose elimina una dosis puntual; obliga a re-consultar cualquier
	// resumen abierto del día afectado.
	DeleteDose(ctx context.Context, doseID string) error
}
