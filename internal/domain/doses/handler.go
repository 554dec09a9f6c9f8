package doses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-tracker/internal/domain/medications"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, medsSvc *medications.Service) {
	r.Route("/doses", func(dr chi.Router) {
		dr.Post("/medications/{medicationID}/dose", recordDoseHandler(svc, medsSvc))
		dr.Post("/medications/{medicationID}/dose/{date}", recordDoseForDayHandler(svc, medsSvc))
		dr.Get("/medications/{medicationID}/doses", doseHistoryHandler(svc, medsSvc))
		dr.Get("/medications/{medicationID}/doses/{date}", dosesByDayHandler(svc, medsSvc))
		dr.Get("/daily-summary/{date}", dailySummaryHandler(svc, medsSvc))
		dr.Get("/deleted-medications/{medicationName}/doses", deletedHistoryHandler(svc))
		dr.Delete("/{doseID}", deleteDoseHandler(svc))
	})
}

// doseResponse representa una toma registrada. medication_id es null cuando
// el medicamento fue borrado; medication_name se conserva igual.
type doseResponse struct {
	ID             string    `json:"id"`
	MedicationID   *string   `json:"medication_id"`
	MedicationName *string   `json:"medication_name"`
	TakenAt        time.Time `json:"taken_at"`
}

// medicationDailyResponse es el agregado por medicamento del resumen diario.
type medicationDailyResponse struct {
	MedicationID   *string     `json:"medication_id"`
	MedicationName string      `json:"medication_name"`
	DosesTaken     int         `json:"doses_taken"`
	MaxDoses       int         `json:"max_doses"`
	DoseTimes      []time.Time `json:"dose_times"`
	IsDeleted      bool        `json:"is_deleted"`
}

type dailySummaryResponse struct {
	Date        string                    `json:"date"`
	Medications []medicationDailyResponse `json:"medications"`
}

// recordDoseHandler godoc
// @Summary Registrar dosis ahora
// @Description Registra una toma con el instante actual, validando contra max_doses_per_day del día local en curso (según timezone_offset).
// @Tags doses
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param timezone_offset query int false "Minutos al este de UTC (ej: -300 para UTC−5)"
// @Success 201 {object} doseResponse
// @Failure 400 {string} string "máximo diario alcanzado / parámetros inválidos"
// @Failure 404 {string} string "medication not found"
// @Router /doses/medications/{medicationID}/dose [post]
func recordDoseHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		med, offset, ok := resolveMedication(w, r, medsSvc)
		if !ok {
			return
		}

		d, err := svc.Record(r.Context(), med, offset)
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDoseResponse(d))
	}
}

// recordDoseForDayHandler godoc
// @Summary Registrar dosis en fecha explícita
// @Description Registra una toma para un día pasado (o el actual) con hora explícita HH:MM interpretada en la zona del timezone_offset. Días futuros se rechazan.
// @Tags doses
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param date path string true "Día local YYYY-MM-DD"
// @Param time query string true "Hora local HH:MM (24hs)"
// @Param timezone_offset query int false "Minutos al este de UTC"
// @Success 201 {object} doseResponse
// @Failure 400 {string} string "fecha futura / máximo diario / parámetros inválidos"
// @Failure 404 {string} string "medication not found"
// @Router /doses/medications/{medicationID}/dose/{date} [post]
func recordDoseForDayHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		med, offset, ok := resolveMedication(w, r, medsSvc)
		if !ok {
			return
		}

		d, err := svc.RecordForDay(r.Context(), med, chi.URLParam(r, "date"), r.URL.Query().Get("time"), offset)
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toDoseResponse(d))
	}
}

// doseHistoryHandler godoc
// @Summary Historial de dosis de un medicamento
// @Tags doses
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Success 200 {array} doseResponse
// @Failure 404 {string} string "medication not found"
// @Router /doses/medications/{medicationID}/doses [get]
func doseHistoryHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medID := chi.URLParam(r, "medicationID")
		if _, err := medsSvc.GetByID(r.Context(), medID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		items, err := svc.HistoryByMedication(r.Context(), medID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// dosesByDayHandler godoc
// @Summary Dosis de un medicamento en un día local
// @Tags doses
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param date path string true "Día local YYYY-MM-DD"
// @Param timezone_offset query int false "Minutos al este de UTC"
// @Success 200 {array} doseResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 404 {string} string "medication not found"
// @Router /doses/medications/{medicationID}/doses/{date} [get]
func dosesByDayHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		medID := chi.URLParam(r, "medicationID")
		if _, err := medsSvc.GetByID(r.Context(), medID); err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		offset, err := parseOffset(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.ListByDay(r.Context(), medID, chi.URLParam(r, "date"), offset)
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// dailySummaryHandler godoc
// @Summary Resumen diario
// @Description Un agregado por medicamento activo (aun con cero tomas) más agregados con sufijo " (deleted)" para dosis de medicamentos borrados. La suma de doses_taken es igual al total de filas del día local.
// @Tags doses
// @Produce json
// @Param date path string true "Día local YYYY-MM-DD"
// @Param timezone_offset query int false "Minutos al este de UTC"
// @Param person_id query string false "Limitar a los medicamentos de una persona"
// @Success 200 {object} dailySummaryResponse
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 500 {string} string "internal error"
// @Router /doses/daily-summary/{date} [get]
func dailySummaryHandler(svc *Service, medsSvc *medications.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, err := parseOffset(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		meds, err := medsSvc.List(r.Context(), r.URL.Query().Get("person_id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		refs := make([]MedicationRef, 0, len(meds))
		for _, m := range meds {
			refs = append(refs, MedicationRef{ID: m.ID, Name: m.Name, MaxDosesPerDay: m.MaxDosesPerDay})
		}

		sum, err := svc.DailySummary(r.Context(), refs, chi.URLParam(r, "date"), offset)
		if err != nil {
			writeDoseError(w, err)
			return
		}

		out := dailySummaryResponse{Date: sum.Date, Medications: make([]medicationDailyResponse, 0, len(sum.Medications))}
		for _, md := range sum.Medications {
			times := md.DoseTimes
			if times == nil {
				times = []time.Time{}
			}
			out.Medications = append(out.Medications, medicationDailyResponse{
				MedicationID:   md.MedicationID,
				MedicationName: md.Name,
				DosesTaken:     md.DosesTaken,
				MaxDoses:       md.MaxDoses,
				DoseTimes:      times,
				IsDeleted:      md.Deleted,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// deletedHistoryHandler godoc
// @Summary Historial de un medicamento borrado
// @Description Dosis desacopladas que guardaron ese nombre de medicamento.
// @Tags doses
// @Produce json
// @Param medicationName path string true "Nombre guardado del medicamento borrado"
// @Success 200 {array} doseResponse
// @Failure 400 {string} string "nombre vacío"
// @Router /doses/deleted-medications/{medicationName}/doses [get]
func deletedHistoryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.HistoryByDeletedName(r.Context(), chi.URLParam(r, "medicationName"))
		if err != nil {
			writeDoseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toDoseResponses(items))
	}
}

// deleteDoseHandler godoc
// @Summary Borrar una dosis
// @Tags doses
// @Param doseID path string true "ID de la dosis"
// @Success 204 {string} string "sin contenido"
// @Failure 404 {string} string "dose not found"
// @Router /doses/{doseID} [delete]
func deleteDoseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Delete(r.Context(), chi.URLParam(r, "doseID")); err != nil {
			http.Error(w, "dose not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// resolveMedication busca el medicamento del path y arma la referencia que
// consume el servicio de dosis. Devuelve ok=false si ya respondió el error.
func resolveMedication(w http.ResponseWriter, r *http.Request, medsSvc *medications.Service) (MedicationRef, *int, bool) {
	offset, err := parseOffset(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return MedicationRef{}, nil, false
	}

	m, err := medsSvc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
	if err != nil {
		http.Error(w, "medication not found", http.StatusNotFound)
		return MedicationRef{}, nil, false
	}

	return MedicationRef{ID: m.ID, Name: m.Name, MaxDosesPerDay: m.MaxDosesPerDay}, offset, true
}

func parseOffset(r *http.Request) (*int, error) {
	v := strings.TrimSpace(r.URL.Query().Get("timezone_offset"))
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, errors.New("timezone_offset must be an integer")
	}
	return &n, nil
}

func writeDoseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrMaxDoses), errors.Is(err, ErrFutureDate), errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func toDoseResponse(d Dose) doseResponse {
	return doseResponse{
		ID:             d.ID,
		MedicationID:   d.MedicationID,
		MedicationName: d.MedicationName,
		TakenAt:        d.TakenAt,
	}
}

func toDoseResponses(items []Dose) []doseResponse {
	out := make([]doseResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toDoseResponse(d))
	}
	return out
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
