package medications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-tracker/internal/domain/persons"

	"github.com/go-chi/chi/v5"
)

// DoseStats expone el conteo de dosis de un día local. Lo implementa
// doses.Service; se define acá para evitar ciclos de imports.
type DoseStats interface {
	DayInfo(ctx context.Context, medicationID, dayKey string, offsetMinutes *int) (int, *time.Time, error)
}

// DoseDetacher desacopla el historial de dosis antes de borrar el
// medicamento: las filas conservan el nombre y pierden el id.
type DoseDetacher interface {
	DetachMedication(ctx context.Context, medicationID, medicationName string) error
}

func RegisterRoutes(r chi.Router, svc *Service, personsSvc *persons.Service, stats DoseStats, detach DoseDetacher) {
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc, personsSvc))
		mr.Get("/", listMedicationsHandler(svc, stats))
		mr.Get("/{medicationID}", getMedicationHandler(svc, stats))
		mr.Put("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc, detach))
	})
}

// createMedicationRequest es el cuerpo para registrar un medicamento.
type createMedicationRequest struct {
	PersonID       string `json:"person_id"`
	Name           string `json:"name"`
	Dosage         string `json:"dosage"`
	Frequency      string `json:"frequency"`
	MaxDosesPerDay int    `json:"max_doses_per_day"` // 1..20; 0 = default 1
	Instructions   string `json:"instructions"`
}

type updateMedicationRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Name           *string `json:"name"`
	Dosage         *string `json:"dosage"`
	Frequency      *string `json:"frequency"`
	MaxDosesPerDay *int    `json:"max_doses_per_day"`
	Instructions   *string `json:"instructions"`
}

// medicationResponse representa un medicamento devuelto por la API, decorado
// con el estado del día consultado (date + timezone_offset).
type medicationResponse struct {
	ID              string     `json:"id"`
	PersonID        string     `json:"person_id"`
	Name            string     `json:"name"`
	Dosage          string     `json:"dosage,omitempty"`
	Frequency       string     `json:"frequency,omitempty"`
	MaxDosesPerDay  int        `json:"max_doses_per_day"`
	Instructions    string     `json:"instructions,omitempty"`
	DosesTakenToday int        `json:"doses_taken_today"`
	LastTakenAt     *time.Time `json:"last_taken_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// createMedicationHandler godoc
// @Summary Crear medicamento
// @Tags medications
// @Accept json
// @Produce json
// @Param payload body createMedicationRequest true "Datos del medicamento"
// @Success 201 {object} medicationResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "person not found"
// @Router /medications [post]
func createMedicationHandler(svc *Service, personsSvc *persons.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Si no viene person_id, cae en la persona default.
		personID := strings.TrimSpace(req.PersonID)
		if personID == "" {
			p, err := personsSvc.Default(r.Context())
			if err != nil {
				http.Error(w, "person not found", http.StatusNotFound)
				return
			}
			personID = p.ID
		} else if _, err := personsSvc.GetByID(r.Context(), personID); err != nil {
			http.Error(w, "person not found", http.StatusNotFound)
			return
		}

		m, err := svc.Create(r.Context(), CreateInput{
			PersonID:       personID,
			Name:           req.Name,
			Dosage:         req.Dosage,
			Frequency:      req.Frequency,
			MaxDosesPerDay: req.MaxDosesPerDay,
			Instructions:   req.Instructions,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toMedicationResponse(m, 0, nil))
	}
}

// listMedicationsHandler godoc
// @Summary Listar medicamentos
// @Description Lista medicamentos, opcionalmente filtrados por persona. Con `date` y `timezone_offset` decora cada medicamento con las dosis tomadas ese día local.
// @Tags medications
// @Produce json
// @Param person_id query string false "Filtrar por persona"
// @Param date query string false "Día local YYYY-MM-DD (por defecto: hoy según timezone_offset)"
// @Param timezone_offset query int false "Minutos al este de UTC (ej: -300 para UTC−5)"
// @Success 200 {array} medicationResponse
// @Failure 500 {string} string "internal error"
// @Router /medications [get]
func listMedicationsHandler(svc *Service, stats DoseStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dayKey, offset, err := parseDayQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		items, err := svc.List(r.Context(), r.URL.Query().Get("person_id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			taken, last := 0, (*time.Time)(nil)
			if stats != nil {
				if n, l, err := stats.DayInfo(r.Context(), m.ID, dayKey, offset); err == nil {
					taken, last = n, l
				}
			}
			out = append(out, toMedicationResponse(m, taken, last))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getMedicationHandler godoc
// @Summary Obtener medicamento
// @Tags medications
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param date query string false "Día local YYYY-MM-DD"
// @Param timezone_offset query int false "Minutos al este de UTC"
// @Success 200 {object} medicationResponse
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [get]
func getMedicationHandler(svc *Service, stats DoseStats) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dayKey, offset, err := parseDayQuery(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		taken, last := 0, (*time.Time)(nil)
		if stats != nil {
			if n, l, err := stats.DayInfo(r.Context(), m.ID, dayKey, offset); err == nil {
				taken, last = n, l
			}
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m, taken, last))
	}
}

// updateMedicationHandler godoc
// @Summary Actualizar medicamento
// @Tags medications
// @Accept json
// @Produce json
// @Param medicationID path string true "ID del medicamento"
// @Param payload body updateMedicationRequest true "Campos a actualizar (parcial)"
// @Success 200 {object} medicationResponse
// @Failure 400 {string} string "invalid json / reglas de negocio"
// @Failure 404 {string} string "medication not found"
// @Router /medications/{medicationID} [put]
func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicationID"), UpdateInput{
			Name:           req.Name,
			Dosage:         req.Dosage,
			Frequency:      req.Frequency,
			MaxDosesPerDay: req.MaxDosesPerDay,
			Instructions:   req.Instructions,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toMedicationResponse(m, 0, nil))
	}
}

// deleteMedicationHandler godoc
// @Summary Borrar medicamento
// @Description Borra el medicamento. El historial de dosis sobrevive: antes de borrar se desacoplan las filas (conservan el nombre, pierden el id).
// @Tags medications
// @Param medicationID path string true "ID del medicamento"
// @Success 204 {string} string "sin contenido"
// @Failure 404 {string} string "medication not found"
// @Failure 500 {string} string "internal error"
// @Router /medications/{medicationID} [delete]
func deleteMedicationHandler(svc *Service, detach DoseDetacher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "medicationID")

		m, err := svc.GetByID(r.Context(), id)
		if err != nil {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		// Primero se desacopla el historial; recién después se borra el
		// medicamento. Si el detach falla no se borra nada.
		if detach != nil {
			if err := detach.DetachMedication(r.Context(), m.ID, m.Name); err != nil {
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// parseDayQuery lee date + timezone_offset. Sin date, el día es "hoy" según
// el offset (o UTC si tampoco vino offset).
func parseDayQuery(r *http.Request) (string, *int, error) {
	var offset *int
	if v := strings.TrimSpace(r.URL.Query().Get("timezone_offset")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return "", nil, errors.New("timezone_offset must be an integer")
		}
		offset = &n
	}

	dayKey := strings.TrimSpace(r.URL.Query().Get("date"))
	if dayKey == "" {
		loc := time.UTC
		if offset != nil {
			loc = time.FixedZone("", *offset*60)
		}
		dayKey = time.Now().In(loc).Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", dayKey); err != nil {
		return "", nil, errors.New("date must be YYYY-MM-DD")
	}

	return dayKey, offset, nil
}

func toMedicationResponse(m Medication, dosesTakenToday int, lastTakenAt *time.Time) medicationResponse {
	return medicationResponse{
		ID:              m.ID,
		PersonID:        m.PersonID,
		Name:            m.Name,
		Dosage:          m.Dosage,
		Frequency:       m.Frequency,
		MaxDosesPerDay:  m.MaxDosesPerDay,
		Instructions:    m.Instructions,
		DosesTakenToday: dosesTakenToday,
		LastTakenAt:     lastTakenAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
