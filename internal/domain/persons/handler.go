package persons

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
)

// MedicationCounter expone cuántos medicamentos tiene una persona.
// Se define acá (y lo implementa medications.Service) para evitar ciclos
// de imports entre módulos.
type MedicationCounter interface {
	CountByPerson(ctx context.Context, personID string) (int, error)
}

func RegisterRoutes(r chi.Router, svc *Service, medCounts MedicationCounter) {
	r.Route("/persons", func(pr chi.Router) {
		pr.Post("/", createPersonHandler(svc))
		pr.Get("/", listPersonsHandler(svc, medCounts))
		pr.Get("/{personID}", getPersonHandler(svc, medCounts))
		pr.Put("/{personID}", updatePersonHandler(svc))
		pr.Delete("/{personID}", deletePersonHandler(svc))
		pr.Put("/{personID}/set-default", setDefaultHandler(svc))
	})
}

// createPersonRequest es el cuerpo para registrar una persona.
type createPersonRequest struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	DateOfBirth string `json:"date_of_birth"` // YYYY-MM-DD opcional
	Notes       string `json:"notes"`
}

type updatePersonRequest struct {
	// Punteros para update parcial: nil = no tocar.
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	DateOfBirth *string `json:"date_of_birth"` // "" limpia la fecha
	Notes       *string `json:"notes"`
}

// personResponse representa una persona devuelta por la API.
type personResponse struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name,omitempty"`
	Name            string     `json:"name"`
	DateOfBirth     *time.Time `json:"date_of_birth,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	IsDefault       bool       `json:"is_default"`
	MedicationCount int        `json:"medication_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// createPersonHandler godoc
// @Summary Crear persona
// @Description Registra una nueva persona. La primera persona creada queda como default.
// @Tags persons
// @Accept json
// @Produce json
// @Param payload body createPersonRequest true "Datos de la persona; date_of_birth en YYYY-MM-DD"
// @Success 201 {object} personResponse
// @Failure 400 {string} string "invalid json / first_name requerido"
// @Router /persons [post]
func createPersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createPersonRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		var dob *time.Time
		if strings.TrimSpace(req.DateOfBirth) != "" {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(req.DateOfBirth))
			if err != nil {
				http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
				return
			}
			dob = &t
		}

		p, err := svc.Create(r.Context(), CreateInput{
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			DateOfBirth: dob,
			Notes:       req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, toPersonResponse(p, 0))
	}
}

// listPersonsHandler godoc
// @Summary Listar personas
// @Tags persons
// @Produce json
// @Success 200 {array} personResponse
// @Router /persons [get]
func listPersonsHandler(svc *Service, medCounts MedicationCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context())
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]personResponse, 0, len(items))
		for _, p := range items {
			n := 0
			if medCounts != nil {
				if c, err := medCounts.CountByPerson(r.Context(), p.ID); err == nil {
					n = c
				}
			}
			out = append(out, toPersonResponse(p, n))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// getPersonHandler godoc
// @Summary Obtener persona
// @Tags persons
// @Produce json
// @Param personID path string true "ID de la persona"
// @Success 200 {object} personResponse
// @Failure 404 {string} string "person not found"
// @Router /persons/{personID} [get]
func getPersonHandler(svc *Service, medCounts MedicationCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByID(r.Context(), chi.URLParam(r, "personID"))
		if err != nil {
			http.Error(w, "person not found", http.StatusNotFound)
			return
		}

		n := 0
		if medCounts != nil {
			if c, err := medCounts.CountByPerson(r.Context(), p.ID); err == nil {
				n = c
			}
		}
		writeJSON(w, http.StatusOK, toPersonResponse(p, n))
	}
}

// updatePersonHandler godoc
// @Summary Actualizar persona
// @Tags persons
// @Accept json
// @Produce json
// @Param personID path string true "ID de la persona"
// @Param payload body updatePersonRequest true "Campos a actualizar (parcial)"
// @Success 200 {object} personResponse
// @Failure 400 {string} string "invalid json"
// @Failure 404 {string} string "person not found"
// @Router /persons/{personID} [put]
func updatePersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updatePersonRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		in := UpdateInput{
			FirstName: req.FirstName,
			LastName:  req.LastName,
			Notes:     req.Notes,
		}
		if req.DateOfBirth != nil {
			v := strings.TrimSpace(*req.DateOfBirth)
			if v == "" {
				in.ClearBirth = true
			} else {
				t, err := time.Parse("2006-01-02", v)
				if err != nil {
					http.Error(w, "date_of_birth must be YYYY-MM-DD", http.StatusBadRequest)
					return
				}
				in.DateOfBirth = &t
			}
		}

		p, err := svc.Update(r.Context(), chi.URLParam(r, "personID"), in)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "person not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPersonResponse(p, 0))
	}
}

// deletePersonHandler godoc
// @Summary Borrar persona
// @Description No se puede borrar la persona default mientras existan otras.
// @Tags persons
// @Param personID path string true "ID de la persona"
// @Success 204 {string} string "sin contenido"
// @Failure 400 {string} string "default en uso"
// @Failure 404 {string} string "person not found"
// @Router /persons/{personID} [delete]
func deletePersonHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := svc.Delete(r.Context(), chi.URLParam(r, "personID"))
		if err != nil {
			if errors.Is(err, ErrDefaultInUse) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "person not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// setDefaultHandler godoc
// @Summary Marcar persona como default
// @Description Desmarca la default anterior en la misma operación.
// @Tags persons
// @Produce json
// @Param personID path string true "ID de la persona"
// @Success 200 {object} personResponse
// @Failure 404 {string} string "person not found"
// @Router /persons/{personID}/set-default [put]
func setDefaultHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.SetDefault(r.Context(), chi.URLParam(r, "personID"))
		if err != nil {
			http.Error(w, "person not found", http.StatusNotFound)
			return
		}
		writeJSON(w, http.StatusOK, toPersonResponse(p, 0))
	}
}

func toPersonResponse(p Person, medicationCount int) personResponse {
	return personResponse{
		ID:              p.ID,
		FirstName:       p.FirstName,
		LastName:        p.LastName,
		Name:            p.Name(),
		DateOfBirth:     p.DateOfBirth,
		Notes:           p.Notes,
		IsDefault:       p.IsDefault,
		MedicationCount: medicationCount,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
