// Package reports expone exportes de solo lectura construidos sobre los
// mismos merge/render puros que usa el cliente (internal/tracker), para que
// el log diario exportado y el que ve el caregiver sean byte a byte iguales.
package reports

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-tracker/internal/domain/doses"
	"med-tracker/internal/domain/medications"
	"med-tracker/internal/ports/store"
	"med-tracker/internal/tracker"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, dosesSvc *doses.Service, medsSvc *medications.Service, clock tracker.Clock) {
	r.Route("/reports", func(rr chi.Router) {
		rr.Get("/daily-log/{date}", dailyLogHandler(dosesSvc, medsSvc, clock))
	})
}

// dailyLogHandler godoc
// @Summary Log diario en texto plano
// @Description Exporta el día como texto: una línea "HH:MM AM/PM — nombre" por toma, en orden cronológico, en la zona del timezone_offset. Día vacío devuelve la línea "No medications taken on this date.".
// @Tags reports
// @Produce plain
// @Param date path string true "Día local YYYY-MM-DD"
// @Param timezone_offset query int false "Minutos al este de UTC"
// @Param person_id query string false "Limitar a los medicamentos de una persona"
// @Success 200 {string} string "log del día"
// @Failure 400 {string} string "parámetros inválidos"
// @Failure 500 {string} string "internal error"
// @Router /reports/daily-log/{date} [get]
func dailyLogHandler(dosesSvc *doses.Service, medsSvc *medications.Service, clock tracker.Clock) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		day, err := tracker.ParseDayKey(chi.URLParam(r, "date"))
		if err != nil {
			http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		var offset *int
		loc := time.UTC
		if v := strings.TrimSpace(r.URL.Query().Get("timezone_offset")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				http.Error(w, "timezone_offset must be an integer", http.StatusBadRequest)
				return
			}
			offset = &n
			loc = time.FixedZone("", n*60)
		}

		meds, err := medsSvc.List(r.Context(), r.URL.Query().Get("person_id"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		refs := make([]doses.MedicationRef, 0, len(meds))
		for _, m := range meds {
			refs = append(refs, doses.MedicationRef{ID: m.ID, Name: m.Name, MaxDosesPerDay: m.MaxDosesPerDay})
		}

		sum, err := dosesSvc.DailySummary(r.Context(), refs, day.String(), offset)
		if err != nil {
			if errors.Is(err, doses.ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		events := tracker.MergeDoseEvents(toStoreSummary(sum))
		text := tracker.RenderDailyLog(day, events, loc, clock.Now().In(loc))

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(text))
	}
}

func toStoreSummary(sum doses.DaySummary) store.DailySummary {
	out := store.DailySummary{Date: sum.Date, Medications: make([]store.MedicationDaily, 0, len(sum.Medications))}
	for _, md := range sum.Medications {
		out.Medications = append(out.Medications, store.MedicationDaily{
			MedicationID:   md.MedicationID,
			MedicationName: md.Name,
			DosesTaken:     md.DosesTaken,
			MaxDoses:       md.MaxDoses,
			DoseTimes:      md.DoseTimes,
			Deleted:        md.Deleted,
		})
	}
	return out
}
