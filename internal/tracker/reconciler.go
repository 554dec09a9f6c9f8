package tracker

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"med-tracker/internal/platform/logger"
	"med-tracker/internal/ports/store"
)

// DoseEvent es una dosis individual dentro de la vista plana de un día.
type DoseEvent struct {
	Time           time.Time
	MedicationID   *string
	MedicationName string
	Deleted        bool
}

// MergeDoseEvents aplana los agregados activos + eliminados de un resumen
// en una sola lista ordenada ascendente por instante, global (no agrupada
// por medicamento). Pura: testeable sin mockear I/O.
func MergeDoseEvents(s store.DailySummary) []DoseEvent {
	events := make([]DoseEvent, 0)
	for _, m := range s.Medications {
		if m.DosesTaken <= 0 {
			continue
		}
		for _, t := range m.DoseTimes {
			events = append(events, DoseEvent{
				Time:           t,
				MedicationID:   m.MedicationID,
				MedicationName: m.MedicationName,
				Deleted:        m.Deleted,
			})
		}
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	return events
}

// RenderDailyLog arma el export legible de un día: una línea por dosis
// "HH:MM AM/PM — nombre", horas en la zona del viewer. Los nombres de
// medicamentos eliminados ya vienen marcados desde el store y no se
// re-decoran. Lista vacía => línea explícita, nunca cuerpo vacío.
func RenderDailyLog(day DayKey, events []DoseEvent, loc *time.Location, generatedAt time.Time) string {
	var b strings.Builder

	header := string(day)
	if d, err := day.Date(loc); err == nil {
		header = d.Format("Monday, January 2, 2006")
	}
	b.WriteString("MEDICATION LOG — " + header + "\n")
	b.WriteString(strings.Repeat("═", 40) + "\n\n")

	if len(events) == 0 {
		b.WriteString("No medications taken on this date.\n")
	} else {
		for _, e := range events {
			b.WriteString(e.Time.In(loc).Format("03:04 PM") + " — " + e.MedicationName + "\n")
		}
	}

	b.WriteString("\n" + strings.Repeat("─", 40) + "\n")
	b.WriteString("Generated on: " + generatedAt.In(loc).Format("2006-01-02 15:04:05") + "\n")
	return b.String()
}

// DayGroup agrupa dosis por día local, en el orden devuelto por el store
// dentro de cada día (paneles de historial).
type DayGroup struct {
	Day   DayKey
	Doses []store.Dose
}

// GroupDosesByDay agrupa por day key local según la zona del viewer,
// preservando el orden de aparición de los días.
func GroupDosesByDay(doses []store.Dose, loc *time.Location) []DayGroup {
	index := make(map[DayKey]int)
	groups := make([]DayGroup, 0)
	for _, d := range doses {
		key := LocalDayKey(d.TakenAt.In(loc))
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Day: key})
		}
		groups[i].Doses = append(groups[i].Doses, d)
	}
	return groups
}

// Reconciler trae el resumen diario autoritativo del store y REEMPLAZA
// (nunca mergea) la vista optimista previa. Misma disciplina single-flight
// que el Guard, pero keyed por day key: no se emite un re-pull mientras
// hay uno en vuelo para el mismo día. El estado es por vista abierta y
// se descarta al cerrarla.
type Reconciler struct {
	store store.Store
	clock Clock
	log   logger.Logger

	mu      sync.Mutex
	pulling map[DayKey]struct{}
	latest  map[DayKey]store.DailySummary
}

func NewReconciler(st store.Store, clock Clock, log logger.Logger) *Reconciler {
	return &Reconciler{
		store:   st,
		clock:   clock,
		log:     log,
		pulling: make(map[DayKey]struct{}),
		latest:  make(map[DayKey]store.DailySummary),
	}
}

// Current devuelve el último resumen conocido para el día, si hay.
func (r *Reconciler) Current(day DayKey) (store.DailySummary, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.latest[day]
	return s, ok
}

// Pull trae el resumen fresco del día. En éxito reemplaza el cacheado;
// en falla (red, timeout) deja el anterior intacto para que el caller
// ofrezca retry sobre datos no vaciados.
func (r *Reconciler) Pull(ctx context.Context, day DayKey, personID string) (store.DailySummary, error) {
	r.mu.Lock()
	if _, busy := r.pulling[day]; busy {
		r.mu.Unlock()
		return store.DailySummary{}, ErrPullInFlight
	}
	r.pulling[day] = struct{}{}
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		delete(r.pulling, day)
		r.mu.Unlock()
	}()

	off := OffsetForRequest(r.clock)
	s, err := r.store.GetDailySummary(ctx, string(day), &off, personID)
	if err != nil {
		r.log.Warn("daily summary pull failed", map[string]any{
			"day":   string(day),
			"error": err.Error(),
		})
		return store.DailySummary{}, err
	}

	r.mu.Lock()
	r.latest[day] = s
	r.mu.Unlock()
	return s, nil
}

// PullStable re-consulta hasta que dos pulls consecutivos coinciden o se
// agotan los intentos: el store no garantiza read-after-write inmediato
// tras una escritura, así que en vez de un delay fijo arbitrario se
// reintenta acotado hasta estabilizar. Devuelve el último resumen traído.
func (r *Reconciler) PullStable(ctx context.Context, day DayKey, personID string, attempts int, wait time.Duration) (store.DailySummary, error) {
	if attempts < 1 {
		attempts = 1
	}

	prev, err := r.Pull(ctx, day, personID)
	if err != nil {
		return store.DailySummary{}, err
	}

	for i := 1; i < attempts; i++ {
		select {
		case <-ctx.Done():
			return prev, ctx.Err()
		case <-time.After(wait):
		}

		cur, err := r.Pull(ctx, day, personID)
		if err != nil {
			return store.DailySummary{}, err
		}
		if reflect.DeepEqual(prev, cur) {
			return cur, nil
		}
		prev = cur
	}
	return prev, nil
}
