package tracker

import (
	"sort"
	"sync"
	"time"

	"med-tracker/internal/ports/store"
)

// MedicationCounter es el eco local de los contadores de un medicamento
// para el día que se está viendo. Es advisory: el próximo reload completo
// siempre gana.
type MedicationCounter struct {
	MedicationID    string
	Name            string
	DosesTakenToday int
	MaxDosesPerDay  int
	LastTakenAt     *time.Time
}

// Counters refleja una dosis recién registrada en los contadores locales
// sin esperar el próximo reload de la lista de medicamentos. Nunca
// decrementa: los decrementos solo llegan vía Replace con datos frescos.
type Counters struct {
	mu   sync.RWMutex
	byID map[string]MedicationCounter
}

func NewCounters() *Counters {
	return &Counters{byID: make(map[string]MedicationCounter)}
}

// Replace descarta el estado optimista y lo reemplaza con la vista fresca
// del store (navegación de día, cambio de persona o refresh explícito).
func (c *Counters) Replace(meds []store.Medication) {
	next := make(map[string]MedicationCounter, len(meds))
	for _, m := range meds {
		next[m.ID] = MedicationCounter{
			MedicationID:    m.ID,
			Name:            m.Name,
			DosesTakenToday: m.DosesTakenToday,
			MaxDosesPerDay:  m.MaxDosesPerDay,
			LastTakenAt:     m.LastTakenAt,
		}
	}

	c.mu.Lock()
	c.byID = next
	c.mu.Unlock()
}

func (c *Counters) Get(medicationID string) (MedicationCounter, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	mc, ok := c.byID[medicationID]
	return mc, ok
}

// ApplyDose suma 1 al contador y actualiza LastTakenAt tras una escritura
// exitosa de hoy. Medicamento desconocido (vista desactualizada): no-op,
// el próximo Replace lo trae.
func (c *Counters) ApplyDose(medicationID string, takenAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	mc, ok := c.byID[medicationID]
	if !ok {
		return
	}
	mc.DosesTakenToday++
	t := takenAt
	mc.LastTakenAt = &t
	c.byID[medicationID] = mc
}

// Snapshot devuelve una copia estable (orden por nombre) para render.
func (c *Counters) Snapshot() []MedicationCounter {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]MedicationCounter, 0, len(c.byID))
	for _, mc := range c.byID {
		out = append(out, mc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
