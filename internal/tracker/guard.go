package tracker

import (
	"context"
	"strings"
	"sync"
	"time"

	"med-tracker/internal/platform/logger"
	"med-tracker/internal/ports/store"
)

// Guard serializa los registros de dosis por medicamento: máquina de
// estados Idle/Recording keyed por ID. N disparos casi simultáneos sobre
// el mismo medicamento producen exactamente UNA escritura al store; un
// disparo sobre otro medicamento no se bloquea.
//
// El check-then-set vive en una única sección crítica (el mutex reemplaza
// al hilo lógico único de un cliente event-driven). El estado es efímero,
// por vista abierta; nunca se persiste.
type Guard struct {
	store    store.Store
	clock    Clock
	counters *Counters
	log      logger.Logger

	mu        sync.Mutex
	recording map[string]struct{}
}

func NewGuard(st store.Store, clock Clock, counters *Counters, log logger.Logger) *Guard {
	return &Guard{
		store:     st,
		clock:     clock,
		counters:  counters,
		log:       log,
		recording: make(map[string]struct{}),
	}
}

// Recording informa si hay un registro en vuelo para el medicamento.
// Es insumo de presentación (deshabilitar botones); la invariante la
// hace cumplir Record por sí misma, con o sin UI.
func (g *Guard) Recording(medicationID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, busy := g.recording[medicationID]
	return busy
}

// Record registra una dosis para day. explicitTime es "HH:MM" o vacío:
//   - hoy + vacío  => modo inmediato (el store estampa el instante, offset adjunto)
//   - hoy + HH:MM  => explícito con offset
//   - pasado       => explícito obligatorio, SIN offset (fecha+hora ya es inequívoco)
//   - futuro       => rechazado antes de tocar la red
//
// Los chequeos pre-flight (estado del guard, política temporal, máximo
// diario) cortan antes de cualquier I/O. Al completar la escritura —
// éxito o falla — el estado vuelve a Idle incondicionalmente, así un
// retry inmediato es posible.
func (g *Guard) Record(ctx context.Context, medicationID string, day DayKey, explicitTime string) (store.Dose, error) {
	today := TodayKey(g.clock)
	class := Classify(day, today)

	if class == DayFuture {
		return store.Dose{}, ErrFutureDay
	}
	if mc, ok := g.counters.Get(medicationID); ok && mc.DosesTakenToday >= mc.MaxDosesPerDay {
		return store.Dose{}, ErrMaxDoses
	}

	explicitTime = strings.TrimSpace(explicitTime)
	if class == DayPast && explicitTime == "" {
		return store.Dose{}, ErrExplicitTimeRequired
	}
	if explicitTime != "" {
		if _, err := time.Parse("15:04", explicitTime); err != nil {
			return store.Dose{}, ErrExplicitTimeRequired
		}
	}

	// Idle -> Recording. Un segundo request que observa Recording se
	// descarta acá: sin red, sin transición, sin error adicional.
	g.mu.Lock()
	if _, busy := g.recording[medicationID]; busy {
		g.mu.Unlock()
		return store.Dose{}, ErrRecordingInFlight
	}
	g.recording[medicationID] = struct{}{}
	g.mu.Unlock()

	// Recording -> Idle pase lo que pase, aunque los contadores todavía
	// no se hayan refrescado.
	defer func() {
		g.mu.Lock()
		delete(g.recording, medicationID)
		g.mu.Unlock()
	}()

	var (
		dose store.Dose
		err  error
	)
	if explicitTime == "" {
		off := OffsetForRequest(g.clock)
		dose, err = g.store.RecordDose(ctx, medicationID, &off)
	} else {
		var off *int
		if class == DayToday {
			o := OffsetForRequest(g.clock)
			off = &o
		}
		dose, err = g.store.RecordDoseForDay(ctx, medicationID, string(day), explicitTime, off)
	}
	if err != nil {
		g.log.Warn("dose write failed", map[string]any{
			"medication_id": medicationID,
			"day":           string(day),
			"mode":          ModeFor(class).String(),
			"error":         err.Error(),
		})
		return store.Dose{}, err
	}

	if class == DayToday {
		g.counters.ApplyDose(medicationID, dose.TakenAt)
	}

	g.log.Debug("dose recorded", map[string]any{
		"medication_id": medicationID,
		"day":           string(day),
		"dose_id":       dose.ID,
	})
	return dose, nil
}
