package tracker

import (
	"testing"
	"time"

	"med-tracker/internal/ports/store"
)

func TestCounters_ApplyDose_IncrementsAndStampsLastTaken(t *testing.T) {
	c := NewCounters()
	c.Replace([]store.Medication{
		{ID: "med-1", Name: "Aspirin", DosesTakenToday: 1, MaxDosesPerDay: 3},
	})

	at := time.Date(2025, 5, 17, 14, 0, 0, 0, time.UTC)
	c.ApplyDose("med-1", at)

	mc, ok := c.Get("med-1")
	if !ok {
		t.Fatalf("expected counter for med-1")
	}
	if mc.DosesTakenToday != 2 {
		t.Fatalf("expected 2 doses, got %d", mc.DosesTakenToday)
	}
	if mc.LastTakenAt == nil || !mc.LastTakenAt.Equal(at) {
		t.Fatalf("expected LastTakenAt %v, got %v", at, mc.LastTakenAt)
	}
}

func TestCounters_ApplyDose_UnknownMedicationIsNoop(t *testing.T) {
	c := NewCounters()
	c.ApplyDose("ghost", time.Now())

	if _, ok := c.Get("ghost"); ok {
		t.Fatalf("unknown medication must not appear optimistically")
	}
}

func TestCounters_Replace_AlwaysWins(t *testing.T) {
	c := NewCounters()
	c.Replace([]store.Medication{
		{ID: "med-1", Name: "Aspirin", DosesTakenToday: 0, MaxDosesPerDay: 3},
	})
	c.ApplyDose("med-1", time.Now())
	c.ApplyDose("med-1", time.Now())

	// El reload completo manda, aunque "baje" el contador optimista.
	c.Replace([]store.Medication{
		{ID: "med-1", Name: "Aspirin", DosesTakenToday: 1, MaxDosesPerDay: 3},
	})

	mc, _ := c.Get("med-1")
	if mc.DosesTakenToday != 1 {
		t.Fatalf("expected fresh value 1 after replace, got %d", mc.DosesTakenToday)
	}
}

func TestCounters_Snapshot_SortedByName(t *testing.T) {
	c := NewCounters()
	c.Replace([]store.Medication{
		{ID: "med-2", Name: "Vitamin D"},
		{ID: "med-1", Name: "Aspirin"},
	})

	snap := c.Snapshot()
	if len(snap) != 2 || snap[0].Name != "Aspirin" || snap[1].Name != "Vitamin D" {
		t.Fatalf("expected snapshot sorted by name, got %#v", snap)
	}
}
