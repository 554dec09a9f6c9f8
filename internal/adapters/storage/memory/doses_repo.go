package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"med-tracker/internal/domain/doses"
)

type doseRepo struct {
	mu   sync.RWMutex
	byID map[string]doses.Dose
}

func NewDoseRepo() doses.Repository {
	return &doseRepo{
		byID: make(map[string]doses.Dose),
	}
}

func (r *doseRepo) Create(ctx context.Context, d doses.Dose) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(d.ID) == "" {
		return errors.New("dose id required")
	}
	if _, exists := r.byID[d.ID]; exists {
		return errors.New("dose already exists")
	}
	r.byID[d.ID] = d
	return nil
}

func (r *doseRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *doseRepo) GetByID(ctx context.Context, id string) (doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.byID[id]
	if !ok {
		return doses.Dose{}, ErrNotFound
	}
	return d, nil
}

func (r *doseRepo) ListByMedication(ctx context.Context, medicationID string) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.MedicationID != nil && *d.MedicationID == medicationID {
			out = append(out, d)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.After(out[j].TakenAt)
	})
	return out, nil
}

func (r *doseRepo) ListByMedicationBetween(ctx context.Context, medicationID string, from, to time.Time) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.MedicationID == nil || *d.MedicationID != medicationID {
			continue
		}
		if !inWindow(d.TakenAt, from, to) {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.Before(out[j].TakenAt)
	})
	return out, nil
}

func (r *doseRepo) ListBetween(ctx context.Context, from, to time.Time) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if !inWindow(d.TakenAt, from, to) {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.Before(out[j].TakenAt)
	})
	return out, nil
}

func (r *doseRepo) ListByDeletedName(ctx context.Context, medicationName string) ([]doses.Dose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]doses.Dose, 0)
	for _, d := range r.byID {
		if d.MedicationID != nil {
			continue
		}
		if d.MedicationName == nil || *d.MedicationName != medicationName {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].TakenAt.After(out[j].TakenAt)
	})
	return out, nil
}

func (r *doseRepo) DetachMedication(ctx context.Context, medicationID, medicationName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, d := range r.byID {
		if d.MedicationID == nil || *d.MedicationID != medicationID {
			continue
		}
		d.MedicationID = nil
		name := medicationName
		d.MedicationName = &name
		r.byID[id] = d
	}
	return nil
}

// inWindow: [from, to)
func inWindow(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}
