package doses

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrMaxDoses: el medicamento ya alcanzó max_doses_per_day en ese día local.
	ErrMaxDoses = errors.New("maximum doses per day reached")

	// ErrFutureDate: no se registran dosis para días que todavía no llegaron.
	ErrFutureDate = errors.New("cannot record a dose for a future date")
)

const dayKeyLayout = "2006-01-02"

// deletedSuffix marca los agregados de medicamentos borrados en el resumen
// diario. El cliente nunca vuelve a decorar: el sufijo viaja una sola vez.
const deletedSuffix = " (deleted)"

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// dayWindow devuelve [medianoche, medianoche+24h) del día local dayKey en la
// zona del offset (minutos al este de UTC; nil = UTC).
func dayWindow(dayKey string, offsetMinutes *int) (time.Time, time.Time, *time.Location, error) {
	loc := time.UTC
	if offsetMinutes != nil {
		loc = time.FixedZone("", *offsetMinutes*60)
	}
	day, err := time.ParseInLocation(dayKeyLayout, dayKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, nil, fmt.Errorf("invalid date %q: %w", dayKey, err)
	}
	return day, day.Add(24 * time.Hour), loc, nil
}

// Record registra una toma "ahora" y la valida contra el máximo diario del
// día local en curso (según el offset del viewer).
func (s *Service) Record(ctx context.Context, med MedicationRef, offsetMinutes *int) (Dose, error) {
	now := s.now().UTC()

	loc := time.UTC
	if offsetMinutes != nil {
		loc = time.FixedZone("", *offsetMinutes*60)
	}
	dayKey := now.In(loc).Format(dayKeyLayout)

	return s.insert(ctx, med, dayKey, now, offsetMinutes)
}

// RecordForDay registra una toma en una fecha y hora explícitas (HH:MM,
// 24hs) interpretadas en la zona del offset. Los días futuros se rechazan.
func (s *Service) RecordForDay(ctx context.Context, med MedicationRef, dayKey, timeHHMM string, offsetMinutes *int) (Dose, error) {
	loc := time.UTC
	if offsetMinutes != nil {
		loc = time.FixedZone("", *offsetMinutes*60)
	}

	todayKey := s.now().In(loc).Format(dayKeyLayout)
	if dayKey > todayKey {
		return Dose{}, ErrFutureDate
	}

	t, err := time.ParseInLocation(dayKeyLayout+" 15:04", dayKey+" "+strings.TrimSpace(timeHHMM), loc)
	if err != nil {
		return Dose{}, fmt.Errorf("%w: time must be HH:MM", ErrInvalidInput)
	}

	return s.insert(ctx, med, dayKey, t.UTC(), offsetMinutes)
}

func (s *Service) insert(ctx context.Context, med MedicationRef, dayKey string, takenAt time.Time, offsetMinutes *int) (Dose, error) {
	if strings.TrimSpace(med.ID) == "" {
		return Dose{}, ErrInvalidInput
	}

	from, to, _, err := dayWindow(dayKey, offsetMinutes)
	if err != nil {
		return Dose{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	existing, err := s.repo.ListByMedicationBetween(ctx, med.ID, from.UTC(), to.UTC())
	if err != nil {
		return Dose{}, err
	}
	if med.MaxDosesPerDay > 0 && len(existing) >= med.MaxDosesPerDay {
		return Dose{}, ErrMaxDoses
	}

	medID := med.ID
	name := med.Name
	d := Dose{
		ID:             uuid.NewString(),
		MedicationID:   &medID,
		MedicationName: &name,
		TakenAt:        takenAt,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return Dose{}, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, doseID string) error {
	if _, err := s.repo.GetByID(ctx, doseID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, doseID)
}

// HistoryByMedication devuelve las dosis de un medicamento activo, de más
// reciente a más antigua.
func (s *Service) HistoryByMedication(ctx context.Context, medicationID string) ([]Dose, error) {
	return s.repo.ListByMedication(ctx, medicationID)
}

// HistoryByDeletedName devuelve las dosis desacopladas que guardaron ese
// nombre de medicamento.
func (s *Service) HistoryByDeletedName(ctx context.Context, medicationName string) ([]Dose, error) {
	name := strings.TrimSpace(medicationName)
	if name == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByDeletedName(ctx, name)
}

// ListByDay devuelve las dosis de un medicamento dentro de un día local,
// ascendente.
func (s *Service) ListByDay(ctx context.Context, medicationID, dayKey string, offsetMinutes *int) ([]Dose, error) {
	from, to, _, err := dayWindow(dayKey, offsetMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	return s.repo.ListByMedicationBetween(ctx, medicationID, from.UTC(), to.UTC())
}

// DayInfo implementa medications.DoseStats: cuántas dosis lleva el
// medicamento en ese día local y el instante de la última.
func (s *Service) DayInfo(ctx context.Context, medicationID, dayKey string, offsetMinutes *int) (int, *time.Time, error) {
	items, err := s.ListByDay(ctx, medicationID, dayKey, offsetMinutes)
	if err != nil {
		return 0, nil, err
	}
	if len(items) == 0 {
		return 0, nil, nil
	}
	last := items[0].TakenAt
	for _, d := range items[1:] {
		if d.TakenAt.After(last) {
			last = d.TakenAt
		}
	}
	return len(items), &last, nil
}

// DetachMedication implementa medications.DoseDetacher.
func (s *Service) DetachMedication(ctx context.Context, medicationID, medicationName string) error {
	return s.repo.DetachMedication(ctx, medicationID, medicationName)
}

// DailySummary arma el resumen de un día local: un agregado por medicamento
// activo (refs que pasa el handler, aun con cero tomas) más un agregado por
// nombre para dosis desacopladas, con el sufijo " (deleted)".
func (s *Service) DailySummary(ctx context.Context, meds []MedicationRef, dayKey string, offsetMinutes *int) (DaySummary, error) {
	from, to, _, err := dayWindow(dayKey, offsetMinutes)
	if err != nil {
		return DaySummary{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	rows, err := s.repo.ListBetween(ctx, from.UTC(), to.UTC())
	if err != nil {
		return DaySummary{}, err
	}

	byMed := make(map[string][]time.Time, len(meds))
	refByID := make(map[string]MedicationRef, len(meds))
	for _, m := range meds {
		refByID[m.ID] = m
		byMed[m.ID] = nil
	}

	detached := map[string][]time.Time{}
	detachedOrder := make([]string, 0)

	for _, d := range rows {
		if d.MedicationID != nil {
			// dosis de medicamentos fuera del scope pedido se ignoran
			if _, ok := refByID[*d.MedicationID]; !ok {
				continue
			}
			byMed[*d.MedicationID] = append(byMed[*d.MedicationID], d.TakenAt)
			continue
		}
		name := ""
		if d.MedicationName != nil {
			name = *d.MedicationName
		}
		if _, seen := detached[name]; !seen {
			detachedOrder = append(detachedOrder, name)
		}
		detached[name] = append(detached[name], d.TakenAt)
	}

	out := DaySummary{Date: dayKey}
	for _, m := range meds {
		times := byMed[m.ID]
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		id := m.ID
		out.Medications = append(out.Medications, MedicationDaily{
			MedicationID: &id,
			Name:         m.Name,
			DosesTaken:   len(times),
			MaxDoses:     m.MaxDosesPerDay,
			DoseTimes:    times,
		})
	}
	sort.Strings(detachedOrder)
	for _, name := range detachedOrder {
		times := detached[name]
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
		out.Medications = append(out.Medications, MedicationDaily{
			Name:       name + deletedSuffix,
			DosesTaken: len(times),
			MaxDoses:   len(times),
			DoseTimes:  times,
			Deleted:    true,
		})
	}

	return out, nil
}
