// Package rest implementa ports/store contra la API HTTP del servicio
// (/api/v1). Es el único lugar donde el core toca la red: los errores no-2xx
// llegan al caller como *httpclient.HTTPError con el payload del store tal
// cual, sin reinterpretar.
package rest

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"med-tracker/internal/platform/httpclient"
	"med-tracker/internal/ports/store"
)

type Client struct {
	http *httpclient.Client
}

// New crea el adapter apuntando a baseURL (ej: "http://localhost:8080/api/v1").
func New(baseURL string, timeout time.Duration) (*Client, error) {
	hc, err := httpclient.NewWithBaseURL(baseURL, timeout)
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// medicationDTO es el shape del servidor para un medicamento decorado.
type medicationDTO struct {
	ID              string     `json:"id"`
	PersonID        string     `json:"person_id"`
	Name            string     `json:"name"`
	Dosage          string     `json:"dosage"`
	Frequency       string     `json:"frequency"`
	MaxDosesPerDay  int        `json:"max_doses_per_day"`
	Instructions    string     `json:"instructions"`
	DosesTakenToday int        `json:"doses_taken_today"`
	LastTakenAt     *time.Time `json:"last_taken_at"`
}

type doseDTO struct {
	ID             string    `json:"id"`
	MedicationID   *string   `json:"medication_id"`
	MedicationName *string   `json:"medication_name"`
	TakenAt        time.Time `json:"taken_at"`
}

type medicationDailyDTO struct {
	MedicationID   *string     `json:"medication_id"`
	MedicationName string      `json:"medication_name"`
	DosesTaken     int         `json:"doses_taken"`
	MaxDoses       int         `json:"max_doses"`
	DoseTimes      []time.Time `json:"dose_times"`
	IsDeleted      bool        `json:"is_deleted"`
}

type dailySummaryDTO struct {
	Date        string               `json:"date"`
	Medications []medicationDailyDTO `json:"medications"`
}

func (c *Client) ListMedications(ctx context.Context, personID, dayKey string, offsetMinutes *int) ([]store.Medication, error) {
	q := url.Values{}
	if personID != "" {
		q.Set("person_id", personID)
	}
	if dayKey != "" {
		q.Set("date", dayKey)
	}
	addOffset(q, offsetMinutes)

	var out []medicationDTO
	if err := c.http.DoJSON(ctx, http.MethodGet, withQuery("/medications", q), nil, &out); err != nil {
		return nil, err
	}

	meds := make([]store.Medication, 0, len(out))
	for _, m := range out {
		meds = append(meds, store.Medication{
			ID:              m.ID,
			PersonID:        m.PersonID,
			Name:            m.Name,
			Dosage:          m.Dosage,
			Frequency:       m.Frequency,
			MaxDosesPerDay:  m.MaxDosesPerDay,
			DosesTakenToday: m.DosesTakenToday,
			LastTakenAt:     m.LastTakenAt,
			Instructions:    m.Instructions,
		})
	}
	return meds, nil
}

func (c *Client) RecordDose(ctx context.Context, medicationID string, offsetMinutes *int) (store.Dose, error) {
	q := url.Values{}
	addOffset(q, offsetMinutes)

	var out doseDTO
	path := "/doses/medications/" + url.PathEscape(medicationID) + "/dose"
	if err := c.http.DoJSON(ctx, http.MethodPost, withQuery(path, q), nil, &out); err != nil {
		return store.Dose{}, err
	}
	return toStoreDose(out), nil
}

func (c *Client) RecordDoseForDay(ctx context.Context, medicationID, dayKey, timeHHMM string, offsetMinutes *int) (store.Dose, error) {
	q := url.Values{}
	q.Set("time", timeHHMM)
	addOffset(q, offsetMinutes)

	var out doseDTO
	path := "/doses/medications/" + url.PathEscape(medicationID) + "/dose/" + url.PathEscape(dayKey)
	if err := c.http.DoJSON(ctx, http.MethodPost, withQuery(path, q), nil, &out); err != nil {
		return store.Dose{}, err
	}
	return toStoreDose(out), nil
}

func (c *Client) GetDailySummary(ctx context.Context, dayKey string, offsetMinutes *int, personID string) (store.DailySummary, error) {
	q := url.Values{}
	addOffset(q, offsetMinutes)
	if personID != "" {
		q.Set("person_id", personID)
	}

	var out dailySummaryDTO
	path := "/doses/daily-summary/" + url.PathEscape(dayKey)
	if err := c.http.DoJSON(ctx, http.MethodGet, withQuery(path, q), nil, &out); err != nil {
		return store.DailySummary{}, err
	}

	sum := store.DailySummary{Date: out.Date, Medications: make([]store.MedicationDaily, 0, len(out.Medications))}
	for _, md := range out.Medications {
		sum.Medications = append(sum.Medications, store.MedicationDaily{
			MedicationID:   md.MedicationID,
			MedicationName: md.MedicationName,
			DosesTaken:     md.DosesTaken,
			MaxDoses:       md.MaxDoses,
			DoseTimes:      md.DoseTimes,
			Deleted:        md.IsDeleted,
		})
	}
	return sum, nil
}

func (c *Client) GetDoseHistory(ctx context.Context, medicationID string) ([]store.Dose, error) {
	var out []doseDTO
	path := "/doses/medications/" + url.PathEscape(medicationID) + "/doses"
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return toStoreDoses(out), nil
}

func (c *Client) GetDeletedMedicationDoseHistory(ctx context.Context, medicationName string) ([]store.Dose, error) {
	var out []doseDTO
	path := "/doses/deleted-medications/" + url.PathEscape(medicationName) + "/doses"
	if err := c.http.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return toStoreDoses(out), nil
}

func (c *Client) DeleteDose(ctx context.Context, doseID string) error {
	return c.http.DoJSON(ctx, http.MethodDelete, "/doses/"+url.PathEscape(doseID), nil, nil)
}

func addOffset(q url.Values, offsetMinutes *int) {
	if offsetMinutes != nil {
		q.Set("timezone_offset", strconv.Itoa(*offsetMinutes))
	}
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

func toStoreDose(d doseDTO) store.Dose {
	return store.Dose{
		ID:             d.ID,
		MedicationID:   d.MedicationID,
		MedicationName: d.MedicationName,
		TakenAt:        d.TakenAt,
	}
}

func toStoreDoses(items []doseDTO) []store.Dose {
	out := make([]store.Dose, 0, len(items))
	for _, d := range items {
		out = append(out, toStoreDose(d))
	}
	return out
}
