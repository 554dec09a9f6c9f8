package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"med-tracker/internal/adapters/store/rest"
	"med-tracker/internal/platform/logger"
	"med-tracker/internal/router"
	"med-tracker/internal/tracker"
)

// E2E: servidor real (httptest) + adapter REST + core del tracker, el loop
// completo que recorre una dosis desde el guard hasta el resumen diario.
func TestHTTP_EndToEnd_DoseRecordingLoop(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Logger: logger.Nop{}}))
	defer ts.Close()

	st, err := rest.New(ts.URL+"/api/v1", 5*time.Second)
	if err != nil {
		t.Fatalf("rest client: %v", err)
	}

	clock := tracker.SystemClock{}
	counters := tracker.NewCounters()
	guard := tracker.NewGuard(st, clock, counters, logger.Nop{})
	rec := tracker.NewReconciler(st, clock, logger.Nop{})

	ctx := context.Background()

	// 1) Persona
	personID := createJSON(t, ts.URL, "/api/v1/persons", map[string]any{
		"first_name": "Ana",
		"last_name":  "García",
	})

	// 2) Medicamentos
	aspirinID := createJSON(t, ts.URL, "/api/v1/medications", map[string]any{
		"person_id":         personID,
		"name":              "Aspirin 100mg",
		"max_doses_per_day": 3,
	})
	oldMedID := createJSON(t, ts.URL, "/api/v1/medications", map[string]any{
		"person_id":         personID,
		"name":              "Old Med",
		"max_doses_per_day": 2,
	})

	// 3) Contadores desde la lista fresca
	meds, err := st.ListMedications(ctx, personID, "", nil)
	if err != nil {
		t.Fatalf("ListMedications: %v", err)
	}
	if len(meds) != 2 {
		t.Fatalf("expected 2 medications, got %d", len(meds))
	}
	counters.Replace(meds)

	// 4) Día futuro: rechazado por el guard, sin tocar la red
	if _, err := guard.Record(ctx, aspirinID, "2999-01-01", ""); !errors.Is(err, tracker.ErrFutureDay) {
		t.Fatalf("expected ErrFutureDay, got %v", err)
	}

	// 5) Día pasado sin hora: rechazado pre-flight
	if _, err := guard.Record(ctx, aspirinID, "2025-05-17", ""); !errors.Is(err, tracker.ErrExplicitTimeRequired) {
		t.Fatalf("expected ErrExplicitTimeRequired, got %v", err)
	}

	// 6) Dosis explícitas de un día pasado (sin offset: fecha+hora inequívoca)
	if _, err := guard.Record(ctx, aspirinID, "2025-05-17", "08:00"); err != nil {
		t.Fatalf("explicit record #1: %v", err)
	}
	if _, err := guard.Record(ctx, aspirinID, "2025-05-17", "20:00"); err != nil {
		t.Fatalf("explicit record #2: %v", err)
	}
	if _, err := guard.Record(ctx, oldMedID, "2025-05-17", "09:00"); err != nil {
		t.Fatalf("explicit record old med: %v", err)
	}

	// 7) Dosis inmediata de hoy: va con offset, suma al contador optimista
	dose, err := guard.Record(ctx, aspirinID, tracker.TodayKey(clock), "")
	if err != nil {
		t.Fatalf("immediate record: %v", err)
	}
	if dose.ID == "" {
		t.Fatalf("expected a dose id from the store")
	}
	if mc, _ := counters.Get(aspirinID); mc.DosesTakenToday != 1 {
		t.Fatalf("expected optimistic counter 1, got %d", mc.DosesTakenToday)
	}

	// 8) Borrar Old Med: el historial sobrevive desacoplado
	if status := doDelete(t, ts.URL, "/api/v1/medications/"+oldMedID); status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting medication, got %d", status)
	}
	orphaned, err := st.GetDeletedMedicationDoseHistory(ctx, "Old Med")
	if err != nil {
		t.Fatalf("deleted history: %v", err)
	}
	if len(orphaned) != 1 || orphaned[0].MedicationID != nil {
		t.Fatalf("expected 1 detached dose, got %#v", orphaned)
	}

	// 9) Resumen del día pasado via reconciler: reemplaza cache y cierra el loop
	sum, err := rec.Pull(ctx, "2025-05-17", personID)
	if err != nil {
		t.Fatalf("Pull: %v", err)
	}
	total := 0
	for _, md := range sum.Medications {
		total += md.DosesTaken
	}
	if total != 3 {
		t.Fatalf("expected 3 doses in 2025-05-17, got %d", total)
	}

	events := tracker.MergeDoseEvents(sum)
	out := tracker.RenderDailyLog("2025-05-17", events, time.UTC, clock.Now())

	for i, want := range []string{
		"08:00 AM — Aspirin 100mg",
		"09:00 AM — Old Med (deleted)",
		"08:00 PM — Aspirin 100mg",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %d missing (%q) in:\n%s", i, want, out)
		}
	}

	// 10) El export del servidor produce las mismas líneas
	status, body := doGet(t, ts.URL, "/api/v1/reports/daily-log/2025-05-17?person_id="+personID)
	if status != http.StatusOK {
		t.Fatalf("expected 200 from report, got %d body=%s", status, string(body))
	}
	for _, want := range []string{
		"08:00 AM — Aspirin 100mg",
		"09:00 AM — Old Med (deleted)",
		"08:00 PM — Aspirin 100mg",
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("report missing %q:\n%s", want, string(body))
		}
	}
}

func TestHTTP_MaxDosesEnforcedServerSide(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Logger: logger.Nop{}}))
	defer ts.Close()

	personID := createJSON(t, ts.URL, "/api/v1/persons", map[string]any{"first_name": "Ana"})
	medID := createJSON(t, ts.URL, "/api/v1/medications", map[string]any{
		"person_id":         personID,
		"name":              "Ibuprofen",
		"max_doses_per_day": 1,
	})

	st1, _ := doPost(t, ts.URL, "/api/v1/doses/medications/"+medID+"/dose/2025-05-17?time=08:00")
	if st1 != http.StatusCreated {
		t.Fatalf("expected 201 first dose, got %d", st1)
	}
	st2, body := doPost(t, ts.URL, "/api/v1/doses/medications/"+medID+"/dose/2025-05-17?time=12:00")
	if st2 != http.StatusBadRequest {
		t.Fatalf("expected 400 over max, got %d body=%s", st2, string(body))
	}
}

func TestHTTP_DefaultPersonInvariant(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{Logger: logger.Nop{}}))
	defer ts.Close()

	anaID := createJSON(t, ts.URL, "/api/v1/persons", map[string]any{"first_name": "Ana"})
	brunoID := createJSON(t, ts.URL, "/api/v1/persons", map[string]any{"first_name": "Bruno"})

	// la default no se puede borrar mientras exista otra persona
	if status := doDelete(t, ts.URL, "/api/v1/persons/"+anaID); status != http.StatusBadRequest {
		t.Fatalf("expected 400 deleting default person, got %d", status)
	}

	// promover a Bruno y reintentar
	req, _ := http.NewRequest(http.MethodPut, ts.URL+"/api/v1/persons/"+brunoID+"/set-default", nil)
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("set-default: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 set-default, got %d", res.StatusCode)
	}

	if status := doDelete(t, ts.URL, "/api/v1/persons/"+anaID); status != http.StatusNoContent {
		t.Fatalf("expected 204 deleting ex-default, got %d", status)
	}
}

// -------------------------
// helpers
// -------------------------

func createJSON(t *testing.T, baseURL, path string, payload map[string]any) string {
	t.Helper()

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	res, err := http.Post(baseURL+path, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer res.Body.Close()

	body, _ := io.ReadAll(res.Body)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 at %s, got %d body=%s", path, res.StatusCode, string(body))
	}

	var resp struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("missing id at %s body=%s", path, string(body))
	}
	return resp.ID
}

func doPost(t *testing.T, baseURL, path string) (int, []byte) {
	t.Helper()

	res, err := http.Post(baseURL+path, "application/json", nil)
	if err != nil {
		t.Fatalf("post %s: %v", path, err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body
}

func doGet(t *testing.T, baseURL, path string) (int, []byte) {
	t.Helper()

	res, err := http.Get(baseURL + path)
	if err != nil {
		t.Fatalf("get %s: %v", path, err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	return res.StatusCode, body
}

func doDelete(t *testing.T, baseURL, path string) int {
	t.Helper()

	req, err := http.NewRequest(http.MethodDelete, baseURL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("delete %s: %v", path, err)
	}
	res.Body.Close()
	return res.StatusCode
}
