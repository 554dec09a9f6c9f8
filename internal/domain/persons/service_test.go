package persons

import (
	"context"
	"errors"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Person
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Person{}}
}

func (r *testRepo) Create(ctx context.Context, p Person) error {
	if p.ID == "" {
		return errors.New("repo: id required")
	}
	if _, ok := r.byID[p.ID]; ok {
		return errors.New("repo: already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Update(ctx context.Context, p Person) error {
	if _, ok := r.byID[p.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Person, error) {
	p, ok := r.byID[id]
	if !ok {
		return Person{}, errRepoNotFound
	}
	return p, nil
}

func (r *testRepo) List(ctx context.Context) ([]Person, error) {
	out := make([]Person, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}
	return out, nil
}

func (r *testRepo) GetDefault(ctx context.Context) (Person, error) {
	for _, p := range r.byID {
		if p.IsDefault {
			return p, nil
		}
	}
	return Person{}, errRepoNotFound
}

func (r *testRepo) ClearDefault(ctx context.Context) error {
	for id, p := range r.byID {
		if p.IsDefault {
			p.IsDefault = false
			r.byID[id] = p
		}
	}
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestService_Create_FirstPersonBecomesDefault(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	p1, err := svc.Create(context.Background(), CreateInput{FirstName: "Ana"})
	if err != nil {
		t.Fatalf("Create #1 error: %v", err)
	}
	if !p1.IsDefault {
		t.Fatalf("expected first person to be default")
	}
	if p1.CreatedAt != now || p1.UpdatedAt != now {
		t.Fatalf("expected CreatedAt/UpdatedAt to be now")
	}

	p2, err := svc.Create(context.Background(), CreateInput{FirstName: "Bruno"})
	if err != nil {
		t.Fatalf("Create #2 error: %v", err)
	}
	if p2.IsDefault {
		t.Fatalf("expected second person NOT to be default")
	}
}

func TestService_Create_RequiresFirstName(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), CreateInput{FirstName: "   "})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestService_SetDefault_MovesTheFlag(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, _ := svc.Create(context.Background(), CreateInput{FirstName: "Ana"})
	b, _ := svc.Create(context.Background(), CreateInput{FirstName: "Bruno"})

	got, err := svc.SetDefault(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("SetDefault error: %v", err)
	}
	if !got.IsDefault {
		t.Fatalf("expected Bruno to be default after SetDefault")
	}

	// nunca debería haber dos defaults a la vez
	defaults := 0
	for _, p := range repo.byID {
		if p.IsDefault {
			defaults++
		}
	}
	if defaults != 1 {
		t.Fatalf("expected exactly 1 default, got %d", defaults)
	}
	if repo.byID[a.ID].IsDefault {
		t.Fatalf("expected Ana to lose the default flag")
	}
}

func TestService_SetDefault_IdempotentOnCurrentDefault(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, _ := svc.Create(context.Background(), CreateInput{FirstName: "Ana"})

	got, err := svc.SetDefault(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("SetDefault error: %v", err)
	}
	if !got.IsDefault {
		t.Fatalf("expected default to stay set")
	}
}

func TestService_Delete_RejectsDefaultWhileOthersExist(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	a, _ := svc.Create(context.Background(), CreateInput{FirstName: "Ana"})
	_, _ = svc.Create(context.Background(), CreateInput{FirstName: "Bruno"})

	err := svc.Delete(context.Background(), a.ID)
	if !errors.Is(err, ErrDefaultInUse) {
		t.Fatalf("expected ErrDefaultInUse, got %v", err)
	}

	// la última persona sí se puede borrar aunque sea default
	for id := range repo.byID {
		if id != a.ID {
			if err := svc.Delete(context.Background(), id); err != nil {
				t.Fatalf("Delete non-default error: %v", err)
			}
		}
	}
	if err := svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete last person error: %v", err)
	}
}

func TestService_Update_PartialFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	now1 := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	now2 := now1.Add(time.Hour)
	svc.now = func() time.Time { return now1 }

	dob := time.Date(1990, 5, 1, 0, 0, 0, 0, time.UTC)
	p, _ := svc.Create(context.Background(), CreateInput{
		FirstName:   "Ana",
		LastName:    "García",
		DateOfBirth: &dob,
		Notes:       "alergia a penicilina",
	})

	svc.now = func() time.Time { return now2 }
	newNotes := "sin alergias conocidas"
	got, err := svc.Update(context.Background(), p.ID, UpdateInput{
		Notes:      &newNotes,
		ClearBirth: true,
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.FirstName != "Ana" || got.LastName != "García" {
		t.Fatalf("expected untouched fields to survive, got %q %q", got.FirstName, got.LastName)
	}
	if got.Notes != newNotes {
		t.Fatalf("expected notes updated, got %q", got.Notes)
	}
	if got.DateOfBirth != nil {
		t.Fatalf("expected birth date cleared")
	}
	if got.UpdatedAt != now2 {
		t.Fatalf("expected UpdatedAt to move")
	}
}

func TestService_Update_RejectsEmptyFirstName(t *testing.T) {
	svc := NewService(newTestRepo())

	p, _ := svc.Create(context.Background(), CreateInput{FirstName: "Ana"})

	blank := "  "
	_, err := svc.Update(context.Background(), p.ID, UpdateInput{FirstName: &blank})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
