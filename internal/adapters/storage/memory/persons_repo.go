package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"med-tracker/internal/domain/persons"
)

var (
	ErrNotFound = errors.New("not found")
)

type personRepo struct {
	mu   sync.RWMutex
	byID map[string]persons.Person
}

func NewPersonRepo() persons.Repository {
	return &personRepo{
		byID: make(map[string]persons.Person),
	}
}

func (r *personRepo) Create(ctx context.Context, p persons.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if strings.TrimSpace(p.ID) == "" {
		return errors.New("person id required")
	}
	if _, exists := r.byID[p.ID]; exists {
		return errors.New("person already exists")
	}
	r.byID[p.ID] = p
	return nil
}

func (r *personRepo) Update(ctx context.Context, p persons.Person) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[p.ID]; !exists {
		return ErrNotFound
	}
	r.byID[p.ID] = p
	return nil
}

func (r *personRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[id]; !exists {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *personRepo) GetByID(ctx context.Context, id string) (persons.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return persons.Person{}, ErrNotFound
	}
	return p, nil
}

func (r *personRepo) List(ctx context.Context) ([]persons.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]persons.Person, 0, len(r.byID))
	for _, p := range r.byID {
		out = append(out, p)
	}

	// Orden estable por created_at asc (solo para consistencia en dev)
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out, nil
}

func (r *personRepo) GetDefault(ctx context.Context) (persons.Person, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.IsDefault {
			return p, nil
		}
	}
	return persons.Person{}, ErrNotFound
}

func (r *personRepo) ClearDefault(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, p := range r.byID {
		if p.IsDefault {
			p.IsDefault = false
			r.byID[id] = p
		}
	}
	return nil
}
