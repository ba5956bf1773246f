package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nutricoach/backend/internal/plans"
)

// MemoryRepo is an in-memory plan store used in unit tests and when no
// document database is configured.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*plans.Plan
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*plans.Plan)}
}

func (m *MemoryRepo) Create(_ context.Context, p *plans.Plan) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	cp := *p
	m.store[p.ID] = &cp
	return p.ID, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*plans.Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MemoryRepo) ForPatient(_ context.Context, patientID int64) ([]*plans.Plan, error) {
	return m.filter(func(p *plans.Plan) bool { return p.PatientID == patientID }), nil
}

func (m *MemoryRepo) ForNutritionist(_ context.Context, nutritionistID int64) ([]*plans.Plan, error) {
	return m.filter(func(p *plans.Plan) bool { return p.NutritionistID == nutritionistID }), nil
}

func (m *MemoryRepo) Replace(_ context.Context, id string, nutritionistID int64, body plans.PlanReplace) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if p.NutritionistID != nutritionistID {
		return ErrNotOwner
	}
	p.Title = body.Title
	p.Description = body.Description
	p.Days = body.Days
	p.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *MemoryRepo) Delete(_ context.Context, id string, nutritionistID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[id]
	if !ok {
		return ErrNotFound
	}
	if p.NutritionistID != nutritionistID {
		return ErrNotOwner
	}
	delete(m.store, id)
	return nil
}

func (m *MemoryRepo) filter(keep func(*plans.Plan) bool) []*plans.Plan {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*plans.Plan{}
	for _, p := range m.store {
		if keep(p) {
			cp := *p
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

var _ Repository = (*MemoryRepo)(nil)
