package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Magalhaexz/ChatBot-Viale/internal/entity"
)

// MemoryLeadRepository é o store de desenvolvimento (STORE=memory).
// Tudo que entra ou sai é copiado.
type MemoryLeadRepository struct {
	mu     sync.RWMutex
	leads  map[int64]*entity.Lead
	nextID int64
	Now    func() time.Time
}

func NewMemoryLeadRepository() *MemoryLeadRepository {
	return &MemoryLeadRepository{
		leads: make(map[int64]*entity.Lead),
		Now:   time.Now,
	}
}

func (r *MemoryLeadRepository) Create(_ context.Context, lead *entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	lead.ID = r.nextID
	lead.ApplyDefaults(r.Now())
	r.leads[lead.ID] = lead.Clone()
	return nil
}

func (r *MemoryLeadRepository) FindByID(_ context.Context, id int64) (*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	return l.Clone(), nil
}

func (r *MemoryLeadRepository) FindByPhone(ctx context.Context, phone string) ([]*entity.Lead, error) {
	return r.List(ctx, entity.LeadFilter{Phone: phone})
}

func (r *MemoryLeadRepository) List(_ context.Context, filter entity.LeadFilter) ([]*entity.Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*entity.Lead, 0, len(r.leads))
	for _, l := range r.leads {
		if filter.Match(l) {
			out = append(out, l.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (r *MemoryLeadRepository) update(id int64, fn func(l *entity.Lead)) (*entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	fn(l)
	l.UpdatedAt = r.Now()
	return l.Clone(), nil
}

func (r *MemoryLeadRepository) UpdateStatus(_ context.Context, id int64, status string) (*entity.Lead, error) {
	return r.update(id, func(l *entity.Lead) { l.Status = status })
}

func (r *MemoryLeadRepository) UpdateAssignment(_ context.Context, id int64, a entity.Attendant) (*entity.Lead, error) {
	return r.update(id, func(l *entity.Lead) { l.Assign(a) })
}

func (r *MemoryLeadRepository) UpdateNotes(_ context.Context, id int64, notes string) (*entity.Lead, error) {
	return r.update(id, func(l *entity.Lead) { l.Notes = notes })
}
