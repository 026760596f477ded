package patients

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for patient storage.
type Repository interface {
	Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error)
	GetByID(ctx context.Context, id string) (*Patient, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, error)
}

// InMemoryRepository is a map-backed Repository used in tests and local runs
// without a database.
type InMemoryRepository struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

// NewInMemoryRepository creates a new in-memory repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{patients: make(map[string]*Patient)}
}

// Create stores a new patient in memory.
func (r *InMemoryRepository) Create(ctx context.Context, req *CreatePatientRequest) (*Patient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	birth, _ := time.Parse("2006-01-02", req.FechaNacimiento)
	now := time.Now().UTC()
	p := &Patient{
		ID:                     uuid.New().String(),
		NumeroHistoria:         req.NumeroHistoria,
		Nombres:                req.Nombres,
		Apellidos:              req.Apellidos,
		FechaNacimiento:        birth,
		Celular:                req.Celular,
		Email:                  req.Email,
		Alergias:               req.Alergias,
		EnfermedadesSistemicas: req.EnfermedadesSistemicas,
		Religion:               req.Religion,
		FechaCreacion:          now,
		FechaActualizacion:     now,
		Edad:                   AgeAt(birth, now),
	}
	if p.Alergias == nil {
		p.Alergias = []string{}
	}
	if p.EnfermedadesSistemicas == nil {
		p.EnfermedadesSistemicas = []string{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.patients {
		if existing.NumeroHistoria == p.NumeroHistoria {
			return nil, ErrDuplicateHistoryNumber
		}
	}
	r.patients[p.ID] = p
	return p, nil
}

// GetByID retrieves a patient by id.
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.patients[id]
	if !ok {
		return nil, ErrPatientNotFound
	}
	return p, nil
}

// List returns patients ordered by apellidos, nombres.
func (r *InMemoryRepository) List(ctx context.Context, limit, offset int) ([]*Patient, error) {
	r.mu.RLock()
	all := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		all = append(all, p)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Apellidos != all[j].Apellidos {
			return all[i].Apellidos < all[j].Apellidos
		}
		return all[i].Nombres < all[j].Nombres
	})

	if offset >= len(all) {
		return []*Patient{}, nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}
