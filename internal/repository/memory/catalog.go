package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
)

type catalogRepository struct {
	mu       sync.RWMutex
	services map[string]*model.AncillaryService
}

// NewCatalogRepository keeps the given services in memory. Callers get copies.
func NewCatalogRepository(services []*model.AncillaryService) repository.CatalogRepository {
	r := &catalogRepository{services: make(map[string]*model.AncillaryService, len(services))}
	for _, s := range services {
		cp := *s
		r.services[s.ID] = &cp
	}
	return r
}

func (r *catalogRepository) ListServices(_ context.Context, category string) ([]*model.AncillaryService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.AncillaryService, 0, len(r.services))
	for _, s := range r.services {
		if category != "" && s.Category != category {
			continue
		}
		cp := *s
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (r *catalogRepository) GetService(_ context.Context, id string) (*model.AncillaryService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.services[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	return &cp, nil
}
