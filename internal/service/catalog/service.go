// Package catalog serves the list of orderable lab, imaging and
// functional-test services.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/patrickmn/go-cache"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/jwalitptl/frontdesk-api/internal/model"
	"github.com/jwalitptl/frontdesk-api/internal/repository"
	apperrors "github.com/jwalitptl/frontdesk-api/pkg/errors"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/metrics"
)

const cacheName = "catalog"

type Service struct {
	repo    repository.CatalogRepository
	cache   *cache.Cache
	metrics *metrics.Metrics
	logger  *logger.Logger
}

func NewService(repo repository.CatalogRepository, c *cache.Cache, m *metrics.Metrics, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:    repo,
		cache:   c,
		metrics: m,
		logger:  log.With("catalog"),
	}
}

// List returns the services in filter.Category (all when empty) whose name
// or code contains filter.Query, ignoring case and diacritics.
func (s *Service) List(ctx context.Context, filter model.CatalogFilter) ([]*model.AncillaryService, error) {
	services, err := s.byCategory(ctx, filter.Category)
	if err != nil {
		return nil, err
	}

	query := Fold(filter.Query)
	out := make([]*model.AncillaryService, 0, len(services))
	for _, svc := range services {
		if query != "" && !strings.Contains(Fold(svc.Name), query) && !strings.Contains(Fold(svc.Code), query) {
			continue
		}
		cp := *svc
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id string) (*model.AncillaryService, error) {
	key := "service:" + id
	if v, ok := s.lookup(key); ok {
		cp := *v.(*model.AncillaryService)
		return &cp, nil
	}

	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFound("service "+id, err)
		}
		return nil, apperrors.NewInternal(fmt.Errorf("failed to get service: %w", err))
	}
	s.store(key, svc)

	cp := *svc
	return &cp, nil
}

func (s *Service) byCategory(ctx context.Context, category string) ([]*model.AncillaryService, error) {
	key := "list:" + category
	if v, ok := s.lookup(key); ok {
		return v.([]*model.AncillaryService), nil
	}

	services, err := s.repo.ListServices(ctx, category)
	if err != nil {
		s.logger.Error(err, "failed to list services", "category", category)
		return nil, apperrors.NewInternal(fmt.Errorf("failed to list services: %w", err))
	}
	s.store(key, services)
	return services, nil
}

func (s *Service) lookup(key string) (interface{}, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(cacheName + ":" + key)
	if s.metrics != nil {
		result := "miss"
		if ok {
			result = "hit"
		}
		s.metrics.CacheLookups.WithLabelValues(cacheName, result).Inc()
	}
	return v, ok
}

func (s *Service) store(key string, v interface{}) {
	if s.cache != nil {
		s.cache.SetDefault(cacheName+":"+key, v)
	}
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases s and strips Vietnamese diacritics so that "sieu am"
// matches "Siêu âm". đ has no decomposition and is mapped by hand.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "d").Replace(folded)
	return strings.ToLower(folded)
}
