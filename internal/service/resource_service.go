package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/restofleet/pos-admin-api/internal/listquery"
	"github.com/restofleet/pos-admin-api/internal/observability"
	"github.com/restofleet/pos-admin-api/internal/repository"
)

// ResourceConfig describes one admin module to the generic service and
// handler: its permission module, cache namespace, and the wire-to-column
// mappings for filtering and sorting.
type ResourceConfig struct {
	Module       string
	Namespace    string
	FilterFields map[string]string
	SortFields   map[string]string
	SortPriority []string
	DefaultSort  listquery.Sort
}

func (c ResourceConfig) ParseOptions() listquery.ParseOptions {
	allowed := make(map[string]struct{}, len(c.SortFields))
	for f := range c.SortFields {
		allowed[f] = struct{}{}
	}
	return listquery.ParseOptions{DefaultSort: c.DefaultSort, AllowedSort: allowed}
}

type PageMeta struct {
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
	Pages    int   `json:"pages"`
	Total    int64 `json:"total"`
}

// ResourceService serves one admin module's table and upsert operations.
// List pages are cached per namespace; any successful mutation drops the
// namespace so every open view of the module refetches on its next request.
type ResourceService[E any] struct {
	repo   repository.ResourceRepository[E]
	cache  ListCacheStore
	cfg    ResourceConfig
	ttl    time.Duration
	logger *slog.Logger
	sf     singleflight.Group
}

func NewResourceService[E any](repo repository.ResourceRepository[E], cache ListCacheStore, cfg ResourceConfig, ttl time.Duration, logger *slog.Logger) *ResourceService[E] {
	if cache == nil {
		cache = NewNoopListCacheStore()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ResourceService[E]{repo: repo, cache: cache, cfg: cfg, ttl: ttl, logger: logger}
}

func (s *ResourceService[E]) Config() ResourceConfig { return s.cfg }

// List returns the rendered page payload `{meta, result}` as JSON. Identical
// concurrent requests collapse onto one repository query.
func (s *ResourceService[E]) List(ctx context.Context, req listquery.ListRequest) (json.RawMessage, error) {
	key := req.CacheKey()
	if payload, ok, err := s.cache.Get(ctx, s.cfg.Namespace, key); err == nil && ok {
		observability.RecordListCacheEvent(ctx, s.cfg.Namespace, "hit")
		return payload, nil
	}
	observability.RecordListCacheEvent(ctx, s.cfg.Namespace, "miss")

	result, err, _ := s.sf.Do(s.cfg.Namespace+"|"+key, func() (any, error) {
		if payload, ok, err := s.cache.Get(ctx, s.cfg.Namespace, key); err == nil && ok {
			return json.RawMessage(payload), nil
		}
		payload, err := s.listUncached(ctx, req)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(ctx, s.cfg.Namespace, key, payload, s.ttl); err != nil {
			s.logger.WarnContext(ctx, "list cache set failed", "namespace", s.cfg.Namespace, "error", err)
		}
		return payload, nil
	})
	if err != nil {
		return nil, err
	}
	payload, ok := result.(json.RawMessage)
	if !ok {
		return nil, fmt.Errorf("invalid list result type %T", result)
	}
	return payload, nil
}

func (s *ResourceService[E]) listUncached(ctx context.Context, req listquery.ListRequest) (json.RawMessage, error) {
	q := repository.ListQuery{
		Page:   req.Page,
		Size:   req.Size,
		Filter: req.Filter,
		Fields: s.cfg.FilterFields,
	}
	if req.Sort.Field != "" {
		col, ok := s.cfg.SortFields[req.Sort.Field]
		if !ok {
			return nil, fmt.Errorf("invalid sort field: %s", req.Sort.Field)
		}
		q.SortColumn = col
		q.SortDesc = req.Sort.Dir == "desc"
	}

	page, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	items := page.Items
	if items == nil {
		items = []E{}
	}
	payload := struct {
		Meta   PageMeta `json:"meta"`
		Result []E      `json:"result"`
	}{
		Meta: PageMeta{
			Page:     page.Page,
			PageSize: page.PageSize,
			Pages:    page.TotalPages,
			Total:    page.Total,
		},
		Result: items,
	}
	return json.Marshal(payload)
}

func (s *ResourceService[E]) Get(ctx context.Context, id uint) (*E, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *ResourceService[E]) Create(ctx context.Context, entity *E) error {
	if err := s.repo.Create(ctx, entity); err != nil {
		observability.RecordResourceMutation(ctx, s.cfg.Module, "create", "error")
		return err
	}
	observability.RecordResourceMutation(ctx, s.cfg.Module, "create", "success")
	s.InvalidateLists(ctx)
	return nil
}

func (s *ResourceService[E]) Update(ctx context.Context, id uint, entity *E) error {
	if err := s.repo.Update(ctx, id, entity); err != nil {
		observability.RecordResourceMutation(ctx, s.cfg.Module, "update", "error")
		return err
	}
	observability.RecordResourceMutation(ctx, s.cfg.Module, "update", "success")
	s.InvalidateLists(ctx)
	return nil
}

func (s *ResourceService[E]) Delete(ctx context.Context, id uint) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		observability.RecordResourceMutation(ctx, s.cfg.Module, "delete", "error")
		return err
	}
	observability.RecordResourceMutation(ctx, s.cfg.Module, "delete", "success")
	s.InvalidateLists(ctx)
	return nil
}

// InvalidateLists drops the module's cached pages. Called exactly once per
// successful mutation, never on failure.
func (s *ResourceService[E]) InvalidateLists(ctx context.Context) {
	if err := s.cache.InvalidateNamespace(ctx, s.cfg.Namespace); err != nil {
		s.logger.WarnContext(ctx, "list cache invalidation failed", "namespace", s.cfg.Namespace, "error", err)
		return
	}
	observability.RecordListCacheEvent(ctx, s.cfg.Namespace, "invalidate")
}
