package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/restofleet/pos-admin-api/internal/listquery"
	"github.com/restofleet/pos-admin-api/internal/observability"
)

var ErrNotFound = errors.New("record not found")

// ListQuery carries a validated page request into the repository. Filter is
// the parsed filter tree and Fields maps its wire names onto DB columns;
// SortColumn must already be a column name, not a wire name.
type ListQuery struct {
	Page       int
	Size       int
	Filter     listquery.Expr
	Fields     map[string]string
	SortColumn string
	SortDesc   bool
}

type ResourceRepository[E any] interface {
	Create(ctx context.Context, entity *E) error
	FindByID(ctx context.Context, id uint) (*E, error)
	List(ctx context.Context, q ListQuery) (PageResult[E], error)
	Update(ctx context.Context, id uint, entity *E) error
	DeleteByID(ctx context.Context, id uint) error
}

type GormResourceRepository[E any] struct {
	db       *gorm.DB
	module   string
	preloads []string
}

func NewResourceRepository[E any](db *gorm.DB, module string, preloads ...string) *GormResourceRepository[E] {
	return &GormResourceRepository[E]{db: db, module: module, preloads: preloads}
}

func (r *GormResourceRepository[E]) observe(ctx context.Context, op string, start time.Time) {
	observability.RecordRepositoryOperation(ctx, r.module, op, time.Since(start))
}

func (r *GormResourceRepository[E]) withPreloads(db *gorm.DB) *gorm.DB {
	for _, p := range r.preloads {
		db = db.Preload(p)
	}
	return db
}

func (r *GormResourceRepository[E]) Create(ctx context.Context, entity *E) error {
	defer r.observe(ctx, "create", time.Now())
	return r.db.WithContext(ctx).Create(entity).Error
}

func (r *GormResourceRepository[E]) FindByID(ctx context.Context, id uint) (*E, error) {
	defer r.observe(ctx, "find_by_id", time.Now())
	var entity E
	if err := r.withPreloads(r.db.WithContext(ctx)).First(&entity, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *GormResourceRepository[E]) List(ctx context.Context, q ListQuery) (PageResult[E], error) {
	defer r.observe(ctx, "list", time.Now())

	page := q.Page
	if page < 1 {
		page = listquery.DefaultPage
	}
	size := q.Size
	if size < 1 {
		size = listquery.DefaultSize
	}
	if size > listquery.MaxSize {
		size = listquery.MaxSize
	}
	result := PageResult[E]{Page: page, PageSize: size}

	base := r.db.WithContext(ctx).Model(new(E))
	if q.Filter != nil {
		var err error
		base, err = listquery.Apply(base, q.Filter, q.Fields)
		if err != nil {
			return PageResult[E]{}, err
		}
	}
	if err := base.Count(&result.Total).Error; err != nil {
		return PageResult[E]{}, err
	}

	order := "id desc"
	if q.SortColumn != "" {
		order = q.SortColumn + " asc"
		if q.SortDesc {
			order = q.SortColumn + " desc"
		}
	}
	offset := (page - 1) * size
	if err := r.withPreloads(base.Order(order)).Offset(offset).Limit(size).Find(&result.Items).Error; err != nil {
		return PageResult[E]{}, err
	}
	result.TotalPages = calcTotalPages(result.Total, size)
	return result, nil
}

func (r *GormResourceRepository[E]) Update(ctx context.Context, id uint, entity *E) error {
	defer r.observe(ctx, "update", time.Now())
	res := r.db.WithContext(ctx).Model(entity).Where("id = ?", id).
		Select("*").Omit("id", "created_at").Updates(entity)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormResourceRepository[E]) DeleteByID(ctx context.Context, id uint) error {
	defer r.observe(ctx, "delete_by_id", time.Now())
	res := r.db.WithContext(ctx).Delete(new(E), id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
