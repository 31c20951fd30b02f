package demo

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/rshade/gridpager/internal/source"
)

// ErrInvalidWindow is returned for negative offsets or non-positive limits.
var ErrInvalidWindow = errors.New("invalid record window")

// Filter narrows the record set.
type Filter struct {
	Category string
}

// Repository pages through demo items.
type Repository interface {
	List(ctx context.Context, offset, limit int, filter Filter) ([]Item, int64, error)
	Seed(ctx context.Context, n int) error
	Count(ctx context.Context) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository returns the gorm-backed Repository.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// List returns limit items starting at offset, ordered by id, and the number
// of items matching filter.
func (r *gormRepository) List(ctx context.Context, offset, limit int, filter Filter) ([]Item, int64, error) {
	if offset < 0 || limit < 1 {
		return nil, 0, fmt.Errorf("%w: offset %d, limit %d", ErrInvalidWindow, offset, limit)
	}

	query := r.db.WithContext(ctx).Model(&Item{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("counting items: %w", err)
	}

	items := []Item{}
	if err := query.Order("id").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return nil, 0, fmt.Errorf("listing items: %w", err)
	}
	return items, total, nil
}

// Seed replaces the table content with n generated items.
func (r *gormRepository) Seed(ctx context.Context, n int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Item{}).Error; err != nil {
			return fmt.Errorf("clearing items: %w", err)
		}
		if n == 0 {
			return nil
		}

		items := make([]Item, n)
		for i := range items {
			items[i] = Item{
				ID:       uint(i + 1),
				Name:     fmt.Sprintf("Item %03d", i+1),
				Category: Categories[i%len(Categories)],
				PriceCts: int64((i*37)%1000 + 99),
			}
		}
		if err := tx.CreateInBatches(items, 100).Error; err != nil {
			return fmt.Errorf("seeding items: %w", err)
		}
		return nil
	})
}

// Count returns the number of stored items.
func (r *gormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&Item{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("counting items: %w", err)
	}
	return total, nil
}

// NewSource serves repo pages as a grid source, bypassing HTTP.
func NewSource(repo Repository, filter Filter) source.Source[Item] {
	return source.SourceFunc[Item](func(ctx context.Context, req source.PageRequest) (source.Page[Item], error) {
		if req.Page < 1 {
			return source.Page[Item]{}, fmt.Errorf("%w: got %d", source.ErrInvalidPage, req.Page)
		}
		items, total, err := repo.List(ctx, req.Offset(), req.PageSize, filter)
		if err != nil {
			return source.Page[Item]{}, err
		}
		return source.Page[Item]{Records: items, Total: int(total)}, nil
	})
}

// NewRecordSource is NewSource with items converted to source.Record.
func NewRecordSource(repo Repository, filter Filter) source.Source[source.Record] {
	items := NewSource(repo, filter)
	return source.SourceFunc[source.Record](func(ctx context.Context, req source.PageRequest) (source.Page[source.Record], error) {
		page, err := items.FetchPage(ctx, req)
		if err != nil {
			return source.Page[source.Record]{}, err
		}
		records := make([]source.Record, len(page.Records))
		for i, it := range page.Records {
			records[i] = it.Record()
		}
		return source.Page[source.Record]{Records: records, Total: page.Total}, nil
	})
}

// Response is the endpoint wire format.
type Response struct {
	Data  []Item `json:"data"`
	Total int64  `json:"total"`
}
