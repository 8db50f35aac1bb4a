package repository

import (
	"context"
	"time"

	"cardpress/internal/app/model"
	"gorm.io/gorm"
)

// VisitRepository defines the data access contract for public-view
// visit events.
type VisitRepository interface {
	Create(ctx context.Context, event *model.VisitEvent) error
	CountBySlug(ctx context.Context, slug string, since time.Time) (int64, error)
}

type visitRepository struct {
	db *gorm.DB
}

// NewVisitRepository returns a GORM-backed VisitRepository.
func NewVisitRepository(db *gorm.DB) VisitRepository {
	return &visitRepository{db: db}
}

func (r *visitRepository) Create(ctx context.Context, event *model.VisitEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *visitRepository) CountBySlug(ctx context.Context, slug string, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.VisitEvent{}).
		Where("slug = ? AND timestamp >= ?", slug, since).
		Count(&count).Error
	return count, err
}
