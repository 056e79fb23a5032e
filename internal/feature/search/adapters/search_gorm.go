// Package adapters provides repository implementations for the search feature.
package adapters

import (
	"context"
	"errors"

	"insight_backend/internal/feature/search/domain/entity"
	"insight_backend/internal/feature/search/usecase"

	"gorm.io/gorm"
)

// searchGorm is a GORM implementation of the SearchRepository interface.
type searchGorm struct {
	db *gorm.DB
}

// Compile-time check to ensure searchGorm implements SearchRepository.
var _ usecase.SearchRepository = (*searchGorm)(nil)

// NewSearchGorm creates a new instance of searchGorm.
func NewSearchGorm(db *gorm.DB) *searchGorm {
	return &searchGorm{db: db}
}

// Create persists a new ticker search to the database.
// The generated ID is written back to the entity.
func (r *searchGorm) Create(ctx context.Context, search *entity.TickerSearch) error {
	model, err := TickerSearchModelFromEntity(search)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	search.ID = model.ID
	search.CreatedAt = model.CreatedAt
	return nil
}

// FindRecentByUserID retrieves the most recent searches for a user, newest first.
func (r *searchGorm) FindRecentByUserID(ctx context.Context, userID uint, limit int) ([]*entity.TickerSearch, error) {
	var models []TickerSearchModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, err
	}

	searches := make([]*entity.TickerSearch, len(models))
	for i := range models {
		searches[i] = models[i].ToEntity()
	}
	return searches, nil
}

// FindByID retrieves a search by its ID, scoped to the owning user.
func (r *searchGorm) FindByID(ctx context.Context, id, userID uint) (*entity.TickerSearch, error) {
	var model TickerSearchModel
	if err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrSearchNotFound
		}
		return nil, err
	}
	return model.ToEntity(), nil
}
