package repositories

import (
	"context"

	. "roomlog/internal/models"

	"gorm.io/gorm"
)

type StoreRepository interface {
	List(ctx context.Context, tx *gorm.DB) ([]Store, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Store, error)
}

type storeRepository struct{}

func NewStoreRepository() StoreRepository {
	return &storeRepository{}
}

func (r *storeRepository) List(ctx context.Context, tx *gorm.DB) ([]Store, error) {
	return gorm.G[Store](tx).Order("name ASC").Find(ctx)
}

func (r *storeRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Store, error) {
	var store Store
	err := tx.WithContext(ctx).
		Preload("Themes", func(db *gorm.DB) *gorm.DB { return db.Order("themes.name ASC") }).
		First(&store, id).Error
	if err != nil {
		return nil, err
	}
	return &store, nil
}
