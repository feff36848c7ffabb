package repositories

import (
	"context"

	. "roomlog/internal/models"

	"gorm.io/gorm"
)

type ThemeRepository interface {
	List(ctx context.Context, tx *gorm.DB, storeID *int) ([]Theme, error)
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Theme, error)
}

type themeRepository struct{}

func NewThemeRepository() ThemeRepository {
	return &themeRepository{}
}

func (r *themeRepository) List(ctx context.Context, tx *gorm.DB, storeID *int) ([]Theme, error) {
	query := tx.WithContext(ctx).Preload("Store").Order("themes.name ASC")
	if storeID != nil {
		query = query.Where("themes.store_id = ?", *storeID)
	}

	var themes []Theme
	if err := query.Find(&themes).Error; err != nil {
		return nil, err
	}
	return themes, nil
}

func (r *themeRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Theme, error) {
	var theme Theme
	if err := tx.WithContext(ctx).Preload("Store").First(&theme, id).Error; err != nil {
		return nil, err
	}
	return &theme, nil
}
