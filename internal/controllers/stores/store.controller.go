package storeController

import (
	"context"

	domainerrors "roomlog/internal/errors"
	. "roomlog/internal/models"
	"roomlog/internal/repositories"
	"roomlog/internal/services"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

type StatsReader interface {
	Get(ctx context.Context, themeID int) (ThemeStats, error)
}

type StoreController struct {
	storeRepo  repositories.StoreRepository
	themeRepo  repositories.ThemeRepository
	themeStats StatsReader
	db         *gorm.DB
}

type ThemeDetail struct {
	*Theme
	Stats ThemeStats `json:"stats"`
}

type StoreControllerInterface interface {
	ListStores(ctx context.Context) ([]Store, error)
	GetStore(ctx context.Context, storeID int) (*Store, error)
	ListThemes(ctx context.Context, storeID *int) ([]Theme, error)
	GetTheme(ctx context.Context, themeID int) (*ThemeDetail, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db *gorm.DB,
) StoreControllerInterface {
	return &StoreController{
		storeRepo:  repos.Store,
		themeRepo:  repos.Theme,
		themeStats: services.ThemeStats,
		db:         db,
	}
}

func (c *StoreController) ListStores(ctx context.Context) ([]Store, error) {
	return c.storeRepo.List(ctx, c.db)
}

func (c *StoreController) GetStore(ctx context.Context, storeID int) (*Store, error) {
	store, err := c.storeRepo.GetByID(ctx, c.db, storeID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNonExistingStore
		}
		return nil, err
	}
	return store, nil
}

// ListThemes lists every theme, or only the store's when storeID is set.
func (c *StoreController) ListThemes(ctx context.Context, storeID *int) ([]Theme, error) {
	if storeID != nil {
		if _, err := c.GetStore(ctx, *storeID); err != nil {
			return nil, err
		}
	}
	return c.themeRepo.List(ctx, c.db, storeID)
}

// GetTheme attaches review statistics; a stats failure is logged and leaves them zero.
func (c *StoreController) GetTheme(ctx context.Context, themeID int) (*ThemeDetail, error) {
	theme, err := c.themeRepo.GetByID(ctx, c.db, themeID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNonExistingTheme
		}
		return nil, err
	}

	stats, err := c.themeStats.Get(ctx, themeID)
	if err != nil {
		logger.NewWithContext(ctx, "storeController").
			Function("GetTheme").
			Warn("failed to load theme stats", "themeID", themeID, "error", err)
		stats = ThemeStats{ThemeID: themeID}
	}

	return &ThemeDetail{Theme: theme, Stats: stats}, nil
}
