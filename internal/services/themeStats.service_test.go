package services

import (
	"context"
	"errors"
	"testing"

	"roomlog/internal/database"
	"roomlog/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockReviewAggregator struct {
	mock.Mock
}

func (m *MockReviewAggregator) AggregateByTheme(ctx context.Context, tx *gorm.DB) ([]models.ThemeStats, error) {
	args := m.Called(ctx, tx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ThemeStats), args.Error(1)
}

func (m *MockReviewAggregator) AggregateForTheme(ctx context.Context, tx *gorm.DB, themeID int) (models.ThemeStats, error) {
	args := m.Called(ctx, tx, themeID)
	return args.Get(0).(models.ThemeStats), args.Error(1)
}

func TestThemeStatsService_Get_WithoutCacheComputesLive(t *testing.T) {
	reviews := &MockReviewAggregator{}
	expected := models.ThemeStats{
		ThemeID:       3,
		ReviewCount:   2,
		AverageRating: decimal.RequireFromString("4.5"),
	}
	reviews.On("AggregateForTheme", mock.Anything, mock.Anything, 3).Return(expected, nil).Once()

	service := NewThemeStatsService(database.DB{}, reviews)

	stats, err := service.Get(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, expected, stats)
	reviews.AssertExpectations(t)
}

func TestThemeStatsService_Get_AggregateFailure(t *testing.T) {
	reviews := &MockReviewAggregator{}
	aggErr := errors.New("relation does not exist")
	reviews.On("AggregateForTheme", mock.Anything, mock.Anything, 3).Return(models.ThemeStats{}, aggErr).Once()

	service := NewThemeStatsService(database.DB{}, reviews)

	_, err := service.Get(context.Background(), 3)

	assert.ErrorIs(t, err, aggErr)
}

func TestThemeStatsService_Refresh_WithoutCache(t *testing.T) {
	reviews := &MockReviewAggregator{}
	reviews.On("AggregateByTheme", mock.Anything, mock.Anything).
		Return([]models.ThemeStats{{ThemeID: 1, ReviewCount: 1}}, nil).Once()

	service := NewThemeStatsService(database.DB{}, reviews)

	written, err := service.Refresh(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, written)
	reviews.AssertExpectations(t)
}

func TestThemeStatsService_Refresh_AggregateFailure(t *testing.T) {
	reviews := &MockReviewAggregator{}
	aggErr := errors.New("connection refused")
	reviews.On("AggregateByTheme", mock.Anything, mock.Anything).Return(nil, aggErr).Once()

	service := NewThemeStatsService(database.DB{}, reviews)

	_, err := service.Refresh(context.Background())

	assert.ErrorIs(t, err, aggErr)
}
