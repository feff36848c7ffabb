package repositories

import (
	"context"

	. "roomlog/internal/models"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(ctx context.Context, tx *gorm.DB, review *Review) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Review, error)
	HasReview(ctx context.Context, tx *gorm.DB, writerID int, recordID int) (bool, error)
	ListByTheme(ctx context.Context, tx *gorm.DB, themeID int, limit int) ([]Review, error)
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	ReassignTheme(ctx context.Context, tx *gorm.DB, recordID int, themeID int) (int64, error)
	DeleteByRecord(ctx context.Context, tx *gorm.DB, recordID int) (int64, error)
	AggregateByTheme(ctx context.Context, tx *gorm.DB) ([]ThemeStats, error)
	AggregateForTheme(ctx context.Context, tx *gorm.DB, themeID int) (ThemeStats, error)
}

const reviewStatsColumns = "theme_id, COUNT(*) AS review_count, COALESCE(AVG(rating), 0) AS average_rating"

type reviewRepository struct {
	log logger.Logger
}

func NewReviewRepository() ReviewRepository {
	return &reviewRepository{log: logger.New("reviewRepository")}
}

func (r *reviewRepository) Create(ctx context.Context, tx *gorm.DB, review *Review) error {
	log := r.log.Function("Create")

	if err := gorm.G[Review](tx).Create(ctx, review); err != nil {
		return log.Err(
			"failed to create review",
			err,
			"writerID", review.WriterID,
			"recordID", review.RecordID,
		)
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Review, error) {
	review, err := gorm.G[Review](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// HasReview reports whether the user has an active review on the record.
func (r *reviewRepository) HasReview(
	ctx context.Context,
	tx *gorm.DB,
	writerID int,
	recordID int,
) (bool, error) {
	count, err := gorm.G[Review](tx).
		Where("writer_id = ? AND record_id = ?", writerID, recordID).
		Count(ctx, "id")
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *reviewRepository) ListByTheme(
	ctx context.Context,
	tx *gorm.DB,
	themeID int,
	limit int,
) ([]Review, error) {
	var reviews []Review
	err := tx.WithContext(ctx).
		Preload("Writer", publicUserColumns).
		Where("theme_id = ?", themeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&reviews).Error
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[Review](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete review", err, "reviewID", id)
	}
	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ReassignTheme follows a record moved to another theme. Reviews copy the theme id
// for listing and stats, so they move with it.
func (r *reviewRepository) ReassignTheme(
	ctx context.Context,
	tx *gorm.DB,
	recordID int,
	themeID int,
) (int64, error) {
	moved, err := gorm.G[Review](tx).
		Where("record_id = ?", recordID).
		Update(ctx, "theme_id", themeID)
	if err != nil {
		return 0, r.log.Function("ReassignTheme").
			Err("failed to reassign reviews", err, "recordID", recordID, "themeID", themeID)
	}
	return int64(moved), nil
}

func (r *reviewRepository) DeleteByRecord(ctx context.Context, tx *gorm.DB, recordID int) (int64, error) {
	removed, err := gorm.G[Review](tx).Where("record_id = ?", recordID).Delete(ctx)
	if err != nil {
		return 0, r.log.Function("DeleteByRecord").
			Err("failed to delete record reviews", err, "recordID", recordID)
	}
	return int64(removed), nil
}

func (r *reviewRepository) AggregateByTheme(ctx context.Context, tx *gorm.DB) ([]ThemeStats, error) {
	var stats []ThemeStats
	err := tx.WithContext(ctx).
		Model(&Review{}).
		Select(reviewStatsColumns).
		Group("theme_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// AggregateForTheme returns zero counts for a theme without reviews.
func (r *reviewRepository) AggregateForTheme(
	ctx context.Context,
	tx *gorm.DB,
	themeID int,
) (ThemeStats, error) {
	var stats []ThemeStats
	err := tx.WithContext(ctx).
		Model(&Review{}).
		Select(reviewStatsColumns).
		Where("theme_id = ?", themeID).
		Group("theme_id").
		Scan(&stats).Error
	if err != nil {
		return ThemeStats{}, err
	}
	if len(stats) == 0 {
		return ThemeStats{ThemeID: themeID}, nil
	}
	return stats[0], nil
}
