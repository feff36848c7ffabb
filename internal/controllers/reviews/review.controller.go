package reviewController

import (
	"context"

	domainerrors "roomlog/internal/errors"
	. "roomlog/internal/models"
	"roomlog/internal/repositories"
	"roomlog/internal/services"
	"roomlog/internal/utils"
	"roomlog/internal/validation"
	"roomlog/pkg/logger"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	MaxContentLength = 2000
	DefaultListLimit = 20
	MaxListLimit     = 100
)

type StatsInvalidator interface {
	Invalidate(ctx context.Context, themeID int)
}

type ReviewController struct {
	reviewRepo  repositories.ReviewRepository
	recordRepo  repositories.RecordRepository
	tagRepo     repositories.TagRepository
	themeRepo   repositories.ThemeRepository
	themeStats  StatsInvalidator
	transaction services.Transactor
	validator   *validation.Validator
	db          *gorm.DB
}

type CreateReviewRequest struct {
	Rating  float64 `json:"rating"  form:"rating"  validate:"gte=0.5,lte=5,halfstep"`
	Content string  `json:"content" form:"content" validate:"max=2000"`
}

type ReviewControllerInterface interface {
	CreateReview(
		ctx context.Context,
		user *User,
		recordID int,
		request *CreateReviewRequest,
	) (*Review, error)
	ListThemeReviews(ctx context.Context, themeID int, limit int) ([]Review, error)
	DeleteReview(ctx context.Context, user *User, reviewID int) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db *gorm.DB,
) ReviewControllerInterface {
	return &ReviewController{
		reviewRepo:  repos.Review,
		recordRepo:  repos.Record,
		tagRepo:     repos.Tag,
		themeRepo:   repos.Theme,
		themeStats:  services.ThemeStats,
		transaction: services.Transaction,
		validator:   validation.New(),
		db:          db,
	}
}

// CreateReview lets a tagged member review a record once. The record row is locked
// so the review cannot race a party update removing the same member.
func (c *ReviewController) CreateReview(
	ctx context.Context,
	user *User,
	recordID int,
	request *CreateReviewRequest,
) (*Review, error) {
	log := logger.NewWithContext(ctx, "reviewController").Function("CreateReview")

	if err := c.validator.Validate(request); err != nil {
		return nil, err
	}

	content, cleaned := utils.CleanText(request.Content)
	if cleaned {
		log.Info("review content sanitized", "recordID", recordID)
	}

	review := &Review{
		WriterID: user.ID,
		RecordID: recordID,
		Rating:   decimal.NewFromFloat(request.Rating),
		Content:  content,
	}

	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		record, err := c.recordRepo.GetForUpdate(ctx, tx, recordID)
		if err != nil {
			if domainerrors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNonExistingRecord
			}
			return err
		}
		review.ThemeID = record.ThemeID

		if _, err := c.tagRepo.FindActive(ctx, tx, user.ID, recordID); err != nil {
			if domainerrors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNotTaggedMember
			}
			return err
		}

		reviewed, err := c.reviewRepo.HasReview(ctx, tx, user.ID, recordID)
		if err != nil {
			return err
		}
		if reviewed {
			return domainerrors.ErrDuplicateReview
		}

		return c.reviewRepo.Create(ctx, tx, review)
	})
	if err != nil {
		return nil, err
	}

	c.themeStats.Invalidate(ctx, review.ThemeID)
	log.Info("Review created", "reviewID", review.ID, "recordID", recordID, "writerID", user.ID)

	return review, nil
}

func (c *ReviewController) ListThemeReviews(ctx context.Context, themeID int, limit int) ([]Review, error) {
	if _, err := c.themeRepo.GetByID(ctx, c.db, themeID); err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNonExistingTheme
		}
		return nil, err
	}

	if limit <= 0 {
		limit = DefaultListLimit
	}

	return c.reviewRepo.ListByTheme(ctx, c.db, themeID, min(limit, MaxListLimit))
}

func (c *ReviewController) DeleteReview(ctx context.Context, user *User, reviewID int) error {
	log := logger.NewWithContext(ctx, "reviewController").Function("DeleteReview")

	review, err := c.reviewRepo.GetByID(ctx, c.db, reviewID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNonExistingReview
		}
		return log.Err("failed to load review", err, "reviewID", reviewID)
	}

	if review.WriterID != user.ID {
		return domainerrors.ErrNotReviewWriter
	}

	if err := c.reviewRepo.Delete(ctx, c.db, reviewID); err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNonExistingReview
		}
		return err
	}

	c.themeStats.Invalidate(ctx, review.ThemeID)
	log.Info("Review deleted", "reviewID", reviewID)

	return nil
}
