package repositories

import (
	"context"
	"time"

	. "roomlog/internal/models"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

const activeTag = "removed_at IS NULL"

type TagRepository interface {
	Create(ctx context.Context, tx *gorm.DB, tag *Tag) error
	SoftDelete(ctx context.Context, tx *gorm.DB, tagID int) error
	FindActive(ctx context.Context, tx *gorm.DB, userID int, recordID int) (*Tag, error)
	FindTaggedMemberIDs(ctx context.Context, tx *gorm.DB, writerID int, recordID int) ([]int, error)
	ListActiveByRecord(ctx context.Context, tx *gorm.DB, recordID int) ([]Tag, error)
	RemoveAllByRecord(ctx context.Context, tx *gorm.DB, recordID int) (int64, error)
	SetVisibility(ctx context.Context, tx *gorm.DB, tagID int, visible bool) error
}

type tagRepository struct {
	log logger.Logger
}

func NewTagRepository() TagRepository {
	return &tagRepository{log: logger.New("tagRepository")}
}

func (r *tagRepository) Create(ctx context.Context, tx *gorm.DB, tag *Tag) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(tag).Error; err != nil {
		return log.Err(
			"failed to create tag",
			err,
			"userID", tag.UserID,
			"recordID", tag.RecordID,
			"isWriter", tag.IsWriter,
		)
	}

	return nil
}

// SoftDelete stamps removed_at on an active tag. An unknown or already removed
// tag reports gorm.ErrRecordNotFound.
func (r *tagRepository) SoftDelete(ctx context.Context, tx *gorm.DB, tagID int) error {
	log := r.log.Function("SoftDelete")

	result := tx.WithContext(ctx).
		Model(&Tag{}).
		Where("id = ? AND "+activeTag, tagID).
		Update("removed_at", time.Now().UTC())
	if result.Error != nil {
		return log.Err("failed to remove tag", result.Error, "tagID", tagID)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *tagRepository) FindActive(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	recordID int,
) (*Tag, error) {
	var tag Tag
	err := tx.WithContext(ctx).
		Where("user_id = ? AND record_id = ? AND "+activeTag, userID, recordID).
		Order("id DESC").
		First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// FindTaggedMemberIDs returns the user ids actively tagged on the record, writer excluded.
func (r *tagRepository) FindTaggedMemberIDs(
	ctx context.Context,
	tx *gorm.DB,
	writerID int,
	recordID int,
) ([]int, error) {
	ids := []int{}
	err := tx.WithContext(ctx).
		Model(&Tag{}).
		Where("record_id = ? AND user_id <> ? AND "+activeTag, recordID, writerID).
		Order("id ASC").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *tagRepository) ListActiveByRecord(
	ctx context.Context,
	tx *gorm.DB,
	recordID int,
) ([]Tag, error) {
	var tags []Tag
	err := tx.WithContext(ctx).
		Preload("User", publicUserColumns).
		Where("record_id = ? AND "+activeTag, recordID).
		Order("is_writer DESC, id ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) RemoveAllByRecord(
	ctx context.Context,
	tx *gorm.DB,
	recordID int,
) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&Tag{}).
		Where("record_id = ? AND "+activeTag, recordID).
		Update("removed_at", time.Now().UTC())
	return result.RowsAffected, result.Error
}

func (r *tagRepository) SetVisibility(
	ctx context.Context,
	tx *gorm.DB,
	tagID int,
	visible bool,
) error {
	result := tx.WithContext(ctx).
		Model(&Tag{}).
		Where("id = ? AND "+activeTag, tagID).
		Update("visibility", visible)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
