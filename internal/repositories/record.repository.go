package repositories

import (
	"context"

	. "roomlog/internal/models"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RecordRepository interface {
	Create(ctx context.Context, tx *gorm.DB, record *Record) error
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*Record, error)
	GetForUpdate(ctx context.Context, tx *gorm.DB, id int) (*Record, error)
	Update(ctx context.Context, tx *gorm.DB, record *Record, updates map[string]any) error
	Delete(ctx context.Context, tx *gorm.DB, id int) error
	ListByTaggedUser(ctx context.Context, tx *gorm.DB, userID int, limit int) ([]Record, error)
}

// publicUserColumns limits preloaded users to what any viewer may see.
func publicUserColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "nickname", "profile_image")
}

type recordRepository struct {
	log logger.Logger
}

func NewRecordRepository() RecordRepository {
	return &recordRepository{log: logger.New("recordRepository")}
}

func (r *recordRepository) Create(ctx context.Context, tx *gorm.DB, record *Record) error {
	log := r.log.Function("Create")

	if err := gorm.G[Record](tx).Create(ctx, record); err != nil {
		return log.Err(
			"failed to create record",
			err,
			"writerID", record.WriterID,
			"themeID", record.ThemeID,
		)
	}

	return nil
}

// GetByID loads the record with its theme, store, writer and active party.
func (r *recordRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*Record, error) {
	var record Record
	err := tx.WithContext(ctx).
		Preload("Theme.Store").
		Preload("Writer", publicUserColumns).
		Preload("Tags", "removed_at IS NULL").
		Preload("Tags.User", publicUserColumns).
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// GetForUpdate row-locks the record for the rest of the transaction so that
// concurrent party reconciliations on the same record run one after another.
func (r *recordRepository) GetForUpdate(ctx context.Context, tx *gorm.DB, id int) (*Record, error) {
	var record Record
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&record, id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *recordRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	record *Record,
	updates map[string]any,
) error {
	log := r.log.Function("Update")

	if len(updates) == 0 {
		return nil
	}

	if err := tx.WithContext(ctx).Model(record).Updates(updates).Error; err != nil {
		return log.Err("failed to update record", err, "recordID", record.ID)
	}

	return nil
}

func (r *recordRepository) Delete(ctx context.Context, tx *gorm.DB, id int) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[Record](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete record", err, "recordID", id)
	}
	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ListByTaggedUser returns the records the user holds an active, visible tag on.
func (r *recordRepository) ListByTaggedUser(
	ctx context.Context,
	tx *gorm.DB,
	userID int,
	limit int,
) ([]Record, error) {
	var records []Record
	err := tx.WithContext(ctx).
		Select("records.*").
		Joins("JOIN tags ON tags.record_id = records.id AND tags.removed_at IS NULL").
		Where("tags.user_id = ? AND tags.visibility = ?", userID, true).
		Preload("Theme.Store").
		Preload("Writer", publicUserColumns).
		Order("records.play_date DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
