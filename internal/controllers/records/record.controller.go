package recordController

import (
	"context"
	"time"

	domainerrors "roomlog/internal/errors"
	. "roomlog/internal/models"
	"roomlog/internal/repositories"
	"roomlog/internal/services"
	"roomlog/internal/utils"
	"roomlog/internal/validation"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

const (
	MaxNoteLength    = 1000
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// PartyTagger reconciles the co-players tagged on a record.
type PartyTagger interface {
	CreateTags(
		ctx context.Context,
		tx *gorm.DB,
		party []int,
		writerID int,
		headCount int,
		record *Record,
	) error
	UpdateTags(
		ctx context.Context,
		tx *gorm.DB,
		party []int,
		writerID int,
		headCount *int,
		record *Record,
	) error
}

// RecordReviews keeps a record's reviews in step with the record itself.
type RecordReviews interface {
	ReassignTheme(ctx context.Context, tx *gorm.DB, recordID int, themeID int) (int64, error)
	DeleteByRecord(ctx context.Context, tx *gorm.DB, recordID int) (int64, error)
}

type StatsInvalidator interface {
	Invalidate(ctx context.Context, themeID int)
}

type RecordController struct {
	recordRepo  repositories.RecordRepository
	tagRepo     repositories.TagRepository
	themeRepo   repositories.ThemeRepository
	reviews     RecordReviews
	themeStats  StatsInvalidator
	party       PartyTagger
	transaction services.Transactor
	validator   *validation.Validator
	db          *gorm.DB
}

type CreateRecordRequest struct {
	ThemeID   int        `json:"themeId"             form:"themeId"   validate:"required,gt=0"`
	PlayDate  string     `json:"playDate"            form:"playDate"  validate:"required"`
	IsSuccess bool       `json:"isSuccess"           form:"isSuccess"`
	HeadCount int        `json:"headCount"           form:"headCount" validate:"required,gte=1"`
	HintCount *int       `json:"hintCount,omitempty" form:"hintCount" validate:"omitempty,gte=0"`
	PlayTime  *int       `json:"playTime,omitempty"  form:"playTime"  validate:"omitempty,gte=0"`
	Image     *string    `json:"image,omitempty"     form:"image"     validate:"omitempty,url"`
	Note      *string    `json:"note,omitempty"      form:"note"      validate:"omitempty,max=1000"`
	Party     PartyInput `json:"party,omitempty"     form:"party"`
}

// UpdateRecordRequest only touches the fields that are present.
type UpdateRecordRequest struct {
	ThemeID   *int       `json:"themeId,omitempty"   form:"themeId"   validate:"omitempty,gt=0"`
	PlayDate  *string    `json:"playDate,omitempty"  form:"playDate"`
	IsSuccess *bool      `json:"isSuccess,omitempty" form:"isSuccess"`
	HeadCount *int       `json:"headCount,omitempty" form:"headCount" validate:"omitempty,gte=1"`
	HintCount *int       `json:"hintCount,omitempty" form:"hintCount" validate:"omitempty,gte=0"`
	PlayTime  *int       `json:"playTime,omitempty"  form:"playTime"  validate:"omitempty,gte=0"`
	Image     *string    `json:"image,omitempty"     form:"image"     validate:"omitempty,url"`
	Note      *string    `json:"note,omitempty"      form:"note"      validate:"omitempty,max=1000"`
	Party     PartyInput `json:"party,omitempty"     form:"party"`
}

type RecordControllerInterface interface {
	CreateRecord(ctx context.Context, user *User, request *CreateRecordRequest) (*Record, error)
	UpdateRecord(
		ctx context.Context,
		user *User,
		recordID int,
		request *UpdateRecordRequest,
	) (*Record, error)
	DeleteRecord(ctx context.Context, user *User, recordID int) error
	GetRecord(ctx context.Context, recordID int) (*Record, error)
	ListMyRecords(ctx context.Context, user *User, limit int) ([]Record, error)
	SetVisibility(ctx context.Context, user *User, recordID int, visible bool) error
}

func New(
	repos repositories.Repository,
	services services.Service,
	db *gorm.DB,
) RecordControllerInterface {
	return &RecordController{
		recordRepo:  repos.Record,
		tagRepo:     repos.Tag,
		themeRepo:   repos.Theme,
		reviews:     repos.Review,
		themeStats:  services.ThemeStats,
		party:       services.TagParty,
		transaction: services.Transaction,
		validator:   validation.New(),
		db:          db,
	}
}

// parsePlayDate accepts a calendar date or an RFC3339 timestamp. Plays cannot be
// logged ahead of time.
func parsePlayDate(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, domainerrors.Validation(domainerrors.CodeInvalidRequest, "playDate is required")
	}

	playDate, err := time.Parse(time.RFC3339, value)
	if err != nil {
		playDate, err = time.Parse(time.DateOnly, value)
	}
	if err != nil {
		return time.Time{}, domainerrors.Validation(
			domainerrors.CodeInvalidRequest,
			"invalid playDate format, expected YYYY-MM-DD or RFC3339",
		)
	}

	if playDate.After(now) {
		return time.Time{}, domainerrors.Validation(
			domainerrors.CodeInvalidRequest,
			"playDate cannot be in the future",
		)
	}

	return playDate, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}

func (c *RecordController) CreateRecord(
	ctx context.Context,
	user *User,
	request *CreateRecordRequest,
) (*Record, error) {
	log := logger.NewWithContext(ctx, "recordController").Function("CreateRecord")

	if err := c.validator.Validate(request); err != nil {
		return nil, err
	}

	playDate, err := parsePlayDate(request.PlayDate, time.Now())
	if err != nil {
		return nil, err
	}

	party, err := ParsePartyIDs(request.Party)
	if err != nil {
		return nil, err
	}

	record := &Record{
		WriterID:  user.ID,
		ThemeID:   request.ThemeID,
		PlayDate:  playDate,
		IsSuccess: request.IsSuccess,
		HeadCount: request.HeadCount,
		HintCount: request.HintCount,
		PlayTime:  request.PlayTime,
		Image:     request.Image,
		Note:      cleanNote(request.Note),
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		if err := c.ensureTheme(ctx, tx, request.ThemeID); err != nil {
			return err
		}

		if err := c.recordRepo.Create(ctx, tx, record); err != nil {
			return err
		}

		if err := c.tagRepo.Create(ctx, tx, NewWriterTag(user.ID, record.ID)); err != nil {
			return err
		}

		return c.party.CreateTags(ctx, tx, party, user.ID, record.HeadCount, record)
	})
	if err != nil {
		return nil, err
	}

	log.Info("Record created", "recordID", record.ID, "writerID", user.ID, "party", len(party))

	return c.GetRecord(ctx, record.ID)
}

func (c *RecordController) UpdateRecord(
	ctx context.Context,
	user *User,
	recordID int,
	request *UpdateRecordRequest,
) (*Record, error) {
	log := logger.NewWithContext(ctx, "recordController").Function("UpdateRecord")

	if err := c.validator.Validate(request); err != nil {
		return nil, err
	}

	party, err := ParsePartyIDs(request.Party)
	if err != nil {
		return nil, err
	}

	updates, err := buildRecordUpdates(request, time.Now())
	if err != nil {
		return nil, err
	}

	var previousThemeID, movedReviews int
	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		record, err := c.lockOwnedRecord(ctx, tx, user, recordID)
		if err != nil {
			return err
		}
		previousThemeID = record.ThemeID

		if request.ThemeID != nil && *request.ThemeID != record.ThemeID {
			if err := c.ensureTheme(ctx, tx, *request.ThemeID); err != nil {
				return err
			}

			moved, err := c.reviews.ReassignTheme(ctx, tx, record.ID, *request.ThemeID)
			if err != nil {
				return err
			}
			movedReviews = int(moved)
		}

		if party == nil && request.HeadCount != nil {
			if err := c.ensurePartyFits(ctx, tx, record, *request.HeadCount); err != nil {
				return err
			}
		}

		if err := c.recordRepo.Update(ctx, tx, record, updates); err != nil {
			return err
		}

		return c.party.UpdateTags(ctx, tx, party, record.WriterID, request.HeadCount, record)
	})
	if err != nil {
		return nil, err
	}

	if movedReviews > 0 {
		c.themeStats.Invalidate(ctx, previousThemeID)
		c.themeStats.Invalidate(ctx, *request.ThemeID)
	}

	log.Info("Record updated",
		"recordID", recordID,
		"fields", len(updates),
		"partySubmitted", party != nil,
		"movedReviews", movedReviews,
	)

	return c.GetRecord(ctx, recordID)
}

func buildRecordUpdates(request *UpdateRecordRequest, now time.Time) (map[string]any, error) {
	updates := make(map[string]any)

	if request.ThemeID != nil {
		updates["theme_id"] = *request.ThemeID
	}
	if request.PlayDate != nil {
		playDate, err := parsePlayDate(*request.PlayDate, now)
		if err != nil {
			return nil, err
		}
		updates["play_date"] = playDate
	}
	if request.IsSuccess != nil {
		updates["is_success"] = *request.IsSuccess
	}
	if request.HeadCount != nil {
		updates["head_count"] = *request.HeadCount
	}
	if request.HintCount != nil {
		updates["hint_count"] = *request.HintCount
	}
	if request.PlayTime != nil {
		updates["play_time"] = *request.PlayTime
	}
	if request.Image != nil {
		updates["image"] = *request.Image
	}
	if request.Note != nil {
		updates["note"] = *cleanNote(request.Note)
	}

	return updates, nil
}

func (c *RecordController) DeleteRecord(ctx context.Context, user *User, recordID int) error {
	log := logger.NewWithContext(ctx, "recordController").Function("DeleteRecord")

	var removed, removedReviews int64
	var themeID int
	err := c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		record, err := c.lockOwnedRecord(ctx, tx, user, recordID)
		if err != nil {
			return err
		}
		themeID = record.ThemeID

		removed, err = c.tagRepo.RemoveAllByRecord(ctx, tx, record.ID)
		if err != nil {
			return log.Err("failed to remove record tags", err, "recordID", record.ID)
		}

		removedReviews, err = c.reviews.DeleteByRecord(ctx, tx, record.ID)
		if err != nil {
			return err
		}

		if err := c.recordRepo.Delete(ctx, tx, record.ID); err != nil {
			if domainerrors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrNonExistingRecord
			}
			return err
		}

		return nil
	})
	if err != nil {
		return err
	}

	if removedReviews > 0 {
		c.themeStats.Invalidate(ctx, themeID)
	}

	log.Info("Record deleted", "recordID", recordID, "tagsRemoved", removed, "reviewsRemoved", removedReviews)
	return nil
}

func (c *RecordController) GetRecord(ctx context.Context, recordID int) (*Record, error) {
	record, err := c.recordRepo.GetByID(ctx, c.db, recordID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNonExistingRecord
		}
		return nil, logger.NewWithContext(ctx, "recordController").
			Function("GetRecord").
			Err("failed to load record", err, "recordID", recordID)
	}
	return record, nil
}

func (c *RecordController) ListMyRecords(ctx context.Context, user *User, limit int) ([]Record, error) {
	records, err := c.recordRepo.ListByTaggedUser(ctx, c.db, user.ID, normalizeLimit(limit))
	if err != nil {
		return nil, logger.NewWithContext(ctx, "recordController").
			Function("ListMyRecords").
			Err("failed to list records", err, "userID", user.ID)
	}
	return records, nil
}

// SetVisibility hides or shows a record in the caller's own list. Only the caller's
// tag changes; other members keep their setting.
func (c *RecordController) SetVisibility(
	ctx context.Context,
	user *User,
	recordID int,
	visible bool,
) error {
	log := logger.NewWithContext(ctx, "recordController").Function("SetVisibility")

	tag, err := c.tagRepo.FindActive(ctx, c.db, user.ID, recordID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNonExistingUser
		}
		return log.Err("failed to find tag", err, "userID", user.ID, "recordID", recordID)
	}

	if err := c.tagRepo.SetVisibility(ctx, c.db, tag.ID, visible); err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNonExistingUser
		}
		return log.Err("failed to set visibility", err, "tagID", tag.ID)
	}

	return nil
}

func (c *RecordController) ensureTheme(ctx context.Context, tx *gorm.DB, themeID int) error {
	if _, err := c.themeRepo.GetByID(ctx, tx, themeID); err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrNonExistingTheme.WithDetails(map[string]int{"themeId": themeID})
		}
		return err
	}
	return nil
}

// lockOwnedRecord row-locks the record for the transaction and checks the caller wrote it.
func (c *RecordController) lockOwnedRecord(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	recordID int,
) (*Record, error) {
	record, err := c.recordRepo.GetForUpdate(ctx, tx, recordID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrNonExistingRecord
		}
		return nil, err
	}

	if record.WriterID != user.ID {
		return nil, domainerrors.ErrNotRecordWriter
	}

	return record, nil
}

// ensurePartyFits rejects a head count change that would leave no room for the
// members already tagged.
func (c *RecordController) ensurePartyFits(
	ctx context.Context,
	tx *gorm.DB,
	record *Record,
	headCount int,
) error {
	members, err := c.tagRepo.FindTaggedMemberIDs(ctx, tx, record.WriterID, record.ID)
	if err != nil {
		return err
	}

	if headCount <= len(members) {
		return domainerrors.ErrPartyLengthOverHeadCount.WithDetails(map[string]int{
			"headCount": headCount,
			"partySize": len(members),
		})
	}

	return nil
}

func cleanNote(note *string) *string {
	if note == nil {
		return nil
	}
	cleaned, _ := utils.CleanText(*note)
	return &cleaned
}
