package services

import (
	"context"
	"slices"

	domainerrors "roomlog/internal/errors"
	"roomlog/internal/models"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

// MemberResolver resolves a candidate co-player. A missing member is reported
// as gorm.ErrRecordNotFound.
type MemberResolver interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.User, error)
}

// ReviewChecker reports whether a member already reviewed a record.
type ReviewChecker interface {
	HasReview(ctx context.Context, tx *gorm.DB, writerID int, recordID int) (bool, error)
}

type TagStore interface {
	Create(ctx context.Context, tx *gorm.DB, tag *models.Tag) error
	SoftDelete(ctx context.Context, tx *gorm.DB, tagID int) error
	FindActive(ctx context.Context, tx *gorm.DB, userID int, recordID int) (*models.Tag, error)
	FindTaggedMemberIDs(ctx context.Context, tx *gorm.DB, writerID int, recordID int) ([]int, error)
}

// TagPartyService keeps the co-players tagged on a record in sync with the party
// submitted on record create and update. It issues its writes one by one and stops
// at the first failure; atomicity belongs to the caller's transaction.
type TagPartyService struct {
	members MemberResolver
	reviews ReviewChecker
	tags    TagStore
}

func NewTagPartyService(
	members MemberResolver,
	reviews ReviewChecker,
	tags TagStore,
) *TagPartyService {
	return &TagPartyService{
		members: members,
		reviews: reviews,
		tags:    tags,
	}
}

// partySet is a party with duplicates collapsed and the record writer removed.
type partySet map[int]struct{}

func newPartySet(party []int, writerID int) partySet {
	set := make(partySet, len(party))
	for _, id := range party {
		if id == writerID {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}

func (p partySet) contains(id int) bool {
	_, ok := p[id]
	return ok
}

// without returns the members of p missing from other, in ascending order.
func (p partySet) without(other partySet) []int {
	ids := make([]int, 0, len(p))
	for id := range p {
		if !other.contains(id) {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (p partySet) members() []int {
	return p.without(nil)
}

// validatePartySize requires a free head for the writer: the party must be
// strictly smaller than headCount.
func validatePartySize(party partySet, headCount int) error {
	if headCount <= len(party) {
		return domainerrors.ErrPartyLengthOverHeadCount.WithDetails(map[string]int{
			"headCount": headCount,
			"partySize": len(party),
		})
	}
	return nil
}

// CreateTags tags every requested member on a newly created record. A nil party
// means none was submitted.
func (s *TagPartyService) CreateTags(
	ctx context.Context,
	tx *gorm.DB,
	party []int,
	writerID int,
	headCount int,
	record *models.Record,
) error {
	log := logger.NewWithContext(ctx, "tagPartyService").Function("CreateTags")

	if party == nil {
		return nil
	}

	requested := newPartySet(party, writerID)
	if len(requested) == 0 {
		return nil
	}

	if err := validatePartySize(requested, headCount); err != nil {
		return log.Err("party exceeds head count", err,
			"recordID", record.ID,
			"headCount", headCount,
			"partySize", len(requested),
		)
	}

	for _, memberID := range requested.members() {
		if err := s.tagMember(ctx, tx, log, memberID, record); err != nil {
			return err
		}
	}

	log.Info("Party tagged", "recordID", record.ID, "members", len(requested))
	return nil
}

// UpdateTags reconciles the record's tagged members with the requested party.
// A nil party leaves the tags untouched; an empty one removes every member.
// headCount falls back to the record's stored value when nil.
func (s *TagPartyService) UpdateTags(
	ctx context.Context,
	tx *gorm.DB,
	party []int,
	writerID int,
	headCount *int,
	record *models.Record,
) error {
	log := logger.NewWithContext(ctx, "tagPartyService").Function("UpdateTags")

	if party == nil {
		return nil
	}

	finalHeadCount := record.HeadCount
	if headCount != nil {
		finalHeadCount = *headCount
	}

	requested := newPartySet(party, writerID)
	if err := validatePartySize(requested, finalHeadCount); err != nil {
		return log.Err("party exceeds head count", err,
			"recordID", record.ID,
			"headCount", finalHeadCount,
			"partySize", len(requested),
		)
	}

	originalIDs, err := s.tags.FindTaggedMemberIDs(ctx, tx, writerID, record.ID)
	if err != nil {
		return log.Err("failed to load tagged members", err, "recordID", record.ID)
	}
	original := newPartySet(originalIDs, writerID)

	added := requested.without(original)
	for _, memberID := range added {
		if err := s.tagMember(ctx, tx, log, memberID, record); err != nil {
			return err
		}
	}

	removed := original.without(requested)
	for _, memberID := range removed {
		if err := s.untagMember(ctx, tx, log, memberID, record); err != nil {
			return err
		}
	}

	log.Info("Party reconciled",
		"recordID", record.ID,
		"added", len(added),
		"removed", len(removed),
	)
	return nil
}

func (s *TagPartyService) tagMember(
	ctx context.Context,
	tx *gorm.DB,
	log logger.Logger,
	memberID int,
	record *models.Record,
) error {
	member, err := s.members.GetByID(ctx, tx, memberID)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("party member not found",
				domainerrors.ErrNonExistingParty.WithDetails(map[string]int{"userId": memberID}),
				"memberID", memberID,
			)
		}
		return log.Err("failed to resolve party member", err, "memberID", memberID)
	}

	if err := s.tags.Create(ctx, tx, models.NewMemberTag(member.ID, record.ID)); err != nil {
		return log.Err("failed to tag party member", err,
			"memberID", memberID,
			"recordID", record.ID,
		)
	}

	return nil
}

// untagMember refuses to drop a member who already reviewed the record.
func (s *TagPartyService) untagMember(
	ctx context.Context,
	tx *gorm.DB,
	log logger.Logger,
	memberID int,
	record *models.Record,
) error {
	reviewed, err := s.reviews.HasReview(ctx, tx, memberID, record.ID)
	if err != nil {
		return log.Err("failed to check member review", err, "memberID", memberID)
	}
	if reviewed {
		return log.Err("party member already reviewed record",
			domainerrors.ErrExistingReview.WithDetails(map[string]int{"userId": memberID}),
			"memberID", memberID,
			"recordID", record.ID,
		)
	}

	tag, err := s.tags.FindActive(ctx, tx, memberID, record.ID)
	if err == nil {
		err = s.tags.SoftDelete(ctx, tx, tag.ID)
	}
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return log.Err("party member tag not found",
				domainerrors.ErrNonExistingUser.WithDetails(map[string]int{"userId": memberID}),
				"memberID", memberID,
				"recordID", record.ID,
			)
		}
		return log.Err("failed to remove party member tag", err, "memberID", memberID)
	}

	return nil
}
