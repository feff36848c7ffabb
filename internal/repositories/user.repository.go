package repositories

import (
	"context"

	"roomlog/internal/constants"
	"roomlog/internal/database"
	. "roomlog/internal/models"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

type UserRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*User, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error)
	Create(ctx context.Context, tx *gorm.DB, user *User) error
	ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error)
	ExistsByNickname(ctx context.Context, tx *gorm.DB, nickname string) (bool, error)
	ClearUserCache(ctx context.Context, id int)
}

type userRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewUserRepository(cache database.CacheClient) UserRepository {
	return &userRepository{
		cache: cache,
		log:   logger.New("userRepository"),
	}
}

// GetByID reads through the user cache. A missing user returns gorm.ErrRecordNotFound.
func (r *userRepository) GetByID(ctx context.Context, tx *gorm.DB, id int) (*User, error) {
	log := r.log.Function("GetByID")

	if r.cache != nil {
		var cached User
		found, err := database.NewCacheBuilder(r.cache, id).
			WithContext(ctx).
			WithHash(constants.UserCachePrefix).
			Get(&cached)
		if err != nil {
			log.Warn("failed to get user from cache", "userID", id, "error", err)
		}
		if found {
			return &cached, nil
		}
	}

	user, err := gorm.G[User](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		err = database.NewCacheBuilder(r.cache, id).
			WithContext(ctx).
			WithHash(constants.UserCachePrefix).
			WithStruct(user).
			WithTTL(constants.UserCacheExpiry).
			Set()
		if err != nil {
			log.Warn("failed to add user to cache", "userID", id, "error", err)
		}
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*User, error) {
	user, err := gorm.G[User](tx).Where("email = ?", email).First(ctx)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Create(ctx context.Context, tx *gorm.DB, user *User) error {
	log := r.log.Function("Create")

	if err := gorm.G[User](tx).Create(ctx, user); err != nil {
		return log.Err("failed to create user", err, "email", user.Email)
	}

	return nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	count, err := gorm.G[User](tx).Where("email = ?", email).Count(ctx, "id")
	return count > 0, err
}

func (r *userRepository) ExistsByNickname(
	ctx context.Context,
	tx *gorm.DB,
	nickname string,
) (bool, error) {
	count, err := gorm.G[User](tx).Where("nickname = ?", nickname).Count(ctx, "id")
	return count > 0, err
}

func (r *userRepository) ClearUserCache(ctx context.Context, id int) {
	if r.cache == nil {
		return
	}

	err := database.NewCacheBuilder(r.cache, id).
		WithContext(ctx).
		WithHash(constants.UserCachePrefix).
		Delete()
	if err != nil {
		r.log.Warn("failed to clear user cache", "userID", id, "error", err)
	}
}
