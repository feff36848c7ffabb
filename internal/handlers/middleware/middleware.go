package middleware

import (
	"context"

	"roomlog/config"
	"roomlog/internal/models"
	"roomlog/internal/services"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

type TokenVerifier interface {
	VerifyToken(token string) (*services.TokenClaims, error)
}

type UserLoader interface {
	GetByID(ctx context.Context, tx *gorm.DB, id int) (*models.User, error)
}

type Middleware struct {
	db     *gorm.DB
	tokens TokenVerifier
	users  UserLoader
	Config config.Config
	log    logger.Logger
}

func New(
	db *gorm.DB,
	config config.Config,
	tokens TokenVerifier,
	users UserLoader,
) Middleware {
	return Middleware{
		db:     db,
		tokens: tokens,
		users:  users,
		Config: config,
		log:    logger.New("middleware"),
	}
}
