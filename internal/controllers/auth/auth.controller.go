package authController

import (
	"context"
	"strings"

	domainerrors "roomlog/internal/errors"
	. "roomlog/internal/models"
	"roomlog/internal/repositories"
	"roomlog/internal/services"
	"roomlog/internal/validation"
	"roomlog/pkg/logger"

	"gorm.io/gorm"
)

type TokenIssuer interface {
	IssueToken(user *User) (services.AccessToken, error)
	HashPassword(password string) (string, error)
	VerifyPassword(hash, candidate string) bool
}

type AuthController struct {
	userRepo    repositories.UserRepository
	auth        TokenIssuer
	transaction services.Transactor
	validator   *validation.Validator
	db          *gorm.DB
}

type SignupRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email,max=254"`
	Nickname string `json:"nickname" form:"nickname" validate:"required,min=2,max=20"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email"    form:"email"    validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type AuthResponse struct {
	User        UserProfile          `json:"user"`
	AccessToken services.AccessToken `json:"accessToken"`
}

type AuthControllerInterface interface {
	Signup(ctx context.Context, request *SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error)
}

func New(
	repos repositories.Repository,
	services services.Service,
	db *gorm.DB,
) AuthControllerInterface {
	return &AuthController{
		userRepo:    repos.User,
		auth:        services.Auth,
		transaction: services.Transaction,
		validator:   validation.New(),
		db:          db,
	}
}

func (c *AuthController) Signup(ctx context.Context, request *SignupRequest) (*AuthResponse, error) {
	log := logger.NewWithContext(ctx, "authController").Function("Signup")

	request.Email = strings.ToLower(strings.TrimSpace(request.Email))
	request.Nickname = strings.TrimSpace(request.Nickname)

	if err := c.validator.Validate(request); err != nil {
		return nil, err
	}

	hash, err := c.auth.HashPassword(request.Password)
	if err != nil {
		return nil, err
	}

	user := &User{
		Email:        request.Email,
		Nickname:     request.Nickname,
		PasswordHash: hash,
	}

	err = c.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		exists, err := c.userRepo.ExistsByEmail(ctx, tx, user.Email)
		if err != nil {
			return err
		}
		if exists {
			return domainerrors.ErrExistingEmail
		}

		exists, err = c.userRepo.ExistsByNickname(ctx, tx, user.Nickname)
		if err != nil {
			return err
		}
		if exists {
			return domainerrors.ErrExistingNickname
		}

		return c.userRepo.Create(ctx, tx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("User signed up", "userID", user.ID)
	return c.respond(user)
}

// Login reports the same error for an unknown email and a wrong password.
func (c *AuthController) Login(ctx context.Context, request *LoginRequest) (*AuthResponse, error) {
	log := logger.NewWithContext(ctx, "authController").Function("Login")

	request.Email = strings.ToLower(strings.TrimSpace(request.Email))

	if err := c.validator.Validate(request); err != nil {
		return nil, err
	}

	user, err := c.userRepo.GetByEmail(ctx, c.db, request.Email)
	if err != nil {
		if domainerrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, log.Err("failed to load user", err)
	}

	if !c.auth.VerifyPassword(user.PasswordHash, request.Password) {
		log.Warn("Password mismatch", "userID", user.ID)
		return nil, domainerrors.ErrInvalidCredentials
	}

	return c.respond(user)
}

func (c *AuthController) respond(user *User) (*AuthResponse, error) {
	token, err := c.auth.IssueToken(user)
	if err != nil {
		return nil, err
	}

	return &AuthResponse{User: user.ToProfile(), AccessToken: token}, nil
}
