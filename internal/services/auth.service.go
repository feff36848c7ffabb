package services

import (
	"strconv"
	"strings"
	"time"

	"roomlog/config"
	domainerrors "roomlog/internal/errors"
	"roomlog/internal/models"
	"roomlog/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const passwordHashCost = bcrypt.DefaultCost

// TokenClaims is the payload of an access token.
type TokenClaims struct {
	UserID int `json:"uid"`
	jwt.RegisteredClaims
}

type AccessToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthService issues and verifies HS256 access tokens and hashes passwords.
type AuthService struct {
	secret []byte
	issuer string
	expiry time.Duration
	log    logger.Logger
}

func NewAuthService(config config.Config) (*AuthService, error) {
	log := logger.New("authService").Function("NewAuthService")

	secret := strings.TrimSpace(config.JWTSecret)
	if secret == "" {
		return nil, log.ErrMsg("jwt secret must not be empty")
	}

	issuer := config.JWTIssuer
	if issuer == "" {
		issuer = "roomlog"
	}

	expiry := time.Duration(config.JWTExpiryHours) * time.Hour
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	return &AuthService{
		secret: []byte(secret),
		issuer: issuer,
		expiry: expiry,
		log:    logger.New("authService"),
	}, nil
}

func (s *AuthService) IssueToken(user *models.User) (AccessToken, error) {
	log := s.log.Function("IssueToken")

	if user == nil || user.ID == 0 {
		return AccessToken{}, log.ErrMsg("invalid user for token generation")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.expiry)

	claims := TokenClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, log.Err("failed to sign token", err, "userID", user.ID)
	}

	return AccessToken{Token: signed, ExpiresAt: expiresAt}, nil
}

// VerifyToken returns the claims of a valid token. Every failure maps to
// ErrInvalidToken with the parse error as cause.
func (s *AuthService) VerifyToken(tokenString string) (*TokenClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)

	token, err := parser.ParseWithClaims(tokenString, &TokenClaims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		return nil, domainerrors.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, domainerrors.ErrInvalidToken
	}

	return claims, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", domainerrors.Validation(domainerrors.CodeInvalidRequest, "password must not be empty")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", s.log.Function("HashPassword").Err("failed to hash password", err)
	}

	return string(hashed), nil
}

func (s *AuthService) VerifyPassword(hash, candidate string) bool {
	if hash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}
