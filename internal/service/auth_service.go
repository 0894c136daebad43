package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"reviewhub/internal/apperr"
	"reviewhub/internal/config"
	"reviewhub/internal/confirm"
	"reviewhub/internal/dto"
	"reviewhub/internal/mailer"
	"reviewhub/internal/models"
	"reviewhub/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// The reserved literal clashes with the /users/me route.
const reservedUsername = "me"

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

type AuthService interface {
	// Signup gets-or-creates the user and mails a single-use confirmation
	// code. Re-submitting an identical username+email pair re-issues the code.
	Signup(ctx context.Context, username, email string) (*dto.SignupResponse, error)
	// ExchangeToken turns a valid confirmation code into an access/refresh
	// pair. The code is consumed atomically and dies with any user-state
	// change since issuance.
	ExchangeToken(ctx context.Context, username, code string) (*dto.TokenResponse, error)
	RefreshAccessToken(ctx context.Context, refreshToken string) (*dto.RefreshResponse, error)
	// ValidateAccessToken returns the user id carried by the token. Role is
	// deliberately absent from claims; callers re-read the user row.
	ValidateAccessToken(tokenString string) (string, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	codes            confirm.Store
	mail             mailer.Mailer
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
	confirmationTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	codes confirm.Store,
	mail mailer.Mailer,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		codes:            codes,
		mail:             mail,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
		confirmationTTL:  cfg.ConfirmationTTL,
	}
}

func (s *authService) Signup(ctx context.Context, username, email string) (*dto.SignupResponse, error) {
	if username == reservedUsername {
		return nil, apperr.Validation("username", "this username is reserved")
	}
	if !usernamePattern.MatchString(username) {
		return nil, apperr.Validation("username", "may contain only letters, digits and @/./+/-/_")
	}
	email = strings.ToLower(email)

	user, err := s.resolveSignupUser(ctx, username, email)
	if err != nil {
		return nil, err
	}

	code := uuid.New().String()
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	rec := confirm.Record{CodeHash: string(hash), StateVersion: user.StateVersion}
	if err := s.codes.Put(ctx, user.ID, rec, s.confirmationTTL); err != nil {
		return nil, err
	}

	// The user row persists even when dispatch fails; re-signup with the
	// same pair issues a fresh code.
	if err := s.mail.SendConfirmationCode(ctx, mailer.ConfirmationData{
		Email:    user.Email,
		Username: user.Username,
		Code:     code,
	}); err != nil {
		return nil, err
	}

	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// resolveSignupUser implements the get-or-create rule: the identical
// (username, email) pair is idempotent, any partial collision is rejected.
func (s *authService) resolveSignupUser(ctx context.Context, username, email string) (*models.User, error) {
	byUsername, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if byUsername != nil {
		if strings.EqualFold(byUsername.Email, email) {
			return byUsername, nil
		}
		return nil, apperr.Validation("username", "username already in use")
	}

	byEmail, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if byEmail != nil {
		return nil, apperr.Validation("email", "email already registered")
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// lost a concurrent signup race for the same username or email
			return nil, apperr.Validation("username", "username or email already in use")
		}
		return nil, err
	}
	return user, nil
}

func (s *authService) ExchangeToken(ctx context.Context, username, code string) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("user")
		}
		return nil, err
	}

	rec, ok, err := s.codes.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperr.Validation("confirmation_code", "invalid or expired confirmation code")
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.CodeHash), []byte(code)) != nil {
		return nil, apperr.Validation("confirmation_code", "invalid or expired confirmation code")
	}
	// Codes are bound to the user state current at issue time; any later
	// field change or prior exchange bumped the version and kills this one.
	if rec.StateVersion != user.StateVersion {
		return nil, apperr.Validation("confirmation_code", "confirmation code is no longer valid")
	}

	// Atomic consume closes the double-exchange race: only one concurrent
	// caller gets the record back.
	consumed, ok, err := s.codes.Consume(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if !ok || consumed.CodeHash != rec.CodeHash {
		return nil, apperr.Validation("confirmation_code", "invalid or expired confirmation code")
	}

	user.Confirmed = true
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.generateRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	// identity only; role is re-read from the database per request
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(s.accessTokenTTL).Unix(),
		"iat":      time.Now().Unix(),
		"type":     "access",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(ctx context.Context, user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(ctx, refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(ctx context.Context, refreshTokenString string) (*dto.RefreshResponse, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(ctx, refreshTokenString)
	if err != nil {
		return nil, apperr.Validation("refresh_token", "invalid refresh token")
	}
	if refreshToken.Revoked {
		return nil, apperr.Validation("refresh_token", "refresh token revoked")
	}
	if time.Now().After(refreshToken.ExpiresAt) {
		s.refreshTokenRepo.Delete(ctx, refreshToken.ID)
		return nil, apperr.Validation("refresh_token", "refresh token expired")
	}

	user, err := s.userRepo.FindByID(ctx, refreshToken.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.RefreshResponse{
		Token:     accessToken,
		ExpiresIn: int64(s.accessTokenTTL.Seconds()),
	}, nil
}

func (s *authService) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		return "", ErrInvalidToken
	}
	if !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
