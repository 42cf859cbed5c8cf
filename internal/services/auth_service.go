package services

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/questlog/questlog-api/internal/constants"
	"github.com/questlog/questlog-api/internal/models"
	"github.com/questlog/questlog-api/internal/repository"
	"github.com/questlog/questlog-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrPasswordRequired     = errors.New("password is required")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrEmailTaken           = errors.New("email already exists")
	ErrUserNotFound         = errors.New("user not found")
	ErrWrongPassword        = errors.New("incorrect password")
	ErrInvalidToken         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token expired")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles registration, credential verification and the
// access/refresh token lifecycle.
type AuthService struct {
	userRepo repository.UserRepository
	tokens   TokenConfig
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, tokens TokenConfig, logger *slog.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new user with a hashed password.
func (s *AuthService) Register(input RegisterInput) (*models.User, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, ErrNameRequired
	}
	if strings.TrimSpace(input.Email) == "" {
		return nil, ErrEmailRequired
	}
	if input.Password == "" {
		return nil, ErrPasswordRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hashedPassword),
		LastLogin:    time.Now(),
	}

	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
	Device   string
}

// LoginResult carries the issued credentials and the authenticated user.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

// Login verifies credentials, records the login and issues a fresh
// access/refresh token pair.
func (s *AuthService) Login(input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		s.logger.Warn("failed login attempt", "user_id", user.ID)
		return nil, ErrWrongPassword
	}

	user.LastLogin = time.Now()
	if err := s.userRepo.Save(user); err != nil {
		return nil, fmt.Errorf("failed to record login: %w", err)
	}

	accessToken, err := s.MintAccessToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refreshValue, err := utils.GenerateTokenValue(constants.RefreshTokenLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	device := input.Device
	if device == "" {
		device = constants.DefaultDevice
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().Add(s.tokens.RefreshTokenTTL),
		Device:    device,
	}
	if err := s.userRepo.AddRefreshToken(refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID, "device", device)
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		User:         user,
	}, nil
}

// Refresh exchanges a live refresh token for a new access token. Expired
// tokens are pruned on use; the refresh token value itself is not rotated.
func (s *AuthService) Refresh(refreshValue string) (string, *models.User, error) {
	user, err := s.userRepo.FindByRefreshToken(refreshValue)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	var matched *models.RefreshToken
	for i := range user.RefreshTokens {
		if user.RefreshTokens[i].Token == refreshValue {
			matched = &user.RefreshTokens[i]
			break
		}
	}
	if matched == nil {
		s.logger.Warn("refresh token not held by user", "user_id", user.ID)
		return "", nil, ErrInvalidToken
	}

	if matched.ExpiresAt.Before(time.Now()) {
		if err := s.userRepo.RemoveRefreshToken(user.ID, refreshValue); err != nil {
			return "", nil, fmt.Errorf("failed to prune expired refresh token: %w", err)
		}
		s.logger.Warn("expired refresh token pruned", "user_id", user.ID)
		return "", nil, ErrTokenExpired
	}

	accessToken, err := s.MintAccessToken(user.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	s.logger.Info("access token refreshed", "user_id", user.ID)
	return accessToken, user, nil
}

// MintAccessToken signs a short-lived access token carrying the user ID claim.
func (s *AuthService) MintAccessToken(userID uint64) (string, error) {
	return generateJWT(s.tokens, userID)
}

// Verify checks an access token and returns its claims. Expiry is
// distinguished from other failures so the caller can trigger a refresh.
func (s *AuthService) Verify(accessToken string) (*Claims, error) {
	return parseJWT(s.tokens, accessToken)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}
