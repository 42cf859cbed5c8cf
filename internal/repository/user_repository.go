package repository

import (
	"errors"
	"fmt"

	"github.com/questlog/questlog-api/internal/models"
	"gorm.io/gorm"
)

// ErrDuplicateEmail is returned when an insert collides with the unique
// email index.
var ErrDuplicateEmail = errors.New("user repository: email already exists")

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	if err := r.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateEmail
		}
		return err
	}
	return nil
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByRefreshToken finds the user owning the given refresh token value
func (r *GormUserRepository) FindByRefreshToken(token string) (*models.User, error) {
	var record models.RefreshToken
	if err := r.db.Where("token = ?", token).First(&record).Error; err != nil {
		return nil, err
	}

	var user models.User
	if err := r.db.Preload("RefreshTokens").First(&user, record.UserID).Error; err != nil {
		return nil, fmt.Errorf("failed to load refresh token owner: %w", err)
	}
	return &user, nil
}

// Save persists changes to an existing user
func (r *GormUserRepository) Save(user *models.User) error {
	return r.db.Omit("RefreshTokens").Save(user).Error
}

// AddRefreshToken appends a refresh token record to a user
func (r *GormUserRepository) AddRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

// RemoveRefreshToken removes a refresh token record by its value
func (r *GormUserRepository) RemoveRefreshToken(userID uint64, token string) error {
	return r.db.Where("user_id = ? AND token = ?", userID, token).
		Delete(&models.RefreshToken{}).Error
}
