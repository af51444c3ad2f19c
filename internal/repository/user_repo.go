package repository

import (
	"gorm.io/gorm"

	"paylater/internal/models"
)

// UserRepository handles store customer records.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByAPIKey returns the user owning the given API key.
func (r *UserRepository) FindByAPIKey(apiKey string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("api_key = ?", apiKey).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
