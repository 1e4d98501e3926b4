package services

import (
	"errors"

	"taskpilot/backend/internal/models"

	"gorm.io/gorm"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password so
// the response never reveals which one failed.
var ErrInvalidCredentials = errors.New("invalid email or password")

type AuthService interface {
	LoginUser(db *gorm.DB, email, password string) (*models.User, string, error)
}

type AuthServiceImpl struct {
	tokens *TokenService
}

func NewAuthService(tokens *TokenService) *AuthServiceImpl {
	return &AuthServiceImpl{tokens: tokens}
}

func (s *AuthServiceImpl) LoginUser(db *gorm.DB, email, password string) (*models.User, string, error) {
	var user models.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !VerifyPassword(user.Password, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}

	return &user, token, nil
}
