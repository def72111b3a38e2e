package auth

import (
	"errors"
	"fmt"

	"github.com/broconnector/gmw-map/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var ErrUsernameTaken = errors.New("username already taken")

// CreateUser stores a new login with a bcrypt hash of password.
func CreateUser(d *gorm.DB, username, password, role string) (*User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password are required")
	}

	var existing User
	err := d.First(&existing, "username = ?", username).Error
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("look up user %q: %w", username, err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		UserID:         utils.GenerateUUID(),
		Username:       username,
		HashedPassword: string(hashed),
		Role:           role,
	}
	if err := d.Create(user).Error; err != nil {
		return nil, fmt.Errorf("create user %q: %w", username, err)
	}
	return user, nil
}
