package service

import (
	"errors"
	"fmt"

	"authd/internal/model"

	"gorm.io/gorm"
)

type UserService struct {
	database *gorm.DB
	password *PasswordService
}

func NewUserService(database *gorm.DB, password *PasswordService) *UserService {
	return &UserService{
		database: database,
		password: password,
	}
}

// CreateUser validates the username and password, hashes the password and
// persists the user. Validation happens before any write so an invalid user
// never exists, not even transiently.
func (us *UserService) CreateUser(username string, plainPassword string) (*model.User, error) {
	if err := model.ValidateUsername(username); err != nil {
		return nil, err
	}

	if err := us.password.Validate(plainPassword); err != nil {
		return nil, err
	}

	var count int64
	if err := us.database.Model(&model.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}

	if count > 0 {
		return nil, &UniquenessError{Field: "username", Value: username}
	}

	formatted, err := us.password.HashPassword(plainPassword)
	if err != nil {
		return nil, err
	}

	if err := model.ValidatePasswordFormat(formatted); err != nil {
		return nil, err
	}

	user := model.User{
		Username: username,
		Password: formatted,
	}

	if err := us.database.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// GetUserByUsername returns nil without an error when no user matches.
func (us *UserService) GetUserByUsername(username string) (*model.User, error) {
	var user model.User
	err := us.database.Where("username = ?", username).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (us *UserService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	err := us.database.Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes the user. Clients and their codes go with it through
// the foreign key cascade.
func (us *UserService) DeleteUser(id uint) error {
	return us.database.Delete(&model.User{}, id).Error
}

// SetPassword re-validates and re-hashes the new password.
func (us *UserService) SetPassword(user *model.User, plainPassword string) error {
	if err := us.password.Validate(plainPassword); err != nil {
		return err
	}

	formatted, err := us.password.HashPassword(plainPassword)
	if err != nil {
		return err
	}

	if err := model.ValidatePasswordFormat(formatted); err != nil {
		return err
	}

	user.Password = formatted

	return us.database.Model(user).Update("password", formatted).Error
}

func (us *UserService) CheckPassword(user *model.User, plainPassword string) (bool, error) {
	return us.password.CheckPassword(plainPassword, user.Password)
}
