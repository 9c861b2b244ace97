package service

import (
	"errors"

	"wolfs_web/internal/models"
	"wolfs_web/internal/repository"
)

var ErrUsernameTaken = errors.New("username already taken")

type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUser 建立使用者，密碼需事先雜湊
func (s *UserService) CreateUser(user *models.User) error {
	_, err := s.userRepo.FindByUsername(user.Username)
	if err == nil {
		return ErrUsernameTaken
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}
	return s.userRepo.Create(user)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	user, err := s.userRepo.FindByUsername(username)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

func (s *UserService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}
