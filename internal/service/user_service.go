package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rentora/rental-service/internal/models"
	"github.com/rentora/rental-service/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrNotProfileOwner = errors.New("you are not authorized to update this user")
	ErrInvalidRole     = errors.New("invalid role")
)

type UpdateUserInput struct {
	Name  string
	Email string
	Phone string
	Role  models.UserRole
}

type UserService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateUser(ctx context.Context, actor Actor, userID uint, in UpdateUserInput) (*models.User, error)
	DeleteUser(ctx context.Context, userID uint) error
}

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.userRepo.FindAll(ctx)
}

func (s *userService) UpdateUser(ctx context.Context, actor Actor, userID uint, in UpdateUserInput) (*models.User, error) {
	if in.Role != "" && !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if !actor.IsAdmin() && actor.ID != userID {
		return nil, ErrNotProfileOwner
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	user.Name = in.Name
	user.Email = strings.ToLower(strings.TrimSpace(in.Email))
	user.Phone = in.Phone
	// Only admins may change roles; everyone else keeps their current one.
	if actor.IsAdmin() && in.Role != "" {
		user.Role = in.Role
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) DeleteUser(ctx context.Context, userID uint) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
