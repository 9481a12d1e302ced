package users

import (
	"errors"
	"fmt"
	"time"

	"eventhub/internal/logger"
	"eventhub/internal/models"

	"github.com/google/uuid"
)

type DBLayer interface {
	CreateUser(user models.User) error
	GetUserByID(id string) (*models.User, error)
	GetUserByAuthID(authID string) (*models.User, error)
	UpdateUser(user models.User) error
	DeleteUserCascade(id string) error
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

func (s *Service) CreateUser(req models.CreateUserRequest) (*models.User, error) {
	if req.AuthID == "" || req.Email == "" {
		return nil, errors.New("auth_id and email are required")
	}

	user := models.User{
		ID:        uuid.NewString(),
		AuthID:    req.AuthID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Photo:     req.Photo,
		CreatedAt: time.Now(),
	}

	if err := s.DB.CreateUser(user); err != nil {
		s.Logger.Error("USER", fmt.Sprintf("Failed to create user %s: %v", req.Email, err))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.Logger.Info("USER", fmt.Sprintf("Created user %s (%s)", user.ID, user.Email))
	return &user, nil
}

func (s *Service) GetUser(id string) (*models.User, error) {
	user, err := s.DB.GetUserByID(id)
	if err != nil {
		return nil, fmt.Errorf("user %s not found: %w", id, err)
	}
	return user, nil
}

// UpdateUser is keyed by the external auth subject, the id the identity
// provider knows the user by.
func (s *Service) UpdateUser(authID string, req models.UpdateUserRequest) (*models.User, error) {
	user, err := s.DB.GetUserByAuthID(authID)
	if err != nil {
		return nil, fmt.Errorf("user with auth id %s not found: %w", authID, err)
	}

	user.Username = req.Username
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Photo = req.Photo

	if err := s.DB.UpdateUser(*user); err != nil {
		s.Logger.Error("USER", fmt.Sprintf("Failed to update user %s: %v", user.ID, err))
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.Logger.Info("USER", fmt.Sprintf("Updated user %s", user.ID))
	return user, nil
}

func (s *Service) DeleteUser(id string) error {
	if _, err := s.DB.GetUserByID(id); err != nil {
		return fmt.Errorf("user %s not found: %w", id, err)
	}

	if err := s.DB.DeleteUserCascade(id); err != nil {
		s.Logger.Error("USER", fmt.Sprintf("Failed to delete user %s: %v", id, err))
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.Logger.Info("USER", fmt.Sprintf("Deleted user %s and dependent records", id))
	return nil
}
