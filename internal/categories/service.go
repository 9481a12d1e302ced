package categories

import (
	"database/sql"
	"errors"
	"fmt"

	"eventhub/internal/logger"
	"eventhub/internal/models"

	"github.com/google/uuid"
)

type DBLayer interface {
	CreateCategory(category models.Category) error
	GetAllCategories() ([]models.Category, error)
	GetCategoryByName(name string) (*models.Category, error)
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

func (s *Service) CreateCategory(req models.CreateCategoryRequest) (*models.Category, error) {
	if req.Name == "" {
		return nil, errors.New("category name is required")
	}

	category := models.Category{
		ID:   uuid.NewString(),
		Name: req.Name,
	}

	if err := s.DB.CreateCategory(category); err != nil {
		s.Logger.Error("CATEGORY", fmt.Sprintf("Failed to create category %q: %v", req.Name, err))
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.Logger.Info("CATEGORY", fmt.Sprintf("Created category %q (%s)", category.Name, category.ID))
	return &category, nil
}

func (s *Service) GetAllCategories() ([]models.Category, error) {
	return s.DB.GetAllCategories()
}

func (s *Service) GetCategoryByName(name string) (*models.Category, error) {
	return s.DB.GetCategoryByName(name)
}

// FindOrCreateCategory looks the name up case-insensitively and inserts
// it when missing.
func (s *Service) FindOrCreateCategory(name string) (*models.Category, error) {
	if name == "" {
		return nil, errors.New("category name is required")
	}

	category, err := s.DB.GetCategoryByName(name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up category %q: %w", name, err)
	}

	return s.CreateCategory(models.CreateCategoryRequest{Name: name})
}
