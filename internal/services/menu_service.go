package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrMenuItemNotFound    = errors.New("menu item not found")
	ErrMenuItemUnavailable = errors.New("menu item is not available")
)

// CreateMenuItemRequest is used for adding an item to the menu.
// Popular defaults to false and Available to true when omitted.
type CreateMenuItemRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description" binding:"required"`
	Price       *int64 `json:"price" binding:"required,gte=0"`
	Category    string `json:"category" binding:"required"`
	Image       string `json:"image" binding:"required"`
	Popular     *bool  `json:"popular"`
	Available   *bool  `json:"available"`
}

// MenuService covers the menu catalog and the category list.
type MenuService interface {
	GetMenuItems(ctx context.Context) ([]models.MenuItem, error)
	CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*models.MenuItem, error)
	GetCategories(ctx context.Context) ([]string, error)
}

type menuService struct {
	menuRepo repositories.MenuRepository
	db       *sql.DB
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(mr repositories.MenuRepository, db *sql.DB) MenuService {
	return &menuService{menuRepo: mr, db: db}
}

func (s *menuService) GetMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetMenuItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) CreateMenuItem(ctx context.Context, req CreateMenuItemRequest) (*models.MenuItem, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrValidation)
	}
	if req.Price == nil || *req.Price < 0 {
		return nil, fmt.Errorf("%w: price must be a non-negative integer", ErrValidation)
	}

	item := &models.MenuItem{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: req.Description,
		Price:       *req.Price,
		Category:    req.Category,
		Image:       req.Image,
		Popular:     false,
		Available:   true,
	}
	if req.Popular != nil {
		item.Popular = *req.Popular
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.menuRepo.CreateMenuItem(ctx, s.db, item); err != nil {
		return nil, fmt.Errorf("failed to create menu item in repository: %w", err)
	}
	return item, nil
}

func (s *menuService) GetCategories(ctx context.Context) ([]string, error) {
	names, err := s.menuRepo.GetCategoryNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	return names, nil
}
