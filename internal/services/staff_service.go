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
	ErrStaffCodeConflict   = errors.New("access code is already used by another staff member")
	ErrStaffDataValidation = errors.New("staff data validation error")
)

// CreateStaffRequest is used for adding a staff member. Active defaults to true.
type CreateStaffRequest struct {
	Name   string `json:"name" binding:"required"`
	Role   string `json:"role" binding:"required"`
	Code   string `json:"code" binding:"required"`
	Active *bool  `json:"active"`
}

// StaffService is the staff directory.
type StaffService interface {
	GetStaff(ctx context.Context) ([]models.Staff, error)
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*models.Staff, error)
	DeleteStaff(ctx context.Context, id string) error
}

type staffService struct {
	staffRepo repositories.StaffRepository
	db        *sql.DB
}

// NewStaffService creates a new instance of StaffService.
func NewStaffService(sr repositories.StaffRepository, db *sql.DB) StaffService {
	return &staffService{staffRepo: sr, db: db}
}

func (s *staffService) GetStaff(ctx context.Context) ([]models.Staff, error) {
	staff, err := s.staffRepo.GetStaff(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return staff, nil
}

func (s *staffService) CreateStaff(ctx context.Context, req CreateStaffRequest) (*models.Staff, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", ErrStaffDataValidation)
	}
	if strings.TrimSpace(req.Code) == "" {
		return nil, fmt.Errorf("%w: code cannot be empty", ErrStaffDataValidation)
	}
	if !models.IsValidStaffRole(req.Role) {
		return nil, fmt.Errorf("%w: unknown role %q", ErrStaffDataValidation, req.Role)
	}

	staff := &models.Staff{
		ID:     uuid.NewString(),
		Name:   strings.TrimSpace(req.Name),
		Role:   models.StaffRole(req.Role),
		Code:   strings.TrimSpace(req.Code),
		Active: true,
	}
	if req.Active != nil {
		staff.Active = *req.Active
	}

	if err := s.staffRepo.CreateStaff(ctx, s.db, staff); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrStaffCodeConflict
		}
		return nil, fmt.Errorf("failed to create staff member in repository: %w", err)
	}
	return staff, nil
}

// DeleteStaff succeeds whether or not the id exists.
func (s *staffService) DeleteStaff(ctx context.Context, id string) error {
	if _, err := s.staffRepo.DeleteStaff(ctx, s.db, id); err != nil {
		return fmt.Errorf("failed to delete staff member: %w", err)
	}
	return nil
}
