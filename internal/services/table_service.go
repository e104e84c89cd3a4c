package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrTableNotFound       = errors.New("table not found")
	ErrTableNumberConflict = errors.New("a table with this number already exists")
	ErrInvalidTableStatus  = errors.New("invalid table status")
)

// CreateTableRequest is used for adding a dining table to the floor plan.
type CreateTableRequest struct {
	Number int `json:"number" binding:"required,gt=0"`
	Seats  int `json:"seats" binding:"required,gt=0"`
}

// TableService manages dining tables and their floor state.
type TableService interface {
	GetTables(ctx context.Context) ([]models.Table, error)
	GetTableByID(ctx context.Context, id string) (*models.Table, error)
	CreateTable(ctx context.Context, req CreateTableRequest) (*models.Table, error)
	UpdateTable(ctx context.Context, id string, update models.TableUpdate) error
}

type tableService struct {
	tableRepo repositories.TableRepository
	db        *sql.DB
}

// NewTableService creates a new instance of TableService.
func NewTableService(tr repositories.TableRepository, db *sql.DB) TableService {
	return &tableService{tableRepo: tr, db: db}
}

func (s *tableService) GetTables(ctx context.Context) ([]models.Table, error) {
	tables, err := s.tableRepo.GetTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) GetTableByID(ctx context.Context, id string) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table by ID: %w", err)
	}
	return table, nil
}

func (s *tableService) CreateTable(ctx context.Context, req CreateTableRequest) (*models.Table, error) {
	if req.Number <= 0 || req.Seats <= 0 {
		return nil, fmt.Errorf("%w: number and seats must be positive", ErrValidation)
	}

	table := &models.Table{
		ID:     uuid.NewString(),
		Number: req.Number,
		Seats:  req.Seats,
		Status: models.TableStatusAvailable,
	}
	if err := s.tableRepo.CreateTable(ctx, s.db, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: number %d", ErrTableNumberConflict, req.Number)
		}
		return nil, fmt.Errorf("failed to create table in repository: %w", err)
	}
	return table, nil
}

func (s *tableService) UpdateTable(ctx context.Context, id string, update models.TableUpdate) error {
	if update.Status != nil && !models.IsValidTableStatus(*update.Status) {
		return fmt.Errorf("%w: %s", ErrInvalidTableStatus, *update.Status)
	}
	if update.Guests != nil && *update.Guests < 0 {
		return fmt.Errorf("%w: guests cannot be negative", ErrValidation)
	}

	if err := s.tableRepo.UpdateTable(ctx, s.db, id, update); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to update table in repository: %w", err)
	}
	return nil
}
