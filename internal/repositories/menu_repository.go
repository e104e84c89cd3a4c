package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/keya254/smart-serve/internal/models"
)

// MenuRepository defines the interface for menu and category database operations.
type MenuRepository interface {
	// MenuItem methods
	CreateMenuItem(ctx context.Context, executor SQLExecutor, item *models.MenuItem) error
	GetMenuItemByID(ctx context.Context, executor SQLExecutor, id string) (*models.MenuItem, error)
	GetMenuItems(ctx context.Context) ([]models.MenuItem, error)

	// Category methods
	CreateCategory(ctx context.Context, executor SQLExecutor, name string) (int64, error)
	GetCategoryNames(ctx context.Context) ([]string, error)
	CountCategories(ctx context.Context, executor SQLExecutor) (int, error)
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

// --- MenuItem Methods ---

func (r *menuRepository) CreateMenuItem(ctx context.Context, executor SQLExecutor, item *models.MenuItem) error {
	query := `INSERT INTO menu_items (id, name, description, price, category, image, popular, available)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := executor.ExecContext(ctx, query,
		item.ID, item.Name, item.Description, item.Price, item.Category, item.Image, item.Popular, item.Available,
	)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: menu item %s already exists", ErrDuplicateKey, item.ID)
		}
		return fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return nil
}

func scanMenuItem(row scanner) (*models.MenuItem, error) {
	var item models.MenuItem
	err := row.Scan(
		&item.ID, &item.Name, &item.Description, &item.Price, &item.Category, &item.Image, &item.Popular, &item.Available,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *menuRepository) GetMenuItemByID(ctx context.Context, executor SQLExecutor, id string) (*models.MenuItem, error) {
	if executor == nil {
		executor = r.db
	}
	query := `SELECT id, name, description, price, category, image, popular, available
	          FROM menu_items WHERE id = $1`
	item, err := scanMenuItem(executor.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item %s: %v", ErrDatabaseError, id, err)
	}
	return item, nil
}

func (r *menuRepository) GetMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT id, name, description, price, category, image, popular, available
	          FROM menu_items ORDER BY category, name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

// --- Category Methods ---

func (r *menuRepository) CreateCategory(ctx context.Context, executor SQLExecutor, name string) (int64, error) {
	var id int64
	err := executor.QueryRowContext(ctx, `INSERT INTO categories (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		if _, ok := isUniqueViolation(err); ok {
			return 0, fmt.Errorf("%w: category %q", ErrDuplicateKey, name)
		}
		return 0, fmt.Errorf("%w: creating category: %v", ErrDatabaseError, err)
	}
	return id, nil
}

func (r *menuRepository) GetCategoryNames(ctx context.Context) ([]string, error) {
	names := []string{}
	rows, err := r.db.QueryContext(ctx, `SELECT name FROM categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying categories: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%w: scanning category: %v", ErrDatabaseError, err)
		}
		names = append(names, name)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating category rows: %v", ErrDatabaseError, err)
	}
	return names, nil
}

func (r *menuRepository) CountCategories(ctx context.Context, executor SQLExecutor) (int, error) {
	return countRows(ctx, executor, "categories")
}

// countRows is only ever called with a fixed table name, never with user input.
func countRows(ctx context.Context, executor SQLExecutor, table string) (int, error) {
	var count int
	if err := executor.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting %s: %v", ErrDatabaseError, table, err)
	}
	return count, nil
}
