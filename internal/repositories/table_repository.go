package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/keya254/smart-serve/internal/models"
)

// TableRepository defines the interface for dining table database operations.
type TableRepository interface {
	CreateTable(ctx context.Context, executor SQLExecutor, table *models.Table) error
	GetTableByID(ctx context.Context, id string) (*models.Table, error)
	GetTableForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Table, error)
	GetTables(ctx context.Context) ([]models.Table, error)
	UpdateTable(ctx context.Context, executor SQLExecutor, id string, update models.TableUpdate) error
	TableExists(ctx context.Context, executor SQLExecutor, id string) (bool, error)
	MarkOccupied(ctx context.Context, executor SQLExecutor, id string, lastActivity string) error
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableColumns = `id, number, seats, status, session_id, waiter, guests, order_total, last_activity`

func scanTable(row scanner) (*models.Table, error) {
	var t models.Table
	var sessionID, waiter, lastActivity sql.NullString
	var guests, orderTotal sql.NullInt64

	err := row.Scan(&t.ID, &t.Number, &t.Seats, &t.Status, &sessionID, &waiter, &guests, &orderTotal, &lastActivity)
	if err != nil {
		return nil, err
	}
	if sessionID.Valid {
		t.SessionID = &sessionID.String
	}
	if waiter.Valid {
		t.Waiter = &waiter.String
	}
	if lastActivity.Valid {
		t.LastActivity = &lastActivity.String
	}
	if guests.Valid {
		g := int(guests.Int64)
		t.Guests = &g
	}
	if orderTotal.Valid {
		t.OrderTotal = &orderTotal.Int64
	}
	return &t, nil
}

func (r *tableRepository) CreateTable(ctx context.Context, executor SQLExecutor, table *models.Table) error {
	query := `INSERT INTO tables (` + tableColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := executor.ExecContext(ctx, query,
		table.ID, table.Number, table.Seats, table.Status,
		table.SessionID, table.Waiter, table.Guests, table.OrderTotal, table.LastActivity,
	)
	if err != nil {
		if pqErr, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: table (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *tableRepository) GetTableByID(ctx context.Context, id string) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = $1`
	t, err := scanTable(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table %s: %v", ErrDatabaseError, id, err)
	}
	return t, nil
}

// GetTableForUpdate reads a table and locks its row until tx ends.
func (r *tableRepository) GetTableForUpdate(ctx context.Context, tx *sql.Tx, id string) (*models.Table, error) {
	query := `SELECT ` + tableColumns + ` FROM tables WHERE id = $1 FOR UPDATE`
	t, err := scanTable(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking table %s: %v", ErrDatabaseError, id, err)
	}
	return t, nil
}

func (r *tableRepository) GetTables(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	rows, err := r.db.QueryContext(ctx, `SELECT `+tableColumns+` FROM tables ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		t, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, *t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

// UpdateTable sets only the non-nil fields of update. An empty update is a no-op
// that still reports ErrNotFound for an unknown id.
func (r *tableRepository) UpdateTable(ctx context.Context, executor SQLExecutor, id string, update models.TableUpdate) error {
	if update.IsEmpty() {
		exists, err := r.TableExists(ctx, executor, id)
		if err != nil {
			return err
		}
		if !exists {
			return ErrNotFound
		}
		return nil
	}

	var setClauses []string
	var args []interface{}
	argCounter := 1

	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argCounter))
		args = append(args, value)
		argCounter++
	}
	if update.Status != nil {
		add("status", *update.Status)
	}
	if update.SessionID != nil {
		add("session_id", *update.SessionID)
	}
	if update.Waiter != nil {
		add("waiter", *update.Waiter)
	}
	if update.Guests != nil {
		add("guests", *update.Guests)
	}
	if update.OrderTotal != nil {
		add("order_total", *update.OrderTotal)
	}
	if update.LastActivity != nil {
		add("last_activity", *update.LastActivity)
	}

	query := fmt.Sprintf("UPDATE tables SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argCounter)
	args = append(args, id)

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: updating table %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for table update %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) TableExists(ctx context.Context, executor SQLExecutor, id string) (bool, error) {
	var exists bool
	err := executor.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM tables WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%w: checking table %s: %v", ErrDatabaseError, id, err)
	}
	return exists, nil
}

func (r *tableRepository) MarkOccupied(ctx context.Context, executor SQLExecutor, id string, lastActivity string) error {
	query := `UPDATE tables SET status = $1, last_activity = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, string(models.TableStatusOccupied), lastActivity, id)
	if err != nil {
		return fmt.Errorf("%w: marking table %s occupied: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for table %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
