package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/keya254/smart-serve/internal/models"
)

// StaffRepository defines the interface for staff database operations.
type StaffRepository interface {
	CreateStaff(ctx context.Context, executor SQLExecutor, staff *models.Staff) error
	GetStaff(ctx context.Context) ([]models.Staff, error)
	DeleteStaff(ctx context.Context, executor SQLExecutor, id string) (int64, error) // Returns rows affected
}

type staffRepository struct {
	db *sql.DB
}

// NewStaffRepository creates a new instance of StaffRepository.
func NewStaffRepository(db *sql.DB) StaffRepository {
	return &staffRepository{db: db}
}

func (r *staffRepository) CreateStaff(ctx context.Context, executor SQLExecutor, staff *models.Staff) error {
	query := `INSERT INTO staff (id, name, role, code, active)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := executor.ExecContext(ctx, query, staff.ID, staff.Name, string(staff.Role), staff.Code, staff.Active)
	if err != nil {
		if pqErr, ok := isUniqueViolation(err); ok {
			return fmt.Errorf("%w: staff (constraint: %s)", ErrDuplicateKey, pqErr.Constraint)
		}
		return fmt.Errorf("%w: creating staff member: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *staffRepository) GetStaff(ctx context.Context) ([]models.Staff, error) {
	staff := []models.Staff{}
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, role, code, active FROM staff ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying staff: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var s models.Staff
		if err := rows.Scan(&s.ID, &s.Name, &s.Role, &s.Code, &s.Active); err != nil {
			return nil, fmt.Errorf("%w: scanning staff member: %v", ErrDatabaseError, err)
		}
		staff = append(staff, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating staff rows: %v", ErrDatabaseError, err)
	}
	return staff, nil
}

func (r *staffRepository) DeleteStaff(ctx context.Context, executor SQLExecutor, id string) (int64, error) {
	result, err := executor.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%w: deleting staff member %s: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: getting rows affected for deleting staff member %s: %v", ErrDatabaseError, id, err)
	}
	return rowsAffected, nil
}
