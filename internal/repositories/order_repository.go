package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/keya254/smart-serve/internal/models"

	"github.com/lib/pq" // For pq.Array
)

// OrderRepository defines the interface for order-related database operations.
type OrderRepository interface {
	// Order methods
	CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) // Basic order details
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	GetOrderStatusForUpdate(ctx context.Context, tx *sql.Tx, orderID string) (models.OrderStatus, error)
	UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID string, newStatus models.OrderStatus) error

	// OrderItem methods
	CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) error
	GetOrderItemsByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]models.OrderItem, error)
	GetOrderItemStatusForUpdate(ctx context.Context, tx *sql.Tx, itemID int64) (models.ItemStatus, error)
	UpdateOrderItemStatus(ctx context.Context, executor SQLExecutor, itemID int64, newStatus models.ItemStatus) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

const orderColumns = `id, table_id, table_number, status, priority, created_at, payment_status, total_amount, paid_amount`

func scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.TableID, &o.TableNumber, &o.Status, &o.Priority, &o.CreatedAt,
		&o.PaymentStatus, &o.TotalAmount, &o.PaidAmount,
	)
	if err != nil {
		return nil, err
	}
	o.Items = []models.OrderItem{}
	return &o, nil
}

func (r *orderRepository) CreateOrder(ctx context.Context, executor SQLExecutor, order *models.Order) error {
	query := `INSERT INTO orders (` + orderColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := executor.ExecContext(ctx, query,
		order.ID, order.TableID, order.TableNumber, string(order.Status), string(order.Priority), order.CreatedAt,
		string(order.PaymentStatus), order.TotalAmount, order.PaidAmount,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: table %s for order", ErrNotFound, order.TableID)
		}
		return fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return nil
}

func (r *orderRepository) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order by ID %s: %v", ErrDatabaseError, orderID, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	orders := []models.Order{}

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + orderColumns + ` FROM orders`)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.TableID != nil && *filters.TableID != "" {
		conditions = append(conditions, fmt.Sprintf("table_id = $%d", argCounter))
		args = append(args, *filters.TableID)
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, *o)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, nil
}

func (r *orderRepository) GetOrderStatusForUpdate(ctx context.Context, tx *sql.Tx, orderID string) (models.OrderStatus, error) {
	var status models.OrderStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: locking order %s: %v", ErrDatabaseError, orderID, err)
	}
	return status, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, executor SQLExecutor, orderID string, newStatus models.OrderStatus) error {
	query := `UPDATE orders SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, string(newStatus), orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %s: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %s: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrderItem Methods ---

const orderItemColumns = `id, order_id, menu_item_id, menu_item_name, unit_price, quantity, notes, status`

func (r *orderRepository) CreateOrderItem(ctx context.Context, executor SQLExecutor, item *models.OrderItem) error {
	query := `INSERT INTO order_items (order_id, menu_item_id, menu_item_name, unit_price, quantity, notes, status)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	err := executor.QueryRowContext(ctx, query,
		item.OrderID, item.MenuItemID, item.Name, item.Price, item.Quantity, item.Notes, string(item.Status),
	).Scan(&item.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: menu item %s or order %s for order item", ErrNotFound, item.MenuItemID, item.OrderID)
		}
		return fmt.Errorf("%w: creating order item: %v", ErrDatabaseError, err)
	}
	return nil
}

// GetOrderItemsByOrderIDs loads the items of several orders in one round trip,
// keyed by order id.
func (r *orderRepository) GetOrderItemsByOrderIDs(ctx context.Context, orderIDs []string) (map[string][]models.OrderItem, error) {
	itemsByOrder := make(map[string][]models.OrderItem, len(orderIDs))
	if len(orderIDs) == 0 {
		return itemsByOrder, nil
	}

	query := `SELECT ` + orderItemColumns + `
	          FROM order_items
	          WHERE order_id = ANY($1)
	          ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(orderIDs))
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		var notes sql.NullString
		err := rows.Scan(
			&item.ID, &item.OrderID, &item.MenuItemID, &item.Name, &item.Price, &item.Quantity, &notes, &item.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning order item: %v", ErrDatabaseError, err)
		}
		if notes.Valid {
			item.Notes = &notes.String
		}
		itemsByOrder[item.OrderID] = append(itemsByOrder[item.OrderID], item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows: %v", ErrDatabaseError, err)
	}
	return itemsByOrder, nil
}

func (r *orderRepository) GetOrderItemStatusForUpdate(ctx context.Context, tx *sql.Tx, itemID int64) (models.ItemStatus, error) {
	var status models.ItemStatus
	err := tx.QueryRowContext(ctx, `SELECT status FROM order_items WHERE id = $1 FOR UPDATE`, itemID).Scan(&status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: locking order item %d: %v", ErrDatabaseError, itemID, err)
	}
	return status, nil
}

func (r *orderRepository) UpdateOrderItemStatus(ctx context.Context, executor SQLExecutor, itemID int64, newStatus models.ItemStatus) error {
	result, err := executor.ExecContext(ctx, `UPDATE order_items SET status = $1 WHERE id = $2`, string(newStatus), itemID)
	if err != nil {
		return fmt.Errorf("%w: updating order item status for ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order item %d: %v", ErrDatabaseError, itemID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
