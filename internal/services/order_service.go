package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/repositories"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrOrderItemNotFound  = errors.New("order item not found")
	ErrInvalidOrderStatus = errors.New("invalid order status")
	ErrInvalidItemStatus  = errors.New("invalid order item status")
	ErrInvalidPriority    = errors.New("invalid order priority")
)

// --- Data Transfer Objects (DTOs) ---

// CreateOrderItemRequest is one line of a new order. Price is accepted for
// compatibility with existing clients but the menu price is always used.
type CreateOrderItemRequest struct {
	ID       string  `json:"id" binding:"required"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity" binding:"required,gt=0"`
	Notes    *string `json:"notes"`
	Price    *int64  `json:"price"`
}

// CreateOrderRequest is used for placing an order at a table.
type CreateOrderRequest struct {
	TableID  string                   `json:"tableId" binding:"required"`
	Items    []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Priority string                   `json:"priority"`
}

// UpdateStatusRequest is the body of both status endpoints. Status is checked
// by the service so that a missing value maps to ErrStatusRequired.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// --- OrderService Interface ---
type OrderService interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error)
	GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error)
	GetOrderByID(ctx context.Context, orderID string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID string, status string) error
	UpdateOrderItemStatus(ctx context.Context, itemID int64, status string) error
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo repositories.OrderRepository
	tableRepo repositories.TableRepository
	menuRepo  repositories.MenuRepository
	db        *sql.DB // For managing transactions
	now       func() time.Time
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	mr repositories.MenuRepository,
	db *sql.DB,
) OrderService {
	return &orderService{
		orderRepo: or,
		tableRepo: tr,
		menuRepo:  mr,
		db:        db,
		now:       time.Now,
	}
}

// CreateOrder places an order and marks its table occupied. The order row,
// every item row and the table update commit together or not at all.
func (s *orderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: an order needs at least one item", ErrValidation)
	}
	priority := models.PriorityNormal
	if req.Priority != "" {
		if !models.IsValidPriority(req.Priority) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidPriority, req.Priority)
		}
		priority = models.Priority(req.Priority)
	}
	for _, itemReq := range req.Items {
		if itemReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for item ID %s must be positive", ErrValidation, itemReq.ID)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableForUpdate(ctx, tx, req.TableID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, req.TableID)
		}
		return nil, fmt.Errorf("failed to fetch table %s: %w", req.TableID, err)
	}

	var totalAmount int64
	orderItems := make([]models.OrderItem, 0, len(req.Items))
	for _, itemReq := range req.Items {
		menuItem, repoErr := s.menuRepo.GetMenuItemByID(ctx, tx, itemReq.ID)
		if repoErr != nil {
			if errors.Is(repoErr, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: item ID %s", ErrMenuItemNotFound, itemReq.ID)
			}
			return nil, fmt.Errorf("failed to fetch menu item %s: %w", itemReq.ID, repoErr)
		}
		if !menuItem.Available {
			return nil, fmt.Errorf("%w: %s", ErrMenuItemUnavailable, menuItem.Name)
		}
		if itemReq.Price != nil && *itemReq.Price != menuItem.Price {
			utils.LogDebug("Submitted price differs from menu price", map[string]interface{}{
				"menu_item_id": menuItem.ID, "submitted": *itemReq.Price, "menu": menuItem.Price,
			})
		}

		totalAmount += menuItem.Price * int64(itemReq.Quantity)
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Price:      menuItem.Price,
			Quantity:   itemReq.Quantity,
			Notes:      utils.NewNullString(utils.DerefString(itemReq.Notes)),
			Status:     models.ItemStatusPending,
		})
	}

	order := models.Order{
		ID:            uuid.NewString(),
		TableID:       table.ID,
		TableNumber:   table.Number,
		Status:        models.OrderStatusPending,
		Priority:      priority,
		CreatedAt:     s.now().UTC(),
		PaymentStatus: models.PaymentStatusUnpaid,
		TotalAmount:   totalAmount,
		PaidAmount:    0,
	}
	if err := s.orderRepo.CreateOrder(ctx, tx, &order); err != nil {
		return nil, fmt.Errorf("failed to create order record: %w", err)
	}

	for i := range orderItems {
		orderItems[i].OrderID = order.ID
		if err := s.orderRepo.CreateOrderItem(ctx, tx, &orderItems[i]); err != nil {
			return nil, fmt.Errorf("failed to create order item (menu_item_id: %s): %w", orderItems[i].MenuItemID, err)
		}
	}
	order.Items = orderItems

	if err := s.tableRepo.MarkOccupied(ctx, tx, table.ID, models.LastActivityJustNow); err != nil {
		return nil, fmt.Errorf("failed to mark table %s occupied: %w", table.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit order transaction: %w", err)
	}
	return &order, nil
}

func (s *orderService) GetOrders(ctx context.Context, filters models.OrderFilters) ([]models.Order, error) {
	orders, err := s.orderRepo.GetOrders(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get orders: %w", err)
	}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *orderService) GetOrderByID(ctx context.Context, orderID string) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}
	orders := []models.Order{*order}
	if err := s.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (s *orderService) attachItems(ctx context.Context, orders []models.Order) error {
	ids := make([]string, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	itemsByOrder, err := s.orderRepo.GetOrderItemsByOrderIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to get order items: %w", err)
	}
	for i := range orders {
		if items, ok := itemsByOrder[orders[i].ID]; ok {
			orders[i].Items = items
		} else {
			orders[i].Items = []models.OrderItem{}
		}
	}
	return nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, status string) error {
	if status == "" {
		return ErrStatusRequired
	}
	if !models.IsValidOrderStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidOrderStatus, status)
	}
	next := models.OrderStatus(status)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := s.orderRepo.GetOrderStatusForUpdate(ctx, tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to fetch order for status update: %w", err)
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: order %s from %s to %s", ErrInvalidStatusTransition, orderID, current, next)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, tx, orderID, next); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("failed to update order status in repository: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for order status update: %w", err)
	}
	return nil
}

func (s *orderService) UpdateOrderItemStatus(ctx context.Context, itemID int64, status string) error {
	if status == "" {
		return ErrStatusRequired
	}
	if !models.IsValidItemStatus(status) {
		return fmt.Errorf("%w: %s", ErrInvalidItemStatus, status)
	}
	next := models.ItemStatus(status)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	current, err := s.orderRepo.GetOrderItemStatusForUpdate(ctx, tx, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderItemNotFound
		}
		return fmt.Errorf("failed to fetch order item for status update: %w", err)
	}
	if !current.CanTransitionTo(next) {
		return fmt.Errorf("%w: item %d from %s to %s", ErrInvalidStatusTransition, itemID, current, next)
	}

	if err := s.orderRepo.UpdateOrderItemStatus(ctx, tx, itemID, next); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderItemNotFound
		}
		return fmt.Errorf("failed to update order item status in repository: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction for order item status update: %w", err)
	}
	return nil
}
