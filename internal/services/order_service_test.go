package services

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	tableCols    = []string{"id", "number", "seats", "status", "session_id", "waiter", "guests", "order_total", "last_activity"}
	menuItemCols = []string{"id", "name", "description", "price", "category", "image", "popular", "available"}
	orderCols    = []string{"id", "table_id", "table_number", "status", "priority", "created_at", "payment_status", "total_amount", "paid_amount"}
	itemCols     = []string{"id", "order_id", "menu_item_id", "menu_item_name", "unit_price", "quantity", "notes", "status"}
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func newTestOrderService(db *sql.DB, now time.Time) *orderService {
	svc := NewOrderService(
		repositories.NewOrderRepository(db),
		repositories.NewTableRepository(db),
		repositories.NewMenuRepository(db),
		db,
	).(*orderService)
	svc.now = func() time.Time { return now }
	return svc
}

func expectLockTable(mock sqlmock.Sqlmock, id string, number int) {
	mock.ExpectQuery("FROM tables WHERE id = .+ FOR UPDATE").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(tableCols).AddRow(id, number, 2, "available", nil, nil, nil, nil, nil))
}

func TestCreateOrder_PricesFromMenuAndOccupiesTable(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)
	svc := newTestOrderService(db, now)

	mock.ExpectBegin()
	expectLockTable(mock, "t2", 2)
	mock.ExpectQuery("FROM menu_items WHERE id").WithArgs("12").
		WillReturnRows(sqlmock.NewRows(menuItemCols).AddRow("12", "Tusker Lager", "500ml cold draft", 350, "Beverages", "img", true, true))
	mock.ExpectExec("INSERT INTO orders").
		WithArgs(sqlmock.AnyArg(), "t2", 2, "pending", "normal", now, "unpaid", int64(700), int64(0)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO order_items").
		WithArgs(sqlmock.AnyArg(), "12", "Tusker Lager", int64(350), 2, nil, "pending").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tables SET status = $1, last_activity = $2 WHERE id = $3")).
		WithArgs("occupied", "Just now", "t2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	submitted := int64(1)
	order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		TableID: "t2",
		Items:   []CreateOrderItemRequest{{ID: "12", Name: "Tusker Lager", Quantity: 2, Price: &submitted}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, order.ID)
	assert.Equal(t, 2, order.TableNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, models.PriorityNormal, order.Priority)
	assert.Equal(t, models.PaymentStatusUnpaid, order.PaymentStatus)
	assert.Equal(t, int64(700), order.TotalAmount)
	assert.Equal(t, int64(0), order.PaidAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, int64(350), order.Items[0].Price)
	assert.Equal(t, order.ID, order.Items[0].OrderID)
	assert.Equal(t, models.ItemStatusPending, order.Items[0].Status)
}

func TestCreateOrder_FailureAfterOrderInsertRollsBack(t *testing.T) {
	boom := errors.New("boom")
	now := time.Date(2024, 6, 1, 18, 0, 0, 0, time.UTC)

	expectUpToOrderInsert := func(mock sqlmock.Sqlmock) {
		mock.ExpectBegin()
		expectLockTable(mock, "t2", 2)
		mock.ExpectQuery("FROM menu_items WHERE id").WithArgs("12").
			WillReturnRows(sqlmock.NewRows(menuItemCols).AddRow("12", "Tusker Lager", "500ml cold draft", 350, "Beverages", "img", true, true))
		mock.ExpectExec("INSERT INTO orders").WillReturnResult(sqlmock.NewResult(0, 1))
	}
	expectItemInsert := func(mock sqlmock.Sqlmock) {
		mock.ExpectQuery("INSERT INTO order_items").WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	}
	expectMarkOccupied := func(mock sqlmock.Sqlmock) {
		mock.ExpectExec("UPDATE tables SET status").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	tests := []struct {
		name    string
		arrange func(mock sqlmock.Sqlmock)
		wantErr error
		wantMsg string
	}{
		{
			name: "order item insert fails",
			arrange: func(mock sqlmock.Sqlmock) {
				expectUpToOrderInsert(mock)
				mock.ExpectQuery("INSERT INTO order_items").WillReturnError(boom)
				mock.ExpectRollback()
			},
			wantErr: repositories.ErrDatabaseError,
			wantMsg: "failed to create order item (menu_item_id: 12)",
		},
		{
			name: "marking the table occupied fails",
			arrange: func(mock sqlmock.Sqlmock) {
				expectUpToOrderInsert(mock)
				expectItemInsert(mock)
				mock.ExpectExec("UPDATE tables SET status").WillReturnError(boom)
				mock.ExpectRollback()
			},
			wantErr: repositories.ErrDatabaseError,
			wantMsg: "failed to mark table t2 occupied",
		},
		{
			// A failed commit ends the transaction; the deferred rollback is a no-op.
			name: "commit fails",
			arrange: func(mock sqlmock.Sqlmock) {
				expectUpToOrderInsert(mock)
				expectItemInsert(mock)
				expectMarkOccupied(mock)
				mock.ExpectCommit().WillReturnError(boom)
			},
			wantErr: boom,
			wantMsg: "failed to commit order transaction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			svc := newTestOrderService(db, now)
			tt.arrange(mock)

			order, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
				TableID: "t2",
				Items:   []CreateOrderItemRequest{{ID: "12", Quantity: 2}},
			})
			require.Error(t, err)
			assert.Nil(t, order)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCreateOrder_UnknownTableWritesNothing(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestOrderService(db, time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery("FROM tables WHERE id = .+ FOR UPDATE").WithArgs("t99").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		TableID: "t99",
		Items:   []CreateOrderItemRequest{{ID: "12", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestCreateOrder_UnavailableMenuItem(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestOrderService(db, time.Now())

	mock.ExpectBegin()
	expectLockTable(mock, "t2", 2)
	mock.ExpectQuery("FROM menu_items WHERE id").WithArgs("3").
		WillReturnRows(sqlmock.NewRows(menuItemCols).AddRow("3", "Spring Rolls", "", 400, "Starters", "", false, false))
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		TableID: "t2",
		Items:   []CreateOrderItemRequest{{ID: "3", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrMenuItemUnavailable)
}

func TestCreateOrder_UnknownMenuItem(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestOrderService(db, time.Now())

	mock.ExpectBegin()
	expectLockTable(mock, "t2", 2)
	mock.ExpectQuery("FROM menu_items WHERE id").WithArgs("nope").WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := svc.CreateOrder(context.Background(), CreateOrderRequest{
		TableID: "t2",
		Items:   []CreateOrderItemRequest{{ID: "nope", Quantity: 1}},
	})
	assert.ErrorIs(t, err, ErrMenuItemNotFound)
}

func TestCreateOrder_RejectsBadInputBeforeTouchingStore(t *testing.T) {
	db, _ := newMockDB(t)
	svc := newTestOrderService(db, time.Now())
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, CreateOrderRequest{TableID: "t2"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderRequest{TableID: "t2", Items: []CreateOrderItemRequest{{ID: "1", Quantity: 0}}})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateOrder(ctx, CreateOrderRequest{TableID: "t2", Priority: "asap", Items: []CreateOrderItemRequest{{ID: "1", Quantity: 1}}})
	assert.ErrorIs(t, err, ErrInvalidPriority)
}

func TestGetOrders_HydratesItems(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestOrderService(db, time.Now())
	created := time.Now()

	mock.ExpectQuery("FROM orders ORDER BY created_at DESC").
		WillReturnRows(sqlmock.NewRows(orderCols).
			AddRow("k3", "t7", 7, "pending", "normal", created, "unpaid", 7100, 0).
			AddRow("k9", "t8", 8, "pending", "normal", created, "unpaid", 0, 0))
	mock.ExpectQuery("FROM order_items").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(itemCols).AddRow(5, "k3", "7", "Ribeye Steak", 2200, 1, "Medium rare", "pending"))

	orders, err := svc.GetOrders(context.Background(), models.OrderFilters{})
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Len(t, orders[0].Items, 1)
	assert.NotNil(t, orders[1].Items)
	assert.Empty(t, orders[1].Items)
}

func TestGetOrderByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	svc := newTestOrderService(db, time.Now())

	mock.ExpectQuery("FROM orders WHERE id").WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := svc.GetOrderByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("forward move persists", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders").WithArgs("k1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ready"))
		mock.ExpectExec("UPDATE orders SET status").WithArgs("served", "k1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, svc.UpdateOrderStatus(ctx, "k1", "served"))
	})

	t.Run("backward move is rejected", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders").WithArgs("k1").
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ready"))
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "k1", "preparing"), ErrInvalidStatusTransition)
	})

	t.Run("unknown order", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM orders").WithArgs("nonexistent").WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "nonexistent", "ready"), ErrOrderNotFound)
	})

	t.Run("missing and unknown status", func(t *testing.T) {
		db, _ := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "k1", ""), ErrStatusRequired)
		assert.ErrorIs(t, svc.UpdateOrderStatus(ctx, "k1", "cancelled"), ErrInvalidOrderStatus)
	})
}

func TestUpdateOrderItemStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("same status is a no-op success", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM order_items").WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow("ready"))
		mock.ExpectExec("UPDATE order_items SET status").WithArgs("ready", int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, svc.UpdateOrderItemStatus(ctx, 7, "ready"))
	})

	t.Run("unknown item", func(t *testing.T) {
		db, mock := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		mock.ExpectBegin()
		mock.ExpectQuery("SELECT status FROM order_items").WithArgs(int64(404)).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		assert.ErrorIs(t, svc.UpdateOrderItemStatus(ctx, 404, "ready"), ErrOrderItemNotFound)
	})

	t.Run("order-only status is invalid for items", func(t *testing.T) {
		db, _ := newMockDB(t)
		svc := newTestOrderService(db, time.Now())

		assert.ErrorIs(t, svc.UpdateOrderItemStatus(ctx, 7, "completed"), ErrInvalidItemStatus)
	})
}
