package handlers

import (
	"errors"
	"net/http"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/realtime"
	"github.com/keya254/smart-serve/internal/services"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderHandler holds the order service and the change notifier.
type OrderHandler struct {
	orderService services.OrderService
	notifier     realtime.Notifier
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(os services.OrderService, n realtime.Notifier) *OrderHandler {
	return &OrderHandler{orderService: os, notifier: n}
}

// CreateOrder places an order for a table and marks the table occupied.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateOrder: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	createdOrder, err := h.orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateOrder: Error from orderService.CreateOrder")
		switch {
		case errors.Is(err, services.ErrValidation), errors.Is(err, services.ErrInvalidPriority):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order.", err.Error()))
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", err.Error()))
		case errors.Is(err, services.ErrMenuItemNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more menu items not found.", err.Error()))
		case errors.Is(err, services.ErrMenuItemUnavailable):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "One or more menu items are unavailable.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create order.", err.Error()))
		}
		return
	}

	h.notifier.Notify(realtime.EventOrdersUpdated)
	h.notifier.Notify(realtime.EventTablesUpdated)
	c.JSON(http.StatusCreated, createdOrder)
}

// GetOrders lists orders newest first, optionally filtered by status and table.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var filters models.OrderFilters
	if status := c.Query("status"); status != "" {
		if !models.IsValidOrderStatus(status) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status filter.", status))
			return
		}
		filters.Status = &status
	}
	if tableID := c.Query("table_id"); tableID != "" {
		filters.TableID = &tableID
	}

	orders, err := h.orderService.GetOrders(c.Request.Context(), filters)
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch orders.")
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GetOrderByID handles fetching a single order by ID with its items
func (h *OrderHandler) GetOrderByID(c *gin.Context) {
	orderID := c.Param("id")
	order, err := h.orderService.GetOrderByID(c.Request.Context(), orderID)
	if err != nil {
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", orderID))
			return
		}
		utils.RespondInternalError(c, err, "Failed to fetch order.")
		return
	}
	c.JSON(http.StatusOK, order)
}

// UpdateOrderStatus moves an order forward in the kitchen workflow.
func (h *OrderHandler) UpdateOrderStatus(c *gin.Context) {
	orderID := c.Param("id")

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.orderService.UpdateOrderStatus(c.Request.Context(), orderID, req.Status); err != nil {
		utils.LogError(err, "UpdateOrderStatus: Error from orderService.UpdateOrderStatus for ID "+orderID)
		respondStatusError(c, err, "Failed to update order status.")
		return
	}

	h.notifier.Notify(realtime.EventOrdersUpdated)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateOrderItemStatus moves a single order line forward.
func (h *OrderHandler) UpdateOrderItemStatus(c *gin.Context) {
	idStr := c.Param("id")
	itemID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order item ID format.", err.Error()))
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.orderService.UpdateOrderItemStatus(c.Request.Context(), itemID, req.Status); err != nil {
		utils.LogError(err, "UpdateOrderItemStatus: Error from orderService.UpdateOrderItemStatus for ID "+idStr)
		respondStatusError(c, err, "Failed to update order item status.")
		return
	}

	h.notifier.Notify(realtime.EventOrdersUpdated)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondStatusError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrStatusRequired):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Status is required.", ""))
	case errors.Is(err, services.ErrInvalidOrderStatus), errors.Is(err, services.ErrInvalidItemStatus):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid status provided.", err.Error()))
	case errors.Is(err, services.ErrOrderNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", ""))
	case errors.Is(err, services.ErrOrderItemNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order item not found.", ""))
	case errors.Is(err, services.ErrInvalidStatusTransition):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Status transition not allowed.", err.Error()))
	default:
		utils.RespondInternalError(c, err, fallback)
	}
}
