package handlers

import (
	"errors"
	"net/http"

	"github.com/keya254/smart-serve/internal/realtime"
	"github.com/keya254/smart-serve/internal/services"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler serves the menu and its categories.
type MenuHandler struct {
	menuService services.MenuService
	notifier    realtime.Notifier
}

func NewMenuHandler(ms services.MenuService, n realtime.Notifier) *MenuHandler {
	return &MenuHandler{menuService: ms, notifier: n}
}

func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	items, err := h.menuService.GetMenuItems(c.Request.Context())
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch menu items.")
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateMenuItem: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.menuService.CreateMenuItem(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item.", err.Error()))
			return
		}
		utils.RespondInternalError(c, err, "Failed to create menu item.")
		return
	}

	h.notifier.Notify(realtime.EventMenuUpdated)
	c.JSON(http.StatusCreated, item)
}

// GetCategories returns the category names in creation order.
func (h *MenuHandler) GetCategories(c *gin.Context) {
	names, err := h.menuService.GetCategories(c.Request.Context())
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch categories.")
		return
	}
	c.JSON(http.StatusOK, names)
}
