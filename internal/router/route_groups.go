package router

import (
	"github.com/keya254/smart-serve/internal/handlers"

	"github.com/gin-gonic/gin"
)

// SetupMenuRoutes sets up the menu item and category routes.
func SetupMenuRoutes(apiGroup *gin.RouterGroup, menuHandler *handlers.MenuHandler) {
	menuRoutes := apiGroup.Group("/menu-items")
	{
		menuRoutes.GET("", menuHandler.GetMenuItems)
		menuRoutes.POST("", menuHandler.CreateMenuItem)
	}
	apiGroup.GET("/categories", menuHandler.GetCategories)
}

// SetupTableRoutes sets up the dining table routes.
func SetupTableRoutes(apiGroup *gin.RouterGroup, tableHandler *handlers.TableHandler) {
	tableRoutes := apiGroup.Group("/tables")
	{
		tableRoutes.GET("", tableHandler.GetTables)
		tableRoutes.POST("", tableHandler.CreateTable)
		tableRoutes.GET("/:id", tableHandler.GetTableByID)
		tableRoutes.PUT("/:id", tableHandler.UpdateTable)
	}
}

// SetupOrderRoutes sets up the order and order item routes.
func SetupOrderRoutes(apiGroup *gin.RouterGroup, orderHandler *handlers.OrderHandler) {
	orderRoutes := apiGroup.Group("/orders")
	{
		orderRoutes.POST("", orderHandler.CreateOrder)
		orderRoutes.GET("", orderHandler.GetOrders)
		orderRoutes.GET("/:id", orderHandler.GetOrderByID)
		orderRoutes.PUT("/:id/status", orderHandler.UpdateOrderStatus)
	}
	apiGroup.PUT("/order-items/:id/status", orderHandler.UpdateOrderItemStatus)
}

// SetupStaffRoutes sets up the staff directory routes.
func SetupStaffRoutes(apiGroup *gin.RouterGroup, staffHandler *handlers.StaffHandler) {
	staffRoutes := apiGroup.Group("/staff")
	{
		staffRoutes.GET("", staffHandler.GetStaff)
		staffRoutes.POST("", staffHandler.CreateStaff)
		staffRoutes.DELETE("/:id", staffHandler.DeleteStaff)
	}
}
