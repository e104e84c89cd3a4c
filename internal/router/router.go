package router

import (
	"database/sql"
	"net/http"

	"github.com/keya254/smart-serve/internal/handlers"
	"github.com/keya254/smart-serve/internal/middleware"
	"github.com/keya254/smart-serve/internal/realtime"
	"github.com/keya254/smart-serve/internal/repositories"
	"github.com/keya254/smart-serve/internal/services"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewEngine builds the gin engine with recovery, request ids, request logging
// and CORS for allowedOrigins.
func NewEngine(allowedOrigins []string) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(utils.GinLogger())

	config := cors.DefaultConfig()
	config.AllowOrigins = allowedOrigins
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", middleware.RequestIDHeader}
	config.ExposeHeaders = []string{middleware.RequestIDHeader}
	engine.Use(cors.New(config))

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	engine.NoRoute(func(c *gin.Context) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "API endpoint not found", c.Request.URL.Path))
	})
	return engine
}

// Setup wires repositories, services and handlers and registers every route.
// Successful writes are reported to notifier; hub serves /ws.
func Setup(engine *gin.Engine, db *sql.DB, hub *realtime.Hub, notifier realtime.Notifier) {
	// Initialize Repositories
	menuRepo := repositories.NewMenuRepository(db)
	tableRepo := repositories.NewTableRepository(db)
	orderRepo := repositories.NewOrderRepository(db)
	staffRepo := repositories.NewStaffRepository(db)

	// Initialize Services
	menuService := services.NewMenuService(menuRepo, db)
	tableService := services.NewTableService(tableRepo, db)
	orderService := services.NewOrderService(orderRepo, tableRepo, menuRepo, db)
	staffService := services.NewStaffService(staffRepo, db)

	// Initialize Handlers
	menuHandler := handlers.NewMenuHandler(menuService, notifier)
	tableHandler := handlers.NewTableHandler(tableService, notifier)
	orderHandler := handlers.NewOrderHandler(orderService, notifier)
	staffHandler := handlers.NewStaffHandler(staffService)

	api := engine.Group("/api")
	SetupMenuRoutes(api, menuHandler)
	SetupTableRoutes(api, tableHandler)
	SetupOrderRoutes(api, orderHandler)
	SetupStaffRoutes(api, staffHandler)

	if hub != nil {
		engine.GET("/ws", hub.ServeWS)
	}
}
