package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/keya254/smart-serve/internal/models"
	"github.com/keya254/smart-serve/internal/realtime"
	"github.com/keya254/smart-serve/internal/services"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TableHandler serves the floor plan.
type TableHandler struct {
	tableService services.TableService
	notifier     realtime.Notifier
}

func NewTableHandler(ts services.TableService, n realtime.Notifier) *TableHandler {
	return &TableHandler{tableService: ts, notifier: n}
}

func (h *TableHandler) GetTables(c *gin.Context) {
	tables, err := h.tableService.GetTables(c.Request.Context())
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch tables.")
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *TableHandler) GetTableByID(c *gin.Context) {
	id := c.Param("id")
	table, err := h.tableService.GetTableByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, services.ErrTableNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", id))
			return
		}
		utils.RespondInternalError(c, err, "Failed to fetch table.")
		return
	}
	c.JSON(http.StatusOK, table)
}

func (h *TableHandler) CreateTable(c *gin.Context) {
	var req services.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateTable: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	table, err := h.tableService.CreateTable(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrTableNumberConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Table number already exists.", err.Error()))
			return
		}
		utils.RespondInternalError(c, err, "Failed to create table.")
		return
	}

	h.notifier.Notify(realtime.EventTablesUpdated)
	c.JSON(http.StatusCreated, table)
}

// UpdateTable applies a partial update; only fields present in the body change.
// A missing body is treated like {}.
func (h *TableHandler) UpdateTable(c *gin.Context) {
	id := c.Param("id")

	var update models.TableUpdate
	if err := c.ShouldBindJSON(&update); err != nil && !errors.Is(err, io.EOF) {
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	if err := h.tableService.UpdateTable(c.Request.Context(), id, update); err != nil {
		utils.LogError(err, "UpdateTable: Error from tableService.UpdateTable for ID "+id)
		switch {
		case errors.Is(err, services.ErrInvalidTableStatus), errors.Is(err, services.ErrValidation):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid table update.", err.Error()))
		case errors.Is(err, services.ErrTableNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Table not found.", id))
		default:
			utils.RespondInternalError(c, err, "Failed to update table.")
		}
		return
	}

	h.notifier.Notify(realtime.EventTablesUpdated)
	c.JSON(http.StatusOK, gin.H{"success": true})
}
