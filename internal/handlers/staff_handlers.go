package handlers

import (
	"errors"
	"net/http"

	"github.com/keya254/smart-serve/internal/services"
	"github.com/keya254/smart-serve/pkg/utils"

	"github.com/gin-gonic/gin"
)

// StaffHandler holds the staff service.
type StaffHandler struct {
	staffService services.StaffService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(ss services.StaffService) *StaffHandler {
	return &StaffHandler{staffService: ss}
}

func (h *StaffHandler) GetStaff(c *gin.Context) {
	staff, err := h.staffService.GetStaff(c.Request.Context())
	if err != nil {
		utils.RespondInternalError(c, err, "Failed to fetch staff.")
		return
	}
	c.JSON(http.StatusOK, staff)
}

// CreateStaff handles the creation of a new staff member.
func (h *StaffHandler) CreateStaff(c *gin.Context) {
	var req services.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateStaff: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	staff, err := h.staffService.CreateStaff(c.Request.Context(), req)
	if err != nil {
		utils.LogError(err, "CreateStaff: Error from staffService.CreateStaff")
		if errors.Is(err, services.ErrStaffCodeConflict) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Access code is already in use.", err.Error()))
		} else if errors.Is(err, services.ErrStaffDataValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create staff member.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, staff)
}

// DeleteStaff removes a staff member. Deleting an unknown id still succeeds.
func (h *StaffHandler) DeleteStaff(c *gin.Context) {
	id := c.Param("id")
	if err := h.staffService.DeleteStaff(c.Request.Context(), id); err != nil {
		utils.RespondInternalError(c, err, "Failed to delete staff member.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
