package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/application/service"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/response"
)

// ClassHandler handles class HTTP requests
type ClassHandler struct {
	classService *service.ClassService
	jobService   *service.PrintJobService
}

// NewClassHandler creates a new class handler
func NewClassHandler(classService *service.ClassService, jobService *service.PrintJobService) *ClassHandler {
	return &ClassHandler{classService: classService, jobService: jobService}
}

// List handles listing classes by name
func (h *ClassHandler) List(c *gin.Context) {
	classes, err := h.classService.ListClasses(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Classes retrieved successfully", classes)
}

// Create handles creating a class
func (h *ClassHandler) Create(c *gin.Context) {
	var req request.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	class, err := h.classService.CreateClass(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Class created successfully", class)
}

// Get handles getting a single class
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.classService.GetClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class retrieved successfully", class)
}

// Update handles renaming a class. Recorded jobs keep the old name.
func (h *ClassHandler) Update(c *gin.Context) {
	var req request.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	class, err := h.classService.RenameClass(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class updated successfully", class)
}

// Delete handles deleting a class, warning when it still had a balance
func (h *ClassHandler) Delete(c *gin.Context) {
	removed, err := h.classService.DeleteClass(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	data := gin.H{"class": removed}
	if removed.HasOutstandingBalance() {
		data["warning"] = "Class had an unpaid balance of " + removed.TotalUnpaid.StringFixed(2) +
			"; its jobs keep the class name"
	}
	response.OK(c, "Class deleted successfully", data)
}

// Settle marks every unpaid job of the class as paid
func (h *ClassHandler) Settle(c *gin.Context) {
	ctx := c.Request.Context()

	class, err := h.classService.GetClass(ctx, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.jobService.SettleClass(ctx, class.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Class settled successfully", result)
}

// UnpaidAlerts lists classes over the unpaid threshold
func (h *ClassHandler) UnpaidAlerts(c *gin.Context) {
	alerts, err := h.classService.UnpaidAlerts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Unpaid alerts retrieved successfully", alerts)
}
