package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/application/service"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/response"
)

// TeacherHandler handles teacher HTTP requests
type TeacherHandler struct {
	teacherService *service.TeacherService
}

// NewTeacherHandler creates a new teacher handler
func NewTeacherHandler(teacherService *service.TeacherService) *TeacherHandler {
	return &TeacherHandler{teacherService: teacherService}
}

// List handles listing teachers
func (h *TeacherHandler) List(c *gin.Context) {
	teachers, err := h.teacherService.ListTeachers(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Teachers retrieved successfully", teachers)
}

// Create handles creating a teacher
func (h *TeacherHandler) Create(c *gin.Context) {
	var req request.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	teacher, err := h.teacherService.CreateTeacher(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Teacher created successfully", teacher)
}

// Update handles renaming a teacher
func (h *TeacherHandler) Update(c *gin.Context) {
	var req request.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	teacher, err := h.teacherService.RenameTeacher(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Teacher updated successfully", teacher)
}

// Delete handles deleting a teacher
func (h *TeacherHandler) Delete(c *gin.Context) {
	if err := h.teacherService.DeleteTeacher(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DocumentTypeHandler handles document type HTTP requests
type DocumentTypeHandler struct {
	docTypeService *service.DocumentTypeService
}

// NewDocumentTypeHandler creates a new document type handler
func NewDocumentTypeHandler(docTypeService *service.DocumentTypeService) *DocumentTypeHandler {
	return &DocumentTypeHandler{docTypeService: docTypeService}
}

// List handles listing document types
func (h *DocumentTypeHandler) List(c *gin.Context) {
	docTypes, err := h.docTypeService.ListDocumentTypes(c.Request.Context(), c.Query("search"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document types retrieved successfully", docTypes)
}

// Create handles creating a document type
func (h *DocumentTypeHandler) Create(c *gin.Context) {
	var req request.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	docType, err := h.docTypeService.CreateDocumentType(c.Request.Context(), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Document type created successfully", docType)
}

// Update handles renaming a document type
func (h *DocumentTypeHandler) Update(c *gin.Context) {
	var req request.NameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	docType, err := h.docTypeService.RenameDocumentType(c.Request.Context(), c.Param("id"), req.Name)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Document type updated successfully", docType)
}

// Delete handles deleting a document type
func (h *DocumentTypeHandler) Delete(c *gin.Context) {
	if err := h.docTypeService.DeleteDocumentType(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
