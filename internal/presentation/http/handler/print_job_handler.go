package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/application/service"
	"github.com/sangkips/printshop-api/internal/domain/entity"
	"github.com/sangkips/printshop-api/internal/domain/enum"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/response"
	"github.com/sangkips/printshop-api/pkg/pagination"
)

// PrintJobHandler handles print job HTTP requests
type PrintJobHandler struct {
	jobService      *service.PrintJobService
	settingsService *service.SettingsService
	location        *time.Location
}

// NewPrintJobHandler creates a new print job handler
func NewPrintJobHandler(jobService *service.PrintJobService, settingsService *service.SettingsService, loc *time.Location) *PrintJobHandler {
	if loc == nil {
		loc = time.Local
	}
	return &PrintJobHandler{jobService: jobService, settingsService: settingsService, location: loc}
}

// bindJob binds and validates a job body. It writes the error response itself
// and returns nil when the request is rejected.
func bindJob(c *gin.Context) (*request.PrintJobRequest, *service.PrintJobInput) {
	var req request.PrintJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return nil, nil
	}

	printType, errs := req.Validate()
	if len(errs) > 0 {
		response.ValidationError(c, errs)
		return nil, nil
	}

	return &req, &service.PrintJobInput{
		ClassName:       req.ClassName,
		TeacherName:     req.TeacherName,
		DocumentType:    req.DocumentType,
		PrintType:       printType,
		Pages:           req.Pages,
		RectoPages:      req.RectoPages,
		RectoVersoPages: req.RectoVersoPages,
		Copies:          req.Copies,
		Paid:            req.Paid,
		Notes:           req.Notes,
	}
}

func candidateOf(input *service.PrintJobInput) service.DuplicateCandidate {
	return service.DuplicateCandidate{
		ClassName: input.ClassName,
		Pages:     service.TotalPages(input.PrintType, input.Pages, input.RectoPages, input.RectoVersoPages),
		Copies:    input.Copies,
		PrintType: input.PrintType,
	}
}

// Create records a job. When the duplicate check is enabled and flags a
// recent match, the job is only recorded if confirmDuplicate is set.
func (h *PrintJobHandler) Create(c *gin.Context) {
	req, input := bindJob(c)
	if input == nil {
		return
	}
	ctx := c.Request.Context()

	if !req.ConfirmDuplicate {
		settings, err := h.settingsService.GetSettings(ctx)
		if err != nil {
			response.Error(c, err)
			return
		}
		if settings.DuplicateCheckEnabled {
			dup, err := h.jobService.CheckDuplicate(ctx, candidateOf(input))
			if err != nil {
				response.Error(c, err)
				return
			}
			if dup != nil {
				response.ErrorWithData(c, http.StatusConflict,
					"A matching job was recorded moments ago. Resend with confirmDuplicate to record it anyway",
					gin.H{"duplicate": dup})
				return
			}
		}
	}

	job, err := h.jobService.Add(ctx, input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Print job created successfully", job)
}

// CheckDuplicate reports whether a draft looks like a recent job
func (h *PrintJobHandler) CheckDuplicate(c *gin.Context) {
	_, input := bindJob(c)
	if input == nil {
		return
	}

	dup, err := h.jobService.CheckDuplicate(c.Request.Context(), candidateOf(input))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Duplicate check completed", gin.H{
		"isDuplicate": dup != nil,
		"duplicate":   dup,
	})
}

// Quote prices a draft without recording it
func (h *PrintJobHandler) Quote(c *gin.Context) {
	_, input := bindJob(c)
	if input == nil {
		return
	}
	ctx := c.Request.Context()

	price, err := h.jobService.Quote(ctx, input)
	if err != nil {
		response.Error(c, err)
		return
	}
	settings, err := h.settingsService.GetSettings(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Price calculated", gin.H{
		"totalPrice": price,
		"currency":   settings.Currency,
		"printType":  input.PrintType,
		"pages":      service.TotalPages(input.PrintType, input.Pages, input.RectoPages, input.RectoVersoPages),
		"copies":     input.Copies,
	})
}

// List handles listing jobs, newest first
func (h *PrintJobHandler) List(c *gin.Context) {
	var req request.PrintJobFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	from, to, err := parseDateRange(request.DateRangeRequest{From: req.From, To: req.To}, h.location)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	filter := &service.PrintJobFilter{
		ClassName:    req.ClassName,
		TeacherName:  req.TeacherName,
		DocumentType: req.DocumentType,
		From:         from,
		To:           to,
		Search:       req.Search,
		Pagination: &pagination.PaginationParams{
			Page:    req.Page,
			PerPage: req.PerPage,
		},
	}
	if req.Paid != "" {
		paid := req.Paid == "true"
		filter.Paid = &paid
	}

	result, err := h.jobService.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Print jobs retrieved successfully", result)
}

// Get handles getting a single job
func (h *PrintJobHandler) Get(c *gin.Context) {
	job, err := h.jobService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Print job retrieved successfully", job)
}

// Update replaces the mutable fields of a job
func (h *PrintJobHandler) Update(c *gin.Context) {
	_, input := bindJob(c)
	if input == nil {
		return
	}

	job, err := h.jobService.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Print job updated successfully", job)
}

// SetPaid sets the paid flag from the body, or toggles it when none is sent
func (h *PrintJobHandler) SetPaid(c *gin.Context) {
	var req request.SetPaidRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var (
		job *entity.PrintJob
		err error
	)
	if req.Paid != nil {
		job, err = h.jobService.SetPaid(c.Request.Context(), c.Param("id"), *req.Paid)
	} else {
		job, err = h.jobService.TogglePaid(c.Request.Context(), c.Param("id"))
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment status updated successfully", job)
}

// Delete handles deleting a job
func (h *PrintJobHandler) Delete(c *gin.Context) {
	if _, err := h.jobService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// PrintTypes lists the accepted print types
func (h *PrintJobHandler) PrintTypes(c *gin.Context) {
	types := make([]gin.H, 0, len(enum.PrintTypes))
	for _, pt := range enum.PrintTypes {
		types = append(types, gin.H{"value": pt, "label": pt.Label()})
	}
	response.OK(c, "Print types retrieved successfully", types)
}
