package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/printshop-api/internal/application/service"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/request"
	"github.com/sangkips/printshop-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles reports and history exports
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ExportService
	location      *time.Location
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, exportService *service.ExportService, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.Local
	}
	return &ReportHandler{reportService: reportService, exportService: exportService, location: loc}
}

func (h *ReportHandler) bindRange(c *gin.Context) (from, to *time.Time, ok bool) {
	var req request.DateRangeRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return nil, nil, false
	}
	from, to, err := parseDateRange(req, h.location)
	if err != nil {
		response.BadRequest(c, err.Error())
		return nil, nil, false
	}
	return from, to, true
}

// Summary returns revenue and volume totals for a period
func (h *ReportHandler) Summary(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Summary retrieved successfully", summary)
}

// BalanceAudit compares stored class balances with their unpaid jobs
func (h *ReportHandler) BalanceAudit(c *gin.Context) {
	audit, err := h.reportService.BalanceAudit(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Balance audit completed", audit)
}

// ExportCSV sends the job history as CSV
func (h *ReportHandler) ExportCSV(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteCSV(c.Request.Context(), &buf, &service.PrintJobFilter{From: from, To: to}); err != nil {
		response.Error(c, err)
		return
	}

	h.attachment(c, "csv")
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportXLSX sends the job history and class balances as a workbook
func (h *ReportHandler) ExportXLSX(c *gin.Context) {
	from, to, ok := h.bindRange(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.exportService.WriteXLSX(c.Request.Context(), &buf, &service.PrintJobFilter{From: from, To: to}); err != nil {
		response.Error(c, err)
		return
	}

	h.attachment(c, "xlsx")
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) attachment(c *gin.Context, ext string) {
	filename := fmt.Sprintf("print-jobs-%s.%s", time.Now().In(h.location).Format("20060102"), ext)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
}
