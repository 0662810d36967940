package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/fitify-app/fitify-api/internal/service"
	"github.com/fitify-app/fitify-api/pkg/response"
)

// ReportHandler exposes downloadable admin reports.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// BalanceReport godoc
// @Summary Export the balance overview
// @Tags Reports
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Param last query int false "Number of recent payments"
// @Success 200 {file} binary
// @Router /admin/balance/export [get]
func (h *ReportHandler) BalanceReport(c *gin.Context) {
	format := service.ReportFormat(c.DefaultQuery("format", "csv"))
	lastN, _ := strconv.Atoi(c.DefaultQuery("last", "6"))

	report, err := h.reports.BalanceReport(c.Request.Context(), format, lastN)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.Filename+`"`)
	c.Data(200, report.ContentType, report.Data)
}
