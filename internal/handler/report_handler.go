package handler

import (
	"net/http"
	"strconv"
	"time"

	"consumables/internal/service"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReportHandler struct {
	reportService service.ReportService
	requireAdmin  gin.HandlerFunc
	loc           *time.Location
}

func NewReportHandler(reportService service.ReportService, requireAdmin gin.HandlerFunc, loc *time.Location) *ReportHandler {
	return &ReportHandler{reportService: reportService, requireAdmin: requireAdmin, loc: loc}
}

func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/api/reports")
	reports.Use(h.requireAdmin)
	{
		reports.GET("/aggregate", h.Aggregate)
		reports.GET("/export", h.Export)
		reports.GET("/trends", h.Trends)
	}
}

// Aggregate groups a window's requests by item and delivery date
// @Summary      Aggregated requests
// @Description  Per item and desired delivery date totals with per-line and per-equipment breakdowns
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        period  query     string  false  "week (default) or month"
// @Param        date    query     string  false  "Reference date YYYY-MM-DD (default today)"
// @Success      200     {object}  response.Response{data=service.AggregateResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/reports/aggregate [get]
func (h *ReportHandler) Aggregate(c *gin.Context) {
	kind, ref, ok := windowQuery(c, h.loc, time.Now())
	if !ok {
		return
	}

	res, err := h.reportService.Aggregate(c.Request.Context(), kind, ref)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// Export downloads the aggregation as CSV
// @Summary      Export aggregated requests
// @Description  UTF-8 CSV with BOM. Responds 204 when the window has no rows.
// @Tags         reports
// @Security     BearerAuth
// @Produce      text/csv
// @Param        period     query  string  false  "week (default) or month"
// @Param        date       query  string  false  "Reference date YYYY-MM-DD (default today)"
// @Param        equipment  query  bool    false  "Include the per-equipment breakdown column"
// @Success      200
// @Success      204
// @Failure      400  {object}  response.Response
// @Router       /api/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	kind, ref, ok := windowQuery(c, h.loc, time.Now())
	if !ok {
		return
	}
	withEquipment, _ := strconv.ParseBool(c.DefaultQuery("equipment", "false"))

	file, err := h.reportService.Export(c.Request.Context(), kind, ref, withEquipment)
	if err != nil {
		fail(c, err)
		return
	}
	if len(file.Data) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.FileName+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Data)
}

// Trends summarizes spend over the whole request log
// @Summary      Spend trends
// @Tags         reports
// @Security     BearerAuth
// @Produce      json
// @Param        top  query     int  false  "Number of top items (default 10)"
// @Success      200  {object}  response.Response{data=report.Trends}
// @Router       /api/reports/trends [get]
func (h *ReportHandler) Trends(c *gin.Context) {
	top, err := strconv.Atoi(c.DefaultQuery("top", "10"))
	if err != nil || top < 0 {
		badRequest(c, "top must be a non-negative integer")
		return
	}

	res, err := h.reportService.Trends(c.Request.Context(), top)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}
