package handler

import (
	"net/http"
	"time"

	"consumables/internal/middleware"
	"consumables/internal/service"
	"consumables/pkg/pagination"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	requestService service.RequestService
	requireAdmin   gin.HandlerFunc
	loc            *time.Location
}

func NewRequestHandler(requestService service.RequestService, requireAdmin gin.HandlerFunc, loc *time.Location) *RequestHandler {
	return &RequestHandler{requestService: requestService, requireAdmin: requireAdmin, loc: loc}
}

func (h *RequestHandler) RegisterRoutes(router *gin.RouterGroup) {
	requests := router.Group("/api/requests")
	{
		requests.POST("", h.Submit)
		requests.GET("", h.History)
		requests.PATCH("/:id", h.requireAdmin, h.UpdateQuantity)
		requests.DELETE("/:id", h.requireAdmin, h.Delete)
	}
}

// Submit files a cart as request logs
// @Summary      Submit request
// @Description  Creates one request log per cart line. The line and optional equipment code must be registered.
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        payload  body      service.SubmitRequest  true  "Cart"
// @Success      201      {object}  response.Response{data=[]model.RequestLog}
// @Failure      400      {object}  response.Response
// @Router       /api/requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	logs, err := h.requestService.Submit(c.Request.Context(), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, logs))
}

// History lists the requests filed within a week or month
// @Summary      Request history
// @Description  Requests within the window containing date, newest first, with prev/next navigation dates
// @Tags         requests
// @Produce      json
// @Param        period  query     string  false  "week (default) or month"
// @Param        date    query     string  false  "Reference date YYYY-MM-DD (default today)"
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 50)"
// @Success      200     {object}  response.Response{data=service.HistoryResponse}
// @Failure      400     {object}  response.Response
// @Router       /api/requests [get]
func (h *RequestHandler) History(c *gin.Context) {
	kind, ref, ok := windowQuery(c, h.loc, time.Now())
	if !ok {
		return
	}
	p := pagination.ParseWithDefault(c, 50)

	res, err := h.requestService.History(c.Request.Context(), kind, ref, p.Page, p.Limit)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

// UpdateQuantity changes a logged quantity and recomputes its cost
// @Summary      Edit request quantity
// @Tags         requests
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                         true  "Request log ID"
// @Param        payload  body      service.UpdateQuantityRequest  true  "New quantity"
// @Success      200      {object}  response.Response{data=model.RequestLog}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/requests/{id} [patch]
func (h *RequestHandler) UpdateQuantity(c *gin.Context) {
	var req service.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	entry, err := h.requestService.UpdateQuantity(c.Request.Context(), middleware.Actor(c), c.Param("id"), req.Quantity)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, entry))
}

// Delete removes a request log
// @Summary      Delete request
// @Tags         requests
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Request log ID"
// @Success      200  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /api/requests/{id} [delete]
func (h *RequestHandler) Delete(c *gin.Context) {
	if err := h.requestService.Delete(c.Request.Context(), middleware.Actor(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "deleted"}))
}
