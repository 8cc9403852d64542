package handler

import (
	"net/http"

	"consumables/internal/middleware"
	"consumables/internal/model"
	"consumables/internal/service"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

type ReferenceHandler struct {
	referenceService service.ReferenceService
	requireAdmin     gin.HandlerFunc
}

func NewReferenceHandler(referenceService service.ReferenceService, requireAdmin gin.HandlerFunc) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, requireAdmin: requireAdmin}
}

func (h *ReferenceHandler) RegisterRoutes(router *gin.RouterGroup) {
	lines := router.Group("/api/lines")
	{
		lines.GET("", h.ListLines)
		lines.POST("", h.requireAdmin, h.AddLine)
		lines.DELETE("/:name", h.requireAdmin, h.RemoveLine)
	}

	codes := router.Group("/api/equipment-codes")
	{
		codes.GET("", h.ListEquipmentCodes)
		codes.POST("", h.requireAdmin, h.AddEquipmentCode)
		codes.DELETE("/:code", h.requireAdmin, h.RemoveEquipmentCode)
	}
}

func (h *ReferenceHandler) list(c *gin.Context, kind string) {
	values, err := h.referenceService.List(c.Request.Context(), kind)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, values))
}

func (h *ReferenceHandler) add(c *gin.Context, kind string) {
	var req service.ReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	value, err := h.referenceService.Add(c.Request.Context(), middleware.Actor(c), kind, req.Value)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, gin.H{"value": value}))
}

func (h *ReferenceHandler) remove(c *gin.Context, kind, value string) {
	if err := h.referenceService.Remove(c.Request.Context(), middleware.Actor(c), kind, value); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{"message": "deleted"}))
}

// ListLines
// @Summary      List production lines
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/lines [get]
func (h *ReferenceHandler) ListLines(c *gin.Context) { h.list(c, model.RefKindLine) }

// AddLine
// @Summary      Add production line
// @Tags         reference
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ReferenceRequest  true  "Line name"
// @Success      201      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/lines [post]
func (h *ReferenceHandler) AddLine(c *gin.Context) { h.add(c, model.RefKindLine) }

// RemoveLine
// @Summary      Delete production line
// @Tags         reference
// @Security     BearerAuth
// @Produce      json
// @Param        name  path      string  true  "Line name"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /api/lines/{name} [delete]
func (h *ReferenceHandler) RemoveLine(c *gin.Context) {
	h.remove(c, model.RefKindLine, c.Param("name"))
}

// ListEquipmentCodes
// @Summary      List equipment codes
// @Tags         reference
// @Produce      json
// @Success      200  {object}  response.Response{data=[]string}
// @Router       /api/equipment-codes [get]
func (h *ReferenceHandler) ListEquipmentCodes(c *gin.Context) { h.list(c, model.RefKindEquipmentCode) }

// AddEquipmentCode
// @Summary      Add equipment code
// @Tags         reference
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ReferenceRequest  true  "Equipment code"
// @Success      201      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/equipment-codes [post]
func (h *ReferenceHandler) AddEquipmentCode(c *gin.Context) { h.add(c, model.RefKindEquipmentCode) }

// RemoveEquipmentCode
// @Summary      Delete equipment code
// @Tags         reference
// @Security     BearerAuth
// @Produce      json
// @Param        code  path      string  true  "Equipment code"
// @Success      200   {object}  response.Response
// @Failure      404   {object}  response.Response
// @Router       /api/equipment-codes/{code} [delete]
func (h *ReferenceHandler) RemoveEquipmentCode(c *gin.Context) {
	h.remove(c, model.RefKindEquipmentCode, c.Param("code"))
}
