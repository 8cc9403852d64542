package handler

import (
	"fmt"
	"io"
	"net/http"

	"consumables/internal/middleware"
	"consumables/internal/service"
	"consumables/pkg/pagination"
	"consumables/pkg/response"

	"github.com/gin-gonic/gin"
)

// maxCatalogUpload bounds the size of an uploaded catalog file
const maxCatalogUpload = 10 << 20

type CatalogHandler struct {
	catalogService service.CatalogService
	requireAdmin   gin.HandlerFunc
	maxUpload      int64
}

func NewCatalogHandler(catalogService service.CatalogService, requireAdmin gin.HandlerFunc) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, requireAdmin: requireAdmin, maxUpload: maxCatalogUpload}
}

func (h *CatalogHandler) RegisterRoutes(router *gin.RouterGroup) {
	items := router.Group("/api/items")
	{
		items.GET("", h.ListItems)
		items.GET("/meta", h.GetMeta)
		items.POST("", h.requireAdmin, h.CreateItem)
		items.POST("/import", h.requireAdmin, h.ImportCSV)
	}
}

// ListItems returns a page of the catalog
// @Summary      List catalog items
// @Description  Retrieves a paginated list of consumable items, optionally filtered by id, name, supplier or specification
// @Tags         catalog
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        search  query     string  false  "Case-insensitive search term"
// @Success      200     {object}  response.Response{data=response.Page{items=[]model.ConsumableItem}}
// @Failure      500     {object}  response.Response
// @Router       /api/items [get]
func (h *CatalogHandler) ListItems(c *gin.Context) {
	p := pagination.Parse(c)

	items, total, err := h.catalogService.ListItems(c.Request.Context(), p.Page, p.Limit, c.Query("search"))
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Paginated(http.StatusOK, items, total, p.Page, p.Limit))
}

// GetMeta reports catalog size and when it was last imported
// @Summary      Catalog metadata
// @Tags         catalog
// @Produce      json
// @Success      200  {object}  response.Response{data=service.CatalogMeta}
// @Failure      500  {object}  response.Response
// @Router       /api/items/meta [get]
func (h *CatalogHandler) GetMeta(c *gin.Context) {
	meta, err := h.catalogService.GetMeta(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, meta))
}

// CreateItem adds a single catalog entry
// @Summary      Add catalog item
// @Description  Adds one item. Ids are unique regardless of letter case.
// @Tags         catalog
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateItemRequest  true  "Item"
// @Success      201      {object}  response.Response{data=model.ConsumableItem}
// @Failure      400      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/items [post]
func (h *CatalogHandler) CreateItem(c *gin.Context) {
	var req service.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	item, err := h.catalogService.CreateItem(c.Request.Context(), middleware.Actor(c), req)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ImportCSV loads the master catalog from an uploaded CSV file
// @Summary      Import catalog CSV
// @Description  Columns: id, supplier, name, specification, unit, price. The first line is a header. Invalid rows are skipped.
// @Tags         catalog
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file    true   "Catalog CSV"
// @Param        mode  query     string  false  "replace (default) or upsert"
// @Success      200   {object}  response.Response{data=service.ImportResult}
// @Failure      400   {object}  response.Response
// @Failure      413   {object}  response.Response
// @Router       /api/items/import [post]
func (h *CatalogHandler) ImportCSV(c *gin.Context) {
	mode, err := service.ParseImportMode(c.Query("mode"))
	if err != nil {
		fail(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "A CSV file is required in the 'file' field")
		return
	}
	if fh.Size > h.maxUpload {
		h.tooLarge(c)
		return
	}
	f, err := fh.Open()
	if err != nil {
		badRequest(c, "Failed to open upload: "+err.Error())
		return
	}
	defer f.Close()

	raw, err := io.ReadAll(io.LimitReader(f, h.maxUpload+1))
	if err != nil {
		badRequest(c, "Failed to read upload: "+err.Error())
		return
	}
	if int64(len(raw)) > h.maxUpload {
		h.tooLarge(c)
		return
	}

	res, err := h.catalogService.ImportCSV(c.Request.Context(), middleware.Actor(c), string(raw), mode)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, res))
}

func (h *CatalogHandler) tooLarge(c *gin.Context) {
	msg := fmt.Sprintf("Catalog file exceeds %d bytes", h.maxUpload)
	c.JSON(http.StatusRequestEntityTooLarge, response.Error(http.StatusRequestEntityTooLarge, msg))
}
