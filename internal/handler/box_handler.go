package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/internal/listing"
	"hyroxbox-directory/pkg/model"
)

// BoxHandler handles box-related HTTP requests
type BoxHandler struct {
	boxes  BoxStore
	logger *zap.Logger
}

// NewBoxHandler creates a new box handler
func NewBoxHandler(boxes BoxStore, logger *zap.Logger) *BoxHandler {
	return &BoxHandler{boxes: boxes, logger: logger}
}

// PaginationMeta describes the page returned by the public box listing
type PaginationMeta struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
	StartItem  int `json:"start_item"`
	EndItem    int `json:"end_item"`
}

// BoxPage is one page of the public box listing
type BoxPage struct {
	Boxes      []model.BoxWithRegion `json:"boxes"`
	Pagination PaginationMeta        `json:"pagination"`
}

func newPaginationMeta(p listing.Page) PaginationMeta {
	return PaginationMeta{
		Page:       p.Number,
		PageSize:   p.Size,
		TotalItems: p.TotalItems,
		TotalPages: p.TotalPages,
		StartItem:  p.StartItem(),
		EndItem:    p.EndItem(),
	}
}

// ListBoxes handles GET /api/boxes?regions=&search=&page=
func (h *BoxHandler) ListBoxes(c *gin.Context) {
	filter := listing.ParseFilter(c.Request.URL.Query())

	boxes, err := h.boxes.List(c.Request.Context(), hyroxbox.ListParams{
		RegionIDs: filter.RegionIDs,
		Search:    filter.Search,
	})
	if err != nil {
		respondError(c, h.logger, "list boxes", err)
		return
	}

	page := listing.Paginate(len(boxes), filter.Page, listing.PageSize)
	c.JSON(http.StatusOK, BoxPage{
		Boxes:      listing.Slice(boxes, page),
		Pagination: newPaginationMeta(page),
	})
}

// GetBox handles GET /api/boxes/:id
func (h *BoxHandler) GetBox(c *gin.Context) {
	id, ok := paramID(c, "box")
	if !ok {
		return
	}

	box, err := h.boxes.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get box", err)
		return
	}
	c.JSON(http.StatusOK, box)
}

// ListAllBoxes handles GET /api/admin/boxes
func (h *BoxHandler) ListAllBoxes(c *gin.Context) {
	boxes, err := h.boxes.List(c.Request.Context(), hyroxbox.ListParams{})
	if err != nil {
		respondError(c, h.logger, "list boxes", err)
		return
	}
	c.JSON(http.StatusOK, FilterBoxes(boxes, c.Query("search")))
}

// CreateBox handles POST /api/admin/boxes
func (h *BoxHandler) CreateBox(c *gin.Context) {
	var req model.BoxCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	box, err := h.boxes.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "create box", err)
		return
	}

	h.logger.Info("box created", zap.Int("id", box.ID), zap.Int("region_id", box.RegionID))
	c.JSON(http.StatusCreated, box)
}

// UpdateBox handles PUT /api/admin/boxes/:id
func (h *BoxHandler) UpdateBox(c *gin.Context) {
	id, ok := paramID(c, "box")
	if !ok {
		return
	}

	var req model.BoxUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	box, err := h.boxes.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "update box", err)
		return
	}

	c.JSON(http.StatusOK, box)
}

// DeleteBox handles DELETE /api/admin/boxes/:id
func (h *BoxHandler) DeleteBox(c *gin.Context) {
	id, ok := paramID(c, "box")
	if !ok {
		return
	}

	if err := h.boxes.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete box", err)
		return
	}

	h.logger.Info("box deleted", zap.Int("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "HyroxBox deleted successfully"})
}
