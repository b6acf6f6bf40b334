package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hyroxbox-directory/pkg/model"
)

// RegionHandler handles region-related HTTP requests
type RegionHandler struct {
	regions RegionStore
	logger  *zap.Logger
}

// NewRegionHandler creates a new region handler
func NewRegionHandler(regions RegionStore, logger *zap.Logger) *RegionHandler {
	return &RegionHandler{regions: regions, logger: logger}
}

// ListRegions handles GET /api/regions
func (h *RegionHandler) ListRegions(c *gin.Context) {
	regions, err := h.regions.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list regions", err)
		return
	}
	c.JSON(http.StatusOK, regions)
}

// GetRegion handles GET /api/regions/:id
func (h *RegionHandler) GetRegion(c *gin.Context) {
	id, ok := paramID(c, "region")
	if !ok {
		return
	}

	region, err := h.regions.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get region", err)
		return
	}
	c.JSON(http.StatusOK, region)
}

// ListRegionsWithCounts handles GET /api/admin/regions
func (h *RegionHandler) ListRegionsWithCounts(c *gin.Context) {
	regions, err := h.regions.ListWithCounts(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "list regions", err)
		return
	}
	c.JSON(http.StatusOK, FilterRegions(regions, c.Query("search")))
}

// CreateRegion handles POST /api/admin/regions
func (h *RegionHandler) CreateRegion(c *gin.Context) {
	var req model.RegionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	region, err := h.regions.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "create region", err)
		return
	}

	h.logger.Info("region created", zap.Int("id", region.ID), zap.String("code", region.Code))
	c.JSON(http.StatusCreated, region)
}

// UpdateRegion handles PUT /api/admin/regions/:id
func (h *RegionHandler) UpdateRegion(c *gin.Context) {
	id, ok := paramID(c, "region")
	if !ok {
		return
	}

	var req model.RegionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	region, err := h.regions.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, h.logger, "update region", err)
		return
	}

	c.JSON(http.StatusOK, region)
}

// DeleteRegion handles DELETE /api/admin/regions/:id
func (h *RegionHandler) DeleteRegion(c *gin.Context) {
	id, ok := paramID(c, "region")
	if !ok {
		return
	}

	if err := h.regions.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, "delete region", err)
		return
	}

	h.logger.Info("region deleted", zap.Int("id", id))
	c.JSON(http.StatusOK, gin.H{"message": "Region deleted successfully"})
}
