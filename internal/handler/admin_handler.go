package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/pkg/model"
)

// AdminHandler renders the admin console pages
type AdminHandler struct {
	boxes   BoxStore
	regions RegionStore
	logger  *zap.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(boxes BoxStore, regions RegionStore, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{boxes: boxes, regions: regions, logger: logger}
}

// Stats gathers the dashboard figures
func (h *AdminHandler) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var (
		total   int
		regions []model.RegionWithCount
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		total, err = h.boxes.Count(ctx, nil)
		return err
	})
	g.Go(func() error {
		var err error
		regions, err = h.regions.ListWithCounts(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &model.DashboardStats{
		TotalBoxes:      total,
		TotalRegions:    len(regions),
		AverageBoxes:    averagePerRegion(total, len(regions)),
		RegionBreakdown: regions,
	}, nil
}

// GetStats handles GET /api/admin/stats
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "dashboard stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.Stats(c.Request.Context())
	if err != nil {
		h.renderError(c, "dashboard", err)
		return
	}
	c.HTML(http.StatusOK, "admin_dashboard.html", gin.H{"Stats": stats})
}

// RegionsPage handles GET /admin/regions
func (h *AdminHandler) RegionsPage(c *gin.Context) {
	regions, err := h.regions.ListWithCounts(c.Request.Context())
	if err != nil {
		h.renderError(c, "regions page", err)
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	c.HTML(http.StatusOK, "admin_regions.html", gin.H{
		"Regions": FilterRegions(regions, search),
		"Total":   len(regions),
		"Search":  search,
	})
}

// BoxesPage handles GET /admin/boxes
func (h *AdminHandler) BoxesPage(c *gin.Context) {
	var (
		boxes   []model.BoxWithRegion
		regions []model.Region
	)

	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		boxes, err = h.boxes.List(ctx, hyroxbox.ListParams{})
		return err
	})
	g.Go(func() error {
		var err error
		regions, err = h.regions.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(c, "boxes page", err)
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	c.HTML(http.StatusOK, "admin_boxes.html", gin.H{
		"Boxes":   FilterBoxes(boxes, search),
		"Regions": regions,
		"Total":   len(boxes),
		"Search":  search,
	})
}

func (h *AdminHandler) renderError(c *gin.Context, page string, err error) {
	h.logger.Error("render "+page+" failed", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
	c.Error(err)
	c.String(http.StatusInternalServerError, "Failed to load "+page)
}

// averagePerRegion formats total/regions with one decimal, "0" without regions
func averagePerRegion(total, regions int) string {
	if regions == 0 {
		return "0"
	}
	return fmt.Sprintf("%.1f", float64(total)/float64(regions))
}
