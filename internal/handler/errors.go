package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/pkg/model"
)

// RegionStore is the region storage used by the handlers
type RegionStore interface {
	List(ctx context.Context) ([]model.Region, error)
	Get(ctx context.Context, id int) (*model.Region, error)
	ListWithCounts(ctx context.Context) ([]model.RegionWithCount, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, req model.RegionCreateRequest) (*model.Region, error)
	Update(ctx context.Context, id int, req model.RegionUpdateRequest) (*model.Region, error)
	Delete(ctx context.Context, id int) error
}

// BoxStore is the box storage used by the handlers
type BoxStore interface {
	List(ctx context.Context, params hyroxbox.ListParams) ([]model.BoxWithRegion, error)
	Get(ctx context.Context, id int) (*model.BoxWithRegion, error)
	Count(ctx context.Context, regionID *int) (int, error)
	Create(ctx context.Context, req model.BoxCreateRequest) (*model.Box, error)
	Update(ctx context.Context, id int, req model.BoxUpdateRequest) (*model.Box, error)
	Delete(ctx context.Context, id int) error
}

// Messages shown in the admin console for store errors
const (
	msgRegionNotFound   = "Region not found"
	msgBoxNotFound      = "HyroxBox not found"
	msgRegionCodeExists = "Region code already exists"
	msgRegionInUse      = "Cannot delete region with associated HyroxBoxes. Please delete or reassign them first."
)

// errorStatus maps a store error to an HTTP status and user-facing message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, model.ErrRegionNotFound):
		return http.StatusNotFound, msgRegionNotFound
	case errors.Is(err, model.ErrBoxNotFound):
		return http.StatusNotFound, msgBoxNotFound
	case errors.Is(err, model.ErrRegionCodeExists):
		return http.StatusConflict, msgRegionCodeExists
	case errors.Is(err, model.ErrRegionInUse):
		return http.StatusConflict, msgRegionInUse
	case errors.Is(err, model.ErrRegionReference):
		return http.StatusBadRequest, msgRegionNotFound
	case errors.Is(err, model.ErrInvalidField):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes err as a JSON error. Unexpected errors are logged and
// replaced by a generic message.
func respondError(c *gin.Context, logger *zap.Logger, action string, err error) {
	status, message := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error(action+" failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		c.Error(err)
	}
	c.JSON(status, gin.H{"error": message})
}

// paramID parses the :id path parameter, writing a 400 on failure
func paramID(c *gin.Context, entity string) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + entity + " ID"})
		return 0, false
	}
	return id, true
}
