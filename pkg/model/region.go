package model

import (
	"strings"
	"time"
)

// Region represents a geographic grouping of boxes
type Region struct {
	ID          int       `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// RegionWithCount extends Region with the number of boxes assigned to it
type RegionWithCount struct {
	Region
	BoxCount int `db:"box_count" json:"box_count"`
}

// RegionCreateRequest represents the request to add a new region
type RegionCreateRequest struct {
	Code        string  `json:"code" form:"code" binding:"required,max=10"`
	Name        string  `json:"name" form:"name" binding:"required,max=50"`
	Description *string `json:"description" form:"description"`
}

// Normalize trims the request fields and turns blank optional fields into NULLs
func (r *RegionCreateRequest) Normalize() error {
	r.Code = strings.TrimSpace(r.Code)
	r.Name = strings.TrimSpace(r.Name)
	r.Description = CleanString(r.Description)
	return requireFields(field{"code", r.Code}, field{"name", r.Name})
}

// RegionUpdateRequest represents a partial region update.
// Nil fields are left untouched.
type RegionUpdateRequest struct {
	Code        *string          `json:"code" binding:"omitempty,min=1,max=10"`
	Name        *string          `json:"name" binding:"omitempty,min=1,max=50"`
	Description Nullable[string] `json:"description"`
}

// Normalize trims the request fields
func (r *RegionUpdateRequest) Normalize() error {
	var fields []field
	if r.Code != nil {
		code := strings.TrimSpace(*r.Code)
		r.Code = &code
		fields = append(fields, field{"code", code})
	}
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		fields = append(fields, field{"name", name})
	}
	return requireFields(fields...)
}

// DashboardStats summarizes the directory for the admin dashboard
type DashboardStats struct {
	TotalBoxes      int               `json:"total_boxes"`
	TotalRegions    int               `json:"total_regions"`
	AverageBoxes    string            `json:"average_boxes_per_region"`
	RegionBreakdown []RegionWithCount `json:"regions"`
}
