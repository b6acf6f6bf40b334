package region

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hyroxbox-directory/internal/database"
	"hyroxbox-directory/pkg/model"

	"github.com/jmoiron/sqlx"
)

const regionColumns = "id, code, name, description, created_at, updated_at"

// RegionService handles region operations
type RegionService struct {
	db *sqlx.DB
}

// NewRegionService creates a new region service
func NewRegionService(db *sqlx.DB) *RegionService {
	return &RegionService{db: db}
}

// List returns all regions ordered by name
func (s *RegionService) List(ctx context.Context) ([]model.Region, error) {
	regions := []model.Region{}
	err := s.db.SelectContext(ctx, &regions, "SELECT "+regionColumns+" FROM regions ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error listing regions: %w", err)
	}
	return regions, nil
}

// Get returns a single region by ID
func (s *RegionService) Get(ctx context.Context, id int) (*model.Region, error) {
	var region model.Region
	err := s.db.GetContext(ctx, &region, "SELECT "+regionColumns+" FROM regions WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRegionNotFound
		}
		return nil, fmt.Errorf("error getting region %d: %w", id, err)
	}
	return &region, nil
}

// ListWithCounts returns all regions with the number of boxes in each
func (s *RegionService) ListWithCounts(ctx context.Context) ([]model.RegionWithCount, error) {
	regions := []model.RegionWithCount{}
	err := s.db.SelectContext(ctx, &regions, `
        SELECT r.id, r.code, r.name, r.description, r.created_at, r.updated_at,
               COUNT(b.id) AS box_count
        FROM regions r
        LEFT JOIN hyroxbox b ON b.region_id = r.id
        GROUP BY r.id
        ORDER BY r.name
    `)
	if err != nil {
		return nil, fmt.Errorf("error listing regions with counts: %w", err)
	}
	return regions, nil
}

// Count returns the number of regions
func (s *RegionService) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM regions"); err != nil {
		return 0, fmt.Errorf("error counting regions: %w", err)
	}
	return count, nil
}

// Create adds a new region. The code must not be taken by another region.
func (s *RegionService) Create(ctx context.Context, req model.RegionCreateRequest) (*model.Region, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	exists, err := s.codeExists(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.ErrRegionCodeExists
	}

	var region model.Region
	err = s.db.QueryRowxContext(ctx, `
        INSERT INTO regions (code, name, description, created_at, updated_at)
        VALUES ($1, $2, $3, NOW(), NOW())
        RETURNING `+regionColumns,
		req.Code, req.Name, req.Description).StructScan(&region)
	if err != nil {
		// Lost a race against a concurrent insert of the same code
		if database.IsUniqueViolation(err) {
			return nil, model.ErrRegionCodeExists
		}
		return nil, fmt.Errorf("error creating region: %w", err)
	}

	return &region, nil
}

// Update applies a partial update to a region
func (s *RegionService) Update(ctx context.Context, id int, req model.RegionUpdateRequest) (*model.Region, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only re-check uniqueness when the code actually changes
	if req.Code != nil && *req.Code != existing.Code {
		exists, err := s.codeExists(ctx, *req.Code)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.ErrRegionCodeExists
		}
	}

	var set database.Assignments
	if req.Code != nil {
		set.Set("code", *req.Code)
	}
	if req.Name != nil {
		set.Set("name", *req.Name)
	}
	if req.Description.Set {
		set.Set("description", model.CleanString(req.Description.Value))
	}

	query, params := set.Statement("regions", id, regionColumns)

	var region model.Region
	err = s.db.QueryRowxContext(ctx, query, params...).StructScan(&region)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrRegionNotFound
		}
		if database.IsUniqueViolation(err) {
			return nil, model.ErrRegionCodeExists
		}
		return nil, fmt.Errorf("error updating region %d: %w", id, err)
	}

	return &region, nil
}

// Delete removes a region that no box references
func (s *RegionService) Delete(ctx context.Context, id int) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	var inUse bool
	err := s.db.GetContext(ctx, &inUse, "SELECT EXISTS(SELECT 1 FROM hyroxbox WHERE region_id = $1)", id)
	if err != nil {
		return fmt.Errorf("error checking boxes of region %d: %w", id, err)
	}
	if inUse {
		return model.ErrRegionInUse
	}

	_, err = s.db.ExecContext(ctx, "DELETE FROM regions WHERE id = $1", id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrRegionInUse
		}
		return fmt.Errorf("error deleting region %d: %w", id, err)
	}

	return nil
}

// Exists reports whether a region with the given ID exists
func (s *RegionService) Exists(ctx context.Context, id int) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM regions WHERE id = $1)", id)
	if err != nil {
		return false, fmt.Errorf("error checking region %d: %w", id, err)
	}
	return exists, nil
}

func (s *RegionService) codeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM regions WHERE code = $1)", code)
	if err != nil {
		return false, fmt.Errorf("error checking region code: %w", err)
	}
	return exists, nil
}
