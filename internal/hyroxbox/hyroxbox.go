package hyroxbox

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"hyroxbox-directory/internal/database"
	"hyroxbox-directory/pkg/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Columns of the hyroxbox table, used in RETURNING clauses
const boxColumns = `id, name, description, address, contact_info, instagram_id, price,
        non_member_price, popularity, features, naver_map_url, region_id, created_at, updated_at`

// Columns of a box joined with its region
const boxWithRegionColumns = `b.id, b.name, b.description, b.address, b.contact_info, b.instagram_id, b.price,
        b.non_member_price, b.popularity, b.features, b.naver_map_url, b.region_id, b.created_at, b.updated_at,
        COALESCE(r.name, '') AS region_name, COALESCE(r.code, '') AS region_code`

const boxFrom = "FROM hyroxbox b LEFT JOIN regions r ON r.id = b.region_id"

// ListParams filters and windows a box listing
type ListParams struct {
	RegionIDs []int  // Empty means every region
	Search    string // Case-insensitive substring of name, address or features
	Offset    int
	Limit     int // Zero or negative means no limit
}

// BoxService handles box operations
type BoxService struct {
	db *sqlx.DB
}

// NewBoxService creates a new box service
func NewBoxService(db *sqlx.DB) *BoxService {
	return &BoxService{db: db}
}

// List returns boxes matching params, most popular first
func (s *BoxService) List(ctx context.Context, params ListParams) ([]model.BoxWithRegion, error) {
	whereClause, args := buildFilter(params)

	query := "SELECT " + boxWithRegionColumns + " " + boxFrom + whereClause +
		" ORDER BY b.popularity DESC, b.id ASC"

	if params.Limit > 0 {
		offset := params.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, params.Limit, offset)
	}

	boxes := []model.BoxWithRegion{}
	if err := s.db.SelectContext(ctx, &boxes, query, args...); err != nil {
		return nil, fmt.Errorf("error listing boxes: %w", err)
	}
	return boxes, nil
}

// Get returns a single box with its region
func (s *BoxService) Get(ctx context.Context, id int) (*model.BoxWithRegion, error) {
	var box model.BoxWithRegion
	err := s.db.GetContext(ctx, &box, "SELECT "+boxWithRegionColumns+" "+boxFrom+" WHERE b.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBoxNotFound
		}
		return nil, fmt.Errorf("error getting box %d: %w", id, err)
	}
	return &box, nil
}

// Count returns the number of boxes, optionally within one region
func (s *BoxService) Count(ctx context.Context, regionID *int) (int, error) {
	query := "SELECT COUNT(*) FROM hyroxbox"
	args := []interface{}{}
	if regionID != nil {
		query += " WHERE region_id = $1"
		args = append(args, *regionID)
	}

	var count int
	if err := s.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("error counting boxes: %w", err)
	}
	return count, nil
}

// Create adds a new box to an existing region
func (s *BoxService) Create(ctx context.Context, req model.BoxCreateRequest) (*model.Box, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	if err := s.requireRegion(ctx, req.RegionID); err != nil {
		return nil, err
	}

	var box model.Box
	err := s.db.QueryRowxContext(ctx, `
        INSERT INTO hyroxbox (name, description, address, contact_info, instagram_id, price,
                              non_member_price, popularity, features, naver_map_url, region_id,
                              created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
        RETURNING `+boxColumns,
		req.Name, req.Description, req.Address, req.ContactInfo, req.InstagramID, req.Price,
		req.NonMemberPrice, req.Popularity, req.Features, req.NaverMapURL, req.RegionID,
	).StructScan(&box)
	if err != nil {
		// Region deleted between the check and the insert
		if database.IsForeignKeyViolation(err) {
			return nil, model.ErrRegionReference
		}
		return nil, fmt.Errorf("error creating box: %w", err)
	}

	return &box, nil
}

// Update applies a partial update to a box
func (s *BoxService) Update(ctx context.Context, id int, req model.BoxUpdateRequest) (*model.Box, error) {
	if err := req.Normalize(); err != nil {
		return nil, err
	}

	var currentRegion int
	err := s.db.GetContext(ctx, &currentRegion, "SELECT region_id FROM hyroxbox WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBoxNotFound
		}
		return nil, fmt.Errorf("error getting box %d: %w", id, err)
	}

	// Region existence is only re-validated when the box moves
	if req.RegionID != nil && *req.RegionID != currentRegion {
		if err := s.requireRegion(ctx, *req.RegionID); err != nil {
			return nil, err
		}
	}

	var set database.Assignments
	if req.Name != nil {
		set.Set("name", *req.Name)
	}
	setNullable(&set, "description", req.Description)
	setNullable(&set, "address", req.Address)
	setNullable(&set, "contact_info", req.ContactInfo)
	setNullable(&set, "instagram_id", req.InstagramID)
	setNullable(&set, "price", req.Price)
	setNullable(&set, "non_member_price", req.NonMemberPrice)
	if req.Popularity != nil {
		set.Set("popularity", *req.Popularity)
	}
	setNullable(&set, "features", req.Features)
	setNullable(&set, "naver_map_url", req.NaverMapURL)
	if req.RegionID != nil {
		set.Set("region_id", *req.RegionID)
	}

	query, params := set.Statement("hyroxbox", id, boxColumns)

	var box model.Box
	err = s.db.QueryRowxContext(ctx, query, params...).StructScan(&box)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrBoxNotFound
		}
		if database.IsForeignKeyViolation(err) {
			return nil, model.ErrRegionReference
		}
		return nil, fmt.Errorf("error updating box %d: %w", id, err)
	}

	return &box, nil
}

// Delete removes a box
func (s *BoxService) Delete(ctx context.Context, id int) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM hyroxbox WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("error deleting box %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting box %d: %w", id, err)
	}
	if affected == 0 {
		return model.ErrBoxNotFound
	}

	return nil
}

func (s *BoxService) requireRegion(ctx context.Context, regionID int) error {
	var exists bool
	err := s.db.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM regions WHERE id = $1)", regionID)
	if err != nil {
		return fmt.Errorf("error checking region %d: %w", regionID, err)
	}
	if !exists {
		return model.ErrRegionReference
	}
	return nil
}

func setNullable[T any](set *database.Assignments, column string, value model.Nullable[T]) {
	if value.Set {
		set.Set(column, value.Value)
	}
}

// buildFilter returns the WHERE clause and its arguments for params
func buildFilter(params ListParams) (string, []interface{}) {
	var clauses []string
	args := []interface{}{}

	if len(params.RegionIDs) > 0 {
		ids := make([]int64, len(params.RegionIDs))
		for i, id := range params.RegionIDs {
			ids[i] = int64(id)
		}
		args = append(args, pq.Array(ids))
		clauses = append(clauses, fmt.Sprintf("b.region_id = ANY($%d)", len(args)))
	}

	if search := strings.TrimSpace(params.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(b.name ILIKE $%d OR b.address ILIKE $%d OR b.features ILIKE $%d)", n, n, n))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE metacharacters so the term matches literally
func escapeLike(term string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(term)
}
