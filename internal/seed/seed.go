// Package seed imports regions and boxes from a YAML file through the stores.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"hyroxbox-directory/pkg/model"
)

// File is the layout of a seed file
type File struct {
	Regions []RegionSeed `yaml:"regions"`
	Boxes   []BoxSeed    `yaml:"boxes"`
}

// RegionSeed is one region of a seed file
type RegionSeed struct {
	Code        string  `yaml:"code"`
	Name        string  `yaml:"name"`
	Description *string `yaml:"description"`
}

// BoxSeed is one box of a seed file. Region refers to a region code.
type BoxSeed struct {
	Name           string  `yaml:"name"`
	Region         string  `yaml:"region"`
	Description    *string `yaml:"description"`
	Address        *string `yaml:"address"`
	ContactInfo    *string `yaml:"contact_info"`
	InstagramID    *string `yaml:"instagram_id"`
	Price          *int    `yaml:"price"`
	NonMemberPrice *int    `yaml:"non_member_price"`
	Popularity     int     `yaml:"popularity"`
	Features       *string `yaml:"features"`
	NaverMapURL    *string `yaml:"naver_map_url"`
}

// Result counts what Apply wrote
type Result struct {
	RegionsCreated int
	RegionsSkipped int
	BoxesCreated   int
}

// Regions is the region storage used by Apply
type Regions interface {
	List(ctx context.Context) ([]model.Region, error)
	Create(ctx context.Context, req model.RegionCreateRequest) (*model.Region, error)
}

// Boxes is the box storage used by Apply
type Boxes interface {
	Create(ctx context.Context, req model.BoxCreateRequest) (*model.Box, error)
}

// Load decodes a seed file
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("error decoding seed file: %w", err)
	}
	return &f, nil
}

// LoadFile decodes the seed file at path
func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Load(file)
}

// Apply creates the seed regions, skipping codes that already exist, then
// the seed boxes. It stops at the first box that cannot be created.
func Apply(ctx context.Context, f *File, regions Regions, boxes Boxes, logger *zap.Logger) (Result, error) {
	var result Result

	existing, err := regions.List(ctx)
	if err != nil {
		return result, err
	}
	ids := make(map[string]int, len(existing))
	for _, r := range existing {
		ids[r.Code] = r.ID
	}

	// Codes are stored trimmed
	for _, rs := range f.Regions {
		code := strings.TrimSpace(rs.Code)
		if _, ok := ids[code]; ok {
			result.RegionsSkipped++
			logger.Debug("region exists, skipping", zap.String("code", code))
			continue
		}

		region, err := regions.Create(ctx, model.RegionCreateRequest{Code: code, Name: rs.Name, Description: rs.Description})
		if err != nil {
			return result, fmt.Errorf("region %q: %w", code, err)
		}
		ids[region.Code] = region.ID
		result.RegionsCreated++
	}

	for i, bs := range f.Boxes {
		regionID, ok := ids[strings.TrimSpace(bs.Region)]
		if !ok {
			return result, fmt.Errorf("box %d (%s): unknown region code %q: %w", i+1, bs.Name, bs.Region, model.ErrRegionReference)
		}

		_, err := boxes.Create(ctx, model.BoxCreateRequest{
			Name:           bs.Name,
			Description:    bs.Description,
			Address:        bs.Address,
			ContactInfo:    bs.ContactInfo,
			InstagramID:    bs.InstagramID,
			Price:          bs.Price,
			NonMemberPrice: bs.NonMemberPrice,
			Popularity:     bs.Popularity,
			Features:       bs.Features,
			NaverMapURL:    bs.NaverMapURL,
			RegionID:       regionID,
		})
		if err != nil {
			return result, fmt.Errorf("box %d (%s): %w", i+1, bs.Name, err)
		}
		result.BoxesCreated++
	}

	logger.Info("seed applied",
		zap.Int("regions_created", result.RegionsCreated),
		zap.Int("regions_skipped", result.RegionsSkipped),
		zap.Int("boxes_created", result.BoxesCreated))

	return result, nil
}
