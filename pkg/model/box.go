package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Box represents a training facility listed in the directory
type Box struct {
	ID             int       `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Description    *string   `db:"description" json:"description"`
	Address        *string   `db:"address" json:"address"`
	ContactInfo    *string   `db:"contact_info" json:"contact_info"`
	InstagramID    *string   `db:"instagram_id" json:"instagram_id"`
	Price          *int      `db:"price" json:"price"`                       // Member price in whole won
	NonMemberPrice *int      `db:"non_member_price" json:"non_member_price"` // Drop-in price in whole won
	Popularity     int       `db:"popularity" json:"popularity"`
	Features       *string   `db:"features" json:"features"` // Comma separated
	NaverMapURL    *string   `db:"naver_map_url" json:"naver_map_url"`
	RegionID       int       `db:"region_id" json:"region_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// BoxWithRegion extends Box with the display fields of its region
type BoxWithRegion struct {
	Box
	RegionName string `db:"region_name" json:"region_name"`
	RegionCode string `db:"region_code" json:"region_code"`
}

// FeatureList splits the comma separated features, dropping blanks
func (b Box) FeatureList() []string {
	if b.Features == nil {
		return nil
	}
	var features []string
	for _, f := range strings.Split(*b.Features, ",") {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	return features
}

// BoxCreateRequest represents the request to add a new box
type BoxCreateRequest struct {
	Name           string  `json:"name" binding:"required,max=100"`
	Description    *string `json:"description"`
	Address        *string `json:"address"`
	ContactInfo    *string `json:"contact_info" binding:"omitempty,max=100"`
	InstagramID    *string `json:"instagram_id" binding:"omitempty,max=255"`
	Price          *int    `json:"price" binding:"omitempty,min=0"`
	NonMemberPrice *int    `json:"non_member_price" binding:"omitempty,min=0"`
	Popularity     int     `json:"popularity"`
	Features       *string `json:"features"`
	NaverMapURL    *string `json:"naver_map_url" binding:"omitempty,max=512"`
	RegionID       int     `json:"region_id" binding:"required,min=1"`
}

// Normalize trims the request fields and turns blank optional fields into NULLs
func (r *BoxCreateRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = CleanString(r.Description)
	r.Address = CleanString(r.Address)
	r.ContactInfo = CleanString(r.ContactInfo)
	r.InstagramID = CleanString(r.InstagramID)
	r.Features = CleanString(r.Features)
	r.NaverMapURL = CleanString(r.NaverMapURL)
	return requireFields(field{"name", r.Name})
}

// BoxUpdateRequest represents a partial box update.
// Omitted fields are left untouched; optional fields sent as null or blank are cleared.
type BoxUpdateRequest struct {
	Name           *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description    Nullable[string] `json:"description"`
	Address        Nullable[string] `json:"address"`
	ContactInfo    Nullable[string] `json:"contact_info"`
	InstagramID    Nullable[string] `json:"instagram_id"`
	Price          Nullable[int]    `json:"price"`
	NonMemberPrice Nullable[int]    `json:"non_member_price"`
	Popularity     *int             `json:"popularity"`
	Features       Nullable[string] `json:"features"`
	NaverMapURL    Nullable[string] `json:"naver_map_url"`
	RegionID       *int             `json:"region_id" binding:"omitempty,min=1"`
}

// Normalize trims the request fields and checks the limits the binding
// tags cannot express for Nullable fields
func (r *BoxUpdateRequest) Normalize() error {
	if r.Name != nil {
		name := strings.TrimSpace(*r.Name)
		r.Name = &name
		if err := requireFields(field{"name", name}); err != nil {
			return err
		}
	}
	for _, s := range []*Nullable[string]{&r.Description, &r.Address, &r.ContactInfo, &r.InstagramID, &r.Features, &r.NaverMapURL} {
		s.Value = CleanString(s.Value)
	}
	if err := maxLength("contact_info", r.ContactInfo.Value, 100); err != nil {
		return err
	}
	if err := maxLength("instagram_id", r.InstagramID.Value, 255); err != nil {
		return err
	}
	if err := maxLength("naver_map_url", r.NaverMapURL.Value, 512); err != nil {
		return err
	}
	for name, p := range map[string]*int{"price": r.Price.Value, "non_member_price": r.NonMemberPrice.Value} {
		if p != nil && *p < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidField, name)
		}
	}
	return nil
}

func maxLength(name string, s *string, limit int) error {
	if s != nil && utf8.RuneCountInString(*s) > limit {
		return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidField, name, limit)
	}
	return nil
}
