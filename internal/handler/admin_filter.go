package handler

import (
	"strings"

	"hyroxbox-directory/pkg/model"
)

// FilterRegions keeps the regions whose name, code or description contains term
func FilterRegions(regions []model.RegionWithCount, term string) []model.RegionWithCount {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return regions
	}

	filtered := []model.RegionWithCount{}
	for _, r := range regions {
		if containsFold(term, r.Name, r.Code, model.Deref(r.Description)) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// FilterBoxes keeps the boxes whose name, address or region name contains term
func FilterBoxes(boxes []model.BoxWithRegion, term string) []model.BoxWithRegion {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return boxes
	}

	filtered := []model.BoxWithRegion{}
	for _, b := range boxes {
		if containsFold(term, b.Name, model.Deref(b.Address), b.RegionName) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}

// term must already be lower case
func containsFold(term string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), term) {
			return true
		}
	}
	return false
}
