package listing

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query parameters of the listing page
const (
	ParamRegions = "regions"
	ParamSearch  = "search"
	ParamPage    = "page"
)

// Filter is the listing state mirrored into the URL query string.
// Any change to the search term or region selection drops the page.
type Filter struct {
	RegionIDs []int
	Search    string
	Page      int
}

// ParseFilter reads the filter from query values. Invalid region ids are
// dropped, duplicates removed and the rest sorted; a missing or invalid
// page is 1.
func ParseFilter(values url.Values) Filter {
	f := Filter{
		Search: strings.TrimSpace(values.Get(ParamSearch)),
		Page:   1,
	}

	seen := map[int]bool{}
	for _, raw := range strings.Split(values.Get(ParamRegions), ",") {
		id, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || id < 1 || seen[id] {
			continue
		}
		seen[id] = true
		f.RegionIDs = append(f.RegionIDs, id)
	}
	sort.Ints(f.RegionIDs)

	if page, err := strconv.Atoi(values.Get(ParamPage)); err == nil && page > 1 {
		f.Page = page
	}

	return f
}

// Values encodes the filter, omitting empty fields and page 1
func (f Filter) Values() url.Values {
	values := url.Values{}
	if len(f.RegionIDs) > 0 {
		ids := make([]string, len(f.RegionIDs))
		for i, id := range f.RegionIDs {
			ids[i] = strconv.Itoa(id)
		}
		values.Set(ParamRegions, strings.Join(ids, ","))
	}
	if f.Search != "" {
		values.Set(ParamSearch, f.Search)
	}
	if f.Page > 1 {
		values.Set(ParamPage, strconv.Itoa(f.Page))
	}
	return values
}

// Encode returns the query string for the filter
func (f Filter) Encode() string {
	return f.Values().Encode()
}

// URL returns path with the filter's query string, or path alone when the
// filter is empty
func (f Filter) URL(path string) string {
	if q := f.Encode(); q != "" {
		return path + "?" + q
	}
	return path
}

// Active reports whether a search term or region selection is applied
func (f Filter) Active() bool {
	return f.Search != "" || len(f.RegionIDs) > 0
}

// HasRegion reports whether id is selected
func (f Filter) HasRegion(id int) bool {
	for _, selected := range f.RegionIDs {
		if selected == id {
			return true
		}
	}
	return false
}

// WithSearch replaces the search term and resets the page
func (f Filter) WithSearch(search string) Filter {
	return Filter{RegionIDs: copyIDs(f.RegionIDs), Search: strings.TrimSpace(search), Page: 1}
}

// ToggleRegion selects or deselects id and resets the page
func (f Filter) ToggleRegion(id int) Filter {
	ids := make([]int, 0, len(f.RegionIDs)+1)
	found := false
	for _, selected := range f.RegionIDs {
		if selected == id {
			found = true
			continue
		}
		ids = append(ids, selected)
	}
	if !found {
		ids = append(ids, id)
		sort.Ints(ids)
	}
	if len(ids) == 0 {
		ids = nil
	}
	return Filter{RegionIDs: ids, Search: f.Search, Page: 1}
}

// Reset clears every filter
func (f Filter) Reset() Filter {
	return Filter{Page: 1}
}

// WithPage changes only the page
func (f Filter) WithPage(page int) Filter {
	if page < 1 {
		page = 1
	}
	return Filter{RegionIDs: copyIDs(f.RegionIDs), Search: f.Search, Page: page}
}

func copyIDs(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	return append([]int(nil), ids...)
}
