package listing

const (
	// PageSize is the number of boxes shown per listing page
	PageSize = 8
	// WindowSize is the number of page links shown around the current page
	WindowSize = 5
)

// Page describes one page of an already-fetched list
type Page struct {
	Number     int // 1-based, clamped to [1, TotalPages]
	Size       int
	TotalItems int
	TotalPages int
	Start      int // Slice index of the first item, inclusive
	End        int // Slice index of the last item, exclusive
}

// TotalPages returns ceil(total/size)
func TotalPages(total, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

// Paginate computes the bounds of page number over total items.
// Pages beyond the last page clamp to the last page.
func Paginate(total, number, size int) Page {
	if size <= 0 {
		size = PageSize
	}
	if total < 0 {
		total = 0
	}

	pages := TotalPages(total, size)
	if number > pages {
		number = pages
	}
	if number < 1 {
		number = 1
	}

	start := (number - 1) * size
	if start > total {
		start = total
	}
	end := start + size
	if end > total {
		end = total
	}

	return Page{
		Number:     number,
		Size:       size,
		TotalItems: total,
		TotalPages: pages,
		Start:      start,
		End:        end,
	}
}

// Slice returns the items of p
func Slice[T any](items []T, p Page) []T {
	if p.Start >= len(items) || p.Start >= p.End {
		return []T{}
	}
	end := p.End
	if end > len(items) {
		end = len(items)
	}
	return items[p.Start:end]
}

// StartItem is the 1-based position of the first item on the page, 0 when empty
func (p Page) StartItem() int {
	if p.End <= p.Start {
		return 0
	}
	return p.Start + 1
}

// EndItem is the 1-based position of the last item on the page
func (p Page) EndItem() int {
	return p.End
}

// HasPrev reports whether a previous page exists
func (p Page) HasPrev() bool {
	return p.Number > 1
}

// HasNext reports whether a following page exists
func (p Page) HasNext() bool {
	return p.Number < p.TotalPages
}

// Window is the set of page controls rendered below a listing
type Window struct {
	Current     int
	Total       int
	Pages       []int
	ShowFirst   bool // Link to page 1 outside the window
	LeadingGap  bool // Ellipsis between page 1 and the window
	ShowLast    bool // Link to the last page outside the window
	TrailingGap bool // Ellipsis between the window and the last page
}

// NewWindow centers a window of size pages on current, shifted so that it
// stays within [1, total]
func NewWindow(current, total, size int) Window {
	w := Window{Current: current, Total: total}
	if total < 1 {
		return w
	}
	if size < 1 {
		size = WindowSize
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	end := start + size - 1
	if end > total {
		end = total
	}
	if end-start+1 < size {
		start = end - size + 1
		if start < 1 {
			start = 1
		}
	}

	for i := start; i <= end; i++ {
		w.Pages = append(w.Pages, i)
	}

	w.ShowFirst = start > 1
	w.LeadingGap = start > 2
	w.ShowLast = end < total
	w.TrailingGap = end < total-1
	return w
}

// Visible reports whether controls are rendered at all
func (w Window) Visible() bool {
	return w.Total > 1
}

// Prev returns the previous page number, or 0 on the first page
func (w Window) Prev() int {
	if w.Current <= 1 {
		return 0
	}
	return w.Current - 1
}

// Next returns the next page number, or 0 on the last page
func (w Window) Next() int {
	if w.Current >= w.Total {
		return 0
	}
	return w.Current + 1
}
