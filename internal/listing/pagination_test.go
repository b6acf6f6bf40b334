package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, TotalPages(0, PageSize))
	assert.Equal(t, 1, TotalPages(1, PageSize))
	assert.Equal(t, 1, TotalPages(8, PageSize))
	assert.Equal(t, 2, TotalPages(9, PageSize))
	assert.Equal(t, 3, TotalPages(17, PageSize))
}

func TestPaginate_SlicesEveryPage(t *testing.T) {
	items := make([]int, 19)
	for i := range items {
		items[i] = i
	}

	for p := 1; p <= 3; p++ {
		page := Paginate(len(items), p, PageSize)
		got := Slice(items, page)

		start := (p - 1) * PageSize
		end := p * PageSize
		if end > len(items) {
			end = len(items)
		}
		assert.Equal(t, items[start:end], got, "page %d", p)
		assert.Equal(t, 3, page.TotalPages)
	}
}

func TestPaginate_Clamps(t *testing.T) {
	last := Paginate(19, 10, PageSize)
	assert.Equal(t, 3, last.Number)
	assert.Equal(t, 16, last.Start)
	assert.Equal(t, 19, last.End)
	assert.Equal(t, 17, last.StartItem())
	assert.Equal(t, 19, last.EndItem())
	assert.False(t, last.HasNext())
	assert.True(t, last.HasPrev())

	first := Paginate(19, -2, PageSize)
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 1, first.StartItem())
	assert.Equal(t, 8, first.EndItem())
	assert.False(t, first.HasPrev())
}

func TestPaginate_Empty(t *testing.T) {
	page := Paginate(0, 3, PageSize)

	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 0, page.TotalPages)
	assert.Equal(t, 0, page.StartItem())
	assert.Empty(t, Slice([]string{}, page))
	assert.NotNil(t, Slice([]string{}, page))
}

func TestNewWindow(t *testing.T) {
	tests := []struct {
		name        string
		current     int
		total       int
		pages       []int
		showFirst   bool
		leadingGap  bool
		showLast    bool
		trailingGap bool
	}{
		{name: "single page", current: 1, total: 1, pages: []int{1}},
		{name: "fewer pages than window", current: 2, total: 3, pages: []int{1, 2, 3}},
		{name: "start", current: 1, total: 10, pages: []int{1, 2, 3, 4, 5}, showLast: true, trailingGap: true},
		{name: "centered", current: 6, total: 10, pages: []int{4, 5, 6, 7, 8}, showFirst: true, leadingGap: true, showLast: true, trailingGap: true},
		{name: "no gap next to first", current: 4, total: 10, pages: []int{2, 3, 4, 5, 6}, showFirst: true, showLast: true, trailingGap: true},
		{name: "shifted at end", current: 10, total: 10, pages: []int{6, 7, 8, 9, 10}, showFirst: true, leadingGap: true},
		{name: "no gap next to last", current: 7, total: 10, pages: []int{5, 6, 7, 8, 9}, showFirst: true, leadingGap: true, showLast: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWindow(tt.current, tt.total, WindowSize)
			assert.Equal(t, tt.pages, w.Pages)
			assert.Equal(t, tt.showFirst, w.ShowFirst, "showFirst")
			assert.Equal(t, tt.leadingGap, w.LeadingGap, "leadingGap")
			assert.Equal(t, tt.showLast, w.ShowLast, "showLast")
			assert.Equal(t, tt.trailingGap, w.TrailingGap, "trailingGap")
		})
	}
}

func TestWindow_PrevNextAndVisibility(t *testing.T) {
	w := NewWindow(1, 3, WindowSize)
	assert.True(t, w.Visible())
	assert.Equal(t, 0, w.Prev())
	assert.Equal(t, 2, w.Next())

	w = NewWindow(3, 3, WindowSize)
	assert.Equal(t, 2, w.Prev())
	assert.Equal(t, 0, w.Next())

	assert.False(t, NewWindow(1, 1, WindowSize).Visible())
	assert.False(t, NewWindow(1, 0, WindowSize).Visible())
}
