package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/internal/listing"
	"hyroxbox-directory/pkg/model"
)

// ListingHandler renders the public directory page
type ListingHandler struct {
	boxes   BoxStore
	regions RegionStore
	logger  *zap.Logger
}

// NewListingHandler creates a new listing handler
func NewListingHandler(boxes BoxStore, regions RegionStore, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{boxes: boxes, regions: regions, logger: logger}
}

type regionOption struct {
	model.Region
	Selected  bool
	ToggleURL string
}

type pageLink struct {
	Number  int
	URL     string
	Current bool
}

// ListingView is the data of the index template
type ListingView struct {
	Filter       listing.Filter
	Regions      []regionOption
	Boxes        []model.BoxWithRegion
	Page         listing.Page
	Window       listing.Window
	PageLinks    []pageLink
	FirstURL     string
	LastURL      string
	PrevURL      string
	NextURL      string
	ResetURL     string
	RegionCount  int
	BoxCount     int
	EmptyMessage string
}

// Index handles GET /?regions=&search=&page=
func (h *ListingHandler) Index(c *gin.Context) {
	filter := listing.ParseFilter(c.Request.URL.Query())

	var (
		boxes   []model.BoxWithRegion
		regions []model.Region
	)

	// The two reads are independent
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		boxes, err = h.boxes.List(ctx, hyroxbox.ListParams{RegionIDs: filter.RegionIDs, Search: filter.Search})
		return err
	})
	g.Go(func() error {
		var err error
		regions, err = h.regions.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("render listing failed", zap.String("request_id", c.GetString("request_id")), zap.Error(err))
		c.Error(err)
		c.String(http.StatusInternalServerError, "Failed to load HyroxBoxes")
		return
	}

	c.HTML(http.StatusOK, "index.html", NewListingView(filter, boxes, regions))
}

// NewListingView paginates boxes and builds the links of the index page
func NewListingView(filter listing.Filter, boxes []model.BoxWithRegion, regions []model.Region) ListingView {
	page := listing.Paginate(len(boxes), filter.Page, listing.PageSize)
	window := listing.NewWindow(page.Number, page.TotalPages, listing.WindowSize)

	view := ListingView{
		Filter:      filter,
		Boxes:       listing.Slice(boxes, page),
		Page:        page,
		Window:      window,
		ResetURL:    filter.Reset().URL("/"),
		RegionCount: len(regions),
		BoxCount:    len(boxes),
	}

	for _, r := range regions {
		view.Regions = append(view.Regions, regionOption{
			Region:    r,
			Selected:  filter.HasRegion(r.ID),
			ToggleURL: filter.ToggleRegion(r.ID).URL("/"),
		})
	}

	for _, n := range window.Pages {
		view.PageLinks = append(view.PageLinks, pageLink{
			Number:  n,
			URL:     filter.WithPage(n).URL("/"),
			Current: n == page.Number,
		})
	}
	view.FirstURL = filter.WithPage(1).URL("/")
	view.LastURL = filter.WithPage(page.TotalPages).URL("/")
	if prev := window.Prev(); prev > 0 {
		view.PrevURL = filter.WithPage(prev).URL("/")
	}
	if next := window.Next(); next > 0 {
		view.NextURL = filter.WithPage(next).URL("/")
	}

	if len(boxes) == 0 {
		if len(filter.RegionIDs) > 0 {
			view.EmptyMessage = "No HyroxBoxes are registered in the selected regions."
		} else {
			view.EmptyMessage = "No HyroxBoxes match your search."
		}
	}

	return view
}
