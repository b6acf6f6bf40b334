package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hyroxbox-directory/internal/hyroxbox"
	"hyroxbox-directory/internal/listing"
	"hyroxbox-directory/internal/web"
	"hyroxbox-directory/pkg/model"
)

type fakeRegions struct {
	regions []model.Region
	counts  map[int]int
	err     error
}

func (f *fakeRegions) List(ctx context.Context) ([]model.Region, error) {
	return f.regions, f.err
}

func (f *fakeRegions) Get(ctx context.Context, id int) (*model.Region, error) {
	for _, r := range f.regions {
		if r.ID == id {
			return &r, nil
		}
	}
	return nil, model.ErrRegionNotFound
}

func (f *fakeRegions) ListWithCounts(ctx context.Context) ([]model.RegionWithCount, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []model.RegionWithCount{}
	for _, r := range f.regions {
		out = append(out, model.RegionWithCount{Region: r, BoxCount: f.counts[r.ID]})
	}
	return out, nil
}

func (f *fakeRegions) Count(ctx context.Context) (int, error) {
	return len(f.regions), f.err
}

func (f *fakeRegions) Create(ctx context.Context, req model.RegionCreateRequest) (*model.Region, error) {
	for _, r := range f.regions {
		if r.Code == req.Code {
			return nil, model.ErrRegionCodeExists
		}
	}
	r := model.Region{ID: len(f.regions) + 1, Code: req.Code, Name: req.Name}
	f.regions = append(f.regions, r)
	return &r, nil
}

func (f *fakeRegions) Update(ctx context.Context, id int, req model.RegionUpdateRequest) (*model.Region, error) {
	r, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		r.Name = *req.Name
	}
	return r, nil
}

func (f *fakeRegions) Delete(ctx context.Context, id int) error {
	if _, err := f.Get(ctx, id); err != nil {
		return err
	}
	if f.counts[id] > 0 {
		return model.ErrRegionInUse
	}
	return nil
}

type fakeBoxes struct {
	boxes []model.BoxWithRegion
	err   error
	last  hyroxbox.ListParams
}

func (f *fakeBoxes) List(ctx context.Context, params hyroxbox.ListParams) ([]model.BoxWithRegion, error) {
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	out := []model.BoxWithRegion{}
	for _, b := range f.boxes {
		if len(params.RegionIDs) > 0 && !containsID(params.RegionIDs, b.RegionID) {
			continue
		}
		if params.Search != "" && !containsFold(strings.ToLower(params.Search), b.Name, model.Deref(b.Address), model.Deref(b.Features)) {
			continue
		}
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Popularity > out[j].Popularity })
	return out, nil
}

func (f *fakeBoxes) Get(ctx context.Context, id int) (*model.BoxWithRegion, error) {
	for _, b := range f.boxes {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, model.ErrBoxNotFound
}

func (f *fakeBoxes) Count(ctx context.Context, regionID *int) (int, error) {
	return len(f.boxes), f.err
}

func (f *fakeBoxes) Create(ctx context.Context, req model.BoxCreateRequest) (*model.Box, error) {
	if req.RegionID != 1 {
		return nil, model.ErrRegionReference
	}
	return &model.Box{ID: 100, Name: req.Name, RegionID: req.RegionID}, nil
}

func (f *fakeBoxes) Update(ctx context.Context, id int, req model.BoxUpdateRequest) (*model.Box, error) {
	b, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &b.Box, nil
}

func (f *fakeBoxes) Delete(ctx context.Context, id int) error {
	_, err := f.Get(ctx, id)
	return err
}

func containsID(ids []int, id int) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

func listingFilter(query string) listing.Filter {
	values, _ := url.ParseQuery(query)
	return listing.ParseFilter(values)
}

func seedStores(boxCount int) (*fakeBoxes, *fakeRegions) {
	regions := &fakeRegions{
		regions: []model.Region{
			{ID: 1, Code: "SEL", Name: "Seoul"},
			{ID: 2, Code: "BUS", Name: "Busan", Description: strPtr("Southern coast")},
		},
		counts: map[int]int{1: boxCount},
	}
	boxes := &fakeBoxes{}
	for i := 1; i <= boxCount; i++ {
		price := 30000
		boxes.boxes = append(boxes.boxes, model.BoxWithRegion{
			Box: model.Box{
				ID:         i,
				Name:       "Hyrox Box " + string(rune('A'+i-1)),
				Address:    strPtr("Gangnam-gu"),
				Features:   strPtr("sled, rowing"),
				Price:      &price,
				Popularity: i,
				RegionID:   1,
			},
			RegionName: "Seoul",
			RegionCode: "SEL",
		})
	}
	return boxes, regions
}

func newTestRouter(t *testing.T, boxes *fakeBoxes, regions *fakeRegions) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)

	logger := zap.NewNop()
	listingHandler := NewListingHandler(boxes, regions, logger)
	boxHandler := NewBoxHandler(boxes, logger)
	regionHandler := NewRegionHandler(regions, logger)
	adminHandler := NewAdminHandler(boxes, regions, logger)

	router.GET("/", listingHandler.Index)
	router.GET("/api/boxes", boxHandler.ListBoxes)
	router.GET("/api/boxes/:id", boxHandler.GetBox)
	router.GET("/api/regions/:id", regionHandler.GetRegion)
	router.GET("/api/admin/regions", regionHandler.ListRegionsWithCounts)
	router.POST("/api/admin/regions", regionHandler.CreateRegion)
	router.DELETE("/api/admin/regions/:id", regionHandler.DeleteRegion)
	router.GET("/api/admin/boxes", boxHandler.ListAllBoxes)
	router.POST("/api/admin/boxes", boxHandler.CreateBox)
	router.DELETE("/api/admin/boxes/:id", boxHandler.DeleteBox)
	router.GET("/api/admin/stats", adminHandler.GetStats)
	router.GET("/admin", adminHandler.Dashboard)
	router.GET("/admin/regions", adminHandler.RegionsPage)
	router.GET("/admin/boxes", adminHandler.BoxesPage)
	return router
}

func do(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestListBoxes_PaginatesInMemory(t *testing.T) {
	boxes, regions := seedStores(19)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/api/boxes?regions=1&search=sled&page=3", "")
	require.Equal(t, http.StatusOK, w.Code)

	var page BoxPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))

	assert.Equal(t, []int{1}, boxes.last.RegionIDs)
	assert.Equal(t, "sled", boxes.last.Search)
	assert.Zero(t, boxes.last.Limit)
	assert.Len(t, page.Boxes, 3)
	assert.Equal(t, PaginationMeta{Page: 3, PageSize: 8, TotalItems: 19, TotalPages: 3, StartItem: 17, EndItem: 19}, page.Pagination)

	for i := 1; i < len(page.Boxes); i++ {
		assert.GreaterOrEqual(t, page.Boxes[i-1].Popularity, page.Boxes[i].Popularity)
	}
}

func TestListBoxes_PageBeyondLastClamps(t *testing.T) {
	boxes, regions := seedStores(9)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/api/boxes?page=99", "")

	var page BoxPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 2, page.Pagination.Page)
	assert.Len(t, page.Boxes, 1)
}

func TestStoreErrorsMapToStatus(t *testing.T) {
	boxes, regions := seedStores(2)
	router := newTestRouter(t, boxes, regions)

	tests := []struct {
		name    string
		method  string
		path    string
		body    string
		status  int
		message string
	}{
		{name: "box not found", method: http.MethodGet, path: "/api/boxes/42", status: http.StatusNotFound, message: "HyroxBox not found"},
		{name: "region not found", method: http.MethodGet, path: "/api/regions/42", status: http.StatusNotFound, message: "Region not found"},
		{name: "invalid id", method: http.MethodGet, path: "/api/boxes/abc", status: http.StatusBadRequest, message: "Invalid box ID"},
		{name: "duplicate code", method: http.MethodPost, path: "/api/admin/regions", body: `{"code":"SEL","name":"Seoul 2"}`, status: http.StatusConflict, message: "Region code already exists"},
		{name: "region in use", method: http.MethodDelete, path: "/api/admin/regions/1", status: http.StatusConflict, message: "Cannot delete region with associated HyroxBoxes. Please delete or reassign them first."},
		{name: "unknown region for box", method: http.MethodPost, path: "/api/admin/boxes", body: `{"name":"New","region_id":7}`, status: http.StatusBadRequest, message: "Region not found"},
		{name: "delete missing box", method: http.MethodDelete, path: "/api/admin/boxes/42", status: http.StatusNotFound, message: "HyroxBox not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.message, decodeError(t, w))
		})
	}
}

func TestCreateRegion_BindingErrors(t *testing.T) {
	boxes, regions := seedStores(0)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodPost, "/api/admin/regions", `{"code":"TOOLONGCODE1","name":"X"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, "/api/admin/regions", `{"code":"INC","name":"Incheon"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestUnexpectedErrorIsHidden(t *testing.T) {
	boxes, regions := seedStores(1)
	boxes.err = errors.New("connection refused")
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/api/admin/boxes", "")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", decodeError(t, w))
}

func TestAdminListsFilterBySearch(t *testing.T) {
	boxes, regions := seedStores(2)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/api/admin/regions?search=southern", "")
	var got []model.RegionWithCount
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "BUS", got[0].Code)

	w = do(router, http.MethodGet, "/api/admin/boxes?search=seoul", "")
	var found []model.BoxWithRegion
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 2)
}

func TestStats(t *testing.T) {
	boxes, regions := seedStores(3)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/api/admin/stats", "")
	require.Equal(t, http.StatusOK, w.Code)

	var stats model.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 3, stats.TotalBoxes)
	assert.Equal(t, 2, stats.TotalRegions)
	assert.Equal(t, "1.5", stats.AverageBoxes)
	assert.Len(t, stats.RegionBreakdown, 2)
}

func TestAveragePerRegion(t *testing.T) {
	assert.Equal(t, "0", averagePerRegion(5, 0))
	assert.Equal(t, "3.3", averagePerRegion(10, 3))
	assert.Equal(t, "2.0", averagePerRegion(4, 2))
}

func TestIndexRendersPage(t *testing.T) {
	boxes, regions := seedStores(10)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/?regions=1&page=2", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Showing 9-10 of 10")
	assert.Contains(t, body, "30,000원")
	assert.Contains(t, body, `href="/?regions=1"`)
	assert.Contains(t, body, "Hyrox Box B")
	assert.NotContains(t, body, "Hyrox Box J")
}

func TestIndexEmptyStates(t *testing.T) {
	boxes, regions := seedStores(0)
	router := newTestRouter(t, boxes, regions)

	w := do(router, http.MethodGet, "/?regions=2", "")
	assert.Contains(t, w.Body.String(), "No HyroxBoxes are registered in the selected regions.")

	w = do(router, http.MethodGet, "/?search=nothing", "")
	assert.Contains(t, w.Body.String(), "No HyroxBoxes match your search.")
}

func TestAdminPagesRender(t *testing.T) {
	boxes, regions := seedStores(2)
	router := newTestRouter(t, boxes, regions)

	for _, path := range []string{"/admin", "/admin/regions?search=seo", "/admin/boxes"} {
		w := do(router, http.MethodGet, path, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Seoul", path)
	}
}

func TestNewListingView_Links(t *testing.T) {
	boxes, _ := seedStores(40)
	view := NewListingView(listingFilter("regions=1&search=sled&page=3"), boxes.boxes, []model.Region{{ID: 1, Name: "Seoul"}, {ID: 2, Name: "Busan"}})

	assert.Equal(t, 5, view.Page.TotalPages)
	assert.Equal(t, "/?page=2&regions=1&search=sled", view.PrevURL)
	assert.Equal(t, "/?page=4&regions=1&search=sled", view.NextURL)
	assert.Equal(t, "/?regions=1&search=sled", view.FirstURL)
	assert.Equal(t, "/", view.ResetURL)

	// Toggling a region drops the page
	assert.True(t, view.Regions[0].Selected)
	assert.Equal(t, "/?search=sled", view.Regions[0].ToggleURL)
	assert.Equal(t, "/?regions=1%2C2&search=sled", view.Regions[1].ToggleURL)
}
