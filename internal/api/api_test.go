package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/iocache"
	"github.com/tharaga/propmatch/schema"
)

const testListings = `{"properties":[
	{"id":"p1","title":"Lake View Residency","city":"Chennai","locality":"Guindy","category":"buy","bhk":2,"priceINR":6500000,"carpetAreaSqft":1000,"lat":13.007,"lng":80.221},
	{"id":"p2","title":"Garden Villa","city":"Chennai","locality":"Velachery","category":"buy","bhk":3,"priceINR":15000000},
	{"id":"p3","title":"Budget Studio","city":"Coimbatore","locality":"RS Puram","category":"rent","priceINR":15000}
]}`

const testStations = `{"stations":[{"name":"Central","line":"Green","lat":13.0827,"lng":80.2707}]}`

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(t *testing.T) *contract.Config {
	t.Helper()
	dir := t.TempDir()
	local := filepath.Join(dir, "listings.json")
	require.NoError(t, os.WriteFile(local, []byte(testListings), 0o600))
	st := filepath.Join(dir, "stations.json")
	require.NoError(t, os.WriteFile(st, []byte(testStations), 0o600))
	return &contract.Config{
		Sources:      []schema.SourceKind{schema.LocalSource},
		LocalPath:    local,
		StationsPath: st,
		Sort:         schema.SortRelevance,
		Page:         1,
		PageSize:     schema.DefaultPageSize,
	}
}

func testManager(t *testing.T) *iocache.MockCacheManager {
	t.Helper()
	kv, err := iocache.NewCacheStore("api_test", schema.SQLiteBackend, filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = kv.Close() })
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetWeightsStore").Return(kv)
	return mgr
}

func newTestEngine(t *testing.T) *gin.Engine {
	t.Helper()
	router, _ := NewEngine(context.Background(), testConfig(t), testManager(t))
	return router
}

func do(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealthCheck(t *testing.T) {
	w := do(newTestEngine(t), http.MethodGet, "/healthcheck", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}

func TestListProperties(t *testing.T) {
	router := newTestEngine(t)

	tests := []struct {
		name    string
		target  string
		wantIDs []string
		total   int
	}{
		{name: "all", target: "/api/properties?sort=priceHigh", wantIDs: []string{"p2", "p1", "p3"}, total: 3},
		{name: "text query", target: "/api/properties?q=villa", wantIDs: []string{"p2"}, total: 1},
		{name: "mode and city", target: "/api/properties?mode=rent&cities=Coimbatore", wantIDs: []string{"p3"}, total: 1},
		{name: "paging", target: "/api/properties?sort=priceLow&pageSize=2&page=2", wantIDs: []string{"p2"}, total: 3},
		{name: "metro", target: "/api/properties?wantMetro=true&maxWalk=200", wantIDs: []string{"p1"}, total: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(router, http.MethodGet, tt.target, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())

			page := decode[schema.ResultPage](t, w)
			var ids []string
			for _, it := range page.Items {
				ids = append(ids, it.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.total, page.Total)
			assert.Equal(t, schema.LocalSource, page.Source)
		})
	}
}

func TestListPropertiesBadRequest(t *testing.T) {
	router := newTestEngine(t)

	for _, target := range []string{
		"/api/properties?sort=cheapest",
		"/api/properties?page=abc",
		"/api/properties?minPrice=10&maxPrice=5",
		"/api/properties?pageSize=1000",
	} {
		w := do(router, http.MethodGet, target, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
		env := decode[ErrorEnvelope](t, w)
		assert.Equal(t, CodeBadRequest, env.Error.Code, target)
		assert.NotEmpty(t, env.Error.Message, target)
	}
}

func TestGetProperty(t *testing.T) {
	router := newTestEngine(t)

	w := do(router, http.MethodGet, "/api/properties/p1", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	detail := decode[schema.PropertyDetail](t, w)
	assert.Equal(t, "p1", detail.ID)
	require.NotNil(t, detail.NearestStation)
	assert.Equal(t, "Central", detail.NearestStation.Name)
	require.NotNil(t, detail.EMI)
	assert.NotEmpty(t, detail.SmartSummary)
	assert.Equal(t, "Apartment", detail.JSONLD["@type"], "type defaults to Apartment")

	w = do(router, http.MethodGet, "/api/properties/p1?principal=1000000&rate=12&years=1", "")
	require.Equal(t, http.StatusOK, w.Code)
	detail = decode[schema.PropertyDetail](t, w)
	require.NotNil(t, detail.EMI)
	assert.InDelta(t, 88849, *detail.EMI, 1)

	w = do(router, http.MethodGet, "/api/properties/p1?years=-1", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodGet, "/api/properties/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decode[ErrorEnvelope](t, w).Error.Code)
}

func TestExplainProperty(t *testing.T) {
	router := newTestEngine(t)

	w := do(router, http.MethodGet, "/api/properties/p1/explain?q=lake", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	out := decode[struct {
		ID           string                `json:"id"`
		MatchPercent int                   `json:"matchPercent"`
		Breakdown    schema.ScoreBreakdown `json:"breakdown"`
	}](t, w)
	assert.Equal(t, "p1", out.ID)
	assert.Greater(t, out.Breakdown.TextC, 0.0)
	assert.Equal(t, schema.MatchPercent(out.Breakdown.Total), out.MatchPercent)

	w = do(router, http.MethodGet, "/api/properties/missing/explain", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWeightsEndpoints(t *testing.T) {
	router := newTestEngine(t)

	w := do(router, http.MethodGet, "/api/weights", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, schema.DefaultWeights(), decode[schema.ScoreWeights](t, w))

	w = do(router, http.MethodPatch, "/api/weights", `{"metro":2}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 2.0, decode[schema.ScoreWeights](t, w).Metro)

	w = do(router, http.MethodGet, "/api/weights", "")
	got := decode[schema.ScoreWeights](t, w)
	assert.Equal(t, 2.0, got.Metro)
	assert.Equal(t, schema.DefaultWeights().Text, got.Text)

	for _, body := range []string{`{}`, `{"value":-1}`, `{not json`} {
		w = do(router, http.MethodPatch, "/api/weights", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}

	w = do(router, http.MethodDelete, "/api/weights", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, schema.DefaultWeights(), decode[schema.ScoreWeights](t, w))
}

func TestCORS(t *testing.T) {
	cfg := testConfig(t)
	cfg.CORSOrigins = []string{"http://localhost:3000"}
	router, _ := NewEngine(context.Background(), cfg, testManager(t))

	req := httptest.NewRequest(http.MethodOptions, "/api/properties", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Less(t, w.Code, 300)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	open := newTestEngine(t)
	req = httptest.NewRequest(http.MethodGet, "/healthcheck", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	w = httptest.NewRecorder()
	open.ServeHTTP(w, req)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRefresher(t *testing.T) {
	_, session := NewEngine(context.Background(), testConfig(t), nil)
	r := NewRefresher(session, nil)

	require.NoError(t, r.Start(context.Background(), ""))
	assert.Error(t, r.Start(context.Background(), "every minute"))
	r.Stop()

	assert.Equal(t, 3, r.RunOnce(context.Background()))
	assert.Equal(t, 3, len(session.Properties()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Equal(t, 0, r.RunOnce(ctx))

	require.NoError(t, r.Start(context.Background(), "@every 1h"))
	r.Stop()
}
