package sources

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/iocache"
	"github.com/tharaga/propmatch/schema"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestAPISource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"id":"a","title":"One"},{"id":"b"},"junk"]`))
	}))
	defer srv.Close()

	src := NewAPISource(srv.URL, time.Second)
	assert.Equal(t, schema.APISource, src.Kind())

	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "One", records[0]["title"])
}

func TestAPISourceNonArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"properties":[{"id":"a"}]}`))
	}))
	defer srv.Close()

	records, err := NewAPISource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAPISourceErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewAPISource(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestSupabaseSource(t *testing.T) {
	var gotPath, gotQuery, gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("apikey")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[{"id":"s1","price_inr":"4500000"}]`))
	}))
	defer srv.Close()

	src := NewSupabaseSource(srv.URL+"/", "anon-key", 25, time.Second)
	records, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, "/rest/v1/properties", gotPath)
	assert.Equal(t, "limit=25&select=%2A", gotQuery)
	assert.Equal(t, "anon-key", gotKey)
	assert.Equal(t, "Bearer anon-key", gotAuth)
	assert.Equal(t, schema.SupabaseSource, src.Kind())
}

func TestDatabaseSource(t *testing.T) {
	store := &iocache.MockListingsStore{}
	store.On("Records", mock.Anything, 50).Return([]schema.RawRecord{{"id": "d1"}}, nil).Once()

	records, err := NewDatabaseSource(store, 50).Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	store.AssertExpectations(t)

	failing := &iocache.MockListingsStore{}
	failing.On("Records", mock.Anything, contract.DefaultFetchLimit).Return(nil, errors.New("no table"))
	_, err = NewDatabaseSource(failing, 0).Fetch(context.Background())
	assert.ErrorContains(t, err, "no table")

	_, err = NewDatabaseSource(nil, 10).Fetch(context.Background())
	assert.Error(t, err)
}

func TestParseCSV(t *testing.T) {
	data := "\ufeffid, title ,city,amenities\n" +
		"1,Sea View,Chennai,\"Gym,Pool\"\n" +
		"2,Short Row\n"

	records, err := ParseCSV([]byte(data))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1", records[0]["id"])
	assert.Equal(t, "Sea View", records[0]["title"])
	assert.Equal(t, "Gym,Pool", records[0]["amenities"])
	assert.Equal(t, "", records[1]["city"], "missing cells read as empty")
	assert.Equal(t, "", records[1]["amenities"])

	empty, err := ParseCSV([]byte("  \n"))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSheetSourceFileAndURL(t *testing.T) {
	path := writeFile(t, "sheet.csv", "id,title\n7,From File\n")
	records, err := NewSheetSource(path, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "From File", records[0]["title"])

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("id,title\n8,From URL\n"))
	}))
	defer srv.Close()
	records, err = NewSheetSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "From URL", records[0]["title"])
}

func TestLocalSource(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
		wantErr bool
	}{
		{name: "array", content: `[{"id":"1"},{"id":"2"}]`, want: 2},
		{name: "wrapped", content: `{"properties":[{"id":"1"}]}`, want: 1},
		{name: "other object", content: `{"items":[{"id":"1"}]}`, want: 0},
		{name: "invalid", content: `{`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "data.json", tt.content)
			records, err := NewLocalSource(path).Fetch(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, records, tt.want)
		})
	}

	_, err := NewLocalSource(filepath.Join(t.TempDir(), "absent.json")).Fetch(context.Background())
	assert.Error(t, err)
}

type stubSource struct {
	kind    schema.SourceKind
	records []schema.RawRecord
	err     error
	calls   int
}

func (s *stubSource) Kind() schema.SourceKind { return s.kind }

func (s *stubSource) Fetch(context.Context) ([]schema.RawRecord, error) {
	s.calls++
	return s.records, s.err
}

func TestChainFallsThrough(t *testing.T) {
	failing := &stubSource{kind: schema.APISource, err: errors.New("down")}
	empty := &stubSource{kind: schema.SupabaseSource}
	good := &stubSource{kind: schema.SheetSource, records: []schema.RawRecord{{"id": "x"}}}
	unused := &stubSource{kind: schema.LocalSource, records: []schema.RawRecord{{"id": "y"}}}

	chain := NewChain(nil, failing, empty, good, unused)
	records, kind := chain.Load(context.Background())

	assert.Equal(t, schema.SheetSource, kind)
	require.Len(t, records, 1)
	assert.Equal(t, "x", records[0]["id"])
	assert.Equal(t, 1, failing.calls)
	assert.Equal(t, 1, empty.calls)
	assert.Zero(t, unused.calls)
	assert.Equal(t, []schema.SourceKind{schema.APISource, schema.SupabaseSource, schema.SheetSource, schema.LocalSource}, chain.Kinds())
}

func TestChainAllDry(t *testing.T) {
	chain := NewChain(nil, &stubSource{kind: schema.APISource, err: errors.New("down")})
	records, kind := chain.Load(context.Background())
	assert.Empty(t, records)
	assert.Equal(t, schema.SourceKind(""), kind)

	records, kind = NewChain(nil).Load(context.Background())
	assert.Empty(t, records)
	assert.Empty(t, kind)
}

func TestChainCancelled(t *testing.T) {
	src := &stubSource{kind: schema.APISource, records: []schema.RawRecord{{"id": "x"}}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	records, _ := NewChain(nil, src).Load(ctx)
	assert.Empty(t, records)
	assert.Zero(t, src.calls)
}

func TestNewChainFromConfig(t *testing.T) {
	store := &iocache.MockListingsStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetListingsStore").Return(store)

	cfg := &contract.Config{
		Sources:         schema.DefaultSourceOrder,
		SupabaseURL:     "https://example.supabase.co",
		LocalPath:       "data.json",
		ListingsBackend: schema.SQLiteBackend,
	}
	chain := NewChainFromConfig(cfg, mgr, nil)
	assert.Equal(t, []schema.SourceKind{schema.SupabaseSource, schema.DatabaseSource, schema.LocalSource}, chain.Kinds())

	cfg.ListingsBackend = schema.NoneBackend
	cfg.Sources = []schema.SourceKind{schema.LocalSource, schema.DatabaseSource}
	chain = NewChainFromConfig(cfg, mgr, nil)
	assert.Equal(t, []schema.SourceKind{schema.LocalSource}, chain.Kinds())
}

func TestStationSource(t *testing.T) {
	assert.Nil(t, NewStationSource("", time.Second))

	path := writeFile(t, "stations.json", `{"stations":[
		{"name":"Guindy","line":"Blue","lat":13.0067,"lng":80.2206},
		{"name":"Alandur","latitude":"13.0040","longitude":"80.2010"},
		{"name":"Broken"}
	]}`)
	stations, err := NewStationSource(path, time.Second).FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 2)
	assert.Equal(t, "Guindy", stations[0].Name)
	assert.Equal(t, "Blue", stations[0].Line)
	assert.InDelta(t, 13.0040, stations[1].Lat, 1e-9)
	assert.InDelta(t, 80.2010, stations[1].Lng, 1e-9)
}

func TestStationSourceURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"Vadapalani","lat":13.05,"lon":80.21}]`))
	}))
	defer srv.Close()

	stations, err := NewStationSource(srv.URL, time.Second).FetchStations(context.Background())
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.InDelta(t, 80.21, stations[0].Lng, 1e-9)
}
