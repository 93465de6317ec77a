package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	plantrepos "github.com/greenur/plantbasics/internal/data/repos/plants"
	"github.com/greenur/plantbasics/internal/data/repos/testutil"
	types "github.com/greenur/plantbasics/internal/domain"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	gdb := testutil.DB(t)
	log := testutil.Logger(t)
	plants := plantrepos.NewPlantBasicsRepo(gdb, log)
	runs := plantrepos.NewScrapeRunRepo(gdb, log)

	ctx := context.Background()
	tulsi := testutil.SeedPlant(t, ctx, gdb, 3, "Tulsi", types.PlantTypeHerb, "Lamiaceae")
	testutil.SeedPlant(t, ctx, gdb, 6, "Mint", types.PlantTypeHerb, "Lamiaceae")
	testutil.SeedPlant(t, ctx, gdb, 9, "Bamboo", types.PlantTypeGrass, "Poaceae")
	tulsi.ScientificName = "Ocimum tenuiflorum"
	tulsi.NamesInLanguages = map[string]string{"hi": "तुलसी"}
	if _, err := plants.UpsertMany(ctx, nil, []*types.PlantRecord{tulsi}); err != nil {
		t.Fatalf("update tulsi: %v", err)
	}
	testutil.SeedScrapeRun(t, ctx, gdb, 3, `{"sources":{"membership":3}}`)

	h := NewPlantHandler(log, plants, runs)
	r := gin.New()
	r.GET("/api/plants", h.ListPlants)
	r.GET("/api/plants/:id", h.GetPlant)
	r.GET("/api/plant-types", h.ListPlantTypes)
	r.GET("/api/scrape-runs", h.ListScrapeRuns)
	return r
}

func get(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestListPlantsFilters(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		path string
		want []int64
	}{
		{"/api/plants", []int64{3, 6, 9}},
		{"/api/plants?type=herb", []int64{3, 6}},
		{"/api/plants?family=Poaceae", []int64{9}},
		{"/api/plants?limit=1&offset=1", []int64{6}},
	}
	for _, tc := range cases {
		rec := get(t, r, tc.path)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status want=200 got=%d body=%s", tc.path, rec.Code, rec.Body.String())
		}
		var body struct {
			Plants []types.PlantRecord `json:"plants"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("%s: decode: %v", tc.path, err)
		}
		if len(body.Plants) != len(tc.want) {
			t.Fatalf("%s: want=%v got=%d plants", tc.path, tc.want, len(body.Plants))
		}
		for i, id := range tc.want {
			if body.Plants[i].ID != id {
				t.Fatalf("%s: index %d want=%d got=%d", tc.path, i, id, body.Plants[i].ID)
			}
		}
	}
}

func TestListPlantsRejectsBadQuery(t *testing.T) {
	r := newTestRouter(t)
	for _, path := range []string{
		"/api/plants?type=Shrub",
		"/api/plants?limit=0",
		"/api/plants?limit=abc",
		"/api/plants?offset=-1",
	} {
		if rec := get(t, r, path); rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: want=400 got=%d", path, rec.Code)
		}
	}
}

func TestGetPlant(t *testing.T) {
	r := newTestRouter(t)

	rec := get(t, r, "/api/plants/3")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", rec.Code)
	}
	var body struct {
		Plant types.PlantRecord `json:"plant"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Plant.ScientificName != "Ocimum tenuiflorum" || body.Plant.NamesInLanguages["hi"] != "तुलसी" {
		t.Fatalf("plant: got=%+v", body.Plant)
	}

	if rec := get(t, r, "/api/plants/404"); rec.Code != http.StatusNotFound {
		t.Fatalf("missing: want=404 got=%d", rec.Code)
	}
	if rec := get(t, r, "/api/plants/x"); rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=400 got=%d", rec.Code)
	}
}

func TestListPlantTypesAndRuns(t *testing.T) {
	r := newTestRouter(t)

	rec := get(t, r, "/api/plant-types")
	var typesBody struct {
		PlantTypes []string `json:"plant_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &typesBody); err != nil || len(typesBody.PlantTypes) != 8 {
		t.Fatalf("plant types: got=%v err=%v", typesBody.PlantTypes, err)
	}

	rec = get(t, r, "/api/scrape-runs")
	var runs struct {
		Runs []types.ScrapeRun `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &runs); err != nil || len(runs.Runs) != 1 || runs.Runs[0].Added != 3 {
		t.Fatalf("runs: got=%+v err=%v", runs.Runs, err)
	}
}

type failingPinger struct{ err error }

func (p failingPinger) PingContext(context.Context) error { return p.err }

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ok", NewHealthHandler(nil).HealthCheck)
	r.GET("/down", NewHealthHandler(failingPinger{err: context.DeadlineExceeded}).HealthCheck)

	if rec := get(t, r, "/ok"); rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("ok: got=%d %q", rec.Code, rec.Body.String())
	}
	if rec := get(t, r, "/down"); rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("down: want=503 got=%d", rec.Code)
	}
}
