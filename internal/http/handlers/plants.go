package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	plantrepos "github.com/greenur/plantbasics/internal/data/repos/plants"
	types "github.com/greenur/plantbasics/internal/domain"
	"github.com/greenur/plantbasics/internal/http/response"
	"github.com/greenur/plantbasics/internal/platform/logger"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

type PlantHandler struct {
	log    *logger.Logger
	plants plantrepos.PlantBasicsRepo
	runs   plantrepos.ScrapeRunRepo
}

func NewPlantHandler(log *logger.Logger, plants plantrepos.PlantBasicsRepo, runs plantrepos.ScrapeRunRepo) *PlantHandler {
	return &PlantHandler{
		log:    log.With("handler", "PlantHandler"),
		plants: plants,
		runs:   runs,
	}
}

// GET /api/plants?type=Herb&family=Lamiaceae&limit=50&offset=0
func (h *PlantHandler) ListPlants(c *gin.Context) {
	filter := plantrepos.ListFilter{
		Family: strings.TrimSpace(c.Query("family")),
	}
	if raw := strings.TrimSpace(c.Query("type")); raw != "" {
		// ParsePlantType falls back to Plant, so only an exact match is accepted.
		pt := types.ParsePlantType(raw)
		if !strings.EqualFold(string(pt), raw) {
			response.RespondError(c, http.StatusBadRequest, "invalid_plant_type", fmt.Errorf("unknown plant type %q", raw))
			return
		}
		filter.PlantType = pt
	}
	var err error
	if filter.Limit, err = intQuery(c, "limit", defaultPageSize); err != nil || filter.Limit < 1 || filter.Limit > maxPageSize {
		response.RespondError(c, http.StatusBadRequest, "invalid_limit", fmt.Errorf("limit must be between 1 and %d", maxPageSize))
		return
	}
	if filter.Offset, err = intQuery(c, "offset", 0); err != nil || filter.Offset < 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_offset", errors.New("offset must be a non-negative integer"))
		return
	}

	rows, err := h.plants.List(c.Request.Context(), nil, filter)
	if err != nil {
		h.log.Error("list plants failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_plants_failed", err)
		return
	}
	if rows == nil {
		rows = []*types.PlantRecord{}
	}
	response.RespondOK(c, gin.H{"plants": rows, "limit": filter.Limit, "offset": filter.Offset})
}

// GET /api/plants/:id
func (h *PlantHandler) GetPlant(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.RespondError(c, http.StatusBadRequest, "invalid_plant_id", errors.New("id must be a positive integer"))
		return
	}
	rec, err := h.plants.GetByID(c.Request.Context(), nil, id)
	if err != nil {
		h.log.Error("get plant failed", "plant_id", id, "error", err)
		response.RespondError(c, http.StatusInternalServerError, "get_plant_failed", err)
		return
	}
	if rec == nil {
		response.RespondError(c, http.StatusNotFound, "plant_not_found", fmt.Errorf("plant %d not found", id))
		return
	}
	response.RespondOK(c, gin.H{"plant": rec})
}

// GET /api/plant-types
func (h *PlantHandler) ListPlantTypes(c *gin.Context) {
	response.RespondOK(c, gin.H{"plant_types": types.AllPlantTypes()})
}

// GET /api/scrape-runs?limit=10
func (h *PlantHandler) ListScrapeRuns(c *gin.Context) {
	limit, err := intQuery(c, "limit", 10)
	if err != nil || limit < 1 || limit > 100 {
		response.RespondError(c, http.StatusBadRequest, "invalid_limit", errors.New("limit must be between 1 and 100"))
		return
	}
	runs, err := h.runs.Latest(c.Request.Context(), nil, limit)
	if err != nil {
		h.log.Error("list scrape runs failed", "error", err)
		response.RespondError(c, http.StatusInternalServerError, "list_scrape_runs_failed", err)
		return
	}
	if runs == nil {
		runs = []*types.ScrapeRun{}
	}
	response.RespondOK(c, gin.H{"runs": runs})
}

func intQuery(c *gin.Context, key string, def int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}
