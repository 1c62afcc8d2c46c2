package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/schema"
)

// searchQuery mirrors the query string of GET /api/properties.
type searchQuery struct {
	Query      string  `form:"q"`
	Mode       string  `form:"mode"`
	Cities     string  `form:"cities"`
	Localities string  `form:"localities"`
	MinPrice   float64 `form:"minPrice"`
	MaxPrice   float64 `form:"maxPrice"`
	Type       string  `form:"type"`
	BHK        string  `form:"bhk"`
	Furnished  string  `form:"furnished"`
	Facing     string  `form:"facing"`
	MinArea    float64 `form:"minArea"`
	MaxArea    float64 `form:"maxArea"`
	Amenity    string  `form:"amenity"`
	WantMetro  bool    `form:"wantMetro"`
	MaxWalk    float64 `form:"maxWalk"`
	Sort       string  `form:"sort"`
	Page       int     `form:"page"`
	PageSize   int     `form:"pageSize"`
}

func (q searchQuery) rawInput() *contract.ConfigRawInput {
	return &contract.ConfigRawInput{
		Query:      q.Query,
		Mode:       q.Mode,
		Cities:     q.Cities,
		Localities: q.Localities,
		MinPrice:   q.MinPrice,
		MaxPrice:   q.MaxPrice,
		Type:       q.Type,
		BHK:        q.BHK,
		Furnished:  q.Furnished,
		Facing:     q.Facing,
		MinArea:    q.MinArea,
		MaxArea:    q.MaxArea,
		Amenity:    q.Amenity,
		WantMetro:  q.WantMetro,
		MaxWalk:    q.MaxWalk,
		Sort:       q.Sort,
		Page:       q.Page,
		PageSize:   q.PageSize,
	}
}

// detailQuery carries the scoring context and loan overrides of a detail view.
type detailQuery struct {
	Query     string  `form:"q"`
	Amenity   string  `form:"amenity"`
	Principal float64 `form:"principal"`
	RatePct   float64 `form:"rate"`
	Years     int     `form:"years"`
}

// Handler serves the listing and weights endpoints from one session.
type Handler struct {
	baseCfg *contract.Config
	session *core.Session
	weights *core.WeightsStore
}

func NewHandler(baseCfg *contract.Config, session *core.Session, weights *core.WeightsStore) *Handler {
	return &Handler{baseCfg: baseCfg, session: session, weights: weights}
}

func HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// ListProperties handles GET /api/properties.
func (h *Handler) ListProperties(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateSearch(cfg, q.rawInput()); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}

	page := core.Search(c.Request.Context(), h.session, core.SearchRequest{
		Filters:  cfg.Filters,
		Sort:     cfg.Sort,
		Page:     cfg.Page,
		PageSize: cfg.PageSize,
	})
	RespondOK(c, schema.NewResultPage(page))
}

// GetProperty handles GET /api/properties/:id.
func (h *Handler) GetProperty(c *gin.Context) {
	var q detailQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	if q.Principal < 0 || q.RatePct < 0 || q.Years < 0 {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, errors.New("loan figures must not be negative"))
		return
	}

	detail, err := core.Details(c.Request.Context(), h.session, c.Param("id"), q.Query, q.Amenity, core.EMIRequest{
		Principal: q.Principal,
		RatePct:   q.RatePct,
		Years:     q.Years,
	})
	if err != nil {
		respondLookupError(c, err)
		return
	}
	RespondOK(c, detail)
}

// ExplainProperty handles GET /api/properties/:id/explain.
func (h *Handler) ExplainProperty(c *gin.Context) {
	id := c.Param("id")
	breakdown, err := core.Explain(c.Request.Context(), h.session, id, c.Query("q"), c.Query("amenity"))
	if err != nil {
		respondLookupError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"id":           id,
		"matchPercent": schema.MatchPercent(breakdown.Total),
		"breakdown":    breakdown,
	})
}

// GetWeights handles GET /api/weights.
func (h *Handler) GetWeights(c *gin.Context) {
	RespondOK(c, h.weights.Get())
}

// PatchWeights handles PATCH /api/weights with a partial weights object.
func (h *Handler) PatchWeights(c *gin.Context) {
	var upd schema.WeightsUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	if upd.IsEmpty() {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, errors.New("no weights given"))
		return
	}
	if err := contract.ValidateWeightsUpdate(upd); err != nil {
		RespondError(c, http.StatusBadRequest, CodeBadRequest, err)
		return
	}
	RespondOK(c, h.weights.Set(upd))
}

// ResetWeights handles DELETE /api/weights.
func (h *Handler) ResetWeights(c *gin.Context) {
	RespondOK(c, h.weights.Reset())
}

func respondLookupError(c *gin.Context, err error) {
	if errors.Is(err, core.ErrNotFound) {
		RespondError(c, http.StatusNotFound, CodeNotFound, err)
		return
	}
	RespondError(c, http.StatusInternalServerError, CodeInternal, err)
}
