package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
	"github.com/tharaga/propmatch/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
// The session is shared so listings are fetched once per server.
type toolHandler struct {
	baseCfg *contract.Config
	session *core.Session
	weights *core.WeightsStore
	log     *logger.Logger
}

func (h *toolHandler) handleSearchListings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	input := &contract.ConfigRawInput{
		Query:      request.GetString("query", ""),
		Mode:       request.GetString("mode", ""),
		Cities:     request.GetString("cities", ""),
		Localities: request.GetString("localities", ""),
		MinPrice:   request.GetFloat("min_price", 0),
		MaxPrice:   request.GetFloat("max_price", 0),
		Type:       request.GetString("type", ""),
		BHK:        request.GetString("bhk", ""),
		Amenity:    request.GetString("amenity", ""),
		WantMetro:  request.GetBool("want_metro", false),
		MaxWalk:    request.GetFloat("max_walk", 0),
		Sort:       request.GetString("sort", ""),
		Page:       request.GetInt("page", 1),
		PageSize:   request.GetInt("page_size", 0),
	}
	if err := contract.RevalidateSearch(cfg, input); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid search parameters: %v", err)), nil
	}

	page := core.Search(ctx, h.session, core.SearchRequest{
		Filters:  cfg.Filters,
		Sort:     cfg.Sort,
		Page:     cfg.Page,
		PageSize: cfg.PageSize,
	})
	h.log.Debug("search served", "query", cfg.Query, "total", page.Total)
	return jsonResult(schema.NewResultPage(page))
}

func (h *toolHandler) handleExplainListing(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := request.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("id is required"), nil
	}

	breakdown, err := core.Explain(ctx, h.session, id, request.GetString("query", ""), request.GetString("amenity", ""))
	if errors.Is(err, core.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("listing %q not found", id)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("explain failed: %v", err)), nil
	}
	return jsonResult(struct {
		ID           string                `json:"id"`
		MatchPercent int                   `json:"matchPercent"`
		Breakdown    schema.ScoreBreakdown `json:"breakdown"`
	}{id, schema.MatchPercent(breakdown.Total), breakdown})
}

func (h *toolHandler) handleGetWeights(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(h.weights.Get())
}

func (h *toolHandler) handleSetWeights(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if request.GetBool("reset", false) {
		return jsonResult(h.weights.Reset())
	}

	args := request.GetArguments()
	optional := func(key string) *float64 {
		if _, ok := args[key]; !ok {
			return nil
		}
		return schema.Float(request.GetFloat(key, 0))
	}
	upd := schema.WeightsUpdate{
		Text:    optional("text"),
		Recency: optional("recency"),
		Value:   optional("value"),
		Amenity: optional("amenity"),
		Metro:   optional("metro"),
	}
	if upd.IsEmpty() {
		return mcp.NewToolResultError("no weights given; pass text, recency, value, amenity or metro"), nil
	}
	if err := contract.ValidateWeightsUpdate(upd); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid weights: %v", err)), nil
	}
	return jsonResult(h.weights.Set(upd))
}

func (h *toolHandler) handleNearestStation(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	if _, ok := args["lat"]; !ok {
		return mcp.NewToolResultError("lat is required"), nil
	}
	if _, ok := args["lng"]; !ok {
		return mcp.NewToolResultError("lng is required"), nil
	}
	lat, lng := request.GetFloat("lat", 0), request.GetFloat("lng", 0)
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return mcp.NewToolResultError(fmt.Sprintf("coordinate out of range: %g,%g", lat, lng)), nil
	}

	match, err := core.Nearest(ctx, h.session, lat, lng)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("lookup failed: %v", err)), nil
	}
	return jsonResult(match)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}
