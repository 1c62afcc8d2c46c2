// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tharaga/propmatch/core"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
)

// NewMCPServer initializes and configures the listing MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, log *logger.Logger) *server.MCPServer {
	if log == nil {
		log = logger.Nop()
	}
	s := server.NewMCPServer(
		"Propmatch Listing Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		session: core.NewSessionFromConfig(baseCfg, mgr, log),
		weights: core.NewWeightsFromManager(mgr, log),
		log:     log.With("surface", "mcp"),
	}

	// --- 1. Tool: search_listings ---
	s.AddTool(mcp.NewTool("search_listings",
		mcp.WithDescription("Search, score and rank property listings. Returns one page of results."),
		mcp.WithString("query", mcp.Description("Free text matched against title, project, city, locality, address and summary.")),
		mcp.WithString("mode", mcp.Description("Listing category to keep."), mcp.Enum("buy", "rent", "commercial")),
		mcp.WithString("cities", mcp.Description("Comma separated cities. 'All' disables the filter.")),
		mcp.WithString("localities", mcp.Description("Comma separated localities.")),
		mcp.WithNumber("min_price", mcp.Description("Minimum price in INR.")),
		mcp.WithNumber("max_price", mcp.Description("Maximum price in INR.")),
		mcp.WithString("type", mcp.Description("Property type, e.g. Apartment or Villa.")),
		mcp.WithString("bhk", mcp.Description("Bedroom count, e.g. '2' or '4+'.")),
		mcp.WithString("amenity", mcp.Description("Amenity that must be present, e.g. Gym.")),
		mcp.WithBoolean("want_metro", mcp.Description("Only keep listings within walking distance of a station.")),
		mcp.WithNumber("max_walk", mcp.Description("Walking budget in minutes when want_metro is set.")),
		mcp.WithString("sort", mcp.Description("Sort order. Defaults to 'relevance'."), mcp.Enum("relevance", "newest", "priceLow", "priceHigh", "areaHigh")),
		mcp.WithNumber("page", mcp.Description("1-based page number.")),
		mcp.WithNumber("page_size", mcp.Description("Listings per page.")),
	), h.handleSearchListings)

	// --- 2. Tool: explain_listing ---
	s.AddTool(mcp.NewTool("explain_listing",
		mcp.WithDescription("Show the per-component score breakdown of one listing."),
		mcp.WithString("id", mcp.Description("Listing id."), mcp.Required()),
		mcp.WithString("query", mcp.Description("Free text the text component is scored against.")),
		mcp.WithString("amenity", mcp.Description("Amenity the amenity component is scored against.")),
	), h.handleExplainListing)

	// --- 3. Tool: get_weights ---
	s.AddTool(mcp.NewTool("get_weights",
		mcp.WithDescription("Return the active score weights."),
	), h.handleGetWeights)

	// --- 4. Tool: set_weights ---
	s.AddTool(mcp.NewTool("set_weights",
		mcp.WithDescription("Merge new values into the stored score weights. Omitted weights keep their value."),
		mcp.WithNumber("text", mcp.Description("Weight of the text match component.")),
		mcp.WithNumber("recency", mcp.Description("Weight of the recency component.")),
		mcp.WithNumber("value", mcp.Description("Weight of the price-per-sqft value component.")),
		mcp.WithNumber("amenity", mcp.Description("Weight of the amenity component.")),
		mcp.WithNumber("metro", mcp.Description("Weight of the metro distance component.")),
		mcp.WithBoolean("reset", mcp.Description("Restore the default weights instead.")),
	), h.handleSetWeights)

	// --- 5. Tool: nearest_station ---
	s.AddTool(mcp.NewTool("nearest_station",
		mcp.WithDescription("Find the closest transit station to a coordinate."),
		mcp.WithNumber("lat", mcp.Description("Latitude in degrees."), mcp.Required()),
		mcp.WithNumber("lng", mcp.Description("Longitude in degrees."), mcp.Required()),
	), h.handleNearestStation)

	return s
}

// StartMCPServer starts the listing MCP server on stdio.
func StartMCPServer(ctx context.Context, baseCfg *contract.Config, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, mgr, core.LoggerFrom(ctx))
	return server.ServeStdio(s)
}
