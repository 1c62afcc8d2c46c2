// Package core has core logic for loading, scoring and searching listings.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tharaga/propmatch/core/algo"
	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
	"github.com/tharaga/propmatch/internal/outwriter"
	"github.com/tharaga/propmatch/internal/sources"
	"github.com/tharaga/propmatch/schema"
)

// ExecutorFunc defines the function signature for executing the listing commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// NewSessionFromConfig wires a session from the validated config: the source
// chain, the station list and the persisted weights.
func NewSessionFromConfig(cfg *contract.Config, mgr contract.CacheManager, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Nop()
	}
	chain := sources.NewChainFromConfig(cfg, mgr, log)
	stations := NewStationIndex(sources.NewStationSource(cfg.StationsPath, cfg.HTTPTimeout), log)
	return NewSession(chain, stations, NewScorer(NewWeightsFromManager(mgr, log), time.Now), log)
}

// NewWeightsFromManager binds a WeightsStore to the manager's key/value store, if any.
func NewWeightsFromManager(mgr contract.CacheManager, log *logger.Logger) *WeightsStore {
	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetWeightsStore()
	}
	return NewWeightsStore(store, log)
}

// ExecuteSearch runs a listing search and prints one page of results.
// It serves as the main entry point for the 'search' command.
func ExecuteSearch(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	session := NewSessionFromConfig(cfg, mgr, LoggerFrom(ctx))
	logSearchHeader(ctx, cfg, session.SourceKinds())

	page := Search(ctx, session, SearchRequest{
		Filters:  cfg.Filters,
		Sort:     cfg.Sort,
		Page:     cfg.Page,
		PageSize: cfg.PageSize,
	})
	return outwriter.PrintListings(page, cfg, session.ID, time.Since(start))
}

// ExecuteExplain prints the score breakdown of one listing against the configured query.
func ExecuteExplain(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, id string) error {
	session := NewSessionFromConfig(cfg, mgr, LoggerFrom(ctx))
	breakdown, err := Explain(ctx, session, id, cfg.Query, cfg.Filters.Amenity)
	if err != nil {
		return fmt.Errorf("cannot explain %q: %w", id, err)
	}
	p, _ := session.Find(id)
	return outwriter.PrintExplain(p, breakdown, cfg)
}

// ExecuteDetails prints the full detail view of one listing.
func ExecuteDetails(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, id string, loan EMIRequest) error {
	session := NewSessionFromConfig(cfg, mgr, LoggerFrom(ctx))
	detail, err := Details(ctx, session, id, cfg.Query, cfg.Filters.Amenity, loan)
	if err != nil {
		return fmt.Errorf("cannot show %q: %w", id, err)
	}
	return outwriter.PrintDetails(detail, cfg)
}

// ExecuteNormalize normalizes the records of a JSON or CSV file and prints them.
// Transit distances are attached when a station list is configured.
func ExecuteNormalize(ctx context.Context, cfg *contract.Config, path string) error {
	records, err := readRecordsFile(ctx, path)
	if err != nil {
		return err
	}
	props := algo.NormalizeAll(records)
	if cfg.StationsPath != "" {
		stations := NewStationIndex(sources.NewStationSource(cfg.StationsPath, cfg.HTTPTimeout), LoggerFrom(ctx))
		attachMetro(props, stations.Stations(ctx))
	}
	return outwriter.PrintProperties(props, cfg)
}

// ExecuteImport normalizes a JSON or CSV file and upserts it into the
// properties table, migrating the schema first.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, path string) error {
	store, err := listingsStore(mgr)
	if err != nil {
		return err
	}
	records, err := readRecordsFile(ctx, path)
	if err != nil {
		return err
	}
	if err := store.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate properties table: %w", err)
	}
	n, err := store.Import(ctx, algo.NormalizeAll(records))
	if err != nil {
		return err
	}
	LoggerFrom(ctx).Info("listings imported", "count", n, "backend", cfg.ListingsBackend)
	_, err = fmt.Fprintf(os.Stdout, "Imported %d listings into %s.\n", n, cfg.ListingsBackend)
	return err
}

// ExecuteListingsStatus prints the state of the properties table.
func ExecuteListingsStatus(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	store, err := listingsStore(mgr)
	if err != nil {
		return err
	}
	status, err := store.GetStatus()
	if err != nil {
		return err
	}
	return outwriter.PrintListingsStatus(status, cfg)
}

// ExecuteStoreStatus prints the state of the weights store.
func ExecuteStoreStatus(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if mgr == nil || mgr.GetWeightsStore() == nil {
		return errors.New("weights store is not initialized")
	}
	status, err := mgr.GetWeightsStore().GetStatus()
	if err != nil {
		return err
	}
	return outwriter.PrintStoreStatus(status, cfg)
}

// ExecuteWeightsGet prints the active score weights.
func ExecuteWeightsGet(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return outwriter.PrintWeights(NewWeightsFromManager(mgr, LoggerFrom(ctx)).Get(), cfg)
}

// ExecuteWeightsSet merges a partial update into the stored weights and prints the result.
// An empty update falls back to the weights given in the config file.
func ExecuteWeightsSet(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, upd schema.WeightsUpdate) error {
	if upd.IsEmpty() {
		upd = cfg.CustomWeights
	}
	if upd.IsEmpty() {
		return errors.New("no weights given; pass key=value pairs such as metro=0.3 or text=0.5")
	}
	if err := contract.ValidateWeightsUpdate(upd); err != nil {
		return err
	}
	return outwriter.PrintWeights(NewWeightsFromManager(mgr, LoggerFrom(ctx)).Set(upd), cfg)
}

// ExecuteWeightsReset restores the default weights.
func ExecuteWeightsReset(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return outwriter.PrintWeights(NewWeightsFromManager(mgr, LoggerFrom(ctx)).Reset(), cfg)
}

// ExecuteNearest prints the station closest to a coordinate.
func ExecuteNearest(ctx context.Context, cfg *contract.Config, lat, lng float64) error {
	if cfg.StationsPath == "" {
		return errors.New("no station list configured; set --stations")
	}
	log := LoggerFrom(ctx)
	stations := NewStationIndex(sources.NewStationSource(cfg.StationsPath, cfg.HTTPTimeout), log)
	match, err := Nearest(ctx, NewSession(nil, stations, nil, log), lat, lng)
	if err != nil {
		return err
	}
	return outwriter.PrintStationMatch(match, cfg)
}

func listingsStore(mgr contract.CacheManager) (contract.ListingsStore, error) {
	if mgr == nil || mgr.GetListingsStore() == nil {
		return nil, errors.New("listings store is not initialized")
	}
	return mgr.GetListingsStore(), nil
}

// readRecordsFile loads raw records from a CSV file or a JSON file.
func readRecordsFile(ctx context.Context, path string) ([]schema.RawRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return sources.ParseCSV(data)
	}
	return sources.NewLocalSource(path).Fetch(ctx)
}
