package sources

import (
	"context"
	"time"

	"github.com/tharaga/propmatch/internal/contract"
	"github.com/tharaga/propmatch/internal/logger"
	"github.com/tharaga/propmatch/schema"
)

// Chain tries its sources in order and returns the first non-empty batch.
// Source errors are logged and skipped, never returned.
type Chain struct {
	sources []contract.RecordSource
	log     *logger.Logger
}

var _ contract.RecordLoader = &Chain{} // Compile-time check

// NewChain creates a chain over sources in the given order.
func NewChain(log *logger.Logger, sources ...contract.RecordSource) *Chain {
	if log == nil {
		log = logger.Nop()
	}
	return &Chain{sources: sources, log: log}
}

// Kinds lists the sources in the order they are tried.
func (c *Chain) Kinds() []schema.SourceKind {
	kinds := make([]schema.SourceKind, len(c.sources))
	for i, s := range c.sources {
		kinds[i] = s.Kind()
	}
	return kinds
}

// Load implements contract.RecordLoader. An empty kind means no source had data.
func (c *Chain) Load(ctx context.Context) ([]schema.RawRecord, schema.SourceKind) {
	for _, src := range c.sources {
		if ctx.Err() != nil {
			c.log.Warn("record loading cancelled", "error", ctx.Err())
			return nil, ""
		}

		start := time.Now()
		records, err := src.Fetch(ctx)
		if err != nil {
			c.log.Warn("source failed, trying next", "source", src.Kind(), "error", err)
			continue
		}
		if len(records) == 0 {
			c.log.Info("source returned no records, trying next", "source", src.Kind())
			continue
		}
		c.log.Info("records loaded", "source", src.Kind(), "count", len(records), "elapsed", time.Since(start))
		return records, src.Kind()
	}
	c.log.Warn("no source returned records", "tried", len(c.sources))
	return nil, ""
}

// NewChainFromConfig builds the chain for cfg.Sources, skipping sources
// that have nothing configured.
func NewChainFromConfig(cfg *contract.Config, mgr contract.CacheManager, log *logger.Logger) *Chain {
	if log == nil {
		log = logger.Nop()
	}
	var list []contract.RecordSource
	for _, kind := range cfg.Sources {
		src := sourceFor(kind, cfg, mgr)
		if src == nil {
			log.Debug("source not configured, skipping", "source", kind)
			continue
		}
		list = append(list, src)
	}
	return NewChain(log, list...)
}

func sourceFor(kind schema.SourceKind, cfg *contract.Config, mgr contract.CacheManager) contract.RecordSource {
	switch kind {
	case schema.APISource:
		if cfg.APIURL != "" {
			return NewAPISource(cfg.APIURL, cfg.HTTPTimeout)
		}
	case schema.SupabaseSource:
		if cfg.SupabaseURL != "" {
			return NewSupabaseSource(cfg.SupabaseURL, cfg.SupabaseKey, cfg.FetchLimit, cfg.HTTPTimeout)
		}
	case schema.DatabaseSource:
		if mgr == nil || cfg.ListingsBackend == schema.NoneBackend {
			return nil
		}
		if store := mgr.GetListingsStore(); store != nil {
			return NewDatabaseSource(store, cfg.FetchLimit)
		}
	case schema.SheetSource:
		if cfg.SheetPath != "" {
			return NewSheetSource(cfg.SheetPath, cfg.HTTPTimeout)
		}
	case schema.LocalSource:
		if cfg.LocalPath != "" {
			return NewLocalSource(cfg.LocalPath)
		}
	}
	return nil
}
