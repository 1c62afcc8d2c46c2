package schema

// Custom string types for type safety.
type (
	// BreakdownKey represents keys used in scoring breakdowns.
	BreakdownKey string

	// OutputMode represents the format of the output.
	OutputMode string

	// SortMode represents the ordering applied to search results.
	SortMode string

	// SourceKind identifies where a batch of raw records came from.
	SourceKind string

	// DatabaseBackend represents the database backend for persistence.
	DatabaseBackend string
)

// Breakdown keys used in the scoring logic.
const (
	BreakdownText    BreakdownKey = "text"    // textC
	BreakdownRecency BreakdownKey = "recency" // recencyC
	BreakdownValue   BreakdownKey = "value"   // valueC
	BreakdownAmenity BreakdownKey = "amenity" // amenityC
	BreakdownMetro   BreakdownKey = "metro"   // metroC
)

// AllBreakdownKeys lists the score components in display order.
var AllBreakdownKeys = []BreakdownKey{BreakdownText, BreakdownRecency, BreakdownValue, BreakdownAmenity, BreakdownMetro}

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
	HTMLOut    OutputMode = "html"
)

// All sort modes supported.
const (
	SortRelevance SortMode = "relevance" // default
	SortNewest    SortMode = "newest"
	SortPriceLow  SortMode = "priceLow"
	SortPriceHigh SortMode = "priceHigh"
	SortAreaHigh  SortMode = "areaHigh"
)

// All record sources supported, in default fallback order.
const (
	APISource      SourceKind = "api"
	SupabaseSource SourceKind = "supabase"
	DatabaseSource SourceKind = "database"
	SheetSource    SourceKind = "sheet"
	LocalSource    SourceKind = "local"
)

// All persistence backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Scoring and display constants.
const (
	// MatchDenominator scales a raw weighted score onto a percentage for display.
	MatchDenominator = 30.0

	// WalkMinutesPerKm converts transit distance into walking minutes.
	WalkMinutesPerKm = 12.0

	// DefaultPageSize is the number of listings per result page.
	DefaultPageSize = 9

	// DefaultOwnerName is shown when a listing carries no owner name.
	DefaultOwnerName = "Owner"

	// VerifiedStatus is the listing status derived from a verification flag.
	VerifiedStatus = "Verified"

	// PlaceholderImage is used when a listing has no images.
	PlaceholderImage = "./noimg.svg"

	// WeightsKey is the fixed store key holding the persisted weights.
	WeightsKey = "thg_weights"
)

// DefaultSourceOrder is the fallback order used when none is configured.
var DefaultSourceOrder = []SourceKind{APISource, SupabaseSource, DatabaseSource, SheetSource, LocalSource}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
	HTMLOut:    {},
}

// ValidSortModes lists all valid sort modes.
var ValidSortModes = map[SortMode]struct{}{
	SortRelevance: {},
	SortNewest:    {},
	SortPriceLow:  {},
	SortPriceHigh: {},
	SortAreaHigh:  {},
}

// ValidSourceKinds lists all valid record sources.
var ValidSourceKinds = map[SourceKind]struct{}{
	APISource:      {},
	SupabaseSource: {},
	DatabaseSource: {},
	SheetSource:    {},
	LocalSource:    {},
}

// ValidDatabaseBackends lists all valid persistence backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
