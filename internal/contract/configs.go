package contract

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tharaga/propmatch/core/algo"
	"github.com/tharaga/propmatch/schema"
)

// Default values for configuration.
const (
	DefaultFetchLimit  = 500
	MaxPageSize        = 100
	DefaultHTTPTimeout = 10 * time.Second
	DefaultAddr        = ":8080"
	DefaultLogMode     = "development"
	DefaultLogLevel    = "warn"
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// WeightsRawInput holds custom score weights from the YAML config file.
// Use float64 pointers so absent keys stay distinguishable from zero.
type WeightsRawInput struct {
	Text    *float64 `mapstructure:"text"`
	Recency *float64 `mapstructure:"recency"`
	Value   *float64 `mapstructure:"value"`
	Amenity *float64 `mapstructure:"amenity"`
	Metro   *float64 `mapstructure:"metro"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	// Search
	Query    string
	Filters  algo.Filters
	Sort     schema.SortMode
	Page     int
	PageSize int

	// Output
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	// Sources
	Sources      []schema.SourceKind
	APIURL       string
	SupabaseURL  string
	SupabaseKey  string // Please use env var as this is plaintext
	SheetPath    string // URL or file path of a CSV export
	LocalPath    string
	StationsPath string // URL or file path of the station list
	FetchLimit   int
	HTTPTimeout  time.Duration

	ListingsBackend   schema.DatabaseBackend
	ListingsDBConnect string // Please use env var as this is plaintext

	// Weights store
	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	// Server
	Addr        string
	Refresh     string // cron spec, empty disables periodic refresh
	CORSOrigins []string

	LogMode  string
	LogLevel string

	// CustomWeights are the weights given in the config file, applied with `weights set`.
	CustomWeights schema.WeightsUpdate
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Search flags ---
	Query      string  `mapstructure:"query"`
	Mode       string  `mapstructure:"mode"`
	Cities     string  `mapstructure:"cities"`
	Localities string  `mapstructure:"localities"`
	MinPrice   float64 `mapstructure:"min-price"`
	MaxPrice   float64 `mapstructure:"max-price"`
	Type       string  `mapstructure:"type"`
	BHK        string  `mapstructure:"bhk"`
	Furnished  string  `mapstructure:"furnished"`
	Facing     string  `mapstructure:"facing"`
	MinArea    float64 `mapstructure:"min-area"`
	MaxArea    float64 `mapstructure:"max-area"`
	Amenity    string  `mapstructure:"amenity"`
	WantMetro  bool    `mapstructure:"want-metro"`
	MaxWalk    float64 `mapstructure:"max-walk"`
	Sort       string  `mapstructure:"sort"`
	Page       int     `mapstructure:"page"`
	PageSize   int     `mapstructure:"page-size"`

	// --- Output flags ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`

	// --- Source flags ---
	Sources           string `mapstructure:"sources"`
	APIURL            string `mapstructure:"api-url"`
	SupabaseURL       string `mapstructure:"supabase-url"`
	SupabaseKey       string `mapstructure:"supabase-key"`
	Sheet             string `mapstructure:"sheet"`
	Local             string `mapstructure:"local"`
	Stations          string `mapstructure:"stations"`
	FetchLimit        int    `mapstructure:"fetch-limit"`
	Timeout           string `mapstructure:"timeout"`
	ListingsBackend   string `mapstructure:"db-backend"`
	ListingsDBConnect string `mapstructure:"db-connect"`

	// --- Store flags ---
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Server flags ---
	Addr        string `mapstructure:"addr"`
	Refresh     string `mapstructure:"refresh"`
	CORSOrigins string `mapstructure:"cors-origins"`

	LogMode  string `mapstructure:"log-mode"`
	LogLevel string `mapstructure:"log-level"`

	// --- Custom weights from config file ---
	Weights WeightsRawInput `mapstructure:"weights"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Sources = append([]schema.SourceKind(nil), c.Sources...)
	clone.CORSOrigins = append([]string(nil), c.CORSOrigins...)
	clone.Filters.Cities = append([]string(nil), c.Filters.Cities...)
	clone.Filters.Localities = append([]string(nil), c.Filters.Localities...)
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processSearch(cfg, input); err != nil {
		return err
	}
	if err := processOutput(cfg, input); err != nil {
		return err
	}
	if err := processSources(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processServer(cfg, input); err != nil {
		return err
	}
	if err := processCustomWeights(cfg, input); err != nil {
		return err
	}
	return nil
}

// RevalidateSearch rebuilds the query, filters, sort and paging of cfg from
// a raw input. The HTTP and MCP surfaces use it per request.
func RevalidateSearch(cfg *Config, input *ConfigRawInput) error {
	return processSearch(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ValidateWeightsUpdate rejects negative or non-finite weights.
func ValidateWeightsUpdate(upd schema.WeightsUpdate) error {
	for key, v := range upd.AsMap() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("weight %s must be a finite number", key)
		}
		if v < 0 {
			return fmt.Errorf("weight %s must not be negative (received %.3f)", key, v)
		}
	}
	return nil
}

// ProcessWeightsRawInput converts WeightsRawInput into a validated partial update.
func ProcessWeightsRawInput(raw WeightsRawInput) (schema.WeightsUpdate, error) {
	upd := schema.WeightsUpdate{
		Text:    raw.Text,
		Recency: raw.Recency,
		Value:   raw.Value,
		Amenity: raw.Amenity,
		Metro:   raw.Metro,
	}
	if err := ValidateWeightsUpdate(upd); err != nil {
		return schema.WeightsUpdate{}, err
	}
	return upd, nil
}

// ParseWeightsArgs parses "key=value" pairs such as "text=2 metro=1.5"
// into a validated partial update.
func ParseWeightsArgs(args []string) (schema.WeightsUpdate, error) {
	var raw WeightsRawInput
	for _, arg := range args {
		key, val, ok := strings.Cut(arg, "=")
		if !ok {
			return schema.WeightsUpdate{}, fmt.Errorf("invalid weight '%s'. expected key=value", arg)
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(val), 64)
		if err != nil {
			return schema.WeightsUpdate{}, fmt.Errorf("invalid value for weight %s: %w", key, err)
		}
		switch schema.BreakdownKey(strings.ToLower(strings.TrimSpace(key))) {
		case schema.BreakdownText:
			raw.Text = &f
		case schema.BreakdownRecency:
			raw.Recency = &f
		case schema.BreakdownValue:
			raw.Value = &f
		case schema.BreakdownAmenity:
			raw.Amenity = &f
		case schema.BreakdownMetro:
			raw.Metro = &f
		default:
			return schema.WeightsUpdate{}, fmt.Errorf("unknown weight '%s'. must be text, recency, value, amenity, metro", key)
		}
	}
	return ProcessWeightsRawInput(raw)
}

// processSearch handles the query, filter and paging inputs.
func processSearch(cfg *Config, input *ConfigRawInput) error {
	cfg.Query = strings.TrimSpace(input.Query)
	cfg.Filters = algo.Filters{
		Mode:       strings.ToLower(strings.TrimSpace(input.Mode)),
		Query:      cfg.Query,
		Cities:     SplitList(input.Cities),
		Localities: SplitList(input.Localities),
		MinPrice:   input.MinPrice,
		MaxPrice:   input.MaxPrice,
		Type:       strings.TrimSpace(input.Type),
		BHK:        strings.TrimSpace(input.BHK),
		Furnished:  strings.TrimSpace(input.Furnished),
		Facing:     strings.TrimSpace(input.Facing),
		MinArea:    input.MinArea,
		MaxArea:    input.MaxArea,
		Amenity:    strings.TrimSpace(input.Amenity),
		WantMetro:  input.WantMetro,
		MaxWalk:    input.MaxWalk,
	}

	if input.MinPrice < 0 || input.MaxPrice < 0 {
		return fmt.Errorf("price bounds must not be negative")
	}
	if input.MaxPrice > 0 && input.MinPrice > input.MaxPrice {
		return fmt.Errorf("min-price (%.0f) cannot be greater than max-price (%.0f)", input.MinPrice, input.MaxPrice)
	}
	if input.MinArea < 0 || input.MaxArea < 0 {
		return fmt.Errorf("area bounds must not be negative")
	}
	if input.MaxArea > 0 && input.MinArea > input.MaxArea {
		return fmt.Errorf("min-area (%.0f) cannot be greater than max-area (%.0f)", input.MinArea, input.MaxArea)
	}
	if input.MaxWalk < 0 {
		return fmt.Errorf("max-walk must not be negative (received %.0f)", input.MaxWalk)
	}
	if cfg.Filters.MaxWalk == 0 {
		cfg.Filters.MaxWalk = algo.DefaultMaxWalk
	}

	cfg.Sort = schema.SortRelevance
	if input.Sort != "" {
		cfg.Sort = schema.SortMode(input.Sort)
		if _, ok := schema.ValidSortModes[cfg.Sort]; !ok {
			return fmt.Errorf("invalid sort '%s'. must be relevance, newest, priceLow, priceHigh, areaHigh", input.Sort)
		}
	}

	cfg.Page = max(input.Page, 1)
	cfg.PageSize = schema.DefaultPageSize
	if input.PageSize != 0 {
		if input.PageSize < 0 || input.PageSize > MaxPageSize {
			return fmt.Errorf("page-size must be between 1 and %d (received %d)", MaxPageSize, input.PageSize)
		}
		cfg.PageSize = input.PageSize
	}
	return nil
}

// processOutput handles the output format and terminal settings.
func processOutput(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	cfg.Output = schema.TextOut
	if input.Output != "" {
		cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
		if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
			return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet, html", input.Output)
		}
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		colors = parsed
	}
	cfg.UseColors = colors
	return nil
}

// processSources handles the source order and per-source settings.
func processSources(cfg *Config, input *ConfigRawInput) error {
	cfg.APIURL = strings.TrimSpace(input.APIURL)
	cfg.SupabaseURL = strings.TrimRight(strings.TrimSpace(input.SupabaseURL), "/")
	cfg.SupabaseKey = strings.TrimSpace(input.SupabaseKey)
	cfg.SheetPath = strings.TrimSpace(input.Sheet)
	cfg.LocalPath = strings.TrimSpace(input.Local)
	cfg.StationsPath = strings.TrimSpace(input.Stations)

	cfg.Sources = nil
	for _, s := range SplitList(input.Sources) {
		kind := schema.SourceKind(strings.ToLower(s))
		if _, ok := schema.ValidSourceKinds[kind]; !ok {
			return fmt.Errorf("invalid source '%s'. must be api, supabase, database, sheet, local", s)
		}
		cfg.Sources = append(cfg.Sources, kind)
	}
	if len(cfg.Sources) == 0 {
		cfg.Sources = append(cfg.Sources, schema.DefaultSourceOrder...)
	}

	cfg.FetchLimit = DefaultFetchLimit
	if input.FetchLimit < 0 {
		return fmt.Errorf("fetch-limit must not be negative (received %d)", input.FetchLimit)
	}
	if input.FetchLimit > 0 {
		cfg.FetchLimit = input.FetchLimit
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if input.Timeout != "" {
		d, err := time.ParseDuration(input.Timeout)
		if err != nil {
			return fmt.Errorf("invalid timeout '%s': %w", input.Timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive (received %s)", d)
		}
		cfg.HTTPTimeout = d
	}
	return nil
}

// validateBackendConfigs validates the listings and store backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Listings Backend Validation ---
	cfg.ListingsBackend = schema.SQLiteBackend
	if input.ListingsBackend != "" {
		cfg.ListingsBackend = schema.DatabaseBackend(strings.ToLower(input.ListingsBackend))
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.ListingsBackend]; !ok {
		return fmt.Errorf("invalid db backend '%s'. must be sqlite, mysql, postgresql, none", input.ListingsBackend)
	}
	cfg.ListingsDBConnect = input.ListingsDBConnect
	if err := ValidateDatabaseConnectionString(cfg.ListingsBackend, cfg.ListingsDBConnect); err != nil {
		return fmt.Errorf("db-connect: %w", err)
	}

	// --- Store Backend Validation ---
	cfg.StoreBackend = schema.SQLiteBackend
	if input.StoreBackend != "" {
		cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return fmt.Errorf("store-db-connect: %w", err)
	}
	return nil
}

// processServer handles the serve command settings and logging.
func processServer(cfg *Config, input *ConfigRawInput) error {
	cfg.Addr = DefaultAddr
	if input.Addr != "" {
		cfg.Addr = input.Addr
	}

	cfg.Refresh = strings.TrimSpace(input.Refresh)
	if cfg.Refresh != "" {
		if _, err := cron.ParseStandard(cfg.Refresh); err != nil {
			return fmt.Errorf("invalid refresh schedule '%s': %w", cfg.Refresh, err)
		}
	}
	cfg.CORSOrigins = SplitList(input.CORSOrigins)

	cfg.LogMode = DefaultLogMode
	if input.LogMode != "" {
		cfg.LogMode = strings.ToLower(input.LogMode)
	}
	cfg.LogLevel = DefaultLogLevel
	if input.LogLevel != "" {
		cfg.LogLevel = strings.ToLower(input.LogLevel)
	}
	return nil
}

// processCustomWeights validates the weights from the config file.
func processCustomWeights(cfg *Config, input *ConfigRawInput) error {
	upd, err := ProcessWeightsRawInput(input.Weights)
	if err != nil {
		return fmt.Errorf("invalid weights in config: %w", err)
	}
	cfg.CustomWeights = upd
	return nil
}

// SplitList splits a comma-separated flag value, dropping blanks.
func SplitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
