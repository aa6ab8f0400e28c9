package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"rx-solvency-snapshot/internal/logging"
	"rx-solvency-snapshot/internal/snapshot"
)

// Config materialises application configuration.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Logging  logging.Config `mapstructure:"logging"`
	Database DatabaseConfig `mapstructure:"database"`
	Edgar    EdgarConfig    `mapstructure:"edgar"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Input    InputConfig    `mapstructure:"input"`
	Output   OutputConfig   `mapstructure:"output"`
	Export   ExportConfig   `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity. Persistence is
// optional; an empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// EdgarConfig covers SEC data access. SEC policy requires a descriptive
// user agent with a contact address and caps request rates.
type EdgarConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	UserAgent      string        `mapstructure:"user_agent"`
	MaxRPS         float64       `mapstructure:"max_rps"`
	MaxConcurrency int           `mapstructure:"max_concurrency"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxRetries     int           `mapstructure:"max_retries"`
	CacheDir       string        `mapstructure:"cache_dir"`
}

// SnapshotConfig parameterises the snapshot engine.
type SnapshotConfig struct {
	Taxonomy         string            `mapstructure:"taxonomy"`
	PreferredUnit    string            `mapstructure:"preferred_unit"`
	MaxReportAgeDays int               `mapstructure:"max_report_age_days"`
	QuarterlyForms   []string          `mapstructure:"quarterly_forms"`
	AnnualForms      []string          `mapstructure:"annual_forms"`
	Chains           snapshot.ChainSet `mapstructure:"chains"`
}

// InputConfig locates the case sheet.
type InputConfig struct {
	Path  string `mapstructure:"path"`
	Sheet string `mapstructure:"sheet"`
}

// OutputConfig locates the result workbook.
type OutputConfig struct {
	Path string `mapstructure:"path"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	Dir           string `mapstructure:"dir"`
	MaxDataPoints int    `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("RXSOLVENCY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.Snapshot.Chains = cfg.Snapshot.Chains.Merged(snapshot.DefaultChains())

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "rxsolvency")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("edgar.base_url", "https://data.sec.gov")
	v.SetDefault("edgar.max_rps", 3.0)
	v.SetDefault("edgar.max_concurrency", 20)
	v.SetDefault("edgar.request_timeout", "30s")
	v.SetDefault("edgar.max_retries", 3)
	v.SetDefault("edgar.cache_dir", "data/companyfacts")

	v.SetDefault("snapshot.taxonomy", "us-gaap")
	v.SetDefault("snapshot.preferred_unit", "USD")
	v.SetDefault("snapshot.max_report_age_days", 160)
	v.SetDefault("snapshot.quarterly_forms", []string{"10-Q"})
	v.SetDefault("snapshot.annual_forms", []string{"10-K", "20-F", "40-F"})

	v.SetDefault("input.path", "data/cases.xlsx")
	v.SetDefault("output.path", "data/snapshots.xlsx")

	v.SetDefault("export.dir", "exports")
	v.SetDefault("export.max_data_points", 100000)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Edgar.UserAgent == "" {
		return fmt.Errorf("edgar.user_agent is required (SEC asks for a contact address)")
	}
	if c.Edgar.MaxRPS <= 0 {
		return fmt.Errorf("edgar.max_rps must be greater than zero")
	}
	if c.Edgar.MaxConcurrency <= 0 {
		return fmt.Errorf("edgar.max_concurrency must be greater than zero")
	}
	if c.Snapshot.MaxReportAgeDays <= 0 {
		return fmt.Errorf("snapshot.max_report_age_days must be greater than zero")
	}
	if len(c.Snapshot.QuarterlyForms) == 0 {
		return fmt.Errorf("snapshot.quarterly_forms must not be empty")
	}
	if len(c.Snapshot.AnnualForms) == 0 {
		return fmt.Errorf("snapshot.annual_forms must not be empty")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
