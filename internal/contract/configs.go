package contract

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/forecast/core/schedule"
	"github.com/huangsam/forecast/schema"
)

// Default values for configuration.
const (
	DefaultPrecision  = 2
	MaxPrecision      = 10
	DefaultSeparator  = ";"
	DefaultMaxHorizon = "100y"
)

// DateTimeFormat is the layout used for instants in text and CSV output.
const DateTimeFormat = time.DateTime

// Config holds the runtime configuration for a simulation.
// This struct remains the "final, validated" config.
type Config struct {
	ScenarioPath string
	Scenario     *schema.Scenario
	Item         string

	StartTime time.Time
	EndTime   time.Time

	Target     float64
	HasTarget  bool
	MaxHorizon schedule.Duration

	ScheduleSpecs []string
	IncludeStart  bool

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Separator  string
	Width      int // Terminal width override (0 = auto-detect)

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored labels in table output
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	ScenarioPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Start            string `mapstructure:"start"`
	End              string `mapstructure:"end"`
	Item             string `mapstructure:"item"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Separator        string `mapstructure:"separator"`
	Width            int    `mapstructure:"width"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from untilCmd.Flags() ---
	Target     string `mapstructure:"target"`
	MaxHorizon string `mapstructure:"max-horizon"`

	// --- Fields from scheduleCmd.Flags() ---
	Spec         string `mapstructure:"spec"`
	IncludeStart bool   `mapstructure:"include-start"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.ScheduleSpecs != nil {
		clone.ScheduleSpecs = append([]string(nil), c.ScheduleSpecs...)
	}
	return &clone
}

// CloneWithTimeWindow creates a copy of the Config and sets the new StartTime and EndTime.
func (c *Config) CloneWithTimeWindow(start time.Time, end time.Time) *Config {
	clone := c.Clone()
	clone.StartTime = start
	clone.EndTime = end
	return clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processScenario(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processUntilMode(cfg, input); err != nil {
		return err
	}
	processScheduleMode(cfg, input)
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
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

// validateBackendConfig validates the history backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		cfg.HistoryBackend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// validateSimpleInputs checks flags that need no cross-field context.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Item = strings.TrimSpace(input.Item)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 2. Separator Validation ---
	cfg.Separator = input.Separator
	if cfg.Separator == "" {
		cfg.Separator = DefaultSeparator
	}
	if strings.ContainsAny(cfg.Separator, "\r\n") {
		return fmt.Errorf("separator cannot contain line breaks")
	}

	// --- 3. Backend Validation ---
	return validateBackendConfig(cfg, input)
}

// processScenario loads the scenario file named on the command line, if any.
func processScenario(cfg *Config, input *ConfigRawInput) error {
	cfg.ScenarioPath = strings.TrimSpace(input.ScenarioPathStr)
	if cfg.ScenarioPath == "" {
		return nil
	}
	sc, err := LoadScenario(cfg.ScenarioPath)
	if err != nil {
		return err
	}
	cfg.Scenario = sc
	if cfg.Item != "" && !sc.HasItem(cfg.Item) {
		return fmt.Errorf("item '%s' not found in scenario %s", cfg.Item, cfg.ScenarioPath)
	}
	return nil
}

// processTimeRange resolves the simulated window. Flags take precedence over the scenario file.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	start, end := input.Start, input.End
	if cfg.Scenario != nil {
		if start == "" {
			start = cfg.Scenario.Start
		}
		if end == "" {
			end = cfg.Scenario.End
		}
	}

	if start != "" {
		t, err := ParseDateTime(start)
		if err != nil {
			return fmt.Errorf("invalid start date format for '%s': %w", start, err)
		}
		cfg.StartTime = t
	}
	if end != "" {
		t, err := ParseDateTime(end)
		if err != nil {
			return fmt.Errorf("invalid end date format for '%s': %w", end, err)
		}
		cfg.EndTime = t
	}

	if !cfg.StartTime.IsZero() && !cfg.EndTime.IsZero() && cfg.StartTime.After(cfg.EndTime) {
		return fmt.Errorf("start time (%s) cannot be after end time (%s)", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// processUntilMode handles the target and horizon of a time-to-target search.
func processUntilMode(cfg *Config, input *ConfigRawInput) error {
	if s := strings.TrimSpace(input.Target); s != "" {
		target, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid --target value '%s': %w", s, err)
		}
		cfg.Target = target
		cfg.HasTarget = true
	}

	horizon := strings.TrimSpace(input.MaxHorizon)
	if horizon == "" {
		horizon = DefaultMaxHorizon
	}
	d, err := schedule.ParseInterval(horizon)
	if err != nil {
		return fmt.Errorf("invalid --max-horizon: %w", err)
	}
	if d.IsZero() {
		return fmt.Errorf("--max-horizon must be greater than zero")
	}
	if !d.Fits(time.Now()) {
		return fmt.Errorf("--max-horizon %s exceeds the longest measurable span (about 292y)", horizon)
	}
	cfg.MaxHorizon = d
	return nil
}

// processScheduleMode splits the comma-separated --spec flag.
func processScheduleMode(cfg *Config, input *ConfigRawInput) {
	cfg.IncludeStart = input.IncludeStart
	cfg.ScheduleSpecs = nil
	spec := strings.TrimSpace(input.Spec)
	if spec == "" {
		return
	}
	for part := range strings.SplitSeq(spec, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			cfg.ScheduleSpecs = append(cfg.ScheduleSpecs, trimmed)
		}
	}
}

// ParseDateTime accepts RFC3339 instants or yyyy-mm-dd dates, both in UTC when no zone is given.
func ParseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(DateTimeFormat, s); err == nil {
		return t, nil
	}
	return schedule.ParseDate(s)
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
