// Package config resolves and validates the CLI's flags into a Config,
// using the same Normalize-then-Validate split the reference generator's
// TOML-sourced config uses, sourced from parsed flags instead.
package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"tpchgen/internal/plan"
	"tpchgen/internal/sink"
	"tpchgen/internal/tpch"
)

const defaultRowGroupBytes = 15 * units.MiB

// Config is the fully-resolved, validated set of inputs the CLI hands to
// the table driver.
type Config struct {
	ScaleFactor  float64
	OutputDir    string
	Tables       []tpch.Table
	CLIPart      int // -1 when unset
	CLIPartCount int // -1 when unset
	Format       plan.Format
	NumThreads   int
	Compression  sink.CompressionConfig
	RowGroupSize int64
	Verbose      bool
	Stdout       bool

	// Raw carries the unparsed flag values so validate can report precise InvalidArgument messages before any work starts.
	Raw RawFlags
}

// RawFlags is the CLI's flag surface before parsing/validation.
type RawFlags struct {
	ScaleFactor        float64
	OutputDir          string
	TablesCSV          string
	Parts              int // -1 when unset
	Part               int // -1 when unset
	Format             string
	NumThreads         int
	ParquetCompression string
	ParquetRowGroup    string
	Verbose            bool
	Stdout             bool
}

// Resolve normalizes raw flag values into typed config, then validates
// it, matching the reference config package's two-phase pattern.
func Resolve(raw RawFlags) (*Config, error) {
	cfg := &Config{Raw: raw}

	cfg.ScaleFactor = raw.ScaleFactor
	cfg.OutputDir = raw.OutputDir
	cfg.CLIPart = raw.Part
	cfg.CLIPartCount = raw.Parts
	cfg.Verbose = raw.Verbose
	cfg.Stdout = raw.Stdout

	if raw.NumThreads > 0 {
		cfg.NumThreads = raw.NumThreads
	} else {
		cfg.NumThreads = runtime.NumCPU()
	}

	format, err := parseFormat(raw.Format)
	if err != nil {
		return nil, err
	}
	cfg.Format = format

	tables, err := parseTables(raw.TablesCSV)
	if err != nil {
		return nil, err
	}
	cfg.Tables = tables

	rowGroupBytes, err := resolveRowGroupBytes(raw.ParquetRowGroup)
	if err != nil {
		return nil, err
	}
	cfg.RowGroupSize = rowGroupBytes

	compression, err := sink.ParseCompression(defaultIfEmpty(raw.ParquetCompression, "SNAPPY"))
	if err != nil {
		return nil, err
	}
	cfg.Compression = compression

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultIfEmpty(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func parseFormat(s string) (plan.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tbl":
		return plan.Tbl, nil
	case "csv":
		return plan.Csv, nil
	case "parquet":
		return plan.Parquet, nil
	default:
		return 0, fmt.Errorf("unknown --format %q: expected tbl, csv, or parquet", s)
	}
}

func parseTables(csv string) ([]tpch.Table, error) {
	if strings.TrimSpace(csv) == "" {
		return tpch.AllTables, nil
	}
	names := strings.Split(csv, ",")
	tables := make([]tpch.Table, 0, len(names))
	seen := make(map[tpch.Table]bool)
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		t, err := tpch.ParseTable(n)
		if err != nil {
			return nil, fmt.Errorf("unknown --tables entry %q", n)
		}
		if !seen[t] {
			seen[t] = true
			tables = append(tables, t)
		}
	}
	// Restore conventional TPC-H load order regardless of user-supplied order.
	ordered := make([]tpch.Table, 0, len(tables))
	for _, t := range tpch.AllTables {
		if seen[t] {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func resolveRowGroupBytes(s string) (int64, error) {
	if strings.TrimSpace(s) == "" {
		return defaultRowGroupBytes, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	return units.FromHumanSize(s)
}

func (c *Config) validate() error {
	if c.ScaleFactor <= 0 {
		return fmt.Errorf("Expected a number greater than zero, got %v", c.ScaleFactor)
	}
	if c.NumThreads < 1 {
		return fmt.Errorf("Expected a number greater than zero, got %d", c.NumThreads)
	}
	if c.Raw.Part != -1 && c.Raw.Parts == -1 {
		return fmt.Errorf("--part requires --parts to also be set")
	}
	if c.Raw.Parts != -1 && c.Raw.Part == -1 {
		return fmt.Errorf("--parts requires --part to also be set")
	}
	if c.Raw.Parts != -1 {
		if c.Raw.Parts <= 0 {
			return fmt.Errorf("Expected a number greater than zero, got %d", c.Raw.Parts)
		}
		if c.Raw.Part <= 0 {
			return fmt.Errorf("Expected a number greater than zero, got %d", c.Raw.Part)
		}
		if c.Raw.Part > c.Raw.Parts {
			return fmt.Errorf("Invalid --part. Expected at most the value of --parts (%d), got %d", c.Raw.Parts, c.Raw.Part)
		}
	}
	if c.Stdout && len(c.Tables) != 1 {
		return fmt.Errorf("--stdout requires exactly one --tables value")
	}
	return nil
}

// Warnings returns the non-fatal warnings 4.F/§6 require when Parquet-only
// flags are set for a non-Parquet format.
func (c *Config) Warnings() []string {
	var warnings []string
	if c.Format != plan.Parquet {
		if c.Raw.ParquetCompression != "" {
			warnings = append(warnings, "--parquet-compression has no effect unless --format=parquet")
		}
		if c.Raw.ParquetRowGroup != "" {
			warnings = append(warnings, "--parquet-row-group-bytes has no effect unless --format=parquet")
		}
	}
	return warnings
}
