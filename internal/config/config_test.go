package config

import (
	"testing"

	"tpchgen/internal/plan"
	"tpchgen/internal/tpch"
)

func baseRaw() RawFlags {
	return RawFlags{
		ScaleFactor: 1.0,
		OutputDir:   ".",
		Part:        -1,
		Parts:       -1,
		Format:      "tbl",
		NumThreads:  4,
	}
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(baseRaw())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cfg.Format != plan.Tbl {
		t.Errorf("Format = %v, want Tbl", cfg.Format)
	}
	if len(cfg.Tables) != 8 {
		t.Errorf("Tables = %d, want all 8", len(cfg.Tables))
	}
	if cfg.Tables[0] != tpch.Nation || cfg.Tables[len(cfg.Tables)-1] != tpch.Lineitem {
		t.Errorf("Tables order = %v, want nation-first lineitem-last", cfg.Tables)
	}
}

func TestResolvePartWithoutPartsFails(t *testing.T) {
	raw := baseRaw()
	raw.Part = 1
	if _, err := Resolve(raw); err == nil {
		t.Fatal("expected error when --part set without --parts")
	}
}

func TestResolvePartsWithoutPartFails(t *testing.T) {
	raw := baseRaw()
	raw.Parts = 4
	if _, err := Resolve(raw); err == nil {
		t.Fatal("expected error when --parts set without --part")
	}
}

func TestResolvePartOutOfRangeMessage(t *testing.T) {
	raw := baseRaw()
	raw.Part, raw.Parts = 11, 10
	_, err := Resolve(raw)
	const want = "Invalid --part. Expected at most the value of --parts (10), got 11"
	if err == nil || err.Error() != want {
		t.Fatalf("error = %v, want %q", err, want)
	}
}

func TestResolveZeroPartMessage(t *testing.T) {
	raw := baseRaw()
	raw.Part, raw.Parts = 0, 10
	_, err := Resolve(raw)
	const want = "Expected a number greater than zero, got 0"
	if err == nil || err.Error() != want {
		t.Fatalf("error = %v, want %q", err, want)
	}
}

func TestResolveStdoutRequiresSingleTable(t *testing.T) {
	raw := baseRaw()
	raw.Stdout = true
	raw.TablesCSV = "orders,customer"
	if _, err := Resolve(raw); err == nil {
		t.Fatal("expected error when --stdout is set with multiple tables")
	}
}

func TestResolveCaseSensitiveAliases(t *testing.T) {
	raw := baseRaw()
	raw.TablesCSV = "s,S"
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.Tables) != 2 {
		t.Fatalf("expected lowercase s (supplier) and uppercase S (partsupp) to be distinct, got %v", cfg.Tables)
	}
}

func TestResolveUnknownCompression(t *testing.T) {
	raw := baseRaw()
	raw.ParquetCompression = "lzo"
	if _, err := Resolve(raw); err == nil {
		t.Fatal("expected error for unsupported LZO compression")
	}
}

func TestWarningsOnlyForNonParquetFormat(t *testing.T) {
	raw := baseRaw()
	raw.ParquetCompression = "zstd"
	raw.ParquetRowGroup = "8192"
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.Warnings()) != 2 {
		t.Fatalf("expected two warnings, got %v", cfg.Warnings())
	}
}

func TestResolveZstdLevelSucceedsForNonParquetFormat(t *testing.T) {
	raw := baseRaw()
	raw.Format = "csv"
	raw.ParquetCompression = "zstd(1)"
	raw.ParquetRowGroup = "8192"
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.Warnings()) != 2 {
		t.Fatalf("expected two warnings, got %v", cfg.Warnings())
	}
}

func TestNoWarningsForParquetFormat(t *testing.T) {
	raw := baseRaw()
	raw.Format = "parquet"
	raw.ParquetCompression = "zstd"
	cfg, err := Resolve(raw)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(cfg.Warnings()) != 0 {
		t.Fatalf("expected no warnings for parquet format, got %v", cfg.Warnings())
	}
}
