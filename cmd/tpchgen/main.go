// Command tpchgen generates TPC-H benchmark datasets in tbl, csv, or
// parquet format.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/pingcap/errors"
	"github.com/spf13/cobra"

	"tpchgen/internal/config"
	"tpchgen/internal/plan"
	"tpchgen/internal/progress"
	"tpchgen/internal/table"
	"tpchgen/internal/tpch"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var raw config.RawFlags

	cmd := &cobra.Command{
		Use:           "tpchgen",
		Short:         "Generate TPC-H benchmark datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), raw)
		},
	}

	flags := cmd.Flags()
	flags.Float64VarP(&raw.ScaleFactor, "scale-factor", "s", 1.0, "scale factor")
	flags.StringVarP(&raw.OutputDir, "output-dir", "o", ".", "output directory")
	flags.StringVarP(&raw.TablesCSV, "tables", "T", "", "comma-separated table names (default: all)")
	flags.IntVar(&raw.Parts, "parts", -1, "total logical partitions (requires --part)")
	flags.IntVar(&raw.Part, "part", -1, "1-based partition to generate (requires --parts)")
	flags.StringVarP(&raw.Format, "format", "f", "tbl", "one of tbl, csv, parquet")
	flags.IntVarP(&raw.NumThreads, "num-threads", "n", 0, "worker pool size (default: CPU count)")
	flags.StringVarP(&raw.ParquetCompression, "parquet-compression", "c", "", "SNAPPY, GZIP, LZ4, BROTLI, ZSTD, UNCOMPRESSED")
	flags.StringVar(&raw.ParquetRowGroup, "parquet-row-group-bytes", "", "target chunk size (default: 15MiB)")
	flags.BoolVarP(&raw.Verbose, "verbose", "v", false, "force log level info")
	flags.BoolVar(&raw.Stdout, "stdout", false, "write the single table's bytes to standard output")

	return cmd
}

func run(stdout io.Writer, raw config.RawFlags) error {
	// TPCHGEN_LOG_LEVEL sets the log level unless -v is present, which
	// always forces it to "info".
	logLevel := os.Getenv("TPCHGEN_LOG_LEVEL")
	if raw.Verbose {
		logLevel = "info"
	}

	cfg, err := config.Resolve(raw)
	if err != nil {
		return errors.Trace(err)
	}

	for _, w := range cfg.Warnings() {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}

	if !cfg.Stdout {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return errors.Annotate(err, "creating output directory")
		}
	}

	// Writing the table's own bytes to stdout, or a log level quieter
	// than info, suppresses the progress box so it never interleaves
	// with table output or drowns out an otherwise silent run.
	quiet := cfg.Stdout || logLevel == "error" || logLevel == "warn"

	initStart := time.Now()
	tpch.Init()
	logger := progress.Default(quiet)
	logger.LogInit(time.Since(initStart))

	builder := plan.NewBuilder()
	if cfg.Format == plan.Parquet && cfg.RowGroupSize > 0 {
		builder.TargetChunkBytes = cfg.RowGroupSize
	}

	opts := table.Options{
		ScaleFactor:  cfg.ScaleFactor,
		Format:       cfg.Format,
		CLIPart:      cfg.CLIPart,
		CLIPartCount: cfg.CLIPartCount,
		NumThreads:   cfg.NumThreads,
		Compression:  cfg.Compression,
		Builder:      builder,
	}

	for _, t := range cfg.Tables {
		open := openerFor(cfg, t, stdout)

		// Build is deterministic and side-effect free, so computing it
		// here just to size the progress bar and again inside table.Run
		// costs nothing beyond a cheap recomputation.
		p, err := builder.Build(t, cfg.Format, cfg.ScaleFactor, cfg.CLIPart, cfg.CLIPartCount, cfg.NumThreads)
		if err != nil {
			return errors.Annotatef(err, "planning %s", t)
		}

		logger.StartTable(t.String(), int64(len(p.PartList)))
		stats, err := table.Run(context.Background(), t, opts, open)
		if err != nil {
			return errors.Annotatef(err, "generating %s", t)
		}
		logger.UpdateChunks(stats.Chunks)
		logger.UpdateBytes(stats.Bytes)
		logger.FinishTable(stats.Elapsed)
	}

	return nil
}

func openerFor(cfg *config.Config, _ tpch.Table, stdout io.Writer) func(tpch.Table, plan.Format) (io.Writer, error) {
	return func(t tpch.Table, format plan.Format) (io.Writer, error) {
		if cfg.Stdout {
			return nopCloser{stdout}, nil
		}
		path := filepath.Join(cfg.OutputDir, t.String()+"."+format.Ext())
		f, err := os.Create(path)
		if err != nil {
			return nil, errors.Annotatef(err, "creating %s", path)
		}
		return f, nil
	}
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
