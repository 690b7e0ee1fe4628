// Package table implements the per-table glue: build a Plan, turn it
// into a lazy sequence of producers bound to the chosen format, run the
// worker pool against the resolved sink, and report statistics.
package table

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pingcap/errors"

	"tpchgen/internal/plan"
	"tpchgen/internal/pool"
	"tpchgen/internal/sink"
	"tpchgen/internal/tpch"
)

// Stats is what the driver reports back after a table finishes.
type Stats struct {
	Table   tpch.Table
	Chunks  int64
	Bytes   int64
	Elapsed time.Duration
}

// Options configures one table's generation.
type Options struct {
	ScaleFactor  float64
	Format       plan.Format
	CLIPart      int // -1 when unset
	CLIPartCount int // -1 when unset
	NumThreads   int
	Compression  sink.CompressionConfig
	Builder      *plan.Builder
}

// openFunc returns the writer a table's output should stream into
// (a file, or standard output).
type openFunc func(table tpch.Table, format plan.Format) (io.Writer, error)

// Run builds the plan for table, dispatches producers of the configured
// format through the worker pool, and finalizes the resulting sink.
// Ordering across tables is the caller's responsibility (sequential,
// nation..lineitem); Run handles exactly one table.
func Run(ctx context.Context, t tpch.Table, opts Options, open openFunc) (Stats, error) {
	start := time.Now()

	builder := opts.Builder
	if builder == nil {
		builder = plan.NewBuilder()
	}

	p, err := builder.Build(t, opts.Format, opts.ScaleFactor, opts.CLIPart, opts.CLIPartCount, opts.NumThreads)
	if err != nil {
		return Stats{}, errors.Trace(err)
	}

	w, err := open(t, opts.Format)
	if err != nil {
		return Stats{}, errors.Annotatef(err, "opening output for %s", t)
	}

	columns := t.Columns()
	kinds := t.ColumnKinds()

	var (
		theSink    pool.Sink
		statSource func() (int64, int64)
	)
	switch opts.Format {
	case plan.Tbl, plan.Csv:
		ts := sink.NewTextSink(w, opts.Format, columns)
		theSink = ts
		statSource = ts.Stats().Snapshot
	case plan.Parquet:
		ps, err := sink.NewParquetSink(w, columns, kinds, opts.Compression)
		if err != nil {
			return Stats{}, errors.Annotatef(err, "opening parquet sink for %s", t)
		}
		theSink = ps
		statSource = ps.Stats().Snapshot
	default:
		return Stats{}, fmt.Errorf("unknown format %v", opts.Format)
	}

	producers := buildProducers(t, opts.ScaleFactor, opts.Format, columns, kinds, p)

	if err := pool.Run(ctx, producers, theSink, opts.NumThreads); err != nil {
		return Stats{}, errors.Trace(err)
	}

	chunks, bytes := statSource()
	return Stats{Table: t, Chunks: chunks, Bytes: bytes, Elapsed: time.Since(start)}, nil
}

// buildProducers materializes the plan's chunks as a lazy slice of
// producer closures, each bound to one (part_index, part_count); the row
// generator itself is still invoked lazily, at producer run time.
func buildProducers(t tpch.Table, sf float64, format plan.Format, columns []string, kinds []tpch.ColumnKind, p plan.Plan) []pool.Producer {
	chunks := p.Chunks()
	producers := make([]pool.Producer, len(chunks))
	for i, c := range chunks {
		c := c
		producers[i] = func(ctx context.Context) (pool.Output, error) {
			start, end := t.Range(sf, c.PartIndex, c.PartCount)
			rows := make([]tpch.Row, 0, end-start)
			for rowID := start; rowID < end; rowID++ {
				rows = append(rows, tpch.GenerateRow(t, sf, rowID))
			}

			switch format {
			case plan.Parquet:
				rg := sink.BuildRowGroup(rows, kinds)
				return pool.Output{Value: rg}, nil
			default:
				buf := make([]byte, 0, len(rows)*t.AvgRowBytes())
				fields := make([]string, len(columns))
				for _, row := range rows {
					for j, v := range row {
						fields[j] = v.Text()
					}
					buf = sink.EncodeRow(buf, fields, format)
				}
				return pool.Output{Value: sink.TextChunk{Data: buf, Rows: len(rows)}}, nil
			}
		}
	}
	return producers
}
