// Package sink implements the two output backends: an append-only text
// sink for tbl/csv, and a row-group-structured Parquet sink.
package sink

import (
	"sync/atomic"

	"tpchgen/internal/tpch"
)

// Stats is the monotonically increasing (chunks_written, bytes_written)
// pair the pool's ordering layer updates on every Accept.
type Stats struct {
	chunks atomic.Int64
	bytes  atomic.Int64
}

func (s *Stats) add(chunks, bytes int64) {
	s.chunks.Add(chunks)
	s.bytes.Add(bytes)
}

// Snapshot returns the current counts.
func (s *Stats) Snapshot() (chunks, bytes int64) {
	return s.chunks.Load(), s.bytes.Load()
}

// TextChunk is the chunk buffer produced by a tbl/csv producer: the
// already-encoded bytes for one table part, tagged with its row count.
// The sink's statistics count chunks and bytes, not rows.
type TextChunk struct {
	Data []byte
	Rows int
}

// ColumnBatch is one column's worth of values for a Parquet row group,
// shaped for direct handoff to the matching ColumnChunkWriter.
type ColumnBatch struct {
	Kind    tpch.ColumnKind
	Ints    []int64
	Strings []string
}

// RowGroupChunk is the chunk buffer produced by a Parquet producer: one
// table part's rows, already transposed into column-oriented batches.
type RowGroupChunk struct {
	Columns []ColumnBatch
	Rows    int
}

// BuildRowGroup transposes rows into column-oriented batches matching
// kinds, the representation the Parquet sink writes one row group from.
func BuildRowGroup(rows []tpch.Row, kinds []tpch.ColumnKind) RowGroupChunk {
	cols := make([]ColumnBatch, len(kinds))
	for i, k := range kinds {
		cols[i] = ColumnBatch{Kind: k}
		if k == tpch.KindString {
			cols[i].Strings = make([]string, 0, len(rows))
		} else {
			cols[i].Ints = make([]int64, 0, len(rows))
		}
	}
	for _, row := range rows {
		for i, v := range row {
			if kinds[i] == tpch.KindString {
				cols[i].Strings = append(cols[i].Strings, v.S)
			} else {
				cols[i].Ints = append(cols[i].Ints, v.I)
			}
		}
	}
	return RowGroupChunk{Columns: cols, Rows: len(rows)}
}
