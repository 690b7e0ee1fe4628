package sink

import (
	"bufio"
	"context"
	"io"

	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/schema"
	"github.com/pingcap/errors"

	"tpchgen/internal/pool"
	"tpchgen/internal/tpch"
)

const parquetBufferSize = 32 << 20 // 32 MiB, amortizes syscalls per 4.D.

// bufferedWriter shims a buffered io.Writer into the Write/Seek/Read/
// Close bundle the Parquet writer's constructor expects. Seek and Read
// are never exercised by sequential row-group writes; they exist only
// to satisfy the interface, matching the reference writer's own shim.
type bufferedWriter struct {
	*bufio.Writer
}

func (bufferedWriter) Seek(int64, int) (int64, error) { return 0, nil }
func (bufferedWriter) Read([]byte) (int, error)       { return 0, nil }
func (bufferedWriter) Close() error                   { return nil }

// ParquetSink writes one table to a Parquet file, one row group per
// chunk. Compression runs here (inside Accept), which serializes it;
// column encoding/transposition happens in the producer so it can run in
// parallel across chunks.
type ParquetSink struct {
	w       *file.Writer
	kinds   []tpch.ColumnKind
	stats   Stats
	closer  io.Closer
	flusher *bufio.Writer
}

// NewParquetSink opens a Parquet writer over w for the given table
// schema, with compression applied per column.
func NewParquetSink(w io.Writer, columns []string, kinds []tpch.ColumnKind, compression CompressionConfig) (*ParquetSink, error) {
	buf := bufio.NewWriterSize(w, parquetBufferSize)
	buffered := bufferedWriter{buf}

	node, err := buildSchema(columns, kinds)
	if err != nil {
		return nil, errors.Trace(err)
	}

	opts := []parquet.WriterProperty{
		parquet.WithDataPageVersion(parquet.DataPageV2),
		parquet.WithVersion(parquet.V2_LATEST),
	}
	for i, name := range columns {
		encoding, useDict := chooseEncoding(kinds[i])
		opts = append(opts, parquet.WithDictionaryFor(name, useDict))
		if !useDict {
			opts = append(opts, parquet.WithEncodingFor(name, encoding))
		}
		opts = append(opts, parquet.WithCompressionFor(name, compression.Codec))
		if compression.Codec == compress.Codecs.Zstd && compression.Level != -1 {
			opts = append(opts, parquet.WithCompressionLevelFor(name, compression.Level))
		}
	}

	pw := file.NewParquetWriter(buffered, node, file.WithWriterProps(parquet.NewWriterProperties(opts...)))
	closer, _ := w.(io.Closer)
	return &ParquetSink{w: pw, kinds: kinds, closer: closer, flusher: buf}, nil
}

func buildSchema(columns []string, kinds []tpch.ColumnKind) (*schema.GroupNode, error) {
	fields := make([]schema.Node, len(columns))
	for i, name := range columns {
		var (
			node schema.Node
			err  error
		)
		switch kinds[i] {
		case tpch.KindString:
			node, err = schema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Optional,
				parquet.Types.ByteArray, schema.ConvertedTypes.UTF8, 0, 0, 0, -1)
		case tpch.KindDecimal:
			node, err = schema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Optional,
				parquet.Types.Int64, schema.ConvertedTypes.Decimal, 0, 18, 2, -1)
		case tpch.KindDate:
			node, err = schema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Optional,
				parquet.Types.Int32, schema.ConvertedTypes.Date, 0, 0, 0, -1)
		default:
			node, err = schema.NewPrimitiveNodeConverted(name, parquet.Repetitions.Optional,
				parquet.Types.Int64, schema.ConvertedTypes.None, 0, 0, 0, -1)
		}
		if err != nil {
			return nil, errors.Trace(err)
		}
		fields[i] = node
	}
	return schema.NewGroupNode("schema", parquet.Repetitions.Required, fields, -1)
}

// chooseEncoding mirrors the reference writer's rule of thumb: ordered
// integer columns compress well under delta coding, free text does not
// benefit from a dictionary unless it repeats heavily, and plain
// encoding is always a safe default.
func chooseEncoding(kind tpch.ColumnKind) (parquet.Encoding, bool) {
	switch kind {
	case tpch.KindInt, tpch.KindDate:
		return parquet.Encodings.DeltaBinaryPacked, false
	case tpch.KindDecimal:
		return parquet.Encodings.Plain, false
	case tpch.KindString:
		return parquet.Encodings.DeltaLengthByteArray, false
	default:
		return parquet.Encodings.Plain, false
	}
}

func (s *ParquetSink) Accept(_ context.Context, out pool.Output) error {
	chunk := out.Value.(RowGroupChunk)
	rgw := s.w.AppendRowGroup()
	defer rgw.Close()

	var bytesWritten int64
	for _, col := range chunk.Columns {
		cw, err := rgw.NextColumn()
		if err != nil {
			return errors.Trace(err)
		}
		n, err := writeColumn(cw, col)
		cw.Close()
		if err != nil {
			return errors.Trace(err)
		}
		bytesWritten += n
	}

	s.stats.add(1, bytesWritten)
	return nil
}

func writeColumn(cw file.ColumnChunkWriter, col ColumnBatch) (int64, error) {
	defLevels := make([]int16, len(col.Ints)+len(col.Strings))
	for i := range defLevels {
		defLevels[i] = 1
	}

	switch col.Kind {
	case tpch.KindString:
		values := make([]parquet.ByteArray, len(col.Strings))
		for i, s := range col.Strings {
			values[i] = parquet.ByteArray(s)
		}
		w := cw.(*file.ByteArrayColumnChunkWriter)
		n, err := w.WriteBatch(values, defLevels, nil)
		return n * int64(avgStrLen(col.Strings)), err
	case tpch.KindDate:
		values := make([]int32, len(col.Ints))
		for i, v := range col.Ints {
			values[i] = int32(v)
		}
		w := cw.(*file.Int32ColumnChunkWriter)
		n, err := w.WriteBatch(values, defLevels, nil)
		return n * 4, err
	default:
		w := cw.(*file.Int64ColumnChunkWriter)
		n, err := w.WriteBatch(col.Ints, defLevels, nil)
		return n * 8, err
	}
}

func avgStrLen(s []string) int {
	if len(s) == 0 {
		return 0
	}
	total := 0
	for _, v := range s {
		total += len(v)
	}
	return total / len(s)
}

func (s *ParquetSink) Finalize(context.Context) error {
	if err := s.w.Close(); err != nil {
		return errors.Trace(err)
	}
	if s.flusher != nil {
		if err := s.flusher.Flush(); err != nil {
			return errors.Trace(err)
		}
	}
	if s.closer != nil {
		return errors.Trace(s.closer.Close())
	}
	return nil
}

// Stats returns the sink's running chunk/byte counters.
func (s *ParquetSink) Stats() *Stats { return &s.stats }
