// Package plan computes the chunk list for one table: how many parts it
// is split into and which of those parts this invocation must produce.
package plan

import (
	"fmt"

	"github.com/pingcap/errors"

	"tpchgen/internal/tpch"
)

// Format is the closed enumeration of output formats, mirrored here (not
// imported from the sink package) so plan has no dependency on it; the
// sink package depends on plan instead.
type Format int

const (
	Tbl Format = iota
	Csv
	Parquet
)

func (f Format) String() string {
	switch f {
	case Tbl:
		return "tbl"
	case Csv:
		return "csv"
	case Parquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// Ext returns the output file extension for the format.
func (f Format) Ext() string { return f.String() }

// defaultTargetChunkBytes is the default uncompressed chunk-size target the
// auto-partitioned path sizes parts against.
const defaultTargetChunkBytes = 15 * 1 << 20

// parquetRowGroupCap is Parquet's hard limit on row groups per file.
const parquetRowGroupCap = 32767

// ValidationError reports a Plan Builder input that fails rule 1
// (flag coherence) or an out-of-range CLI value. Its message matches the
// exact wording required of the CLI's InvalidArgument error reporting.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func invalid(format string, args ...any) error {
	return errors.Trace(&ValidationError{msg: fmt.Sprintf(format, args...)})
}

// Chunk is one unit of parallel work: a part of a table's partitioning,
// tagged with its position in the output sequence.
type Chunk struct {
	PartIndex int
	PartCount int
	Ordinal   int
}

// Plan is the denominator (PartCount) and the ascending subset of part
// indices (PartList) this invocation must produce.
type Plan struct {
	PartCount int
	PartList  []int
}

// Chunks expands the plan into ordinal-tagged chunks in PartList order.
func (p Plan) Chunks() []Chunk {
	chunks := make([]Chunk, len(p.PartList))
	for i, partIndex := range p.PartList {
		chunks[i] = Chunk{PartIndex: partIndex, PartCount: p.PartCount, Ordinal: i}
	}
	return chunks
}

// Builder computes a Plan for one table. TargetChunkBytes defaults to 15
// MiB and is reconfigurable via --parquet-row-group-bytes.
type Builder struct {
	TargetChunkBytes int64
}

// NewBuilder returns a Builder using the default 15 MiB chunk target.
func NewBuilder() *Builder {
	return &Builder{TargetChunkBytes: defaultTargetChunkBytes}
}

// Build computes the Plan for a table. cliPart/cliPartCount are -1 when
// not set by the user. numThreads must be >= 1.
func (b *Builder) Build(table tpch.Table, format Format, sf float64, cliPart, cliPartCount, numThreads int) (Plan, error) {
	if sf <= 0 {
		return Plan{}, invalid("Expected a number greater than zero, got %v", sf)
	}
	if numThreads < 1 {
		return Plan{}, invalid("Expected a number greater than zero, got %d", numThreads)
	}

	// Rule 1: flag coherence.
	partSet := cliPart != -1
	partCountSet := cliPartCount != -1
	if partSet != partCountSet {
		if partSet {
			return Plan{}, invalid("--part requires --parts to also be set")
		}
		return Plan{}, invalid("--parts requires --part to also be set")
	}
	if partSet {
		if cliPartCount <= 0 {
			return Plan{}, invalid("Expected a number greater than zero, got %d", cliPartCount)
		}
		if cliPart <= 0 {
			return Plan{}, invalid("Expected a number greater than zero, got %d", cliPart)
		}
		if cliPart > cliPartCount {
			return Plan{}, invalid("Invalid --part. Expected at most the value of --parts (%d), got %d", cliPartCount, cliPart)
		}
	}

	// Rule 2: atomic tables always collapse to a single chunk, even when
	// --part/--parts are set, so every CLI partition emits the whole table.
	if table.Atomic() {
		return Plan{PartCount: 1, PartList: []int{1}}, nil
	}

	// Rule 3: CLI-partitioned path, expanded by num_threads for local
	// thread parallelism. Each cliPart still maps to a disjoint slice of
	// 1..cliPartCount*numThreads, so distributed generation across
	// machines remains correct; only this machine's local fan-out changes.
	if partSet {
		partCount := cliPartCount * numThreads
		lo := (cliPart-1)*numThreads + 1
		hi := cliPart * numThreads
		partList := make([]int, 0, numThreads)
		for i := lo; i <= hi; i++ {
			partList = append(partList, i)
		}
		return Plan{PartCount: partCount, PartList: partList}, nil
	}

	// Rule 4: auto-partitioned path, sized from the target chunk bytes:
	// ceil(rows*avgRowBytes / targetChunkBytes) + 1.
	rows := table.RowCount(sf)
	avgRowBytes := int64(table.AvgRowBytes())
	target := b.targetChunkBytes()
	totalBytes := int64(rows) * avgRowBytes
	n := (totalBytes+target-1)/target + 1
	if format == Parquet && n > parquetRowGroupCap {
		n = parquetRowGroupCap
	}
	if n < 1 {
		n = 1
	}

	partList := make([]int, n)
	for i := range partList {
		partList[i] = i + 1
	}
	return Plan{PartCount: int(n), PartList: partList}, nil
}

func (b *Builder) targetChunkBytes() int64 {
	if b.TargetChunkBytes <= 0 {
		return defaultTargetChunkBytes
	}
	return b.TargetChunkBytes
}
