package sink

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pingcap/errors"

	"tpchgen/internal/plan"
	"tpchgen/internal/pool"
)

// TextSink is the append-only sink for tbl and csv output: it writes
// already-encoded byte buffers verbatim, in ascending ordinal order.
// Row-to-bytes encoding happens in the producer so it runs in parallel;
// the sink only ever does sequential I/O.
type TextSink struct {
	w       *bufio.Writer
	format  plan.Format
	columns []string
	header  sync.Once
	stats   Stats
	closer  io.Closer
}

const textSinkBufferSize = 1 << 20

// NewTextSink wraps w for tbl/csv output. For csv, the header line (the
// table's column names) is written exactly once, from the sink rather
// than from any one producer, so the "ascending ordinal order" guarantee
// already gives "first call to Accept" for free without inspecting which
// ordinal arrived first.
func NewTextSink(w io.Writer, format plan.Format, columns []string) *TextSink {
	closer, _ := w.(io.Closer)
	return &TextSink{
		w:       bufio.NewWriterSize(w, textSinkBufferSize),
		format:  format,
		columns: columns,
		closer:  closer,
	}
}

func (s *TextSink) Accept(_ context.Context, out pool.Output) error {
	if s.format == plan.Csv {
		s.header.Do(func() {
			s.w.WriteString(strings.Join(s.columns, ","))
			s.w.WriteByte('\n')
		})
	}

	chunk := out.Value.(TextChunk)
	if _, err := s.w.Write(chunk.Data); err != nil {
		return errors.Trace(err)
	}
	s.stats.add(1, int64(len(chunk.Data)))
	return nil
}

func (s *TextSink) Finalize(context.Context) error {
	if err := s.w.Flush(); err != nil {
		return errors.Trace(err)
	}
	if s.closer != nil {
		return errors.Trace(s.closer.Close())
	}
	return nil
}

// Stats returns the sink's running chunk/byte counters.
func (s *TextSink) Stats() *Stats { return &s.stats }

// EncodeRow renders one row in tbl or csv form: tbl fields are pipe
// separated and every row ends in "|\n"; csv fields are comma separated,
// RFC 4180-escaped, and rows end in "\n" with no trailing separator.
func EncodeRow(buf []byte, row []string, format plan.Format) []byte {
	for i, field := range row {
		if i > 0 {
			if format == plan.Csv {
				buf = append(buf, ',')
			} else {
				buf = append(buf, '|')
			}
		}
		if format == plan.Csv {
			buf = append(buf, csvEscape(field)...)
		} else {
			buf = append(buf, field...)
		}
	}
	if format == plan.Tbl {
		buf = append(buf, '|', '\n')
	} else {
		buf = append(buf, '\n')
	}
	return buf
}

func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' {
			b.WriteByte('"')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
