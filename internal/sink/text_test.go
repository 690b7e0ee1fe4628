package sink

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tpchgen/internal/plan"
	"tpchgen/internal/pool"
)

func TestTextSinkWritesInOrderAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, plan.Tbl, []string{"a", "b"})

	chunks := []string{"1|2|\n", "3|4|\n", "5|6|\n"}
	for i, c := range chunks {
		if err := s.Accept(context.Background(), pool.Output{Ordinal: i, Value: TextChunk{Data: []byte(c)}}); err != nil {
			t.Fatalf("Accept: %v", err)
		}
	}
	if err := s.Finalize(context.Background()); err != nil {
		t.Fatalf("Finalize: %v", err)
	}

	want := strings.Join(chunks, "")
	if got := buf.String(); got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}

	gotChunks, gotBytes := s.Stats().Snapshot()
	if gotChunks != 3 {
		t.Errorf("chunks = %d, want 3", gotChunks)
	}
	if gotBytes != int64(len(want)) {
		t.Errorf("bytes = %d, want %d", gotBytes, len(want))
	}
}

func TestTextSinkCSVHeaderOnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, plan.Csv, []string{"a", "b"})

	for i := 0; i < 3; i++ {
		if err := s.Accept(context.Background(), pool.Output{Ordinal: i, Value: TextChunk{Data: []byte("x,y\n")}}); err != nil {
			t.Fatalf("Accept: %v", err)
		}
	}
	s.Finalize(context.Background())

	got := buf.String()
	if strings.Count(got, "a,b\n") != 1 {
		t.Fatalf("expected exactly one header line, got: %q", got)
	}
	if !strings.HasPrefix(got, "a,b\n") {
		t.Fatalf("header must be first line, got: %q", got)
	}
}

func TestTbl_NoHeaderEver(t *testing.T) {
	var buf bytes.Buffer
	s := NewTextSink(&buf, plan.Tbl, []string{"a", "b"})
	s.Accept(context.Background(), pool.Output{Ordinal: 0, Value: TextChunk{Data: []byte("1|2|\n")}})
	s.Finalize(context.Background())
	if strings.Contains(buf.String(), "a,b") {
		t.Fatal("tbl format must never emit a header row")
	}
}

func TestEncodeRowTblVsCsv(t *testing.T) {
	row := []string{"1", "hello, world", `say "hi"`}

	tbl := string(EncodeRow(nil, row, plan.Tbl))
	if tbl != "1|hello, world|say \"hi\"|\n" {
		t.Fatalf("tbl encoding = %q", tbl)
	}

	csv := string(EncodeRow(nil, row, plan.Csv))
	want := "1,\"hello, world\",\"say \"\"hi\"\"\"\n"
	if csv != want {
		t.Fatalf("csv encoding = %q, want %q", csv, want)
	}
}

func TestCSVEscapeNoSpecialChars(t *testing.T) {
	if csvEscape("plain") != "plain" {
		t.Fatal("unescaped field should pass through unchanged")
	}
}
