package table

import (
	"bytes"
	"context"
	"io"
	"testing"

	"tpchgen/internal/plan"
	"tpchgen/internal/tpch"
)

type nopCloseBuffer struct{ *bytes.Buffer }

func (nopCloseBuffer) Close() error { return nil }

func TestRunTextProducesOutput(t *testing.T) {
	var buf bytes.Buffer
	opts := Options{ScaleFactor: 0.001, Format: plan.Tbl, CLIPart: -1, CLIPartCount: -1, NumThreads: 4}

	stats, err := Run(context.Background(), tpch.Region, opts, func(tpch.Table, plan.Format) (io.Writer, error) {
		return nopCloseBuffer{&buf}, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if stats.Chunks == 0 {
		t.Fatal("expected at least one chunk written")
	}
	if buf.Len() == 0 {
		t.Fatal("expected non-empty output")
	}
}

func TestRunAtomicTableIgnoresThreadCount(t *testing.T) {
	var whole bytes.Buffer
	opts := Options{ScaleFactor: 0.001, Format: plan.Tbl, CLIPart: -1, CLIPartCount: -1, NumThreads: 1}
	if _, err := Run(context.Background(), tpch.Nation, opts, func(tpch.Table, plan.Format) (io.Writer, error) {
		return nopCloseBuffer{&whole}, nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var parallel bytes.Buffer
	opts.NumThreads = 8
	if _, err := Run(context.Background(), tpch.Nation, opts, func(tpch.Table, plan.Format) (io.Writer, error) {
		return nopCloseBuffer{&parallel}, nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if whole.String() != parallel.String() {
		t.Fatal("nation output must be identical regardless of num-threads (it is atomic)")
	}
}

func TestRunOrdersMatchesAcrossThreadCounts(t *testing.T) {
	var single bytes.Buffer
	opts := Options{ScaleFactor: 0.001, Format: plan.Tbl, CLIPart: -1, CLIPartCount: -1, NumThreads: 1}
	if _, err := Run(context.Background(), tpch.Orders, opts, func(tpch.Table, plan.Format) (io.Writer, error) {
		return nopCloseBuffer{&single}, nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var multi bytes.Buffer
	opts.NumThreads = 6
	if _, err := Run(context.Background(), tpch.Orders, opts, func(tpch.Table, plan.Format) (io.Writer, error) {
		return nopCloseBuffer{&multi}, nil
	}); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if single.String() != multi.String() {
		t.Fatal("orders output must not depend on num-threads")
	}
}
