// Package progress renders the CLI's running chunk/byte/elapsed-time
// status, adapted from the reference generator's boxed terminal display.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/docker/go-units"
	"github.com/schollz/progressbar/v3"
)

const (
	progressBarWidth      = 34
	progressBoxInnerWidth = 72
	progressLines         = 2
)

// Logger tracks bytes/chunks for the table currently in flight and
// periodically renders a two-line status box in place via ANSI cursor
// moves, the same technique the reference generator's progress logger
// uses for its file/byte counters, with the chunk bar itself drawn by
// the reference generator's progress bar library.
type Logger struct {
	w        io.Writer
	interval time.Duration
	quiet    bool

	table      string
	totalParts int64
	chunks     atomic.Int64
	bytes      atomic.Int64
	bar        *progressbar.ProgressBar

	stop chan struct{}
	done chan struct{}
}

// New creates a Logger writing its box to w. When quiet is true (e.g.
// --stdout, where the table's own bytes occupy stdout), the Logger
// renders nothing; it still keeps its counters.
func New(w io.Writer, interval time.Duration, quiet bool) *Logger {
	return &Logger{w: w, interval: interval, quiet: quiet}
}

// StartTable resets the counters for a new table and, unless quiet,
// starts the periodic renderer.
func (l *Logger) StartTable(table string, totalParts int64) {
	l.table = table
	l.totalParts = totalParts
	l.chunks.Store(0)
	l.bytes.Store(0)

	if l.quiet || l.interval <= 0 {
		return
	}

	total := int64(-1)
	if totalParts > 0 {
		total = totalParts
	}
	l.bar = progressbar.NewOptions64(total,
		progressbar.OptionSetWriter(io.Discard),
		progressbar.OptionSetWidth(progressBarWidth),
		progressbar.OptionSetDescription(table),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetRenderBlankState(true),
	)

	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.render()
}

// UpdateChunks records that n more chunks have been written.
func (l *Logger) UpdateChunks(n int64) {
	v := l.chunks.Add(n)
	if l.bar != nil {
		_ = l.bar.Set64(v)
	}
}

// UpdateBytes records that n more bytes have been written.
func (l *Logger) UpdateBytes(n int64) { l.bytes.Add(n) }

// FinishTable stops the periodic renderer and prints a final summary
// line, matching the reference generator's elapsed-time-per-table log.
func (l *Logger) FinishTable(elapsed time.Duration) {
	if l.stop != nil {
		close(l.stop)
		<-l.done
		l.stop = nil
	}
	if l.quiet {
		return
	}
	chunks, bytes := l.chunks.Load(), l.bytes.Load()
	fmt.Fprintf(l.w, "%s: %d chunks, %s written in %s\n", l.table, chunks, units.BytesSize(float64(bytes)), elapsed.Round(time.Millisecond))
}

// LogInit reports the elapsed time of the one-time static-asset warmup
// separately from any table's own elapsed time, per 4.F.
func (l *Logger) LogInit(elapsed time.Duration) {
	if l.quiet {
		return
	}
	fmt.Fprintf(l.w, "initialized distributions and text pool in %s\n", elapsed.Round(time.Millisecond))
}

func (l *Logger) render() {
	defer close(l.done)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	first := true
	for {
		select {
		case <-ticker.C:
			if !first {
				fmt.Fprintf(l.w, "\033[%dA", progressLines)
			}
			fmt.Fprint(l.w, l.box())
			first = false
		case <-l.stop:
			return
		}
	}
}

func (l *Logger) box() string {
	chunks, bytes := l.chunks.Load(), l.bytes.Load()
	line1 := fmt.Sprintf("%s (%d/%d chunks)", l.bar.String(), chunks, l.totalParts)
	line2 := fmt.Sprintf("%s written", units.BytesSize(float64(bytes)))

	var b strings.Builder
	b.WriteString(padLine(line1))
	b.WriteByte('\n')
	b.WriteString(padLine(line2))
	b.WriteByte('\n')
	return b.String()
}

func padLine(s string) string {
	if len(s) >= progressBoxInnerWidth {
		return s[:progressBoxInnerWidth]
	}
	return s + strings.Repeat(" ", progressBoxInnerWidth-len(s))
}

// Default returns a Logger writing to stderr at a one-second interval,
// quiet as the caller decides.
func Default(quiet bool) *Logger {
	return New(os.Stderr, time.Second, quiet)
}
