// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/logscan"
)

func sourceOf(src logscan.LineSource) logscan.Opener {
	return func() (logscan.LineSource, error) { return src, nil }
}

func mustRun(t *testing.T, b *logscan.Builder) *logscan.Run {
	t.Helper()
	r, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return r
}

// executeWithin runs Execute and fails the test if it does not return in time.
func executeWithin(t *testing.T, r *logscan.Run, ctx context.Context, open logscan.Opener, timeout time.Duration) logscan.Result {
	t.Helper()
	done := make(chan struct{})
	var res logscan.Result
	var err error
	go func() {
		defer close(done)
		res, err = r.Execute(ctx, open)
	}()
	waitDone(t, done, timeout, "Execute did not return")
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return res
}

// =============================================================================
// Scenarios
// =============================================================================

func TestRunScenarioA(t *testing.T) {
	input := []string{
		"INFO boot",
		"ERROR disk",
		"WARN slow",
		"ERROR net",
		"INFO tick",
		"error lowercase does not count",
		"trailing ERROR ERROR counts once",
	}
	sink := newRecordingSink()
	r := mustRun(t, logscan.New(10).Consumers(4).Term("ERROR").Sink(sink))

	res := executeWithin(t, r, context.Background(), sourceOf(newSliceSource(input...)), 5*time.Second)

	if res.Canceled || res.Report == nil {
		t.Fatalf("result: %+v", res)
	}
	if res.Report.Total != 3 {
		t.Fatalf("Total: got %d, want 3", res.Report.Total)
	}
	sum, lines := 0, 0
	for i, wr := range res.Report.Workers {
		if wr.ID != i {
			t.Fatalf("worker %d has ID %d", i, wr.ID)
		}
		sum += wr.Matches
		lines += wr.Lines
	}
	if sum != 3 || lines != len(input) {
		t.Fatalf("per-worker: matches %d lines %d", sum, lines)
	}
	if len(sink.summaries) != 1 || sink.matchCount() != 3 {
		t.Fatalf("sink: %d summaries, %d matches", len(sink.summaries), sink.matchCount())
	}
	if res.Stats.Lines != len(input) || res.Stats.Sentinels != 4 || res.Released != 0 {
		t.Fatalf("stats: %+v released %d", res.Stats, res.Released)
	}
}

func TestRunScenarioBMissingFile(t *testing.T) {
	sink := newRecordingSink()
	r := mustRun(t, logscan.New(10).Consumers(4).Term("ERROR").Sink(sink))

	open := func() (logscan.LineSource, error) {
		_, err := os.Open("/nonexistent/logscan/input.log")
		return nil, err
	}
	res := executeWithin(t, r, context.Background(), open, 5*time.Second)

	if !res.Canceled || res.Report != nil {
		t.Fatalf("result: %+v", res)
	}
	if !errors.Is(res.Stats.Err, os.ErrNotExist) {
		t.Fatalf("Stats.Err: got %v, want ErrNotExist", res.Stats.Err)
	}
	if res.Stats.Sentinels != 4 {
		t.Fatalf("Sentinels: got %d, want 4", res.Stats.Sentinels)
	}
	if len(sink.summaries) != 0 {
		t.Fatal("summary published for unavailable input")
	}
}

func TestRunScenarioCSingleSlot(t *testing.T) {
	const n = 1000
	input := make([]string, n)
	for i := range input {
		input[i] = fmt.Sprintf("%04d hit", i)
	}
	sink := newRecordingSink()
	r := mustRun(t, logscan.New(1).Consumers(1).Term("hit").Sink(sink))

	res := executeWithin(t, r, context.Background(), sourceOf(newSliceSource(input...)), 10*time.Second)

	if res.Report == nil || res.Report.Total != n || res.Report.Workers[0].Lines != n {
		t.Fatalf("report: %+v", res.Report)
	}
	// Single consumer sees the exact input order
	got := sink.matches[0]
	for i, line := range got {
		if line != input[i] {
			t.Fatalf("match %d: got %q, want %q", i, line, input[i])
		}
	}
}

func TestRunScenarioDInterrupt(t *testing.T) {
	sink := newRecordingSink()
	r := mustRun(t, logscan.New(2).Consumers(3).Term("ERROR").Sink(sink))

	var once sync.Once
	sink.onMatch = func() {
		once.Do(r.Interrupt)
	}

	res := executeWithin(t, r, context.Background(), sourceOf(&endlessSource{}), 5*time.Second)

	if !res.Canceled || res.Report != nil {
		t.Fatalf("result: %+v", res)
	}
	if len(sink.summaries) != 0 {
		t.Fatal("summary published after interrupt")
	}
	if res.Stats.Sentinels != 3 {
		t.Fatalf("Sentinels: got %d, want 3", res.Stats.Sentinels)
	}
	if !r.Canceled() {
		t.Fatal("Canceled: got false")
	}
}

func TestRunContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := newRecordingSink()
	sink.onMatch = cancel
	r := mustRun(t, logscan.New(4).Consumers(2).Term("ERROR").Sink(sink))

	res := executeWithin(t, r, ctx, sourceOf(&endlessSource{}), 5*time.Second)
	if !res.Canceled || res.Report != nil {
		t.Fatalf("result: %+v", res)
	}
}

// =============================================================================
// Properties
// =============================================================================

// TestRunMatchCountProperty checks, over a grid of capacities and consumer
// counts, that the reported total equals the number of matching lines.
func TestRunMatchCountProperty(t *testing.T) {
	input := make([]string, 500)
	want := 0
	for i := range input {
		switch {
		case i%7 == 0:
			input[i] = fmt.Sprintf("req %d needle", i)
			want++
		case i%11 == 0:
			input[i] = fmt.Sprintf("req %d NEEDLE", i)
		default:
			input[i] = fmt.Sprintf("req %d hay", i)
		}
	}

	for _, capacity := range []int{1, 2, 7, 64} {
		for _, consumers := range []int{1, 2, 5, 16} {
			t.Run(fmt.Sprintf("C%d_N%d", capacity, consumers), func(t *testing.T) {
				r := mustRun(t, logscan.New(capacity).Consumers(consumers).Term("needle"))
				res := executeWithin(t, r, context.Background(), sourceOf(newSliceSource(input...)), 10*time.Second)

				if res.Report == nil || res.Report.Total != want {
					t.Fatalf("report: %+v, want total %d", res.Report, want)
				}
				if len(res.Report.Workers) != consumers {
					t.Fatalf("workers: got %d, want %d", len(res.Report.Workers), consumers)
				}
				lines := 0
				for _, wr := range res.Report.Workers {
					lines += wr.Lines
				}
				if lines != len(input) {
					t.Fatalf("lines examined: got %d, want %d", lines, len(input))
				}
			})
		}
	}
}

func TestRunHardReadError(t *testing.T) {
	src := newSliceSource("ERROR one", "ERROR two", "ERROR three")
	src.failAt, src.err = 2, errors.New("i/o error")

	r := mustRun(t, logscan.New(4).Consumers(2).Term("ERROR"))
	res := executeWithin(t, r, context.Background(), sourceOf(src), 5*time.Second)

	// A hard error is not cancellation: what was read is still reported
	if res.Canceled || res.Report == nil || res.Report.Total != 2 {
		t.Fatalf("result: %+v", res)
	}
	if res.Stats.Err == nil {
		t.Fatal("Stats.Err: got nil")
	}
}

func TestRunExecuteOnce(t *testing.T) {
	r := mustRun(t, logscan.New(2).Term("x"))
	if _, err := r.Execute(context.Background(), sourceOf(newSliceSource("x"))); err != nil {
		t.Fatalf("first Execute: %v", err)
	}
	if _, err := r.Execute(context.Background(), sourceOf(newSliceSource("x"))); !errors.Is(err, logscan.ErrRunFinished) {
		t.Fatalf("second Execute: got %v, want ErrRunFinished", err)
	}
}

func TestBuildInvalid(t *testing.T) {
	tests := []struct {
		name string
		b    *logscan.Builder
		want error
	}{
		{"zero capacity", logscan.New(0).Consumers(1), logscan.ErrInvalidCapacity},
		{"negative capacity", logscan.New(-5).Consumers(1), logscan.ErrInvalidCapacity},
		{"huge capacity", logscan.New(logscan.MaxCapacity + 1), logscan.ErrCapacityTooLarge},
		{"zero consumers", logscan.New(4).Consumers(0), logscan.ErrInvalidConsumers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.b.Build(); !errors.Is(err, tt.want) {
				t.Fatalf("Build: got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunInterruptBeforeExecute(t *testing.T) {
	r := mustRun(t, logscan.New(3).Consumers(2).Term("a"))
	r.Interrupt()
	r.Interrupt()

	res := executeWithin(t, r, context.Background(), sourceOf(newSliceSource("a", "b")), 5*time.Second)
	if !res.Canceled || res.Report != nil || res.Stats.Lines != 0 {
		t.Fatalf("result: %+v", res)
	}
}

func TestRunNilSink(t *testing.T) {
	r := mustRun(t, logscan.New(3).Consumers(2).Term("ab").Sink(nil))
	res := executeWithin(t, r, context.Background(), sourceOf(newSliceSource(strings.Repeat("ab", 3), "cd")), 5*time.Second)
	if res.Report == nil || res.Report.Total != 1 {
		t.Fatalf("report: %+v", res.Report)
	}
}
