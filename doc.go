// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package logscan counts the lines of an input that contain a search term,
// using one producer and N workers joined by a bounded blocking buffer.
//
// The package is built from four pieces:
//
//   - Buffer: fixed-capacity circular FIFO, one mutex, two conditions
//   - Cancel: run-wide flag that every blocking wait observes
//   - Barrier: N-party rendezvous that ends every run
//   - Feeder and Worker: the producer and consumer loops
//
// Run ties them together for one scan.
//
// # Quick Start
//
//	run, err := logscan.New(10).Consumers(4).Term("ERROR").Sink(sink).Build()
//	if err != nil {
//	    return err
//	}
//	res, err := run.Execute(ctx, func() (logscan.LineSource, error) {
//	    return lines.Open("app.log")
//	})
//
// # Buffer
//
// Buffer can also be used on its own:
//
//	c := logscan.NewCancel()
//	buf, err := logscan.NewBuffer(64, c)
//
//	// Producer
//	for _, s := range input {
//	    if err := buf.Enqueue(logscan.Line(s)); err != nil {
//	        break // canceled: s was not inserted
//	    }
//	}
//	buf.Enqueue(logscan.End())
//
//	// Consumer
//	for {
//	    it, err := buf.Dequeue()
//	    if err != nil || it.IsEnd() {
//	        break
//	    }
//	    handle(it.Text())
//	}
//
// TryEnqueue and TryDequeue never block and return [ErrWouldBlock] at the
// bounds, which is [code.hybscloud.com/iox.ErrWouldBlock]:
//
//	if err := buf.TryEnqueue(it); logscan.IsWouldBlock(err) {
//	    // full
//	}
//
// # Sentinels and Cancellation
//
// End of work and cancellation are different signals. End is an item: the
// producer enqueues exactly one per worker when it stops, for whatever
// reason. Cancellation is an error: once the Cancel is set, blocked and
// future Enqueue and Dequeue calls return [ErrCanceled] without waiting for
// space or data. A Dequeue never returns an item that looks like a
// sentinel because of cancellation.
//
// Cancel.Set wakes every buffer bound to it, so shutdown latency is one
// wake cycle rather than however long capacity takes to change. Set is an
// ordinary function call; deliver OS signals through os/signal and call it
// (or cancel the context passed to Execute) from a normal goroutine.
//
// # Completion
//
// Every worker calls Barrier.Wait exactly once, including after
// cancellation, so no worker can be left waiting for the others. After the
// barrier, worker 0 sums the per-worker results and hands the [Report] to
// the [Sink]. A canceled run publishes no report because its counts are
// partial.
//
// # Ownership
//
// Enqueue transfers an item to the buffer; Dequeue transfers it to the
// caller. Items still resident at the end of a run are released by
// Buffer.Close, which reports how many there were. Close must not race with
// goroutines blocked in the buffer; Execute calls it after joining them.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// backoff, [code.hybscloud.com/atomix] for the cancellation flag,
// [golang.org/x/sync/errgroup] to run the loops, and
// [github.com/rs/zerolog] for diagnostics.
package logscan
