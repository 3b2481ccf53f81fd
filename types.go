// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

// Item is a payload carried by a Buffer.
//
// An Item is either a line of input or the end-of-stream sentinel. The zero
// Item is neither; it is what a canceled Dequeue returns alongside
// ErrCanceled, and callers must check the error before the item.
//
// Example:
//
//	buf.Enqueue(logscan.Line("GET /index.html 200"))
//	buf.Enqueue(logscan.End())
//
//	it, err := buf.Dequeue()
//	if err != nil {
//	    // canceled
//	}
//	if it.IsEnd() {
//	    // no more work for this consumer
//	}
type Item struct {
	text string
	kind itemKind
}

type itemKind uint8

const (
	kindNone itemKind = iota
	kindLine
	kindEnd
)

// Line returns an Item holding one line of input.
func Line(s string) Item {
	return Item{text: s, kind: kindLine}
}

// End returns the end-of-stream sentinel. One sentinel tells exactly one
// consumer that no further work will arrive.
func End() Item {
	return Item{kind: kindEnd}
}

// IsLine reports whether it carries a line.
func (it Item) IsLine() bool { return it.kind == kindLine }

// IsEnd reports whether it is the end-of-stream sentinel.
func (it Item) IsEnd() bool { return it.kind == kindEnd }

// Text returns the line carried by it, or "" for a sentinel.
func (it Item) Text() string { return it.text }

// Producer is the enqueue side of a Buffer.
type Producer interface {
	// Enqueue inserts it, blocking while the buffer is full.
	// Returns ErrCanceled if cancellation is observed before insertion.
	Enqueue(it Item) error

	// TryEnqueue inserts it without blocking.
	// Returns ErrWouldBlock if the buffer is full.
	TryEnqueue(it Item) error
}

// Consumer is the dequeue side of a Buffer.
type Consumer interface {
	// Dequeue removes the oldest item, blocking while the buffer is empty.
	// Returns (Item{}, ErrCanceled) if cancellation is observed first.
	Dequeue() (Item, error)

	// TryDequeue removes the oldest item without blocking.
	// Returns (Item{}, ErrWouldBlock) if the buffer is empty.
	TryDequeue() (Item, error)
}

// Queue is the combined producer-consumer interface implemented by Buffer.
type Queue interface {
	Producer
	Consumer
	Cap() int
	Len() int
}

// LineSource supplies input lines to the producer.
//
// Next returns the next line with its terminator already removed or kept;
// the producer strips a trailing "\n" or "\r\n" either way. Next returns
// io.EOF at the clean end of input. ErrInterrupted (or a wrapped EINTR, or
// an iox would-block error) asks the producer to retry. Any other error is
// a hard failure that ends production.
type LineSource interface {
	Next() (string, error)
}

// Sink receives what the consumers produce. The core performs no
// formatting; implementations decide how events and the report are shown.
//
// Match may be called concurrently from every consumer. Summary is called
// at most once per run, after every Match call of that run has returned.
type Sink interface {
	Match(worker int, line string)
	Summary(r Report)
}

// WorkerResult is the per-consumer outcome of a run.
type WorkerResult struct {
	ID      int // Consumer index, 0..N-1
	Matches int // Lines containing the search term
	Lines   int // Lines examined
}

// Report is the aggregated outcome published by consumer 0 after the
// completion barrier.
type Report struct {
	Workers []WorkerResult
	Total   int
}

// Stats describes what the producer did during a run.
type Stats struct {
	Lines     int   // Lines successfully enqueued
	Discarded int   // Lines dropped because cancellation won the race
	Sentinels int   // Sentinel enqueues attempted (always the consumer count)
	Err       error // Hard read error or open failure, if any
}

// discardSink is used when no Sink is configured.
type discardSink struct{}

func (discardSink) Match(int, string) {}
func (discardSink) Summary(Report)    {}
