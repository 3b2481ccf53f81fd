// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package console renders scan output: one line per match as workers find
// them, then the summary report.
package console

import (
	"fmt"
	"io"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/logscan"
	"code.hybscloud.com/logscan/internal/ring"
)

// DefaultCapacity is the event ring size used when NewPrinter gets < 2.
const DefaultCapacity = 256

type event struct {
	worker int
	line   string
	report *logscan.Report
}

// Printer is a logscan.Sink that writes to an io.Writer from a single
// goroutine. Workers hand events over through a lock-free ring, so a slow
// writer never holds the scan buffer's lock.
type Printer struct {
	w    io.Writer
	q    *ring.Ring[event]
	done chan struct{}
	err  error // first write error; owned by the print loop
}

// NewPrinter creates a Printer writing to w. Call Start before the run and
// Close after it.
func NewPrinter(w io.Writer, capacity int) *Printer {
	if capacity < 2 {
		capacity = DefaultCapacity
	}
	return &Printer{
		w:    w,
		q:    ring.New[event](capacity),
		done: make(chan struct{}),
	}
}

// Start launches the print loop.
func (p *Printer) Start() {
	go p.loop()
}

// Match queues a match event. Safe for concurrent use by all workers.
func (p *Printer) Match(worker int, line string) {
	p.push(event{worker: worker, line: line})
}

// Summary queues the final report. It is printed after every match queued
// before it.
func (p *Printer) Summary(r logscan.Report) {
	p.push(event{report: &r})
}

func (p *Printer) push(ev event) {
	backoff := iox.Backoff{}
	for p.q.Push(&ev) != nil {
		backoff.Wait()
	}
}

// Close waits for every queued event to be written and returns the first
// write error. No Match or Summary call may be in flight or follow.
func (p *Printer) Close() error {
	p.q.Close()
	<-p.done
	return p.err
}

func (p *Printer) loop() {
	defer close(p.done)
	backoff := iox.Backoff{}
	for {
		ev, err := p.q.Pop()
		if err == nil {
			backoff.Reset()
			p.write(ev)
			continue
		}
		if p.q.Closed() {
			for {
				ev, err := p.q.Pop()
				if err != nil {
					return
				}
				p.write(ev)
			}
		}
		backoff.Wait()
	}
}

func (p *Printer) write(ev event) {
	if p.err != nil {
		return
	}
	if ev.report != nil {
		p.err = WriteReport(p.w, *ev.report)
		return
	}
	_, p.err = fmt.Fprintf(p.w, "Worker %d found match: %s\n", ev.worker, ev.line)
}

// WriteReport writes the summary block for r.
func WriteReport(w io.Writer, r logscan.Report) error {
	if _, err := fmt.Fprint(w, "\n--- Summary Report ---\n"); err != nil {
		return err
	}
	for _, wr := range r.Workers {
		if _, err := fmt.Fprintf(w, "Worker %d found %d matches\n", wr.ID, wr.Matches); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Total matches found: %d\n", r.Total)
	return err
}
