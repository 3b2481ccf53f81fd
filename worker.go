// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package logscan

import (
	"strings"

	"github.com/rs/zerolog"
)

// Worker is the consumer loop. It counts the lines that contain a search
// term, then meets the other workers at the completion barrier.
//
// Worker i writes only results[i] before the barrier. After the barrier
// every slot is read-only, and worker 0 aggregates them into the Report.
type Worker struct {
	id      int
	q       Consumer
	cancel  *Cancel
	term    string
	barrier *Barrier
	results []WorkerResult
	sink    Sink
	log     zerolog.Logger
}

// Run consumes until a sentinel or cancellation, waits at the barrier,
// and, for worker 0 of an uncanceled run, publishes the Report to the sink.
// It returns the published Report, or nil.
func (w *Worker) Run() *Report {
	res := &w.results[w.id]
	res.ID = w.id

	for !w.cancel.Canceled() {
		it, err := w.q.Dequeue()
		if err != nil || it.IsEnd() {
			break
		}
		res.Lines++
		if strings.Contains(it.Text(), w.term) {
			res.Matches++
			w.sink.Match(w.id, it.Text())
		}
	}

	w.log.Debug().Int("worker", w.id).Int("matches", res.Matches).Msg("worker at barrier")
	w.barrier.Wait()

	if w.id != 0 || w.cancel.Canceled() {
		return nil
	}
	r := aggregate(w.results)
	w.sink.Summary(r)
	return &r
}

func aggregate(results []WorkerResult) Report {
	r := Report{Workers: make([]WorkerResult, len(results))}
	copy(r.Workers, results)
	for _, wr := range results {
		r.Total += wr.Matches
	}
	return r
}
