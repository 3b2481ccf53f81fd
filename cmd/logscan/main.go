// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command logscan counts the lines of a file that contain a search term,
// spreading the work over a pool of workers fed through a bounded buffer.
//
// Usage:
//
//	logscan [-log-level level] <buffer_size> <num_workers> <log_file> <search_term>
//
// Each match is printed as it is found. When the whole file has been
// scanned, a per-worker summary and the total follow. SIGINT or SIGTERM
// stops the scan promptly and suppresses the summary.
//
// Exit status is 1 for invalid arguments or a failure to set up the run,
// and 0 otherwise, including when the file cannot be opened.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/rs/zerolog"

	"code.hybscloud.com/logscan"
	"code.hybscloud.com/logscan/internal/console"
	"code.hybscloud.com/logscan/internal/lines"
)

const usage = "Usage: logscan [-log-level level] <buffer_size> <num_workers> <log_file> <search_term>"

var errPositive = errors.New("buffer size and number of workers must be positive integers")

type config struct {
	capacity  int
	consumers int
	path      string
	term      string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("logscan", flag.ContinueOnError)
	fs.SetOutput(stderr)
	level := fs.String("log-level", "info", "diagnostic log `level` (debug, info, warn, error, disabled)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}

	cfg, err := parseArgs(fs.Args())
	if err != nil {
		fmt.Fprintln(stderr, err)
		if !errors.Is(err, errPositive) {
			fs.Usage()
		}
		return 1
	}

	log, err := console.NewLogger(stderr, *level)
	if err != nil {
		fmt.Fprintf(stderr, "invalid -log-level %q: %v\n", *level, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), shutdownSignals...)
	defer stop()
	return scan(ctx, cfg, stdout, log)
}

func parseArgs(args []string) (config, error) {
	if len(args) != 4 {
		return config{}, fmt.Errorf("expected 4 arguments, got %d", len(args))
	}
	capacity, err := strconv.Atoi(args[0])
	if err != nil || capacity <= 0 {
		return config{}, errPositive
	}
	consumers, err := strconv.Atoi(args[1])
	if err != nil || consumers <= 0 {
		return config{}, errPositive
	}
	return config{
		capacity:  capacity,
		consumers: consumers,
		path:      args[2],
		term:      args[3],
	}, nil
}

// scan executes one run and returns the process exit status.
func scan(ctx context.Context, cfg config, stdout io.Writer, log zerolog.Logger) int {
	printer := console.NewPrinter(stdout, console.DefaultCapacity)

	r, err := logscan.New(cfg.capacity).
		Consumers(cfg.consumers).
		Term(cfg.term).
		Sink(printer).
		Logger(log).
		Build()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize")
		return 1
	}

	stopNotice := context.AfterFunc(ctx, func() {
		log.Warn().Msg("received interrupt, cleaning up and exiting")
	})
	defer stopNotice()

	printer.Start()
	res, err := r.Execute(ctx, func() (logscan.LineSource, error) {
		return lines.Open(cfg.path)
	})
	if cerr := printer.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("write output")
	}
	if err != nil {
		log.Error().Err(err).Msg("run failed")
		return 1
	}

	if res.Released > 0 {
		log.Debug().Int("released", res.Released).Msg("released unread lines")
	}
	return 0
}
