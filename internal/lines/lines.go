// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lines reads text input one line at a time for the scan producer.
package lines

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Reader yields lines without their trailing "\n" or "\r\n".
// A final line without a terminator is still returned before io.EOF.
type Reader struct {
	name string
	br   *bufio.Reader
	c    io.Closer
}

// Open opens path for sequential reading.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	adviseSequential(f)
	return &Reader{name: path, br: bufio.NewReaderSize(f, 64<<10), c: f}, nil
}

// New wraps r. If r is an io.Closer, Close closes it.
func New(r io.Reader) *Reader {
	c, _ := r.(io.Closer)
	return &Reader{name: "input", br: bufio.NewReader(r), c: c}
}

// Next returns the next line. It returns io.EOF once input is exhausted.
// Other errors are wrapped and keep their cause for errors.Is.
func (r *Reader) Next() (string, error) {
	line, err := r.br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) {
			if line == "" {
				return "", io.EOF
			}
			return trim(line), nil
		}
		return "", fmt.Errorf("lines: read %s: %w", r.name, err)
	}
	return trim(line), nil
}

// Close releases the underlying file, if any.
func (r *Reader) Close() error {
	if r.c == nil {
		return nil
	}
	c := r.c
	r.c = nil
	return c.Close()
}

func trim(s string) string {
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
