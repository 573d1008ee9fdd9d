// Copyright 2026 The Deskbridge Authors
// SPDX-License-Identifier: Apache-2.0

package supervisor

import (
	"bytes"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/deskbridge/deskbridge/lib/clock"
)

// Stream identifies which output stream a line came from.
type Stream string

const (
	Stdout Stream = "stdout"
	Stderr Stream = "stderr"
)

// OutputLine is one line written by the backend, without its newline.
type OutputLine struct {
	Stream Stream
	Text   string
	Time   time.Time
}

// outputLog is the ordered, unbounded record of everything the backend
// wrote. Two copier goroutines (stdout, stderr) append concurrently.
type outputLog struct {
	mutex sync.Mutex
	lines []OutputLine
}

func (l *outputLog) append(line OutputLine) {
	l.mutex.Lock()
	l.lines = append(l.lines, line)
	l.mutex.Unlock()
}

func (l *outputLog) snapshot() []OutputLine {
	l.mutex.Lock()
	defer l.mutex.Unlock()
	return slices.Clone(l.lines)
}

// lineWriter splits one stream into lines. exec.Cmd drives it from a
// single copier goroutine, so the partial-line buffer needs no lock.
type lineWriter struct {
	stream  Stream
	log     *outputLog
	clock   clock.Clock
	logger  *slog.Logger
	partial []byte
}

func (w *lineWriter) Write(data []byte) (int, error) {
	written := len(data)
	for len(data) > 0 {
		index := bytes.IndexByte(data, '\n')
		if index < 0 {
			w.partial = append(w.partial, data...)
			break
		}
		w.partial = append(w.partial, data[:index]...)
		w.emit()
		data = data[index+1:]
	}
	return written, nil
}

// flush emits a trailing line that had no newline. Called once the
// copier has finished.
func (w *lineWriter) flush() {
	if len(w.partial) > 0 {
		w.emit()
	}
}

func (w *lineWriter) emit() {
	text := string(bytes.TrimRight(w.partial, "\r"))
	w.partial = w.partial[:0]
	w.log.append(OutputLine{Stream: w.stream, Text: text, Time: w.clock.Now()})
	w.logger.Info("backend output", "stream", string(w.stream), "line", text)
}
