// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Level is the severity of a leveled log entry.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarning
	LevelError
	LevelFatal
)

var levelLabels = [...]string{"DEBUG", "INFO", "WARNING", "ERROR", "FATAL"}

func (l Level) String() string {
	if l < LevelDebug || l > LevelFatal {
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
	return levelLabels[l]
}

// ParseLevel maps a level label, case insensitive, or its ordinal to a
// Level.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	for i, l := range levelLabels {
		if strings.EqualFold(s, l) || s == fmt.Sprint(i) {
			return Level(i), nil
		}
	}
	return LevelInfo, fmt.Errorf("sigtest: unknown log level %q", s)
}

// Logger writes to a test set's output.  Every write is flushed
// immediately so output survives a crashing case body.
type Logger struct {
	out   io.Writer
	level Level
}

// NewLogger binds a logger to given writer which defaults to
// os.Stdout.  Leveled entries below LevelInfo are dropped.
func NewLogger(w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}
	return &Logger{out: w, level: LevelInfo}
}

// Out returns the writer the logger is bound to.
func (l *Logger) Out() io.Writer { return l.out }

// Level returns the threshold of leveled log entries.
func (l *Logger) Level() Level { return l.level }

// SetLevel sets the threshold below which leveled entries are
// dropped.
func (l *Logger) SetLevel(lvl Level) { l.level = lvl }

// Enabled reports if an entry of given level is written.
func (l *Logger) Enabled(lvl Level) bool { return lvl >= l.level }

// Write writes given bytes unaltered.
func (l *Logger) Write(p []byte) (int, error) {
	n, err := l.out.Write(p)
	l.flush()
	return n, err
}

// Log writes formatted output as is.
func (l *Logger) Log(format string, args ...any) {
	fmt.Fprintf(l.out, format, args...)
	l.flush()
}

// Writef writes formatted output terminated by a newline.
func (l *Logger) Writef(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	io.WriteString(l.out, line)
	l.flush()
}

// Levelf writes a line labeled with given level if the level is
// enabled.
func (l *Logger) Levelf(lvl Level, format string, args ...any) {
	if !l.Enabled(lvl) {
		return
	}
	l.Writef("["+lvl.String()+"] "+format, args...)
}

// Debugf is a shortcut for Levelf(LevelDebug, ...).
func (l *Logger) Debugf(format string, args ...any) {
	l.Levelf(LevelDebug, format, args...)
}

type syncer interface{ Sync() error }

type flusher interface{ Flush() error }

func (l *Logger) flush() {
	switch w := l.out.(type) {
	case flusher:
		_ = w.Flush()
	case syncer:
		// syncing a terminal or pipe fails with EINVAL which is fine.
		_ = w.Sync()
	}
}
