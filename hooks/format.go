// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hooks

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/slukits/sigtest"
)

// Format names a report format.
type Format string

const (
	Default  Format = sigtest.DefaultHooksName
	JSONFmt  Format = JSONName
	JUnitFmt Format = JUnitName
	TableFmt Format = TableName
)

// Formats lists the known report formats.
var Formats = []Format{Default, JSONFmt, JUnitFmt, TableFmt}

// Environment variables evaluated by FromEnv.
const (
	EnvFormat  = "SIGTEST_FORMAT"
	EnvVerbose = "SIGTEST_VERBOSE"
	EnvName    = "SIGTEST_NAME"
)

// DefaultRunName names a JUnit document if EnvName is not set.
const DefaultRunName = "sigtest"

// ErrUnknownFormat is returned for a format name none of Formats
// matches.
var ErrUnknownFormat = errors.New("hooks: unknown format")

// ParseFormat returns the format of given case-insensitive name; an
// empty name is the Default format.
func ParseFormat(name string) (Format, error) {
	if name == "" {
		return Default, nil
	}
	for _, f := range Formats {
		if strings.EqualFold(name, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}

// ByName returns a new hooks bundle for the format of given name
// writing to w; see JSON, JUnit and Table for how a nil writer is
// handled.
func ByName(name string, w io.Writer) (*sigtest.Hooks, error) {
	f, err := ParseFormat(name)
	if err != nil {
		return nil, err
	}
	switch f {
	case JSONFmt:
		return JSON(w), nil
	case JUnitFmt:
		return JUnit(DefaultRunName, w), nil
	case TableFmt:
		return Table(w, false), nil
	}
	return sigtest.DefaultHooks(), nil
}

// FromEnv configures given registry from the environment and returns
// the hooks bundle a run should be observed by.  EnvVerbose holds a
// log level label or ordinal.  EnvFormat selects the report format.
// The Default format yields nil hooks, i.e. each set is observed by
// its own hooks or the registry's default hooks; any other format
// observes every set and moves the run's aggregate line to stderr
// leaving stdout to the report.
func FromEnv(r *sigtest.Registry) (*sigtest.Hooks, error) {
	if v := os.Getenv(EnvVerbose); v != "" {
		lvl, err := sigtest.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", EnvVerbose, err)
		}
		r.SetLevel(lvl)
	}
	f, err := ParseFormat(os.Getenv(EnvFormat))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", EnvFormat, err)
	}
	if f == Default {
		return nil, nil
	}
	r.SetSummaryOutput(os.Stderr)
	if f == JUnitFmt {
		name := os.Getenv(EnvName)
		if name == "" {
			name = DefaultRunName
		}
		return JUnit(name, nil), nil
	}
	return ByName(string(f), nil)
}
