// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/exp/slices"
)

const (
	// ExitSuccess is returned by a run without failing cases.
	ExitSuccess = 0

	// ExitFailure is returned by a run with at least one failing case.
	ExitFailure = 1

	// ExitFatal terminates the process after a registration error.
	ExitFatal = 2
)

var (
	ErrNilBody   = errors.New("sigtest: nil test body")
	ErrNilHooks  = errors.New("sigtest: nil hooks")
	ErrNilSuite  = errors.New("sigtest: nil suite")
	ErrConfig    = errors.New("sigtest: set configuration failed")
	ErrSuiteCase = errors.New("sigtest: invalid suite method")
)

// Registry holds the test sets and hooks of a test binary.  A registry
// is not safe for concurrent use: registration happens before a run
// and runs are strictly sequential.
type Registry struct {
	sets    []*TestSet
	current *TestSet
	hooks   *HookRegistry
	level   Level
	rc      *RunContext
	summary Summary

	// out receives the aggregate line of a run while output is the
	// initial output of new sets.
	out, output io.Writer

	// stderr and exit report and terminate on registration errors.
	stderr io.Writer
	exit   func(code int)
}

// NewRegistry returns an empty registry with the default hooks
// installed.
func NewRegistry() *Registry {
	return &Registry{
		hooks:  NewHookRegistry(),
		level:  LevelInfo,
		out:    os.Stdout,
		stderr: os.Stderr,
		exit:   os.Exit,
	}
}

// Default is the process-wide registry the package level functions
// operate on.
var Default = NewRegistry()

// fatal reports given registration error and terminates the process.
func (r *Registry) fatal(err error) {
	fmt.Fprintf(r.stderr, "fatal: %v\n", err)
	r.exit(ExitFatal)
}

// SetSummaryOutput sets the writer receiving the aggregate line of a
// run; nil defaults to os.Stdout.
func (r *Registry) SetSummaryOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	r.out = w
}

// SetOutput sets the output of sets which are registered afterwards
// and of registered sets writing to os.Stdout.
func (r *Registry) SetOutput(w io.Writer) {
	r.output = w
	for _, s := range r.sets {
		if s.Output() == os.Stdout {
			s.SetOutput(w)
		}
	}
}

// SetLevel sets the log level of every registered and every future
// set.
func (r *Registry) SetLevel(lvl Level) {
	r.level = lvl
	for _, s := range r.sets {
		s.Logger().SetLevel(lvl)
	}
}

// Set creates a set and makes it the target of subsequent case, setup,
// teardown and hooks registrations.  Given config runs immediately; a
// config error is fatal.  Given cleanup runs once after the set's
// cases.
func (r *Registry) Set(
	name string, config ConfigFunc, cleanup func(),
) *TestSet {
	s := newSet(name, r.level)
	if r.output != nil {
		s.SetOutput(r.output)
	}
	s.Cleanup = cleanup
	if config != nil {
		if err := config(s); err != nil {
			r.fatal(fmt.Errorf("%w: %s: %v", ErrConfig, name, err))
			return nil
		}
	}
	r.sets = append(r.sets, s)
	r.current = s
	return s
}

// target returns the current set creating the default set if there
// is none.
func (r *Registry) target() *TestSet {
	if r.current == nil {
		r.Set(DefaultSetName, nil, nil)
	}
	return r.current
}

// AddCase appends a case to the current set.  A nil body is fatal.
func (r *Registry) AddCase(
	name string, fn Func, expectFail, expectThrow bool,
) *TestCase {
	if fn == nil {
		r.fatal(fmt.Errorf("%w: %s", ErrNilBody, name))
		return nil
	}
	tc := &TestCase{
		Name:        name,
		Func:        fn,
		ExpectFail:  expectFail,
		ExpectThrow: expectThrow,
	}
	r.target().add(tc)
	return tc
}

// Case registers a case which is expected to pass.
func (r *Registry) Case(name string, fn Func) *TestCase {
	return r.AddCase(name, fn, false, false)
}

// FailCase registers a case which passes iff it fails.
func (r *Registry) FailCase(name string, fn Func) *TestCase {
	return r.AddCase(name, fn, true, false)
}

// ThrowsCase registers a case which passes iff it throws.
func (r *Registry) ThrowsCase(name string, fn Func) *TestCase {
	return r.AddCase(name, fn, false, true)
}

// Setup sets the function run before each case of the current set.
func (r *Registry) Setup(fn func()) { r.target().Setup = fn }

// Teardown sets the function run after each case of the current set.
func (r *Registry) Teardown(fn func()) { r.target().Teardown = fn }

// Sets returns the registered sets in registration order.
func (r *Registry) Sets() []*TestSet { return slices.Clone(r.sets) }

// Current returns the target set of registrations or nil.
func (r *Registry) Current() *TestSet { return r.current }

// Hooks returns the registry's hook registry.
func (r *Registry) Hooks() *HookRegistry { return r.hooks }

// RegisterHooks registers given hooks and makes them the current set's
// hooks if it has none.  Nil hooks are fatal.
func (r *Registry) RegisterHooks(h *Hooks) {
	if h == nil {
		r.fatal(ErrNilHooks)
		return
	}
	r.hooks.Register(h)
	if r.current != nil && r.current.Hooks == nil {
		r.current.Hooks = h
	}
}

// InitHooks returns the hooks registered under given name creating
// them if necessary.
func (r *Registry) InitHooks(name string) *Hooks {
	return r.hooks.InitOrGet(name)
}

// Assert returns an Assert instance reporting to whatever run the
// registry executes when an assertion is made; it may be obtained at
// registration time.  It lets a set's setup and teardown assert;
// outside of a case's execution its assertions are ignored.
func (r *Registry) Assert() *Assert {
	return NewAssertFunc(func() *RunContext { return r.rc })
}

// Logger returns the logger of the executing set, of the current set
// or a logger writing to os.Stdout if there is no set.
func (r *Registry) Logger() *Logger {
	if s := r.rc.Set(); s != nil {
		return s.Logger()
	}
	if r.current != nil {
		return r.current.Logger()
	}
	l := NewLogger(r.output)
	l.SetLevel(r.level)
	return l
}

// Writef writes a line to the output of the executing set.
func (r *Registry) Writef(format string, args ...any) {
	r.Logger().Writef(format, args...)
}

// Debugf writes a debug line to the output of the executing set.
func (r *Registry) Debugf(format string, args ...any) {
	r.Logger().Debugf(format, args...)
}

// Close closes the outputs sets were configured with, except the
// standard streams, and empties the registry.  Closing an empty
// registry is a no-op.
func (r *Registry) Close() error {
	var errs []error
	for _, s := range r.sets {
		if r.output != nil && s.Output() == r.output {
			continue
		}
		if err := s.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", s.Name, err))
		}
	}
	r.sets, r.current, r.summary = nil, nil, Summary{}
	return errors.Join(errs...)
}
