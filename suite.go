// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"golang.org/x/exp/slices"
)

// Suite implements the private methods of the SuiteEmbedder interface.
// I.e. a struct embedding Suite may be registered as a test set whose
// cases are the struct's methods, e.g.:
//
//	type Parser struct{ sigtest.Suite }
//
//	// optional Init(*sigtest.TestSet) error method
//	// optional SetUp() method
//	// optional TearDown() method
//
//	// ... the cases as func(*sigtest.Assert) methods of *Parser ...
//
//	// optional Finalize() method
//
//	func init() { sigtest.RegisterSuite(&Parser{}) }
type Suite struct {
	self  any
	value reflect.Value
	rtype reflect.Type
}

// SuiteEmbedder is automatically implemented by embedding a Suite
// instance.
type SuiteEmbedder interface {
	init(self any) *Suite
}

func (s *Suite) init(self any) *Suite {
	s.self = self
	s.value, s.rtype = reflect.ValueOf(self), reflect.TypeOf(self)
	return s
}

func isSpecial(name string) bool {
	return name == "SetUp" || name == "TearDown" ||
		name == "Init" || name == "Finalize"
}

const (
	// FailsSuffix marks a suite method as case which passes iff it
	// fails.
	FailsSuffix = "_fails"

	// ThrowsSuffix marks a suite method as case which passes iff it
	// throws.
	ThrowsSuffix = "_throws"
)

var (
	assertType = reflect.TypeOf(&Assert{})
	setType    = reflect.TypeOf(&TestSet{})
	errorType  = reflect.TypeOf((*error)(nil)).Elem()
)

const suiteSigErr = "%s.%s: expected signature %s"

// Suite registers given suite as a set named after the suite's type.
// The special methods map to the set's configuration, setup, teardown
// and cleanup:
//
//   - Init(*TestSet) error: configures the set at registration
//
//   - SetUp(): run before every case
//
//   - TearDown(): run after every case
//
//   - Finalize(): run once after all cases
//
// Every other exported method taking exactly an *Assert becomes a case
// named after the method with underscores replaced by spaces.  A
// method name ending in FailsSuffix or ThrowsSuffix registers an
// expect-fail or expect-throw case.  Cases are registered in the order
// their methods appear in the suite's source file.  A special method
// with an unexpected signature is fatal.
func (r *Registry) Suite(se SuiteEmbedder) *TestSet {
	if isNil(se) {
		r.fatal(ErrNilSuite)
		return nil
	}
	s := se.init(se)
	name := suiteName(s.rtype)

	var config ConfigFunc
	var setUp, tearDown, cleanup func()
	var cases []reflect.Method
	for i := 0; i < s.rtype.NumMethod(); i++ {
		m := s.rtype.Method(i)
		var err error
		switch m.Name {
		case "Init":
			config, err = s.config(m)
		case "SetUp":
			setUp, err = s.nullary(m)
		case "TearDown":
			tearDown, err = s.nullary(m)
		case "Finalize":
			cleanup, err = s.nullary(m)
		default:
			if isCase(m) {
				cases = append(cases, m)
			}
		}
		if err != nil {
			r.fatal(fmt.Errorf("%w: %v", ErrSuiteCase, err))
			return nil
		}
	}

	set := r.Set(name, config, cleanup)
	if set == nil {
		return nil
	}
	set.Setup, set.Teardown = setUp, tearDown
	for _, m := range s.ordered(name, cases) {
		s.register(r, m)
	}
	return set
}

func suiteName(rt reflect.Type) string {
	if rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Name() == "" {
		return "suite"
	}
	return rt.Name()
}

func isCase(m reflect.Method) bool {
	return m.Type.NumIn() == 2 && m.Type.In(1) == assertType &&
		m.Type.NumOut() == 0 && !isSpecial(m.Name)
}

func (s *Suite) config(m reflect.Method) (ConfigFunc, error) {
	t := m.Type
	if t.NumIn() != 2 || t.In(1) != setType ||
		t.NumOut() != 1 || t.Out(0) != errorType {
		return nil, fmt.Errorf(suiteSigErr,
			suiteName(s.rtype), m.Name, "func(*TestSet) error")
	}
	return func(ts *TestSet) error {
		out := m.Func.Call([]reflect.Value{s.value, reflect.ValueOf(ts)})
		if err, _ := out[0].Interface().(error); err != nil {
			return err
		}
		return nil
	}, nil
}

func (s *Suite) nullary(m reflect.Method) (func(), error) {
	if m.Type.NumIn() != 1 || m.Type.NumOut() != 0 {
		return nil, fmt.Errorf(suiteSigErr,
			suiteName(s.rtype), m.Name, "func()")
	}
	return func() { m.Func.Call([]reflect.Value{s.value}) }, nil
}

// ordered sorts given case methods by their appearance in the source
// file defining them.  Methods the indexer doesn't know keep their
// relative order after the known ones.
func (s *Suite) ordered(suite string, mm []reflect.Method) []reflect.Method {
	position := func(m reflect.Method) int {
		fn := runtime.FuncForPC(m.Func.Pointer())
		if fn == nil {
			return len(mm)
		}
		file, _ := fn.FileLine(fn.Entry())
		idx, ok := indexer.index(file, suite, m.Name)
		if !ok {
			return len(mm)
		}
		return idx
	}
	idx := make(map[string]int, len(mm))
	for _, m := range mm {
		idx[m.Name] = position(m)
	}
	sorted := slices.Clone(mm)
	slices.SortStableFunc(sorted, func(a, b reflect.Method) bool {
		return idx[a.Name] < idx[b.Name]
	})
	return sorted
}

func (s *Suite) register(r *Registry, m reflect.Method) {
	name, fails, throws := m.Name, false, false
	switch {
	case strings.HasSuffix(name, FailsSuffix):
		name, fails = strings.TrimSuffix(name, FailsSuffix), true
	case strings.HasSuffix(name, ThrowsSuffix):
		name, throws = strings.TrimSuffix(name, ThrowsSuffix), true
	}
	r.AddCase(strings.ReplaceAll(name, "_", " "), func(a *Assert) {
		m.Func.Call([]reflect.Value{s.value, reflect.ValueOf(a)})
	}, fails, throws)
}
