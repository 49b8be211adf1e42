// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

// Version of the sigtest runtime.
const Version = "0.3.0"

// The functions of this file register at and run the Default
// registry.  They are typically called from init functions of a test
// source file, e.g.:
//
//	func init() {
//	    sigtest.Testset("math", nil, nil)
//	    sigtest.Testcase("adds", func(a *sigtest.Assert) {
//	        a.AreEqual(4, 2+2, sigtest.Int)
//	    })
//	}

// Testset creates a set in the Default registry.
func Testset(name string, config ConfigFunc, cleanup func()) *TestSet {
	return Default.Set(name, config, cleanup)
}

// Testcase registers a case in the Default registry.
func Testcase(name string, fn Func) *TestCase {
	return Default.Case(name, fn)
}

// FailTestcase registers a case in the Default registry which passes
// iff it fails.
func FailTestcase(name string, fn Func) *TestCase {
	return Default.FailCase(name, fn)
}

// TestcaseThrows registers a case in the Default registry which passes
// iff it throws.
func TestcaseThrows(name string, fn Func) *TestCase {
	return Default.ThrowsCase(name, fn)
}

// SetupTestcase sets the setup of the Default registry's current set.
func SetupTestcase(fn func()) { Default.Setup(fn) }

// TeardownTestcase sets the teardown of the Default registry's current
// set.
func TeardownTestcase(fn func()) { Default.Teardown(fn) }

// RegisterHooks registers given hooks at the Default registry.
func RegisterHooks(h *Hooks) { Default.RegisterHooks(h) }

// InitHooks returns the Default registry's hooks of given name.
func InitHooks(name string) *Hooks { return Default.InitHooks(name) }

// RegisterSuite registers given suite at the Default registry.
func RegisterSuite(s SuiteEmbedder) *TestSet { return Default.Suite(s) }

// Assertions returns an Assert instance reporting to the Default
// registry's executing run, e.g. for setups and teardowns.  It may be
// obtained at init time.
func Assertions() *Assert { return Default.Assert() }

// Writef writes a line to the executing set's output.
func Writef(format string, args ...any) { Default.Writef(format, args...) }

// Debugf writes a debug line to the executing set's output.
func Debugf(format string, args ...any) { Default.Debugf(format, args...) }

// Run runs the Default registry.
func Run(override *Hooks) int { return Default.Run(override) }

// Main runs and closes the Default registry and exits the process with
// the run's exit code.
func Main(override *Hooks) { Default.Main(override) }
