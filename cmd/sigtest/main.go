// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

/*
Sigtest builds a go source file registering sigtest sets and cases into
an ephemeral test binary, runs it and removes it again.  The source
must be of package main without a main function; its init functions
register the sets to run:

	package main

	import "github.com/slukits/sigtest"

	func init() {
	    sigtest.Testset("math", nil, nil)
	    sigtest.Testcase("adds", func(a *sigtest.Assert) {
	        a.AreEqual(4, 2+2, sigtest.Int)
	    })
	}

Usage:

	sigtest -t <file.go> [-f default|json|junit|table] [-s] [--no-clean]
	        [-v] [--debug=<0..4>] [--build-dir <dir>] [--go <binary>]
	        [--config <file.yaml>]
	sigtest --about [-v]

The binary is built into the build directory (default build/tmp) as
st_<source>_<pid> from the source, the additional sources listed in a
.sigtest.yaml next to the source and a generated main file.  The report
format is passed to the binary through SIGTEST_FORMAT, the debug level
through SIGTEST_VERBOSE.  Sigtest exits with 0 if all cases passed,
with 1 if a case failed and with 2 if the tests could not be built or
run, e.g. because of a fatal registration error.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/slukits/sigtest"
	"github.com/slukits/sigtest/cmd/sigtest/driver"
	"github.com/slukits/sigtest/hooks"
	"github.com/urfave/cli/v2"
)

// Version of the sigtest command.
const Version = "0.2.0"

const envPrefix = "SIGTEST_"

var (
	TestFlag = &cli.StringFlag{
		Name:    "test",
		Aliases: []string{"t"},
		EnvVars: []string{envPrefix + "TEST"},
		Usage:   "go source file registering the tests to run",
	}
	FormatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"f"},
		Value:   string(hooks.Default),
		EnvVars: []string{envPrefix + "FORMAT"},
		Usage:   "report format: default, json, junit or table",
	}
	SimpleFlag = &cli.BoolFlag{
		Name:    "simple",
		Aliases: []string{"s"},
		Usage:   "report as table, i.e. --format=table",
	}
	NoCleanFlag = &cli.BoolFlag{
		Name:    "no-clean",
		EnvVars: []string{envPrefix + "NO_CLEAN"},
		Usage:   "keep the test binary",
	}
	VerboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log the pipeline's steps",
	}
	DebugFlag = &cli.IntFlag{
		Name:    "debug",
		EnvVars: []string{envPrefix + "DEBUG"},
		Usage:   "log level of the test binary from 0 (debug) to 4 (fatal)",
	}
	BuildDirFlag = &cli.StringFlag{
		Name:    "build-dir",
		Value:   driver.DefaultBuildDir,
		EnvVars: []string{envPrefix + "BUILD_DIR"},
		Usage:   "directory receiving the test binary",
	}
	GoFlag = &cli.StringFlag{
		Name:    "go",
		Value:   driver.DefaultGo,
		EnvVars: []string{envPrefix + "GO"},
		Usage:   "go binary building the test binary",
	}
	ConfigFlag = &cli.StringFlag{
		Name:    "config",
		EnvVars: []string{envPrefix + "CONFIG"},
		Usage:   "configuration file; defaults to " + driver.ConfigFile + " next to the test source",
	}
	AboutFlag = &cli.BoolFlag{
		Name:  "about",
		Usage: "print version information",
	}
)

// Flags of the sigtest command.
var Flags = []cli.Flag{
	TestFlag, FormatFlag, SimpleFlag, NoCleanFlag, VerboseFlag, DebugFlag,
	BuildDirFlag, GoFlag, ConfigFlag, AboutFlag,
}

// execute runs the driver pipeline; tests replace it.
var execute = func(c *cli.Context, opts driver.Options) error {
	return driver.New(opts).Run(c.Context)
}

func main() {
	app := newApp()
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			cli.HandleExitCoder(cli.Exit(err.Error(), driver.ExitCode(err)))
		}
	}
	if err := app.Run(os.Args); err != nil {
		os.Exit(driver.ExitCode(err))
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "sigtest"
	app.Version = Version
	app.Usage = "build and run sigtest sets of a go source file"
	app.HideVersion = true
	app.Flags = Flags
	app.Action = run
	return app
}

func run(c *cli.Context) error {
	if c.Bool(AboutFlag.Name) {
		about(c.App.Writer, c.Bool(VerboseFlag.Name))
		return nil
	}
	opts, err := options(c)
	if err != nil {
		return driver.NewRuntimeError(err)
	}
	return execute(c, opts)
}

// options evaluates the command line and the configuration file.
func options(c *cli.Context) (driver.Options, error) {
	src := c.String(TestFlag.Name)
	if src == "" {
		return driver.Options{}, errors.New(
			"no test source provided: sigtest -t <file.go>")
	}
	cfg, err := driver.LoadConfig(c.String(ConfigFlag.Name), src)
	if err != nil {
		return driver.Options{}, err
	}

	flags := driver.Config{}
	if c.IsSet(BuildDirFlag.Name) {
		flags.BuildDir = c.String(BuildDirFlag.Name)
	}
	if c.IsSet(GoFlag.Name) {
		flags.Go = c.String(GoFlag.Name)
	}
	switch {
	case c.Bool(SimpleFlag.Name):
		flags.Format = string(hooks.TableFmt)
	case c.IsSet(FormatFlag.Name):
		f, err := hooks.ParseFormat(c.String(FormatFlag.Name))
		if err != nil {
			return driver.Options{}, err
		}
		flags.Format = string(f)
	}

	level := ""
	if c.IsSet(DebugFlag.Name) {
		lvl := c.Int(DebugFlag.Name)
		if lvl < int(sigtest.LevelDebug) || lvl > int(sigtest.LevelFatal) {
			return driver.Options{}, fmt.Errorf(
				"invalid debug level %d: must be within [0, 4]", lvl)
		}
		level = strconv.Itoa(lvl)
	}

	return driver.Options{
		Config:  cfg.Merge(flags),
		Source:  src,
		NoClean: c.Bool(NoCleanFlag.Name),
		Level:   level,
		Stdout:  c.App.Writer,
		Stderr:  c.App.ErrWriter,
		Logger:  newLogger(c.App.ErrWriter, c.Bool(VerboseFlag.Name)),
	}, nil
}

// newLogger logs warnings and errors of the pipeline to given writer
// and all its steps if verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	lvl := slog.LevelWarn
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func about(w io.Writer, verbose bool) {
	fmt.Fprintf(w, "sigtest:      v%s\n", sigtest.Version)
	fmt.Fprintf(w, "sigtest(CLI): v%s\n", Version)
	if !verbose {
		return
	}
	fmt.Fprintln(w, "Copyright (c) 2022 Stephan Lukits")
	fmt.Fprintln(w, "License: MIT")
}
