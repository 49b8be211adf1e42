// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package driver builds a go source file registering sigtest sets
// into an ephemeral test binary, runs it and cleans up after it.
package driver

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"text/template"

	"github.com/slukits/sigtest/hooks"
)

//go:embed main.go.tmpl
var mainSource string

var mainTmpl = template.Must(template.New("main").Parse(mainSource))

// checkFile probes if the build directory is writable.
const checkFile = ".sigtest_check"

// Options configure a Driver.
type Options struct {
	Config

	// Source is the go file registering the sets to run.
	Source string

	// NoClean keeps the test binary after the run.
	NoClean bool

	// Level is the log level label or ordinal passed to the test
	// binary; empty keeps the binary's default.
	Level string

	Stdout, Stderr io.Writer
	Logger         *slog.Logger
}

// Driver runs the pipeline validating, building, running and cleaning
// up a test binary.
type Driver struct {
	opts Options
	pid  int
}

// New returns a driver for given options.
func New(opts Options) *Driver {
	opts.Config = opts.Config.withDefaults()
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Driver{opts: opts, pid: os.Getpid()}
}

// Artifacts are the files a driver run creates.
type Artifacts struct {
	// Main is the generated main file next to the test source.
	Main string

	// Binary is the test binary in the build directory.
	Binary string
}

// Artifacts returns the names of the files the driver creates for its
// source.
func (d *Driver) Artifacts() Artifacts {
	base := strings.TrimSuffix(filepath.Base(d.opts.Source), ".go")
	name := fmt.Sprintf("st_%s_%d", base, d.pid)
	bin := filepath.Join(d.opts.BuildDir, name)
	if runtime.GOOS == "windows" {
		bin += ".exe"
	}
	return Artifacts{
		Main:   filepath.Join(filepath.Dir(d.opts.Source), name+"_main.go"),
		Binary: bin,
	}
}

// Run builds and runs the test binary.  It returns nil if every case
// passed, a TestFailureError if a case failed and a RuntimeError if
// the binary could not be built or run to its end.
func (d *Driver) Run(ctx context.Context) error {
	log := d.opts.Logger
	if err := d.validateSource(); err != nil {
		return NewRuntimeError(err)
	}
	log.Info("verified", "source", d.opts.Source)

	if err := d.verifyBuildDir(); err != nil {
		return NewRuntimeError(err)
	}
	log.Info("verified", "build_dir", d.opts.BuildDir)

	art := d.Artifacts()
	if err := d.generate(art.Main); err != nil {
		return NewRuntimeError(err)
	}
	defer d.remove(art.Main)

	if err := d.build(ctx, art); err != nil {
		return NewRuntimeError(err)
	}
	log.Info("built", "source", d.opts.Source, "binary", art.Binary)
	if !d.opts.NoClean {
		defer d.remove(art.Binary)
	}

	return d.run(ctx, art.Binary)
}

// validateSource checks that the source is a readable go file of
// package main inside a go module and that configured additional
// sources exist.
func (d *Driver) validateSource() error {
	src := d.opts.Source
	if src == "" {
		return errors.New("no test source given")
	}
	if filepath.Ext(src) != ".go" {
		return fmt.Errorf("target extension invalid (must be '.go'): %s", src)
	}
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("target inaccessible: %w", err)
	}
	if fi.IsDir() {
		return fmt.Errorf("target is a directory: %s", src)
	}
	f, err := parser.ParseFile(token.NewFileSet(), src, nil,
		parser.PackageClauseOnly)
	if err != nil {
		return fmt.Errorf("target unparsable: %w", err)
	}
	if f.Name.Name != "main" {
		return fmt.Errorf("target must be of package main, got %s: %s",
			f.Name.Name, src)
	}
	for _, s := range d.opts.Sources {
		path := filepath.Join(filepath.Dir(src), s)
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("source inaccessible: %w", err)
		}
	}
	mod, err := FindModule(filepath.Dir(src))
	if err != nil {
		return err
	}
	d.opts.Logger.Debug("found module", "path", mod.Path, "dir", mod.Dir)
	if !mod.Requires(SigtestModule) {
		d.opts.Logger.Warn("module does not require sigtest",
			"module", mod.Path, "require", SigtestModule)
	}
	return nil
}

// verifyBuildDir creates the build directory if necessary and probes
// if it is writable.
func (d *Driver) verifyBuildDir() error {
	dir := d.opts.BuildDir
	if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
		d.opts.Logger.Info("creating build directory", "dir", dir)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create build directory: %w", err)
	}
	probe := filepath.Join(dir, checkFile)
	if err := os.WriteFile(probe, nil, 0o644); err != nil {
		return fmt.Errorf("build directory not writable: %w", err)
	}
	return os.Remove(probe)
}

// generate writes the main file of the test binary.
func (d *Driver) generate(path string) error {
	buf := &bytes.Buffer{}
	if err := mainTmpl.Execute(buf, struct{ Source string }{
		Source: filepath.Base(d.opts.Source),
	}); err != nil {
		return fmt.Errorf("generate main: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("generate main: %w", err)
	}
	d.opts.Logger.Debug("generated", "main", path)
	return nil
}

// build compiles the source, its additional sources and the generated
// main into the test binary.
func (d *Driver) build(ctx context.Context, art Artifacts) error {
	bin, err := filepath.Abs(art.Binary)
	if err != nil {
		return err
	}
	args := []string{"build", "-o", bin, filepath.Base(d.opts.Source)}
	args = append(args, d.opts.Sources...)
	args = append(args, filepath.Base(art.Main))

	cmd := exec.CommandContext(ctx, d.opts.Go, args...)
	cmd.Dir = filepath.Dir(d.opts.Source)
	d.opts.Logger.Debug("building", "cmd", cmd.String(), "dir", cmd.Dir)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("build %s: %w\n%s", d.opts.Source, err, out)
	}
	return nil
}

// env returns the environment of the test binary.
func (d *Driver) env() []string {
	env := append(os.Environ(), hooks.EnvFormat+"="+d.opts.Format)
	if d.opts.Level != "" {
		env = append(env, hooks.EnvVerbose+"="+d.opts.Level)
	}
	return env
}

// run executes the test binary and maps its exit code.
func (d *Driver) run(ctx context.Context, bin string) error {
	cmd := exec.CommandContext(ctx, bin)
	cmd.Env = d.env()
	cmd.Stdout, cmd.Stderr = d.opts.Stdout, d.opts.Stderr
	err := cmd.Run()
	if err == nil {
		return nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return NewRuntimeError(fmt.Errorf("run %s: %w", bin, err))
	}
	switch code := exitErr.ExitCode(); code {
	case ExitTestFailure:
		return NewTestFailureError(
			fmt.Sprintf("%s: at least one case failed", d.opts.Source))
	case ExitRuntime:
		return NewRuntimeError(fmt.Errorf(
			"%s: fatal registration error", d.opts.Source))
	default:
		return NewRuntimeError(fmt.Errorf(
			"%s: exit code %d", d.opts.Source, code))
	}
}

func (d *Driver) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		d.opts.Logger.Warn("cleanup failed", "path", path, "err", err)
		return
	}
	d.opts.Logger.Debug("removed", "path", path)
}
