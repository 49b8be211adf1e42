// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeGo "builds" a shell script exiting with $FAKE_EXIT which prints
// the report settings it was started with.  It fails if a listed go
// file is missing or $FAKE_BUILD_FAIL is set.
const fakeGo = `#!/bin/sh
for a in "$@"; do
  case "$a" in *.go) [ -f "$a" ] || { echo "missing $a" >&2; exit 3; };; esac
done
if [ -n "$FAKE_BUILD_FAIL" ]; then echo "syntax error" >&2; exit 1; fi
out=""
while [ $# -gt 0 ]; do
  if [ "$1" = "-o" ]; then out="$2"; shift; fi
  shift
done
printf '#!/bin/sh\necho "format=$SIGTEST_FORMAT level=$SIGTEST_VERBOSE"\nexit %s\n' "${FAKE_EXIT:-0}" > "$out"
chmod +x "$out"
`

const goMod = "module example.com/stack\n\ngo 1.21\n\n" +
	"require github.com/slukits/sigtest v0.3.0\n"

// workspace creates a module directory with a test source of given
// package and returns the source's path.
func workspace(t *testing.T, pkg string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "go.mod"), []byte(goMod), 0o644))
	src := filepath.Join(dir, "stack_test_src.go")
	require.NoError(t, os.WriteFile(src, []byte("package "+pkg+"\n"), 0o644))
	return src
}

// fakeToolchain installs fakeGo and returns its path.
func fakeToolchain(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake go binary is a shell script")
	}
	path := filepath.Join(t.TempDir(), "go")
	require.NoError(t, os.WriteFile(path, []byte(fakeGo), 0o755))
	return path
}

func newDriver(t *testing.T, src string, opts Options) (*Driver, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	opts.Source = src
	if opts.BuildDir == "" {
		opts.BuildDir = filepath.Join(t.TempDir(), "build", "tmp")
	}
	opts.Stdout, opts.Stderr = out, out
	return New(opts), out
}

func TestArtifactsAreNamedAfterSourceAndProcess(t *testing.T) {
	d, _ := newDriver(t, "/src/stack.go", Options{
		Config: Config{BuildDir: "build/tmp"}})
	d.pid = 42
	art := d.Artifacts()
	assert.Equal(t, filepath.Join("/src", "st_stack_42_main.go"), art.Main)
	exp := filepath.Join("build", "tmp", "st_stack_42")
	if runtime.GOOS == "windows" {
		exp += ".exe"
	}
	assert.Equal(t, exp, art.Binary)
}

func TestNewAppliesDefaults(t *testing.T) {
	d := New(Options{Source: "x.go"})
	assert.Equal(t, DefaultBuildDir, d.opts.BuildDir)
	assert.Equal(t, DefaultGo, d.opts.Go)
	assert.Equal(t, "default", d.opts.Format)
}

func TestInvalidSourcesAreRuntimeErrors(t *testing.T) {
	dir := t.TempDir()
	txt := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	goDir := filepath.Join(dir, "pkg.go")
	require.NoError(t, os.Mkdir(goDir, 0o755))
	noModule := filepath.Join(dir, "main.go")
	require.NoError(t, os.WriteFile(noModule, []byte("package main\n"), 0o644))

	for name, src := range map[string]string{
		"missing":       filepath.Join(dir, "missing.go"),
		"extension":     txt,
		"directory":     goDir,
		"not main":      workspace(t, "stack"),
		"empty":         "",
		"missing extra": workspace(t, "main"),
		"no module":     noModule,
	} {
		t.Run(name, func(t *testing.T) {
			opts := Options{}
			if name == "missing extra" {
				opts.Sources = []string{"helper.go"}
			}
			d, _ := newDriver(t, src, opts)
			err := d.Run(context.Background())
			assert.True(t, IsRuntimeError(err), "%v", err)
			assert.Equal(t, ExitRuntime, ExitCode(err))
		})
	}
}

func TestBuildDirectoryIsCreated(t *testing.T) {
	src := workspace(t, "main")
	build := filepath.Join(t.TempDir(), "a", "b")
	d, _ := newDriver(t, src, Options{Config: Config{BuildDir: build}})
	require.NoError(t, d.verifyBuildDir())
	fi, err := os.Stat(build)
	require.NoError(t, err)
	assert.True(t, fi.IsDir())
	_, err = os.Stat(filepath.Join(build, checkFile))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestGeneratedMainSelectsHooksFromTheEnvironment(t *testing.T) {
	src := workspace(t, "main")
	d, _ := newDriver(t, src, Options{})
	art := d.Artifacts()
	require.NoError(t, d.generate(art.Main))
	main, err := os.ReadFile(art.Main)
	require.NoError(t, err)
	assert.Contains(t, string(main), "package main")
	assert.Contains(t, string(main), "stack_test_src.go")
	assert.Contains(t, string(main), "hooks.FromEnv(sigtest.Default)")
	assert.Contains(t, string(main), "sigtest.Main(h)")
}

func TestRunPassesSettingsAndCleansUp(t *testing.T) {
	src := workspace(t, "main")
	d, out := newDriver(t, src, Options{
		Config: Config{Go: fakeToolchain(t), Format: "junit"},
		Level:  "DEBUG",
	})
	require.NoError(t, d.Run(context.Background()))
	assert.Contains(t, out.String(), "format=junit level=DEBUG")

	art := d.Artifacts()
	for _, f := range []string{art.Main, art.Binary} {
		_, err := os.Stat(f)
		assert.True(t, errors.Is(err, os.ErrNotExist), f)
	}
}

func TestNoCleanKeepsTheBinary(t *testing.T) {
	src := workspace(t, "main")
	d, _ := newDriver(t, src, Options{
		Config: Config{Go: fakeToolchain(t)}, NoClean: true})
	require.NoError(t, d.Run(context.Background()))
	art := d.Artifacts()
	_, err := os.Stat(art.Binary)
	assert.NoError(t, err)
	_, err = os.Stat(art.Main)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestExtraSourcesAreCompiled(t *testing.T) {
	src := workspace(t, "main")
	require.NoError(t, os.WriteFile(
		filepath.Join(filepath.Dir(src), "helper.go"),
		[]byte("package main\n"), 0o644))
	d, _ := newDriver(t, src, Options{Config: Config{
		Go: fakeToolchain(t), Sources: []string{"helper.go"}}})
	assert.NoError(t, d.Run(context.Background()))
}

func TestExitCodesOfTheBinaryAreMapped(t *testing.T) {
	for code, check := range map[string]func(error) bool{
		"1": IsTestFailureError,
		"2": IsRuntimeError,
		"7": IsRuntimeError,
	} {
		t.Run(code, func(t *testing.T) {
			t.Setenv("FAKE_EXIT", code)
			d, _ := newDriver(t, workspace(t, "main"), Options{
				Config: Config{Go: fakeToolchain(t)}})
			err := d.Run(context.Background())
			assert.True(t, check(err), "%v", err)
		})
	}
}

func TestBuildFailuresAreRuntimeErrors(t *testing.T) {
	t.Setenv("FAKE_BUILD_FAIL", "1")
	src := workspace(t, "main")
	d, _ := newDriver(t, src, Options{Config: Config{Go: fakeToolchain(t)}})
	err := d.Run(context.Background())
	require.True(t, IsRuntimeError(err))
	assert.True(t, strings.Contains(err.Error(), "syntax error"))
	_, statErr := os.Stat(d.Artifacts().Main)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitSuccess, ExitCode(nil))
	assert.Equal(t, ExitTestFailure, ExitCode(NewTestFailureError("x")))
	assert.Equal(t, ExitRuntime, ExitCode(NewRuntimeError(errors.New("x"))))
	assert.Equal(t, ExitRuntime, ExitCode(errors.New("x")))
}

func TestFindModuleAscendsToTheGoModFile(t *testing.T) {
	src := workspace(t, "main")
	sub := filepath.Join(filepath.Dir(src), "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	mod, err := FindModule(sub)
	require.NoError(t, err)
	assert.Equal(t, "example.com/stack", mod.Path)
	assert.Equal(t, filepath.Dir(src), mod.Dir)
	assert.True(t, mod.Requires(SigtestModule))
	assert.False(t, mod.Requires("example.com/other"))
	assert.True(t, mod.Requires("example.com/stack"))
}

func TestFindModuleFailsOutsideOfModules(t *testing.T) {
	_, err := FindModule(t.TempDir())
	assert.ErrorIs(t, err, ErrNoModule)
}
