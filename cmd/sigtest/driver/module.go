// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// SigtestModule is the module path a test source's module must be or
// require.
const SigtestModule = "github.com/slukits/sigtest"

// ErrNoModule is returned if no go.mod file is found ascending from a
// test source's directory.
var ErrNoModule = errors.New("driver: no go module found for ")

// Module is the go module a test source is built in.
type Module struct {
	// Dir is the directory containing the go.mod file.
	Dir string

	// Path is the module path.
	Path string

	file *modfile.File
}

// Requires reports if the module is or requires the module with given
// path.
func (m *Module) Requires(path string) bool {
	if m.Path == path {
		return true
	}
	for _, r := range m.file.Require {
		if r.Mod.Path == path {
			return true
		}
	}
	return false
}

// FindModule returns the first module found in given directory
// ascending towards root.
func FindModule(dir string) (*Module, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	start := dir
	for {
		goMod := filepath.Join(dir, "go.mod")
		data, err := os.ReadFile(goMod)
		if err == nil {
			return parseModule(dir, goMod, data)
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if dir == filepath.Dir(dir) {
			return nil, fmt.Errorf("%w%s", ErrNoModule, start)
		}
		dir = filepath.Dir(dir)
	}
}

func parseModule(dir, goMod string, data []byte) (*Module, error) {
	f, err := modfile.Parse(goMod, data, nil)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", goMod, err)
	}
	if f.Module == nil || f.Module.Mod.Path == "" {
		return nil, fmt.Errorf("%s: missing module path", goMod)
	}
	return &Module{Dir: dir, Path: f.Module.Mod.Path, file: f}, nil
}
