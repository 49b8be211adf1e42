// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
)

const importPath = `"github.com/slukits/sigtest"`

var indexer = &caseIndexer{}

// caseIndexer maps the case methods of suites to the order they
// appear in the source file defining them.  A file is parsed once;
// parse errors are remembered as an empty index.
type caseIndexer struct {
	mutex sync.Mutex
	//          file       suite      method index
	files map[string]map[string]map[string]int
}

// index returns the index of given method of given suite defined in
// given file and false if it is unknown.
func (i *caseIndexer) index(file, suite, method string) (int, bool) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	if err := i.ensure(file); err != nil {
		return 0, false
	}
	idx, ok := i.files[file][suite][method]
	return idx, ok
}

func (i *caseIndexer) ensure(file string) error {
	if _, ok := i.files[file]; ok {
		return nil
	}
	if i.files == nil {
		i.files = map[string]map[string]map[string]int{}
	}
	i.files[file] = map[string]map[string]int{}
	f, err := parser.ParseFile(token.NewFileSet(), file, nil, 0)
	if err != nil {
		return err
	}
	i.parse(f, file)
	return nil
}

func (i *caseIndexer) parse(f *ast.File, file string) {
	qualifier, ok := suiteQualifier(f)
	if !ok {
		return
	}
	// methods may be declared before their suite type, hence two
	// passes.
	ast.Inspect(f, func(n ast.Node) bool {
		if name, ok := suiteType(n, qualifier); ok {
			i.files[file][name] = map[string]int{}
		}
		return true
	})
	if len(i.files[file]) == 0 {
		return
	}
	ast.Inspect(f, func(n ast.Node) bool {
		fd, ok := n.(*ast.FuncDecl)
		if !ok {
			return true
		}
		if suite, method, ok := i.caseMethod(fd, file); ok {
			i.files[file][suite][method] = len(i.files[file][suite])
		}
		return true
	})
}

// suiteQualifier returns the name under which a file refers to this
// package's Suite type; the empty string denotes an unqualified
// reference.  False is returned if the file can't refer to Suite.
func suiteQualifier(f *ast.File) (string, bool) {
	if f.Name.Name == "sigtest" {
		return "", true
	}
	for _, imp := range f.Imports {
		if imp.Path.Value != importPath {
			continue
		}
		if imp.Name == nil {
			return filepath.Base(strings.Trim(imp.Path.Value, `"`)), true
		}
		if imp.Name.Name == "." {
			return "", true
		}
		return imp.Name.Name, true
	}
	return "", false
}

// suiteType returns the name of the struct type given node declares
// if it embeds Suite.
func suiteType(n ast.Node, qualifier string) (string, bool) {
	ts, ok := n.(*ast.TypeSpec)
	if !ok {
		return "", false
	}
	st, ok := ts.Type.(*ast.StructType)
	if !ok {
		return "", false
	}
	for _, field := range st.Fields.List {
		if len(field.Names) > 0 {
			continue
		}
		if embedsSuite(field.Type, qualifier) {
			return ts.Name.Name, true
		}
	}
	return "", false
}

func embedsSuite(expr ast.Expr, qualifier string) bool {
	if star, ok := expr.(*ast.StarExpr); ok {
		expr = star.X
	}
	if qualifier == "" {
		ident, ok := expr.(*ast.Ident)
		return ok && ident.Name == "Suite"
	}
	sel, ok := expr.(*ast.SelectorExpr)
	if !ok || sel.Sel.Name != "Suite" {
		return false
	}
	x, ok := sel.X.(*ast.Ident)
	return ok && x.Name == qualifier
}

var unexported = regexp.MustCompile(`^[_a-z]`)

// caseMethod returns the suite and name of given function declaration
// if it is a candidate case method of a known suite.
func (i *caseIndexer) caseMethod(fd *ast.FuncDecl, file string) (
	suite, method string, _ bool,
) {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return "", "", false
	}
	if isSpecial(fd.Name.Name) || unexported.MatchString(fd.Name.Name) ||
		fd.Type.Params.NumFields() != 1 {
		return "", "", false
	}
	recv := fd.Recv.List[0].Type
	if star, ok := recv.(*ast.StarExpr); ok {
		recv = star.X
	}
	ident, ok := recv.(*ast.Ident)
	if !ok {
		return "", "", false
	}
	if _, ok := i.files[file][ident.Name]; !ok {
		return "", "", false
	}
	return ident.Name, fd.Name.Name, true
}
