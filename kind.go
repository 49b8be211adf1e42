// Copyright (c) 2022 Stephan Lukits. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package sigtest

import (
	"fmt"
	"math"
	"reflect"
	"unicode/utf8"
)

// Kind selects how AreEqual and AreNotEqual compare and render their
// operands.
type Kind int

const (
	// Int compares signed or unsigned integers exactly.
	Int Kind = iota

	// Float compares float32 values within float32 machine epsilon.
	Float

	// Double compares float64 values within float64 machine epsilon.
	Double

	// Char compares runes or bytes exactly.
	Char

	// Ptr compares references by identity.
	Ptr

	// String is not supported by AreEqual and AreNotEqual which always
	// fail for it; use StringEqual instead.
	String
)

var kindNames = [...]string{"Int", "Float", "Double", "Char", "Ptr", "String"}

func (k Kind) String() string {
	if k < Int || k > String {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

const (
	// Float32Epsilon is the difference between 1 and the least float32
	// greater than 1.
	Float32Epsilon = 0x1p-23

	// Float64Epsilon is the difference between 1 and the least float64
	// greater than 1.
	Float64Epsilon = 0x1p-52
)

// maxRendered is the number of characters a string operand is
// truncated to in a failure message.
const maxRendered = 19

// operand is a value converted according to a Kind.
type operand struct {
	i int64
	u uint64
	f float64
	r rune
	p uintptr

	unsigned bool
	rendered string
}

const kindTypeErr = "%s kind expects %s operands, got %T and %T"

// operands converts given values according to given kind.
func operands(k Kind, exp, act any) (e, a operand, err error) {
	var ok bool
	var want string
	switch k {
	case Int:
		want = "integer"
		e, ok = intOperand(exp)
		if ok {
			a, ok = intOperand(act)
		}
	case Float:
		want = "float"
		e, ok = floatOperand[float32](exp)
		if ok {
			a, ok = floatOperand[float32](act)
		}
	case Double:
		want = "float"
		e, ok = floatOperand[float64](exp)
		if ok {
			a, ok = floatOperand[float64](act)
		}
	case Char:
		want = "rune or byte"
		e, ok = charOperand(exp)
		if ok {
			a, ok = charOperand(act)
		}
	case Ptr:
		want = "reference"
		e, ok = ptrOperand(exp)
		if ok {
			a, ok = ptrOperand(act)
		}
	default:
		return e, a, fmt.Errorf("unsupported kind %s", k)
	}
	if !ok {
		return e, a, fmt.Errorf(kindTypeErr, k, want, exp, act)
	}
	return e, a, nil
}

// equal compares two operands of given kind.
func equal(k Kind, e, a operand) bool {
	switch k {
	case Int:
		if e.unsigned == a.unsigned {
			return e.i == a.i
		}
		// a signed and an unsigned integer are equal only if both are
		// non-negative and share their value.
		return e.i >= 0 && a.i >= 0 && e.u == a.u
	case Float:
		return math.Abs(e.f-a.f) <= Float32Epsilon
	case Double:
		return math.Abs(e.f-a.f) <= Float64Epsilon
	case Char:
		return e.r == a.r
	case Ptr:
		return e.p == a.p
	}
	return false
}

func intOperand(v any) (operand, bool) {
	rv := reflect.ValueOf(v)
	switch {
	case !rv.IsValid():
		return operand{}, false
	case rv.CanInt():
		i := rv.Int()
		return operand{i: i, u: uint64(i), rendered: fmt.Sprintf("%d", i)},
			true
	case rv.CanUint():
		u := rv.Uint()
		return operand{i: int64(u), u: u, unsigned: true,
			rendered: fmt.Sprintf("%d", u)}, true
	}
	return operand{}, false
}

// floatOperand converts a float32 or float64 to given width.
func floatOperand[F float32 | float64](v any) (operand, bool) {
	var f F
	switch x := v.(type) {
	case float32:
		f = F(x)
	case float64:
		f = F(x)
	default:
		return operand{}, false
	}
	return operand{f: float64(f), rendered: fmt.Sprintf("%.5f", f)}, true
}

func charOperand(v any) (operand, bool) {
	var r rune
	switch c := v.(type) {
	case rune:
		r = c
	case byte:
		r = rune(c)
	default:
		return operand{}, false
	}
	return operand{r: r, rendered: fmt.Sprintf("%c", r)}, true
}

func ptrOperand(v any) (operand, bool) {
	if v == nil {
		return operand{rendered: "0x0"}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map,
		reflect.Chan, reflect.Func, reflect.Slice:
		p := rv.Pointer()
		return operand{p: p, rendered: fmt.Sprintf("%#x", p)}, true
	}
	return operand{}, false
}

// truncate cuts given string to the number of characters a string
// operand is rendered with.
func truncate(s string) string {
	if utf8.RuneCountInString(s) <= maxRendered {
		return s
	}
	return string([]rune(s)[:maxRendered])
}
