// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package witgen

import (
	"fmt"
	"math/big"

	"github.com/consensys/go-witgen/pkg/util"
	"github.com/consensys/go-witgen/pkg/util/field"
)

// SymbolicExpression represents a quantity which is known at code-generation
// time, either as a concrete field constant or as an operation over cells
// whose values will be available when the generated code runs.  These are the
// right-hand sides of generated assignments and the operands of generated
// assertions.
type SymbolicExpression[F field.Element[F]] interface {
	fmt.Stringer
	// Constant returns the concrete value of this expression, where it can be
	// determined without running the generated code.
	Constant() util.Option[F]
	// Bound returns a constraint on the runtime value of this expression,
	// where one is known.
	Bound() util.Option[RangeConstraint[F]]
}

// ============================================================================
// Constant
// ============================================================================

type symConstant[F field.Element[F]] struct {
	value F
}

// NewConstant constructs a symbolic expression holding a concrete value.
func NewConstant[F field.Element[F]](value F) SymbolicExpression[F] {
	return &symConstant[F]{value}
}

// Constant implementation for the SymbolicExpression interface.
func (p *symConstant[F]) Constant() util.Option[F] {
	return util.Some(p.value)
}

// Bound implementation for the SymbolicExpression interface.
func (p *symConstant[F]) Bound() util.Option[RangeConstraint[F]] {
	return util.Some(NewValueConstraint(p.value))
}

func (p *symConstant[F]) String() string {
	return p.value.String()
}

// ============================================================================
// Known symbol
// ============================================================================

type symSymbol[F field.Element[F]] struct {
	cell  Cell
	bound util.Option[RangeConstraint[F]]
}

// NewKnownSymbol constructs a symbolic expression referring to a cell whose
// value is known (i.e. computed earlier in the generated code), optionally
// tagged with a range constraint on that value.
func NewKnownSymbol[F field.Element[F]](cell Cell, bound util.Option[RangeConstraint[F]]) SymbolicExpression[F] {
	return &symSymbol[F]{cell, bound}
}

// Constant implementation for the SymbolicExpression interface.
func (p *symSymbol[F]) Constant() util.Option[F] {
	return util.None[F]()
}

// Bound implementation for the SymbolicExpression interface.
func (p *symSymbol[F]) Bound() util.Option[RangeConstraint[F]] {
	return p.bound
}

func (p *symSymbol[F]) String() string {
	return p.cell.String()
}

// ============================================================================
// Binary operations
// ============================================================================

type symOp uint8

const (
	symAdd symOp = iota
	symSub
	symMul
	// Field division.
	symDiv
	// Integer (floor) division, used when unpacking bit-decomposed values.
	symIntDiv
	// Bitwise conjunction, used when unpacking bit-decomposed values.
	symBitAnd
)

type symBinary[F field.Element[F]] struct {
	op       symOp
	lhs, rhs SymbolicExpression[F]
}

// Constant implementation for the SymbolicExpression interface.  Observe that
// constructors fold constants eagerly, hence operation nodes never need to
// re-evaluate their subtrees.
func (p *symBinary[F]) Constant() util.Option[F] {
	return util.None[F]()
}

// Bound implementation for the SymbolicExpression interface.
func (p *symBinary[F]) Bound() util.Option[RangeConstraint[F]] {
	switch p.op {
	case symAdd:
		if l, r := p.lhs.Bound(), p.rhs.Bound(); l.HasValue() && r.HasValue() {
			return util.Some(l.Unwrap().Add(r.Unwrap()))
		}
	case symSub:
		if l, r := p.lhs.Bound(), p.rhs.Bound(); l.HasValue() && r.HasValue() {
			return util.Some(l.Unwrap().Add(r.Unwrap().Neg()))
		}
	case symMul:
		if c := p.rhs.Constant(); c.HasValue() && p.lhs.Bound().HasValue() {
			return util.Some(scaledBound(p.lhs.Bound().Unwrap(), c.Unwrap()))
		} else if c := p.lhs.Constant(); c.HasValue() && p.rhs.Bound().HasValue() {
			return util.Some(scaledBound(p.rhs.Bound().Unwrap(), c.Unwrap()))
		}
	case symBitAnd:
		if c := p.rhs.Constant(); c.HasValue() {
			return util.Some(NewMaskConstraint[F](field.ToBigInt(c.Unwrap())))
		}
	}
	//
	return util.None[RangeConstraint[F]]()
}

func (p *symBinary[F]) String() string {
	var op string
	//
	switch p.op {
	case symAdd:
		op = "+"
	case symSub:
		op = "-"
	case symMul:
		op = "*"
	case symDiv:
		op = "/"
	case symIntDiv:
		op = "//"
	case symBitAnd:
		op = "&"
	default:
		panic("unreachable")
	}
	//
	return fmt.Sprintf("(%s %s %s)", p.lhs.String(), op, p.rhs.String())
}

// ============================================================================
// Negation
// ============================================================================

type symNegate[F field.Element[F]] struct {
	arg SymbolicExpression[F]
}

// Constant implementation for the SymbolicExpression interface.
func (p *symNegate[F]) Constant() util.Option[F] {
	return util.None[F]()
}

// Bound implementation for the SymbolicExpression interface.
func (p *symNegate[F]) Bound() util.Option[RangeConstraint[F]] {
	if b := p.arg.Bound(); b.HasValue() {
		return util.Some(b.Unwrap().Neg())
	}
	//
	return util.None[RangeConstraint[F]]()
}

func (p *symNegate[F]) String() string {
	return fmt.Sprintf("-%s", p.arg.String())
}

// ============================================================================
// Folding constructors
// ============================================================================

func addExprs[F field.Element[F]](lhs, rhs SymbolicExpression[F]) SymbolicExpression[F] {
	l, r := lhs.Constant(), rhs.Constant()
	//
	switch {
	case l.HasValue() && r.HasValue():
		return NewConstant(l.Unwrap().Add(r.Unwrap()))
	case l.HasValue() && l.Unwrap().IsZero():
		return rhs
	case r.HasValue() && r.Unwrap().IsZero():
		return lhs
	default:
		return &symBinary[F]{symAdd, lhs, rhs}
	}
}

func subExprs[F field.Element[F]](lhs, rhs SymbolicExpression[F]) SymbolicExpression[F] {
	l, r := lhs.Constant(), rhs.Constant()
	//
	switch {
	case l.HasValue() && r.HasValue():
		return NewConstant(l.Unwrap().Sub(r.Unwrap()))
	case r.HasValue() && r.Unwrap().IsZero():
		return lhs
	case l.HasValue() && l.Unwrap().IsZero():
		return negExpr(rhs)
	default:
		return &symBinary[F]{symSub, lhs, rhs}
	}
}

func mulExprs[F field.Element[F]](lhs, rhs SymbolicExpression[F]) SymbolicExpression[F] {
	l, r := lhs.Constant(), rhs.Constant()
	//
	switch {
	case l.HasValue() && r.HasValue():
		return NewConstant(l.Unwrap().Mul(r.Unwrap()))
	case l.HasValue() && l.Unwrap().IsZero():
		return lhs
	case r.HasValue() && r.Unwrap().IsZero():
		return rhs
	case l.HasValue() && l.Unwrap().IsOne():
		return rhs
	case r.HasValue() && r.Unwrap().IsOne():
		return lhs
	default:
		return &symBinary[F]{symMul, lhs, rhs}
	}
}

func divExprs[F field.Element[F]](lhs, rhs SymbolicExpression[F]) SymbolicExpression[F] {
	l, r := lhs.Constant(), rhs.Constant()
	//
	switch {
	case r.HasValue() && r.Unwrap().IsOne():
		return lhs
	case l.HasValue() && r.HasValue() && !r.Unwrap().IsZero():
		return NewConstant(l.Unwrap().Mul(r.Unwrap().Inverse()))
	default:
		return &symBinary[F]{symDiv, lhs, rhs}
	}
}

func intDivExprs[F field.Element[F]](lhs SymbolicExpression[F], rhs F) SymbolicExpression[F] {
	if rhs.IsOne() {
		return lhs
	}
	//
	if l := lhs.Constant(); l.HasValue() {
		quot := new(big.Int).Div(field.ToBigInt(l.Unwrap()), field.ToBigInt(rhs))
		return NewConstant(field.BigInt[F](quot))
	}
	//
	return &symBinary[F]{symIntDiv, lhs, NewConstant(rhs)}
}

func bitAndExprs[F field.Element[F]](lhs SymbolicExpression[F], mask F) SymbolicExpression[F] {
	if l := lhs.Constant(); l.HasValue() {
		val := new(big.Int).And(field.ToBigInt(l.Unwrap()), field.ToBigInt(mask))
		return NewConstant(field.BigInt[F](val))
	}
	//
	return &symBinary[F]{symBitAnd, lhs, NewConstant(mask)}
}

func negExpr[F field.Element[F]](arg SymbolicExpression[F]) SymbolicExpression[F] {
	if a := arg.Constant(); a.HasValue() {
		return NewConstant(a.Unwrap().Neg())
	} else if n, ok := arg.(*symNegate[F]); ok {
		return n.arg
	}
	//
	return &symNegate[F]{arg}
}

// knownZero checks whether an expression is provably zero at code-generation
// time.
func knownZero[F field.Element[F]](expr SymbolicExpression[F]) bool {
	c := expr.Constant()
	//
	return c.HasValue() && c.Unwrap().IsZero()
}

// knownNonZero checks whether an expression is provably non-zero at
// code-generation time, either as a concrete constant or because its range
// constraint excludes zero.
func knownNonZero[F field.Element[F]](expr SymbolicExpression[F]) bool {
	if c := expr.Constant(); c.HasValue() {
		return !c.Unwrap().IsZero()
	}
	// Check range constraint excludes zero.
	if b := expr.Bound(); b.HasValue() {
		rc := b.Unwrap()
		return !rc.Wraps() && !rc.MinValue().IsZero()
	}
	//
	return false
}

// scaledBound returns the range constraint on coeff * value, handling negative
// coefficients (i.e. those in the upper half of the field) via negation.
func scaledBound[F field.Element[F]](bound RangeConstraint[F], coeff F) RangeConstraint[F] {
	if isNegative(coeff) {
		return bound.Multiple(coeff.Neg()).Neg()
	}
	//
	return bound.Multiple(coeff)
}

// isNegative checks whether a field element lies in the upper half of the
// field, i.e. is more naturally viewed as a (small) negative number.
func isNegative[F field.Element[F]](val F) bool {
	var (
		modulus = val.Modulus()
		half    = new(big.Int).Rsh(modulus, 1)
	)
	//
	return field.ToBigInt(val).Cmp(half) > 0
}
