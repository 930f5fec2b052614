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
package schema

import (
	"github.com/consensys/go-witgen/pkg/util/field"
)

// Expr represents a node of a constraint expression tree over a prime field F.
// Expressions are pure data: evaluation is performed externally (e.g. by the
// witness generation engine), which dispatches over the closed set of node
// types defined in this file.
type Expr[F field.Element[F]] interface {
	isExpr()
}

// Access represents a reference to a column at a relative row offset.
type Access[F field.Element[F]] struct {
	ColumnAccess
}

// Constant represents a literal field element.
type Constant[F field.Element[F]] struct {
	Value F
}

// Add represents the sum of two expressions.
type Add[F field.Element[F]] struct {
	Lhs, Rhs Expr[F]
}

// Sub represents the difference of two expressions.
type Sub[F field.Element[F]] struct {
	Lhs, Rhs Expr[F]
}

// Mul represents the product of two expressions.
type Mul[F field.Element[F]] struct {
	Lhs, Rhs Expr[F]
}

// Exp represents one expression raised to the power of another.
type Exp[F field.Element[F]] struct {
	Lhs, Rhs Expr[F]
}

// Neg represents the negation of an expression.
type Neg[F field.Element[F]] struct {
	Arg Expr[F]
}

// PublicRef represents a reference to a public input.  Such references cannot
// (currently) be resolved during witness generation.
type PublicRef[F field.Element[F]] struct {
	Name string
}

// Challenge represents a reference to a protocol challenge.  Such references
// cannot (currently) be resolved during witness generation.
type Challenge[F field.Element[F]] struct {
	ID uint
}

func (p *Access[F]) isExpr()    {}
func (p *Constant[F]) isExpr()  {}
func (p *Add[F]) isExpr()       {}
func (p *Sub[F]) isExpr()       {}
func (p *Mul[F]) isExpr()       {}
func (p *Exp[F]) isExpr()       {}
func (p *Neg[F]) isExpr()       {}
func (p *PublicRef[F]) isExpr() {}
func (p *Challenge[F]) isExpr() {}

// Col constructs an expression accessing a given column on the row under
// consideration.
func Col[F field.Element[F]](column Column) Expr[F] {
	return &Access[F]{ColumnAccess{column, false}}
}

// NextCol constructs an expression accessing a given column on the following
// row.
func NextCol[F field.Element[F]](column Column) Expr[F] {
	return &Access[F]{ColumnAccess{column, true}}
}

// Const constructs an expression representing a given constant.
func Const[F field.Element[F]](value F) Expr[F] {
	return &Constant[F]{value}
}

// Const64 constructs an expression representing a given constant from a uint64.
func Const64[F field.Element[F]](value uint64) Expr[F] {
	return &Constant[F]{field.Uint64[F](value)}
}

// Sum constructs the sum of two expressions.
func Sum[F field.Element[F]](lhs Expr[F], rhs Expr[F]) Expr[F] {
	return &Add[F]{lhs, rhs}
}

// Subtract constructs the difference of two expressions.
func Subtract[F field.Element[F]](lhs Expr[F], rhs Expr[F]) Expr[F] {
	return &Sub[F]{lhs, rhs}
}

// Product constructs the product of two expressions.
func Product[F field.Element[F]](lhs Expr[F], rhs Expr[F]) Expr[F] {
	return &Mul[F]{lhs, rhs}
}

// Exponent constructs an expression raising one expression to the power of
// another.
func Exponent[F field.Element[F]](lhs Expr[F], rhs Expr[F]) Expr[F] {
	return &Exp[F]{lhs, rhs}
}

// Negate constructs the negation of an expression.
func Negate[F field.Element[F]](arg Expr[F]) Expr[F] {
	return &Neg[F]{arg}
}
