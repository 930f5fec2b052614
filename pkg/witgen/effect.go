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
	"strings"

	"github.com/consensys/go-witgen/pkg/util/field"
)

// Effect represents one unit of generated runtime behaviour: an assignment of
// a cell, a refinement of a cell's range, a runtime consistency check, or an
// invocation of an external machine (lookup/permutation relation).  The
// ordered sequence of effects emitted by the inference engine is the generated
// program.
type Effect[F field.Element[F]] interface {
	fmt.Stringer
	isEffect()
}

// Assignment records that a cell's value is exactly described by a known
// expression.
type Assignment[F field.Element[F]] struct {
	// Cell being assigned.
	Cell Cell
	// Value assigned to the cell.
	Value SymbolicExpression[F]
}

// RangeRefinement records a tighter bound discovered for a still-unknown cell.
// Refinements update the engine's knowledge base but are not part of the
// generated program.
type RangeRefinement[F field.Element[F]] struct {
	// Cell being refined.
	Cell Cell
	// Tighter bound for the cell.
	Bound RangeConstraint[F]
}

// Assertion records a runtime check that two known quantities must (or must
// not) be equal.  Assertions are consistency checks only; they never update
// the knowledge base.
type Assertion[F field.Element[F]] struct {
	// Left operand.
	Lhs SymbolicExpression[F]
	// Right operand.
	Rhs SymbolicExpression[F]
	// ExpectedEqual indicates whether the operands must be equal (or must
	// differ).
	ExpectedEqual bool
}

// AssertZero constructs an assertion that a given known quantity is zero.
func AssertZero[F field.Element[F]](expr SymbolicExpression[F]) *Assertion[F] {
	return &Assertion[F]{expr, NewConstant(field.Zero[F]()), true}
}

// AssertNonZero constructs an assertion that a given known quantity is
// non-zero.
func AssertNonZero[F field.Element[F]](expr SymbolicExpression[F]) *Assertion[F] {
	return &Assertion[F]{expr, NewConstant(field.Zero[F]()), false}
}

// MachineCallArg is one positional argument of a machine call, either a known
// quantity or a single-variable expression whose value the callee supplies.
type MachineCallArg[F field.Element[F]] interface {
	fmt.Stringer
	isMachineCallArg()
}

// KnownArg is a machine call argument whose value is known by the time the
// call executes.
type KnownArg[F field.Element[F]] struct {
	Value SymbolicExpression[F]
}

// UnknownArg is a machine call argument holding a single unknown variable,
// whose value is supplied by the machine being called.
type UnknownArg[F field.Element[F]] struct {
	Expr *AffineExpression[F]
}

// MachineCall records an invocation of an external relation (lookup or
// permutation) with a positional argument list.
type MachineCall[F field.Element[F]] struct {
	// Identifier of the identity being invoked.
	ID uint
	// Positional arguments of the call.
	Args []MachineCallArg[F]
}

func (p *Assignment[F]) isEffect()      {}
func (p *RangeRefinement[F]) isEffect() {}
func (p *Assertion[F]) isEffect()       {}
func (p *MachineCall[F]) isEffect()     {}

func (p *KnownArg[F]) isMachineCallArg()   {}
func (p *UnknownArg[F]) isMachineCallArg() {}

func (p *Assignment[F]) String() string {
	return fmt.Sprintf("%s = %s;", p.Cell.String(), p.Value.String())
}

func (p *RangeRefinement[F]) String() string {
	return fmt.Sprintf("%s in %s", p.Cell.String(), p.Bound.String())
}

func (p *Assertion[F]) String() string {
	op := "=="
	//
	if !p.ExpectedEqual {
		op = "!="
	}
	//
	return fmt.Sprintf("assert %s %s %s;", p.Lhs.String(), op, p.Rhs.String())
}

func (p *KnownArg[F]) String() string {
	return fmt.Sprintf("Known(%s)", p.Value.String())
}

func (p *UnknownArg[F]) String() string {
	return fmt.Sprintf("Unknown(%s)", p.Expr.String())
}

func (p *MachineCall[F]) String() string {
	args := make([]string, len(p.Args))
	//
	for i, arg := range p.Args {
		args[i] = arg.String()
	}
	//
	return fmt.Sprintf("lookup(%d, [%s]);", p.ID, strings.Join(args, ", "))
}

// ProcessResult is the outcome of processing a single identity on a single
// row: the effects discovered, along with a flag indicating whether the
// identity/row pair has been fully resolved (and hence need never be
// revisited).
type ProcessResult[F field.Element[F]] struct {
	// Effects discovered.
	Effects []Effect[F]
	// Complete indicates the identity/row pair is fully resolved.
	Complete bool
}

// EmptyResult constructs the result indicating no progress was made.
func EmptyResult[F field.Element[F]]() ProcessResult[F] {
	return ProcessResult[F]{nil, false}
}

// CompleteResult constructs a result carrying zero or more effects and marking
// the identity/row pair as fully resolved.
func CompleteResult[F field.Element[F]](effects ...Effect[F]) ProcessResult[F] {
	return ProcessResult[F]{effects, true}
}
