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
	"github.com/consensys/go-witgen/pkg/schema"
	"github.com/consensys/go-witgen/pkg/util"
	"github.com/consensys/go-witgen/pkg/util/collection/hash"
	"github.com/consensys/go-witgen/pkg/util/field"
)

// FixedEvaluator supplies concrete values for fixed columns.  Implementations
// must be deterministic and side-effect free; returning an empty option is a
// normal outcome meaning the value cannot (currently) be resolved statically.
type FixedEvaluator[F field.Element[F]] interface {
	Evaluate(access schema.ColumnAccess, row int) util.Option[F]
}

// RangeConstraintSource supplies analysis-time range constraints on committed
// columns, applying uniformly to every row.
type RangeConstraintSource[F field.Element[F]] interface {
	RangeConstraint(column schema.Column) util.Option[RangeConstraint[F]]
}

// NoFixedColumns is a FixedEvaluator which cannot resolve anything.
type NoFixedColumns[F field.Element[F]] struct{}

// Evaluate implementation for the FixedEvaluator interface.
func (p NoFixedColumns[F]) Evaluate(schema.ColumnAccess, int) util.Option[F] {
	return util.None[F]()
}

// NoRangeConstraints is a RangeConstraintSource holding no constraints.
type NoRangeConstraints[F field.Element[F]] struct{}

// RangeConstraint implementation for the RangeConstraintSource interface.
func (p NoRangeConstraints[F]) RangeConstraint(schema.Column) util.Option[RangeConstraint[F]] {
	return util.None[RangeConstraint[F]]()
}

// Inference generates code that solves identities.  It needs a driver which
// tells it which identities to process on which rows; the engine itself holds
// the (strictly monotonic) knowledge base: the set of cells whose values are
// determined, the best locally derived range constraint per cell, and the
// ordered sequence of effects emitted so far.
type Inference[F field.Element[F]] struct {
	// External provider of fixed column values.
	fixed FixedEvaluator[F]
	// External provider of global range constraints.
	globals RangeConstraintSource[F]
	// Cells whose values are determined.
	known *hash.Set[Cell]
	// Best locally derived bound per cell.
	derived *hash.Map[Cell, RangeConstraint[F]]
	// Ordered sequence of emitted effects.
	code []Effect[F]
	// Revision counter, bumped on every knowledge base mutation.
	revision uint64
}

// NewInference constructs a fresh engine with a given set of cells already
// known (e.g. supplied as inputs).
func NewInference[F field.Element[F]](
	fixed FixedEvaluator[F], globals RangeConstraintSource[F], known ...Cell,
) *Inference[F] {
	engine := &Inference[F]{
		fixed:   fixed,
		globals: globals,
		known:   hash.NewSet[Cell](32),
		derived: hash.NewMap[Cell, RangeConstraint[F]](32),
	}
	//
	for _, cell := range known {
		engine.known.Insert(cell)
	}
	//
	return engine
}

// Code returns the ordered sequence of effects emitted so far.  Replayed top
// to bottom, every operand of an assignment or machine call is known by the
// time it appears.
func (p *Inference[F]) Code() []Effect[F] {
	return p.code
}

// IsKnown checks whether a given cell's value has been determined.
func (p *Inference[F]) IsKnown(cell Cell) bool {
	return p.known.Contains(cell)
}

// KnownCells returns the number of cells whose values have been determined.
func (p *Inference[F]) KnownCells() uint {
	return p.known.Size()
}

// Revision returns a counter which changes whenever the knowledge base does.
// A driver can use this to detect that a pass over the identities made
// progress of any kind.
func (p *Inference[F]) Revision() uint64 {
	return p.revision
}

// ProcessIdentity processes an identity on a certain row, folding any
// resulting effects into the knowledge base.  It returns true if the
// identity/row pair was fully resolved and must not be submitted again;
// otherwise the pair may be retried once more knowledge is available.
func (p *Inference[F]) ProcessIdentity(identity schema.Identity[F], row int) bool {
	var result ProcessResult[F]
	//
	switch id := identity.(type) {
	case *schema.Polynomial[F]:
		result = p.processPolynomial(id.Expr, row)
	case *schema.Lookup[F]:
		result = p.processLookup(id, row)
	case *schema.BusInteraction[F]:
		// No concept of "can be answered" for bus interactions yet.
		result = EmptyResult[F]()
	case *schema.Connect[F]:
		result = EmptyResult[F]()
	default:
		panic("unknown identity")
	}
	//
	p.ingest(result.Effects)
	//
	return result.Complete
}

// processPolynomial handles an identity of the form "expression = 0".
func (p *Inference[F]) processPolynomial(expr schema.Expr[F], row int) ProcessResult[F] {
	if ev := p.evaluate(expr, row); ev.HasValue() {
		return ev.Unwrap().Solve()
	}
	//
	return EmptyResult[F]()
}

// processLookup handles the lookup family.  A lookup is resolvable only when
// its right side is a static table (fixed columns and constants), its selector
// is known to fire unconditionally, and exactly one left-hand term holds
// exactly one unknown variable; the resulting machine call defers that
// variable's value to the relation being invoked.
func (p *Inference[F]) processLookup(id *schema.Lookup[F], row int) ProcessResult[F] {
	// The right side must be fully fixed columns or constants.
	for _, term := range id.Right.Terms {
		switch t := term.(type) {
		case *schema.Access[F]:
			if !t.Column.IsFixed() {
				return EmptyResult[F]()
			}
		case *schema.Constant[F]:
			// fine
		default:
			return EmptyResult[F]()
		}
	}
	// The selector must be known to be one.
	if sel := id.Left.Selector; sel.HasValue() {
		ev := p.evaluate(sel.Unwrap(), row)
		//
		if ev.IsEmpty() {
			return EmptyResult[F]()
		}
		//
		k := ev.Unwrap().TryToKnown()
		//
		if k.IsEmpty() {
			return EmptyResult[F]()
		} else if c := k.Unwrap().Constant(); c.IsEmpty() || !c.Unwrap().IsOne() {
			return EmptyResult[F]()
		}
	}
	// All left-hand terms must evaluate.
	lhs := make([]*AffineExpression[F], len(id.Left.Terms))
	unknowns := 0
	//
	for i, term := range id.Left.Terms {
		ev := p.evaluate(term, row)
		//
		if ev.IsEmpty() {
			return EmptyResult[F]()
		}
		//
		lhs[i] = ev.Unwrap()
		//
		if lhs[i].TryToKnown().IsEmpty() {
			unknowns++
			// The unknown term must hold exactly one variable.
			if lhs[i].SingleUnknownVariable().IsEmpty() {
				return EmptyResult[F]()
			}
		}
	}
	// Exactly one term may be unknown.
	if unknowns != 1 {
		return EmptyResult[F]()
	}
	//
	args := make([]MachineCallArg[F], len(lhs))
	//
	for i, e := range lhs {
		if k := e.TryToKnown(); k.HasValue() {
			args[i] = &KnownArg[F]{k.Unwrap()}
		} else {
			args[i] = &UnknownArg[F]{e}
		}
	}
	//
	return CompleteResult[F](&MachineCall[F]{id.ID, args})
}

// ingest folds effects into the knowledge base.  This is the single mutation
// choke point: every discovery, in whatever order it arrives, passes through
// here, so the promotion condition is re-checked after every range update.
func (p *Inference[F]) ingest(effects []Effect[F]) {
	for _, e := range effects {
		switch e := e.(type) {
		case *Assignment[F]:
			p.markKnown(e.Cell)
			// If the cell was determined to be a constant, record that as a
			// range constraint for future evaluations.
			if rc := e.Value.Bound(); rc.HasValue() {
				p.addRangeConstraint(e.Cell, rc.Unwrap())
			}
			//
			p.appendCode(e)
		case *RangeRefinement[F]:
			p.addRangeConstraint(e.Cell, e.Bound)
		case *MachineCall[F]:
			// Cells bound to unknown arguments are supplied by the machine at
			// execution time, hence become known now.
			for _, arg := range e.Args {
				if u, ok := arg.(*UnknownArg[F]); ok {
					p.markKnown(u.Expr.SingleUnknownVariable().Unwrap())
				}
			}
			//
			p.appendCode(e)
		case *Assertion[F]:
			p.appendCode(e)
		default:
			panic("unknown effect")
		}
	}
}

// addRangeConstraint merges a newly discovered bound into the knowledge base
// by conjunction.  A bound which collapses to a single value promotes the cell
// to known, synthesising the assignment: this is how cells fixed purely
// through range reasoning enter the generated code.
func (p *Inference[F]) addRangeConstraint(cell Cell, rc RangeConstraint[F]) {
	if existing := p.rangeConstraint(cell); existing.HasValue() {
		rc = existing.Unwrap().Conjunction(rc)
	}
	//
	if !p.known.Contains(cell) {
		if v := rc.SingleValue(); v.HasValue() {
			p.markKnown(cell)
			p.appendCode(&Assignment[F]{cell, NewConstant(v.Unwrap())})
		}
	}
	// Record only genuine refinements.
	if old, ok := p.derived.Get(cell); !ok || !old.Equals(rc) {
		p.derived.Insert(cell, rc)
		p.revision++
	}
}

func (p *Inference[F]) markKnown(cell Cell) {
	if !p.known.Insert(cell) {
		p.revision++
	}
}

func (p *Inference[F]) appendCode(effect Effect[F]) {
	p.code = append(p.code, effect)
	p.revision++
}

// rangeConstraint returns the current best bound on the given cell, combining
// the global range constraint on its column with the locally derived one.
func (p *Inference[F]) rangeConstraint(cell Cell) util.Option[RangeConstraint[F]] {
	var (
		column = schema.NewColumn(cell.Column, cell.Name, schema.COMMITTED)
		global = p.globals.RangeConstraint(column)
	)
	//
	if local, ok := p.derived.Get(cell); ok {
		if global.HasValue() {
			return util.Some(global.Unwrap().Conjunction(local))
		}
		//
		return util.Some(local)
	}
	//
	return global
}

// evaluate recursively evaluates an expression tree into affine symbolic form
// at a given row, using current knowledge.  An empty result means evaluation
// cannot proceed now; this is a normal outcome, not an error, since more cells
// may become known on a later pass.
func (p *Inference[F]) evaluate(expr schema.Expr[F], row int) util.Option[*AffineExpression[F]] {
	switch e := expr.(type) {
	case *schema.Access[F]:
		if e.Column.IsFixed() {
			if v := p.fixed.Evaluate(e.ColumnAccess, row); v.HasValue() {
				return util.Some(FromConstant(v.Unwrap()))
			}
			//
			return util.None[*AffineExpression[F]]()
		}
		//
		cell := NewCell(e.ColumnAccess, row)
		rc := p.rangeConstraint(cell)
		// A known compile-time constant value is stored in the range
		// constraints.
		if rc.HasValue() && rc.Unwrap().SingleValue().HasValue() {
			return util.Some(FromConstant(rc.Unwrap().SingleValue().Unwrap()))
		} else if p.known.Contains(cell) {
			return util.Some(FromKnown(NewKnownSymbol(cell, rc)))
		}
		//
		return util.Some(FromUnknown(cell, rc))
	case *schema.Constant[F]:
		return util.Some(FromConstant(e.Value))
	case *schema.PublicRef[F]:
		// Unsupported variable kind.
		return util.None[*AffineExpression[F]]()
	case *schema.Challenge[F]:
		// Unsupported variable kind.
		return util.None[*AffineExpression[F]]()
	case *schema.Add[F]:
		if l, r := p.evaluate(e.Lhs, row), p.evaluate(e.Rhs, row); l.HasValue() && r.HasValue() {
			return util.Some(l.Unwrap().Add(r.Unwrap()))
		}
	case *schema.Sub[F]:
		if l, r := p.evaluate(e.Lhs, row), p.evaluate(e.Rhs, row); l.HasValue() && r.HasValue() {
			return util.Some(l.Unwrap().Sub(r.Unwrap()))
		}
	case *schema.Mul[F]:
		if l, r := p.evaluate(e.Lhs, row), p.evaluate(e.Rhs, row); l.HasValue() && r.HasValue() {
			return l.Unwrap().TryMul(r.Unwrap())
		}
	case *schema.Exp[F]:
		return p.evaluateExponent(e, row)
	case *schema.Neg[F]:
		if a := p.evaluate(e.Arg, row); a.HasValue() {
			return util.Some(a.Unwrap().Neg())
		}
	default:
		panic("unknown expression")
	}
	//
	return util.None[*AffineExpression[F]]()
}

// evaluateExponent handles exponentiation, which requires both operands to be
// concrete constants.
func (p *Inference[F]) evaluateExponent(e *schema.Exp[F], row int) util.Option[*AffineExpression[F]] {
	l, r := p.evaluate(e.Lhs, row), p.evaluate(e.Rhs, row)
	//
	if l.IsEmpty() || r.IsEmpty() {
		return util.None[*AffineExpression[F]]()
	}
	//
	lk, rk := l.Unwrap().TryToKnown(), r.Unwrap().TryToKnown()
	//
	if lk.IsEmpty() || rk.IsEmpty() {
		return util.None[*AffineExpression[F]]()
	}
	//
	base, exp := lk.Unwrap().Constant(), rk.Unwrap().Constant()
	//
	if base.IsEmpty() || exp.IsEmpty() {
		return util.None[*AffineExpression[F]]()
	}
	// Exponent must be a (small) integer.
	n := field.ToBigInt(exp.Unwrap())
	//
	if !n.IsUint64() {
		return util.None[*AffineExpression[F]]()
	}
	//
	return util.Some(FromConstant(field.Pow(base.Unwrap(), n.Uint64())))
}
