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
	"math/big"
	"strings"

	"github.com/consensys/go-witgen/pkg/util"
	"github.com/consensys/go-witgen/pkg/util/field"
)

// affineTerm is one unknown of an affine expression: a cell scaled by a known
// coefficient, tagged with the cell's current range constraint.
type affineTerm[F field.Element[F]] struct {
	// Cell whose value is unknown.
	cell Cell
	// Known coefficient scaling the cell.
	coefficient SymbolicExpression[F]
	// Current bound on the cell's value.
	bound RangeConstraint[F]
}

// AffineExpression is a degree-1 symbolic value: a known offset plus a linear
// combination of unknown cells (offset + Σ coeffᵢ·cellᵢ).  Coefficients and
// offset are known quantities, though not necessarily concrete constants.
// Terms are kept sorted by cell, so all operations are deterministic.  Affine
// expressions are transient: they are built afresh per evaluation and never
// stored.
type AffineExpression[F field.Element[F]] struct {
	// Unknown terms, sorted by cell.
	terms []affineTerm[F]
	// Known offset.
	offset SymbolicExpression[F]
}

// FromConstant constructs an affine expression holding a concrete value.
func FromConstant[F field.Element[F]](value F) *AffineExpression[F] {
	return &AffineExpression[F]{nil, NewConstant(value)}
}

// FromKnown constructs an affine expression holding an arbitrary known
// quantity.
func FromKnown[F field.Element[F]](expr SymbolicExpression[F]) *AffineExpression[F] {
	return &AffineExpression[F]{nil, expr}
}

// FromUnknown constructs an affine expression holding a single unknown cell
// (with coefficient one), tagged with its current range constraint.
func FromUnknown[F field.Element[F]](cell Cell, bound util.Option[RangeConstraint[F]]) *AffineExpression[F] {
	var (
		one  = NewConstant(field.One[F]())
		term = affineTerm[F]{cell, one, bound.UnwrapOr(NewUnconstrained[F]())}
	)
	//
	return &AffineExpression[F]{[]affineTerm[F]{term}, NewConstant(field.Zero[F]())}
}

// TryToKnown returns this expression as a known quantity, provided no unknown
// terms remain.
func (p *AffineExpression[F]) TryToKnown() util.Option[SymbolicExpression[F]] {
	if len(p.terms) == 0 {
		return util.Some(p.offset)
	}
	//
	return util.None[SymbolicExpression[F]]()
}

// SingleUnknownVariable returns the sole unknown cell, provided exactly one
// distinct unknown term exists.
func (p *AffineExpression[F]) SingleUnknownVariable() util.Option[Cell] {
	if len(p.terms) == 1 {
		return util.Some(p.terms[0].cell)
	}
	//
	return util.None[Cell]()
}

// Add sums this expression with another, combining offsets and matching terms
// coefficient-wise.  Terms whose combined coefficient is provably zero are
// dropped.
func (p *AffineExpression[F]) Add(o *AffineExpression[F]) *AffineExpression[F] {
	var (
		terms = make([]affineTerm[F], 0, len(p.terms)+len(o.terms))
		i, j  = 0, 0
	)
	// Merge sorted term lists
	for i < len(p.terms) || j < len(o.terms) {
		switch {
		case j >= len(o.terms):
			terms = append(terms, p.terms[i])
			i++
		case i >= len(p.terms):
			terms = append(terms, o.terms[j])
			j++
		default:
			switch c := p.terms[i].cell.Cmp(o.terms[j].cell); {
			case c < 0:
				terms = append(terms, p.terms[i])
				i++
			case c > 0:
				terms = append(terms, o.terms[j])
				j++
			default:
				coeff := addExprs(p.terms[i].coefficient, o.terms[j].coefficient)
				bound := p.terms[i].bound.Conjunction(o.terms[j].bound)
				// Drop terms which cancelled out
				if !knownZero(coeff) {
					terms = append(terms, affineTerm[F]{p.terms[i].cell, coeff, bound})
				}
				//
				i++
				j++
			}
		}
	}
	//
	return &AffineExpression[F]{terms, addExprs(p.offset, o.offset)}
}

// Neg negates this expression.
func (p *AffineExpression[F]) Neg() *AffineExpression[F] {
	terms := make([]affineTerm[F], len(p.terms))
	//
	for i, t := range p.terms {
		terms[i] = affineTerm[F]{t.cell, negExpr(t.coefficient), t.bound}
	}
	//
	return &AffineExpression[F]{terms, negExpr(p.offset)}
}

// Sub subtracts another expression from this one.
func (p *AffineExpression[F]) Sub(o *AffineExpression[F]) *AffineExpression[F] {
	return p.Add(o.Neg())
}

// TryMul multiplies this expression with another.  This succeeds only if at
// least one operand is fully known, since a product of two genuine unknowns is
// no longer affine.
func (p *AffineExpression[F]) TryMul(o *AffineExpression[F]) util.Option[*AffineExpression[F]] {
	if k := o.TryToKnown(); k.HasValue() {
		return util.Some(p.scale(k.Unwrap()))
	} else if k := p.TryToKnown(); k.HasValue() {
		return util.Some(o.scale(k.Unwrap()))
	}
	//
	return util.None[*AffineExpression[F]]()
}

// scale multiplies this expression by a known factor.
func (p *AffineExpression[F]) scale(factor SymbolicExpression[F]) *AffineExpression[F] {
	if knownZero(factor) {
		return FromConstant(field.Zero[F]())
	}
	//
	terms := make([]affineTerm[F], len(p.terms))
	//
	for i, t := range p.terms {
		terms[i] = affineTerm[F]{t.cell, mulExprs(t.coefficient, factor), t.bound}
	}
	//
	return &AffineExpression[F]{terms, mulExprs(p.offset, factor)}
}

// Solve interprets this expression as the equation "expression = 0" and
// attempts to derive effects which determine its unknowns:
//
//   - with no unknowns, the offset is either provably zero (nothing to do) or
//     becomes a runtime assertion, since the constraint may be conditionally
//     active and never actually triggered for real inputs;
//   - with a single unknown, the unknown is assigned -offset/coefficient;
//   - with several unknowns, a bit decomposition is attempted, falling back to
//     transferring range constraints between the terms.
func (p *AffineExpression[F]) Solve() ProcessResult[F] {
	switch len(p.terms) {
	case 0:
		if knownZero(p.offset) {
			return CompleteResult[F]()
		}
		//
		return CompleteResult[F](AssertZero(p.offset))
	case 1:
		var (
			term    = p.terms[0]
			effects []Effect[F]
		)
		// Guard against a coefficient which could be zero at runtime.
		if !knownNonZero(term.coefficient) {
			effects = append(effects, AssertNonZero(term.coefficient))
		}
		//
		value := divExprs(negExpr(p.offset), term.coefficient)
		effects = append(effects, &Assignment[F]{term.cell, value})
		//
		return CompleteResult(effects...)
	default:
		if r := p.solveBitDecomposition(); r.HasValue() {
			return r.Unwrap()
		}
		//
		return ProcessResult[F]{p.transferConstraints(), false}
	}
}

// solveBitDecomposition attempts to solve an equation whose unknowns occupy
// pairwise disjoint bit ranges of a known value, e.g. byte limbs packed into a
// word via power-of-two coefficients.  Each unknown is then extracted by
// masking and shifting, with a final assertion that no stray bits remain.
func (p *AffineExpression[F]) solveBitDecomposition() util.Option[ProcessResult[F]] {
	type piece struct {
		cell  Cell
		coeff F
		mask  *big.Int
	}
	//
	var (
		modulus  = field.Zero[F]().Modulus()
		covered  = big.NewInt(0)
		negative bool
		pieces   = make([]piece, len(p.terms))
	)
	//
	for i, term := range p.terms {
		c := term.coefficient.Constant()
		// All coefficients must be concrete.
		if c.IsEmpty() {
			return util.None[ProcessResult[F]]()
		}
		// All coefficients must agree in sign, otherwise the equation is not a
		// plain bit packing.
		neg := isNegative(c.Unwrap())
		//
		if i == 0 {
			negative = neg
		} else if neg != negative {
			return util.None[ProcessResult[F]]()
		}
		//
		abs := c.Unwrap()
		if neg {
			abs = abs.Neg()
		}
		// Scaled masks must be pairwise disjoint.
		mask := term.bound.Multiple(abs).Mask()
		//
		if !disjoint(mask, covered) {
			return util.None[ProcessResult[F]]()
		}
		//
		covered = new(big.Int).Or(covered, mask)
		pieces[i] = piece{term.cell, abs, mask}
	}
	// Combined masks must fit the field.
	if covered.Cmp(modulus) >= 0 {
		return util.None[ProcessResult[F]]()
	}
	// Rearrange to Σ |coeffᵢ|·cellᵢ = target.
	target := p.offset
	//
	if !negative {
		target = negExpr(p.offset)
	}
	//
	var effects []Effect[F]
	//
	for _, piece := range pieces {
		value := intDivExprs(bitAndExprs(target, field.BigInt[F](piece.mask)), piece.coeff)
		effects = append(effects, &Assignment[F]{piece.cell, value})
	}
	// Any bit of the target outside the covered range is a conflict.
	effects = append(effects, &Assertion[F]{
		target, bitAndExprs(target, field.BigInt[F](covered)), true,
	})
	//
	return util.Some(CompleteResult(effects...))
}

// transferConstraints bounds unknowns appearing with coefficient ±1 by the
// combined ranges of the remaining terms and the offset.  This never completes
// an identity by itself, but the refinements it produces can unlock bit
// decompositions (or collapse cells outright) on later passes.
func (p *AffineExpression[F]) transferConstraints() []Effect[F] {
	var (
		one     = field.One[F]()
		negOne  = one.Neg()
		effects []Effect[F]
	)
	//
outer:
	for i, term := range p.terms {
		c := term.coefficient.Constant()
		//
		if c.IsEmpty() || (c.Unwrap().Cmp(one) != 0 && c.Unwrap().Cmp(negOne) != 0) {
			continue
		}
		// cellᵢ = ∓(offset + Σⱼ≠ᵢ coeffⱼ·cellⱼ)
		acc := p.offset.Bound()
		//
		if acc.IsEmpty() {
			continue
		}
		//
		bound := acc.Unwrap()
		//
		for j, other := range p.terms {
			if i == j {
				continue
			}
			//
			cj := other.coefficient.Constant()
			//
			if cj.IsEmpty() {
				continue outer
			}
			//
			bound = bound.Add(scaledBound(other.bound, cj.Unwrap()))
		}
		//
		if c.Unwrap().Cmp(one) == 0 {
			bound = bound.Neg()
		}
		//
		if !bound.IsUnconstrained() {
			effects = append(effects, &RangeRefinement[F]{term.cell, bound})
		}
	}
	//
	return effects
}

func (p *AffineExpression[F]) String() string {
	var parts []string
	//
	if len(p.terms) == 0 || !knownZero(p.offset) {
		parts = append(parts, p.offset.String())
	}
	//
	for _, t := range p.terms {
		if c := t.coefficient.Constant(); c.HasValue() && c.Unwrap().IsOne() {
			parts = append(parts, t.cell.String())
		} else {
			parts = append(parts, t.coefficient.String()+" * "+t.cell.String())
		}
	}
	//
	if len(parts) == 1 {
		return parts[0]
	}
	//
	return "(" + strings.Join(parts, " + ") + ")"
}
