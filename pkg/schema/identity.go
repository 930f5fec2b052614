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
	"github.com/consensys/go-witgen/pkg/util"
	"github.com/consensys/go-witgen/pkg/util/field"
)

// Identity represents a single declared constraint which must hold on every
// row it applies to.  The set of identity kinds is closed: polynomial
// equalities, the lookup family (lookups and permutations, phantom or
// otherwise), bus interactions and connection constraints.
type Identity[F field.Element[F]] interface {
	// Id returns the unique identifier of this identity.
	Id() uint
}

// Polynomial represents a polynomial identity, i.e. a constraint of the form
// "expression = 0" which must hold on every row.
type Polynomial[F field.Element[F]] struct {
	// Unique identifier for this identity.
	ID uint
	// Expression which must evaluate to zero.
	Expr Expr[F]
}

// Id implementation for the Identity interface.
func (p *Polynomial[F]) Id() uint { return p.ID }

// LookupKind distinguishes the members of the lookup family.  All four kinds
// share the same structure (two selected vectors of expressions) and, from the
// perspective of witness generation, the same resolution rule.
type LookupKind uint8

const (
	// LOOKUP requires all source rows to match some target row.
	LOOKUP LookupKind = iota
	// PERMUTATION requires source and target rows to be permutations of each
	// other.
	PERMUTATION
	// PHANTOM_LOOKUP is a lookup materialised via helper columns.
	PHANTOM_LOOKUP
	// PHANTOM_PERMUTATION is a permutation materialised via helper columns.
	PHANTOM_PERMUTATION
)

// Selected represents one side of a lookup-family identity: a vector of term
// expressions, optionally gated by a selector expression.  An absent selector
// means the side is unconditionally active (i.e. behaves as the constant one).
type Selected[F field.Element[F]] struct {
	// Selector gating this side (optional).
	Selector util.Option[Expr[F]]
	// Terms making up this side.
	Terms []Expr[F]
}

// Unfiltered constructs a lookup side which has no selector.
func Unfiltered[F field.Element[F]](terms ...Expr[F]) Selected[F] {
	return Selected[F]{util.None[Expr[F]](), terms}
}

// Filtered constructs a lookup side gated by a given selector.
func Filtered[F field.Element[F]](selector Expr[F], terms ...Expr[F]) Selected[F] {
	return Selected[F]{util.Some(selector), terms}
}

// Lookup represents a member of the lookup family: source terms (Left) which
// must be answered by the target relation (Right).
type Lookup[F field.Element[F]] struct {
	// Unique identifier for this identity.
	ID uint
	// Kind of this identity.
	Kind LookupKind
	// Left (source) side of the relation.
	Left Selected[F]
	// Right (target) side of the relation.
	Right Selected[F]
}

// Id implementation for the Identity interface.
func (p *Lookup[F]) Id() uint { return p.ID }

// BusInteraction represents a composite bus constraint.  Witness generation
// has no notion (yet) of whether a bus interaction can be answered, hence
// these are never resolved.
type BusInteraction[F field.Element[F]] struct {
	// Unique identifier for this identity.
	ID uint
}

// Id implementation for the Identity interface.
func (p *BusInteraction[F]) Id() uint { return p.ID }

// Connect represents a raw connection (copy) constraint.  These are never
// resolved during witness generation.
type Connect[F field.Element[F]] struct {
	// Unique identifier for this identity.
	ID uint
}

// Id implementation for the Identity interface.
func (p *Connect[F]) Id() uint { return p.ID }
