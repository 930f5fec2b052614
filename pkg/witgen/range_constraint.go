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

// RangeConstraint is a sound over-approximation of the set of values a cell
// may take: an inclusive interval [min, max] together with a bitmask covering
// all bits which may be set.  The interval is permitted to wrap, i.e. min >
// max denotes the values passing through zero ({x | x >= min} ∪ {x | x <=
// max}).  Every operation preserves soundness: no satisfying value is ever
// excluded, at the cost of precision.
type RangeConstraint[F field.Element[F]] struct {
	// Minimum value (inclusive).
	min F
	// Maximum value (inclusive).
	max F
	// Bitmask covering all bits which may be set.
	mask *big.Int
}

// NewUnconstrained constructs the constraint permitting every field value.
func NewUnconstrained[F field.Element[F]]() RangeConstraint[F] {
	var (
		modulus = field.Zero[F]().Modulus()
		max     = field.BigInt[F](new(big.Int).Sub(modulus, big.NewInt(1)))
	)
	//
	return RangeConstraint[F]{field.Zero[F](), max, allOnes(uint(modulus.BitLen()))}
}

// NewValueConstraint constructs the constraint permitting exactly one value.
func NewValueConstraint[F field.Element[F]](val F) RangeConstraint[F] {
	return RangeConstraint[F]{val, val, field.ToBigInt(val)}
}

// NewMaskConstraint constructs the constraint permitting all values whose bits
// fall within the given mask (e.g. 0xff for a byte column).
func NewMaskConstraint[F field.Element[F]](mask *big.Int) RangeConstraint[F] {
	var (
		modulus = field.Zero[F]().Modulus()
		max     F
	)
	// Clamp mask to the field
	mask = new(big.Int).Set(mask)
	//
	if mask.Cmp(modulus) < 0 {
		max = field.BigInt[F](mask)
	} else {
		max = field.BigInt[F](new(big.Int).Sub(modulus, big.NewInt(1)))
	}
	//
	return RangeConstraint[F]{field.Zero[F](), max, mask}
}

// NewMaskConstraint64 constructs a mask constraint from a uint64 mask.
func NewMaskConstraint64[F field.Element[F]](mask uint64) RangeConstraint[F] {
	return NewMaskConstraint[F](new(big.Int).SetUint64(mask))
}

// NewIntervalConstraint constructs the constraint permitting all values in the
// inclusive interval [min, max].
func NewIntervalConstraint[F field.Element[F]](min F, max F) RangeConstraint[F] {
	var mask *big.Int
	//
	if min.Cmp(max) <= 0 {
		mask = allOnes(uint(field.ToBigInt(max).BitLen()))
	} else {
		mask = allOnes(uint(field.Zero[F]().Modulus().BitLen()))
	}
	//
	return RangeConstraint[F]{min, max, mask}
}

// Wraps checks whether the interval of this constraint wraps through zero.
func (p RangeConstraint[F]) Wraps() bool {
	return p.min.Cmp(p.max) > 0
}

// MinValue returns the minimum value this constraint permits.
func (p RangeConstraint[F]) MinValue() F {
	return p.min
}

// MaxValue returns the maximum value this constraint permits.
func (p RangeConstraint[F]) MaxValue() F {
	return p.max
}

// Mask returns the bitmask covering all bits which may be set.
func (p RangeConstraint[F]) Mask() *big.Int {
	return p.mask
}

// SingleValue returns the sole remaining candidate value, if the constraint
// has collapsed to exactly one.
func (p RangeConstraint[F]) SingleValue() util.Option[F] {
	if p.min.Cmp(p.max) == 0 {
		return util.Some(p.min)
	}
	//
	return util.None[F]()
}

// IsUnconstrained checks whether this constraint permits every field value.
func (p RangeConstraint[F]) IsUnconstrained() bool {
	var (
		modulus = p.min.Modulus()
		width   = field.ToBigInt(p.max.Sub(p.min))
	)
	// Width p-1 means the interval covers the whole field.
	return width.Cmp(new(big.Int).Sub(modulus, big.NewInt(1))) >= 0
}

// Equals checks whether two constraints are structurally identical.
func (p RangeConstraint[F]) Equals(o RangeConstraint[F]) bool {
	return p.min.Cmp(o.min) == 0 && p.max.Cmp(o.max) == 0 && p.mask.Cmp(o.mask) == 0
}

// Conjunction intersects this constraint with another, i.e. it returns a
// constraint permitting (at least) all values permitted by both.  Observe that
// a provably empty intersection is retained as a wrapping interval which never
// collapses to a single value, rather than being surfaced as a contradiction.
func (p RangeConstraint[F]) Conjunction(o RangeConstraint[F]) RangeConstraint[F] {
	var (
		mask     = new(big.Int).And(p.mask, o.mask)
		min, max F
	)
	//
	switch {
	case !p.Wraps() && !o.Wraps():
		min = maxElement(p.min, o.min)
		max = minElement(p.max, o.max)
	case p.Wraps() && !o.Wraps():
		// Sound, since the intersection is contained in either operand.
		min, max = o.min, o.max
	default:
		min, max = p.min, p.max
	}
	//
	return RangeConstraint[F]{min, max, mask}.normalise()
}

// Multiple scales this constraint by a known (positive) coefficient, yielding
// a constraint on coeff * value.  When scaling would overflow the field, the
// result degrades to unconstrained.
func (p RangeConstraint[F]) Multiple(factor F) RangeConstraint[F] {
	var (
		modulus = factor.Modulus()
		fb      = field.ToBigInt(factor)
	)
	//
	if factor.IsZero() {
		return NewValueConstraint(field.Zero[F]())
	} else if p.Wraps() {
		return NewUnconstrained[F]()
	}
	// Check for overflow
	prod := new(big.Int).Mul(field.ToBigInt(p.max), fb)
	//
	if prod.Cmp(modulus) >= 0 {
		return NewUnconstrained[F]()
	}
	// Scale mask, either exactly (power of two) or approximately.
	var mask *big.Int
	//
	if isPowerOfTwo(fb) {
		mask = new(big.Int).Lsh(p.mask, fb.TrailingZeroBits())
	} else {
		mask = allOnes(uint(prod.BitLen()))
	}
	//
	return RangeConstraint[F]{p.min.Mul(factor), p.max.Mul(factor), mask}
}

// Add combines this constraint with another under addition, yielding a
// constraint on the sum of two values drawn from each.  Wrapping intervals are
// supported, provided the combined width still fits the field.
func (p RangeConstraint[F]) Add(o RangeConstraint[F]) RangeConstraint[F] {
	var (
		modulus = p.min.Modulus()
		width   = new(big.Int).Add(p.width(), o.width())
	)
	// Combined width must leave the sum unambiguous.
	if width.Cmp(new(big.Int).Sub(modulus, big.NewInt(1))) >= 0 {
		return NewUnconstrained[F]()
	}
	//
	result := RangeConstraint[F]{p.min.Add(o.min), p.max.Add(o.max), nil}
	//
	switch {
	case result.Wraps():
		result.mask = allOnes(uint(modulus.BitLen()))
	case !p.Wraps() && !o.Wraps() && disjoint(p.mask, o.mask):
		// No carries possible, provided the integer sum cannot overflow the
		// field; the width check above ensures exactly that here.
		result.mask = new(big.Int).Or(p.mask, o.mask)
	default:
		result.mask = allOnes(uint(field.ToBigInt(result.max).BitLen()))
	}
	//
	return result
}

// Neg negates this constraint, yielding a constraint on -value.
func (p RangeConstraint[F]) Neg() RangeConstraint[F] {
	result := RangeConstraint[F]{p.max.Neg(), p.min.Neg(), nil}
	//
	if result.Wraps() {
		result.mask = allOnes(uint(p.min.Modulus().BitLen()))
	} else {
		result.mask = allOnes(uint(field.ToBigInt(result.max).BitLen()))
	}
	//
	return result
}

func (p RangeConstraint[F]) String() string {
	return fmt.Sprintf("[%s..%s]&0x%s", p.min.String(), p.max.String(), p.mask.Text(16))
}

// width returns the size of the interval as max - min (field subtraction, so
// wrapping intervals are handled uniformly).
func (p RangeConstraint[F]) width() *big.Int {
	return field.ToBigInt(p.max.Sub(p.min))
}

// normalise tightens interval and mask against each other.  A value whose bits
// fall within the mask cannot exceed the mask; conversely, a value bounded by
// max cannot set bits above those of max.
func (p RangeConstraint[F]) normalise() RangeConstraint[F] {
	if !p.Wraps() {
		maxb := field.ToBigInt(p.max)
		// Mask bounds the value from above.
		if p.mask.Cmp(maxb) < 0 {
			p.max = field.BigInt[F](p.mask)
			maxb = p.mask
		}
		// Value bound limits the settable bits.
		p.mask = new(big.Int).And(p.mask, allOnes(uint(maxb.BitLen())))
	}
	//
	return p
}

func maxElement[F field.Element[F]](x F, y F) F {
	if x.Cmp(y) >= 0 {
		return x
	}
	//
	return y
}

func minElement[F field.Element[F]](x F, y F) F {
	if x.Cmp(y) <= 0 {
		return x
	}
	//
	return y
}

// allOnes returns the mask with the n least significant bits set.
func allOnes(n uint) *big.Int {
	mask := new(big.Int).Lsh(big.NewInt(1), n)
	//
	return mask.Sub(mask, big.NewInt(1))
}

func isPowerOfTwo(val *big.Int) bool {
	if val.Sign() <= 0 {
		return false
	}
	//
	tmp := new(big.Int).Sub(val, big.NewInt(1))
	//
	return tmp.And(tmp, val).Sign() == 0
}

func disjoint(x *big.Int, y *big.Int) bool {
	return new(big.Int).And(x, y).Sign() == 0
}
