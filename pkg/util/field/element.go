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
package field

import (
	"fmt"
	"math/big"
)

// An Element of a prime-order field.  Implementations are expected to be thin
// wrappers around a concrete backend (e.g. gnark-crypto), such that the zero
// value of the implementing type represents the field element zero.
type Element[F any] interface {
	fmt.Stringer
	// Add x + y
	Add(y F) F
	// Sub x - y
	Sub(y F) F
	// Mul x * y
	Mul(y F) F
	// Neg -x
	Neg() F
	// Inverse x⁻¹, or 0 if x = 0.
	Inverse() F
	// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
	Cmp(y F) int
	// Check whether this value is zero (or not).
	IsZero() bool
	// Check whether this value is one (or not).
	IsOne() bool
	// Return the modulus for the field in question.
	Modulus() *big.Int
	// SetUint64 constructs the field element for a given uint64.
	SetUint64(uint64) F
	// SetBytes constructs a field element from bytes in big endian order.
	SetBytes([]byte) F
	// Bytes returns the value of x in big endian order.
	Bytes() []byte
	// Text returns the numerical value of x in the given base.
	Text(base int) string
}

// Zero constructs a field element representing 0.
func Zero[F Element[F]]() F {
	var element F
	//
	return element
}

// One constructs a field element representing 1.
func One[F Element[F]]() F {
	var element F
	//
	return element.SetUint64(1)
}

// Uint64 constructs a field element from a given uint64.
func Uint64[F Element[F]](val uint64) F {
	var element F
	//
	return element.SetUint64(val)
}

// BigInt constructs a field element from a given big.Int, which must be
// non-negative and less than the modulus.
func BigInt[F Element[F]](val *big.Int) F {
	var element F
	// Handle negative values
	if val.Sign() < 0 {
		panic("negative value encountered")
	}
	//
	return element.SetBytes(val.Bytes())
}

// ToBigInt returns the numerical value of a field element as a big.Int.
func ToBigInt[F Element[F]](val F) *big.Int {
	return new(big.Int).SetBytes(val.Bytes())
}

// TwoPowN constructs a field element representing 2^n.
func TwoPowN[F Element[F]](n uint) F {
	var two F
	//
	return Pow(two.SetUint64(2), uint64(n))
}

// Pow takes a given value to the power n.
func Pow[F Element[F]](val F, n uint64) F {
	if n == 0 {
		val = val.SetUint64(1)
	} else if n > 1 {
		m := n / 2
		// Check for odd case
		if n%2 == 1 {
			tmp := val
			val = Pow(val, m)
			val = val.Mul(val).Mul(tmp)
		} else {
			// Even case is easy
			val = Pow(val, m)
			val = val.Mul(val)
		}
	}
	//
	return val
}
