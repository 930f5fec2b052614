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
package goldilocks

import (
	"math/big"

	"github.com/consensys/gnark-crypto/field/goldilocks"
)

// Element wraps goldilocks.Element to conform to the field.Element interface.
// The Goldilocks field (p = 2⁶⁴ - 2³² + 1) is the natural choice for witness
// generation, since trace cells are 64-bit machine words.
type Element struct {
	goldilocks.Element
}

// New constructs an element from a given uint64.
func New(val uint64) Element {
	return Element{goldilocks.NewElement(val)}
}

// Add x + y
func (x Element) Add(y Element) Element {
	var res goldilocks.Element
	//
	res.Add(&x.Element, &y.Element)
	//
	return Element{res}
}

// Sub x - y
func (x Element) Sub(y Element) Element {
	var res goldilocks.Element
	//
	res.Sub(&x.Element, &y.Element)
	//
	return Element{res}
}

// Mul x * y
func (x Element) Mul(y Element) Element {
	var res goldilocks.Element
	//
	res.Mul(&x.Element, &y.Element)
	//
	return Element{res}
}

// Neg -x
func (x Element) Neg() Element {
	var res goldilocks.Element
	//
	res.Neg(&x.Element)
	//
	return Element{res}
}

// Inverse x⁻¹, or 0 if x = 0.
func (x Element) Inverse() Element {
	var res goldilocks.Element
	//
	res.Inverse(&x.Element)
	//
	return Element{res}
}

// Cmp returns 1 if x > y, 0 if x = y, and -1 if x < y.
func (x Element) Cmp(y Element) int {
	return x.Element.Cmp(&y.Element)
}

// IsZero implementation for the Element interface.
func (x Element) IsZero() bool {
	return x.Element.IsZero()
}

// IsOne implementation for the Element interface.
func (x Element) IsOne() bool {
	return x.Element.IsOne()
}

// Modulus implementation for the Element interface.
func (x Element) Modulus() *big.Int {
	return goldilocks.Modulus()
}

// SetUint64 implementation for the Element interface.
func (x Element) SetUint64(val uint64) Element {
	x.Element.SetUint64(val)
	//
	return x
}

// SetBytes implementation for the Element interface.
func (x Element) SetBytes(bytes []byte) Element {
	x.Element.SetBytes(bytes)
	//
	return x
}

// Bytes returns the big-endian encoded value of the Element, possibly with
// leading zeros.
func (x Element) Bytes() []byte {
	return x.Marshal()
}

func (x Element) String() string {
	return x.Element.String()
}

// Text implementation for the Element interface.
func (x Element) Text(base int) string {
	return x.Element.Text(base)
}
