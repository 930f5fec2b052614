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
	"math/big"
	"testing"

	"github.com/consensys/go-witgen/pkg/util/field/bls12_377"
	"github.com/consensys/go-witgen/pkg/util/field/goldilocks"
)

func Test_Element_01(t *testing.T) {
	checkArithmetic[goldilocks.Element](t)
}

func Test_Element_02(t *testing.T) {
	checkArithmetic[bls12_377.Element](t)
}

func Test_Element_03(t *testing.T) {
	checkBytesRoundTrip[goldilocks.Element](t)
}

func Test_Element_04(t *testing.T) {
	checkBytesRoundTrip[bls12_377.Element](t)
}

func Test_Element_05(t *testing.T) {
	// Goldilocks modulus is 2^64 - 2^32 + 1
	var (
		expected, _ = new(big.Int).SetString("18446744069414584321", 10)
		modulus     = Zero[goldilocks.Element]().Modulus()
	)
	//
	if modulus.Cmp(expected) != 0 {
		t.Errorf("unexpected modulus %s", modulus)
	}
}

func Test_Element_06(t *testing.T) {
	checkPow[goldilocks.Element](t)
}

func Test_Element_07(t *testing.T) {
	checkPow[bls12_377.Element](t)
}

func Test_Element_08(t *testing.T) {
	// -1 + 1 wraps around to zero
	var (
		minusOne = One[goldilocks.Element]().Neg()
		sum      = minusOne.Add(One[goldilocks.Element]())
	)
	//
	if !sum.IsZero() {
		t.Error("expected -1 + 1 = 0")
	}
	// -1 is the largest element
	if ToBigInt(minusOne).Cmp(new(big.Int).Sub(minusOne.Modulus(), big.NewInt(1))) != 0 {
		t.Error("expected -1 = p - 1")
	}
}

func Test_Element_09(t *testing.T) {
	if TwoPowN[goldilocks.Element](10).Cmp(Uint64[goldilocks.Element](1024)) != 0 {
		t.Error("expected 2^10 = 1024")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkArithmetic[F Element[F]](t *testing.T) {
	var (
		x = Uint64[F](1234)
		y = Uint64[F](56)
	)
	//
	if x.Add(y).Cmp(Uint64[F](1290)) != 0 {
		t.Error("addition failed")
	}
	//
	if x.Sub(y).Cmp(Uint64[F](1178)) != 0 {
		t.Error("subtraction failed")
	}
	//
	if x.Mul(y).Cmp(Uint64[F](69104)) != 0 {
		t.Error("multiplication failed")
	}
	//
	if x.Neg().Add(x).Cmp(Zero[F]()) != 0 {
		t.Error("negation failed")
	}
	//
	if x.Mul(x.Inverse()).Cmp(One[F]()) != 0 {
		t.Error("inversion failed")
	}
	//
	if Zero[F]().IsOne() || !One[F]().IsOne() || !Zero[F]().IsZero() {
		t.Error("zero/one checks failed")
	}
}

func checkBytesRoundTrip[F Element[F]](t *testing.T) {
	for _, n := range []uint64{0, 1, 255, 256, 0xdeadbeef} {
		var (
			x    = Uint64[F](n)
			back F
		)
		//
		back = back.SetBytes(x.Bytes())
		//
		if back.Cmp(x) != 0 {
			t.Errorf("round trip failed for %d", n)
		}
		//
		if ToBigInt(x).Uint64() != n {
			t.Errorf("big int conversion failed for %d", n)
		}
	}
}

func checkPow[F Element[F]](t *testing.T) {
	for base := uint64(1); base < 10; base++ {
		var (
			b        = Uint64[F](base)
			expected = One[F]()
		)
		//
		for n := uint64(0); n < 16; n++ {
			if Pow(b, n).Cmp(expected) != 0 {
				t.Errorf("pow(%d, %d) failed", base, n)
			}
			//
			expected = expected.Mul(b)
		}
	}
}
