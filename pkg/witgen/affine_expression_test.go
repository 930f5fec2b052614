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
	"testing"

	"github.com/consensys/go-witgen/pkg/util"
	"github.com/consensys/go-witgen/pkg/util/field/goldilocks"
)

func Test_Affine_01(t *testing.T) {
	expr := FromConstant(goldilocks.New(42))
	//
	if k := expr.TryToKnown(); k.IsEmpty() || k.Unwrap().Constant().Unwrap().Cmp(goldilocks.New(42)) != 0 {
		t.Error("expected known constant 42")
	}
	//
	if expr.SingleUnknownVariable().HasValue() {
		t.Error("constant has no unknowns")
	}
}

func Test_Affine_02(t *testing.T) {
	var (
		x    = Cell{0, "X", 0}
		expr = unknown(x)
	)
	//
	if expr.TryToKnown().HasValue() {
		t.Error("unknown cell is not known")
	}
	//
	if v := expr.SingleUnknownVariable(); v.IsEmpty() || !v.Unwrap().Equals(x) {
		t.Error("expected single unknown X")
	}
}

func Test_Affine_03(t *testing.T) {
	x := Cell{0, "X", 0}
	// X - X cancels out entirely
	expr := unknown(x).Sub(unknown(x))
	//
	if k := expr.TryToKnown(); k.IsEmpty() || !k.Unwrap().Constant().Unwrap().IsZero() {
		t.Error("expected known zero")
	}
}

func Test_Affine_04(t *testing.T) {
	var (
		x = Cell{0, "X", 0}
		y = Cell{1, "Y", 0}
	)
	// Product of two unknowns is not affine
	if unknown(x).TryMul(unknown(y)).HasValue() {
		t.Error("expected multiplication to fail")
	}
	// Scaling by a constant is fine
	scaled := unknown(x).TryMul(FromConstant(goldilocks.New(3)))
	//
	if scaled.IsEmpty() {
		t.Error("expected multiplication to succeed")
	} else if scaled.Unwrap().String() != "3 * X[0]" {
		t.Errorf("unexpected result %s", scaled.Unwrap())
	}
}

func Test_Affine_05(t *testing.T) {
	result := FromConstant(goldilocks.New(0)).Solve()
	//
	if !result.Complete || len(result.Effects) != 0 {
		t.Error("0 = 0 should solve trivially")
	}
}

func Test_Affine_06(t *testing.T) {
	result := FromConstant(goldilocks.New(5)).Solve()
	//
	checkEffects(t, result, true, "assert 5 == 0;")
}

func Test_Affine_07(t *testing.T) {
	var (
		x    = Cell{0, "X", 0}
		one  = FromConstant(goldilocks.New(1))
		expr = unknown(x).Sub(one)
	)
	//
	checkEffects(t, expr.Solve(), true, "X[0] = 1;")
}

func Test_Affine_08(t *testing.T) {
	var (
		x    = Cell{0, "X", 0}
		expr = unknown(x).
			TryMul(FromConstant(goldilocks.New(2))).Unwrap().
			Sub(FromConstant(goldilocks.New(11)))
	)
	// 2X - 11 = 0, hence X = 11/2
	checkEffects(t, expr.Solve(), true, "X[0] = 9223372034707292166;")
}

func Test_Affine_09(t *testing.T) {
	var (
		x = Cell{0, "X", 0}
		y = Cell{1, "Y", 0}
		// Y is known but has no concrete value yet.
		coeff = FromKnown(NewKnownSymbol[goldilocks.Element](y, util.None[RangeConstraint[goldilocks.Element]]()))
		expr  = unknown(x).TryMul(coeff).Unwrap().Sub(FromConstant(goldilocks.New(3)))
	)
	// Y * X - 3 = 0 requires a runtime non-zero check on Y
	checkEffects(t, expr.Solve(), true,
		"assert Y[0] != 0;",
		"X[0] = (3 / Y[0]);")
}

func Test_Affine_10(t *testing.T) {
	var (
		lo   = byteUnknown(Cell{0, "A0", 0})
		hi   = byteUnknown(Cell{1, "A1", 0})
		expr = lo.
			Add(hi.TryMul(FromConstant(goldilocks.New(256))).Unwrap()).
			Sub(FromConstant(goldilocks.New(0x1234)))
	)
	// A0 + 256*A1 - 4660 = 0 decomposes into byte limbs
	checkEffects(t, expr.Solve(), true,
		"A0[0] = 52;",
		"A1[0] = 18;",
		"assert 4660 == 4660;")
}

func Test_Affine_11(t *testing.T) {
	var (
		x    = byteUnknown(Cell{0, "X", 0})
		y    = byteUnknown(Cell{1, "Y", 0})
		expr = x.Add(y).Sub(FromConstant(goldilocks.New(5)))
	)
	// X + Y - 5 = 0 with overlapping byte masks cannot decompose, but both
	// unknowns pick up transferred bounds.
	result := expr.Solve()
	//
	if result.Complete {
		t.Error("expected incomplete result")
	}
	//
	if len(result.Effects) != 2 {
		t.Fatalf("expected 2 refinements, got %d", len(result.Effects))
	}
	//
	for _, e := range result.Effects {
		if _, ok := e.(*RangeRefinement[goldilocks.Element]); !ok {
			t.Errorf("unexpected effect %s", e)
		}
	}
}

func Test_Affine_12(t *testing.T) {
	var (
		x = Cell{0, "X", 0}
		y = Cell{1, "Y", 0}
		// No bounds at all, hence nothing can be transferred.
		expr = unknown(x).Add(unknown(y)).Sub(FromConstant(goldilocks.New(5)))
	)
	//
	result := expr.Solve()
	//
	if result.Complete || len(result.Effects) != 0 {
		t.Error("expected incomplete result with no effects")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func unknown(cell Cell) *AffineExpression[goldilocks.Element] {
	return FromUnknown(cell, util.None[RangeConstraint[goldilocks.Element]]())
}

func byteUnknown(cell Cell) *AffineExpression[goldilocks.Element] {
	return FromUnknown(cell, util.Some(NewMaskConstraint64[goldilocks.Element](0xff)))
}

func checkEffects(t *testing.T, result ProcessResult[goldilocks.Element], complete bool, expected ...string) {
	t.Helper()
	//
	if result.Complete != complete {
		t.Errorf("expected complete=%t", complete)
	}
	//
	if len(result.Effects) != len(expected) {
		t.Fatalf("expected %d effects, got %d", len(expected), len(result.Effects))
	}
	//
	for i, e := range result.Effects {
		if e.String() != expected[i] {
			t.Errorf("expected %q, got %q", expected[i], e.String())
		}
	}
}
