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

	"github.com/consensys/go-witgen/pkg/util/field/goldilocks"
)

func Test_RangeConstraint_01(t *testing.T) {
	rc := NewValueConstraint(goldilocks.New(42))
	//
	if v := rc.SingleValue(); !v.HasValue() || v.Unwrap().Cmp(goldilocks.New(42)) != 0 {
		t.Error("expected single value 42")
	}
	//
	if rc.Wraps() {
		t.Error("value constraint should not wrap")
	}
}

func Test_RangeConstraint_02(t *testing.T) {
	rc := NewMaskConstraint64[goldilocks.Element](0xff)
	//
	checkInterval(t, rc, 0, 255)
	//
	if rc.Mask().Uint64() != 0xff {
		t.Errorf("unexpected mask 0x%x", rc.Mask().Uint64())
	}
	//
	if rc.SingleValue().HasValue() {
		t.Error("byte constraint should not collapse")
	}
}

func Test_RangeConstraint_03(t *testing.T) {
	rc := NewIntervalConstraint(goldilocks.New(10), goldilocks.New(300))
	//
	checkInterval(t, rc, 10, 300)
	// Mask covers all bits of 300
	if rc.Mask().Uint64() != 511 {
		t.Errorf("unexpected mask 0x%x", rc.Mask().Uint64())
	}
}

func Test_RangeConstraint_04(t *testing.T) {
	// [p-5 .. 5] passes through zero
	rc := NewIntervalConstraint(goldilocks.New(5).Neg(), goldilocks.New(5))
	//
	if !rc.Wraps() {
		t.Error("interval should wrap")
	}
	//
	if rc.SingleValue().HasValue() {
		t.Error("wrapping interval should not collapse")
	}
}

func Test_RangeConstraint_05(t *testing.T) {
	lhs := NewIntervalConstraint(goldilocks.New(10), goldilocks.New(100))
	rhs := NewIntervalConstraint(goldilocks.New(50), goldilocks.New(200))
	//
	checkInterval(t, lhs.Conjunction(rhs), 50, 100)
}

func Test_RangeConstraint_06(t *testing.T) {
	lhs := NewIntervalConstraint(goldilocks.New(0), goldilocks.New(300))
	rhs := NewMaskConstraint64[goldilocks.Element](0xff)
	rc := lhs.Conjunction(rhs)
	// Mask caps the interval
	checkInterval(t, rc, 0, 255)
	//
	if rc.Mask().Uint64() != 0xff {
		t.Errorf("unexpected mask 0x%x", rc.Mask().Uint64())
	}
}

func Test_RangeConstraint_07(t *testing.T) {
	wrapping := NewIntervalConstraint(goldilocks.New(5).Neg(), goldilocks.New(5))
	interval := NewIntervalConstraint(goldilocks.New(0), goldilocks.New(255))
	// Intersection must stay within the non-wrapping operand
	lr := wrapping.Conjunction(interval)
	rl := interval.Conjunction(wrapping)
	//
	checkInterval(t, lr, 0, 255)
	checkInterval(t, rl, 0, 255)
}

func Test_RangeConstraint_08(t *testing.T) {
	lhs := NewIntervalConstraint(goldilocks.New(10), goldilocks.New(20))
	rhs := NewIntervalConstraint(goldilocks.New(30), goldilocks.New(40))
	// Provably empty intersection is retained as a wrapping interval.
	rc := lhs.Conjunction(rhs)
	//
	if !rc.Wraps() {
		t.Error("empty intersection should wrap")
	}
	//
	if rc.SingleValue().HasValue() {
		t.Error("empty intersection must never collapse to a value")
	}
}

func Test_RangeConstraint_09(t *testing.T) {
	rc := NewMaskConstraint64[goldilocks.Element](0xff).Multiple(goldilocks.New(256))
	//
	checkInterval(t, rc, 0, 0xff00)
	// Power-of-two factor shifts the mask exactly
	if rc.Mask().Uint64() != 0xff00 {
		t.Errorf("unexpected mask 0x%x", rc.Mask().Uint64())
	}
}

func Test_RangeConstraint_10(t *testing.T) {
	var (
		big = NewIntervalConstraint(goldilocks.New(0), goldilocks.New(0).Sub(goldilocks.New(2)))
		rc  = big.Multiple(goldilocks.New(3))
	)
	// Scaling overflowed the field
	if !rc.IsUnconstrained() {
		t.Error("expected unconstrained result")
	}
}

func Test_RangeConstraint_11(t *testing.T) {
	var (
		lo = NewMaskConstraint64[goldilocks.Element](0xff)
		hi = NewMaskConstraint64[goldilocks.Element](0xff00)
		rc = lo.Add(hi)
	)
	//
	checkInterval(t, rc, 0, 0xffff)
	// Disjoint masks combine without carries
	if rc.Mask().Uint64() != 0xffff {
		t.Errorf("unexpected mask 0x%x", rc.Mask().Uint64())
	}
}

func Test_RangeConstraint_12(t *testing.T) {
	rc := NewUnconstrained[goldilocks.Element]().Add(NewMaskConstraint64[goldilocks.Element](0xff))
	//
	if !rc.IsUnconstrained() {
		t.Error("expected unconstrained result")
	}
}

func Test_RangeConstraint_13(t *testing.T) {
	rc := NewMaskConstraint64[goldilocks.Element](0xff).Neg()
	//
	if !rc.Wraps() {
		t.Error("negated byte range should wrap")
	}
	//
	if rc.MinValue().Cmp(goldilocks.New(255).Neg()) != 0 || !rc.MaxValue().IsZero() {
		t.Errorf("unexpected interval [%s..%s]", rc.MinValue(), rc.MaxValue())
	}
	// Negating back restores a superset of the original
	back := rc.Neg()
	//
	if back.Wraps() || back.MaxValue().Cmp(goldilocks.New(255)) != 0 {
		t.Errorf("unexpected interval [%s..%s]", back.MinValue(), back.MaxValue())
	}
}

func Test_RangeConstraint_14(t *testing.T) {
	lhs := NewMaskConstraint64[goldilocks.Element](0xff)
	rhs := NewMaskConstraint64[goldilocks.Element](0xff)
	//
	if !lhs.Equals(rhs) {
		t.Error("identical constraints must be equal")
	}
	//
	if lhs.Equals(NewMaskConstraint64[goldilocks.Element](0x7f)) {
		t.Error("distinct constraints must not be equal")
	}
}

func Test_RangeConstraint_15(t *testing.T) {
	lhs := NewIntervalConstraint(goldilocks.New(100), goldilocks.New(100))
	rhs := NewIntervalConstraint(goldilocks.New(0), goldilocks.New(255))
	// Conjunction with a point interval collapses
	rc := lhs.Conjunction(rhs)
	//
	if v := rc.SingleValue(); !v.HasValue() || v.Unwrap().Cmp(goldilocks.New(100)) != 0 {
		t.Error("expected single value 100")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func checkInterval(t *testing.T, rc RangeConstraint[goldilocks.Element], min uint64, max uint64) {
	t.Helper()
	//
	if rc.Wraps() {
		t.Errorf("unexpected wrapping interval [%s..%s]", rc.MinValue(), rc.MaxValue())
	} else if rc.MinValue().Cmp(goldilocks.New(min)) != 0 || rc.MaxValue().Cmp(goldilocks.New(max)) != 0 {
		t.Errorf("expected [%d..%d], got [%s..%s]", min, max, rc.MinValue(), rc.MaxValue())
	}
}
