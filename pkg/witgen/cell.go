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

	"github.com/consensys/go-witgen/pkg/schema"
)

const (
	offset64 uint64 = 14695981039346656037
	prime64  uint64 = 1099511628211
)

// Cell identifies a single entry of the trace: one committed column at one
// concrete row.  Row indices may be negative, since constraints are expressed
// relative to a reference row.  Cells are immutable values; identity is
// determined by column and row alone.
type Cell struct {
	// Column identifier.
	Column uint
	// Column name (carried for reporting only).
	Name string
	// Row index.
	Row int
}

// NewCell constructs a cell from a column access and the row under
// consideration, taking the access's next-row flag into account.
func NewCell(access schema.ColumnAccess, row int) Cell {
	if access.Next {
		row++
	}
	//
	return Cell{access.Column.ID, access.Column.Name, row}
}

// Equals implementation for hash.Hasher interface.  Observe that the column
// name does not participate in equality.
func (p Cell) Equals(o Cell) bool {
	return p.Column == o.Column && p.Row == o.Row
}

// Hash implementation for hash.Hasher interface.
func (p Cell) Hash() uint64 {
	// FNV1a hash implementation (unrolled)
	hash := offset64
	hash = (hash ^ uint64(p.Column)) * prime64
	hash = (hash ^ uint64(int64(p.Row))) * prime64
	//
	return hash
}

// Cmp imposes a total order on cells (by column, then row), used to keep
// symbolic terms in a deterministic order.
func (p Cell) Cmp(o Cell) int {
	switch {
	case p.Column < o.Column:
		return -1
	case p.Column > o.Column:
		return 1
	case p.Row < o.Row:
		return -1
	case p.Row > o.Row:
		return 1
	default:
		return 0
	}
}

func (p Cell) String() string {
	return fmt.Sprintf("%s[%d]", p.Name, p.Row)
}
