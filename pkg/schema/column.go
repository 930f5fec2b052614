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

// ColumnKind distinguishes committed (witness) columns, whose values are
// determined during witness generation, from fixed columns whose values are
// preset.
type ColumnKind uint8

const (
	// COMMITTED columns hold witness data computed during trace expansion.
	COMMITTED ColumnKind = iota
	// FIXED columns hold preset data available before witness generation.
	FIXED
)

// Column identifies a single column of the trace.
type Column struct {
	// Unique identifier for this column.
	ID uint
	// Human-readable name for this column.
	Name string
	// Kind of this column (committed or fixed).
	Kind ColumnKind
}

// NewColumn constructs a new column with the given attributes.
func NewColumn(id uint, name string, kind ColumnKind) Column {
	return Column{id, name, kind}
}

// IsFixed checks whether this is a fixed column.
func (p Column) IsFixed() bool {
	return p.Kind == FIXED
}

// ColumnAccess represents a reference to a column, either on the row under
// consideration or (when Next is set) on the following row.
type ColumnAccess struct {
	// Column being accessed.
	Column Column
	// Next indicates the access refers to the following row.
	Next bool
}
