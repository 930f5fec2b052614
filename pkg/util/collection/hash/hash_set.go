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
package hash

// Hasher provides a generic definition of a hashing function suitable for use
// within the hashset and hashmap.  Note that equality is included since, unlike
// e.g. hashicorp's go-set, collisions are handled gracefully rather than being
// assumed away.
type Hasher[T any] interface {
	// Check whether two items are equal (or not).
	Equals(T) bool
	// Return a suitable hashcode.
	Hash() uint64
}

// Set defines a generic set implementation backed by a map.  This is a true
// hashtable in that collisions are handled gracefully using buckets, rather
// than simply discarding them.
type Set[T Hasher[T]] struct {
	// buckets maps hashcodes to *buckets* of items.
	buckets map[uint64][]T
	// count of items across all buckets.
	count uint
}

// NewSet creates a new Set with a given underlying capacity.
func NewSet[T Hasher[T]](size uint) *Set[T] {
	return &Set[T]{make(map[uint64][]T, size), 0}
}

// Size returns the number of unique items stored in this Set.
//
//nolint:revive
func (p *Set[T]) Size() uint {
	return p.count
}

// Insert a new item into this set, returning true if it was already contained
// and false otherwise.
//
//nolint:revive
func (p *Set[T]) Insert(item T) bool {
	hash := item.Hash()
	bucket := p.buckets[hash]
	// Check whether item already present
	for _, ith := range bucket {
		if ith.Equals(item) {
			return true
		}
	}
	// Not present, so append to bucket
	p.buckets[hash] = append(bucket, item)
	p.count++
	//
	return false
}

// Contains checks whether the given item is contained within this set, or not.
//
//nolint:revive
func (p *Set[T]) Contains(item T) bool {
	for _, ith := range p.buckets[item.Hash()] {
		if ith.Equals(item) {
			return true
		}
	}
	//
	return false
}

// Items returns all items stored in this set.  Observe that the order in which
// items are returned is unspecified.
//
//nolint:revive
func (p *Set[T]) Items() []T {
	items := make([]T, 0, p.count)
	//
	for _, bucket := range p.buckets {
		items = append(items, bucket...)
	}
	//
	return items
}
