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

// Map defines a generic map implementation where keys are hashed via the
// Hasher interface.  As for Set, collisions are handled gracefully using
// buckets.
type Map[K Hasher[K], V any] struct {
	// buckets maps hashcodes to *buckets* of key-value pairs.
	buckets map[uint64][]mapEntry[K, V]
	// count of entries across all buckets.
	count uint
}

type mapEntry[K Hasher[K], V any] struct {
	key   K
	value V
}

// NewMap creates a new Map with a given underlying capacity.
func NewMap[K Hasher[K], V any](size uint) *Map[K, V] {
	return &Map[K, V]{make(map[uint64][]mapEntry[K, V], size), 0}
}

// Size returns the number of unique keys stored in this Map.
//
//nolint:revive
func (p *Map[K, V]) Size() uint {
	return p.count
}

// Insert a new key-value pair into this map, returning true if the key was
// already present (in which case its value is overwritten) and false otherwise.
//
//nolint:revive
func (p *Map[K, V]) Insert(key K, value V) bool {
	hash := key.Hash()
	bucket := p.buckets[hash]
	// Check whether key already present
	for i, ith := range bucket {
		if ith.key.Equals(key) {
			bucket[i].value = value
			return true
		}
	}
	// Not present, so append to bucket
	p.buckets[hash] = append(bucket, mapEntry[K, V]{key, value})
	p.count++
	//
	return false
}

// ContainsKey checks whether the given key is contained within this map, or not.
//
//nolint:revive
func (p *Map[K, V]) ContainsKey(key K) bool {
	for _, ith := range p.buckets[key.Hash()] {
		if ith.key.Equals(key) {
			return true
		}
	}
	//
	return false
}

// Get the value associated with a given key, or return false otherwise.
//
//nolint:revive
func (p *Map[K, V]) Get(key K) (V, bool) {
	var empty V
	//
	for _, ith := range p.buckets[key.Hash()] {
		if ith.key.Equals(key) {
			return ith.value, true
		}
	}
	//
	return empty, false
}

// Keys returns all keys stored in this map.  Observe that the order in which
// keys are returned is unspecified.
//
//nolint:revive
func (p *Map[K, V]) Keys() []K {
	keys := make([]K, 0, p.count)
	//
	for _, bucket := range p.buckets {
		for _, ith := range bucket {
			keys = append(keys, ith.key)
		}
	}
	//
	return keys
}
