// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package quality

import (
	"cmp"
	"iter"
	"slices"
	"strings"
)

// Set is the quality-ranked, deduplicated list of values parsed from one
// Accept-family header.
//
// Values are ordered by descending quality. Values that share a quality
// keep the order in which the client listed them, so an implicit q=1.0
// list like "a, b, c" stays a, b, c.
//
// No two values in a Set share an identity. The identity is the raw value
// string for sets built with [Parse] and the case-folded value for sets
// built with [ParseFold]. When duplicates collide, the one that sorts first
// wins, which means the higher quality, or the earlier one on a tie.
//
// An empty Set means the header was absent or had no usable tokens.
//
// A Set is not safe for concurrent mutation. Negotiation only reads it;
// use [Set.Clone] to derive a modified copy.
type Set struct {
	values []Value
	fold   bool
}

// Parse parses header into a Set whose values are compared exactly.
func Parse(header string) *Set {
	s := &Set{}
	s.Merge(header)
	return s
}

// ParseFold parses header into a Set whose values are compared
// case-insensitively, as charsets and content codings are.
func ParseFold(header string) *Set {
	s := &Set{fold: true}
	s.Merge(header)
	return s
}

// NewSet builds a Set from already parsed values. fold selects
// case-insensitive identity.
func NewSet(fold bool, values ...Value) *Set {
	s := &Set{fold: fold}
	s.Append(values...)
	return s
}

// Merge parses additional header text and merges it into the set.
func (s *Set) Merge(header string) {
	s.Append(ParseValues(header)...)
}

// Append adds values after the existing ones and re-sorts the set.
// An appended value only moves ahead of an existing one when its quality
// is strictly higher.
func (s *Set) Append(values ...Value) {
	if len(values) == 0 {
		return
	}
	for _, v := range values {
		s.values = append(s.values, v.clone())
	}
	s.Sort()
}

// Prepend adds values before the existing ones and re-sorts the set, so
// each one lands at the head of its quality bucket.
func (s *Set) Prepend(values ...Value) {
	if len(values) == 0 {
		return
	}
	merged := make([]Value, 0, len(values)+len(s.values))
	for _, v := range values {
		merged = append(merged, v.clone())
	}
	s.values = append(merged, s.values...)
	s.Sort()
}

// Sort re-ranks the set: a stable sort by descending quality followed by
// removal of duplicates, keeping the first occurrence.
func (s *Set) Sort() {
	slices.SortStableFunc(s.values, func(a, b Value) int {
		return cmp.Compare(b.Quality, a.Quality)
	})

	seen := make(map[string]struct{}, len(s.values))
	kept := s.values[:0]
	for _, v := range s.values {
		key := s.key(v.Value)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, v)
	}
	clear(s.values[len(kept):])
	s.values = kept
}

// Clone returns an independent deep copy of the set.
func (s *Set) Clone() *Set {
	c := &Set{fold: s.fold, values: make([]Value, len(s.values))}
	for i, v := range s.values {
		c.values[i] = v.clone()
	}
	return c
}

// Len returns the number of values in the set.
func (s *Set) Len() int {
	return len(s.values)
}

// Empty reports whether the set holds no values.
func (s *Set) Empty() bool {
	return len(s.values) == 0
}

// At returns the i-th value in ranked order.
func (s *Set) At(i int) Value {
	return s.values[i]
}

// Values returns a copy of values in ranked order.
func (s *Set) Values() []Value {
	return s.Clone().values
}

// All iterates values in ranked order.
func (s *Set) All() iter.Seq2[int, Value] {
	return func(yield func(int, Value) bool) {
		for i, v := range s.values {
			if !yield(i, v) {
				return
			}
		}
	}
}

// Contains reports whether the set holds value under its identity rule.
func (s *Set) Contains(value string) bool {
	key := s.key(value)
	for _, v := range s.values {
		if s.key(v.Value) == key {
			return true
		}
	}
	return false
}

// Fold reports whether the set compares values case-insensitively.
func (s *Set) Fold() bool {
	return s.fold
}

// String formats the set back into header syntax.
func (s *Set) String() string {
	parts := make([]string, len(s.values))
	for i, v := range s.values {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func (s *Set) key(value string) string {
	if s.fold {
		return strings.ToLower(value)
	}
	return value
}
