// Copyright 2026 Stefan Squareweave. All Rights Reserved.
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
//
// SPDX-License-Identifier: Apache-2.0

package scope

import (
	"slices"
	"strings"
)

// Names is an immutable set of variable names. The zero value is the empty
// set. Mutating operations return a new set and share the backing map when
// nothing changed, so snapshots can be copied freely.
type Names struct {
	m map[string]struct{}
}

// NewNames returns a set holding the given names.
func NewNames(names ...string) Names {
	if len(names) == 0 {
		return Names{}
	}

	m := make(map[string]struct{}, len(names))
	for _, name := range names {
		m[name] = struct{}{}
	}

	return Names{m: m}
}

// Has reports whether name is in the set.
func (s Names) Has(name string) bool {
	_, ok := s.m[name]

	return ok
}

// Len returns the number of names in the set.
func (s Names) Len() int { return len(s.m) }

// With returns the set extended by name.
func (s Names) With(name string) Names {
	if s.Has(name) {
		return s
	}

	m := make(map[string]struct{}, len(s.m)+1)
	for k := range s.m {
		m[k] = struct{}{}
	}
	m[name] = struct{}{}

	return Names{m: m}
}

// Without returns the set with name removed.
func (s Names) Without(name string) Names {
	if !s.Has(name) {
		return s
	}

	m := make(map[string]struct{}, len(s.m)-1)
	for k := range s.m {
		if k != name {
			m[k] = struct{}{}
		}
	}

	return Names{m: m}
}

// Union returns the set containing every name of s and o.
func (s Names) Union(o Names) Names {
	if o.Len() == 0 {
		return s
	}

	if s.Len() == 0 {
		return o
	}

	m := make(map[string]struct{}, len(s.m)+len(o.m))
	for k := range s.m {
		m[k] = struct{}{}
	}
	for k := range o.m {
		m[k] = struct{}{}
	}

	return Names{m: m}
}

// Intersect returns the set of names present in both s and o. When one side
// already is the intersection, it is returned unchanged.
func (s Names) Intersect(o Names) Names {
	small, large := s, o
	if small.Len() > large.Len() {
		small, large = large, small
	}

	missing := 0
	for k := range small.m {
		if !large.Has(k) {
			missing++
		}
	}

	if missing == 0 {
		return small
	}

	if missing == small.Len() {
		return Names{}
	}

	m := make(map[string]struct{}, small.Len()-missing)
	for k := range small.m {
		if large.Has(k) {
			m[k] = struct{}{}
		}
	}

	return Names{m: m}
}

// Sorted returns the names in sorted order, for deterministic output.
func (s Names) Sorted() []string {
	names := make([]string, 0, len(s.m))
	for k := range s.m {
		names = append(names, k)
	}
	slices.Sort(names)

	return names
}

// String renders the set for debugging and test failure messages.
func (s Names) String() string {
	return "{" + strings.Join(s.Sorted(), " ") + "}"
}
