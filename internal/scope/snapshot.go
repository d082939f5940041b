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

// Package scope models which variable names are bound at one program point.
//
// A [Snapshot] is an immutable value: every flow construct derives new
// snapshots from its inputs and merges them at join points. Unreachable
// program points are first-class snapshots that act as the identity element
// of [Merge].
package scope

// Snapshot records the binding state at one program point.
type Snapshot struct {
	// bound holds the names certainly assigned on every path to this point.
	bound Names

	// universe holds every name assigned anywhere in the enclosing body.
	// It is fixed for the whole body and relaxes guard-context checks.
	universe Names

	// thisAvailable is set inside non-static instance method and closure
	// bodies.
	thisAvailable bool

	// cliArgsAvailable is set when the run registers $argv/$argc.
	cliArgsAvailable bool

	// httpHeaderAvailable is set after an HTTP-wrapper stream call has been
	// walked; it gates the $http_response_header magic local.
	httpHeaderAvailable bool

	// unreachable marks a point no execution can reach.
	unreachable bool
}

// Enter returns the snapshot at the entry of a body: bound names (the
// parameters) plus the pre-collected universe and the fixed availability
// flags. The universe is extended by the entry bindings so that bound
// is always a subset of universe.
func Enter(bound, universe Names, thisAvailable, cliArgsAvailable bool) Snapshot {
	return Snapshot{
		bound:            bound,
		universe:         universe.Union(bound),
		thisAvailable:    thisAvailable,
		cliArgsAvailable: cliArgsAvailable,
	}
}

// Bound reports whether name is certainly assigned here.
func (s Snapshot) Bound(name string) bool { return s.bound.Has(name) }

// Ever reports whether name is assigned anywhere in the enclosing body.
func (s Snapshot) Ever(name string) bool { return s.universe.Has(name) }

// BoundNames exposes the certain set, for tests and debugging.
func (s Snapshot) BoundNames() Names { return s.bound }

// ThisAvailable reports object-context availability.
func (s Snapshot) ThisAvailable() bool { return s.thisAvailable }

// CLIArgsAvailable reports whether $argv/$argc are registered.
func (s Snapshot) CLIArgsAvailable() bool { return s.cliArgsAvailable }

// HTTPHeaderAvailable reports whether $http_response_header is populated on
// every path to this point.
func (s Snapshot) HTTPHeaderAvailable() bool { return s.httpHeaderAvailable }

// Unreachable reports whether this point is dominated by a jump out of the
// normal flow.
func (s Snapshot) Unreachable() bool { return s.unreachable }

// Bind returns the snapshot with name certainly assigned.
func (s Snapshot) Bind(name string) Snapshot {
	s.bound = s.bound.With(name)
	s.universe = s.universe.With(name)

	return s
}

// Unbind returns the snapshot with name no longer assigned.
func (s Snapshot) Unbind(name string) Snapshot {
	s.bound = s.bound.Without(name)

	return s
}

// WithHTTPHeader returns the snapshot with the diagnostic variable flag set.
func (s Snapshot) WithHTTPHeader() Snapshot {
	s.httpHeaderAvailable = true

	return s
}

// AsUnreachable marks the snapshot as following an unconditional jump.
func (s Snapshot) AsUnreachable() Snapshot {
	s.unreachable = true

	return s
}

// AsReachable clears the unreachable marker.
func (s Snapshot) AsReachable() Snapshot {
	s.unreachable = false

	return s
}

// Merge combines the snapshots of two joining paths. An unreachable side is
// ignored; if both sides are unreachable the result is unreachable. The
// certain set of the result is the intersection of both sides, and the
// diagnostic variable stays available only when available on both.
func Merge(a, b Snapshot) Snapshot {
	if a.unreachable {
		return b
	}

	if b.unreachable {
		return a
	}

	a.bound = a.bound.Intersect(b.bound)
	a.httpHeaderAvailable = a.httpHeaderAvailable && b.httpHeaderAvailable

	return a
}

// MergeAll folds [Merge] over all snapshots. With no reachable input the
// result is unreachable.
func MergeAll(snapshots ...Snapshot) Snapshot {
	out := Snapshot{unreachable: true}
	for _, s := range snapshots {
		out = Merge(out, s)
	}

	return out
}
