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

// Package builtin records the standard-library facts the checker needs:
// which calls populate arguments by reference, which calls populate the
// $http_response_header magic local, which names are superglobals, and
// which calls terminate the script.
package builtin

// refOutputs maps lower-cased function names to the argument positions they
// populate by reference. A Variadic entry marks every position from From on.
var refOutputs = map[string]refSpec{
	"preg_match":     {fixed: []int{2}},
	"preg_match_all": {fixed: []int{2}},
	"similar_text":   {fixed: []int{2}},
	"str_replace":    {fixed: []int{3}},
	"str_ireplace":   {fixed: []int{3}},
	"sscanf":         {variadicFrom: 2},
}

type refSpec struct {
	fixed []int

	// variadicFrom marks an open-ended by-ref tail; zero means none, since
	// no tracked builtin starts its outputs at position zero.
	variadicFrom int
}

// ReferenceOutput reports whether the builtin name populates argument
// position pos by reference. name must be lower-cased.
func ReferenceOutput(name string, pos int) bool {
	spec, ok := refOutputs[name]
	if !ok {
		return false
	}

	for _, p := range spec.fixed {
		if p == pos {
			return true
		}
	}

	return spec.variadicFrom > 0 && pos >= spec.variadicFrom
}

// httpStreamCalls are the calls that populate $http_response_header when
// they operate on an HTTP stream wrapper.
var httpStreamCalls = map[string]struct{}{
	"file_get_contents": {},
	"fopen":             {},
	"file":              {},
	"get_headers":       {},
}

// PopulatesHTTPHeader reports whether a call to the lower-cased name makes
// $http_response_header available.
func PopulatesHTTPHeader(name string) bool {
	_, ok := httpStreamCalls[name]

	return ok
}

// superglobals are always available in every scope.
var superglobals = map[string]struct{}{
	"GLOBALS":  {},
	"_SERVER":  {},
	"_GET":     {},
	"_POST":    {},
	"_FILES":   {},
	"_COOKIE":  {},
	"_SESSION": {},
	"_REQUEST": {},
	"_ENV":     {},
}

// Superglobal reports whether name (without the sigil) is an
// unconditionally registered superglobal.
func Superglobal(name string) bool {
	_, ok := superglobals[name]

	return ok
}

// CLIArg reports whether name is one of the superglobals gated on the
// register_argc_argv setting.
func CLIArg(name string) bool {
	return name == "argv" || name == "argc"
}

// HTTPHeaderVariable is the magic local populated by HTTP stream calls.
const HTTPHeaderVariable = "http_response_header"

// ThisVariable is the object-context pseudo-variable.
const ThisVariable = "this"

// Terminates reports whether a call to the lower-cased name never returns.
func Terminates(name string) bool {
	return name == "exit" || name == "die"
}
