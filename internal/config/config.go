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

// Package config holds the run configuration shared by the checker pipeline.
package config

// Config is a bitmask of environment options for a checker run.
type Config uint8

const (
	// RegisterArgcArgv marks the $argv and $argc superglobals as registered,
	// mirroring the register_argc_argv ini setting of the analyzed runtime.
	RegisterArgcArgv Config = 1 << iota
)

// Enabled reports whether the given option is set.
func (c Config) Enabled(flag Config) bool {
	return c&flag != 0
}

// With returns a copy of c with the given option enabled or disabled.
func (c Config) With(flag Config, value bool) Config {
	if value {
		return c | flag
	}

	return c &^ flag
}
