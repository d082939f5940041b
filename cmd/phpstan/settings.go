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

package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stefan-squareweave/phpstan/analyzer"
)

// Settings represents the configuration file options for the checker.
type Settings struct {
	// ArgcArgv treats $argv and $argc as defined in script bodies.
	ArgcArgv *bool `yaml:"argc-argv,omitempty"`
}

// LoadSettings reads and decodes the settings file at path. Unknown keys are
// rejected.
func LoadSettings(path string) (Settings, error) {
	var settings Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("reading settings: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&settings); err != nil && !errors.Is(err, io.EOF) {
		return settings, fmt.Errorf("decoding settings %s: %w", path, err)
	}

	return settings, nil
}

// Options converts [Settings] into a list of [analyzer.Option].
// It processes settings and applies them only when explicitly set (non-nil).
func (s Settings) Options() []analyzer.Option {
	var opts []analyzer.Option

	opts = appendOption(opts, s.ArgcArgv, analyzer.WithArgcArgv)

	return opts
}

// appendOption appends a non-nil setting to an [analyzer.Option] list.
func appendOption[T any](opts []analyzer.Option, value *T, constructor func(T) analyzer.Option) []analyzer.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
