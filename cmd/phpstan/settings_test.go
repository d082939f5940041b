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
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/stefan-squareweave/phpstan/analyzer"
)

const allSettings = `
argc-argv: true
`

func TestSettings(t *testing.T) {
	t.Parallel()

	testCases := [...]struct {
		name     string
		settings string
		want     int
	}{
		{"all", allSettings, reflect.TypeFor[Settings]().NumField()},
		{"none", `{}`, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			dec := yaml.NewDecoder(strings.NewReader(tc.settings))
			dec.KnownFields(true)

			var s Settings
			if err := dec.Decode(&s); err != nil {
				t.Fatalf("Can't decode settings: %v", err)
			}

			if got := s.Options(); len(got) != tc.want {
				t.Errorf("Got %d options: %s, want %d", len(got), analyzer.Options(got).LogValue(), tc.want)
			}
		})
	}
}

func TestLoadSettings(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()

		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Writing %s: %v", path, err)
		}

		return path
	}

	t.Run("valid", func(t *testing.T) {
		path := write("valid.yaml", "argc-argv: true\n")

		settings, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings: %v", err)
		}

		if settings.ArgcArgv == nil || !*settings.ArgcArgv {
			t.Error("Got unset argc-argv, want true")
		}
	})

	t.Run("unknown key", func(t *testing.T) {
		path := write("unknown.yaml", "no-such-option: 1\n")

		if _, err := LoadSettings(path); err == nil {
			t.Error("LoadSettings succeeded on unknown key, want error")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadSettings(filepath.Join(dir, "absent.yaml")); err == nil {
			t.Error("LoadSettings succeeded on missing file, want error")
		}
	})

	t.Run("empty file", func(t *testing.T) {
		path := write("empty.yaml", "")

		settings, err := LoadSettings(path)
		if err != nil {
			t.Fatalf("LoadSettings: %v", err)
		}

		if len(settings.Options()) != 0 {
			t.Error("Got options from an empty settings file, want none")
		}
	})
}
