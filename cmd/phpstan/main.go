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

// Command phpstan checks PHP files for reads of possibly undefined
// variables. It exits with status 1 when any finding is reported and with
// status 2 on usage or parse errors.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/stefan-squareweave/phpstan/analyzer"
	"github.com/stefan-squareweave/phpstan/internal/report"
)

func main() {
	code, err := run(os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}

	os.Exit(code)
}

type flags struct {
	configPath   string
	registerArgv bool
	noColor      bool
	verbose      bool
}

func run(args []string, stdout, stderr *os.File) (int, error) {
	var fl flags

	var found bool

	cmd := &cobra.Command{
		Use:           "phpstan [flags] file...",
		Short:         "Report reads of possibly undefined PHP variables",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			found, err = check(cmd, fl, args, stdout, stderr)

			return err
		},
	}

	cmd.Flags().StringVarP(&fl.configPath, "config", "c", "", "settings file (YAML)")
	cmd.Flags().BoolVar(&fl.registerArgv, "register-argv", false, "treat $argv and $argc as defined in scripts")
	cmd.Flags().BoolVar(&fl.noColor, "no-color", false, "disable colorized output")
	cmd.Flags().BoolVarP(&fl.verbose, "verbose", "v", false, "log analysis progress to stderr")

	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		return 2, err
	}

	if found {
		return 1, nil
	}

	return 0, nil
}

// check analyzes the named files and renders findings to stdout. It reports
// whether any finding was produced.
func check(cmd *cobra.Command, fl flags, files []string, stdout, stderr *os.File) (bool, error) {
	opts, err := options(cmd, fl, stderr)
	if err != nil {
		return false, err
	}

	a := analyzer.New(opts...)
	renderer := report.NewRenderer(stdout, !fl.noColor)

	var found bool

	for _, file := range files {
		findings, err := a.CheckFile(file)
		if err != nil {
			return found, err
		}

		renderer.Render(file, findings)
		found = found || len(findings) > 0
	}

	return found, nil
}

// options resolves the analyzer configuration: settings file first, then
// explicitly set command-line flags on top.
func options(cmd *cobra.Command, fl flags, stderr *os.File) ([]analyzer.Option, error) {
	var opts []analyzer.Option

	if fl.configPath != "" {
		settings, err := LoadSettings(fl.configPath)
		if err != nil {
			return nil, err
		}

		opts = settings.Options()
	}

	if cmd.Flags().Changed("register-argv") {
		opts = append(opts, analyzer.WithArgcArgv(fl.registerArgv))
	}

	if fl.verbose {
		logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		opts = append(opts, analyzer.WithLogger(logger))
	}

	return opts, nil
}
