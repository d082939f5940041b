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

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Renderer writes findings as file:line: message lines, colorized when the
// destination is a terminal.
type Renderer struct {
	w        io.Writer
	location *color.Color
	message  *color.Color
}

// NewRenderer returns a renderer for w. Color is used when enabled and w is
// a terminal.
func NewRenderer(w io.Writer, colored bool) *Renderer {
	location := color.New(color.Bold)
	message := color.New(color.FgRed)

	if !colored || !writerIsTerminal(w) {
		location.DisableColor()
		message.DisableColor()
	}

	return &Renderer{w: w, location: location, message: message}
}

// Render writes the findings for one file.
func (r *Renderer) Render(file string, findings []Finding) {
	for _, f := range findings {
		fmt.Fprintf(r.w, "%s %s\n",
			r.location.Sprintf("%s:%d:", file, f.Line),
			r.message.Sprint(f.Message))
	}
}

func writerIsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
