// Copyright 2026 The Inspectly Authors
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

package report

import (
	"fmt"
	"strings"

	"github.com/inspectly/inspectly/internal/inspection"
)

const (
	heading            = "PROPERTY INSPECTION REPORT"
	placeholderDate    = "(not recorded)"
	placeholderComment = "(no comment)"
)

// Render compiles an inspection detail into the report document.
// The output is plain text: free-text fields are written verbatim and
// never interpreted as markup. Rendering is deterministic: identical
// input yields byte-identical output, because room groups arrive in the
// fixed order of inspection.GroupByRoom.
func Render(d *inspection.Detail) []byte {
	var b strings.Builder

	// Title block
	b.WriteString(heading + "\n")
	b.WriteString(strings.Repeat("=", len(heading)) + "\n\n")
	fmt.Fprintf(&b, "Property: %s\n", d.Property.Address)

	// Inspection header
	fmt.Fprintf(&b, "Inspection: %s\n", d.Inspection.Title)
	date := placeholderDate
	if d.Inspection.InspectionDate != nil {
		date = d.Inspection.InspectionDate.Format("2006-01-02")
	}
	fmt.Fprintf(&b, "Date: %s\n", date)

	// Summary, verbatim
	b.WriteString("\nSummary:\n")
	b.WriteString(d.Inspection.Summary)
	b.WriteString("\n")

	// Per-room evidence
	for _, group := range d.Rooms {
		fmt.Fprintf(&b, "\n%s\n", group.Room)
		b.WriteString(strings.Repeat("-", len(group.Room)) + "\n")
		for _, photo := range group.Photos {
			comment := photo.Comment
			if comment == "" {
				comment = placeholderComment
			}
			fmt.Fprintf(&b, "  - %s [%s]\n", comment, photo.Filename)
		}
	}

	return []byte(b.String())
}
