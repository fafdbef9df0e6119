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
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/inspectly/inspectly/internal/inspection"
)

func sampleDetail() *inspection.Detail {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	return &inspection.Detail{
		Property: &inspection.Property{Address: "12 Elm Street"},
		Inspection: &inspection.Inspection{
			Title:          "Move-out inspection",
			Summary:        "Overall good condition.\nMinor wear in the kitchen.",
			InspectionDate: &date,
		},
		Rooms: []inspection.RoomGroup{
			{Room: "Bathroom", Photos: []*inspection.Photo{
				{Filename: "b1.jpg"},
			}},
			{Room: "Kitchen", Photos: []*inspection.Photo{
				{Filename: "k1.jpg", Comment: "scratched counter"},
				{Filename: "k2.jpg", Comment: "stove ok"},
			}},
		},
	}
}

// TestPurpose: Validates the rendered report layout: heading, property and inspection header, verbatim summary, and per-room photo listings with placeholders.
// Scope: Unit Test
// Expected: All sections present in order; empty comments replaced by a placeholder, missing date by its placeholder.
// Test Case ID: RPT-01
func TestReport_Render_Layout(t *testing.T) {
	out := string(Render(sampleDetail()))

	assert.True(t, strings.HasPrefix(out, "PROPERTY INSPECTION REPORT\n"), "heading first")
	assert.Contains(t, out, "Property: 12 Elm Street\n")
	assert.Contains(t, out, "Inspection: Move-out inspection\n")
	assert.Contains(t, out, "Date: 2026-03-14\n")
	assert.Contains(t, out, "Minor wear in the kitchen.")
	assert.Contains(t, out, "\nKitchen\n-------\n")
	assert.Contains(t, out, "  - scratched counter [k1.jpg]\n")
	assert.Contains(t, out, "  - (no comment) [b1.jpg]\n")
	assert.Less(t, strings.Index(out, "Bathroom"), strings.Index(out, "Kitchen"), "rooms in lexicographic order")

	noDate := sampleDetail()
	noDate.Inspection.InspectionDate = nil
	assert.Contains(t, string(Render(noDate)), "Date: (not recorded)\n")
}

// TestPurpose: Validates that rendering is deterministic: identical inputs produce byte-identical output.
// Scope: Unit Test
// Expected: Two renders of the same detail compare equal.
// Test Case ID: RPT-02
func TestReport_Render_Deterministic(t *testing.T) {
	a := Render(sampleDetail())
	b := Render(sampleDetail())
	assert.Equal(t, a, b)
}
