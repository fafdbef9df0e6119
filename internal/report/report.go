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
	"errors"
	"time"
)

// Pipeline errors
var (
	// ErrSourceDataUnavailable indicates the inspection or its photos
	// could not be read; no artifact was produced.
	ErrSourceDataUnavailable = errors.New("report source data unavailable")

	// ErrStorageWriteFailed indicates the artifact could not be written
	// durably; no partial artifact is visible to readers.
	ErrStorageWriteFailed = errors.New("report storage write failed")
)

// ArtifactRef points at the canonical published artifact of an
// inspection. One artifact per inspection id.
type ArtifactRef struct {
	InspectionID string
	Key          string
	Size         int64
	ContentType  string
	CreatedAt    time.Time
}

// ContentType is the MIME type of rendered report artifacts
const ContentType = "text/plain; charset=utf-8"

// Key maps an inspection id to its artifact storage key
func Key(inspectionID string) string {
	return "inspections/" + inspectionID + ".txt"
}
