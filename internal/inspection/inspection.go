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

package inspection

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrInspectionNotFound = errors.New("inspection not found")
	ErrInspectionClosed   = errors.New("inspection is finalized")
	ErrPhotoNotFound      = errors.New("photo not found")
)

// Status is the inspection lifecycle state. The lifecycle has exactly one
// transition: draft → finalized, triggered by a successful report build.
// Finalized is terminal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
)

// Inspection represents one documented visit to a property
type Inspection struct {
	ID              string
	PropertyID      string // never reassigned
	Title           string
	Summary         string
	InspectorUserID string
	InspectionDate  *time.Time
	Status          Status
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Closed reports whether the inspection no longer accepts photos
func (i *Inspection) Closed() bool {
	return i.Status == StatusFinalized
}

// Photo represents one piece of photographic evidence, grouped by room.
// Photos are immutable once created.
type Photo struct {
	ID           string
	InspectionID string
	Room         string
	Filename     string // opaque storage handle from the upload collaborator
	Comment      string
	Position     int64 // monotonic per inspection, fixes creation order
	CreatedAt    time.Time
}

// InspectionRepository defines the interface for inspection persistence
type InspectionRepository interface {
	// Create creates a new inspection
	Create(ctx context.Context, inspection *Inspection) error

	// GetByID retrieves an inspection by ID
	GetByID(ctx context.Context, id string) (*Inspection, error)

	// ListByProperty retrieves all inspections of a property,
	// newest first
	ListByProperty(ctx context.Context, propertyID string) ([]*Inspection, error)

	// Finalize transitions an inspection from draft to finalized.
	// Finalizing an already-finalized inspection is a no-op.
	Finalize(ctx context.Context, id string) error
}

// PhotoRepository defines the interface for photo persistence
type PhotoRepository interface {
	// Create creates a new photo; the repository assigns Position
	Create(ctx context.Context, photo *Photo) error

	// GetByID retrieves a photo by ID
	GetByID(ctx context.Context, id string) (*Photo, error)

	// ListByInspection retrieves all photos of an inspection in
	// creation order
	ListByInspection(ctx context.Context, inspectionID string) ([]*Photo, error)

	// CountByInspection returns the number of photos attached to an inspection
	CountByInspection(ctx context.Context, inspectionID string) (int, error)
}
