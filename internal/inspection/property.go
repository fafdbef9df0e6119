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

	"github.com/inspectly/inspectly/internal/visibility"
)

// Domain errors
var (
	ErrPropertyNotFound = errors.New("property not found")
)

// Property represents a rental property. It is owned by exactly one
// landlord and occupied by at most one tenant at a time.
type Property struct {
	ID         string
	Address    string
	RoomsCount int
	Amenities  string
	LandlordID string
	TenantID   string // empty when unoccupied
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Ownership returns the visibility ownership of the property
func (p *Property) Ownership() visibility.Ownership {
	return visibility.Ownership{LandlordID: p.LandlordID, TenantID: p.TenantID}
}

// PropertyRepository defines the interface for property persistence
type PropertyRepository interface {
	// Create creates a new property
	Create(ctx context.Context, property *Property) error

	// GetByID retrieves a property by ID
	GetByID(ctx context.Context, id string) (*Property, error)

	// List retrieves the properties admitted by the filter,
	// ordered by creation time
	List(ctx context.Context, filter visibility.Filter) ([]*Property, error)
}
