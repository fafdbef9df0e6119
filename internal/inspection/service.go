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
	"fmt"
	"time"

	"github.com/inspectly/inspectly/internal/audit"
	"github.com/inspectly/inspectly/internal/id"
	"github.com/inspectly/inspectly/internal/identity"
	"github.com/inspectly/inspectly/internal/visibility"
)

// Access outcomes. A read-path denial is indistinguishable from absence:
// callers receive ErrNotVisible whether the record is missing or merely
// hidden from them. Write-path denials may acknowledge existence.
var (
	ErrNotVisible        = errors.New("record not visible")
	ErrForbidden         = errors.New("operation forbidden")
	ErrInvalidAssignment = errors.New("invalid landlord or tenant assignment")
)

// UserDirectory resolves user references during assignment validation
type UserDirectory interface {
	GetByEmail(ctx context.Context, email string) (*identity.User, error)
}

// Service provides the property/inspection/photo business logic.
// All authorization is decided here, before any mutation is attempted.
type Service struct {
	properties  PropertyRepository
	inspections InspectionRepository
	photos      PhotoRepository
	users       UserDirectory
	auditLogger audit.Logger
}

// NewService creates a new inspection service
func NewService(
	properties PropertyRepository,
	inspections InspectionRepository,
	photos PhotoRepository,
	users UserDirectory,
	auditLogger audit.Logger,
) *Service {
	return &Service{
		properties:  properties,
		inspections: inspections,
		photos:      photos,
		users:       users,
		auditLogger: auditLogger,
	}
}

// ListVisibleProperties enumerates the properties the actor may see
func (s *Service) ListVisibleProperties(ctx context.Context, actor *identity.User) ([]*Property, error) {
	properties, err := s.properties.List(ctx, visibility.Scope(actor))
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return properties, nil
}

// GetPropertyIfVisible retrieves a property the actor may see.
// Absence and denial both yield ErrNotVisible.
func (s *Service) GetPropertyIfVisible(ctx context.Context, actor *identity.User, propertyID string) (*Property, error) {
	property, err := s.properties.GetByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, ErrPropertyNotFound) {
			return nil, ErrNotVisible
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}
	if !visibility.CanView(actor, property.Ownership()) {
		return nil, ErrNotVisible
	}
	return property, nil
}

// CreatePropertyInput holds the fields for a new property
type CreatePropertyInput struct {
	Address       string
	RoomsCount    int
	Amenities     string
	LandlordEmail string // required for admin actors, ignored for landlords
	TenantEmail   string // optional
}

// CreateProperty creates a property. Landlords create for themselves;
// admins must name a landlord. Both references are validated against the
// user directory before anything is persisted.
func (s *Service) CreateProperty(ctx context.Context, actor *identity.User, input CreatePropertyInput) (*Property, error) {
	if !visibility.CanCreateProperty(actor) {
		return nil, ErrForbidden
	}
	if input.Address == "" {
		return nil, fmt.Errorf("address is required")
	}

	var landlordID string
	switch actor.Role {
	case identity.RoleLandlord:
		landlordID = actor.ID
	case identity.RoleAdmin:
		landlord, err := s.resolveAssignment(ctx, actor, input.LandlordEmail, identity.RoleLandlord)
		if err != nil {
			return nil, err
		}
		landlordID = landlord.ID
	}

	var tenantID string
	if input.TenantEmail != "" {
		tenant, err := s.resolveAssignment(ctx, actor, input.TenantEmail, identity.RoleTenant)
		if err != nil {
			return nil, err
		}
		tenantID = tenant.ID
	}

	property := &Property{
		ID:         id.NewUUIDv7(),
		Address:    input.Address,
		RoomsCount: input.RoomsCount,
		Amenities:  input.Amenities,
		LandlordID: landlordID,
		TenantID:   tenantID,
	}

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePropertyCreated,
		ActorID:  actor.ID,
		Resource: property.ID,
		Metadata: map[string]any{"address": property.Address, "landlord_id": landlordID},
	})

	return property, nil
}

// resolveAssignment validates that an email names an existing user of the
// required role. Any mismatch is an ErrInvalidAssignment; nothing has been
// written yet when it fires.
func (s *Service) resolveAssignment(ctx context.Context, actor *identity.User, email string, want identity.Role) (*identity.User, error) {
	if email == "" {
		return nil, ErrInvalidAssignment
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil || user == nil || user.Role != want {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeAssignmentRejected,
			ActorID:  actor.ID,
			Resource: email,
			Metadata: map[string]any{"wanted_role": string(want)},
		})
		return nil, ErrInvalidAssignment
	}
	return user, nil
}

// CreateInspectionInput holds the fields for a new inspection
type CreateInspectionInput struct {
	Title          string
	Summary        string
	InspectionDate *time.Time
}

// CreateInspection creates a draft inspection on a property the actor can
// view. The role gate fires before the visibility check, so a tenant gets
// ErrForbidden even on their own home.
func (s *Service) CreateInspection(ctx context.Context, actor *identity.User, propertyID string, input CreateInspectionInput) (*Inspection, error) {
	if !visibility.CanCreateInspection(actor) {
		return nil, ErrForbidden
	}

	property, err := s.GetPropertyIfVisible(ctx, actor, propertyID)
	if err != nil {
		return nil, err
	}
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	insp := &Inspection{
		ID:              id.NewUUIDv7(),
		PropertyID:      property.ID,
		Title:           input.Title,
		Summary:         input.Summary,
		InspectorUserID: actor.ID,
		InspectionDate:  input.InspectionDate,
		Status:          StatusDraft,
	}

	if err := s.inspections.Create(ctx, insp); err != nil {
		return nil, fmt.Errorf("failed to create inspection: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInspectionCreated,
		ActorID:  actor.ID,
		Resource: insp.ID,
		Metadata: map[string]any{"property_id": property.ID, "title": insp.Title},
	})

	return insp, nil
}

// GetInspectionIfVisible retrieves an inspection whose owning property the
// actor may see. Authorization is derived: the inspection's own fields
// never decide visibility.
func (s *Service) GetInspectionIfVisible(ctx context.Context, actor *identity.User, inspectionID string) (*Inspection, error) {
	insp, err := s.inspections.GetByID(ctx, inspectionID)
	if err != nil {
		if errors.Is(err, ErrInspectionNotFound) {
			return nil, ErrNotVisible
		}
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}
	if _, err := s.GetPropertyIfVisible(ctx, actor, insp.PropertyID); err != nil {
		return nil, err
	}
	return insp, nil
}

// ListInspections enumerates the inspections of a visible property
func (s *Service) ListInspections(ctx context.Context, actor *identity.User, propertyID string) ([]*Inspection, error) {
	if _, err := s.GetPropertyIfVisible(ctx, actor, propertyID); err != nil {
		return nil, err
	}
	inspections, err := s.inspections.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	return inspections, nil
}

// AddPhotoInput holds the fields for new photo evidence
type AddPhotoInput struct {
	Room     string
	Filename string // handle returned by the upload collaborator
	Comment  string
}

// AddPhoto attaches photo evidence to a draft inspection.
// Finalized inspections reject new photos with ErrInspectionClosed.
func (s *Service) AddPhoto(ctx context.Context, actor *identity.User, inspectionID string, input AddPhotoInput) (*Photo, error) {
	if !visibility.CanAddPhoto(actor) {
		return nil, ErrForbidden
	}

	insp, err := s.GetInspectionIfVisible(ctx, actor, inspectionID)
	if err != nil {
		return nil, err
	}
	if insp.Closed() {
		return nil, ErrInspectionClosed
	}
	if input.Room == "" {
		return nil, fmt.Errorf("room is required")
	}
	if input.Filename == "" {
		return nil, fmt.Errorf("filename is required")
	}

	photo := &Photo{
		ID:           id.NewUUIDv7(),
		InspectionID: insp.ID,
		Room:         input.Room,
		Filename:     input.Filename,
		Comment:      input.Comment,
	}

	if err := s.photos.Create(ctx, photo); err != nil {
		return nil, fmt.Errorf("failed to create photo: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypePhotoAdded,
		ActorID:  actor.ID,
		Resource: photo.ID,
		Metadata: map[string]any{"inspection_id": insp.ID, "room": photo.Room},
	})

	return photo, nil
}

// GetPhoto retrieves a photo of a visible inspection. Visibility is
// derived from the owning inspection, so a photo the actor may not see
// is indistinguishable from a missing one.
func (s *Service) GetPhoto(ctx context.Context, actor *identity.User, inspectionID, photoID string) (*Photo, error) {
	if _, err := s.GetInspectionIfVisible(ctx, actor, inspectionID); err != nil {
		return nil, err
	}
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		if errors.Is(err, ErrPhotoNotFound) {
			return nil, ErrNotVisible
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	if photo.InspectionID != inspectionID {
		return nil, ErrNotVisible
	}
	return photo, nil
}

// Detail is an inspection with its photos grouped by room
type Detail struct {
	Inspection *Inspection
	Property   *Property
	Rooms      []RoomGroup
}

// GetDetail retrieves a visible inspection with its room-grouped photos.
// Display and report rendering share this grouping.
func (s *Service) GetDetail(ctx context.Context, actor *identity.User, inspectionID string) (*Detail, error) {
	insp, err := s.GetInspectionIfVisible(ctx, actor, inspectionID)
	if err != nil {
		return nil, err
	}
	property, err := s.GetPropertyIfVisible(ctx, actor, insp.PropertyID)
	if err != nil {
		return nil, err
	}
	photos, err := s.photos.ListByInspection(ctx, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	return &Detail{
		Inspection: insp,
		Property:   property,
		Rooms:      GroupByRoom(photos),
	}, nil
}
