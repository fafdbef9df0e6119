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

package visibility_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inspectly/inspectly/internal/identity"
	"github.com/inspectly/inspectly/internal/visibility"
)

func user(id string, role identity.Role) *identity.User {
	return &identity.User{ID: id, Email: id + "@example.com", Role: role}
}

// TestPurpose: Validates the full (role, ownership) decision matrix for reads.
// Scope: Unit Test
// Security: Horizontal access control between landlords and tenants
// Expected: admin/inspector always allowed; landlord/tenant only on their own
// property; unknown roles and nil actors always denied.
// Test Case ID: VIS-01
func TestVisibility_CanView_DecisionMatrix(t *testing.T) {
	owned := visibility.Ownership{LandlordID: "landlord-1", TenantID: "tenant-1"}
	vacant := visibility.Ownership{LandlordID: "landlord-1"}

	tests := []struct {
		name  string
		actor *identity.User
		own   visibility.Ownership
		want  bool
	}{
		{"admin sees any property", user("admin-1", identity.RoleAdmin), owned, true},
		{"admin sees vacant property", user("admin-1", identity.RoleAdmin), vacant, true},
		{"inspector sees any property", user("inspector-1", identity.RoleInspector), owned, true},
		{"inspector sees vacant property", user("inspector-1", identity.RoleInspector), vacant, true},
		{"owning landlord sees own property", user("landlord-1", identity.RoleLandlord), owned, true},
		{"other landlord denied", user("landlord-2", identity.RoleLandlord), owned, false},
		{"occupying tenant sees their home", user("tenant-1", identity.RoleTenant), owned, true},
		{"other tenant denied", user("tenant-2", identity.RoleTenant), owned, false},
		{"tenant denied on vacant property", user("tenant-1", identity.RoleTenant), vacant, false},
		{"unknown role denied", user("x", identity.Role("auditor")), owned, false},
		{"nil actor denied", nil, owned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, visibility.CanView(tt.actor, tt.own))
		})
	}
}

// TestPurpose: Validates that a landlord whose ID coincidentally matches an
// empty ownership field is not granted access.
// Scope: Unit Test
// Security: Fail-closed on missing references
// Expected: Empty landlord/tenant IDs never match any actor.
// Test Case ID: VIS-02
func TestVisibility_CanView_EmptyOwnershipDenied(t *testing.T) {
	nobody := visibility.Ownership{}

	assert.False(t, visibility.CanView(user("landlord-1", identity.RoleLandlord), nobody))
	assert.False(t, visibility.CanView(user("tenant-1", identity.RoleTenant), nobody))
	assert.True(t, visibility.CanView(user("admin-1", identity.RoleAdmin), nobody))
}

// TestPurpose: Validates that query scoping agrees with the point decision
// function for every role.
// Scope: Unit Test (property-style cross-check)
// Expected: Filter.Matches(o) == CanView(actor, o) over a sample of ownerships.
// Test Case ID: VIS-03
func TestVisibility_ScopeAgreesWithCanView(t *testing.T) {
	ownerships := []visibility.Ownership{
		{LandlordID: "landlord-1", TenantID: "tenant-1"},
		{LandlordID: "landlord-2", TenantID: "tenant-1"},
		{LandlordID: "landlord-1"},
		{LandlordID: "landlord-2", TenantID: "tenant-2"},
		{},
	}
	actors := []*identity.User{
		user("admin-1", identity.RoleAdmin),
		user("inspector-1", identity.RoleInspector),
		user("landlord-1", identity.RoleLandlord),
		user("landlord-2", identity.RoleLandlord),
		user("tenant-1", identity.RoleTenant),
		user("tenant-2", identity.RoleTenant),
		user("x", identity.Role("auditor")),
		nil,
	}

	for _, actor := range actors {
		filter := visibility.Scope(actor)
		for _, o := range ownerships {
			assert.Equal(t, visibility.CanView(actor, o), filter.Matches(o),
				"scope and point decision disagree for actor %v ownership %+v", actor, o)
		}
	}
}

// TestPurpose: Validates the role gates for each mutation.
// Scope: Unit Test
// Expected: property creation limited to admin/landlord; inspection and photo
// creation limited to admin/inspector; nil actors denied everywhere.
// Test Case ID: VIS-04
func TestVisibility_MutationGates(t *testing.T) {
	roles := []identity.Role{identity.RoleAdmin, identity.RoleLandlord, identity.RoleTenant, identity.RoleInspector}

	for _, role := range roles {
		actor := user(string(role), role)

		assert.Equal(t,
			role == identity.RoleAdmin || role == identity.RoleLandlord,
			visibility.CanCreateProperty(actor), "CanCreateProperty(%s)", role)

		assert.Equal(t,
			role == identity.RoleAdmin || role == identity.RoleInspector,
			visibility.CanCreateInspection(actor), "CanCreateInspection(%s)", role)

		assert.Equal(t,
			role == identity.RoleAdmin || role == identity.RoleInspector,
			visibility.CanAddPhoto(actor), "CanAddPhoto(%s)", role)
	}

	assert.False(t, visibility.CanCreateProperty(nil))
	assert.False(t, visibility.CanCreateInspection(nil))
	assert.False(t, visibility.CanAddPhoto(nil))
}
