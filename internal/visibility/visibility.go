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

// Package visibility is the single decision point for record access.
// Every read is gated by CanView/Scope and every write by the role gates
// below; handlers and services never check roles on their own.
package visibility

import "github.com/inspectly/inspectly/internal/identity"

// Ownership carries the landlord/tenant references of the property that
// ultimately owns a record. Inspections and photos are never authorized
// against their own fields: callers resolve the chain photo → inspection →
// property and pass the property's ownership here.
type Ownership struct {
	LandlordID string
	TenantID   string // empty when the property is unoccupied
}

// CanView decides whether an actor may read a record with the given
// ownership. Rules are evaluated in precedence order, first match wins:
// admin and inspector see everything, a landlord sees their own
// properties, a tenant the one they occupy, everyone else nothing.
func CanView(actor *identity.User, o Ownership) bool {
	if actor == nil {
		return false
	}
	switch actor.Role {
	case identity.RoleAdmin:
		return true
	case identity.RoleInspector:
		// Inspectors work across all properties.
		return true
	case identity.RoleLandlord:
		return o.LandlordID != "" && o.LandlordID == actor.ID
	case identity.RoleTenant:
		return o.TenantID != "" && o.TenantID == actor.ID
	}
	return false
}

// Filter is the query-scoping counterpart of CanView: a predicate a list
// query applies so that only visible properties are enumerated. The zero
// Filter matches nothing.
type Filter struct {
	All        bool
	LandlordID string
	TenantID   string
}

// Matches reports whether the filter admits the given ownership.
// Repositories that can push the predicate into SQL do so; in-memory
// implementations use Matches directly. Both must agree with CanView.
func (f Filter) Matches(o Ownership) bool {
	if f.All {
		return true
	}
	if f.LandlordID != "" {
		return o.LandlordID == f.LandlordID
	}
	if f.TenantID != "" {
		return o.TenantID == f.TenantID
	}
	return false
}

// Scope returns the list filter for an actor
func Scope(actor *identity.User) Filter {
	if actor == nil {
		return Filter{}
	}
	switch actor.Role {
	case identity.RoleAdmin, identity.RoleInspector:
		return Filter{All: true}
	case identity.RoleLandlord:
		return Filter{LandlordID: actor.ID}
	case identity.RoleTenant:
		return Filter{TenantID: actor.ID}
	}
	return Filter{}
}

// Mutation authorization is role-gated, not ownership-gated. Ownership
// still matters for the target record: callers combine these gates with
// CanView on the property being mutated.

// CanCreateProperty reports whether the actor's role may create properties
func CanCreateProperty(actor *identity.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == identity.RoleAdmin || actor.Role == identity.RoleLandlord
}

// CanCreateInspection reports whether the actor's role may create inspections
func CanCreateInspection(actor *identity.User) bool {
	if actor == nil {
		return false
	}
	return actor.Role == identity.RoleAdmin || actor.Role == identity.RoleInspector
}

// CanAddPhoto reports whether the actor's role may attach photo evidence
func CanAddPhoto(actor *identity.User) bool {
	// Same gate as inspections: evidence is collected by those who inspect.
	return CanCreateInspection(actor)
}
