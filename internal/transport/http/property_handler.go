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

package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inspectly/inspectly/internal/inspection"
	"github.com/inspectly/inspectly/internal/observability/logger"
)

// PropertyResponse is the wire form of a property
type PropertyResponse struct {
	ID         string    `json:"id"`
	Address    string    `json:"address"`
	RoomsCount int       `json:"rooms_count"`
	Amenities  string    `json:"amenities,omitempty"`
	LandlordID string    `json:"landlord_id"`
	TenantID   string    `json:"tenant_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toPropertyResponse(p *inspection.Property) PropertyResponse {
	return PropertyResponse{
		ID:         p.ID,
		Address:    p.Address,
		RoomsCount: p.RoomsCount,
		Amenities:  p.Amenities,
		LandlordID: p.LandlordID,
		TenantID:   p.TenantID,
		CreatedAt:  p.CreatedAt,
	}
}

// ListProperties returns the properties visible to the actor
func (h *Handler) ListProperties(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	properties, err := h.inspectionService.ListVisibleProperties(r.Context(), actor)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to list properties", logger.Error(err))
		respondDomainError(w, err)
		return
	}

	resp := make([]PropertyResponse, 0, len(properties))
	for _, p := range properties {
		resp = append(resp, toPropertyResponse(p))
	}

	respondJSON(w, http.StatusOK, map[string]any{"properties": resp})
}

// CreatePropertyRequest represents property creation data
type CreatePropertyRequest struct {
	Address       string `json:"address"`
	RoomsCount    int    `json:"rooms_count"`
	Amenities     string `json:"amenities"`
	LandlordEmail string `json:"landlord_email"`
	TenantEmail   string `json:"tenant_email"`
}

// CreateProperty creates a new property
func (h *Handler) CreateProperty(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())

	var req CreatePropertyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Address == "" {
		respondError(w, http.StatusBadRequest, "address is required")
		return
	}

	property, err := h.inspectionService.CreateProperty(r.Context(), actor, inspection.CreatePropertyInput{
		Address:       req.Address,
		RoomsCount:    req.RoomsCount,
		Amenities:     req.Amenities,
		LandlordEmail: req.LandlordEmail,
		TenantEmail:   req.TenantEmail,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPropertyResponse(property))
}

// GetProperty returns a single visible property
func (h *Handler) GetProperty(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	property, err := h.inspectionService.GetPropertyIfVisible(r.Context(), actor, propertyID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toPropertyResponse(property))
}
