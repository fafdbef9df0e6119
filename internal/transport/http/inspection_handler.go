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
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inspectly/inspectly/internal/inspection"
	"github.com/inspectly/inspectly/internal/observability/logger"
	"github.com/inspectly/inspectly/internal/upload"
)

// InspectionResponse is the wire form of an inspection
type InspectionResponse struct {
	ID              string    `json:"id"`
	PropertyID      string    `json:"property_id"`
	Title           string    `json:"title"`
	Summary         string    `json:"summary,omitempty"`
	InspectorUserID string    `json:"inspector_user_id"`
	InspectionDate  string    `json:"inspection_date,omitempty"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

func toInspectionResponse(i *inspection.Inspection) InspectionResponse {
	resp := InspectionResponse{
		ID:              i.ID,
		PropertyID:      i.PropertyID,
		Title:           i.Title,
		Summary:         i.Summary,
		InspectorUserID: i.InspectorUserID,
		Status:          string(i.Status),
		CreatedAt:       i.CreatedAt,
	}
	if i.InspectionDate != nil {
		resp.InspectionDate = i.InspectionDate.Format("2006-01-02")
	}
	return resp
}

// PhotoResponse is the wire form of a photo
type PhotoResponse struct {
	ID        string    `json:"id"`
	Room      string    `json:"room"`
	Filename  string    `json:"filename"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toPhotoResponse(p *inspection.Photo) PhotoResponse {
	return PhotoResponse{
		ID:        p.ID,
		Room:      p.Room,
		Filename:  p.Filename,
		Comment:   p.Comment,
		CreatedAt: p.CreatedAt,
	}
}

// ListInspections returns the inspections of a visible property
func (h *Handler) ListInspections(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	inspections, err := h.inspectionService.ListInspections(r.Context(), actor, propertyID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	resp := make([]InspectionResponse, 0, len(inspections))
	for _, i := range inspections {
		resp = append(resp, toInspectionResponse(i))
	}

	respondJSON(w, http.StatusOK, map[string]any{"inspections": resp})
}

// CreateInspectionRequest represents inspection creation data
type CreateInspectionRequest struct {
	Title          string `json:"title"`
	Summary        string `json:"summary"`
	InspectionDate string `json:"inspection_date"`
}

// CreateInspection creates a draft inspection on a property
func (h *Handler) CreateInspection(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	propertyID := chi.URLParam(r, "propertyID")

	var req CreateInspectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		respondError(w, http.StatusBadRequest, "title is required")
		return
	}

	var inspectionDate *time.Time
	if req.InspectionDate != "" {
		parsed, err := time.Parse("2006-01-02", req.InspectionDate)
		if err != nil {
			respondError(w, http.StatusBadRequest, "inspection_date must be YYYY-MM-DD")
			return
		}
		inspectionDate = &parsed
	}

	insp, err := h.inspectionService.CreateInspection(r.Context(), actor, propertyID, inspection.CreateInspectionInput{
		Title:          req.Title,
		Summary:        req.Summary,
		InspectionDate: inspectionDate,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toInspectionResponse(insp))
}

// RoomGroupResponse is the wire form of a room's photo group
type RoomGroupResponse struct {
	Room   string          `json:"room"`
	Photos []PhotoResponse `json:"photos"`
}

// GetInspection returns a visible inspection with its room-grouped photos
func (h *Handler) GetInspection(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	inspectionID := chi.URLParam(r, "inspectionID")

	detail, err := h.inspectionService.GetDetail(r.Context(), actor, inspectionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	rooms := make([]RoomGroupResponse, 0, len(detail.Rooms))
	for _, g := range detail.Rooms {
		photos := make([]PhotoResponse, 0, len(g.Photos))
		for _, p := range g.Photos {
			photos = append(photos, toPhotoResponse(p))
		}
		rooms = append(rooms, RoomGroupResponse{Room: g.Room, Photos: photos})
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"inspection": toInspectionResponse(detail.Inspection),
		"property":   toPropertyResponse(detail.Property),
		"rooms":      rooms,
	})
}

// maxMultipartMemory bounds the in-memory part of multipart parsing;
// larger files spill to temp files.
const maxMultipartMemory = 8 << 20

// AddPhoto receives a photo file and attaches it to a draft inspection
func (h *Handler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	inspectionID := chi.URLParam(r, "inspectionID")

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	room := r.FormValue("room")
	if room == "" {
		respondError(w, http.StatusBadRequest, "room is required")
		return
	}
	comment := r.FormValue("comment")

	file, header, err := r.FormFile("photo")
	if err != nil {
		respondError(w, http.StatusBadRequest, "photo file is required")
		return
	}
	defer file.Close()

	stored, err := h.uploads.Receive(r.Context(), file, header.Filename)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			respondError(w, http.StatusRequestEntityTooLarge, "file exceeds size limit")
		case errors.Is(err, upload.ErrUnsupportedType):
			respondError(w, http.StatusUnsupportedMediaType, "unsupported file type")
		default:
			slog.ErrorContext(r.Context(), "failed to store upload",
				logger.Error(err),
				logger.InspectionID(inspectionID),
			)
			respondError(w, http.StatusInternalServerError, "failed to store file")
		}
		return
	}

	photo, err := h.inspectionService.AddPhoto(r.Context(), actor, inspectionID, inspection.AddPhotoInput{
		Room:     room,
		Filename: stored.Filename,
		Comment:  comment,
	})
	if err != nil {
		// The file was written before the attachment was authorized;
		// remove it so rejected uploads leave nothing behind.
		if rmErr := h.uploads.Remove(stored.Filename); rmErr != nil {
			slog.ErrorContext(r.Context(), "failed to remove rejected upload",
				logger.Error(rmErr),
				logger.InspectionID(inspectionID),
			)
		}
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, toPhotoResponse(photo))
}

// GetPhotoFile streams the bytes of a photo belonging to a visible
// inspection. The stored filename never appears in the URL; photos are
// addressed by ID and resolved through the same visibility path as the
// inspection itself.
func (h *Handler) GetPhotoFile(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	inspectionID := chi.URLParam(r, "inspectionID")
	photoID := chi.URLParam(r, "photoID")

	photo, err := h.inspectionService.GetPhoto(r.Context(), actor, inspectionID, photoID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	file, err := h.uploads.Open(photo.Filename)
	if err != nil {
		if errors.Is(err, upload.ErrFileNotFound) {
			respondError(w, http.StatusNotFound, "not found")
			return
		}
		slog.ErrorContext(r.Context(), "failed to open photo file",
			logger.Error(err),
			logger.PhotoID(photo.ID),
		)
		respondError(w, http.StatusInternalServerError, "failed to open file")
		return
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(photo.Filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if _, err := io.Copy(w, file); err != nil {
		slog.ErrorContext(r.Context(), "failed to stream photo file",
			logger.Error(err),
			logger.PhotoID(photo.ID),
		)
	}
}
