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
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/inspectly/inspectly/internal/audit"
	"github.com/inspectly/inspectly/internal/observability/logger"
	"github.com/inspectly/inspectly/internal/report"
)

// ReportResponse is the wire form of a report artifact reference
type ReportResponse struct {
	InspectionID string    `json:"inspection_id"`
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	ContentType  string    `json:"content_type"`
	CreatedAt    time.Time `json:"created_at"`
}

func toReportResponse(ref *report.ArtifactRef) ReportResponse {
	return ReportResponse{
		InspectionID: ref.InspectionID,
		Key:          ref.Key,
		Size:         ref.Size,
		ContentType:  ref.ContentType,
		CreatedAt:    ref.CreatedAt,
	}
}

// CompileReport builds the report artifact for an inspection, or
// returns the existing one. Safe to call repeatedly.
func (h *Handler) CompileReport(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	inspectionID := chi.URLParam(r, "inspectionID")

	ref, err := h.reportService.GetOrBuild(r.Context(), actor, inspectionID)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to compile report",
			logger.Error(err),
			logger.InspectionID(inspectionID),
		)
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, toReportResponse(ref))
}

// DownloadReport streams the published report artifact
func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	inspectionID := chi.URLParam(r, "inspectionID")

	ref, body, err := h.reportService.Open(r.Context(), actor, inspectionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	defer body.Close()

	h.streamArtifact(w, r, ref, body)
}

// ShareReport issues a short-lived token granting sessionless download
// of one inspection's report
func (h *Handler) ShareReport(w http.ResponseWriter, r *http.Request) {
	actor := GetActor(r.Context())
	inspectionID := chi.URLParam(r, "inspectionID")

	// Only an actor who can already download the report may share it
	ref, err := h.reportService.GetOrBuild(r.Context(), actor, inspectionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	token, err := h.shareLinks.Issue(ref.InspectionID)
	if err != nil {
		if errors.Is(err, report.ErrSharingDisabled) {
			respondError(w, http.StatusNotImplemented, "report sharing is not configured")
			return
		}
		slog.ErrorContext(r.Context(), "failed to issue share token",
			logger.Error(err),
			logger.InspectionID(inspectionID),
		)
		respondError(w, http.StatusInternalServerError, "failed to issue share token")
		return
	}

	h.auditLogger.Log(r.Context(), audit.Event{
		Type:      audit.TypeReportShared,
		ActorID:   actor.ID,
		Resource:  "report",
		IPAddress: getIPAddress(r),
		Metadata:  map[string]any{"inspection_id": inspectionID},
	})

	respondJSON(w, http.StatusCreated, map[string]string{
		"token": token,
	})
}

// DownloadSharedReport streams a report artifact to a share token bearer
func (h *Handler) DownloadSharedReport(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	inspectionID, err := h.shareLinks.Verify(token)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid or expired share token")
		return
	}

	ref, body, err := h.reportService.OpenShared(r.Context(), inspectionID)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	defer body.Close()

	h.streamArtifact(w, r, ref, body)
}

func (h *Handler) streamArtifact(w http.ResponseWriter, r *http.Request, ref *report.ArtifactRef, body io.Reader) {
	w.Header().Set("Content-Type", ref.ContentType)
	if ref.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(ref.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, body); err != nil {
		slog.ErrorContext(r.Context(), "failed to stream report artifact",
			logger.Error(err),
			logger.ArtifactKey(ref.Key),
		)
	}
}
