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
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inspectly/inspectly/internal/audit"
	"github.com/inspectly/inspectly/internal/identity"
	"github.com/inspectly/inspectly/internal/inspection"
	"github.com/inspectly/inspectly/internal/report"
	"github.com/inspectly/inspectly/internal/upload"
	"github.com/inspectly/inspectly/internal/visibility"
)

func createMinimalHandler(t *testing.T) *Handler {
	t.Helper()
	return &Handler{
		shareLinks: report.NewShareLinks("test-secret", time.Hour),
		sessionConfig: SessionConfig{
			CookieName:     "session_id",
			CookiePath:     "/",
			CookieSecure:   true,
			CookieHTTPOnly: true,
			CookieSameSite: http.SameSiteLaxMode,
		},
	}
}

// TestPurpose: Validates the domain error to HTTP status mapping, in particular that visibility denials are indistinguishable from absence.
// Scope: Unit Test
// Security: No existence disclosure through status codes
// Expected: ErrNotVisible maps to 404 rather than 403; each domain error has a distinct status.
// Test Case ID: HTP-01
func TestHTTP_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{inspection.ErrNotVisible, http.StatusNotFound},
		{inspection.ErrForbidden, http.StatusForbidden},
		{inspection.ErrInvalidAssignment, http.StatusUnprocessableEntity},
		{inspection.ErrInspectionClosed, http.StatusConflict},
		{report.ErrSourceDataUnavailable, http.StatusBadGateway},
		{report.ErrStorageWriteFailed, http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		respondDomainError(w, tc.err)
		assert.Equal(t, tc.want, w.Code, "error %v", tc.err)
	}
}

// TestPurpose: Validates CSRF enforcement: state-changing requests without the custom header are rejected, safe methods pass.
// Scope: Unit Test
// Security: Cross-Site Request Forgery protection
// Expected: 403 for POST without X-CSRF-Token; 200 for GET and for POST carrying the header.
// Test Case ID: HTP-02
func TestHTTP_CSRFMiddleware(t *testing.T) {
	h := createMinimalHandler(t)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	protected := h.CSRFMiddleware(ok)

	w := httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/properties", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", nil)
	req.Header.Set("X-CSRF-Token", "present")
	protected.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	protected.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/properties", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

// TestPurpose: Validates that unauthenticated requests to protected routes are rejected before any handler runs.
// Scope: Unit Test
// Security: Session cookie requirement on the protected group
// Expected: 401 Unauthorized without a session cookie.
// Test Case ID: HTP-03
func TestHTTP_AuthMiddleware_NoCookie(t *testing.T) {
	h := createMinimalHandler(t)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler must not run without a session")
	})

	w := httptest.NewRecorder()
	h.AuthMiddleware(next).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestPurpose: Validates that a forged or garbage share token is rejected without touching storage.
// Scope: Unit Test
// Security: Signed token verification for sessionless downloads
// Expected: 401 Unauthorized for an invalid token.
// Test Case ID: HTP-04
func TestHTTP_DownloadSharedReport_BadToken(t *testing.T) {
	h := createMinimalHandler(t)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("token", "not-a-jwt")
	req := httptest.NewRequest(http.MethodGet, "/api/v1/shared/reports/not-a-jwt", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.DownloadSharedReport(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestPurpose: Validates per-IP rate limiting: requests beyond the burst are rejected with 429.
// Scope: Unit Test
// Expected: First requests within burst pass; the next is limited; a different IP is unaffected.
// Test Case ID: HTP-05
func TestHTTP_RateLimitMiddleware(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	limited := RateLimitMiddleware(rl)(ok)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		limited.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "request %d within burst", i)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	limited.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	limited.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "other IPs keep their own budget")
}

// Stub repositories backing the photo endpoint tests with fixed records.
type stubPropertyRepo struct{ property *inspection.Property }

func (s *stubPropertyRepo) Create(ctx context.Context, p *inspection.Property) error { return nil }
func (s *stubPropertyRepo) GetByID(ctx context.Context, id string) (*inspection.Property, error) {
	if s.property != nil && s.property.ID == id {
		return s.property, nil
	}
	return nil, inspection.ErrPropertyNotFound
}
func (s *stubPropertyRepo) List(ctx context.Context, f visibility.Filter) ([]*inspection.Property, error) {
	return nil, nil
}

type stubInspectionRepo struct{ inspection *inspection.Inspection }

func (s *stubInspectionRepo) Create(ctx context.Context, i *inspection.Inspection) error { return nil }
func (s *stubInspectionRepo) GetByID(ctx context.Context, id string) (*inspection.Inspection, error) {
	if s.inspection != nil && s.inspection.ID == id {
		return s.inspection, nil
	}
	return nil, inspection.ErrInspectionNotFound
}
func (s *stubInspectionRepo) ListByProperty(ctx context.Context, propertyID string) ([]*inspection.Inspection, error) {
	return nil, nil
}
func (s *stubInspectionRepo) Finalize(ctx context.Context, id string) error { return nil }

type stubPhotoRepo struct{ photo *inspection.Photo }

func (s *stubPhotoRepo) Create(ctx context.Context, p *inspection.Photo) error { return nil }
func (s *stubPhotoRepo) GetByID(ctx context.Context, id string) (*inspection.Photo, error) {
	if s.photo != nil && s.photo.ID == id {
		return s.photo, nil
	}
	return nil, inspection.ErrPhotoNotFound
}
func (s *stubPhotoRepo) ListByInspection(ctx context.Context, inspectionID string) ([]*inspection.Photo, error) {
	return nil, nil
}
func (s *stubPhotoRepo) CountByInspection(ctx context.Context, inspectionID string) (int, error) {
	return 0, nil
}

func withActor(r *http.Request, actor *identity.User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), actorKey, actor))
}

func multipartPhotoBody(t *testing.T, room, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("room", room))
	part, err := mw.CreateFormFile("photo", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &body, mw.FormDataContentType()
}

// TestPurpose: Validates that a photo upload rejected by the attachment rules leaves no file behind in the upload directory.
// Scope: Unit Test
// Security: No orphan file accumulation from unauthorized upload attempts
// Expected: 403 for a tenant actor and an empty upload directory afterwards.
// Test Case ID: HTP-06
func TestHTTP_AddPhoto_RejectedUploadRemoved(t *testing.T) {
	dir := t.TempDir()
	uploads, err := upload.NewStore(dir, 1<<20)
	require.NoError(t, err)

	h := &Handler{
		inspectionService: inspection.NewService(
			&stubPropertyRepo{}, &stubInspectionRepo{}, &stubPhotoRepo{},
			nil, audit.NewSlogLogger(),
		),
		uploads: uploads,
	}

	body, contentType := multipartPhotoBody(t, "Kitchen", "leak.jpg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/inspections/i-1/photos", body)
	req.Header.Set("Content-Type", contentType)
	tenant := &identity.User{ID: "u-tenant", Role: identity.RoleTenant}
	req = withActor(req, tenant)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("inspectionID", "i-1")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

	w := httptest.NewRecorder()
	h.AddPhoto(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected upload must be removed from disk")
}

// TestPurpose: Validates that stored photo files are served back through the visibility-gated photo endpoint.
// Scope: Unit Test
// Security: Photo bytes reachable only via a visible inspection; hidden photos answer 404
// Expected: 200 with the original bytes and an image content type for an admin; 404 for an actor who cannot see the inspection.
// Test Case ID: HTP-07
func TestHTTP_GetPhotoFile(t *testing.T) {
	uploads, err := upload.NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	content := []byte("jpeg-bytes")
	stored, err := uploads.Receive(context.Background(), bytes.NewReader(content), "leak.jpg")
	require.NoError(t, err)

	property := &inspection.Property{ID: "p-1", Address: "12 Elm Street", LandlordID: "u-landlord"}
	insp := &inspection.Inspection{ID: "i-1", PropertyID: property.ID, Status: inspection.StatusDraft}
	photo := &inspection.Photo{ID: "ph-1", InspectionID: insp.ID, Room: "Kitchen", Filename: stored.Filename}

	h := &Handler{
		inspectionService: inspection.NewService(
			&stubPropertyRepo{property: property},
			&stubInspectionRepo{inspection: insp},
			&stubPhotoRepo{photo: photo},
			nil, audit.NewSlogLogger(),
		),
		uploads: uploads,
	}

	request := func(actor *identity.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/inspections/i-1/photos/ph-1", nil)
		req = withActor(req, actor)
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("inspectionID", insp.ID)
		rctx.URLParams.Add("photoID", photo.ID)
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
		w := httptest.NewRecorder()
		h.GetPhotoFile(w, req)
		return w
	}

	w := request(&identity.User{ID: "u-admin", Role: identity.RoleAdmin})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, content, w.Body.Bytes())
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

	w = request(&identity.User{ID: "u-other", Role: identity.RoleLandlord})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
