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
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/inspectly/inspectly/internal/artifact"
	"github.com/inspectly/inspectly/internal/audit"
	"github.com/inspectly/inspectly/internal/identity"
	"github.com/inspectly/inspectly/internal/inspection"
)

// Service is the report compiler. GetOrBuild is idempotent: one canonical
// artifact per inspection id, built at most once, published atomically.
type Service struct {
	core         *inspection.Service
	inspections  inspection.InspectionRepository
	store        artifact.Store
	auditLogger  audit.Logger
	buildTimeout time.Duration

	locks keyedMutex
}

// NewService creates a new report service
func NewService(
	core *inspection.Service,
	inspections inspection.InspectionRepository,
	store artifact.Store,
	auditLogger audit.Logger,
	buildTimeout time.Duration,
) *Service {
	return &Service{
		core:         core,
		inspections:  inspections,
		store:        store,
		auditLogger:  auditLogger,
		buildTimeout: buildTimeout,
	}
}

// GetOrBuild returns the published artifact for an inspection, building
// it first if none exists. Concurrent calls for the same inspection
// serialize on a per-id lock; the second waiter observes the published
// artifact and returns it without rebuilding. A successful first build
// finalizes the inspection.
func (s *Service) GetOrBuild(ctx context.Context, actor *identity.User, inspectionID string) (*ArtifactRef, error) {
	// Authorize and load before taking the build lock. Visibility errors
	// pass through untranslated; infrastructure read failures become
	// ErrSourceDataUnavailable.
	detail, err := s.core.GetDetail(ctx, actor, inspectionID)
	if err != nil {
		if errors.Is(err, inspection.ErrNotVisible) || errors.Is(err, inspection.ErrForbidden) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSourceDataUnavailable, err)
	}

	unlock := s.locks.lock(inspectionID)
	defer unlock()

	key := Key(inspectionID)

	// Fast path: already published.
	if info, err := s.store.Head(ctx, key); err == nil {
		return refFrom(inspectionID, info), nil
	} else if !errors.Is(err, artifact.ErrNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}

	rendered := Render(detail)

	// The artifact is fully written, synced and published when Put
	// returns; there is no window where callers see success before the
	// artifact is durable.
	buildCtx, cancel := context.WithTimeout(ctx, s.buildTimeout)
	defer cancel()

	info, err := s.store.Put(buildCtx, key, bytes.NewReader(rendered), ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}

	// Finalize is the lifecycle's only transition and is one-way; a
	// rebuild request after finalization never re-opens the inspection
	// (it is served from the fast path above).
	if err := s.inspections.Finalize(ctx, inspectionID); err != nil {
		return nil, fmt.Errorf("failed to finalize inspection: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeReportBuilt,
		ActorID:  actor.ID,
		Resource: inspectionID,
		Metadata: map[string]any{"artifact_key": key, "size_bytes": info.Size},
	})
	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeInspectionFinalized,
		ActorID:  actor.ID,
		Resource: inspectionID,
	})

	return refFrom(inspectionID, info), nil
}

// Open streams a published artifact for an actor who may view the
// inspection. Absence of the artifact surfaces as ErrSourceDataUnavailable
// rather than a bare not-found, so callers are steered to GetOrBuild.
func (s *Service) Open(ctx context.Context, actor *identity.User, inspectionID string) (*ArtifactRef, io.ReadCloser, error) {
	if _, err := s.core.GetInspectionIfVisible(ctx, actor, inspectionID); err != nil {
		return nil, nil, err
	}
	return s.open(ctx, inspectionID)
}

// OpenShared streams a published artifact for a bearer of a verified
// share token. No session is involved; the token scope is the single
// inspection id it was issued for.
func (s *Service) OpenShared(ctx context.Context, inspectionID string) (*ArtifactRef, io.ReadCloser, error) {
	return s.open(ctx, inspectionID)
}

func (s *Service) open(ctx context.Context, inspectionID string) (*ArtifactRef, io.ReadCloser, error) {
	info, rc, err := s.store.Get(ctx, Key(inspectionID))
	if err != nil {
		if errors.Is(err, artifact.ErrNotFound) {
			return nil, nil, ErrSourceDataUnavailable
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrStorageWriteFailed, err)
	}
	return refFrom(inspectionID, info), rc, nil
}

func refFrom(inspectionID string, info artifact.Info) *ArtifactRef {
	return &ArtifactRef{
		InspectionID: inspectionID,
		Key:          info.Key,
		Size:         info.Size,
		ContentType:  info.ContentType,
		CreatedAt:    info.CreatedAt,
	}
}

// keyedMutex serializes work per key. Entries accumulate per inspection
// id; the count is bounded by the number of inspections ever reported on
// in this process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (k *keyedMutex) lock(key string) (unlock func()) {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
