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

package session

import (
	"context"
	"testing"
	"time"

	"github.com/inspectly/inspectly/internal/identity"
)

// MockRepository is a simple in-memory implementation of Repository
type MockRepository struct {
	sessions map[string]*Session
}

func NewMockRepository() *MockRepository {
	return &MockRepository{sessions: make(map[string]*Session)}
}

func (m *MockRepository) Create(ctx context.Context, sess *Session) error {
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MockRepository) Get(ctx context.Context, sessionID string) (*Session, error) {
	s, ok := m.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *MockRepository) Touch(ctx context.Context, sessionID string, lastSeenAt time.Time) error {
	s, ok := m.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastSeenAt = lastSeenAt
	return nil
}

func (m *MockRepository) Delete(ctx context.Context, sessionID string) error {
	delete(m.sessions, sessionID)
	return nil
}

func (m *MockRepository) DeleteByUserID(ctx context.Context, userID string) error {
	for id, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, id)
		}
	}
	return nil
}

func (m *MockRepository) DeleteExpired(ctx context.Context) error {
	for id, s := range m.sessions {
		if s.IsExpired() {
			delete(m.sessions, id)
		}
	}
	return nil
}

// MockDirectory resolves users by id from a fixed set
type MockDirectory struct {
	users map[string]*identity.User
}

func (m *MockDirectory) GetUser(ctx context.Context, userID string) (*identity.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, identity.ErrUserNotFound
	}
	return u, nil
}

// TestPurpose: Validates the session lifecycle: creation, actor resolution, expiry, and deletion.
// Scope: Unit Test
// Security: Session validity windows and token opacity
// Expected: A fresh session resolves to its user; expired sessions are rejected and removed; deleted sessions no longer resolve.
// Test Case ID: SES-01
func TestSession_Service_Lifecycle(t *testing.T) {
	repo := NewMockRepository()
	user := &identity.User{ID: "u-1", Email: "a@example.com", Role: identity.RoleInspector}
	dir := &MockDirectory{users: map[string]*identity.User{user.ID: user}}
	s := NewService(repo, dir, time.Hour, 30*time.Minute)

	ctx := context.Background()

	sess, err := s.Create(ctx, user.ID, "127.0.0.1", "go-test")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if sess.ID == "" {
		t.Fatal("expected opaque session token")
	}

	actor, err := s.ResolveActor(ctx, sess.ID)
	if err != nil {
		t.Fatalf("failed to resolve actor: %v", err)
	}
	if actor.ID != user.ID {
		t.Errorf("expected user %s, got %s", user.ID, actor.ID)
	}

	// Expire the session in place
	sess.ExpiresAt = time.Now().Add(-time.Minute)
	_, err = s.Get(ctx, sess.ID)
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired, got %v", err)
	}
	if _, ok := repo.sessions[sess.ID]; ok {
		t.Error("expected expired session to be deleted")
	}

	// Unknown token
	_, err = s.ResolveActor(ctx, "no-such-token")
	if err == nil {
		t.Error("expected error for unknown session token")
	}
}

// TestPurpose: Validates idle timeout enforcement independent of absolute expiry.
// Scope: Unit Test
// Expected: A session idle past the timeout is rejected even though its lifetime has not elapsed.
// Test Case ID: SES-02
func TestSession_Service_IdleTimeout(t *testing.T) {
	repo := NewMockRepository()
	user := &identity.User{ID: "u-1", Email: "a@example.com", Role: identity.RoleAdmin}
	dir := &MockDirectory{users: map[string]*identity.User{user.ID: user}}
	s := NewService(repo, dir, 24*time.Hour, 10*time.Minute)

	ctx := context.Background()

	sess, err := s.Create(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	sess.LastSeenAt = time.Now().Add(-time.Hour)
	_, err = s.Get(ctx, sess.ID)
	if err != ErrSessionExpired {
		t.Errorf("expected ErrSessionExpired for idle session, got %v", err)
	}

	// A refreshed session stays valid
	sess2, _ := s.Create(ctx, user.ID, "", "")
	if err := s.Refresh(ctx, sess2.ID); err != nil {
		t.Fatalf("failed to refresh: %v", err)
	}
	if _, err := s.Get(ctx, sess2.ID); err != nil {
		t.Errorf("expected refreshed session to be valid, got %v", err)
	}
}

// TestPurpose: Validates that a session whose user has been removed resolves to an error rather than a stale actor.
// Scope: Unit Test
// Security: Orphaned session rejection
// Expected: ErrSessionInvalid when the user directory no longer knows the user.
// Test Case ID: SES-03
func TestSession_Service_OrphanedSession(t *testing.T) {
	repo := NewMockRepository()
	dir := &MockDirectory{users: map[string]*identity.User{}}
	s := NewService(repo, dir, time.Hour, 30*time.Minute)

	ctx := context.Background()

	sess, err := s.Create(ctx, "deleted-user", "", "")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}

	_, err = s.ResolveActor(ctx, sess.ID)
	if err != ErrSessionInvalid {
		t.Errorf("expected ErrSessionInvalid, got %v", err)
	}
}
