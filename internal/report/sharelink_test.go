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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates the share token round trip: an issued token verifies back to the inspection id it was scoped to.
// Scope: Unit Test
// Security: Token scoping to a single resource
// Expected: Verify returns the original inspection id; tokens from a different secret are rejected.
// Test Case ID: SHR-01
func TestReport_ShareLinks_RoundTrip(t *testing.T) {
	links := NewShareLinks("test-secret", time.Hour)

	token, err := links.Issue("insp-123")
	require.NoError(t, err)

	id, err := links.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "insp-123", id)

	other := NewShareLinks("different-secret", time.Hour)
	_, err = other.Verify(token)
	assert.ErrorIs(t, err, ErrShareTokenInvalid)
}

// TestPurpose: Validates expiry enforcement: a token past its lifetime no longer grants access.
// Scope: Unit Test
// Security: Time-bounded sessionless access
// Expected: ErrShareTokenInvalid for an expired token.
// Test Case ID: SHR-02
func TestReport_ShareLinks_Expiry(t *testing.T) {
	links := NewShareLinks("test-secret", -time.Minute)

	token, err := links.Issue("insp-123")
	require.NoError(t, err)

	_, err = links.Verify(token)
	assert.ErrorIs(t, err, ErrShareTokenInvalid)
}

// TestPurpose: Validates that sharing is disabled entirely when no secret is configured.
// Scope: Unit Test
// Expected: Issue and Verify both fail with ErrSharingDisabled.
// Test Case ID: SHR-03
func TestReport_ShareLinks_Disabled(t *testing.T) {
	links := NewShareLinks("", time.Hour)

	assert.False(t, links.Enabled())

	_, err := links.Issue("insp-123")
	assert.ErrorIs(t, err, ErrSharingDisabled)

	_, err = links.Verify("whatever")
	assert.ErrorIs(t, err, ErrSharingDisabled)
}
