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

package artifact

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPurpose: Validates the filesystem store round trip: Put publishes the artifact, Head reports its metadata, Get streams the exact bytes back.
// Scope: Unit Test
// Expected: Stored bytes equal retrieved bytes; metadata matches; a replacing Put swaps content completely.
// Test Case ID: ART-01
func TestArtifact_Filesystem_RoundTrip(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := "PROPERTY INSPECTION REPORT\n"
	info, err := store.Put(ctx, "inspections/i1.txt", strings.NewReader(content), "text/plain; charset=utf-8")
	require.NoError(t, err)
	assert.EqualValues(t, len(content), info.Size)

	head, err := store.Head(ctx, "inspections/i1.txt")
	require.NoError(t, err)
	assert.Equal(t, info.Size, head.Size)

	got, rc, err := store.Get(ctx, "inspections/i1.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, string(body))
	assert.Equal(t, info.Size, got.Size)

	// Replacement is total, not an append
	_, err = store.Put(ctx, "inspections/i1.txt", strings.NewReader("v2"), "text/plain; charset=utf-8")
	require.NoError(t, err)
	_, rc, err = store.Get(ctx, "inspections/i1.txt")
	require.NoError(t, err)
	defer rc.Close()
	body, _ = io.ReadAll(rc)
	assert.Equal(t, "v2", string(body))
}

// TestPurpose: Validates that missing keys yield ErrNotFound from both Head and Get.
// Scope: Unit Test
// Expected: ErrNotFound, not a raw filesystem error.
// Test Case ID: ART-02
func TestArtifact_Filesystem_NotFound(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Head(ctx, "inspections/absent.txt")
	assert.ErrorIs(t, err, ErrNotFound)

	_, _, err = store.Get(ctx, "inspections/absent.txt")
	assert.ErrorIs(t, err, ErrNotFound)
}

// TestPurpose: Validates key sanitization: traversal and absolute keys are rejected before touching the filesystem.
// Scope: Unit Test
// Security: Path traversal prevention
// Expected: Errors for "..", absolute, and empty keys; nothing written outside the root.
// Test Case ID: ART-03
func TestArtifact_Filesystem_KeySanitization(t *testing.T) {
	root := t.TempDir()
	store, err := NewFilesystem(root)
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"../escape.txt", "/etc/passwd", "a/../../b", "  "} {
		_, err := store.Put(ctx, key, strings.NewReader("x"), "text/plain")
		assert.Error(t, err, "key %q", key)
	}

	entries, err := os.ReadDir(filepath.Dir(root))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotEqual(t, "escape.txt", e.Name())
	}
}

// TestPurpose: Validates that no partial file is ever visible under the published path while a Put is in flight.
// Scope: Unit Test
// Expected: Readers either see no artifact or see the complete content, never a prefix.
// Test Case ID: ART-04
func TestArtifact_Filesystem_AtomicPublish(t *testing.T) {
	store, err := NewFilesystem(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	content := strings.Repeat("line of report text\n", 4096)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := store.Put(ctx, "inspections/big.txt", strings.NewReader(content), "text/plain; charset=utf-8")
		assert.NoError(t, err)
	}()

	for {
		select {
		case <-done:
			_, rc, err := store.Get(ctx, "inspections/big.txt")
			require.NoError(t, err)
			body, _ := io.ReadAll(rc)
			rc.Close()
			assert.Equal(t, content, string(body))
			return
		default:
			info, err := store.Head(ctx, "inspections/big.txt")
			if err == nil {
				// Anything visible must already be complete
				assert.EqualValues(t, len(content), info.Size)
			}
		}
	}
}
