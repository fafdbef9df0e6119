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

// Package upload stores photo files received over HTTP. Files are
// renamed to opaque generated names so client-supplied filenames never
// touch the filesystem.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/inspectly/inspectly/internal/id"
)

// Upload errors
var (
	ErrFileTooLarge    = errors.New("uploaded file exceeds size limit")
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrFileNotFound    = errors.New("uploaded file not found")
)

// allowedExtensions is the set of photo file extensions accepted for
// inspection photos.
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// Stored describes a file after it has been written to disk.
type Stored struct {
	// Filename is the generated on-disk name, safe to persist and
	// echo back to clients.
	Filename string
	// OriginalName is the client-supplied name, kept for display only.
	OriginalName string
	ContentType  string
	Size         int64
}

// Store writes uploaded photo files into a single directory with
// generated names.
type Store struct {
	dir      string
	maxBytes int64
}

// NewStore creates the upload directory if needed and returns a store.
func NewStore(dir string, maxBytes int64) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, maxBytes: maxBytes}, nil
}

// Receive reads the stream to disk under a generated name. The original
// filename is only used to derive the extension and content type.
func (s *Store) Receive(ctx context.Context, r io.Reader, originalName string) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return nil, ErrUnsupportedType
	}

	name := id.NewUUIDv7() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create upload file: %w", err)
	}

	// Read one byte past the limit so oversize streams are detected
	// without trusting the declared length.
	limited := io.LimitReader(r, s.maxBytes+1)
	size, err := io.Copy(f, limited)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("failed to write upload file: %w", err)
	}
	if size > s.maxBytes {
		f.Close()
		os.Remove(path)
		return nil, ErrFileTooLarge
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("failed to close upload file: %w", err)
	}

	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	return &Stored{
		Filename:     name,
		OriginalName: filepath.Base(originalName),
		ContentType:  contentType,
		Size:         size,
	}, nil
}

// Open returns a reader for a previously stored file. The name must be
// one produced by Receive.
func (s *Store) Open(name string) (io.ReadCloser, error) {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return nil, ErrFileNotFound
	}
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open upload file: %w", err)
	}
	return f, nil
}

// Remove deletes a previously stored file. Used to clean up when the
// photo attachment the file was received for is rejected. Removing a
// missing file is not an error.
func (s *Store) Remove(name string) error {
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return ErrFileNotFound
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove upload file: %w", err)
	}
	return nil
}
