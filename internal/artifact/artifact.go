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

// Package artifact provides durable storage for compiled report
// documents. Backends must publish atomically: a reader either sees no
// artifact or a complete one, never a partial write.
package artifact

import (
	"context"
	"errors"
	"io"
	"time"
)

// Driver identifies a storage backend
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
	DriverMemory     Driver = "memory"
)

// ErrNotFound indicates no artifact is published under a key
var ErrNotFound = errors.New("artifact not found")

// Info describes a stored artifact
type Info struct {
	Key         string
	Size        int64
	ContentType string
	CreatedAt   time.Time
}

// Store is the durable artifact backend
type Store interface {
	// Put writes the artifact under key and publishes it atomically,
	// replacing any previous artifact under the same key. The artifact
	// is fully durable when Put returns.
	Put(ctx context.Context, key string, r io.Reader, contentType string) (Info, error)

	// Get opens a published artifact for reading
	Get(ctx context.Context, key string) (Info, io.ReadCloser, error)

	// Head reports metadata of a published artifact without opening it
	Head(ctx context.Context, key string) (Info, error)

	// Driver identifies the backend
	Driver() Driver
}
