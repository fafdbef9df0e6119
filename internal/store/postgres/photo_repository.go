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

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/inspectly/inspectly/internal/inspection"
	"github.com/jackc/pgx/v5"
)

// PhotoRepository implements inspection.PhotoRepository
type PhotoRepository struct {
	db *DB
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new photo. Position comes from the table's sequence,
// which fixes the creation order per inspection.
func (r *PhotoRepository) Create(ctx context.Context, photo *inspection.Photo) error {
	now := time.Now()

	err := r.db.pool.QueryRow(ctx, `
		INSERT INTO photos (id, inspection_id, room, filename, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING position
	`,
		photo.ID, photo.InspectionID, photo.Room, photo.Filename, photo.Comment, now,
	).Scan(&photo.Position)
	if err != nil {
		return fmt.Errorf("failed to insert photo: %w", err)
	}

	photo.CreatedAt = now

	return nil
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id string) (*inspection.Photo, error) {
	var photo inspection.Photo
	err := r.db.pool.QueryRow(ctx, `
		SELECT id, inspection_id, room, filename, comment, position, created_at
		FROM photos
		WHERE id = $1
	`, id).Scan(
		&photo.ID, &photo.InspectionID, &photo.Room, &photo.Filename,
		&photo.Comment, &photo.Position, &photo.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, inspection.ErrPhotoNotFound
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}

// ListByInspection retrieves all photos of an inspection in creation order
func (r *PhotoRepository) ListByInspection(ctx context.Context, inspectionID string) ([]*inspection.Photo, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, inspection_id, room, filename, comment, position, created_at
		FROM photos
		WHERE inspection_id = $1
		ORDER BY position
	`, inspectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	defer rows.Close()

	var photos []*inspection.Photo
	for rows.Next() {
		var photo inspection.Photo
		err := rows.Scan(
			&photo.ID, &photo.InspectionID, &photo.Room, &photo.Filename,
			&photo.Comment, &photo.Position, &photo.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		photos = append(photos, &photo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}

	return photos, nil
}

// CountByInspection returns the number of photos attached to an inspection
func (r *PhotoRepository) CountByInspection(ctx context.Context, inspectionID string) (int, error) {
	var count int
	err := r.db.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM photos WHERE inspection_id = $1
	`, inspectionID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return count, nil
}
