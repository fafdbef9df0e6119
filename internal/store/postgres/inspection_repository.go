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
	"database/sql"
	"fmt"
	"time"

	"github.com/inspectly/inspectly/internal/inspection"
	"github.com/jackc/pgx/v5"
)

// InspectionRepository implements inspection.InspectionRepository
type InspectionRepository struct {
	db *DB
}

// NewInspectionRepository creates a new inspection repository
func NewInspectionRepository(db *DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// Create creates a new inspection
func (r *InspectionRepository) Create(ctx context.Context, insp *inspection.Inspection) error {
	now := time.Now()

	var inspectionDate any
	if insp.InspectionDate != nil {
		inspectionDate = *insp.InspectionDate
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO inspections (id, property_id, title, summary, inspector_user_id, inspection_date, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		insp.ID, insp.PropertyID, insp.Title, insp.Summary,
		insp.InspectorUserID, inspectionDate, insp.Status, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert inspection: %w", err)
	}

	insp.CreatedAt = now
	insp.UpdatedAt = now

	return nil
}

// GetByID retrieves an inspection by ID
func (r *InspectionRepository) GetByID(ctx context.Context, id string) (*inspection.Inspection, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, property_id, title, summary, inspector_user_id, inspection_date, status, created_at, updated_at
		FROM inspections
		WHERE id = $1
	`, id)

	insp, err := scanInspection(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, inspection.ErrInspectionNotFound
		}
		return nil, fmt.Errorf("failed to get inspection: %w", err)
	}

	return insp, nil
}

// ListByProperty retrieves all inspections of a property, newest first
func (r *InspectionRepository) ListByProperty(ctx context.Context, propertyID string) ([]*inspection.Inspection, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, property_id, title, summary, inspector_user_id, inspection_date, status, created_at, updated_at
		FROM inspections
		WHERE property_id = $1
		ORDER BY created_at DESC, id
	`, propertyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}
	defer rows.Close()

	var inspections []*inspection.Inspection
	for rows.Next() {
		insp, err := scanInspection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inspection: %w", err)
		}
		inspections = append(inspections, insp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list inspections: %w", err)
	}

	return inspections, nil
}

// Finalize transitions an inspection from draft to finalized. The WHERE
// clause makes the transition one-way and repeat calls no-ops.
func (r *InspectionRepository) Finalize(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE inspections SET status = $2, updated_at = NOW()
		WHERE id = $1 AND status = $3
	`, id, inspection.StatusFinalized, inspection.StatusDraft)
	if err != nil {
		return fmt.Errorf("failed to finalize inspection: %w", err)
	}

	return nil
}

func scanInspection(row pgx.Row) (*inspection.Inspection, error) {
	var insp inspection.Inspection
	var inspectionDate sql.NullTime

	err := row.Scan(
		&insp.ID, &insp.PropertyID, &insp.Title, &insp.Summary,
		&insp.InspectorUserID, &inspectionDate, &insp.Status,
		&insp.CreatedAt, &insp.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if inspectionDate.Valid {
		insp.InspectionDate = &inspectionDate.Time
	}

	return &insp, nil
}
