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
	"github.com/inspectly/inspectly/internal/visibility"
	"github.com/jackc/pgx/v5"
)

// PropertyRepository implements inspection.PropertyRepository
type PropertyRepository struct {
	db *DB
}

// NewPropertyRepository creates a new property repository
func NewPropertyRepository(db *DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

// Create creates a new property
func (r *PropertyRepository) Create(ctx context.Context, property *inspection.Property) error {
	now := time.Now()

	var tenantID any
	if property.TenantID != "" {
		tenantID = property.TenantID
	}

	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO properties (id, address, rooms_count, amenities, landlord_id, tenant_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		property.ID, property.Address, property.RoomsCount, property.Amenities,
		property.LandlordID, tenantID, now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}

	property.CreatedAt = now
	property.UpdatedAt = now

	return nil
}

// GetByID retrieves a property by ID
func (r *PropertyRepository) GetByID(ctx context.Context, id string) (*inspection.Property, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, address, rooms_count, amenities, landlord_id, tenant_id, created_at, updated_at
		FROM properties
		WHERE id = $1
	`, id)

	property, err := scanProperty(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, inspection.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("failed to get property: %w", err)
	}

	return property, nil
}

// List retrieves the properties admitted by the filter, ordered by
// creation time. The filter predicate is pushed into the query so that
// rows outside the caller's scope are never materialized.
func (r *PropertyRepository) List(ctx context.Context, filter visibility.Filter) ([]*inspection.Property, error) {
	query := `
		SELECT id, address, rooms_count, amenities, landlord_id, tenant_id, created_at, updated_at
		FROM properties
	`
	var args []any

	switch {
	case filter.All:
		// no predicate
	case filter.LandlordID != "":
		query += ` WHERE landlord_id = $1`
		args = append(args, filter.LandlordID)
	case filter.TenantID != "":
		query += ` WHERE tenant_id = $1`
		args = append(args, filter.TenantID)
	default:
		// The zero filter matches nothing
		return nil, nil
	}

	query += ` ORDER BY created_at, id`

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	var properties []*inspection.Property
	for rows.Next() {
		property, err := scanProperty(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan property: %w", err)
		}
		properties = append(properties, property)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}

	return properties, nil
}

func scanProperty(row pgx.Row) (*inspection.Property, error) {
	var property inspection.Property
	var tenantID sql.NullString

	err := row.Scan(
		&property.ID, &property.Address, &property.RoomsCount, &property.Amenities,
		&property.LandlordID, &tenantID, &property.CreatedAt, &property.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if tenantID.Valid {
		property.TenantID = tenantID.String
	}

	return &property, nil
}
