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

package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/inspectly/inspectly/internal/observability/logger"
)

const EnvBootstrapDemoUsers = "BOOTSTRAP_DEMO_USERS"

// demoUsers is the seed set for local development and demos.
// Safe, well-known credentials; gated behind BOOTSTRAP_DEMO_USERS=true.
var demoUsers = []struct {
	email    string
	password string
	role     Role
}{
	{"admin@demo.com", "admin123!", RoleAdmin},
	{"landlord@demo.com", "landlord123!", RoleLandlord},
	{"tenant@demo.com", "tenant123!", RoleTenant},
	{"inspector@demo.com", "inspector123!", RoleInspector},
}

// BootstrapService seeds initial users so a fresh deployment is usable
type BootstrapService struct {
	identityService *Service
}

// NewBootstrapService creates a new bootstrap service
func NewBootstrapService(identityService *Service) *BootstrapService {
	return &BootstrapService{identityService: identityService}
}

// Bootstrap provisions the demo users when enabled and they do not exist yet.
// Idempotent: already-provisioned users are skipped.
func (s *BootstrapService) Bootstrap(ctx context.Context) error {
	if os.Getenv(EnvBootstrapDemoUsers) != "true" {
		return nil
	}

	for _, du := range demoUsers {
		user, err := s.identityService.ProvisionUser(ctx, du.email, du.role)
		if err != nil {
			if errors.Is(err, ErrUserAlreadyExists) {
				continue
			}
			return fmt.Errorf("failed to provision demo user %s: %w", du.email, err)
		}
		if err := s.identityService.AddPassword(ctx, user.ID, du.password); err != nil {
			return fmt.Errorf("failed to set demo password for %s: %w", du.email, err)
		}
		slog.InfoContext(ctx, "provisioned demo user",
			logger.Email(du.email),
			logger.Role(string(du.role)),
		)
	}

	return nil
}
