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
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Share link errors
var (
	ErrSharingDisabled   = errors.New("report sharing is disabled")
	ErrShareTokenInvalid = errors.New("share token invalid")
)

const shareIssuer = "inspectly"

// ShareLinks issues and verifies short-lived signed tokens that grant
// sessionless read access to exactly one inspection's report artifact.
type ShareLinks struct {
	secret   []byte
	lifetime time.Duration
}

// NewShareLinks creates a share link issuer. An empty secret disables
// sharing entirely.
func NewShareLinks(secret string, lifetime time.Duration) *ShareLinks {
	return &ShareLinks{secret: []byte(secret), lifetime: lifetime}
}

// Enabled reports whether share links can be issued
func (s *ShareLinks) Enabled() bool {
	return len(s.secret) > 0
}

// Issue creates a signed token scoped to one inspection id
func (s *ShareLinks) Issue(inspectionID string) (string, error) {
	if !s.Enabled() {
		return "", ErrSharingDisabled
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    shareIssuer,
		Subject:   inspectionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign share token: %w", err)
	}
	return signed, nil
}

// Verify validates a token and returns the inspection id it grants
// access to
func (s *ShareLinks) Verify(tokenString string) (string, error) {
	if !s.Enabled() {
		return "", ErrSharingDisabled
	}

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(shareIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrShareTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return "", ErrShareTokenInvalid
	}
	return claims.Subject, nil
}
