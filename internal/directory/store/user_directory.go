/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package store

import (
	"context"

	"github.com/aarogyaai/consent-service/internal/directory/model"
)

// UserDirectoryInterface is the durable user store consulted by the consent engine.
// Lookups return (nil, nil) when no record matches.
type UserDirectoryInterface interface {
	// FindBySubjectExternalID matches the identifier against the email or the ABHA id.
	FindBySubjectExternalID(ctx context.Context, externalID string) (*model.Subject, error)
	FindByID(ctx context.Context, subjectID string) (*model.Subject, error)
	FindByPendingConsentID(ctx context.Context, consentID string) (*model.Subject, error)
	// UpdatePendingConsent overwrites the single pending-consent slot of the subject.
	UpdatePendingConsent(ctx context.Context, subjectID string, pending model.PendingConsent) error
	// UpdatePendingConsentStatus sets the status only if the slot still carries consentID.
	// It reports whether the projection was updated.
	UpdatePendingConsentStatus(ctx context.Context, subjectID, consentID, status string) (bool, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
