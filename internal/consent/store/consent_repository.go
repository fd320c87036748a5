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
	"fmt"
	"time"

	"github.com/aarogyaai/consent-service/internal/consent/model"
	dirModel "github.com/aarogyaai/consent-service/internal/directory/model"
	dirStore "github.com/aarogyaai/consent-service/internal/directory/store"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// ConsentRepository resolves consent requests from the in-memory store first and falls back
// to the pending consent projection kept in the user directory.
type ConsentRepository struct {
	requests  ConsentRequestStoreInterface
	directory dirStore.UserDirectoryInterface
	validity  time.Duration
	scope     []string
	purpose   string
}

// NewConsentRepository creates a repository over the given store and directory. Validity,
// scope and purpose are used to rebuild records the directory only keeps a projection of.
func NewConsentRepository(requests ConsentRequestStoreInterface, directory dirStore.UserDirectoryInterface,
	validity time.Duration, scope []string, purpose string) *ConsentRepository {

	return &ConsentRepository{
		requests:  requests,
		directory: directory,
		validity:  validity,
		scope:     append([]string(nil), scope...),
		purpose:   purpose,
	}
}

// Requests returns the in-memory store backing the repository.
func (r *ConsentRepository) Requests() ConsentRequestStoreInterface {
	return r.requests
}

// Resolve returns the consent request for the id, or nil when neither tier knows it.
// A record rebuilt from the directory is inserted into the in-memory store.
func (r *ConsentRepository) Resolve(ctx context.Context, consentID string) (*model.ConsentRequest, error) {

	if consent, ok := r.requests.Get(consentID); ok {
		return consent, nil
	}

	subject, err := r.directory.FindByPendingConsentID(ctx, consentID)
	if err != nil {
		return nil, err
	}
	if subject == nil || subject.PendingConsent == nil {
		return nil, nil
	}

	rebuilt := r.Reconstruct(subject)
	log.GetLogger().Debug(fmt.Sprintf("Rebuilt consent request %s from the user directory", consentID),
		log.String("status", rebuilt.Status))
	return r.requests.PutIfAbsent(rebuilt), nil
}

// Reconstruct builds a consent request from the subject's pending consent projection.
func (r *ConsentRepository) Reconstruct(subject *dirModel.Subject) *model.ConsentRequest {
	pending := subject.PendingConsent
	return &model.ConsentRequest{
		ConsentID:         pending.ConsentID,
		SubjectID:         subject.ID,
		SubjectExternalID: subject.ExternalID(),
		RequesterID:       pending.RequestedBy,
		Status:            pending.Status,
		Scope:             append([]string(nil), r.scope...),
		Purpose:           r.purpose,
		RequestedAt:       pending.RequestedAt,
		ExpiresAt:         pending.RequestedAt.Add(r.validity),
	}
}

// Save stores a new consent request in memory and overwrites the subject's pending projection.
func (r *ConsentRepository) Save(ctx context.Context, consent *model.ConsentRequest) error {

	r.requests.Put(consent)
	return r.directory.UpdatePendingConsent(ctx, consent.SubjectID, dirModel.PendingConsent{
		ConsentID:   consent.ConsentID,
		RequestedBy: consent.RequesterID,
		RequestedAt: consent.RequestedAt,
		Status:      consent.Status,
	})
}

// SyncProjection writes the status to the directory if the subject's projection still refers
// to this request. Failures are logged; the in-memory record stays authoritative.
func (r *ConsentRepository) SyncProjection(ctx context.Context, consent *model.ConsentRequest) bool {

	updated, err := r.directory.UpdatePendingConsentStatus(ctx, consent.SubjectID, consent.ConsentID, consent.Status)
	if err != nil {
		log.GetLogger().Warn(fmt.Sprintf("Failed to persist status of consent request %s", consent.ConsentID),
			log.String("status", consent.Status), log.Error(err))
		return false
	}
	if !updated {
		log.GetLogger().Debug(fmt.Sprintf("Pending consent projection no longer refers to %s", consent.ConsentID))
	}
	return updated
}
