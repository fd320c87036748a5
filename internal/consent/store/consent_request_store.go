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
	"errors"
	"sync"

	"github.com/aarogyaai/consent-service/internal/consent/model"
)

// ErrConsentRequestNotFound is returned by Update when no record is held for the id.
var ErrConsentRequestNotFound = errors.New("consent request not found")

// ConsentRequestStoreInterface is the process-local table of consent requests.
// Records handed out are copies; changes go through Put, PutIfAbsent or Update.
type ConsentRequestStoreInterface interface {
	Get(consentID string) (*model.ConsentRequest, bool)
	Put(consent *model.ConsentRequest)
	// PutIfAbsent inserts the record unless one already exists and returns the stored record.
	PutIfAbsent(consent *model.ConsentRequest) *model.ConsentRequest
	// Update applies mutate to the stored record atomically. When mutate fails the stored record
	// is left untouched and the current record is returned with the error.
	Update(consentID string, mutate func(consent *model.ConsentRequest) error) (*model.ConsentRequest, error)
	Evict(consentIDs ...string)
	Snapshot() []*model.ConsentRequest
	Len() int
}

// ConsentRequestStore keeps consent requests in memory for the lifetime of the process.
type ConsentRequestStore struct {
	mu       sync.RWMutex
	requests map[string]*model.ConsentRequest
}

// NewConsentRequestStore creates an empty store.
func NewConsentRequestStore() *ConsentRequestStore {
	return &ConsentRequestStore{
		requests: make(map[string]*model.ConsentRequest),
	}
}

func (s *ConsentRequestStore) Get(consentID string) (*model.ConsentRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	consent, ok := s.requests[consentID]
	if !ok {
		return nil, false
	}
	return consent.Clone(), true
}

func (s *ConsentRequestStore) Put(consent *model.ConsentRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[consent.ConsentID] = consent.Clone()
}

func (s *ConsentRequestStore) PutIfAbsent(consent *model.ConsentRequest) *model.ConsentRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.requests[consent.ConsentID]; ok {
		return existing.Clone()
	}
	s.requests[consent.ConsentID] = consent.Clone()
	return consent.Clone()
}

func (s *ConsentRequestStore) Update(consentID string,
	mutate func(consent *model.ConsentRequest) error) (*model.ConsentRequest, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.requests[consentID]
	if !ok {
		return nil, ErrConsentRequestNotFound
	}

	working := current.Clone()
	if err := mutate(working); err != nil {
		return current.Clone(), err
	}
	working.ConsentID = consentID
	s.requests[consentID] = working
	return working.Clone(), nil
}

func (s *ConsentRequestStore) Evict(consentIDs ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, id := range consentIDs {
		delete(s.requests, id)
	}
}

func (s *ConsentRequestStore) Snapshot() []*model.ConsentRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]*model.ConsentRequest, 0, len(s.requests))
	for _, consent := range s.requests {
		snapshot = append(snapshot, consent.Clone())
	}
	return snapshot
}

func (s *ConsentRequestStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests)
}
