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

package model

import "time"

// Status values of a consent request. Pending is the only non-terminal status.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusExpired  = "expired"
)

// ConsentRequest is a requester's time-bounded ask for access to a subject's health records.
type ConsentRequest struct {
	ConsentID         string     `json:"consentId"`
	SubjectID         string     `json:"-"`
	SubjectExternalID string     `json:"subjectExternalId"`
	RequesterID       string     `json:"-"`
	Status            string     `json:"status"`
	Scope             []string   `json:"scope"`
	Purpose           string     `json:"purpose"`
	RequestedAt       time.Time  `json:"requestedAt"`
	ApprovedAt        *time.Time `json:"approvedAt,omitempty"`
	RejectedAt        *time.Time `json:"rejectedAt,omitempty"`
	ExpiresAt         time.Time  `json:"expiresAt"`
}

// IsTerminal reports whether the request can no longer change status.
func (c *ConsentRequest) IsTerminal() bool {
	return c.Status != StatusPending
}

// IsExpiredAt reports whether a pending request has passed its deadline at the given instant.
func (c *ConsentRequest) IsExpiredAt(now time.Time) bool {
	return c.Status == StatusPending && now.After(c.ExpiresAt)
}

// DecidedAt returns the time the request left pending, if recorded.
func (c *ConsentRequest) DecidedAt() *time.Time {
	if c.ApprovedAt != nil {
		return c.ApprovedAt
	}
	return c.RejectedAt
}

// Clone returns a deep copy so that callers never share mutable state with the store.
func (c *ConsentRequest) Clone() *ConsentRequest {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Scope = append([]string(nil), c.Scope...)
	if c.ApprovedAt != nil {
		approvedAt := *c.ApprovedAt
		clone.ApprovedAt = &approvedAt
	}
	if c.RejectedAt != nil {
		rejectedAt := *c.RejectedAt
		clone.RejectedAt = &rejectedAt
	}
	return &clone
}
