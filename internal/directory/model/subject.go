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

// Subject is a user record of the directory. Patients are the subjects of consent requests;
// doctors are resolved through the same directory to name the requester.
type Subject struct {
	ID             string          `json:"id" bson:"-"`
	Name           string          `json:"name" bson:"name"`
	Email          string          `json:"email" bson:"email"`
	Role           string          `json:"role" bson:"role"`
	AbhaID         string          `json:"abhaId,omitempty" bson:"abhaId,omitempty"`
	PendingConsent *PendingConsent `json:"pendingConsent,omitempty" bson:"pendingConsent,omitempty"`
}

// PendingConsent is the durable projection of the subject's most recent consent request.
type PendingConsent struct {
	ConsentID   string    `json:"consentId" bson:"consentId"`
	RequestedBy string    `json:"requestedBy" bson:"requestedBy"`
	RequestedAt time.Time `json:"requestedAt" bson:"requestedAt"`
	Status      string    `json:"status" bson:"status"`
}

// ExternalID returns the patient-facing identifier of the subject.
func (s *Subject) ExternalID() string {
	if s.AbhaID != "" {
		return s.AbhaID
	}
	return s.Email
}
