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

// Consent lifecycle event types.
const (
	EventTypeConsentInitiated = "consent.initiated"
	EventTypeConsentApproved  = "consent.approved"
	EventTypeConsentRejected  = "consent.rejected"
	EventTypeConsentExpired   = "consent.expired"
)

// Event is a consent lifecycle event published to downstream consumers.
type Event struct {
	EventId        string `json:"event_id"`
	EventType      string `json:"event_type"`
	ConsentId      string `json:"consent_id"`
	SubjectId      string `json:"subject_id"`
	RequesterId    string `json:"requester_id"`
	Status         string `json:"status"`
	EventTimestamp int64  `json:"event_timestamp"`
	TraceId        string `json:"trace_id,omitempty"`
}
