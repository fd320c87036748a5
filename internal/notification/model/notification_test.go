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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func sampleNotification() *ConsentNotification {
	requestedAt := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	return &ConsentNotification{
		ConsentID:         "c-1",
		SubjectName:       "Asha",
		SubjectEmail:      "asha@example.com",
		SubjectExternalID: "asha@abdm",
		RequesterName:     "Rao",
		Purpose:           "Cancer Screening via CureSight AI",
		Scope:             []string{"Blood Reports", "X-Rays"},
		RequestedAt:       requestedAt,
		ExpiresAt:         requestedAt.Add(time.Hour),
	}
}

func TestFormatValidity(t *testing.T) {
	assert.Equal(t, "1 hour", FormatValidity(time.Hour))
	assert.Equal(t, "2 hours", FormatValidity(2*time.Hour))
	assert.Equal(t, "90 minutes", FormatValidity(90*time.Minute))
	assert.Equal(t, "30 seconds", FormatValidity(30*time.Second))
}

func TestBuildSMSNotification(t *testing.T) {
	n := sampleNotification()

	sms := BuildSMSNotification(n)

	assert.Equal(t, "asha@abdm", sms.To)
	assert.Equal(t, []string{ActionAllow, ActionDeny}, sms.ActionButtons)
	assert.Equal(t, n.RequestedAt, sms.Timestamp)
	assert.Contains(t, sms.Message.En, "Valid for 1 hour")
	assert.Contains(t, sms.Message.En, "Blood Reports, X-Rays")
	assert.Contains(t, sms.Message.Hi, "1 hour")
}

func TestBuildConsentEmail(t *testing.T) {
	email := BuildConsentEmail(sampleNotification(), "http://localhost:5173/")

	assert.Equal(t, "asha@example.com", email.Email)
	assert.Equal(t, "Consent Request from Rao - AarogyaAI", email.Subject)
	assert.Equal(t, EmailTypeConsent, email.Type)
	assert.Contains(t, email.Body, "Dear Asha,")
	assert.Contains(t, email.Body, "http://localhost:5173/consent\n")
	assert.Contains(t, email.Body, "- Request ID: c-1")
	assert.Contains(t, email.Body, "within 1 hour")
}
