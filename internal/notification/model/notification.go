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
	"fmt"
	"strings"
	"time"
)

// ConsentNotification carries what the channels need to tell a subject about a new request.
type ConsentNotification struct {
	ConsentID         string
	SubjectName       string
	SubjectEmail      string
	SubjectExternalID string
	RequesterName     string
	Purpose           string
	Scope             []string
	RequestedAt       time.Time
	ExpiresAt         time.Time
}

// SMSNotification is the message handed to the SMS gateway.
type SMSNotification struct {
	To            string     `json:"to"`
	Message       SMSMessage `json:"message"`
	ActionButtons []string   `json:"actionButtons"`
	Timestamp     time.Time  `json:"timestamp"`
}

// SMSMessage holds the localised message texts.
type SMSMessage struct {
	En string `json:"en"`
	Hi string `json:"hi"`
}

// EmailMessage is the payload accepted by the mail webhook.
type EmailMessage struct {
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Type    string `json:"type"`
}

const (
	ActionAllow = "ALLOW"
	ActionDeny  = "DENY"

	EmailTypeConsent = "consent"
)

// ValidFor describes the validity window, e.g. "1 hour".
func (n *ConsentNotification) ValidFor() string {
	return FormatValidity(n.ExpiresAt.Sub(n.RequestedAt))
}

// FormatValidity renders a validity window in whole hours or minutes.
func FormatValidity(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		return plural(int(d/time.Hour), "hour")
	case d >= time.Minute:
		return plural(int(d/time.Minute), "minute")
	default:
		return plural(int(d/time.Second), "second")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// BuildSMSNotification renders the bilingual SMS for a consent request.
func BuildSMSNotification(n *ConsentNotification) SMSNotification {
	validFor := n.ValidFor()
	return SMSNotification{
		To: n.SubjectExternalID,
		Message: SMSMessage{
			En: fmt.Sprintf("CureSight AI requests access to your Health History (%s) for Cancer Screening. "+
				"Valid for %s. Reply YES to allow.", strings.Join(n.Scope, ", "), validFor),
			Hi: fmt.Sprintf("CureSight AI आपके स्वास्थ्य इतिहास (%s) तक पहुंच का अनुरोध करता है। "+
				"%s के लिए मान्य। अनुमति देने के लिए YES का जवाब दें।", strings.Join(n.Scope, ", "), validFor),
		},
		ActionButtons: []string{ActionAllow, ActionDeny},
		Timestamp:     n.RequestedAt,
	}
}

// BuildConsentEmail renders the consent request email. frontendURL points at the web application.
func BuildConsentEmail(n *ConsentNotification, frontendURL string) EmailMessage {
	var body strings.Builder
	fmt.Fprintf(&body, "Dear %s,\n\n", n.SubjectName)
	fmt.Fprintf(&body, "Dr. %s has requested access to your medical records through AarogyaAI.\n\n", n.RequesterName)
	body.WriteString("To review and approve this consent request, please log in to your account and visit the Consent page at:\n")
	fmt.Fprintf(&body, "%s/consent\n\n", strings.TrimSuffix(frontendURL, "/"))
	body.WriteString("Request Details:\n")
	fmt.Fprintf(&body, "- Requested by: Dr. %s\n", n.RequesterName)
	fmt.Fprintf(&body, "- Request ID: %s\n", n.ConsentID)
	fmt.Fprintf(&body, "- Purpose: %s\n", n.Purpose)
	fmt.Fprintf(&body, "- Scope: %s\n\n", strings.Join(n.Scope, ", "))
	fmt.Fprintf(&body, "Please approve or deny this request within %s. ", n.ValidFor())
	body.WriteString("If you do not recognize this request, please contact support immediately.\n\n")
	body.WriteString("Thank you,\nAarogyaAI Team")

	return EmailMessage{
		Email:   n.SubjectEmail,
		Subject: fmt.Sprintf("Consent Request from %s - AarogyaAI", n.RequesterName),
		Body:    body.String(),
		Type:    EmailTypeConsent,
	}
}
