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

package constants

const ConsentApiPath = "/consent"
const HealthApiPath = "/health"
const ConfigFile = "/repository/conf/deployment.yaml"

type contextKey string

const (
	TraceIDContextKey   contextKey = "trace_id"
	PrincipalContextKey contextKey = "principal"
)

const TraceIDHeader = "X-Trace-Id"

// Operations checked by the authorization layer.
const (
	OperationRequestConsent = "consent:request"
	OperationViewConsent    = "consent:view"
	OperationDecideConsent  = "consent:decide"
	OperationViewPending    = "consent:pending"
)

// SubjectExternalIDPattern accepts "user@abha" and "user@domain.com" style identifiers.
const SubjectExternalIDPattern = `^[^\s@]+@[^\s@]+$`

// Notification channels
const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
)
