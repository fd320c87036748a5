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

package errors

const errorPrefix = "ACS-"

var (
	// Server error codes

	FETCH_SUBJECT = ErrorMessage{
		Code:    errorPrefix + "15001",
		Message: "Error while fetching subject from the user directory.",
	}

	UPDATE_PENDING_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15002",
		Message: "Error while updating the pending consent of the subject.",
	}

	INITIATE_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15003",
		Message: "Error while initiating the consent request.",
	}

	RESOLVE_CONSENT = ErrorMessage{
		Code:    errorPrefix + "15004",
		Message: "Error while resolving the consent request.",
	}

	PARSING_ERROR = ErrorMessage{
		Code:    errorPrefix + "15005",
		Message: "Parsing token failed.",
	}

	DIRECTORY_UNAVAILABLE = ErrorMessage{
		Code:    errorPrefix + "15006",
		Message: "User directory is unavailable.",
	}

	// Client error codes

	BAD_REQUEST = ErrorMessage{
		Code:    errorPrefix + "11001",
		Message: "Invalid body format.",
	}

	UN_AUTHORIZED = ErrorMessage{
		Code:        errorPrefix + "11002",
		Message:     "Unauthorized",
		Description: "Authorization failure. Authorization information was invalid or missing from your request.",
	}

	FORBIDDEN = ErrorMessage{
		Code:        errorPrefix + "11003",
		Message:     "Forbidden",
		Description: "You do not have permission to access this resource.",
	}

	INVALID_SUBJECT_ID = ErrorMessage{
		Code:    errorPrefix + "11004",
		Message: "Invalid ABHA ID format.",
	}

	SUBJECT_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11005",
		Message: "Patient not found.",
	}

	CONSENT_NOT_FOUND = ErrorMessage{
		Code:    errorPrefix + "11006",
		Message: "Consent request not found.",
	}

	CONSENT_ID_REQUIRED = ErrorMessage{
		Code:    errorPrefix + "11007",
		Message: "Consent id is required.",
	}

	CONSENT_NOT_PENDING = ErrorMessage{
		Code:    errorPrefix + "11008",
		Message: "Consent request is no longer pending.",
	}

	CONSENT_ALREADY_PENDING = ErrorMessage{
		Code:    errorPrefix + "11009",
		Message: "Patient already has a pending consent request.",
	}

	NO_PENDING_CONSENT = ErrorMessage{
		Code:    errorPrefix + "11010",
		Message: "No pending consent request.",
	}
)
