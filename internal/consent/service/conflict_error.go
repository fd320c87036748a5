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

package service

import (
	"fmt"
	"net/http"

	errors2 "github.com/aarogyaai/consent-service/internal/system/errors"
)

// ConflictError reports an operation attempted against a consent request that is not pending.
type ConflictError struct {
	*errors2.ClientError
	Status string
}

func newConflictError(status, consentID string) *ConflictError {
	return &ConflictError{
		ClientError: errors2.NewClientError(errors2.ErrorMessage{
			Code:        errors2.CONSENT_NOT_PENDING.Code,
			Message:     fmt.Sprintf("Consent already %s", status),
			Description: fmt.Sprintf("Consent request %s is %s and can no longer be decided.", consentID, status),
		}, http.StatusBadRequest),
		Status: status,
	}
}

func (e *ConflictError) Unwrap() error {
	return e.ClientError
}
