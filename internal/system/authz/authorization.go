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

package authz

import (
	"fmt"
	"slices"

	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// ValidatePermission checks whether the role may perform the operation. Operations without
// a configured role list are open to every authenticated user.
func ValidatePermission(role string, operation string) bool {

	logger := log.GetLogger()
	requiredRoles := config.GetRuntime().Config.Auth.RequiredRoles
	allowed, ok := requiredRoles[operation]
	if !ok || len(allowed) == 0 {
		return true
	}

	if role == "" {
		logger.Debug(fmt.Sprintf("No role provided for operation: %s", operation))
		return false
	}
	if !slices.Contains(allowed, role) {
		logger.Debug(fmt.Sprintf("Role %s is not permitted for operation: %s", role, operation))
		return false
	}
	return true
}
