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

package context

import (
	"context"

	"github.com/aarogyaai/consent-service/internal/system/constants"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID string
	Role   string
}

// WithPrincipal adds the authenticated principal to the context.
func WithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, constants.PrincipalContextKey, principal)
}

// GetPrincipal returns the authenticated principal, or nil for unauthenticated contexts.
func GetPrincipal(ctx context.Context) *Principal {
	if principal, ok := ctx.Value(constants.PrincipalContextKey).(*Principal); ok {
		return principal
	}
	return nil
}
