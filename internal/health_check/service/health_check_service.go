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
	"context"
	"fmt"
	"time"
)

// Pinger is implemented by dependencies that can report their connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheckServiceInterface defines the service interface.
type HealthCheckServiceInterface interface {
	CheckReadiness(ctx context.Context) error
}

// HealthCheckService is the default implementation.
type HealthCheckService struct {
	directory Pinger
	timeout   time.Duration
}

// NewHealthCheckService returns a service that checks the user directory.
func NewHealthCheckService(directory Pinger, timeout time.Duration) *HealthCheckService {
	return &HealthCheckService{directory: directory, timeout: timeout}
}

func (h *HealthCheckService) CheckReadiness(ctx context.Context) error {

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	if err := h.directory.Ping(ctx); err != nil {
		return fmt.Errorf("user directory connectivity check failed: %v", err)
	}
	return nil
}
