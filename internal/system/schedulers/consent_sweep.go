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

package schedulers

import (
	"context"
	"time"

	"github.com/aarogyaai/consent-service/internal/consent/service"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// Sweeper is implemented by the consent engine.
type Sweeper interface {
	SweepConsents(ctx context.Context) service.SweepResult
}

// StartConsentSweepScheduler runs the consent sweep on every tick until ctx is cancelled.
// A non-positive interval disables the scheduler.
func StartConsentSweepScheduler(ctx context.Context, sweeper Sweeper, interval time.Duration) {
	logger := log.GetLogger()
	if interval <= 0 {
		logger.Info("Consent sweep scheduler is disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("Consent sweep scheduler started", log.Duration("interval", interval))
	for {
		select {
		case <-ctx.Done():
			logger.Info("Consent sweep scheduler stopped")
			return
		case <-ticker.C:
			sweeper.SweepConsents(ctx)
		}
	}
}
