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

package managers

import (
	"net/http"

	consentHandler "github.com/aarogyaai/consent-service/internal/consent/handler"
	consentService "github.com/aarogyaai/consent-service/internal/consent/service"
	healthHandler "github.com/aarogyaai/consent-service/internal/health_check/handler"
	healthService "github.com/aarogyaai/consent-service/internal/health_check/service"
	"github.com/aarogyaai/consent-service/internal/system/constants"
	"github.com/aarogyaai/consent-service/internal/system/services"
)

type ServiceManagerInterface interface {
	RegisterServices() error
}

type ServiceManager struct {
	mux     *http.ServeMux
	consent consentService.ConsentServiceInterface
	health  healthService.HealthCheckServiceInterface
}

// NewServiceManager creates a new instance of ServiceManager.
func NewServiceManager(mux *http.ServeMux, consent consentService.ConsentServiceInterface,
	health healthService.HealthCheckServiceInterface) ServiceManagerInterface {

	return &ServiceManager{
		mux:     mux,
		consent: consent,
		health:  health,
	}
}

func (sm *ServiceManager) RegisterServices() error {

	services.NewConsentService(sm.mux, constants.ConsentApiPath, consentHandler.NewConsentHandler(sm.consent))
	services.NewHealthService(sm.mux, constants.HealthApiPath, healthHandler.NewHealthHandler(sm.health))
	return nil
}
