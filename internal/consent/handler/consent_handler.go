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

package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aarogyaai/consent-service/internal/consent/model"
	"github.com/aarogyaai/consent-service/internal/consent/service"
	notificationModel "github.com/aarogyaai/consent-service/internal/notification/model"
	"github.com/aarogyaai/consent-service/internal/system/constants"
	sysContext "github.com/aarogyaai/consent-service/internal/system/context"
	"github.com/aarogyaai/consent-service/internal/system/errors"
	"github.com/aarogyaai/consent-service/internal/system/security"
	"github.com/aarogyaai/consent-service/internal/system/utils"
)

// ConsentRequestBody is the body of POST /consent/request. AbhaID is accepted as an alias.
type ConsentRequestBody struct {
	SubjectExternalID string `json:"subjectExternalId"`
	AbhaID            string `json:"abhaId"`
}

// ConsentResponse is the envelope of every successful consent response.
type ConsentResponse struct {
	Success      bool                               `json:"success"`
	Message      string                             `json:"message,omitempty"`
	Consent      *model.ConsentRequest              `json:"consent"`
	Notification *notificationModel.SMSNotification `json:"notification,omitempty"`
}

type ConsentHandler struct {
	service service.ConsentServiceInterface
}

func NewConsentHandler(consentService service.ConsentServiceInterface) *ConsentHandler {
	return &ConsentHandler{service: consentService}
}

// RequestConsent handles POST /consent/request
func (h *ConsentHandler) RequestConsent(w http.ResponseWriter, r *http.Request) {

	principal, err := security.AuthnAndAuthz(r, constants.OperationRequestConsent)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	var body ConsentRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		clientError := errors.NewClientError(errors.ErrorMessage{
			Code:        errors.BAD_REQUEST.Code,
			Message:     errors.BAD_REQUEST.Message,
			Description: utils.HandleDecodeError(err, "consent request"),
		}, http.StatusBadRequest)
		utils.HandleError(w, clientError)
		return
	}
	subjectExternalID := strings.TrimSpace(body.SubjectExternalID)
	if subjectExternalID == "" {
		subjectExternalID = strings.TrimSpace(body.AbhaID)
	}

	ctx := sysContext.WithPrincipal(r.Context(), principal)
	consent, err := h.service.InitiateConsent(ctx, subjectExternalID, principal.UserID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	sms := notificationModel.BuildSMSNotification(service.ToNotification(consent))
	utils.WriteJSON(w, http.StatusOK, ConsentResponse{
		Success:      true,
		Message:      "Consent request initiated successfully",
		Consent:      consent,
		Notification: &sms,
	})
}

// GetConsentStatus handles GET /consent/status/{consentId}
func (h *ConsentHandler) GetConsentStatus(w http.ResponseWriter, r *http.Request) {

	principal, err := security.AuthnAndAuthz(r, constants.OperationViewConsent)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	ctx := sysContext.WithPrincipal(r.Context(), principal)
	consent, err := h.service.GetConsentStatus(ctx, r.PathValue("consentId"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ConsentResponse{Success: true, Consent: consent})
}

// ApproveConsent handles POST /consent/approve/{consentId}
func (h *ConsentHandler) ApproveConsent(w http.ResponseWriter, r *http.Request) {

	principal, err := security.AuthnAndAuthz(r, constants.OperationDecideConsent)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	ctx := sysContext.WithPrincipal(r.Context(), principal)
	consent, err := h.service.ApproveConsent(ctx, r.PathValue("consentId"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ConsentResponse{
		Success: true,
		Message: "Consent approved successfully",
		Consent: consent,
	})
}

// RejectConsent handles POST /consent/reject/{consentId}
func (h *ConsentHandler) RejectConsent(w http.ResponseWriter, r *http.Request) {

	principal, err := security.AuthnAndAuthz(r, constants.OperationDecideConsent)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	ctx := sysContext.WithPrincipal(r.Context(), principal)
	consent, err := h.service.RejectConsent(ctx, r.PathValue("consentId"))
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ConsentResponse{
		Success: true,
		Message: "Consent rejected",
		Consent: consent,
	})
}

// GetPendingConsent handles GET /consent/pending for the authenticated subject.
func (h *ConsentHandler) GetPendingConsent(w http.ResponseWriter, r *http.Request) {

	principal, err := security.AuthnAndAuthz(r, constants.OperationViewPending)
	if err != nil {
		utils.HandleError(w, err)
		return
	}

	ctx := sysContext.WithPrincipal(r.Context(), principal)
	consent, err := h.service.GetPendingConsent(ctx, principal.UserID)
	if err != nil {
		utils.HandleError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ConsentResponse{Success: true, Consent: consent})
}
