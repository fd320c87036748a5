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
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/aarogyaai/consent-service/internal/consent/model"
	"github.com/aarogyaai/consent-service/internal/consent/service"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/internal/system/constants"
	sysContext "github.com/aarogyaai/consent-service/internal/system/context"
	"github.com/aarogyaai/consent-service/internal/system/errors"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

const testSecret = "handler-test-secret"

type MockConsentService struct {
	mock.Mock
}

func (m *MockConsentService) InitiateConsent(ctx context.Context, subjectExternalID, requesterID string) (*model.ConsentRequest, error) {
	args := m.Called(ctx, subjectExternalID, requesterID)
	consent, _ := args.Get(0).(*model.ConsentRequest)
	return consent, args.Error(1)
}

func (m *MockConsentService) GetConsentStatus(ctx context.Context, consentID string) (*model.ConsentRequest, error) {
	args := m.Called(ctx, consentID)
	consent, _ := args.Get(0).(*model.ConsentRequest)
	return consent, args.Error(1)
}

func (m *MockConsentService) ApproveConsent(ctx context.Context, consentID string) (*model.ConsentRequest, error) {
	args := m.Called(ctx, consentID)
	consent, _ := args.Get(0).(*model.ConsentRequest)
	return consent, args.Error(1)
}

func (m *MockConsentService) RejectConsent(ctx context.Context, consentID string) (*model.ConsentRequest, error) {
	args := m.Called(ctx, consentID)
	consent, _ := args.Get(0).(*model.ConsentRequest)
	return consent, args.Error(1)
}

func (m *MockConsentService) GetPendingConsent(ctx context.Context, subjectID string) (*model.ConsentRequest, error) {
	args := m.Called(ctx, subjectID)
	consent, _ := args.Get(0).(*model.ConsentRequest)
	return consent, args.Error(1)
}

func (m *MockConsentService) SweepConsents(ctx context.Context) service.SweepResult {
	return m.Called(ctx).Get(0).(service.SweepResult)
}

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	config.OverrideRuntime(config.Config{Auth: config.AuthConfig{
		JWTSecret:   testSecret,
		UserIDClaim: "id",
		RequiredRoles: map[string][]string{
			constants.OperationRequestConsent: {"doctor"},
			constants.OperationDecideConsent:  {"patient"},
		},
	}})
	os.Exit(m.Run())
}

func token(t *testing.T, userID, role string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   userID,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func newMux(svc service.ConsentServiceInterface) *http.ServeMux {
	h := NewConsentHandler(svc)
	mux := http.NewServeMux()
	mux.HandleFunc("POST /consent/request", h.RequestConsent)
	mux.HandleFunc("GET /consent/status/{consentId}", h.GetConsentStatus)
	mux.HandleFunc("POST /consent/approve/{consentId}", h.ApproveConsent)
	mux.HandleFunc("POST /consent/reject/{consentId}", h.RejectConsent)
	mux.HandleFunc("GET /consent/pending", h.GetPendingConsent)
	return mux
}

func do(t *testing.T, mux http.Handler, method, path, bearer string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var decoded map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func pendingConsent() *model.ConsentRequest {
	requestedAt := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	return &model.ConsentRequest{
		ConsentID:         "c-1",
		SubjectID:         "p-1",
		SubjectExternalID: "alice@abdm",
		RequesterID:       "d-1",
		Status:            model.StatusPending,
		Scope:             config.DefaultConsentScope,
		Purpose:           config.DefaultConsentPurpose,
		RequestedAt:       requestedAt,
		ExpiresAt:         requestedAt.Add(time.Hour),
	}
}

func TestRequestConsent(t *testing.T) {
	svc := new(MockConsentService)
	svc.On("InitiateConsent", mock.MatchedBy(func(ctx context.Context) bool {
		principal := sysContext.GetPrincipal(ctx)
		return principal != nil && principal.UserID == "d-1"
	}), "alice@abdm", "d-1").Return(pendingConsent(), nil)

	rec, body := do(t, newMux(svc), http.MethodPost, "/consent/request", token(t, "d-1", "doctor"),
		map[string]string{"subjectExternalId": "alice@abdm"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Consent request initiated successfully", body["message"])

	consent := body["consent"].(map[string]interface{})
	assert.Equal(t, "c-1", consent["consentId"])
	assert.Equal(t, "pending", consent["status"])
	assert.Equal(t, "alice@abdm", consent["subjectExternalId"])
	assert.Equal(t, "2025-06-01T10:00:00Z", consent["expiresAt"])
	assert.NotContains(t, consent, "approvedAt")
	assert.NotContains(t, consent, "SubjectID")

	notification := body["notification"].(map[string]interface{})
	assert.Equal(t, "alice@abdm", notification["to"])
	assert.Equal(t, []interface{}{"ALLOW", "DENY"}, notification["actionButtons"])
	svc.AssertExpectations(t)
}

func TestRequestConsent_AcceptsAbhaIDAlias(t *testing.T) {
	svc := new(MockConsentService)
	svc.On("InitiateConsent", mock.Anything, "alice@abdm", "d-1").Return(pendingConsent(), nil)

	rec, _ := do(t, newMux(svc), http.MethodPost, "/consent/request", token(t, "d-1", "doctor"),
		map[string]string{"abhaId": "alice@abdm"})

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestRequestConsent_Errors(t *testing.T) {
	svc := new(MockConsentService)
	svc.On("InitiateConsent", mock.Anything, "bad", "d-1").Return(nil, errors.NewClientError(errors.ErrorMessage{
		Code:    errors.INVALID_SUBJECT_ID.Code,
		Message: errors.INVALID_SUBJECT_ID.Message,
	}, http.StatusBadRequest))
	svc.On("InitiateConsent", mock.Anything, "ghost@abdm", "d-1").Return(nil, errors.NewClientError(errors.ErrorMessage{
		Code:    errors.SUBJECT_NOT_FOUND.Code,
		Message: errors.SUBJECT_NOT_FOUND.Message,
	}, http.StatusNotFound))
	mux := newMux(svc)
	doctor := token(t, "d-1", "doctor")

	rec, body := do(t, mux, http.MethodPost, "/consent/request", doctor, map[string]string{"subjectExternalId": "bad"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ABHA ID format.", body["message"])
	assert.Equal(t, false, body["success"])

	rec, body = do(t, mux, http.MethodPost, "/consent/request", doctor, map[string]string{"subjectExternalId": "ghost@abdm"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Patient not found.", body["message"])

	req := httptest.NewRequest(http.MethodPost, "/consent/request", bytes.NewBufferString("{"))
	req.Header.Set("Authorization", "Bearer "+doctor)
	raw := httptest.NewRecorder()
	mux.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestRequestConsent_RequiresAuthentication(t *testing.T) {
	svc := new(MockConsentService)
	mux := newMux(svc)

	rec, _ := do(t, mux, http.MethodPost, "/consent/request", "", map[string]string{"subjectExternalId": "a@b"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = do(t, mux, http.MethodPost, "/consent/request", token(t, "p-1", "patient"),
		map[string]string{"subjectExternalId": "a@b"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	svc.AssertNotCalled(t, "InitiateConsent", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetConsentStatus(t *testing.T) {
	svc := new(MockConsentService)
	svc.On("GetConsentStatus", mock.Anything, "c-1").Return(pendingConsent(), nil)
	svc.On("GetConsentStatus", mock.Anything, "missing").Return(nil, errors.NewClientError(errors.ErrorMessage{
		Code:    errors.CONSENT_NOT_FOUND.Code,
		Message: errors.CONSENT_NOT_FOUND.Message,
	}, http.StatusNotFound))
	mux := newMux(svc)
	doctor := token(t, "d-1", "doctor")

	rec, body := do(t, mux, http.MethodGet, "/consent/status/c-1", doctor, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pending", body["consent"].(map[string]interface{})["status"])

	rec, _ = do(t, mux, http.MethodGet, "/consent/status/missing", doctor, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApproveAndRejectConsent(t *testing.T) {
	approved := pendingConsent()
	approved.Status = model.StatusApproved
	approvedAt := approved.RequestedAt.Add(time.Minute)
	approved.ApprovedAt = &approvedAt

	svc := new(MockConsentService)
	svc.On("ApproveConsent", mock.Anything, "c-1").Return(approved, nil)
	conflict := &service.ConflictError{
		ClientError: errors.NewClientError(errors.ErrorMessage{
			Code:    errors.CONSENT_NOT_PENDING.Code,
			Message: "Consent already approved",
		}, http.StatusBadRequest),
		Status: model.StatusApproved,
	}
	svc.On("RejectConsent", mock.Anything, "c-1").Return(nil, conflict)
	mux := newMux(svc)
	patient := token(t, "p-1", "patient")

	rec, body := do(t, mux, http.MethodPost, "/consent/approve/c-1", patient, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Consent approved successfully", body["message"])
	assert.Equal(t, "2025-06-01T09:01:00Z", body["consent"].(map[string]interface{})["approvedAt"])

	rec, body = do(t, mux, http.MethodPost, "/consent/reject/c-1", patient, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Consent already approved", body["message"])

	rec, _ = do(t, mux, http.MethodPost, "/consent/approve/c-1", token(t, "d-1", "doctor"), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRejectConsent(t *testing.T) {
	rejected := pendingConsent()
	rejected.Status = model.StatusRejected

	svc := new(MockConsentService)
	svc.On("RejectConsent", mock.Anything, "c-2").Return(rejected, nil)

	rec, body := do(t, newMux(svc), http.MethodPost, "/consent/reject/c-2", token(t, "p-1", "patient"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Consent rejected", body["message"])
	assert.Equal(t, "rejected", body["consent"].(map[string]interface{})["status"])
}

func TestGetPendingConsent(t *testing.T) {
	svc := new(MockConsentService)
	svc.On("GetPendingConsent", mock.Anything, "p-1").Return(pendingConsent(), nil)

	rec, body := do(t, newMux(svc), http.MethodGet, "/consent/pending", token(t, "p-1", "patient"), nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "c-1", body["consent"].(map[string]interface{})["consentId"])
	svc.AssertExpectations(t)
}
