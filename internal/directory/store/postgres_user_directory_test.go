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

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/aarogyaai/consent-service/internal/directory/model"
	"github.com/aarogyaai/consent-service/internal/system/database/client"
	"github.com/aarogyaai/consent-service/test/setup"
)

func TestMapRowToSubject(t *testing.T) {
	requestedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	subject := mapRowToSubject(map[string]interface{}{
		"id":                           "u-1",
		"name":                         "Asha",
		"email":                        "asha@example.com",
		"role":                         "patient",
		"abha_id":                      []byte("asha@abdm"),
		"pending_consent_id":           "c-1",
		"pending_consent_requested_by": "d-1",
		"pending_consent_requested_at": requestedAt,
		"pending_consent_status":       "pending",
	})

	assert.Equal(t, "u-1", subject.ID)
	assert.Equal(t, "asha@abdm", subject.ExternalID())
	require.NotNil(t, subject.PendingConsent)
	assert.Equal(t, "c-1", subject.PendingConsent.ConsentID)
	assert.Equal(t, requestedAt, subject.PendingConsent.RequestedAt)
}

func TestMapRowToSubject_NoPendingConsent(t *testing.T) {
	subject := mapRowToSubject(map[string]interface{}{
		"id":                 "u-2",
		"email":              "ravi@example.com",
		"abha_id":            nil,
		"pending_consent_id": nil,
	})

	assert.Nil(t, subject.PendingConsent)
	assert.Equal(t, "ravi@example.com", subject.ExternalID())
}

func TestPostgresUserDirectory(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	pg, err := setup.SetupTestPostgres(ctx, "../../../dbscripts/postgres.sql")
	require.NoError(t, err)
	defer pg.Terminate(ctx)

	_, err = pg.DB.ExecContext(ctx, `INSERT INTO users (id, name, email, role, abha_id) VALUES
		('p-1', 'Asha', 'asha@example.com', 'patient', 'asha@abdm'),
		('d-1', 'Dr. Rao', 'rao@example.com', 'doctor', NULL)`)
	require.NoError(t, err)

	directory := NewPostgresUserDirectory(client.NewDBClient(pg.DB))

	t.Run("find by email or abha id", func(t *testing.T) {
		byAbha, err := directory.FindBySubjectExternalID(ctx, "asha@abdm")
		require.NoError(t, err)
		require.NotNil(t, byAbha)
		assert.Equal(t, "p-1", byAbha.ID)

		byEmail, err := directory.FindBySubjectExternalID(ctx, "asha@example.com")
		require.NoError(t, err)
		require.NotNil(t, byEmail)
		assert.Equal(t, "p-1", byEmail.ID)

		missing, err := directory.FindBySubjectExternalID(ctx, "nobody@abdm")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("pending consent projection", func(t *testing.T) {
		requestedAt := time.Now().UTC().Truncate(time.Millisecond)
		require.NoError(t, directory.UpdatePendingConsent(ctx, "p-1", model.PendingConsent{
			ConsentID:   "c-1",
			RequestedBy: "d-1",
			RequestedAt: requestedAt,
			Status:      "pending",
		}))

		subject, err := directory.FindByPendingConsentID(ctx, "c-1")
		require.NoError(t, err)
		require.NotNil(t, subject)
		assert.Equal(t, "p-1", subject.ID)
		assert.True(t, requestedAt.Equal(subject.PendingConsent.RequestedAt))

		updated, err := directory.UpdatePendingConsentStatus(ctx, "p-1", "other", "approved")
		require.NoError(t, err)
		assert.False(t, updated)

		updated, err = directory.UpdatePendingConsentStatus(ctx, "p-1", "c-1", "approved")
		require.NoError(t, err)
		assert.True(t, updated)

		subject, err = directory.FindByID(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "approved", subject.PendingConsent.Status)
	})

	t.Run("unknown subject update fails", func(t *testing.T) {
		err := directory.UpdatePendingConsent(ctx, "missing", model.PendingConsent{ConsentID: "c-2"})
		assert.Error(t, err)
	})

	assert.NoError(t, directory.Ping(ctx))
}
