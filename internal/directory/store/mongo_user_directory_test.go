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
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aarogyaai/consent-service/internal/directory/model"
	"github.com/aarogyaai/consent-service/internal/system/config"
	"github.com/aarogyaai/consent-service/test/setup"
)

func TestDocumentIDMapping(t *testing.T) {
	oid := primitive.NewObjectID()

	assert.Equal(t, oid, toDocumentID(oid.Hex()))
	assert.Equal(t, "legacy-id", toDocumentID("legacy-id"))
	assert.Equal(t, oid.Hex(), fromDocumentID(oid))
	assert.Equal(t, "legacy-id", fromDocumentID("legacy-id"))
}

func TestUserDocumentIgnoresEmptyPendingConsent(t *testing.T) {
	doc := userDocument{ID: "u-1", Email: "a@example.com", PendingConsent: &model.PendingConsent{}}
	assert.Nil(t, doc.toSubject().PendingConsent)
}

func TestMongoUserDirectory(t *testing.T) {
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	mongoContainer, err := setup.SetupTestMongo(ctx)
	require.NoError(t, err)
	defer mongoContainer.Terminate(ctx)

	directory, err := NewMongoUserDirectory(ctx, config.MongoDBConfig{
		URI:        mongoContainer.URI,
		Database:   "aarogyaai",
		Collection: "users",
		Timeout:    10 * time.Second,
	})
	require.NoError(t, err)
	defer directory.Close(ctx)

	assert.NoError(t, directory.Ping(ctx))

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoContainer.URI))
	require.NoError(t, err)
	defer client.Disconnect(ctx)

	users := client.Database("aarogyaai").Collection("users_" + primitive.NewObjectID().Hex())
	directory = NewMongoUserDirectoryFromCollection(users, 10*time.Second)
	require.NoError(t, directory.EnsureIndexes(ctx))

	patientID := primitive.NewObjectID()
	_, err = users.InsertMany(ctx, []interface{}{
		bson.M{"_id": patientID, "name": "Asha", "email": "asha@example.com", "role": "patient", "abhaId": "asha@abdm"},
		bson.M{"_id": primitive.NewObjectID(), "name": "Dr. Rao", "email": "rao@example.com", "role": "doctor"},
	})
	require.NoError(t, err)

	subject, err := directory.FindBySubjectExternalID(ctx, "asha@abdm")
	require.NoError(t, err)
	require.NotNil(t, subject)
	assert.Equal(t, patientID.Hex(), subject.ID)
	assert.Nil(t, subject.PendingConsent)

	missing, err := directory.FindBySubjectExternalID(ctx, "nobody@abdm")
	require.NoError(t, err)
	assert.Nil(t, missing)

	requestedAt := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, directory.UpdatePendingConsent(ctx, subject.ID, model.PendingConsent{
		ConsentID:   "c-1",
		RequestedBy: "d-1",
		RequestedAt: requestedAt,
		Status:      "pending",
	}))

	byConsent, err := directory.FindByPendingConsentID(ctx, "c-1")
	require.NoError(t, err)
	require.NotNil(t, byConsent)
	assert.Equal(t, "d-1", byConsent.PendingConsent.RequestedBy)
	assert.True(t, requestedAt.Equal(byConsent.PendingConsent.RequestedAt))

	updated, err := directory.UpdatePendingConsentStatus(ctx, subject.ID, "stale", "rejected")
	require.NoError(t, err)
	assert.False(t, updated)

	updated, err = directory.UpdatePendingConsentStatus(ctx, subject.ID, "c-1", "rejected")
	require.NoError(t, err)
	assert.True(t, updated)

	reloaded, err := directory.FindByID(ctx, subject.ID)
	require.NoError(t, err)
	assert.Equal(t, "rejected", reloaded.PendingConsent.Status)
}
