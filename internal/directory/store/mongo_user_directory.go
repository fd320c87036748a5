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
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/aarogyaai/consent-service/internal/directory/model"
	"github.com/aarogyaai/consent-service/internal/system/config"
	errors2 "github.com/aarogyaai/consent-service/internal/system/errors"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

// MongoUserDirectory stores users in a MongoDB collection with a nested pendingConsent document.
type MongoUserDirectory struct {
	client     *mongo.Client
	collection *mongo.Collection
	timeout    time.Duration
}

type userDocument struct {
	ID             interface{}           `bson:"_id,omitempty"`
	Name           string                `bson:"name"`
	Email          string                `bson:"email"`
	Role           string                `bson:"role"`
	AbhaID         string                `bson:"abhaId,omitempty"`
	PendingConsent *model.PendingConsent `bson:"pendingConsent,omitempty"`
}

// NewMongoUserDirectory connects to MongoDB and returns a directory over the configured collection.
func NewMongoUserDirectory(ctx context.Context, cfg config.MongoDBConfig) (*MongoUserDirectory, error) {

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	directory := NewMongoUserDirectoryFromCollection(client.Database(cfg.Database).Collection(cfg.Collection), cfg.Timeout)
	if err := directory.EnsureIndexes(ctx); err != nil {
		log.GetLogger().Warn("Failed to create user directory indexes", log.Error(err))
	}
	return directory, nil
}

// NewMongoUserDirectoryFromCollection wraps an existing collection.
func NewMongoUserDirectoryFromCollection(collection *mongo.Collection, timeout time.Duration) *MongoUserDirectory {
	return &MongoUserDirectory{
		client:     collection.Database().Client(),
		collection: collection,
		timeout:    timeout,
	}
}

// EnsureIndexes creates the lookup indexes used by the consent flow.
func (d *MongoUserDirectory) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	_, err := d.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}},
		{Keys: bson.D{{Key: "abhaId", Value: 1}}},
		{Keys: bson.D{{Key: "pendingConsent.consentId", Value: 1}}},
	})
	return err
}

func (d *MongoUserDirectory) FindBySubjectExternalID(ctx context.Context, externalID string) (*model.Subject, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": externalID},
		bson.M{"abhaId": externalID},
	}}
	return d.findOne(ctx, filter, fmt.Sprintf("external id %s", externalID))
}

func (d *MongoUserDirectory) FindByID(ctx context.Context, subjectID string) (*model.Subject, error) {
	return d.findOne(ctx, bson.M{"_id": toDocumentID(subjectID)}, fmt.Sprintf("id %s", subjectID))
}

func (d *MongoUserDirectory) FindByPendingConsentID(ctx context.Context, consentID string) (*model.Subject, error) {
	return d.findOne(ctx, bson.M{"pendingConsent.consentId": consentID}, fmt.Sprintf("consent id %s", consentID))
}

func (d *MongoUserDirectory) UpdatePendingConsent(ctx context.Context, subjectID string, pending model.PendingConsent) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, err := d.collection.UpdateOne(ctx,
		bson.M{"_id": toDocumentID(subjectID)},
		bson.M{"$set": bson.M{"pendingConsent": pending}})
	if err != nil {
		return updateError(subjectID, err)
	}
	if result.MatchedCount == 0 {
		return updateError(subjectID, fmt.Errorf("no user with id %s", subjectID))
	}
	return nil
}

func (d *MongoUserDirectory) UpdatePendingConsentStatus(ctx context.Context, subjectID, consentID, status string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	result, err := d.collection.UpdateOne(ctx,
		bson.M{"_id": toDocumentID(subjectID), "pendingConsent.consentId": consentID},
		bson.M{"$set": bson.M{"pendingConsent.status": status}})
	if err != nil {
		return false, updateError(subjectID, err)
	}
	return result.MatchedCount > 0, nil
}

func (d *MongoUserDirectory) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.client.Ping(ctx, nil)
}

func (d *MongoUserDirectory) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

func (d *MongoUserDirectory) findOne(ctx context.Context, filter bson.M, target string) (*model.Subject, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	var doc userDocument
	err := d.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		log.GetLogger().Debug(fmt.Sprintf("No user found for %s", target))
		return nil, nil
	}
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch user for %s", target)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_SUBJECT.Code,
			Message:     errors2.FETCH_SUBJECT.Message,
			Description: errorMsg,
		}, err)
	}
	return doc.toSubject(), nil
}

func (doc *userDocument) toSubject() *model.Subject {
	subject := &model.Subject{
		ID:     fromDocumentID(doc.ID),
		Name:   doc.Name,
		Email:  doc.Email,
		Role:   doc.Role,
		AbhaID: doc.AbhaID,
	}
	if doc.PendingConsent != nil && doc.PendingConsent.ConsentID != "" {
		subject.PendingConsent = doc.PendingConsent
	}
	return subject
}

// toDocumentID maps a subject id to the stored _id, which is an ObjectID for users created
// by the web application.
func toDocumentID(subjectID string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(subjectID); err == nil {
		return oid
	}
	return subjectID
}

func fromDocumentID(id interface{}) string {
	switch v := id.(type) {
	case primitive.ObjectID:
		return v.Hex()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func updateError(subjectID string, err error) error {
	errorMsg := fmt.Sprintf("Failed to update pending consent of user: %s", subjectID)
	log.GetLogger().Debug(errorMsg, log.Error(err))
	return errors2.NewServerError(errors2.ErrorMessage{
		Code:        errors2.UPDATE_PENDING_CONSENT.Code,
		Message:     errors2.UPDATE_PENDING_CONSENT.Message,
		Description: errorMsg,
	}, err)
}
