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
	"fmt"
	"time"

	"github.com/aarogyaai/consent-service/internal/directory/model"
	"github.com/aarogyaai/consent-service/internal/system/database/client"
	errors2 "github.com/aarogyaai/consent-service/internal/system/errors"
	"github.com/aarogyaai/consent-service/internal/system/log"
)

const selectUserColumns = `SELECT id, name, email, role, abha_id, pending_consent_id, pending_consent_requested_by,
	pending_consent_requested_at, pending_consent_status FROM users`

// PostgresUserDirectory stores users in the users table. The pending consent projection is
// flattened into pending_consent_* columns.
type PostgresUserDirectory struct {
	dbClient client.DBClientInterface
}

// NewPostgresUserDirectory returns a directory backed by the given database client.
func NewPostgresUserDirectory(dbClient client.DBClientInterface) *PostgresUserDirectory {
	return &PostgresUserDirectory{dbClient: dbClient}
}

func (d *PostgresUserDirectory) FindBySubjectExternalID(ctx context.Context, externalID string) (*model.Subject, error) {
	query := selectUserColumns + ` WHERE email = $1 OR abha_id = $1 LIMIT 1`
	return d.findOne(ctx, query, fmt.Sprintf("external id %s", externalID), externalID)
}

func (d *PostgresUserDirectory) FindByID(ctx context.Context, subjectID string) (*model.Subject, error) {
	query := selectUserColumns + ` WHERE id = $1`
	return d.findOne(ctx, query, fmt.Sprintf("id %s", subjectID), subjectID)
}

func (d *PostgresUserDirectory) FindByPendingConsentID(ctx context.Context, consentID string) (*model.Subject, error) {
	query := selectUserColumns + ` WHERE pending_consent_id = $1 LIMIT 1`
	return d.findOne(ctx, query, fmt.Sprintf("consent id %s", consentID), consentID)
}

func (d *PostgresUserDirectory) UpdatePendingConsent(ctx context.Context, subjectID string, pending model.PendingConsent) error {
	query := `UPDATE users SET pending_consent_id = $2, pending_consent_requested_by = $3,
		pending_consent_requested_at = $4, pending_consent_status = $5 WHERE id = $1`

	affected, err := d.dbClient.Execute(ctx, query, subjectID, pending.ConsentID, pending.RequestedBy,
		pending.RequestedAt.UTC(), pending.Status)
	if err != nil {
		return updateError(subjectID, err)
	}
	if affected == 0 {
		return updateError(subjectID, fmt.Errorf("no user with id %s", subjectID))
	}
	return nil
}

func (d *PostgresUserDirectory) UpdatePendingConsentStatus(ctx context.Context, subjectID, consentID, status string) (bool, error) {
	query := `UPDATE users SET pending_consent_status = $3 WHERE id = $1 AND pending_consent_id = $2`

	affected, err := d.dbClient.Execute(ctx, query, subjectID, consentID, status)
	if err != nil {
		return false, updateError(subjectID, err)
	}
	return affected > 0, nil
}

func (d *PostgresUserDirectory) Ping(ctx context.Context) error {
	return d.dbClient.Ping(ctx)
}

func (d *PostgresUserDirectory) Close(_ context.Context) error {
	return d.dbClient.Close()
}

func (d *PostgresUserDirectory) findOne(ctx context.Context, query, target string, args ...interface{}) (*model.Subject, error) {

	results, err := d.dbClient.ExecuteQuery(ctx, query, args...)
	if err != nil {
		errorMsg := fmt.Sprintf("Failed to fetch user for %s", target)
		log.GetLogger().Debug(errorMsg, log.Error(err))
		return nil, errors2.NewServerError(errors2.ErrorMessage{
			Code:        errors2.FETCH_SUBJECT.Code,
			Message:     errors2.FETCH_SUBJECT.Message,
			Description: errorMsg,
		}, err)
	}
	if len(results) == 0 {
		log.GetLogger().Debug(fmt.Sprintf("No user found for %s", target))
		return nil, nil
	}
	return mapRowToSubject(results[0]), nil
}

func mapRowToSubject(row map[string]interface{}) *model.Subject {
	subject := &model.Subject{
		ID:     columnString(row["id"]),
		Name:   columnString(row["name"]),
		Email:  columnString(row["email"]),
		Role:   columnString(row["role"]),
		AbhaID: columnString(row["abha_id"]),
	}
	consentID := columnString(row["pending_consent_id"])
	if consentID == "" {
		return subject
	}
	pending := &model.PendingConsent{
		ConsentID:   consentID,
		RequestedBy: columnString(row["pending_consent_requested_by"]),
		Status:      columnString(row["pending_consent_status"]),
	}
	if requestedAt, ok := row["pending_consent_requested_at"].(time.Time); ok {
		pending.RequestedAt = requestedAt.UTC()
	}
	subject.PendingConsent = pending
	return subject
}

func columnString(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}
