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

package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitRejectsUnknownLevel(t *testing.T) {
	err := Init("LOUD")
	assert.Error(t, err)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("WARN", "text", &buf))

	GetLogger().Info("hidden message")
	GetLogger().Warn("visible message", String("consent_id", "c-1"))

	out := buf.String()
	assert.NotContains(t, out, "hidden message")
	assert.Contains(t, out, "visible message")
	assert.Contains(t, out, "consent_id=c-1")
}

func TestAuditWritesJSONPayload(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, InitWithWriter("INFO", "json", &buf))

	GetLogger().Audit(AuditEvent{
		InitiatorID:   "doctor-1",
		InitiatorType: InitiatorTypeUser,
		TargetID:      "c-1",
		TargetType:    TargetTypeConsentRequest,
		ActionID:      ActionApproveConsent,
	})

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(buf.String())), &line))
	assert.Equal(t, "AUDIT", line["msg"])

	var event AuditEvent
	require.NoError(t, json.Unmarshal([]byte(line["audit_event"].(string)), &event))
	assert.Equal(t, ActionApproveConsent, event.ActionID)
	assert.NotEmpty(t, event.RecordedAt)
}
