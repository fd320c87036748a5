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

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDeployment = `
addr:
  host: "0.0.0.0"
  port: 8090
log:
  log_level: "DEBUG"
auth:
  jwt_secret: "${TEST_JWT_SECRET}"
  required_roles:
    consent:request: ["doctor"]
consent:
  validity: 30m
  sweep_interval: 0s
directory:
  type: postgres
`

func writeDeployment(t *testing.T, content string) string {
	t.Helper()
	home := t.TempDir()
	confDir := filepath.Join(home, "repository", "conf")
	require.NoError(t, os.MkdirAll(confDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(confDir, "deployment.yaml"), []byte(content), 0o600))
	return home
}

func TestLoadConfig_ExpandsEnvAndAppliesDefaults(t *testing.T) {
	t.Setenv("TEST_JWT_SECRET", "s3cret")
	home := writeDeployment(t, sampleDeployment)

	cfg, err := LoadConfig(home, "repository/conf/deployment.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8090, cfg.Addr.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, []string{"doctor"}, cfg.Auth.RequiredRoles["consent:request"])
	assert.Equal(t, 30*time.Minute, cfg.Consent.Validity)
	assert.Equal(t, time.Duration(0), cfg.Consent.SweepInterval)
	assert.Equal(t, DirectoryTypePostgres, cfg.Directory.Type)

	// defaults
	assert.Equal(t, "id", cfg.Auth.UserIDClaim)
	assert.Equal(t, DefaultRetention, cfg.Consent.Retention)
	assert.Equal(t, DefaultConsentScope, cfg.Consent.Scope)
	assert.Equal(t, DefaultConsentPurpose, cfg.Consent.Purpose)
	assert.Equal(t, "consent-events", cfg.Events.Topic)
	assert.Equal(t, DefaultPublishTimeout, cfg.Events.PublishTimeout)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(t.TempDir(), "repository/conf/deployment.yaml")
	assert.Error(t, err)
}

func TestApplyDefaults_DoesNotOverrideExplicitValues(t *testing.T) {
	cfg := Config{Consent: ConsentConfig{Validity: 2 * time.Hour, Purpose: "Follow-up"}}
	ApplyDefaults(&cfg)
	assert.Equal(t, 2*time.Hour, cfg.Consent.Validity)
	assert.Equal(t, "Follow-up", cfg.Consent.Purpose)
	assert.Equal(t, DirectoryTypeMongoDB, cfg.Directory.Type)
}
