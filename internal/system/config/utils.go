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
	"path"
	"time"

	"gopkg.in/yaml.v2"
)

const (
	DefaultConsentValidity = time.Hour
	DefaultRetention       = 24 * time.Hour
	DefaultPublishTimeout  = 2 * time.Second
	DefaultConsentPurpose  = "Cancer Screening via CureSight AI"
	DirectoryTypeMongoDB   = "mongodb"
	DirectoryTypePostgres  = "postgres"
)

// DefaultConsentScope is the fixed set of data categories covered by a consent request.
var DefaultConsentScope = []string{"Health Records", "Blood Reports", "X-Rays", "Prescriptions"}

// LoadConfig reads the YAML deployment file, expanding ${ENV} references, and applies defaults.
func LoadConfig(home, filePath string) (*Config, error) {
	file, err := os.ReadFile(path.Join(home, filePath))
	if err != nil {
		return nil, err
	}

	expanded := os.ExpandEnv(string(file))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}
	ApplyDefaults(&cfg)
	return &cfg, nil
}

// ApplyDefaults fills unset values.
func ApplyDefaults(cfg *Config) {
	if cfg.Addr.Port == 0 {
		cfg.Addr.Port = 4000
	}
	if cfg.Log.LogLevel == "" {
		cfg.Log.LogLevel = "INFO"
	}
	if cfg.Auth.UserIDClaim == "" {
		cfg.Auth.UserIDClaim = "id"
	}
	if cfg.Consent.Validity <= 0 {
		cfg.Consent.Validity = DefaultConsentValidity
	}
	if cfg.Consent.Retention <= 0 {
		cfg.Consent.Retention = DefaultRetention
	}
	if len(cfg.Consent.Scope) == 0 {
		cfg.Consent.Scope = append([]string(nil), DefaultConsentScope...)
	}
	if cfg.Consent.Purpose == "" {
		cfg.Consent.Purpose = DefaultConsentPurpose
	}
	if cfg.Directory.Type == "" {
		cfg.Directory.Type = DirectoryTypeMongoDB
	}
	if cfg.MongoDB.Collection == "" {
		cfg.MongoDB.Collection = "users"
	}
	if cfg.MongoDB.Timeout <= 0 {
		cfg.MongoDB.Timeout = 5 * time.Second
	}
	if cfg.Notification.QueueSize <= 0 {
		cfg.Notification.QueueSize = 1000
	}
	if cfg.Notification.Workers <= 0 {
		cfg.Notification.Workers = 1
	}
	if cfg.Notification.Email.Timeout <= 0 {
		cfg.Notification.Email.Timeout = 10 * time.Second
	}
	if cfg.Notification.Email.FrontendURL == "" {
		cfg.Notification.Email.FrontendURL = "http://localhost:5173"
	}
	if cfg.Events.Topic == "" {
		cfg.Events.Topic = "consent-events"
	}
	if cfg.Events.PublishTimeout <= 0 {
		cfg.Events.PublishTimeout = DefaultPublishTimeout
	}
}
