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

import "time"

type AddrConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

type LogConfig struct {
	LogLevel string `yaml:"log_level"`
	Format   string `yaml:"format"`
}

type AuthConfig struct {
	CORSAllowedOrigins []string            `yaml:"cors_allowed_origins"`
	JWTSecret          string              `yaml:"jwt_secret"`
	UserIDClaim        string              `yaml:"user_id_claim"`
	RequiredRoles      map[string][]string `yaml:"required_roles"`
}

// ConsentConfig controls the consent lifecycle.
type ConsentConfig struct {
	Validity          time.Duration `yaml:"validity"`
	SweepInterval     time.Duration `yaml:"sweep_interval"`
	Retention         time.Duration `yaml:"retention"`
	RejectWhenPending bool          `yaml:"reject_when_pending"`
	Scope             []string      `yaml:"scope"`
	Purpose           string        `yaml:"purpose"`
}

type DirectoryConfig struct {
	// Type is either "mongodb" or "postgres".
	Type string `yaml:"type"`
	// InitSchema applies dbscripts/postgres.sql on start-up.
	InitSchema bool `yaml:"init_schema"`
}

type MongoDBConfig struct {
	URI        string        `yaml:"uri"`
	Database   string        `yaml:"database"`
	Collection string        `yaml:"collection"`
	Timeout    time.Duration `yaml:"timeout"`
}

type DataSourceConfig struct {
	Hostname string `yaml:"hostname"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
}

type EmailConfig struct {
	Enabled     bool          `yaml:"enabled"`
	WebhookURL  string        `yaml:"webhook_url"`
	FrontendURL string        `yaml:"frontend_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SMSConfig struct {
	Enabled   bool   `yaml:"enabled"`
	QueueName string `yaml:"queue_name"`
	Region    string `yaml:"region"`
	Endpoint  string `yaml:"endpoint"`
}

type NotificationConfig struct {
	QueueSize int         `yaml:"queue_size"`
	Workers   int         `yaml:"workers"`
	Email     EmailConfig `yaml:"email"`
	SMS       SMSConfig   `yaml:"sms"`
}

type EventsConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`

	// PublishTimeout bounds each Kafka write.
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

type Config struct {
	Addr         AddrConfig         `yaml:"addr"`
	Log          LogConfig          `yaml:"log"`
	Auth         AuthConfig         `yaml:"auth"`
	Consent      ConsentConfig      `yaml:"consent"`
	Directory    DirectoryConfig    `yaml:"directory"`
	MongoDB      MongoDBConfig      `yaml:"mongodb"`
	DataSource   DataSourceConfig   `yaml:"datasource"`
	Notification NotificationConfig `yaml:"notification"`
	Events       EventsConfig       `yaml:"events"`
}
