// Copyright (c) 2026, WSO2 LLC. (https://www.wso2.com).
//
// WSO2 LLC. licenses this file to you under the Apache License,
// Version 2.0 (the "License"); you may not use this file except
// in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package config

// Config holds all configuration for the application
type Config struct {
	PackageVersion      string
	ServerHost          string
	ServerPort          int
	AuthHeader          string
	AutoMaxProcsEnabled bool
	LogLevel            string
	POSTGRESQL          POSTGRESQL
	// HTTP Server timeout configurations
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
	IdleTimeoutSeconds  int
	MaxHeaderBytes      int
	// Database operation timeout configuration
	DbOperationTimeoutSeconds int
	HealthCheckTimeoutSeconds int

	// CORSAllowedOrigin is the single allowed origin for CORS; use "*" to allow all
	CORSAllowedOrigin string

	// Device (DDI) server configuration — second listener the controllers poll
	DeviceServer DeviceServerConfig

	// Quotas enforced by the deployment core
	Quota QuotaConfig

	// Action feedback handling
	Action ActionConfig

	// Auto-assignment scheduler configuration
	AutoAssign AutoAssignConfig

	// Device gateway-token validation configuration
	DeviceToken DeviceTokenConfig

	// Artifact store service configuration (content hash resolution)
	ArtifactStore ArtifactStoreConfig

	IsLocalDevEnv bool
}

type POSTGRESQL struct {
	Host     string
	Port     int
	User     string
	DBName   string
	Password string `json:"-"`
	DbConfigs
}

type DbConfigs struct {
	// gorm configs
	SlowThresholdMilliseconds int64
	SkipDefaultTransaction    bool

	// go sql configs
	MaxIdleCount       *int64 // zero means defaultMaxIdleConns (2); negative means 0
	MaxOpenCount       *int64 // <= 0 means unlimited
	MaxLifetimeSeconds *int64 // maximum amount of time a connection may be reused
	MaxIdleTimeSeconds *int64
}

// DeviceServerConfig holds configuration for the device-facing (DDI) HTTPS server.
// Controllers poll this listener; it is kept separate from the management API.
type DeviceServerConfig struct {
	Host    string // Server host (default: "")
	Port    int    // Server port (default: 9443)
	CertDir string // Directory for TLS certificates (default: "./data/certs")
	// HTTP Server timeout configurations
	ReadTimeoutSeconds  int
	WriteTimeoutSeconds int
	IdleTimeoutSeconds  int
	MaxHeaderBytes      int
	// PollingIntervalSeconds is the poll-interval hint handed to controllers
	PollingIntervalSeconds int
}

// QuotaConfig caps the unbounded dimensions of the data model. Exceeding a cap
// rejects the operation; nothing is truncated.
type QuotaConfig struct {
	MaxStatusEntriesPerAction    int
	MaxMessagesPerStatusEntry    int
	MaxAttributeEntriesPerTarget int
	MaxTargetsPerAutoAssignment  int
}

// ActionConfig holds feedback-handling policy for closed actions
type ActionConfig struct {
	// RejectStatusOnClose drops feedback for closed actions entirely; when false,
	// late feedback is recorded in the action ledger but never changes state
	RejectStatusOnClose bool
	// RepeatedAssignmentSkip skips targets whose assigned set already equals the
	// requested one instead of opening a duplicate action
	RepeatedAssignmentSkip bool
}

// AutoAssignConfig holds auto-assignment scheduler configuration
type AutoAssignConfig struct {
	Enabled              bool
	CheckIntervalSeconds int
}

// DeviceTokenConfig holds gateway-token validation settings for device routes.
// Authentication on the device channel is optional; when disabled every poll is
// accepted on the controller id alone.
type DeviceTokenConfig struct {
	Enabled bool
	// Secret is the HMAC key the fleet gateway signs controller tokens with
	Secret string `json:"-"`
	Issuer string
}

// ArtifactStoreConfig holds the external binary-artifact store client configuration
type ArtifactStoreConfig struct {
	BaseURL        string
	TimeoutSeconds int
}
