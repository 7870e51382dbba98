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

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Version is overridden at build time via ldflags
var Version = "dev"

var config *Config

func GetConfig() *Config {
	return config
}

func init() {
	loadEnvs()
}

func loadEnvs() {
	config = &Config{}

	envFilePath := os.Getenv("ENV_FILE_PATH")
	if envFilePath != "" {
		err := godotenv.Load(envFilePath)
		if err != nil {
			panic(err)
		}
	}

	r := &configReader{}
	config.ServerHost = r.readOptionalString("SERVER_HOST", "")
	config.ServerPort = int(r.readOptionalInt64("SERVER_PORT", 8080))
	config.AuthHeader = r.readOptionalString("AUTH_HEADER", "Authorization")
	config.AutoMaxProcsEnabled = r.readOptionalBool("AUTO_MAX_PROCS_ENABLED", true)
	config.CORSAllowedOrigin = r.readOptionalString("CORS_ALLOWED_ORIGIN", "http://localhost:3000")

	// Logging configuration
	config.LogLevel = r.readOptionalString("LOG_LEVEL", "INFO")

	// read database configs
	config.POSTGRESQL = POSTGRESQL{
		Host:     r.readRequiredString("DB_HOST"),
		Port:     int(r.readOptionalInt64("DB_PORT", 5432)),
		User:     r.readRequiredString("DB_USER"),
		Password: r.readRequiredString("DB_PASSWORD"),
		DBName:   r.readRequiredString("DB_NAME"),
	}
	config.POSTGRESQL.DbConfigs = DbConfigs{
		// gorm configs
		SkipDefaultTransaction:    r.readOptionalBool("GORM_SKIP_DEFAULT_TRANSACTION", true),
		SlowThresholdMilliseconds: r.readOptionalInt64("GORM_SLOW_THRESHOLD_MILLISECONDS", 200),

		// sql.DB configs
		MaxIdleCount:       r.readNullableInt64("DB_MAX_IDLE_COUNT"),
		MaxOpenCount:       r.readNullableInt64("DB_MAX_OPEN_COUNT"),
		MaxIdleTimeSeconds: r.readNullableInt64("DB_MAX_IDLE_TIME_SECONDS"),
		MaxLifetimeSeconds: r.readNullableInt64("DB_MAX_LIFETIME_SECONDS"),
	}

	// HTTP Server timeout configurations
	config.ReadTimeoutSeconds = int(r.readOptionalInt64("HTTP_READ_TIMEOUT_SECONDS", 10))
	config.WriteTimeoutSeconds = int(r.readOptionalInt64("HTTP_WRITE_TIMEOUT_SECONDS", 90))
	config.IdleTimeoutSeconds = int(r.readOptionalInt64("HTTP_IDLE_TIMEOUT_SECONDS", 60))
	config.MaxHeaderBytes = int(r.readOptionalInt64("HTTP_MAX_HEADER_BYTES", 65536)) // 1024 * 64

	// Database operation timeout configuration
	config.DbOperationTimeoutSeconds = int(r.readOptionalInt64("DB_OPERATION_TIMEOUT_SECONDS", 10))
	config.HealthCheckTimeoutSeconds = int(r.readOptionalInt64("HEALTH_CHECK_TIMEOUT_SECONDS", 5))

	config.PackageVersion = r.readOptionalString("RMS_VERSION", Version)
	config.IsLocalDevEnv = r.readOptionalBool("IS_LOCAL_DEV_ENV", false)

	// Device (DDI) server configuration
	config.DeviceServer = DeviceServerConfig{
		Host:                   r.readOptionalString("DEVICE_SERVER_HOST", ""),
		Port:                   int(r.readOptionalInt64("DEVICE_SERVER_PORT", 9443)),
		CertDir:                r.readOptionalString("DEVICE_SERVER_CERT_DIR", "./data/certs"),
		ReadTimeoutSeconds:     int(r.readOptionalInt64("DEVICE_SERVER_READ_TIMEOUT_SECONDS", 10)),
		WriteTimeoutSeconds:    int(r.readOptionalInt64("DEVICE_SERVER_WRITE_TIMEOUT_SECONDS", 90)),
		IdleTimeoutSeconds:     int(r.readOptionalInt64("DEVICE_SERVER_IDLE_TIMEOUT_SECONDS", 60)),
		MaxHeaderBytes:         int(r.readOptionalInt64("DEVICE_SERVER_MAX_HEADER_BYTES", 65536)),
		PollingIntervalSeconds: int(r.readOptionalInt64("DDI_POLLING_INTERVAL_SECONDS", 300)),
	}

	// Quotas
	config.Quota = QuotaConfig{
		MaxStatusEntriesPerAction:    int(r.readOptionalInt64("QUOTA_MAX_STATUS_ENTRIES_PER_ACTION", 1000)),
		MaxMessagesPerStatusEntry:    int(r.readOptionalInt64("QUOTA_MAX_MESSAGES_PER_STATUS", 50)),
		MaxAttributeEntriesPerTarget: int(r.readOptionalInt64("QUOTA_MAX_ATTRIBUTE_ENTRIES", 100)),
		MaxTargetsPerAutoAssignment:  int(r.readOptionalInt64("QUOTA_MAX_TARGETS_PER_AUTO_ASSIGNMENT", 20000)),
	}

	// Action feedback policy
	config.Action = ActionConfig{
		RejectStatusOnClose:    r.readOptionalBool("ACTION_REJECT_STATUS_ON_CLOSE", false),
		RepeatedAssignmentSkip: r.readOptionalBool("ACTION_REPEATED_ASSIGNMENT_SKIP", true),
	}

	// Auto-assignment scheduler
	config.AutoAssign = AutoAssignConfig{
		Enabled:              r.readOptionalBool("AUTO_ASSIGN_ENABLED", true),
		CheckIntervalSeconds: int(r.readOptionalInt64("AUTO_ASSIGN_CHECK_INTERVAL_SECONDS", 120)),
	}

	// Device gateway-token validation
	config.DeviceToken = DeviceTokenConfig{
		Enabled: r.readOptionalBool("DEVICE_TOKEN_ENABLED", false),
		Secret:  r.readOptionalString("DEVICE_TOKEN_SECRET", ""),
		Issuer:  r.readOptionalString("DEVICE_TOKEN_ISSUER", "rollout-manager-service"),
	}

	// Artifact store service
	config.ArtifactStore = ArtifactStoreConfig{
		BaseURL:        r.readOptionalString("ARTIFACT_STORE_URL", "http://localhost:8088"),
		TimeoutSeconds: int(r.readOptionalInt64("ARTIFACT_STORE_TIMEOUT_SECONDS", 10)),
	}

	// Validate HTTP server configurations
	validateHTTPServerConfigs(config, r)

	// Validate device server configurations
	validateDeviceServerConfigs(config, r)

	r.logAndExitIfErrorsFound()

	slog.Info("configReader: configs loaded")
}

func validateHTTPServerConfigs(cfg *Config, r *configReader) {
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		r.errors = append(r.errors, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", cfg.ServerPort))
	}
	if cfg.ReadTimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("HTTP_READ_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.ReadTimeoutSeconds))
	}
	if cfg.WriteTimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("HTTP_WRITE_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.WriteTimeoutSeconds))
	}
	if cfg.ReadTimeoutSeconds >= cfg.WriteTimeoutSeconds {
		r.errors = append(r.errors, fmt.Errorf("HTTP_READ_TIMEOUT_SECONDS (%d) must be < HTTP_WRITE_TIMEOUT_SECONDS (%d)",
			cfg.ReadTimeoutSeconds, cfg.WriteTimeoutSeconds))
	}
	if cfg.IdleTimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("HTTP_IDLE_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.IdleTimeoutSeconds))
	}
	if cfg.MaxHeaderBytes < 1024 || cfg.MaxHeaderBytes > 1048576 { // 1KB to 1MB
		r.errors = append(r.errors, fmt.Errorf("HTTP_MAX_HEADER_BYTES must be between 1024 and 1048576, got %d", cfg.MaxHeaderBytes))
	}
}

func validateDeviceServerConfigs(cfg *Config, r *configReader) {
	if cfg.DeviceServer.Port < 1 || cfg.DeviceServer.Port > 65535 {
		r.errors = append(r.errors, fmt.Errorf("DEVICE_SERVER_PORT must be between 1 and 65535, got %d", cfg.DeviceServer.Port))
	}
	if cfg.DeviceServer.ReadTimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("DEVICE_SERVER_READ_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.DeviceServer.ReadTimeoutSeconds))
	}
	if cfg.DeviceServer.WriteTimeoutSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("DEVICE_SERVER_WRITE_TIMEOUT_SECONDS must be greater than 0, got %d", cfg.DeviceServer.WriteTimeoutSeconds))
	}
	if cfg.DeviceServer.CertDir == "" {
		r.errors = append(r.errors, fmt.Errorf("DEVICE_SERVER_CERT_DIR must be non-empty"))
	}
	if cfg.DeviceServer.PollingIntervalSeconds <= 0 {
		r.errors = append(r.errors, fmt.Errorf("DDI_POLLING_INTERVAL_SECONDS must be greater than 0, got %d", cfg.DeviceServer.PollingIntervalSeconds))
	}
	if cfg.DeviceToken.Enabled && cfg.DeviceToken.Secret == "" {
		r.errors = append(r.errors, fmt.Errorf("DEVICE_TOKEN_SECRET must be set when DEVICE_TOKEN_ENABLED is true"))
	}
}
