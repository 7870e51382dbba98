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

package wiring

import (
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/clients/artifactsvc"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/config"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/controllers"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/middleware/devicetoken"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/services"
)

// AppParams contains all wired application dependencies
type AppParams struct {
	Logger *slog.Logger

	// Controllers
	TargetController          controllers.TargetController
	ActionController          controllers.ActionController
	DistributionSetController controllers.DistributionSetController
	TargetFilterController    controllers.TargetFilterController
	DDIController             controllers.DDIController

	// Services
	AutoAssignScheduler services.AutoAssignSchedulerService

	// Middleware
	DeviceTokenOptions devicetoken.Options

	// Database
	DB *gorm.DB
}

func ProvideConfigFromPtr(config *config.Config) config.Config {
	return *config
}

// ProvideLogger provides the configured slog.Logger instance
func ProvideLogger() *slog.Logger {
	return slog.Default()
}

// ProvideQuotas maps the environment quota configuration to the service layer
func ProvideQuotas(cfg config.Config) services.Quotas {
	return services.Quotas{
		MaxStatusEntriesPerAction:    cfg.Quota.MaxStatusEntriesPerAction,
		MaxMessagesPerStatusEntry:    cfg.Quota.MaxMessagesPerStatusEntry,
		MaxAttributeEntriesPerTarget: cfg.Quota.MaxAttributeEntriesPerTarget,
		MaxTargetsPerAutoAssignment:  cfg.Quota.MaxTargetsPerAutoAssignment,
	}
}

// ProvideFeedbackPolicy maps the late-feedback configuration to the service layer
func ProvideFeedbackPolicy(cfg config.Config) services.FeedbackPolicy {
	return services.FeedbackPolicy{
		RejectStatusOnClose: cfg.Action.RejectStatusOnClose,
	}
}

// ProvideAssignmentPolicy maps the assignment configuration to the service layer
func ProvideAssignmentPolicy(cfg config.Config) services.AssignmentPolicy {
	return services.AssignmentPolicy{
		RepeatedAssignmentSkip: cfg.Action.RepeatedAssignmentSkip,
	}
}

// ProvideArtifactStoreClient creates the artifact store client
func ProvideArtifactStoreClient(cfg config.Config, logger *slog.Logger) artifactsvc.ArtifactStoreClient {
	return artifactsvc.NewArtifactStoreClient(
		cfg.ArtifactStore.BaseURL,
		time.Duration(cfg.ArtifactStore.TimeoutSeconds)*time.Second,
		logger,
	)
}

// ProvideControllerService creates the device-facing protocol service
func ProvideControllerService(targetRepo repositories.TargetRepository, actionRepo repositories.ActionRepository,
	actionStatusRepo repositories.ActionStatusRepository, dsRepo repositories.DistributionSetRepository,
	locks *services.TargetLocks, quotas services.Quotas, policy services.FeedbackPolicy, cfg config.Config) services.ControllerService {
	return services.NewControllerService(targetRepo, actionRepo, actionStatusRepo, dsRepo,
		locks, quotas, policy, cfg.DeviceServer.PollingIntervalSeconds)
}

// ProvideAutoAssignScheduler creates the auto-assignment scheduler with the
// configured cycle interval
func ProvideAutoAssignScheduler(autoAssign services.AutoAssignService, locker repositories.AdvisoryLocker,
	logger *slog.Logger, cfg config.Config) services.AutoAssignSchedulerService {
	return services.NewAutoAssignSchedulerService(autoAssign, locker, logger,
		time.Duration(cfg.AutoAssign.CheckIntervalSeconds)*time.Second)
}

// ProvideDeviceTokenOptions maps the gateway-token configuration to the middleware
func ProvideDeviceTokenOptions(cfg config.Config) devicetoken.Options {
	return devicetoken.Options{
		Enabled: cfg.DeviceToken.Enabled,
		Secret:  cfg.DeviceToken.Secret,
		Issuer:  cfg.DeviceToken.Issuer,
	}
}
