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

//go:build wireinject
// +build wireinject

package wiring

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/config"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/controllers"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/services"
)

var configProviderSet = wire.NewSet(
	ProvideConfigFromPtr,
	ProvideQuotas,
	ProvideFeedbackPolicy,
	ProvideAssignmentPolicy,
	ProvideDeviceTokenOptions,
)

var clientProviderSet = wire.NewSet(
	ProvideArtifactStoreClient,
)

var repositoryProviderSet = wire.NewSet(
	repositories.NewTargetRepo,
	repositories.NewActionRepo,
	repositories.NewActionStatusRepo,
	repositories.NewDistributionSetRepo,
	repositories.NewTargetFilterRepo,
	repositories.NewSQLFilterEvaluator,
	repositories.NewPgAdvisoryLocker,
)

var serviceProviderSet = wire.NewSet(
	services.NewTargetLocks,
	ProvideControllerService,
	services.NewDeploymentManagerService,
	services.NewTargetService,
	services.NewDistributionSetService,
	services.NewTargetFilterService,
	services.NewAutoAssignService,
	ProvideAutoAssignScheduler,
)

var controllerProviderSet = wire.NewSet(
	controllers.NewTargetController,
	controllers.NewActionController,
	controllers.NewDistributionSetController,
	controllers.NewTargetFilterController,
	controllers.NewDDIController,
)

var loggerProviderSet = wire.NewSet(
	ProvideLogger,
)

func InitializeAppParams(cfg *config.Config, database *gorm.DB) (*AppParams, error) {
	wire.Build(
		configProviderSet,
		clientProviderSet,
		loggerProviderSet,
		repositoryProviderSet,
		serviceProviderSet,
		controllerProviderSet,
		wire.Struct(new(AppParams), "*"),
	)
	return &AppParams{}, nil
}
