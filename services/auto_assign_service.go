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

package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// initiator recorded on actions created by auto-assignment
const autoAssignInitiator = "auto-assignment"

// AutoAssignService evaluates target filter queries with an auto-assignment
// link and assigns the linked distribution set to every matching target that
// does not carry it yet.
type AutoAssignService interface {
	// RunAll processes every filter with an auto-assignment link
	RunAll(ctx context.Context) error
	// RunForFilter processes a single filter on demand and returns the number
	// of targets that received a new action
	RunForFilter(ctx context.Context, filterID int64) (int, error)
}

type autoAssignService struct {
	filterRepo    repositories.TargetFilterRepository
	evaluator     repositories.FilterEvaluator
	deploymentMgr DeploymentManagerService
	locker        repositories.AdvisoryLocker
	quotas        Quotas
	logger        *slog.Logger
}

// NewAutoAssignService creates an AutoAssignService instance
func NewAutoAssignService(filterRepo repositories.TargetFilterRepository, evaluator repositories.FilterEvaluator,
	deploymentMgr DeploymentManagerService, locker repositories.AdvisoryLocker, quotas Quotas, logger *slog.Logger) AutoAssignService {
	return &autoAssignService{
		filterRepo:    filterRepo,
		evaluator:     evaluator,
		deploymentMgr: deploymentMgr,
		locker:        locker,
		quotas:        quotas,
		logger:        logger,
	}
}

// RunAll processes every filter with an auto-assignment link. A failing
// filter is logged and skipped, the remaining filters still run.
func (s *autoAssignService) RunAll(ctx context.Context) error {
	filters, err := s.filterRepo.ListFiltersWithAutoAssign(ctx)
	if err != nil {
		return fmt.Errorf("failed to list auto-assign filters: %w", err)
	}
	for _, filter := range filters {
		if _, err := s.runFilter(ctx, filter); err != nil {
			s.logger.Error("Auto-assignment failed for filter", "filter", filter.Name, "error", err)
		}
	}
	return nil
}

// RunForFilter processes one filter on demand
func (s *autoAssignService) RunForFilter(ctx context.Context, filterID int64) (int, error) {
	filter, err := s.filterRepo.GetFilterByID(ctx, filterID)
	if err != nil {
		return 0, err
	}
	if filter == nil {
		return 0, utils.ErrTargetFilterNotFound
	}
	if filter.AutoAssignDistributionSetID == nil {
		return 0, utils.ErrInvalidInput
	}
	return s.runFilter(ctx, filter)
}

// runFilter evaluates and assigns one filter under its per-filter advisory
// lock, so concurrent cycles and on-demand triggers never double-assign.
func (s *autoAssignService) runFilter(ctx context.Context, filter *models.TargetFilterQuery) (int, error) {
	assigned := 0
	acquired, err := s.locker.WithLock(ctx, repositories.AdvisoryLockFilterBase+filter.ID, func(ctx context.Context) error {
		n, err := s.assignMatchingTargets(ctx, filter)
		assigned = n
		return err
	})
	if err != nil {
		return 0, err
	}
	if !acquired {
		s.logger.Debug("Another instance is processing filter, skipping", "filter", filter.Name)
	}
	return assigned, nil
}

func (s *autoAssignService) assignMatchingTargets(ctx context.Context, filter *models.TargetFilterQuery) (int, error) {
	// the population may have grown past the cap since the link was attached
	count, err := s.evaluator.CountMatchingTargets(ctx, filter.Query)
	if err != nil {
		return 0, err
	}
	if count > int64(s.quotas.MaxTargetsPerAutoAssignment) {
		s.logger.Warn("Filter exceeds auto-assignment target quota, skipping",
			"filter", filter.Name, "matching", count, "quota", s.quotas.MaxTargetsPerAutoAssignment)
		return 0, utils.ErrQuotaExceeded
	}

	targets, err := s.evaluator.MatchingTargets(ctx, filter.Query)
	if err != nil {
		return 0, err
	}

	dsID := *filter.AutoAssignDistributionSetID
	actionType := models.ActionTypeForced
	if filter.AutoAssignActionType != nil {
		actionType = *filter.AutoAssignActionType
	}

	controllerIDs := make([]string, 0, len(targets))
	for _, target := range targets {
		if target.AssignedDistributionSetID != nil && *target.AssignedDistributionSetID == dsID {
			continue
		}
		controllerIDs = append(controllerIDs, target.ControllerID)
	}
	if len(controllerIDs) == 0 {
		return 0, nil
	}

	queryID := filter.ID
	resp, err := s.deploymentMgr.AssignDistributionSet(ctx, dsID, controllerIDs, actionType, nil, &queryID, autoAssignInitiator)
	if err != nil {
		return 0, err
	}
	if resp.Assigned > 0 {
		s.logger.Info("Auto-assignment created actions",
			"filter", filter.Name, "distributionSetID", dsID, "assigned", resp.Assigned)
	}
	return resp.Assigned, nil
}
