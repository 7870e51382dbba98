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
	"time"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
)

// deriveUpdateStatus computes a target's rollup status from its action
// history. Any active action dominates; with no actions at all the
// registration state (unknown or registered) is preserved; otherwise the
// outcome of the most recently closed action decides.
func deriveUpdateStatus(current models.TargetUpdateStatus, activeAction, latestClosed *models.Action) models.TargetUpdateStatus {
	if activeAction != nil {
		return models.TargetStatusPending
	}
	if latestClosed == nil {
		if current == models.TargetStatusUnknown {
			return models.TargetStatusUnknown
		}
		return models.TargetStatusRegistered
	}
	switch latestClosed.Status {
	case models.ActionStateFinished, models.ActionStateCanceled:
		return models.TargetStatusInSync
	case models.ActionStateError:
		return models.TargetStatusError
	}
	return current
}

// refreshTargetStatus re-derives and persists the target's update status.
// Callers hold the target lock.
func refreshTargetStatus(ctx context.Context, targetRepo repositories.TargetRepository,
	actionRepo repositories.ActionRepository, target *models.Target) error {
	active, err := actionRepo.GetActiveActionByTargetID(ctx, target.ID)
	if err != nil {
		return err
	}
	latestClosed, err := actionRepo.GetLatestClosedActionByTargetID(ctx, target.ID)
	if err != nil {
		return err
	}
	status := deriveUpdateStatus(target.UpdateStatus, active, latestClosed)
	if status == target.UpdateStatus {
		return nil
	}
	target.UpdateStatus = status
	return targetRepo.UpdateTarget(ctx, target, map[string]interface{}{
		"update_status": status,
		"updated_at":    time.Now().UTC(),
	})
}
