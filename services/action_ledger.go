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

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// appendStatusEntry appends one entry to an action's status ledger. The
// per-action entry quota and the per-entry message quota apply to every
// writer, controller-reported and server-originated alike.
func appendStatusEntry(ctx context.Context, repo repositories.ActionStatusRepository, quotas Quotas,
	actionID int64, status models.FeedbackStatus, messages []string) error {
	if len(messages) > quotas.MaxMessagesPerStatusEntry {
		return utils.ErrTooManyStatusMessages
	}
	count, err := repo.CountStatusesByActionID(ctx, actionID)
	if err != nil {
		return err
	}
	if count >= int64(quotas.MaxStatusEntriesPerAction) {
		return utils.ErrTooManyStatusEntries
	}
	return repo.AppendStatus(ctx, &models.ActionStatus{
		ActionID: actionID,
		Status:   status,
		Messages: messages,
	})
}
