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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
)

func TestDeriveUpdateStatus_ActiveActionDominates(t *testing.T) {
	active := &models.Action{Status: models.ActionStateRunning, Active: true}
	closed := &models.Action{Status: models.ActionStateError, Active: false}

	status := deriveUpdateStatus(models.TargetStatusInSync, active, closed)
	assert.Equal(t, models.TargetStatusPending, status)
}

func TestDeriveUpdateStatus_NoActionsPreservesRegistration(t *testing.T) {
	assert.Equal(t, models.TargetStatusUnknown,
		deriveUpdateStatus(models.TargetStatusUnknown, nil, nil))
	assert.Equal(t, models.TargetStatusRegistered,
		deriveUpdateStatus(models.TargetStatusRegistered, nil, nil))
	// a target that had actions deleted falls back to registered, not unknown
	assert.Equal(t, models.TargetStatusRegistered,
		deriveUpdateStatus(models.TargetStatusInSync, nil, nil))
}

func TestDeriveUpdateStatus_ClosedOutcomeDecides(t *testing.T) {
	finished := &models.Action{Status: models.ActionStateFinished, Active: false}
	canceled := &models.Action{Status: models.ActionStateCanceled, Active: false}
	failed := &models.Action{Status: models.ActionStateError, Active: false}

	assert.Equal(t, models.TargetStatusInSync,
		deriveUpdateStatus(models.TargetStatusPending, nil, finished))
	assert.Equal(t, models.TargetStatusInSync,
		deriveUpdateStatus(models.TargetStatusPending, nil, canceled))
	assert.Equal(t, models.TargetStatusError,
		deriveUpdateStatus(models.TargetStatusPending, nil, failed))
}

func TestRefreshTargetStatus_PersistsChange(t *testing.T) {
	target := &models.Target{ID: 5, UpdateStatus: models.TargetStatusPending}
	targetRepo := &mockTargetRepo{}
	actionRepo := &mockActionRepo{
		getLatestClosedFunc: func(ctx context.Context, targetID int64) (*models.Action, error) {
			return &models.Action{Status: models.ActionStateFinished, Active: false}, nil
		},
	}

	err := refreshTargetStatus(context.Background(), targetRepo, actionRepo, target)
	require.NoError(t, err)
	assert.Equal(t, models.TargetStatusInSync, target.UpdateStatus)
	require.Len(t, targetRepo.updateCalls, 1)
	assert.Equal(t, models.TargetStatusInSync, targetRepo.updateCalls[0]["update_status"])
}

func TestRefreshTargetStatus_NoChangeNoWrite(t *testing.T) {
	target := &models.Target{ID: 5, UpdateStatus: models.TargetStatusInSync}
	targetRepo := &mockTargetRepo{}
	actionRepo := &mockActionRepo{
		getLatestClosedFunc: func(ctx context.Context, targetID int64) (*models.Action, error) {
			return &models.Action{Status: models.ActionStateCanceled, Active: false}, nil
		},
	}

	err := refreshTargetStatus(context.Background(), targetRepo, actionRepo, target)
	require.NoError(t, err)
	assert.Empty(t, targetRepo.updateCalls)
}
