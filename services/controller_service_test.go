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
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

func testQuotas() Quotas {
	return Quotas{
		MaxStatusEntriesPerAction:    10,
		MaxMessagesPerStatusEntry:    5,
		MaxAttributeEntriesPerTarget: 3,
		MaxTargetsPerAutoAssignment:  100,
	}
}

func newTestControllerService(targetRepo *mockTargetRepo, actionRepo *mockActionRepo,
	statusRepo *mockActionStatusRepo, dsRepo *mockDSRepo, policy FeedbackPolicy) ControllerService {
	return NewControllerService(targetRepo, actionRepo, statusRepo, dsRepo,
		NewTargetLocks(), testQuotas(), policy, 300)
}

func knownTarget() *models.Target {
	return &models.Target{ID: 1, ControllerID: "device-1", UpdateStatus: models.TargetStatusPending}
}

func targetRepoWith(target *models.Target) *mockTargetRepo {
	return &mockTargetRepo{
		getByControllerIDFunc: func(ctx context.Context, controllerID string) (*models.Target, error) {
			if target != nil && controllerID == target.ControllerID {
				return target, nil
			}
			return nil, nil
		},
		getByIDFunc: func(ctx context.Context, id int64) (*models.Target, error) {
			if target != nil && id == target.ID {
				return target, nil
			}
			return nil, nil
		},
	}
}

func actionRepoWith(action *models.Action) *mockActionRepo {
	return &mockActionRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*models.Action, error) {
			if action != nil && id == action.ID {
				return action, nil
			}
			return nil, nil
		},
		getActiveFunc: func(ctx context.Context, targetID int64) (*models.Action, error) {
			if action != nil && action.Active && action.TargetID == targetID {
				return action, nil
			}
			return nil, nil
		},
		getLatestClosedFunc: func(ctx context.Context, targetID int64) (*models.Action, error) {
			if action != nil && !action.Active && action.TargetID == targetID {
				return action, nil
			}
			return nil, nil
		},
	}
}

// --- polling ---

func TestPollTarget_FirstContactRegisters(t *testing.T) {
	target := &models.Target{ID: 1, ControllerID: "device-1", UpdateStatus: models.TargetStatusUnknown}
	targetRepo := &mockTargetRepo{
		findOrCreateFunc: func(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error) {
			assert.NotEmpty(t, securityToken)
			return target, true, nil
		},
	}
	svc := newTestControllerService(targetRepo, &mockActionRepo{}, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	resp, err := svc.PollTarget(context.Background(), "device-1", "10.0.0.5")
	require.NoError(t, err)
	assert.Equal(t, 300, resp.Config.PollingIntervalSeconds)
	assert.Nil(t, resp.Deployment)
	assert.Nil(t, resp.Cancel)

	assert.Equal(t, models.TargetStatusRegistered, target.UpdateStatus)
	require.Len(t, targetRepo.updateCalls, 1)
	assert.Equal(t, models.TargetStatusRegistered, targetRepo.updateCalls[0]["update_status"])
	assert.Equal(t, "10.0.0.5", targetRepo.updateCalls[0]["last_address"])
}

func TestPollTarget_RunningActionYieldsDeploymentLink(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	targetRepo := targetRepoWith(target)
	targetRepo.findOrCreateFunc = func(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error) {
		return target, false, nil
	}
	svc := newTestControllerService(targetRepo, actionRepoWith(action), &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	resp, err := svc.PollTarget(context.Background(), "device-1", "10.0.0.5")
	require.NoError(t, err)
	require.NotNil(t, resp.Deployment)
	assert.Equal(t, int64(42), resp.Deployment.ActionID)
	assert.Equal(t, int64(7), resp.Deployment.DistributionSetID)
	assert.Nil(t, resp.Cancel)
}

func TestPollTarget_CancelingActionYieldsCancelLink(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateCanceling, Active: true}
	targetRepo := targetRepoWith(target)
	targetRepo.findOrCreateFunc = func(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error) {
		return target, false, nil
	}
	svc := newTestControllerService(targetRepo, actionRepoWith(action), &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	resp, err := svc.PollTarget(context.Background(), "device-1", "10.0.0.5")
	require.NoError(t, err)
	require.NotNil(t, resp.Cancel)
	assert.Equal(t, int64(42), resp.Cancel.ActionID)
	assert.Nil(t, resp.Deployment)
}

// --- update feedback ---

func TestReportUpdateFeedback_FinishedClosesAndRecordsInstalled(t *testing.T) {
	target := knownTarget()
	assignedDS := int64(7)
	target.AssignedDistributionSetID = &assignedDS
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	targetRepo := targetRepoWith(target)
	actionRepo := actionRepoWith(action)
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepo, actionRepo, statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackFinished, []string{"done"})
	require.NoError(t, err)

	assert.Equal(t, models.ActionStateFinished, action.Status)
	assert.False(t, action.Active)
	require.Len(t, statusRepo.appendedStatuses, 1)
	assert.Equal(t, models.FeedbackFinished, statusRepo.appendedStatuses[0].Status)

	require.NotNil(t, target.InstalledDistributionSetID)
	assert.Equal(t, int64(7), *target.InstalledDistributionSetID)
	assert.Equal(t, models.TargetStatusInSync, target.UpdateStatus)
}

func TestReportUpdateFeedback_FinishedOnUnassignedSetSkipsInstalled(t *testing.T) {
	target := knownTarget()
	assignedDS := int64(8)
	target.AssignedDistributionSetID = &assignedDS
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackFinished, []string{"done"})
	require.NoError(t, err)

	// the action closed, but its set is no longer the assigned one
	assert.Equal(t, models.ActionStateFinished, action.Status)
	assert.Nil(t, target.InstalledDistributionSetID)
}

func TestReportUpdateFeedback_InformationalKeepsState(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	actionRepo := actionRepoWith(action)
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepo, statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackDownload, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ActionStateRunning, action.Status)
	assert.True(t, action.Active)
	assert.Empty(t, actionRepo.stateUpdates)
	require.Len(t, statusRepo.appendedStatuses, 1)
}

func TestReportUpdateFeedback_LateRejectedByPolicy(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateFinished, Active: false}
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{},
		FeedbackPolicy{RejectStatusOnClose: true})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackError, []string{"late"})
	require.NoError(t, err)

	assert.Empty(t, statusRepo.appendedStatuses)
	assert.Equal(t, models.ActionStateFinished, action.Status)
}

func TestReportUpdateFeedback_LateRecordedButNeverReopens(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateFinished, Active: false}
	actionRepo := actionRepoWith(action)
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepo, statusRepo, &mockDSRepo{},
		FeedbackPolicy{RejectStatusOnClose: false})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackError, []string{"late"})
	require.NoError(t, err)

	require.Len(t, statusRepo.appendedStatuses, 1)
	assert.Equal(t, models.ActionStateFinished, action.Status)
	assert.False(t, action.Active)
	assert.Empty(t, actionRepo.stateUpdates)
}

func TestReportUpdateFeedback_ForeignActionNotFound(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 99, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackFinished, nil)
	assert.ErrorIs(t, err, utils.ErrActionNotFound)
}

func TestReportUpdateFeedback_StatusEntryQuota(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	statusRepo := &mockActionStatusRepo{
		countFunc: func(ctx context.Context, actionID int64) (int64, error) {
			return 10, nil
		},
	}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackRunning, nil)
	assert.ErrorIs(t, err, utils.ErrTooManyStatusEntries)
}

func TestReportUpdateFeedback_MessageQuota(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	messages := []string{"1", "2", "3", "4", "5", "6"}
	err := svc.ReportUpdateFeedback(context.Background(), "device-1", 42, models.FeedbackRunning, messages)
	assert.ErrorIs(t, err, utils.ErrTooManyStatusMessages)
}

// --- cancel feedback ---

func TestReportCancelFeedback_ConfirmationCancels(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateCanceling, Active: true}
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportCancelFeedback(context.Background(), "device-1", 42, models.FeedbackCanceled, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ActionStateCanceled, action.Status)
	assert.False(t, action.Active)
	assert.Equal(t, models.TargetStatusInSync, target.UpdateStatus)
}

func TestReportCancelFeedback_RejectionResumes(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateCanceling, Active: true}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportCancelFeedback(context.Background(), "device-1", 42, models.FeedbackCancelRejected, nil)
	require.NoError(t, err)

	assert.Equal(t, models.ActionStateRunning, action.Status)
	assert.True(t, action.Active)
}

func TestReportCancelFeedback_NotCancelingRejected(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportCancelFeedback(context.Background(), "device-1", 42, models.FeedbackCanceled, nil)
	assert.ErrorIs(t, err, utils.ErrCancelNotAllowed)
	assert.Empty(t, statusRepo.appendedStatuses)
}

// --- retrieved marker ---

func TestRegisterRetrieved_AppendsOnce(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.RegisterRetrieved(context.Background(), "device-1", 42, "Controller retrieved update action")
	require.NoError(t, err)
	require.Len(t, statusRepo.appendedStatuses, 1)
	assert.Equal(t, models.FeedbackRetrieved, statusRepo.appendedStatuses[0].Status)
}

func TestRegisterRetrieved_Deduplicates(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	statusRepo := &mockActionStatusRepo{
		hasStatusFunc: func(ctx context.Context, actionID int64, status models.FeedbackStatus) (bool, error) {
			return true, nil
		},
	}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.RegisterRetrieved(context.Background(), "device-1", 42, "Controller retrieved update action")
	require.NoError(t, err)
	assert.Empty(t, statusRepo.appendedStatuses)
}

// --- attributes ---

func TestUpdateControllerAttributes_MergeWithinQuota(t *testing.T) {
	target := knownTarget()
	targetRepo := targetRepoWith(target)
	upserted := map[string]string{}
	targetRepo.upsertAttributesFunc = func(ctx context.Context, targetID int64, data map[string]string) error {
		upserted = data
		return nil
	}
	svc := newTestControllerService(targetRepo, &mockActionRepo{}, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.UpdateControllerAttributes(context.Background(), "device-1", &models.ConfigDataRequest{
		Data: map[string]string{"hw.revision": "2", "os": "linux"},
	})
	require.NoError(t, err)
	assert.Len(t, upserted, 2)
}

func TestUpdateControllerAttributes_MergeQuotaExceeded(t *testing.T) {
	target := knownTarget()
	targetRepo := targetRepoWith(target)
	targetRepo.countAttributesFunc = func(ctx context.Context, targetID int64, excludeKeys []string) (int64, error) {
		return 2, nil
	}
	svc := newTestControllerService(targetRepo, &mockActionRepo{}, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.UpdateControllerAttributes(context.Background(), "device-1", &models.ConfigDataRequest{
		Data: map[string]string{"a": "1", "b": "2"},
	})
	assert.ErrorIs(t, err, utils.ErrTooManyAttributeEntries)
}

func TestUpdateControllerAttributes_UnknownTarget(t *testing.T) {
	svc := newTestControllerService(&mockTargetRepo{}, &mockActionRepo{}, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.UpdateControllerAttributes(context.Background(), "ghost", &models.ConfigDataRequest{
		Data: map[string]string{"a": "1"},
	})
	assert.ErrorIs(t, err, utils.ErrTargetNotFound)
}

// --- artifact authorization ---

func TestHasArtifactAssigned(t *testing.T) {
	target := knownTarget()
	actionRepo := &mockActionRepo{
		hasArtifactFunc: func(ctx context.Context, targetID int64, sha256 string) (bool, error) {
			return sha256 == "abc", nil
		},
	}
	svc := newTestControllerService(targetRepoWith(target), actionRepo, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	resp, err := svc.HasArtifactAssigned(context.Background(), "device-1", "abc")
	require.NoError(t, err)
	assert.True(t, resp.Assigned)

	resp, err = svc.HasArtifactAssigned(context.Background(), "device-1", "def")
	require.NoError(t, err)
	assert.False(t, resp.Assigned)
}

func TestHasArtifactAssigned_HashComparedCaseInsensitively(t *testing.T) {
	target := knownTarget()
	// two different sets were assigned over time; both carry an artifact with
	// the same content hash, stored lower case at creation
	storedHashes := map[int64][]string{
		7: {"deadbeef"},
		9: {"deadbeef", "0123abcd"},
	}
	actionRepo := &mockActionRepo{
		hasArtifactFunc: func(ctx context.Context, targetID int64, sha256 string) (bool, error) {
			for _, hashes := range storedHashes {
				for _, h := range hashes {
					if h == sha256 {
						return true, nil
					}
				}
			}
			return false, nil
		},
	}
	svc := newTestControllerService(targetRepoWith(target), actionRepo, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	resp, err := svc.HasArtifactAssigned(context.Background(), "device-1", "DEADBEEF")
	require.NoError(t, err)
	assert.True(t, resp.Assigned)
	assert.Equal(t, "deadbeef", resp.SHA256)

	resp, err = svc.HasArtifactAssigned(context.Background(), "device-1", "0123ABCD")
	require.NoError(t, err)
	assert.True(t, resp.Assigned)

	resp, err = svc.HasArtifactAssigned(context.Background(), "device-1", "FEEDFACE")
	require.NoError(t, err)
	assert.False(t, resp.Assigned)
}

// --- informational reports ---

func TestReportInformational_AppendsWithoutTransition(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	actionRepo := actionRepoWith(action)
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepo, statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportInformational(context.Background(), "device-1", 42, models.FeedbackWarning, []string{"battery low"})
	require.NoError(t, err)

	assert.Equal(t, models.ActionStateRunning, action.Status)
	assert.True(t, action.Active)
	assert.Empty(t, actionRepo.stateUpdates)
	require.Len(t, statusRepo.appendedStatuses, 1)
	assert.Equal(t, models.FeedbackWarning, statusRepo.appendedStatuses[0].Status)
}

func TestReportInformational_ClosedActionRejectedByPolicy(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateFinished, Active: false}
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{},
		FeedbackPolicy{RejectStatusOnClose: true})

	err := svc.ReportInformational(context.Background(), "device-1", 42, models.FeedbackWarning, []string{"late"})
	require.NoError(t, err)

	assert.Empty(t, statusRepo.appendedStatuses)
}

func TestReportInformational_ClosedActionRecordedWhenPolicyAllows(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateFinished, Active: false}
	actionRepo := actionRepoWith(action)
	statusRepo := &mockActionStatusRepo{}
	svc := newTestControllerService(targetRepoWith(target), actionRepo, statusRepo, &mockDSRepo{},
		FeedbackPolicy{RejectStatusOnClose: false})

	err := svc.ReportInformational(context.Background(), "device-1", 42, models.FeedbackWarning, []string{"late"})
	require.NoError(t, err)

	require.Len(t, statusRepo.appendedStatuses, 1)
	assert.Equal(t, models.ActionStateFinished, action.Status)
	assert.Empty(t, actionRepo.stateUpdates)
}

func TestReportInformational_StatusEntryQuota(t *testing.T) {
	target := knownTarget()
	action := &models.Action{ID: 42, TargetID: 1, DistributionSetID: 7, Status: models.ActionStateRunning, Active: true}
	statusRepo := &mockActionStatusRepo{
		countFunc: func(ctx context.Context, actionID int64) (int64, error) {
			return 10, nil
		},
	}
	svc := newTestControllerService(targetRepoWith(target), actionRepoWith(action), statusRepo, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportInformational(context.Background(), "device-1", 42, models.FeedbackWarning, nil)
	assert.ErrorIs(t, err, utils.ErrTooManyStatusEntries)
}

func TestReportInformational_UnknownActionNotFound(t *testing.T) {
	target := knownTarget()
	svc := newTestControllerService(targetRepoWith(target), &mockActionRepo{}, &mockActionStatusRepo{}, &mockDSRepo{}, FeedbackPolicy{})

	err := svc.ReportInformational(context.Background(), "device-1", 42, models.FeedbackWarning, nil)
	assert.ErrorIs(t, err, utils.ErrActionNotFound)
}
