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
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// AssignmentPolicy tunes multi-assignment behavior
type AssignmentPolicy struct {
	// RepeatedAssignmentSkip treats assigning the already-assigned set to a
	// target as a no-op instead of superseding the open action
	RepeatedAssignmentSkip bool
}

// DeploymentManagerService is the administrator surface over actions:
// assigning distribution sets to targets and the cancel, force-quit and
// force transitions.
type DeploymentManagerService interface {
	AssignDistributionSet(ctx context.Context, dsID int64, controllerIDs []string, actionType models.ActionType,
		forcedTime *time.Time, queryID *int64, initiatedBy string) (*models.AssignDistributionSetResponse, error)
	CancelAction(ctx context.Context, actionID int64) (*models.Action, error)
	ForceQuitAction(ctx context.Context, actionID int64) (*models.Action, error)
	ForceTargetAction(ctx context.Context, actionID int64) (*models.Action, error)
	GetAction(ctx context.Context, actionID int64) (*models.Action, error)
	GetActionStatuses(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error)
	ListTargetActions(ctx context.Context, controllerID string, limit, offset int) ([]*models.Action, int64, error)
}

type deploymentManagerService struct {
	targetRepo       repositories.TargetRepository
	actionRepo       repositories.ActionRepository
	actionStatusRepo repositories.ActionStatusRepository
	dsRepo           repositories.DistributionSetRepository
	locks            *TargetLocks
	policy           AssignmentPolicy
	quotas           Quotas
}

// NewDeploymentManagerService creates a DeploymentManagerService instance
func NewDeploymentManagerService(targetRepo repositories.TargetRepository, actionRepo repositories.ActionRepository,
	actionStatusRepo repositories.ActionStatusRepository, dsRepo repositories.DistributionSetRepository,
	locks *TargetLocks, policy AssignmentPolicy, quotas Quotas) DeploymentManagerService {
	return &deploymentManagerService{
		targetRepo:       targetRepo,
		actionRepo:       actionRepo,
		actionStatusRepo: actionStatusRepo,
		dsRepo:           dsRepo,
		locks:            locks,
		policy:           policy,
		quotas:           quotas,
	}
}

// AssignDistributionSet assigns a distribution set to a batch of targets.
// The request is validated once; each target is then processed under its own
// lock with a per-target outcome, so one unknown controller ID does not fail
// the batch.
func (s *deploymentManagerService) AssignDistributionSet(ctx context.Context, dsID int64, controllerIDs []string,
	actionType models.ActionType, forcedTime *time.Time, queryID *int64, initiatedBy string) (*models.AssignDistributionSetResponse, error) {
	ds, err := s.dsRepo.GetDistributionSetByID(ctx, dsID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, utils.ErrDistributionSetNotFound
	}
	if ds.Deleted {
		return nil, utils.ErrDistributionSetDeleted
	}
	if !ds.Complete {
		return nil, utils.ErrIncompleteDistributionSet
	}
	if actionType == models.ActionTypeTimeForced && forcedTime == nil {
		return nil, utils.ErrInvalidActionType
	}
	if actionType != models.ActionTypeTimeForced {
		forcedTime = nil
	}

	resp := &models.AssignDistributionSetResponse{Results: make([]models.TargetAssignmentResult, 0, len(controllerIDs))}
	for _, controllerID := range controllerIDs {
		result, err := s.assignToTarget(ctx, ds, controllerID, actionType, forcedTime, queryID, initiatedBy)
		if err != nil {
			return nil, err
		}
		switch result.Outcome {
		case models.AssignmentOutcomeAssigned:
			resp.Assigned++
		case models.AssignmentOutcomeAlreadyAssigned:
			resp.AlreadyAssigned++
		case models.AssignmentOutcomeNotFound:
			resp.NotFound++
		}
		resp.Results = append(resp.Results, result)
	}
	return resp, nil
}

func (s *deploymentManagerService) assignToTarget(ctx context.Context, ds *models.DistributionSet, controllerID string,
	actionType models.ActionType, forcedTime *time.Time, queryID *int64, initiatedBy string) (models.TargetAssignmentResult, error) {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	result := models.TargetAssignmentResult{ControllerID: controllerID}

	target, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return result, err
	}
	if target == nil {
		result.Outcome = models.AssignmentOutcomeNotFound
		return result, nil
	}

	if s.policy.RepeatedAssignmentSkip && target.AssignedDistributionSetID != nil && *target.AssignedDistributionSetID == ds.ID {
		result.Outcome = models.AssignmentOutcomeAlreadyAssigned
		return result, nil
	}
	if queryID != nil {
		// one auto-assignment per (filter, target), ever
		exists, err := s.actionRepo.ExistsActionForQueryAndTarget(ctx, *queryID, target.ID)
		if err != nil {
			return result, err
		}
		if exists {
			result.Outcome = models.AssignmentOutcomeAlreadyAssigned
			return result, nil
		}
	}

	// a newer assignment supersedes whatever is still open
	active, err := s.actionRepo.GetActiveActionByTargetID(ctx, target.ID)
	if err != nil {
		return result, err
	}
	if active != nil {
		active.Status = models.ActionStateCanceled
		active.Active = false
		if err := s.actionRepo.UpdateActionState(ctx, active); err != nil {
			return result, err
		}
		if err := appendStatusEntry(ctx, s.actionStatusRepo, s.quotas, active.ID,
			models.FeedbackCanceled, []string{"Update superseded by a newer assignment"}); err != nil {
			return result, err
		}
	}

	action := &models.Action{
		TargetID:            target.ID,
		DistributionSetID:   ds.ID,
		Status:              models.ActionStateRunning,
		Active:              true,
		Type:                actionType,
		ForcedTime:          forcedTime,
		TargetFilterQueryID: queryID,
		InitiatedBy:         initiatedBy,
	}
	if err := s.actionRepo.CreateAction(ctx, action); err != nil {
		return result, err
	}
	if err := appendStatusEntry(ctx, s.actionStatusRepo, s.quotas, action.ID,
		models.FeedbackRunning, []string{"Assignment initiated"}); err != nil {
		return result, err
	}

	dsID := ds.ID
	target.AssignedDistributionSetID = &dsID
	target.UpdateStatus = models.TargetStatusPending
	if err := s.targetRepo.UpdateTarget(ctx, target, map[string]interface{}{
		"assigned_distribution_set_id": dsID,
		"update_status":                models.TargetStatusPending,
		"updated_at":                   time.Now().UTC(),
	}); err != nil {
		return result, err
	}

	result.Outcome = models.AssignmentOutcomeAssigned
	result.ActionID = &action.ID
	return result, nil
}

// CancelAction requests cancellation of an active action. The transition is
// soft: the action stays active in the canceling state until the controller
// confirms on the cancel channel.
func (s *deploymentManagerService) CancelAction(ctx context.Context, actionID int64) (*models.Action, error) {
	return s.adminTransition(ctx, actionID, cancelTransition, models.FeedbackCanceling, "Cancellation requested")
}

// ForceQuitAction finalizes an active action as canceled without controller
// acknowledgment.
func (s *deploymentManagerService) ForceQuitAction(ctx context.Context, actionID int64) (*models.Action, error) {
	return s.adminTransition(ctx, actionID, forceQuitTransition, models.FeedbackCanceled, "Cancellation enforced without controller acknowledgment")
}

// ForceTargetAction upgrades the action type to forced so the controller
// applies the update on its next poll. Idempotent.
func (s *deploymentManagerService) ForceTargetAction(ctx context.Context, actionID int64) (*models.Action, error) {
	action, target, err := s.loadActionWithTarget(ctx, actionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(target.ControllerID)
	defer unlock()

	action, err = s.actionRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, utils.ErrActionNotFound
	}
	if !action.Active {
		return nil, utils.ErrActionNotActive
	}
	if action.Type == models.ActionTypeForced {
		return action, nil
	}
	action.Type = models.ActionTypeForced
	action.ForcedTime = nil
	if err := s.actionRepo.UpdateActionState(ctx, action); err != nil {
		return nil, err
	}
	return action, nil
}

// GetAction returns a single action by ID
func (s *deploymentManagerService) GetAction(ctx context.Context, actionID int64) (*models.Action, error) {
	action, err := s.actionRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, utils.ErrActionNotFound
	}
	return action, nil
}

// GetActionStatuses returns the newest ledger entries of an action
func (s *deploymentManagerService) GetActionStatuses(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error) {
	action, err := s.actionRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, 0, err
	}
	if action == nil {
		return nil, 0, utils.ErrActionNotFound
	}
	return s.actionStatusRepo.ListStatusesByActionID(ctx, actionID, limit)
}

// ListTargetActions returns the action history of a target, newest first
func (s *deploymentManagerService) ListTargetActions(ctx context.Context, controllerID string, limit, offset int) ([]*models.Action, int64, error) {
	target, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return nil, 0, err
	}
	if target == nil {
		return nil, 0, utils.ErrTargetNotFound
	}
	return s.actionRepo.ListActionsByTargetID(ctx, target.ID, limit, offset)
}

// adminTransition runs one administrative state machine step under the
// target lock, appending the corresponding ledger entry.
func (s *deploymentManagerService) adminTransition(ctx context.Context, actionID int64,
	step func(*models.Action) (transition, error), ledgerStatus models.FeedbackStatus, message string) (*models.Action, error) {
	action, target, err := s.loadActionWithTarget(ctx, actionID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(target.ControllerID)
	defer unlock()

	// re-read under the lock, the state may have moved
	action, err = s.actionRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, err
	}
	if action == nil {
		return nil, utils.ErrActionNotFound
	}

	t, err := step(action)
	if err != nil {
		return nil, err
	}
	applyTransition(action, t)
	if err := s.actionRepo.UpdateActionState(ctx, action); err != nil {
		return nil, err
	}
	if err := appendStatusEntry(ctx, s.actionStatusRepo, s.quotas, action.ID,
		ledgerStatus, []string{message}); err != nil {
		return nil, err
	}
	if err := refreshTargetStatus(ctx, s.targetRepo, s.actionRepo, target); err != nil {
		return nil, err
	}
	return action, nil
}

func (s *deploymentManagerService) loadActionWithTarget(ctx context.Context, actionID int64) (*models.Action, *models.Target, error) {
	action, err := s.actionRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, nil, err
	}
	if action == nil {
		return nil, nil, utils.ErrActionNotFound
	}
	target, err := s.targetRepo.GetTargetByID(ctx, action.TargetID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, utils.ErrTargetNotFound
	}
	return action, target, nil
}
