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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// ControllerService implements the device-facing protocol: polling,
// deployment retrieval, feedback on both channels and attribute reporting.
// Every state-changing method runs under the per-target lock.
type ControllerService interface {
	PollTarget(ctx context.Context, controllerID, address string) (*models.PollResponse, error)
	GetDeploymentBase(ctx context.Context, controllerID string, actionID int64) (*models.DeploymentBaseResponse, error)
	ReportUpdateFeedback(ctx context.Context, controllerID string, actionID int64, status models.FeedbackStatus, messages []string) error
	ReportCancelFeedback(ctx context.Context, controllerID string, actionID int64, status models.FeedbackStatus, messages []string) error
	ReportInformational(ctx context.Context, controllerID string, actionID int64, status models.FeedbackStatus, messages []string) error
	RegisterRetrieved(ctx context.Context, controllerID string, actionID int64, message string) error
	UpdateControllerAttributes(ctx context.Context, controllerID string, req *models.ConfigDataRequest) error
	HasArtifactAssigned(ctx context.Context, controllerID, sha256 string) (*models.ArtifactAssignedResponse, error)
}

type controllerService struct {
	targetRepo       repositories.TargetRepository
	actionRepo       repositories.ActionRepository
	actionStatusRepo repositories.ActionStatusRepository
	dsRepo           repositories.DistributionSetRepository
	locks            *TargetLocks
	quotas           Quotas
	policy           FeedbackPolicy
	pollingInterval  int
}

// NewControllerService creates a ControllerService instance
func NewControllerService(targetRepo repositories.TargetRepository, actionRepo repositories.ActionRepository,
	actionStatusRepo repositories.ActionStatusRepository, dsRepo repositories.DistributionSetRepository,
	locks *TargetLocks, quotas Quotas, policy FeedbackPolicy, pollingIntervalSeconds int) ControllerService {
	return &controllerService{
		targetRepo:       targetRepo,
		actionRepo:       actionRepo,
		actionStatusRepo: actionStatusRepo,
		dsRepo:           dsRepo,
		locks:            locks,
		quotas:           quotas,
		policy:           policy,
		pollingInterval:  pollingIntervalSeconds,
	}
}

// PollTarget registers the target on first contact, records the poll and
// returns the pending work: a cancel link while cancellation is in flight,
// a deployment link while an update is running, neither when idle.
func (s *controllerService) PollTarget(ctx context.Context, controllerID, address string) (*models.PollResponse, error) {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	target, _, err := s.targetRepo.FindOrCreateTarget(ctx, controllerID, address, uuid.New().String())
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"last_poll_at": now,
		"last_address": address,
		"updated_at":   now,
	}
	// plain polling only ever promotes a never-seen target to registered
	if target.UpdateStatus == models.TargetStatusUnknown {
		updates["update_status"] = models.TargetStatusRegistered
		target.UpdateStatus = models.TargetStatusRegistered
	}
	if err := s.targetRepo.UpdateTarget(ctx, target, updates); err != nil {
		return nil, err
	}

	active, err := s.actionRepo.GetActiveActionByTargetID(ctx, target.ID)
	if err != nil {
		return nil, err
	}

	resp := &models.PollResponse{
		Config: models.PollConfig{PollingIntervalSeconds: s.pollingInterval},
	}
	if active == nil {
		return resp, nil
	}
	link := &models.DeploymentLink{ActionID: active.ID, DistributionSetID: active.DistributionSetID}
	if active.Status == models.ActionStateCanceling {
		resp.Cancel = link
	} else {
		resp.Deployment = link
	}
	return resp, nil
}

// GetDeploymentBase returns the full deployment view for one of the
// target's open actions.
func (s *controllerService) GetDeploymentBase(ctx context.Context, controllerID string, actionID int64) (*models.DeploymentBaseResponse, error) {
	_, action, err := s.resolveAction(ctx, controllerID, actionID)
	if err != nil {
		return nil, err
	}
	if !action.Active {
		return nil, utils.ErrActionNotFound
	}
	ds, err := s.dsRepo.GetDistributionSetByID(ctx, action.DistributionSetID)
	if err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, utils.ErrDistributionSetNotFound
	}
	return &models.DeploymentBaseResponse{
		ActionID:        action.ID,
		Type:            action.Type,
		ForcedTime:      action.ForcedTime,
		DistributionSet: *ds.ToResponse(),
	}, nil
}

// ReportUpdateFeedback processes one report on the update channel
func (s *controllerService) ReportUpdateFeedback(ctx context.Context, controllerID string, actionID int64,
	status models.FeedbackStatus, messages []string) error {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	target, action, err := s.resolveAction(ctx, controllerID, actionID)
	if err != nil {
		return err
	}

	t, err := applyUpdateFeedback(action, status)
	if err != nil {
		return err
	}
	if t.Late {
		if s.policy.RejectStatusOnClose {
			return nil
		}
		return s.appendLedger(ctx, action.ID, status, messages)
	}

	if err := s.appendLedger(ctx, action.ID, status, messages); err != nil {
		return err
	}
	if !t.Closed && t.Status == action.Status {
		return nil
	}

	applyTransition(action, t)
	if err := s.actionRepo.UpdateActionState(ctx, action); err != nil {
		return err
	}
	// the finished set counts as installed only while it is still the one
	// assigned; a newer assignment in flight must not be overwritten
	if t.RecordInstalled && target.AssignedDistributionSetID != nil && *target.AssignedDistributionSetID == action.DistributionSetID {
		dsID := action.DistributionSetID
		target.InstalledDistributionSetID = &dsID
		if err := s.targetRepo.UpdateTarget(ctx, target, map[string]interface{}{
			"installed_distribution_set_id": dsID,
			"updated_at":                    time.Now().UTC(),
		}); err != nil {
			return err
		}
	}
	return refreshTargetStatus(ctx, s.targetRepo, s.actionRepo, target)
}

// ReportCancelFeedback processes one report on the cancel channel. The
// channel only exists while the action is canceling; a finished or canceled
// code completes the cancellation, rejection or error resumes the update.
func (s *controllerService) ReportCancelFeedback(ctx context.Context, controllerID string, actionID int64,
	status models.FeedbackStatus, messages []string) error {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	target, action, err := s.resolveAction(ctx, controllerID, actionID)
	if err != nil {
		return err
	}

	t, err := applyCancelFeedback(action, status)
	if err != nil {
		return err
	}

	if err := s.appendLedger(ctx, action.ID, status, messages); err != nil {
		return err
	}
	if !t.Closed && t.Status == action.Status {
		return nil
	}

	applyTransition(action, t)
	if err := s.actionRepo.UpdateActionState(ctx, action); err != nil {
		return err
	}
	return refreshTargetStatus(ctx, s.targetRepo, s.actionRepo, target)
}

// ReportInformational records a report that carries no progress semantics,
// such as a periodic heartbeat. The entry lands in the ledger under the usual
// quotas; the action's state is never touched.
func (s *controllerService) ReportInformational(ctx context.Context, controllerID string, actionID int64,
	status models.FeedbackStatus, messages []string) error {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	_, action, err := s.resolveAction(ctx, controllerID, actionID)
	if err != nil {
		return err
	}
	if !action.Active && s.policy.RejectStatusOnClose {
		return nil
	}
	return s.appendLedger(ctx, action.ID, status, messages)
}

// RegisterRetrieved records that the controller fetched the deployment.
// At most one retrieved entry is kept per action.
func (s *controllerService) RegisterRetrieved(ctx context.Context, controllerID string, actionID int64, message string) error {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	_, action, err := s.resolveAction(ctx, controllerID, actionID)
	if err != nil {
		return err
	}
	if !action.Active {
		return nil
	}
	exists, err := s.actionStatusRepo.HasStatusForAction(ctx, action.ID, models.FeedbackRetrieved)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.appendLedger(ctx, action.ID, models.FeedbackRetrieved, []string{message})
}

// UpdateControllerAttributes applies a controller-reported attribute payload
func (s *controllerService) UpdateControllerAttributes(ctx context.Context, controllerID string, req *models.ConfigDataRequest) error {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	target, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return err
	}
	if target == nil {
		return utils.ErrTargetNotFound
	}

	mode := req.Mode
	if mode == "" {
		mode = models.ConfigDataModeMerge
	}
	switch mode {
	case models.ConfigDataModeMerge:
		keys := make([]string, 0, len(req.Data))
		for k := range req.Data {
			keys = append(keys, k)
		}
		existing, err := s.targetRepo.CountAttributes(ctx, target.ID, keys)
		if err != nil {
			return err
		}
		if existing+int64(len(req.Data)) > int64(s.quotas.MaxAttributeEntriesPerTarget) {
			return utils.ErrTooManyAttributeEntries
		}
		return s.targetRepo.UpsertAttributes(ctx, target.ID, req.Data)
	case models.ConfigDataModeReplace:
		if len(req.Data) > s.quotas.MaxAttributeEntriesPerTarget {
			return utils.ErrTooManyAttributeEntries
		}
		return s.targetRepo.ReplaceAttributes(ctx, target.ID, req.Data)
	case models.ConfigDataModeRemove:
		keys := make([]string, 0, len(req.Data))
		for k := range req.Data {
			keys = append(keys, k)
		}
		return s.targetRepo.RemoveAttributes(ctx, target.ID, keys)
	}
	return utils.ErrInvalidInput
}

// HasArtifactAssigned answers the content-addressed download authorization
// check: whether any action of the target references an artifact with the
// given SHA-256, regardless of the action's state. Hashes are stored in lower
// case, so the queried hash is normalized before the lookup.
func (s *controllerService) HasArtifactAssigned(ctx context.Context, controllerID, sha256 string) (*models.ArtifactAssignedResponse, error) {
	target, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, utils.ErrTargetNotFound
	}
	hash := strings.ToLower(sha256)
	assigned, err := s.actionRepo.HasArtifactAssigned(ctx, target.ID, hash)
	if err != nil {
		return nil, err
	}
	return &models.ArtifactAssignedResponse{SHA256: hash, Assigned: assigned}, nil
}

// resolveAction loads the action and verifies it belongs to the controller.
// An action of another target is indistinguishable from a missing one.
func (s *controllerService) resolveAction(ctx context.Context, controllerID string, actionID int64) (*models.Target, *models.Action, error) {
	target, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return nil, nil, err
	}
	if target == nil {
		return nil, nil, utils.ErrTargetNotFound
	}
	action, err := s.actionRepo.GetActionByID(ctx, actionID)
	if err != nil {
		return nil, nil, err
	}
	if action == nil || action.TargetID != target.ID {
		return nil, nil, utils.ErrActionNotFound
	}
	return target, action, nil
}

func (s *controllerService) appendLedger(ctx context.Context, actionID int64, status models.FeedbackStatus, messages []string) error {
	return appendStatusEntry(ctx, s.actionStatusRepo, s.quotas, actionID, status, messages)
}
