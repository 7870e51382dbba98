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
	"sync"
	"time"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
)

// mockTargetRepo is a test mock for the TargetRepository interface
type mockTargetRepo struct {
	mu                        sync.Mutex
	createTargetFunc          func(ctx context.Context, target *models.Target) error
	getByControllerIDFunc     func(ctx context.Context, controllerID string) (*models.Target, error)
	getByIDFunc               func(ctx context.Context, id int64) (*models.Target, error)
	findOrCreateFunc          func(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error)
	updateTargetFunc          func(ctx context.Context, target *models.Target, updates map[string]interface{}) error
	deleteTargetFunc          func(ctx context.Context, controllerID string) error
	listTargetsFunc           func(ctx context.Context, limit, offset int) ([]*models.Target, int64, error)
	getAttributesFunc         func(ctx context.Context, targetID int64) ([]models.TargetAttribute, error)
	countAttributesFunc       func(ctx context.Context, targetID int64, excludeKeys []string) (int64, error)
	upsertAttributesFunc      func(ctx context.Context, targetID int64, data map[string]string) error
	replaceAttributesFunc     func(ctx context.Context, targetID int64, data map[string]string) error
	removeAttributesFunc      func(ctx context.Context, targetID int64, keys []string) error
	updateCalls               []map[string]interface{}
}

func (m *mockTargetRepo) CreateTarget(ctx context.Context, target *models.Target) error {
	if m.createTargetFunc != nil {
		return m.createTargetFunc(ctx, target)
	}
	return nil
}

func (m *mockTargetRepo) GetTargetByControllerID(ctx context.Context, controllerID string) (*models.Target, error) {
	if m.getByControllerIDFunc != nil {
		return m.getByControllerIDFunc(ctx, controllerID)
	}
	return nil, nil
}

func (m *mockTargetRepo) GetTargetByID(ctx context.Context, id int64) (*models.Target, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTargetRepo) FindOrCreateTarget(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error) {
	if m.findOrCreateFunc != nil {
		return m.findOrCreateFunc(ctx, controllerID, address, securityToken)
	}
	return &models.Target{ID: 1, ControllerID: controllerID, UpdateStatus: models.TargetStatusUnknown}, true, nil
}

func (m *mockTargetRepo) UpdateTarget(ctx context.Context, target *models.Target, updates map[string]interface{}) error {
	m.mu.Lock()
	m.updateCalls = append(m.updateCalls, updates)
	m.mu.Unlock()
	if m.updateTargetFunc != nil {
		return m.updateTargetFunc(ctx, target, updates)
	}
	return nil
}

func (m *mockTargetRepo) DeleteTarget(ctx context.Context, controllerID string) error {
	if m.deleteTargetFunc != nil {
		return m.deleteTargetFunc(ctx, controllerID)
	}
	return nil
}

func (m *mockTargetRepo) ListTargets(ctx context.Context, limit, offset int) ([]*models.Target, int64, error) {
	if m.listTargetsFunc != nil {
		return m.listTargetsFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockTargetRepo) GetAttributes(ctx context.Context, targetID int64) ([]models.TargetAttribute, error) {
	if m.getAttributesFunc != nil {
		return m.getAttributesFunc(ctx, targetID)
	}
	return nil, nil
}

func (m *mockTargetRepo) CountAttributes(ctx context.Context, targetID int64, excludeKeys []string) (int64, error) {
	if m.countAttributesFunc != nil {
		return m.countAttributesFunc(ctx, targetID, excludeKeys)
	}
	return 0, nil
}

func (m *mockTargetRepo) UpsertAttributes(ctx context.Context, targetID int64, data map[string]string) error {
	if m.upsertAttributesFunc != nil {
		return m.upsertAttributesFunc(ctx, targetID, data)
	}
	return nil
}

func (m *mockTargetRepo) ReplaceAttributes(ctx context.Context, targetID int64, data map[string]string) error {
	if m.replaceAttributesFunc != nil {
		return m.replaceAttributesFunc(ctx, targetID, data)
	}
	return nil
}

func (m *mockTargetRepo) RemoveAttributes(ctx context.Context, targetID int64, keys []string) error {
	if m.removeAttributesFunc != nil {
		return m.removeAttributesFunc(ctx, targetID, keys)
	}
	return nil
}

// mockActionRepo is a test mock for the ActionRepository interface
type mockActionRepo struct {
	mu                     sync.Mutex
	createActionFunc       func(ctx context.Context, action *models.Action) error
	getByIDFunc            func(ctx context.Context, id int64) (*models.Action, error)
	getActiveFunc          func(ctx context.Context, targetID int64) (*models.Action, error)
	getLatestClosedFunc    func(ctx context.Context, targetID int64) (*models.Action, error)
	countByTargetFunc      func(ctx context.Context, targetID int64) (int64, error)
	listByTargetFunc       func(ctx context.Context, targetID int64, limit, offset int) ([]*models.Action, int64, error)
	updateStateFunc        func(ctx context.Context, action *models.Action) error
	existsForQueryFunc     func(ctx context.Context, queryID, targetID int64) (bool, error)
	hasArtifactFunc        func(ctx context.Context, targetID int64, sha256 string) (bool, error)
	createdActions         []*models.Action
	stateUpdates           []models.Action
}

func (m *mockActionRepo) CreateAction(ctx context.Context, action *models.Action) error {
	m.mu.Lock()
	action.ID = int64(len(m.createdActions) + 1000)
	m.createdActions = append(m.createdActions, action)
	m.mu.Unlock()
	if m.createActionFunc != nil {
		return m.createActionFunc(ctx, action)
	}
	return nil
}

func (m *mockActionRepo) GetActionByID(ctx context.Context, id int64) (*models.Action, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockActionRepo) GetActiveActionByTargetID(ctx context.Context, targetID int64) (*models.Action, error) {
	if m.getActiveFunc != nil {
		return m.getActiveFunc(ctx, targetID)
	}
	return nil, nil
}

func (m *mockActionRepo) GetLatestClosedActionByTargetID(ctx context.Context, targetID int64) (*models.Action, error) {
	if m.getLatestClosedFunc != nil {
		return m.getLatestClosedFunc(ctx, targetID)
	}
	return nil, nil
}

func (m *mockActionRepo) CountActionsByTargetID(ctx context.Context, targetID int64) (int64, error) {
	if m.countByTargetFunc != nil {
		return m.countByTargetFunc(ctx, targetID)
	}
	return 0, nil
}

func (m *mockActionRepo) ListActionsByTargetID(ctx context.Context, targetID int64, limit, offset int) ([]*models.Action, int64, error) {
	if m.listByTargetFunc != nil {
		return m.listByTargetFunc(ctx, targetID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockActionRepo) UpdateActionState(ctx context.Context, action *models.Action) error {
	m.mu.Lock()
	m.stateUpdates = append(m.stateUpdates, *action)
	m.mu.Unlock()
	if m.updateStateFunc != nil {
		return m.updateStateFunc(ctx, action)
	}
	return nil
}

func (m *mockActionRepo) ExistsActionForQueryAndTarget(ctx context.Context, queryID, targetID int64) (bool, error) {
	if m.existsForQueryFunc != nil {
		return m.existsForQueryFunc(ctx, queryID, targetID)
	}
	return false, nil
}

func (m *mockActionRepo) HasArtifactAssigned(ctx context.Context, targetID int64, sha256 string) (bool, error) {
	if m.hasArtifactFunc != nil {
		return m.hasArtifactFunc(ctx, targetID, sha256)
	}
	return false, nil
}

// mockActionStatusRepo is a test mock for the ActionStatusRepository interface
type mockActionStatusRepo struct {
	mu               sync.Mutex
	appendFunc       func(ctx context.Context, status *models.ActionStatus) error
	countFunc        func(ctx context.Context, actionID int64) (int64, error)
	listFunc         func(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error)
	hasStatusFunc    func(ctx context.Context, actionID int64, status models.FeedbackStatus) (bool, error)
	appendedStatuses []*models.ActionStatus
}

func (m *mockActionStatusRepo) AppendStatus(ctx context.Context, status *models.ActionStatus) error {
	m.mu.Lock()
	m.appendedStatuses = append(m.appendedStatuses, status)
	m.mu.Unlock()
	if m.appendFunc != nil {
		return m.appendFunc(ctx, status)
	}
	return nil
}

func (m *mockActionStatusRepo) CountStatusesByActionID(ctx context.Context, actionID int64) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, actionID)
	}
	return 0, nil
}

func (m *mockActionStatusRepo) ListStatusesByActionID(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, actionID, limit)
	}
	return nil, 0, nil
}

func (m *mockActionStatusRepo) HasStatusForAction(ctx context.Context, actionID int64, status models.FeedbackStatus) (bool, error) {
	if m.hasStatusFunc != nil {
		return m.hasStatusFunc(ctx, actionID, status)
	}
	return false, nil
}

// mockDSRepo is a test mock for the DistributionSetRepository interface
type mockDSRepo struct {
	createFunc       func(ctx context.Context, ds *models.DistributionSet) error
	getByIDFunc      func(ctx context.Context, id int64) (*models.DistributionSet, error)
	listFunc         func(ctx context.Context, limit, offset int) ([]*models.DistributionSet, int64, error)
	softDeleteFunc   func(ctx context.Context, id int64) error
	getTypeByKeyFunc func(ctx context.Context, key string) (*models.DistributionSetType, error)
	createTypeFunc   func(ctx context.Context, dsType *models.DistributionSetType) error
}

func (m *mockDSRepo) CreateDistributionSet(ctx context.Context, ds *models.DistributionSet) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, ds)
	}
	return nil
}

func (m *mockDSRepo) GetDistributionSetByID(ctx context.Context, id int64) (*models.DistributionSet, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDSRepo) ListDistributionSets(ctx context.Context, limit, offset int) ([]*models.DistributionSet, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockDSRepo) SoftDeleteDistributionSet(ctx context.Context, id int64) error {
	if m.softDeleteFunc != nil {
		return m.softDeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDSRepo) GetTypeByKey(ctx context.Context, key string) (*models.DistributionSetType, error) {
	if m.getTypeByKeyFunc != nil {
		return m.getTypeByKeyFunc(ctx, key)
	}
	return nil, nil
}

func (m *mockDSRepo) CreateType(ctx context.Context, dsType *models.DistributionSetType) error {
	if m.createTypeFunc != nil {
		return m.createTypeFunc(ctx, dsType)
	}
	return nil
}

// mockFilterRepo is a test mock for the TargetFilterRepository interface
type mockFilterRepo struct {
	createFunc           func(ctx context.Context, filter *models.TargetFilterQuery) error
	getByIDFunc          func(ctx context.Context, id int64) (*models.TargetFilterQuery, error)
	getByNameFunc        func(ctx context.Context, name string) (*models.TargetFilterQuery, error)
	updateFunc           func(ctx context.Context, filter *models.TargetFilterQuery, updates map[string]interface{}) error
	deleteFunc           func(ctx context.Context, id int64) error
	listFunc             func(ctx context.Context, limit, offset int) ([]*models.TargetFilterQuery, int64, error)
	listWithAutoFunc     func(ctx context.Context) ([]*models.TargetFilterQuery, error)
	setAutoAssignFunc    func(ctx context.Context, id int64, dsID *int64, actionType *models.ActionType) error
	clearAutoAssignFunc  func(ctx context.Context, dsID int64) error
}

func (m *mockFilterRepo) CreateFilter(ctx context.Context, filter *models.TargetFilterQuery) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, filter)
	}
	return nil
}

func (m *mockFilterRepo) GetFilterByID(ctx context.Context, id int64) (*models.TargetFilterQuery, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockFilterRepo) GetFilterByName(ctx context.Context, name string) (*models.TargetFilterQuery, error) {
	if m.getByNameFunc != nil {
		return m.getByNameFunc(ctx, name)
	}
	return nil, nil
}

func (m *mockFilterRepo) UpdateFilter(ctx context.Context, filter *models.TargetFilterQuery, updates map[string]interface{}) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, filter, updates)
	}
	return nil
}

func (m *mockFilterRepo) DeleteFilter(ctx context.Context, id int64) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockFilterRepo) ListFilters(ctx context.Context, limit, offset int) ([]*models.TargetFilterQuery, int64, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockFilterRepo) ListFiltersWithAutoAssign(ctx context.Context) ([]*models.TargetFilterQuery, error) {
	if m.listWithAutoFunc != nil {
		return m.listWithAutoFunc(ctx)
	}
	return nil, nil
}

func (m *mockFilterRepo) SetAutoAssign(ctx context.Context, id int64, dsID *int64, actionType *models.ActionType) error {
	if m.setAutoAssignFunc != nil {
		return m.setAutoAssignFunc(ctx, id, dsID, actionType)
	}
	return nil
}

func (m *mockFilterRepo) ClearAutoAssignByDistributionSet(ctx context.Context, dsID int64) error {
	if m.clearAutoAssignFunc != nil {
		return m.clearAutoAssignFunc(ctx, dsID)
	}
	return nil
}

// mockEvaluator is a test mock for the FilterEvaluator interface
type mockEvaluator struct {
	matchingFunc func(ctx context.Context, query string) ([]*models.Target, error)
	countFunc    func(ctx context.Context, query string) (int64, error)
}

func (m *mockEvaluator) MatchingTargets(ctx context.Context, query string) ([]*models.Target, error) {
	if m.matchingFunc != nil {
		return m.matchingFunc(ctx, query)
	}
	return nil, nil
}

func (m *mockEvaluator) CountMatchingTargets(ctx context.Context, query string) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx, query)
	}
	return 0, nil
}

// mockLocker is a test mock for the AdvisoryLocker interface; by default the
// lock is always acquired and fn runs inline
type mockLocker struct {
	mu           sync.Mutex
	withLockFunc func(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error)
	lockedKeys   []int64
}

func (m *mockLocker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error) {
	m.mu.Lock()
	m.lockedKeys = append(m.lockedKeys, key)
	m.mu.Unlock()
	if m.withLockFunc != nil {
		return m.withLockFunc(ctx, key, fn)
	}
	return true, fn(ctx)
}

// mockDeploymentManager is a test mock for the DeploymentManagerService
// interface; assignment calls are recorded for inspection
type mockDeploymentManager struct {
	mu          sync.Mutex
	assignFunc  func(ctx context.Context, dsID int64, controllerIDs []string, actionType models.ActionType, forcedTime *time.Time, queryID *int64, initiatedBy string) (*models.AssignDistributionSetResponse, error)
	assignCalls []assignCall
}

type assignCall struct {
	dsID          int64
	controllerIDs []string
	actionType    models.ActionType
	queryID       *int64
	initiatedBy   string
}

func (m *mockDeploymentManager) AssignDistributionSet(ctx context.Context, dsID int64, controllerIDs []string,
	actionType models.ActionType, forcedTime *time.Time, queryID *int64, initiatedBy string) (*models.AssignDistributionSetResponse, error) {
	m.mu.Lock()
	m.assignCalls = append(m.assignCalls, assignCall{
		dsID:          dsID,
		controllerIDs: controllerIDs,
		actionType:    actionType,
		queryID:       queryID,
		initiatedBy:   initiatedBy,
	})
	m.mu.Unlock()
	if m.assignFunc != nil {
		return m.assignFunc(ctx, dsID, controllerIDs, actionType, forcedTime, queryID, initiatedBy)
	}
	return &models.AssignDistributionSetResponse{Assigned: len(controllerIDs)}, nil
}

func (m *mockDeploymentManager) CancelAction(ctx context.Context, actionID int64) (*models.Action, error) {
	return nil, nil
}

func (m *mockDeploymentManager) ForceQuitAction(ctx context.Context, actionID int64) (*models.Action, error) {
	return nil, nil
}

func (m *mockDeploymentManager) ForceTargetAction(ctx context.Context, actionID int64) (*models.Action, error) {
	return nil, nil
}

func (m *mockDeploymentManager) GetAction(ctx context.Context, actionID int64) (*models.Action, error) {
	return nil, nil
}

func (m *mockDeploymentManager) GetActionStatuses(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error) {
	return nil, 0, nil
}

func (m *mockDeploymentManager) ListTargetActions(ctx context.Context, controllerID string, limit, offset int) ([]*models.Action, int64, error) {
	return nil, 0, nil
}
