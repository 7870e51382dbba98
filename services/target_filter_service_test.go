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

func filterRepoWith(filter *models.TargetFilterQuery) *mockFilterRepo {
	return &mockFilterRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*models.TargetFilterQuery, error) {
			if filter != nil && id == filter.ID {
				return filter, nil
			}
			return nil, nil
		},
	}
}

func newTestFilterService(filterRepo *mockFilterRepo, dsRepo *mockDSRepo, evaluator *mockEvaluator) TargetFilterService {
	return NewTargetFilterService(filterRepo, dsRepo, evaluator, testQuotas())
}

func TestCreateFilter_Valid(t *testing.T) {
	svc := newTestFilterService(&mockFilterRepo{}, &mockDSRepo{}, &mockEvaluator{})

	filter, err := svc.CreateFilter(context.Background(), " lab-fleet ", `name == "lab-*"`)
	require.NoError(t, err)
	assert.Equal(t, "lab-fleet", filter.Name)
	assert.Equal(t, `name == "lab-*"`, filter.Query)
}

func TestCreateFilter_InvalidQuery(t *testing.T) {
	svc := newTestFilterService(&mockFilterRepo{}, &mockDSRepo{}, &mockEvaluator{})

	_, err := svc.CreateFilter(context.Background(), "bad", `name >< "x"`)
	assert.ErrorIs(t, err, utils.ErrInvalidInput)
}

func TestCreateFilter_DuplicateName(t *testing.T) {
	filterRepo := &mockFilterRepo{
		getByNameFunc: func(ctx context.Context, name string) (*models.TargetFilterQuery, error) {
			return &models.TargetFilterQuery{ID: 1, Name: name}, nil
		},
	}
	svc := newTestFilterService(filterRepo, &mockDSRepo{}, &mockEvaluator{})

	_, err := svc.CreateFilter(context.Background(), "lab-fleet", `name == "x"`)
	assert.ErrorIs(t, err, utils.ErrTargetFilterAlreadyExists)
}

func TestUpdateFilter_QueryChangeRechecksQuota(t *testing.T) {
	dsID := int64(7)
	filter := &models.TargetFilterQuery{ID: 3, Name: "lab", Query: `name == "a"`, AutoAssignDistributionSetID: &dsID}
	evaluator := &mockEvaluator{
		countFunc: func(ctx context.Context, query string) (int64, error) {
			return 500, nil
		},
	}
	svc := newTestFilterService(filterRepoWith(filter), &mockDSRepo{}, evaluator)

	_, err := svc.UpdateFilter(context.Background(), 3, "", `name == "*"`)
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)
}

func TestAttachAutoAssign_Valid(t *testing.T) {
	filter := &models.TargetFilterQuery{ID: 3, Name: "lab", Query: `name == "a"`}
	var linkedDS *int64
	var linkedType *models.ActionType
	filterRepo := filterRepoWith(filter)
	filterRepo.setAutoAssignFunc = func(ctx context.Context, id int64, dsID *int64, actionType *models.ActionType) error {
		linkedDS, linkedType = dsID, actionType
		return nil
	}
	svc := newTestFilterService(filterRepo, dsRepoWith(completeSet()), &mockEvaluator{})

	result, err := svc.AttachAutoAssign(context.Background(), 3, 7, models.ActionTypeSoft)
	require.NoError(t, err)
	require.NotNil(t, linkedDS)
	assert.Equal(t, int64(7), *linkedDS)
	require.NotNil(t, linkedType)
	assert.Equal(t, models.ActionTypeSoft, *linkedType)
	assert.Equal(t, models.ActionTypeSoft, *result.AutoAssignActionType)
}

func TestAttachAutoAssign_TimeForcedRejected(t *testing.T) {
	filter := &models.TargetFilterQuery{ID: 3, Name: "lab", Query: `name == "a"`}
	svc := newTestFilterService(filterRepoWith(filter), dsRepoWith(completeSet()), &mockEvaluator{})

	_, err := svc.AttachAutoAssign(context.Background(), 3, 7, models.ActionTypeTimeForced)
	assert.ErrorIs(t, err, utils.ErrInvalidAutoAssignActionType)
}

func TestAttachAutoAssign_QuotaExceeded(t *testing.T) {
	filter := &models.TargetFilterQuery{ID: 3, Name: "lab", Query: `name == "a"`}
	evaluator := &mockEvaluator{
		countFunc: func(ctx context.Context, query string) (int64, error) {
			return int64(testQuotas().MaxTargetsPerAutoAssignment) + 1, nil
		},
	}
	svc := newTestFilterService(filterRepoWith(filter), dsRepoWith(completeSet()), evaluator)

	_, err := svc.AttachAutoAssign(context.Background(), 3, 7, models.ActionTypeForced)
	assert.ErrorIs(t, err, utils.ErrQuotaExceeded)
}

func TestAttachAutoAssign_SetMustBeUsable(t *testing.T) {
	filter := &models.TargetFilterQuery{ID: 3, Name: "lab", Query: `name == "a"`}

	svc := newTestFilterService(filterRepoWith(filter), dsRepoWith(nil), &mockEvaluator{})
	_, err := svc.AttachAutoAssign(context.Background(), 3, 7, models.ActionTypeForced)
	assert.ErrorIs(t, err, utils.ErrDistributionSetNotFound)

	incomplete := completeSet()
	incomplete.Complete = false
	svc = newTestFilterService(filterRepoWith(filter), dsRepoWith(incomplete), &mockEvaluator{})
	_, err = svc.AttachAutoAssign(context.Background(), 3, 7, models.ActionTypeForced)
	assert.ErrorIs(t, err, utils.ErrIncompleteDistributionSet)
}

func TestRemoveAutoAssign_ClearsLink(t *testing.T) {
	dsID := int64(7)
	filter := &models.TargetFilterQuery{ID: 3, Name: "lab", Query: `name == "a"`, AutoAssignDistributionSetID: &dsID}
	cleared := false
	filterRepo := filterRepoWith(filter)
	filterRepo.setAutoAssignFunc = func(ctx context.Context, id int64, dsID *int64, actionType *models.ActionType) error {
		cleared = dsID == nil && actionType == nil
		return nil
	}
	svc := newTestFilterService(filterRepo, &mockDSRepo{}, &mockEvaluator{})

	require.NoError(t, svc.RemoveAutoAssign(context.Background(), 3))
	assert.True(t, cleared)
}

func TestGetFilter_NotFound(t *testing.T) {
	svc := newTestFilterService(&mockFilterRepo{}, &mockDSRepo{}, &mockEvaluator{})

	_, err := svc.GetFilter(context.Background(), 99)
	assert.ErrorIs(t, err, utils.ErrTargetFilterNotFound)
}
