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

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// TargetFilterService manages target filter queries and their auto-assignment
// links.
type TargetFilterService interface {
	CreateFilter(ctx context.Context, name, query string) (*models.TargetFilterQuery, error)
	GetFilter(ctx context.Context, id int64) (*models.TargetFilterQuery, error)
	ListFilters(ctx context.Context, limit, offset int) ([]*models.TargetFilterQuery, int64, error)
	UpdateFilter(ctx context.Context, id int64, name, query string) (*models.TargetFilterQuery, error)
	DeleteFilter(ctx context.Context, id int64) error
	AttachAutoAssign(ctx context.Context, filterID, dsID int64, actionType models.ActionType) (*models.TargetFilterQuery, error)
	RemoveAutoAssign(ctx context.Context, filterID int64) error
}

type targetFilterService struct {
	filterRepo repositories.TargetFilterRepository
	dsRepo     repositories.DistributionSetRepository
	evaluator  repositories.FilterEvaluator
	quotas     Quotas
}

// NewTargetFilterService creates a TargetFilterService instance
func NewTargetFilterService(filterRepo repositories.TargetFilterRepository, dsRepo repositories.DistributionSetRepository,
	evaluator repositories.FilterEvaluator, quotas Quotas) TargetFilterService {
	return &targetFilterService{
		filterRepo: filterRepo,
		dsRepo:     dsRepo,
		evaluator:  evaluator,
		quotas:     quotas,
	}
}

// CreateFilter validates and stores a new filter query
func (s *targetFilterService) CreateFilter(ctx context.Context, name, query string) (*models.TargetFilterQuery, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, utils.ErrInvalidInput
	}
	if err := repositories.ValidateFilterQuery(query); err != nil {
		return nil, utils.ErrInvalidInput
	}
	existing, err := s.filterRepo.GetFilterByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrTargetFilterAlreadyExists
	}
	filter := &models.TargetFilterQuery{Name: name, Query: query}
	if err := s.filterRepo.CreateFilter(ctx, filter); err != nil {
		return nil, err
	}
	return filter, nil
}

// GetFilter returns one filter by ID
func (s *targetFilterService) GetFilter(ctx context.Context, id int64) (*models.TargetFilterQuery, error) {
	filter, err := s.filterRepo.GetFilterByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		return nil, utils.ErrTargetFilterNotFound
	}
	return filter, nil
}

// ListFilters returns a page of filters
func (s *targetFilterService) ListFilters(ctx context.Context, limit, offset int) ([]*models.TargetFilterQuery, int64, error) {
	return s.filterRepo.ListFilters(ctx, limit, offset)
}

// UpdateFilter changes name and/or query of a filter. Changing the query of a
// filter with an active auto-assignment re-checks the target quota, since the
// new predicate may match a much larger population.
func (s *targetFilterService) UpdateFilter(ctx context.Context, id int64, name, query string) (*models.TargetFilterQuery, error) {
	filter, err := s.GetFilter(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"updated_at": time.Now().UTC()}
	if name = strings.TrimSpace(name); name != "" && name != filter.Name {
		existing, err := s.filterRepo.GetFilterByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, utils.ErrTargetFilterAlreadyExists
		}
		filter.Name = name
		updates["name"] = name
	}
	if query != "" && query != filter.Query {
		if err := repositories.ValidateFilterQuery(query); err != nil {
			return nil, utils.ErrInvalidInput
		}
		if filter.AutoAssignDistributionSetID != nil {
			if err := s.checkAutoAssignQuota(ctx, query); err != nil {
				return nil, err
			}
		}
		filter.Query = query
		updates["query"] = query
	}
	if err := s.filterRepo.UpdateFilter(ctx, filter, updates); err != nil {
		return nil, err
	}
	return filter, nil
}

// DeleteFilter removes a filter. Actions created through it keep their
// back-reference.
func (s *targetFilterService) DeleteFilter(ctx context.Context, id int64) error {
	if _, err := s.GetFilter(ctx, id); err != nil {
		return err
	}
	return s.filterRepo.DeleteFilter(ctx, id)
}

// AttachAutoAssign links a distribution set to a filter so the scheduler
// assigns it to every matching target.
func (s *targetFilterService) AttachAutoAssign(ctx context.Context, filterID, dsID int64, actionType models.ActionType) (*models.TargetFilterQuery, error) {
	filter, err := s.GetFilter(ctx, filterID)
	if err != nil {
		return nil, err
	}
	if !models.IsValidAutoAssignActionType(actionType) {
		return nil, utils.ErrInvalidAutoAssignActionType
	}
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
	if err := s.checkAutoAssignQuota(ctx, filter.Query); err != nil {
		return nil, err
	}
	if err := s.filterRepo.SetAutoAssign(ctx, filterID, &dsID, &actionType); err != nil {
		return nil, err
	}
	filter.AutoAssignDistributionSetID = &dsID
	filter.AutoAssignActionType = &actionType
	return filter, nil
}

// RemoveAutoAssign clears the auto-assignment link of a filter
func (s *targetFilterService) RemoveAutoAssign(ctx context.Context, filterID int64) error {
	if _, err := s.GetFilter(ctx, filterID); err != nil {
		return err
	}
	return s.filterRepo.SetAutoAssign(ctx, filterID, nil, nil)
}

func (s *targetFilterService) checkAutoAssignQuota(ctx context.Context, query string) error {
	count, err := s.evaluator.CountMatchingTargets(ctx, query)
	if err != nil {
		return err
	}
	if count > int64(s.quotas.MaxTargetsPerAutoAssignment) {
		return utils.ErrQuotaExceeded
	}
	return nil
}
