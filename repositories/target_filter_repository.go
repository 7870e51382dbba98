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

package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
)

// TargetFilterRepository defines the interface for target filter query data access
type TargetFilterRepository interface {
	CreateFilter(ctx context.Context, filter *models.TargetFilterQuery) error
	GetFilterByID(ctx context.Context, id int64) (*models.TargetFilterQuery, error)
	GetFilterByName(ctx context.Context, name string) (*models.TargetFilterQuery, error)
	UpdateFilter(ctx context.Context, filter *models.TargetFilterQuery, updates map[string]interface{}) error
	DeleteFilter(ctx context.Context, id int64) error
	ListFilters(ctx context.Context, limit, offset int) ([]*models.TargetFilterQuery, int64, error)
	ListFiltersWithAutoAssign(ctx context.Context) ([]*models.TargetFilterQuery, error)
	SetAutoAssign(ctx context.Context, id int64, dsID *int64, actionType *models.ActionType) error
	ClearAutoAssignByDistributionSet(ctx context.Context, dsID int64) error
}

// TargetFilterRepo implements TargetFilterRepository using GORM
type TargetFilterRepo struct {
	db *gorm.DB
}

// NewTargetFilterRepo creates a new target filter repository
func NewTargetFilterRepo(db *gorm.DB) TargetFilterRepository {
	return &TargetFilterRepo{db: db}
}

// CreateFilter inserts a new filter
func (r *TargetFilterRepo) CreateFilter(ctx context.Context, filter *models.TargetFilterQuery) error {
	now := time.Now()
	filter.CreatedAt = now
	filter.UpdatedAt = now
	return r.db.WithContext(ctx).Create(filter).Error
}

// GetFilterByID retrieves a filter by id
func (r *TargetFilterRepo) GetFilterByID(ctx context.Context, id int64) (*models.TargetFilterQuery, error) {
	var filter models.TargetFilterQuery
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&filter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &filter, nil
}

// GetFilterByName retrieves a filter by its unique name
func (r *TargetFilterRepo) GetFilterByName(ctx context.Context, name string) (*models.TargetFilterQuery, error) {
	var filter models.TargetFilterQuery
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&filter).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &filter, nil
}

// UpdateFilter applies the given column updates to a filter
func (r *TargetFilterRepo) UpdateFilter(ctx context.Context, filter *models.TargetFilterQuery, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&models.TargetFilterQuery{}).
		Where("id = ?", filter.ID).
		Updates(updates).Error
}

// DeleteFilter removes a filter
func (r *TargetFilterRepo) DeleteFilter(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.TargetFilterQuery{}).Error
}

// ListFilters retrieves filters with pagination
func (r *TargetFilterRepo) ListFilters(ctx context.Context, limit, offset int) ([]*models.TargetFilterQuery, int64, error) {
	var filters []*models.TargetFilterQuery
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.TargetFilterQuery{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Order("name ASC").
		Limit(limit).
		Offset(offset).
		Find(&filters).Error
	return filters, total, err
}

// ListFiltersWithAutoAssign retrieves every filter with an auto-assign link
func (r *TargetFilterRepo) ListFiltersWithAutoAssign(ctx context.Context) ([]*models.TargetFilterQuery, error) {
	var filters []*models.TargetFilterQuery
	err := r.db.WithContext(ctx).
		Where("auto_assign_distribution_set_id IS NOT NULL").
		Order("id ASC").
		Find(&filters).Error
	return filters, err
}

// SetAutoAssign attaches, updates or clears the auto-assign link of a filter
func (r *TargetFilterRepo) SetAutoAssign(ctx context.Context, id int64, dsID *int64, actionType *models.ActionType) error {
	return r.db.WithContext(ctx).Model(&models.TargetFilterQuery{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"auto_assign_distribution_set_id": dsID,
			"auto_assign_action_type":         actionType,
			"updated_at":                      time.Now(),
		}).Error
}

// ClearAutoAssignByDistributionSet clears every auto-assign link referencing the
// given set. Called when a set is soft-deleted; the filters themselves survive.
func (r *TargetFilterRepo) ClearAutoAssignByDistributionSet(ctx context.Context, dsID int64) error {
	return r.db.WithContext(ctx).Model(&models.TargetFilterQuery{}).
		Where("auto_assign_distribution_set_id = ?", dsID).
		Updates(map[string]interface{}{
			"auto_assign_distribution_set_id": nil,
			"auto_assign_action_type":         nil,
			"updated_at":                      time.Now(),
		}).Error
}
