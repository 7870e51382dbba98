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

// ActionRepository defines the interface for action data access
type ActionRepository interface {
	CreateAction(ctx context.Context, action *models.Action) error
	GetActionByID(ctx context.Context, id int64) (*models.Action, error)
	GetActiveActionByTargetID(ctx context.Context, targetID int64) (*models.Action, error)
	GetLatestClosedActionByTargetID(ctx context.Context, targetID int64) (*models.Action, error)
	CountActionsByTargetID(ctx context.Context, targetID int64) (int64, error)
	ListActionsByTargetID(ctx context.Context, targetID int64, limit, offset int) ([]*models.Action, int64, error)
	UpdateActionState(ctx context.Context, action *models.Action) error
	ExistsActionForQueryAndTarget(ctx context.Context, queryID, targetID int64) (bool, error)
	HasArtifactAssigned(ctx context.Context, targetID int64, sha256 string) (bool, error)
}

// ActionRepo implements ActionRepository using GORM
type ActionRepo struct {
	db *gorm.DB
}

// NewActionRepo creates a new action repository
func NewActionRepo(db *gorm.DB) ActionRepository {
	return &ActionRepo{db: db}
}

// CreateAction inserts a new action
func (r *ActionRepo) CreateAction(ctx context.Context, action *models.Action) error {
	now := time.Now()
	action.CreatedAt = now
	action.UpdatedAt = now
	return r.db.WithContext(ctx).Create(action).Error
}

// GetActionByID retrieves an action by id
func (r *ActionRepo) GetActionByID(ctx context.Context, id int64) (*models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

// GetActiveActionByTargetID retrieves the single active action of a target, if any
func (r *ActionRepo) GetActiveActionByTargetID(ctx context.Context, targetID int64) (*models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND active = ?", targetID, true).
		Order("id DESC").
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

// GetLatestClosedActionByTargetID retrieves the most recently closed action of a target
func (r *ActionRepo) GetLatestClosedActionByTargetID(ctx context.Context, targetID int64) (*models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).
		Where("target_id = ? AND active = ?", targetID, false).
		Order("updated_at DESC, id DESC").
		First(&action).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &action, nil
}

// CountActionsByTargetID counts all actions ever created for a target
func (r *ActionRepo) CountActionsByTargetID(ctx context.Context, targetID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("target_id = ?", targetID).
		Count(&count).Error
	return count, err
}

// ListActionsByTargetID retrieves a target's actions, newest first
func (r *ActionRepo) ListActionsByTargetID(ctx context.Context, targetID int64, limit, offset int) ([]*models.Action, int64, error) {
	var actions []*models.Action
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("target_id = ?", targetID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&actions).Error
	return actions, total, err
}

// UpdateActionState persists the mutable state machine columns of an action
func (r *ActionRepo) UpdateActionState(ctx context.Context, action *models.Action) error {
	action.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).Model(&models.Action{}).
		Where("id = ?", action.ID).
		Updates(map[string]interface{}{
			"status":      action.Status,
			"active":      action.Active,
			"action_type": action.Type,
			"forced_time": action.ForcedTime,
			"updated_at":  action.UpdatedAt,
		}).Error
}

// ExistsActionForQueryAndTarget reports whether the auto-assignment of a filter
// query already created an action for the target
func (r *ActionRepo) ExistsActionForQueryAndTarget(ctx context.Context, queryID, targetID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Action{}).
		Where("target_filter_query_id = ? AND target_id = ?", queryID, targetID).
		Count(&count).Error
	return count > 0, err
}

// HasArtifactAssigned reports whether any action of the target, current or
// historical, references a distribution set carrying an artifact with the given
// content hash. Equality is on the hash alone, not on artifact identity.
func (r *ActionRepo) HasArtifactAssigned(ctx context.Context, targetID int64, sha256 string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Action{}).
		Joins("JOIN distribution_set_modules dsm ON dsm.distribution_set_id = actions.distribution_set_id").
		Joins("JOIN artifacts a ON a.software_module_id = dsm.software_module_id").
		Where("actions.target_id = ? AND a.sha256 = ?", targetID, sha256).
		Count(&count).Error
	return count > 0, err
}
