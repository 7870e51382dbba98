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
	"time"

	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
)

// ActionStatusRepository defines the interface for the append-only action ledger
type ActionStatusRepository interface {
	AppendStatus(ctx context.Context, status *models.ActionStatus) error
	CountStatusesByActionID(ctx context.Context, actionID int64) (int64, error)
	ListStatusesByActionID(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error)
	HasStatusForAction(ctx context.Context, actionID int64, status models.FeedbackStatus) (bool, error)
}

// ActionStatusRepo implements ActionStatusRepository using GORM
type ActionStatusRepo struct {
	db *gorm.DB
}

// NewActionStatusRepo creates a new action status repository
func NewActionStatusRepo(db *gorm.DB) ActionStatusRepository {
	return &ActionStatusRepo{db: db}
}

// AppendStatus inserts a new ledger entry. Entries are never updated or deleted.
func (r *ActionStatusRepo) AppendStatus(ctx context.Context, status *models.ActionStatus) error {
	now := time.Now()
	status.CreatedAt = now
	if status.OccurredAt.IsZero() {
		status.OccurredAt = now
	}
	if status.Messages == nil {
		status.Messages = []string{}
	}
	return r.db.WithContext(ctx).Create(status).Error
}

// CountStatusesByActionID counts the ledger entries of an action
func (r *ActionStatusRepo) CountStatusesByActionID(ctx context.Context, actionID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActionStatus{}).
		Where("action_id = ?", actionID).
		Count(&count).Error
	return count, err
}

// ListStatusesByActionID retrieves the most recent ledger entries of an action
func (r *ActionStatusRepo) ListStatusesByActionID(ctx context.Context, actionID int64, limit int) ([]*models.ActionStatus, int64, error) {
	var statuses []*models.ActionStatus
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ActionStatus{}).
		Where("action_id = ?", actionID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Where("action_id = ?", actionID).
		Order("id DESC").
		Limit(limit).
		Find(&statuses).Error
	return statuses, total, err
}

// HasStatusForAction reports whether the action's ledger already holds an entry
// with the given status code
func (r *ActionStatusRepo) HasStatusForAction(ctx context.Context, actionID int64, status models.FeedbackStatus) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ActionStatus{}).
		Where("action_id = ? AND status = ?", actionID, status).
		Count(&count).Error
	return count > 0, err
}
