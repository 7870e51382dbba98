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
	"gorm.io/gorm/clause"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
)

// TargetRepository defines the interface for target data access
type TargetRepository interface {
	CreateTarget(ctx context.Context, target *models.Target) error
	GetTargetByControllerID(ctx context.Context, controllerID string) (*models.Target, error)
	GetTargetByID(ctx context.Context, id int64) (*models.Target, error)
	FindOrCreateTarget(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error)
	UpdateTarget(ctx context.Context, target *models.Target, updates map[string]interface{}) error
	DeleteTarget(ctx context.Context, controllerID string) error
	ListTargets(ctx context.Context, limit, offset int) ([]*models.Target, int64, error)

	GetAttributes(ctx context.Context, targetID int64) ([]models.TargetAttribute, error)
	CountAttributes(ctx context.Context, targetID int64, excludeKeys []string) (int64, error)
	UpsertAttributes(ctx context.Context, targetID int64, data map[string]string) error
	ReplaceAttributes(ctx context.Context, targetID int64, data map[string]string) error
	RemoveAttributes(ctx context.Context, targetID int64, keys []string) error
}

// TargetRepo implements TargetRepository using GORM
type TargetRepo struct {
	db *gorm.DB
}

// NewTargetRepo creates a new target repository
func NewTargetRepo(db *gorm.DB) TargetRepository {
	return &TargetRepo{db: db}
}

// CreateTarget inserts a new target
func (r *TargetRepo) CreateTarget(ctx context.Context, target *models.Target) error {
	now := time.Now()
	target.CreatedAt = now
	target.UpdatedAt = now
	if target.UpdateStatus == "" {
		target.UpdateStatus = models.TargetStatusUnknown
	}
	return r.db.WithContext(ctx).Create(target).Error
}

// GetTargetByControllerID retrieves a target by its controller id
func (r *TargetRepo) GetTargetByControllerID(ctx context.Context, controllerID string) (*models.Target, error) {
	var target models.Target
	err := r.db.WithContext(ctx).Where("controller_id = ?", controllerID).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

// GetTargetByID retrieves a target by its internal id
func (r *TargetRepo) GetTargetByID(ctx context.Context, id int64) (*models.Target, error) {
	var target models.Target
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&target).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &target, nil
}

// FindOrCreateTarget returns the target for the controller id, registering it on
// first contact. The insert-on-conflict keeps concurrent identical calls from
// creating more than one row per controller id.
func (r *TargetRepo) FindOrCreateTarget(ctx context.Context, controllerID, address, securityToken string) (*models.Target, bool, error) {
	now := time.Now()
	candidate := &models.Target{
		ControllerID:  controllerID,
		Name:          controllerID,
		UpdateStatus:  models.TargetStatusRegistered,
		LastAddress:   address,
		LastPollAt:    &now,
		SecurityToken: securityToken,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "controller_id"}},
			DoNothing: true,
		}).
		Create(candidate)
	if res.Error != nil {
		return nil, false, res.Error
	}
	created := res.RowsAffected > 0
	if created {
		return candidate, true, nil
	}
	existing, err := r.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// UpdateTarget applies the given column updates to a target
func (r *TargetRepo) UpdateTarget(ctx context.Context, target *models.Target, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).Model(&models.Target{}).
		Where("id = ?", target.ID).
		Updates(updates).Error
}

// DeleteTarget removes a target and its attributes
func (r *TargetRepo) DeleteTarget(ctx context.Context, controllerID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var target models.Target
		if err := tx.Where("controller_id = ?", controllerID).First(&target).Error; err != nil {
			return err
		}
		if err := tx.Where("target_id = ?", target.ID).Delete(&models.TargetAttribute{}).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	})
}

// ListTargets retrieves targets with pagination
func (r *TargetRepo) ListTargets(ctx context.Context, limit, offset int) ([]*models.Target, int64, error) {
	var targets []*models.Target
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Target{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&targets).Error
	return targets, total, err
}

// GetAttributes retrieves all attributes of a target
func (r *TargetRepo) GetAttributes(ctx context.Context, targetID int64) ([]models.TargetAttribute, error) {
	var attributes []models.TargetAttribute
	err := r.db.WithContext(ctx).
		Where("target_id = ?", targetID).
		Order("key ASC").
		Find(&attributes).Error
	return attributes, err
}

// CountAttributes counts a target's attributes, optionally excluding keys that
// are about to be overwritten
func (r *TargetRepo) CountAttributes(ctx context.Context, targetID int64, excludeKeys []string) (int64, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.TargetAttribute{}).Where("target_id = ?", targetID)
	if len(excludeKeys) > 0 {
		q = q.Where("key NOT IN ?", excludeKeys)
	}
	err := q.Count(&count).Error
	return count, err
}

// UpsertAttributes inserts or updates the given attributes
func (r *TargetRepo) UpsertAttributes(ctx context.Context, targetID int64, data map[string]string) error {
	now := time.Now()
	rows := make([]models.TargetAttribute, 0, len(data))
	for key, value := range data {
		rows = append(rows, models.TargetAttribute{
			TargetID:  targetID,
			Key:       key,
			Value:     value,
			UpdatedAt: now,
		})
	}
	if len(rows) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "target_id"}, {Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&rows).Error
}

// ReplaceAttributes swaps the full attribute set of a target
func (r *TargetRepo) ReplaceAttributes(ctx context.Context, targetID int64, data map[string]string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("target_id = ?", targetID).Delete(&models.TargetAttribute{}).Error; err != nil {
			return err
		}
		if len(data) == 0 {
			return nil
		}
		now := time.Now()
		rows := make([]models.TargetAttribute, 0, len(data))
		for key, value := range data {
			rows = append(rows, models.TargetAttribute{
				TargetID:  targetID,
				Key:       key,
				Value:     value,
				UpdatedAt: now,
			})
		}
		return tx.Create(&rows).Error
	})
}

// RemoveAttributes deletes the given attribute keys
func (r *TargetRepo) RemoveAttributes(ctx context.Context, targetID int64, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("target_id = ? AND key IN ?", targetID, keys).
		Delete(&models.TargetAttribute{}).Error
}
