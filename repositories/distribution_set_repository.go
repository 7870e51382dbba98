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

// DistributionSetRepository defines the interface for distribution set data access
type DistributionSetRepository interface {
	CreateDistributionSet(ctx context.Context, ds *models.DistributionSet) error
	GetDistributionSetByID(ctx context.Context, id int64) (*models.DistributionSet, error)
	ListDistributionSets(ctx context.Context, limit, offset int) ([]*models.DistributionSet, int64, error)
	SoftDeleteDistributionSet(ctx context.Context, id int64) error
	GetTypeByKey(ctx context.Context, key string) (*models.DistributionSetType, error)
	CreateType(ctx context.Context, dsType *models.DistributionSetType) error
}

// DistributionSetRepo implements DistributionSetRepository using GORM
type DistributionSetRepo struct {
	db *gorm.DB
}

// NewDistributionSetRepo creates a new distribution set repository
func NewDistributionSetRepo(db *gorm.DB) DistributionSetRepository {
	return &DistributionSetRepo{db: db}
}

// CreateDistributionSet inserts a set together with its modules and artifacts
func (r *DistributionSetRepo) CreateDistributionSet(ctx context.Context, ds *models.DistributionSet) error {
	now := time.Now()
	ds.CreatedAt = now
	ds.UpdatedAt = now
	return r.db.WithContext(ctx).Create(ds).Error
}

// GetDistributionSetByID retrieves a set with its modules and artifacts
func (r *DistributionSetRepo) GetDistributionSetByID(ctx context.Context, id int64) (*models.DistributionSet, error) {
	var ds models.DistributionSet
	err := r.db.WithContext(ctx).
		Preload("Modules").
		Preload("Modules.Artifacts").
		Where("id = ?", id).
		First(&ds).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ds, nil
}

// ListDistributionSets retrieves non-deleted sets with pagination
func (r *DistributionSetRepo) ListDistributionSets(ctx context.Context, limit, offset int) ([]*models.DistributionSet, int64, error) {
	var sets []*models.DistributionSet
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.DistributionSet{}).
		Where("deleted = ?", false).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := r.db.WithContext(ctx).
		Preload("Modules").
		Preload("Modules.Artifacts").
		Where("deleted = ?", false).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&sets).Error
	return sets, total, err
}

// SoftDeleteDistributionSet marks a set deleted. The row is retained because
// closed actions keep referencing it.
func (r *DistributionSetRepo) SoftDeleteDistributionSet(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&models.DistributionSet{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"deleted":    true,
			"updated_at": time.Now(),
		}).Error
}

// GetTypeByKey retrieves a distribution set type descriptor
func (r *DistributionSetRepo) GetTypeByKey(ctx context.Context, key string) (*models.DistributionSetType, error) {
	var dsType models.DistributionSetType
	err := r.db.WithContext(ctx).Where("key = ?", key).First(&dsType).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &dsType, nil
}

// CreateType inserts a new distribution set type descriptor
func (r *DistributionSetRepo) CreateType(ctx context.Context, dsType *models.DistributionSetType) error {
	dsType.CreatedAt = time.Now()
	return r.db.WithContext(ctx).Create(dsType).Error
}
