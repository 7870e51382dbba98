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

	"github.com/google/uuid"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// TargetService is the administrator surface over targets
type TargetService interface {
	CreateTarget(ctx context.Context, req *models.CreateTargetRequest) (*models.Target, error)
	GetTarget(ctx context.Context, controllerID string) (*models.Target, error)
	ListTargets(ctx context.Context, limit, offset int) ([]*models.Target, int64, error)
	DeleteTarget(ctx context.Context, controllerID string) error
	GetTargetAttributes(ctx context.Context, controllerID string) ([]models.TargetAttribute, error)
}

type targetService struct {
	targetRepo repositories.TargetRepository
	locks      *TargetLocks
}

// NewTargetService creates a TargetService instance
func NewTargetService(targetRepo repositories.TargetRepository, locks *TargetLocks) TargetService {
	return &targetService{
		targetRepo: targetRepo,
		locks:      locks,
	}
}

// CreateTarget pre-provisions a target before its first poll
func (s *targetService) CreateTarget(ctx context.Context, req *models.CreateTargetRequest) (*models.Target, error) {
	controllerID := strings.TrimSpace(req.ControllerID)
	if controllerID == "" {
		return nil, utils.ErrInvalidInput
	}

	unlock := s.locks.Lock(controllerID)
	defer unlock()

	existing, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, utils.ErrTargetAlreadyExists
	}

	target := &models.Target{
		ControllerID:  controllerID,
		Name:          req.Name,
		UpdateStatus:  models.TargetStatusUnknown,
		SecurityToken: uuid.New().String(),
	}
	if err := s.targetRepo.CreateTarget(ctx, target); err != nil {
		return nil, err
	}
	return target, nil
}

// GetTarget returns one target by controller ID
func (s *targetService) GetTarget(ctx context.Context, controllerID string) (*models.Target, error) {
	target, err := s.targetRepo.GetTargetByControllerID(ctx, controllerID)
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, utils.ErrTargetNotFound
	}
	return target, nil
}

// ListTargets returns a page of targets
func (s *targetService) ListTargets(ctx context.Context, limit, offset int) ([]*models.Target, int64, error) {
	return s.targetRepo.ListTargets(ctx, limit, offset)
}

// DeleteTarget removes a target and its attributes. The action history of
// the target is kept.
func (s *targetService) DeleteTarget(ctx context.Context, controllerID string) error {
	unlock := s.locks.Lock(controllerID)
	defer unlock()

	if _, err := s.GetTarget(ctx, controllerID); err != nil {
		return err
	}
	return s.targetRepo.DeleteTarget(ctx, controllerID)
}

// GetTargetAttributes returns the controller-reported attributes of a target
func (s *targetService) GetTargetAttributes(ctx context.Context, controllerID string) ([]models.TargetAttribute, error) {
	target, err := s.GetTarget(ctx, controllerID)
	if err != nil {
		return nil, err
	}
	return s.targetRepo.GetAttributes(ctx, target.ID)
}
