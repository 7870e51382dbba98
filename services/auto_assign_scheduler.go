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
	"log/slog"
	"sync"
	"time"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/repositories"
)

// AutoAssignSchedulerService runs the auto-assignment pass periodically
type AutoAssignSchedulerService interface {
	Start(ctx context.Context) error
	Stop() error
}

type autoAssignSchedulerService struct {
	autoAssign AutoAssignService
	locker     repositories.AdvisoryLocker
	logger     *slog.Logger
	interval   time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
}

// NewAutoAssignSchedulerService creates a new auto-assignment scheduler
func NewAutoAssignSchedulerService(
	autoAssign AutoAssignService,
	locker repositories.AdvisoryLocker,
	logger *slog.Logger,
	interval time.Duration,
) AutoAssignSchedulerService {
	return &autoAssignSchedulerService{
		autoAssign: autoAssign,
		locker:     locker,
		logger:     logger,
		interval:   interval,
		stopCh:     make(chan struct{}),
	}
}

// Start begins the scheduler
func (s *autoAssignSchedulerService) Start(ctx context.Context) error {
	s.logger.Info("Initializing auto-assignment scheduler", "interval", s.interval)

	// Run scheduler loop in background
	go s.runSchedulerLoop(ctx)

	s.logger.Info("Auto-assignment scheduler started")
	return nil
}

// Stop stops the scheduler
func (s *autoAssignSchedulerService) Stop() error {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.logger.Info("Auto-assignment scheduler stopped")
	})
	return nil
}

// runSchedulerLoop runs the main scheduler loop (only when leader)
func (s *autoAssignSchedulerService) runSchedulerLoop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	// Run immediately on start
	s.runSchedulerCycle(ctx)

	for {
		select {
		case <-ticker.C:
			s.runSchedulerCycle(ctx)
		case <-s.stopCh:
			s.logger.Info("Scheduler loop stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Scheduler loop context cancelled")
			return
		}
	}
}

// runSchedulerCycle executes one cycle of the scheduler. The cycle-level
// advisory lock keeps a cluster of instances from running concurrent passes;
// per-filter locks inside RunAll additionally guard on-demand triggers.
func (s *autoAssignSchedulerService) runSchedulerCycle(ctx context.Context) {
	acquired, err := s.locker.WithLock(ctx, repositories.AdvisoryLockAutoAssignCycle, func(ctx context.Context) error {
		s.logger.Debug("Running auto-assignment cycle")
		return s.autoAssign.RunAll(ctx)
	})
	if err != nil {
		s.logger.Error("Auto-assignment cycle failed", "error", err)
		return
	}
	if !acquired {
		s.logger.Debug("Another instance is running auto-assignment, skipping cycle")
	}
}
