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

	"gorm.io/gorm"
)

// Advisory lock key spaces. Cycle locks and per-filter locks must not collide.
const (
	AdvisoryLockAutoAssignCycle int64 = 74201
	AdvisoryLockFilterBase      int64 = 74300
)

// AdvisoryLocker runs a function while holding a Postgres transaction-scoped
// advisory lock, so a cluster of instances never runs the same scheduled work
// twice. The lock is try-acquire: when another instance holds it the function
// is skipped and acquired is false.
type AdvisoryLocker interface {
	WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (acquired bool, err error)
}

// PgAdvisoryLocker implements AdvisoryLocker on pg_try_advisory_xact_lock
type PgAdvisoryLocker struct {
	db *gorm.DB
}

// NewPgAdvisoryLocker creates a new Postgres advisory locker
func NewPgAdvisoryLocker(db *gorm.DB) AdvisoryLocker {
	return &PgAdvisoryLocker{db: db}
}

// WithLock acquires the advisory lock inside a transaction and runs fn.
// The lock is released automatically when the transaction ends.
func (l *PgAdvisoryLocker) WithLock(ctx context.Context, key int64, fn func(ctx context.Context) error) (bool, error) {
	acquired := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked bool
		if err := tx.Raw("SELECT pg_try_advisory_xact_lock(?)", key).Scan(&locked).Error; err != nil {
			return err
		}
		if !locked {
			return nil
		}
		acquired = true
		return fn(ctx)
	})
	return acquired, err
}
