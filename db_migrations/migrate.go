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

package dbmigrations

import (
	"fmt"

	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/db"
)

type migration struct {
	ID      int
	Migrate func(db *gorm.DB) error
}

// migrations are applied in order of their numeric IDs
var migrations = []migration{
	migration001,
	migration002,
	migration003,
	migration004,
}

func runSQL(tx *gorm.DB, statements ...string) error {
	for _, statement := range statements {
		if err := tx.Exec(statement).Error; err != nil {
			return err
		}
	}
	return nil
}

// Migrate applies all pending database migrations
func Migrate() error {
	database := db.GetDB()

	gormMigrations := make([]*gormigrate.Migration, 0, len(migrations))
	for _, m := range migrations {
		migrateFn := m.Migrate
		gormMigrations = append(gormMigrations, &gormigrate.Migration{
			ID:      fmt.Sprintf("%03d", m.ID),
			Migrate: migrateFn,
		})
	}

	return gormigrate.New(database, gormigrate.DefaultOptions, gormMigrations).Migrate()
}
