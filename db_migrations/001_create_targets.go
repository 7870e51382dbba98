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
	"gorm.io/gorm"
)

// create tables targets and target_attributes
var migration001 = migration{
	ID: 1,
	Migrate: func(db *gorm.DB) error {
		createTargets := `CREATE TABLE targets
(
   id                             BIGSERIAL PRIMARY KEY,
   controller_id                  VARCHAR(256) NOT NULL,
   name                           VARCHAR(256) NOT NULL DEFAULT '',
   update_status                  VARCHAR(20)  NOT NULL DEFAULT 'unknown',
   last_address                   VARCHAR(512) NOT NULL DEFAULT '',
   last_poll_at                   TIMESTAMPTZ,
   assigned_distribution_set_id   BIGINT,
   installed_distribution_set_id  BIGINT,
   security_token                 VARCHAR(128) NOT NULL DEFAULT '',
   created_at                     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at                     TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT update_status_enum CHECK (update_status IN ('unknown', 'registered', 'pending', 'in_sync', 'error'))
)`

		createTargetsIndex := `CREATE UNIQUE INDEX uk_targets_controller_id ON targets(controller_id)`

		createAttributes := `CREATE TABLE target_attributes
(
   target_id   BIGINT NOT NULL REFERENCES targets(id) ON DELETE CASCADE,
   key         VARCHAR(128) NOT NULL,
   value       VARCHAR(512) NOT NULL,
   updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   PRIMARY KEY (target_id, key)
)`

		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createTargets, createTargetsIndex, createAttributes)
		})
	},
}
