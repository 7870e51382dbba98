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

// create tables actions and action_statuses
var migration003 = migration{
	ID: 3,
	Migrate: func(db *gorm.DB) error {
		createActions := `CREATE TABLE actions
(
   id                      BIGSERIAL PRIMARY KEY,
   target_id               BIGINT NOT NULL REFERENCES targets(id) ON DELETE CASCADE,
   distribution_set_id     BIGINT NOT NULL REFERENCES distribution_sets(id),
   status                  VARCHAR(20) NOT NULL DEFAULT 'running',
   active                  BOOLEAN NOT NULL DEFAULT TRUE,
   action_type             VARCHAR(20) NOT NULL DEFAULT 'forced',
   forced_time             TIMESTAMPTZ,
   target_filter_query_id  BIGINT,
   initiated_by            VARCHAR(128) NOT NULL DEFAULT '',
   created_at              TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at              TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT action_status_enum CHECK (status IN ('running', 'canceling', 'finished', 'error', 'canceled')),
   CONSTRAINT action_type_enum CHECK (action_type IN ('forced', 'soft', 'timeforced', 'download_only'))
)`

		createActionsIndex := `CREATE INDEX idx_action_target_active ON actions(target_id, active)`

		// at most one active action per target
		createActiveIndex := `CREATE UNIQUE INDEX uk_actions_one_active_per_target ON actions(target_id) WHERE active`

		createStatuses := `CREATE TABLE action_statuses
(
   id           BIGSERIAL PRIMARY KEY,
   action_id    BIGINT NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
   status       VARCHAR(20) NOT NULL,
   messages     JSONB NOT NULL DEFAULT '[]',
   occurred_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   created_at   TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

		createStatusesIndex := `CREATE INDEX idx_action_status_action ON action_statuses(action_id)`

		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createActions, createActionsIndex, createActiveIndex,
				createStatuses, createStatusesIndex)
		})
	},
}
