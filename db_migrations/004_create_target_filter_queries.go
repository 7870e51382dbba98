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

// create table target_filter_queries
var migration004 = migration{
	ID: 4,
	Migrate: func(db *gorm.DB) error {
		createFilters := `CREATE TABLE target_filter_queries
(
   id                               BIGSERIAL PRIMARY KEY,
   name                             VARCHAR(128) NOT NULL,
   query                            VARCHAR(1024) NOT NULL,
   auto_assign_distribution_set_id  BIGINT REFERENCES distribution_sets(id),
   auto_assign_action_type          VARCHAR(20),
   created_at                       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at                       TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   CONSTRAINT auto_assign_action_type_enum CHECK (auto_assign_action_type IS NULL OR auto_assign_action_type IN ('forced', 'soft', 'download_only'))
)`

		createFiltersIndex := `CREATE UNIQUE INDEX uk_target_filter_queries_name ON target_filter_queries(name)`

		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createFilters, createFiltersIndex)
		})
	},
}
