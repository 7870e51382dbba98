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

// create distribution set, software module and artifact tables
var migration002 = migration{
	ID: 2,
	Migrate: func(db *gorm.DB) error {
		createTypes := `CREATE TABLE distribution_set_types
(
   id                      BIGSERIAL PRIMARY KEY,
   key                     VARCHAR(64)  NOT NULL,
   name                    VARCHAR(256) NOT NULL,
   mandatory_module_types  JSONB NOT NULL DEFAULT '[]',
   optional_module_types   JSONB NOT NULL DEFAULT '[]',
   created_at              TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

		createTypesIndex := `CREATE UNIQUE INDEX uk_distribution_set_types_key ON distribution_set_types(key)`

		createSets := `CREATE TABLE distribution_sets
(
   id          BIGSERIAL PRIMARY KEY,
   name        VARCHAR(256) NOT NULL,
   version     VARCHAR(64)  NOT NULL,
   type_key    VARCHAR(64)  NOT NULL,
   complete    BOOLEAN NOT NULL DEFAULT FALSE,
   deleted     BOOLEAN NOT NULL DEFAULT FALSE,
   created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
   updated_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

		createSetsIndex := `CREATE UNIQUE INDEX uk_distribution_sets_name_version ON distribution_sets(name, version) WHERE NOT deleted`

		createModules := `CREATE TABLE software_modules
(
   id          BIGSERIAL PRIMARY KEY,
   name        VARCHAR(256) NOT NULL,
   version     VARCHAR(64)  NOT NULL,
   type_name   VARCHAR(64)  NOT NULL,
   deleted     BOOLEAN NOT NULL DEFAULT FALSE,
   created_at  TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

		createSetModules := `CREATE TABLE distribution_set_modules
(
   distribution_set_id  BIGINT NOT NULL REFERENCES distribution_sets(id) ON DELETE CASCADE,
   software_module_id   BIGINT NOT NULL REFERENCES software_modules(id) ON DELETE CASCADE,
   PRIMARY KEY (distribution_set_id, software_module_id)
)`

		createArtifacts := `CREATE TABLE artifacts
(
   id                  BIGSERIAL PRIMARY KEY,
   software_module_id  BIGINT NOT NULL REFERENCES software_modules(id) ON DELETE CASCADE,
   filename            VARCHAR(256) NOT NULL,
   sha256              CHAR(64) NOT NULL,
   size_bytes          BIGINT NOT NULL DEFAULT 0,
   created_at          TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

		createArtifactsIndexes := `CREATE INDEX idx_artifacts_software_module ON artifacts(software_module_id)`
		createArtifactsShaIndex := `CREATE INDEX idx_artifacts_sha256 ON artifacts(sha256)`

		return db.Transaction(func(tx *gorm.DB) error {
			return runSQL(tx, createTypes, createTypesIndex, createSets, createSetsIndex,
				createModules, createSetModules, createArtifacts, createArtifactsIndexes, createArtifactsShaIndex)
		})
	},
}
