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

package models

import "time"

// TargetUpdateStatus is the externally visible update status of a target. It is
// derived from the target's actions and never set directly after registration.
type TargetUpdateStatus string

const (
	TargetStatusUnknown    TargetUpdateStatus = "unknown"
	TargetStatusRegistered TargetUpdateStatus = "registered"
	TargetStatusPending    TargetUpdateStatus = "pending"
	TargetStatusInSync     TargetUpdateStatus = "in_sync"
	TargetStatusError      TargetUpdateStatus = "error"
)

// Target is the GORM model for the targets table
type Target struct {
	ID                         int64              `gorm:"column:id;primaryKey;autoIncrement"`
	ControllerID               string             `gorm:"column:controller_id;not null;uniqueIndex"`
	Name                       string             `gorm:"column:name;not null;default:''"`
	UpdateStatus               TargetUpdateStatus `gorm:"column:update_status;not null;default:'unknown'"`
	LastAddress                string             `gorm:"column:last_address;not null;default:''"`
	LastPollAt                 *time.Time         `gorm:"column:last_poll_at"`
	AssignedDistributionSetID  *int64             `gorm:"column:assigned_distribution_set_id"`
	InstalledDistributionSetID *int64             `gorm:"column:installed_distribution_set_id"`
	SecurityToken              string             `gorm:"column:security_token;not null;default:''" json:"-"`
	CreatedAt                  time.Time          `gorm:"column:created_at;not null;default:NOW()"`
	UpdatedAt                  time.Time          `gorm:"column:updated_at;not null;default:NOW()"`
}

func (Target) TableName() string { return "targets" }

// TargetAttribute is one controller-reported config attribute of a target
type TargetAttribute struct {
	TargetID  int64     `gorm:"column:target_id;primaryKey"`
	Key       string    `gorm:"column:key;primaryKey"`
	Value     string    `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null;default:NOW()"`
}

func (TargetAttribute) TableName() string { return "target_attributes" }

// ToResponse converts a Target DB record to TargetResponse
func (t *Target) ToResponse() *TargetResponse {
	return &TargetResponse{
		ControllerID:               t.ControllerID,
		Name:                       t.Name,
		UpdateStatus:               t.UpdateStatus,
		LastAddress:                t.LastAddress,
		LastPollAt:                 t.LastPollAt,
		AssignedDistributionSetID:  t.AssignedDistributionSetID,
		InstalledDistributionSetID: t.InstalledDistributionSetID,
		CreatedAt:                  t.CreatedAt,
	}
}

// CreateTargetRequest is the request body for provisioning a target
type CreateTargetRequest struct {
	ControllerID string `json:"controllerId"`
	Name         string `json:"name,omitempty"`
}

// TargetResponse is the API response for a target
type TargetResponse struct {
	ControllerID               string             `json:"controllerId"`
	Name                       string             `json:"name,omitempty"`
	UpdateStatus               TargetUpdateStatus `json:"updateStatus"`
	LastAddress                string             `json:"lastAddress,omitempty"`
	LastPollAt                 *time.Time         `json:"lastPollAt,omitempty"`
	AssignedDistributionSetID  *int64             `json:"assignedDistributionSetId,omitempty"`
	InstalledDistributionSetID *int64             `json:"installedDistributionSetId,omitempty"`
	CreatedAt                  time.Time          `json:"createdAt"`
}

// TargetListResponse is the API response for listing targets
type TargetListResponse struct {
	Targets []TargetResponse `json:"targets"`
	Total   int64            `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

// ConfigDataRequest is the controller-reported attribute payload.
// Mode "replace" swaps the attribute set, "merge" upserts, "remove" deletes keys.
type ConfigDataRequest struct {
	Mode string            `json:"mode,omitempty"`
	Data map[string]string `json:"data"`
}

// Config data modes
const (
	ConfigDataModeMerge   = "merge"
	ConfigDataModeReplace = "replace"
	ConfigDataModeRemove  = "remove"
)
