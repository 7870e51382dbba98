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

// TargetFilterQuery is a saved target filter, optionally linked to a
// distribution set for auto-assignment. The predicate text is opaque to the
// core and handed to the filter evaluator as-is.
type TargetFilterQuery struct {
	ID                          int64       `gorm:"column:id;primaryKey;autoIncrement"`
	Name                        string      `gorm:"column:name;not null;uniqueIndex"`
	Query                       string      `gorm:"column:query;not null"`
	AutoAssignDistributionSetID *int64      `gorm:"column:auto_assign_distribution_set_id"`
	AutoAssignActionType        *ActionType `gorm:"column:auto_assign_action_type"`
	CreatedAt                   time.Time   `gorm:"column:created_at;not null;default:NOW()"`
	UpdatedAt                   time.Time   `gorm:"column:updated_at;not null;default:NOW()"`
}

func (TargetFilterQuery) TableName() string { return "target_filter_queries" }

// IsValidAutoAssignActionType reports whether the type may drive auto-assignment.
// Timeforced is deliberately excluded: there is no single forced-time that fits
// targets matching at different times.
func IsValidAutoAssignActionType(t ActionType) bool {
	switch t {
	case ActionTypeForced, ActionTypeSoft, ActionTypeDownloadOnly:
		return true
	}
	return false
}

// ToResponse converts a TargetFilterQuery DB record to TargetFilterQueryResponse
func (q *TargetFilterQuery) ToResponse() *TargetFilterQueryResponse {
	return &TargetFilterQueryResponse{
		ID:                          q.ID,
		Name:                        q.Name,
		Query:                       q.Query,
		AutoAssignDistributionSetID: q.AutoAssignDistributionSetID,
		AutoAssignActionType:        q.AutoAssignActionType,
		CreatedAt:                   q.CreatedAt,
	}
}

// CreateTargetFilterQueryRequest is the request body for creating a filter
type CreateTargetFilterQueryRequest struct {
	Name  string `json:"name"`
	Query string `json:"query"`
}

// UpdateTargetFilterQueryRequest is the request body for updating a filter
type UpdateTargetFilterQueryRequest struct {
	Name  *string `json:"name,omitempty"`
	Query *string `json:"query,omitempty"`
}

// AutoAssignRequest attaches or updates the auto-assign link of a filter
type AutoAssignRequest struct {
	DistributionSetID int64  `json:"distributionSetId"`
	ActionType        string `json:"actionType,omitempty"`
}

// TargetFilterQueryResponse is the API response for a filter
type TargetFilterQueryResponse struct {
	ID                          int64       `json:"id"`
	Name                        string      `json:"name"`
	Query                       string      `json:"query"`
	AutoAssignDistributionSetID *int64      `json:"autoAssignDistributionSetId,omitempty"`
	AutoAssignActionType        *ActionType `json:"autoAssignActionType,omitempty"`
	CreatedAt                   time.Time   `json:"createdAt"`
}

// TargetFilterQueryListResponse is the API response for listing filters
type TargetFilterQueryListResponse struct {
	Filters []TargetFilterQueryResponse `json:"filters"`
	Total   int64                       `json:"total"`
}
