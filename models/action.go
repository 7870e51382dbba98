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

import (
	"fmt"
	"strings"
	"time"
)

// ActionState is the canonical status of an action. Informational feedback
// (download, retrieved, warning) is recorded in the ledger but never moves the
// action out of running.
type ActionState string

const (
	ActionStateRunning   ActionState = "running"
	ActionStateCanceling ActionState = "canceling"
	ActionStateFinished  ActionState = "finished"
	ActionStateError     ActionState = "error"
	ActionStateCanceled  ActionState = "canceled"
)

// IsTerminal reports whether the state is a closed one. A terminal action is
// never re-opened by controller feedback.
func (s ActionState) IsTerminal() bool {
	switch s {
	case ActionStateFinished, ActionStateError, ActionStateCanceled:
		return true
	}
	return false
}

// ActionType controls how aggressively the controller applies the update
type ActionType string

const (
	ActionTypeForced       ActionType = "forced"
	ActionTypeSoft         ActionType = "soft"
	ActionTypeTimeForced   ActionType = "timeforced"
	ActionTypeDownloadOnly ActionType = "download_only"
)

// ParseActionType parses a wire-level action type string
func ParseActionType(raw string) (ActionType, error) {
	switch ActionType(strings.ToLower(raw)) {
	case ActionTypeForced:
		return ActionTypeForced, nil
	case ActionTypeSoft:
		return ActionTypeSoft, nil
	case ActionTypeTimeForced:
		return ActionTypeTimeForced, nil
	case ActionTypeDownloadOnly:
		return ActionTypeDownloadOnly, nil
	}
	return "", fmt.Errorf("unknown action type %q", raw)
}

// FeedbackStatus is the status code a controller reports in a feedback call
type FeedbackStatus string

const (
	FeedbackRunning        FeedbackStatus = "running"
	FeedbackDownload       FeedbackStatus = "download"
	FeedbackRetrieved      FeedbackStatus = "retrieved"
	FeedbackWarning        FeedbackStatus = "warning"
	FeedbackFinished       FeedbackStatus = "finished"
	FeedbackError          FeedbackStatus = "error"
	FeedbackCanceled       FeedbackStatus = "canceled"
	FeedbackCancelRejected FeedbackStatus = "cancel_rejected"
	// FeedbackCanceling is written by the server itself when cancellation is requested
	FeedbackCanceling FeedbackStatus = "canceling"
)

// IsInformational reports whether the code carries progress detail only
func (s FeedbackStatus) IsInformational() bool {
	switch s {
	case FeedbackRunning, FeedbackDownload, FeedbackRetrieved, FeedbackWarning:
		return true
	}
	return false
}

// ParseFeedbackStatus parses a wire-level feedback status string
func ParseFeedbackStatus(raw string) (FeedbackStatus, error) {
	switch FeedbackStatus(strings.ToLower(raw)) {
	case FeedbackRunning:
		return FeedbackRunning, nil
	case FeedbackDownload:
		return FeedbackDownload, nil
	case FeedbackRetrieved:
		return FeedbackRetrieved, nil
	case FeedbackWarning:
		return FeedbackWarning, nil
	case FeedbackFinished:
		return FeedbackFinished, nil
	case FeedbackError:
		return FeedbackError, nil
	case FeedbackCanceled:
		return FeedbackCanceled, nil
	case FeedbackCancelRejected:
		return FeedbackCancelRejected, nil
	}
	return "", fmt.Errorf("unknown feedback status %q", raw)
}

// Action is the GORM model for the actions table. It is created by assignment,
// mutated only through the state machine and retained forever once closed.
type Action struct {
	ID                  int64       `gorm:"column:id;primaryKey;autoIncrement"`
	TargetID            int64       `gorm:"column:target_id;not null;index:idx_action_target_active"`
	DistributionSetID   int64       `gorm:"column:distribution_set_id;not null"`
	Status              ActionState `gorm:"column:status;not null;default:'running'"`
	Active              bool        `gorm:"column:active;not null;default:true;index:idx_action_target_active"`
	Type                ActionType  `gorm:"column:action_type;not null;default:'forced'"`
	ForcedTime          *time.Time  `gorm:"column:forced_time"`
	TargetFilterQueryID *int64      `gorm:"column:target_filter_query_id"`
	InitiatedBy         string      `gorm:"column:initiated_by;not null;default:''"`
	CreatedAt           time.Time   `gorm:"column:created_at;not null;default:NOW()"`
	UpdatedAt           time.Time   `gorm:"column:updated_at;not null;default:NOW()"`
}

func (Action) TableName() string { return "actions" }

// ActionStatus is one append-only ledger entry of an action. Immutable once written.
type ActionStatus struct {
	ID         int64          `gorm:"column:id;primaryKey;autoIncrement"`
	ActionID   int64          `gorm:"column:action_id;not null;index:idx_action_status_action"`
	Status     FeedbackStatus `gorm:"column:status;not null"`
	Messages   []string       `gorm:"column:messages;type:jsonb;serializer:json;not null;default:'[]'"`
	OccurredAt time.Time      `gorm:"column:occurred_at;not null;default:NOW()"`
	CreatedAt  time.Time      `gorm:"column:created_at;not null;default:NOW()"`
}

func (ActionStatus) TableName() string { return "action_statuses" }

// ToResponse converts an Action DB record to ActionResponse
func (a *Action) ToResponse() *ActionResponse {
	return &ActionResponse{
		ID:                  a.ID,
		TargetID:            a.TargetID,
		DistributionSetID:   a.DistributionSetID,
		Status:              a.Status,
		Active:              a.Active,
		Type:                a.Type,
		ForcedTime:          a.ForcedTime,
		TargetFilterQueryID: a.TargetFilterQueryID,
		CreatedAt:           a.CreatedAt,
	}
}

// ToResponse converts an ActionStatus DB record to ActionStatusResponse
func (s *ActionStatus) ToResponse() *ActionStatusResponse {
	return &ActionStatusResponse{
		ID:         s.ID,
		Status:     s.Status,
		Messages:   s.Messages,
		OccurredAt: s.OccurredAt,
	}
}

// ActionResponse is the API response for an action
type ActionResponse struct {
	ID                  int64       `json:"id"`
	TargetID            int64       `json:"targetId"`
	DistributionSetID   int64       `json:"distributionSetId"`
	Status              ActionState `json:"status"`
	Active              bool        `json:"active"`
	Type                ActionType  `json:"type"`
	ForcedTime          *time.Time  `json:"forcedTime,omitempty"`
	TargetFilterQueryID *int64      `json:"targetFilterQueryId,omitempty"`
	CreatedAt           time.Time   `json:"createdAt"`
}

// ActionListResponse is the API response for listing actions
type ActionListResponse struct {
	Actions []ActionResponse `json:"actions"`
	Total   int64            `json:"total"`
}

// ActionStatusResponse is one ledger entry in an action history response
type ActionStatusResponse struct {
	ID         int64          `json:"id"`
	Status     FeedbackStatus `json:"status"`
	Messages   []string       `json:"messages"`
	OccurredAt time.Time      `json:"occurredAt"`
}

// ActionStatusListResponse is the API response for an action's ledger
type ActionStatusListResponse struct {
	Statuses []ActionStatusResponse `json:"statuses"`
	Total    int64                  `json:"total"`
}

// FeedbackRequest is the body a controller posts on the update or cancel channel
type FeedbackRequest struct {
	Status   string   `json:"status"`
	Messages []string `json:"messages,omitempty"`
}

// AssignDistributionSetRequest is the request body for assigning a set to targets
type AssignDistributionSetRequest struct {
	ControllerIDs []string `json:"controllerIds"`
	Type          string   `json:"type,omitempty"`
	ForcedTime    *int64   `json:"forcedTime,omitempty"` // unix seconds, timeforced only
}

// Assignment outcomes per target
const (
	AssignmentOutcomeAssigned        = "assigned"
	AssignmentOutcomeAlreadyAssigned = "alreadyAssigned"
	AssignmentOutcomeNotFound        = "notFound"
)

// TargetAssignmentResult is the per-target outcome of an assignment request
type TargetAssignmentResult struct {
	ControllerID string `json:"controllerId"`
	Outcome      string `json:"outcome"`
	ActionID     *int64 `json:"actionId,omitempty"`
}

// AssignDistributionSetResponse is the API response for an assignment request
type AssignDistributionSetResponse struct {
	Assigned        int                      `json:"assigned"`
	AlreadyAssigned int                      `json:"alreadyAssigned"`
	NotFound        int                      `json:"notFound"`
	Results         []TargetAssignmentResult `json:"results"`
}

// PollResponse is returned to a controller on every poll
type PollResponse struct {
	Config     PollConfig      `json:"config"`
	Deployment *DeploymentLink `json:"deployment,omitempty"`
	Cancel     *DeploymentLink `json:"cancel,omitempty"`
}

// PollConfig carries the polling interval hint
type PollConfig struct {
	PollingIntervalSeconds int `json:"pollingIntervalSeconds"`
}

// DeploymentLink references the action a controller must act on next
type DeploymentLink struct {
	ActionID          int64 `json:"actionId"`
	DistributionSetID int64 `json:"distributionSetId,omitempty"`
}

// DeploymentBaseResponse is the detailed deployment view for one action
type DeploymentBaseResponse struct {
	ActionID        int64                   `json:"actionId"`
	Type            ActionType              `json:"type"`
	ForcedTime      *time.Time              `json:"forcedTime,omitempty"`
	DistributionSet DistributionSetResponse `json:"distributionSet"`
}

// ArtifactAssignedResponse reports a content-addressed artifact authorization check
type ArtifactAssignedResponse struct {
	SHA256   string `json:"sha256"`
	Assigned bool   `json:"assigned"`
}
