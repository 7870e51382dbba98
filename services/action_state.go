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
	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// FeedbackPolicy is the late-feedback handling configuration, threaded into
// every feedback call instead of living in global state.
type FeedbackPolicy struct {
	// RejectStatusOnClose drops reports for closed actions without a ledger
	// entry; when false the report is recorded for audit. Neither variant ever
	// re-opens a closed action.
	RejectStatusOnClose bool
}

// Quotas caps the unbounded dimensions of the deployment core
type Quotas struct {
	MaxStatusEntriesPerAction    int
	MaxMessagesPerStatusEntry    int
	MaxAttributeEntriesPerTarget int
	MaxTargetsPerAutoAssignment  int
}

// transition is the computed effect of one state machine step. The action
// itself is only mutated after the transition has been validated.
type transition struct {
	Status models.ActionState
	Active bool
	// Closed marks the step that takes the action from active to terminal
	Closed bool
	// RecordInstalled is set when a finished update must be reflected in the
	// target's installed distribution set
	RecordInstalled bool
	// Late marks feedback for an already-closed action; no state changes, the
	// ledger append is governed by FeedbackPolicy
	Late bool
}

// applyUpdateFeedback computes the transition for a report on the update
// channel. Informational codes keep the action where it is; finished/error
// close it. A controller may finish an update even while cancellation is
// pending — ignoring the cancellation is the controller's call.
func applyUpdateFeedback(action *models.Action, reported models.FeedbackStatus) (transition, error) {
	if !action.Active {
		return transition{Status: action.Status, Active: false, Late: true}, nil
	}
	switch reported {
	case models.FeedbackRunning, models.FeedbackDownload, models.FeedbackRetrieved, models.FeedbackWarning:
		return transition{Status: action.Status, Active: true}, nil
	case models.FeedbackFinished:
		return transition{Status: models.ActionStateFinished, Closed: true, RecordInstalled: true}, nil
	case models.FeedbackError:
		return transition{Status: models.ActionStateError, Closed: true}, nil
	case models.FeedbackCanceled, models.FeedbackCancelRejected:
		// cancellation outcomes belong on the cancel channel
		return transition{}, utils.ErrInvalidInput
	}
	return transition{}, utils.ErrInvalidInput
}

// applyCancelFeedback computes the transition for a report on the cancel
// channel. The channel is only open while the action is canceling; anything
// else is the controller acknowledging a cancellation that was never requested.
func applyCancelFeedback(action *models.Action, reported models.FeedbackStatus) (transition, error) {
	if action.Status != models.ActionStateCanceling {
		return transition{}, utils.ErrCancelNotAllowed
	}
	switch reported {
	case models.FeedbackRunning, models.FeedbackDownload, models.FeedbackRetrieved, models.FeedbackWarning:
		return transition{Status: models.ActionStateCanceling, Active: true}, nil
	case models.FeedbackFinished, models.FeedbackCanceled:
		// a finished cancellation is a canceled action, whatever code the
		// controller chose to close it with
		return transition{Status: models.ActionStateCanceled, Closed: true}, nil
	case models.FeedbackCancelRejected, models.FeedbackError:
		// cancellation abandoned, the original update resumes
		return transition{Status: models.ActionStateRunning, Active: true}, nil
	}
	return transition{}, utils.ErrInvalidInput
}

// cancelTransition computes the administrative cancel request
func cancelTransition(action *models.Action) (transition, error) {
	if !action.Active {
		return transition{}, utils.ErrActionNotActive
	}
	if action.Status == models.ActionStateCanceling {
		return transition{}, utils.ErrActionAlreadyCanceling
	}
	return transition{Status: models.ActionStateCanceling, Active: true}, nil
}

// forceQuitTransition finalizes an action as canceled without waiting for the
// controller, for controllers known to be unreachable
func forceQuitTransition(action *models.Action) (transition, error) {
	if !action.Active {
		return transition{}, utils.ErrActionNotActive
	}
	return transition{Status: models.ActionStateCanceled, Closed: true}, nil
}

// applyTransition mutates the action according to a validated transition.
// Late transitions leave the action untouched.
func applyTransition(action *models.Action, t transition) {
	if t.Late {
		return
	}
	action.Status = t.Status
	action.Active = t.Active
}
