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

package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/middleware/logger"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/services"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// ActionController defines the interface for action HTTP handlers
type ActionController interface {
	GetAction(w http.ResponseWriter, r *http.Request)
	GetActionStatuses(w http.ResponseWriter, r *http.Request)
	CancelAction(w http.ResponseWriter, r *http.Request)
	ForceQuitAction(w http.ResponseWriter, r *http.Request)
	ForceAction(w http.ResponseWriter, r *http.Request)
}

type actionController struct {
	deploymentMgr services.DeploymentManagerService
}

// NewActionController creates a new action controller instance
func NewActionController(deploymentMgr services.DeploymentManagerService) ActionController {
	return &actionController{
		deploymentMgr: deploymentMgr,
	}
}

// GetAction handles GET /actions/{actionId}
func (c *actionController) GetAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	actionID, ok := parseActionID(w, r)
	if !ok {
		return
	}

	action, err := c.deploymentMgr.GetAction(ctx, actionID)
	if err != nil {
		if errors.Is(err, utils.ErrActionNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Action not found")
			return
		}
		log.Error("Failed to get action", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get action")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, action.ToResponse())
}

// GetActionStatuses handles GET /actions/{actionId}/status
func (c *actionController) GetActionStatuses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	actionID, ok := parseActionID(w, r)
	if !ok {
		return
	}
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	statuses, total, err := c.deploymentMgr.GetActionStatuses(ctx, actionID, limit)
	if err != nil {
		if errors.Is(err, utils.ErrActionNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Action not found")
			return
		}
		log.Error("Failed to get action statuses", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get action statuses")
		return
	}

	response := models.ActionStatusListResponse{
		Statuses: make([]models.ActionStatusResponse, len(statuses)),
		Total:    total,
	}
	for i, status := range statuses {
		response.Statuses[i] = *status.ToResponse()
	}
	utils.WriteSuccessResponse(w, http.StatusOK, response)
}

// CancelAction handles POST /actions/{actionId}/cancel
func (c *actionController) CancelAction(w http.ResponseWriter, r *http.Request) {
	c.handleTransition(w, r, c.deploymentMgr.CancelAction, "cancel")
}

// ForceQuitAction handles POST /actions/{actionId}/forcequit
func (c *actionController) ForceQuitAction(w http.ResponseWriter, r *http.Request) {
	c.handleTransition(w, r, c.deploymentMgr.ForceQuitAction, "force-quit")
}

// ForceAction handles POST /actions/{actionId}/force
func (c *actionController) ForceAction(w http.ResponseWriter, r *http.Request) {
	c.handleTransition(w, r, c.deploymentMgr.ForceTargetAction, "force")
}

func (c *actionController) handleTransition(w http.ResponseWriter, r *http.Request,
	transition func(ctx context.Context, actionID int64) (*models.Action, error), name string) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	actionID, ok := parseActionID(w, r)
	if !ok {
		return
	}

	action, err := transition(ctx, actionID)
	if err != nil {
		if errors.Is(err, utils.ErrActionNotFound) || errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Action not found")
			return
		}
		if errors.Is(err, utils.ErrActionNotActive) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Action is not active")
			return
		}
		if errors.Is(err, utils.ErrActionAlreadyCanceling) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Action is already canceling")
			return
		}
		log.Error("Failed to apply action transition", "transition", name, "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to "+name+" action")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, action.ToResponse())
}
