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
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/wso2/device-update-management-platform/rollout-manager-service/middleware/logger"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/models"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/services"
	"github.com/wso2/device-update-management-platform/rollout-manager-service/utils"
)

// DDIController defines the HTTP handlers of the device-facing protocol
type DDIController interface {
	Poll(w http.ResponseWriter, r *http.Request)
	PutConfigData(w http.ResponseWriter, r *http.Request)
	GetDeploymentBase(w http.ResponseWriter, r *http.Request)
	PostDeploymentFeedback(w http.ResponseWriter, r *http.Request)
	PostInformationalFeedback(w http.ResponseWriter, r *http.Request)
	GetCancelAction(w http.ResponseWriter, r *http.Request)
	PostCancelFeedback(w http.ResponseWriter, r *http.Request)
	GetArtifactAssigned(w http.ResponseWriter, r *http.Request)
}

type ddiController struct {
	controllerService services.ControllerService
}

// NewDDIController creates a new DDI controller instance
func NewDDIController(controllerService services.ControllerService) DDIController {
	return &ddiController{
		controllerService: controllerService,
	}
}

// Poll handles GET /{controllerId}/poll
func (c *ddiController) Poll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")

	resp, err := c.controllerService.PollTarget(ctx, controllerID, r.RemoteAddr)
	if err != nil {
		log.Error("Failed to process poll", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to process poll")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, resp)
}

// PutConfigData handles PUT /{controllerId}/configData
func (c *ddiController) PutConfigData(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")

	var req models.ConfigDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Data) == 0 && req.Mode != models.ConfigDataModeReplace {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Attribute data is required")
		return
	}

	if err := c.controllerService.UpdateControllerAttributes(ctx, controllerID, &req); err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target not found")
			return
		}
		if errors.Is(err, utils.ErrTooManyAttributeEntries) {
			utils.WriteErrorResponse(w, http.StatusForbidden, "Attribute quota exceeded")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid config data mode")
			return
		}
		log.Error("Failed to update controller attributes", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to update controller attributes")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// GetDeploymentBase handles GET /{controllerId}/deploymentBase/{actionId}
func (c *ddiController) GetDeploymentBase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")
	actionID, ok := parseActionID(w, r)
	if !ok {
		return
	}

	resp, err := c.controllerService.GetDeploymentBase(ctx, controllerID, actionID)
	if err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) || errors.Is(err, utils.ErrActionNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Deployment not found")
			return
		}
		log.Error("Failed to get deployment base", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get deployment base")
		return
	}

	// record the fetch; best effort, the deployment view is already built
	if err := c.controllerService.RegisterRetrieved(ctx, controllerID, actionID, "Controller retrieved update action"); err != nil {
		log.Warn("Failed to record deployment retrieval", "error", err)
	}

	utils.WriteSuccessResponse(w, http.StatusOK, resp)
}

// PostDeploymentFeedback handles POST /{controllerId}/deploymentBase/{actionId}/feedback
func (c *ddiController) PostDeploymentFeedback(w http.ResponseWriter, r *http.Request) {
	c.handleFeedback(w, r, c.controllerService.ReportUpdateFeedback)
}

// PostInformationalFeedback handles POST /{controllerId}/actions/{actionId}/informational
func (c *ddiController) PostInformationalFeedback(w http.ResponseWriter, r *http.Request) {
	c.handleFeedback(w, r, c.controllerService.ReportInformational)
}

// GetCancelAction handles GET /{controllerId}/cancelAction/{actionId}
func (c *ddiController) GetCancelAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")
	actionID, ok := parseActionID(w, r)
	if !ok {
		return
	}

	// the cancel view references the action to stop, nothing more
	_, err := c.controllerService.GetDeploymentBase(ctx, controllerID, actionID)
	if err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) || errors.Is(err, utils.ErrActionNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Cancel action not found")
			return
		}
		log.Error("Failed to get cancel action", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to get cancel action")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, &models.DeploymentLink{ActionID: actionID})
}

// PostCancelFeedback handles POST /{controllerId}/cancelAction/{actionId}/feedback
func (c *ddiController) PostCancelFeedback(w http.ResponseWriter, r *http.Request) {
	c.handleFeedback(w, r, c.controllerService.ReportCancelFeedback)
}

// GetArtifactAssigned handles GET /{controllerId}/artifactAssigned/{sha256}
func (c *ddiController) GetArtifactAssigned(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")
	sha256 := r.PathValue("sha256")
	if sha256 == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Artifact hash is required")
		return
	}

	resp, err := c.controllerService.HasArtifactAssigned(ctx, controllerID, sha256)
	if err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Target not found")
			return
		}
		log.Error("Failed to check artifact assignment", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to check artifact assignment")
		return
	}
	utils.WriteSuccessResponse(w, http.StatusOK, resp)
}

// handleFeedback is the shared body of both feedback channels; only the
// reporting function differs.
func (c *ddiController) handleFeedback(w http.ResponseWriter, r *http.Request,
	report func(ctx context.Context, controllerID string, actionID int64, status models.FeedbackStatus, messages []string) error) {
	ctx := r.Context()
	log := logger.GetLogger(ctx)

	controllerID := r.PathValue("controllerId")
	actionID, ok := parseActionID(w, r)
	if !ok {
		return
	}

	var req models.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Failed to parse request body", "error", err)
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	status, err := models.ParseFeedbackStatus(req.Status)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := report(ctx, controllerID, actionID, status, req.Messages); err != nil {
		if errors.Is(err, utils.ErrTargetNotFound) || errors.Is(err, utils.ErrActionNotFound) {
			utils.WriteErrorResponse(w, http.StatusNotFound, "Action not found")
			return
		}
		if errors.Is(err, utils.ErrCancelNotAllowed) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Action is not awaiting cancellation")
			return
		}
		if errors.Is(err, utils.ErrTooManyStatusEntries) || errors.Is(err, utils.ErrTooManyStatusMessages) {
			utils.WriteErrorResponse(w, http.StatusConflict, "Action status quota exceeded")
			return
		}
		if errors.Is(err, utils.ErrInvalidInput) {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Status not allowed on this channel")
			return
		}
		log.Error("Failed to process feedback", "error", err)
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Failed to process feedback")
		return
	}
	w.WriteHeader(http.StatusOK)
}

// parseActionID reads the actionId path value, writing a 400 on failure
func parseActionID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	actionID, err := strconv.ParseInt(r.PathValue("actionId"), 10, 64)
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid action id")
		return 0, false
	}
	return actionID, true
}
